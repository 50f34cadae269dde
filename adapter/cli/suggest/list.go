package suggest

import (
	"fmt"
	"strings"
	"time"

	"github.com/cadencehq/cadence/adapter/cli"
	"github.com/cadencehq/cadence/internal/scheduling/application/queries"
	"github.com/cadencehq/cadence/internal/scheduling/domain"
	"github.com/spf13/cobra"
)

var (
	listStatus string
	listAll    bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List suggestions",
	Long: `List your suggestions, pending ones by default.

Examples:
  cadence suggest list                 # Pending suggestions
  cadence suggest list --all           # Everything, newest first
  cadence suggest list --status accepted`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetSuggestionsHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		query := queries.GetSuggestionsQuery{
			UserID: app.CurrentUserID,
		}
		if !listAll {
			status := domain.SuggestionPending
			if listStatus != "" {
				status = domain.SuggestionStatus(listStatus)
			}
			query.Status = &status
		}

		suggestions, err := app.GetSuggestionsHandler.Handle(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("failed to list suggestions: %w", err)
		}

		if len(suggestions) == 0 {
			fmt.Println("No suggestions found.")
			return nil
		}

		fmt.Printf("Suggestions (%d):\n", len(suggestions))
		fmt.Println(strings.Repeat("-", 60))
		for _, s := range suggestions {
			printSuggestion(s)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "filter by status (pending, accepted, rejected, dismissed)")
	listCmd.Flags().BoolVar(&listAll, "all", false, "show suggestions in every status")
}

func printSuggestion(s *domain.ScheduleSuggestion) {
	fmt.Printf("[%s] %s (%.0f%%)\n", s.Status, s.Type, s.Confidence*100)
	fmt.Printf("   ID: %s\n", s.ID.String()[:8])
	fmt.Printf("   Task: %s\n", s.TaskID.String()[:8])
	fmt.Printf("   %s\n", s.Reason)
	if r, ok := s.SuggestedRange(); ok {
		fmt.Printf("   Proposed: %s - %s\n",
			r.Start.Local().Format("Mon Jan 2 15:04"),
			r.End.Local().Format("15:04"),
		)
	}
	if s.Status == domain.SuggestionPending {
		fmt.Printf("   Expires: %s\n", s.ExpiresAt.Local().Format(time.RFC822))
	}
	fmt.Println()
}

package suggest

import (
	"fmt"

	"github.com/cadencehq/cadence/adapter/cli"
	"github.com/cadencehq/cadence/internal/scheduling/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var acceptCmd = &cobra.Command{
	Use:   "accept [suggestion-id]",
	Short: "Accept a suggestion",
	Long: `Accept a pending suggestion. When it proposes a new time the task
is rescheduled in the same step.

Examples:
  cadence suggest accept 550e8400-e29b-41d4-a716-446655440000`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.AcceptSuggestionHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		suggestionID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid suggestion ID: %w", err)
		}

		acceptCmd := commands.AcceptSuggestionCommand{
			SuggestionID: suggestionID,
			UserID:       app.CurrentUserID,
		}

		suggestion, err := app.AcceptSuggestionHandler.Handle(cmd.Context(), acceptCmd)
		if err != nil {
			return fmt.Errorf("failed to accept suggestion: %w", err)
		}

		fmt.Printf("Suggestion accepted: %s\n", suggestionID)
		if r, ok := suggestion.SuggestedRange(); ok {
			fmt.Printf("Task rescheduled to %s - %s\n",
				r.Start.Local().Format("Mon Jan 2 15:04"),
				r.End.Local().Format("15:04"),
			)
		}
		return nil
	},
}

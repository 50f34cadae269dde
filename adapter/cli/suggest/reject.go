package suggest

import (
	"fmt"

	"github.com/cadencehq/cadence/adapter/cli"
	"github.com/cadencehq/cadence/internal/scheduling/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var rejectCmd = &cobra.Command{
	Use:   "reject [suggestion-id]",
	Short: "Reject a suggestion",
	Long: `Reject a pending suggestion. The task keeps its current schedule.

Examples:
  cadence suggest reject 550e8400-e29b-41d4-a716-446655440000`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.RejectSuggestionHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		suggestionID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid suggestion ID: %w", err)
		}

		rejectCmd := commands.RejectSuggestionCommand{
			SuggestionID: suggestionID,
			UserID:       app.CurrentUserID,
		}

		if _, err := app.RejectSuggestionHandler.Handle(cmd.Context(), rejectCmd); err != nil {
			return fmt.Errorf("failed to reject suggestion: %w", err)
		}

		fmt.Printf("Suggestion rejected: %s\n", suggestionID)
		return nil
	},
}

package suggest

import (
	"fmt"

	"github.com/cadencehq/cadence/adapter/cli"
	"github.com/cadencehq/cadence/internal/scheduling/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var dismissCmd = &cobra.Command{
	Use:   "dismiss [suggestion-id]",
	Short: "Dismiss a suggestion",
	Long: `Silently discard a pending suggestion without acting on it.

Examples:
  cadence suggest dismiss 550e8400-e29b-41d4-a716-446655440000`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.DismissSuggestionHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		suggestionID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid suggestion ID: %w", err)
		}

		dismissCmd := commands.DismissSuggestionCommand{
			SuggestionID: suggestionID,
			UserID:       app.CurrentUserID,
		}

		if _, err := app.DismissSuggestionHandler.Handle(cmd.Context(), dismissCmd); err != nil {
			return fmt.Errorf("failed to dismiss suggestion: %w", err)
		}

		fmt.Printf("Suggestion dismissed: %s\n", suggestionID)
		return nil
	},
}

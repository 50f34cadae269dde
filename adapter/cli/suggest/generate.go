package suggest

import (
	"fmt"

	"github.com/cadencehq/cadence/adapter/cli"
	"github.com/cadencehq/cadence/internal/scheduling/application/commands"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate suggestions for your open tasks",
	Long: `Run all heuristics across your open tasks and calendar and store
any suggestions that clear the confidence bar.

Examples:
  cadence suggest generate`,
	Aliases: []string{"gen"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GenerateSuggestionsHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		genCmd := commands.GenerateSuggestionsCommand{
			UserID: app.CurrentUserID,
		}

		suggestions, err := app.GenerateSuggestionsHandler.Handle(cmd.Context(), genCmd)
		if err != nil {
			return fmt.Errorf("failed to generate suggestions: %w", err)
		}

		if len(suggestions) == 0 {
			fmt.Println("No new suggestions.")
			return nil
		}

		fmt.Printf("Generated %d suggestion(s):\n\n", len(suggestions))
		for _, s := range suggestions {
			printSuggestion(s)
		}
		return nil
	},
}

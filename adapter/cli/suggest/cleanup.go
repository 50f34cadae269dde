package suggest

import (
	"fmt"

	"github.com/cadencehq/cadence/adapter/cli"
	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Dismiss expired suggestions",
	Long: `Sweep pending suggestions past their expiration and mark them
dismissed. The worker runs this on a schedule; the command exists for
one-off runs.

Examples:
  cadence suggest cleanup`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CleanupExpiredHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		dismissed, err := app.CleanupExpiredHandler.Handle(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to clean up suggestions: %w", err)
		}

		if dismissed == 0 {
			fmt.Println("Nothing to clean up.")
			return nil
		}
		fmt.Printf("Dismissed %d expired suggestion(s).\n", dismissed)
		return nil
	},
}

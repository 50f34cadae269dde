package suggest

import (
	"github.com/spf13/cobra"
)

// Cmd is the suggestion command group
var Cmd = &cobra.Command{
	Use:   "suggest",
	Short: "Manage schedule suggestions",
	Long:  `Generate, list, and respond to reschedule suggestions.`,
}

func init() {
	Cmd.AddCommand(generateCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(acceptCmd)
	Cmd.AddCommand(rejectCmd)
	Cmd.AddCommand(dismissCmd)
	Cmd.AddCommand(cleanupCmd)
}

package settings

import (
	"github.com/spf13/cobra"
)

// Cmd is the settings command group
var Cmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage scheduling preferences",
	Long:  `View and change the preferences that drive suggestion generation.`,
}

func init() {
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(setCmd)
}

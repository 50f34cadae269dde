package settings

import (
	"fmt"

	"github.com/cadencehq/cadence/adapter/cli"
	"github.com/spf13/cobra"
)

var (
	workStart         int
	workEnd           int
	bufferMinutes     int
	minBreak          int
	maxConsecutive    int
	enforceBreaks     string
	enableSuggestions string
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Change scheduling preferences",
	Long: `Change one or more scheduling preferences. Unset flags keep their
current value.

Examples:
  cadence settings set --work-start 8 --work-end 16
  cadence settings set --suggestions false
  cadence settings set --breaks true --min-break 20`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.SettingsRepo == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		ctx := cmd.Context()
		settings, _, err := app.SettingsRepo.GetOrCreate(ctx, app.CurrentUserID)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		if cmd.Flags().Changed("work-start") {
			settings.WorkHourStart = workStart
		}
		if cmd.Flags().Changed("work-end") {
			settings.WorkHourEnd = workEnd
		}
		if settings.WorkHourStart < 0 || settings.WorkHourEnd > 24 ||
			settings.WorkHourStart >= settings.WorkHourEnd {
			return fmt.Errorf("invalid work hours: %d-%d", settings.WorkHourStart, settings.WorkHourEnd)
		}
		if cmd.Flags().Changed("buffer") {
			settings.BufferMinutes = bufferMinutes
		}
		if cmd.Flags().Changed("min-break") {
			settings.MinBreakMinutes = minBreak
		}
		if cmd.Flags().Changed("max-consecutive") {
			settings.MaxConsecutiveHours = maxConsecutive
		}
		if cmd.Flags().Changed("breaks") {
			v, err := parseBool(enforceBreaks)
			if err != nil {
				return fmt.Errorf("invalid --breaks value: %w", err)
			}
			settings.EnforceBreaks = v
		}
		if cmd.Flags().Changed("suggestions") {
			v, err := parseBool(enableSuggestions)
			if err != nil {
				return fmt.Errorf("invalid --suggestions value: %w", err)
			}
			settings.EnableSuggestions = v
		}

		if err := app.SettingsRepo.Update(ctx, settings); err != nil {
			return fmt.Errorf("failed to update settings: %w", err)
		}

		fmt.Println("Settings updated.")
		return nil
	},
}

func init() {
	setCmd.Flags().IntVar(&workStart, "work-start", 0, "first working hour (0-23)")
	setCmd.Flags().IntVar(&workEnd, "work-end", 0, "hour the work day ends (1-24)")
	setCmd.Flags().IntVar(&bufferMinutes, "buffer", 0, "buffer between scheduled items in minutes")
	setCmd.Flags().IntVar(&minBreak, "min-break", 0, "minimum break between tasks in minutes")
	setCmd.Flags().IntVar(&maxConsecutive, "max-consecutive", 0, "maximum consecutive work hours")
	setCmd.Flags().StringVar(&enforceBreaks, "breaks", "", "enforce breaks (true/false)")
	setCmd.Flags().StringVar(&enableSuggestions, "suggestions", "", "enable suggestion generation (true/false)")
}

func parseBool(v string) (bool, error) {
	switch v {
	case "true", "yes", "on":
		return true, nil
	case "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("expected true or false, got %q", v)
}

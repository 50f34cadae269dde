package settings

import (
	"fmt"
	"strings"
	"time"

	"github.com/cadencehq/cadence/adapter/cli"
	"github.com/cadencehq/cadence/internal/scheduling/domain"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current scheduling preferences",
	Long: `Show your scheduling preferences. Defaults are created on first use.

Examples:
  cadence settings show`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.SettingsRepo == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		settings, created, err := app.SettingsRepo.GetOrCreate(cmd.Context(), app.CurrentUserID)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		if created {
			fmt.Println("No settings found, created defaults.")
			fmt.Println()
		}

		fmt.Printf("Work hours:        %02d:00 - %02d:00\n", settings.WorkHourStart, settings.WorkHourEnd)
		fmt.Printf("Work days:         %s\n", formatWorkDays(settings.WorkDays))
		fmt.Printf("Buffer:            %d min\n", settings.BufferMinutes)
		fmt.Printf("High energy:       %s\n", formatWindow(settings.HighEnergyWindow))
		fmt.Printf("Medium energy:     %s\n", formatWindow(settings.MediumEnergyWindow))
		fmt.Printf("Low energy:        %s\n", formatWindow(settings.LowEnergyWindow))
		fmt.Printf("Enforce breaks:    %t (min %d min, max %dh consecutive)\n",
			settings.EnforceBreaks, settings.MinBreakMinutes, settings.MaxConsecutiveHours)
		fmt.Printf("Suggestions:       %t\n", settings.EnableSuggestions)
		fmt.Printf("Watched calendars: %d\n", len(settings.SelectedCalendarIDs))
		return nil
	},
}

func formatWorkDays(days []time.Weekday) string {
	if len(days) == 0 {
		return "none"
	}
	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, d.String()[:3])
	}
	return strings.Join(names, ", ")
}

func formatWindow(w domain.EnergyWindow) string {
	if w.StartHour == nil || w.EndHour == nil {
		return "unset"
	}
	return fmt.Sprintf("%02d:00 - %02d:00", *w.StartHour, *w.EndHour)
}

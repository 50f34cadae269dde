package domain

// EnergyLevel represents an expected or required productivity tier.
type EnergyLevel string

const (
	EnergyHigh   EnergyLevel = "high"
	EnergyMedium EnergyLevel = "medium"
	EnergyLow    EnergyLevel = "low"
	// EnergyNone means no window covers the hour, or a task has no
	// energy requirement.
	EnergyNone EnergyLevel = ""
)

// EnergyWindow is an optional per-user hour-of-day range labeled with a tier.
// Both bounds must be set for the window to apply.
type EnergyWindow struct {
	StartHour *int
	EndHour   *int
}

// Contains reports whether hour falls within [StartHour, EndHour).
// Unset windows contain nothing.
func (w EnergyWindow) Contains(hour int) bool {
	if w.StartHour == nil || w.EndHour == nil {
		return false
	}
	return hour >= *w.StartHour && hour < *w.EndHour
}

// ExpectedEnergy maps an hour-of-day to the user's configured energy tier.
// Windows are checked high, then medium, then low, so high wins when a
// misconfigured user overlaps windows.
func ExpectedEnergy(hour int, settings *AutoScheduleSettings) EnergyLevel {
	if settings == nil {
		return EnergyNone
	}
	if settings.HighEnergyWindow.Contains(hour) {
		return EnergyHigh
	}
	if settings.MediumEnergyWindow.Contains(hour) {
		return EnergyMedium
	}
	if settings.LowEnergyWindow.Contains(hour) {
		return EnergyLow
	}
	return EnergyNone
}

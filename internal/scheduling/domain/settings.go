package domain

import (
	"time"

	"github.com/google/uuid"
)

// Default work-day parameters applied when a user has no stored settings.
const (
	DefaultWorkHourStart       = 9
	DefaultWorkHourEnd         = 17
	DefaultBufferMinutes       = 15
	DefaultMinBreakMinutes     = 15
	DefaultMaxConsecutiveHours = 4
)

// AutoScheduleSettings holds a user's scheduling preferences. Read-mostly:
// loaded at the start of every generation run, updated elsewhere.
type AutoScheduleSettings struct {
	ID     uuid.UUID
	UserID uuid.UUID

	WorkDays      []time.Weekday
	WorkHourStart int
	WorkHourEnd   int
	BufferMinutes int

	HighEnergyWindow   EnergyWindow
	MediumEnergyWindow EnergyWindow
	LowEnergyWindow    EnergyWindow

	EnforceBreaks       bool
	MinBreakMinutes     int
	MaxConsecutiveHours int

	EnableSuggestions   bool
	SelectedCalendarIDs []uuid.UUID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultSettings returns the settings created lazily on a user's first run.
func DefaultSettings(userID uuid.UUID) *AutoScheduleSettings {
	now := time.Now().UTC()
	high := EnergyWindow{StartHour: intPtr(9), EndHour: intPtr(12)}
	medium := EnergyWindow{StartHour: intPtr(13), EndHour: intPtr(16)}
	low := EnergyWindow{StartHour: intPtr(16), EndHour: intPtr(17)}

	return &AutoScheduleSettings{
		ID:     uuid.New(),
		UserID: userID,
		WorkDays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		},
		WorkHourStart:       DefaultWorkHourStart,
		WorkHourEnd:         DefaultWorkHourEnd,
		BufferMinutes:       DefaultBufferMinutes,
		HighEnergyWindow:    high,
		MediumEnergyWindow:  medium,
		LowEnergyWindow:     low,
		EnforceBreaks:       true,
		MinBreakMinutes:     DefaultMinBreakMinutes,
		MaxConsecutiveHours: DefaultMaxConsecutiveHours,
		EnableSuggestions:   true,
		SelectedCalendarIDs: []uuid.UUID{},
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// MinBreak returns the minimum break between work spans as a duration.
func (s *AutoScheduleSettings) MinBreak() time.Duration {
	return time.Duration(s.MinBreakMinutes) * time.Minute
}

func intPtr(v int) *int { return &v }

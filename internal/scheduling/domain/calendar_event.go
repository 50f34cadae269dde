package domain

import (
	"time"

	"github.com/google/uuid"
)

// CalendarEvent is an immovable commitment from one of the user's selected
// calendar feeds. Read-only to the engine; used purely as a conflict source.
type CalendarEvent struct {
	ID         uuid.UUID
	CalendarID uuid.UUID
	Title      string
	Start      time.Time
	End        time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Range returns the event's interval.
func (e CalendarEvent) Range() TimeRange {
	return TimeRange{Start: e.Start, End: e.End}
}

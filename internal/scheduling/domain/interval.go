// Package domain implements the reschedule suggestion engine: interval math,
// energy classification, slot enumeration, conflict detection, the heuristic
// evaluators, and the suggestion lifecycle.
package domain

import "time"

// TimeRange represents a half-open time interval [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange creates a time range from explicit bounds.
func NewTimeRange(start, end time.Time) TimeRange {
	return TimeRange{Start: start, End: end}
}

// Overlaps checks if two time ranges overlap. Touching ranges do not.
func (t TimeRange) Overlaps(other TimeRange) bool {
	return t.Start.Before(other.End) && other.Start.Before(t.End)
}

// Duration returns the duration of the time range.
func (t TimeRange) Duration() time.Duration {
	return t.End.Sub(t.Start)
}

// StartHour returns the hour-of-day the range begins in.
func (t TimeRange) StartHour() int {
	return t.Start.Hour()
}

// SameDay reports whether both bounds fall on the same calendar day as ref.
func (t TimeRange) SameDay(ref time.Time) bool {
	y1, m1, d1 := t.Start.Date()
	y2, m2, d2 := ref.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// dayStart returns midnight of the day t falls on, in t's location.
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

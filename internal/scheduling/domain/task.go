package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the task lifecycle state.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// DefaultTaskDuration applies when a task has no duration estimate.
const DefaultTaskDuration = 60 * time.Minute

// Task is the engine's read/write collaborator entity. The engine never
// creates or deletes tasks; it only writes the scheduled interval and the
// auto-scheduled flag when a suggestion is accepted.
type Task struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Title           string
	Status          TaskStatus
	DueDate         *time.Time
	DurationMinutes *int
	EnergyLevel     EnergyLevel
	ScheduledStart  *time.Time
	ScheduledEnd    *time.Time
	AutoScheduled   bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsOpen reports whether the task belongs to the engine's working set.
func (t *Task) IsOpen() bool {
	return t.Status != TaskStatusDone
}

// IsScheduled reports whether the task has a scheduled interval.
func (t *Task) IsScheduled() bool {
	return t.ScheduledStart != nil && t.ScheduledEnd != nil
}

// ScheduledRange returns the task's scheduled interval, if any.
func (t *Task) ScheduledRange() (TimeRange, bool) {
	if !t.IsScheduled() {
		return TimeRange{}, false
	}
	return TimeRange{Start: *t.ScheduledStart, End: *t.ScheduledEnd}, true
}

// EstimatedDuration returns the task's duration estimate, defaulting to one
// hour when absent.
func (t *Task) EstimatedDuration() time.Duration {
	if t.DurationMinutes == nil {
		return DefaultTaskDuration
	}
	return time.Duration(*t.DurationMinutes) * time.Minute
}

// ApplySchedule writes a new scheduled interval onto the task and marks it
// auto-scheduled. Called only when a suggestion is accepted.
func (t *Task) ApplySchedule(r TimeRange) {
	start := r.Start
	end := r.End
	t.ScheduledStart = &start
	t.ScheduledEnd = &end
	t.AutoScheduled = true
	t.UpdatedAt = time.Now().UTC()
}

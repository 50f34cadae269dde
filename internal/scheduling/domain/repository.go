package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TaskRepository reads the user's tasks and writes back accepted schedules.
type TaskRepository interface {
	// FindOpenByUser retrieves all non-completed tasks for a user.
	FindOpenByUser(ctx context.Context, userID uuid.UUID) ([]*Task, error)

	// FindByID retrieves a task by ID scoped to the owning user.
	// Returns nil when the task does not exist or belongs to another user.
	FindByID(ctx context.Context, id, userID uuid.UUID) (*Task, error)

	// UpdateSchedule persists the task's scheduled interval and
	// auto-scheduled flag.
	UpdateSchedule(ctx context.Context, task *Task) error

	// UserIDsWithOpenTasks lists users the batch generator should visit.
	UserIDsWithOpenTasks(ctx context.Context) ([]uuid.UUID, error)
}

// CalendarEventRepository reads fixed commitments for conflict checks.
type CalendarEventRepository interface {
	// FindByCalendarsInRange retrieves events on the given calendars that
	// overlap [start, end).
	FindByCalendarsInRange(ctx context.Context, calendarIDs []uuid.UUID, start, end time.Time) ([]CalendarEvent, error)
}

// SettingsRepository manages per-user scheduling preferences.
type SettingsRepository interface {
	// GetOrCreate loads the user's settings, creating defaults when none
	// exist. The bool is true when defaults were just created.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*AutoScheduleSettings, bool, error)

	// Update persists changed settings.
	Update(ctx context.Context, settings *AutoScheduleSettings) error
}

// SuggestionRepository persists the engine-owned suggestion records.
type SuggestionRepository interface {
	// Create persists a new suggestion. All-or-nothing per suggestion.
	Create(ctx context.Context, s *ScheduleSuggestion) error

	// FindByID retrieves a suggestion by ID. Returns nil when not found.
	FindByID(ctx context.Context, id uuid.UUID) (*ScheduleSuggestion, error)

	// FindByUser retrieves a user's suggestions, optionally filtered by
	// status, newest first.
	FindByUser(ctx context.Context, userID uuid.UUID, status *SuggestionStatus) ([]*ScheduleSuggestion, error)

	// CountPending returns the number of pending suggestions for a user.
	CountPending(ctx context.Context, userID uuid.UUID) (int, error)

	// HasPendingForTask reports whether a pending suggestion of the given
	// type already exists for the task.
	HasPendingForTask(ctx context.Context, userID, taskID uuid.UUID, t SuggestionType) (bool, error)

	// UpdateStatus persists a lifecycle transition.
	UpdateStatus(ctx context.Context, s *ScheduleSuggestion) error

	// FindExpiredPending retrieves pending suggestions whose expiration
	// has passed.
	FindExpiredPending(ctx context.Context, now time.Time) ([]*ScheduleSuggestion, error)
}

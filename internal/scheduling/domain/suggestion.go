package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrSuggestionNotFound covers both a missing suggestion and one owned
	// by another user, so callers cannot probe for existence.
	ErrSuggestionNotFound = errors.New("suggestion not found")
	// ErrSuggestionAlreadyResponded is returned when a transition is
	// attempted on a suggestion already in a terminal state.
	ErrSuggestionAlreadyResponded = errors.New("suggestion has already been responded to")
	// ErrTaskNotFound is returned when an accepted suggestion references a
	// task that no longer exists for the user.
	ErrTaskNotFound = errors.New("task not found")
)

// SuggestionType identifies which heuristic produced a suggestion.
type SuggestionType string

const (
	SuggestionConflict          SuggestionType = "conflict"
	SuggestionDeadlineProximity SuggestionType = "deadline_proximity"
	SuggestionEnergyMismatch    SuggestionType = "energy_mismatch"
	SuggestionOverload          SuggestionType = "overload"
	SuggestionBreakViolation    SuggestionType = "break_violation"
)

// SuggestionStatus represents the suggestion lifecycle state.
// Pending is the only non-terminal state.
type SuggestionStatus string

const (
	SuggestionPending   SuggestionStatus = "pending"
	SuggestionAccepted  SuggestionStatus = "accepted"
	SuggestionRejected  SuggestionStatus = "rejected"
	SuggestionDismissed SuggestionStatus = "dismissed"
)

const (
	// PendingSuggestionCap bounds the active queue per user. Enforced by
	// the orchestrator at creation, not by a database constraint.
	PendingSuggestionCap = 5
	// MinConfidence is the floor below which candidates are discarded.
	MinConfidence = 0.6
	// SuggestionTTL is how long a suggestion stays actionable.
	SuggestionTTL = 24 * time.Hour
)

// ScheduleSuggestion is a persisted, time-boxed recommendation to change or
// flag a task's schedule.
type ScheduleSuggestion struct {
	ID     uuid.UUID
	UserID uuid.UUID
	TaskID uuid.UUID

	Type       SuggestionType
	Reason     string
	Confidence float64

	// Snapshot of the task's interval at generation time.
	CurrentStart *time.Time
	CurrentEnd   *time.Time

	SuggestedStart *time.Time
	SuggestedEnd   *time.Time

	Status      SuggestionStatus
	CreatedAt   time.Time
	ExpiresAt   time.Time
	RespondedAt *time.Time
	UpdatedAt   time.Time
}

// NewSuggestion builds a pending suggestion for a task from an evaluator
// candidate, snapshotting the task's current interval.
func NewSuggestion(task *Task, c Candidate, now time.Time) *ScheduleSuggestion {
	s := &ScheduleSuggestion{
		ID:         uuid.New(),
		UserID:     task.UserID,
		TaskID:     task.ID,
		Type:       c.Type,
		Reason:     c.Reason,
		Confidence: c.Confidence,
		Status:     SuggestionPending,
		CreatedAt:  now,
		ExpiresAt:  now.Add(SuggestionTTL),
		UpdatedAt:  now,
	}

	if current, ok := task.ScheduledRange(); ok {
		start, end := current.Start, current.End
		s.CurrentStart = &start
		s.CurrentEnd = &end
	}
	if c.Slot != nil {
		start, end := c.Slot.Start, c.Slot.End
		s.SuggestedStart = &start
		s.SuggestedEnd = &end
	}

	return s
}

// IsPending reports whether the suggestion can still be acted on.
func (s *ScheduleSuggestion) IsPending() bool {
	return s.Status == SuggestionPending
}

// IsExpired reports whether the suggestion's expiration has passed.
func (s *ScheduleSuggestion) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// SuggestedRange returns the proposed interval, if the heuristic proposed one.
func (s *ScheduleSuggestion) SuggestedRange() (TimeRange, bool) {
	if s.SuggestedStart == nil || s.SuggestedEnd == nil {
		return TimeRange{}, false
	}
	return TimeRange{Start: *s.SuggestedStart, End: *s.SuggestedEnd}, true
}

// Accept transitions the suggestion to accepted.
func (s *ScheduleSuggestion) Accept(now time.Time) error {
	return s.respond(SuggestionAccepted, now)
}

// Reject transitions the suggestion to rejected.
func (s *ScheduleSuggestion) Reject(now time.Time) error {
	return s.respond(SuggestionRejected, now)
}

// Dismiss transitions the suggestion to dismissed.
func (s *ScheduleSuggestion) Dismiss(now time.Time) error {
	return s.respond(SuggestionDismissed, now)
}

// MarkExpired moves an unanswered pending suggestion to dismissed without
// recording a response timestamp. Used by the cleanup sweep.
func (s *ScheduleSuggestion) MarkExpired(now time.Time) error {
	if !s.IsPending() {
		return ErrSuggestionAlreadyResponded
	}
	s.Status = SuggestionDismissed
	s.UpdatedAt = now
	return nil
}

func (s *ScheduleSuggestion) respond(status SuggestionStatus, now time.Time) error {
	if !s.IsPending() {
		return ErrSuggestionAlreadyResponded
	}
	s.Status = status
	s.RespondedAt = &now
	s.UpdatedAt = now
	return nil
}

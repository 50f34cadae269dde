package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/cadencehq/cadence/internal/scheduling/domain"
	"github.com/cadencehq/cadence/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// RejectSuggestionCommand declines a suggestion without touching the task.
type RejectSuggestionCommand struct {
	SuggestionID uuid.UUID
	UserID       uuid.UUID
}

// DismissSuggestionCommand silently discards a suggestion.
type DismissSuggestionCommand struct {
	SuggestionID uuid.UUID
	UserID       uuid.UUID
}

// RejectSuggestionHandler handles the RejectSuggestionCommand.
type RejectSuggestionHandler struct {
	responder
}

// NewRejectSuggestionHandler creates a new RejectSuggestionHandler.
func NewRejectSuggestionHandler(suggestionRepo domain.SuggestionRepository, publisher eventbus.Publisher, logger *slog.Logger) *RejectSuggestionHandler {
	return &RejectSuggestionHandler{responder: newResponder(suggestionRepo, publisher, logger)}
}

// Handle executes the RejectSuggestionCommand.
func (h *RejectSuggestionHandler) Handle(ctx context.Context, cmd RejectSuggestionCommand) (*domain.ScheduleSuggestion, error) {
	return h.respond(ctx, cmd.SuggestionID, cmd.UserID, (*domain.ScheduleSuggestion).Reject, EventSuggestionRejected)
}

// DismissSuggestionHandler handles the DismissSuggestionCommand.
type DismissSuggestionHandler struct {
	responder
}

// NewDismissSuggestionHandler creates a new DismissSuggestionHandler.
func NewDismissSuggestionHandler(suggestionRepo domain.SuggestionRepository, publisher eventbus.Publisher, logger *slog.Logger) *DismissSuggestionHandler {
	return &DismissSuggestionHandler{responder: newResponder(suggestionRepo, publisher, logger)}
}

// Handle executes the DismissSuggestionCommand.
func (h *DismissSuggestionHandler) Handle(ctx context.Context, cmd DismissSuggestionCommand) (*domain.ScheduleSuggestion, error) {
	return h.respond(ctx, cmd.SuggestionID, cmd.UserID, (*domain.ScheduleSuggestion).Dismiss, EventSuggestionDismissed)
}

// responder implements the shared reject/dismiss flow: load, verify
// ownership, transition, persist. Neither touches the task, so no unit of
// work is required; the single status update is atomic on its own.
type responder struct {
	suggestionRepo domain.SuggestionRepository
	publisher      eventbus.Publisher
	logger         *slog.Logger
	now            func() time.Time
}

func newResponder(suggestionRepo domain.SuggestionRepository, publisher eventbus.Publisher, logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{
		suggestionRepo: suggestionRepo,
		publisher:      publisher,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (r *responder) respond(
	ctx context.Context,
	suggestionID, userID uuid.UUID,
	transition func(*domain.ScheduleSuggestion, time.Time) error,
	eventKey string,
) (*domain.ScheduleSuggestion, error) {
	suggestion, err := loadOwnedSuggestion(ctx, r.suggestionRepo, suggestionID, userID)
	if err != nil {
		return nil, err
	}

	if err := transition(suggestion, r.now()); err != nil {
		return nil, err
	}

	if err := r.suggestionRepo.UpdateStatus(ctx, suggestion); err != nil {
		return nil, err
	}

	publishEvent(ctx, r.publisher, r.logger, eventKey, map[string]any{
		"suggestion_id": suggestion.ID,
		"user_id":       userID,
		"task_id":       suggestion.TaskID,
		"type":          suggestion.Type,
	})

	r.logger.Info("suggestion responded",
		"suggestion_id", suggestion.ID,
		"user_id", userID,
		"status", suggestion.Status,
	)

	return suggestion, nil
}

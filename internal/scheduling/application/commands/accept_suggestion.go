package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/cadencehq/cadence/internal/scheduling/domain"
	sharedApplication "github.com/cadencehq/cadence/internal/shared/application"
	"github.com/cadencehq/cadence/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// AcceptSuggestionCommand applies a suggestion to its task.
type AcceptSuggestionCommand struct {
	SuggestionID uuid.UUID
	UserID       uuid.UUID
}

// AcceptSuggestionHandler handles the AcceptSuggestionCommand. The status
// update and the task's schedule write commit in one transaction: a partial
// application would violate the suggestion lifecycle invariant.
type AcceptSuggestionHandler struct {
	suggestionRepo domain.SuggestionRepository
	taskRepo       domain.TaskRepository
	uow            sharedApplication.UnitOfWork
	publisher      eventbus.Publisher
	logger         *slog.Logger
	now            func() time.Time
}

// NewAcceptSuggestionHandler creates a new AcceptSuggestionHandler.
func NewAcceptSuggestionHandler(
	suggestionRepo domain.SuggestionRepository,
	taskRepo domain.TaskRepository,
	uow sharedApplication.UnitOfWork,
	publisher eventbus.Publisher,
	logger *slog.Logger,
) *AcceptSuggestionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AcceptSuggestionHandler{
		suggestionRepo: suggestionRepo,
		taskRepo:       taskRepo,
		uow:            uow,
		publisher:      publisher,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Handle executes the AcceptSuggestionCommand.
func (h *AcceptSuggestionHandler) Handle(ctx context.Context, cmd AcceptSuggestionCommand) (*domain.ScheduleSuggestion, error) {
	var suggestion *domain.ScheduleSuggestion

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		var err error
		suggestion, err = loadOwnedSuggestion(txCtx, h.suggestionRepo, cmd.SuggestionID, cmd.UserID)
		if err != nil {
			return err
		}

		if err := suggestion.Accept(h.now()); err != nil {
			return err
		}

		if proposed, ok := suggestion.SuggestedRange(); ok {
			task, err := h.taskRepo.FindByID(txCtx, suggestion.TaskID, cmd.UserID)
			if err != nil {
				return err
			}
			if task == nil {
				return domain.ErrTaskNotFound
			}
			task.ApplySchedule(proposed)
			if err := h.taskRepo.UpdateSchedule(txCtx, task); err != nil {
				return err
			}
		}

		return h.suggestionRepo.UpdateStatus(txCtx, suggestion)
	})
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, h.publisher, h.logger, EventSuggestionAccepted, map[string]any{
		"suggestion_id": suggestion.ID,
		"user_id":       cmd.UserID,
		"task_id":       suggestion.TaskID,
		"type":          suggestion.Type,
	})

	h.logger.Info("suggestion accepted",
		"suggestion_id", suggestion.ID,
		"user_id", cmd.UserID,
		"task_id", suggestion.TaskID,
	)

	return suggestion, nil
}

// loadOwnedSuggestion retrieves a suggestion and verifies ownership. Missing
// and foreign suggestions are indistinguishable to the caller.
func loadOwnedSuggestion(ctx context.Context, repo domain.SuggestionRepository, id, userID uuid.UUID) (*domain.ScheduleSuggestion, error) {
	suggestion, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if suggestion == nil || suggestion.UserID != userID {
		return nil, domain.ErrSuggestionNotFound
	}
	return suggestion, nil
}

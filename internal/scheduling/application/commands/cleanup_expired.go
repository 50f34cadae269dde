package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/cadencehq/cadence/internal/scheduling/domain"
	"github.com/cadencehq/cadence/internal/shared/infrastructure/eventbus"
)

// CleanupExpiredHandler dismisses pending suggestions whose expiration has
// passed. Run periodically alongside generation.
type CleanupExpiredHandler struct {
	suggestionRepo domain.SuggestionRepository
	publisher      eventbus.Publisher
	logger         *slog.Logger
	now            func() time.Time
}

// NewCleanupExpiredHandler creates a new CleanupExpiredHandler.
func NewCleanupExpiredHandler(suggestionRepo domain.SuggestionRepository, publisher eventbus.Publisher, logger *slog.Logger) *CleanupExpiredHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CleanupExpiredHandler{
		suggestionRepo: suggestionRepo,
		publisher:      publisher,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Handle sweeps expired pending suggestions and returns how many were
// dismissed. A failure on one suggestion does not stop the sweep.
func (h *CleanupExpiredHandler) Handle(ctx context.Context) (int, error) {
	now := h.now()

	expired, err := h.suggestionRepo.FindExpiredPending(ctx, now)
	if err != nil {
		return 0, err
	}

	dismissed := 0
	for _, suggestion := range expired {
		if err := suggestion.MarkExpired(now); err != nil {
			continue
		}
		if err := h.suggestionRepo.UpdateStatus(ctx, suggestion); err != nil {
			h.logger.Error("failed to dismiss expired suggestion",
				"suggestion_id", suggestion.ID,
				"error", err,
			)
			continue
		}
		dismissed++
	}

	if dismissed > 0 {
		publishEvent(ctx, h.publisher, h.logger, EventSuggestionsExpired, map[string]any{
			"count": dismissed,
		})
	}

	h.logger.Info("expired suggestion cleanup completed",
		"expired", len(expired),
		"dismissed", dismissed,
	)

	return dismissed, nil
}

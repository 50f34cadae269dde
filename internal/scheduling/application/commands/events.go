// Package commands contains the write-side handlers of the suggestion engine.
package commands

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/cadencehq/cadence/internal/shared/infrastructure/eventbus"
)

// Routing keys for suggestion lifecycle events.
const (
	EventSuggestionsGenerated = "suggestions.generated"
	EventSuggestionAccepted   = "suggestion.accepted"
	EventSuggestionRejected   = "suggestion.rejected"
	EventSuggestionDismissed  = "suggestion.dismissed"
	EventSuggestionsExpired   = "suggestions.expired"
)

// publishEvent publishes a lifecycle event best-effort: a broker failure is
// logged but never fails the command that already committed.
func publishEvent(ctx context.Context, pub eventbus.Publisher, logger *slog.Logger, routingKey string, payload any) {
	if pub == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Error("failed to encode event payload", "routing_key", routingKey, "error", err)
		return
	}
	if err := pub.Publish(ctx, routingKey, body); err != nil {
		logger.Warn("failed to publish event", "routing_key", routingKey, "error", err)
	}
}

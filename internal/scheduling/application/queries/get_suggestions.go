// Package queries contains the read-side handlers of the suggestion engine.
package queries

import (
	"context"

	"github.com/cadencehq/cadence/internal/scheduling/domain"
	"github.com/google/uuid"
)

// GetSuggestionsQuery retrieves a user's suggestions, optionally filtered
// by status.
type GetSuggestionsQuery struct {
	UserID uuid.UUID
	Status *domain.SuggestionStatus
}

// GetSuggestionsHandler handles the GetSuggestionsQuery.
type GetSuggestionsHandler struct {
	suggestionRepo domain.SuggestionRepository
}

// NewGetSuggestionsHandler creates a new GetSuggestionsHandler.
func NewGetSuggestionsHandler(suggestionRepo domain.SuggestionRepository) *GetSuggestionsHandler {
	return &GetSuggestionsHandler{suggestionRepo: suggestionRepo}
}

// Handle executes the GetSuggestionsQuery.
func (h *GetSuggestionsHandler) Handle(ctx context.Context, query GetSuggestionsQuery) ([]*domain.ScheduleSuggestion, error) {
	return h.suggestionRepo.FindByUser(ctx, query.UserID, query.Status)
}

package cli

import (
	"github.com/cadencehq/cadence/internal/scheduling/application/commands"
	"github.com/cadencehq/cadence/internal/scheduling/application/queries"
	"github.com/cadencehq/cadence/internal/scheduling/domain"
	"github.com/google/uuid"
)

// App holds the CLI application dependencies.
type App struct {
	// Suggestion Command Handlers
	GenerateSuggestionsHandler *commands.GenerateSuggestionsHandler
	AcceptSuggestionHandler    *commands.AcceptSuggestionHandler
	RejectSuggestionHandler    *commands.RejectSuggestionHandler
	DismissSuggestionHandler   *commands.DismissSuggestionHandler
	CleanupExpiredHandler      *commands.CleanupExpiredHandler

	// Suggestion Query Handlers
	GetSuggestionsHandler *queries.GetSuggestionsHandler

	// Settings
	SettingsRepo domain.SettingsRepository

	// Current user (configured per environment)
	CurrentUserID uuid.UUID
}

var app *App

// SetApp sets the global CLI application.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application.
func GetApp() *App {
	return app
}

// SetCurrentUserID sets the user all commands act on behalf of.
func (a *App) SetCurrentUserID(id uuid.UUID) {
	a.CurrentUserID = id
}

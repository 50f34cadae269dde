// Package calendarguard shields suggestion generation from a failing
// calendar store with a circuit breaker.
package calendarguard

import (
	"context"
	"log/slog"
	"time"

	"github.com/cadencehq/cadence/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

// GuardedEventRepository decorates a CalendarEventRepository with a circuit
// breaker. When calendar reads keep failing the breaker opens and reads fail
// fast, so generation can proceed on task data alone instead of stalling.
type GuardedEventRepository struct {
	inner   domain.CalendarEventRepository
	breaker *gobreaker.CircuitBreaker[[]domain.CalendarEvent]
}

// NewGuardedEventRepository wraps a calendar event repository with a breaker
// that trips after five consecutive failures and retries after 30 seconds.
func NewGuardedEventRepository(inner domain.CalendarEventRepository, logger *slog.Logger) *GuardedEventRepository {
	settings := gobreaker.Settings{
		Name:        "calendar-events",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}

	return &GuardedEventRepository{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[[]domain.CalendarEvent](settings),
	}
}

// FindByCalendarsInRange reads events through the breaker.
func (r *GuardedEventRepository) FindByCalendarsInRange(ctx context.Context, calendarIDs []uuid.UUID, start, end time.Time) ([]domain.CalendarEvent, error) {
	return r.breaker.Execute(func() ([]domain.CalendarEvent, error) {
		return r.inner.FindByCalendarsInRange(ctx, calendarIDs, start, end)
	})
}

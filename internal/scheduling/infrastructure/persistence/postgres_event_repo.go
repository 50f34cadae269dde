package persistence

import (
	"context"
	"time"

	"github.com/cadencehq/cadence/internal/scheduling/domain"
	"github.com/cadencehq/cadence/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// PostgresCalendarEventRepository implements domain.CalendarEventRepository
// using PostgreSQL via pgx.
type PostgresCalendarEventRepository struct {
	conn database.Connection
}

// NewPostgresCalendarEventRepository creates a new PostgreSQL calendar event repository.
func NewPostgresCalendarEventRepository(conn database.Connection) *PostgresCalendarEventRepository {
	return &PostgresCalendarEventRepository{conn: conn}
}

// FindByCalendarsInRange retrieves events on the given calendars that
// overlap [start, end).
func (r *PostgresCalendarEventRepository) FindByCalendarsInRange(ctx context.Context, calendarIDs []uuid.UUID, start, end time.Time) ([]domain.CalendarEvent, error) {
	if len(calendarIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, calendar_id, title, start_time, end_time, created_at, updated_at
		FROM calendar_events
		WHERE calendar_id = ANY($1)
		AND start_time < $2 AND end_time > $3
		ORDER BY start_time ASC
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, calendarIDs, end, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.CalendarEvent
	for rows.Next() {
		var e domain.CalendarEvent
		if err := rows.Scan(&e.ID, &e.CalendarID, &e.Title, &e.Start, &e.End, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

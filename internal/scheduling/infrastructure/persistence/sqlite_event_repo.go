package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/cadencehq/cadence/internal/scheduling/domain"
	"github.com/cadencehq/cadence/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// SQLiteCalendarEventRepository implements domain.CalendarEventRepository
// using SQLite. Events are written by the calendar sync subsystem; the
// engine only reads them.
type SQLiteCalendarEventRepository struct {
	conn database.Connection
}

// NewSQLiteCalendarEventRepository creates a new SQLite calendar event repository.
func NewSQLiteCalendarEventRepository(conn database.Connection) *SQLiteCalendarEventRepository {
	return &SQLiteCalendarEventRepository{conn: conn}
}

// FindByCalendarsInRange retrieves events on the given calendars that
// overlap [start, end).
func (r *SQLiteCalendarEventRepository) FindByCalendarsInRange(ctx context.Context, calendarIDs []uuid.UUID, start, end time.Time) ([]domain.CalendarEvent, error) {
	if len(calendarIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(calendarIDs)), ", ")
	query := `
		SELECT id, calendar_id, title, start_time, end_time, created_at, updated_at
		FROM calendar_events
		WHERE calendar_id IN (` + placeholders + `)
		AND start_time < ? AND end_time > ?
		ORDER BY start_time ASC
	`

	args := make([]any, 0, len(calendarIDs)+2)
	for _, id := range calendarIDs {
		args = append(args, id.String())
	}
	args = append(args, end.Format(time.RFC3339), start.Format(time.RFC3339))

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.CalendarEvent
	for rows.Next() {
		var e domain.CalendarEvent
		var idStr, calendarIDStr string
		var startStr, endStr, createdAtStr, updatedAtStr string

		if err := rows.Scan(&idStr, &calendarIDStr, &e.Title, &startStr, &endStr, &createdAtStr, &updatedAtStr); err != nil {
			return nil, err
		}

		e.ID, _ = uuid.Parse(idStr)
		e.CalendarID, _ = uuid.Parse(calendarIDStr)
		e.Start, _ = time.Parse(time.RFC3339, startStr)
		e.End, _ = time.Parse(time.RFC3339, endStr)
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
		e.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAtStr)

		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Package persistence implements the scheduling repositories for SQLite
// and PostgreSQL.
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cadencehq/cadence/internal/scheduling/domain"
	"github.com/cadencehq/cadence/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// SQLiteSuggestionRepository implements domain.SuggestionRepository using SQLite.
type SQLiteSuggestionRepository struct {
	conn database.Connection
}

// NewSQLiteSuggestionRepository creates a new SQLite suggestion repository.
func NewSQLiteSuggestionRepository(conn database.Connection) *SQLiteSuggestionRepository {
	return &SQLiteSuggestionRepository{conn: conn}
}

const sqliteSuggestionColumns = `
	id, user_id, task_id, suggestion_type, reason, confidence,
	current_start, current_end, suggested_start, suggested_end,
	status, created_at, expires_at, responded_at, updated_at
`

// Create persists a new suggestion.
func (r *SQLiteSuggestionRepository) Create(ctx context.Context, s *domain.ScheduleSuggestion) error {
	query := `
		INSERT INTO schedule_suggestions (` + sqliteSuggestionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	exec := database.ExecutorFromContext(ctx, r.conn)
	return exec.Exec(ctx, query,
		s.ID.String(),
		s.UserID.String(),
		s.TaskID.String(),
		string(s.Type),
		s.Reason,
		s.Confidence,
		nullTime(s.CurrentStart),
		nullTime(s.CurrentEnd),
		nullTime(s.SuggestedStart),
		nullTime(s.SuggestedEnd),
		string(s.Status),
		s.CreatedAt.Format(time.RFC3339),
		s.ExpiresAt.Format(time.RFC3339),
		nullTime(s.RespondedAt),
		s.UpdatedAt.Format(time.RFC3339),
	)
}

// FindByID retrieves a suggestion by ID. Returns nil when not found.
func (r *SQLiteSuggestionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ScheduleSuggestion, error) {
	query := `SELECT ` + sqliteSuggestionColumns + ` FROM schedule_suggestions WHERE id = ?`
	exec := database.ExecutorFromContext(ctx, r.conn)
	return scanSuggestion(exec.QueryRow(ctx, query, id.String()))
}

// FindByUser retrieves a user's suggestions, optionally filtered by status,
// newest first.
func (r *SQLiteSuggestionRepository) FindByUser(ctx context.Context, userID uuid.UUID, status *domain.SuggestionStatus) ([]*domain.ScheduleSuggestion, error) {
	query := `SELECT ` + sqliteSuggestionColumns + ` FROM schedule_suggestions WHERE user_id = ?`
	args := []any{userID.String()}
	if status != nil {
		query += ` AND status = ?`
		args = append(args, string(*status))
	}
	query += ` ORDER BY created_at DESC`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSuggestions(rows)
}

// CountPending returns the number of pending suggestions for a user.
func (r *SQLiteSuggestionRepository) CountPending(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM schedule_suggestions WHERE user_id = ? AND status = ?`
	exec := database.ExecutorFromContext(ctx, r.conn)

	var count int
	err := exec.QueryRow(ctx, query, userID.String(), string(domain.SuggestionPending)).Scan(&count)
	return count, err
}

// HasPendingForTask reports whether a pending suggestion of the given type
// already exists for the task.
func (r *SQLiteSuggestionRepository) HasPendingForTask(ctx context.Context, userID, taskID uuid.UUID, t domain.SuggestionType) (bool, error) {
	query := `
		SELECT COUNT(*) FROM schedule_suggestions
		WHERE user_id = ? AND task_id = ? AND suggestion_type = ? AND status = ?
	`
	exec := database.ExecutorFromContext(ctx, r.conn)

	var count int
	err := exec.QueryRow(ctx, query, userID.String(), taskID.String(), string(t), string(domain.SuggestionPending)).Scan(&count)
	return count > 0, err
}

// UpdateStatus persists a lifecycle transition.
func (r *SQLiteSuggestionRepository) UpdateStatus(ctx context.Context, s *domain.ScheduleSuggestion) error {
	query := `
		UPDATE schedule_suggestions
		SET status = ?, responded_at = ?, updated_at = ?
		WHERE id = ?
	`
	exec := database.ExecutorFromContext(ctx, r.conn)
	return exec.Exec(ctx, query,
		string(s.Status),
		nullTime(s.RespondedAt),
		s.UpdatedAt.Format(time.RFC3339),
		s.ID.String(),
	)
}

// FindExpiredPending retrieves pending suggestions whose expiration has passed.
func (r *SQLiteSuggestionRepository) FindExpiredPending(ctx context.Context, now time.Time) ([]*domain.ScheduleSuggestion, error) {
	query := `
		SELECT ` + sqliteSuggestionColumns + ` FROM schedule_suggestions
		WHERE status = ? AND expires_at < ?
	`
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, string(domain.SuggestionPending), now.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSuggestions(rows)
}

func scanSuggestion(row database.Row) (*domain.ScheduleSuggestion, error) {
	s, err := scanSuggestionFields(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

func scanSuggestions(rows database.Rows) ([]*domain.ScheduleSuggestion, error) {
	var out []*domain.ScheduleSuggestion
	for rows.Next() {
		s, err := scanSuggestionFields(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanSuggestionFields(scan func(dest ...any) error) (*domain.ScheduleSuggestion, error) {
	var s domain.ScheduleSuggestion
	var idStr, userIDStr, taskIDStr, typeStr, statusStr string
	var currentStart, currentEnd, suggestedStart, suggestedEnd, respondedAt sql.NullString
	var createdAtStr, expiresAtStr, updatedAtStr string

	err := scan(
		&idStr,
		&userIDStr,
		&taskIDStr,
		&typeStr,
		&s.Reason,
		&s.Confidence,
		&currentStart,
		&currentEnd,
		&suggestedStart,
		&suggestedEnd,
		&statusStr,
		&createdAtStr,
		&expiresAtStr,
		&respondedAt,
		&updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	s.ID, _ = uuid.Parse(idStr)
	s.UserID, _ = uuid.Parse(userIDStr)
	s.TaskID, _ = uuid.Parse(taskIDStr)
	s.Type = domain.SuggestionType(typeStr)
	s.Status = domain.SuggestionStatus(statusStr)
	s.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
	s.ExpiresAt, _ = time.Parse(time.RFC3339, expiresAtStr)
	s.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAtStr)
	s.CurrentStart = parseNullTime(currentStart)
	s.CurrentEnd = parseNullTime(currentEnd)
	s.SuggestedStart = parseNullTime(suggestedStart)
	s.SuggestedEnd = parseNullTime(suggestedEnd)
	s.RespondedAt = parseNullTime(respondedAt)

	return &s, nil
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339), Valid: true}
}

func parseNullTime(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}

package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/cadencehq/cadence/internal/scheduling/domain"
	"github.com/cadencehq/cadence/internal/shared/infrastructure/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PostgresSuggestionRepository implements domain.SuggestionRepository using
// PostgreSQL via pgx.
type PostgresSuggestionRepository struct {
	conn database.Connection
}

// NewPostgresSuggestionRepository creates a new PostgreSQL suggestion repository.
func NewPostgresSuggestionRepository(conn database.Connection) *PostgresSuggestionRepository {
	return &PostgresSuggestionRepository{conn: conn}
}

const pgSuggestionColumns = `
	id, user_id, task_id, suggestion_type, reason, confidence,
	current_start, current_end, suggested_start, suggested_end,
	status, created_at, expires_at, responded_at, updated_at
`

// Create persists a new suggestion.
func (r *PostgresSuggestionRepository) Create(ctx context.Context, s *domain.ScheduleSuggestion) error {
	query := `
		INSERT INTO schedule_suggestions (` + pgSuggestionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	exec := database.ExecutorFromContext(ctx, r.conn)
	return exec.Exec(ctx, query,
		s.ID,
		s.UserID,
		s.TaskID,
		string(s.Type),
		s.Reason,
		s.Confidence,
		s.CurrentStart,
		s.CurrentEnd,
		s.SuggestedStart,
		s.SuggestedEnd,
		string(s.Status),
		s.CreatedAt,
		s.ExpiresAt,
		s.RespondedAt,
		s.UpdatedAt,
	)
}

// FindByID retrieves a suggestion by ID. Returns nil when not found.
func (r *PostgresSuggestionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ScheduleSuggestion, error) {
	query := `SELECT ` + pgSuggestionColumns + ` FROM schedule_suggestions WHERE id = $1`
	exec := database.ExecutorFromContext(ctx, r.conn)

	s, err := scanPgSuggestion(exec.QueryRow(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// FindByUser retrieves a user's suggestions, optionally filtered by status,
// newest first.
func (r *PostgresSuggestionRepository) FindByUser(ctx context.Context, userID uuid.UUID, status *domain.SuggestionStatus) ([]*domain.ScheduleSuggestion, error) {
	query := `SELECT ` + pgSuggestionColumns + ` FROM schedule_suggestions WHERE user_id = $1`
	args := []any{userID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, string(*status))
	}
	query += ` ORDER BY created_at DESC`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.ScheduleSuggestion
	for rows.Next() {
		s, err := scanPgSuggestion(rows.Scan)
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

// CountPending returns the number of pending suggestions for a user.
func (r *PostgresSuggestionRepository) CountPending(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM schedule_suggestions WHERE user_id = $1 AND status = $2`
	exec := database.ExecutorFromContext(ctx, r.conn)

	var count int
	err := exec.QueryRow(ctx, query, userID, string(domain.SuggestionPending)).Scan(&count)
	return count, err
}

// HasPendingForTask reports whether a pending suggestion of the given type
// already exists for the task.
func (r *PostgresSuggestionRepository) HasPendingForTask(ctx context.Context, userID, taskID uuid.UUID, t domain.SuggestionType) (bool, error) {
	query := `
		SELECT COUNT(*) FROM schedule_suggestions
		WHERE user_id = $1 AND task_id = $2 AND suggestion_type = $3 AND status = $4
	`
	exec := database.ExecutorFromContext(ctx, r.conn)

	var count int
	err := exec.QueryRow(ctx, query, userID, taskID, string(t), string(domain.SuggestionPending)).Scan(&count)
	return count > 0, err
}

// UpdateStatus persists a lifecycle transition.
func (r *PostgresSuggestionRepository) UpdateStatus(ctx context.Context, s *domain.ScheduleSuggestion) error {
	query := `
		UPDATE schedule_suggestions
		SET status = $1, responded_at = $2, updated_at = $3
		WHERE id = $4
	`
	exec := database.ExecutorFromContext(ctx, r.conn)
	return exec.Exec(ctx, query, string(s.Status), s.RespondedAt, s.UpdatedAt, s.ID)
}

// FindExpiredPending retrieves pending suggestions whose expiration has passed.
func (r *PostgresSuggestionRepository) FindExpiredPending(ctx context.Context, now time.Time) ([]*domain.ScheduleSuggestion, error) {
	query := `
		SELECT ` + pgSuggestionColumns + ` FROM schedule_suggestions
		WHERE status = $1 AND expires_at < $2
	`
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, string(domain.SuggestionPending), now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.ScheduleSuggestion
	for rows.Next() {
		s, err := scanPgSuggestion(rows.Scan)
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

func scanPgSuggestion(scan func(dest ...any) error) (*domain.ScheduleSuggestion, error) {
	var s domain.ScheduleSuggestion
	var typeStr, statusStr string

	err := scan(
		&s.ID,
		&s.UserID,
		&s.TaskID,
		&typeStr,
		&s.Reason,
		&s.Confidence,
		&s.CurrentStart,
		&s.CurrentEnd,
		&s.SuggestedStart,
		&s.SuggestedEnd,
		&statusStr,
		&s.CreatedAt,
		&s.ExpiresAt,
		&s.RespondedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Type = domain.SuggestionType(typeStr)
	s.Status = domain.SuggestionStatus(statusStr)
	return &s, nil
}

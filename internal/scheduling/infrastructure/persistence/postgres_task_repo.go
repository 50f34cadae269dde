package persistence

import (
	"context"
	"errors"

	"github.com/cadencehq/cadence/internal/scheduling/domain"
	"github.com/cadencehq/cadence/internal/shared/infrastructure/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PostgresTaskRepository implements domain.TaskRepository using PostgreSQL
// via pgx.
type PostgresTaskRepository struct {
	conn database.Connection
}

// NewPostgresTaskRepository creates a new PostgreSQL task repository.
func NewPostgresTaskRepository(conn database.Connection) *PostgresTaskRepository {
	return &PostgresTaskRepository{conn: conn}
}

const pgTaskColumns = `
	id, user_id, title, status, due_date, duration_minutes, energy_level,
	scheduled_start, scheduled_end, auto_scheduled, created_at, updated_at
`

// FindOpenByUser retrieves a user's tasks that are not yet done.
func (r *PostgresTaskRepository) FindOpenByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	query := `
		SELECT ` + pgTaskColumns + ` FROM tasks
		WHERE user_id = $1 AND status != $2
		ORDER BY created_at ASC
	`
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, userID, string(domain.TaskStatusDone))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Task
	for rows.Next() {
		t, err := scanPgTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByID retrieves a task owned by the given user. Returns nil when not found.
func (r *PostgresTaskRepository) FindByID(ctx context.Context, id, userID uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + pgTaskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`
	exec := database.ExecutorFromContext(ctx, r.conn)

	t, err := scanPgTask(exec.QueryRow(ctx, query, id, userID).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

// UpdateSchedule persists a task's scheduled interval.
func (r *PostgresTaskRepository) UpdateSchedule(ctx context.Context, t *domain.Task) error {
	query := `
		UPDATE tasks
		SET scheduled_start = $1, scheduled_end = $2, auto_scheduled = $3, updated_at = $4
		WHERE id = $5
	`
	exec := database.ExecutorFromContext(ctx, r.conn)
	return exec.Exec(ctx, query, t.ScheduledStart, t.ScheduledEnd, t.AutoScheduled, t.UpdatedAt, t.ID)
}

// UserIDsWithOpenTasks lists the users that currently have open tasks.
func (r *PostgresTaskRepository) UserIDsWithOpenTasks(ctx context.Context) ([]uuid.UUID, error) {
	query := `SELECT DISTINCT user_id FROM tasks WHERE status != $1`
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, string(domain.TaskStatusDone))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanPgTask(scan func(dest ...any) error) (*domain.Task, error) {
	var t domain.Task
	var statusStr, energyStr string

	err := scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&statusStr,
		&t.DueDate,
		&t.DurationMinutes,
		&energyStr,
		&t.ScheduledStart,
		&t.ScheduledEnd,
		&t.AutoScheduled,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Status = domain.TaskStatus(statusStr)
	t.EnergyLevel = domain.EnergyLevel(energyStr)
	return &t, nil
}

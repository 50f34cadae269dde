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

// SQLiteTaskRepository implements domain.TaskRepository using SQLite.
type SQLiteTaskRepository struct {
	conn database.Connection
}

// NewSQLiteTaskRepository creates a new SQLite task repository.
func NewSQLiteTaskRepository(conn database.Connection) *SQLiteTaskRepository {
	return &SQLiteTaskRepository{conn: conn}
}

const sqliteTaskColumns = `
	id, user_id, title, status, due_date, duration_minutes, energy_level,
	scheduled_start, scheduled_end, auto_scheduled, created_at, updated_at
`

// FindOpenByUser retrieves all non-completed tasks for a user.
func (r *SQLiteTaskRepository) FindOpenByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	query := `
		SELECT ` + sqliteTaskColumns + ` FROM tasks
		WHERE user_id = ? AND status != ?
		ORDER BY created_at ASC
	`
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, userID.String(), string(domain.TaskStatusDone))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTaskFields(rows.Scan)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByID retrieves a task by ID scoped to the owning user.
func (r *SQLiteTaskRepository) FindByID(ctx context.Context, id, userID uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + sqliteTaskColumns + ` FROM tasks WHERE id = ? AND user_id = ?`
	exec := database.ExecutorFromContext(ctx, r.conn)

	task, err := scanTaskFields(exec.QueryRow(ctx, query, id.String(), userID.String()).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return task, nil
}

// UpdateSchedule persists the task's scheduled interval and auto-scheduled flag.
func (r *SQLiteTaskRepository) UpdateSchedule(ctx context.Context, task *domain.Task) error {
	query := `
		UPDATE tasks
		SET scheduled_start = ?, scheduled_end = ?, auto_scheduled = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`
	exec := database.ExecutorFromContext(ctx, r.conn)
	return exec.Exec(ctx, query,
		nullTime(task.ScheduledStart),
		nullTime(task.ScheduledEnd),
		boolToInt(task.AutoScheduled),
		task.UpdatedAt.Format(time.RFC3339),
		task.ID.String(),
		task.UserID.String(),
	)
}

// UserIDsWithOpenTasks lists users with at least one non-completed task.
func (r *SQLiteTaskRepository) UserIDsWithOpenTasks(ctx context.Context) ([]uuid.UUID, error) {
	query := `SELECT DISTINCT user_id FROM tasks WHERE status != ?`
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, string(domain.TaskStatusDone))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var idStr string
		if err := rows.Scan(&idStr); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func scanTaskFields(scan func(dest ...any) error) (*domain.Task, error) {
	var t domain.Task
	var idStr, userIDStr, statusStr, energyStr string
	var dueDate, scheduledStart, scheduledEnd sql.NullString
	var durationMinutes sql.NullInt64
	var autoScheduled int
	var createdAtStr, updatedAtStr string

	err := scan(
		&idStr,
		&userIDStr,
		&t.Title,
		&statusStr,
		&dueDate,
		&durationMinutes,
		&energyStr,
		&scheduledStart,
		&scheduledEnd,
		&autoScheduled,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	t.ID, _ = uuid.Parse(idStr)
	t.UserID, _ = uuid.Parse(userIDStr)
	t.Status = domain.TaskStatus(statusStr)
	t.EnergyLevel = domain.EnergyLevel(energyStr)
	t.DueDate = parseNullTime(dueDate)
	t.ScheduledStart = parseNullTime(scheduledStart)
	t.ScheduledEnd = parseNullTime(scheduledEnd)
	t.AutoScheduled = autoScheduled != 0
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
	t.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAtStr)

	if durationMinutes.Valid {
		minutes := int(durationMinutes.Int64)
		t.DurationMinutes = &minutes
	}

	return &t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

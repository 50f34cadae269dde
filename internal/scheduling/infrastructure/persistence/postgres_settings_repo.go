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

// PostgresSettingsRepository implements domain.SettingsRepository using
// PostgreSQL via pgx. List fields are stored as JSON, matching the SQLite
// encoding.
type PostgresSettingsRepository struct {
	conn database.Connection
}

// NewPostgresSettingsRepository creates a new PostgreSQL settings repository.
func NewPostgresSettingsRepository(conn database.Connection) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{conn: conn}
}

const pgSettingsColumns = `
	id, user_id, work_days, work_hour_start, work_hour_end, buffer_minutes,
	high_energy_start, high_energy_end, medium_energy_start, medium_energy_end,
	low_energy_start, low_energy_end, enforce_breaks, min_break_minutes,
	max_consecutive_hours, enable_suggestions, selected_calendar_ids,
	created_at, updated_at
`

// GetOrCreate loads the user's settings, inserting defaults when none exist.
// The bool reports whether defaults were just created.
func (r *PostgresSettingsRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*domain.AutoScheduleSettings, bool, error) {
	settings, err := r.findByUser(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if settings != nil {
		return settings, false, nil
	}

	settings = domain.DefaultSettings(userID)
	if err := r.insert(ctx, settings); err != nil {
		return nil, false, err
	}
	return settings, true, nil
}

// Update persists changed settings.
func (r *PostgresSettingsRepository) Update(ctx context.Context, s *domain.AutoScheduleSettings) error {
	workDays, calendarIDs, err := encodeSettingsLists(s)
	if err != nil {
		return err
	}

	query := `
		UPDATE auto_schedule_settings SET
			work_days = $1, work_hour_start = $2, work_hour_end = $3, buffer_minutes = $4,
			high_energy_start = $5, high_energy_end = $6,
			medium_energy_start = $7, medium_energy_end = $8,
			low_energy_start = $9, low_energy_end = $10,
			enforce_breaks = $11, min_break_minutes = $12, max_consecutive_hours = $13,
			enable_suggestions = $14, selected_calendar_ids = $15, updated_at = $16
		WHERE user_id = $17
	`
	exec := database.ExecutorFromContext(ctx, r.conn)
	return exec.Exec(ctx, query,
		workDays,
		s.WorkHourStart,
		s.WorkHourEnd,
		s.BufferMinutes,
		s.HighEnergyWindow.StartHour,
		s.HighEnergyWindow.EndHour,
		s.MediumEnergyWindow.StartHour,
		s.MediumEnergyWindow.EndHour,
		s.LowEnergyWindow.StartHour,
		s.LowEnergyWindow.EndHour,
		s.EnforceBreaks,
		s.MinBreakMinutes,
		s.MaxConsecutiveHours,
		s.EnableSuggestions,
		calendarIDs,
		time.Now().UTC(),
		s.UserID,
	)
}

func (r *PostgresSettingsRepository) findByUser(ctx context.Context, userID uuid.UUID) (*domain.AutoScheduleSettings, error) {
	query := `SELECT ` + pgSettingsColumns + ` FROM auto_schedule_settings WHERE user_id = $1`
	exec := database.ExecutorFromContext(ctx, r.conn)

	settings, err := scanPgSettings(exec.QueryRow(ctx, query, userID).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return settings, nil
}

func (r *PostgresSettingsRepository) insert(ctx context.Context, s *domain.AutoScheduleSettings) error {
	workDays, calendarIDs, err := encodeSettingsLists(s)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO auto_schedule_settings (` + pgSettingsColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	exec := database.ExecutorFromContext(ctx, r.conn)
	return exec.Exec(ctx, query,
		s.ID,
		s.UserID,
		workDays,
		s.WorkHourStart,
		s.WorkHourEnd,
		s.BufferMinutes,
		s.HighEnergyWindow.StartHour,
		s.HighEnergyWindow.EndHour,
		s.MediumEnergyWindow.StartHour,
		s.MediumEnergyWindow.EndHour,
		s.LowEnergyWindow.StartHour,
		s.LowEnergyWindow.EndHour,
		s.EnforceBreaks,
		s.MinBreakMinutes,
		s.MaxConsecutiveHours,
		s.EnableSuggestions,
		calendarIDs,
		s.CreatedAt,
		s.UpdatedAt,
	)
}

func scanPgSettings(scan func(dest ...any) error) (*domain.AutoScheduleSettings, error) {
	var s domain.AutoScheduleSettings
	var workDaysJSON, calendarIDsJSON string

	err := scan(
		&s.ID,
		&s.UserID,
		&workDaysJSON,
		&s.WorkHourStart,
		&s.WorkHourEnd,
		&s.BufferMinutes,
		&s.HighEnergyWindow.StartHour,
		&s.HighEnergyWindow.EndHour,
		&s.MediumEnergyWindow.StartHour,
		&s.MediumEnergyWindow.EndHour,
		&s.LowEnergyWindow.StartHour,
		&s.LowEnergyWindow.EndHour,
		&s.EnforceBreaks,
		&s.MinBreakMinutes,
		&s.MaxConsecutiveHours,
		&s.EnableSuggestions,
		&calendarIDsJSON,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := decodeSettingsLists(&s, workDaysJSON, calendarIDsJSON); err != nil {
		return nil, err
	}
	return &s, nil
}

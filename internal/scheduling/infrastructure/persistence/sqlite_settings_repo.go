package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/cadencehq/cadence/internal/scheduling/domain"
	"github.com/cadencehq/cadence/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// SQLiteSettingsRepository implements domain.SettingsRepository using SQLite.
// List fields (work days, selected calendars) are stored as JSON and decoded
// once here, never re-parsed downstream.
type SQLiteSettingsRepository struct {
	conn database.Connection
}

// NewSQLiteSettingsRepository creates a new SQLite settings repository.
func NewSQLiteSettingsRepository(conn database.Connection) *SQLiteSettingsRepository {
	return &SQLiteSettingsRepository{conn: conn}
}

const sqliteSettingsColumns = `
	id, user_id, work_days, work_hour_start, work_hour_end, buffer_minutes,
	high_energy_start, high_energy_end, medium_energy_start, medium_energy_end,
	low_energy_start, low_energy_end, enforce_breaks, min_break_minutes,
	max_consecutive_hours, enable_suggestions, selected_calendar_ids,
	created_at, updated_at
`

// GetOrCreate loads the user's settings, inserting defaults when none exist.
// The bool reports whether defaults were just created.
func (r *SQLiteSettingsRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*domain.AutoScheduleSettings, bool, error) {
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
func (r *SQLiteSettingsRepository) Update(ctx context.Context, s *domain.AutoScheduleSettings) error {
	workDays, calendarIDs, err := encodeSettingsLists(s)
	if err != nil {
		return err
	}

	query := `
		UPDATE auto_schedule_settings SET
			work_days = ?, work_hour_start = ?, work_hour_end = ?, buffer_minutes = ?,
			high_energy_start = ?, high_energy_end = ?,
			medium_energy_start = ?, medium_energy_end = ?,
			low_energy_start = ?, low_energy_end = ?,
			enforce_breaks = ?, min_break_minutes = ?, max_consecutive_hours = ?,
			enable_suggestions = ?, selected_calendar_ids = ?, updated_at = ?
		WHERE user_id = ?
	`
	exec := database.ExecutorFromContext(ctx, r.conn)
	return exec.Exec(ctx, query,
		workDays,
		s.WorkHourStart,
		s.WorkHourEnd,
		s.BufferMinutes,
		nullInt(s.HighEnergyWindow.StartHour),
		nullInt(s.HighEnergyWindow.EndHour),
		nullInt(s.MediumEnergyWindow.StartHour),
		nullInt(s.MediumEnergyWindow.EndHour),
		nullInt(s.LowEnergyWindow.StartHour),
		nullInt(s.LowEnergyWindow.EndHour),
		boolToInt(s.EnforceBreaks),
		s.MinBreakMinutes,
		s.MaxConsecutiveHours,
		boolToInt(s.EnableSuggestions),
		calendarIDs,
		time.Now().UTC().Format(time.RFC3339),
		s.UserID.String(),
	)
}

func (r *SQLiteSettingsRepository) findByUser(ctx context.Context, userID uuid.UUID) (*domain.AutoScheduleSettings, error) {
	query := `SELECT ` + sqliteSettingsColumns + ` FROM auto_schedule_settings WHERE user_id = ?`
	exec := database.ExecutorFromContext(ctx, r.conn)

	settings, err := scanSettingsFields(exec.QueryRow(ctx, query, userID.String()).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return settings, nil
}

func (r *SQLiteSettingsRepository) insert(ctx context.Context, s *domain.AutoScheduleSettings) error {
	workDays, calendarIDs, err := encodeSettingsLists(s)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO auto_schedule_settings (` + sqliteSettingsColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	exec := database.ExecutorFromContext(ctx, r.conn)
	return exec.Exec(ctx, query,
		s.ID.String(),
		s.UserID.String(),
		workDays,
		s.WorkHourStart,
		s.WorkHourEnd,
		s.BufferMinutes,
		nullInt(s.HighEnergyWindow.StartHour),
		nullInt(s.HighEnergyWindow.EndHour),
		nullInt(s.MediumEnergyWindow.StartHour),
		nullInt(s.MediumEnergyWindow.EndHour),
		nullInt(s.LowEnergyWindow.StartHour),
		nullInt(s.LowEnergyWindow.EndHour),
		boolToInt(s.EnforceBreaks),
		s.MinBreakMinutes,
		s.MaxConsecutiveHours,
		boolToInt(s.EnableSuggestions),
		calendarIDs,
		s.CreatedAt.Format(time.RFC3339),
		s.UpdatedAt.Format(time.RFC3339),
	)
}

func scanSettingsFields(scan func(dest ...any) error) (*domain.AutoScheduleSettings, error) {
	var s domain.AutoScheduleSettings
	var idStr, userIDStr, workDaysJSON, calendarIDsJSON string
	var highStart, highEnd, mediumStart, mediumEnd, lowStart, lowEnd sql.NullInt64
	var enforceBreaks, enableSuggestions int
	var createdAtStr, updatedAtStr string

	err := scan(
		&idStr,
		&userIDStr,
		&workDaysJSON,
		&s.WorkHourStart,
		&s.WorkHourEnd,
		&s.BufferMinutes,
		&highStart,
		&highEnd,
		&mediumStart,
		&mediumEnd,
		&lowStart,
		&lowEnd,
		&enforceBreaks,
		&s.MinBreakMinutes,
		&s.MaxConsecutiveHours,
		&enableSuggestions,
		&calendarIDsJSON,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	s.ID, _ = uuid.Parse(idStr)
	s.UserID, _ = uuid.Parse(userIDStr)
	s.EnforceBreaks = enforceBreaks != 0
	s.EnableSuggestions = enableSuggestions != 0
	s.HighEnergyWindow = domain.EnergyWindow{StartHour: intFromNull(highStart), EndHour: intFromNull(highEnd)}
	s.MediumEnergyWindow = domain.EnergyWindow{StartHour: intFromNull(mediumStart), EndHour: intFromNull(mediumEnd)}
	s.LowEnergyWindow = domain.EnergyWindow{StartHour: intFromNull(lowStart), EndHour: intFromNull(lowEnd)}
	s.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
	s.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAtStr)

	if err := decodeSettingsLists(&s, workDaysJSON, calendarIDsJSON); err != nil {
		return nil, err
	}
	return &s, nil
}

func decodeSettingsLists(s *domain.AutoScheduleSettings, workDaysJSON, calendarIDsJSON string) error {
	var workDays []int
	if err := json.Unmarshal([]byte(workDaysJSON), &workDays); err != nil {
		return err
	}
	s.WorkDays = make([]time.Weekday, 0, len(workDays))
	for _, d := range workDays {
		s.WorkDays = append(s.WorkDays, time.Weekday(d))
	}

	var calendarIDs []string
	if err := json.Unmarshal([]byte(calendarIDsJSON), &calendarIDs); err != nil {
		return err
	}
	s.SelectedCalendarIDs = make([]uuid.UUID, 0, len(calendarIDs))
	for _, raw := range calendarIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		s.SelectedCalendarIDs = append(s.SelectedCalendarIDs, id)
	}

	return nil
}

func encodeSettingsLists(s *domain.AutoScheduleSettings) (workDays string, calendarIDs string, err error) {
	days := make([]int, 0, len(s.WorkDays))
	for _, d := range s.WorkDays {
		days = append(days, int(d))
	}
	daysJSON, err := json.Marshal(days)
	if err != nil {
		return "", "", err
	}

	ids := make([]string, 0, len(s.SelectedCalendarIDs))
	for _, id := range s.SelectedCalendarIDs {
		ids = append(ids, id.String())
	}
	idsJSON, err := json.Marshal(ids)
	if err != nil {
		return "", "", err
	}

	return string(daysJSON), string(idsJSON), nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intFromNull(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/cadencehq/cadence/internal/scheduling/domain"
	"github.com/cadencehq/cadence/internal/shared/infrastructure/database"
	"github.com/cadencehq/cadence/internal/shared/infrastructure/migrations"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var repoNow = time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)

func newTestConn(t *testing.T) database.Connection {
	t.Helper()
	ctx := context.Background()

	conn, err := database.NewSQLiteConnection(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, migrations.RunSQLiteMigrations(ctx, conn.DB()))
	return conn
}

func insertTask(t *testing.T, conn database.Connection, task *domain.Task) {
	t.Helper()

	var dueDate, scheduledStart, scheduledEnd any
	if task.DueDate != nil {
		dueDate = task.DueDate.Format(time.RFC3339)
	}
	if task.ScheduledStart != nil {
		scheduledStart = task.ScheduledStart.Format(time.RFC3339)
	}
	if task.ScheduledEnd != nil {
		scheduledEnd = task.ScheduledEnd.Format(time.RFC3339)
	}
	var duration any
	if task.DurationMinutes != nil {
		duration = *task.DurationMinutes
	}

	err := conn.Exec(context.Background(), `
		INSERT INTO tasks (id, user_id, title, status, due_date, duration_minutes, energy_level,
			scheduled_start, scheduled_end, auto_scheduled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		task.ID.String(), task.UserID.String(), task.Title, string(task.Status),
		dueDate, duration, string(task.EnergyLevel),
		scheduledStart, scheduledEnd, boolToInt(task.AutoScheduled),
		task.CreatedAt.Format(time.RFC3339), task.UpdatedAt.Format(time.RFC3339),
	)
	require.NoError(t, err)
}

func insertEvent(t *testing.T, conn database.Connection, e domain.CalendarEvent) {
	t.Helper()
	err := conn.Exec(context.Background(), `
		INSERT INTO calendar_events (id, calendar_id, title, start_time, end_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		e.ID.String(), e.CalendarID.String(), e.Title,
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339),
		repoNow.Format(time.RFC3339), repoNow.Format(time.RFC3339),
	)
	require.NoError(t, err)
}

func storedSuggestion(userID uuid.UUID, status domain.SuggestionStatus, expiresAt time.Time) *domain.ScheduleSuggestion {
	start := repoNow.Add(2 * time.Hour)
	end := start.Add(time.Hour)
	return &domain.ScheduleSuggestion{
		ID:             uuid.New(),
		UserID:         userID,
		TaskID:         uuid.New(),
		Type:           domain.SuggestionConflict,
		Reason:         "overlaps a calendar event",
		Confidence:     1.0,
		SuggestedStart: &start,
		SuggestedEnd:   &end,
		Status:         status,
		CreatedAt:      repoNow,
		ExpiresAt:      expiresAt,
		UpdatedAt:      repoNow,
	}
}

func TestSQLiteSuggestionRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create and find by id round-trips", func(t *testing.T) {
		conn := newTestConn(t)
		repo := NewSQLiteSuggestionRepository(conn)

		userID := uuid.New()
		currentStart := repoNow.Add(-time.Hour)
		currentEnd := repoNow
		s := storedSuggestion(userID, domain.SuggestionPending, repoNow.Add(domain.SuggestionTTL))
		s.CurrentStart = &currentStart
		s.CurrentEnd = &currentEnd

		require.NoError(t, repo.Create(ctx, s))

		found, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, s.ID, found.ID)
		assert.Equal(t, s.UserID, found.UserID)
		assert.Equal(t, s.TaskID, found.TaskID)
		assert.Equal(t, domain.SuggestionConflict, found.Type)
		assert.Equal(t, s.Reason, found.Reason)
		assert.InDelta(t, 1.0, found.Confidence, 0.0001)
		assert.Equal(t, domain.SuggestionPending, found.Status)
		require.NotNil(t, found.CurrentStart)
		assert.True(t, found.CurrentStart.Equal(currentStart))
		require.NotNil(t, found.SuggestedStart)
		assert.True(t, found.SuggestedStart.Equal(*s.SuggestedStart))
		assert.Nil(t, found.RespondedAt)
		assert.True(t, found.ExpiresAt.Equal(s.ExpiresAt))
	})

	t.Run("find by id returns nil when missing", func(t *testing.T) {
		conn := newTestConn(t)
		repo := NewSQLiteSuggestionRepository(conn)

		found, err := repo.FindByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("find by user filters by status", func(t *testing.T) {
		conn := newTestConn(t)
		repo := NewSQLiteSuggestionRepository(conn)

		userID := uuid.New()
		pending := storedSuggestion(userID, domain.SuggestionPending, repoNow.Add(domain.SuggestionTTL))
		rejected := storedSuggestion(userID, domain.SuggestionRejected, repoNow.Add(domain.SuggestionTTL))
		other := storedSuggestion(uuid.New(), domain.SuggestionPending, repoNow.Add(domain.SuggestionTTL))
		require.NoError(t, repo.Create(ctx, pending))
		require.NoError(t, repo.Create(ctx, rejected))
		require.NoError(t, repo.Create(ctx, other))

		all, err := repo.FindByUser(ctx, userID, nil)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		status := domain.SuggestionPending
		onlyPending, err := repo.FindByUser(ctx, userID, &status)
		require.NoError(t, err)
		require.Len(t, onlyPending, 1)
		assert.Equal(t, pending.ID, onlyPending[0].ID)
	})

	t.Run("count pending ignores terminal statuses", func(t *testing.T) {
		conn := newTestConn(t)
		repo := NewSQLiteSuggestionRepository(conn)

		userID := uuid.New()
		require.NoError(t, repo.Create(ctx, storedSuggestion(userID, domain.SuggestionPending, repoNow.Add(domain.SuggestionTTL))))
		require.NoError(t, repo.Create(ctx, storedSuggestion(userID, domain.SuggestionPending, repoNow.Add(domain.SuggestionTTL))))
		require.NoError(t, repo.Create(ctx, storedSuggestion(userID, domain.SuggestionAccepted, repoNow.Add(domain.SuggestionTTL))))

		count, err := repo.CountPending(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("has pending for task matches type and status", func(t *testing.T) {
		conn := newTestConn(t)
		repo := NewSQLiteSuggestionRepository(conn)

		userID := uuid.New()
		s := storedSuggestion(userID, domain.SuggestionPending, repoNow.Add(domain.SuggestionTTL))
		require.NoError(t, repo.Create(ctx, s))

		has, err := repo.HasPendingForTask(ctx, userID, s.TaskID, domain.SuggestionConflict)
		require.NoError(t, err)
		assert.True(t, has)

		has, err = repo.HasPendingForTask(ctx, userID, s.TaskID, domain.SuggestionOverload)
		require.NoError(t, err)
		assert.False(t, has)

		has, err = repo.HasPendingForTask(ctx, userID, uuid.New(), domain.SuggestionConflict)
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("update status persists a transition", func(t *testing.T) {
		conn := newTestConn(t)
		repo := NewSQLiteSuggestionRepository(conn)

		s := storedSuggestion(uuid.New(), domain.SuggestionPending, repoNow.Add(domain.SuggestionTTL))
		require.NoError(t, repo.Create(ctx, s))

		require.NoError(t, s.Accept(repoNow.Add(time.Hour)))
		require.NoError(t, repo.UpdateStatus(ctx, s))

		found, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, domain.SuggestionAccepted, found.Status)
		require.NotNil(t, found.RespondedAt)
		assert.True(t, found.RespondedAt.Equal(repoNow.Add(time.Hour)))
	})

	t.Run("find expired pending skips live and terminal rows", func(t *testing.T) {
		conn := newTestConn(t)
		repo := NewSQLiteSuggestionRepository(conn)

		userID := uuid.New()
		expired := storedSuggestion(userID, domain.SuggestionPending, repoNow.Add(-time.Hour))
		live := storedSuggestion(userID, domain.SuggestionPending, repoNow.Add(time.Hour))
		expiredButAnswered := storedSuggestion(userID, domain.SuggestionRejected, repoNow.Add(-time.Hour))
		require.NoError(t, repo.Create(ctx, expired))
		require.NoError(t, repo.Create(ctx, live))
		require.NoError(t, repo.Create(ctx, expiredButAnswered))

		found, err := repo.FindExpiredPending(ctx, repoNow)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, expired.ID, found[0].ID)
	})
}

func TestSQLiteTaskRepository(t *testing.T) {
	ctx := context.Background()

	newTask := func(userID uuid.UUID, status domain.TaskStatus) *domain.Task {
		return &domain.Task{
			ID:        uuid.New(),
			UserID:    userID,
			Title:     "write report",
			Status:    status,
			CreatedAt: repoNow,
			UpdatedAt: repoNow,
		}
	}

	t.Run("find open excludes completed tasks", func(t *testing.T) {
		conn := newTestConn(t)
		repo := NewSQLiteTaskRepository(conn)

		userID := uuid.New()
		open := newTask(userID, domain.TaskStatusTodo)
		inProgress := newTask(userID, domain.TaskStatusInProgress)
		done := newTask(userID, domain.TaskStatusDone)
		foreign := newTask(uuid.New(), domain.TaskStatusTodo)
		insertTask(t, conn, open)
		insertTask(t, conn, inProgress)
		insertTask(t, conn, done)
		insertTask(t, conn, foreign)

		tasks, err := repo.FindOpenByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		for _, task := range tasks {
			assert.NotEqual(t, domain.TaskStatusDone, task.Status)
			assert.Equal(t, userID, task.UserID)
		}
	})

	t.Run("find by id is scoped to the owner", func(t *testing.T) {
		conn := newTestConn(t)
		repo := NewSQLiteTaskRepository(conn)

		userID := uuid.New()
		due := repoNow.Add(24 * time.Hour)
		minutes := 90
		task := newTask(userID, domain.TaskStatusTodo)
		task.DueDate = &due
		task.DurationMinutes = &minutes
		task.EnergyLevel = domain.EnergyHigh
		insertTask(t, conn, task)

		found, err := repo.FindByID(ctx, task.ID, userID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, task.Title, found.Title)
		require.NotNil(t, found.DueDate)
		assert.True(t, found.DueDate.Equal(due))
		require.NotNil(t, found.DurationMinutes)
		assert.Equal(t, minutes, *found.DurationMinutes)
		assert.Equal(t, domain.EnergyHigh, found.EnergyLevel)

		missing, err := repo.FindByID(ctx, task.ID, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("update schedule round-trips", func(t *testing.T) {
		conn := newTestConn(t)
		repo := NewSQLiteTaskRepository(conn)

		task := newTask(uuid.New(), domain.TaskStatusTodo)
		insertTask(t, conn, task)

		task.ApplySchedule(domain.TimeRange{Start: repoNow.Add(2 * time.Hour), End: repoNow.Add(3 * time.Hour)})
		require.NoError(t, repo.UpdateSchedule(ctx, task))

		found, err := repo.FindByID(ctx, task.ID, task.UserID)
		require.NoError(t, err)
		require.NotNil(t, found)
		require.NotNil(t, found.ScheduledStart)
		assert.True(t, found.ScheduledStart.Equal(repoNow.Add(2*time.Hour)))
		assert.True(t, found.ScheduledEnd.Equal(repoNow.Add(3*time.Hour)))
		assert.True(t, found.AutoScheduled)
	})

	t.Run("user ids with open tasks deduplicates", func(t *testing.T) {
		conn := newTestConn(t)
		repo := NewSQLiteTaskRepository(conn)

		busy := uuid.New()
		idle := uuid.New()
		insertTask(t, conn, newTask(busy, domain.TaskStatusTodo))
		insertTask(t, conn, newTask(busy, domain.TaskStatusInProgress))
		insertTask(t, conn, newTask(idle, domain.TaskStatusDone))

		ids, err := repo.UserIDsWithOpenTasks(ctx)
		require.NoError(t, err)
		require.Len(t, ids, 1)
		assert.Equal(t, busy, ids[0])
	})
}

func TestSQLiteSettingsRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("get or create inserts defaults once", func(t *testing.T) {
		conn := newTestConn(t)
		repo := NewSQLiteSettingsRepository(conn)

		userID := uuid.New()
		settings, created, err := repo.GetOrCreate(ctx, userID)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, userID, settings.UserID)
		assert.Equal(t, 9, settings.WorkHourStart)
		assert.Equal(t, 17, settings.WorkHourEnd)
		assert.True(t, settings.EnableSuggestions)

		again, created, err := repo.GetOrCreate(ctx, userID)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, settings.ID, again.ID)
		assert.Equal(t, settings.WorkDays, again.WorkDays)
	})

	t.Run("update round-trips every field", func(t *testing.T) {
		conn := newTestConn(t)
		repo := NewSQLiteSettingsRepository(conn)

		userID := uuid.New()
		settings, _, err := repo.GetOrCreate(ctx, userID)
		require.NoError(t, err)

		calendarID := uuid.New()
		settings.WorkDays = []time.Weekday{time.Tuesday, time.Thursday}
		settings.WorkHourStart = 8
		settings.WorkHourEnd = 16
		settings.BufferMinutes = 10
		settings.EnforceBreaks = false
		settings.MinBreakMinutes = 20
		settings.MaxConsecutiveHours = 3
		settings.EnableSuggestions = false
		settings.SelectedCalendarIDs = []uuid.UUID{calendarID}
		settings.HighEnergyWindow = domain.EnergyWindow{}

		require.NoError(t, repo.Update(ctx, settings))

		found, created, err := repo.GetOrCreate(ctx, userID)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, []time.Weekday{time.Tuesday, time.Thursday}, found.WorkDays)
		assert.Equal(t, 8, found.WorkHourStart)
		assert.Equal(t, 16, found.WorkHourEnd)
		assert.Equal(t, 10, found.BufferMinutes)
		assert.False(t, found.EnforceBreaks)
		assert.Equal(t, 20, found.MinBreakMinutes)
		assert.Equal(t, 3, found.MaxConsecutiveHours)
		assert.False(t, found.EnableSuggestions)
		assert.Equal(t, []uuid.UUID{calendarID}, found.SelectedCalendarIDs)
		assert.Nil(t, found.HighEnergyWindow.StartHour)
		assert.Nil(t, found.HighEnergyWindow.EndHour)
	})
}

func TestSQLiteCalendarEventRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("returns only overlapping events on selected calendars", func(t *testing.T) {
		conn := newTestConn(t)
		repo := NewSQLiteCalendarEventRepository(conn)

		calendarID := uuid.New()
		inRange := domain.CalendarEvent{
			ID:         uuid.New(),
			CalendarID: calendarID,
			Title:      "standup",
			Start:      repoNow.Add(time.Hour),
			End:        repoNow.Add(2 * time.Hour),
		}
		before := domain.CalendarEvent{
			ID:         uuid.New(),
			CalendarID: calendarID,
			Title:      "yesterday",
			Start:      repoNow.Add(-3 * time.Hour),
			End:        repoNow.Add(-2 * time.Hour),
		}
		otherCalendar := domain.CalendarEvent{
			ID:         uuid.New(),
			CalendarID: uuid.New(),
			Title:      "elsewhere",
			Start:      repoNow.Add(time.Hour),
			End:        repoNow.Add(2 * time.Hour),
		}
		insertEvent(t, conn, inRange)
		insertEvent(t, conn, before)
		insertEvent(t, conn, otherCalendar)

		events, err := repo.FindByCalendarsInRange(ctx, []uuid.UUID{calendarID}, repoNow, repoNow.Add(8*time.Hour))
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, inRange.ID, events[0].ID)
		assert.Equal(t, "standup", events[0].Title)
		assert.True(t, events[0].Start.Equal(inRange.Start))
	})

	t.Run("partial overlap at the range edge counts", func(t *testing.T) {
		conn := newTestConn(t)
		repo := NewSQLiteCalendarEventRepository(conn)

		calendarID := uuid.New()
		straddling := domain.CalendarEvent{
			ID:         uuid.New(),
			CalendarID: calendarID,
			Title:      "early meeting",
			Start:      repoNow.Add(-30 * time.Minute),
			End:        repoNow.Add(30 * time.Minute),
		}
		insertEvent(t, conn, straddling)

		events, err := repo.FindByCalendarsInRange(ctx, []uuid.UUID{calendarID}, repoNow, repoNow.Add(time.Hour))
		require.NoError(t, err)
		require.Len(t, events, 1)
	})

	t.Run("no calendars short-circuits", func(t *testing.T) {
		conn := newTestConn(t)
		repo := NewSQLiteCalendarEventRepository(conn)

		events, err := repo.FindByCalendarsInRange(ctx, nil, repoNow, repoNow.Add(time.Hour))
		require.NoError(t, err)
		assert.Nil(t, events)
	})
}

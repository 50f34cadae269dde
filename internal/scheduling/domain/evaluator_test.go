package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monday morning, before the default work-hour start
var evalNow = time.Date(2025, time.March, 3, 8, 0, 0, 0, time.UTC)

func snapshotFor(tasks ...*Task) *Snapshot {
	var userID uuid.UUID
	if len(tasks) > 0 {
		userID = tasks[0].UserID
	} else {
		userID = uuid.New()
	}
	return &Snapshot{
		Now:      evalNow,
		Settings: DefaultSettings(userID),
		Tasks:    tasks,
	}
}

func TestConflictEvaluator(t *testing.T) {
	userID := uuid.New()

	t.Run("overlapping event produces a relocation", func(t *testing.T) {
		task := scheduledTask(userID, evalNow.Add(2*time.Hour), time.Hour) // 10:00-11:00
		state := snapshotFor(task)
		state.Events = []CalendarEvent{eventAt(evalNow.Add(150*time.Minute), time.Hour)} // 10:30-11:30

		c := ConflictEvaluator{}.Evaluate(task, state)
		require.NotNil(t, c)
		assert.Equal(t, SuggestionConflict, c.Type)
		assert.Equal(t, 1.0, c.Confidence)
		require.NotNil(t, c.Slot)
		assert.False(t, HasConflict(*c.Slot, state.Events, othersThan(state.Tasks, task.ID)),
			"proposed slot must itself be free")
	})

	t.Run("overlapping sibling task produces a relocation", func(t *testing.T) {
		task := scheduledTask(userID, evalNow.Add(2*time.Hour), time.Hour)
		other := scheduledTask(userID, evalNow.Add(2*time.Hour+30*time.Minute), time.Hour)
		state := snapshotFor(task, other)

		c := ConflictEvaluator{}.Evaluate(task, state)
		require.NotNil(t, c)
		assert.Equal(t, 1.0, c.Confidence)
	})

	t.Run("no conflict yields nothing", func(t *testing.T) {
		task := scheduledTask(userID, evalNow.Add(2*time.Hour), time.Hour)
		c := ConflictEvaluator{}.Evaluate(task, snapshotFor(task))
		assert.Nil(t, c)
	})

	t.Run("unscheduled task yields nothing", func(t *testing.T) {
		task := unscheduledTask(userID)
		c := ConflictEvaluator{}.Evaluate(task, snapshotFor(task))
		assert.Nil(t, c)
	})

	t.Run("fully booked horizon yields nothing", func(t *testing.T) {
		task := scheduledTask(userID, evalNow.Add(90*time.Minute), time.Hour) // 9:30-10:30
		state := snapshotFor(task)
		state.Settings.WorkHourStart = 9
		state.Settings.WorkHourEnd = 10

		// One event per day covering the only slot a one-hour task fits in,
		// plus one clashing with the current assignment.
		for day := 0; day < conflictSlotHorizon+1; day++ {
			start := dayStart(evalNow).AddDate(0, 0, day).Add(9 * time.Hour)
			state.Events = append(state.Events, eventAt(start, time.Hour))
		}

		c := ConflictEvaluator{}.Evaluate(task, state)
		assert.Nil(t, c, "no free slot means no suggestion")
	})
}

func TestDeadlineProximityEvaluator(t *testing.T) {
	userID := uuid.New()

	newDueTask := func(untilDue time.Duration) *Task {
		task := unscheduledTask(userID)
		due := evalNow.Add(untilDue)
		task.DueDate = &due
		return task
	}

	t.Run("due soon and unscheduled produces a slot", func(t *testing.T) {
		task := newDueTask(6 * time.Hour)
		c := DeadlineProximityEvaluator{}.Evaluate(task, snapshotFor(task))
		require.NotNil(t, c)
		assert.Equal(t, SuggestionDeadlineProximity, c.Type)
		assert.Equal(t, 0.9, c.Confidence)
		require.NotNil(t, c.Slot)
		assert.True(t, c.Slot.Start.After(evalNow))
	})

	t.Run("due exactly in 24 hours still qualifies", func(t *testing.T) {
		task := newDueTask(24 * time.Hour)
		c := DeadlineProximityEvaluator{}.Evaluate(task, snapshotFor(task))
		assert.NotNil(t, c)
	})

	t.Run("due beyond 24 hours yields nothing", func(t *testing.T) {
		task := newDueTask(30 * time.Hour)
		c := DeadlineProximityEvaluator{}.Evaluate(task, snapshotFor(task))
		assert.Nil(t, c)
	})

	t.Run("already overdue yields nothing", func(t *testing.T) {
		task := newDueTask(-time.Hour)
		c := DeadlineProximityEvaluator{}.Evaluate(task, snapshotFor(task))
		assert.Nil(t, c)
	})

	t.Run("scheduled task yields nothing", func(t *testing.T) {
		task := scheduledTask(userID, evalNow.Add(2*time.Hour), time.Hour)
		due := evalNow.Add(6 * time.Hour)
		task.DueDate = &due
		c := DeadlineProximityEvaluator{}.Evaluate(task, snapshotFor(task))
		assert.Nil(t, c)
	})

	t.Run("no due date yields nothing", func(t *testing.T) {
		task := unscheduledTask(userID)
		c := DeadlineProximityEvaluator{}.Evaluate(task, snapshotFor(task))
		assert.Nil(t, c)
	})
}

func TestEnergyMismatchEvaluator(t *testing.T) {
	userID := uuid.New()

	t.Run("high energy task in a medium window gets moved", func(t *testing.T) {
		task := scheduledTask(userID, evalNow.Add(6*time.Hour), time.Hour) // 14:00
		task.EnergyLevel = EnergyHigh
		state := snapshotFor(task)

		c := EnergyMismatchEvaluator{}.Evaluate(task, state)
		require.NotNil(t, c)
		assert.Equal(t, SuggestionEnergyMismatch, c.Type)
		assert.Equal(t, 0.7, c.Confidence)
		require.NotNil(t, c.Slot)
		assert.Equal(t, EnergyHigh, ExpectedEnergy(c.Slot.StartHour(), state.Settings),
			"proposed slot falls inside the required window")
	})

	t.Run("uncovered hour counts as a mismatch", func(t *testing.T) {
		task := scheduledTask(userID, evalNow.Add(4*time.Hour), time.Hour) // 12:00, no window
		task.EnergyLevel = EnergyHigh
		c := EnergyMismatchEvaluator{}.Evaluate(task, snapshotFor(task))
		assert.NotNil(t, c)
	})

	t.Run("matching window yields nothing", func(t *testing.T) {
		task := scheduledTask(userID, evalNow.Add(2*time.Hour), time.Hour) // 10:00, high window
		task.EnergyLevel = EnergyHigh
		c := EnergyMismatchEvaluator{}.Evaluate(task, snapshotFor(task))
		assert.Nil(t, c)
	})

	t.Run("task without energy requirement yields nothing", func(t *testing.T) {
		task := scheduledTask(userID, evalNow.Add(6*time.Hour), time.Hour)
		c := EnergyMismatchEvaluator{}.Evaluate(task, snapshotFor(task))
		assert.Nil(t, c)
	})
}

func TestOverloadEvaluator(t *testing.T) {
	userID := uuid.New()

	t.Run("more than six scheduled hours flags the day", func(t *testing.T) {
		a := scheduledTask(userID, evalNow.Add(time.Hour), 150*time.Minute)
		b := scheduledTask(userID, evalNow.Add(210*time.Minute), 150*time.Minute)
		c := scheduledTask(userID, evalNow.Add(6*time.Hour), 150*time.Minute)
		state := snapshotFor(a, b, c)

		candidate := OverloadEvaluator{}.Evaluate(a, state)
		require.NotNil(t, candidate)
		assert.Equal(t, SuggestionOverload, candidate.Type)
		assert.Equal(t, 0.8, candidate.Confidence)
		assert.Nil(t, candidate.Slot, "overload is reason-only")
	})

	t.Run("exactly six hours is not overload", func(t *testing.T) {
		a := scheduledTask(userID, evalNow.Add(time.Hour), 3*time.Hour)
		b := scheduledTask(userID, evalNow.Add(5*time.Hour), 3*time.Hour)
		state := snapshotFor(a, b)

		assert.Nil(t, OverloadEvaluator{}.Evaluate(a, state))
	})

	t.Run("other days do not count", func(t *testing.T) {
		a := scheduledTask(userID, evalNow.Add(time.Hour), 4*time.Hour)
		b := scheduledTask(userID, evalNow.AddDate(0, 0, 1), 4*time.Hour)
		state := snapshotFor(a, b)

		assert.Nil(t, OverloadEvaluator{}.Evaluate(a, state))
	})
}

func TestBreakViolationEvaluator(t *testing.T) {
	userID := uuid.New()

	chain := func() []*Task {
		// 9:00-11:00, 11:05-13:05, 13:10-13:40 with five-minute gaps:
		// one continuous 4h40m span under the default 15-minute break.
		a := scheduledTask(userID, evalNow.Add(time.Hour), 2*time.Hour)
		b := scheduledTask(userID, evalNow.Add(3*time.Hour+5*time.Minute), 2*time.Hour)
		c := scheduledTask(userID, evalNow.Add(5*time.Hour+10*time.Minute), 30*time.Minute)
		return []*Task{a, b, c}
	}

	t.Run("back-to-back span over the limit is flagged", func(t *testing.T) {
		tasks := chain()
		state := snapshotFor(tasks...)

		c := BreakViolationEvaluator{}.Evaluate(tasks[1], state)
		require.NotNil(t, c)
		assert.Equal(t, SuggestionBreakViolation, c.Type)
		assert.Equal(t, 0.85, c.Confidence)
		assert.Nil(t, c.Slot, "break violation is reason-only")
	})

	t.Run("every task in the span is flagged", func(t *testing.T) {
		tasks := chain()
		state := snapshotFor(tasks...)

		for _, task := range tasks {
			assert.NotNil(t, BreakViolationEvaluator{}.Evaluate(task, state))
		}
	})

	t.Run("a real break splits the span", func(t *testing.T) {
		a := scheduledTask(userID, evalNow.Add(time.Hour), 2*time.Hour)           // 9:00-11:00
		b := scheduledTask(userID, evalNow.Add(3*time.Hour+30*time.Minute), 2*time.Hour) // 11:30-13:30
		state := snapshotFor(a, b)

		assert.Nil(t, BreakViolationEvaluator{}.Evaluate(a, state))
		assert.Nil(t, BreakViolationEvaluator{}.Evaluate(b, state))
	})

	t.Run("disabled enforcement yields nothing", func(t *testing.T) {
		tasks := chain()
		state := snapshotFor(tasks...)
		state.Settings.EnforceBreaks = false

		assert.Nil(t, BreakViolationEvaluator{}.Evaluate(tasks[1], state))
	})
}

func TestDefaultEvaluators_Order(t *testing.T) {
	evaluators := DefaultEvaluators()
	require.Len(t, evaluators, 5)

	types := make([]SuggestionType, 0, len(evaluators))
	for _, ev := range evaluators {
		types = append(types, ev.Type())
	}
	assert.Equal(t, []SuggestionType{
		SuggestionConflict,
		SuggestionDeadlineProximity,
		SuggestionEnergyMismatch,
		SuggestionOverload,
		SuggestionBreakViolation,
	}, types)
}

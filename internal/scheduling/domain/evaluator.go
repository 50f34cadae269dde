package domain

import (
	"fmt"
	"sort"
	"time"
)

// Evaluator confidence levels and heuristic thresholds.
const (
	conflictConfidence  = 1.0
	deadlineConfidence  = 0.9
	energyConfidence    = 0.7
	overloadConfidence  = 0.8
	breakConfidence     = 0.85
	overloadThreshold   = 360 * time.Minute
	conflictSlotHorizon = 7
	deadlineSlotHorizon = 3
	energySlotHorizon   = 7
)

// Candidate is a proposed suggestion produced by one evaluator for one task.
// Slot is nil for reason-only heuristics.
type Candidate struct {
	Type       SuggestionType
	Reason     string
	Confidence float64
	Slot       *TimeRange
}

// Snapshot is the state one evaluation run sees: the clock, the user's
// settings, their fixed calendar events, and all open tasks.
type Snapshot struct {
	Now      time.Time
	Settings *AutoScheduleSettings
	Events   []CalendarEvent
	Tasks    []*Task
}

// Evaluator inspects a single task against the snapshot and proposes at most
// one suggestion candidate per run.
type Evaluator interface {
	Type() SuggestionType
	Evaluate(task *Task, state *Snapshot) *Candidate
}

// DefaultEvaluators returns the fixed, ordered list of heuristics the
// orchestrator runs for every task.
func DefaultEvaluators() []Evaluator {
	return []Evaluator{
		ConflictEvaluator{},
		DeadlineProximityEvaluator{},
		EnergyMismatchEvaluator{},
		OverloadEvaluator{},
		BreakViolationEvaluator{},
	}
}

// ConflictEvaluator flags tasks whose scheduled interval overlaps a calendar
// event or another scheduled task, and proposes the first free slot within
// the next seven days.
type ConflictEvaluator struct{}

func (ConflictEvaluator) Type() SuggestionType { return SuggestionConflict }

func (ConflictEvaluator) Evaluate(task *Task, state *Snapshot) *Candidate {
	scheduled, ok := task.ScheduledRange()
	if !ok {
		return nil
	}

	others := othersThan(state.Tasks, task.ID)
	if !HasConflict(scheduled, state.Events, others) {
		return nil
	}

	slot := firstFreeSlot(task, state, conflictSlotHorizon)
	if slot == nil {
		return nil
	}

	return &Candidate{
		Type:       SuggestionConflict,
		Confidence: conflictConfidence,
		Slot:       slot,
		Reason: fmt.Sprintf("%q overlaps another commitment at %s; %s is free",
			task.Title,
			scheduled.Start.Format("Mon Jan 2 15:04"),
			slot.Start.Format("Mon Jan 2 15:04")),
	}
}

// DeadlineProximityEvaluator flags unscheduled tasks due within 24 hours and
// proposes the first free slot within a narrowed three-day horizon.
type DeadlineProximityEvaluator struct{}

func (DeadlineProximityEvaluator) Type() SuggestionType { return SuggestionDeadlineProximity }

func (DeadlineProximityEvaluator) Evaluate(task *Task, state *Snapshot) *Candidate {
	if task.DueDate == nil || task.IsScheduled() {
		return nil
	}

	untilDue := task.DueDate.Sub(state.Now)
	if untilDue <= 0 || untilDue > 24*time.Hour {
		return nil
	}

	slot := firstFreeSlot(task, state, deadlineSlotHorizon)
	if slot == nil {
		return nil
	}

	return &Candidate{
		Type:       SuggestionDeadlineProximity,
		Confidence: deadlineConfidence,
		Slot:       slot,
		Reason: fmt.Sprintf("%q is due in %d hours and has no scheduled time",
			task.Title,
			int(untilDue.Hours())),
	}
}

// EnergyMismatchEvaluator flags scheduled tasks whose hour falls outside the
// energy window their requirement calls for, and proposes the first free
// slot in a matching window.
type EnergyMismatchEvaluator struct{}

func (EnergyMismatchEvaluator) Type() SuggestionType { return SuggestionEnergyMismatch }

func (EnergyMismatchEvaluator) Evaluate(task *Task, state *Snapshot) *Candidate {
	scheduled, ok := task.ScheduledRange()
	if !ok || task.EnergyLevel == EnergyNone {
		return nil
	}

	expected := ExpectedEnergy(scheduled.StartHour(), state.Settings)
	if expected == task.EnergyLevel {
		return nil
	}

	slot := firstEnergySlot(task, state, energySlotHorizon, task.EnergyLevel)
	if slot == nil {
		return nil
	}

	return &Candidate{
		Type:       SuggestionEnergyMismatch,
		Confidence: energyConfidence,
		Slot:       slot,
		Reason: fmt.Sprintf("%q needs %s energy but is scheduled at %d:00, outside your %s energy hours",
			task.Title,
			task.EnergyLevel,
			scheduled.StartHour(),
			task.EnergyLevel),
	}
}

// OverloadEvaluator flags days where the total scheduled task time exceeds
// six hours. Reason-only; it proposes no relocation.
type OverloadEvaluator struct{}

func (OverloadEvaluator) Type() SuggestionType { return SuggestionOverload }

func (OverloadEvaluator) Evaluate(task *Task, state *Snapshot) *Candidate {
	scheduled, ok := task.ScheduledRange()
	if !ok {
		return nil
	}

	var total time.Duration
	for _, other := range state.Tasks {
		r, ok := other.ScheduledRange()
		if !ok || !r.SameDay(scheduled.Start) {
			continue
		}
		total += r.Duration()
	}

	if total <= overloadThreshold {
		return nil
	}

	return &Candidate{
		Type:       SuggestionOverload,
		Confidence: overloadConfidence,
		Reason: fmt.Sprintf("%d minutes of work are scheduled on %s; consider moving some of it to another day",
			int(total.Minutes()),
			scheduled.Start.Format("Mon Jan 2")),
	}
}

// BreakViolationEvaluator flags continuous work spans that exceed the user's
// maximum consecutive hours. A span accumulates immediately-adjacent tasks
// on either side whose gap is smaller than the minimum break. Reason-only.
type BreakViolationEvaluator struct{}

func (BreakViolationEvaluator) Type() SuggestionType { return SuggestionBreakViolation }

func (BreakViolationEvaluator) Evaluate(task *Task, state *Snapshot) *Candidate {
	if !state.Settings.EnforceBreaks {
		return nil
	}
	scheduled, ok := task.ScheduledRange()
	if !ok {
		return nil
	}

	// Scheduled tasks on the same day, ordered by start time.
	var day []*Task
	for _, other := range state.Tasks {
		r, ok := other.ScheduledRange()
		if !ok || !r.SameDay(scheduled.Start) {
			continue
		}
		day = append(day, other)
	}
	sort.Slice(day, func(i, j int) bool {
		return day[i].ScheduledStart.Before(*day[j].ScheduledStart)
	})

	idx := -1
	for i, other := range day {
		if other.ID == task.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	minBreak := state.Settings.MinBreak()

	// Walk outward from this task while gaps stay below the minimum break.
	first := idx
	for first > 0 && day[first].ScheduledStart.Sub(*day[first-1].ScheduledEnd) < minBreak {
		first--
	}
	last := idx
	for last < len(day)-1 && day[last+1].ScheduledStart.Sub(*day[last].ScheduledEnd) < minBreak {
		last++
	}

	span := day[last].ScheduledEnd.Sub(*day[first].ScheduledStart)
	maxSpan := time.Duration(state.Settings.MaxConsecutiveHours) * time.Hour
	if span <= maxSpan {
		return nil
	}

	return &Candidate{
		Type:       SuggestionBreakViolation,
		Confidence: breakConfidence,
		Reason: fmt.Sprintf("%.1f hours of back-to-back work around %q exceeds your %d-hour limit; schedule a break",
			span.Hours(),
			task.Title,
			state.Settings.MaxConsecutiveHours),
	}
}

// firstFreeSlot returns the first generated slot with no conflict against
// the user's events and other scheduled tasks, or nil when none qualifies.
func firstFreeSlot(task *Task, state *Snapshot, daysAhead int) *TimeRange {
	others := othersThan(state.Tasks, task.ID)
	for _, slot := range GenerateSlots(state.Now, daysAhead, state.Settings, task.EstimatedDuration()) {
		if !HasConflict(slot, state.Events, others) {
			return &slot
		}
	}
	return nil
}

// firstEnergySlot is firstFreeSlot restricted to slots whose hour matches
// the required energy tier.
func firstEnergySlot(task *Task, state *Snapshot, daysAhead int, required EnergyLevel) *TimeRange {
	others := othersThan(state.Tasks, task.ID)
	for _, slot := range GenerateSlots(state.Now, daysAhead, state.Settings, task.EstimatedDuration()) {
		if ExpectedEnergy(slot.StartHour(), state.Settings) != required {
			continue
		}
		if !HasConflict(slot, state.Events, others) {
			return &slot
		}
	}
	return nil
}

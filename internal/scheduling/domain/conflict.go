package domain

import "github.com/google/uuid"

// HasConflict reports whether the candidate interval overlaps any calendar
// event or any other task's scheduled interval. Tasks without a scheduled
// interval are skipped. Used both to detect that an existing assignment is
// broken and to validate a freshly generated slot before proposing it.
func HasConflict(r TimeRange, events []CalendarEvent, otherTasks []*Task) bool {
	for _, event := range events {
		if r.Overlaps(event.Range()) {
			return true
		}
	}
	for _, task := range otherTasks {
		scheduled, ok := task.ScheduledRange()
		if !ok {
			continue
		}
		if r.Overlaps(scheduled) {
			return true
		}
	}
	return false
}

// othersThan returns all tasks except the one with the given ID.
func othersThan(tasks []*Task, id uuid.UUID) []*Task {
	others := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			others = append(others, t)
		}
	}
	return others
}

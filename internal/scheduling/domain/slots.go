package domain

import "time"

// slotGranularity is the spacing between candidate slot start times.
const slotGranularity = 30 * time.Minute

// GenerateSlots enumerates candidate time windows for a task of the given
// duration across daysAhead days starting at now. Slots start on 30-minute
// boundaries within work hours; any slot whose end passes the configured
// work-hour end is discarded. On the current day, enumeration begins at the
// next full hour once the clock has passed the work-hour start, so no slot
// is proposed in the past.
//
// No conflict filtering happens here; that is the conflict detector's job.
func GenerateSlots(now time.Time, daysAhead int, settings *AutoScheduleSettings, duration time.Duration) []TimeRange {
	slots := make([]TimeRange, 0, daysAhead*(settings.WorkHourEnd-settings.WorkHourStart)*2)

	for offset := 0; offset < daysAhead; offset++ {
		day := dayStart(now.AddDate(0, 0, offset))

		startHour := settings.WorkHourStart
		if offset == 0 && now.Hour() >= settings.WorkHourStart {
			startHour = now.Hour() + 1
		}

		workEnd := day.Add(time.Duration(settings.WorkHourEnd) * time.Hour)

		for start := day.Add(time.Duration(startHour) * time.Hour); start.Before(workEnd); start = start.Add(slotGranularity) {
			end := start.Add(duration)
			if end.After(workEnd) {
				continue
			}
			slots = append(slots, TimeRange{Start: start, End: end})
		}
	}

	return slots
}

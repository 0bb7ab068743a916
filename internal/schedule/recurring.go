package schedule

import (
	"sort"
	"time"

	"studiobooking/internal/domain"
)

// ResolveDay expands the weekly windows matching civilDate's day-of-week into
// concrete half-open UTC ranges. offsetHours is the fixed local-to-UTC offset
// (local = UTC + offset); there is no DST table, by configuration.
//
// Midnight rule: both endpoints are shifted by the offset and re-anchored to
// civilDate's own calendar day in UTC, then the end advances one day whenever
// it does not land after the start. A window that crosses midnight in local
// time therefore resolves to a range whose end falls on the next UTC day, and
// a start pushed "before midnight" by the offset subtraction stays attached
// to the requested civil day rather than drifting to the previous one.
func ResolveDay(windows []domain.Availability, civilDate time.Time, offsetHours int) ([]Range, error) {
	day := domain.DayFromWeekday(civilDate.Weekday())
	base := time.Date(civilDate.Year(), civilDate.Month(), civilDate.Day(), 0, 0, 0, 0, time.UTC)

	out := make([]Range, 0, 2)
	for _, w := range windows {
		if w.Day != day {
			continue
		}
		startMin, err := ParseClock(w.Start)
		if err != nil {
			return nil, err
		}
		endMin, err := ParseClock(w.End)
		if err != nil {
			return nil, err
		}
		if endMin == 0 {
			endMin = MinutesPerDay // "00:00" as an end means end-of-day
		}

		start := base.Add(time.Duration(wrapMinute(startMin-offsetHours*60)) * time.Minute)
		end := base.Add(time.Duration(wrapMinute(endMin-offsetHours*60)) * time.Minute)
		if !end.After(start) {
			end = end.Add(24 * time.Hour)
		}
		out = append(out, Range{Start: start, End: end})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func wrapMinute(m int) int {
	m %= MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return m
}

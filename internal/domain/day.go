package domain

import (
	"fmt"
	"strings"
	"time"
)

// Day is the day-of-week key used by weekly availability windows.
type Day string

const (
	DaySun Day = "sun"
	DayMon Day = "mon"
	DayTue Day = "tue"
	DayWed Day = "wed"
	DayThu Day = "thu"
	DayFri Day = "fri"
	DaySat Day = "sat"
)

// DayFromWeekday is the single conversion point from a calendar date.
func DayFromWeekday(w time.Weekday) Day {
	switch w {
	case time.Monday:
		return DayMon
	case time.Tuesday:
		return DayTue
	case time.Wednesday:
		return DayWed
	case time.Thursday:
		return DayThu
	case time.Friday:
		return DayFri
	case time.Saturday:
		return DaySat
	default:
		return DaySun
	}
}

// ParseDay accepts short ("mon") or full ("monday") names, case-insensitive.
func ParseDay(s string) (Day, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if len(key) > 3 {
		key = key[:3]
	}
	switch Day(key) {
	case DaySun, DayMon, DayTue, DayWed, DayThu, DayFri, DaySat:
		return Day(key), nil
	}
	return "", fmt.Errorf("unknown day of week: %q", s)
}

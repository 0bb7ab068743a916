// Package schedule holds the pure scheduling core: civil-time parsing,
// interval conflict checks, weekly availability resolution, the availability
// merge engine and the forward slot search. It performs no I/O; callers
// fetch rows first and apply the returned plans or verdicts themselves.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay is also used as the raw "24:00" end-of-day marker.
const MinutesPerDay = 24 * 60

// ParseClock converts "HH:MM" to minutes since midnight. Hours run 0-23, so
// "24:00" is rejected here; end-of-day is expressed as "00:00" by convention
// and normalized by the caller that knows it is an end.
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrFormat, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrFormat, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrFormat, s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrFormat, s)
	}
	return h*60 + m, nil
}

// FormatMinutes renders minutes since midnight as "HH:MM". Values outside
// 0-1439 wrap around, so a raw end of 1440 ("24:00") renders as "00:00";
// whether that means midnight-start or midnight-end is the caller's context.
func FormatMinutes(m int) string {
	m %= MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// RangesOverlapOrAdjacent reports whether two minute ranges overlap or touch
// exactly. Ranges whose end precedes their start are treated as crossing
// midnight (end shifted by one day). Adjacency counts as mergeable so that
// back-to-back availability windows collapse instead of fragmenting; booking
// conflicts use the strict Overlaps check instead.
func RangesOverlapOrAdjacent(aStart, aEnd, bStart, bEnd int) bool {
	if aEnd < aStart {
		aEnd += MinutesPerDay
	}
	if bEnd < bStart {
		bEnd += MinutesPerDay
	}
	return aStart <= bEnd && bStart <= aEnd
}

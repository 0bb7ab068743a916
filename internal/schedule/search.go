package schedule

import (
	"fmt"
	"sort"
	"time"

	"studiobooking/internal/domain"
)

// Search defaults: candidates step in half-hour increments and the walk gives
// up after two weeks of empty days.
const (
	DefaultStepMinutes = 30
	DefaultHorizonDays = 14
	DefaultMaxResults  = 2
)

// SearchConfig carries the fixed civil-time parameters of the studio.
// OperatingClose at or before OperatingOpen means closing past midnight
// (e.g. 10:00-04:00); a close of "00:00" is end-of-day.
type SearchConfig struct {
	OffsetHours    int // local = UTC + OffsetHours, no DST
	OperatingOpen  int // local minutes since midnight
	OperatingClose int // local minutes since midnight
	StepMinutes    int
	HorizonDays    int
	MaxResults     int
}

func (c SearchConfig) withDefaults() SearchConfig {
	if c.StepMinutes <= 0 {
		c.StepMinutes = DefaultStepMinutes
	}
	if c.HorizonDays <= 0 {
		c.HorizonDays = DefaultHorizonDays
	}
	if c.MaxResults <= 0 {
		c.MaxResults = DefaultMaxResults
	}
	return c
}

// Slot is a candidate booking window. StudioID is the studio that was free
// for it, zero when the search ran without a studio constraint.
type Slot struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	StudioID int64     `json:"studio_id,omitempty"`
}

// SearchRequest is an immutable snapshot of everything the walk needs; the
// caller fetches rows up front, the engine never touches storage.
type SearchRequest struct {
	From            time.Time
	DurationMinutes int
	Windows         []domain.Availability // engineer's full weekly template
	FonicoBusy      []Range               // confirmed bookings + holidays, UTC
	StudioIDs       []int64               // candidate studios; empty disables the studio constraint
	StudioBusy      map[int64][]Range     // confirmed bookings per studio, UTC
}

type searchState int

const (
	stateAdvanceDay searchState = iota
	stateScanWindows
	stateScanWithinWindow
)

// FindNextSlots walks forward from req.From and returns up to MaxResults
// windows of the requested duration that sit inside the engineer's recurring
// availability, clear of every confirmed booking and holiday, inside
// operating hours, and with at least one free studio. An empty result just
// means nothing fits within the horizon; it is not an error.
func FindNextSlots(cfg SearchConfig, req SearchRequest) ([]Slot, error) {
	cfg = cfg.withDefaults()
	if req.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrInvalidRange)
	}

	duration := time.Duration(req.DurationMinutes) * time.Minute
	slots := make([]Slot, 0, cfg.MaxResults)

	cursor := req.From
	daysUsed := 0
	state := stateScanWindows

	var (
		dayRanges []Range
		windowIdx int
		candidate time.Time
		windowEnd time.Time
	)

	for {
		switch state {
		case stateAdvanceDay:
			daysUsed++
			if daysUsed > cfg.HorizonDays {
				return slots, nil
			}
			cursor = cfg.nextDayOpen(cursor)
			state = stateScanWindows

		case stateScanWindows:
			var err error
			dayRanges, err = cfg.rangesAround(req.Windows, cursor)
			if err != nil {
				return nil, err
			}
			windowIdx = 0
			state = stateScanWithinWindow

		case stateScanWithinWindow:
			if windowIdx >= len(dayRanges) {
				state = stateAdvanceDay
				continue
			}
			w := dayRanges[windowIdx]
			windowIdx++
			if !w.End.After(cursor) {
				continue // window entirely behind the cursor
			}
			candidate = w.Start
			if cursor.After(candidate) {
				candidate = cursor // clip to the cursor, steps align from here
			}
			windowEnd = w.End

			for !candidate.Add(duration).After(windowEnd) {
				candidateEnd := candidate.Add(duration)
				if !cfg.fitsOperatingHours(candidate, candidateEnd) {
					if open := cfg.dayOpen(candidate); candidate.Before(open) {
						candidate = open // before opening: jump to it and retry
						continue
					}
					break // would run past closing; nothing later in this window fits
				}
				if HasConflict(candidate, candidateEnd, req.FonicoBusy) {
					candidate = candidate.Add(time.Duration(cfg.StepMinutes) * time.Minute)
					continue
				}
				studioID, ok := cfg.pickFreeStudio(req, candidate, candidateEnd)
				if !ok {
					candidate = candidate.Add(time.Duration(cfg.StepMinutes) * time.Minute)
					continue
				}

				slots = append(slots, Slot{Start: candidate, End: candidateEnd, StudioID: studioID})
				if len(slots) >= cfg.MaxResults {
					return slots, nil
				}
				cursor = candidateEnd
				state = stateScanWindows
				break
			}
			// fell off the window without a hit: try the next window
		}
	}
}

// CheckRange is the single-range verdict behind booking create/update: the
// exact [start, end) must lie inside one recurring window, inside operating
// hours, and clear of both the engineer's and the studio's busy ranges.
func CheckRange(cfg SearchConfig, start, end time.Time, windows []domain.Availability, fonicoBusy, studioBusy []Range) (bool, error) {
	cfg = cfg.withDefaults()
	if !end.After(start) {
		return false, fmt.Errorf("%w: end must be after start", ErrInvalidRange)
	}
	if !cfg.fitsOperatingHours(start, end) {
		return false, nil
	}
	ranges, err := cfg.rangesAround(windows, start)
	if err != nil {
		return false, err
	}
	contained := false
	for _, r := range ranges {
		if !start.Before(r.Start) && !end.After(r.End) {
			contained = true
			break
		}
	}
	if !contained {
		return false, nil
	}
	if HasConflict(start, end, fonicoBusy) || HasConflict(start, end, studioBusy) {
		return false, nil
	}
	return true, nil
}

// rangesAround resolves the weekly template for the civil day the cursor
// falls on and the day before it, so the tail of a midnight-crossing window
// declared yesterday is still scanned today.
func (c SearchConfig) rangesAround(windows []domain.Availability, cursor time.Time) ([]Range, error) {
	civil := cursor.Add(time.Duration(c.OffsetHours) * time.Hour)
	today := time.Date(civil.Year(), civil.Month(), civil.Day(), 0, 0, 0, 0, time.UTC)

	out := make([]Range, 0, 4)
	for _, day := range []time.Time{today.AddDate(0, 0, -1), today} {
		ranges, err := ResolveDay(windows, day, c.OffsetHours)
		if err != nil {
			return nil, err
		}
		for _, r := range ranges {
			if r.End.After(cursor) {
				out = append(out, r)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

// dayOpen is the operating-open instant of the civil day t falls on,
// expressed in UTC.
func (c SearchConfig) dayOpen(t time.Time) time.Time {
	civil := t.Add(time.Duration(c.OffsetHours) * time.Hour)
	day := time.Date(civil.Year(), civil.Month(), civil.Day(), 0, 0, 0, 0, time.UTC)
	return day.Add(time.Duration(c.OperatingOpen)*time.Minute - time.Duration(c.OffsetHours)*time.Hour)
}

// nextDayOpen moves the cursor to the next civil day's operating-open
// instant, expressed in UTC.
func (c SearchConfig) nextDayOpen(cursor time.Time) time.Time {
	civil := cursor.Add(time.Duration(c.OffsetHours) * time.Hour)
	next := time.Date(civil.Year(), civil.Month(), civil.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return next.Add(time.Duration(c.OperatingOpen)*time.Minute - time.Duration(c.OffsetHours)*time.Hour)
}

// fitsOperatingHours checks the candidate against the studio-wide local
// open/close bounds, unfolding a close past midnight onto a 0-2880 axis.
func (c SearchConfig) fitsOperatingHours(start, end time.Time) bool {
	openM, closeM := c.OperatingOpen, c.OperatingClose
	if closeM <= openM {
		closeM += MinutesPerDay
	}
	local := start.Add(time.Duration(c.OffsetHours) * time.Hour)
	startM := local.Hour()*60 + local.Minute()
	if startM < openM {
		startM += MinutesPerDay
	}
	durM := int(end.Sub(start) / time.Minute)
	return startM >= openM && startM+durM <= closeM
}

func (c SearchConfig) pickFreeStudio(req SearchRequest, start, end time.Time) (int64, bool) {
	if len(req.StudioIDs) == 0 {
		return 0, true
	}
	for _, id := range req.StudioIDs {
		if !HasConflict(start, end, req.StudioBusy[id]) {
			return id, true
		}
	}
	return 0, false
}

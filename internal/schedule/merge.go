package schedule

import (
	"fmt"
	"sort"

	"studiobooking/internal/domain"
)

// MergedWindow is one window of the post-merge coverage, rendered back to
// civil "HH:MM" strings (an end of 24:00 renders as "00:00").
type MergedWindow struct {
	Start     string  `json:"start"`
	End       string  `json:"end"`
	SourceIDs []int64 `json:"source_ids,omitempty"` // existing rows folded into this window
}

// MergePlan is the delta an availability declaration produces: rows to create
// and superseded rows to delete. The caller must apply both inside a single
// transaction so readers never observe partial coverage.
type MergePlan struct {
	Creates   []MergedWindow `json:"creates"`
	DeleteIDs []int64        `json:"delete_ids"`
}

// normalizedRange lives in minutes; End may be MinutesPerDay (24:00) before
// the final render. Midnight-crossing inputs are split into two of these.
type normalizedRange struct {
	Start, End int
	ID         int64
	New        bool
}

type mergedGroup struct {
	Start, End int
	IDs        []int64
	HasNew     bool
	Joined     bool // produced by the midnight re-join pass
}

// BuildMergePlan merges the requested window [newStart, newEnd) with the
// owner's existing windows for the same day and returns the minimal
// non-overlapping, non-adjacent coverage as a create/delete plan. Existing
// rows untouched by the merge are left alone.
func BuildMergePlan(newStart, newEnd string, existing []domain.Availability) (*MergePlan, error) {
	ranges := make([]normalizedRange, 0, len(existing)*2+2)

	startMin, endMin, err := parseWindow(newStart, newEnd)
	if err != nil {
		return nil, err
	}
	ranges = appendNormalized(ranges, startMin, endMin, 0, true)

	for _, row := range existing {
		s, e, err := parseWindow(row.Start, row.End)
		if err != nil {
			return nil, fmt.Errorf("availability row %d: %w", row.ID, err)
		}
		ranges = appendNormalized(ranges, s, e, row.ID, false)
	}

	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].Start != ranges[j].Start {
			return ranges[i].Start < ranges[j].Start
		}
		return ranges[i].End < ranges[j].End
	})

	// Left-to-right sweep; a range starting at or before the running end is
	// folded in, so exact adjacency collapses instead of fragmenting.
	groups := make([]mergedGroup, 0, len(ranges))
	cur := mergedGroup{Start: ranges[0].Start, End: ranges[0].End}
	cur.absorb(ranges[0])
	for _, r := range ranges[1:] {
		if r.Start <= cur.End {
			if r.End > cur.End {
				cur.End = r.End
			}
			cur.absorb(r)
			continue
		}
		groups = append(groups, cur)
		cur = mergedGroup{Start: r.Start, End: r.End}
		cur.absorb(r)
	}
	groups = append(groups, cur)

	groups = joinThroughMidnight(groups)

	plan := &MergePlan{Creates: []MergedWindow{}, DeleteIDs: []int64{}}
	for _, g := range groups {
		if !g.dirty() {
			continue // untouched existing row, keep as is
		}
		plan.Creates = append(plan.Creates, MergedWindow{
			Start:     FormatMinutes(g.Start),
			End:       FormatMinutes(g.End),
			SourceIDs: g.IDs,
		})
		plan.DeleteIDs = append(plan.DeleteIDs, g.IDs...)
	}
	sort.Slice(plan.DeleteIDs, func(i, j int) bool { return plan.DeleteIDs[i] < plan.DeleteIDs[j] })
	return plan, nil
}

func parseWindow(start, end string) (int, int, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, 0, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, 0, err
	}
	if e == 0 {
		e = MinutesPerDay
	}
	if s == e {
		return 0, 0, fmt.Errorf("%w: %s-%s has zero length", ErrInvalidRange, start, end)
	}
	return s, e, nil
}

// appendNormalized splits a midnight-crossing window into [start, 24:00) and
// [00:00, end); both halves keep the source row id so the sweep can tell
// which rows a merged group supersedes.
func appendNormalized(ranges []normalizedRange, start, end int, id int64, isNew bool) []normalizedRange {
	if end < start {
		return append(ranges,
			normalizedRange{Start: start, End: MinutesPerDay, ID: id, New: isNew},
			normalizedRange{Start: 0, End: end, ID: id, New: isNew},
		)
	}
	return append(ranges, normalizedRange{Start: start, End: end, ID: id, New: isNew})
}

// joinThroughMidnight rejoins a group ending at 24:00 with a group starting
// at 00:00. The sweep works on a 0-1440 axis, so a window split at midnight
// (or two independent windows meeting exactly there) comes out as two groups
// that belong together.
func joinThroughMidnight(groups []mergedGroup) []mergedGroup {
	if len(groups) <= 1 {
		return groups
	}
	endsAtMidnight, startsAtMidnight := -1, -1
	for i, g := range groups {
		if g.End == MinutesPerDay {
			endsAtMidnight = i
		}
		if g.Start == 0 {
			startsAtMidnight = i
		}
	}
	if endsAtMidnight == -1 || startsAtMidnight == -1 || endsAtMidnight == startsAtMidnight {
		return groups
	}

	joined := mergedGroup{
		Start:  groups[endsAtMidnight].Start,
		End:    groups[startsAtMidnight].End, // numerically before Start: crosses midnight
		IDs:    mergeIDs(groups[endsAtMidnight].IDs, groups[startsAtMidnight].IDs),
		HasNew: groups[endsAtMidnight].HasNew || groups[startsAtMidnight].HasNew,
		Joined: true,
	}
	out := make([]mergedGroup, 0, len(groups)-1)
	for i, g := range groups {
		if i != endsAtMidnight && i != startsAtMidnight {
			out = append(out, g)
		}
	}
	return append(out, joined)
}

func (g *mergedGroup) absorb(r normalizedRange) {
	if r.New {
		g.HasNew = true
		return
	}
	for _, id := range g.IDs {
		if id == r.ID {
			return // second half of a split row
		}
	}
	g.IDs = append(g.IDs, r.ID)
}

// dirty reports whether the group changes stored coverage: it involves the
// new window, swallowed more than one existing row, or spans midnight joins.
func (g mergedGroup) dirty() bool {
	return g.HasNew || g.Joined || len(g.IDs) > 1
}

func mergeIDs(a, b []int64) []int64 {
	out := append([]int64{}, a...)
	for _, id := range b {
		seen := false
		for _, have := range out {
			if have == id {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, id)
		}
	}
	return out
}

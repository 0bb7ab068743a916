package availability

import (
	"time"

	"studiobooking/internal/domain"
	"studiobooking/internal/schedule"
)

type CreateRequest struct {
	UserID int64      `json:"user_id"`
	Day    domain.Day `json:"day" binding:"required"`
	Start  string     `json:"start" binding:"required"` // "HH:MM"
	End    string     `json:"end" binding:"required"`   // "HH:MM"
}

type UpdateRequest struct {
	Day   *domain.Day `json:"day"`
	Start *string     `json:"start"`
	End   *string     `json:"end"`
}

// WeekResponse groups an engineer's windows by day, in week order.
type WeekResponse struct {
	Days map[domain.Day][]domain.Availability `json:"days"`
}

// DayResponse is the engineer's resolved working time for one civil date,
// in UTC instants.
type DayResponse struct {
	Date   string          `json:"date"`
	Ranges []ResolvedRange `json:"ranges"`
}

type ResolvedRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func toResolved(ranges []schedule.Range) []ResolvedRange {
	out := make([]ResolvedRange, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, ResolvedRange{Start: r.Start, End: r.End})
	}
	return out
}

package booking

import (
	"time"

	"studiobooking/internal/domain"
	"studiobooking/internal/schedule"
)

type CreateRequest struct {
	UserID     int64     `json:"user_id"` // staff may book on behalf of a client
	FonicoID   int64     `json:"fonico_id" binding:"required"`
	StudioID   int64     `json:"studio_id" binding:"required"`
	Start      time.Time `json:"start" binding:"required"`
	End        time.Time `json:"end" binding:"required"`
	ServiceIDs []int64   `json:"service_ids"`
	Notes      string    `json:"notes"`
}

type UpdateRequest struct {
	FonicoID   *int64               `json:"fonico_id"`
	StudioID   *int64               `json:"studio_id"`
	Start      *time.Time           `json:"start"`
	End        *time.Time           `json:"end"`
	State      *domain.BookingState `json:"state"`
	ServiceIDs *[]int64             `json:"service_ids"`
	Notes      *string              `json:"notes"`
}

type ListQuery struct {
	FonicoID int64               `form:"fonico_id"`
	StudioID int64               `form:"studio_id"`
	EntityID int64               `form:"entity_id"` // staff only
	State    domain.BookingState `form:"state"`
	From     time.Time           `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To       time.Time           `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

type SlotsQuery struct {
	FonicoID        int64     `form:"fonico_id" binding:"required"`
	DurationMinutes int       `form:"duration" binding:"required,gt=0"`
	From            time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
}

// ConflictResponse carries the alternatives offered when the requested
// time is taken.
type ConflictResponse struct {
	Alternatives []schedule.Slot `json:"alternatives"`
}

package domain

import (
	"time"

	"gorm.io/datatypes"
)

type BookingState string

const (
	BookingPending   BookingState = "PENDING"
	BookingConfirmed BookingState = "CONFIRMED"
	BookingCancelled BookingState = "CANCELLED"
	BookingCompleted BookingState = "COMPLETED"
)

type Booking struct {
	ID         int64        `json:"id"`
	UserID     int64        `json:"user_id" validate:"required"`
	FonicoID   int64        `json:"fonico_id" validate:"required"`
	StudioID   int64        `json:"studio_id" validate:"required"`
	Start      time.Time    `json:"start" validate:"required"`
	End        time.Time    `json:"end" validate:"required"`
	State      BookingState `json:"state"`
	Notes      string       `json:"notes,omitempty" gorm:"type:text"`
	BookedByID int64        `json:"booked_by_id"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`

	User     *User             `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Fonico   *User             `json:"fonico,omitempty" gorm:"foreignKey:FonicoID"`
	Studio   *Studio           `json:"studio,omitempty" gorm:"foreignKey:StudioID"`
	Services []ServiceOffering `json:"services,omitempty" gorm:"many2many:booking_services"`
}

type LogAction string

const (
	LogUpdate LogAction = "UPDATE"
	LogDelete LogAction = "DELETE"
)

// ChangeLog keeps before/after snapshots of booking mutations.
type ChangeLog struct {
	ID         int64          `json:"id"`
	Action     LogAction      `json:"action"`
	UserID     int64          `json:"user_id"`
	BookingID  int64          `json:"booking_id"`
	OldBooking datatypes.JSON `json:"old_booking,omitempty"`
	NewBooking datatypes.JSON `json:"new_booking,omitempty"`
	Time       time.Time      `json:"time"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (ChangeLog) TableName() string { return "change_logs" }

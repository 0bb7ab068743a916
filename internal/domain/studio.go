package domain

import "time"

// Studio is a bookable recording room. It is the secondary resource of a
// booking: a slot needs both a free studio and a free engineer.
type Studio struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name" validate:"required"`
	Description  string     `json:"description,omitempty" gorm:"type:text"`
	PricePerHour float64    `json:"price_per_hour" validate:"gte=0"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"-"`
}

// ServiceOffering is an extra purchasable service attached to a booking
// (mixing, mastering, beat production and the like).
type ServiceOffering struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required"`
	Price     float64   `json:"price" validate:"gte=0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ServiceOffering) TableName() string { return "service_offerings" }

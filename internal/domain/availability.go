package domain

import "time"

// Availability is one weekly recurring window of an engineer, in local civil
// time. End "00:00" means end-of-day; end earlier than start means the window
// continues past midnight into the next day. Many rows may exist per
// (user, day); the merge engine keeps them non-overlapping and non-adjacent.
type Availability struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Day       Day       `json:"day"`
	Start     string    `json:"start"` // "HH:MM"
	End       string    `json:"end"`   // "HH:MM"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Availability) TableName() string { return "availabilities" }

type HolidayState string

const (
	HolidayPending   HolidayState = "PENDING"
	HolidayConfirmed HolidayState = "CONFIRMED"
	HolidayRejected  HolidayState = "REJECTED"
)

// Holiday is an approved or requested time-off period of an engineer.
// Only CONFIRMED rows participate in conflict checks.
type Holiday struct {
	ID        int64        `json:"id"`
	UserID    int64        `json:"user_id"`
	Start     time.Time    `json:"start"`
	End       time.Time    `json:"end"`
	State     HolidayState `json:"state"`
	Reason    string       `json:"reason,omitempty" gorm:"type:text"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

package domain

import "time"

type UserRole string

const (
	RoleUser      UserRole = "USER"
	RoleEngineer  UserRole = "ENGINEER"
	RoleSecretary UserRole = "SECRETARY"
	RoleAdmin     UserRole = "ADMIN"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username" validate:"required"`
	Email        string    `json:"email" validate:"required,email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	EntityID     *int64    `json:"entity_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Entity is a billing group of users (labels, crews, agencies).
type Entity struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required"`
	Notes     string    `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Users []User `json:"users,omitempty" gorm:"foreignKey:EntityID"`
}

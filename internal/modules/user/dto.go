package user

import "studiobooking/internal/domain"

type CreateRequest struct {
	Username string          `json:"username" binding:"required,min=3,max=32"`
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=8"`
	Role     domain.UserRole `json:"role" binding:"required"`
	Phone    string          `json:"phone"`
	EntityID *int64          `json:"entity_id"`
}

type UpdateRequest struct {
	Email    *string          `json:"email" binding:"omitempty,email"`
	Password *string          `json:"password" binding:"omitempty,min=8"`
	Role     *domain.UserRole `json:"role"`
	Phone    *string          `json:"phone"`
	EntityID *int64           `json:"entity_id"`
}

type Response struct {
	ID       int64           `json:"id"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Role     domain.UserRole `json:"role"`
	Phone    string          `json:"phone,omitempty"`
	EntityID *int64          `json:"entity_id,omitempty"`
}

func toResponse(u *domain.User) Response {
	return Response{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		Phone:    u.Phone,
		EntityID: u.EntityID,
	}
}

func toResponses(users []domain.User) []Response {
	out := make([]Response, 0, len(users))
	for i := range users {
		out = append(out, toResponse(&users[i]))
	}
	return out
}

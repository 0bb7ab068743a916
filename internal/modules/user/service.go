package user

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"studiobooking/internal/domain"
	"studiobooking/internal/pkg/validator"
	"studiobooking/internal/repository"
)

type Service struct {
	users repository.UserRepository
}

func NewService(users repository.UserRepository) *Service {
	return &Service{users: users}
}

func validRole(r domain.UserRole) bool {
	switch r {
	case domain.RoleUser, domain.RoleEngineer, domain.RoleSecretary, domain.RoleAdmin:
		return true
	}
	return false
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.User, error) {
	if !validRole(req.Role) {
		return nil, ErrValidation
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Username:     strings.TrimSpace(strings.ToLower(req.Username)),
		Email:        strings.TrimSpace(strings.ToLower(req.Email)),
		PasswordHash: string(hash),
		Role:         req.Role,
		Phone:        strings.TrimSpace(req.Phone),
		EntityID:     req.EntityID,
	}
	if fields := validator.Validate(u); fields != nil {
		return nil, ErrValidation
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// ListEngineers returns the bookable staff, the surface the booking form uses.
func (s *Service) ListEngineers(ctx context.Context) ([]domain.User, error) {
	return s.users.ListByRole(ctx, domain.RoleEngineer)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*domain.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Email != nil {
		u.Email = strings.TrimSpace(strings.ToLower(*req.Email))
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}
	if req.Role != nil {
		if !validRole(*req.Role) {
			return nil, ErrValidation
		}
		u.Role = *req.Role
	}
	if req.Phone != nil {
		u.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.EntityID != nil {
		u.EntityID = req.EntityID
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.users.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

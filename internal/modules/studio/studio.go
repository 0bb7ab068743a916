package studio

import (
	"context"
	"errors"

	"studiobooking/internal/domain"
	"studiobooking/internal/repository"
)

var ErrNotFound = errors.New("studio not found")

type CreateRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	PricePerHour float64 `json:"price_per_hour" binding:"required,gt=0"`
}

type UpdateRequest struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	PricePerHour *float64 `json:"price_per_hour" binding:"omitempty,gt=0"`
}

type Service struct {
	studios repository.StudioRepository
}

func NewService(studios repository.StudioRepository) *Service {
	return &Service{studios: studios}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.Studio, error) {
	st := &domain.Studio{
		Name:         req.Name,
		Description:  req.Description,
		PricePerHour: req.PricePerHour,
	}
	if err := s.studios.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Studio, error) {
	st, err := s.studios.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return st, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Studio, error) {
	return s.studios.List(ctx)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*domain.Studio, error) {
	st, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		st.Name = *req.Name
	}
	if req.Description != nil {
		st.Description = *req.Description
	}
	if req.PricePerHour != nil {
		st.PricePerHour = *req.PricePerHour
	}
	if err := s.studios.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.studios.Delete(ctx, id)
}

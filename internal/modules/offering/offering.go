package offering

import (
	"context"
	"errors"

	"studiobooking/internal/domain"
	"studiobooking/internal/repository"
)

var ErrNotFound = errors.New("service offering not found")

type CreateRequest struct {
	Name  string  `json:"name" binding:"required"`
	Price float64 `json:"price" binding:"required,gte=0"`
}

type UpdateRequest struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price" binding:"omitempty,gte=0"`
}

type Service struct {
	offerings repository.OfferingRepository
}

func NewService(offerings repository.OfferingRepository) *Service {
	return &Service{offerings: offerings}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.ServiceOffering, error) {
	o := &domain.ServiceOffering{Name: req.Name, Price: req.Price}
	if err := s.offerings.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.ServiceOffering, error) {
	o, err := s.offerings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (s *Service) List(ctx context.Context) ([]domain.ServiceOffering, error) {
	return s.offerings.List(ctx)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*domain.ServiceOffering, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		o.Name = *req.Name
	}
	if req.Price != nil {
		o.Price = *req.Price
	}
	if err := s.offerings.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.offerings.Delete(ctx, id)
}

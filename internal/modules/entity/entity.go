package entity

import (
	"context"
	"errors"
	"time"

	"studiobooking/internal/domain"
	"studiobooking/internal/repository"
)

var ErrNotFound = errors.New("entity not found")

type CreateRequest struct {
	Name  string `json:"name" binding:"required"`
	Notes string `json:"notes"`
}

type UpdateRequest struct {
	Name  *string `json:"name"`
	Notes *string `json:"notes"`
}

// BookingSummary aggregates an entity's booked studio time for invoicing.
type BookingSummary struct {
	Bookings   []domain.Booking `json:"bookings"`
	TotalHours float64          `json:"total_hours"`
	TotalDue   float64          `json:"total_due"`
}

type Service struct {
	entities repository.EntityRepository
	bookings repository.BookingRepository
}

func NewService(entities repository.EntityRepository, bookings repository.BookingRepository) *Service {
	return &Service{entities: entities, bookings: bookings}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.Entity, error) {
	e := &domain.Entity{Name: req.Name, Notes: req.Notes}
	if err := s.entities.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Entity, error) {
	e, err := s.entities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Entity, error) {
	return s.entities.List(ctx)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*domain.Entity, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		e.Name = *req.Name
	}
	if req.Notes != nil {
		e.Notes = *req.Notes
	}
	if err := s.entities.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.entities.Delete(ctx, id)
}

// Bookings returns all bookings of the entity's members in [from, to) plus
// hour and amount totals. Cancelled bookings are excluded from the totals.
func (s *Service) Bookings(ctx context.Context, id int64, from, to time.Time) (*BookingSummary, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.bookings.List(ctx, repository.BookingFilter{EntityID: id, From: from, To: to})
	if err != nil {
		return nil, err
	}
	sum := &BookingSummary{Bookings: rows}
	for _, b := range rows {
		if b.State == domain.BookingCancelled {
			continue
		}
		hours := b.End.Sub(b.Start).Hours()
		sum.TotalHours += hours
		if b.Studio != nil {
			sum.TotalDue += hours * b.Studio.PricePerHour
		}
	}
	return sum, nil
}

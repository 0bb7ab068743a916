package holiday

import (
	"context"
	"errors"
	"time"

	"studiobooking/internal/domain"
	"studiobooking/internal/repository"
)

var (
	ErrNotFound   = errors.New("holiday not found")
	ErrValidation = errors.New("invalid holiday range")
	ErrForbidden  = errors.New("not allowed")
	ErrDecided    = errors.New("holiday already decided")
)

type CreateRequest struct {
	UserID int64     `json:"user_id"`
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required"`
	Reason string    `json:"reason"`
}

type DecideRequest struct {
	State domain.HolidayState `json:"state" binding:"required"`
}

type Service struct {
	holidays repository.HolidayRepository
}

func NewService(holidays repository.HolidayRepository) *Service {
	return &Service{holidays: holidays}
}

// Create files a time-off request. Engineers may only request for
// themselves; staff may file for any engineer.
func (s *Service) Create(ctx context.Context, actorID int64, actorRole domain.UserRole, req CreateRequest) (*domain.Holiday, error) {
	if !req.End.After(req.Start) {
		return nil, ErrValidation
	}
	userID := req.UserID
	if userID == 0 {
		userID = actorID
	}
	if userID != actorID && actorRole != domain.RoleSecretary && actorRole != domain.RoleAdmin {
		return nil, ErrForbidden
	}

	h := &domain.Holiday{
		UserID: userID,
		Start:  req.Start.UTC(),
		End:    req.End.UTC(),
		State:  domain.HolidayPending,
		Reason: req.Reason,
	}
	if err := s.holidays.Create(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Holiday, error) {
	h, err := s.holidays.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return h, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Holiday, error) {
	return s.holidays.List(ctx)
}

func (s *Service) ListByUser(ctx context.Context, userID int64) ([]domain.Holiday, error) {
	return s.holidays.ListByUser(ctx, userID)
}

// Decide moves a pending request to CONFIRMED or REJECTED. A decided
// request stays decided.
func (s *Service) Decide(ctx context.Context, id int64, state domain.HolidayState) (*domain.Holiday, error) {
	if state != domain.HolidayConfirmed && state != domain.HolidayRejected {
		return nil, ErrValidation
	}
	h, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if h.State != domain.HolidayPending {
		return nil, ErrDecided
	}
	h.State = state
	if err := s.holidays.Update(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// Delete removes a request. Engineers may only withdraw their own
// pending requests; staff may delete any.
func (s *Service) Delete(ctx context.Context, id int64, actorID int64, actorRole domain.UserRole) error {
	h, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if actorRole != domain.RoleSecretary && actorRole != domain.RoleAdmin {
		if h.UserID != actorID || h.State != domain.HolidayPending {
			return ErrForbidden
		}
	}
	return s.holidays.Delete(ctx, id)
}

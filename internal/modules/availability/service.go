package availability

import (
	"context"
	"errors"
	"time"

	"studiobooking/internal/domain"
	"studiobooking/internal/pkg/cache"
	"studiobooking/internal/repository"
	"studiobooking/internal/schedule"
)

var (
	ErrNotFound   = errors.New("availability not found")
	ErrValidation = errors.New("invalid availability window")
	ErrForbidden  = errors.New("not allowed")
)

type Service struct {
	windows repository.AvailabilityRepository
	cfg     schedule.SearchConfig
	cache   *cache.ScheduleCache
}

func NewService(windows repository.AvailabilityRepository, cfg schedule.SearchConfig, c *cache.ScheduleCache) *Service {
	return &Service{windows: windows, cfg: cfg, cache: c}
}

func canManage(targetID, actorID int64, role domain.UserRole) bool {
	if targetID == actorID {
		return true
	}
	return role == domain.RoleSecretary || role == domain.RoleAdmin
}

// Week returns all weekly windows of an engineer grouped by day.
func (s *Service) Week(ctx context.Context, userID int64) (*WeekResponse, error) {
	rows, err := s.windows.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := &WeekResponse{Days: make(map[domain.Day][]domain.Availability)}
	for _, r := range rows {
		resp.Days[r.Day] = append(resp.Days[r.Day], r)
	}
	return resp, nil
}

// Day resolves the engineer's working time on one civil date to UTC
// ranges, including the tail of a window that started the day before.
func (s *Service) Day(ctx context.Context, userID int64, date time.Time) (*DayResponse, error) {
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	if ranges, ok := s.cache.GetDay(ctx, userID, date); ok {
		return &DayResponse{Date: date.Format("2006-01-02"), Ranges: toResolved(ranges)}, nil
	}

	rows, err := s.windows.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ranges, err := resolveAround(rows, date, s.cfg.OffsetHours)
	if err != nil {
		return nil, err
	}
	s.cache.SetDay(ctx, userID, date, ranges)
	return &DayResponse{Date: date.Format("2006-01-02"), Ranges: toResolved(ranges)}, nil
}

// resolveAround resolves yesterday and the requested date, keeping only
// the ranges that touch the requested UTC day.
func resolveAround(rows []domain.Availability, date time.Time, offsetHours int) ([]schedule.Range, error) {
	dayStart := date
	dayEnd := date.Add(24 * time.Hour)

	var out []schedule.Range
	for _, d := range []time.Time{date.AddDate(0, 0, -1), date} {
		resolved, err := schedule.ResolveDay(rows, d, offsetHours)
		if err != nil {
			return nil, err
		}
		for _, r := range resolved {
			if r.End.After(dayStart) && r.Start.Before(dayEnd) {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

// Create adds a weekly window and merges it with any windows it touches.
// Returns the rows now covering the affected day.
func (s *Service) Create(ctx context.Context, actorID int64, role domain.UserRole, req CreateRequest) ([]domain.Availability, error) {
	userID := req.UserID
	if userID == 0 {
		userID = actorID
	}
	if !canManage(userID, actorID, role) {
		return nil, ErrForbidden
	}
	day, err := domain.ParseDay(string(req.Day))
	if err != nil {
		return nil, ErrValidation
	}

	created, err := s.windows.MergeDay(ctx, userID, day, func(existing []domain.Availability) (*schedule.MergePlan, error) {
		return schedule.BuildMergePlan(req.Start, req.End, existing)
	})
	if err != nil {
		if isWindowError(err) {
			return nil, ErrValidation
		}
		return nil, err
	}
	s.cache.InvalidateUser(ctx, userID)

	if len(created) == 0 {
		// fully absorbed by an untouched window
		return s.windows.ListByUserAndDay(ctx, userID, day)
	}
	return created, nil
}

func isWindowError(err error) bool {
	return errors.Is(err, schedule.ErrFormat) || errors.Is(err, schedule.ErrInvalidRange)
}

// Update rewrites one window. The replacement is validated and merged in
// the same transaction that removes the old row, so a bad request leaves
// the stored window untouched and the day's windows stay disjoint.
func (s *Service) Update(ctx context.Context, id int64, actorID int64, role domain.UserRole, req UpdateRequest) ([]domain.Availability, error) {
	row, err := s.windows.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !canManage(row.UserID, actorID, role) {
		return nil, ErrForbidden
	}

	day := row.Day
	if req.Day != nil {
		if day, err = domain.ParseDay(string(*req.Day)); err != nil {
			return nil, ErrValidation
		}
	}
	start := row.Start
	if req.Start != nil {
		start = *req.Start
	}
	end := row.End
	if req.End != nil {
		end = *req.End
	}

	created, err := s.windows.MergeDay(ctx, row.UserID, day, func(existing []domain.Availability) (*schedule.MergePlan, error) {
		kept := make([]domain.Availability, 0, len(existing))
		for _, w := range existing {
			if w.ID != row.ID {
				kept = append(kept, w)
			}
		}
		plan, err := schedule.BuildMergePlan(start, end, kept)
		if err != nil {
			return nil, err
		}
		// the replaced row goes away whichever day it sat on
		plan.DeleteIDs = append(plan.DeleteIDs, row.ID)
		return plan, nil
	})
	if err != nil {
		if isWindowError(err) {
			return nil, ErrValidation
		}
		return nil, err
	}
	s.cache.InvalidateUser(ctx, row.UserID)

	if len(created) == 0 {
		return s.windows.ListByUserAndDay(ctx, row.UserID, day)
	}
	return created, nil
}

func (s *Service) Delete(ctx context.Context, id int64, actorID int64, role domain.UserRole) error {
	row, err := s.windows.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !canManage(row.UserID, actorID, role) {
		return ErrForbidden
	}
	if err := s.windows.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.InvalidateUser(ctx, row.UserID)
	return nil
}

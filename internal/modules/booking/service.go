package booking

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"studiobooking/internal/domain"
	"studiobooking/internal/repository"
	"studiobooking/internal/schedule"
)

type Service struct {
	bookings repository.BookingRepository
	users    repository.UserRepository
	studios  repository.StudioRepository
	services repository.OfferingRepository
	windows  repository.AvailabilityRepository
	holidays repository.HolidayRepository
	logs     repository.ChangeLogRepository
	cfg      schedule.SearchConfig
}

func NewService(
	bookings repository.BookingRepository,
	users repository.UserRepository,
	studios repository.StudioRepository,
	services repository.OfferingRepository,
	windows repository.AvailabilityRepository,
	holidays repository.HolidayRepository,
	logs repository.ChangeLogRepository,
	cfg schedule.SearchConfig,
) *Service {
	return &Service{
		bookings: bookings,
		users:    users,
		studios:  studios,
		services: services,
		windows:  windows,
		holidays: holidays,
		logs:     logs,
		cfg:      cfg,
	}
}

func isStaff(role domain.UserRole) bool {
	return role == domain.RoleSecretary || role == domain.RoleAdmin
}

// fonicoBusy collects the engineer's confirmed bookings and holidays
// overlapping [from, to) into one busy list.
func (s *Service) fonicoBusy(ctx context.Context, fonicoID int64, from, to time.Time, excludeID int64) ([]schedule.Range, error) {
	busy, err := s.bookings.FonicoBusy(ctx, fonicoID, from, to, excludeID)
	if err != nil {
		return nil, err
	}
	offRanges, err := s.holidays.ConfirmedRanges(ctx, fonicoID, from, to)
	if err != nil {
		return nil, err
	}
	return append(busy, offRanges...), nil
}

// Create books a session. When the requested time fails the availability
// verdict it returns ErrConflict together with the nearest alternatives.
func (s *Service) Create(ctx context.Context, actorID int64, role domain.UserRole, req CreateRequest) (*domain.Booking, []schedule.Slot, error) {
	if !req.End.After(req.Start) || req.Start.Before(time.Now()) {
		return nil, nil, ErrValidation
	}
	userID := req.UserID
	if userID == 0 {
		userID = actorID
	}
	if userID != actorID && !isStaff(role) {
		return nil, nil, ErrForbidden
	}

	fonico, err := s.users.GetByID(ctx, req.FonicoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrEngineer
		}
		return nil, nil, err
	}
	if fonico.Role != domain.RoleEngineer {
		return nil, nil, ErrEngineer
	}
	if _, err := s.studios.GetByID(ctx, req.StudioID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrValidation
		}
		return nil, nil, err
	}

	start, end := req.Start.UTC(), req.End.UTC()
	windows, err := s.windows.ListByUser(ctx, req.FonicoID)
	if err != nil {
		return nil, nil, err
	}
	busyFrom, busyTo := start.Add(-24*time.Hour), end.Add(24*time.Hour)
	fonicoBusy, err := s.fonicoBusy(ctx, req.FonicoID, busyFrom, busyTo, 0)
	if err != nil {
		return nil, nil, err
	}
	studioBusy, err := s.bookings.StudioBusy(ctx, []int64{req.StudioID}, busyFrom, busyTo, 0)
	if err != nil {
		return nil, nil, err
	}

	ok, err := schedule.CheckRange(s.cfg, start, end, windows, fonicoBusy, studioBusy[req.StudioID])
	if err != nil {
		return nil, nil, ErrValidation
	}
	if !ok {
		alts, err := s.alternatives(ctx, req.FonicoID, windows, start, int(end.Sub(start).Minutes()))
		if err != nil {
			return nil, nil, err
		}
		return nil, alts, ErrConflict
	}

	offerings, err := s.services.GetByIDs(ctx, req.ServiceIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(offerings) != len(req.ServiceIDs) {
		return nil, nil, ErrValidation
	}

	state := domain.BookingPending
	if isStaff(role) {
		state = domain.BookingConfirmed
	}
	b := &domain.Booking{
		UserID:     userID,
		FonicoID:   req.FonicoID,
		StudioID:   req.StudioID,
		Start:      start,
		End:        end,
		State:      state,
		Notes:      req.Notes,
		BookedByID: actorID,
		Services:   offerings,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, ErrOverbooking
		}
		return nil, nil, err
	}
	return b, nil, nil
}

// alternatives runs the forward search across all studios so the caller
// can offer the nearest bookable times.
func (s *Service) alternatives(ctx context.Context, fonicoID int64, windows []domain.Availability, from time.Time, durationMinutes int) ([]schedule.Slot, error) {
	studios, err := s.studios.List(ctx)
	if err != nil {
		return nil, err
	}
	studioIDs := make([]int64, 0, len(studios))
	for _, st := range studios {
		studioIDs = append(studioIDs, st.ID)
	}

	horizon := time.Duration(s.cfg.HorizonDays+2) * 24 * time.Hour
	if s.cfg.HorizonDays == 0 {
		horizon = time.Duration(schedule.DefaultHorizonDays+2) * 24 * time.Hour
	}
	fonicoBusy, err := s.fonicoBusy(ctx, fonicoID, from, from.Add(horizon), 0)
	if err != nil {
		return nil, err
	}
	studioBusy, err := s.bookings.StudioBusy(ctx, studioIDs, from, from.Add(horizon), 0)
	if err != nil {
		return nil, err
	}

	return schedule.FindNextSlots(s.cfg, schedule.SearchRequest{
		From:            from,
		DurationMinutes: durationMinutes,
		Windows:         windows,
		FonicoBusy:      fonicoBusy,
		StudioIDs:       studioIDs,
		StudioBusy:      studioBusy,
	})
}

// Slots is the standalone "next free times" lookup used by the booking form.
func (s *Service) Slots(ctx context.Context, q SlotsQuery) ([]schedule.Slot, error) {
	fonico, err := s.users.GetByID(ctx, q.FonicoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEngineer
		}
		return nil, err
	}
	if fonico.Role != domain.RoleEngineer {
		return nil, ErrEngineer
	}
	from := q.From
	if from.IsZero() {
		from = time.Now().UTC()
	}
	windows, err := s.windows.ListByUser(ctx, q.FonicoID)
	if err != nil {
		return nil, err
	}
	slots, err := s.alternatives(ctx, q.FonicoID, windows, from.UTC(), q.DurationMinutes)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidRange) {
			return nil, ErrValidation
		}
		return nil, err
	}
	return slots, nil
}

func (s *Service) canSee(b *domain.Booking, actorID int64, role domain.UserRole) bool {
	if isStaff(role) {
		return true
	}
	return b.UserID == actorID || b.FonicoID == actorID
}

func (s *Service) Get(ctx context.Context, id int64, actorID int64, role domain.UserRole) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !s.canSee(b, actorID, role) {
		return nil, ErrForbidden
	}
	return b, nil
}

// List restricts the result to what the actor may see: clients their own
// bookings, engineers their sessions, staff everything.
func (s *Service) List(ctx context.Context, actorID int64, role domain.UserRole, q ListQuery) ([]domain.Booking, error) {
	f := repository.BookingFilter{
		FonicoID: q.FonicoID,
		StudioID: q.StudioID,
		State:    q.State,
		From:     q.From,
		To:       q.To,
	}
	if isStaff(role) {
		f.EntityID = q.EntityID
	}
	switch role {
	case domain.RoleUser:
		f.UserID = actorID
	case domain.RoleEngineer:
		f.FonicoID = actorID
	}
	return s.bookings.List(ctx, f)
}

// Update reschedules or edits a booking. Time, engineer or studio changes
// re-run the availability verdict with the booking itself excluded, and
// every successful update appends a change log entry.
func (s *Service) Update(ctx context.Context, id int64, actorID int64, role domain.UserRole, req UpdateRequest) (*domain.Booking, []schedule.Slot, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	if !isStaff(role) && b.UserID != actorID {
		return nil, nil, ErrForbidden
	}
	// clients may only touch their still-pending bookings
	if !isStaff(role) && b.State != domain.BookingPending {
		return nil, nil, ErrForbidden
	}

	oldSnap, err := json.Marshal(b)
	if err != nil {
		return nil, nil, err
	}

	updated := *b
	if req.FonicoID != nil {
		fonico, err := s.users.GetByID(ctx, *req.FonicoID)
		if err != nil || fonico.Role != domain.RoleEngineer {
			return nil, nil, ErrEngineer
		}
		updated.FonicoID = *req.FonicoID
	}
	if req.StudioID != nil {
		if _, err := s.studios.GetByID(ctx, *req.StudioID); err != nil {
			return nil, nil, ErrValidation
		}
		updated.StudioID = *req.StudioID
	}
	if req.Start != nil {
		updated.Start = req.Start.UTC()
	}
	if req.End != nil {
		updated.End = req.End.UTC()
	}
	if !updated.End.After(updated.Start) {
		return nil, nil, ErrValidation
	}
	if req.State != nil {
		if !isStaff(role) {
			return nil, nil, ErrForbidden
		}
		updated.State = *req.State
	}
	if req.Notes != nil {
		updated.Notes = *req.Notes
	}

	timeChanged := !updated.Start.Equal(b.Start) || !updated.End.Equal(b.End) ||
		updated.FonicoID != b.FonicoID || updated.StudioID != b.StudioID
	if timeChanged {
		windows, err := s.windows.ListByUser(ctx, updated.FonicoID)
		if err != nil {
			return nil, nil, err
		}
		busyFrom := updated.Start.Add(-24 * time.Hour)
		busyTo := updated.End.Add(24 * time.Hour)
		fonicoBusy, err := s.fonicoBusy(ctx, updated.FonicoID, busyFrom, busyTo, b.ID)
		if err != nil {
			return nil, nil, err
		}
		studioBusy, err := s.bookings.StudioBusy(ctx, []int64{updated.StudioID}, busyFrom, busyTo, b.ID)
		if err != nil {
			return nil, nil, err
		}
		ok, err := schedule.CheckRange(s.cfg, updated.Start, updated.End, windows, fonicoBusy, studioBusy[updated.StudioID])
		if err != nil {
			return nil, nil, ErrValidation
		}
		if !ok {
			alts, err := s.alternatives(ctx, updated.FonicoID, windows, updated.Start, int(updated.End.Sub(updated.Start).Minutes()))
			if err != nil {
				return nil, nil, err
			}
			return nil, alts, ErrConflict
		}
	}

	if err := s.bookings.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, ErrOverbooking
		}
		return nil, nil, err
	}
	if req.ServiceIDs != nil {
		offerings, err := s.services.GetByIDs(ctx, *req.ServiceIDs)
		if err != nil {
			return nil, nil, err
		}
		if len(offerings) != len(*req.ServiceIDs) {
			return nil, nil, ErrValidation
		}
		if err := s.bookings.ReplaceServices(ctx, &updated, offerings); err != nil {
			return nil, nil, err
		}
		updated.Services = offerings
	}

	newSnap, err := json.Marshal(&updated)
	if err != nil {
		return nil, nil, err
	}
	log := &domain.ChangeLog{
		Action:     domain.LogUpdate,
		UserID:     actorID,
		BookingID:  b.ID,
		OldBooking: oldSnap,
		NewBooking: newSnap,
		Time:       time.Now().UTC(),
	}
	if err := s.logs.Create(ctx, log); err != nil {
		return nil, nil, err
	}
	return &updated, nil, nil
}

// Delete removes a booking, keeping its last snapshot in the change log.
func (s *Service) Delete(ctx context.Context, id int64, actorID int64, role domain.UserRole) error {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !isStaff(role) && !(b.UserID == actorID && b.State == domain.BookingPending) {
		return ErrForbidden
	}

	snap, err := json.Marshal(b)
	if err != nil {
		return err
	}
	log := &domain.ChangeLog{
		Action:     domain.LogDelete,
		UserID:     actorID,
		BookingID:  b.ID,
		OldBooking: snap,
		Time:       time.Now().UTC(),
	}
	if err := s.logs.Create(ctx, log); err != nil {
		return err
	}
	return s.bookings.Delete(ctx, id)
}

func (s *Service) History(ctx context.Context, bookingID int64) ([]domain.ChangeLog, error) {
	return s.logs.ListByBooking(ctx, bookingID)
}

func (s *Service) Stats(ctx context.Context, from, to time.Time) (*repository.BookingStats, error) {
	return s.bookings.Stats(ctx, from, to)
}

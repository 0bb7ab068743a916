package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"studiobooking/internal/domain"
	"studiobooking/internal/schedule"
)

// ErrDuplicate maps unique-constraint violations from the driver.
var ErrDuplicate = errors.New("duplicate record")

// BookingFilter narrows List. Zero values are ignored.
type BookingFilter struct {
	UserID   int64
	FonicoID int64
	StudioID int64
	EntityID int64
	State    domain.BookingState
	From     time.Time
	To       time.Time
}

// BookingStats is the aggregate view for the admin dashboard. Revenue rows
// count confirmed and completed bookings only.
type BookingStats struct {
	Total              int64             `json:"total"`
	Pending            int64             `json:"pending"`
	Confirmed          int64             `json:"confirmed"`
	Cancelled          int64             `json:"cancelled"`
	Completed          int64             `json:"completed"`
	Revenue            float64           `json:"revenue"`
	AvgDurationMinutes float64           `json:"avg_duration_minutes"`
	PerFonico          map[int64]int64   `json:"per_fonico"`
	PerStudioRevenue   map[int64]float64 `json:"per_studio_revenue"`
}

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, f BookingFilter) ([]domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) error
	ReplaceServices(ctx context.Context, b *domain.Booking, services []domain.ServiceOffering) error
	Delete(ctx context.Context, id int64) error
	FonicoBusy(ctx context.Context, fonicoID int64, from, to time.Time, excludeID int64) ([]schedule.Range, error)
	StudioBusy(ctx context.Context, studioIDs []int64, from, to time.Time, excludeID int64) (map[int64][]schedule.Range, error)
	Stats(ctx context.Context, from, to time.Time) (*BookingStats, error)
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return mapBookingErr(err)
	}
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Fonico").
		Preload("Studio").
		Preload("Services").
		First(&b, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) List(ctx context.Context, f BookingFilter) ([]domain.Booking, error) {
	q := r.db.WithContext(ctx).
		Preload("User").
		Preload("Fonico").
		Preload("Studio").
		Preload("Services")

	if f.UserID != 0 {
		q = q.Where("bookings.user_id = ?", f.UserID)
	}
	if f.FonicoID != 0 {
		q = q.Where("bookings.fonico_id = ?", f.FonicoID)
	}
	if f.StudioID != 0 {
		q = q.Where("bookings.studio_id = ?", f.StudioID)
	}
	if f.EntityID != 0 {
		q = q.Joins("JOIN users ON users.id = bookings.user_id").
			Where("users.entity_id = ?", f.EntityID)
	}
	if f.State != "" {
		q = q.Where("bookings.state = ?", f.State)
	}
	if !f.From.IsZero() {
		q = q.Where(`bookings."end" > ?`, f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("bookings.start < ?", f.To)
	}

	var out []domain.Booking
	if err := q.Order("bookings.start").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	if err := r.db.WithContext(ctx).Omit("Services").Save(b).Error; err != nil {
		return mapBookingErr(err)
	}
	return nil
}

func (r *bookingRepository) ReplaceServices(ctx context.Context, b *domain.Booking, services []domain.ServiceOffering) error {
	return r.db.WithContext(ctx).Model(b).Association("Services").Replace(services)
}

func (r *bookingRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Booking{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FonicoBusy returns the engineer's confirmed bookings overlapping [from, to),
// optionally skipping one booking (the one being rescheduled).
func (r *bookingRepository) FonicoBusy(ctx context.Context, fonicoID int64, from, to time.Time, excludeID int64) ([]schedule.Range, error) {
	q := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where(`fonico_id = ? AND state IN ? AND start < ? AND "end" > ?`,
			fonicoID, conflictStates(), to, from)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var rows []domain.Booking
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	ranges := make([]schedule.Range, 0, len(rows))
	for _, b := range rows {
		ranges = append(ranges, schedule.Range{Start: b.Start, End: b.End})
	}
	return ranges, nil
}

// StudioBusy returns confirmed bookings per studio overlapping [from, to).
func (r *bookingRepository) StudioBusy(ctx context.Context, studioIDs []int64, from, to time.Time, excludeID int64) (map[int64][]schedule.Range, error) {
	busy := make(map[int64][]schedule.Range, len(studioIDs))
	if len(studioIDs) == 0 {
		return busy, nil
	}
	q := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where(`studio_id IN ? AND state IN ? AND start < ? AND "end" > ?`,
			studioIDs, conflictStates(), to, from)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var rows []domain.Booking
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, b := range rows {
		busy[b.StudioID] = append(busy[b.StudioID], schedule.Range{Start: b.Start, End: b.End})
	}
	return busy, nil
}

func (r *bookingRepository) Stats(ctx context.Context, from, to time.Time) (*BookingStats, error) {
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&domain.Booking{})
		if !from.IsZero() {
			q = q.Where("start >= ?", from)
		}
		if !to.IsZero() {
			q = q.Where("start < ?", to)
		}
		return q
	}

	var s BookingStats
	if err := base().Count(&s.Total).Error; err != nil {
		return nil, err
	}
	counts := []struct {
		state domain.BookingState
		dst   *int64
	}{
		{domain.BookingPending, &s.Pending},
		{domain.BookingConfirmed, &s.Confirmed},
		{domain.BookingCancelled, &s.Cancelled},
		{domain.BookingCompleted, &s.Completed},
	}
	for _, c := range counts {
		if err := base().Where("state = ?", c.state).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	// revenue = booked hours * studio hourly rate, confirmed and completed only,
	// computed in Go so postgres and the sqlite test database share a code path
	var rows []domain.Booking
	err := base().Preload("Studio").
		Where("state IN ?", []domain.BookingState{domain.BookingConfirmed, domain.BookingCompleted}).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	s.PerFonico = make(map[int64]int64)
	s.PerStudioRevenue = make(map[int64]float64)
	var totalMinutes float64
	for _, b := range rows {
		s.PerFonico[b.FonicoID]++
		totalMinutes += b.End.Sub(b.Start).Minutes()
		if b.Studio == nil {
			continue
		}
		amount := b.End.Sub(b.Start).Hours() * b.Studio.PricePerHour
		s.Revenue += amount
		s.PerStudioRevenue[b.StudioID] += amount
	}
	if len(rows) > 0 {
		s.AvgDurationMinutes = totalMinutes / float64(len(rows))
	}
	return &s, nil
}

// conflictStates are the booking states that occupy the engineer and the
// room. A pending request holds nothing until staff confirm it.
func conflictStates() []domain.BookingState {
	return []domain.BookingState{domain.BookingConfirmed}
}

func mapBookingErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

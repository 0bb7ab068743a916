package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"studiobooking/internal/domain"
	"studiobooking/internal/schedule"
)

type HolidayRepository interface {
	Create(ctx context.Context, h *domain.Holiday) error
	GetByID(ctx context.Context, id int64) (*domain.Holiday, error)
	List(ctx context.Context) ([]domain.Holiday, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Holiday, error)
	Update(ctx context.Context, h *domain.Holiday) error
	Delete(ctx context.Context, id int64) error
	ConfirmedRanges(ctx context.Context, userID int64, from, to time.Time) ([]schedule.Range, error)
}

type holidayRepository struct {
	db *gorm.DB
}

func NewHolidayRepository(db *gorm.DB) HolidayRepository {
	return &holidayRepository{db: db}
}

func (r *holidayRepository) Create(ctx context.Context, h *domain.Holiday) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *holidayRepository) GetByID(ctx context.Context, id int64) (*domain.Holiday, error) {
	var h domain.Holiday
	if err := r.db.WithContext(ctx).Preload("User").First(&h, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

func (r *holidayRepository) List(ctx context.Context) ([]domain.Holiday, error) {
	var out []domain.Holiday
	if err := r.db.WithContext(ctx).Preload("User").Order("start").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *holidayRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Holiday, error) {
	var out []domain.Holiday
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *holidayRepository) Update(ctx context.Context, h *domain.Holiday) error {
	return r.db.WithContext(ctx).Save(h).Error
}

func (r *holidayRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Holiday{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ConfirmedRanges returns the confirmed holidays for userID that overlap
// [from, to) as busy ranges for the scheduling engine.
func (r *holidayRepository) ConfirmedRanges(ctx context.Context, userID int64, from, to time.Time) ([]schedule.Range, error) {
	var rows []domain.Holiday
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND state = ? AND start < ? AND \"end\" > ?",
			userID, domain.HolidayConfirmed, to, from).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	ranges := make([]schedule.Range, 0, len(rows))
	for _, h := range rows {
		ranges = append(ranges, schedule.Range{Start: h.Start, End: h.End})
	}
	return ranges, nil
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"studiobooking/internal/domain"
)

type ChangeLogRepository interface {
	Create(ctx context.Context, l *domain.ChangeLog) error
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.ChangeLog, error)
}

type changeLogRepository struct {
	db *gorm.DB
}

func NewChangeLogRepository(db *gorm.DB) ChangeLogRepository {
	return &changeLogRepository{db: db}
}

func (r *changeLogRepository) Create(ctx context.Context, l *domain.ChangeLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *changeLogRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.ChangeLog, error) {
	var out []domain.ChangeLog
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("booking_id = ?", bookingID).
		Order("time DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

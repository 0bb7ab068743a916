package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"studiobooking/internal/domain"
	"studiobooking/internal/schedule"
)

type AvailabilityRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Availability, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Availability, error)
	ListByUserAndDay(ctx context.Context, userID int64, day domain.Day) ([]domain.Availability, error)
	MergeDay(ctx context.Context, userID int64, day domain.Day, build func(existing []domain.Availability) (*schedule.MergePlan, error)) ([]domain.Availability, error)
	Update(ctx context.Context, a *domain.Availability) error
	Delete(ctx context.Context, id int64) error
}

type availabilityRepository struct {
	db *gorm.DB
}

func NewAvailabilityRepository(db *gorm.DB) AvailabilityRepository {
	return &availabilityRepository{db: db}
}

func (r *availabilityRepository) GetByID(ctx context.Context, id int64) (*domain.Availability, error) {
	var a domain.Availability
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *availabilityRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Availability, error) {
	var out []domain.Availability
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("day, start").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *availabilityRepository) ListByUserAndDay(ctx context.Context, userID int64, day domain.Day) ([]domain.Availability, error) {
	var out []domain.Availability
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND day = ?", userID, day).
		Order("start").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MergeDay rewrites the owner's coverage for one day. The current rows are
// read, handed to build, and the resulting plan is applied all inside one
// transaction, with the rows locked on postgres so concurrent writers cannot
// merge against a stale snapshot. A build error rolls back with nothing
// written.
func (r *availabilityRepository) MergeDay(ctx context.Context, userID int64, day domain.Day, build func(existing []domain.Availability) (*schedule.MergePlan, error)) ([]domain.Availability, error) {
	var created []domain.Availability
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("user_id = ? AND day = ?", userID, day).Order("start")
		if tx.Dialector.Name() == "postgres" {
			// sqlite has a single writer and rejects FOR UPDATE
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var existing []domain.Availability
		if err := q.Find(&existing).Error; err != nil {
			return err
		}

		plan, err := build(existing)
		if err != nil {
			return err
		}
		if len(plan.DeleteIDs) > 0 {
			if err := tx.Where("id IN ? AND user_id = ?", plan.DeleteIDs, userID).
				Delete(&domain.Availability{}).Error; err != nil {
				return err
			}
		}
		created = make([]domain.Availability, 0, len(plan.Creates))
		for _, w := range plan.Creates {
			row := domain.Availability{
				UserID: userID,
				Day:    day,
				Start:  w.Start,
				End:    w.End,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			created = append(created, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *availabilityRepository) Update(ctx context.Context, a *domain.Availability) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *availabilityRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Availability{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"studiobooking/internal/domain"
)

type StudioRepository interface {
	Create(ctx context.Context, s *domain.Studio) error
	GetByID(ctx context.Context, id int64) (*domain.Studio, error)
	List(ctx context.Context) ([]domain.Studio, error)
	Update(ctx context.Context, s *domain.Studio) error
	Delete(ctx context.Context, id int64) error
}

type studioRepository struct {
	db *gorm.DB
}

func NewStudioRepository(db *gorm.DB) StudioRepository {
	return &studioRepository{db: db}
}

func (r *studioRepository) Create(ctx context.Context, s *domain.Studio) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *studioRepository) GetByID(ctx context.Context, id int64) (*domain.Studio, error) {
	var s domain.Studio
	if err := r.db.WithContext(ctx).Where("deleted_at IS NULL").First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *studioRepository) List(ctx context.Context) ([]domain.Studio, error) {
	var studios []domain.Studio
	if err := r.db.WithContext(ctx).Where("deleted_at IS NULL").Order("name").Find(&studios).Error; err != nil {
		return nil, err
	}
	return studios, nil
}

func (r *studioRepository) Update(ctx context.Context, s *domain.Studio) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *studioRepository) Delete(ctx context.Context, id int64) error {
	// soft delete, bookings keep pointing at the row
	return r.db.WithContext(ctx).
		Model(&domain.Studio{}).
		Where("id = ?", id).
		Update("deleted_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

type OfferingRepository interface {
	Create(ctx context.Context, o *domain.ServiceOffering) error
	GetByID(ctx context.Context, id int64) (*domain.ServiceOffering, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.ServiceOffering, error)
	List(ctx context.Context) ([]domain.ServiceOffering, error)
	Update(ctx context.Context, o *domain.ServiceOffering) error
	Delete(ctx context.Context, id int64) error
}

type offeringRepository struct {
	db *gorm.DB
}

func NewOfferingRepository(db *gorm.DB) OfferingRepository {
	return &offeringRepository{db: db}
}

func (r *offeringRepository) Create(ctx context.Context, o *domain.ServiceOffering) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *offeringRepository) GetByID(ctx context.Context, id int64) (*domain.ServiceOffering, error) {
	var o domain.ServiceOffering
	if err := r.db.WithContext(ctx).First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *offeringRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.ServiceOffering, error) {
	var out []domain.ServiceOffering
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *offeringRepository) List(ctx context.Context) ([]domain.ServiceOffering, error) {
	var out []domain.ServiceOffering
	if err := r.db.WithContext(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *offeringRepository) Update(ctx context.Context, o *domain.ServiceOffering) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *offeringRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.ServiceOffering{}, id).Error
}

type EntityRepository interface {
	Create(ctx context.Context, e *domain.Entity) error
	GetByID(ctx context.Context, id int64) (*domain.Entity, error)
	List(ctx context.Context) ([]domain.Entity, error)
	Update(ctx context.Context, e *domain.Entity) error
	Delete(ctx context.Context, id int64) error
}

type entityRepository struct {
	db *gorm.DB
}

func NewEntityRepository(db *gorm.DB) EntityRepository {
	return &entityRepository{db: db}
}

func (r *entityRepository) Create(ctx context.Context, e *domain.Entity) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *entityRepository) GetByID(ctx context.Context, id int64) (*domain.Entity, error) {
	var e domain.Entity
	if err := r.db.WithContext(ctx).Preload("Users").First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *entityRepository) List(ctx context.Context) ([]domain.Entity, error) {
	var out []domain.Entity
	if err := r.db.WithContext(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *entityRepository) Update(ctx context.Context, e *domain.Entity) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *entityRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Entity{}, id).Error
}

package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursewagon/coursewagon-backend/internal/logger"
	"github.com/coursewagon/coursewagon-backend/internal/types"
)

type TestimonialRepo interface {
	Create(ctx context.Context, tx *gorm.DB, testimonial *types.Testimonial) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Testimonial, error)
	GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Testimonial, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Testimonial, error)
	Update(ctx context.Context, tx *gorm.DB, testimonial *types.Testimonial) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type testimonialRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTestimonialRepo(db *gorm.DB, baseLog *logger.Logger) TestimonialRepo {
	return &testimonialRepo{db: db, log: baseLog.With("repo", "TestimonialRepo")}
}

func (r *testimonialRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *testimonialRepo) Create(ctx context.Context, tx *gorm.DB, testimonial *types.Testimonial) error {
	return r.conn(tx).WithContext(ctx).Create(testimonial).Error
}

func (r *testimonialRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Testimonial, error) {
	var testimonial types.Testimonial
	if err := r.conn(tx).WithContext(ctx).First(&testimonial, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &testimonial, nil
}

func (r *testimonialRepo) GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Testimonial, error) {
	var testimonial types.Testimonial
	if err := r.conn(tx).WithContext(ctx).First(&testimonial, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &testimonial, nil
}

func (r *testimonialRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Testimonial, error) {
	var rows []*types.Testimonial
	if err := r.conn(tx).WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *testimonialRepo) Update(ctx context.Context, tx *gorm.DB, testimonial *types.Testimonial) error {
	return r.conn(tx).WithContext(ctx).Save(testimonial).Error
}

func (r *testimonialRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return r.conn(tx).WithContext(ctx).Delete(&types.Testimonial{}, "id = ?", id).Error
}

package reviews

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateReview = errors.New("user has already reviewed this tour")
)

type Repository interface {
	Create(ctx context.Context, review *Review) error
	Update(ctx context.Context, review *Review) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Review, error)
	List(ctx context.Context, query *ReviewListQuery) ([]Review, int64, error)
	ApprovedRatingSummary(ctx context.Context, tourID string) (average float64, count int, err error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, review *Review) error {
	err := r.db.WithContext(ctx).Create(review).Error
	if err != nil && strings.Contains(err.Error(), "idx_tour_user") {
		return ErrDuplicateReview
	}
	return err
}

func (r *repository) Update(ctx context.Context, review *Review) error {
	result := r.db.WithContext(ctx).Save(review)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Review{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Review, error) {
	var review Review
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *repository) List(ctx context.Context, query *ReviewListQuery) ([]Review, int64, error) {
	db := r.db.WithContext(ctx).Model(&Review{})

	if query.TourID != "" {
		db = db.Where("tour_id = ?", query.TourID)
	}
	if query.Approved != nil {
		db = db.Where("is_approved = ?", *query.Approved)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []Review
	err := db.Order("created_at DESC").
		Offset((query.Page - 1) * query.Limit).
		Limit(query.Limit).
		Find(&reviews).Error
	return reviews, total, err
}

func (r *repository) ApprovedRatingSummary(ctx context.Context, tourID string) (float64, int, error) {
	type summary struct {
		Average float64
		Count   int
	}
	var s summary
	err := r.db.WithContext(ctx).Model(&Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("tour_id = ? AND is_approved = ?", tourID, true).
		Scan(&s).Error
	if err != nil {
		return 0, 0, err
	}
	return s.Average, s.Count, nil
}

package tours

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrTourNotFound         = errors.New("tour not found")
	ErrDateNotAvailable     = errors.New("tour not available on that date")
	ErrInsufficientCapacity = errors.New("insufficient spots available")
	ErrSlugTaken            = errors.New("tour slug already in use")
)

type Repository interface {
	Create(ctx context.Context, tour *Tour) error
	Update(ctx context.Context, tour *Tour) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Tour, error)
	GetBySlug(ctx context.Context, slug string) (*Tour, error)
	List(ctx context.Context, query *TourListQuery) ([]Tour, int64, error)
	ListFeatured(ctx context.Context, limit int) ([]Tour, error)

	UpsertAvailability(ctx context.Context, tourID string, entries []TourAvailability) error
	GetAvailability(ctx context.Context, tourID string, date time.Time) (*TourAvailability, error)
	ReserveSpots(ctx context.Context, tx *gorm.DB, tourID string, date time.Time, spots int) error
	ReleaseSpots(ctx context.Context, tx *gorm.DB, tourID string, date time.Time, spots int) error

	UpdateRating(ctx context.Context, tourID string, average float64, count int) error

	DB() *gorm.DB
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, tour *Tour) error {
	err := r.db.WithContext(ctx).Create(tour).Error
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return ErrSlugTaken
	}
	return err
}

func (r *repository) Update(ctx context.Context, tour *Tour) error {
	result := r.db.WithContext(ctx).Save(tour)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTourNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Tour{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTourNotFound
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Tour, error) {
	var tour Tour
	err := r.db.WithContext(ctx).
		Preload("Availability", func(db *gorm.DB) *gorm.DB {
			return db.Where("date >= CURRENT_DATE").Order("date ASC")
		}).
		Where("id = ?", id).
		First(&tour).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}
	return &tour, nil
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Tour, error) {
	var tour Tour
	err := r.db.WithContext(ctx).
		Preload("Availability", func(db *gorm.DB) *gorm.DB {
			return db.Where("date >= CURRENT_DATE").Order("date ASC")
		}).
		Where("slug = ?", slug).
		First(&tour).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}
	return &tour, nil
}

func (r *repository) List(ctx context.Context, query *TourListQuery) ([]Tour, int64, error) {
	db := r.db.WithContext(ctx).Model(&Tour{}).Where("is_active = ?", true)
	db = applyFilters(db, query)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tours []Tour
	offset := (query.Page - 1) * query.Limit
	err := db.Order(fmt.Sprintf("%s %s", query.SortBy, query.SortOrder)).
		Offset(offset).
		Limit(query.Limit).
		Find(&tours).Error
	if err != nil {
		return nil, 0, err
	}

	return tours, total, nil
}

func applyFilters(db *gorm.DB, query *TourListQuery) *gorm.DB {
	if query.Category != "" {
		db = db.Where("category = ?", query.Category)
	}
	if query.Destination != "" {
		db = db.Where("destination ILIKE ?", "%"+query.Destination+"%")
	}
	if query.Country != "" {
		db = db.Where("country = ?", query.Country)
	}
	if query.MinPrice > 0 {
		db = db.Where("price >= ?", query.MinPrice)
	}
	if query.MaxPrice > 0 {
		db = db.Where("price <= ?", query.MaxPrice)
	}
	if query.Featured != nil {
		db = db.Where("is_featured = ?", *query.Featured)
	}
	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("title ILIKE ? OR description ILIKE ? OR destination ILIKE ?", search, search, search)
	}
	return db
}

func (r *repository) ListFeatured(ctx context.Context, limit int) ([]Tour, error) {
	var tours []Tour
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND is_featured = ?", true, true).
		Order("rating_average DESC").
		Limit(limit).
		Find(&tours).Error
	return tours, err
}

func (r *repository) UpsertAvailability(ctx context.Context, tourID string, entries []TourAvailability) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tour_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"spots_available", "updated_at"}),
	}).Create(&entries).Error
}

func (r *repository) GetAvailability(ctx context.Context, tourID string, date time.Time) (*TourAvailability, error) {
	var avail TourAvailability
	err := r.db.WithContext(ctx).
		Where("tour_id = ? AND date = ?", tourID, date.Format("2006-01-02")).
		First(&avail).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDateNotAvailable
		}
		return nil, err
	}
	return &avail, nil
}

// ReserveSpots decrements remaining capacity atomically. The conditional
// WHERE guarantees spots never go negative even under concurrent bookings.
func (r *repository) ReserveSpots(ctx context.Context, tx *gorm.DB, tourID string, date time.Time, spots int) error {
	db := tx
	if db == nil {
		db = r.db
	}
	result := db.WithContext(ctx).Model(&TourAvailability{}).
		Where("tour_id = ? AND date = ? AND spots_available >= ?", tourID, date.Format("2006-01-02"), spots).
		Update("spots_available", gorm.Expr("spots_available - ?", spots))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		db.WithContext(ctx).Model(&TourAvailability{}).
			Where("tour_id = ? AND date = ?", tourID, date.Format("2006-01-02")).
			Count(&count)
		if count == 0 {
			return ErrDateNotAvailable
		}
		return ErrInsufficientCapacity
	}
	return nil
}

func (r *repository) ReleaseSpots(ctx context.Context, tx *gorm.DB, tourID string, date time.Time, spots int) error {
	db := tx
	if db == nil {
		db = r.db
	}
	result := db.WithContext(ctx).Model(&TourAvailability{}).
		Where("tour_id = ? AND date = ?", tourID, date.Format("2006-01-02")).
		Update("spots_available", gorm.Expr("spots_available + ?", spots))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDateNotAvailable
	}
	return nil
}

func (r *repository) UpdateRating(ctx context.Context, tourID string, average float64, count int) error {
	result := r.db.WithContext(ctx).Model(&Tour{}).
		Where("id = ?", tourID).
		Updates(map[string]interface{}{
			"rating_average": average,
			"rating_count":   count,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTourNotFound
	}
	return nil
}

func (r *repository) DB() *gorm.DB {
	return r.db
}

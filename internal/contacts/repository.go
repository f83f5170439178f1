package contacts

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrContactNotFound = errors.New("contact not found")

type Repository interface {
	Create(ctx context.Context, contact *Contact) error
	Update(ctx context.Context, contact *Contact) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Contact, error)
	List(ctx context.Context, query *ContactListQuery) ([]Contact, int64, error)
	CountUnread(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, contact *Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *repository) Update(ctx context.Context, contact *Contact) error {
	result := r.db.WithContext(ctx).Save(contact)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrContactNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Contact{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrContactNotFound
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Contact, error) {
	var contact Contact
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return &contact, nil
}

func (r *repository) List(ctx context.Context, query *ContactListQuery) ([]Contact, int64, error) {
	db := r.db.WithContext(ctx).Model(&Contact{})

	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.Priority != "" {
		db = db.Where("priority = ?", query.Priority)
	}
	if query.Type != "" {
		db = db.Where("type = ?", query.Type)
	}
	if query.Unread != nil {
		db = db.Where("is_read = ?", !*query.Unread)
	}
	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("name ILIKE ? OR email ILIKE ? OR subject ILIKE ?", search, search, search)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contacts []Contact
	err := db.Order("created_at DESC").
		Offset((query.Page - 1) * query.Limit).
		Limit(query.Limit).
		Find(&contacts).Error
	return contacts, total, err
}

func (r *repository) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Contact{}).Where("is_read = ?", false).Count(&count).Error
	return count, err
}

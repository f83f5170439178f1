package bookings

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrDuplicateReference = errors.New("booking reference collision")
)

type Repository interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	Create(ctx context.Context, tx *gorm.DB, booking *Booking) error
	Update(ctx context.Context, tx *gorm.DB, booking *Booking) error
	Delete(ctx context.Context, id string) error

	GetByID(ctx context.Context, id string) (*Booking, error)
	GetByReference(ctx context.Context, reference string) (*Booking, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*Booking, error)
	ListByUser(ctx context.Context, userID string, page, limit int) ([]Booking, int64, error)
	List(ctx context.Context, query *BookingListQuery) ([]Booking, int64, error)

	UpdateStatus(ctx context.Context, id string, status Status) error
	UpdatePayment(ctx context.Context, id string, payment PaymentInfo) error
	AddNote(ctx context.Context, note *BookingNote) error

	Stats(ctx context.Context) (*StatsResponse, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *repository) Create(ctx context.Context, tx *gorm.DB, booking *Booking) error {
	db := tx
	if db == nil {
		db = r.db
	}
	err := db.WithContext(ctx).Create(booking).Error
	if err != nil && strings.Contains(err.Error(), "booking_reference") {
		return ErrDuplicateReference
	}
	return err
}

func (r *repository) Update(ctx context.Context, tx *gorm.DB, booking *Booking) error {
	db := tx
	if db == nil {
		db = r.db
	}
	result := db.WithContext(ctx).Save(booking)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Booking{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Notes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByReference(ctx context.Context, reference string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Where("booking_reference = ?", strings.ToUpper(reference)).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByTransactionID(ctx context.Context, transactionID string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) ListByUser(ctx context.Context, userID string, page, limit int) ([]Booking, int64, error) {
	db := r.db.WithContext(ctx).Model(&Booking{}).Where("user_id = ?", userID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []Booking
	err := db.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&bookings).Error
	return bookings, total, err
}

func (r *repository) List(ctx context.Context, query *BookingListQuery) ([]Booking, int64, error) {
	db := r.db.WithContext(ctx).Model(&Booking{})
	db = applyBookingFilters(db, query)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []Booking
	err := db.Order("created_at DESC").
		Offset((query.Page - 1) * query.Limit).
		Limit(query.Limit).
		Find(&bookings).Error
	return bookings, total, err
}

func applyBookingFilters(db *gorm.DB, query *BookingListQuery) *gorm.DB {
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.PaymentStatus != "" {
		db = db.Where("payment_status = ?", query.PaymentStatus)
	}
	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where(
			"booking_reference ILIKE ? OR contact_name ILIKE ? OR contact_email ILIKE ? OR contact_phone ILIKE ?",
			search, search, search, search,
		)
	}
	if query.DateFrom != "" {
		if from, err := time.Parse("2006-01-02", query.DateFrom); err == nil {
			db = db.Where("booking_date >= ?", from)
		}
	}
	if query.DateTo != "" {
		if to, err := time.Parse("2006-01-02", query.DateTo); err == nil {
			db = db.Where("booking_date <= ?", to)
		}
	}
	return db
}

func (r *repository) UpdateStatus(ctx context.Context, id string, status Status) error {
	result := r.db.WithContext(ctx).Model(&Booking{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *repository) UpdatePayment(ctx context.Context, id string, payment PaymentInfo) error {
	updates := map[string]interface{}{
		"payment_method":         payment.Method,
		"payment_status":         payment.Status,
		"transaction_id":         payment.TransactionID,
		"receipt_number":         payment.ReceiptNumber,
		"paid_at":                payment.PaidAt,
		"payment_failure_reason": payment.FailureReason,
	}
	result := r.db.WithContext(ctx).Model(&Booking{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *repository) AddNote(ctx context.Context, note *BookingNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *repository) Stats(ctx context.Context) (*StatsResponse, error) {
	stats := &StatsResponse{
		ByStatus:        make(map[string]int64),
		ByPaymentStatus: make(map[string]int64),
	}

	if err := r.db.WithContext(ctx).Model(&Booking{}).Count(&stats.TotalBookings).Error; err != nil {
		return nil, err
	}

	type countRow struct {
		Key   string
		Count int64
	}

	var statusRows []countRow
	err := r.db.WithContext(ctx).Model(&Booking{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Scan(&statusRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range statusRows {
		stats.ByStatus[row.Key] = row.Count
	}

	var paymentRows []countRow
	err = r.db.WithContext(ctx).Model(&Booking{}).
		Select("payment_status AS key, COUNT(*) AS count").
		Group("payment_status").
		Scan(&paymentRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range paymentRows {
		stats.ByPaymentStatus[row.Key] = row.Count
	}

	type revenueRow struct {
		Total   float64
		Average float64
	}
	var revenue revenueRow
	err = r.db.WithContext(ctx).Model(&Booking{}).
		Select("COALESCE(SUM(total_price), 0) AS total, COALESCE(AVG(total_price), 0) AS average").
		Where("payment_status = ?", PaymentCompleted).
		Scan(&revenue).Error
	if err != nil {
		return nil, err
	}
	stats.TotalRevenue = revenue.Total
	stats.AverageBooking = revenue.Average

	type monthRow struct {
		Month    string
		Bookings int64
		Revenue  float64
	}
	var monthRows []monthRow
	since := time.Now().AddDate(-1, 0, 0)
	err = r.db.WithContext(ctx).Model(&Booking{}).
		Select("to_char(created_at, 'YYYY-MM') AS month, COUNT(*) AS bookings, COALESCE(SUM(total_price) FILTER (WHERE payment_status = 'completed'), 0) AS revenue").
		Where("created_at >= ?", since).
		Group("month").
		Order("month ASC").
		Scan(&monthRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range monthRows {
		stats.MonthlyBreakdown = append(stats.MonthlyBreakdown, MonthlyStat{
			Month:    row.Month,
			Bookings: row.Bookings,
			Revenue:  row.Revenue,
		})
	}

	return stats, nil
}

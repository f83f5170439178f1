package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"deluxetours/internal/auth"
	"deluxetours/internal/shared/config"
	"deluxetours/internal/tours"
	"deluxetours/internal/users"
	"deluxetours/pkg/cache"
	"deluxetours/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrForbidden         = errors.New("not allowed to access this booking")
	ErrAlreadyCancelled  = errors.New("booking is already cancelled")
	ErrWindowClosed      = errors.New("cancellation window has closed")
	ErrTourRequired      = errors.New("either tour_id or tour_details is required")
	ErrInvalidDate       = errors.New("invalid booking date")
	ErrTourInactive      = errors.New("tour is not open for booking")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// cancellationWindow is the minimum lead time before the tour date within
// which customers can no longer self-cancel. Admins are exempt.
const cancellationWindow = 48 * time.Hour

const createAttempts = 3

// TourInventory is the slice of the tours repository the orchestrator
// needs; declared locally to keep the dependency one-directional.
type TourInventory interface {
	GetByID(ctx context.Context, id string) (*tours.Tour, error)
	GetAvailability(ctx context.Context, tourID string, date time.Time) (*tours.TourAvailability, error)
	ReserveSpots(ctx context.Context, tx *gorm.DB, tourID string, date time.Time, spots int) error
	ReleaseSpots(ctx context.Context, tx *gorm.DB, tourID string, date time.Time, spots int) error
}

// UserDirectory resolves and creates users for guest checkout.
type UserDirectory interface {
	GetUserByEmail(ctx context.Context, email string) (*users.User, error)
	CreateUser(ctx context.Context, user *users.User) error
}

// Notifier publishes booking lifecycle notifications. Delivery failures
// must never fail the booking flow.
type Notifier interface {
	BookingCancelled(ctx context.Context, booking *Booking)
}

// AvailabilityResult reports the outcome of an availability check
type AvailabilityResult struct {
	Available      bool    `json:"available"`
	SpotsAvailable int     `json:"spots_available"`
	UnitPrice      float64 `json:"unit_price"`
	Quote          *Quote  `json:"quote,omitempty"`
}

type Service interface {
	CheckAvailability(ctx context.Context, req *CheckAvailabilityRequest) (*AvailabilityResult, error)
	CreateBooking(ctx context.Context, userID string, req *CreateBookingRequest) (*BookingResponse, error)
	GetBooking(ctx context.Context, id, requesterID string, isStaff bool) (*BookingResponse, error)
	GetBookingByReference(ctx context.Context, reference string) (*BookingResponse, error)
	ListUserBookings(ctx context.Context, userID string, page, limit int) (*BookingListResponse, error)
	CancelBooking(ctx context.Context, id, requesterID string, isStaff bool, req *CancelBookingRequest) (*BookingResponse, error)

	ListBookings(ctx context.Context, query *BookingListQuery) (*BookingListResponse, error)
	UpdateStatus(ctx context.Context, id string, req *UpdateStatusRequest) error
	UpdatePayment(ctx context.Context, id string, req *UpdatePaymentRequest) error
	AddNote(ctx context.Context, bookingID, authorID string, req *AddNoteRequest) error
	DeleteBooking(ctx context.Context, id string) error
	GetStats(ctx context.Context) (*StatsResponse, error)
}

type service struct {
	repo     Repository
	tours    TourInventory
	users    UserDirectory
	cache    cache.Service
	notifier Notifier
	config   *config.Config
	log      *logger.Logger
}

func NewService(repo Repository, tourInventory TourInventory, userDirectory UserDirectory, cacheService cache.Service, notifier Notifier, cfg *config.Config, log *logger.Logger) Service {
	return &service{
		repo:     repo,
		tours:    tourInventory,
		users:    userDirectory,
		cache:    cacheService,
		notifier: notifier,
		config:   cfg,
		log:      log,
	}
}

func (s *service) CheckAvailability(ctx context.Context, req *CheckAvailabilityRequest) (*AvailabilityResult, error) {
	if err := req.Travelers.Validate(); err != nil {
		return nil, err
	}

	date, err := time.Parse("2006-01-02", req.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, req.BookingDate)
	}

	tour, err := s.tours.GetByID(ctx, req.TourID)
	if err != nil {
		return nil, err
	}
	if !tour.IsActive {
		return nil, ErrTourInactive
	}

	avail, err := s.tours.GetAvailability(ctx, req.TourID, date)
	if err != nil {
		return nil, err
	}

	result := &AvailabilityResult{
		Available:      avail.SpotsAvailable >= req.Travelers.Total(),
		SpotsAvailable: avail.SpotsAvailable,
		UnitPrice:      tour.EffectivePrice(),
	}
	if result.Available {
		quote, err := CalculateQuote(tour.EffectivePrice(), req.Travelers)
		if err != nil {
			return nil, err
		}
		result.Quote = &quote
	}
	return result, nil
}

func (s *service) CreateBooking(ctx context.Context, userID string, req *CreateBookingRequest) (*BookingResponse, error) {
	if err := req.Travelers.Validate(); err != nil {
		return nil, err
	}
	if (req.TourID == "") == (req.TourDetails == nil) {
		return nil, ErrTourRequired
	}

	date, err := time.Parse("2006-01-02", req.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, req.BookingDate)
	}

	booking := &Booking{
		BookingDate:     date,
		Travelers:       req.Travelers,
		TotalTravelers:  req.Travelers.Total(),
		Contact:         ContactInfo(req.Contact),
		Status:          StatusPending,
		SpecialRequests: req.SpecialRequests,
		Payment: PaymentInfo{
			Method: req.PaymentMethod,
			Status: PaymentPending,
		},
	}

	var unitPrice, unitDiscount float64
	if req.TourID != "" {
		tour, err := s.tours.GetByID(ctx, req.TourID)
		if err != nil {
			return nil, err
		}
		if !tour.IsActive {
			return nil, ErrTourInactive
		}
		tourID := tour.ID
		booking.TourID = &tourID
		unitPrice = tour.EffectivePrice()
		if unitDiscount = tour.Price - unitPrice; unitDiscount < 0 {
			unitDiscount = 0
		}
	} else {
		snapshot := TourSnapshot{
			Title:       req.TourDetails.Title,
			Destination: req.TourDetails.Destination,
			Duration:    req.TourDetails.Duration,
			Price:       req.TourDetails.Price,
		}
		raw, err := json.Marshal(snapshot)
		if err != nil {
			return nil, err
		}
		booking.TourDetails = raw
		unitPrice = req.TourDetails.Price
	}

	quote, err := CalculateQuote(unitPrice, req.Travelers)
	if err != nil {
		return nil, err
	}
	booking.BasePrice = quote.BasePrice
	booking.Discount = roundCurrency(unitDiscount)
	booking.Tax = quote.Tax
	booking.TotalPrice = quote.Total

	ownerID, err := s.resolveUser(ctx, userID, req.Contact)
	if err != nil {
		return nil, err
	}
	booking.UserID = ownerID

	if err := s.persistBooking(ctx, booking, date); err != nil {
		return nil, err
	}

	s.log.LogBookingCreated(ctx, booking.ID.String(), booking.Reference, booking.UserID.String())
	_ = s.cache.Delete(ctx, cache.BookingStatsKey())

	resp := booking.ToResponse()
	return &resp, nil
}

// persistBooking creates the record inside a transaction, reserving
// inventory for registered tours in the same transaction so capacity and
// the booking row commit or roll back together. Retries on the rare
// reference collision.
func (s *service) persistBooking(ctx context.Context, booking *Booking, date time.Time) error {
	var lastErr error
	for attempt := 0; attempt < createAttempts; attempt++ {
		booking.Reference = GenerateReference()
		lastErr = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
			if booking.TourID != nil {
				if err := s.tours.ReserveSpots(ctx, tx, booking.TourID.String(), date, booking.TotalTravelers); err != nil {
					return err
				}
			}
			return s.repo.Create(ctx, tx, booking)
		})
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, ErrDuplicateReference) {
			return lastErr
		}
	}
	return lastErr
}

func (s *service) resolveUser(ctx context.Context, userID string, contact ContactInfoRequest) (uuid.UUID, error) {
	if userID != "" {
		return uuid.Parse(userID)
	}

	existing, err := s.users.GetUserByEmail(ctx, contact.Email)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, auth.ErrUserNotFound) {
		return uuid.Nil, err
	}

	guest := &users.User{
		Name:  contact.Name,
		Email: contact.Email,
		Phone: contact.Phone,
		Role:  users.RoleGuest,
	}
	if err := s.users.CreateUser(ctx, guest); err != nil {
		return uuid.Nil, err
	}
	return guest.ID, nil
}

func (s *service) GetBooking(ctx context.Context, id, requesterID string, isStaff bool) (*BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isStaff && booking.UserID.String() != requesterID {
		return nil, ErrForbidden
	}
	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) GetBookingByReference(ctx context.Context, reference string) (*BookingResponse, error) {
	booking, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) ListUserBookings(ctx context.Context, userID string, page, limit int) (*BookingListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	bookings, total, err := s.repo.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}
	return buildListResponse(bookings, total, page, limit), nil
}

func (s *service) CancelBooking(ctx context.Context, id, requesterID string, isStaff bool, req *CancelBookingRequest) (*BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !isStaff && booking.UserID.String() != requesterID {
		return nil, ErrForbidden
	}
	if booking.Cancellation.IsCancelled {
		return nil, ErrAlreadyCancelled
	}
	if !isStaff && time.Until(booking.BookingDate) < cancellationWindow {
		return nil, ErrWindowClosed
	}

	now := time.Now()
	cancelledBy := "customer"
	if isStaff {
		cancelledBy = "admin"
	}
	booking.Status = StatusCancelled
	booking.Cancellation = CancellationInfo{
		IsCancelled: true,
		CancelledAt: &now,
		CancelledBy: cancelledBy,
		Reason:      req.Reason,
	}
	if booking.Payment.Status == PaymentCompleted {
		booking.Cancellation.RefundAmount = booking.TotalPrice
		booking.Cancellation.RefundStatus = "pending"
	}

	err = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		if booking.TourID != nil {
			if err := s.tours.ReleaseSpots(ctx, tx, booking.TourID.String(), booking.BookingDate, booking.TotalTravelers); err != nil {
				return err
			}
		}
		booking.Notes = nil
		return s.repo.Update(ctx, tx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.log.LogBookingCancelled(ctx, booking.ID.String(), booking.Reference, cancelledBy)
	_ = s.cache.Delete(ctx, cache.BookingStatsKey())

	if s.notifier != nil {
		s.notifier.BookingCancelled(ctx, booking)
	}

	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) ListBookings(ctx context.Context, query *BookingListQuery) (*BookingListResponse, error) {
	query.Normalize()

	bookings, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, err
	}
	return buildListResponse(bookings, total, query.Page, query.Limit), nil
}

func (s *service) UpdateStatus(ctx context.Context, id string, req *UpdateStatusRequest) error {
	status := Status(req.Status)
	if !status.IsValid() {
		return ErrInvalidTransition
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, cache.BookingStatsKey())
	return nil
}

func (s *service) UpdatePayment(ctx context.Context, id string, req *UpdatePaymentRequest) error {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	next := PaymentStatus(req.Status)
	if !next.IsValid() {
		return ErrInvalidTransition
	}

	payment := booking.Payment
	payment.Status = next
	if req.TransactionID != "" {
		payment.TransactionID = req.TransactionID
	}
	if req.ReceiptNumber != "" {
		payment.ReceiptNumber = req.ReceiptNumber
	}
	payment.FailureReason = req.FailureReason
	if next == PaymentCompleted && payment.PaidAt == nil {
		now := time.Now()
		payment.PaidAt = &now
	}

	if err := s.repo.UpdatePayment(ctx, id, payment); err != nil {
		return err
	}
	if next == PaymentCompleted && booking.Status == StatusPending {
		if err := s.repo.UpdateStatus(ctx, id, StatusConfirmed); err != nil {
			return err
		}
	}
	_ = s.cache.Delete(ctx, cache.BookingStatsKey())
	return nil
}

func (s *service) AddNote(ctx context.Context, bookingID, authorID string, req *AddNoteRequest) error {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	author, err := uuid.Parse(authorID)
	if err != nil {
		return err
	}

	return s.repo.AddNote(ctx, &BookingNote{
		BookingID: booking.ID,
		AuthorID:  author,
		Note:      req.Note,
	})
}

func (s *service) DeleteBooking(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, cache.BookingStatsKey())
	return nil
}

func (s *service) GetStats(ctx context.Context) (*StatsResponse, error) {
	var stats StatsResponse
	err := s.cache.GetOrSet(ctx, cache.BookingStatsKey(), s.config.Redis.StatsTTL, func() (interface{}, error) {
		return s.repo.Stats(ctx)
	}, &stats)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func buildListResponse(bookings []Booking, total int64, page, limit int) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings:   make([]BookingResponse, 0, len(bookings)),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: calculateTotalPages(total, limit),
	}
	for i := range bookings {
		resp.Bookings = append(resp.Bookings, bookings[i].ToResponse())
	}
	return resp
}

func calculateTotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}

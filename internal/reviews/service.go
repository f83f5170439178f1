package reviews

import (
	"context"
	"errors"

	"deluxetours/internal/bookings"

	"github.com/google/uuid"
)

var ErrBookingMismatch = errors.New("booking does not match the tour and user")

// BookingVerifier checks whether a review is backed by a real booking.
type BookingVerifier interface {
	GetByID(ctx context.Context, id string) (*bookings.Booking, error)
}

// RatingUpdater pushes the approved-review rollup onto the tour record.
type RatingUpdater interface {
	UpdateRating(ctx context.Context, tourID string, average float64, count int) error
}

type Service interface {
	Submit(ctx context.Context, userID string, req *SubmitReviewRequest) (*Review, error)
	ListForTour(ctx context.Context, tourID string, page, limit int) (*ReviewListResponse, error)
	List(ctx context.Context, query *ReviewListQuery) (*ReviewListResponse, error)
	Approve(ctx context.Context, id string) (*Review, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo     Repository
	bookings BookingVerifier
	tours    RatingUpdater
}

func NewService(repo Repository, verifier BookingVerifier, ratingUpdater RatingUpdater) Service {
	return &service{
		repo:     repo,
		bookings: verifier,
		tours:    ratingUpdater,
	}
}

func (s *service) Submit(ctx context.Context, userID string, req *SubmitReviewRequest) (*Review, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	tourID, err := uuid.Parse(req.TourID)
	if err != nil {
		return nil, err
	}

	review := &Review{
		TourID:      tourID,
		UserID:      uid,
		Rating:      req.Rating,
		Title:       req.Title,
		Comment:     req.Comment,
		GuideRating: req.GuideRating,
		ValueRating: req.ValueRating,
	}

	if req.BookingID != "" {
		booking, err := s.bookings.GetByID(ctx, req.BookingID)
		if err != nil {
			return nil, err
		}
		if booking.UserID != uid || booking.TourID == nil || *booking.TourID != tourID {
			return nil, ErrBookingMismatch
		}
		bookingID := booking.ID
		review.BookingID = &bookingID
		review.IsVerified = booking.Status == bookings.StatusCompleted || booking.Status == bookings.StatusConfirmed
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *service) ListForTour(ctx context.Context, tourID string, page, limit int) (*ReviewListResponse, error) {
	approved := true
	query := &ReviewListQuery{
		TourID:   tourID,
		Approved: &approved,
		Page:     page,
		Limit:    limit,
	}
	return s.List(ctx, query)
}

func (s *service) List(ctx context.Context, query *ReviewListQuery) (*ReviewListResponse, error) {
	query.Normalize()

	reviews, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / query.Limit
	if int(total)%query.Limit != 0 {
		totalPages++
	}

	return &ReviewListResponse{
		Reviews:    reviews,
		Total:      total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages,
	}, nil
}

// Approve publishes the review and refreshes the tour's rating rollup.
func (s *service) Approve(ctx context.Context, id string) (*Review, error) {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !review.IsApproved {
		review.IsApproved = true
		if err := s.repo.Update(ctx, review); err != nil {
			return nil, err
		}
	}

	if err := s.refreshRating(ctx, review.TourID.String()); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if review.IsApproved {
		return s.refreshRating(ctx, review.TourID.String())
	}
	return nil
}

func (s *service) refreshRating(ctx context.Context, tourID string) error {
	average, count, err := s.repo.ApprovedRatingSummary(ctx, tourID)
	if err != nil {
		return err
	}
	return s.tours.UpdateRating(ctx, tourID, average, count)
}

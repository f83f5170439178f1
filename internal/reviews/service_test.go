package reviews

import (
	"context"
	"errors"
	"testing"

	"deluxetours/internal/bookings"

	"github.com/google/uuid"
)

type fakeReviewRepo struct {
	reviews map[string]*Review

	average float64
	count   int
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[string]*Review)}
}

func (r *fakeReviewRepo) Create(ctx context.Context, review *Review) error {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	for _, existing := range r.reviews {
		if existing.TourID == review.TourID && existing.UserID == review.UserID {
			return ErrDuplicateReview
		}
	}
	r.reviews[review.ID.String()] = review
	return nil
}

func (r *fakeReviewRepo) Update(ctx context.Context, review *Review) error {
	r.reviews[review.ID.String()] = review
	return nil
}

func (r *fakeReviewRepo) Delete(ctx context.Context, id string) error {
	delete(r.reviews, id)
	return nil
}

func (r *fakeReviewRepo) GetByID(ctx context.Context, id string) (*Review, error) {
	review, ok := r.reviews[id]
	if !ok {
		return nil, ErrReviewNotFound
	}
	return review, nil
}

func (r *fakeReviewRepo) List(ctx context.Context, query *ReviewListQuery) ([]Review, int64, error) {
	var out []Review
	for _, review := range r.reviews {
		if query.Approved != nil && review.IsApproved != *query.Approved {
			continue
		}
		out = append(out, *review)
	}
	return out, int64(len(out)), nil
}

func (r *fakeReviewRepo) ApprovedRatingSummary(ctx context.Context, tourID string) (float64, int, error) {
	return r.average, r.count, nil
}

type fakeVerifier struct {
	booking *bookings.Booking
}

func (f *fakeVerifier) GetByID(ctx context.Context, id string) (*bookings.Booking, error) {
	if f.booking == nil || f.booking.ID.String() != id {
		return nil, bookings.ErrBookingNotFound
	}
	return f.booking, nil
}

type fakeRatingUpdater struct {
	tourID  string
	average float64
	count   int
	calls   int
}

func (f *fakeRatingUpdater) UpdateRating(ctx context.Context, tourID string, average float64, count int) error {
	f.tourID = tourID
	f.average = average
	f.count = count
	f.calls++
	return nil
}

func TestSubmitVerifiedReview(t *testing.T) {
	tourID := uuid.New()
	userID := uuid.New()
	booking := &bookings.Booking{
		ID:     uuid.New(),
		UserID: userID,
		TourID: &tourID,
		Status: bookings.StatusCompleted,
	}

	repo := newFakeReviewRepo()
	svc := NewService(repo, &fakeVerifier{booking: booking}, &fakeRatingUpdater{})

	review, err := svc.Submit(context.Background(), userID.String(), &SubmitReviewRequest{
		TourID:    tourID.String(),
		BookingID: booking.ID.String(),
		Rating:    5,
		Comment:   "Outstanding guides and wildlife sightings.",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if !review.IsVerified {
		t.Error("IsVerified = false, want true for completed booking")
	}
	if review.IsApproved {
		t.Error("IsApproved = true, want false before moderation")
	}
	if review.BookingID == nil || *review.BookingID != booking.ID {
		t.Errorf("BookingID = %v, want %s", review.BookingID, booking.ID)
	}
}

func TestSubmitUnverifiedWithoutBooking(t *testing.T) {
	repo := newFakeReviewRepo()
	svc := NewService(repo, &fakeVerifier{}, &fakeRatingUpdater{})

	review, err := svc.Submit(context.Background(), uuid.NewString(), &SubmitReviewRequest{
		TourID:  uuid.NewString(),
		Rating:  4,
		Comment: "Lovely beaches, would go again.",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if review.IsVerified {
		t.Error("IsVerified = true, want false without a booking")
	}
}

func TestSubmitBookingMismatch(t *testing.T) {
	tourID := uuid.New()
	otherUser := uuid.New()
	booking := &bookings.Booking{
		ID:     uuid.New(),
		UserID: otherUser,
		TourID: &tourID,
		Status: bookings.StatusCompleted,
	}

	repo := newFakeReviewRepo()
	svc := NewService(repo, &fakeVerifier{booking: booking}, &fakeRatingUpdater{})

	_, err := svc.Submit(context.Background(), uuid.NewString(), &SubmitReviewRequest{
		TourID:    tourID.String(),
		BookingID: booking.ID.String(),
		Rating:    5,
		Comment:   "Trying to review someone else's trip.",
	})
	if !errors.Is(err, ErrBookingMismatch) {
		t.Errorf("Submit() error = %v, want ErrBookingMismatch", err)
	}
}

func TestSubmitDuplicateReview(t *testing.T) {
	repo := newFakeReviewRepo()
	svc := NewService(repo, &fakeVerifier{}, &fakeRatingUpdater{})

	userID := uuid.NewString()
	req := &SubmitReviewRequest{
		TourID:  uuid.NewString(),
		Rating:  4,
		Comment: "Great value for money.",
	}

	if _, err := svc.Submit(context.Background(), userID, req); err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}
	if _, err := svc.Submit(context.Background(), userID, req); !errors.Is(err, ErrDuplicateReview) {
		t.Errorf("second Submit() error = %v, want ErrDuplicateReview", err)
	}
}

func TestApproveRefreshesRating(t *testing.T) {
	repo := newFakeReviewRepo()
	repo.average = 4.5
	repo.count = 2
	updater := &fakeRatingUpdater{}
	svc := NewService(repo, &fakeVerifier{}, updater)

	review := &Review{ID: uuid.New(), TourID: uuid.New(), UserID: uuid.New(), Rating: 5, Comment: "Superb"}
	repo.reviews[review.ID.String()] = review

	approved, err := svc.Approve(context.Background(), review.ID.String())
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if !approved.IsApproved {
		t.Error("IsApproved = false after Approve")
	}
	if updater.calls != 1 {
		t.Errorf("UpdateRating calls = %d, want 1", updater.calls)
	}
	if updater.average != 4.5 || updater.count != 2 {
		t.Errorf("rating rollup = (%v, %d), want (4.5, 2)", updater.average, updater.count)
	}
}

func TestDeleteApprovedRefreshesRating(t *testing.T) {
	repo := newFakeReviewRepo()
	updater := &fakeRatingUpdater{}
	svc := NewService(repo, &fakeVerifier{}, updater)

	approved := &Review{ID: uuid.New(), TourID: uuid.New(), UserID: uuid.New(), IsApproved: true}
	pending := &Review{ID: uuid.New(), TourID: uuid.New(), UserID: uuid.New()}
	repo.reviews[approved.ID.String()] = approved
	repo.reviews[pending.ID.String()] = pending

	if err := svc.Delete(context.Background(), approved.ID.String()); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if updater.calls != 1 {
		t.Errorf("UpdateRating calls = %d, want 1 for approved review", updater.calls)
	}

	if err := svc.Delete(context.Background(), pending.ID.String()); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if updater.calls != 1 {
		t.Errorf("UpdateRating calls = %d, want still 1 (pending review)", updater.calls)
	}
}

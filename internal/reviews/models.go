package reviews

import (
	"time"

	"github.com/google/uuid"
)

// Review is a customer rating for a tour. One review per (tour, user);
// reviews are only published after admin approval.
type Review struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TourID    uuid.UUID  `json:"tour_id" gorm:"type:uuid;not null;uniqueIndex:idx_tour_user"`
	UserID    uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_tour_user"`
	BookingID *uuid.UUID `json:"booking_id,omitempty" gorm:"type:uuid"`

	Rating  int    `json:"rating" gorm:"not null"`
	Title   string `json:"title" gorm:"size:200"`
	Comment string `json:"comment" gorm:"type:text"`

	// Optional aspect ratings.
	GuideRating float64 `json:"guide_rating,omitempty" gorm:"default:0"`
	ValueRating float64 `json:"value_rating,omitempty" gorm:"default:0"`

	IsApproved bool `json:"is_approved" gorm:"default:false;index"`
	IsVerified bool `json:"is_verified" gorm:"default:false"` // backed by a completed booking

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Review) TableName() string {
	return "reviews"
}

// SubmitReviewRequest is the review submission payload
type SubmitReviewRequest struct {
	TourID      string  `json:"tour_id" validate:"required,uuid"`
	BookingID   string  `json:"booking_id,omitempty" validate:"omitempty,uuid"`
	Rating      int     `json:"rating" validate:"required,min=1,max=5"`
	Title       string  `json:"title,omitempty" validate:"max=200"`
	Comment     string  `json:"comment" validate:"required,min=5,max=5000"`
	GuideRating float64 `json:"guide_rating,omitempty" validate:"omitempty,min=1,max=5"`
	ValueRating float64 `json:"value_rating,omitempty" validate:"omitempty,min=1,max=5"`
}

// ReviewListQuery represents listing filters
type ReviewListQuery struct {
	TourID   string `form:"tour_id"`
	Approved *bool  `form:"approved"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

// Normalize applies defaults and bounds to the query
func (q *ReviewListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
}

// ReviewListResponse represents a paginated review listing
type ReviewListResponse struct {
	Reviews    []Review `json:"reviews"`
	Total      int64    `json:"total"`
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	TotalPages int      `json:"total_pages"`
}

package tours

import "time"

// CreateTourRequest represents the create tour request payload
type CreateTourRequest struct {
	Title          string   `json:"title" validate:"required,min=3,max=200"`
	Description    string   `json:"description" validate:"required,min=10"`
	Category       string   `json:"category" validate:"required,max=100"`
	Destination    string   `json:"destination" validate:"required,max=200"`
	Country        string   `json:"country" validate:"required,max=100"`
	DurationDays   int      `json:"duration_days" validate:"required,min=1"`
	DurationNights int      `json:"duration_nights" validate:"min=0"`
	Price          float64  `json:"price" validate:"required,gt=0"`
	DiscountPrice  *float64 `json:"discount_price,omitempty" validate:"omitempty,gt=0"`
	MaxGroupSize   int      `json:"max_group_size" validate:"required,min=1"`
	MainImage      string   `json:"main_image,omitempty" validate:"omitempty,url"`
	IsFeatured     bool     `json:"is_featured"`
	IsActive       *bool    `json:"is_active,omitempty"`

	Availability []AvailabilityInput `json:"availability,omitempty" validate:"omitempty,dive"`
}

// AvailabilityInput carries a single availability entry on create/update
type AvailabilityInput struct {
	Date           string `json:"date" validate:"required"` // YYYY-MM-DD
	SpotsAvailable int    `json:"spots_available" validate:"min=0"`
}

// UpdateTourRequest represents the update tour request payload
type UpdateTourRequest struct {
	Title          *string  `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Description    *string  `json:"description,omitempty" validate:"omitempty,min=10"`
	Category       *string  `json:"category,omitempty" validate:"omitempty,max=100"`
	Destination    *string  `json:"destination,omitempty" validate:"omitempty,max=200"`
	Country        *string  `json:"country,omitempty" validate:"omitempty,max=100"`
	DurationDays   *int     `json:"duration_days,omitempty" validate:"omitempty,min=1"`
	DurationNights *int     `json:"duration_nights,omitempty" validate:"omitempty,min=0"`
	Price          *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	DiscountPrice  *float64 `json:"discount_price,omitempty" validate:"omitempty,gte=0"`
	MaxGroupSize   *int     `json:"max_group_size,omitempty" validate:"omitempty,min=1"`
	MainImage      *string  `json:"main_image,omitempty"`
	IsFeatured     *bool    `json:"is_featured,omitempty"`
	IsActive       *bool    `json:"is_active,omitempty"`
}

// SetAvailabilityRequest replaces or upserts availability entries for a tour
type SetAvailabilityRequest struct {
	Entries []AvailabilityInput `json:"entries" validate:"required,min=1,dive"`
}

// TourListQuery represents filters for listing tours
type TourListQuery struct {
	Category    string  `form:"category"`
	Destination string  `form:"destination"`
	Country     string  `form:"country"`
	MinPrice    float64 `form:"min_price"`
	MaxPrice    float64 `form:"max_price"`
	Featured    *bool   `form:"featured"`
	Search      string  `form:"search"`
	SortBy      string  `form:"sort_by"`    // price, rating, created_at
	SortOrder   string  `form:"sort_order"` // asc, desc
	Page        int     `form:"page"`
	Limit       int     `form:"limit"`
}

// Normalize applies defaults and bounds to the query
func (q *TourListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 12
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	switch q.SortBy {
	case "price", "rating_average", "created_at", "title":
	case "rating":
		q.SortBy = "rating_average"
	default:
		q.SortBy = "created_at"
	}
	if q.SortOrder != "asc" {
		q.SortOrder = "desc"
	}
}

// ParseAvailabilityDate parses an availability date in YYYY-MM-DD form
func ParseAvailabilityDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

package tours

import "time"

// TourResponse represents a tour in API responses
type TourResponse struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Slug           string   `json:"slug"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	Destination    string   `json:"destination"`
	Country        string   `json:"country"`
	DurationDays   int      `json:"duration_days"`
	DurationNights int      `json:"duration_nights"`
	Price          float64  `json:"price"`
	DiscountPrice  *float64 `json:"discount_price,omitempty"`
	EffectivePrice float64  `json:"effective_price"`
	MaxGroupSize   int      `json:"max_group_size"`
	MainImage      string   `json:"main_image,omitempty"`
	IsFeatured     bool     `json:"is_featured"`
	IsActive       bool     `json:"is_active"`
	RatingAverage  float64  `json:"rating_average"`
	RatingCount    int      `json:"rating_count"`

	Availability []AvailabilityResponse `json:"availability,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AvailabilityResponse represents a single availability entry
type AvailabilityResponse struct {
	Date           string `json:"date"`
	SpotsAvailable int    `json:"spots_available"`
}

// TourListResponse represents a paginated tour listing
type TourListResponse struct {
	Tours      []TourResponse `json:"tours"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

// AvailabilityCheckResponse reports remaining capacity for a date
type AvailabilityCheckResponse struct {
	Available      bool    `json:"available"`
	SpotsAvailable int     `json:"spots_available"`
	UnitPrice      float64 `json:"unit_price"`
}

// ToResponse converts a Tour to a TourResponse
func (t *Tour) ToResponse() TourResponse {
	resp := TourResponse{
		ID:             t.ID.String(),
		Title:          t.Title,
		Slug:           t.Slug,
		Description:    t.Description,
		Category:       t.Category,
		Destination:    t.Destination,
		Country:        t.Country,
		DurationDays:   t.DurationDays,
		DurationNights: t.DurationNights,
		Price:          t.Price,
		DiscountPrice:  t.DiscountPrice,
		EffectivePrice: t.EffectivePrice(),
		MaxGroupSize:   t.MaxGroupSize,
		MainImage:      t.MainImage,
		IsFeatured:     t.IsFeatured,
		IsActive:       t.IsActive,
		RatingAverage:  t.RatingAverage,
		RatingCount:    t.RatingCount,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	for _, a := range t.Availability {
		resp.Availability = append(resp.Availability, AvailabilityResponse{
			Date:           a.Date.Format("2006-01-02"),
			SpotsAvailable: a.SpotsAvailable,
		})
	}
	return resp
}

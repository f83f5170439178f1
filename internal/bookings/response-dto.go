package bookings

import (
	"encoding/json"
	"time"
)

// BookingResponse represents a booking in API responses
type BookingResponse struct {
	ID        string `json:"id"`
	Reference string `json:"booking_reference"`

	TourID      string        `json:"tour_id,omitempty"`
	TourDetails *TourSnapshot `json:"tour_details,omitempty"`

	UserID      string `json:"user_id"`
	BookingDate string `json:"booking_date"`

	Travelers      Travelers `json:"travelers"`
	TotalTravelers int       `json:"total_travelers"`

	Contact ContactInfo `json:"contact_info"`

	BasePrice  float64 `json:"base_price"`
	Discount   float64 `json:"discount"`
	Tax        float64 `json:"tax"`
	TotalPrice float64 `json:"total_price"`

	Status       Status           `json:"status"`
	Payment      PaymentInfo      `json:"payment"`
	Cancellation CancellationInfo `json:"cancellation"`

	SpecialRequests string         `json:"special_requests,omitempty"`
	Notes           []NoteResponse `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NoteResponse represents a booking note in API responses
type NoteResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// BookingListResponse represents a paginated booking listing
type BookingListResponse struct {
	Bookings   []BookingResponse `json:"bookings"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// MonthlyStat is one month's booking volume and revenue
type MonthlyStat struct {
	Month    string  `json:"month"` // YYYY-MM
	Bookings int64   `json:"bookings"`
	Revenue  float64 `json:"revenue"`
}

// StatsResponse aggregates booking counts and revenue for the admin dashboard
type StatsResponse struct {
	TotalBookings    int64            `json:"total_bookings"`
	ByStatus         map[string]int64 `json:"by_status"`
	ByPaymentStatus  map[string]int64 `json:"by_payment_status"`
	TotalRevenue     float64          `json:"total_revenue"`
	AverageBooking   float64          `json:"average_booking_value"`
	MonthlyBreakdown []MonthlyStat    `json:"monthly_breakdown"`
}

// ToResponse converts a Booking to a BookingResponse
func (b *Booking) ToResponse() BookingResponse {
	resp := BookingResponse{
		ID:              b.ID.String(),
		Reference:       b.Reference,
		UserID:          b.UserID.String(),
		BookingDate:     b.BookingDate.Format("2006-01-02"),
		Travelers:       b.Travelers,
		TotalTravelers:  b.TotalTravelers,
		Contact:         b.Contact,
		BasePrice:       b.BasePrice,
		Discount:        b.Discount,
		Tax:             b.Tax,
		TotalPrice:      b.TotalPrice,
		Status:          b.Status,
		Payment:         b.Payment,
		Cancellation:    b.Cancellation,
		SpecialRequests: b.SpecialRequests,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
	if b.TourID != nil {
		resp.TourID = b.TourID.String()
	}
	if len(b.TourDetails) > 0 {
		var snapshot TourSnapshot
		if err := json.Unmarshal(b.TourDetails, &snapshot); err == nil {
			resp.TourDetails = &snapshot
		}
	}
	for _, n := range b.Notes {
		resp.Notes = append(resp.Notes, NoteResponse{
			ID:        n.ID.String(),
			AuthorID:  n.AuthorID.String(),
			Note:      n.Note,
			CreatedAt: n.CreatedAt,
		})
	}
	return resp
}

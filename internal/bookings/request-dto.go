package bookings

// CreateBookingRequest represents the create booking request payload.
// Exactly one of TourID or TourDetails must be supplied.
type CreateBookingRequest struct {
	TourID      string              `json:"tour_id,omitempty" validate:"omitempty,uuid"`
	TourDetails *TourDetailsRequest `json:"tour_details,omitempty"`
	BookingDate string              `json:"booking_date" validate:"required"` // YYYY-MM-DD
	Travelers   Travelers           `json:"travelers" validate:"required"`
	Contact     ContactInfoRequest  `json:"contact_info" validate:"required"`

	SpecialRequests string `json:"special_requests,omitempty" validate:"max=1000"`
	PaymentMethod   string `json:"payment_method,omitempty" validate:"omitempty,oneof=mpesa stripe"`
}

// TourDetailsRequest carries the ad-hoc tour snapshot
type TourDetailsRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Destination string  `json:"destination" validate:"required,max=200"`
	Duration    string  `json:"duration,omitempty" validate:"max=100"`
	Price       float64 `json:"price" validate:"required,gt=0"`
}

// ContactInfoRequest carries the lead traveler's contact details
type ContactInfoRequest struct {
	Name             string `json:"name" validate:"required,min=2,max=200"`
	Email            string `json:"email" validate:"required,email"`
	Phone            string `json:"phone" validate:"required,min=9,max=20"`
	Address          string `json:"address,omitempty" validate:"max=500"`
	EmergencyContact string `json:"emergency_contact,omitempty" validate:"max=200"`
}

// CheckAvailabilityRequest asks whether a tour date can hold a party
type CheckAvailabilityRequest struct {
	TourID      string    `json:"tour_id" validate:"required,uuid"`
	BookingDate string    `json:"booking_date" validate:"required"`
	Travelers   Travelers `json:"travelers" validate:"required"`
}

// CancelBookingRequest represents the cancellation payload
type CancelBookingRequest struct {
	Reason string `json:"reason,omitempty" validate:"max=500"`
}

// UpdateStatusRequest is the admin status override payload
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

// UpdatePaymentRequest is the admin payment override payload
type UpdatePaymentRequest struct {
	Status        string `json:"status" validate:"required,oneof=pending processing completed failed canceled refunded"`
	TransactionID string `json:"transaction_id,omitempty" validate:"max=200"`
	ReceiptNumber string `json:"receipt_number,omitempty" validate:"max=100"`
	FailureReason string `json:"failure_reason,omitempty" validate:"max=500"`
}

// AddNoteRequest attaches an internal note to a booking
type AddNoteRequest struct {
	Note string `json:"note" validate:"required,min=1,max=2000"`
}

// BookingListQuery represents admin listing filters
type BookingListQuery struct {
	Status        string `form:"status"`
	PaymentStatus string `form:"payment_status"`
	Search        string `form:"search"`
	DateFrom      string `form:"date_from"`
	DateTo        string `form:"date_to"`
	Page          int    `form:"page"`
	Limit         int    `form:"limit"`
}

// Normalize applies defaults and bounds to the query
func (q *BookingListQuery) Normalize() {
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

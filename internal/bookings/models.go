package bookings

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ContactInfo is the lead traveler's contact details, embedded on the booking
type ContactInfo struct {
	Name             string `json:"name" gorm:"column:contact_name;not null;size:200"`
	Email            string `json:"email" gorm:"column:contact_email;not null;size:200;index"`
	Phone            string `json:"phone" gorm:"column:contact_phone;not null;size:20"`
	Address          string `json:"address,omitempty" gorm:"column:contact_address;size:500"`
	EmergencyContact string `json:"emergency_contact,omitempty" gorm:"column:emergency_contact;size:200"`
}

// PaymentInfo is the payment sub-record embedded on the booking
type PaymentInfo struct {
	Method        string        `json:"method" gorm:"column:payment_method;size:20"` // "mpesa" or "stripe"
	Status        PaymentStatus `json:"status" gorm:"column:payment_status;not null;default:'pending';index"`
	TransactionID string        `json:"transaction_id,omitempty" gorm:"column:transaction_id;size:200;index"`
	ReceiptNumber string        `json:"receipt_number,omitempty" gorm:"column:receipt_number;size:100"`
	PaidAt        *time.Time    `json:"paid_at,omitempty" gorm:"column:paid_at"`
	FailureReason string        `json:"failure_reason,omitempty" gorm:"column:payment_failure_reason;size:500"`
}

// CancellationInfo is the cancellation sub-record embedded on the booking
type CancellationInfo struct {
	IsCancelled  bool       `json:"is_cancelled" gorm:"column:is_cancelled;default:false"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty" gorm:"column:cancelled_at"`
	CancelledBy  string     `json:"cancelled_by,omitempty" gorm:"column:cancelled_by;size:50"` // "customer" or "admin"
	Reason       string     `json:"reason,omitempty" gorm:"column:cancellation_reason;size:500"`
	RefundAmount float64    `json:"refund_amount,omitempty" gorm:"column:refund_amount;default:0"`
	RefundStatus string     `json:"refund_status,omitempty" gorm:"column:refund_status;size:50"`
}

// Booking represents a tour booking. TourID is nil for ad-hoc bookings,
// which carry a TourDetails snapshot instead.
type Booking struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Reference string    `json:"booking_reference" gorm:"column:booking_reference;uniqueIndex;not null;size:30"`

	TourID      *uuid.UUID     `json:"tour_id,omitempty" gorm:"type:uuid;index"`
	TourDetails datatypes.JSON `json:"tour_details,omitempty" gorm:"type:jsonb"`

	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	BookingDate time.Time `json:"booking_date" gorm:"type:date;not null;index"`

	Travelers      Travelers `json:"travelers" gorm:"embedded;embeddedPrefix:travelers_"`
	TotalTravelers int       `json:"total_travelers" gorm:"not null"`

	Contact ContactInfo `json:"contact_info" gorm:"embedded"`

	// Pricing snapshot, fixed at creation and never recomputed.
	BasePrice  float64 `json:"base_price" gorm:"not null"`
	Discount   float64 `json:"discount" gorm:"default:0"`
	Tax        float64 `json:"tax" gorm:"not null"`
	TotalPrice float64 `json:"total_price" gorm:"not null"`

	Status  Status      `json:"status" gorm:"not null;default:'pending';index"`
	Payment PaymentInfo `json:"payment" gorm:"embedded"`

	Cancellation CancellationInfo `json:"cancellation" gorm:"embedded"`

	SpecialRequests string `json:"special_requests,omitempty" gorm:"size:1000"`

	Notes []BookingNote `json:"notes,omitempty" gorm:"foreignKey:BookingID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Booking) TableName() string {
	return "bookings"
}

// IsAdHoc reports whether the booking was made against an unregistered tour.
func (b *Booking) IsAdHoc() bool {
	return b.TourID == nil
}

// BookingNote is an internal note attached to a booking by staff
type BookingNote struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	BookingID uuid.UUID `json:"booking_id" gorm:"type:uuid;not null;index"`
	AuthorID  uuid.UUID `json:"author_id" gorm:"type:uuid;not null"`
	Note      string    `json:"note" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (BookingNote) TableName() string {
	return "booking_notes"
}

// TourSnapshot is the shape stored in TourDetails for ad-hoc bookings
type TourSnapshot struct {
	Title       string  `json:"title"`
	Destination string  `json:"destination"`
	Duration    string  `json:"duration,omitempty"`
	Price       float64 `json:"price"`
}

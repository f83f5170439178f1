package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NotificationType identifies what triggered the notification
type NotificationType string

const (
	TypeBookingConfirmed NotificationType = "booking_confirmed"
	TypePaymentReceived  NotificationType = "payment_received"
	TypeBookingCancelled NotificationType = "booking_cancelled"
)

// NotificationStatus tracks delivery progress
type NotificationStatus string

const (
	StatusPending NotificationStatus = "pending"
	StatusQueued  NotificationStatus = "queued"
	StatusSent    NotificationStatus = "sent"
	StatusFailed  NotificationStatus = "failed"
)

// Notification is the message published to Kafka and consumed by the
// email workers.
type Notification struct {
	ID             string             `json:"id"`
	Type           NotificationType   `json:"type"`
	Status         NotificationStatus `json:"status"`
	RecipientEmail string             `json:"recipient_email"`
	RecipientName  string             `json:"recipient_name"`
	Subject        string             `json:"subject"`

	// Booking context rendered into the email body.
	BookingReference string  `json:"booking_reference"`
	BookingDate      string  `json:"booking_date"`
	TotalPrice       float64 `json:"total_price"`
	ReceiptNumber    string  `json:"receipt_number,omitempty"`

	LastError string    `json:"last_error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNotification builds a notification with defaults applied.
func NewNotification(notificationType NotificationType, email, name string) *Notification {
	return &Notification{
		ID:             uuid.New().String(),
		Type:           notificationType,
		Status:         StatusPending,
		RecipientEmail: email,
		RecipientName:  name,
		CreatedAt:      time.Now(),
	}
}

// PartitionKey routes all of a recipient's notifications to one partition
// so they are delivered in order.
func (n *Notification) PartitionKey() string {
	return n.RecipientEmail
}

func (n *Notification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

func FromJSON(data []byte) (*Notification, error) {
	var n Notification
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

package bookings

// Status represents the lifecycle state of a booking
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// PaymentStatus represents the state of a booking's payment
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentCanceled   PaymentStatus = "canceled"
	PaymentRefunded   PaymentStatus = "refunded"
)

func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentPending, PaymentProcessing, PaymentCompleted, PaymentFailed, PaymentCanceled, PaymentRefunded:
		return true
	}
	return false
}

// CanTransitionTo reports whether a payment may move from p to next.
// Terminal outcomes are only reachable through processing, and only a
// completed payment can be refunded.
func (p PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	switch p {
	case PaymentPending:
		return next == PaymentProcessing
	case PaymentProcessing:
		return next == PaymentCompleted || next == PaymentFailed || next == PaymentCanceled
	case PaymentCompleted:
		return next == PaymentRefunded
	case PaymentFailed, PaymentCanceled:
		// Failed attempts can be re-initiated.
		return next == PaymentProcessing
	}
	return false
}

// IsTerminal reports whether the payment has reached a final state.
func (p PaymentStatus) IsTerminal() bool {
	return p == PaymentCompleted || p == PaymentRefunded
}

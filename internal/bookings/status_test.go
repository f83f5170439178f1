package bookings

import "testing"

func TestStatusIsValid(t *testing.T) {
	valid := []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("Status(%q).IsValid() = false, want true", s)
		}
	}
	if Status("refunded").IsValid() {
		t.Error(`Status("refunded").IsValid() = true, want false`)
	}
	if Status("").IsValid() {
		t.Error(`Status("").IsValid() = true, want false`)
	}
}

func TestPaymentStatusTransitions(t *testing.T) {
	tests := []struct {
		from PaymentStatus
		to   PaymentStatus
		want bool
	}{
		{PaymentPending, PaymentProcessing, true},
		{PaymentPending, PaymentCompleted, false},
		{PaymentPending, PaymentFailed, false},
		{PaymentProcessing, PaymentCompleted, true},
		{PaymentProcessing, PaymentFailed, true},
		{PaymentProcessing, PaymentCanceled, true},
		{PaymentProcessing, PaymentRefunded, false},
		{PaymentCompleted, PaymentRefunded, true},
		{PaymentCompleted, PaymentProcessing, false},
		{PaymentCompleted, PaymentCompleted, false},
		{PaymentFailed, PaymentProcessing, true},
		{PaymentFailed, PaymentCompleted, false},
		{PaymentCanceled, PaymentProcessing, true},
		{PaymentCanceled, PaymentCanceled, false},
		{PaymentRefunded, PaymentProcessing, false},
		{PaymentRefunded, PaymentRefunded, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestPaymentStatusIsTerminal(t *testing.T) {
	terminal := map[PaymentStatus]bool{
		PaymentPending:    false,
		PaymentProcessing: false,
		PaymentCompleted:  true,
		PaymentFailed:     false,
		PaymentCanceled:   false,
		PaymentRefunded:   true,
	}

	for status, want := range terminal {
		if got := status.IsTerminal(); got != want {
			t.Errorf("%s.IsTerminal() = %v, want %v", status, got, want)
		}
	}
}

package payments

import "testing"

func TestRefundParams(t *testing.T) {
	full := refundParams("pi_test_456", 0, "")
	if full.PaymentIntent == nil || *full.PaymentIntent != "pi_test_456" {
		t.Errorf("PaymentIntent = %v, want pi_test_456", full.PaymentIntent)
	}
	if full.Amount != nil {
		t.Errorf("Amount = %d, want unset for a full refund", *full.Amount)
	}
	if full.Reason != nil {
		t.Errorf("Reason = %q, want unset", *full.Reason)
	}

	partial := refundParams("pi_test_456", 5637.6, "requested_by_customer")
	if partial.Amount == nil || *partial.Amount != 563760 {
		t.Errorf("Amount = %v, want 563760 minor units", partial.Amount)
	}
	if partial.Reason == nil || *partial.Reason != "requested_by_customer" {
		t.Errorf("Reason = %v, want requested_by_customer", partial.Reason)
	}
}

func TestMinorUnits(t *testing.T) {
	cases := []struct {
		amount float64
		want   int64
	}{
		{5637.6, 563760},
		{1160, 116000},
		{49.99, 4999},
	}
	for _, tc := range cases {
		if got := minorUnits(tc.amount); got != tc.want {
			t.Errorf("minorUnits(%v) = %d, want %d", tc.amount, got, tc.want)
		}
	}
}

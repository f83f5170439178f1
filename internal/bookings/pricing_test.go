package bookings

import (
	"errors"
	"math"
	"testing"
)

func TestCalculateQuote(t *testing.T) {
	tests := []struct {
		name      string
		basePrice float64
		travelers Travelers
		wantSub   float64
		wantTax   float64
		wantTotal float64
	}{
		{
			name:      "single adult",
			basePrice: 1000,
			travelers: Travelers{Adults: 1},
			wantSub:   1000,
			wantTax:   160,
			wantTotal: 1160,
		},
		{
			name:      "family of four",
			basePrice: 1800,
			travelers: Travelers{Adults: 2, Children: 1, Infants: 1},
			wantSub:   5760, // 1800 * (2 + 0.7 + 0.5)
			wantTax:   921.6,
			wantTotal: 6681.6,
		},
		{
			name:      "two adults one child",
			basePrice: 1800,
			travelers: Travelers{Adults: 2, Children: 1},
			wantSub:   4860,
			wantTax:   777.6,
			wantTotal: 5637.6,
		},
		{
			name:      "fractional price rounds tax",
			basePrice: 333.33,
			travelers: Travelers{Adults: 1, Children: 1},
			wantSub:   566.661,
			wantTax:   90.67, // 90.66576 rounded half-up
			wantTotal: 657.33,
		},
		{
			name:      "zero price",
			basePrice: 0,
			travelers: Travelers{Adults: 1},
			wantSub:   0,
			wantTax:   0,
			wantTotal: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := CalculateQuote(tt.basePrice, tt.travelers)
			if err != nil {
				t.Fatalf("CalculateQuote() error = %v", err)
			}
			if math.Abs(quote.Subtotal-tt.wantSub) > 1e-6 {
				t.Errorf("Subtotal = %v, want %v", quote.Subtotal, tt.wantSub)
			}
			if quote.Tax != tt.wantTax {
				t.Errorf("Tax = %v, want %v", quote.Tax, tt.wantTax)
			}
			if quote.Total != tt.wantTotal {
				t.Errorf("Total = %v, want %v", quote.Total, tt.wantTotal)
			}
			if quote.BasePrice != tt.basePrice {
				t.Errorf("BasePrice = %v, want %v", quote.BasePrice, tt.basePrice)
			}
		})
	}
}

func TestCalculateQuoteInvalid(t *testing.T) {
	tests := []struct {
		name      string
		basePrice float64
		travelers Travelers
	}{
		{"no adults", 1000, Travelers{Adults: 0, Children: 2}},
		{"negative children", 1000, Travelers{Adults: 1, Children: -1}},
		{"negative infants", 1000, Travelers{Adults: 1, Infants: -1}},
		{"negative price", -50, Travelers{Adults: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateQuote(tt.basePrice, tt.travelers)
			if !errors.Is(err, ErrInvalidTravelers) {
				t.Errorf("CalculateQuote() error = %v, want ErrInvalidTravelers", err)
			}
		})
	}
}

func TestTravelersTotal(t *testing.T) {
	tr := Travelers{Adults: 2, Children: 3, Infants: 1}
	if got := tr.Total(); got != 6 {
		t.Errorf("Total() = %d, want 6", got)
	}
}

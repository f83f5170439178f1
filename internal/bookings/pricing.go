package bookings

import (
	"errors"
	"math"
)

var ErrInvalidTravelers = errors.New("invalid traveler counts")

// Traveler pricing weights and the VAT rate applied to every booking.
const (
	childRate  = 0.70
	infantRate = 0.50
	taxRate    = 0.16
)

// Travelers holds the party composition for a booking
type Travelers struct {
	Adults   int `json:"adults" binding:"required,min=1"`
	Children int `json:"children" binding:"min=0"`
	Infants  int `json:"infants" binding:"min=0"`
}

func (t Travelers) Total() int {
	return t.Adults + t.Children + t.Infants
}

func (t Travelers) Validate() error {
	if t.Adults < 1 || t.Children < 0 || t.Infants < 0 {
		return ErrInvalidTravelers
	}
	return nil
}

// Quote is the pricing snapshot computed at booking time
type Quote struct {
	BasePrice float64 `json:"base_price"`
	Subtotal  float64 `json:"subtotal"`
	Tax       float64 `json:"tax"`
	Total     float64 `json:"total_price"`
}

// CalculateQuote prices a party against a per-adult base price. Children
// are charged at 70% and infants at 50% of the adult rate; tax and total
// are rounded to 2 decimals, intermediate values are not.
func CalculateQuote(basePrice float64, travelers Travelers) (Quote, error) {
	if err := travelers.Validate(); err != nil {
		return Quote{}, err
	}
	if basePrice < 0 {
		return Quote{}, ErrInvalidTravelers
	}

	units := float64(travelers.Adults) +
		childRate*float64(travelers.Children) +
		infantRate*float64(travelers.Infants)

	subtotal := basePrice * units
	tax := taxRate * subtotal

	return Quote{
		BasePrice: basePrice,
		Subtotal:  subtotal,
		Tax:       roundCurrency(tax),
		Total:     roundCurrency(subtotal + tax),
	}, nil
}

// roundCurrency rounds half-up to 2 decimal places.
func roundCurrency(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

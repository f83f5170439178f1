package payments

import (
	"errors"
	"fmt"
	"math"

	"deluxetours/internal/shared/config"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
	"github.com/stripe/stripe-go/v76/webhook"
)

var (
	ErrStripeRequest       = errors.New("stripe request failed")
	ErrInvalidSignature    = errors.New("invalid webhook signature")
	ErrStripeNotConfigured = errors.New("stripe credentials not configured")
)

// StripeClient wraps the Stripe SDK for payment intents, checkout
// sessions, webhooks, and refunds.
type StripeClient struct {
	config config.StripeConfig
}

func NewStripeClient(cfg config.StripeConfig) *StripeClient {
	stripe.Key = cfg.SecretKey
	return &StripeClient{config: cfg}
}

// minorUnits converts a decimal amount to Stripe's integer minor units.
func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CreatePaymentIntent opens a payment intent for the booking total and
// returns the client secret the frontend confirms with.
func (s *StripeClient) CreatePaymentIntent(amount float64, bookingID, reference string) (*stripe.PaymentIntent, error) {
	if s.config.SecretKey == "" {
		return nil, ErrStripeNotConfigured
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(minorUnits(amount)),
		Currency: stripe.String(s.config.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("bookingId", bookingID)
	params.AddMetadata("bookingReference", reference)

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStripeRequest, err)
	}
	return intent, nil
}

// CreateCheckoutSession opens a hosted checkout page for the booking.
// Success and cancel URLs default to the frontend booking pages.
func (s *StripeClient) CreateCheckoutSession(amount float64, bookingID, reference, description, successURL, cancelURL string) (*stripe.CheckoutSession, error) {
	if s.config.SecretKey == "" {
		return nil, ErrStripeNotConfigured
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(s.config.Currency),
					UnitAmount: stripe.Int64(minorUnits(amount)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String("Tour booking " + reference),
						Description: stripe.String(description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}
	params.AddMetadata("bookingId", bookingID)
	params.AddMetadata("bookingReference", reference)

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStripeRequest, err)
	}
	return sess, nil
}

// GetPaymentIntent retrieves a payment intent by ID.
func (s *StripeClient) GetPaymentIntent(id string) (*stripe.PaymentIntent, error) {
	intent, err := paymentintent.Get(id, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStripeRequest, err)
	}
	return intent, nil
}

// Refund refunds a payment intent. A zero amount refunds in full.
func (s *StripeClient) Refund(paymentIntentID string, amount float64, reason string) (*stripe.Refund, error) {
	ref, err := refund.New(refundParams(paymentIntentID, amount, reason))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStripeRequest, err)
	}
	return ref, nil
}

// refundParams builds the refund request. Reason, when set, must be one
// of Stripe's accepted refund reasons.
func refundParams(paymentIntentID string, amount float64, reason string) *stripe.RefundParams {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentIntentID),
	}
	if amount > 0 {
		params.Amount = stripe.Int64(minorUnits(amount))
	}
	if reason != "" {
		params.Reason = stripe.String(reason)
	}
	return params
}

// VerifyWebhook validates the webhook signature and parses the event.
// Verification is mandatory; an unsigned or tampered payload is rejected.
func (s *StripeClient) VerifyWebhook(payload []byte, signature string) (stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.config.WebhookSecret)
	if err != nil {
		return stripe.Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return event, nil
}

// PublishableKey exposes the key the frontend needs to mount Stripe.js.
func (s *StripeClient) PublishableKey() string {
	return s.config.PublishableKey
}

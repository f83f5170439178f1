package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"deluxetours/internal/bookings"
	"deluxetours/internal/shared/config"
	"deluxetours/pkg/logger"

	"github.com/stripe/stripe-go/v76"
)

var (
	ErrAlreadyPaid       = errors.New("booking is already paid")
	ErrBookingCancelled  = errors.New("booking is cancelled")
	ErrNoTransaction     = errors.New("booking has no payment transaction")
	ErrInvalidTransition = errors.New("invalid payment transition")
)

// BookingStore is the slice of the bookings repository the payment flow
// needs; declared locally to keep the dependency one-directional.
type BookingStore interface {
	GetByID(ctx context.Context, id string) (*bookings.Booking, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*bookings.Booking, error)
	UpdatePayment(ctx context.Context, id string, payment bookings.PaymentInfo) error
	UpdateStatus(ctx context.Context, id string, status bookings.Status) error
}

// Notifier publishes booking lifecycle notifications. Delivery failures
// must never fail the payment flow.
type Notifier interface {
	BookingConfirmed(ctx context.Context, booking *bookings.Booking)
	PaymentReceived(ctx context.Context, booking *bookings.Booking)
}

type Service interface {
	InitiateMpesa(ctx context.Context, req *InitiateMpesaRequest) (*MpesaInitiateResponse, error)
	HandleMpesaCallback(ctx context.Context, envelope *CallbackEnvelope) error
	QueryMpesa(ctx context.Context, req *QueryMpesaRequest) (*QueryResponse, error)

	CreatePaymentIntent(ctx context.Context, req *CreateIntentRequest) (*IntentResponse, error)
	CreateCheckoutSession(ctx context.Context, req *CreateSessionRequest) (*SessionResponse, error)
	HandleStripeWebhook(ctx context.Context, payload []byte, signature string) error
	RefundStripe(ctx context.Context, req *RefundRequest) (*PaymentStatusResponse, error)

	GetPaymentStatus(ctx context.Context, bookingID string) (*PaymentStatusResponse, error)
	Config() *ConfigResponse
}

type service struct {
	store    BookingStore
	mpesa    *MpesaClient
	stripe   *StripeClient
	notifier Notifier
	config   *config.Config
	log      *logger.Logger
}

func NewService(store BookingStore, mpesaClient *MpesaClient, stripeClient *StripeClient, notifier Notifier, cfg *config.Config, log *logger.Logger) Service {
	return &service{
		store:    store,
		mpesa:    mpesaClient,
		stripe:   stripeClient,
		notifier: notifier,
		config:   cfg,
		log:      log,
	}
}

// payableBooking loads the booking and rejects states that cannot accept
// a new payment attempt.
func (s *service) payableBooking(ctx context.Context, bookingID string) (*bookings.Booking, error) {
	booking, err := s.store.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Payment.Status.IsTerminal() {
		return nil, ErrAlreadyPaid
	}
	if booking.Cancellation.IsCancelled {
		return nil, ErrBookingCancelled
	}
	return booking, nil
}

func (s *service) InitiateMpesa(ctx context.Context, req *InitiateMpesaRequest) (*MpesaInitiateResponse, error) {
	booking, err := s.payableBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	stkResp, err := s.mpesa.STKPush(ctx, req.Phone, booking.TotalPrice, booking.Reference,
		fmt.Sprintf("Tour booking %s", booking.Reference))
	if err != nil {
		return nil, err
	}

	payment := booking.Payment
	payment.Method = "mpesa"
	payment.Status = bookings.PaymentProcessing
	payment.TransactionID = stkResp.CheckoutRequestID
	payment.FailureReason = ""
	if err := s.store.UpdatePayment(ctx, booking.ID.String(), payment); err != nil {
		return nil, err
	}

	s.log.LogPaymentInitiated(ctx, booking.ID.String(), "mpesa", stkResp.CheckoutRequestID)

	return &MpesaInitiateResponse{
		BookingReference:  booking.Reference,
		CheckoutRequestID: stkResp.CheckoutRequestID,
		MerchantRequestID: stkResp.MerchantRequestID,
		CustomerMessage:   stkResp.CustomerMessage,
	}, nil
}

func (s *service) HandleMpesaCallback(ctx context.Context, envelope *CallbackEnvelope) error {
	result := envelope.Flatten()
	if result.CheckoutRequestID == "" {
		return errors.New("callback missing CheckoutRequestID")
	}

	booking, err := s.store.GetByTransactionID(ctx, result.CheckoutRequestID)
	if err != nil {
		return err
	}

	if result.Success {
		return s.completePayment(ctx, booking, result.ReceiptNumber)
	}
	return s.failPayment(ctx, booking, result.ResultDesc)
}

func (s *service) QueryMpesa(ctx context.Context, req *QueryMpesaRequest) (*QueryResponse, error) {
	return s.mpesa.QueryTransaction(ctx, req.CheckoutRequestID)
}

func (s *service) CreatePaymentIntent(ctx context.Context, req *CreateIntentRequest) (*IntentResponse, error) {
	booking, err := s.payableBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	intent, err := s.stripe.CreatePaymentIntent(booking.TotalPrice, booking.ID.String(), booking.Reference)
	if err != nil {
		return nil, err
	}

	payment := booking.Payment
	payment.Method = "stripe"
	payment.Status = bookings.PaymentProcessing
	payment.TransactionID = intent.ID
	payment.FailureReason = ""
	if err := s.store.UpdatePayment(ctx, booking.ID.String(), payment); err != nil {
		return nil, err
	}

	s.log.LogPaymentInitiated(ctx, booking.ID.String(), "stripe", intent.ID)

	return &IntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		PublishableKey:  s.stripe.PublishableKey(),
	}, nil
}

func (s *service) CreateCheckoutSession(ctx context.Context, req *CreateSessionRequest) (*SessionResponse, error) {
	booking, err := s.payableBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	successURL := req.SuccessURL
	if successURL == "" {
		successURL = s.config.FrontendURL + "/booking/success?reference=" + booking.Reference
	}
	cancelURL := req.CancelURL
	if cancelURL == "" {
		cancelURL = s.config.FrontendURL + "/booking/cancelled?reference=" + booking.Reference
	}

	sess, err := s.stripe.CreateCheckoutSession(booking.TotalPrice, booking.ID.String(), booking.Reference,
		fmt.Sprintf("Tour booking %s", booking.Reference), successURL, cancelURL)
	if err != nil {
		return nil, err
	}

	payment := booking.Payment
	payment.Method = "stripe"
	payment.Status = bookings.PaymentProcessing
	payment.TransactionID = sess.ID
	payment.FailureReason = ""
	if err := s.store.UpdatePayment(ctx, booking.ID.String(), payment); err != nil {
		return nil, err
	}

	s.log.LogPaymentInitiated(ctx, booking.ID.String(), "stripe", sess.ID)

	return &SessionResponse{
		SessionID: sess.ID,
		URL:       sess.URL,
	}, nil
}

func (s *service) HandleStripeWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.stripe.VerifyWebhook(payload, signature)
	if err != nil {
		return err
	}
	return s.applyStripeEvent(ctx, event)
}

// applyStripeEvent dispatches a verified Stripe event to the matching
// payment transition.
func (s *service) applyStripeEvent(ctx context.Context, event stripe.Event) error {
	switch event.Type {
	case "payment_intent.succeeded":
		intent, err := parseIntent(event)
		if err != nil {
			return err
		}
		return s.applyByTransaction(ctx, intent.ID, intent.Metadata, func(b *bookings.Booking) error {
			return s.completePayment(ctx, b, intent.ID)
		})

	case "payment_intent.payment_failed":
		intent, err := parseIntent(event)
		if err != nil {
			return err
		}
		reason := "payment failed"
		if intent.LastPaymentError != nil && intent.LastPaymentError.Msg != "" {
			reason = intent.LastPaymentError.Msg
		}
		return s.applyByTransaction(ctx, intent.ID, intent.Metadata, func(b *bookings.Booking) error {
			return s.failPayment(ctx, b, reason)
		})

	case "payment_intent.canceled":
		intent, err := parseIntent(event)
		if err != nil {
			return err
		}
		return s.applyByTransaction(ctx, intent.ID, intent.Metadata, func(b *bookings.Booking) error {
			return s.cancelPayment(ctx, b)
		})

	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return err
		}
		return s.applyByTransaction(ctx, sess.ID, sess.Metadata, func(b *bookings.Booking) error {
			// The session ID was stored at initiation; refunds go against
			// the underlying payment intent, so swap it in here.
			if sess.PaymentIntent != nil && sess.PaymentIntent.ID != "" {
				b.Payment.TransactionID = sess.PaymentIntent.ID
				return s.completePayment(ctx, b, sess.PaymentIntent.ID)
			}
			return s.completePayment(ctx, b, sess.ID)
		})

	default:
		// Unrecognized event types are acked and ignored.
		return nil
	}
}

func parseIntent(event stripe.Event) (*stripe.PaymentIntent, error) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// applyByTransaction resolves the booking by transaction ID, falling back
// to the bookingId metadata Stripe carries on every object we create.
func (s *service) applyByTransaction(ctx context.Context, transactionID string, metadata map[string]string, apply func(*bookings.Booking) error) error {
	booking, err := s.store.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, bookings.ErrBookingNotFound) {
			return err
		}
		bookingID := metadata["bookingId"]
		if bookingID == "" {
			return err
		}
		booking, err = s.store.GetByID(ctx, bookingID)
		if err != nil {
			return err
		}
	}
	return apply(booking)
}

func (s *service) RefundStripe(ctx context.Context, req *RefundRequest) (*PaymentStatusResponse, error) {
	booking, err := s.store.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.Payment.Status != bookings.PaymentCompleted {
		return nil, ErrInvalidTransition
	}
	if booking.Payment.TransactionID == "" {
		return nil, ErrNoTransaction
	}

	if _, err := s.stripe.Refund(booking.Payment.TransactionID, req.Amount, req.Reason); err != nil {
		return nil, err
	}

	payment := booking.Payment
	payment.Status = bookings.PaymentRefunded
	if err := s.store.UpdatePayment(ctx, booking.ID.String(), payment); err != nil {
		return nil, err
	}
	booking.Payment = payment

	s.log.LogPaymentResult(ctx, payment.TransactionID, "stripe", "refunded")

	return paymentStatus(booking), nil
}

func (s *service) GetPaymentStatus(ctx context.Context, bookingID string) (*PaymentStatusResponse, error) {
	booking, err := s.store.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return paymentStatus(booking), nil
}

func (s *service) Config() *ConfigResponse {
	return &ConfigResponse{
		StripePublishableKey: s.config.Stripe.PublishableKey,
		Currency:             s.config.Stripe.Currency,
		MpesaShortcode:       s.config.Mpesa.Shortcode,
		MpesaEnvironment:     s.config.Mpesa.Environment,
	}
}

// completePayment marks the payment completed and cascades the booking to
// confirmed. A repeated completion event is a no-op.
func (s *service) completePayment(ctx context.Context, booking *bookings.Booking, receipt string) error {
	if booking.Payment.Status == bookings.PaymentCompleted {
		return nil
	}
	if !booking.Payment.Status.CanTransitionTo(bookings.PaymentCompleted) {
		return fmt.Errorf("%w: %s -> completed", ErrInvalidTransition, booking.Payment.Status)
	}

	now := time.Now()
	payment := booking.Payment
	payment.Status = bookings.PaymentCompleted
	payment.ReceiptNumber = receipt
	payment.PaidAt = &now
	payment.FailureReason = ""
	if err := s.store.UpdatePayment(ctx, booking.ID.String(), payment); err != nil {
		return err
	}
	booking.Payment = payment

	if booking.Status == bookings.StatusPending {
		if err := s.store.UpdateStatus(ctx, booking.ID.String(), bookings.StatusConfirmed); err != nil {
			return err
		}
		booking.Status = bookings.StatusConfirmed
	}

	s.log.LogPaymentResult(ctx, payment.TransactionID, payment.Method, "completed")

	if s.notifier != nil {
		s.notifier.PaymentReceived(ctx, booking)
		s.notifier.BookingConfirmed(ctx, booking)
	}
	return nil
}

func (s *service) failPayment(ctx context.Context, booking *bookings.Booking, reason string) error {
	if booking.Payment.Status == bookings.PaymentFailed {
		return nil
	}
	if !booking.Payment.Status.CanTransitionTo(bookings.PaymentFailed) {
		return fmt.Errorf("%w: %s -> failed", ErrInvalidTransition, booking.Payment.Status)
	}

	payment := booking.Payment
	payment.Status = bookings.PaymentFailed
	payment.FailureReason = reason
	if err := s.store.UpdatePayment(ctx, booking.ID.String(), payment); err != nil {
		return err
	}
	booking.Payment = payment

	s.log.LogPaymentResult(ctx, payment.TransactionID, payment.Method, "failed")
	return nil
}

func (s *service) cancelPayment(ctx context.Context, booking *bookings.Booking) error {
	if booking.Payment.Status == bookings.PaymentCanceled {
		return nil
	}
	if !booking.Payment.Status.CanTransitionTo(bookings.PaymentCanceled) {
		return fmt.Errorf("%w: %s -> canceled", ErrInvalidTransition, booking.Payment.Status)
	}

	payment := booking.Payment
	payment.Status = bookings.PaymentCanceled
	if err := s.store.UpdatePayment(ctx, booking.ID.String(), payment); err != nil {
		return err
	}
	booking.Payment = payment

	s.log.LogPaymentResult(ctx, payment.TransactionID, payment.Method, "canceled")
	return nil
}

func paymentStatus(booking *bookings.Booking) *PaymentStatusResponse {
	resp := &PaymentStatusResponse{
		BookingID:     booking.ID.String(),
		Reference:     booking.Reference,
		Method:        booking.Payment.Method,
		Status:        string(booking.Payment.Status),
		TransactionID: booking.Payment.TransactionID,
		ReceiptNumber: booking.Payment.ReceiptNumber,
		FailureReason: booking.Payment.FailureReason,
	}
	if booking.Payment.PaidAt != nil {
		resp.PaidAt = booking.Payment.PaidAt.Format(time.RFC3339)
	}
	return resp
}

package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"deluxetours/internal/bookings"
	"deluxetours/internal/shared/config"
	"deluxetours/pkg/logger"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
)

type fakeStore struct {
	byID map[string]*bookings.Booking

	statusUpdates  int
	paymentUpdates int
}

func newFakeStore(bs ...*bookings.Booking) *fakeStore {
	store := &fakeStore{byID: make(map[string]*bookings.Booking)}
	for _, b := range bs {
		store.byID[b.ID.String()] = b
	}
	return store
}

func (s *fakeStore) GetByID(ctx context.Context, id string) (*bookings.Booking, error) {
	b, ok := s.byID[id]
	if !ok {
		return nil, bookings.ErrBookingNotFound
	}
	clone := *b
	return &clone, nil
}

func (s *fakeStore) GetByTransactionID(ctx context.Context, transactionID string) (*bookings.Booking, error) {
	for _, b := range s.byID {
		if b.Payment.TransactionID == transactionID {
			clone := *b
			return &clone, nil
		}
	}
	return nil, bookings.ErrBookingNotFound
}

func (s *fakeStore) UpdatePayment(ctx context.Context, id string, payment bookings.PaymentInfo) error {
	b, ok := s.byID[id]
	if !ok {
		return bookings.ErrBookingNotFound
	}
	s.paymentUpdates++
	b.Payment = payment
	return nil
}

func (s *fakeStore) UpdateStatus(ctx context.Context, id string, status bookings.Status) error {
	b, ok := s.byID[id]
	if !ok {
		return bookings.ErrBookingNotFound
	}
	s.statusUpdates++
	b.Status = status
	return nil
}

type fakeNotifier struct {
	confirmed int
	received  int
}

func (n *fakeNotifier) BookingConfirmed(ctx context.Context, booking *bookings.Booking) {
	n.confirmed++
}

func (n *fakeNotifier) PaymentReceived(ctx context.Context, booking *bookings.Booking) {
	n.received++
}

func testBooking(paymentStatus bookings.PaymentStatus) *bookings.Booking {
	return &bookings.Booking{
		ID:         uuid.New(),
		Reference:  "DLX-TEST-ABCDE",
		UserID:     uuid.New(),
		Status:     bookings.StatusPending,
		TotalPrice: 5637.6,
		Payment: bookings.PaymentInfo{
			Method:        "mpesa",
			Status:        paymentStatus,
			TransactionID: "ws_CO_test",
		},
	}
}

func newPaymentService(store *fakeStore, notifier *fakeNotifier) *service {
	cfg := &config.Config{}
	cfg.Stripe.Currency = "kes"
	return &service{
		store:    store,
		notifier: notifier,
		config:   cfg,
		log:      logger.New(),
	}
}

func successCallback(t *testing.T, checkoutID, receipt string) *CallbackEnvelope {
	t.Helper()
	payload := fmt.Sprintf(`{
		"Body": {
			"stkCallback": {
				"CheckoutRequestID": %q,
				"ResultCode": 0,
				"ResultDesc": "The service request is processed successfully.",
				"CallbackMetadata": {
					"Item": [
						{"Name": "Amount", "Value": 5637.6},
						{"Name": "MpesaReceiptNumber", "Value": %q}
					]
				}
			}
		}
	}`, checkoutID, receipt)

	var envelope CallbackEnvelope
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		t.Fatalf("unmarshal callback: %v", err)
	}
	return &envelope
}

func failureCallback(t *testing.T, checkoutID string) *CallbackEnvelope {
	t.Helper()
	payload := fmt.Sprintf(`{
		"Body": {
			"stkCallback": {
				"CheckoutRequestID": %q,
				"ResultCode": 1032,
				"ResultDesc": "Request cancelled by user."
			}
		}
	}`, checkoutID)

	var envelope CallbackEnvelope
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		t.Fatalf("unmarshal callback: %v", err)
	}
	return &envelope
}

func TestMpesaCallbackCompletesPayment(t *testing.T) {
	booking := testBooking(bookings.PaymentProcessing)
	store := newFakeStore(booking)
	notifier := &fakeNotifier{}
	svc := newPaymentService(store, notifier)

	if err := svc.HandleMpesaCallback(context.Background(), successCallback(t, "ws_CO_test", "NLJ7RT61SV")); err != nil {
		t.Fatalf("HandleMpesaCallback() error = %v", err)
	}

	stored := store.byID[booking.ID.String()]
	if stored.Payment.Status != bookings.PaymentCompleted {
		t.Errorf("Payment.Status = %s, want completed", stored.Payment.Status)
	}
	if stored.Payment.ReceiptNumber != "NLJ7RT61SV" {
		t.Errorf("ReceiptNumber = %q, want NLJ7RT61SV", stored.Payment.ReceiptNumber)
	}
	if stored.Payment.PaidAt == nil {
		t.Error("PaidAt not stamped")
	}
	if stored.Status != bookings.StatusConfirmed {
		t.Errorf("booking Status = %s, want confirmed", stored.Status)
	}
	if notifier.received != 1 || notifier.confirmed != 1 {
		t.Errorf("notifier calls = (%d received, %d confirmed), want 1 each", notifier.received, notifier.confirmed)
	}
}

func TestMpesaCallbackIdempotent(t *testing.T) {
	booking := testBooking(bookings.PaymentProcessing)
	store := newFakeStore(booking)
	notifier := &fakeNotifier{}
	svc := newPaymentService(store, notifier)

	cb := successCallback(t, "ws_CO_test", "NLJ7RT61SV")
	if err := svc.HandleMpesaCallback(context.Background(), cb); err != nil {
		t.Fatalf("first callback error = %v", err)
	}
	if err := svc.HandleMpesaCallback(context.Background(), cb); err != nil {
		t.Fatalf("repeated callback error = %v", err)
	}

	if store.paymentUpdates != 1 {
		t.Errorf("paymentUpdates = %d, want 1 (repeat is a no-op)", store.paymentUpdates)
	}
	if notifier.received != 1 {
		t.Errorf("notifier.received = %d, want 1", notifier.received)
	}
}

func TestMpesaCallbackFailsPayment(t *testing.T) {
	booking := testBooking(bookings.PaymentProcessing)
	store := newFakeStore(booking)
	svc := newPaymentService(store, &fakeNotifier{})

	if err := svc.HandleMpesaCallback(context.Background(), failureCallback(t, "ws_CO_test")); err != nil {
		t.Fatalf("HandleMpesaCallback() error = %v", err)
	}

	stored := store.byID[booking.ID.String()]
	if stored.Payment.Status != bookings.PaymentFailed {
		t.Errorf("Payment.Status = %s, want failed", stored.Payment.Status)
	}
	if stored.Payment.FailureReason != "Request cancelled by user." {
		t.Errorf("FailureReason = %q", stored.Payment.FailureReason)
	}
	if stored.Status != bookings.StatusPending {
		t.Errorf("booking Status = %s, want still pending", stored.Status)
	}
}

func TestMpesaCallbackUnknownTransaction(t *testing.T) {
	store := newFakeStore()
	svc := newPaymentService(store, &fakeNotifier{})

	err := svc.HandleMpesaCallback(context.Background(), successCallback(t, "ws_CO_unknown", "X"))
	if !errors.Is(err, bookings.ErrBookingNotFound) {
		t.Errorf("HandleMpesaCallback() error = %v, want ErrBookingNotFound", err)
	}
}

func TestInitiateMpesaIncludesReference(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/v1/generate":
			json.NewEncoder(w).Encode(map[string]string{"access_token": "test-token"})
		case "/mpesa/stkpush/v1/processrequest":
			json.NewEncoder(w).Encode(STKPushResponse{
				MerchantRequestID: "29115-34620561-1",
				CheckoutRequestID: "ws_CO_new",
				ResponseCode:      "0",
				CustomerMessage:   "Success. Request accepted for processing",
			})
		default:
			t.Errorf("unexpected request to %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	booking := testBooking(bookings.PaymentPending)
	store := newFakeStore(booking)
	svc := newPaymentService(store, &fakeNotifier{})
	svc.mpesa = NewMpesaClient(config.MpesaConfig{
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		Shortcode:      "174379",
		Passkey:        "passkey",
		BaseURL:        srv.URL,
		CallbackURL:    "https://example.com/api/v1/mpesa/callback",
		RequestTimeout: 5 * time.Second,
	})

	resp, err := svc.InitiateMpesa(context.Background(), &InitiateMpesaRequest{
		BookingID: booking.ID.String(),
		Phone:     "0712345678",
	})
	if err != nil {
		t.Fatalf("InitiateMpesa() error = %v", err)
	}
	if resp.BookingReference != booking.Reference {
		t.Errorf("BookingReference = %q, want %q", resp.BookingReference, booking.Reference)
	}
	if resp.CheckoutRequestID != "ws_CO_new" {
		t.Errorf("CheckoutRequestID = %q, want ws_CO_new", resp.CheckoutRequestID)
	}

	stored := store.byID[booking.ID.String()]
	if stored.Payment.Status != bookings.PaymentProcessing {
		t.Errorf("Payment.Status = %s, want processing", stored.Payment.Status)
	}
	if stored.Payment.TransactionID != "ws_CO_new" {
		t.Errorf("TransactionID = %q, want ws_CO_new", stored.Payment.TransactionID)
	}
}

func checkoutCompletedEvent(t *testing.T, sessionID, intentID, bookingID string) stripe.Event {
	t.Helper()
	raw := fmt.Sprintf(`{
		"id": %q,
		"object": "checkout.session",
		"payment_intent": %q,
		"metadata": {"bookingId": %q}
	}`, sessionID, intentID, bookingID)
	return stripe.Event{
		Type: "checkout.session.completed",
		Data: &stripe.EventData{Raw: json.RawMessage(raw)},
	}
}

func TestCheckoutCompletedStoresPaymentIntent(t *testing.T) {
	booking := testBooking(bookings.PaymentProcessing)
	booking.Payment.Method = "stripe"
	booking.Payment.TransactionID = "cs_test_123"
	store := newFakeStore(booking)
	notifier := &fakeNotifier{}
	svc := newPaymentService(store, notifier)

	event := checkoutCompletedEvent(t, "cs_test_123", "pi_test_456", booking.ID.String())
	if err := svc.applyStripeEvent(context.Background(), event); err != nil {
		t.Fatalf("applyStripeEvent() error = %v", err)
	}

	stored := store.byID[booking.ID.String()]
	if stored.Payment.TransactionID != "pi_test_456" {
		t.Errorf("TransactionID = %q, want the payment intent pi_test_456", stored.Payment.TransactionID)
	}
	if stored.Payment.Status != bookings.PaymentCompleted {
		t.Errorf("Payment.Status = %s, want completed", stored.Payment.Status)
	}
	if stored.Status != bookings.StatusConfirmed {
		t.Errorf("booking Status = %s, want confirmed", stored.Status)
	}
	if notifier.received != 1 || notifier.confirmed != 1 {
		t.Errorf("notifier calls = (%d received, %d confirmed), want 1 each", notifier.received, notifier.confirmed)
	}

	// A redelivered event resolves through the bookingId metadata
	// fallback (the session ID no longer matches) and is a no-op.
	if err := svc.applyStripeEvent(context.Background(), checkoutCompletedEvent(t, "cs_test_123", "pi_test_456", booking.ID.String())); err != nil {
		t.Fatalf("redelivered event error = %v", err)
	}
	if store.paymentUpdates != 1 {
		t.Errorf("paymentUpdates = %d, want 1", store.paymentUpdates)
	}
}

func TestPayableBookingRejectsTerminal(t *testing.T) {
	paid := testBooking(bookings.PaymentCompleted)
	cancelled := testBooking(bookings.PaymentPending)
	cancelled.Cancellation.IsCancelled = true
	store := newFakeStore(paid, cancelled)
	svc := newPaymentService(store, &fakeNotifier{})

	if _, err := svc.payableBooking(context.Background(), paid.ID.String()); !errors.Is(err, ErrAlreadyPaid) {
		t.Errorf("paid booking: error = %v, want ErrAlreadyPaid", err)
	}
	if _, err := svc.payableBooking(context.Background(), cancelled.ID.String()); !errors.Is(err, ErrBookingCancelled) {
		t.Errorf("cancelled booking: error = %v, want ErrBookingCancelled", err)
	}
	if store.paymentUpdates != 0 {
		t.Errorf("paymentUpdates = %d, want 0", store.paymentUpdates)
	}
}

func TestPayableBookingAllowsReinitiation(t *testing.T) {
	failed := testBooking(bookings.PaymentFailed)
	store := newFakeStore(failed)
	svc := newPaymentService(store, &fakeNotifier{})

	if _, err := svc.payableBooking(context.Background(), failed.ID.String()); err != nil {
		t.Errorf("failed booking should be payable again, got error = %v", err)
	}
}

func TestCompletePaymentInvalidTransition(t *testing.T) {
	booking := testBooking(bookings.PaymentPending)
	store := newFakeStore(booking)
	svc := newPaymentService(store, &fakeNotifier{})

	err := svc.completePayment(context.Background(), booking, "RCPT")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("completePayment from pending: error = %v, want ErrInvalidTransition", err)
	}
}

func TestCancelPayment(t *testing.T) {
	booking := testBooking(bookings.PaymentProcessing)
	store := newFakeStore(booking)
	svc := newPaymentService(store, &fakeNotifier{})

	if err := svc.cancelPayment(context.Background(), booking); err != nil {
		t.Fatalf("cancelPayment() error = %v", err)
	}
	if store.byID[booking.ID.String()].Payment.Status != bookings.PaymentCanceled {
		t.Errorf("Payment.Status = %s, want canceled", store.byID[booking.ID.String()].Payment.Status)
	}

	// Repeat is a no-op.
	if err := svc.cancelPayment(context.Background(), booking); err != nil {
		t.Errorf("repeated cancelPayment() error = %v", err)
	}
}

func TestRefundRequiresCompletedPayment(t *testing.T) {
	booking := testBooking(bookings.PaymentProcessing)
	store := newFakeStore(booking)
	svc := newPaymentService(store, &fakeNotifier{})

	_, err := svc.RefundStripe(context.Background(), &RefundRequest{BookingID: booking.ID.String()})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("RefundStripe() error = %v, want ErrInvalidTransition", err)
	}
}

func TestGetPaymentStatus(t *testing.T) {
	booking := testBooking(bookings.PaymentProcessing)
	store := newFakeStore(booking)
	svc := newPaymentService(store, &fakeNotifier{})

	resp, err := svc.GetPaymentStatus(context.Background(), booking.ID.String())
	if err != nil {
		t.Fatalf("GetPaymentStatus() error = %v", err)
	}
	if resp.Reference != booking.Reference {
		t.Errorf("Reference = %q, want %q", resp.Reference, booking.Reference)
	}
	if resp.Status != string(bookings.PaymentProcessing) {
		t.Errorf("Status = %q, want processing", resp.Status)
	}
	if resp.PaidAt != "" {
		t.Errorf("PaidAt = %q, want empty before payment", resp.PaidAt)
	}
}

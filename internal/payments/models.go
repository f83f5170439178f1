package payments

// InitiateMpesaRequest starts an STK Push for a booking
type InitiateMpesaRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid"`
	Phone     string `json:"phone" validate:"required,min=9,max=15"`
}

// MpesaInitiateResponse reports the outcome of an STK Push initiation
type MpesaInitiateResponse struct {
	BookingReference  string `json:"booking_reference"`
	CheckoutRequestID string `json:"checkout_request_id"`
	MerchantRequestID string `json:"merchant_request_id"`
	CustomerMessage   string `json:"customer_message"`
}

// QueryMpesaRequest checks the status of an initiated STK Push
type QueryMpesaRequest struct {
	CheckoutRequestID string `json:"checkout_request_id" validate:"required"`
}

// CreateIntentRequest opens a Stripe payment intent for a booking
type CreateIntentRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid"`
}

// IntentResponse carries what the frontend needs to confirm the intent
type IntentResponse struct {
	ClientSecret    string `json:"client_secret"`
	PaymentIntentID string `json:"payment_intent_id"`
	PublishableKey  string `json:"publishable_key"`
}

// CreateSessionRequest opens a hosted Stripe checkout session
type CreateSessionRequest struct {
	BookingID  string `json:"booking_id" validate:"required,uuid"`
	SuccessURL string `json:"success_url,omitempty" validate:"omitempty,url"`
	CancelURL  string `json:"cancel_url,omitempty" validate:"omitempty,url"`
}

// SessionResponse carries the hosted checkout redirect URL
type SessionResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// RefundRequest refunds a Stripe payment. Amount omitted means full refund.
type RefundRequest struct {
	BookingID string  `json:"booking_id" validate:"required,uuid"`
	Amount    float64 `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Reason    string  `json:"reason,omitempty" validate:"omitempty,oneof=duplicate fraudulent requested_by_customer"`
}

// PaymentStatusResponse reports a booking's payment state
type PaymentStatusResponse struct {
	BookingID     string `json:"booking_id"`
	Reference     string `json:"booking_reference"`
	Method        string `json:"method,omitempty"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id,omitempty"`
	ReceiptNumber string `json:"receipt_number,omitempty"`
	PaidAt        string `json:"paid_at,omitempty"`
	FailureReason string `json:"failure_reason,omitempty"`
}

// ConfigResponse is the public payment configuration
type ConfigResponse struct {
	StripePublishableKey string `json:"stripe_publishable_key"`
	Currency             string `json:"currency"`
	MpesaShortcode       string `json:"mpesa_shortcode"`
	MpesaEnvironment     string `json:"mpesa_environment"`
}

package payments

import (
	"errors"
	"io"
	"net/http"

	"deluxetours/internal/bookings"
	"deluxetours/internal/shared/utils/response"
	"deluxetours/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	service   Service
	validator *validator.Validate
	log       *logger.Logger
}

func NewController(service Service, log *logger.Logger) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
		log:       log,
	}
}

func (c *Controller) failFromError(ctx *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, bookings.ErrBookingNotFound):
		response.Fail(ctx, http.StatusNotFound, "Booking not found", nil)
	case errors.Is(err, ErrAlreadyPaid):
		response.Fail(ctx, http.StatusConflict, "Booking is already paid", nil)
	case errors.Is(err, ErrBookingCancelled):
		response.Fail(ctx, http.StatusConflict, "Booking is cancelled", nil)
	case errors.Is(err, ErrInvalidPhone):
		response.Fail(ctx, http.StatusBadRequest, "Invalid phone number", err.Error())
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrNoTransaction):
		response.Fail(ctx, http.StatusBadRequest, "Payment is not in a refundable state", nil)
	case errors.Is(err, ErrMpesaAuth), errors.Is(err, ErrMpesaRequest),
		errors.Is(err, ErrStripeRequest):
		response.Fail(ctx, http.StatusBadGateway, "Payment provider request failed", nil)
	case errors.Is(err, ErrMpesaNotConfigured), errors.Is(err, ErrStripeNotConfigured):
		response.Fail(ctx, http.StatusServiceUnavailable, "Payment provider not configured", nil)
	default:
		response.Fail(ctx, http.StatusInternalServerError, action, nil)
	}
}

func (c *Controller) InitiateMpesa(ctx *gin.Context) {
	var req InitiateMpesaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	resp, err := c.service.InitiateMpesa(ctx.Request.Context(), &req)
	if err != nil {
		c.failFromError(ctx, err, "Failed to initiate M-Pesa payment")
		return
	}

	response.OK(ctx, http.StatusOK, "STK push sent, check your phone", resp)
}

// MpesaCallback receives Daraja's asynchronous result. Daraja retries on
// non-zero acknowledgments, so internal failures are logged and the
// callback is always acked.
func (c *Controller) MpesaCallback(ctx *gin.Context) {
	ack := gin.H{"ResultCode": 0, "ResultDesc": "Accepted"}

	var envelope CallbackEnvelope
	if err := ctx.ShouldBindJSON(&envelope); err != nil {
		c.log.ErrorWithContext(ctx.Request.Context(), "mpesa callback: malformed payload", err, nil)
		ctx.JSON(http.StatusOK, ack)
		return
	}

	if err := c.service.HandleMpesaCallback(ctx.Request.Context(), &envelope); err != nil {
		c.log.ErrorWithContext(ctx.Request.Context(), "mpesa callback: processing failed", err, map[string]interface{}{
			"checkout_request_id": envelope.Body.StkCallback.CheckoutRequestID,
		})
	}

	ctx.JSON(http.StatusOK, ack)
}

func (c *Controller) QueryMpesa(ctx *gin.Context) {
	var req QueryMpesaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	resp, err := c.service.QueryMpesa(ctx.Request.Context(), &req)
	if err != nil {
		c.failFromError(ctx, err, "Failed to query M-Pesa transaction")
		return
	}

	response.OK(ctx, http.StatusOK, "Transaction status retrieved", resp)
}

func (c *Controller) CreatePaymentIntent(ctx *gin.Context) {
	var req CreateIntentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	resp, err := c.service.CreatePaymentIntent(ctx.Request.Context(), &req)
	if err != nil {
		c.failFromError(ctx, err, "Failed to create payment intent")
		return
	}

	response.OK(ctx, http.StatusOK, "Payment intent created", resp)
}

func (c *Controller) CreateCheckoutSession(ctx *gin.Context) {
	var req CreateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	resp, err := c.service.CreateCheckoutSession(ctx.Request.Context(), &req)
	if err != nil {
		c.failFromError(ctx, err, "Failed to create checkout session")
		return
	}

	response.OK(ctx, http.StatusOK, "Checkout session created", resp)
}

// StripeWebhook verifies the signature against the raw body. A bad
// signature is rejected with 400 so Stripe retries.
func (c *Controller) StripeWebhook(ctx *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(ctx.Request.Body, 1<<20))
	if err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Failed to read request body", nil)
		return
	}

	signature := ctx.GetHeader("Stripe-Signature")
	if err := c.service.HandleStripeWebhook(ctx.Request.Context(), payload, signature); err != nil {
		if errors.Is(err, ErrInvalidSignature) {
			response.Fail(ctx, http.StatusBadRequest, "Invalid webhook signature", nil)
			return
		}
		// Processing failures after verification are logged and acked;
		// Stripe's retries cannot fix them.
		c.log.ErrorWithContext(ctx.Request.Context(), "stripe webhook: processing failed", err, nil)
	}

	ctx.JSON(http.StatusOK, gin.H{"received": true})
}

func (c *Controller) GetPaymentStatus(ctx *gin.Context) {
	bookingID := ctx.Param("id")

	resp, err := c.service.GetPaymentStatus(ctx.Request.Context(), bookingID)
	if err != nil {
		c.failFromError(ctx, err, "Failed to retrieve payment status")
		return
	}

	response.OK(ctx, http.StatusOK, "Payment status retrieved", resp)
}

func (c *Controller) RefundStripe(ctx *gin.Context) {
	var req RefundRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	resp, err := c.service.RefundStripe(ctx.Request.Context(), &req)
	if err != nil {
		c.failFromError(ctx, err, "Failed to refund payment")
		return
	}

	response.OK(ctx, http.StatusOK, "Refund processed successfully", resp)
}

func (c *Controller) GetConfig(ctx *gin.Context) {
	response.OK(ctx, http.StatusOK, "Payment configuration retrieved", c.service.Config())
}

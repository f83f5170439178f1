package payments

import (
	"deluxetours/internal/shared/config"
	"deluxetours/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles payment-related routes
type Router struct {
	controller *Controller
	config     *config.Config
}

// NewRouter creates a new payment router
func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
	}
}

// SetupRoutes registers all payment routes
func (pr *Router) SetupRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.GET("/config", pr.controller.GetConfig)

		// Provider callbacks authenticate through their own mechanisms:
		// Daraja is matched by CheckoutRequestID, Stripe by signature.
		payments.POST("/mpesa/callback", pr.controller.MpesaCallback)
		payments.POST("/stripe/webhook", pr.controller.StripeWebhook)

		payments.POST("/mpesa/initiate", middleware.OptionalAuth(pr.config), pr.controller.InitiateMpesa)
		payments.POST("/mpesa/query", middleware.OptionalAuth(pr.config), pr.controller.QueryMpesa)
		payments.POST("/stripe/create-payment-intent", middleware.OptionalAuth(pr.config), pr.controller.CreatePaymentIntent)
		payments.POST("/stripe/create-checkout-session", middleware.OptionalAuth(pr.config), pr.controller.CreateCheckoutSession)
		payments.GET("/stripe/status/:id", middleware.OptionalAuth(pr.config), pr.controller.GetPaymentStatus)

		admin := payments.Group("")
		admin.Use(middleware.JWTAuth(pr.config), middleware.RequireAdmin())
		{
			admin.POST("/stripe/refund", pr.controller.RefundStripe)
		}
	}
}

package bookings

import (
	"deluxetours/internal/shared/config"
	"deluxetours/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles booking-related routes
type Router struct {
	controller *Controller
	config     *config.Config
}

// NewRouter creates a new booking router
func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
	}
}

// SetupRoutes registers all booking routes
func (br *Router) SetupRoutes(rg *gin.RouterGroup) {
	bookings := rg.Group("/bookings")
	{
		// Guest checkout is allowed; OptionalAuth attaches the user when
		// a valid token is present.
		bookings.POST("", middleware.OptionalAuth(br.config), br.controller.CreateBooking)
		bookings.POST("/check-availability", br.controller.CheckAvailability)
		bookings.GET("/reference/:reference", br.controller.GetBookingByReference)

		authed := bookings.Group("")
		authed.Use(middleware.JWTAuth(br.config))
		{
			authed.GET("/:id", br.controller.GetBooking)
			authed.PUT("/:id/cancel", br.controller.CancelBooking)
		}
	}

	rg.GET("/users/bookings", middleware.JWTAuth(br.config), br.controller.ListUserBookings)

	admin := rg.Group("/admin/bookings")
	admin.Use(middleware.JWTAuth(br.config), middleware.RequireStaff())
	{
		admin.GET("", br.controller.ListBookings)
		admin.GET("/stats", br.controller.GetStats)
		admin.PATCH("/:id/status", br.controller.UpdateStatus)
		admin.PATCH("/:id/payment", br.controller.UpdatePayment)
		admin.POST("/:id/notes", br.controller.AddNote)
		admin.DELETE("/:id", br.controller.DeleteBooking)
	}
}

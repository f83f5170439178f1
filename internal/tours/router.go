package tours

import (
	"deluxetours/internal/shared/config"
	"deluxetours/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles tour-related routes
type Router struct {
	controller *Controller
	config     *config.Config
}

// NewRouter creates a new tour router
func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
	}
}

// SetupRoutes registers all tour routes
func (tr *Router) SetupRoutes(rg *gin.RouterGroup) {
	tours := rg.Group("/tours")
	{
		tours.GET("", tr.controller.ListTours)
		tours.GET("/featured", tr.controller.ListFeatured)
		tours.GET("/slug/:slug", tr.controller.GetTourBySlug)
		tours.GET("/:id", tr.controller.GetTour)
		tours.GET("/:id/availability", tr.controller.CheckAvailability)
	}

	admin := rg.Group("/admin/tours")
	admin.Use(middleware.JWTAuth(tr.config), middleware.RequireStaff())
	{
		admin.POST("", tr.controller.CreateTour)
		admin.PUT("/:id", tr.controller.UpdateTour)
		admin.DELETE("/:id", tr.controller.DeleteTour)
		admin.PUT("/:id/availability", tr.controller.SetAvailability)
	}
}

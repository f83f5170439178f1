package reviews

import (
	"deluxetours/internal/shared/config"
	"deluxetours/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles review-related routes
type Router struct {
	controller *Controller
	config     *config.Config
}

// NewRouter creates a new review router
func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
	}
}

// SetupRoutes registers all review routes
func (rr *Router) SetupRoutes(rg *gin.RouterGroup) {
	rg.GET("/tours/:id/reviews", rr.controller.ListForTour)
	rg.POST("/reviews", middleware.JWTAuth(rr.config), rr.controller.Submit)

	admin := rg.Group("/admin/reviews")
	admin.Use(middleware.JWTAuth(rr.config), middleware.RequireStaff())
	{
		admin.GET("", rr.controller.List)
		admin.PATCH("/:id/approve", rr.controller.Approve)
		admin.DELETE("/:id", rr.controller.Delete)
	}
}

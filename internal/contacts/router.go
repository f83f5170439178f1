package contacts

import (
	"deluxetours/internal/shared/config"
	"deluxetours/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles contact-related routes
type Router struct {
	controller *Controller
	config     *config.Config
}

// NewRouter creates a new contact router
func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
	}
}

// SetupRoutes registers all contact routes
func (cr *Router) SetupRoutes(rg *gin.RouterGroup) {
	rg.POST("/contact", cr.controller.Submit)

	admin := rg.Group("/admin/contacts")
	admin.Use(middleware.JWTAuth(cr.config), middleware.RequireStaff())
	{
		admin.GET("", cr.controller.List)
		admin.GET("/unread-count", cr.controller.UnreadCount)
		admin.GET("/:id", cr.controller.Get)
		admin.PATCH("/:id", cr.controller.Update)
		admin.POST("/:id/respond", cr.controller.Respond)
		admin.DELETE("/:id", cr.controller.Delete)
	}
}

package routes

import (
	"net/http"

	"deluxetours/internal/auth"
	"deluxetours/internal/bookings"
	"deluxetours/internal/contacts"
	"deluxetours/internal/notifications"
	"deluxetours/internal/payments"
	"deluxetours/internal/reviews"
	"deluxetours/internal/shared/config"
	"deluxetours/internal/shared/database"
	"deluxetours/internal/shared/utils/response"
	"deluxetours/internal/tours"
	"deluxetours/pkg/cache"
	"deluxetours/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Router wires every domain module into the gin engine
type Router struct {
	config        *config.Config
	db            *database.DB
	log           *logger.Logger
	notifications *notifications.Service
}

// NewRouter creates a new application router
func NewRouter(cfg *config.Config, db *database.DB, log *logger.Logger, notificationService *notifications.Service) *Router {
	return &Router{
		config:        cfg,
		db:            db,
		log:           log,
		notifications: notificationService,
	}
}

// SetupRoutes registers all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	engine.GET("/health", r.healthCheck)

	api := engine.Group(r.config.GetAPIBasePath())

	cacheService := cache.NewService(r.db.GetRedis())

	// Repositories
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	tourRepo := tours.NewRepository(r.db.GetPostgreSQL())
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	contactRepo := contacts.NewRepository(r.db.GetPostgreSQL())
	reviewRepo := reviews.NewRepository(r.db.GetPostgreSQL())

	// Services
	authService := auth.NewService(authRepo, r.config)
	tourService := tours.NewService(tourRepo, cacheService, r.config)
	bookingService := bookings.NewService(bookingRepo, tourRepo, authRepo, cacheService, r.notifications, r.config, r.log)
	paymentService := payments.NewService(
		bookingRepo,
		payments.NewMpesaClient(r.config.Mpesa),
		payments.NewStripeClient(r.config.Stripe),
		r.notifications,
		r.config,
		r.log,
	)
	contactService := contacts.NewService(contactRepo)
	reviewService := reviews.NewService(reviewRepo, bookingRepo, tourRepo)

	// Routers
	auth.NewRouter(auth.NewController(authService), r.config).SetupRoutes(api)
	tours.NewRouter(tours.NewController(tourService), r.config).SetupRoutes(api)
	bookings.NewRouter(bookings.NewController(bookingService), r.config).SetupRoutes(api)
	payments.NewRouter(payments.NewController(paymentService, r.log), r.config).SetupRoutes(api)
	contacts.NewRouter(contacts.NewController(contactService), r.config).SetupRoutes(api)
	reviews.NewRouter(reviews.NewController(reviewService), r.config).SetupRoutes(api)
}

func (r *Router) healthCheck(c *gin.Context) {
	if err := r.db.HealthCheck(c.Request.Context()); err != nil {
		response.Fail(c, http.StatusServiceUnavailable, "Service unhealthy", err.Error())
		return
	}
	response.OK(c, http.StatusOK, "Service healthy", gin.H{
		"version": r.config.APIVersion,
	})
}

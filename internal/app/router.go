package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"rentndrive/internal/domain"
	"rentndrive/internal/handler"
	"rentndrive/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	ReservationHandler *handler.ReservationHandler
	CarHandler         *handler.CarHandler
	PaymentHandler     *handler.PaymentHandler
	ReviewHandler      *handler.ReviewHandler
	RedisClient        *redis.Client
	NewRelicApp        *newrelic.Application
	JWTSecret          string
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public catalog routes.
	router.GET("/cars/nearby", deps.CarHandler.Nearby)
	router.GET("/cars/suggest", deps.CarHandler.SuggestAddresses)
	router.GET("/car/:id", deps.CarHandler.Get)

	// Authenticated routes.
	auth := router.Group("/", middleware.AuthMiddleware(deps.JWTSecret))
	{
		// Reservation routes.
		auth.POST("/reservation", deps.ReservationHandler.Create)
		auth.GET("/reservation/:id", deps.ReservationHandler.Get)
		auth.GET("/reservations", deps.ReservationHandler.ListOwn)
		auth.GET("/reservations/car/:id", deps.ReservationHandler.ListForCar)
		auth.PUT("/reservation/update/:id", deps.ReservationHandler.Update)
		auth.PUT("/reservation/cancel/:id", deps.ReservationHandler.Cancel)
		auth.PUT("/reservation/:id/confirm", deps.ReservationHandler.Confirm)
		auth.DELETE("/reservation/:id", deps.ReservationHandler.Delete)
		auth.PUT("/car/return/:id", deps.ReservationHandler.Complete)

		// Car catalog routes.
		auth.POST("/car", deps.CarHandler.Create)
		auth.PUT("/car/:id", deps.CarHandler.Update)
		auth.GET("/cars/owner", deps.CarHandler.ListOwn)

		// Payment routes.
		auth.POST("/payment", deps.PaymentHandler.CreateOrder)
		auth.POST("/payment/verify", deps.PaymentHandler.Verify)
		auth.GET("/payments/car/:id", deps.PaymentHandler.ListForCar)
		auth.GET("/payments/customer", deps.PaymentHandler.ListOwn)

		// Review routes.
		auth.POST("/review", deps.ReviewHandler.Add)
		auth.GET("/reviews", deps.ReviewHandler.ListOwn)
		auth.DELETE("/review/:id", deps.ReviewHandler.Delete)

		// Admin routes.
		admin := auth.Group("/", middleware.RequireRoles(domain.RoleAdmin))
		{
			admin.GET("/admin/reservations", deps.ReservationHandler.ListAll)
			admin.GET("/admin/bookings", deps.ReservationHandler.AdminBookings)
			admin.GET("/admin/cars", deps.CarHandler.ListAll)
			admin.PUT("/admin/car/approve/:id", deps.CarHandler.Approve)
			admin.GET("/payments/admin", deps.PaymentHandler.ListAll)
			admin.GET("/admin/reviews", deps.ReviewHandler.ListAll)
		}
	}

	return router
}

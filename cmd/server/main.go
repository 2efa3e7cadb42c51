package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"rentndrive/internal/app"
	"rentndrive/internal/config"
	"rentndrive/internal/gateway"
	"rentndrive/internal/handler"
	"rentndrive/internal/logger"
	internalRedis "rentndrive/internal/redis"
	"rentndrive/internal/repository/postgres"
	"rentndrive/internal/service"
)

func main() {
	// Load .env if present, then configuration from the environment.
	_ = godotenv.Load()
	cfg := config.Load()
	logger.Init(cfg.Log)
	log := logger.Log

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.WithError(err).Warn("failed to initialize New Relic")
		} else {
			log.WithField("app", cfg.NewRelic.AppName).Info("New Relic enabled")
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()
	log.Info("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info("Connected to Redis")

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.WithField("port", cfg.Server.Port).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	log := logger.Log

	// Initialize Redis stores.
	locationStore := internalRedis.NewLocationStore(redisClient)
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories.
	userRepo := postgres.NewUserRepository(db)
	carRepo := postgres.NewCarRepository(db)
	reservationRepo := postgres.NewReservationRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	uow := postgres.NewUnitOfWork(db)

	// Initialize gateways.
	paymentGateway := gateway.NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	suggester := gateway.NewNominatimSuggester("")

	// Initialize services.
	var mailer service.Mailer
	if cfg.Mail.Enabled {
		mailer = service.NewSMTPMailer(cfg.Mail)
	} else {
		mailer = service.NewLogMailer(log)
	}
	notificationService := service.NewNotificationService(mailer, log)

	reservationService := service.NewReservationService(
		uow, reservationRepo, carRepo, userRepo, paymentRepo,
		lockStore, cacheStore, paymentGateway, cfg.Razorpay.KeySecret,
		notificationService, log, cfg.Booking.CarLockTTL,
	)
	availabilityService := service.NewAvailabilityService(carRepo, locationStore, cacheStore, log, cfg.Booking.SearchRadiusKm)
	carService := service.NewCarService(carRepo, locationStore, cacheStore, suggester, log)
	paymentService := service.NewPaymentService(paymentRepo, carRepo, reservationRepo, paymentGateway, cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	reviewService := service.NewReviewService(reviewRepo, reservationRepo, carRepo, userRepo)

	// Initialize handlers.
	reservationHandler := handler.NewReservationHandler(reservationService)
	carHandler := handler.NewCarHandler(carService, availabilityService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	reviewHandler := handler.NewReviewHandler(reviewService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		ReservationHandler: reservationHandler,
		CarHandler:         carHandler,
		PaymentHandler:     paymentHandler,
		ReviewHandler:      reviewHandler,
		RedisClient:        redisClient,
		NewRelicApp:        nrApp,
		JWTSecret:          cfg.Auth.JWTSecret,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

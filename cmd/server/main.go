package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ambulance/internal/app"
	"ambulance/internal/auth"
	"ambulance/internal/config"
	"ambulance/internal/events"
	"ambulance/internal/handler"
	"ambulance/internal/logger"
	internalRedis "ambulance/internal/redis"
	"ambulance/internal/repository/postgres"
	"ambulance/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Warn("failed to initialize New Relic", zap.Error(err))
			nrApp = nil
		} else {
			log.Info("New Relic enabled", zap.String("app", cfg.NewRelic.AppName))
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	log.Info("connected to PostgreSQL", zap.String("db", cfg.Database.DBName))

	if cfg.Database.Migrate {
		if err := app.Migrate(db, cfg.Database.DBName, log); err != nil {
			log.Fatal("failed to migrate database", zap.Error(err))
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = app.NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		log.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	var publisher *events.Publisher
	if cfg.Events.URL != "" {
		publisher, err = events.Dial(cfg.Events.URL, cfg.Events.Exchange, log)
		if err != nil {
			// Events are best effort; the API works without them.
			log.Warn("failed to connect to RabbitMQ, events will only be logged", zap.Error(err))
			publisher = nil
		} else {
			defer publisher.Close()
			log.Info("publishing events", zap.String("exchange", cfg.Events.Exchange))
		}
	}

	server, hospitalService := wireServer(db, redisClient, publisher, nrApp, cfg, log)

	if n, err := hospitalService.SyncIndex(ctx); err != nil {
		log.Warn("failed to index hospitals", zap.Error(err))
	} else if n > 0 {
		log.Info("indexed hospitals", zap.Int("count", n))
	}

	go func() {
		log.Info("starting server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	log.Info("server exited")
}

// wireServer wires all dependencies and returns the HTTP server. redisClient
// and publisher may be nil.
func wireServer(
	db *sql.DB,
	redisClient *redis.Client,
	publisher *events.Publisher,
	nrApp *newrelic.Application,
	cfg *config.Config,
	log *zap.Logger,
) (*http.Server, *service.HospitalService) {
	var (
		cache    internalRedis.BookingCache
		locks    internalRedis.LockStoreInterface
		locator  internalRedis.LocationStoreInterface
		eventBus service.Publisher
	)
	if redisClient != nil {
		cache = internalRedis.NewCacheStore(redisClient, cfg.Booking.CacheTTL)
		locks = internalRedis.NewLockStore(redisClient)
		locator = internalRedis.NewLocationStore(redisClient)
	}
	if publisher != nil {
		eventBus = publisher
	}

	// Initialize repositories.
	bookingRepo := postgres.NewBookingRepository(db)
	contactRepo := postgres.NewContactRepository(db)
	vehicleRepo := postgres.NewVehicleRepository(db)
	hospitalRepo := postgres.NewHospitalRepository(db)

	// Initialize services.
	notificationService := service.NewNotificationService(eventBus, log.Named("events"))
	bookingService := service.NewBookingService(bookingRepo, cache, locks, notificationService, log.Named("bookings"), cfg.Booking.LockTTL)
	contactService := service.NewContactService(db, contactRepo, notificationService, log.Named("contacts"))
	vehicleService := service.NewVehicleService(vehicleRepo, notificationService, log.Named("vehicles"))
	hospitalService := service.NewHospitalService(hospitalRepo, locator, log.Named("hospitals"))

	router := app.NewRouter(app.RouterDeps{
		BookingHandler: handler.NewBookingHandler(bookingService),
		ContactHandler: handler.NewContactHandler(contactService),
		FleetHandler:   handler.NewFleetHandler(vehicleService, hospitalService),
		Tokens:         auth.NewTokenService(cfg.Auth.Secret, cfg.Auth.TokenTTL),
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
		Logger:         log,
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, hospitalService
}

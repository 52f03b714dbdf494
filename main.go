package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"midwife-booking-server/internal/config"
	"midwife-booking-server/internal/events"
	"midwife-booking-server/internal/ids"
	"midwife-booking-server/internal/logging"
	"midwife-booking-server/internal/metrics"
	"midwife-booking-server/internal/notify"
	"midwife-booking-server/internal/routes"
	"midwife-booking-server/internal/services"
	"midwife-booking-server/internal/storage"
)

func main() {
	// Load environment variables; a missing .env just means the process env is used
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		os.Exit(1)
	}

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	storeMetrics := metrics.NewStoreMetrics(registry)

	backend, err := openBackend(cfg)
	if err != nil {
		logger.Error("storage backend unavailable", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}
	defer backend.Close()
	logger.Info("storage backend ready", "backend", cfg.Storage.Backend)

	idGen, err := ids.FromStrategy(cfg.IDStrategy)
	if err != nil {
		logger.Error("invalid id strategy", "error", err)
		os.Exit(1)
	}

	bus := events.NewLocalBus(logger.With("component", "events"), storeMetrics)
	store := storage.NewStore(backend, bus, logger.With("component", "store"), storeMetrics)
	deps := services.Deps{Store: store, IDs: idGen, Logger: logger}

	profile := services.NewProfileService(deps)
	appointments := services.NewAppointmentService(deps)
	conversations := services.NewConversationService(deps)
	symptoms := services.NewSymptomService(deps)
	availability := services.NewAvailabilityService(deps)
	booking := services.NewBookingService(appointments, availability, conversations, profile,
		notify.NewLogSender(cfg.Mailer.DefaultFrom, logger), logger, cfg.AppURL)

	// Initialize Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "Cache-Control"}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, routes.Services{
		Profile:       profile,
		Appointments:  appointments,
		Conversations: conversations,
		Symptoms:      symptoms,
		Availability:  availability,
		Booking:       booking,
		Bus:           bus,
		Metrics:       registry,
	}, cfg, logger)

	// Start server
	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	logger.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
	if err := router.Run(serverAddr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// openBackend connects the storage backend selected by STORAGE_BACKEND.
func openBackend(cfg *config.Config) (storage.Backend, error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return storage.DialRedis(ctx, storage.RedisOptions{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			Namespace: cfg.Redis.Namespace,
		})
	case config.BackendMySQL:
		return storage.OpenMySQL(cfg.Database.DSN)
	default:
		return storage.NewMemoryBackend(), nil
	}
}

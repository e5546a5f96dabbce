package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	httpapi "wheelhouse-backend/internal/api/http"
	"wheelhouse-backend/internal/config"
	"wheelhouse-backend/internal/logger"
	"wheelhouse-backend/internal/repository/postgres"
	"wheelhouse-backend/internal/security"
	"wheelhouse-backend/internal/service"
	"wheelhouse-backend/internal/settings"
	"wheelhouse-backend/internal/vehiclesync"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Wheelhouse Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize Settings Provider
	provider := settings.NewCachedProvider(
		store.SettingsRepository,
		time.Duration(cfg.Settings.CacheTTLMinutes)*time.Minute,
		settings.FromConfig(cfg.Pricing),
	)

	// Initialize Vehicle Status Synchronizer
	synchronizer := vehiclesync.New(store.VehicleRepository, vehiclesync.RetryPolicy{
		MaxAttempts: cfg.Sync.MaxAttempts,
		BaseDelay:   time.Duration(cfg.Sync.BaseDelayMillis) * time.Millisecond,
	})

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	bookingSvc := service.NewBookingService(
		store.BookingRepository,
		store.VehicleRepository,
		store.CustomerRepository,
		provider,
		synchronizer,
		emailSvc,
	)
	vehicleSvc := service.NewVehicleService(
		store.VehicleRepository,
		store.BookingRepository,
		synchronizer,
	)

	// Initialize Router
	router := httpapi.NewRouter(cfg, tokenManager, bookingSvc, vehicleSvc, provider, store.SettingsRepository)

	addr := cfg.GetServerAddress()
	logger.Info("HTTP server listening", "address", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		logger.Error("HTTP server stopped", "error", err)
		log.Fatalf("HTTP server stopped: %v", err)
	}
}

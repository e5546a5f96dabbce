package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"wheelhouse-backend/internal/config"
	"wheelhouse-backend/internal/jobs"
	"wheelhouse-backend/internal/logger"
	"wheelhouse-backend/internal/repository/postgres"
	"wheelhouse-backend/internal/scheduler"
	"wheelhouse-backend/internal/settings"
	"wheelhouse-backend/internal/vehiclesync"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'reconcile-vehicle-statuses', 'refresh-settings', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Wheelhouse Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(db, synchronizer, provider, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "reconcile-vehicle-statuses":
		jobRunner.ReconcileVehicleStatuses()
	case "refresh-settings":
		jobRunner.RefreshSettings()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		os.Exit(1)
	}
}

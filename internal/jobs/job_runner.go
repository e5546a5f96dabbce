package jobs

import (
	"database/sql"

	"wheelhouse-backend/internal/config"
	"wheelhouse-backend/internal/logger"
	"wheelhouse-backend/internal/settings"
	"wheelhouse-backend/internal/vehiclesync"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	db       *sql.DB
	sync     *vehiclesync.Synchronizer
	provider settings.Provider
	config   *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(db *sql.DB, sync *vehiclesync.Synchronizer, provider settings.Provider, cfg *config.Config) *JobRunner {
	return &JobRunner{
		db:       db,
		sync:     sync,
		provider: provider,
		config:   cfg,
	}
}

// Config exposes the loaded configuration to the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.ReconcileVehicleStatuses()
	jr.RefreshSettings()
}

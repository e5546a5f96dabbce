package jobs

import (
	"context"

	"wheelhouse-backend/internal/logger"
)

// RefreshSettings re-reads the operational settings so rate changes made in
// the database reach the pricing engine without a restart.
func (jr *JobRunner) RefreshSettings() {
	jr.runWithRecovery("RefreshSettings", func() {
		if err := jr.provider.Refresh(context.Background()); err != nil {
			logger.Warn("Settings refresh failed, previous values remain in effect", "error", err)
		}
	})
}

package vehiclesync

import (
	"context"
	"fmt"
	"time"

	"wheelhouse-backend/internal/domain"
	"wheelhouse-backend/internal/logger"
	"wheelhouse-backend/internal/repository"
)

// RetryPolicy controls how many times a status update is attempted and how
// long to wait between attempts (linear backoff: attempt * BaseDelay).
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: 200 * time.Millisecond}
}

// Result is the detailed outcome of a status synchronization. It is always
// returned by value; SetStatus never propagates an error. Callers check
// Success and degrade gracefully, because the booking transition that
// triggered the sync has already been committed.
type Result struct {
	Success        bool                 `json:"success"`
	PreviousStatus domain.VehicleStatus `json:"previous_status,omitempty"`
	NewStatus      domain.VehicleStatus `json:"new_status,omitempty"`
	Attempts       int                  `json:"attempts"`
	Err            error                `json:"-"`
	ErrorMessage   string               `json:"error,omitempty"`
}

// Synchronizer mirrors booking state into the vehicle availability registry.
// Every attempt re-reads the record after writing and treats a mismatch as a
// failure, which catches silent write anomalies the write call itself does
// not report.
type Synchronizer struct {
	vehicles repository.VehicleRepository
	policy   RetryPolicy
}

func New(vehicles repository.VehicleRepository, policy RetryPolicy) *Synchronizer {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = DefaultRetryPolicy().BaseDelay
	}
	return &Synchronizer{vehicles: vehicles, policy: policy}
}

// SetStatus applies target to the vehicle record, verifies the write landed,
// and retries with linear backoff on failure.
func (s *Synchronizer) SetStatus(ctx context.Context, vehicleID int32, target domain.VehicleStatus) Result {
	res := Result{}
	var lastErr error

	for attempt := 1; attempt <= s.policy.MaxAttempts; attempt++ {
		res.Attempts = attempt

		err := s.attempt(ctx, vehicleID, target, &res)
		if err == nil {
			res.Success = true
			res.NewStatus = target
			return res
		}
		lastErr = err
		logger.Warn("vehicle status update attempt failed",
			"vehicle_id", vehicleID, "target", target, "attempt", attempt, "error", err)

		if attempt < s.policy.MaxAttempts {
			select {
			case <-ctx.Done():
				res.Err = ctx.Err()
				res.ErrorMessage = res.Err.Error()
				return res
			case <-time.After(time.Duration(attempt) * s.policy.BaseDelay):
			}
		}
	}

	res.Err = lastErr
	if lastErr != nil {
		res.ErrorMessage = lastErr.Error()
	}
	return res
}

func (s *Synchronizer) attempt(ctx context.Context, vehicleID int32, target domain.VehicleStatus, res *Result) error {
	vehicle, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return fmt.Errorf("read vehicle: %w", err)
	}
	if res.PreviousStatus == "" {
		res.PreviousStatus = vehicle.Status
	}
	if vehicle.Status == target {
		// Already there. Re-applying the same status is a no-op.
		return nil
	}

	vehicle.Status = target
	if err := s.vehicles.Update(ctx, vehicle); err != nil {
		return fmt.Errorf("write status: %w", err)
	}

	check, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return fmt.Errorf("verify read: %w", err)
	}
	if check.Status != target {
		return fmt.Errorf("verify failed: persisted status is %s, want %s", check.Status, target)
	}
	return nil
}

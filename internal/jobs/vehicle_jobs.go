package jobs

import (
	"context"

	"wheelhouse-backend/internal/domain"
	"wheelhouse-backend/internal/logger"
)

// ReconcileVehicleStatuses repairs vehicles whose status drifted from their
// booking state: RENTED with no active booking should be AVAILABLE, and
// AVAILABLE with an active booking should be RENTED. Vehicles in MAINTENANCE
// are left alone.
func (jr *JobRunner) ReconcileVehicleStatuses() {
	jr.runWithRecovery("ReconcileVehicleStatuses", func() {
		ctx := context.Background()

		query := `
			SELECT v.id, v.status,
			       EXISTS (
			           SELECT 1 FROM bookings b
			           WHERE b.vehicle_id = v.id AND b.status = 'ACTIVE'
			       ) AS has_active
			FROM vehicles v
			WHERE v.status != 'MAINTENANCE'
		`

		rows, err := jr.db.QueryContext(ctx, query)
		if err != nil {
			logger.Error("Failed to list vehicles for reconciliation", "error", err)
			return
		}
		defer rows.Close()

		type drifted struct {
			ID     int32
			Status domain.VehicleStatus
			Want   domain.VehicleStatus
		}
		var repairs []drifted

		for rows.Next() {
			var (
				id        int32
				status    string
				hasActive bool
			)
			if err := rows.Scan(&id, &status, &hasActive); err != nil {
				logger.Error("Failed to scan vehicle row", "error", err)
				continue
			}
			current := domain.VehicleStatus(status)
			want := domain.VehicleStatusAvailable
			if hasActive {
				want = domain.VehicleStatusRented
			}
			if current != want {
				repairs = append(repairs, drifted{ID: id, Status: current, Want: want})
			}
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating vehicles", "error", err)
			return
		}

		repaired := 0
		for _, r := range repairs {
			res := jr.sync.SetStatus(ctx, r.ID, r.Want)
			if !res.Success {
				logger.Error("Failed to repair vehicle status",
					"vehicle_id", r.ID, "from", r.Status, "to", r.Want, "attempts", res.Attempts, "error", res.Err)
				continue
			}
			repaired++
			logger.Debug("Repaired drifted vehicle status",
				"vehicle_id", r.ID, "from", r.Status, "to", r.Want)
		}

		logger.Info("Vehicle status reconciliation finished", "drifted", len(repairs), "repaired", repaired)
	})
}

package service

import (
	"context"
	"fmt"

	"wheelhouse-backend/internal/domain"
	"wheelhouse-backend/internal/repository"
	"wheelhouse-backend/internal/vehiclesync"
)

type vehicleService struct {
	vehicles repository.VehicleRepository
	bookings repository.BookingRepository
	sync     *vehiclesync.Synchronizer
}

func NewVehicleService(
	vehicles repository.VehicleRepository,
	bookings repository.BookingRepository,
	sync *vehiclesync.Synchronizer,
) VehicleService {
	return &vehicleService{vehicles: vehicles, bookings: bookings, sync: sync}
}

func (s *vehicleService) List(ctx context.Context, status string, page, pageSize int32) ([]domain.Vehicle, int32, error) {
	return s.vehicles.List(ctx, status, page, pageSize)
}

func (s *vehicleService) SetMaintenance(ctx context.Context, vehicleID int32, on bool) (vehiclesync.Result, error) {
	if _, err := s.vehicles.GetByID(ctx, vehicleID); err != nil {
		return vehiclesync.Result{}, err
	}

	if on {
		hasActive, err := s.bookings.HasActiveByVehicle(ctx, vehicleID)
		if err != nil {
			return vehiclesync.Result{}, err
		}
		if hasActive {
			return vehiclesync.Result{}, fmt.Errorf("vehicle %d has an active booking: %w", vehicleID, domain.ErrVehicleUnavailable)
		}
		return s.sync.SetStatus(ctx, vehicleID, domain.VehicleStatusMaintenance), nil
	}
	return s.sync.SetStatus(ctx, vehicleID, domain.VehicleStatusAvailable), nil
}

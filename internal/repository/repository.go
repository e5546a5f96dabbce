package repository

import (
	"context"

	"wheelhouse-backend/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int32) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error
	HasActiveByCustomer(ctx context.Context, customerID int32) (bool, error)
	HasActiveByVehicle(ctx context.Context, vehicleID int32) (bool, error)
	ListByCustomer(ctx context.Context, customerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListByStatus(ctx context.Context, status string, page, pageSize int32) ([]domain.Booking, int32, error)
}

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) error
	GetByID(ctx context.Context, id int32) (*domain.Vehicle, error)
	Update(ctx context.Context, vehicle *domain.Vehicle) error
	// UpdateStatusIf flips the status only when the current value matches from,
	// reporting whether a row changed. This is the conditional write that closes
	// the check-then-act race at booking creation.
	UpdateStatusIf(ctx context.Context, id int32, from, to domain.VehicleStatus) (bool, error)
	List(ctx context.Context, status string, page, pageSize int32) ([]domain.Vehicle, int32, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id int32) (*domain.Customer, error)
}

type SettingsRepository interface {
	Get(ctx context.Context) (*domain.RentalSettings, error)
	Update(ctx context.Context, settings *domain.RentalSettings) error
}

package postgres

import (
	"database/sql"

	"wheelhouse-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.BookingRepository
	repository.VehicleRepository
	repository.CustomerRepository
	repository.SettingsRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                 db,
		BookingRepository:  NewBookingRepository(db),
		VehicleRepository:  NewVehicleRepository(db),
		CustomerRepository: NewCustomerRepository(db),
		SettingsRepository: NewSettingsRepository(db),
	}
}

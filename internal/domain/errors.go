package domain

import "errors"

var (
	ErrValidation               = errors.New("validation failed")
	ErrVehicleNotFound          = errors.New("vehicle not found")
	ErrVehicleUnavailable       = errors.New("vehicle is not available")
	ErrCustomerNotFound         = errors.New("customer not found")
	ErrCustomerBlacklisted      = errors.New("customer is blacklisted")
	ErrCustomerHasActiveBooking = errors.New("customer already has an active booking")
	ErrBookingNotFound          = errors.New("booking not found")
	ErrBookingNotActive         = errors.New("booking is not active")
	ErrSettingsNotFound         = errors.New("rental settings not found")
)

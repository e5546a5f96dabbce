package service

import (
	"context"
	"time"

	"wheelhouse-backend/internal/domain"
	"wheelhouse-backend/internal/pricing"
	"wheelhouse-backend/internal/vehiclesync"
)

type CreateBookingInput struct {
	VehicleID    int32  `json:"vehicle_id"`
	CustomerID   int32  `json:"customer_id"`
	SignatureRef string `json:"signature_ref"`
	Notes        string `json:"notes"`
}

type CompleteBookingInput struct {
	// EndTime defaults to the current time when nil.
	EndTime         *time.Time `json:"end_time,omitempty"`
	DiscountCents   int64      `json:"discount_cents"`
	AdditionalCents int64      `json:"additional_cents"`
	Notes           string     `json:"notes"`
}

type CancelBookingInput struct {
	CancelledBy string `json:"cancelled_by"`
	Reason      string `json:"reason"`
}

// CreateBookingResult carries the created booking plus the synchronizer
// outcome. Sync.Success == false does not invalidate the booking.
type CreateBookingResult struct {
	Booking *domain.Booking    `json:"booking"`
	Warning string             `json:"warning,omitempty"`
	Sync    vehiclesync.Result `json:"sync"`
}

type CompleteBookingResult struct {
	Booking *domain.Booking    `json:"booking"`
	Pricing pricing.Result     `json:"pricing"`
	Sync    vehiclesync.Result `json:"sync"`
}

type CancelBookingResult struct {
	Booking *domain.Booking    `json:"booking"`
	Sync    vehiclesync.Result `json:"sync"`
}

type BookingService interface {
	Create(ctx context.Context, in CreateBookingInput) (*CreateBookingResult, error)
	Complete(ctx context.Context, bookingID int32, in CompleteBookingInput) (*CompleteBookingResult, error)
	Cancel(ctx context.Context, bookingID int32, in CancelBookingInput) (*CancelBookingResult, error)
	CurrentAmount(ctx context.Context, bookingID int32) (pricing.Result, error)
	Get(ctx context.Context, bookingID int32) (*domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListByStatus(ctx context.Context, status string, page, pageSize int32) ([]domain.Booking, int32, error)
}

type VehicleService interface {
	List(ctx context.Context, status string, page, pageSize int32) ([]domain.Vehicle, int32, error)
	// SetMaintenance takes a vehicle in or out of the maintenance pool.
	SetMaintenance(ctx context.Context, vehicleID int32, on bool) (vehiclesync.Result, error)
}

type EmailService interface {
	SendBookingConfirmation(ctx context.Context, toEmail, customerName, plateNumber, reference string, startTime time.Time) error
	SendBookingReceipt(ctx context.Context, toEmail, customerName, plateNumber, reference string, amountCents int64) error
	SendBookingCancellation(ctx context.Context, toEmail, customerName, plateNumber, reason string) error
}

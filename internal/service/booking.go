package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wheelhouse-backend/internal/domain"
	"wheelhouse-backend/internal/logger"
	"wheelhouse-backend/internal/pricing"
	"wheelhouse-backend/internal/repository"
	"wheelhouse-backend/internal/settings"
	"wheelhouse-backend/internal/vehiclesync"
)

type bookingService struct {
	bookings  repository.BookingRepository
	vehicles  repository.VehicleRepository
	customers repository.CustomerRepository
	settings  settings.Provider
	sync      *vehiclesync.Synchronizer
	emailSvc  EmailService
	now       func() time.Time
}

func NewBookingService(
	bookings repository.BookingRepository,
	vehicles repository.VehicleRepository,
	customers repository.CustomerRepository,
	settingsProvider settings.Provider,
	sync *vehiclesync.Synchronizer,
	emailSvc EmailService,
) BookingService {
	return &bookingService{
		bookings:  bookings,
		vehicles:  vehicles,
		customers: customers,
		settings:  settingsProvider,
		sync:      sync,
		emailSvc:  emailSvc,
		now:       time.Now,
	}
}

func (s *bookingService) Create(ctx context.Context, in CreateBookingInput) (*CreateBookingResult, error) {
	if in.VehicleID == 0 {
		return nil, fmt.Errorf("vehicle id is required: %w", domain.ErrValidation)
	}
	if in.CustomerID == 0 {
		return nil, fmt.Errorf("customer id is required: %w", domain.ErrValidation)
	}
	if in.SignatureRef == "" {
		return nil, fmt.Errorf("signature is required: %w", domain.ErrValidation)
	}

	vehicle, err := s.vehicles.GetByID(ctx, in.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.Status != domain.VehicleStatusAvailable {
		return nil, fmt.Errorf("vehicle %d is %s: %w", vehicle.ID, vehicle.Status, domain.ErrVehicleUnavailable)
	}

	customer, err := s.customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer.BlocksRental() {
		return nil, fmt.Errorf("customer %d (%s): %w", customer.ID, customer.BlacklistSeverity, domain.ErrCustomerBlacklisted)
	}
	warning := ""
	if customer.Blacklisted {
		warning = fmt.Sprintf("customer %d has a warning-level blacklist entry", customer.ID)
	}

	hasActive, err := s.bookings.HasActiveByCustomer(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if hasActive {
		return nil, fmt.Errorf("customer %d: %w", in.CustomerID, domain.ErrCustomerHasActiveBooking)
	}

	cfg := s.settings.Get(ctx)
	startTime := settings.ScheduledStart(s.now(), cfg)

	// Claim the vehicle with a conditional write so two concurrent creates
	// cannot both take it.
	claimed, err := s.vehicles.UpdateStatusIf(ctx, in.VehicleID, domain.VehicleStatusAvailable, domain.VehicleStatusRented)
	if err != nil {
		return nil, fmt.Errorf("claim vehicle %d: %w", in.VehicleID, err)
	}
	if !claimed {
		return nil, fmt.Errorf("vehicle %d was taken: %w", in.VehicleID, domain.ErrVehicleUnavailable)
	}

	booking := &domain.Booking{
		Reference:    uuid.New().String(),
		VehicleID:    in.VehicleID,
		CustomerID:   in.CustomerID,
		StartTime:    startTime,
		Status:       domain.BookingStatusActive,
		SignatureRef: in.SignatureRef,
		Notes:        in.Notes,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		// Release the claim; the reconciliation job repairs it if this fails too.
		release := s.sync.SetStatus(ctx, in.VehicleID, domain.VehicleStatusAvailable)
		if !release.Success {
			logger.Error("failed to release vehicle after booking create failure",
				"vehicle_id", in.VehicleID, "attempts", release.Attempts, "error", release.Err)
		}
		return nil, err
	}

	// The vehicle is already RENTED from the claim; the synchronizer verifies
	// and repairs if the claim write did not land.
	syncRes := s.sync.SetStatus(ctx, in.VehicleID, domain.VehicleStatusRented)
	if !syncRes.Success {
		logger.Warn("vehicle status sync failed after booking creation",
			"booking_id", booking.ID, "vehicle_id", in.VehicleID, "attempts", syncRes.Attempts, "error", syncRes.Err)
	}

	if customer.Email != "" {
		_ = s.emailSvc.SendBookingConfirmation(ctx, customer.Email, customer.Name, vehicle.PlateNumber, booking.Reference, startTime)
	}

	return &CreateBookingResult{Booking: booking, Warning: warning, Sync: syncRes}, nil
}

func (s *bookingService) Complete(ctx context.Context, bookingID int32, in CompleteBookingInput) (*CompleteBookingResult, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.Status.CanTransitionTo(domain.BookingStatusCompleted) {
		return nil, fmt.Errorf("booking %d is %s: %w", bookingID, booking.Status, domain.ErrBookingNotActive)
	}

	endTime := s.now()
	if in.EndTime != nil {
		endTime = *in.EndTime
	}

	cfg := s.settings.Get(ctx).Pricing
	result, err := pricing.Calculate(booking.StartTime, endTime, cfg)
	if err != nil {
		logger.Warn("pricing configuration rejected, using fallback calculation",
			"booking_id", bookingID, "error", err)
		result = pricing.Fallback(booking.StartTime, endTime, cfg)
	}

	finalAmount := result.TotalAmountCents - in.DiscountCents + in.AdditionalCents
	if finalAmount < 0 {
		finalAmount = 0
	}

	breakdown, err := json.Marshal(result.Breakdown)
	if err != nil {
		return nil, fmt.Errorf("snapshot pricing breakdown: %w", err)
	}

	booking.EndTime = &endTime
	booking.Status = domain.BookingStatusCompleted
	booking.FinalAmountCents = &finalAmount
	booking.DiscountCents = in.DiscountCents
	booking.AdditionalCents = in.AdditionalCents
	booking.PricingBreakdown = string(breakdown)
	if in.Notes != "" {
		booking.Notes = in.Notes
	}
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}

	syncRes := s.sync.SetStatus(ctx, booking.VehicleID, domain.VehicleStatusAvailable)
	if !syncRes.Success {
		logger.Warn("vehicle status sync failed after booking completion",
			"booking_id", bookingID, "vehicle_id", booking.VehicleID, "attempts", syncRes.Attempts, "error", syncRes.Err)
	}

	s.sendReceipt(ctx, booking, finalAmount)

	return &CompleteBookingResult{Booking: booking, Pricing: result, Sync: syncRes}, nil
}

func (s *bookingService) Cancel(ctx context.Context, bookingID int32, in CancelBookingInput) (*CancelBookingResult, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.Status.CanTransitionTo(domain.BookingStatusCancelled) {
		return nil, fmt.Errorf("booking %d is %s: %w", bookingID, booking.Status, domain.ErrBookingNotActive)
	}

	booking.Status = domain.BookingStatusCancelled
	booking.Cancellation = &domain.CancellationDetails{
		CancelledAt: s.now(),
		CancelledBy: in.CancelledBy,
		Reason:      in.Reason,
	}
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}

	syncRes := s.sync.SetStatus(ctx, booking.VehicleID, domain.VehicleStatusAvailable)
	if !syncRes.Success {
		logger.Warn("vehicle status sync failed after booking cancellation",
			"booking_id", bookingID, "vehicle_id", booking.VehicleID, "attempts", syncRes.Attempts, "error", syncRes.Err)
	}

	if customer, cerr := s.customers.GetByID(ctx, booking.CustomerID); cerr == nil && customer.Email != "" {
		if vehicle, verr := s.vehicles.GetByID(ctx, booking.VehicleID); verr == nil {
			_ = s.emailSvc.SendBookingCancellation(ctx, customer.Email, customer.Name, vehicle.PlateNumber, in.Reason)
		}
	}

	return &CancelBookingResult{Booking: booking, Sync: syncRes}, nil
}

func (s *bookingService) CurrentAmount(ctx context.Context, bookingID int32) (pricing.Result, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return pricing.Result{}, err
	}

	if booking.Status == domain.BookingStatusCancelled {
		return pricing.Result{
			Status:  pricing.StatusNormal,
			Summary: "booking cancelled, no charge",
		}, nil
	}
	if booking.Status != domain.BookingStatusActive {
		return pricing.Result{}, fmt.Errorf("booking %d is %s: %w", bookingID, booking.Status, domain.ErrBookingNotActive)
	}

	cfg := s.settings.Get(ctx).Pricing
	result, err := pricing.Calculate(booking.StartTime, s.now(), cfg)
	if err != nil {
		logger.Warn("pricing configuration rejected, using fallback calculation",
			"booking_id", bookingID, "error", err)
		return pricing.Fallback(booking.StartTime, s.now(), cfg), nil
	}
	return result, nil
}

func (s *bookingService) Get(ctx context.Context, bookingID int32) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, bookingID)
}

func (s *bookingService) ListByCustomer(ctx context.Context, customerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return s.bookings.ListByCustomer(ctx, customerID, status, page, pageSize)
}

func (s *bookingService) ListByStatus(ctx context.Context, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return s.bookings.ListByStatus(ctx, status, page, pageSize)
}

func (s *bookingService) sendReceipt(ctx context.Context, booking *domain.Booking, amountCents int64) {
	customer, err := s.customers.GetByID(ctx, booking.CustomerID)
	if err != nil || customer.Email == "" {
		return
	}
	plate := ""
	if vehicle, verr := s.vehicles.GetByID(ctx, booking.VehicleID); verr == nil {
		plate = vehicle.PlateNumber
	}
	_ = s.emailSvc.SendBookingReceipt(ctx, customer.Email, customer.Name, plate, booking.Reference, amountCents)
}

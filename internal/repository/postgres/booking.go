package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wheelhouse-backend/internal/domain"
	"wheelhouse-backend/internal/repository"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, reference, vehicle_id, customer_id, start_time, end_time, status,
       final_amount_cents, discount_cents, additional_cents, pricing_breakdown, signature_ref,
       cancelled_at, cancelled_by, cancel_reason, notes, created_on, updated_on`

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (reference, vehicle_id, customer_id, start_time, status, discount_cents, additional_cents, signature_ref, notes, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		b.Reference, b.VehicleID, b.CustomerID, b.StartTime, b.Status,
		b.DiscountCents, b.AdditionalCents, b.SignatureRef, b.Notes, now, now,
	).Scan(&b.ID)
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	return b, err
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	query := `UPDATE bookings SET status=$1, end_time=$2, final_amount_cents=$3, discount_cents=$4,
	          additional_cents=$5, pricing_breakdown=$6, cancelled_at=$7, cancelled_by=$8,
	          cancel_reason=$9, notes=$10, updated_on=$11 WHERE id=$12`
	var cancelledAt *time.Time
	var cancelledBy, cancelReason *string
	if b.Cancellation != nil {
		cancelledAt = &b.Cancellation.CancelledAt
		cancelledBy = &b.Cancellation.CancelledBy
		cancelReason = &b.Cancellation.Reason
	}
	var breakdown *string
	if b.PricingBreakdown != "" {
		breakdown = &b.PricingBreakdown
	}
	_, err := r.db.ExecContext(ctx, query,
		b.Status, b.EndTime, b.FinalAmountCents, b.DiscountCents, b.AdditionalCents,
		breakdown, cancelledAt, cancelledBy, cancelReason, b.Notes, time.Now(), b.ID)
	return err
}

func (r *bookingRepository) HasActiveByCustomer(ctx context.Context, customerID int32) (bool, error) {
	var count int32
	query := `SELECT count(*) FROM bookings WHERE customer_id = $1 AND status = $2`
	if err := r.db.QueryRowContext(ctx, query, customerID, domain.BookingStatusActive).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *bookingRepository) HasActiveByVehicle(ctx context.Context, vehicleID int32) (bool, error) {
	var count int32
	query := `SELECT count(*) FROM bookings WHERE vehicle_id = $1 AND status = $2`
	if err := r.db.QueryRowContext(ctx, query, vehicleID, domain.BookingStatusActive).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *bookingRepository) ListByCustomer(ctx context.Context, customerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE customer_id = $1`
	args := []interface{}{customerID}
	return r.list(ctx, query, args, status, page, pageSize)
}

func (r *bookingRepository) ListByStatus(ctx context.Context, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE TRUE`
	return r.list(ctx, query, nil, status, page, pageSize)
}

func (r *bookingRepository) list(ctx context.Context, query string, args []interface{}, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	argIdx := len(args) + 1
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, count, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	b := &domain.Booking{}
	var endTime, cancelledAt sql.NullTime
	var finalAmount sql.NullInt64
	var breakdown, cancelledBy, cancelReason sql.NullString

	err := row.Scan(&b.ID, &b.Reference, &b.VehicleID, &b.CustomerID, &b.StartTime, &endTime,
		&b.Status, &finalAmount, &b.DiscountCents, &b.AdditionalCents, &breakdown,
		&b.SignatureRef, &cancelledAt, &cancelledBy, &cancelReason, &b.Notes,
		&b.CreatedOn, &b.UpdatedOn)
	if err != nil {
		return nil, err
	}

	if endTime.Valid {
		b.EndTime = &endTime.Time
	}
	if finalAmount.Valid {
		b.FinalAmountCents = &finalAmount.Int64
	}
	b.PricingBreakdown = breakdown.String
	if cancelledAt.Valid {
		b.Cancellation = &domain.CancellationDetails{
			CancelledAt: cancelledAt.Time,
			CancelledBy: cancelledBy.String,
			Reason:      cancelReason.String,
		}
	}
	return b, nil
}

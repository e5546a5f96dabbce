package domain

import "time"

type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "ACTIVE"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// IsTerminal reports whether no further transitions are allowed from s.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// CanTransitionTo reports whether the transition s -> next is legal.
// Only ACTIVE -> COMPLETED and ACTIVE -> CANCELLED are allowed.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	return s == BookingStatusActive && next.IsTerminal()
}

// CancellationDetails records who cancelled a booking, when and why.
type CancellationDetails struct {
	CancelledAt time.Time `json:"cancelled_at"`
	CancelledBy string    `json:"cancelled_by"`
	Reason      string    `json:"reason"`
}

type Booking struct {
	ID         int32     `json:"id"`
	Reference  string    `json:"reference"`
	VehicleID  int32     `json:"vehicle_id"`
	CustomerID int32     `json:"customer_id"`
	StartTime  time.Time `json:"start_time"`
	// EndTime stays nil until the booking is completed.
	EndTime *time.Time    `json:"end_time,omitempty"`
	Status  BookingStatus `json:"status"`
	// FinalAmountCents is set exactly once, at completion.
	FinalAmountCents *int64 `json:"final_amount_cents,omitempty"`
	DiscountCents    int64  `json:"discount_cents"`
	AdditionalCents  int64  `json:"additional_cents"`
	// PricingBreakdown is a JSON snapshot of the pricing segments captured at
	// completion time. All audit reads use this snapshot, not a recalculation.
	PricingBreakdown string               `json:"pricing_breakdown,omitempty"`
	SignatureRef     string               `json:"signature_ref"`
	Cancellation     *CancellationDetails `json:"cancellation,omitempty"`
	Notes            string               `json:"notes"`
	CreatedOn        time.Time            `json:"created_on"`
	UpdatedOn        time.Time            `json:"updated_on"`
}

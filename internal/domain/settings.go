package domain

import "time"

// RentalSettings is the single-row operational configuration record. The
// settings provider caches it; all pricing and scheduling parameters flow
// from here.
type RentalSettings struct {
	HourlyRateCents       int64     `json:"hourly_rate_cents"`
	GraceMinutes          int       `json:"grace_minutes"`
	BlockMinutes          int       `json:"block_minutes"`
	NightChargeTime       string    `json:"night_charge_time"` // "HH:MM", 24h
	NightMultiplier       int       `json:"night_multiplier"`
	StartDelayMinutes     int       `json:"start_delay_minutes"`
	RoundToNearestMinutes int       `json:"round_to_nearest_minutes"`
	UpdatedOn             time.Time `json:"updated_on"`
}

package domain

import "time"

type BlacklistSeverity string

const (
	BlacklistSeverityWarning      BlacklistSeverity = "warning"
	BlacklistSeverityTemporaryBan BlacklistSeverity = "temporary_ban"
	BlacklistSeverityPermanentBan BlacklistSeverity = "permanent_ban"
)

// Customer is consumed read-only by the booking service as a creation-time
// gate. Blacklist policy (who gets flagged, and why) lives outside this system.
type Customer struct {
	ID                int32             `json:"id"`
	Name              string            `json:"name"`
	Email             string            `json:"email"`
	PhoneNumber       string            `json:"phone_number"`
	Blacklisted       bool              `json:"blacklisted"`
	BlacklistSeverity BlacklistSeverity `json:"blacklist_severity,omitempty"`
	CreatedOn         time.Time         `json:"created_on"`
}

// BlocksRental reports whether the customer's blacklist entry forbids new
// bookings. A warning-level entry allows the booking but callers surface it.
func (c *Customer) BlocksRental() bool {
	return c.Blacklisted && c.BlacklistSeverity != BlacklistSeverityWarning
}

package pricing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config holds the pricing parameters for one calculation. It is a value
// object: callers snapshot it from the settings provider and the engine
// never mutates it.
type Config struct {
	HourlyRateCents int64  `json:"hourly_rate_cents" yaml:"hourly_rate_cents"`
	GraceMinutes    int    `json:"grace_minutes" yaml:"grace_minutes"`
	BlockMinutes    int    `json:"block_minutes" yaml:"block_minutes"`
	NightChargeTime string `json:"night_charge_time" yaml:"night_charge_time"` // "HH:MM", 24h
	NightMultiplier int    `json:"night_multiplier" yaml:"night_multiplier"`
}

// DefaultConfig returns the hard-coded pricing parameters used when no valid
// configuration can be fetched.
func DefaultConfig() Config {
	return Config{
		HourlyRateCents: 8000,
		GraceMinutes:    15,
		BlockMinutes:    30,
		NightChargeTime: "22:30",
		NightMultiplier: 2,
	}
}

// Validate checks that every field is inside its allowed range. An invalid
// config must never reach the tiered calculation.
func (c Config) Validate() error {
	if c.HourlyRateCents <= 0 {
		return fmt.Errorf("hourly rate must be positive, got %d", c.HourlyRateCents)
	}
	if c.GraceMinutes < 0 || c.GraceMinutes > 60 {
		return fmt.Errorf("grace minutes must be between 0 and 60, got %d", c.GraceMinutes)
	}
	if c.BlockMinutes < 1 || c.BlockMinutes > 120 {
		return fmt.Errorf("block minutes must be between 1 and 120, got %d", c.BlockMinutes)
	}
	if _, _, err := ParseClockTime(c.NightChargeTime); err != nil {
		return fmt.Errorf("invalid night charge time: %v", err)
	}
	if c.NightMultiplier < 1 || c.NightMultiplier > 5 {
		return fmt.Errorf("night multiplier must be between 1 and 5, got %d", c.NightMultiplier)
	}
	return nil
}

// ParseClockTime converts an "HH:MM" formatted string into hour and minute.
func ParseClockTime(s string) (int, int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time format, expected HH:MM")
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid hour: %v", err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid minute: %v", err)
	}
	if hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("hour must be between 0 and 23")
	}
	if minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("minute must be between 0 and 59")
	}
	return hour, minute, nil
}

type Status string

const (
	StatusPreStart    Status = "pre-start"
	StatusJustStarted Status = "just-started"
	StatusNormal      Status = "normal"
)

// Segment is one priced sub-interval of a rental. Segments of a Result are
// contiguous, non-overlapping and cover [StartTime, EndTime) exactly once.
type Segment struct {
	Period        string    `json:"period"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Minutes       int       `json:"minutes"`
	RateCents     int64     `json:"rate_cents"`
	IsNightCharge bool      `json:"is_night_charge"`
	Description   string    `json:"description"`
}

// Result is the auditable outcome of one calculation. Constructed fresh every
// time, never mutated.
type Result struct {
	TotalAmountCents int64     `json:"total_amount_cents"`
	Breakdown        []Segment `json:"breakdown"`
	TotalMinutes     int       `json:"total_minutes"`
	Status           Status    `json:"status"`
	Summary          string    `json:"summary"`
}

// FallbackSummaryPrefix tags results produced by the degraded formula so
// downstream consumers can detect them.
const FallbackSummaryPrefix = "fallback:"

// IsFallback reports whether the result came from the degraded calculation.
func (r Result) IsFallback() bool {
	return strings.HasPrefix(r.Summary, FallbackSummaryPrefix)
}

// Calculate converts a start/end timestamp pair into a billed amount with a
// tiered breakdown. Pure and deterministic: identical inputs yield identical
// results. It returns an error only when cfg fails validation; callers are
// then responsible for substituting Fallback.
func Calculate(start, end time.Time, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, fmt.Errorf("pricing config rejected: %w", err)
	}

	if end.Before(start) {
		// The scheduled start is still in the future relative to the query time.
		wait := int((start.Sub(end) + time.Minute - 1) / time.Minute)
		return Result{
			Status:  StatusPreStart,
			Summary: fmt.Sprintf("rental starts in %d minutes", wait),
		}, nil
	}

	totalMinutes := int(end.Sub(start) / time.Minute)
	if totalMinutes == 0 {
		return Result{
			Status:  StatusJustStarted,
			Summary: "rental just started, no time billed yet",
		}, nil
	}

	nightHour, nightMinute, _ := ParseClockTime(cfg.NightChargeTime)
	halfRate := (cfg.HourlyRateCents + 1) / 2 // round(rate/2)

	var segments []Segment
	cursor := start
	remaining := totalMinutes

	// First segment: one hour plus the grace period, at the full hourly rate.
	firstLen := 60 + cfg.GraceMinutes
	if firstLen > remaining {
		firstLen = remaining
	}
	segments = append(segments, buildSegment("initial", cursor, firstLen, cfg.HourlyRateCents, cfg.NightMultiplier, nightHour, nightMinute))
	cursor = cursor.Add(time.Duration(firstLen) * time.Minute)
	remaining -= firstLen

	// Subsequent block-sized segments at half rate, numbered from 2.
	for n := 2; remaining > 0; n++ {
		d := cfg.BlockMinutes
		if d > remaining {
			d = remaining
		}
		segments = append(segments, buildSegment(fmt.Sprintf("block-%d", n), cursor, d, halfRate, cfg.NightMultiplier, nightHour, nightMinute))
		cursor = cursor.Add(time.Duration(d) * time.Minute)
		remaining -= d
	}

	var total int64
	for _, seg := range segments {
		total += seg.RateCents
	}

	return Result{
		TotalAmountCents: total,
		Breakdown:        segments,
		TotalMinutes:     totalMinutes,
		Status:           StatusNormal,
		Summary:          fmt.Sprintf("%d minutes in %d segments, %d cents total", totalMinutes, len(segments), total),
	}, nil
}

func buildSegment(period string, segStart time.Time, minutes int, baseRate int64, multiplier, nightHour, nightMinute int) Segment {
	segEnd := segStart.Add(time.Duration(minutes) * time.Minute)
	night := crossesNightThreshold(segStart, segEnd, nightHour, nightMinute)
	rate := baseRate
	desc := fmt.Sprintf("%d minutes at base rate", minutes)
	if night {
		rate = baseRate * int64(multiplier)
		desc = fmt.Sprintf("%d minutes at night rate (x%d)", minutes, multiplier)
	}
	return Segment{
		Period:        period,
		StartTime:     segStart,
		EndTime:       segEnd,
		Minutes:       minutes,
		RateCents:     rate,
		IsNightCharge: night,
		Description:   desc,
	}
}

// crossesNightThreshold tests the one-minute-wide night-charge window anchored
// to the segment's start date. This is a boundary check, not a range: only a
// segment that straddles or begins exactly at the threshold instant is
// night-rated.
func crossesNightThreshold(segStart, segEnd time.Time, hour, minute int) bool {
	threshold := time.Date(segStart.Year(), segStart.Month(), segStart.Day(), hour, minute, 0, 0, segStart.Location())
	return segEnd.After(threshold) && segStart.Before(threshold.Add(time.Minute))
}

// Fallback is the degraded, non-tiered formula used when the configuration is
// invalid or unreachable: max(ceil(totalMinutes/60) * rate, rate). The result
// carries the fallback tag in its summary.
func Fallback(start, end time.Time, cfg Config) Result {
	rate := cfg.HourlyRateCents
	if rate <= 0 {
		rate = DefaultConfig().HourlyRateCents
	}

	totalMinutes := 0
	if end.After(start) {
		totalMinutes = int(end.Sub(start) / time.Minute)
	}
	hours := (totalMinutes + 59) / 60
	amount := int64(hours) * rate
	if amount < rate {
		amount = rate
	}

	seg := Segment{
		Period:      "fallback",
		StartTime:   start,
		EndTime:     end,
		Minutes:     totalMinutes,
		RateCents:   amount,
		Description: fmt.Sprintf("flat hourly fallback, %d hours billed", max(hours, 1)),
	}

	return Result{
		TotalAmountCents: amount,
		Breakdown:        []Segment{seg},
		TotalMinutes:     totalMinutes,
		Status:           StatusNormal,
		Summary:          fmt.Sprintf("%s flat rate applied over %d minutes, %d cents total", FallbackSummaryPrefix, totalMinutes, amount),
	}
}

// CalculatePreview prices a hypothetical rental of the given duration.
func CalculatePreview(durationMinutes int, start time.Time, cfg Config) (Result, error) {
	return Calculate(start, start.Add(time.Duration(durationMinutes)*time.Minute), cfg)
}

// ExampleSet holds representative calculations for UI preview.
type ExampleSet struct {
	Day   []Result `json:"day"`
	Night []Result `json:"night"`
}

var exampleDurations = []int{30, 60, 120, 180}

// Examples computes fixed representative durations at a fixed daytime start
// and at a start 15 minutes ahead of the night-charge instant.
func Examples(cfg Config) (ExampleSet, error) {
	if err := cfg.Validate(); err != nil {
		return ExampleSet{}, fmt.Errorf("pricing config rejected: %w", err)
	}
	nightHour, nightMinute, _ := ParseClockTime(cfg.NightChargeTime)

	// A fixed reference date keeps the preview deterministic.
	dayStart := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	nightStart := time.Date(2024, 1, 15, nightHour, nightMinute, 0, 0, time.UTC).Add(-15 * time.Minute)

	var set ExampleSet
	for _, d := range exampleDurations {
		dayResult, err := CalculatePreview(d, dayStart, cfg)
		if err != nil {
			return ExampleSet{}, err
		}
		nightResult, err := CalculatePreview(d, nightStart, cfg)
		if err != nil {
			return ExampleSet{}, err
		}
		set.Day = append(set.Day, dayResult)
		set.Night = append(set.Night, nightResult)
	}
	return set, nil
}

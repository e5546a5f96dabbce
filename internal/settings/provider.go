package settings

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wheelhouse-backend/internal/config"
	"wheelhouse-backend/internal/domain"
	"wheelhouse-backend/internal/logger"
	"wheelhouse-backend/internal/pricing"
	"wheelhouse-backend/internal/repository"
)

// Settings is the consumer-facing view of the operational configuration.
type Settings struct {
	Pricing               pricing.Config
	StartDelayMinutes     int
	RoundToNearestMinutes int
}

// Defaults returns the hard-coded settings used when nothing valid has ever
// been fetched.
func Defaults() Settings {
	return Settings{
		Pricing:               pricing.DefaultConfig(),
		StartDelayMinutes:     10,
		RoundToNearestMinutes: 5,
	}
}

// FromConfig builds the fallback settings from the configured defaults.
// Load already fills any missing fields, so the result always validates.
func FromConfig(p config.PricingDefaults) Settings {
	return Settings{
		Pricing: pricing.Config{
			HourlyRateCents: p.HourlyRateCents,
			GraceMinutes:    p.GraceMinutes,
			BlockMinutes:    p.BlockMinutes,
			NightChargeTime: p.NightChargeTime,
			NightMultiplier: p.NightMultiplier,
		},
		StartDelayMinutes:     p.StartDelayMinutes,
		RoundToNearestMinutes: p.RoundToNearestMinutes,
	}
}

// Validate rejects settings the pricing engine or scheduler could not use.
func (s Settings) Validate() error {
	if err := s.Pricing.Validate(); err != nil {
		return err
	}
	if s.StartDelayMinutes < 0 {
		return fmt.Errorf("start delay must not be negative, got %d", s.StartDelayMinutes)
	}
	if s.RoundToNearestMinutes < 1 || s.RoundToNearestMinutes > 60 {
		return fmt.Errorf("round-to-nearest must be between 1 and 60, got %d", s.RoundToNearestMinutes)
	}
	return nil
}

// Provider supplies the current settings. Get never fails: consumers tolerate
// a fetch failure by receiving last-known-good or default values instead.
type Provider interface {
	Get(ctx context.Context) Settings
	Refresh(ctx context.Context) error
}

// CachedProvider reads settings through a repository with a bounded cache
// window. A failed or invalid fetch serves the previous good value; before
// any good fetch it serves defaults.
type CachedProvider struct {
	repo     repository.SettingsRepository
	ttl      time.Duration
	defaults Settings

	mu        sync.Mutex
	cached    Settings
	haveGood  bool
	fetchedAt time.Time
}

func NewCachedProvider(repo repository.SettingsRepository, ttl time.Duration, defaults Settings) *CachedProvider {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedProvider{repo: repo, ttl: ttl, defaults: defaults}
}

func (p *CachedProvider) Get(ctx context.Context) Settings {
	p.mu.Lock()
	if p.haveGood && time.Since(p.fetchedAt) < p.ttl {
		s := p.cached
		p.mu.Unlock()
		return s
	}
	p.mu.Unlock()

	if err := p.Refresh(ctx); err != nil {
		logger.Warn("settings fetch failed, serving fallback", "error", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.haveGood {
		return p.cached
	}
	return p.defaults
}

func (p *CachedProvider) Refresh(ctx context.Context) error {
	stored, err := p.repo.Get(ctx)
	if err != nil {
		return fmt.Errorf("fetch settings: %w", err)
	}
	s := fromRecord(stored)
	if err := s.Validate(); err != nil {
		return fmt.Errorf("stored settings rejected: %w", err)
	}

	p.mu.Lock()
	p.cached = s
	p.haveGood = true
	p.fetchedAt = time.Now()
	p.mu.Unlock()
	return nil
}

func fromRecord(r *domain.RentalSettings) Settings {
	return Settings{
		Pricing: pricing.Config{
			HourlyRateCents: r.HourlyRateCents,
			GraceMinutes:    r.GraceMinutes,
			BlockMinutes:    r.BlockMinutes,
			NightChargeTime: r.NightChargeTime,
			NightMultiplier: r.NightMultiplier,
		},
		StartDelayMinutes:     r.StartDelayMinutes,
		RoundToNearestMinutes: r.RoundToNearestMinutes,
	}
}

// StaticProvider serves a fixed configuration. Used in tests.
type StaticProvider struct {
	Settings Settings
}

func (p StaticProvider) Get(ctx context.Context) Settings { return p.Settings }
func (p StaticProvider) Refresh(ctx context.Context) error { return nil }

// ScheduledStart computes the booking start time: now plus the configured
// delay, rounded up to the next multiple of RoundToNearestMinutes. Seconds
// are rounded up to a whole minute first; the hour boundary rolls over
// naturally through time arithmetic.
func ScheduledStart(now time.Time, s Settings) time.Time {
	t := now.Add(time.Duration(s.StartDelayMinutes) * time.Minute)
	if t.Second() > 0 || t.Nanosecond() > 0 {
		t = t.Truncate(time.Minute).Add(time.Minute)
	}
	if r := s.RoundToNearestMinutes; r > 1 {
		if rem := t.Minute() % r; rem != 0 {
			t = t.Add(time.Duration(r-rem) * time.Minute)
		}
	}
	return t
}

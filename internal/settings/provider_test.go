package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"wheelhouse-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockSettingsRepo struct {
	mock.Mock
}

func (m *MockSettingsRepo) Get(ctx context.Context) (*domain.RentalSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalSettings), args.Error(1)
}

func (m *MockSettingsRepo) Update(ctx context.Context, s *domain.RentalSettings) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func storedSettings() *domain.RentalSettings {
	return &domain.RentalSettings{
		HourlyRateCents:       8000,
		GraceMinutes:          15,
		BlockMinutes:          30,
		NightChargeTime:       "22:30",
		NightMultiplier:       2,
		StartDelayMinutes:     10,
		RoundToNearestMinutes: 5,
	}
}

func TestCachedProvider_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Fetches and caches within TTL", func(t *testing.T) {
		repo := new(MockSettingsRepo)
		repo.On("Get", ctx).Return(storedSettings(), nil).Once()

		p := NewCachedProvider(repo, time.Minute, Defaults())
		s := p.Get(ctx)
		assert.Equal(t, int64(8000), s.Pricing.HourlyRateCents)

		// Second read served from cache, no repo call.
		s = p.Get(ctx)
		assert.Equal(t, 10, s.StartDelayMinutes)
		repo.AssertNumberOfCalls(t, "Get", 1)
	})

	t.Run("Serves defaults before any good fetch", func(t *testing.T) {
		repo := new(MockSettingsRepo)
		repo.On("Get", ctx).Return(nil, errors.New("db down"))

		p := NewCachedProvider(repo, time.Minute, Defaults())
		s := p.Get(ctx)
		assert.Equal(t, Defaults(), s)
	})

	t.Run("Serves last known good on fetch failure", func(t *testing.T) {
		repo := new(MockSettingsRepo)
		repo.On("Get", ctx).Return(storedSettings(), nil).Once()
		repo.On("Get", ctx).Return(nil, errors.New("db down"))

		p := NewCachedProvider(repo, time.Nanosecond, Defaults())
		first := p.Get(ctx)
		time.Sleep(time.Millisecond) // expire the cache window
		second := p.Get(ctx)
		assert.Equal(t, first, second)
		assert.Equal(t, int64(8000), second.Pricing.HourlyRateCents)
	})

	t.Run("Rejects invalid stored settings", func(t *testing.T) {
		bad := storedSettings()
		bad.NightMultiplier = 99
		repo := new(MockSettingsRepo)
		repo.On("Get", ctx).Return(bad, nil)

		p := NewCachedProvider(repo, time.Minute, Defaults())
		err := p.Refresh(ctx)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "stored settings rejected")
		assert.Equal(t, Defaults(), p.Get(ctx))
	})
}

func TestScheduledStart(t *testing.T) {
	base := Settings{StartDelayMinutes: 10, RoundToNearestMinutes: 5}

	t.Run("Delay plus round up", func(t *testing.T) {
		// 10:03 + 10min = 10:13, rounded up to 10:15.
		now := time.Date(2024, 3, 10, 10, 3, 0, 0, time.UTC)
		got := ScheduledStart(now, base)
		assert.Equal(t, time.Date(2024, 3, 10, 10, 15, 0, 0, time.UTC), got)
	})

	t.Run("Already on a boundary stays put", func(t *testing.T) {
		now := time.Date(2024, 3, 10, 10, 5, 0, 0, time.UTC)
		got := ScheduledStart(now, base)
		assert.Equal(t, time.Date(2024, 3, 10, 10, 15, 0, 0, time.UTC), got)
	})

	t.Run("Seconds round up to the next minute first", func(t *testing.T) {
		// 10:04:30 + 10min = 10:14:30 -> 10:15 -> already a multiple of 5.
		now := time.Date(2024, 3, 10, 10, 4, 30, 0, time.UTC)
		got := ScheduledStart(now, base)
		assert.Equal(t, time.Date(2024, 3, 10, 10, 15, 0, 0, time.UTC), got)
	})

	t.Run("Rolls over the hour boundary", func(t *testing.T) {
		// 10:52 + 10min = 11:02, rounded up to 11:05.
		now := time.Date(2024, 3, 10, 10, 52, 0, 0, time.UTC)
		got := ScheduledStart(now, base)
		assert.Equal(t, time.Date(2024, 3, 10, 11, 5, 0, 0, time.UTC), got)
	})

	t.Run("No rounding when granularity is one minute", func(t *testing.T) {
		s := Settings{StartDelayMinutes: 3, RoundToNearestMinutes: 1}
		now := time.Date(2024, 3, 10, 10, 11, 0, 0, time.UTC)
		got := ScheduledStart(now, s)
		assert.Equal(t, time.Date(2024, 3, 10, 10, 14, 0, 0, time.UTC), got)
	})
}

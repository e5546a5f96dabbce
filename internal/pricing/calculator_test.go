package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testConfig() Config {
	return Config{
		HourlyRateCents: 80,
		GraceMinutes:    15,
		BlockMinutes:    30,
		NightChargeTime: "22:30",
		NightMultiplier: 2,
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2024, 3, 10, hour, minute, 0, 0, time.UTC)
}

func TestParseClockTime(t *testing.T) {
	t.Run("Valid time", func(t *testing.T) {
		h, m, err := ParseClockTime("22:30")
		assert.NoError(t, err)
		assert.Equal(t, 22, h)
		assert.Equal(t, 30, m)
	})

	t.Run("Invalid format", func(t *testing.T) {
		_, _, err := ParseClockTime("2230")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid time format")
	})

	t.Run("Hour out of range", func(t *testing.T) {
		_, _, err := ParseClockTime("24:00")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "hour must be between 0 and 23")
	})

	t.Run("Minute out of range", func(t *testing.T) {
		_, _, err := ParseClockTime("10:60")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "minute must be between 0 and 59")
	})
}

func TestConfigValidate(t *testing.T) {
	t.Run("Valid config", func(t *testing.T) {
		assert.NoError(t, testConfig().Validate())
	})

	t.Run("Default config is valid", func(t *testing.T) {
		assert.NoError(t, DefaultConfig().Validate())
	})

	t.Run("Zero hourly rate", func(t *testing.T) {
		cfg := testConfig()
		cfg.HourlyRateCents = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("Grace minutes out of range", func(t *testing.T) {
		cfg := testConfig()
		cfg.GraceMinutes = 61
		assert.Error(t, cfg.Validate())
	})

	t.Run("Block minutes out of range", func(t *testing.T) {
		cfg := testConfig()
		cfg.BlockMinutes = 0
		assert.Error(t, cfg.Validate())
		cfg.BlockMinutes = 121
		assert.Error(t, cfg.Validate())
	})

	t.Run("Bad night charge time", func(t *testing.T) {
		cfg := testConfig()
		cfg.NightChargeTime = "25:99"
		assert.Error(t, cfg.Validate())
	})

	t.Run("Night multiplier out of range", func(t *testing.T) {
		cfg := testConfig()
		cfg.NightMultiplier = 6
		assert.Error(t, cfg.Validate())
	})
}

func TestCalculate_EdgeCases(t *testing.T) {
	cfg := testConfig()

	t.Run("End before start is pre-start", func(t *testing.T) {
		res, err := Calculate(at(12, 0), at(11, 30), cfg)
		assert.NoError(t, err)
		assert.Equal(t, StatusPreStart, res.Status)
		assert.Equal(t, int64(0), res.TotalAmountCents)
		assert.Contains(t, res.Summary, "30 minutes")
		assert.Empty(t, res.Breakdown)
	})

	t.Run("Pre-start gap rounds up", func(t *testing.T) {
		start := at(12, 0).Add(30 * time.Second)
		res, err := Calculate(start, at(12, 0), cfg)
		assert.NoError(t, err)
		assert.Equal(t, StatusPreStart, res.Status)
		assert.Contains(t, res.Summary, "1 minutes")
	})

	t.Run("Equal timestamps is just-started", func(t *testing.T) {
		res, err := Calculate(at(10, 0), at(10, 0), cfg)
		assert.NoError(t, err)
		assert.Equal(t, StatusJustStarted, res.Status)
		assert.Equal(t, int64(0), res.TotalAmountCents)
		assert.Equal(t, 0, res.TotalMinutes)
	})

	t.Run("Sub-minute elapsed is just-started", func(t *testing.T) {
		res, err := Calculate(at(10, 0), at(10, 0).Add(45*time.Second), cfg)
		assert.NoError(t, err)
		assert.Equal(t, StatusJustStarted, res.Status)
	})

	t.Run("Invalid config is rejected", func(t *testing.T) {
		bad := testConfig()
		bad.HourlyRateCents = -1
		_, err := Calculate(at(10, 0), at(11, 0), bad)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "pricing config rejected")
	})
}

func TestCalculate_Tiering(t *testing.T) {
	cfg := testConfig()

	t.Run("Rental shorter than first segment", func(t *testing.T) {
		// 40 minutes, less than 60+15.
		res, err := Calculate(at(10, 0), at(10, 40), cfg)
		assert.NoError(t, err)
		assert.Equal(t, StatusNormal, res.Status)
		assert.Len(t, res.Breakdown, 1)
		assert.Equal(t, "initial", res.Breakdown[0].Period)
		assert.Equal(t, 40, res.Breakdown[0].Minutes)
		assert.Equal(t, int64(80), res.TotalAmountCents)
	})

	t.Run("Exactly first hour plus grace is one segment", func(t *testing.T) {
		res, err := Calculate(at(10, 0), at(11, 15), cfg)
		assert.NoError(t, err)
		assert.Len(t, res.Breakdown, 1)
		assert.Equal(t, 75, res.Breakdown[0].Minutes)
		assert.Equal(t, int64(80), res.TotalAmountCents)
	})

	t.Run("One minute over grace opens a second segment", func(t *testing.T) {
		res, err := Calculate(at(10, 0), at(11, 16), cfg)
		assert.NoError(t, err)
		assert.Len(t, res.Breakdown, 2)
		assert.Equal(t, "block-2", res.Breakdown[1].Period)
		assert.Equal(t, 1, res.Breakdown[1].Minutes)
		assert.Equal(t, int64(40), res.Breakdown[1].RateCents)
		assert.Equal(t, int64(120), res.TotalAmountCents)
	})

	t.Run("Daytime rental 10:00 to 12:07", func(t *testing.T) {
		res, err := Calculate(at(10, 0), at(12, 7), cfg)
		assert.NoError(t, err)
		assert.Equal(t, 127, res.TotalMinutes)
		assert.Equal(t, int64(160), res.TotalAmountCents)
		assert.Len(t, res.Breakdown, 3)

		assert.Equal(t, at(10, 0), res.Breakdown[0].StartTime)
		assert.Equal(t, at(11, 15), res.Breakdown[0].EndTime)
		assert.Equal(t, int64(80), res.Breakdown[0].RateCents)

		assert.Equal(t, at(11, 15), res.Breakdown[1].StartTime)
		assert.Equal(t, at(11, 45), res.Breakdown[1].EndTime)
		assert.Equal(t, int64(40), res.Breakdown[1].RateCents)

		assert.Equal(t, at(11, 45), res.Breakdown[2].StartTime)
		assert.Equal(t, at(12, 7), res.Breakdown[2].EndTime)
		assert.Equal(t, 22, res.Breakdown[2].Minutes)
		assert.Equal(t, int64(40), res.Breakdown[2].RateCents)
	})

	t.Run("Half rate rounds half up for odd rates", func(t *testing.T) {
		odd := testConfig()
		odd.HourlyRateCents = 81
		res, err := Calculate(at(10, 0), at(11, 45), odd)
		assert.NoError(t, err)
		assert.Len(t, res.Breakdown, 2)
		assert.Equal(t, int64(41), res.Breakdown[1].RateCents)
	})
}

func TestCalculate_NightCliff(t *testing.T) {
	cfg := testConfig()

	t.Run("Segment straddling the threshold is night-rated", func(t *testing.T) {
		res, err := Calculate(at(22, 29), at(22, 31), cfg)
		assert.NoError(t, err)
		assert.Len(t, res.Breakdown, 1)
		assert.True(t, res.Breakdown[0].IsNightCharge)
		assert.Equal(t, int64(160), res.Breakdown[0].RateCents)
	})

	t.Run("Segment entirely before the threshold is not", func(t *testing.T) {
		res, err := Calculate(at(22, 0), at(22, 29), cfg)
		assert.NoError(t, err)
		assert.Len(t, res.Breakdown, 1)
		assert.False(t, res.Breakdown[0].IsNightCharge)
		assert.Equal(t, int64(80), res.TotalAmountCents)
	})

	t.Run("Segment entirely after the threshold is not", func(t *testing.T) {
		res, err := Calculate(at(22, 31), at(23, 0), cfg)
		assert.NoError(t, err)
		assert.Len(t, res.Breakdown, 1)
		assert.False(t, res.Breakdown[0].IsNightCharge)
	})

	t.Run("Segment starting exactly at the threshold is night-rated", func(t *testing.T) {
		res, err := Calculate(at(22, 30), at(23, 0), cfg)
		assert.NoError(t, err)
		assert.True(t, res.Breakdown[0].IsNightCharge)
	})

	t.Run("First segment capped and night-rated 22:00 to 23:00", func(t *testing.T) {
		res, err := Calculate(at(22, 0), at(23, 0), cfg)
		assert.NoError(t, err)
		assert.Equal(t, 60, res.TotalMinutes)
		assert.Len(t, res.Breakdown, 1)
		assert.Equal(t, 60, res.Breakdown[0].Minutes)
		assert.True(t, res.Breakdown[0].IsNightCharge)
		assert.Equal(t, int64(160), res.TotalAmountCents)
	})
}

func TestCalculate_Properties(t *testing.T) {
	cfg := testConfig()

	t.Run("Segments are contiguous and cover the interval", func(t *testing.T) {
		start := at(9, 17)
		end := at(14, 3)
		res, err := Calculate(start, end, cfg)
		assert.NoError(t, err)

		sum := 0
		cursor := start
		for _, seg := range res.Breakdown {
			assert.Equal(t, cursor, seg.StartTime)
			assert.Equal(t, seg.StartTime.Add(time.Duration(seg.Minutes)*time.Minute), seg.EndTime)
			assert.Positive(t, seg.Minutes)
			cursor = seg.EndTime
			sum += seg.Minutes
		}
		assert.Equal(t, res.TotalMinutes, sum)
		assert.Equal(t, end, cursor)
	})

	t.Run("Total equals sum of segment rates", func(t *testing.T) {
		res, err := Calculate(at(21, 0), at(23, 45), cfg)
		assert.NoError(t, err)
		var sum int64
		for _, seg := range res.Breakdown {
			sum += seg.RateCents
		}
		assert.Equal(t, res.TotalAmountCents, sum)
	})

	t.Run("Idempotent for identical inputs", func(t *testing.T) {
		a, err := Calculate(at(8, 0), at(12, 34), cfg)
		assert.NoError(t, err)
		b, err := Calculate(at(8, 0), at(12, 34), cfg)
		assert.NoError(t, err)
		assert.Equal(t, a, b)
	})
}

func TestFallback(t *testing.T) {
	cfg := testConfig()

	t.Run("Partial hour rounds up", func(t *testing.T) {
		res := Fallback(at(10, 0), at(12, 7), cfg)
		assert.Equal(t, int64(240), res.TotalAmountCents) // 3 hours * 80
		assert.Equal(t, 127, res.TotalMinutes)
		assert.True(t, res.IsFallback())
		assert.Len(t, res.Breakdown, 1)
		assert.Equal(t, "fallback", res.Breakdown[0].Period)
	})

	t.Run("Minimum one hour charge", func(t *testing.T) {
		res := Fallback(at(10, 0), at(10, 5), cfg)
		assert.Equal(t, int64(80), res.TotalAmountCents)
	})

	t.Run("Invalid rate falls back to default rate", func(t *testing.T) {
		bad := cfg
		bad.HourlyRateCents = 0
		res := Fallback(at(10, 0), at(11, 0), bad)
		assert.Equal(t, DefaultConfig().HourlyRateCents, res.TotalAmountCents)
	})
}

func TestCalculatePreview(t *testing.T) {
	cfg := testConfig()
	res, err := CalculatePreview(127, at(10, 0), cfg)
	assert.NoError(t, err)
	assert.Equal(t, 127, res.TotalMinutes)
	assert.Equal(t, int64(160), res.TotalAmountCents)
}

func TestExamples(t *testing.T) {
	cfg := testConfig()

	t.Run("Produces day and night sets", func(t *testing.T) {
		set, err := Examples(cfg)
		assert.NoError(t, err)
		assert.Len(t, set.Day, len(exampleDurations))
		assert.Len(t, set.Night, len(exampleDurations))
	})

	t.Run("Night examples cross the threshold", func(t *testing.T) {
		set, err := Examples(cfg)
		assert.NoError(t, err)
		// 30-minute night example starts 15 minutes before the instant, so its
		// single segment straddles it.
		assert.True(t, set.Night[0].Breakdown[0].IsNightCharge)
		assert.False(t, set.Day[0].Breakdown[0].IsNightCharge)
	})

	t.Run("Invalid config is rejected", func(t *testing.T) {
		bad := cfg
		bad.NightMultiplier = 0
		_, err := Examples(bad)
		assert.Error(t, err)
	})
}

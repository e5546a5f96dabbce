package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"wheelhouse-backend/internal/domain"
	"wheelhouse-backend/internal/repository"
)

type settingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

// The rental_settings table holds a single row (id = 1).

func (r *settingsRepository) Get(ctx context.Context) (*domain.RentalSettings, error) {
	s := &domain.RentalSettings{}
	query := `SELECT hourly_rate_cents, grace_minutes, block_minutes, night_charge_time,
	          night_multiplier, start_delay_minutes, round_to_nearest_minutes, updated_on
	          FROM rental_settings WHERE id = 1`
	err := r.db.QueryRowContext(ctx, query).Scan(&s.HourlyRateCents, &s.GraceMinutes, &s.BlockMinutes,
		&s.NightChargeTime, &s.NightMultiplier, &s.StartDelayMinutes, &s.RoundToNearestMinutes, &s.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSettingsNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *settingsRepository) Update(ctx context.Context, s *domain.RentalSettings) error {
	query := `INSERT INTO rental_settings (id, hourly_rate_cents, grace_minutes, block_minutes,
	          night_charge_time, night_multiplier, start_delay_minutes, round_to_nearest_minutes, updated_on)
	          VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8)
	          ON CONFLICT (id) DO UPDATE SET hourly_rate_cents=$1, grace_minutes=$2, block_minutes=$3,
	          night_charge_time=$4, night_multiplier=$5, start_delay_minutes=$6,
	          round_to_nearest_minutes=$7, updated_on=$8`
	_, err := r.db.ExecContext(ctx, query, s.HourlyRateCents, s.GraceMinutes, s.BlockMinutes,
		s.NightChargeTime, s.NightMultiplier, s.StartDelayMinutes, s.RoundToNearestMinutes, time.Now())
	return err
}

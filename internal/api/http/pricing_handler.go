package http

import (
	"fmt"
	"net/http"
	"time"

	"wheelhouse-backend/internal/domain"
	"wheelhouse-backend/internal/pricing"
	"wheelhouse-backend/internal/repository"
	"wheelhouse-backend/internal/settings"
)

// PricingHandler serves rate previews and the operational settings endpoints.
type PricingHandler struct {
	provider     settings.Provider
	settingsRepo repository.SettingsRepository
}

func NewPricingHandler(provider settings.Provider, settingsRepo repository.SettingsRepository) *PricingHandler {
	return &PricingHandler{provider: provider, settingsRepo: settingsRepo}
}

// Examples returns worked rate examples for display at the rental desk.
func (h *PricingHandler) Examples(w http.ResponseWriter, r *http.Request) {
	cfg := h.provider.Get(r.Context()).Pricing
	examples, err := pricing.Examples(cfg)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, examples)
}

type previewRequest struct {
	DurationMinutes int        `json:"duration_minutes"`
	StartTime       *time.Time `json:"start_time,omitempty"`
}

func (h *PricingHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.DurationMinutes <= 0 {
		writeError(w, fmt.Errorf("duration must be positive: %w", domain.ErrValidation))
		return
	}

	start := time.Now()
	if req.StartTime != nil {
		start = *req.StartTime
	}

	cfg := h.provider.Get(r.Context()).Pricing
	result, err := pricing.CalculatePreview(req.DurationMinutes, start, cfg)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *PricingHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	stored, err := h.settingsRepo.Get(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (h *PricingHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req domain.RentalSettings
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	candidate := settings.Settings{
		Pricing: pricing.Config{
			HourlyRateCents: req.HourlyRateCents,
			GraceMinutes:    req.GraceMinutes,
			BlockMinutes:    req.BlockMinutes,
			NightChargeTime: req.NightChargeTime,
			NightMultiplier: req.NightMultiplier,
		},
		StartDelayMinutes:     req.StartDelayMinutes,
		RoundToNearestMinutes: req.RoundToNearestMinutes,
	}
	if err := candidate.Validate(); err != nil {
		writeError(w, fmt.Errorf("%s: %w", err, domain.ErrValidation))
		return
	}

	req.UpdatedOn = time.Now().UTC()
	if err := h.settingsRepo.Update(r.Context(), &req); err != nil {
		writeError(w, err)
		return
	}

	// Push the new values into the cache so subsequent bookings use them.
	if err := h.provider.Refresh(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &req)
}

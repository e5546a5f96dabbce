package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"wheelhouse-backend/internal/config"
	"wheelhouse-backend/internal/repository"
	"wheelhouse-backend/internal/security"
	"wheelhouse-backend/internal/service"
	"wheelhouse-backend/internal/settings"
)

// NewRouter wires all API routes. Everything under /api/v1 except login and
// the health check requires a staff token.
func NewRouter(
	cfg *config.Config,
	tokens security.TokenManager,
	bookings service.BookingService,
	vehicles service.VehicleService,
	provider settings.Provider,
	settingsRepo repository.SettingsRepository,
) *mux.Router {
	authHandler := NewAuthHandler(cfg.Auth.Staff, tokens)
	bookingHandler := NewBookingHandler(bookings)
	vehicleHandler := NewVehicleHandler(vehicles)
	pricingHandler := NewPricingHandler(provider, settingsRepo)

	router := mux.NewRouter()
	router.Use(LoggingMiddleware)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	router.HandleFunc("/api/v1/auth/login", authHandler.Login).Methods("POST")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tokens))

	api.HandleFunc("/bookings", bookingHandler.Create).Methods("POST")
	api.HandleFunc("/bookings", bookingHandler.List).Methods("GET")
	api.HandleFunc("/bookings/{id}", bookingHandler.Get).Methods("GET")
	api.HandleFunc("/bookings/{id}/complete", bookingHandler.Complete).Methods("POST")
	api.HandleFunc("/bookings/{id}/cancel", bookingHandler.Cancel).Methods("POST")
	api.HandleFunc("/bookings/{id}/current-amount", bookingHandler.CurrentAmount).Methods("GET")

	api.HandleFunc("/vehicles", vehicleHandler.List).Methods("GET")
	api.HandleFunc("/vehicles/{id}/status", vehicleHandler.SetMaintenance).Methods("PATCH")

	api.HandleFunc("/pricing/examples", pricingHandler.Examples).Methods("GET")
	api.HandleFunc("/pricing/preview", pricingHandler.Preview).Methods("POST")
	api.HandleFunc("/settings", pricingHandler.GetSettings).Methods("GET")
	api.HandleFunc("/settings", pricingHandler.UpdateSettings).Methods("PUT")

	return router
}

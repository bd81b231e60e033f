package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/oarouay/sayara-sub000/internal/security"
	"github.com/oarouay/sayara-sub000/internal/service"
)

// NewRouter wires all REST routes. Availability queries are public; everything
// touching reservations requires a resolved actor.
func NewRouter(bookings service.BookingService, tokens security.TokenManager) *mux.Router {
	reservations := NewReservationHandler(bookings)
	availability := NewAvailabilityHandler(bookings)

	router := mux.NewRouter()
	router.Use(LoggingMiddleware)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	public := router.PathPrefix("/api/v1").Subrouter()
	public.HandleFunc("/vehicles/{id}/availability", availability.Check).Methods("GET")
	public.HandleFunc("/vehicles/{id}/next-available", availability.NextAvailable).Methods("GET")
	public.HandleFunc("/vehicles/{id}/classification", availability.Classify).Methods("GET")

	authed := router.PathPrefix("/api/v1").Subrouter()
	authed.Use(AuthMiddleware(tokens))
	authed.HandleFunc("/reservations", reservations.Create).Methods("POST")
	authed.HandleFunc("/reservations/{id}", reservations.Get).Methods("GET")
	authed.HandleFunc("/reservations/{id}", reservations.Update).Methods("PATCH")
	authed.HandleFunc("/reservations/{id}", reservations.Delete).Methods("DELETE")
	authed.HandleFunc("/reservations/{id}/cancel", reservations.Cancel).Methods("POST")
	authed.HandleFunc("/reservations/{id}/transition", reservations.Transition).Methods("POST")
	authed.HandleFunc("/customers/{id}/reservations", reservations.ListByCustomer).Methods("GET")
	authed.HandleFunc("/vehicles/{id}/reservations", reservations.ListByVehicle).Methods("GET")
	authed.HandleFunc("/payments/confirm", reservations.ConfirmPayment).Methods("POST")

	return router
}

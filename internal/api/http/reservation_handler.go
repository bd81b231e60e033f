package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/oarouay/sayara-sub000/internal/domain"
	"github.com/oarouay/sayara-sub000/internal/service"
)

const dateLayout = "2006-01-02"

// ReservationHandler exposes the booking operations over REST.
type ReservationHandler struct {
	bookings service.BookingService
}

func NewReservationHandler(bookings service.BookingService) *ReservationHandler {
	return &ReservationHandler{bookings: bookings}
}

type createReservationRequest struct {
	VehicleID      string          `json:"vehicle_id"`
	CustomerID     string          `json:"customer_id,omitempty"`
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	Pickup         domain.Location `json:"pickup"`
	Dropoff        domain.Location `json:"dropoff"`
	InsuranceOpted bool            `json:"insurance_opted"`

	DailyRateOverrideCents *int64 `json:"daily_rate_override_cents,omitempty"`
	TotalCostOverrideCents *int64 `json:"total_cost_override_cents,omitempty"`
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no actor on request")
		return
	}

	var req createReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Customers always book for themselves; only operators may book on a
	// customer's behalf.
	customerID := actor.UserID
	if actor.IsOperator() && req.CustomerID != "" {
		customerID = req.CustomerID
	}

	start, end, err := parseDates(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	in := service.CreateReservationInput{
		VehicleID:              req.VehicleID,
		CustomerID:             customerID,
		StartDate:              start,
		EndDate:                end,
		Pickup:                 req.Pickup,
		Dropoff:                req.Dropoff,
		InsuranceOpted:         req.InsuranceOpted,
		DailyRateOverrideCents: req.DailyRateOverrideCents,
		TotalCostOverrideCents: req.TotalCostOverrideCents,
	}
	if !actor.IsOperator() {
		in.DailyRateOverrideCents = nil
		in.TotalCostOverrideCents = nil
	}

	res, err := h.bookings.Create(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no actor on request")
		return
	}

	res, err := h.bookings.Get(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type updateReservationRequest struct {
	StartDate   *string          `json:"start_date,omitempty"`
	EndDate     *string          `json:"end_date,omitempty"`
	Pickup      *domain.Location `json:"pickup,omitempty"`
	Dropoff     *domain.Location `json:"dropoff,omitempty"`
	PlateNumber *string          `json:"plate_number,omitempty"`
}

func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no actor on request")
		return
	}

	var req updateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := domain.ReservationPatch{
		Pickup:      req.Pickup,
		Dropoff:     req.Dropoff,
		PlateNumber: req.PlateNumber,
	}
	if req.StartDate != nil {
		start, err := time.Parse(dateLayout, *req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start_date")
			return
		}
		patch.StartDate = &start
	}
	if req.EndDate != nil {
		end, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end_date")
			return
		}
		patch.EndDate = &end
	}

	res, err := h.bookings.Update(r.Context(), actor, mux.Vars(r)["id"], patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no actor on request")
		return
	}

	res, err := h.bookings.Cancel(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type transitionRequest struct {
	To string `json:"to"`
}

func (h *ReservationHandler) Transition(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no actor on request")
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	to := domain.ReservationStatus(req.To)
	switch to {
	case domain.ReservationStatusPending, domain.ReservationStatusActive,
		domain.ReservationStatusCompleted, domain.ReservationStatusCancelled:
	default:
		writeError(w, http.StatusBadRequest, "unknown target status")
		return
	}

	res, err := h.bookings.Transition(r.Context(), actor, mux.Vars(r)["id"], to)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no actor on request")
		return
	}

	if err := h.bookings.Delete(r.Context(), actor, mux.Vars(r)["id"]); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type listResponse struct {
	Reservations []domain.Reservation `json:"reservations"`
	Total        int32                `json:"total"`
	Page         int32                `json:"page"`
	PageSize     int32                `json:"page_size"`
}

func (h *ReservationHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no actor on request")
		return
	}

	page, pageSize := parsePagination(r)
	reservations, total, err := h.bookings.ListByCustomer(
		r.Context(), actor, mux.Vars(r)["id"], r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Reservations: reservations, Total: total, Page: page, PageSize: pageSize})
}

func (h *ReservationHandler) ListByVehicle(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no actor on request")
		return
	}

	page, pageSize := parsePagination(r)
	reservations, total, err := h.bookings.ListByVehicle(
		r.Context(), actor, mux.Vars(r)["id"], r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Reservations: reservations, Total: total, Page: page, PageSize: pageSize})
}

type confirmPaymentRequest struct {
	ReservationID string `json:"reservation_id"`
}

// ConfirmPayment is the payment collaborator's callback. The transition runs
// under the system actor; the route itself is operator-gated until provider
// signature verification lands.
func (h *ReservationHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no actor on request")
		return
	}
	if !actor.IsOperator() {
		writeError(w, http.StatusForbidden, "payment confirmation is operator only")
		return
	}

	var req confirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ReservationID == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.bookings.ConfirmPayment(r.Context(), req.ReservationID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func parseDates(startStr, endStr string) (time.Time, time.Time, error) {
	var zero time.Time
	if startStr == "" || endStr == "" {
		// Empty dates fall through as zero values so the service reports the
		// missing field by name.
		return zero, zero, nil
	}
	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		return zero, zero, err
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		return zero, zero, err
	}
	return start, end, nil
}

func parsePagination(r *http.Request) (page, pageSize int32) {
	page, pageSize = 1, 20
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil && v > 0 && v <= 100 {
		pageSize = int32(v)
	}
	return page, pageSize
}

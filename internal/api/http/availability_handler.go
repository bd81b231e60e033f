package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/oarouay/sayara-sub000/internal/logger"
	"github.com/oarouay/sayara-sub000/internal/service"
)

// AvailabilityHandler serves the display-path availability queries. These
// endpoints are read only and tolerate degraded reads.
type AvailabilityHandler struct {
	bookings service.BookingService
}

func NewAvailabilityHandler(bookings service.BookingService) *AvailabilityHandler {
	return &AvailabilityHandler{bookings: bookings}
}

func (h *AvailabilityHandler) Check(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse(dateLayout, r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start date")
		return
	}
	end, err := time.Parse(dateLayout, r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end date")
		return
	}

	available, err := h.bookings.IsAvailable(r.Context(), mux.Vars(r)["id"], start, end)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"available": available})
}

func (h *AvailabilityHandler) NextAvailable(w http.ResponseWriter, r *http.Request) {
	next, err := h.bookings.NextAvailableDate(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"next_available_date": next.Format(dateLayout)})
}

func (h *AvailabilityHandler) Classify(w http.ResponseWriter, r *http.Request) {
	vehicleID := mux.Vars(r)["id"]
	classification, err := h.bookings.ClassifyVehicle(r.Context(), vehicleID)
	// Classification fails open: a degraded read still yields a bucket, so the
	// listing is served either way.
	if err != nil {
		logger.Warn("serving degraded vehicle classification", "vehicle_id", vehicleID, "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"availability": string(classification)})
}

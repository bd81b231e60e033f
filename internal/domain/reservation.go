package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusActive    ReservationStatus = "ACTIVE"
	ReservationStatusCompleted ReservationStatus = "COMPLETED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

// IsTerminal reports whether no further transitions or edits are allowed.
func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationStatusCompleted || s == ReservationStatusCancelled
}

// MinimumRentalDays is the shortest bookable period.
const MinimumRentalDays = 30

// Coordinate is a WGS84 point. Optional on locations: a reservation may name a
// pickup spot without geocoding it.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location is a named pickup or dropoff spot with an optional coordinate.
type Location struct {
	Name       string      `json:"name"`
	Coordinate *Coordinate `json:"coordinate,omitempty"`
}

type Reservation struct {
	ID         string `json:"id"`
	VehicleID  string `json:"vehicle_id"`
	CustomerID string `json:"customer_id"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	// Price snapshot fields, captured at reservation creation time. All later
	// cost recomputation uses these snapshots, not live catalog prices.
	DailyRateCents      int64 `json:"daily_rate_cents"`
	InsuranceOpted      bool  `json:"insurance_opted"`
	InsuranceDailyCents int64 `json:"insurance_daily_cents"`
	DeliveryFeeCents    int64 `json:"delivery_fee_cents"`
	TotalCostCents      int64 `json:"total_cost_cents"`

	Pickup  Location `json:"pickup"`
	Dropoff Location `json:"dropoff"`

	// PlateNumber is the plate recorded for the handover paperwork. Editable
	// while the reservation is PENDING.
	PlateNumber string `json:"plate_number"`

	Status    ReservationStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// DurationDays is the exclusive day difference between start and end.
func (r *Reservation) DurationDays() int {
	return DaysBetween(r.StartDate, r.EndDate)
}

// Overlaps reports whether [r.StartDate, r.EndDate] intersects [start, end],
// endpoints inclusive.
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return !r.StartDate.After(end) && !start.After(r.EndDate)
}

// Blocking reports whether this reservation holds its vehicle's calendar.
func (r *Reservation) Blocking() bool {
	return r.Status == ReservationStatusPending || r.Status == ReservationStatusActive
}

// ReservationPatch carries the fields editable while a reservation is PENDING.
// Nil means "leave unchanged"; fields are validated one by one, never merged
// blindly.
type ReservationPatch struct {
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Pickup      *Location  `json:"pickup,omitempty"`
	Dropoff     *Location  `json:"dropoff,omitempty"`
	PlateNumber *string    `json:"plate_number,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p *ReservationPatch) Empty() bool {
	return p.StartDate == nil && p.EndDate == nil && p.Pickup == nil &&
		p.Dropoff == nil && p.PlateNumber == nil
}

// DaysBetween returns the number of whole days from a to b, rounding any
// partial day up. Dates are treated at day granularity, timezone-naive.
func DaysBetween(a, b time.Time) int {
	d := b.Sub(a)
	days := int(d.Hours() / 24)
	if d > time.Duration(days)*24*time.Hour {
		days++
	}
	return days
}

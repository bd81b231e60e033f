package domain

// VehicleAvailability classifies a vehicle for listings. Precedence when
// multiple reservations exist: RENTED > UNAVAILABLE > AVAILABLE.
type VehicleAvailability string

const (
	VehicleAvailable   VehicleAvailability = "AVAILABLE"
	VehicleUnavailable VehicleAvailability = "UNAVAILABLE"
	VehicleRented      VehicleAvailability = "RENTED"
)

type Vehicle struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	Make        string `json:"make"`
	Model       string `json:"model"`
	Year        int32  `json:"year"`
	PlateNumber string `json:"plate_number"`

	// Cost basis used by the rate calculator. Daily rates derive from these
	// by division over a 30-day month.
	MonthlyRateCents      int64 `json:"monthly_rate_cents"`
	InsuranceMonthlyCents int64 `json:"insurance_monthly_cents"`

	CreatedOn string `json:"created_on"`
	UpdatedOn string `json:"updated_on"`
}

// Package pricing derives the monetary terms of a candidate booking: daily
// rate, insurance daily cost, delivery fee and total, all in cents. A quote is
// a pure function of its input; it holds no state and never reads the clock.
package pricing

import (
	"math"
	"time"

	"github.com/oarouay/sayara-sub000/internal/domain"
	"github.com/oarouay/sayara-sub000/internal/geo"
)

// daysPerMonth is the divisor turning monthly cost bases into daily rates.
const daysPerMonth = 30

// Input describes one candidate booking to be priced.
type Input struct {
	MonthlyRateCents      int64
	InsuranceMonthlyCents int64
	InsuranceOpted        bool

	StartDate time.Time
	EndDate   time.Time

	// Dropoff, when geocoded, incurs a delivery fee from the depot origin.
	Dropoff *domain.Coordinate
	Origin  domain.Coordinate

	// Caller-asserted overrides (e.g. a negotiated price) are honored verbatim
	// instead of the derived values. Date-range validation still runs.
	DailyRateOverrideCents *int64
	TotalCostOverrideCents *int64
}

// Quote is the ephemeral result of a pricing computation. It is never
// persisted as-is; creation copies its fields onto the reservation snapshot.
type Quote struct {
	DailyRateCents      int64 `json:"daily_rate_cents"`
	InsuranceDailyCents int64 `json:"insurance_daily_cents"`
	DeliveryFeeCents    int64 `json:"delivery_fee_cents"`
	TotalCostCents      int64 `json:"total_cost_cents"`
	DurationDays        int   `json:"duration_days"`
}

// Compute prices the booking. It rejects inverted or empty date ranges with
// ErrInvalidRange; the minimum-duration rule is the booking service's concern.
func Compute(in Input) (Quote, error) {
	days := domain.DaysBetween(in.StartDate, in.EndDate)
	if days <= 0 {
		return Quote{}, domain.ErrInvalidRange
	}

	daily := DailyRateFromMonthly(in.MonthlyRateCents)
	if in.DailyRateOverrideCents != nil {
		daily = *in.DailyRateOverrideCents
	}

	var insuranceDaily int64
	if in.InsuranceOpted {
		insuranceDaily = DailyRateFromMonthly(in.InsuranceMonthlyCents)
	}

	var deliveryFee int64
	if in.Dropoff != nil {
		units := geo.DeliveryFeeUnits(in.Dropoff.Latitude, in.Dropoff.Longitude,
			in.Origin.Latitude, in.Origin.Longitude)
		deliveryFee = units * 100
	}

	total := (daily+insuranceDaily)*int64(days) + deliveryFee
	if in.TotalCostOverrideCents != nil {
		total = *in.TotalCostOverrideCents
	}

	return Quote{
		DailyRateCents:      daily,
		InsuranceDailyCents: insuranceDaily,
		DeliveryFeeCents:    deliveryFee,
		TotalCostCents:      total,
		DurationDays:        days,
	}, nil
}

// DailyRateFromMonthly divides a monthly cost basis over a 30-day month,
// rounding to the nearest cent.
func DailyRateFromMonthly(monthlyCents int64) int64 {
	return int64(math.Round(float64(monthlyCents) / daysPerMonth))
}

// Retotal recomputes a reservation total from its stored snapshot after a
// date-range edit. The rate is not renegotiated: only the day count changes,
// the stored delivery fee carries over.
func Retotal(dailyRateCents, insuranceDailyCents, deliveryFeeCents int64, days int) int64 {
	return (dailyRateCents+insuranceDailyCents)*int64(days) + deliveryFeeCents
}

package service

import (
	"context"
	"time"

	"github.com/oarouay/sayara-sub000/internal/domain"
)

// CreateReservationInput carries everything needed to open a booking. The
// override fields let an upstream negotiated price replace the derived one;
// they never bypass date validation.
type CreateReservationInput struct {
	VehicleID      string          `json:"vehicle_id"`
	CustomerID     string          `json:"customer_id"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	Pickup         domain.Location `json:"pickup"`
	Dropoff        domain.Location `json:"dropoff"`
	InsuranceOpted bool            `json:"insurance_opted"`

	DailyRateOverrideCents *int64 `json:"daily_rate_override_cents,omitempty"`
	TotalCostOverrideCents *int64 `json:"total_cost_override_cents,omitempty"`
}

type BookingService interface {
	Create(ctx context.Context, in CreateReservationInput) (*domain.Reservation, error)
	Get(ctx context.Context, actor domain.Actor, id string) (*domain.Reservation, error)
	Update(ctx context.Context, actor domain.Actor, id string, patch domain.ReservationPatch) (*domain.Reservation, error)
	Cancel(ctx context.Context, actor domain.Actor, id string) (*domain.Reservation, error)
	Transition(ctx context.Context, actor domain.Actor, id string, to domain.ReservationStatus) (*domain.Reservation, error)
	// ConfirmPayment activates a pending reservation on behalf of the payment
	// collaborator.
	ConfirmPayment(ctx context.Context, reservationID string) (*domain.Reservation, error)
	// Delete is the administrative hard delete, operator only.
	Delete(ctx context.Context, actor domain.Actor, id string) error

	ListByCustomer(ctx context.Context, actor domain.Actor, customerID string, status string, page, pageSize int32) ([]domain.Reservation, int32, error)
	ListByVehicle(ctx context.Context, actor domain.Actor, vehicleID string, status string, page, pageSize int32) ([]domain.Reservation, int32, error)

	IsAvailable(ctx context.Context, vehicleID string, start, end time.Time) (bool, error)
	NextAvailableDate(ctx context.Context, vehicleID string) (time.Time, error)
	ClassifyVehicle(ctx context.Context, vehicleID string) (domain.VehicleAvailability, error)
}

type EmailService interface {
	SendReservationRequested(ctx context.Context, email, name, vehicle string, start, end time.Time, totalCents int64) error
	SendReservationActivated(ctx context.Context, email, name, vehicle string) error
	SendReservationCancelled(ctx context.Context, email, name, vehicle string) error
	SendReservationCompleted(ctx context.Context, email, name, vehicle string, totalCents int64) error
	SendPickupReminder(ctx context.Context, email, name, vehicle, pickup string, start time.Time) error
}

package repository

import (
	"context"

	"github.com/oarouay/sayara-sub000/internal/domain"
)

type ReservationRepository interface {
	// CreateIfAvailable inserts the reservation only if no PENDING or ACTIVE
	// reservation of the same vehicle overlaps its date range. The insert and
	// the overlap check are one atomic statement; a conflicting writer gets
	// domain.ErrSlotUnavailable.
	CreateIfAvailable(ctx context.Context, r *domain.Reservation) error
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	// Update persists the editable fields as a single conditional write guarded
	// on the reservation still being PENDING. It returns false when the stored
	// status changed since the caller read it.
	Update(ctx context.Context, r *domain.Reservation) (bool, error)
	// UpdateStatus applies from -> to as a single conditional write. It
	// returns false when the stored status no longer equals from.
	UpdateStatus(ctx context.Context, id string, from, to domain.ReservationStatus) (bool, error)
	// ListBlockingByVehicle returns the vehicle's PENDING and ACTIVE
	// reservations.
	ListBlockingByVehicle(ctx context.Context, vehicleID string) ([]domain.Reservation, error)
	ListByCustomer(ctx context.Context, customerID string, status string, page, pageSize int32) ([]domain.Reservation, int32, error)
	ListByVehicle(ctx context.Context, vehicleID string, status string, page, pageSize int32) ([]domain.Reservation, int32, error)
	// Delete is the administrative hard delete outside the normal lifecycle.
	Delete(ctx context.Context, id string) error
}

type VehicleRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Vehicle, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

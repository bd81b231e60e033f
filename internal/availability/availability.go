// Package availability answers whether a vehicle can be booked for a date
// range and classifies vehicles for listings. It scans the vehicle's blocking
// reservations per request; there is no cached index.
package availability

import (
	"context"
	"time"

	"github.com/oarouay/sayara-sub000/internal/domain"
	"github.com/oarouay/sayara-sub000/internal/logger"
	"github.com/oarouay/sayara-sub000/internal/repository"
)

type Index struct {
	repo repository.ReservationRepository
	now  func() time.Time
}

func NewIndex(repo repository.ReservationRepository) *Index {
	return &Index{repo: repo, now: time.Now}
}

// IsAvailable reports whether no PENDING or ACTIVE reservation of the vehicle
// overlaps [start, end] (endpoints inclusive). On a repository error it fails
// closed: the caller on the booking path must not proceed.
func (ix *Index) IsAvailable(ctx context.Context, vehicleID string, start, end time.Time) (bool, error) {
	return ix.isAvailableExcluding(ctx, vehicleID, start, end, "")
}

// IsAvailableExcluding is IsAvailable ignoring one reservation, used when
// editing that reservation's own date range.
func (ix *Index) IsAvailableExcluding(ctx context.Context, vehicleID string, start, end time.Time, excludeID string) (bool, error) {
	return ix.isAvailableExcluding(ctx, vehicleID, start, end, excludeID)
}

func (ix *Index) isAvailableExcluding(ctx context.Context, vehicleID string, start, end time.Time, excludeID string) (bool, error) {
	blocking, err := ix.repo.ListBlockingByVehicle(ctx, vehicleID)
	if err != nil {
		return false, &domain.RepositoryError{Op: "ListBlockingByVehicle", Err: err}
	}
	for i := range blocking {
		if blocking[i].ID == excludeID {
			continue
		}
		if blocking[i].Overlaps(start, end) {
			return false, nil
		}
	}
	return true, nil
}

// NextAvailableDate returns the day after the latest blocking reservation
// ends, or today when the vehicle has none.
func (ix *Index) NextAvailableDate(ctx context.Context, vehicleID string) (time.Time, error) {
	blocking, err := ix.repo.ListBlockingByVehicle(ctx, vehicleID)
	if err != nil {
		return time.Time{}, &domain.RepositoryError{Op: "ListBlockingByVehicle", Err: err}
	}
	today := truncateToDay(ix.now())
	if len(blocking) == 0 {
		return today, nil
	}
	latest := blocking[0].EndDate
	for i := 1; i < len(blocking); i++ {
		if blocking[i].EndDate.After(latest) {
			latest = blocking[i].EndDate
		}
	}
	return truncateToDay(latest).AddDate(0, 0, 1), nil
}

// Classify buckets a vehicle for listings: RENTED when an ACTIVE reservation
// exists, UNAVAILABLE when a PENDING reservation covers now, AVAILABLE
// otherwise. A read error must not hide inventory from a listing, so it fails
// open and reports the vehicle available; the error is still returned for the
// caller to log.
func (ix *Index) Classify(ctx context.Context, vehicleID string) (domain.VehicleAvailability, error) {
	blocking, err := ix.repo.ListBlockingByVehicle(ctx, vehicleID)
	if err != nil {
		logger.Warn("availability classification degraded by read error", "vehicle_id", vehicleID, "error", err)
		return domain.VehicleAvailable, &domain.RepositoryError{Op: "ListBlockingByVehicle", Err: err}
	}

	now := ix.now()
	classification := domain.VehicleAvailable
	for i := range blocking {
		switch blocking[i].Status {
		case domain.ReservationStatusActive:
			return domain.VehicleRented, nil
		case domain.ReservationStatusPending:
			if blocking[i].Overlaps(now, now) {
				classification = domain.VehicleUnavailable
			}
		}
	}
	return classification, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

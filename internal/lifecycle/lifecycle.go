// Package lifecycle is the reservation state machine: it validates status
// transitions, enforces role permissions on them, and governs field edits
// while a reservation is still PENDING.
package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/oarouay/sayara-sub000/internal/availability"
	"github.com/oarouay/sayara-sub000/internal/domain"
	"github.com/oarouay/sayara-sub000/internal/pricing"
)

// allowedTransitions is the directed graph of legal status changes. COMPLETED
// and CANCELLED are terminal.
var allowedTransitions = map[domain.ReservationStatus][]domain.ReservationStatus{
	domain.ReservationStatusPending:   {domain.ReservationStatusActive, domain.ReservationStatusCancelled},
	domain.ReservationStatusActive:    {domain.ReservationStatusCompleted, domain.ReservationStatusCancelled},
	domain.ReservationStatusCompleted: {},
	domain.ReservationStatusCancelled: {},
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to domain.ReservationStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Manager struct {
	avail *availability.Index
}

func NewManager(avail *availability.Index) *Manager {
	return &Manager{avail: avail}
}

// Transition validates and applies a status change in memory. The caller
// persists it with a conditional write keyed on the prior status. The
// returned bool is false for the idempotent no-op case: the reservation is
// already in the requested terminal state and nothing was changed.
func (m *Manager) Transition(res *domain.Reservation, actor domain.Actor, to domain.ReservationStatus, now time.Time) (bool, error) {
	if actor.Role == domain.RoleCustomer && res.CustomerID != actor.UserID {
		return false, fmt.Errorf("%w: reservation belongs to another customer", domain.ErrForbidden)
	}

	// Reapplying a terminal transition tolerates duplicate client retries.
	if res.Status == to && to.IsTerminal() {
		return false, nil
	}

	switch actor.Role {
	case domain.RoleOperator:
		// Operators may attempt any table transition.
	case domain.RoleSystem:
		if res.Status != domain.ReservationStatusPending || to != domain.ReservationStatusActive {
			return false, fmt.Errorf("%w: system actor may only activate pending reservations", domain.ErrForbidden)
		}
	case domain.RoleCustomer:
		if res.Status != domain.ReservationStatusPending || to != domain.ReservationStatusCancelled {
			return false, fmt.Errorf("%w: customers may only cancel their own pending reservations", domain.ErrForbidden)
		}
	default:
		return false, domain.ErrForbidden
	}

	if !CanTransition(res.Status, to) {
		return false, &domain.InvalidTransitionError{From: res.Status, To: to}
	}

	res.Status = to
	res.UpdatedAt = now
	return true, nil
}

// UpdatePending applies a field patch to a PENDING reservation. Editable
// fields: pickup/dropoff locations, plate number, and the date range. A date
// change re-runs the full validation pipeline (range order, minimum duration,
// overlap excluding the reservation's own window) and recomputes the total
// from the stored rate snapshot; the rate itself is not renegotiated and the
// stored delivery fee carries over.
func (m *Manager) UpdatePending(ctx context.Context, res *domain.Reservation, actor domain.Actor, patch domain.ReservationPatch, now time.Time) error {
	if !actor.IsOperator() && (actor.Role != domain.RoleCustomer || res.CustomerID != actor.UserID) {
		return fmt.Errorf("%w: only the owning customer or an operator may edit", domain.ErrForbidden)
	}
	if res.Status != domain.ReservationStatusPending {
		return fmt.Errorf("%w: reservation in status %s is not editable", domain.ErrInvalidTransition, res.Status)
	}
	if patch.Empty() {
		return nil
	}

	if patch.StartDate != nil || patch.EndDate != nil {
		start, end := res.StartDate, res.EndDate
		if patch.StartDate != nil {
			start = *patch.StartDate
		}
		if patch.EndDate != nil {
			end = *patch.EndDate
		}
		days := domain.DaysBetween(start, end)
		if err := domain.ValidateDateRange(days); err != nil {
			return err
		}
		ok, err := m.avail.IsAvailableExcluding(ctx, res.VehicleID, start, end, res.ID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrSlotUnavailable
		}
		res.StartDate = start
		res.EndDate = end
		res.TotalCostCents = pricing.Retotal(res.DailyRateCents, res.InsuranceDailyCents, res.DeliveryFeeCents, days)
	}

	if patch.Pickup != nil {
		res.Pickup = *patch.Pickup
	}
	if patch.Dropoff != nil {
		res.Dropoff = *patch.Dropoff
	}
	if patch.PlateNumber != nil {
		res.PlateNumber = *patch.PlateNumber
	}
	res.UpdatedAt = now
	return nil
}

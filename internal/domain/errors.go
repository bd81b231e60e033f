package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy for the reservation engine. Every failure surfaced to a
// caller matches exactly one of these via errors.Is; the HTTP layer maps each
// to a single stable status code.
var (
	ErrMissingField      = errors.New("missing required field")
	ErrInvalidRange      = errors.New("end date must be after start date")
	ErrMinimumDuration   = errors.New("booking shorter than minimum duration")
	ErrSlotUnavailable   = errors.New("vehicle is not available for the requested dates")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("actor is not permitted to perform this operation")
	ErrNotFound          = errors.New("not found")
	ErrRepository        = errors.New("repository failure")
)

// MissingFieldError names the absent field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

// InvalidTransitionError carries the attempted (from, to) pair for
// diagnostics.
type InvalidTransitionError struct {
	From ReservationStatus
	To   ReservationStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// RepositoryError wraps a collaborator failure with the operation that hit it.
// The underlying cause stays reachable through Unwrap.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository failure in %s: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error { return e.Err }

func (e *RepositoryError) Is(target error) bool { return target == ErrRepository }

// ValidateDateRange enforces the ordering and minimum-length rules shared by
// creation and date edits.
func ValidateDateRange(days int) error {
	if days <= 0 {
		return ErrInvalidRange
	}
	if days < MinimumRentalDays {
		return fmt.Errorf("%w: got %d days, need %d", ErrMinimumDuration, days, MinimumRentalDays)
	}
	return nil
}

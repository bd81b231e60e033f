package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oarouay/sayara-sub000/internal/availability"
	"github.com/oarouay/sayara-sub000/internal/domain"
	"github.com/oarouay/sayara-sub000/internal/lifecycle"
	"github.com/oarouay/sayara-sub000/internal/logger"
	"github.com/oarouay/sayara-sub000/internal/pricing"
	"github.com/oarouay/sayara-sub000/internal/repository"
)

type bookingService struct {
	resRepo     repository.ReservationRepository
	vehicleRepo repository.VehicleRepository
	userRepo    repository.UserRepository
	avail       *availability.Index
	lc          *lifecycle.Manager
	emailSvc    EmailService
	depot       domain.Coordinate
	locks       *vehicleLocks
	now         func() time.Time
}

func NewBookingService(
	resRepo repository.ReservationRepository,
	vehicleRepo repository.VehicleRepository,
	userRepo repository.UserRepository,
	avail *availability.Index,
	lc *lifecycle.Manager,
	emailSvc EmailService,
	depot domain.Coordinate,
) BookingService {
	return &bookingService{
		resRepo:     resRepo,
		vehicleRepo: vehicleRepo,
		userRepo:    userRepo,
		avail:       avail,
		lc:          lc,
		emailSvc:    emailSvc,
		depot:       depot,
		locks:       newVehicleLocks(),
		now:         time.Now,
	}
}

func (s *bookingService) Create(ctx context.Context, in CreateReservationInput) (*domain.Reservation, error) {
	if err := validateCreateInput(in); err != nil {
		return nil, err
	}
	days := domain.DaysBetween(in.StartDate, in.EndDate)
	if err := domain.ValidateDateRange(days); err != nil {
		return nil, err
	}

	// Availability check, quote and insert form one critical section per
	// vehicle; bookings for other vehicles are not serialized by this.
	release := s.locks.acquire(in.VehicleID)
	defer release()

	vehicle, err := s.vehicleRepo.GetByID(ctx, in.VehicleID)
	if err != nil {
		return nil, repoErr("VehicleRepository.GetByID", err)
	}

	ok, err := s.avail.IsAvailable(ctx, in.VehicleID, in.StartDate, in.EndDate)
	if err != nil {
		// Fail closed: no availability claim can be made, so no booking.
		return nil, err
	}
	if !ok {
		return nil, domain.ErrSlotUnavailable
	}

	quote, err := pricing.Compute(pricing.Input{
		MonthlyRateCents:       vehicle.MonthlyRateCents,
		InsuranceMonthlyCents:  vehicle.InsuranceMonthlyCents,
		InsuranceOpted:         in.InsuranceOpted,
		StartDate:              in.StartDate,
		EndDate:                in.EndDate,
		Dropoff:                in.Dropoff.Coordinate,
		Origin:                 s.depot,
		DailyRateOverrideCents: in.DailyRateOverrideCents,
		TotalCostOverrideCents: in.TotalCostOverrideCents,
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	res := &domain.Reservation{
		ID:                  uuid.NewString(),
		VehicleID:           in.VehicleID,
		CustomerID:          in.CustomerID,
		StartDate:           in.StartDate,
		EndDate:             in.EndDate,
		DailyRateCents:      quote.DailyRateCents,
		InsuranceOpted:      in.InsuranceOpted,
		InsuranceDailyCents: quote.InsuranceDailyCents,
		DeliveryFeeCents:    quote.DeliveryFeeCents,
		TotalCostCents:      quote.TotalCostCents,
		Pickup:              in.Pickup,
		Dropoff:             in.Dropoff,
		PlateNumber:         vehicle.PlateNumber,
		Status:              domain.ReservationStatusPending,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.resRepo.CreateIfAvailable(ctx, res); err != nil {
		return nil, repoErr("ReservationRepository.CreateIfAvailable", err)
	}

	logger.Info("reservation created", "reservation_id", res.ID, "vehicle_id", res.VehicleID,
		"customer_id", res.CustomerID, "total_cost_cents", res.TotalCostCents)
	s.notifyRequested(ctx, res, vehicle)
	return res, nil
}

func (s *bookingService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Reservation, error) {
	res, err := s.resRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoErr("ReservationRepository.GetByID", err)
	}
	if actor.Role == domain.RoleCustomer && res.CustomerID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	return res, nil
}

func (s *bookingService) Update(ctx context.Context, actor domain.Actor, id string, patch domain.ReservationPatch) (*domain.Reservation, error) {
	res, err := s.resRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoErr("ReservationRepository.GetByID", err)
	}
	if err := s.lc.UpdatePending(ctx, res, actor, patch, s.now()); err != nil {
		return nil, err
	}
	ok, err := s.resRepo.Update(ctx, res)
	if err != nil {
		return nil, repoErr("ReservationRepository.Update", err)
	}
	if !ok {
		// A concurrent transition won between our read and the write; the
		// reservation is no longer editable.
		return nil, fmt.Errorf("%w: reservation left PENDING during edit", domain.ErrInvalidTransition)
	}
	logger.Info("reservation updated", "reservation_id", res.ID, "actor_id", actor.UserID)
	return res, nil
}

func (s *bookingService) Cancel(ctx context.Context, actor domain.Actor, id string) (*domain.Reservation, error) {
	return s.applyTransition(ctx, actor, id, domain.ReservationStatusCancelled)
}

func (s *bookingService) Transition(ctx context.Context, actor domain.Actor, id string, to domain.ReservationStatus) (*domain.Reservation, error) {
	return s.applyTransition(ctx, actor, id, to)
}

func (s *bookingService) ConfirmPayment(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	return s.applyTransition(ctx, domain.SystemActor, reservationID, domain.ReservationStatusActive)
}

// applyTransition validates the change through the lifecycle manager, then
// persists it with a conditional write keyed on the status it read. Losing
// that write to a concurrent transition surfaces as InvalidTransition.
func (s *bookingService) applyTransition(ctx context.Context, actor domain.Actor, id string, to domain.ReservationStatus) (*domain.Reservation, error) {
	res, err := s.resRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoErr("ReservationRepository.GetByID", err)
	}

	from := res.Status
	changed, err := s.lc.Transition(res, actor, to, s.now())
	if err != nil {
		return nil, err
	}
	if !changed {
		// Already in the requested terminal state: duplicate retry, no-op.
		return res, nil
	}

	ok, err := s.resRepo.UpdateStatus(ctx, id, from, to)
	if err != nil {
		return nil, repoErr("ReservationRepository.UpdateStatus", err)
	}
	if !ok {
		return nil, &domain.InvalidTransitionError{From: from, To: to}
	}

	logger.Info("reservation transitioned", "reservation_id", id, "from", from, "to", to, "actor_id", actor.UserID)
	s.notifyTransition(ctx, res, to)
	return res, nil
}

func (s *bookingService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if !actor.IsOperator() {
		return fmt.Errorf("%w: hard delete is operator only", domain.ErrForbidden)
	}
	if err := s.resRepo.Delete(ctx, id); err != nil {
		return repoErr("ReservationRepository.Delete", err)
	}
	logger.Warn("reservation hard-deleted", "reservation_id", id, "operator_id", actor.UserID)
	return nil
}

func (s *bookingService) ListByCustomer(ctx context.Context, actor domain.Actor, customerID string, status string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	if actor.Role == domain.RoleCustomer && actor.UserID != customerID {
		return nil, 0, domain.ErrForbidden
	}
	reservations, total, err := s.resRepo.ListByCustomer(ctx, customerID, status, page, pageSize)
	if err != nil {
		return nil, 0, repoErr("ReservationRepository.ListByCustomer", err)
	}
	return reservations, total, nil
}

func (s *bookingService) ListByVehicle(ctx context.Context, actor domain.Actor, vehicleID string, status string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	if !actor.IsOperator() {
		return nil, 0, domain.ErrForbidden
	}
	reservations, total, err := s.resRepo.ListByVehicle(ctx, vehicleID, status, page, pageSize)
	if err != nil {
		return nil, 0, repoErr("ReservationRepository.ListByVehicle", err)
	}
	return reservations, total, nil
}

func (s *bookingService) IsAvailable(ctx context.Context, vehicleID string, start, end time.Time) (bool, error) {
	return s.avail.IsAvailable(ctx, vehicleID, start, end)
}

func (s *bookingService) NextAvailableDate(ctx context.Context, vehicleID string) (time.Time, error) {
	return s.avail.NextAvailableDate(ctx, vehicleID)
}

func (s *bookingService) ClassifyVehicle(ctx context.Context, vehicleID string) (domain.VehicleAvailability, error) {
	return s.avail.Classify(ctx, vehicleID)
}

// Notifications are best effort: a mail failure never fails the booking path.

func (s *bookingService) notifyRequested(ctx context.Context, res *domain.Reservation, vehicle *domain.Vehicle) {
	if s.emailSvc == nil {
		return
	}
	customer, err := s.userRepo.GetByID(ctx, res.CustomerID)
	if err != nil {
		logger.Warn("skipping reservation email, customer lookup failed", "customer_id", res.CustomerID, "error", err)
		return
	}
	desc := fmt.Sprintf("%s %s", vehicle.Make, vehicle.Model)
	if err := s.emailSvc.SendReservationRequested(ctx, customer.Email, customer.Name, desc, res.StartDate, res.EndDate, res.TotalCostCents); err != nil {
		logger.Warn("reservation email failed", "reservation_id", res.ID, "error", err)
	}
}

func (s *bookingService) notifyTransition(ctx context.Context, res *domain.Reservation, to domain.ReservationStatus) {
	if s.emailSvc == nil {
		return
	}
	customer, err := s.userRepo.GetByID(ctx, res.CustomerID)
	if err != nil {
		logger.Warn("skipping transition email, customer lookup failed", "customer_id", res.CustomerID, "error", err)
		return
	}
	vehicle := res.VehicleID
	if v, err := s.vehicleRepo.GetByID(ctx, res.VehicleID); err == nil {
		vehicle = fmt.Sprintf("%s %s", v.Make, v.Model)
	}

	switch to {
	case domain.ReservationStatusActive:
		err = s.emailSvc.SendReservationActivated(ctx, customer.Email, customer.Name, vehicle)
	case domain.ReservationStatusCancelled:
		err = s.emailSvc.SendReservationCancelled(ctx, customer.Email, customer.Name, vehicle)
	case domain.ReservationStatusCompleted:
		err = s.emailSvc.SendReservationCompleted(ctx, customer.Email, customer.Name, vehicle, res.TotalCostCents)
	default:
		return
	}
	if err != nil {
		logger.Warn("transition email failed", "reservation_id", res.ID, "to", to, "error", err)
	}
}

func validateCreateInput(in CreateReservationInput) error {
	switch {
	case in.VehicleID == "":
		return &domain.MissingFieldError{Field: "vehicle_id"}
	case in.CustomerID == "":
		return &domain.MissingFieldError{Field: "customer_id"}
	case in.StartDate.IsZero():
		return &domain.MissingFieldError{Field: "start_date"}
	case in.EndDate.IsZero():
		return &domain.MissingFieldError{Field: "end_date"}
	case in.Pickup.Name == "":
		return &domain.MissingFieldError{Field: "pickup"}
	case in.Dropoff.Name == "":
		return &domain.MissingFieldError{Field: "dropoff"}
	}
	return nil
}

// repoErr passes through errors already classified by the taxonomy and wraps
// everything else as a repository failure.
func repoErr(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrSlotUnavailable) ||
		errors.Is(err, domain.ErrRepository) {
		return err
	}
	return &domain.RepositoryError{Op: op, Err: err}
}

package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/oarouay/sayara-sub000/internal/availability"
	"github.com/oarouay/sayara-sub000/internal/domain"
)

type MockReservationRepo struct {
	mock.Mock
}

func (m *MockReservationRepo) CreateIfAvailable(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockReservationRepo) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) Update(ctx context.Context, r *domain.Reservation) (bool, error) {
	args := m.Called(ctx, r)
	return args.Bool(0), args.Error(1)
}
func (m *MockReservationRepo) UpdateStatus(ctx context.Context, id string, from, to domain.ReservationStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}
func (m *MockReservationRepo) ListBlockingByVehicle(ctx context.Context, vehicleID string) ([]domain.Reservation, error) {
	args := m.Called(ctx, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ListByCustomer(ctx context.Context, customerID, status string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	args := m.Called(ctx, customerID, status, page, pageSize)
	return args.Get(0).([]domain.Reservation), args.Get(1).(int32), args.Error(2)
}
func (m *MockReservationRepo) ListByVehicle(ctx context.Context, vehicleID, status string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	args := m.Called(ctx, vehicleID, status, page, pageSize)
	return args.Get(0).([]domain.Reservation), args.Get(1).(int32), args.Error(2)
}
func (m *MockReservationRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var (
	operator = domain.Actor{UserID: "op-1", Role: domain.RoleOperator}
	owner    = domain.Actor{UserID: "cust-1", Role: domain.RoleCustomer}
	stranger = domain.Actor{UserID: "cust-2", Role: domain.RoleCustomer}
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func pendingReservation() *domain.Reservation {
	return &domain.Reservation{
		ID:                  "res-1",
		VehicleID:           "veh-1",
		CustomerID:          "cust-1",
		StartDate:           day(2025, time.March, 1),
		EndDate:             day(2025, time.March, 31),
		DailyRateCents:      1000,
		InsuranceDailyCents: 300,
		DeliveryFeeCents:    2400,
		TotalCostCents:      41400,
		Status:              domain.ReservationStatusPending,
	}
}

func newManager(repo *MockReservationRepo) *Manager {
	return NewManager(availability.NewIndex(repo))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(domain.ReservationStatusPending, domain.ReservationStatusActive))
	assert.True(t, CanTransition(domain.ReservationStatusPending, domain.ReservationStatusCancelled))
	assert.True(t, CanTransition(domain.ReservationStatusActive, domain.ReservationStatusCompleted))
	assert.True(t, CanTransition(domain.ReservationStatusActive, domain.ReservationStatusCancelled))

	assert.False(t, CanTransition(domain.ReservationStatusPending, domain.ReservationStatusCompleted))
	assert.False(t, CanTransition(domain.ReservationStatusCompleted, domain.ReservationStatusActive))
	assert.False(t, CanTransition(domain.ReservationStatusCancelled, domain.ReservationStatusPending))
	assert.False(t, CanTransition(domain.ReservationStatusCompleted, domain.ReservationStatusCancelled))
}

func TestTransition(t *testing.T) {
	now := day(2025, time.February, 1)

	t.Run("OperatorActivatesPending", func(t *testing.T) {
		res := pendingReservation()
		changed, err := newManager(nil).Transition(res, operator, domain.ReservationStatusActive, now)
		assert.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, domain.ReservationStatusActive, res.Status)
	})

	t.Run("SystemActivatesPendingOnPayment", func(t *testing.T) {
		res := pendingReservation()
		changed, err := newManager(nil).Transition(res, domain.SystemActor, domain.ReservationStatusActive, now)
		assert.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, domain.ReservationStatusActive, res.Status)
	})

	t.Run("OwnerCancelsPending", func(t *testing.T) {
		res := pendingReservation()
		changed, err := newManager(nil).Transition(res, owner, domain.ReservationStatusCancelled, now)
		assert.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, domain.ReservationStatusCancelled, res.Status)
	})

	t.Run("StrangerCannotCancel", func(t *testing.T) {
		res := pendingReservation()
		_, err := newManager(nil).Transition(res, stranger, domain.ReservationStatusCancelled, now)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Equal(t, domain.ReservationStatusPending, res.Status)
	})

	t.Run("CustomerCannotActivate", func(t *testing.T) {
		res := pendingReservation()
		_, err := newManager(nil).Transition(res, owner, domain.ReservationStatusActive, now)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("CustomerCannotCancelActive", func(t *testing.T) {
		res := pendingReservation()
		res.Status = domain.ReservationStatusActive
		_, err := newManager(nil).Transition(res, owner, domain.ReservationStatusCancelled, now)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("OperatorCompletesActive", func(t *testing.T) {
		res := pendingReservation()
		res.Status = domain.ReservationStatusActive
		changed, err := newManager(nil).Transition(res, operator, domain.ReservationStatusCompleted, now)
		assert.NoError(t, err)
		assert.True(t, changed)
	})

	t.Run("OperatorCancelsActive", func(t *testing.T) {
		res := pendingReservation()
		res.Status = domain.ReservationStatusActive
		changed, err := newManager(nil).Transition(res, operator, domain.ReservationStatusCancelled, now)
		assert.NoError(t, err)
		assert.True(t, changed)
	})

	t.Run("CompletingPendingIsInvalid", func(t *testing.T) {
		res := pendingReservation()
		_, err := newManager(nil).Transition(res, operator, domain.ReservationStatusCompleted, now)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		var ite *domain.InvalidTransitionError
		assert.ErrorAs(t, err, &ite)
		assert.Equal(t, domain.ReservationStatusPending, ite.From)
		assert.Equal(t, domain.ReservationStatusCompleted, ite.To)
	})

	t.Run("TerminalStatesAreFrozen", func(t *testing.T) {
		for _, terminal := range []domain.ReservationStatus{domain.ReservationStatusCompleted, domain.ReservationStatusCancelled} {
			for _, to := range []domain.ReservationStatus{domain.ReservationStatusPending, domain.ReservationStatusActive} {
				res := pendingReservation()
				res.Status = terminal
				_, err := newManager(nil).Transition(res, operator, to, now)
				assert.Error(t, err, "transition %s -> %s must fail", terminal, to)
			}
		}
	})

	t.Run("RecancellingIsIdempotentNoop", func(t *testing.T) {
		res := pendingReservation()
		res.Status = domain.ReservationStatusCancelled
		changed, err := newManager(nil).Transition(res, owner, domain.ReservationStatusCancelled, now)
		assert.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, domain.ReservationStatusCancelled, res.Status)
	})
}

func TestUpdatePending(t *testing.T) {
	ctx := context.Background()
	now := day(2025, time.February, 1)

	t.Run("DateEditRevalidatesAndRetotals", func(t *testing.T) {
		repo := new(MockReservationRepo)
		repo.On("ListBlockingByVehicle", ctx, "veh-1").Return([]domain.Reservation{}, nil)
		res := pendingReservation()

		newEnd := day(2025, time.April, 30) // 60 days
		err := newManager(repo).UpdatePending(ctx, res, owner, domain.ReservationPatch{EndDate: &newEnd}, now)
		assert.NoError(t, err)
		assert.Equal(t, newEnd, res.EndDate)
		// (1000 + 300) * 60 + stored delivery fee 2400
		assert.Equal(t, int64(80400), res.TotalCostCents)
		assert.Equal(t, int64(1000), res.DailyRateCents, "rate is not renegotiated")
	})

	t.Run("DateEditBelowMinimumFails", func(t *testing.T) {
		res := pendingReservation()
		newEnd := day(2025, time.March, 10)
		err := newManager(new(MockReservationRepo)).UpdatePending(ctx, res, owner, domain.ReservationPatch{EndDate: &newEnd}, now)
		assert.ErrorIs(t, err, domain.ErrMinimumDuration)
		assert.Equal(t, day(2025, time.March, 31), res.EndDate, "failed edit leaves reservation untouched")
	})

	t.Run("DateEditIntoOccupiedSlotFails", func(t *testing.T) {
		repo := new(MockReservationRepo)
		repo.On("ListBlockingByVehicle", ctx, "veh-1").Return([]domain.Reservation{
			{ID: "other", VehicleID: "veh-1", Status: domain.ReservationStatusActive,
				StartDate: day(2025, time.April, 15), EndDate: day(2025, time.June, 1)},
		}, nil)
		res := pendingReservation()

		newEnd := day(2025, time.April, 30)
		err := newManager(repo).UpdatePending(ctx, res, owner, domain.ReservationPatch{EndDate: &newEnd}, now)
		assert.ErrorIs(t, err, domain.ErrSlotUnavailable)
	})

	t.Run("DateEditIgnoresOwnWindow", func(t *testing.T) {
		repo := new(MockReservationRepo)
		res := pendingReservation()
		repo.On("ListBlockingByVehicle", ctx, "veh-1").Return([]domain.Reservation{*res}, nil)

		newEnd := day(2025, time.April, 30)
		err := newManager(repo).UpdatePending(ctx, res, owner, domain.ReservationPatch{EndDate: &newEnd}, now)
		assert.NoError(t, err)
	})

	t.Run("LocationAndPlateEdit", func(t *testing.T) {
		res := pendingReservation()
		plate := "12345-A-6"
		pickup := domain.Location{Name: "Airport T1", Coordinate: &domain.Coordinate{Latitude: 33.37, Longitude: -7.59}}
		err := newManager(new(MockReservationRepo)).UpdatePending(ctx, res, operator, domain.ReservationPatch{
			Pickup:      &pickup,
			PlateNumber: &plate,
		}, now)
		assert.NoError(t, err)
		assert.Equal(t, pickup, res.Pickup)
		assert.Equal(t, plate, res.PlateNumber)
		assert.Equal(t, int64(41400), res.TotalCostCents, "no date change, no retotal")
	})

	t.Run("StrangerCannotEdit", func(t *testing.T) {
		res := pendingReservation()
		plate := "X"
		err := newManager(new(MockReservationRepo)).UpdatePending(ctx, res, stranger, domain.ReservationPatch{PlateNumber: &plate}, now)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("ActiveReservationNotEditable", func(t *testing.T) {
		res := pendingReservation()
		res.Status = domain.ReservationStatusActive
		plate := "X"
		err := newManager(new(MockReservationRepo)).UpdatePending(ctx, res, operator, domain.ReservationPatch{PlateNumber: &plate}, now)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("TerminalReservationNotEditable", func(t *testing.T) {
		res := pendingReservation()
		res.Status = domain.ReservationStatusCancelled
		plate := "X"
		err := newManager(new(MockReservationRepo)).UpdatePending(ctx, res, operator, domain.ReservationPatch{PlateNumber: &plate}, now)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

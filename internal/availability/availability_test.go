package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

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

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func blocking(id string, status domain.ReservationStatus, start, end time.Time) domain.Reservation {
	return domain.Reservation{ID: id, VehicleID: "veh-1", Status: status, StartDate: start, EndDate: end}
}

func TestIsAvailable(t *testing.T) {
	ctx := context.Background()

	t.Run("NoReservations", func(t *testing.T) {
		repo := new(MockReservationRepo)
		repo.On("ListBlockingByVehicle", ctx, "veh-1").Return([]domain.Reservation{}, nil)
		ix := NewIndex(repo)

		ok, err := ix.IsAvailable(ctx, "veh-1", day(2025, 1, 1), day(2025, 1, 31))
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("OverlappingPendingBlocks", func(t *testing.T) {
		repo := new(MockReservationRepo)
		repo.On("ListBlockingByVehicle", ctx, "veh-1").Return([]domain.Reservation{
			blocking("r1", domain.ReservationStatusPending, day(2025, 1, 1), day(2025, 1, 31)),
		}, nil)
		ix := NewIndex(repo)

		ok, err := ix.IsAvailable(ctx, "veh-1", day(2025, 1, 15), day(2025, 2, 14))
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("InclusiveBoundaryOverlaps", func(t *testing.T) {
		repo := new(MockReservationRepo)
		repo.On("ListBlockingByVehicle", ctx, "veh-1").Return([]domain.Reservation{
			blocking("r1", domain.ReservationStatusActive, day(2025, 1, 1), day(2025, 1, 31)),
		}, nil)
		ix := NewIndex(repo)

		// Sharing a single endpoint day still counts as an overlap.
		ok, err := ix.IsAvailable(ctx, "veh-1", day(2025, 1, 31), day(2025, 3, 2))
		assert.NoError(t, err)
		assert.False(t, ok)

		ok, err = ix.IsAvailable(ctx, "veh-1", day(2025, 2, 1), day(2025, 3, 3))
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("ExcludesOwnReservation", func(t *testing.T) {
		repo := new(MockReservationRepo)
		repo.On("ListBlockingByVehicle", ctx, "veh-1").Return([]domain.Reservation{
			blocking("r1", domain.ReservationStatusPending, day(2025, 1, 1), day(2025, 1, 31)),
		}, nil)
		ix := NewIndex(repo)

		ok, err := ix.IsAvailableExcluding(ctx, "veh-1", day(2025, 1, 5), day(2025, 2, 10), "r1")
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("RepositoryErrorFailsClosed", func(t *testing.T) {
		repo := new(MockReservationRepo)
		repo.On("ListBlockingByVehicle", ctx, "veh-1").Return(nil, errors.New("connection reset"))
		ix := NewIndex(repo)

		ok, err := ix.IsAvailable(ctx, "veh-1", day(2025, 1, 1), day(2025, 1, 31))
		assert.ErrorIs(t, err, domain.ErrRepository)
		assert.False(t, ok)
	})
}

func TestNextAvailableDate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 10, 14, 30, 0, 0, time.UTC)

	t.Run("NoReservationsMeansToday", func(t *testing.T) {
		repo := new(MockReservationRepo)
		repo.On("ListBlockingByVehicle", ctx, "veh-1").Return([]domain.Reservation{}, nil)
		ix := NewIndex(repo)
		ix.now = func() time.Time { return now }

		next, err := ix.NextAvailableDate(ctx, "veh-1")
		assert.NoError(t, err)
		assert.Equal(t, day(2025, 1, 10), next)
	})

	t.Run("DayAfterLatestEnd", func(t *testing.T) {
		repo := new(MockReservationRepo)
		repo.On("ListBlockingByVehicle", ctx, "veh-1").Return([]domain.Reservation{
			blocking("r1", domain.ReservationStatusActive, day(2025, 1, 1), day(2025, 1, 31)),
			blocking("r2", domain.ReservationStatusPending, day(2025, 2, 1), day(2025, 3, 5)),
		}, nil)
		ix := NewIndex(repo)

		next, err := ix.NextAvailableDate(ctx, "veh-1")
		assert.NoError(t, err)
		assert.Equal(t, day(2025, 3, 6), next)
	})
}

func TestClassify(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 10, 14, 30, 0, 0, time.UTC)

	t.Run("ActiveWinsOverPending", func(t *testing.T) {
		repo := new(MockReservationRepo)
		repo.On("ListBlockingByVehicle", ctx, "veh-1").Return([]domain.Reservation{
			blocking("r1", domain.ReservationStatusPending, day(2025, 1, 1), day(2025, 1, 31)),
			blocking("r2", domain.ReservationStatusActive, day(2025, 2, 1), day(2025, 3, 5)),
		}, nil)
		ix := NewIndex(repo)
		ix.now = func() time.Time { return now }

		c, err := ix.Classify(ctx, "veh-1")
		assert.NoError(t, err)
		assert.Equal(t, domain.VehicleRented, c)
	})

	t.Run("PendingCoveringNowIsUnavailable", func(t *testing.T) {
		repo := new(MockReservationRepo)
		repo.On("ListBlockingByVehicle", ctx, "veh-1").Return([]domain.Reservation{
			blocking("r1", domain.ReservationStatusPending, day(2025, 1, 1), day(2025, 1, 31)),
		}, nil)
		ix := NewIndex(repo)
		ix.now = func() time.Time { return now }

		c, err := ix.Classify(ctx, "veh-1")
		assert.NoError(t, err)
		assert.Equal(t, domain.VehicleUnavailable, c)
	})

	t.Run("FuturePendingLeavesVehicleAvailable", func(t *testing.T) {
		repo := new(MockReservationRepo)
		repo.On("ListBlockingByVehicle", ctx, "veh-1").Return([]domain.Reservation{
			blocking("r1", domain.ReservationStatusPending, day(2025, 6, 1), day(2025, 7, 1)),
		}, nil)
		ix := NewIndex(repo)
		ix.now = func() time.Time { return now }

		c, err := ix.Classify(ctx, "veh-1")
		assert.NoError(t, err)
		assert.Equal(t, domain.VehicleAvailable, c)
	})

	t.Run("ReadErrorFailsOpenForDisplay", func(t *testing.T) {
		repo := new(MockReservationRepo)
		repo.On("ListBlockingByVehicle", ctx, "veh-1").Return(nil, errors.New("timeout"))
		ix := NewIndex(repo)
		ix.now = func() time.Time { return now }

		c, err := ix.Classify(ctx, "veh-1")
		assert.ErrorIs(t, err, domain.ErrRepository)
		assert.Equal(t, domain.VehicleAvailable, c)
	})
}

package service

import (
	"context"
	"time"

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

func (m *MockReservationRepo) ListByCustomer(ctx context.Context, customerID string, status string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	args := m.Called(ctx, customerID, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, int32(args.Int(1)), args.Error(2)
	}
	return args.Get(0).([]domain.Reservation), int32(args.Int(1)), args.Error(2)
}

func (m *MockReservationRepo) ListByVehicle(ctx context.Context, vehicleID string, status string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	args := m.Called(ctx, vehicleID, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, int32(args.Int(1)), args.Error(2)
	}
	return args.Get(0).([]domain.Reservation), int32(args.Int(1)), args.Error(2)
}

func (m *MockReservationRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockVehicleRepo struct {
	mock.Mock
}

func (m *MockVehicleRepo) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendReservationRequested(ctx context.Context, email, name, vehicle string, start, end time.Time, totalCents int64) error {
	args := m.Called(ctx, email, name, vehicle, start, end, totalCents)
	return args.Error(0)
}

func (m *MockEmailService) SendReservationActivated(ctx context.Context, email, name, vehicle string) error {
	args := m.Called(ctx, email, name, vehicle)
	return args.Error(0)
}

func (m *MockEmailService) SendReservationCancelled(ctx context.Context, email, name, vehicle string) error {
	args := m.Called(ctx, email, name, vehicle)
	return args.Error(0)
}

func (m *MockEmailService) SendReservationCompleted(ctx context.Context, email, name, vehicle string, totalCents int64) error {
	args := m.Called(ctx, email, name, vehicle, totalCents)
	return args.Error(0)
}

func (m *MockEmailService) SendPickupReminder(ctx context.Context, email, name, vehicle, pickup string, start time.Time) error {
	args := m.Called(ctx, email, name, vehicle, pickup, start)
	return args.Error(0)
}

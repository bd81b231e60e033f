package postgres

import (
	"database/sql"

	"github.com/oarouay/sayara-sub000/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.ReservationRepository
	repository.VehicleRepository
	repository.UserRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		ReservationRepository: NewReservationRepository(db),
		VehicleRepository:     NewVehicleRepository(db),
		UserRepository:        NewUserRepository(db),
	}
}

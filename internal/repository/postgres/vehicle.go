package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/oarouay/sayara-sub000/internal/domain"
	"github.com/oarouay/sayara-sub000/internal/repository"
)

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	query := `SELECT id, owner_id, make, model, year, plate_number,
	                 monthly_rate_cents, insurance_monthly_cents, created_at, updated_at
	          FROM vehicles WHERE id = $1`
	var createdAt, updatedAt time.Time
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&v.ID, &v.OwnerID, &v.Make, &v.Model, &v.Year, &v.PlateNumber,
		&v.MonthlyRateCents, &v.InsuranceMonthlyCents, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	v.CreatedOn = createdAt.Format("2006-01-02")
	v.UpdatedOn = updatedAt.Format("2006-01-02")
	return v, nil
}

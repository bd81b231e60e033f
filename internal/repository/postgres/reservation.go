package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/oarouay/sayara-sub000/internal/domain"
	"github.com/oarouay/sayara-sub000/internal/repository"
)

type reservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

const reservationColumns = `id, vehicle_id, customer_id, start_date, end_date,
	daily_rate_cents, insurance_opted, insurance_daily_cents, delivery_fee_cents, total_cost_cents,
	pickup_name, pickup_lat, pickup_lon, dropoff_name, dropoff_lat, dropoff_lon,
	plate_number, status, created_at, updated_at`

// CreateIfAvailable inserts the reservation guarded by the overlap predicate
// in the same statement, so two concurrent writers for the same vehicle and
// window cannot both succeed. The reservations table additionally carries an
// exclusion constraint on (vehicle_id, daterange) for blocking statuses;
// either rejection surfaces as ErrSlotUnavailable.
func (r *reservationRepository) CreateIfAvailable(ctx context.Context, res *domain.Reservation) error {
	query := `INSERT INTO reservations (` + reservationColumns + `)
	          SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20
	          WHERE NOT EXISTS (
	              SELECT 1 FROM reservations
	              WHERE vehicle_id = $2
	                AND status IN ('PENDING', 'ACTIVE')
	                AND start_date <= $5
	                AND end_date >= $4
	          )`

	pickupLat, pickupLon := coordArgs(res.Pickup.Coordinate)
	dropoffLat, dropoffLon := coordArgs(res.Dropoff.Coordinate)

	result, err := r.db.ExecContext(ctx, query,
		res.ID, res.VehicleID, res.CustomerID, res.StartDate, res.EndDate,
		res.DailyRateCents, res.InsuranceOpted, res.InsuranceDailyCents, res.DeliveryFeeCents, res.TotalCostCents,
		res.Pickup.Name, pickupLat, pickupLon, res.Dropoff.Name, dropoffLat, dropoffLon,
		res.PlateNumber, res.Status, res.CreatedAt, res.UpdatedAt,
	)
	if err != nil {
		if isOverlapConflict(err) {
			return domain.ErrSlotUnavailable
		}
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrSlotUnavailable
	}
	return nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	res, err := scanReservation(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Update persists the editable fields plus the recomputed total. The status
// predicate makes it a conditional write: an edit validated against a stale
// PENDING read cannot land after a concurrent transition moved the row.
// Status changes themselves go through UpdateStatus.
func (r *reservationRepository) Update(ctx context.Context, res *domain.Reservation) (bool, error) {
	query := `UPDATE reservations
	          SET start_date=$1, end_date=$2, total_cost_cents=$3,
	              pickup_name=$4, pickup_lat=$5, pickup_lon=$6,
	              dropoff_name=$7, dropoff_lat=$8, dropoff_lon=$9,
	              plate_number=$10, updated_at=$11
	          WHERE id=$12 AND status=$13`
	pickupLat, pickupLon := coordArgs(res.Pickup.Coordinate)
	dropoffLat, dropoffLon := coordArgs(res.Dropoff.Coordinate)
	result, err := r.db.ExecContext(ctx, query,
		res.StartDate, res.EndDate, res.TotalCostCents,
		res.Pickup.Name, pickupLat, pickupLon,
		res.Dropoff.Name, dropoffLat, dropoffLon,
		res.PlateNumber, time.Now(), res.ID, domain.ReservationStatusPending,
	)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ReservationStatus) (bool, error) {
	query := `UPDATE reservations SET status=$1, updated_at=$2 WHERE id=$3 AND status=$4`
	result, err := r.db.ExecContext(ctx, query, to, time.Now(), id, from)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *reservationRepository) ListBlockingByVehicle(ctx context.Context, vehicleID string) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE vehicle_id = $1 AND status IN ('PENDING', 'ACTIVE')
	          ORDER BY start_date`
	rows, err := r.db.QueryContext(ctx, query, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

func (r *reservationRepository) ListByCustomer(ctx context.Context, customerID string, status string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	return r.list(ctx, "customer_id", customerID, status, page, pageSize)
}

func (r *reservationRepository) ListByVehicle(ctx context.Context, vehicleID string, status string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	return r.list(ctx, "vehicle_id", vehicleID, status, page, pageSize)
}

func (r *reservationRepository) list(ctx context.Context, column, value, status string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE ` + column + ` = $1`

	args := []interface{}{value}
	argIdx := 2
	if status != "" {
		query += " AND status = $2"
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	reservations, err := collectReservations(rows)
	if err != nil {
		return nil, 0, err
	}
	return reservations, count, nil
}

func (r *reservationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// isOverlapConflict recognizes the database's own overlap rejections:
// exclusion constraint (23P01) or unique violation (23505).
func isOverlapConflict(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23P01" || pqErr.Code == "23505"
	}
	return false
}

func coordArgs(c *domain.Coordinate) (sql.NullFloat64, sql.NullFloat64) {
	if c == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: c.Latitude, Valid: true},
		sql.NullFloat64{Float64: c.Longitude, Valid: true}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	res := &domain.Reservation{}
	var pickupLat, pickupLon, dropoffLat, dropoffLon sql.NullFloat64
	err := row.Scan(
		&res.ID, &res.VehicleID, &res.CustomerID, &res.StartDate, &res.EndDate,
		&res.DailyRateCents, &res.InsuranceOpted, &res.InsuranceDailyCents, &res.DeliveryFeeCents, &res.TotalCostCents,
		&res.Pickup.Name, &pickupLat, &pickupLon, &res.Dropoff.Name, &dropoffLat, &dropoffLon,
		&res.PlateNumber, &res.Status, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	res.Pickup.Coordinate = coordFromNull(pickupLat, pickupLon)
	res.Dropoff.Coordinate = coordFromNull(dropoffLat, dropoffLon)
	return res, nil
}

func coordFromNull(lat, lon sql.NullFloat64) *domain.Coordinate {
	if !lat.Valid || !lon.Valid {
		return nil
	}
	return &domain.Coordinate{Latitude: lat.Float64, Longitude: lon.Float64}
}

func collectReservations(rows *sql.Rows) ([]domain.Reservation, error) {
	var reservations []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reservations, nil
}

package jobs

import (
	"context"
	"time"

	"github.com/oarouay/sayara-sub000/internal/logger"
)

// CompleteElapsedReservations moves ACTIVE reservations past their end_date to
// COMPLETED. The status guard in the UPDATE keeps it from touching rows a
// concurrent transition already moved.
func (jr *JobRunner) CompleteElapsedReservations() {
	jr.runWithRecovery("CompleteElapsedReservations", func() {
		ctx := context.Background()

		query := `
			UPDATE reservations
			SET status = 'COMPLETED',
			    updated_at = NOW()
			WHERE status = 'ACTIVE'
			  AND end_date < $1
			RETURNING id, vehicle_id, customer_id, end_date
		`

		rows, err := jr.db.QueryContext(ctx, query, time.Now().UTC().Format("2006-01-02"))
		if err != nil {
			logger.Error("Failed to complete elapsed reservations", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var id, vehicleID, customerID string
			var endDate time.Time
			if err := rows.Scan(&id, &vehicleID, &customerID, &endDate); err != nil {
				logger.Error("Failed to scan completed reservation", "error", err)
				continue
			}
			count++
			logger.Debug("Completed elapsed reservation",
				"reservation_id", id,
				"vehicle_id", vehicleID,
				"customer_id", customerID,
				"end_date", endDate.Format("2006-01-02"))
		}

		if err := rows.Err(); err != nil {
			logger.Error("Error iterating completed reservations", "error", err)
			return
		}

		logger.Info("Completed elapsed reservations", "count", count)
	})
}

// SendPickupReminders emails customers whose ACTIVE rental starts tomorrow.
func (jr *JobRunner) SendPickupReminders() {
	jr.runWithRecovery("SendPickupReminders", func() {
		if jr.services.Email == nil {
			logger.Warn("Email service not configured, skipping pickup reminders")
			return
		}
		ctx := context.Background()
		tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")

		query := `
			SELECT r.id, r.pickup_name, r.start_date, u.email, u.name, v.make, v.model
			FROM reservations r
			JOIN users u ON u.id = r.customer_id
			JOIN vehicles v ON v.id = r.vehicle_id
			WHERE r.status = 'ACTIVE'
			  AND r.start_date = $1
		`

		rows, err := jr.db.QueryContext(ctx, query, tomorrow)
		if err != nil {
			logger.Error("Failed to query upcoming pickups", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var id, pickup, email, name, vehicleMake, model string
			var startDate time.Time
			if err := rows.Scan(&id, &pickup, &startDate, &email, &name, &vehicleMake, &model); err != nil {
				logger.Error("Failed to scan upcoming pickup", "error", err)
				continue
			}
			vehicle := vehicleMake + " " + model
			err := jr.services.Email.SendPickupReminder(ctx, email, name, vehicle, pickup, startDate)
			if err != nil {
				logger.Error("Failed to send pickup reminder", "reservation_id", id, "error", err)
				continue
			}
			count++
		}

		if err := rows.Err(); err != nil {
			logger.Error("Error iterating upcoming pickups", "error", err)
			return
		}

		logger.Info("Sent pickup reminders", "count", count)
	})
}

package database

import "log/slog"

// RunMigrations creates the bookings schema. Seat state lives in the
// in-process seat maps; only bookings need to survive restarts.
func (db *DB) RunMigrations() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS bookings (
			id TEXT PRIMARY KEY,
			performance_id TEXT NOT NULL,
			production_id TEXT NOT NULL,
			production_name TEXT NOT NULL,
			ticket_type_id TEXT NOT NULL,
			ticket_label TEXT NOT NULL DEFAULT '',
			price_per_seat BIGINT NOT NULL,
			amount BIGINT NOT NULL,
			seat_ids TEXT[] NOT NULL,
			payment_method TEXT NOT NULL,
			status TEXT NOT NULL,
			contact_name TEXT NOT NULL,
			contact_email TEXT NOT NULL,
			contact_phone TEXT NOT NULL DEFAULT '',
			user_id TEXT,
			checkout_request_id TEXT,
			merchant_request_id TEXT,
			mpesa_receipt TEXT,
			amount_paid BIGINT,
			transaction_date TEXT,
			failure_reason TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_checkout_request_id
			ON bookings (checkout_request_id) WHERE checkout_request_id IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_status_created_at
			ON bookings (status, created_at)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return err
		}
	}

	slog.Info("Database migrations completed")
	return nil
}

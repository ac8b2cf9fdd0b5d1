package repository

import (
	"context"
	"database/sql"
	"time"

	"goldcinema/internal/database"
	"goldcinema/internal/models"

	"github.com/lib/pq"
)

// PostgresBookingStore persists bookings in Postgres. The partial unique
// index on checkout_request_id is the correlation lookup.
type PostgresBookingStore struct {
	db *database.DB
}

func NewPostgresBookingStore(db *database.DB) *PostgresBookingStore {
	return &PostgresBookingStore{db: db}
}

const bookingColumns = `id, performance_id, production_id, production_name, ticket_type_id,
	ticket_label, price_per_seat, amount, seat_ids, payment_method, status,
	contact_name, contact_email, contact_phone, user_id,
	checkout_request_id, merchant_request_id, mpesa_receipt, amount_paid,
	transaction_date, failure_reason, created_at, updated_at`

func (r *PostgresBookingStore) Create(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (id, performance_id, production_id, production_name, ticket_type_id,
			ticket_label, price_per_seat, amount, seat_ids, payment_method, status,
			contact_name, contact_email, contact_phone, user_id,
			checkout_request_id, merchant_request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		booking.ID,
		booking.PerformanceID,
		booking.ProductionID,
		booking.ProductionName,
		booking.TicketTypeID,
		booking.TicketLabel,
		booking.PricePerSeat,
		booking.Amount,
		pq.Array(booking.SeatIDs),
		booking.PaymentMethod,
		booking.Status,
		booking.Name,
		booking.Email,
		booking.Phone,
		booking.UserID,
		booking.CheckoutRequestID,
		booking.MerchantRequestID,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)
}

func (r *PostgresBookingStore) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresBookingStore) GetByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE checkout_request_id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, checkoutRequestID))
}

func (r *PostgresBookingStore) Update(ctx context.Context, booking *models.Booking) error {
	query := `
		UPDATE bookings
		SET status = $1, contact_phone = $2, checkout_request_id = $3, merchant_request_id = $4,
		    mpesa_receipt = $5, amount_paid = $6, transaction_date = $7, failure_reason = $8,
		    updated_at = NOW()
		WHERE id = $9`

	_, err := r.db.ExecContext(ctx, query,
		booking.Status,
		booking.Phone,
		booking.CheckoutRequestID,
		booking.MerchantRequestID,
		booking.MpesaReceipt,
		booking.AmountPaid,
		booking.TransactionDate,
		booking.FailureReason,
		booking.ID,
	)
	return err
}

func (r *PostgresBookingStore) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	return err
}

func (r *PostgresBookingStore) Transition(ctx context.Context, id, from, to string) (bool, error) {
	query := `UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`
	res, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *PostgresBookingStore) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = $1 AND created_at < $2
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, models.BookingStatusPendingPayment, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *PostgresBookingStore) scanOne(row *sql.Row) (*models.Booking, error) {
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return b, err
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	b := &models.Booking{}
	err := row.Scan(
		&b.ID,
		&b.PerformanceID,
		&b.ProductionID,
		&b.ProductionName,
		&b.TicketTypeID,
		&b.TicketLabel,
		&b.PricePerSeat,
		&b.Amount,
		pq.Array(&b.SeatIDs),
		&b.PaymentMethod,
		&b.Status,
		&b.Name,
		&b.Email,
		&b.Phone,
		&b.UserID,
		&b.CheckoutRequestID,
		&b.MerchantRequestID,
		&b.MpesaReceipt,
		&b.AmountPaid,
		&b.TransactionDate,
		&b.FailureReason,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

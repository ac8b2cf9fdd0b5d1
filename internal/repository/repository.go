package repository

import (
	"context"
	"time"

	"goldcinema/internal/models"
)

// BookingStore is the persistence boundary for bookings. A missing booking
// is reported as (nil, nil), not an error.
//
// Implementations must keep a secondary index from checkout request id to
// booking so callback reconciliation does not scan the whole store.
type BookingStore interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	Delete(ctx context.Context, id string) error

	// Transition flips Status from one state to another and reports whether
	// the swap happened. A false return means another writer settled the
	// booking first; callers treat that as "someone else won" and back off.
	Transition(ctx context.Context, id, from, to string) (bool, error)

	// ListPendingOlderThan returns pending_payment bookings created before
	// the cutoff, oldest first. Used by the expiry job.
	ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]models.Booking, error)
}

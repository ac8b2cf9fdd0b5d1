package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"goldcinema/internal/models"
)

// MemoryBookingStore keeps bookings in process memory. It backs tests and
// single-node deployments where durability across restarts is not required.
type MemoryBookingStore struct {
	mu         sync.RWMutex
	bookings   map[string]*models.Booking
	byCheckout map[string]string
}

func NewMemoryBookingStore() *MemoryBookingStore {
	return &MemoryBookingStore{
		bookings:   make(map[string]*models.Booking),
		byCheckout: make(map[string]string),
	}
}

func (s *MemoryBookingStore) Create(ctx context.Context, booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bookings[booking.ID]; exists {
		return fmt.Errorf("booking %s already exists", booking.ID)
	}

	now := time.Now()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now

	s.bookings[booking.ID] = clone(booking)
	s.indexLocked(booking)
	return nil
}

func (s *MemoryBookingStore) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, nil
	}
	return clone(b), nil
}

func (s *MemoryBookingStore) GetByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byCheckout[checkoutRequestID]
	if !ok {
		return nil, nil
	}
	return clone(s.bookings[id]), nil
}

func (s *MemoryBookingStore) Update(ctx context.Context, booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.bookings[booking.ID]
	if !ok {
		return fmt.Errorf("booking %s does not exist", booking.ID)
	}

	if old.CheckoutRequestID != nil {
		delete(s.byCheckout, *old.CheckoutRequestID)
	}
	booking.UpdatedAt = time.Now()
	s.bookings[booking.ID] = clone(booking)
	s.indexLocked(booking)
	return nil
}

func (s *MemoryBookingStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil
	}
	if b.CheckoutRequestID != nil {
		delete(s.byCheckout, *b.CheckoutRequestID)
	}
	delete(s.bookings, id)
	return nil
}

func (s *MemoryBookingStore) Transition(ctx context.Context, id, from, to string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	b.UpdatedAt = time.Now()
	return true, nil
}

func (s *MemoryBookingStore) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Booking
	for _, b := range s.bookings {
		if b.Status == models.BookingStatusPendingPayment && b.CreatedAt.Before(cutoff) {
			out = append(out, *clone(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryBookingStore) indexLocked(booking *models.Booking) {
	if booking.CheckoutRequestID != nil && *booking.CheckoutRequestID != "" {
		s.byCheckout[*booking.CheckoutRequestID] = booking.ID
	}
}

// clone copies a booking deeply enough that callers cannot mutate stored
// state through shared slices or pointers.
func clone(b *models.Booking) *models.Booking {
	if b == nil {
		return nil
	}
	c := *b
	c.SeatIDs = append([]string(nil), b.SeatIDs...)
	c.UserID = cloneStr(b.UserID)
	c.CheckoutRequestID = cloneStr(b.CheckoutRequestID)
	c.MerchantRequestID = cloneStr(b.MerchantRequestID)
	c.MpesaReceipt = cloneStr(b.MpesaReceipt)
	c.TransactionDate = cloneStr(b.TransactionDate)
	c.FailureReason = cloneStr(b.FailureReason)
	if b.AmountPaid != nil {
		v := *b.AmountPaid
		c.AmountPaid = &v
	}
	return &c
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

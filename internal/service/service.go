package service

import (
	"context"

	"goldcinema/internal/catalog"
	"goldcinema/internal/external"
	"goldcinema/internal/repository"
)

// EventPublisher publishes domain events. A nil-safe implementation is
// provided by messaging.NATSClient; publish failures never fail a booking.
type EventPublisher interface {
	Publish(subject string, data interface{}) error
}

// PaymentInitiator triggers an STK push on the customer's phone and returns
// the gateway's synchronous acknowledgment.
type PaymentInitiator interface {
	InitiateSTKPush(ctx context.Context, phone string, amount int64, reference, description string) (*external.STKPushResponse, error)
}

// Services bundles all business logic services
type Services struct {
	Bookings *BookingService
	Payments *PaymentService
	Seats    *SeatService

	catalog *catalog.Catalog
}

func NewServices(cat *catalog.Catalog, store repository.BookingStore, gateway PaymentInitiator, publisher EventPublisher) *Services {
	return &Services{
		Bookings: NewBookingService(cat, store, gateway, publisher),
		Payments: NewPaymentService(cat, store, publisher),
		Seats:    NewSeatService(cat),
		catalog:  cat,
	}
}

// Catalog exposes the read-only production registry.
func (s *Services) Catalog() *catalog.Catalog {
	return s.catalog
}

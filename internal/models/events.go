package models

import "time"

// NATS event subjects
const (
	EventBookingCreated   = "booking.created"
	EventPaymentInitiated = "payment.initiated"
	EventPaymentCompleted = "payment.completed"
	EventPaymentFailed    = "payment.failed"
	EventBookingExpired   = "booking.expired"
)

// BookingCreatedEvent is published once a booking has been persisted.
type BookingCreatedEvent struct {
	BookingID     string    `json:"booking_id"`
	PerformanceID string    `json:"performance_id"`
	SeatIDs       []string  `json:"seat_ids"`
	Amount        int64     `json:"amount"`
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
}

// PaymentInitiatedEvent is published after the gateway acknowledged an STK
// push for a booking.
type PaymentInitiatedEvent struct {
	BookingID         string    `json:"booking_id"`
	CheckoutRequestID string    `json:"checkout_request_id"`
	Amount            int64     `json:"amount"`
	Timestamp         time.Time `json:"timestamp"`
}

// PaymentCompletedEvent is published when a success callback finalized the
// booking. It doubles as the post-payment notification contract.
type PaymentCompletedEvent struct {
	BookingID         string    `json:"booking_id"`
	CheckoutRequestID string    `json:"checkout_request_id"`
	MpesaReceipt      string    `json:"mpesa_receipt"`
	Amount            int64     `json:"amount"`
	Email             string    `json:"email"`
	Timestamp         time.Time `json:"timestamp"`
}

// PaymentFailedEvent is published when a failure callback released the hold.
type PaymentFailedEvent struct {
	BookingID         string    `json:"booking_id"`
	CheckoutRequestID string    `json:"checkout_request_id"`
	Reason            string    `json:"reason"`
	Timestamp         time.Time `json:"timestamp"`
}

// BookingExpiredEvent is published when the expiry job reclaimed a stale
// pending booking.
type BookingExpiredEvent struct {
	BookingID     string    `json:"booking_id"`
	PerformanceID string    `json:"performance_id"`
	Timestamp     time.Time `json:"timestamp"`
}

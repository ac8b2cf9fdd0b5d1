package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Bookings created, by payment method",
		},
		[]string{"payment_method"},
	)

	seatConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_seat_conflicts_total",
			Help: "Booking attempts rejected because a requested seat was unavailable",
		},
	)

	paymentCallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_callbacks_total",
			Help: "Payment callbacks processed, by outcome",
		},
		[]string{"outcome"},
	)
)

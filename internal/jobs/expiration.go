package jobs

import (
	"context"
	"log/slog"
	"time"

	"goldcinema/internal/catalog"
	"goldcinema/internal/models"
	"goldcinema/internal/repository"
	"goldcinema/internal/service"
)

const expiredReason = "payment window expired"

// BookingExpirationJob reclaims seats from bookings whose payment prompt was
// never answered. A pending booking older than the timeout is marked failed
// and its hold released, the same settlement a failure callback performs.
type BookingExpirationJob struct {
	catalog       *catalog.Catalog
	store         repository.BookingStore
	publisher     service.EventPublisher
	timeout       time.Duration
	checkInterval time.Duration
	ticker        *time.Ticker
	done          chan bool
}

func NewBookingExpirationJob(cat *catalog.Catalog, store repository.BookingStore, publisher service.EventPublisher, timeout, checkInterval time.Duration) *BookingExpirationJob {
	if timeout <= 0 {
		timeout = 15 * time.Minute
	}
	if checkInterval <= 0 {
		checkInterval = 30 * time.Second
	}
	return &BookingExpirationJob{
		catalog:       cat,
		store:         store,
		publisher:     publisher,
		timeout:       timeout,
		checkInterval: checkInterval,
		done:          make(chan bool),
	}
}

// Start begins the background job that periodically checks for expired bookings
func (j *BookingExpirationJob) Start(ctx context.Context) {
	slog.Info("Starting booking expiration job",
		"check_interval", j.checkInterval.String(), "timeout", j.timeout.String())

	j.ticker = time.NewTicker(j.checkInterval)

	// Run initial check immediately
	go j.CheckExpiredBookings(ctx)

	go func() {
		for {
			select {
			case <-j.ticker.C:
				go j.CheckExpiredBookings(ctx)
			case <-j.done:
				slog.Info("Booking expiration job stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the background job
func (j *BookingExpirationJob) Stop() {
	if j.ticker != nil {
		j.ticker.Stop()
	}
	close(j.done)
}

// CheckExpiredBookings finds pending bookings past the payment window and
// expires each one.
func (j *BookingExpirationJob) CheckExpiredBookings(ctx context.Context) {
	cutoff := time.Now().Add(-j.timeout)

	expired, err := j.store.ListPendingOlderThan(ctx, cutoff)
	if err != nil {
		slog.Error("Failed to list expired bookings", "error", err)
		return
	}
	if len(expired) == 0 {
		slog.Debug("No expired bookings found")
		return
	}

	slog.Info("Found expired bookings to process", "count", len(expired))

	for i := range expired {
		booking := &expired[i]
		if err := j.expireBooking(ctx, booking); err != nil {
			slog.Error("Failed to expire booking",
				"error", err,
				"booking_id", booking.ID,
				"performance_id", booking.PerformanceID)
		}
	}
}

// expireBooking marks one booking failed and releases its seats. The status
// transition is a compare-and-swap, so a payment callback that lands at the
// same moment wins cleanly.
func (j *BookingExpirationJob) expireBooking(ctx context.Context, booking *models.Booking) error {
	won, err := j.store.Transition(ctx, booking.ID,
		models.BookingStatusPendingPayment, models.BookingStatusPaymentFailed)
	if err != nil {
		return err
	}
	if !won {
		slog.Info("Booking settled before expiration, skipping", "booking_id", booking.ID)
		return nil
	}

	if seats, ok := j.catalog.SeatMap(booking.PerformanceID); ok {
		if err := seats.Release(booking.SeatIDs, booking.ID); err != nil {
			slog.Error("Failed to release seats during expiration",
				"error", err, "booking_id", booking.ID)
		}
	}

	booking.Status = models.BookingStatusPaymentFailed
	reason := expiredReason
	booking.FailureReason = &reason
	if err := j.store.Update(ctx, booking); err != nil {
		return err
	}

	if j.publisher != nil {
		event := models.BookingExpiredEvent{
			BookingID:     booking.ID,
			PerformanceID: booking.PerformanceID,
			Timestamp:     time.Now(),
		}
		if err := j.publisher.Publish(models.EventBookingExpired, event); err != nil {
			slog.Error("Failed to publish booking expired event",
				"error", err, "booking_id", booking.ID)
		}
	}

	slog.Info("Booking expired",
		"booking_id", booking.ID,
		"seats_released", len(booking.SeatIDs),
		"elapsed_time", time.Since(booking.CreatedAt).String())
	return nil
}

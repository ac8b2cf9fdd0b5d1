package service

import (
	"context"
	"fmt"
	"time"

	"goldcinema/internal/catalog"
	"goldcinema/internal/logger"
	"goldcinema/internal/models"
	"goldcinema/internal/repository"
)

// PaymentService reconciles asynchronous payment callbacks against pending
// bookings. Settlement is idempotent: the status transition is a compare-and-
// swap, so duplicate and late callbacks are acknowledged without effect.
type PaymentService struct {
	catalog   *catalog.Catalog
	store     repository.BookingStore
	publisher EventPublisher
}

func NewPaymentService(cat *catalog.Catalog, store repository.BookingStore, publisher EventPublisher) *PaymentService {
	return &PaymentService{catalog: cat, store: store, publisher: publisher}
}

// HandleCallback settles the booking correlated to the callback's
// CheckoutRequestID. Unknown correlation ids and already-settled bookings are
// logged no-ops so the gateway never sees an error for a retry.
func (s *PaymentService) HandleCallback(ctx context.Context, callback *models.STKCallback) error {
	log := logger.WithContext(ctx).With("checkout_request_id", callback.CheckoutRequestID)

	booking, err := s.store.GetByCheckoutRequestID(ctx, callback.CheckoutRequestID)
	if err != nil {
		return fmt.Errorf("failed to look up booking for callback: %w", err)
	}
	if booking == nil {
		log.Warn("Callback for unknown checkout request id")
		paymentCallbacksTotal.WithLabelValues("unknown").Inc()
		return nil
	}
	if booking.Terminal() {
		log.Info("Callback for settled booking ignored",
			"booking_id", booking.ID, "status", booking.Status)
		paymentCallbacksTotal.WithLabelValues("duplicate").Inc()
		return nil
	}

	if callback.ResultCode == 0 {
		return s.settleSuccess(ctx, booking, callback)
	}
	return s.settleFailure(ctx, booking, callback)
}

func (s *PaymentService) settleSuccess(ctx context.Context, booking *models.Booking, callback *models.STKCallback) error {
	log := logger.WithContext(ctx).With("booking_id", booking.ID)

	won, err := s.store.Transition(ctx, booking.ID,
		models.BookingStatusPendingPayment, models.BookingStatusPaid)
	if err != nil {
		return fmt.Errorf("failed to mark booking paid: %w", err)
	}
	if !won {
		log.Info("Lost settlement race, ignoring success callback")
		paymentCallbacksTotal.WithLabelValues("duplicate").Inc()
		return nil
	}

	if seats, ok := s.catalog.SeatMap(booking.PerformanceID); ok {
		if err := seats.Finalize(booking.SeatIDs, booking.ID); err != nil {
			log.Error("Failed to finalize seats for paid booking", "error", err)
		}
	}

	booking.Status = models.BookingStatusPaid
	meta := callback.CallbackMetadata.Map()
	if receipt, ok := meta["MpesaReceiptNumber"].(string); ok {
		booking.MpesaReceipt = &receipt
	}
	if amount, ok := meta["Amount"].(float64); ok {
		paid := int64(amount)
		booking.AmountPaid = &paid
	}
	if phone, ok := meta["PhoneNumber"].(float64); ok {
		booking.Phone = fmt.Sprintf("%.0f", phone)
	}
	if date, ok := meta["TransactionDate"].(float64); ok {
		txDate := fmt.Sprintf("%.0f", date)
		booking.TransactionDate = &txDate
	}

	if err := s.store.Update(ctx, booking); err != nil {
		log.Error("Failed to record payment details", "error", err)
	}

	log.Info("Payment completed", "receipt", booking.MpesaReceipt, "amount", booking.Amount)
	paymentCallbacksTotal.WithLabelValues("completed").Inc()

	s.publish(models.EventPaymentCompleted, models.PaymentCompletedEvent{
		BookingID:         booking.ID,
		CheckoutRequestID: callback.CheckoutRequestID,
		MpesaReceipt:      derefStr(booking.MpesaReceipt),
		Amount:            booking.Amount,
		Email:             booking.Email,
		Timestamp:         time.Now(),
	})
	return nil
}

func (s *PaymentService) settleFailure(ctx context.Context, booking *models.Booking, callback *models.STKCallback) error {
	log := logger.WithContext(ctx).With("booking_id", booking.ID)

	won, err := s.store.Transition(ctx, booking.ID,
		models.BookingStatusPendingPayment, models.BookingStatusPaymentFailed)
	if err != nil {
		return fmt.Errorf("failed to mark booking failed: %w", err)
	}
	if !won {
		log.Info("Lost settlement race, ignoring failure callback")
		paymentCallbacksTotal.WithLabelValues("duplicate").Inc()
		return nil
	}

	if seats, ok := s.catalog.SeatMap(booking.PerformanceID); ok {
		if err := seats.Release(booking.SeatIDs, booking.ID); err != nil {
			log.Error("Failed to release seats for failed payment", "error", err)
		}
	}

	booking.Status = models.BookingStatusPaymentFailed
	reason := callback.ResultDesc
	booking.FailureReason = &reason
	if err := s.store.Update(ctx, booking); err != nil {
		log.Error("Failed to record payment failure", "error", err)
	}

	log.Info("Payment failed, seats released",
		"result_code", callback.ResultCode, "reason", callback.ResultDesc)
	paymentCallbacksTotal.WithLabelValues("failed").Inc()

	s.publish(models.EventPaymentFailed, models.PaymentFailedEvent{
		BookingID:         booking.ID,
		CheckoutRequestID: callback.CheckoutRequestID,
		Reason:            callback.ResultDesc,
		Timestamp:         time.Now(),
	})
	return nil
}

func (s *PaymentService) publish(subject string, event interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(subject, event); err != nil {
		logger.Get().Warn("Failed to publish event", "subject", subject, "error", err)
	}
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

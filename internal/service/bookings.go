package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"goldcinema/internal/catalog"
	"goldcinema/internal/errors"
	"goldcinema/internal/external"
	"goldcinema/internal/logger"
	"goldcinema/internal/models"
	"goldcinema/internal/repository"
	"goldcinema/internal/seatmap"

	"github.com/google/uuid"
)

// BookingService runs the booking lifecycle: validate, hold seats, persist,
// and for M-Pesa bookings initiate the STK push. Any failure after the hold
// rolls the hold back so no seat is stranded.
type BookingService struct {
	catalog   *catalog.Catalog
	store     repository.BookingStore
	gateway   PaymentInitiator
	publisher EventPublisher
}

func NewBookingService(cat *catalog.Catalog, store repository.BookingStore, gateway PaymentInitiator, publisher EventPublisher) *BookingService {
	return &BookingService{
		catalog:   cat,
		store:     store,
		gateway:   gateway,
		publisher: publisher,
	}
}

// Create books the requested seats. M-Pesa bookings come back pending_payment
// with the seats held until the payment callback settles them; other payment
// methods confirm immediately.
func (s *BookingService) Create(ctx context.Context, req *models.CreateBookingRequest, identity *models.Identity) (*models.Booking, error) {
	log := logger.WithContext(ctx)

	name, email := contactDetails(req, identity)
	if err := validateCreateRequest(req, name, email); err != nil {
		return nil, err
	}

	production, performance, ok := s.catalog.PerformanceByID(req.PerformanceID)
	if !ok {
		return nil, errors.NotFound("performance")
	}
	ticketType, ok := s.catalog.TicketType(req.PerformanceID, req.TicketTypeID)
	if !ok {
		return nil, errors.NotFound("ticket type")
	}
	seats, ok := s.catalog.SeatMap(req.PerformanceID)
	if !ok {
		return nil, errors.NotFound("performance")
	}

	bookingID := uuid.New().String()

	if err := seats.Hold(req.SeatIDs, bookingID); err != nil {
		if conflict, ok := err.(*seatmap.ConflictError); ok {
			seatConflictsTotal.Inc()
			return nil, errors.SeatConflict(conflict.SeatIDs)
		}
		return nil, err
	}

	remote := req.PaymentMethod == models.PaymentMethodMpesa

	booking := &models.Booking{
		ID:             bookingID,
		PerformanceID:  performance.ID,
		ProductionID:   production.ID,
		ProductionName: production.Name,
		TicketTypeID:   ticketType.ID,
		TicketLabel:    ticketType.Label,
		PricePerSeat:   ticketType.Price,
		Amount:         ticketType.Price * int64(len(req.SeatIDs)),
		SeatIDs:        req.SeatIDs,
		PaymentMethod:  req.PaymentMethod,
		Status:         models.BookingStatusReserved,
		Name:           name,
		Email:          email,
		Phone:          req.Phone,
	}
	if identity != nil && identity.ID != "" {
		userID := identity.ID
		booking.UserID = &userID
	}
	if remote {
		booking.Status = models.BookingStatusPendingPayment
		booking.Phone = external.SanitizePhone(req.Phone)
	}

	if err := s.store.Create(ctx, booking); err != nil {
		seats.Release(req.SeatIDs, bookingID)
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	if remote {
		if err := s.initiatePayment(ctx, booking); err != nil {
			seats.Release(req.SeatIDs, bookingID)
			if delErr := s.store.Delete(ctx, bookingID); delErr != nil {
				log.Error("Failed to delete booking after payment initiation failure",
					"booking_id", bookingID, "error", delErr)
			}
			return nil, errors.PaymentInitiation(err)
		}
	} else {
		// No payment leg to wait for: the seats are sold now.
		if err := seats.Finalize(req.SeatIDs, bookingID); err != nil {
			log.Error("Failed to finalize seats for confirmed booking",
				"booking_id", bookingID, "error", err)
		}
	}

	bookingsCreatedTotal.WithLabelValues(req.PaymentMethod).Inc()
	log.Info("Booking created",
		"booking_id", bookingID,
		"performance_id", performance.ID,
		"seats", len(req.SeatIDs),
		"amount", booking.Amount,
		"status", booking.Status)

	s.publish(models.EventBookingCreated, models.BookingCreatedEvent{
		BookingID:     bookingID,
		PerformanceID: performance.ID,
		SeatIDs:       booking.SeatIDs,
		Amount:        booking.Amount,
		Status:        booking.Status,
		Timestamp:     time.Now(),
	})

	return booking, nil
}

// initiatePayment pushes the payment prompt to the customer's phone and
// records the gateway correlation ids on the booking.
func (s *BookingService) initiatePayment(ctx context.Context, booking *models.Booking) error {
	reference := bookingReference(booking.ID)
	description := fmt.Sprintf("Booking %s for %s", reference, booking.ProductionName)

	resp, err := s.gateway.InitiateSTKPush(ctx, booking.Phone, booking.Amount, reference, description)
	if err != nil {
		return err
	}

	booking.CheckoutRequestID = &resp.CheckoutRequestID
	booking.MerchantRequestID = &resp.MerchantRequestID
	if err := s.store.Update(ctx, booking); err != nil {
		// The push is already on the customer's phone; keep the booking and
		// let the callback handler deal with the missing correlation.
		logger.WithContext(ctx).Error("Failed to record checkout request id",
			"booking_id", booking.ID,
			"checkout_request_id", resp.CheckoutRequestID,
			"error", err)
		return nil
	}

	s.publish(models.EventPaymentInitiated, models.PaymentInitiatedEvent{
		BookingID:         booking.ID,
		CheckoutRequestID: resp.CheckoutRequestID,
		Amount:            booking.Amount,
		Timestamp:         time.Now(),
	})
	return nil
}

// GetByID returns one booking.
func (s *BookingService) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if booking == nil {
		return nil, errors.NotFound("booking")
	}
	return booking, nil
}

func (s *BookingService) publish(subject string, event interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(subject, event); err != nil {
		logger.Get().Warn("Failed to publish event", "subject", subject, "error", err)
	}
}

// contactDetails resolves the booking contact, preferring the authenticated
// identity over the request body.
func contactDetails(req *models.CreateBookingRequest, identity *models.Identity) (name, email string) {
	name, email = req.Name, req.Email
	if identity != nil {
		if identity.Name != "" {
			name = identity.Name
		}
		if identity.Email != "" {
			email = identity.Email
		}
	}
	return name, email
}

func validateCreateRequest(req *models.CreateBookingRequest, name, email string) error {
	var missing []string
	if req.PerformanceID == "" {
		missing = append(missing, "performanceId")
	}
	if len(req.SeatIDs) == 0 {
		missing = append(missing, "seats")
	}
	if req.TicketTypeID == "" {
		missing = append(missing, "ticketTypeId")
	}
	if req.PaymentMethod == "" {
		missing = append(missing, "paymentMethod")
	}
	if name == "" {
		missing = append(missing, "name")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if req.PaymentMethod == models.PaymentMethodMpesa && req.Phone == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return errors.Validation("missing required fields", missing...)
	}

	seen := make(map[string]bool, len(req.SeatIDs))
	for _, id := range req.SeatIDs {
		if seen[id] {
			return errors.Validation(fmt.Sprintf("duplicate seat %s in request", id))
		}
		seen[id] = true
	}
	return nil
}

// bookingReference derives the short customer-facing reference shown on the
// payment prompt from the booking id.
func bookingReference(bookingID string) string {
	return strings.ToUpper(strings.SplitN(bookingID, "-", 2)[0])
}

package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"goldcinema/internal/catalog"
	apperrors "goldcinema/internal/errors"
	"goldcinema/internal/external"
	"goldcinema/internal/models"
	"goldcinema/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	mu       sync.Mutex
	calls    []stkCall
	err      error
	sequence int
}

type stkCall struct {
	phone       string
	amount      int64
	reference   string
	description string
}

func (g *fakeGateway) InitiateSTKPush(ctx context.Context, phone string, amount int64, reference, description string) (*external.STKPushResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, stkCall{phone, amount, reference, description})
	if g.err != nil {
		return nil, g.err
	}
	g.sequence++
	return &external.STKPushResponse{
		MerchantRequestID: "merch-1",
		CheckoutRequestID: checkoutID(g.sequence),
		ResponseCode:      "0",
	}, nil
}

func checkoutID(n int) string {
	return "ws_CO_" + string(rune('0'+n))
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	subject string
	data    interface{}
}

func (p *recordingPublisher) Publish(subject string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{subject, data})
	return nil
}

func (p *recordingPublisher) subjects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.subject)
	}
	return out
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]models.Production{
		{
			ID:   "prod-1",
			Name: "The River Between",
			Performances: []models.Performance{
				{
					ID:    "perf-1",
					Date:  "2026-09-04",
					Time:  "19:00",
					Venue: "Main Hall",
					TicketTypes: []models.TicketType{
						{ID: "vip", Label: "VIP", Price: 1200},
						{ID: "regular", Label: "Regular", Price: 700},
					},
					SeatLayout: models.SeatLayout{Rows: 3, Cols: 4},
					TakenSeats: []string{"A2"},
				},
			},
		},
	})
	require.NoError(t, err)
	return cat
}

func newTestServices(t *testing.T) (*Services, *fakeGateway, *recordingPublisher, repository.BookingStore) {
	t.Helper()
	gateway := &fakeGateway{}
	publisher := &recordingPublisher{}
	store := repository.NewMemoryBookingStore()
	svcs := NewServices(testCatalog(t), store, gateway, publisher)
	return svcs, gateway, publisher, store
}

func mpesaRequest() *models.CreateBookingRequest {
	return &models.CreateBookingRequest{
		PerformanceID: "perf-1",
		SeatIDs:       []string{"B1", "B2"},
		TicketTypeID:  "regular",
		PaymentMethod: models.PaymentMethodMpesa,
		Name:          "Wanjiku",
		Email:         "wanjiku@example.com",
		Phone:         "0712345678",
	}
}

func TestCreateBookingValidationListsAllMissingFields(t *testing.T) {
	svcs, _, _, _ := newTestServices(t)

	_, err := svcs.Bookings.Create(context.Background(), &models.CreateBookingRequest{
		PaymentMethod: models.PaymentMethodMpesa,
	}, nil)

	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.ElementsMatch(t,
		[]string{"performanceId", "seats", "ticketTypeId", "name", "email", "phone"},
		apperrors.DetailsOf(err))
}

func TestCreateBookingRejectsDuplicateSeats(t *testing.T) {
	svcs, _, _, _ := newTestServices(t)

	req := mpesaRequest()
	req.SeatIDs = []string{"B1", "B1"}

	_, err := svcs.Bookings.Create(context.Background(), req, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestCreateBookingUnknownPerformance(t *testing.T) {
	svcs, _, _, _ := newTestServices(t)

	req := mpesaRequest()
	req.PerformanceID = "perf-missing"

	_, err := svcs.Bookings.Create(context.Background(), req, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestCreateBookingUnknownTicketType(t *testing.T) {
	svcs, _, _, _ := newTestServices(t)

	req := mpesaRequest()
	req.TicketTypeID = "balcony"

	_, err := svcs.Bookings.Create(context.Background(), req, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestCreateBookingSeatConflictNamesBlockersAndHoldsNothing(t *testing.T) {
	svcs, gateway, _, _ := newTestServices(t)
	cat := svcs.Seats.catalog

	req := mpesaRequest()
	req.SeatIDs = []string{"A1", "A2"} // A2 pre-sold

	_, err := svcs.Bookings.Create(context.Background(), req, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindSeatConflict, apperrors.KindOf(err))
	assert.Equal(t, []string{"A2"}, apperrors.DetailsOf(err))

	// A1 must still be available for the next customer.
	seats, _ := cat.SeatMap("perf-1")
	assert.True(t, seats.AreAvailable([]string{"A1"}))
	assert.Empty(t, gateway.calls)
}

func TestCreateBookingCashConfirmsImmediately(t *testing.T) {
	svcs, gateway, publisher, store := newTestServices(t)

	req := mpesaRequest()
	req.PaymentMethod = "cash"
	req.Phone = ""

	booking, err := svcs.Bookings.Create(context.Background(), req, nil)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusReserved, booking.Status)
	assert.Equal(t, int64(1400), booking.Amount)
	assert.Nil(t, booking.CheckoutRequestID)
	assert.Empty(t, gateway.calls)

	// Seats are sold outright, not just held.
	seats, _ := svcs.Seats.catalog.SeatMap("perf-1")
	assert.False(t, seats.AreAvailable([]string{"B1"}))
	err = seats.Hold([]string{"B1"}, "other-booking")
	assert.Error(t, err)

	stored, err := store.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Contains(t, publisher.subjects(), models.EventBookingCreated)
}

func TestCreateBookingMpesaPendsAndInitiatesPush(t *testing.T) {
	svcs, gateway, publisher, store := newTestServices(t)

	booking, err := svcs.Bookings.Create(context.Background(), mpesaRequest(), nil)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPendingPayment, booking.Status)
	require.NotNil(t, booking.CheckoutRequestID)

	require.Len(t, gateway.calls, 1)
	call := gateway.calls[0]
	assert.Equal(t, "254712345678", call.phone)
	assert.Equal(t, int64(1400), call.amount)
	assert.NotEmpty(t, call.reference)
	assert.Contains(t, call.description, "The River Between")

	// Correlation lookup resolves to this booking.
	stored, err := store.GetByCheckoutRequestID(context.Background(), *booking.CheckoutRequestID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, booking.ID, stored.ID)

	assert.Contains(t, publisher.subjects(), models.EventPaymentInitiated)
	assert.Contains(t, publisher.subjects(), models.EventBookingCreated)
}

func TestCreateBookingGatewayFailureRollsBack(t *testing.T) {
	svcs, gateway, _, store := newTestServices(t)
	gateway.err = errors.New("daraja unreachable")

	_, err := svcs.Bookings.Create(context.Background(), mpesaRequest(), nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindPaymentInitiation, apperrors.KindOf(err))

	// The hold was released and no booking survived.
	seats, _ := svcs.Seats.catalog.SeatMap("perf-1")
	assert.True(t, seats.AreAvailable([]string{"B1", "B2"}))

	expired, listErr := store.ListPendingOlderThan(context.Background(), timeFarFuture())
	require.NoError(t, listErr)
	assert.Empty(t, expired)
}

func TestCreateBookingPrefersIdentityContact(t *testing.T) {
	svcs, _, _, _ := newTestServices(t)

	req := mpesaRequest()
	req.Name = ""
	req.Email = ""
	identity := &models.Identity{ID: "user-1", Name: "Atieno", Email: "atieno@example.com"}

	booking, err := svcs.Bookings.Create(context.Background(), req, identity)
	require.NoError(t, err)
	assert.Equal(t, "Atieno", booking.Name)
	assert.Equal(t, "atieno@example.com", booking.Email)
	require.NotNil(t, booking.UserID)
	assert.Equal(t, "user-1", *booking.UserID)
}

func timeFarFuture() time.Time {
	return time.Now().Add(24 * time.Hour)
}

func TestGetBookingNotFound(t *testing.T) {
	svcs, _, _, _ := newTestServices(t)

	_, err := svcs.Bookings.GetByID(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

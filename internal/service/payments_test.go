package service

import (
	"context"
	"testing"

	"goldcinema/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func successCallback(checkoutRequestID string) *models.STKCallback {
	return &models.STKCallback{
		MerchantRequestID: "merch-1",
		CheckoutRequestID: checkoutRequestID,
		ResultCode:        0,
		ResultDesc:        "The service request is processed successfully.",
		CallbackMetadata: &models.CallbackMetadata{
			Item: []models.CallbackItem{
				{Name: "Amount", Value: float64(1400)},
				{Name: "MpesaReceiptNumber", Value: "SGH7TY12KQ"},
				{Name: "TransactionDate", Value: float64(20260828193045)},
				{Name: "PhoneNumber", Value: float64(254712345678)},
			},
		},
	}
}

func failureCallback(checkoutRequestID string) *models.STKCallback {
	return &models.STKCallback{
		MerchantRequestID: "merch-1",
		CheckoutRequestID: checkoutRequestID,
		ResultCode:        1032,
		ResultDesc:        "Request cancelled by user",
	}
}

func createPendingBooking(t *testing.T, svcs *Services) *models.Booking {
	t.Helper()
	booking, err := svcs.Bookings.Create(context.Background(), mpesaRequest(), nil)
	require.NoError(t, err)
	require.NotNil(t, booking.CheckoutRequestID)
	return booking
}

func TestSuccessCallbackSettlesBooking(t *testing.T) {
	svcs, _, publisher, store := newTestServices(t)
	booking := createPendingBooking(t, svcs)
	ctx := context.Background()

	require.NoError(t, svcs.Payments.HandleCallback(ctx, successCallback(*booking.CheckoutRequestID)))

	settled, err := store.GetByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPaid, settled.Status)
	require.NotNil(t, settled.MpesaReceipt)
	assert.Equal(t, "SGH7TY12KQ", *settled.MpesaReceipt)
	require.NotNil(t, settled.AmountPaid)
	assert.Equal(t, int64(1400), *settled.AmountPaid)
	require.NotNil(t, settled.TransactionDate)
	assert.Equal(t, "20260828193045", *settled.TransactionDate)
	assert.Equal(t, "254712345678", settled.Phone)

	// Seats flipped from held to taken.
	seats, _ := svcs.Seats.catalog.SeatMap("perf-1")
	assert.Error(t, seats.Hold([]string{"B1"}, "other"))

	assert.Contains(t, publisher.subjects(), models.EventPaymentCompleted)
}

func TestDuplicateSuccessCallbackIsNoOp(t *testing.T) {
	svcs, _, publisher, store := newTestServices(t)
	booking := createPendingBooking(t, svcs)
	ctx := context.Background()

	cb := successCallback(*booking.CheckoutRequestID)
	require.NoError(t, svcs.Payments.HandleCallback(ctx, cb))
	require.NoError(t, svcs.Payments.HandleCallback(ctx, cb))

	settled, err := store.GetByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPaid, settled.Status)

	completed := 0
	for _, subject := range publisher.subjects() {
		if subject == models.EventPaymentCompleted {
			completed++
		}
	}
	assert.Equal(t, 1, completed)
}

func TestFailureCallbackReleasesSeats(t *testing.T) {
	svcs, _, publisher, store := newTestServices(t)
	booking := createPendingBooking(t, svcs)
	ctx := context.Background()

	require.NoError(t, svcs.Payments.HandleCallback(ctx, failureCallback(*booking.CheckoutRequestID)))

	settled, err := store.GetByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPaymentFailed, settled.Status)
	require.NotNil(t, settled.FailureReason)
	assert.Equal(t, "Request cancelled by user", *settled.FailureReason)

	// Seats are back on sale.
	seats, _ := svcs.Seats.catalog.SeatMap("perf-1")
	assert.True(t, seats.AreAvailable([]string{"B1", "B2"}))

	assert.Contains(t, publisher.subjects(), models.EventPaymentFailed)
}

func TestFailureAfterSuccessIsNoOp(t *testing.T) {
	svcs, _, _, store := newTestServices(t)
	booking := createPendingBooking(t, svcs)
	ctx := context.Background()

	require.NoError(t, svcs.Payments.HandleCallback(ctx, successCallback(*booking.CheckoutRequestID)))
	require.NoError(t, svcs.Payments.HandleCallback(ctx, failureCallback(*booking.CheckoutRequestID)))

	settled, err := store.GetByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPaid, settled.Status)

	// The paid seats stay sold.
	seats, _ := svcs.Seats.catalog.SeatMap("perf-1")
	assert.False(t, seats.AreAvailable([]string{"B1"}))
}

func TestCallbackForUnknownCheckoutRequestIsNoOp(t *testing.T) {
	svcs, _, publisher, _ := newTestServices(t)

	require.NoError(t, svcs.Payments.HandleCallback(context.Background(), successCallback("ws_CO_unknown")))
	assert.NotContains(t, publisher.subjects(), models.EventPaymentCompleted)
}

func TestFailureCallbackAllowsRebooking(t *testing.T) {
	svcs, _, _, _ := newTestServices(t)
	booking := createPendingBooking(t, svcs)
	ctx := context.Background()

	require.NoError(t, svcs.Payments.HandleCallback(ctx, failureCallback(*booking.CheckoutRequestID)))

	// Another customer books the same seats straight away.
	rebooked, err := svcs.Bookings.Create(ctx, mpesaRequest(), nil)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPendingPayment, rebooked.Status)
	assert.NotEqual(t, booking.ID, rebooked.ID)
}

func TestSerializeSeatsReportsHeldAsUnavailable(t *testing.T) {
	svcs, _, _, _ := newTestServices(t)
	createPendingBooking(t, svcs)

	views, err := svcs.Seats.Serialize("perf-1")
	require.NoError(t, err)
	require.Len(t, views, 12)

	byID := make(map[string]string, len(views))
	for _, v := range views {
		byID[v.ID] = v.Status
	}
	assert.Equal(t, "taken", byID["A2"])
	assert.Equal(t, "unavailable", byID["B1"])
	assert.Equal(t, "unavailable", byID["B2"])
	assert.Equal(t, "available", byID["A1"])

	_, err = svcs.Seats.Serialize("perf-missing")
	assert.Error(t, err)
}

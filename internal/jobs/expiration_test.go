package jobs

import (
	"context"
	"testing"
	"time"

	"goldcinema/internal/catalog"
	"goldcinema/internal/models"
	"goldcinema/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]models.Production{
		{
			ID:   "prod-1",
			Name: "The River Between",
			Performances: []models.Performance{
				{
					ID:          "perf-1",
					TicketTypes: []models.TicketType{{ID: "regular", Label: "Regular", Price: 700}},
					SeatLayout:  models.SeatLayout{Rows: 2, Cols: 2},
				},
			},
		},
	})
	require.NoError(t, err)
	return cat
}

func heldBooking(t *testing.T, cat *catalog.Catalog, store repository.BookingStore, id string, age time.Duration) *models.Booking {
	t.Helper()
	seats, ok := cat.SeatMap("perf-1")
	require.True(t, ok)
	require.NoError(t, seats.Hold([]string{"A1", "A2"}, id))

	b := &models.Booking{
		ID:            id,
		PerformanceID: "perf-1",
		ProductionID:  "prod-1",
		TicketTypeID:  "regular",
		Amount:        1400,
		SeatIDs:       []string{"A1", "A2"},
		PaymentMethod: models.PaymentMethodMpesa,
		Status:        models.BookingStatusPendingPayment,
		CreatedAt:     time.Now().Add(-age),
	}
	require.NoError(t, store.Create(context.Background(), b))
	return b
}

func TestExpirationReleasesStalePendingBooking(t *testing.T) {
	cat := testCatalog(t)
	store := repository.NewMemoryBookingStore()
	job := NewBookingExpirationJob(cat, store, nil, 15*time.Minute, time.Minute)

	heldBooking(t, cat, store, "b-stale", 20*time.Minute)

	job.CheckExpiredBookings(context.Background())

	b, err := store.GetByID(context.Background(), "b-stale")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPaymentFailed, b.Status)
	require.NotNil(t, b.FailureReason)
	assert.Equal(t, "payment window expired", *b.FailureReason)

	seats, _ := cat.SeatMap("perf-1")
	assert.True(t, seats.AreAvailable([]string{"A1", "A2"}))
}

func TestExpirationSkipsFreshBooking(t *testing.T) {
	cat := testCatalog(t)
	store := repository.NewMemoryBookingStore()
	job := NewBookingExpirationJob(cat, store, nil, 15*time.Minute, time.Minute)

	heldBooking(t, cat, store, "b-fresh", time.Minute)

	job.CheckExpiredBookings(context.Background())

	b, err := store.GetByID(context.Background(), "b-fresh")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPendingPayment, b.Status)

	seats, _ := cat.SeatMap("perf-1")
	assert.False(t, seats.AreAvailable([]string{"A1"}))
}

func TestExpirationLosesRaceToSettlement(t *testing.T) {
	cat := testCatalog(t)
	store := repository.NewMemoryBookingStore()
	job := NewBookingExpirationJob(cat, store, nil, 15*time.Minute, time.Minute)

	b := heldBooking(t, cat, store, "b-paid", 20*time.Minute)

	// A success callback settles the booking just before the sweep runs.
	won, err := store.Transition(context.Background(), b.ID,
		models.BookingStatusPendingPayment, models.BookingStatusPaid)
	require.NoError(t, err)
	require.True(t, won)
	seats, _ := cat.SeatMap("perf-1")
	require.NoError(t, seats.Finalize(b.SeatIDs, b.ID))

	// The sweep still sees the stale listing made before the settlement.
	job.expireBooking(context.Background(), b)

	got, err := store.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPaid, got.Status)
	assert.False(t, seats.AreAvailable([]string{"A1"}))
}

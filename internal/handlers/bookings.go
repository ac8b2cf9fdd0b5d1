package handlers

import (
	"net/http"

	"goldcinema/internal/middleware"
	"goldcinema/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateBooking - POST /api/bookings
// Books seats for a performance; M-Pesa bookings trigger an STK push and
// settle asynchronously via the payment callback.
func (h *Handlers) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var identity *models.Identity
	if id, ok := middleware.IdentityFromContext(c.Request.Context()); ok {
		identity = &id
	}

	booking, err := h.services.Bookings.Create(c.Request.Context(), &req, identity)
	if err != nil {
		h.handleServiceError(c, err, "Failed to create booking")
		return
	}

	message := "Booking confirmed."
	if booking.Status == models.BookingStatusPendingPayment {
		message = "Booking created. Approve the M-Pesa prompt on your phone to complete payment."
	}

	c.JSON(http.StatusCreated, models.CreateBookingResponse{
		Message:           message,
		BookingID:         booking.ID,
		Status:            booking.Status,
		CheckoutRequestID: booking.CheckoutRequestID,
	})
}

// GetBooking - GET /api/bookings/:id
func (h *Handlers) GetBooking(c *gin.Context) {
	booking, err := h.services.Bookings.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err, "Failed to get booking")
		return
	}
	c.JSON(http.StatusOK, booking)
}

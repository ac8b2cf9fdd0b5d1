package handlers

import (
	"log/slog"
	"net/http"

	"goldcinema/internal/models"

	"github.com/gin-gonic/gin"
)

// MpesaCallback - POST /mpesa/callback
// Receives the asynchronous Daraja payment result. The gateway retries on
// non-200, so every recognizable envelope is acknowledged with 200 even when
// settlement was a no-op; only an unparseable envelope gets a 400.
func (h *Handlers) MpesaCallback(c *gin.Context) {
	var envelope models.STKCallbackEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		slog.Warn("Malformed payment callback", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed callback payload"})
		return
	}
	if envelope.Body.StkCallback == nil {
		slog.Warn("Payment callback missing stkCallback body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed callback payload"})
		return
	}

	if err := h.services.Payments.HandleCallback(c.Request.Context(), envelope.Body.StkCallback); err != nil {
		// Internal failure: acknowledged anyway. If the booking stays pending
		// the expiry job reclaims the seats.
		slog.Error("Failed to process payment callback",
			"checkout_request_id", envelope.Body.StkCallback.CheckoutRequestID,
			"error", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Callback received successfully"})
}

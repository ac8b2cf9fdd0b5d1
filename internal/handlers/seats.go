package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetPerformanceSeats - GET /api/performances/:id/seats
// Returns the seat map in display form.
func (h *Handlers) GetPerformanceSeats(c *gin.Context) {
	seats, err := h.services.Seats.Serialize(c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err, "Failed to get seats")
		return
	}
	c.JSON(http.StatusOK, gin.H{"seats": seats})
}

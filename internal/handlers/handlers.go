package handlers

import (
	"log/slog"
	"net/http"

	"goldcinema/internal/cache"
	"goldcinema/internal/errors"
	"goldcinema/internal/service"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	services     *service.Services
	valkeyClient *cache.ValkeyClient
}

func NewHandlers(services *service.Services, valkeyClient *cache.ValkeyClient) *Handlers {
	return &Handlers{
		services:     services,
		valkeyClient: valkeyClient,
	}
}

// handleServiceError maps service errors to HTTP responses by error kind.
func (h *Handlers) handleServiceError(c *gin.Context, err error, fallback string) {
	switch errors.KindOf(err) {
	case errors.KindValidation:
		body := gin.H{"error": err.Error()}
		if details := errors.DetailsOf(err); len(details) > 0 {
			body["missing"] = details
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.KindSeatConflict:
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
			"seats": errors.DetailsOf(err),
		})
	case errors.KindPaymentInitiation:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		slog.Error(fallback, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

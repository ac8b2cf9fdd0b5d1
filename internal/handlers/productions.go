package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"goldcinema/internal/models"

	"github.com/gin-gonic/gin"
)

// ListProductions - GET /api/productions
// Returns the catalog listing, served from cache when available.
func (h *Handlers) ListProductions(c *gin.Context) {
	if h.valkeyClient != nil {
		rawJSON, err := h.valkeyClient.GetProductionsRaw(c.Request.Context())
		if err == nil && rawJSON != nil {
			slog.Debug("Cache hit for productions list")
			c.Data(http.StatusOK, "application/json", rawJSON)
			return
		}
		if err != nil {
			slog.Warn("Productions cache lookup failed", "error", err)
		}
	}

	items := make([]models.ProductionListItem, 0)
	for _, prod := range h.services.Catalog().Productions() {
		items = append(items, toProductionListItem(prod))
	}

	if h.valkeyClient != nil {
		if payload, err := json.Marshal(items); err == nil {
			if err := h.valkeyClient.SetProductions(c.Request.Context(), payload); err != nil {
				slog.Warn("Failed to cache productions list", "error", err)
			}
		}
	}

	c.JSON(http.StatusOK, items)
}

// GetProduction - GET /api/productions/:id
func (h *Handlers) GetProduction(c *gin.Context) {
	prod, ok := h.services.Catalog().ProductionByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "production not found"})
		return
	}
	c.JSON(http.StatusOK, toProductionListItem(*prod))
}

func toProductionListItem(prod models.Production) models.ProductionListItem {
	item := models.ProductionListItem{
		ID:              prod.ID,
		Name:            prod.Name,
		Type:            prod.Type,
		Genre:           prod.Genre,
		Rating:          prod.Rating,
		DurationMinutes: prod.DurationMinutes,
		Description:     prod.Description,
		Poster:          prod.Poster,
		HeroImage:       prod.HeroImage,
		Performances:    make([]models.PerformanceListItem, 0, len(prod.Performances)),
	}
	for _, perf := range prod.Performances {
		item.Performances = append(item.Performances, models.PerformanceListItem{
			ID:          perf.ID,
			Date:        perf.Date,
			Time:        perf.Time,
			Venue:       perf.Venue,
			BasePrice:   perf.BasePrice,
			TicketTypes: perf.TicketTypes,
		})
	}
	return item
}

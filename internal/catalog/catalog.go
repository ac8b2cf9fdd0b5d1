package catalog

import (
	"fmt"

	"goldcinema/internal/models"
	"goldcinema/internal/seatmap"
)

// Catalog is the read-only production/performance registry plus the seat map
// each performance exclusively owns.
type Catalog struct {
	productions  []models.Production
	performances map[string]performanceRef
	seatMaps     map[string]*seatmap.SeatMap
}

type performanceRef struct {
	production  *models.Production
	performance *models.Performance
}

// New indexes the given productions and builds one seat map per performance
// from its layout and pre-sold seats.
func New(productions []models.Production) (*Catalog, error) {
	c := &Catalog{
		productions:  productions,
		performances: make(map[string]performanceRef),
		seatMaps:     make(map[string]*seatmap.SeatMap),
	}

	for i := range c.productions {
		prod := &c.productions[i]
		for j := range prod.Performances {
			perf := &prod.Performances[j]
			if _, exists := c.performances[perf.ID]; exists {
				return nil, fmt.Errorf("duplicate performance id %s", perf.ID)
			}

			m, err := seatmap.New(perf.SeatLayout.Rows, perf.SeatLayout.Cols, perf.TakenSeats)
			if err != nil {
				return nil, fmt.Errorf("seat map for performance %s: %w", perf.ID, err)
			}

			c.performances[perf.ID] = performanceRef{production: prod, performance: perf}
			c.seatMaps[perf.ID] = m
		}
	}

	return c, nil
}

// Productions returns all productions in catalog order.
func (c *Catalog) Productions() []models.Production {
	return c.productions
}

// ProductionByID looks up one production.
func (c *Catalog) ProductionByID(id string) (*models.Production, bool) {
	for i := range c.productions {
		if c.productions[i].ID == id {
			return &c.productions[i], true
		}
	}
	return nil, false
}

// PerformanceByID resolves a performance and its owning production.
func (c *Catalog) PerformanceByID(id string) (*models.Production, *models.Performance, bool) {
	ref, ok := c.performances[id]
	if !ok {
		return nil, nil, false
	}
	return ref.production, ref.performance, true
}

// TicketType resolves a ticket type offered by the given performance.
func (c *Catalog) TicketType(performanceID, ticketTypeID string) (*models.TicketType, bool) {
	ref, ok := c.performances[performanceID]
	if !ok {
		return nil, false
	}
	for i := range ref.performance.TicketTypes {
		if ref.performance.TicketTypes[i].ID == ticketTypeID {
			return &ref.performance.TicketTypes[i], true
		}
	}
	return nil, false
}

// SeatMap returns the seat map owned by the given performance.
func (c *Catalog) SeatMap(performanceID string) (*seatmap.SeatMap, bool) {
	m, ok := c.seatMaps[performanceID]
	return m, ok
}

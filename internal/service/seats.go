package service

import (
	"goldcinema/internal/catalog"
	"goldcinema/internal/errors"
	"goldcinema/internal/seatmap"
)

// SeatService exposes the read side of the seat maps.
type SeatService struct {
	catalog *catalog.Catalog
}

func NewSeatService(cat *catalog.Catalog) *SeatService {
	return &SeatService{catalog: cat}
}

// Serialize returns the display view of a performance's seat map.
func (s *SeatService) Serialize(performanceID string) ([]seatmap.SeatView, error) {
	seats, ok := s.catalog.SeatMap(performanceID)
	if !ok {
		return nil, errors.NotFound("performance")
	}
	return seats.Serialize(), nil
}

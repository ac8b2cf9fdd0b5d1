package catalog

import "goldcinema/internal/models"

// Ticket categories match the house pricing: VIP front rows, regular middle,
// economy back.
func houseTicketTypes() []models.TicketType {
	return []models.TicketType{
		{ID: "vip", Label: "VIP", Price: 1200},
		{ID: "regular", Label: "Regular", Price: 700},
		{ID: "economy", Label: "Economy", Price: 350},
	}
}

// Default returns the seeded Gold Cinema programme.
func Default() []models.Production {
	return []models.Production{
		{
			ID:              "prod-the-river-between",
			Name:            "The River Between",
			Type:            "film",
			Genre:           "Drama",
			Rating:          "PG-13",
			DurationMinutes: 128,
			Description:     "An adaptation of the classic novel, set against the ridges of Kameno and Makuyu.",
			Poster:          "/img/posters/river-between.jpg",
			HeroImage:       "/img/hero/river-between.jpg",
			Performances: []models.Performance{
				{
					ID:          "perf-rb-fri-1900",
					Date:        "2026-09-04",
					Time:        "19:00",
					Venue:       "Gold Cinema Main Hall",
					BasePrice:   700,
					TicketTypes: houseTicketTypes(),
					SeatLayout:  models.SeatLayout{Rows: 8, Cols: 10},
					TakenSeats:  []string{"A1", "A2", "D5"},
				},
				{
					ID:          "perf-rb-sat-1500",
					Date:        "2026-09-05",
					Time:        "15:00",
					Venue:       "Gold Cinema Main Hall",
					BasePrice:   700,
					TicketTypes: houseTicketTypes(),
					SeatLayout:  models.SeatLayout{Rows: 8, Cols: 10},
				},
			},
		},
		{
			ID:              "prod-sarafina-live",
			Name:            "Sarafina! Live",
			Type:            "stage",
			Genre:           "Musical",
			Rating:          "PG",
			DurationMinutes: 150,
			Description:     "The beloved musical staged live with a full band and township choir.",
			Poster:          "/img/posters/sarafina.jpg",
			HeroImage:       "/img/hero/sarafina.jpg",
			Performances: []models.Performance{
				{
					ID:          "perf-sf-sat-2000",
					Date:        "2026-09-12",
					Time:        "20:00",
					Venue:       "Gold Cinema Amphitheatre",
					BasePrice:   1000,
					TicketTypes: houseTicketTypes(),
					SeatLayout:  models.SeatLayout{Rows: 10, Cols: 12},
					TakenSeats:  []string{"B6", "B7"},
				},
			},
		},
	}
}

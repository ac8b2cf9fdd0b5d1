package seatmap

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Status is the internal seat state. Serialize reports held seats as
// "unavailable"; a held seat cannot be selected but is not sold yet.
type Status string

const (
	StatusAvailable Status = "available"
	StatusHeld      Status = "held"
	StatusTaken     Status = "taken"
)

// Row labels are single letters, so a grid is at most 26 rows deep.
const maxRows = 26

var ErrInvalidLayout = errors.New("invalid seat layout")

// ConflictError names the seats that blocked an all-or-nothing hold.
type ConflictError struct {
	SeatIDs []string
}

func (e *ConflictError) Error() string {
	return "seats unavailable: " + strings.Join(e.SeatIDs, ", ")
}

// NotHeldError reports a finalize on a seat the booking does not hold.
type NotHeldError struct {
	SeatID    string
	BookingID string
}

func (e *NotHeldError) Error() string {
	return fmt.Sprintf("seat %s is not held by booking %s", e.SeatID, e.BookingID)
}

type seat struct {
	row    string
	number int
	status Status
	holder string
}

// SeatView is the read-only display shape of one seat.
type SeatView struct {
	ID     string `json:"id"`
	Row    string `json:"row"`
	Number int    `json:"number"`
	Status string `json:"status"`
}

// SeatMap is the per-performance seat grid. All transitions run under one
// mutex so a hold's check-then-mark cannot interleave with another hold
// touching the same seats.
type SeatMap struct {
	mu    sync.Mutex
	rows  int
	cols  int
	seats map[string]*seat
	order []string
}

// New builds a rows x cols grid of available seats. Ids listed in
// initiallyTaken (pre-sold or blocked seats) start as taken with no holder.
func New(rows, cols int, initiallyTaken []string) (*SeatMap, error) {
	if rows <= 0 || cols <= 0 || rows > maxRows {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidLayout, rows, cols)
	}

	m := &SeatMap{
		rows:  rows,
		cols:  cols,
		seats: make(map[string]*seat, rows*cols),
		order: make([]string, 0, rows*cols),
	}
	for r := 0; r < rows; r++ {
		label := string(rune('A' + r))
		for n := 1; n <= cols; n++ {
			id := fmt.Sprintf("%s%d", label, n)
			m.seats[id] = &seat{row: label, number: n, status: StatusAvailable}
			m.order = append(m.order, id)
		}
	}

	for _, id := range initiallyTaken {
		s, ok := m.seats[id]
		if !ok {
			return nil, fmt.Errorf("%w: taken seat %s outside %dx%d grid", ErrInvalidLayout, id, rows, cols)
		}
		s.status = StatusTaken
	}

	return m, nil
}

// AreAvailable reports whether every listed seat exists and is available.
func (m *SeatMap) AreAvailable(seatIDs []string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.unavailableLocked(seatIDs)) == 0
}

// Unavailable returns the subset of seatIDs that are missing or not
// available, for conflict reporting.
func (m *SeatMap) Unavailable(seatIDs []string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unavailableLocked(seatIDs)
}

func (m *SeatMap) unavailableLocked(seatIDs []string) []string {
	var bad []string
	for _, id := range seatIDs {
		s, ok := m.seats[id]
		if !ok || s.status != StatusAvailable {
			bad = append(bad, id)
		}
	}
	return bad
}

// Hold transitions every listed seat from available to held by bookingID.
// If any seat is unavailable no seat changes state and a *ConflictError
// names the blockers.
func (m *SeatMap) Hold(seatIDs []string, bookingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if bad := m.unavailableLocked(seatIDs); len(bad) > 0 {
		return &ConflictError{SeatIDs: bad}
	}
	for _, id := range seatIDs {
		s := m.seats[id]
		s.status = StatusHeld
		s.holder = bookingID
	}
	return nil
}

// Finalize transitions seats held by bookingID to taken, retaining the
// holder. Any seat not currently held by the booking fails the whole call
// before any seat changes state.
func (m *SeatMap) Finalize(seatIDs []string, bookingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range seatIDs {
		s, ok := m.seats[id]
		if !ok || s.status != StatusHeld || s.holder != bookingID {
			return &NotHeldError{SeatID: id, BookingID: bookingID}
		}
	}
	for _, id := range seatIDs {
		m.seats[id].status = StatusTaken
	}
	return nil
}

// Release returns seats held by bookingID to available and clears the
// holder. Seats not held by this booking are skipped rather than failed, so
// duplicate failure callbacks stay harmless.
func (m *SeatMap) Release(seatIDs []string, bookingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range seatIDs {
		s, ok := m.seats[id]
		if !ok || s.status != StatusHeld || s.holder != bookingID {
			continue
		}
		s.status = StatusAvailable
		s.holder = ""
	}
	return nil
}

// Serialize returns the display view in row-major order. Held seats are
// reported as "unavailable" since the consumer only distinguishes
// selectable from not.
func (m *SeatMap) Serialize() []SeatView {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]SeatView, 0, len(m.order))
	for _, id := range m.order {
		s := m.seats[id]
		out = append(out, SeatView{
			ID:     id,
			Row:    s.row,
			Number: s.number,
			Status: displayStatus(s.status),
		})
	}
	return out
}

func displayStatus(s Status) string {
	if s == StatusHeld {
		return "unavailable"
	}
	return string(s)
}

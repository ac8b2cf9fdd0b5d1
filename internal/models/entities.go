package models

import "time"

// Booking status values. pending_payment is the only non-terminal state;
// reserved, paid and payment_failed never transition again.
const (
	BookingStatusReserved       = "reserved"
	BookingStatusPendingPayment = "pending_payment"
	BookingStatusPaid           = "paid"
	BookingStatusPaymentFailed  = "payment_failed"
)

// PaymentMethodMpesa is the only remote payment method; everything else is
// settled offline and finalized immediately.
const PaymentMethodMpesa = "mpesa"

// TicketType is a priced ticket category offered for a performance.
type TicketType struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Price int64  `json:"price"`
}

// SeatLayout describes the rectangular seat grid of a performance.
type SeatLayout struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Performance is a single scheduled showing of a production. It exclusively
// owns one seat map, registered in the catalog under its ID.
type Performance struct {
	ID          string       `json:"id"`
	Date        string       `json:"date"`
	Time        string       `json:"time"`
	Venue       string       `json:"venue"`
	BasePrice   int64        `json:"basePrice"`
	TicketTypes []TicketType `json:"ticketTypes"`
	SeatLayout  SeatLayout   `json:"seatLayout"`
	TakenSeats  []string     `json:"takenSeats,omitempty"`
}

// Production is a film or stage show with one or more performances.
type Production struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Type            string        `json:"type"`
	Genre           string        `json:"genre"`
	Rating          string        `json:"rating"`
	DurationMinutes int           `json:"durationMinutes"`
	Description     string        `json:"description"`
	Poster          string        `json:"poster"`
	HeroImage       string        `json:"heroImage"`
	Performances    []Performance `json:"performances"`
}

// Booking represents one checkout attempt. It references seats by id; the
// seat map owned by the performance carries the authoritative seat state.
type Booking struct {
	ID                string     `json:"bookingId" db:"id"`
	PerformanceID     string     `json:"performanceId" db:"performance_id"`
	ProductionID      string     `json:"productionId" db:"production_id"`
	ProductionName    string     `json:"productionName" db:"production_name"`
	TicketTypeID      string     `json:"ticketType" db:"ticket_type_id"`
	TicketLabel       string     `json:"ticketLabel" db:"ticket_label"`
	PricePerSeat      int64      `json:"pricePerSeat" db:"price_per_seat"`
	Amount            int64      `json:"amount" db:"amount"`
	SeatIDs           []string   `json:"seats" db:"seat_ids"`
	PaymentMethod     string     `json:"paymentMethod" db:"payment_method"`
	Status            string     `json:"status" db:"status"`
	Name              string     `json:"name" db:"contact_name"`
	Email             string     `json:"email" db:"contact_email"`
	Phone             string     `json:"phone,omitempty" db:"contact_phone"`
	UserID            *string    `json:"userId,omitempty" db:"user_id"`
	CheckoutRequestID *string    `json:"checkoutRequestId,omitempty" db:"checkout_request_id"`
	MerchantRequestID *string    `json:"merchantRequestId,omitempty" db:"merchant_request_id"`
	MpesaReceipt      *string    `json:"mpesaReceiptNumber,omitempty" db:"mpesa_receipt"`
	AmountPaid        *int64     `json:"amountPaid,omitempty" db:"amount_paid"`
	TransactionDate   *string    `json:"transactionDate,omitempty" db:"transaction_date"`
	FailureReason     *string    `json:"failureReason,omitempty" db:"failure_reason"`
	CreatedAt         time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time  `json:"updatedAt" db:"updated_at"`
}

// Terminal reports whether the booking can no longer transition.
func (b *Booking) Terminal() bool {
	return b.Status != BookingStatusPendingPayment
}

// Identity is the optional authenticated caller forwarded by the routing
// layer into booking creation. Authentication itself lives outside this
// service.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

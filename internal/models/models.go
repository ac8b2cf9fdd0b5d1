package models

// CreateBookingRequest is the checkout payload. Field presence is validated
// in the booking service so the response can name every missing field.
type CreateBookingRequest struct {
	PerformanceID string   `json:"performanceId"`
	SeatIDs       []string `json:"seats"`
	TicketTypeID  string   `json:"ticketTypeId"`
	PaymentMethod string   `json:"paymentMethod"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
}

// CreateBookingResponse is returned from POST /api/bookings.
type CreateBookingResponse struct {
	Message           string  `json:"message"`
	BookingID         string  `json:"bookingId"`
	Status            string  `json:"status"`
	CheckoutRequestID *string `json:"checkoutRequestId"`
}

// ProductionListItem is the catalog listing view: production details with
// performance summaries, without seat layouts.
type ProductionListItem struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	Type            string                `json:"type"`
	Genre           string                `json:"genre"`
	Rating          string                `json:"rating"`
	DurationMinutes int                   `json:"durationMinutes"`
	Description     string                `json:"description"`
	Poster          string                `json:"poster"`
	HeroImage       string                `json:"heroImage"`
	Performances    []PerformanceListItem `json:"performances"`
}

// PerformanceListItem summarizes a performance for listing.
type PerformanceListItem struct {
	ID          string       `json:"id"`
	Date        string       `json:"date"`
	Time        string       `json:"time"`
	Venue       string       `json:"venue"`
	BasePrice   int64        `json:"basePrice"`
	TicketTypes []TicketType `json:"ticketTypes"`
}

// STKCallbackEnvelope is the Daraja asynchronous result notification as
// delivered to the callback URL.
type STKCallbackEnvelope struct {
	Body struct {
		StkCallback *STKCallback `json:"stkCallback"`
	} `json:"Body"`
}

// STKCallback carries the payment result. ResultCode 0 means the customer
// completed the payment; any other value is a failure described by
// ResultDesc.
type STKCallback struct {
	MerchantRequestID string            `json:"MerchantRequestID"`
	CheckoutRequestID string            `json:"CheckoutRequestID"`
	ResultCode        int               `json:"ResultCode"`
	ResultDesc        string            `json:"ResultDesc"`
	CallbackMetadata  *CallbackMetadata `json:"CallbackMetadata,omitempty"`
}

// CallbackMetadata is the name/value item list Daraja attaches to successful
// payments (MpesaReceiptNumber, Amount, PhoneNumber, TransactionDate).
type CallbackMetadata struct {
	Item []CallbackItem `json:"Item"`
}

type CallbackItem struct {
	Name  string      `json:"Name"`
	Value interface{} `json:"Value"`
}

// Map flattens the item list into a lookup by name.
func (m *CallbackMetadata) Map() map[string]interface{} {
	out := make(map[string]interface{})
	if m == nil {
		return out
	}
	for _, item := range m.Item {
		out[item.Name] = item.Value
	}
	return out
}

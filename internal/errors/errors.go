package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind classifies service-layer failures so handlers can pick an HTTP status
// without string matching.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindSeatConflict
	KindPaymentInitiation
	KindMalformedCallback
)

// Error is the application error returned across the service boundary.
type Error struct {
	Kind    Kind
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(message string, missing ...string) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: missing}
}

func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

func SeatConflict(seatIDs []string) *Error {
	return &Error{
		Kind:    KindSeatConflict,
		Message: "seats unavailable: " + strings.Join(seatIDs, ", "),
		Details: seatIDs,
	}
}

func PaymentInitiation(err error) *Error {
	return &Error{Kind: KindPaymentInitiation, Message: "failed to initiate payment", Err: err}
}

func MalformedCallback(message string) *Error {
	return &Error{Kind: KindMalformedCallback, Message: message}
}

// KindOf returns the Kind of err, or KindUnknown for plain errors.
func KindOf(err error) Kind {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// DetailsOf returns the Details carried by err, if any.
func DetailsOf(err error) []string {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Details
	}
	return nil
}

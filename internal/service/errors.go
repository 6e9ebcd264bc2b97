// Package service implements the booking core: seat reservation,
// payment recording, promotion evaluation, the showtime registry and
// the staff ticket-lifecycle surface. Services speak to storage
// through small store interfaces so the core is testable without a
// database, and return structured errors so handlers never branch on
// error text.
package service

import (
    "errors"
    "fmt"

    "github.com/cinetick/booking-core/internal/repository"
)

// Code identifies a failure category.  Handlers map codes to HTTP
// statuses and clients may branch on them safely; messages are for
// humans only.
type Code string

const (
    CodeValidation        Code = "VALIDATION"
    CodeInvalidDimensions Code = "INVALID_DIMENSIONS"
    CodeForbidden         Code = "FORBIDDEN"

    CodeMovieNotFound    Code = "MOVIE_NOT_FOUND"
    CodeScreenNotFound   Code = "SCREEN_NOT_FOUND"
    CodeSeatNotFound     Code = "SEAT_NOT_FOUND"
    CodeShowtimeNotFound Code = "SHOWTIME_NOT_FOUND"
    CodeTicketNotFound   Code = "TICKET_NOT_FOUND"
    CodeReceiptNotFound  Code = "RECEIPT_NOT_FOUND"

    CodeSeatAlreadyBooked  Code = "SEAT_ALREADY_BOOKED"
    CodeTimeConflict       Code = "TIME_CONFLICT"
    CodeExistingTickets    Code = "EXISTING_TICKETS"
    CodePastShowtime       Code = "PAST_SHOWTIME"
    CodeMovieNotAvailable  Code = "MOVIE_NOT_AVAILABLE"
    CodeIncompatibleFormat Code = "INCOMPATIBLE_FORMAT"

    CodeInvalidTicketState Code = "INVALID_TICKET_STATE"
    CodeInvalidTransition  Code = "INVALID_TRANSITION"
    CodeMissingReason      Code = "MISSING_REASON"

    CodePromotionNotFound   Code = "PROMOTION_NOT_FOUND"
    CodePromotionNotStarted Code = "PROMOTION_NOT_STARTED"
    CodePromotionExpired    Code = "PROMOTION_EXPIRED"
    CodePromotionInactive   Code = "PROMOTION_INACTIVE"
)

// Error is a structured service error.  SeatLabel names the offending
// seat for SEAT_ALREADY_BOOKED so clients can deselect it.
type Error struct {
    Code      Code
    Message   string
    SeatLabel string
}

func (e *Error) Error() string { return e.Message }

// Errf builds a structured error with a formatted message.
func Errf(code Code, format string, args ...interface{}) *Error {
    return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// seatTaken builds the batch-aborting conflict error for one seat.
func seatTaken(label string) *Error {
    return &Error{
        Code:      CodeSeatAlreadyBooked,
        Message:   fmt.Sprintf("seat %s is already booked", label),
        SeatLabel: label,
    }
}

// asServiceErr lifts repository sentinel errors into structured
// service errors. Unknown errors pass through unchanged and are
// reported as internal by the handlers.
func asServiceErr(err error) error {
    switch {
    case errors.Is(err, repository.ErrMovieNotFound):
        return Errf(CodeMovieNotFound, "movie not found")
    case errors.Is(err, repository.ErrScreenNotFound):
        return Errf(CodeScreenNotFound, "screen not found")
    case errors.Is(err, repository.ErrSeatNotFound):
        return Errf(CodeSeatNotFound, "seat not found")
    case errors.Is(err, repository.ErrShowtimeNotFound):
        return Errf(CodeShowtimeNotFound, "showtime not found")
    case errors.Is(err, repository.ErrTicketNotFound):
        return Errf(CodeTicketNotFound, "ticket not found")
    case errors.Is(err, repository.ErrReceiptNotFound):
        return Errf(CodeReceiptNotFound, "receipt not found")
    case errors.Is(err, repository.ErrPromotionNotFound):
        return Errf(CodePromotionNotFound, "promotion not found")
    }
    return err
}

// CodeOf extracts the structured code from err.  It returns an empty
// code for plain errors (database failures and the like), which
// handlers treat as internal.
func CodeOf(err error) Code {
    var se *Error
    if errors.As(err, &se) {
        return se.Code
    }
    return ""
}

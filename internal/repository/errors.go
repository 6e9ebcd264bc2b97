// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios without matching on error text; the per-entity not-found
// errors ultimately map to HTTP 404.
package repository

import "errors"

// ErrMovieNotFound is returned when a movie lookup yields no rows.
var ErrMovieNotFound = errors.New("movie not found")

// ErrScreenNotFound is returned when a screen lookup yields no rows.
var ErrScreenNotFound = errors.New("screen not found")

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

// ErrShowtimeNotFound is returned when a showtime lookup yields no rows.
var ErrShowtimeNotFound = errors.New("showtime not found")

// ErrTicketNotFound is returned when a ticket lookup yields no rows.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrReceiptNotFound is returned when a receipt lookup yields no rows.
var ErrReceiptNotFound = errors.New("receipt not found")

// ErrPromotionNotFound is returned when a promotion code is unknown.
var ErrPromotionNotFound = errors.New("promotion not found")

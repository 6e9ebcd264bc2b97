package model

import "time"

// Seat types. The first row of every generated layout is premium,
// all remaining rows are standard.
const (
    SeatStandard = "STANDARD"
    SeatPremium  = "PREMIUM"
)

// Seat describes a physical seat on a screen.  Seats are uniquely
// identified by their screen, row label and seat number.  IsAvailable
// is the live availability flag; it is flipped exclusively by the
// reservation service through an atomic conditional update, never by
// a read-then-write sequence.
//
// Fields:
//  ID          – primary key identifier.
//  ScreenID    – screen to which this seat belongs.
//  RowLabel    – letter designating the row (A–Z).
//  SeatNumber  – number of the seat within the row (1-based).
//  SeatLabel   – stable external label, "{screenID}_{row}{number}".
//  SeatType    – type of seat (STANDARD, PREMIUM).
//  IsAvailable – whether the seat can currently be claimed.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Seat struct {
    ID          uint64    // seats.id
    ScreenID    uint64    // seats.screen_id
    RowLabel    string    // seats.row_label
    SeatNumber  uint32    // seats.seat_number
    SeatLabel   string    // seats.seat_label
    SeatType    string    // seats.seat_type
    IsAvailable bool      // seats.is_available
    CreatedAt   time.Time // seats.created_at
    UpdatedAt   time.Time // seats.updated_at
}

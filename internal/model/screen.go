package model

import (
    "strings"
    "time"
)

// Screen describes a projection room.  The seat grid dimensions are
// recorded so the layout can be regenerated, and Formats lists the
// projection formats the room supports as a comma separated set
// (e.g. "2D,3D,IMAX").
//
// Fields:
//  ID        – primary key identifier.
//  Name      – human readable screen name.
//  SeatRows  – number of seat rows in the layout.
//  SeatCols  – number of seats per row.
//  Formats   – comma separated supported formats.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Screen struct {
    ID        uint64    // screens.id
    Name      string    // screens.name
    SeatRows  uint32    // screens.seat_rows
    SeatCols  uint32    // screens.seat_cols
    Formats   string    // screens.formats
    CreatedAt time.Time // screens.created_at
    UpdatedAt time.Time // screens.updated_at
}

// SupportsFormat reports whether the screen supports the given
// projection format.  Comparison is case-insensitive.
func (s *Screen) SupportsFormat(format string) bool {
    for _, f := range strings.Split(s.Formats, ",") {
        if strings.EqualFold(strings.TrimSpace(f), strings.TrimSpace(format)) {
            return true
        }
    }
    return false
}

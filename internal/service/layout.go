package service

import (
    "fmt"

    "github.com/cinetick/booking-core/internal/model"
)

// Layout bounds: rows map to letters A–Z, columns are capped to keep
// generated grids within what the seat picker can render.
const (
    maxLayoutRows = 26
    maxLayoutCols = 30
)

// BuildLayout generates the row-major seat grid for a screen.  The
// first row (A) is premium, all remaining rows are standard, and
// every seat starts available.  The seat label is stable across
// regenerations: "{screenID}_{rowLetter}{column}".
func BuildLayout(screenID uint64, rows, cols int) ([]model.Seat, error) {
    if rows <= 0 || cols <= 0 {
        return nil, Errf(CodeInvalidDimensions, "rows and cols must be positive")
    }
    if rows > maxLayoutRows {
        return nil, Errf(CodeInvalidDimensions, "rows must not exceed %d", maxLayoutRows)
    }
    if cols > maxLayoutCols {
        return nil, Errf(CodeInvalidDimensions, "cols must not exceed %d", maxLayoutCols)
    }
    seats := make([]model.Seat, 0, rows*cols)
    for r := 0; r < rows; r++ {
        rowLabel := string(rune('A' + r))
        seatType := model.SeatStandard
        if r == 0 {
            seatType = model.SeatPremium
        }
        for c := 0; c < cols; c++ {
            seats = append(seats, model.Seat{
                ScreenID:    screenID,
                RowLabel:    rowLabel,
                SeatNumber:  uint32(c + 1),
                SeatLabel:   fmt.Sprintf("%d_%s%d", screenID, rowLabel, c+1),
                SeatType:    seatType,
                IsAvailable: true,
            })
        }
    }
    return seats, nil
}

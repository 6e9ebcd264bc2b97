package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/cinetick/booking-core/internal/model"
    "github.com/cinetick/booking-core/internal/service"
)

// ScreenHandler serves the public seat availability map and the staff
// layout generator.
type ScreenHandler struct {
    Catalog *service.CatalogService
}

func NewScreenHandler(catalog *service.CatalogService) *ScreenHandler {
    if catalog == nil {
        panic("nil service passed to NewScreenHandler")
    }
    return &ScreenHandler{Catalog: catalog}
}

type seatJSON struct {
    ID          uint64 `json:"id"`
    SeatLabel   string `json:"seat_label"`
    SeatNumber  uint32 `json:"seat_number"`
    SeatType    string `json:"seat_type"`
    IsAvailable bool   `json:"is_available"`
}

// Seats handles GET /v1/screens/:id/seats. The flat seat list is
// grouped into rows ordered A..Z for direct rendering.
func (h *ScreenHandler) Seats(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid screen id"})
    }
    screen, seats, err := h.Catalog.Availability(c.Request().Context(), id)
    if err != nil {
        return writeErr(c, err)
    }

    byRow := make(map[string][]seatJSON)
    rowOrder := make([]string, 0)
    for _, s := range seats {
        if _, seen := byRow[s.RowLabel]; !seen {
            rowOrder = append(rowOrder, s.RowLabel)
        }
        byRow[s.RowLabel] = append(byRow[s.RowLabel], seatJSON{
            ID:          s.ID,
            SeatLabel:   s.SeatLabel,
            SeatNumber:  s.SeatNumber,
            SeatType:    s.SeatType,
            IsAvailable: s.IsAvailable,
        })
    }
    rows := make([]echo.Map, 0, len(rowOrder))
    for _, label := range rowOrder {
        rows = append(rows, echo.Map{"row": label, "seats": byRow[label]})
    }

    return c.JSON(http.StatusOK, echo.Map{
        "screen": echo.Map{
            "id":        screen.ID,
            "name":      screen.Name,
            "seat_rows": screen.SeatRows,
            "seat_cols": screen.SeatCols,
            "formats":   screen.Formats,
        },
        "rows": rows,
    })
}

// GenerateLayout handles POST /v1/screens/:id/layout. It replaces the
// screen's seat map with a fresh grid; refused while any active
// ticket still references a seat on the screen.
func (h *ScreenHandler) GenerateLayout(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid screen id"})
    }
    var body struct {
        Rows uint32 `json:"rows"`
        Cols uint32 `json:"cols"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    seats, err := h.Catalog.GenerateLayout(c.Request().Context(), id, body.Rows, body.Cols)
    if err != nil {
        return writeErr(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "screen_id": id,
        "rows":      body.Rows,
        "cols":      body.Cols,
        "seats":     len(seats),
        "premium":   countType(seats, model.SeatPremium),
    })
}

func countType(seats []model.Seat, seatType string) int {
    n := 0
    for _, s := range seats {
        if s.SeatType == seatType {
            n++
        }
    }
    return n
}

package handler

import (
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/cinetick/booking-core/internal/model"
    "github.com/cinetick/booking-core/internal/service"
)

// httpStatus maps service error codes onto HTTP statuses. Unknown
// codes (including wrapped database errors) fall through to 500.
func httpStatus(code service.Code) int {
    switch code {
    case service.CodeValidation, service.CodeInvalidDimensions, service.CodeMissingReason:
        return http.StatusBadRequest
    case service.CodeForbidden:
        return http.StatusForbidden
    case service.CodeMovieNotFound, service.CodeScreenNotFound, service.CodeSeatNotFound,
        service.CodeShowtimeNotFound, service.CodeTicketNotFound, service.CodeReceiptNotFound,
        service.CodePromotionNotFound:
        return http.StatusNotFound
    case service.CodeSeatAlreadyBooked, service.CodeTimeConflict, service.CodeExistingTickets,
        service.CodeInvalidTicketState, service.CodeInvalidTransition:
        return http.StatusConflict
    case service.CodePastShowtime, service.CodeMovieNotAvailable, service.CodeIncompatibleFormat,
        service.CodePromotionNotStarted, service.CodePromotionExpired, service.CodePromotionInactive:
        return http.StatusUnprocessableEntity
    }
    return http.StatusInternalServerError
}

// writeErr renders a service error as JSON. Seat conflicts include
// the offending seat label so clients can highlight it.
func writeErr(c echo.Context, err error) error {
    code := service.CodeOf(err)
    body := echo.Map{"code": string(code)}
    var se *service.Error
    if errors.As(err, &se) {
        body["error"] = se.Message
        if se.SeatLabel != "" {
            body["seat_label"] = se.SeatLabel
        }
    } else {
        body["error"] = "internal error"
        c.Logger().Error(err)
    }
    return c.JSON(httpStatus(code), body)
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, false
    }
    return id, true
}

// ticketJSON is the wire shape of a ticket.
type ticketJSON struct {
    ID            uint64  `json:"id"`
    UserID        uint64  `json:"user_id"`
    ShowtimeID    uint64  `json:"showtime_id"`
    SeatID        uint64  `json:"seat_id"`
    PriceCents    uint32  `json:"price_cents"`
    Status        string  `json:"status"`
    DeleteReason  *string `json:"delete_reason,omitempty"`
    ReceiptID     *uint64 `json:"receipt_id,omitempty"`
    HoldExpiresAt *string `json:"hold_expires_at,omitempty"`
    PurchasedAt   string  `json:"purchased_at"`
}

func ticketView(t model.Ticket) ticketJSON {
    out := ticketJSON{
        ID:           t.ID,
        UserID:       t.UserID,
        ShowtimeID:   t.ShowtimeID,
        SeatID:       t.SeatID,
        PriceCents:   t.PriceCents,
        Status:       t.Status,
        DeleteReason: t.DeleteReason,
        ReceiptID:    t.ReceiptID,
        PurchasedAt:  t.PurchasedAt.UTC().Format(time.RFC3339),
    }
    if t.HoldExpiresAt != nil {
        s := t.HoldExpiresAt.UTC().Format(time.RFC3339)
        out.HoldExpiresAt = &s
    }
    return out
}

func ticketViews(ts []model.Ticket) []ticketJSON {
    out := make([]ticketJSON, 0, len(ts))
    for _, t := range ts {
        out = append(out, ticketView(t))
    }
    return out
}

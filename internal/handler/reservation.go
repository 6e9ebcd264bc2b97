package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/cinetick/booking-core/internal/middleware"
    "github.com/cinetick/booking-core/internal/service"
)

// ReservationHandler exposes the customer booking flow: reserving
// seats, paying for them, cancelling, and listing owned tickets.
// JWT authentication runs before every method, so a zero user ID
// means a broken middleware chain and is treated as unauthorized.
type ReservationHandler struct {
    Reservations *service.ReservationService
    Payments     *service.PaymentService
}

func NewReservationHandler(reservations *service.ReservationService, payments *service.PaymentService) *ReservationHandler {
    if reservations == nil || payments == nil {
        panic("nil service passed to NewReservationHandler")
    }
    return &ReservationHandler{Reservations: reservations, Payments: payments}
}

// Reserve handles POST /v1/reservations. The whole batch succeeds or
// fails together: one taken seat rejects the request and releases
// everything claimed so far.
func (h *ReservationHandler) Reserve(c echo.Context) error {
    userID := middleware.UserID(c)
    if userID == 0 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body struct {
        ShowtimeID uint64   `json:"showtime_id"`
        SeatIDs    []uint64 `json:"seat_ids"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.ShowtimeID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "showtime_id is required"})
    }
    if len(body.SeatIDs) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_ids is required"})
    }

    tickets, err := h.Reservations.ReserveSeats(c.Request().Context(), userID, body.ShowtimeID, body.SeatIDs)
    if err != nil {
        return writeErr(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{"tickets": ticketViews(tickets)})
}

// Pay handles POST /v1/reservations/payment. It converts a batch of
// held tickets into a receipt, optionally applying a promotion code.
// Retrying after a network failure returns the already-created
// receipt instead of charging again.
func (h *ReservationHandler) Pay(c echo.Context) error {
    userID := middleware.UserID(c)
    if userID == 0 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body struct {
        TicketIDs     []uint64 `json:"ticket_ids"`
        PaymentMethod string   `json:"payment_method"`
        PromoCode     string   `json:"promo_code"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    receipt, err := h.Payments.ConfirmPayment(c.Request().Context(), userID, body.TicketIDs, body.PaymentMethod, body.PromoCode)
    if err != nil {
        return writeErr(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "receipt": echo.Map{
            "id":             receipt.ID,
            "receipt_no":     receipt.ReceiptNo,
            "total_cents":    receipt.TotalCents,
            "discount_cents": receipt.DiscountCents,
            "payment_method": receipt.PaymentMethod,
            "issued_at":      receipt.IssuedAt.UTC().Format(time.RFC3339),
        },
    })
}

// Cancel handles DELETE /v1/reservations. Customers may drop unpaid
// holds freely; cancelling a paid ticket requires a reason and keeps
// the row for the audit trail.
func (h *ReservationHandler) Cancel(c echo.Context) error {
    userID := middleware.UserID(c)
    if userID == 0 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body struct {
        TicketIDs []uint64 `json:"ticket_ids"`
        Reason    string   `json:"reason"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if len(body.TicketIDs) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticket_ids is required"})
    }

    if err := h.Reservations.Release(c.Request().Context(), userID, body.TicketIDs, body.Reason); err != nil {
        return writeErr(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"released": len(body.TicketIDs)})
}

// MyTickets handles GET /v1/my-tickets.
func (h *ReservationHandler) MyTickets(c echo.Context) error {
    userID := middleware.UserID(c)
    if userID == 0 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    tickets, err := h.Reservations.ListUserTickets(c.Request().Context(), userID)
    if err != nil {
        return writeErr(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"tickets": ticketViews(tickets)})
}

// Receipt handles GET /v1/receipts/:id. Customers only see their own
// receipts; staff pass userID 0 through the admin route instead.
func (h *ReservationHandler) Receipt(c echo.Context) error {
    userID := middleware.UserID(c)
    if userID == 0 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid receipt id"})
    }
    receipt, tickets, err := h.Payments.GetReceipt(c.Request().Context(), id, userID)
    if err != nil {
        return writeErr(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "receipt": echo.Map{
            "id":             receipt.ID,
            "receipt_no":     receipt.ReceiptNo,
            "total_cents":    receipt.TotalCents,
            "discount_cents": receipt.DiscountCents,
            "payment_method": receipt.PaymentMethod,
            "issued_at":      receipt.IssuedAt.UTC().Format(time.RFC3339),
        },
        "tickets": ticketViews(tickets),
    })
}

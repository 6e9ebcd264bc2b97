package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/cinetick/booking-core/internal/service"
)

// TicketAdminHandler is the staff surface over individual tickets:
// inspecting them and driving the status state machine (confirm
// payment at the counter, redeem at the door, soft delete, restore).
type TicketAdminHandler struct {
    Tickets *service.TicketAdminService
}

func NewTicketAdminHandler(tickets *service.TicketAdminService) *TicketAdminHandler {
    if tickets == nil {
        panic("nil service passed to NewTicketAdminHandler")
    }
    return &TicketAdminHandler{Tickets: tickets}
}

// Get handles GET /v1/tickets/:id.
func (h *TicketAdminHandler) Get(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
    }
    t, err := h.Tickets.Get(c.Request().Context(), id)
    if err != nil {
        return writeErr(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"ticket": ticketView(*t)})
}

// SetStatus handles PATCH /v1/tickets/:id. Moving a ticket to
// DELETED requires a reason; restoring a DELETED ticket re-claims its
// seat and fails with a conflict if someone else took it meanwhile.
func (h *TicketAdminHandler) SetStatus(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
    }
    var body struct {
        Status string `json:"status"`
        Reason string `json:"reason"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.Status == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "status is required"})
    }

    t, err := h.Tickets.SetStatus(c.Request().Context(), id, body.Status, body.Reason)
    if err != nil {
        return writeErr(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"ticket": ticketView(*t)})
}

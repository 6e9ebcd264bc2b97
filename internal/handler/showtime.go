package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/cinetick/booking-core/internal/model"
    "github.com/cinetick/booking-core/internal/service"
)

// ShowtimeHandler is the admin CRUD surface over the showtime
// registry. Scheduling rules (format support, overlap, sellability)
// live in the catalog service; the handler only binds and renders.
type ShowtimeHandler struct {
    Catalog *service.CatalogService
}

func NewShowtimeHandler(catalog *service.CatalogService) *ShowtimeHandler {
    if catalog == nil {
        panic("nil service passed to NewShowtimeHandler")
    }
    return &ShowtimeHandler{Catalog: catalog}
}

type showtimeBody struct {
    MovieID    uint64 `json:"movie_id"`
    ScreenID   uint64 `json:"screen_id"`
    StartsAt   string `json:"starts_at"` // RFC 3339
    Format     string `json:"format"`
    PriceCents uint32 `json:"price_cents"`
}

func (b *showtimeBody) toModel() (*model.Showtime, error) {
    startsAt, err := time.Parse(time.RFC3339, b.StartsAt)
    if err != nil {
        return nil, err
    }
    return &model.Showtime{
        MovieID:    b.MovieID,
        ScreenID:   b.ScreenID,
        StartsAt:   startsAt.UTC(),
        Format:     b.Format,
        PriceCents: b.PriceCents,
    }, nil
}

func showtimeView(st *model.Showtime) echo.Map {
    return echo.Map{
        "id":          st.ID,
        "movie_id":    st.MovieID,
        "screen_id":   st.ScreenID,
        "starts_at":   st.StartsAt.UTC().Format(time.RFC3339),
        "format":      st.Format,
        "price_cents": st.PriceCents,
    }
}

// Get handles GET /v1/showtimes/:id.
func (h *ShowtimeHandler) Get(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
    }
    st, err := h.Catalog.GetShowtime(c.Request().Context(), id)
    if err != nil {
        return writeErr(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"showtime": showtimeView(st)})
}

// Create handles POST /v1/showtimes.
func (h *ShowtimeHandler) Create(c echo.Context) error {
    var body showtimeBody
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.MovieID == 0 || body.ScreenID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id and screen_id are required"})
    }
    st, err := body.toModel()
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC 3339"})
    }
    if err := h.Catalog.CreateShowtime(c.Request().Context(), st); err != nil {
        return writeErr(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{"showtime": showtimeView(st)})
}

// Update handles PUT /v1/showtimes/:id. Showtimes with sold tickets
// only accept price and format changes.
func (h *ShowtimeHandler) Update(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
    }
    var body showtimeBody
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    st, err := body.toModel()
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC 3339"})
    }
    st.ID = id
    if err := h.Catalog.UpdateShowtime(c.Request().Context(), st); err != nil {
        return writeErr(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"showtime": showtimeView(st)})
}

// Delete handles DELETE /v1/showtimes/:id.
func (h *ShowtimeHandler) Delete(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
    }
    if err := h.Catalog.DeleteShowtime(c.Request().Context(), id); err != nil {
        return writeErr(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

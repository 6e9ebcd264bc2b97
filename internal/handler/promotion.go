package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/cinetick/booking-core/internal/model"
    "github.com/cinetick/booking-core/internal/service"
)

// PromotionHandler serves public code validation and the admin CRUD
// surface over promotions.
type PromotionHandler struct {
    Promotions *service.PromotionService
}

func NewPromotionHandler(promotions *service.PromotionService) *PromotionHandler {
    if promotions == nil {
        panic("nil service passed to NewPromotionHandler")
    }
    return &PromotionHandler{Promotions: promotions}
}

// Validate handles POST /v1/promotions/validate. It lets clients
// preview the discount a code would yield before paying; nothing is
// consumed or reserved by validation.
func (h *PromotionHandler) Validate(c echo.Context) error {
    var body struct {
        Code       string `json:"code"`
        ShowtimeID uint64 `json:"showtime_id"`
        TotalCents uint32 `json:"total_cents"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.ShowtimeID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "showtime_id is required"})
    }

    res, err := h.Promotions.Validate(c.Request().Context(), body.Code, body.ShowtimeID, body.TotalCents, nil)
    if err != nil {
        return writeErr(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "code":           res.Promotion.Code,
        "promo_type":     res.Promotion.PromoType,
        "discount_cents": res.DiscountCents,
        "final_cents":    res.FinalCents,
    })
}

type promotionBody struct {
    Code        string `json:"code"`
    Description string `json:"description"`
    PromoType   string `json:"promo_type"`
    Value       uint32 `json:"value"`
    StartsAt    string `json:"starts_at"`  // RFC 3339
    ExpiresAt   string `json:"expires_at"` // RFC 3339
    IsActive    *bool  `json:"is_active"`
}

func (b *promotionBody) toModel() (*model.Promotion, error) {
    startsAt, err := time.Parse(time.RFC3339, b.StartsAt)
    if err != nil {
        return nil, err
    }
    expiresAt, err := time.Parse(time.RFC3339, b.ExpiresAt)
    if err != nil {
        return nil, err
    }
    active := true
    if b.IsActive != nil {
        active = *b.IsActive
    }
    return &model.Promotion{
        Code:        b.Code,
        Description: b.Description,
        PromoType:   b.PromoType,
        Value:       b.Value,
        StartsAt:    startsAt.UTC(),
        ExpiresAt:   expiresAt.UTC(),
        IsActive:    active,
    }, nil
}

func promotionView(p *model.Promotion) echo.Map {
    return echo.Map{
        "id":          p.ID,
        "code":        p.Code,
        "description": p.Description,
        "promo_type":  p.PromoType,
        "value":       p.Value,
        "starts_at":   p.StartsAt.UTC().Format(time.RFC3339),
        "expires_at":  p.ExpiresAt.UTC().Format(time.RFC3339),
        "is_active":   p.IsActive,
    }
}

// List handles GET /v1/promotions.
func (h *PromotionHandler) List(c echo.Context) error {
    promos, err := h.Promotions.List(c.Request().Context())
    if err != nil {
        return writeErr(c, err)
    }
    out := make([]echo.Map, 0, len(promos))
    for i := range promos {
        out = append(out, promotionView(&promos[i]))
    }
    return c.JSON(http.StatusOK, echo.Map{"promotions": out})
}

// Create handles POST /v1/promotions.
func (h *PromotionHandler) Create(c echo.Context) error {
    var body promotionBody
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    p, err := body.toModel()
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at and expires_at must be RFC 3339"})
    }
    if err := h.Promotions.Create(c.Request().Context(), p); err != nil {
        return writeErr(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{"promotion": promotionView(p)})
}

// Update handles PUT /v1/promotions/:id.
func (h *PromotionHandler) Update(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid promotion id"})
    }
    var body promotionBody
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    p, err := body.toModel()
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at and expires_at must be RFC 3339"})
    }
    p.ID = id
    if err := h.Promotions.Update(c.Request().Context(), p); err != nil {
        return writeErr(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"promotion": promotionView(p)})
}

// Delete handles DELETE /v1/promotions/:id. Receipts that already
// used the promotion keep their recorded discount.
func (h *PromotionHandler) Delete(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid promotion id"})
    }
    if err := h.Promotions.Delete(c.Request().Context(), id); err != nil {
        return writeErr(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

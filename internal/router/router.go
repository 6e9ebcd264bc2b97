package router

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/cinetick/booking-core/internal/config"
    "github.com/cinetick/booking-core/internal/handler"
    "github.com/cinetick/booking-core/internal/middleware"
)

// Handlers bundles the handler set wired in main so route
// registration takes one argument instead of six.
type Handlers struct {
    Reservations *handler.ReservationHandler
    Tickets      *handler.TicketAdminHandler
    Screens      *handler.ScreenHandler
    Showtimes    *handler.ShowtimeHandler
    Promotions   *handler.PromotionHandler
    Ready        echo.HandlerFunc
}

// Register wires the full route table.
//
// Public routes need no token: health probes, the seat availability
// map and promotion validation. Customer routes require a JWT with
// the CUSTOMER role. Staff routes accept a staff/admin JWT or the
// box-office API key; showtime and promotion management is ADMIN
// only.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
    e.GET("/healthz", handler.Health)
    if h.Ready != nil {
        e.GET("/readyz", h.Ready)
    }

    rate := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
    cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

    // Public browse surface. Availability is the hottest endpoint in
    // the system, so it sits behind the response cache.
    pub := e.Group("/v1", rate)
    pub.GET("/screens/:id/seats", h.Screens.Seats, cache)
    pub.GET("/showtimes/:id", h.Showtimes.Get, cache)
    pub.POST("/promotions/validate", h.Promotions.Validate)

    // Customer booking flow.
    cust := e.Group("/v1", rate, middleware.JWTAuth(cfg.JWTSecret),
        middleware.RequireRole(middleware.RoleCustomer, middleware.RoleStaff, middleware.RoleAdmin))
    cust.POST("/reservations", h.Reservations.Reserve)
    cust.POST("/reservations/payment", h.Reservations.Pay)
    cust.DELETE("/reservations", h.Reservations.Cancel)
    cust.GET("/my-tickets", h.Reservations.MyTickets)
    cust.GET("/receipts/:id", h.Reservations.Receipt)

    // Staff surface: ticket lifecycle and layout management.
    staff := e.Group("/v1", rate, middleware.APIKeyAuth(cfg.StaffAPIKeyHash, cfg.JWTSecret),
        middleware.RequireRole(middleware.RoleStaff, middleware.RoleAdmin))
    staff.GET("/tickets/:id", h.Tickets.Get)
    staff.PATCH("/tickets/:id", h.Tickets.SetStatus)
    staff.POST("/screens/:id/layout", h.Screens.GenerateLayout)

    // Admin surface: showtime and promotion management.
    admin := e.Group("/v1", rate, middleware.JWTAuth(cfg.JWTSecret),
        middleware.RequireRole(middleware.RoleAdmin))
    admin.POST("/showtimes", h.Showtimes.Create)
    admin.PUT("/showtimes/:id", h.Showtimes.Update)
    admin.DELETE("/showtimes/:id", h.Showtimes.Delete)
    admin.GET("/promotions", h.Promotions.List)
    admin.POST("/promotions", h.Promotions.Create)
    admin.PUT("/promotions/:id", h.Promotions.Update)
    admin.DELETE("/promotions/:id", h.Promotions.Delete)
}

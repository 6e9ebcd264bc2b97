package main

import (
    "context"
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/cinetick/booking-core/internal/clock"
    "github.com/cinetick/booking-core/internal/config"
    "github.com/cinetick/booking-core/internal/database"
    "github.com/cinetick/booking-core/internal/handler"
    "github.com/cinetick/booking-core/internal/queue"
    "github.com/cinetick/booking-core/internal/repository"
    "github.com/cinetick/booking-core/internal/router"
    "github.com/cinetick/booking-core/internal/service"
)

func main() {
    // A missing .env is fine in production where the environment is
    // injected directly.
    _ = godotenv.Load()
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    // Redis backs rate limiting and the response cache. Both degrade
    // to no-ops when the client is nil.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Println("redis unavailable; rate limiting and response cache disabled")
    }

    clk := clock.NewSystem()
    tx := repository.NewTxRunner(db)
    seats := repository.NewSeatRepo(db)
    screens := repository.NewScreenRepo(db)
    movies := repository.NewMovieRepo(db)
    showtimes := repository.NewShowtimeRepo(db)
    tickets := repository.NewTicketRepo(db)
    receipts := repository.NewReceiptRepo(db)
    promotions := repository.NewPromotionRepo(db)

    promoSvc := service.NewPromotionService(promotions, showtimes, clk)
    reservationSvc := service.NewReservationService(tx, seats, showtimes, movies, tickets, clk, cfg.HoldTTL)
    paymentSvc := service.NewPaymentService(tx, tickets, receipts, showtimes, seats, promoSvc, queue.NewPublisher(), clk)
    ticketAdminSvc := service.NewTicketAdminService(tx, tickets, seats, clk)
    catalogSvc := service.NewCatalogService(tx, movies, screens, seats, showtimes, tickets, clk)

    // The consumer follows completed checkouts for the notification
    // worker; it reconnects forever and never takes the server down.
    go func() {
        if err := queue.StartPaymentConsumer(); err != nil {
            log.Printf("payment consumer stopped: %v", err)
        }
    }()

    // Reclaim expired unpaid holds even for showtimes nobody is
    // actively booking.
    go service.RunHoldSweeper(context.Background(), reservationSvc, cfg.SweepInterval)

    e := echo.New()
    e.HideBanner = true
    router.Register(e, router.Handlers{
        Reservations: handler.NewReservationHandler(reservationSvc, paymentSvc),
        Tickets:      handler.NewTicketAdminHandler(ticketAdminSvc),
        Screens:      handler.NewScreenHandler(catalogSvc),
        Showtimes:    handler.NewShowtimeHandler(catalogSvc),
        Promotions:   handler.NewPromotionHandler(promoSvc),
        Ready:        handler.Ready(db),
    }, cfg, rdb)

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}

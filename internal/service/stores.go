package service

import (
    "context"
    "time"

    "github.com/cinetick/booking-core/internal/model"
    "github.com/cinetick/booking-core/internal/queue"
)

// The store interfaces mirror the repository layer. Services depend on
// them instead of concrete repositories so tests can substitute
// in-memory fakes. Methods called inside a TxRunner.WithTx closure
// share that transaction through the context.

// TxRunner executes a function within one database transaction.
type TxRunner interface {
    WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SeatStore accesses the seat map of a screen.  Claim must be an
// atomic conditional update: it reports false when the seat was
// already taken, and two concurrent calls can never both report true.
type SeatStore interface {
    CreateBulk(ctx context.Context, seats []model.Seat) error
    DeleteByScreen(ctx context.Context, screenID uint64) error
    GetByScreen(ctx context.Context, screenID uint64) ([]model.Seat, error)
    GetByIDs(ctx context.Context, ids []uint64) ([]model.Seat, error)
    Claim(ctx context.Context, seatID uint64) (bool, error)
    Release(ctx context.Context, seatIDs []uint64) error
}

// ScreenStore accesses screens.
type ScreenStore interface {
    GetByID(ctx context.Context, id uint64) (*model.Screen, error)
    UpdateGrid(ctx context.Context, id uint64, seatRows, seatCols uint32) error
}

// MovieStore reads the movie catalog.
type MovieStore interface {
    GetByID(ctx context.Context, id uint64) (*model.Movie, error)
}

// ShowtimeStore accesses the showtime registry.
type ShowtimeStore interface {
    Create(ctx context.Context, s *model.Showtime) error
    GetByID(ctx context.Context, id uint64) (*model.Showtime, error)
    Update(ctx context.Context, s *model.Showtime) error
    Delete(ctx context.Context, id uint64) error
    FindOverlapping(ctx context.Context, screenID uint64, start, end time.Time) ([]model.Showtime, error)
    FindOverlappingExcluding(ctx context.Context, screenID, excludeID uint64, start, end time.Time) ([]model.Showtime, error)
    CountActiveTickets(ctx context.Context, showtimeID uint64) (int, error)
}

// TicketStore accesses tickets.
type TicketStore interface {
    Create(ctx context.Context, t *model.Ticket) error
    GetByID(ctx context.Context, id uint64) (*model.Ticket, error)
    GetByIDsForUpdate(ctx context.Context, ids []uint64) ([]model.Ticket, error)
    ListByUser(ctx context.Context, userID uint64) ([]model.Ticket, error)
    ListByReceipt(ctx context.Context, receiptID uint64) ([]model.Ticket, error)
    UpdateStatus(ctx context.Context, id uint64, status string, reason *string) error
    Restore(ctx context.Context, id uint64, holdExpiresAt *time.Time) error
    AttachReceipt(ctx context.Context, ticketIDs []uint64, receiptID uint64) error
    DeleteByIDs(ctx context.Context, ids []uint64) error
    ActiveBySeat(ctx context.Context, showtimeID, seatID uint64) (*model.Ticket, error)
    ExpiredHolds(ctx context.Context, showtimeID uint64, now time.Time) ([]model.Ticket, error)
    CountActiveByScreen(ctx context.Context, screenID uint64) (int, error)
}

// ReceiptStore accesses receipts.
type ReceiptStore interface {
    Create(ctx context.Context, rec *model.Receipt) error
    GetByID(ctx context.Context, id uint64) (*model.Receipt, error)
}

// PromotionStore accesses promotion codes.
type PromotionStore interface {
    GetByCode(ctx context.Context, code string) (*model.Promotion, error)
    GetByID(ctx context.Context, id uint64) (*model.Promotion, error)
    List(ctx context.Context) ([]model.Promotion, error)
    Create(ctx context.Context, p *model.Promotion) error
    Update(ctx context.Context, p *model.Promotion) error
    Delete(ctx context.Context, id uint64) error
}

// Publisher delivers domain events to the message broker.  Publishing
// is fire-and-forget with respect to bookings: a failed publish is
// logged, never rolled back into the transaction.
type Publisher interface {
    PublishPaymentRecorded(ctx context.Context, ev queue.PaymentRecordedEvent) error
}

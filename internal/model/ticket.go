package model

import "time"

// Ticket statuses. RESERVED and PAID occupy the underlying seat;
// USED keeps the seat as a historical record; DELETED frees it.
const (
    TicketReserved = "RESERVED"
    TicketPaid     = "PAID"
    TicketUsed     = "USED"
    TicketDeleted  = "DELETED"
)

// Ticket records the claim of one seat for one showtime by one user.
// The core invariant of the system is that at most one non-DELETED
// ticket exists for a given (showtime, seat) pair at any time.
//
// A ticket is created RESERVED with a hold expiry; attaching a
// receipt records payment without flipping the status (staff finalize
// the RESERVED→PAID transition asynchronously).  Unpaid holds whose
// expiry has passed are swept and their rows removed.
//
// Fields:
//  ID            – primary key identifier.
//  UserID        – user who reserved the seat.
//  ShowtimeID    – showtime being attended.
//  SeatID        – seat claimed by this ticket.
//  PriceCents    – price in cents recorded at reservation time.
//  Status        – RESERVED, PAID, USED or DELETED.
//  DeleteReason  – mandatory explanation when status is DELETED.
//  ReceiptID     – receipt that paid for this ticket, if any.
//  HoldExpiresAt – when an unpaid RESERVED hold lapses.
//  PurchasedAt   – when the ticket was created.
//  UpdatedAt     – last update timestamp.
type Ticket struct {
    ID            uint64     // tickets.id
    UserID        uint64     // tickets.user_id
    ShowtimeID    uint64     // tickets.showtime_id
    SeatID        uint64     // tickets.seat_id
    PriceCents    uint32     // tickets.price_cents
    Status        string     // tickets.status
    DeleteReason  *string    // tickets.delete_reason (nullable)
    ReceiptID     *uint64    // tickets.receipt_id (nullable)
    HoldExpiresAt *time.Time // tickets.hold_expires_at (nullable)
    PurchasedAt   time.Time  // tickets.purchased_at
    UpdatedAt     time.Time  // tickets.updated_at
}

// Occupying reports whether the ticket currently blocks its seat from
// being claimed by someone else.
func (t *Ticket) Occupying() bool {
    return t.Status == TicketReserved || t.Status == TicketPaid
}

// Active reports whether the ticket counts against the one-active-
// ticket-per-seat invariant.
func (t *Ticket) Active() bool {
    return t.Status != TicketDeleted
}

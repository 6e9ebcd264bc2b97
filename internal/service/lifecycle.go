package service

import (
    "context"
    "strings"
    "time"

    "github.com/cinetick/booking-core/internal/clock"
    "github.com/cinetick/booking-core/internal/model"
)

// TicketAdminService is the staff surface over the ticket state
// machine. Customers never call this directly: their cancel path goes
// through ReservationService.Release.
//
// Allowed transitions:
//
//	RESERVED → PAID     staff confirm an offline payment
//	RESERVED → USED     walk-in redeemed before marking paid
//	PAID     → USED     ticket redeemed at the door
//	any      → DELETED  soft delete, reason required
//	DELETED  → RESERVED restore, re-claims the seat
//
// Everything else is rejected with INVALID_TRANSITION.
type TicketAdminService struct {
    tx      TxRunner
    tickets TicketStore
    seats   SeatStore
    clock   clock.Clock
    holdTTL time.Duration
}

func NewTicketAdminService(tx TxRunner, tickets TicketStore, seats SeatStore, clk clock.Clock) *TicketAdminService {
    if tx == nil || tickets == nil || seats == nil || clk == nil {
        panic("nil dependency passed to NewTicketAdminService")
    }
    return &TicketAdminService{tx: tx, tickets: tickets, seats: seats, clock: clk, holdTTL: DefaultHoldTTL}
}

// SetStatus moves one ticket to newStatus, enforcing the transition
// table and keeping seat availability consistent with the change.
func (s *TicketAdminService) SetStatus(ctx context.Context, ticketID uint64, newStatus, reason string) (*model.Ticket, error) {
    newStatus = strings.ToUpper(strings.TrimSpace(newStatus))
    switch newStatus {
    case model.TicketReserved, model.TicketPaid, model.TicketUsed, model.TicketDeleted:
    default:
        return nil, Errf(CodeValidation, "unknown ticket status %q", newStatus)
    }

    var out *model.Ticket
    err := s.tx.WithTx(ctx, func(ctx context.Context) error {
        tickets, err := s.tickets.GetByIDsForUpdate(ctx, []uint64{ticketID})
        if err != nil {
            return err
        }
        if len(tickets) == 0 {
            return Errf(CodeTicketNotFound, "ticket %d not found", ticketID)
        }
        t := tickets[0]
        if t.Status == newStatus {
            out = &t
            return nil
        }

        switch {
        case newStatus == model.TicketDeleted:
            if strings.TrimSpace(reason) == "" {
                return Errf(CodeMissingReason, "a delete reason is required")
            }
            if err := s.tickets.UpdateStatus(ctx, t.ID, model.TicketDeleted, &reason); err != nil {
                return err
            }
            // USED→DELETED frees nothing: the seat was already
            // released when the showtime passed into history.
            if t.Occupying() {
                if err := s.seats.Release(ctx, []uint64{t.SeatID}); err != nil {
                    return err
                }
            }

        case t.Status == model.TicketDeleted && newStatus == model.TicketReserved:
            existing, err := s.tickets.ActiveBySeat(ctx, t.ShowtimeID, t.SeatID)
            if err != nil {
                return err
            }
            if existing != nil {
                seat, err := s.seats.GetByIDs(ctx, []uint64{t.SeatID})
                if err != nil || len(seat) == 0 {
                    return Errf(CodeSeatAlreadyBooked, "seat is held by another ticket")
                }
                return seatTaken(seat[0].SeatLabel)
            }
            if ok, err := s.seats.Claim(ctx, t.SeatID); err != nil {
                return err
            } else if !ok {
                return Errf(CodeSeatAlreadyBooked, "seat is no longer available")
            }
            var holdExpires *time.Time
            if t.ReceiptID == nil {
                exp := s.clock.Now().Add(s.holdTTL)
                holdExpires = &exp
            }
            if err := s.tickets.Restore(ctx, t.ID, holdExpires); err != nil {
                return err
            }

        case t.Status == model.TicketReserved && newStatus == model.TicketPaid,
            t.Status == model.TicketReserved && newStatus == model.TicketUsed,
            t.Status == model.TicketPaid && newStatus == model.TicketUsed:
            if err := s.tickets.UpdateStatus(ctx, t.ID, newStatus, nil); err != nil {
                return err
            }

        default:
            return Errf(CodeInvalidTransition, "cannot move ticket from %s to %s", t.Status, newStatus)
        }

        updated, err := s.tickets.GetByID(ctx, t.ID)
        if err != nil {
            return asServiceErr(err)
        }
        out = updated
        return nil
    })
    if err != nil {
        return nil, err
    }
    return out, nil
}

// Get returns one ticket by ID for the staff detail view.
func (s *TicketAdminService) Get(ctx context.Context, ticketID uint64) (*model.Ticket, error) {
    t, err := s.tickets.GetByID(ctx, ticketID)
    if err != nil {
        return nil, asServiceErr(err)
    }
    return t, nil
}

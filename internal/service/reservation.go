package service

import (
    "context"
    "sort"
    "time"

    "github.com/cinetick/booking-core/internal/clock"
    "github.com/cinetick/booking-core/internal/model"
)

// DefaultHoldTTL bounds how long an unpaid RESERVED ticket occupies
// its seat before the sweep releases it.
const DefaultHoldTTL = 5 * time.Minute

// ReservationService is the state machine that moves seats from
// available to held to ticketed and back. It owns the at-most-one-
// buyer-per-seat invariant: every seat claim is an atomic conditional
// update executed inside a batch transaction, so a multi-seat request
// either claims every seat or leaves all of them untouched.
type ReservationService struct {
    tx        TxRunner
    seats     SeatStore
    showtimes ShowtimeStore
    movies    MovieStore
    tickets   TicketStore
    clock     clock.Clock
    holdTTL   time.Duration
}

// NewReservationService constructs a ReservationService.  All
// dependencies must be non-nil.
func NewReservationService(tx TxRunner, seats SeatStore, showtimes ShowtimeStore, movies MovieStore, tickets TicketStore, clk clock.Clock, holdTTL time.Duration) *ReservationService {
    if tx == nil || seats == nil || showtimes == nil || movies == nil || tickets == nil || clk == nil {
        panic("nil dependency passed to NewReservationService")
    }
    if holdTTL <= 0 {
        holdTTL = DefaultHoldTTL
    }
    return &ReservationService{
        tx:        tx,
        seats:     seats,
        showtimes: showtimes,
        movies:    movies,
        tickets:   tickets,
        clock:     clk,
        holdTTL:   holdTTL,
    }
}

// ReserveSeats claims the requested seats for one user and showtime,
// creating one RESERVED ticket per seat. The batch is all-or-nothing:
// if any seat is already taken the whole transaction rolls back and
// the returned error names the seat that failed. Seats are claimed in
// ascending ID order so concurrent batches cannot deadlock on row
// locks. Expired holds for the showtime are swept before claiming.
func (s *ReservationService) ReserveSeats(ctx context.Context, userID, showtimeID uint64, seatIDs []uint64) ([]model.Ticket, error) {
    if userID == 0 || showtimeID == 0 {
        return nil, Errf(CodeValidation, "user id and showtime id are required")
    }
    // Deduplicate; requesting the same seat twice is treated as once.
    unique := make([]uint64, 0, len(seatIDs))
    seen := make(map[uint64]struct{}, len(seatIDs))
    for _, id := range seatIDs {
        if id == 0 {
            continue
        }
        if _, ok := seen[id]; !ok {
            seen[id] = struct{}{}
            unique = append(unique, id)
        }
    }
    if len(unique) == 0 {
        return nil, Errf(CodeValidation, "seat_ids is required")
    }
    // Stable claim order avoids lock-ordering deadlocks between
    // concurrent batches touching overlapping seat sets.
    sort.Slice(unique, func(i, j int) bool { return unique[i] < unique[j] })

    now := s.clock.Now()
    var created []model.Ticket
    err := s.tx.WithTx(ctx, func(ctx context.Context) error {
        showtime, err := s.showtimes.GetByID(ctx, showtimeID)
        if err != nil {
            return asServiceErr(err)
        }
        if !showtime.StartsAt.After(now) {
            return Errf(CodePastShowtime, "showtime has already started")
        }
        movie, err := s.movies.GetByID(ctx, showtime.MovieID)
        if err != nil {
            return asServiceErr(err)
        }
        if !movie.Sellable() {
            return Errf(CodeMovieNotAvailable, "movie is not on sale")
        }

        if err := s.sweepExpired(ctx, showtimeID, now); err != nil {
            return err
        }

        seats, err := s.seats.GetByIDs(ctx, unique)
        if err != nil {
            return err
        }
        byID := make(map[uint64]model.Seat, len(seats))
        for _, seat := range seats {
            byID[seat.ID] = seat
        }
        for _, id := range unique {
            seat, ok := byID[id]
            if !ok {
                return Errf(CodeSeatNotFound, "seat %d not found", id)
            }
            if seat.ScreenID != showtime.ScreenID {
                return Errf(CodeValidation, "seat %s does not belong to this screen", seat.SeatLabel)
            }
        }

        holdExpires := now.Add(s.holdTTL)
        created = make([]model.Ticket, 0, len(unique))
        for _, id := range unique {
            won, err := s.seats.Claim(ctx, id)
            if err != nil {
                return err
            }
            if !won {
                // Rolling back the transaction releases every seat
                // claimed earlier in this batch and discards their
                // tickets.
                return seatTaken(byID[id].SeatLabel)
            }
            ticket := model.Ticket{
                UserID:        userID,
                ShowtimeID:    showtimeID,
                SeatID:        id,
                PriceCents:    showtime.PriceCents,
                Status:        model.TicketReserved,
                HoldExpiresAt: &holdExpires,
            }
            if err := s.tickets.Create(ctx, &ticket); err != nil {
                return err
            }
            created = append(created, ticket)
        }
        return nil
    })
    if err != nil {
        return nil, err
    }
    return created, nil
}

// Release cancels tickets. Tickets without a receipt are unpaid holds
// and are physically removed; receipted tickets move to DELETED and
// require a reason. Seats are freed only when the ticket leaves an
// occupying status — a USED ticket never frees its seat. When userID
// is non-zero, ownership is enforced (customer self-cancellation);
// staff callers pass zero.
func (s *ReservationService) Release(ctx context.Context, userID uint64, ticketIDs []uint64, reason string) error {
    if len(ticketIDs) == 0 {
        return Errf(CodeValidation, "ticket_ids is required")
    }
    return s.tx.WithTx(ctx, func(ctx context.Context) error {
        tickets, err := s.tickets.GetByIDsForUpdate(ctx, ticketIDs)
        if err != nil {
            return err
        }
        if len(tickets) != len(ticketIDs) {
            return Errf(CodeTicketNotFound, "one or more tickets not found")
        }
        var toDelete []uint64
        var toFree []uint64
        for _, t := range tickets {
            if userID != 0 && t.UserID != userID {
                return Errf(CodeForbidden, "ticket %d belongs to another user", t.ID)
            }
            if t.Status == model.TicketDeleted {
                continue // already released; keep the call idempotent
            }
            if t.ReceiptID == nil && t.Status == model.TicketReserved {
                toDelete = append(toDelete, t.ID)
                toFree = append(toFree, t.SeatID)
                continue
            }
            if reason == "" {
                return Errf(CodeMissingReason, "a reason is required to delete ticket %d", t.ID)
            }
            r := reason
            if err := s.tickets.UpdateStatus(ctx, t.ID, model.TicketDeleted, &r); err != nil {
                return err
            }
            if t.Occupying() {
                toFree = append(toFree, t.SeatID)
            }
        }
        if err := s.tickets.DeleteByIDs(ctx, toDelete); err != nil {
            return err
        }
        return s.seats.Release(ctx, toFree)
    })
}

// SweepExpiredHolds releases every unpaid hold in the system whose
// expiry has passed and returns the number of holds released.  The
// background sweeper calls this periodically; ReserveSeats performs
// the same sweep lazily for the showtime it is booking.
func (s *ReservationService) SweepExpiredHolds(ctx context.Context) (int, error) {
    released := 0
    err := s.tx.WithTx(ctx, func(ctx context.Context) error {
        n, err := s.sweepCount(ctx, 0, s.clock.Now())
        released = n
        return err
    })
    return released, err
}

func (s *ReservationService) sweepExpired(ctx context.Context, showtimeID uint64, now time.Time) error {
    _, err := s.sweepCount(ctx, showtimeID, now)
    return err
}

func (s *ReservationService) sweepCount(ctx context.Context, showtimeID uint64, now time.Time) (int, error) {
    expired, err := s.tickets.ExpiredHolds(ctx, showtimeID, now)
    if err != nil {
        return 0, err
    }
    if len(expired) == 0 {
        return 0, nil
    }
    ids := make([]uint64, 0, len(expired))
    seatIDs := make([]uint64, 0, len(expired))
    for _, t := range expired {
        ids = append(ids, t.ID)
        seatIDs = append(seatIDs, t.SeatID)
    }
    if err := s.tickets.DeleteByIDs(ctx, ids); err != nil {
        return 0, err
    }
    if err := s.seats.Release(ctx, seatIDs); err != nil {
        return 0, err
    }
    return len(ids), nil
}

// ListUserTickets returns the tickets of one user, newest first.
func (s *ReservationService) ListUserTickets(ctx context.Context, userID uint64) ([]model.Ticket, error) {
    return s.tickets.ListByUser(ctx, userID)
}

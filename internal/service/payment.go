package service

import (
    "context"
    "log"
    "time"

    "github.com/google/uuid"

    "github.com/cinetick/booking-core/internal/clock"
    "github.com/cinetick/booking-core/internal/model"
    "github.com/cinetick/booking-core/internal/queue"
)

// PaymentService aggregates the tickets of one checkout into a priced
// receipt. Creating a receipt does not flip ticket status: tickets
// track "has a receipt" independently of "has been marked paid" so
// staff can finalize the RESERVED→PAID transition asynchronously.
//
// ConfirmPayment is idempotent: retrying with an already-receipted
// ticket set detects the existing receipt and returns it instead of
// charging twice. A batch mixing receipted and unreceipted tickets
// is rejected outright.
type PaymentService struct {
    tx         TxRunner
    tickets    TicketStore
    receipts   ReceiptStore
    showtimes  ShowtimeStore
    seats      SeatStore
    promotions *PromotionService
    publisher  Publisher
    clock      clock.Clock
}

// NewPaymentService constructs a PaymentService.  The publisher may
// be nil, in which case no events are emitted.
func NewPaymentService(tx TxRunner, tickets TicketStore, receipts ReceiptStore, showtimes ShowtimeStore, seats SeatStore, promotions *PromotionService, publisher Publisher, clk clock.Clock) *PaymentService {
    if tx == nil || tickets == nil || receipts == nil || showtimes == nil || seats == nil || promotions == nil || clk == nil {
        panic("nil dependency passed to NewPaymentService")
    }
    return &PaymentService{
        tx:         tx,
        tickets:    tickets,
        receipts:   receipts,
        showtimes:  showtimes,
        seats:      seats,
        promotions: promotions,
        publisher:  publisher,
        clock:      clk,
    }
}

// ConfirmPayment creates exactly one receipt for a batch of RESERVED
// tickets belonging to one user and one showtime, applying the
// optional promotion code to the total. The receipt's total is
// recorded at creation time and never recomputed.
func (s *PaymentService) ConfirmPayment(ctx context.Context, userID uint64, ticketIDs []uint64, paymentMethod, promoCode string) (*model.Receipt, error) {
    if len(ticketIDs) == 0 {
        return nil, Errf(CodeValidation, "ticket_ids is required")
    }
    if paymentMethod == "" {
        return nil, Errf(CodeValidation, "payment_method is required")
    }

    now := s.clock.Now()
    var receipt *model.Receipt
    var event *queue.PaymentRecordedEvent
    err := s.tx.WithTx(ctx, func(ctx context.Context) error {
        tickets, err := s.tickets.GetByIDsForUpdate(ctx, ticketIDs)
        if err != nil {
            return err
        }
        if len(tickets) != len(ticketIDs) {
            return Errf(CodeTicketNotFound, "one or more tickets not found")
        }

        showtimeID := tickets[0].ShowtimeID
        for _, t := range tickets {
            if t.UserID != userID {
                return Errf(CodeInvalidTicketState, "tickets belong to different users")
            }
            if t.ShowtimeID != showtimeID {
                return Errf(CodeInvalidTicketState, "tickets span multiple showtimes")
            }
        }

        // Idempotency: a receipt and its ticket links commit in one
        // transaction, so a receipted ticket means a prior invocation
        // completed. The whole batch must carry that same receipt;
        // otherwise the caller mixed paid and unpaid tickets and an
        // unpaid one would ride along at no charge.
        if existingID := sharedReceiptID(tickets); existingID != nil {
            for _, t := range tickets {
                if t.ReceiptID == nil || *t.ReceiptID != *existingID {
                    return Errf(CodeInvalidTicketState, "ticket %d is not covered by receipt %d", t.ID, *existingID)
                }
            }
            existing, err := s.receipts.GetByID(ctx, *existingID)
            if err != nil {
                return asServiceErr(err)
            }
            receipt = existing
            return nil
        }

        var total uint32
        seatIDs := make([]uint64, 0, len(tickets))
        prices := make([]uint32, 0, len(tickets))
        for _, t := range tickets {
            if t.Status != model.TicketReserved {
                return Errf(CodeInvalidTicketState, "ticket %d is %s, expected RESERVED", t.ID, t.Status)
            }
            if t.HoldExpiresAt != nil && !t.HoldExpiresAt.After(now) {
                return Errf(CodeInvalidTicketState, "hold on ticket %d has expired", t.ID)
            }
            total += t.PriceCents
            seatIDs = append(seatIDs, t.SeatID)
            prices = append(prices, t.PriceCents)
        }

        var discount uint32
        if promoCode != "" {
            res, err := s.promotions.Validate(ctx, promoCode, showtimeID, total, prices)
            if err != nil {
                return err
            }
            discount = res.DiscountCents
        }

        showtime, err := s.showtimes.GetByID(ctx, showtimeID)
        if err != nil {
            return asServiceErr(err)
        }

        rec := model.Receipt{
            ReceiptNo:     uuid.NewString(),
            UserID:        userID,
            MovieID:       showtime.MovieID,
            TotalCents:    total - discount,
            DiscountCents: discount,
            PaymentMethod: paymentMethod,
        }
        if err := s.receipts.Create(ctx, &rec); err != nil {
            return err
        }
        if err := s.tickets.AttachReceipt(ctx, ticketIDs, rec.ID); err != nil {
            return err
        }
        receipt = &rec

        labels, err := s.seatLabels(ctx, seatIDs)
        if err != nil {
            return err
        }
        event = &queue.PaymentRecordedEvent{
            ReceiptID:     rec.ID,
            ReceiptNo:     rec.ReceiptNo,
            UserID:        userID,
            ShowtimeID:    showtimeID,
            MovieID:       showtime.MovieID,
            TicketIDs:     ticketIDs,
            SeatLabels:    labels,
            TotalCents:    rec.TotalCents,
            DiscountCents: rec.DiscountCents,
            PaymentMethod: paymentMethod,
            RecordedAt:    now.Format(time.RFC3339),
        }
        return nil
    })
    if err != nil {
        return nil, err
    }
    // Fire-and-forget: a failed notification must not undo a payment.
    if event != nil && s.publisher != nil {
        if perr := s.publisher.PublishPaymentRecorded(ctx, *event); perr != nil {
            log.Printf("payment: publish payment_recorded failed: %v", perr)
        }
    }
    return receipt, nil
}

func sharedReceiptID(tickets []model.Ticket) *uint64 {
    for _, t := range tickets {
        if t.ReceiptID != nil {
            return t.ReceiptID
        }
    }
    return nil
}

func (s *PaymentService) seatLabels(ctx context.Context, seatIDs []uint64) ([]string, error) {
    seats, err := s.seats.GetByIDs(ctx, seatIDs)
    if err != nil {
        return nil, err
    }
    labels := make([]string, 0, len(seats))
    for _, seat := range seats {
        labels = append(labels, seat.SeatLabel)
    }
    return labels, nil
}

// GetReceipt returns a receipt together with its linked tickets.
// When userID is non-zero the receipt must belong to that user.
func (s *PaymentService) GetReceipt(ctx context.Context, id, userID uint64) (*model.Receipt, []model.Ticket, error) {
    rec, err := s.receipts.GetByID(ctx, id)
    if err != nil {
        return nil, nil, asServiceErr(err)
    }
    if userID != 0 && rec.UserID != userID {
        return nil, nil, Errf(CodeForbidden, "receipt belongs to another user")
    }
    tickets, err := s.tickets.ListByReceipt(ctx, rec.ID)
    if err != nil {
        return nil, nil, err
    }
    return rec, tickets, nil
}

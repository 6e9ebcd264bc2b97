package model

import "time"

// Receipt aggregates the tickets of one checkout into a single priced
// record.  Receipts are immutable after creation: TotalCents is the
// sum of the linked ticket prices minus DiscountCents, computed once
// and never recomputed even if the promotion is later deactivated.
//
// Fields:
//  ID            – primary key identifier.
//  ReceiptNo     – external receipt number (UUID).
//  UserID        – user who paid.
//  MovieID       – movie the tickets are for.
//  TotalCents    – final charged amount in cents.
//  DiscountCents – discount applied at creation time.
//  PaymentMethod – how the checkout was paid (e.g. CARD, CASH).
//  IssuedAt      – when the receipt was created.
type Receipt struct {
    ID            uint64    // receipts.id
    ReceiptNo     string    // receipts.receipt_no
    UserID        uint64    // receipts.user_id
    MovieID       uint64    // receipts.movie_id
    TotalCents    uint32    // receipts.total_cents
    DiscountCents uint32    // receipts.discount_cents
    PaymentMethod string    // receipts.payment_method
    IssuedAt      time.Time // receipts.issued_at
}

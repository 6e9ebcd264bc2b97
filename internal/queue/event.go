// Package queue defines message payloads exchanged over the message
// broker, the publisher used by the payment flow and the background
// consumer feeding the notification log.
package queue

// PaymentRecordedEvent is published when a checkout produces a
// receipt. It carries enough information for downstream consumers to
// notify the customer or feed analytics without querying the primary
// database.
type PaymentRecordedEvent struct {
    ReceiptID     uint64   `json:"receipt_id"`
    ReceiptNo     string   `json:"receipt_no"`
    UserID        uint64   `json:"user_id"`
    ShowtimeID    uint64   `json:"showtime_id"`
    MovieID       uint64   `json:"movie_id"`
    TicketIDs     []uint64 `json:"ticket_ids"`
    SeatLabels    []string `json:"seats"`
    TotalCents    uint32   `json:"total_cents"`
    DiscountCents uint32   `json:"discount_cents"`
    PaymentMethod string   `json:"payment_method"`
    RecordedAt    string   `json:"recorded_at"`
}

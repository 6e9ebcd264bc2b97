package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"
    "time"

    "github.com/cinetick/booking-core/internal/model"
)

// ticketColumns is the column list shared by every ticket SELECT so
// scanTicket stays in sync with one place.
const ticketColumns = `id, user_id, showtime_id, seat_id, price_cents, status, delete_reason, receipt_id, hold_expires_at, purchased_at, updated_at`

// TicketRepo provides CRUD operations for tickets.  A ticket is the
// persistent record of one seat claim; the reservation service owns
// every status change that affects seat availability.
type TicketRepo struct {
    db *sql.DB
}

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

func scanTicket(row interface{ Scan(...interface{}) error }) (*model.Ticket, error) {
    var t model.Ticket
    var reason sql.NullString
    var receiptID sql.NullInt64
    var holdExpires sql.NullTime
    if err := row.Scan(
        &t.ID, &t.UserID, &t.ShowtimeID, &t.SeatID, &t.PriceCents, &t.Status,
        &reason, &receiptID, &holdExpires, &t.PurchasedAt, &t.UpdatedAt,
    ); err != nil {
        return nil, err
    }
    if reason.Valid {
        v := reason.String
        t.DeleteReason = &v
    }
    if receiptID.Valid {
        v := uint64(receiptID.Int64)
        t.ReceiptID = &v
    }
    if holdExpires.Valid {
        v := holdExpires.Time.UTC()
        t.HoldExpiresAt = &v
    }
    return &t, nil
}

// Create inserts a new RESERVED ticket and populates the generated ID
// plus DB-default timestamps on the provided struct.
func (r *TicketRepo) Create(ctx context.Context, t *model.Ticket) error {
    const ins = `INSERT INTO tickets (user_id, showtime_id, seat_id, price_cents, status, hold_expires_at)
                 VALUES (?, ?, ?, ?, ?, ?)`
    var holdExpires interface{}
    if t.HoldExpiresAt != nil {
        holdExpires = t.HoldExpiresAt.UTC().Format(dbTime)
    }
    res, err := q(ctx, r.db).ExecContext(ctx, ins, t.UserID, t.ShowtimeID, t.SeatID, t.PriceCents, t.Status, holdExpires)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    t.ID = uint64(id)
    sel := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ?`
    fresh, err := scanTicket(q(ctx, r.db).QueryRowContext(ctx, sel, t.ID))
    if err != nil {
        return err
    }
    *t = *fresh
    return nil
}

// GetByID retrieves a ticket by its ID.  It returns ErrTicketNotFound
// when there is no matching row.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
    sel := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ?`
    t, err := scanTicket(q(ctx, r.db).QueryRowContext(ctx, sel, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrTicketNotFound
        }
        return nil, err
    }
    return t, nil
}

// GetByIDsForUpdate loads the given tickets with row locks so payment
// confirmation serializes against concurrent status changes.  Must be
// called inside a transaction.  Unknown IDs are silently omitted;
// callers compare lengths.
func (r *TicketRepo) GetByIDsForUpdate(ctx context.Context, ids []uint64) ([]model.Ticket, error) {
    if len(ids) == 0 {
        return []model.Ticket{}, nil
    }
    placeholders := make([]string, 0, len(ids))
    args := make([]interface{}, 0, len(ids))
    for _, id := range ids {
        placeholders = append(placeholders, "?")
        args = append(args, id)
    }
    sel := `SELECT ` + ticketColumns + ` FROM tickets WHERE id IN (` + strings.Join(placeholders, ",") + `) ORDER BY id FOR UPDATE`
    rows, err := q(ctx, r.db).QueryContext(ctx, sel, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var result []model.Ticket
    for rows.Next() {
        t, err := scanTicket(rows)
        if err != nil {
            return nil, err
        }
        result = append(result, *t)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

// ListByUser returns all tickets of a user, newest first.
func (r *TicketRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Ticket, error) {
    sel := `SELECT ` + ticketColumns + ` FROM tickets WHERE user_id = ? ORDER BY purchased_at DESC, id DESC`
    rows, err := q(ctx, r.db).QueryContext(ctx, sel, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    result := make([]model.Ticket, 0)
    for rows.Next() {
        t, err := scanTicket(rows)
        if err != nil {
            return nil, err
        }
        result = append(result, *t)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

// ListByReceipt returns all tickets linked to a receipt.
func (r *TicketRepo) ListByReceipt(ctx context.Context, receiptID uint64) ([]model.Ticket, error) {
    sel := `SELECT ` + ticketColumns + ` FROM tickets WHERE receipt_id = ? ORDER BY id`
    rows, err := q(ctx, r.db).QueryContext(ctx, sel, receiptID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    result := make([]model.Ticket, 0)
    for rows.Next() {
        t, err := scanTicket(rows)
        if err != nil {
            return nil, err
        }
        result = append(result, *t)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

// UpdateStatus sets a ticket's status.  The delete reason is written
// when reason is non-nil and cleared when the ticket leaves DELETED.
func (r *TicketRepo) UpdateStatus(ctx context.Context, id uint64, status string, reason *string) error {
    const upd = `UPDATE tickets SET status = ?, delete_reason = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
    var reasonArg interface{}
    if reason != nil {
        reasonArg = *reason
    }
    res, err := q(ctx, r.db).ExecContext(ctx, upd, status, reasonArg, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrTicketNotFound
    }
    return nil
}

// AttachReceipt links tickets to a receipt.  Only rows without a
// receipt are touched so a retried payment confirmation can complete
// a partially linked batch without clobbering anything.
func (r *TicketRepo) AttachReceipt(ctx context.Context, ticketIDs []uint64, receiptID uint64) error {
    if len(ticketIDs) == 0 {
        return nil
    }
    placeholders := make([]string, 0, len(ticketIDs))
    args := []interface{}{receiptID}
    for _, id := range ticketIDs {
        placeholders = append(placeholders, "?")
        args = append(args, id)
    }
    upd := `UPDATE tickets SET receipt_id = ?, updated_at = CURRENT_TIMESTAMP
	          WHERE id IN (` + strings.Join(placeholders, ",") + `) AND receipt_id IS NULL`
    _, err := q(ctx, r.db).ExecContext(ctx, upd, args...)
    return err
}

// DeleteByIDs physically removes ticket rows.  Only unpaid holds are
// ever deleted this way; anything with a receipt is soft-deleted via
// UpdateStatus instead.
func (r *TicketRepo) DeleteByIDs(ctx context.Context, ids []uint64) error {
    if len(ids) == 0 {
        return nil
    }
    placeholders := make([]string, 0, len(ids))
    args := make([]interface{}, 0, len(ids))
    for _, id := range ids {
        placeholders = append(placeholders, "?")
        args = append(args, id)
    }
    del := `DELETE FROM tickets WHERE id IN (` + strings.Join(placeholders, ",") + `)`
    _, err := q(ctx, r.db).ExecContext(ctx, del, args...)
    return err
}

// Restore moves a DELETED ticket back to RESERVED, clearing the
// delete reason and starting a fresh hold window so the sweeper does
// not immediately reap an unpaid restored ticket.
func (r *TicketRepo) Restore(ctx context.Context, id uint64, holdExpiresAt *time.Time) error {
    const upd = `UPDATE tickets SET status = 'RESERVED', delete_reason = NULL, hold_expires_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
    var expiresArg interface{}
    if holdExpiresAt != nil {
        expiresArg = holdExpiresAt.UTC().Format(dbTime)
    }
    res, err := q(ctx, r.db).ExecContext(ctx, upd, expiresArg, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrTicketNotFound
    }
    return nil
}

// CountActiveByScreen returns the number of non-deleted tickets that
// reference any seat on the given screen.  Layout regeneration is
// refused while this is non-zero.
func (r *TicketRepo) CountActiveByScreen(ctx context.Context, screenID uint64) (int, error) {
    const sel = `SELECT COUNT(*)
                 FROM tickets t
                 JOIN seats s ON s.id = t.seat_id
                 WHERE s.screen_id = ? AND t.status <> 'DELETED'`
    var n int
    if err := q(ctx, r.db).QueryRowContext(ctx, sel, screenID).Scan(&n); err != nil {
        return 0, err
    }
    return n, nil
}

// ActiveBySeat returns the non-deleted ticket occupying the given
// (showtime, seat) pair, or nil when the seat has no active ticket.
func (r *TicketRepo) ActiveBySeat(ctx context.Context, showtimeID, seatID uint64) (*model.Ticket, error) {
    sel := `SELECT ` + ticketColumns + ` FROM tickets
	          WHERE showtime_id = ? AND seat_id = ? AND status <> 'DELETED' LIMIT 1`
    t, err := scanTicket(q(ctx, r.db).QueryRowContext(ctx, sel, showtimeID, seatID))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, nil
        }
        return nil, err
    }
    return t, nil
}

// ExpiredHolds returns RESERVED tickets with no receipt whose hold
// expiry has passed.  A zero showtimeID scans all showtimes (used by
// the periodic sweeper); a non-zero one restricts the scan (used for
// the lazy sweep before claiming seats).
func (r *TicketRepo) ExpiredHolds(ctx context.Context, showtimeID uint64, now time.Time) ([]model.Ticket, error) {
    sel := `SELECT ` + ticketColumns + ` FROM tickets
	          WHERE status = 'RESERVED' AND receipt_id IS NULL AND hold_expires_at IS NOT NULL AND hold_expires_at <= ?`
    args := []interface{}{now.UTC().Format(dbTime)}
    if showtimeID != 0 {
        sel += ` AND showtime_id = ?`
        args = append(args, showtimeID)
    }
    rows, err := q(ctx, r.db).QueryContext(ctx, sel, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    result := make([]model.Ticket, 0)
    for rows.Next() {
        t, err := scanTicket(rows)
        if err != nil {
            return nil, err
        }
        result = append(result, *t)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

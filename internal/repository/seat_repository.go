package repository // repository defines data access for seats

import (
    "context"      // context allows query cancellation and timeouts
    "database/sql" // sql provides DB primitives
    "strings"      // strings builds IN (...) placeholder lists

    "github.com/cinetick/booking-core/internal/model"
)

// SeatRepo provides methods to work with seats in the database.  The
// availability flag is only ever changed through Claim and Release,
// both of which are conditional updates so concurrent callers cannot
// both observe a seat as free.
type SeatRepo struct {
    db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
    return &SeatRepo{db: db}
}

// CreateBulk inserts multiple seats in a single statement.
func (r *SeatRepo) CreateBulk(ctx context.Context, seats []model.Seat) error {
    if len(seats) == 0 {
        return nil
    }
    query := `INSERT INTO seats (screen_id, row_label, seat_number, seat_label, seat_type) VALUES `
    args := make([]interface{}, 0, len(seats)*5)
    for i, seat := range seats {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?, ?, ?)"
        args = append(args, seat.ScreenID, seat.RowLabel, seat.SeatNumber, seat.SeatLabel, seat.SeatType)
    }
    _, err := q(ctx, r.db).ExecContext(ctx, query, args...)
    return err
}

// DeleteByScreen removes all seat rows for a screen.  Used when a
// screen's layout is regenerated; callers must first verify that no
// active tickets reference the seats.
func (r *SeatRepo) DeleteByScreen(ctx context.Context, screenID uint64) error {
    const d = `DELETE FROM seats WHERE screen_id = ?`
    _, err := q(ctx, r.db).ExecContext(ctx, d, screenID)
    return err
}

// GetByScreen retrieves all seats of a screen ordered by row_label
// then seat_number, which yields the row-major layout order.
func (r *SeatRepo) GetByScreen(ctx context.Context, screenID uint64) ([]model.Seat, error) {
    const sel = `SELECT id, screen_id, row_label, seat_number, seat_label, seat_type, is_available, created_at, updated_at
	           FROM seats
	           WHERE screen_id = ?
	           ORDER BY row_label, seat_number`
    rows, err := q(ctx, r.db).QueryContext(ctx, sel, screenID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var result []model.Seat
    for rows.Next() {
        var s model.Seat
        if err := rows.Scan(
            &s.ID, &s.ScreenID, &s.RowLabel, &s.SeatNumber, &s.SeatLabel, &s.SeatType,
            &s.IsAvailable, &s.CreatedAt, &s.UpdatedAt,
        ); err != nil {
            return nil, err
        }
        result = append(result, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

// GetByIDs retrieves the given seats.  The result preserves no
// particular order and silently omits unknown IDs; callers compare
// lengths to detect missing seats.
func (r *SeatRepo) GetByIDs(ctx context.Context, ids []uint64) ([]model.Seat, error) {
    if len(ids) == 0 {
        return []model.Seat{}, nil
    }
    placeholders := make([]string, 0, len(ids))
    args := make([]interface{}, 0, len(ids))
    for _, id := range ids {
        placeholders = append(placeholders, "?")
        args = append(args, id)
    }
    sel := `SELECT id, screen_id, row_label, seat_number, seat_label, seat_type, is_available, created_at, updated_at
	          FROM seats WHERE id IN (` + strings.Join(placeholders, ",") + `)`
    rows, err := q(ctx, r.db).QueryContext(ctx, sel, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var result []model.Seat
    for rows.Next() {
        var s model.Seat
        if err := rows.Scan(
            &s.ID, &s.ScreenID, &s.RowLabel, &s.SeatNumber, &s.SeatLabel, &s.SeatType,
            &s.IsAvailable, &s.CreatedAt, &s.UpdatedAt,
        ); err != nil {
            return nil, err
        }
        result = append(result, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

// Claim atomically flips is_available from true to false for one
// seat.  It reports whether the claim won: a false return means the
// seat was already taken by a concurrent buyer.  The conditional
// UPDATE closes the read-then-write race; there is deliberately no
// SELECT beforehand.
func (r *SeatRepo) Claim(ctx context.Context, seatID uint64) (bool, error) {
    const upd = `UPDATE seats SET is_available = 0, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND is_available = 1`
    res, err := q(ctx, r.db).ExecContext(ctx, upd, seatID)
    if err != nil {
        return false, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    return n == 1, nil
}

// Release marks the given seats available again.  Releasing an
// already-available seat is a no-op, which keeps batch rollbacks and
// expiry sweeps idempotent.
func (r *SeatRepo) Release(ctx context.Context, seatIDs []uint64) error {
    if len(seatIDs) == 0 {
        return nil
    }
    placeholders := make([]string, 0, len(seatIDs))
    args := make([]interface{}, 0, len(seatIDs))
    for _, id := range seatIDs {
        placeholders = append(placeholders, "?")
        args = append(args, id)
    }
    upd := `UPDATE seats SET is_available = 1, updated_at = CURRENT_TIMESTAMP
	          WHERE id IN (` + strings.Join(placeholders, ",") + `)`
    _, err := q(ctx, r.db).ExecContext(ctx, upd, args...)
    return err
}

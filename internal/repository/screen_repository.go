package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/cinetick/booking-core/internal/model"
)

// ScreenRepo encapsulates database operations for screens.  The
// booking core mostly reads screens; Create and UpdateGrid exist for
// the admin layout surface.
type ScreenRepo struct {
    db *sql.DB
}

// NewScreenRepo constructs a ScreenRepo given a DB handle.
func NewScreenRepo(db *sql.DB) *ScreenRepo {
    return &ScreenRepo{db: db}
}

// Create inserts a screen record. On success the screen's ID is populated.
func (r *ScreenRepo) Create(ctx context.Context, s *model.Screen) error {
    const ins = `INSERT INTO screens (name, seat_rows, seat_cols, formats) VALUES (?, ?, ?, ?)`
    res, err := q(ctx, r.db).ExecContext(ctx, ins, s.Name, s.SeatRows, s.SeatCols, s.Formats)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    s.ID = uint64(id)
    return nil
}

// GetByID retrieves a screen by its ID.  It returns ErrScreenNotFound
// if there is no matching row.
func (r *ScreenRepo) GetByID(ctx context.Context, id uint64) (*model.Screen, error) {
    const sel = `SELECT id, name, seat_rows, seat_cols, formats, created_at, updated_at FROM screens WHERE id = ?`
    var s model.Screen
    err := q(ctx, r.db).QueryRowContext(ctx, sel, id).
        Scan(&s.ID, &s.Name, &s.SeatRows, &s.SeatCols, &s.Formats, &s.CreatedAt, &s.UpdatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrScreenNotFound
        }
        return nil, err
    }
    return &s, nil
}

// UpdateGrid records the dimensions of a regenerated layout.
func (r *ScreenRepo) UpdateGrid(ctx context.Context, id uint64, seatRows, seatCols uint32) error {
    const upd = `UPDATE screens SET seat_rows = ?, seat_cols = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
    _, err := q(ctx, r.db).ExecContext(ctx, upd, seatRows, seatCols, id)
    return err
}

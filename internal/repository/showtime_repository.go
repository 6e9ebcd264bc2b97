// Package repository contains data access logic for the showtime
// registry. A showtime schedules a movie on a screen; its screening
// window for overlap purposes is starts_at plus the movie's runtime
// (or the default runtime when unknown). The registry is the source
// of truth for whether a showtime is still sellable.
package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/cinetick/booking-core/internal/model"
)

// dbTime is the DATETIME layout used when binding time values into
// SQL text. All values are stored in UTC.
const dbTime = "2006-01-02 15:04:05"

// ShowtimeRepo manages persistence for showtimes.
type ShowtimeRepo struct {
    db *sql.DB
}

// NewShowtimeRepo constructs a ShowtimeRepo with the given DB handle.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo {
    return &ShowtimeRepo{db: db}
}

// Create inserts a new showtime and assigns the generated ID back to
// the struct, then re-reads the row to populate DB defaults.
func (r *ShowtimeRepo) Create(ctx context.Context, s *model.Showtime) error {
    const ins = `INSERT INTO showtimes (movie_id, screen_id, starts_at, format, price_cents) VALUES (?, ?, ?, ?, ?)`
    res, err := q(ctx, r.db).ExecContext(ctx, ins, s.MovieID, s.ScreenID, s.StartsAt.UTC().Format(dbTime), s.Format, s.PriceCents)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    s.ID = uint64(id)
    const sel = `SELECT id, movie_id, screen_id, starts_at, format, price_cents, created_at, updated_at
                 FROM showtimes WHERE id = ?`
    return q(ctx, r.db).QueryRowContext(ctx, sel, s.ID).Scan(
        &s.ID, &s.MovieID, &s.ScreenID, &s.StartsAt, &s.Format, &s.PriceCents, &s.CreatedAt, &s.UpdatedAt,
    )
}

// GetByID retrieves a showtime by its ID.  It returns
// ErrShowtimeNotFound if there is no matching row.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (*model.Showtime, error) {
    const sel = `SELECT id, movie_id, screen_id, starts_at, format, price_cents, created_at, updated_at
                 FROM showtimes WHERE id = ?`
    var s model.Showtime
    err := q(ctx, r.db).QueryRowContext(ctx, sel, id).
        Scan(&s.ID, &s.MovieID, &s.ScreenID, &s.StartsAt, &s.Format, &s.PriceCents, &s.CreatedAt, &s.UpdatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrShowtimeNotFound
        }
        return nil, err
    }
    return &s, nil
}

// Update rewrites the mutable fields of a showtime.  Already-sold
// tickets are unaffected because each ticket row records its own
// price at reservation time.
func (r *ShowtimeRepo) Update(ctx context.Context, s *model.Showtime) error {
    const upd = `UPDATE showtimes
                 SET movie_id = ?, screen_id = ?, starts_at = ?, format = ?, price_cents = ?, updated_at = CURRENT_TIMESTAMP
                 WHERE id = ?`
    _, err := q(ctx, r.db).ExecContext(ctx, upd, s.MovieID, s.ScreenID, s.StartsAt.UTC().Format(dbTime), s.Format, s.PriceCents, s.ID)
    return err
}

// Delete removes a showtime row.  Callers are responsible for the
// existing-tickets and past-showtime guards before deleting.
func (r *ShowtimeRepo) Delete(ctx context.Context, id uint64) error {
    const del = `DELETE FROM showtimes WHERE id = ?`
    res, err := q(ctx, r.db).ExecContext(ctx, del, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrShowtimeNotFound
    }
    return nil
}

// FindOverlapping finds all showtimes on the specified screen whose
// screening window overlaps the provided interval [start, end).  A
// showtime overlaps when it starts before the interval ends and its
// computed end (starts_at plus the movie runtime, default 120 minutes)
// falls after the interval starts.  It returns an empty slice when no
// overlaps are found.
func (r *ShowtimeRepo) FindOverlapping(ctx context.Context, screenID uint64, start, end time.Time) ([]model.Showtime, error) {
    return r.findOverlapping(ctx, screenID, 0, start, end)
}

// FindOverlappingExcluding is like FindOverlapping but skips the
// showtime with the given ID, so an update does not conflict with
// itself.
func (r *ShowtimeRepo) FindOverlappingExcluding(ctx context.Context, screenID, excludeID uint64, start, end time.Time) ([]model.Showtime, error) {
    return r.findOverlapping(ctx, screenID, excludeID, start, end)
}

func (r *ShowtimeRepo) findOverlapping(ctx context.Context, screenID, excludeID uint64, start, end time.Time) ([]model.Showtime, error) {
    sel := `SELECT s.id, s.movie_id, s.screen_id, s.starts_at, s.format, s.price_cents, s.created_at, s.updated_at
            FROM showtimes s
            JOIN movies m ON m.id = s.movie_id
            WHERE s.screen_id = ?
              AND s.starts_at < ?
              AND DATE_ADD(s.starts_at, INTERVAL COALESCE(NULLIF(m.runtime_min, 0), 120) MINUTE) > ?`
    args := []interface{}{screenID, end.UTC().Format(dbTime), start.UTC().Format(dbTime)}
    if excludeID != 0 {
        sel += ` AND s.id <> ?`
        args = append(args, excludeID)
    }
    rows, err := q(ctx, r.db).QueryContext(ctx, sel, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var overlaps []model.Showtime
    for rows.Next() {
        var s model.Showtime
        if err := rows.Scan(&s.ID, &s.MovieID, &s.ScreenID, &s.StartsAt, &s.Format, &s.PriceCents, &s.CreatedAt, &s.UpdatedAt); err != nil {
            return nil, err
        }
        overlaps = append(overlaps, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return overlaps, nil
}

// CountActiveTickets returns the number of non-deleted tickets that
// reference the showtime.  Deletion guards use this to refuse
// destructive edits while tickets are live.
func (r *ShowtimeRepo) CountActiveTickets(ctx context.Context, showtimeID uint64) (int, error) {
    const sel = `SELECT COUNT(*) FROM tickets WHERE showtime_id = ? AND status <> 'DELETED'`
    var n int
    if err := q(ctx, r.db).QueryRowContext(ctx, sel, showtimeID).Scan(&n); err != nil {
        return 0, err
    }
    return n, nil
}

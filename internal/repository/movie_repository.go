package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/cinetick/booking-core/internal/model"
)

// MovieRepo provides read access to the movie catalog.  Movies are
// owned by the admin catalog flows; the booking core only needs them
// to validate showtime creation and compute screening windows.
type MovieRepo struct {
    db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
    return &MovieRepo{db: db}
}

// GetByID retrieves a movie by its ID.  It returns ErrMovieNotFound
// if there is no matching row.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
    const sel = `SELECT id, title, runtime_min, status, hidden, created_at, updated_at FROM movies WHERE id = ?`
    var m model.Movie
    err := q(ctx, r.db).QueryRowContext(ctx, sel, id).
        Scan(&m.ID, &m.Title, &m.RuntimeMin, &m.Status, &m.Hidden, &m.CreatedAt, &m.UpdatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrMovieNotFound
        }
        return nil, err
    }
    return &m, nil
}

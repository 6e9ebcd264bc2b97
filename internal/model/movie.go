package model

import "time"

// Movie statuses. Showtimes may only be scheduled for movies that are
// currently showing and not hidden from the catalog.
const (
    MovieComingSoon = "COMING_SOON"
    MovieNowShowing = "NOW_SHOWING"
    MovieEnded      = "ENDED"
)

// Movie is a catalog entry referenced by showtimes.  The booking core
// only reads movies; the catalog admin flows own their lifecycle.
//
// Fields:
//  ID         – primary key identifier.
//  Title      – display title.
//  RuntimeMin – runtime in minutes, used to compute showtime windows.
//  Status     – release status (COMING_SOON, NOW_SHOWING, ENDED).
//  Hidden     – whether the movie is hidden from customers.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Movie struct {
    ID         uint64    // movies.id
    Title      string    // movies.title
    RuntimeMin uint32    // movies.runtime_min
    Status     string    // movies.status
    Hidden     bool      // movies.hidden
    CreatedAt  time.Time // movies.created_at
    UpdatedAt  time.Time // movies.updated_at
}

// Sellable reports whether showtimes may be created or edited for this
// movie.  Only visible, now-showing movies are sellable.
func (m *Movie) Sellable() bool {
    return m.Status == MovieNowShowing && !m.Hidden
}

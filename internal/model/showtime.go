package model

import "time"

// DefaultRuntimeMin is the window length used for overlap checks when
// a movie's runtime is unknown or zero.
const DefaultRuntimeMin = 120

// Showtime schedules a movie on a screen at a specific time.  Price
// and format edits never propagate to already-sold tickets, which
// record their own price at reservation time.
//
// Fields:
//  ID         – primary key identifier.
//  MovieID    – movie being screened.
//  ScreenID   – screen hosting the screening.
//  StartsAt   – when the screening begins (UTC).
//  Format     – projection format (must be supported by the screen).
//  PriceCents – price per seat in cents.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Showtime struct {
    ID         uint64    // showtimes.id
    MovieID    uint64    // showtimes.movie_id
    ScreenID   uint64    // showtimes.screen_id
    StartsAt   time.Time // showtimes.starts_at
    Format     string    // showtimes.format
    PriceCents uint32    // showtimes.price_cents
    CreatedAt  time.Time // showtimes.created_at
    UpdatedAt  time.Time // showtimes.updated_at
}

// EndsAt returns the end of the screening window given the movie's
// runtime in minutes.  A zero runtime falls back to DefaultRuntimeMin.
func (s *Showtime) EndsAt(runtimeMin uint32) time.Time {
    if runtimeMin == 0 {
        runtimeMin = DefaultRuntimeMin
    }
    return s.StartsAt.Add(time.Duration(runtimeMin) * time.Minute)
}

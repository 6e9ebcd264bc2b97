package service

import (
    "context"

    "github.com/cinetick/booking-core/internal/clock"
    "github.com/cinetick/booking-core/internal/model"
)

// CatalogService manages showtimes and screen seat layouts. Showtime
// scheduling enforces the screen's format support and a no-overlap
// rule: two screenings on the same screen may not share any part of
// their runtime window.
type CatalogService struct {
    tx        TxRunner
    movies    MovieStore
    screens   ScreenStore
    seats     SeatStore
    showtimes ShowtimeStore
    tickets   TicketStore
    clock     clock.Clock
}

func NewCatalogService(tx TxRunner, movies MovieStore, screens ScreenStore, seats SeatStore, showtimes ShowtimeStore, tickets TicketStore, clk clock.Clock) *CatalogService {
    if tx == nil || movies == nil || screens == nil || seats == nil || showtimes == nil || tickets == nil || clk == nil {
        panic("nil dependency passed to NewCatalogService")
    }
    return &CatalogService{
        tx:        tx,
        movies:    movies,
        screens:   screens,
        seats:     seats,
        showtimes: showtimes,
        tickets:   tickets,
        clock:     clk,
    }
}

// CreateShowtime schedules a screening after checking the movie is
// sellable, the screen supports the requested format and no other
// screening overlaps the runtime window.
func (s *CatalogService) CreateShowtime(ctx context.Context, st *model.Showtime) error {
    if st.PriceCents == 0 {
        return Errf(CodeValidation, "price_cents must be positive")
    }
    movie, err := s.movies.GetByID(ctx, st.MovieID)
    if err != nil {
        return asServiceErr(err)
    }
    if !movie.Sellable() {
        return Errf(CodeMovieNotAvailable, "movie %q is not available for scheduling", movie.Title)
    }
    screen, err := s.screens.GetByID(ctx, st.ScreenID)
    if err != nil {
        return asServiceErr(err)
    }
    if !screen.SupportsFormat(st.Format) {
        return Errf(CodeIncompatibleFormat, "screen %q does not support %s", screen.Name, st.Format)
    }
    overlapping, err := s.showtimes.FindOverlapping(ctx, st.ScreenID, st.StartsAt, st.EndsAt(movie.RuntimeMin))
    if err != nil {
        return err
    }
    if len(overlapping) > 0 {
        return Errf(CodeTimeConflict, "screen %q already has a screening in that window", screen.Name)
    }
    return s.showtimes.Create(ctx, st)
}

// UpdateShowtime edits a screening. Once tickets exist for it only
// price and format may change: moving it in time or to another screen
// would strand sold seats.
func (s *CatalogService) UpdateShowtime(ctx context.Context, st *model.Showtime) error {
    if st.PriceCents == 0 {
        return Errf(CodeValidation, "price_cents must be positive")
    }
    current, err := s.showtimes.GetByID(ctx, st.ID)
    if err != nil {
        return asServiceErr(err)
    }

    sold, err := s.showtimes.CountActiveTickets(ctx, st.ID)
    if err != nil {
        return err
    }
    if sold > 0 {
        if st.MovieID != current.MovieID || st.ScreenID != current.ScreenID || !st.StartsAt.Equal(current.StartsAt) {
            return Errf(CodeExistingTickets, "showtime has %d active tickets, only price and format may change", sold)
        }
    }

    movie, err := s.movies.GetByID(ctx, st.MovieID)
    if err != nil {
        return asServiceErr(err)
    }
    if !movie.Sellable() {
        return Errf(CodeMovieNotAvailable, "movie %q is not available for scheduling", movie.Title)
    }
    screen, err := s.screens.GetByID(ctx, st.ScreenID)
    if err != nil {
        return asServiceErr(err)
    }
    if !screen.SupportsFormat(st.Format) {
        return Errf(CodeIncompatibleFormat, "screen %q does not support %s", screen.Name, st.Format)
    }
    overlapping, err := s.showtimes.FindOverlappingExcluding(ctx, st.ScreenID, st.ID, st.StartsAt, st.EndsAt(movie.RuntimeMin))
    if err != nil {
        return err
    }
    if len(overlapping) > 0 {
        return Errf(CodeTimeConflict, "screen %q already has a screening in that window", screen.Name)
    }
    return s.showtimes.Update(ctx, st)
}

// DeleteShowtime removes a screening.  Screenings with active tickets
// or already in the past cannot be removed.
func (s *CatalogService) DeleteShowtime(ctx context.Context, id uint64) error {
    st, err := s.showtimes.GetByID(ctx, id)
    if err != nil {
        return asServiceErr(err)
    }
    if !st.StartsAt.After(s.clock.Now()) {
        return Errf(CodePastShowtime, "showtime has already started")
    }
    sold, err := s.showtimes.CountActiveTickets(ctx, id)
    if err != nil {
        return err
    }
    if sold > 0 {
        return Errf(CodeExistingTickets, "showtime has %d active tickets", sold)
    }
    return asServiceErr(s.showtimes.Delete(ctx, id))
}

// GetShowtime returns one showtime by ID.
func (s *CatalogService) GetShowtime(ctx context.Context, id uint64) (*model.Showtime, error) {
    st, err := s.showtimes.GetByID(ctx, id)
    if err != nil {
        return nil, asServiceErr(err)
    }
    return st, nil
}

// GenerateLayout replaces a screen's seat map with a fresh rows×cols
// grid.  The operation is refused while any active ticket references a
// seat on the screen, since regenerating would orphan those tickets.
func (s *CatalogService) GenerateLayout(ctx context.Context, screenID uint64, rows, cols uint32) ([]model.Seat, error) {
    screen, err := s.screens.GetByID(ctx, screenID)
    if err != nil {
        return nil, asServiceErr(err)
    }
    seats, err := BuildLayout(screen.ID, int(rows), int(cols))
    if err != nil {
        return nil, err
    }

    err = s.tx.WithTx(ctx, func(ctx context.Context) error {
        active, err := s.tickets.CountActiveByScreen(ctx, screen.ID)
        if err != nil {
            return err
        }
        if active > 0 {
            return Errf(CodeExistingTickets, "screen has %d active tickets referencing its seats", active)
        }
        if err := s.seats.DeleteByScreen(ctx, screen.ID); err != nil {
            return err
        }
        if err := s.seats.CreateBulk(ctx, seats); err != nil {
            return err
        }
        return s.screens.UpdateGrid(ctx, screen.ID, rows, cols)
    })
    if err != nil {
        return nil, err
    }
    return seats, nil
}

// Availability returns the current seat map of the screen hosting the
// given showtime. Handlers group the flat list into rows for display.
func (s *CatalogService) Availability(ctx context.Context, screenID uint64) (*model.Screen, []model.Seat, error) {
    screen, err := s.screens.GetByID(ctx, screenID)
    if err != nil {
        return nil, nil, asServiceErr(err)
    }
    seats, err := s.seats.GetByScreen(ctx, screen.ID)
    if err != nil {
        return nil, nil, err
    }
    return screen, seats, nil
}

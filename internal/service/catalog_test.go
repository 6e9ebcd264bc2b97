package service

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/cinetick/booking-core/internal/model"
)

func newCatalogService(f *fixture, clk *stubClock) *CatalogService {
    return NewCatalogService(f.tx, f.movies, f.screens, f.seats, f.showtimes, f.tickets, clk)
}

func TestBuildLayoutShapeAndLabels(t *testing.T) {
    seats, err := BuildLayout(3, 2, 3)
    require.NoError(t, err)
    require.Len(t, seats, 6)

    assert.Equal(t, "3_A1", seats[0].SeatLabel)
    assert.Equal(t, "3_B3", seats[5].SeatLabel)

    for _, s := range seats {
        assert.True(t, s.IsAvailable)
        if s.RowLabel == "A" {
            assert.Equal(t, model.SeatPremium, s.SeatType)
        } else {
            assert.Equal(t, model.SeatStandard, s.SeatType)
        }
    }
}

func TestBuildLayoutRejectsBadDimensions(t *testing.T) {
    for _, dims := range [][2]int{{0, 5}, {5, 0}, {-1, 5}, {27, 5}, {5, 31}} {
        _, err := BuildLayout(1, dims[0], dims[1])
        require.Error(t, err, "rows=%d cols=%d", dims[0], dims[1])
        assert.Equal(t, CodeInvalidDimensions, CodeOf(err))
    }
}

func TestGenerateLayoutReplacesSeats(t *testing.T) {
    f := newFixture(testNow)
    svc := newCatalogService(f, &stubClock{now: testNow})
    ctx := context.Background()

    seats, err := svc.GenerateLayout(ctx, f.screen.ID, 3, 4)
    require.NoError(t, err)
    assert.Len(t, seats, 12)

    stored, err := f.seats.GetByScreen(ctx, f.screen.ID)
    require.NoError(t, err)
    assert.Len(t, stored, 12)

    screen, err := f.screens.GetByID(ctx, f.screen.ID)
    require.NoError(t, err)
    assert.Equal(t, uint32(3), screen.SeatRows)
    assert.Equal(t, uint32(4), screen.SeatCols)
}

func TestGenerateLayoutRefusedWithActiveTickets(t *testing.T) {
    f := newFixture(testNow)
    clk := &stubClock{now: testNow}
    svc := newCatalogService(f, clk)
    ctx := context.Background()

    reserve(t, f, clk, 7, f.seatIDs[:1])

    _, err := svc.GenerateLayout(ctx, f.screen.ID, 3, 4)
    require.Error(t, err)
    assert.Equal(t, CodeExistingTickets, CodeOf(err))

    // The old layout must survive the refused regeneration.
    stored, err := f.seats.GetByScreen(ctx, f.screen.ID)
    require.NoError(t, err)
    assert.Len(t, stored, 4)
}

func TestCreateShowtimeRejectsOverlap(t *testing.T) {
    f := newFixture(testNow)
    svc := newCatalogService(f, &stubClock{now: testNow})
    ctx := context.Background()

    // The fixture showtime starts at +2h and runs 116 minutes.
    overlap := &model.Showtime{
        MovieID:    f.movie.ID,
        ScreenID:   f.screen.ID,
        StartsAt:   f.showtime.StartsAt.Add(30 * time.Minute),
        Format:     "2D",
        PriceCents: 1200,
    }
    err := svc.CreateShowtime(ctx, overlap)
    require.Error(t, err)
    assert.Equal(t, CodeTimeConflict, CodeOf(err))

    // Back to back is fine: the previous screening ends before this
    // one starts.
    after := &model.Showtime{
        MovieID:    f.movie.ID,
        ScreenID:   f.screen.ID,
        StartsAt:   f.showtime.StartsAt.Add(116 * time.Minute),
        Format:     "2D",
        PriceCents: 1200,
    }
    require.NoError(t, svc.CreateShowtime(ctx, after))
    assert.NotZero(t, after.ID)
}

func TestCreateShowtimeRejectsUnsupportedFormat(t *testing.T) {
    f := newFixture(testNow)
    svc := newCatalogService(f, &stubClock{now: testNow})

    st := &model.Showtime{
        MovieID:    f.movie.ID,
        ScreenID:   f.screen.ID,
        StartsAt:   testNow.Add(24 * time.Hour),
        Format:     "IMAX",
        PriceCents: 2000,
    }
    err := svc.CreateShowtime(context.Background(), st)
    require.Error(t, err)
    assert.Equal(t, CodeIncompatibleFormat, CodeOf(err))
}

func TestCreateShowtimeRejectsUnsellableMovie(t *testing.T) {
    f := newFixture(testNow)
    svc := newCatalogService(f, &stubClock{now: testNow})

    hidden := model.Movie{ID: f.db.id(), Title: "Unlisted", RuntimeMin: 90, Status: model.MovieNowShowing, Hidden: true}
    f.db.movies[hidden.ID] = hidden

    st := &model.Showtime{
        MovieID:    hidden.ID,
        ScreenID:   f.screen.ID,
        StartsAt:   testNow.Add(24 * time.Hour),
        Format:     "2D",
        PriceCents: 2000,
    }
    err := svc.CreateShowtime(context.Background(), st)
    require.Error(t, err)
    assert.Equal(t, CodeMovieNotAvailable, CodeOf(err))
}

func TestUpdateShowtimeWithTicketsOnlyPriceAndFormat(t *testing.T) {
    f := newFixture(testNow)
    clk := &stubClock{now: testNow}
    svc := newCatalogService(f, clk)
    ctx := context.Background()

    reserve(t, f, clk, 7, f.seatIDs[:1])

    moved := f.showtime
    moved.StartsAt = f.showtime.StartsAt.Add(time.Hour)
    err := svc.UpdateShowtime(ctx, &moved)
    require.Error(t, err)
    assert.Equal(t, CodeExistingTickets, CodeOf(err))

    repriced := f.showtime
    repriced.PriceCents = 1800
    repriced.Format = "3D"
    require.NoError(t, svc.UpdateShowtime(ctx, &repriced))

    got, err := f.showtimes.GetByID(ctx, f.showtime.ID)
    require.NoError(t, err)
    assert.Equal(t, uint32(1800), got.PriceCents)
    assert.Equal(t, "3D", got.Format)
    assert.True(t, got.StartsAt.Equal(f.showtime.StartsAt))
}

func TestDeleteShowtimeGuards(t *testing.T) {
    f := newFixture(testNow)
    clk := &stubClock{now: testNow}
    svc := newCatalogService(f, clk)
    ctx := context.Background()

    reserve(t, f, clk, 7, f.seatIDs[:1])
    err := svc.DeleteShowtime(ctx, f.showtime.ID)
    require.Error(t, err)
    assert.Equal(t, CodeExistingTickets, CodeOf(err))

    // Past showtimes cannot be removed either.
    past := model.Showtime{ID: f.db.id(), MovieID: f.movie.ID, ScreenID: f.screen.ID,
        StartsAt: testNow.Add(-time.Hour), Format: "2D", PriceCents: 1000}
    f.db.showtimes[past.ID] = past
    err = svc.DeleteShowtime(ctx, past.ID)
    require.Error(t, err)
    assert.Equal(t, CodePastShowtime, CodeOf(err))

    // A future showtime without tickets deletes cleanly.
    free := model.Showtime{ID: f.db.id(), MovieID: f.movie.ID, ScreenID: f.screen.ID,
        StartsAt: testNow.Add(48 * time.Hour), Format: "2D", PriceCents: 1000}
    f.db.showtimes[free.ID] = free
    require.NoError(t, svc.DeleteShowtime(ctx, free.ID))
}

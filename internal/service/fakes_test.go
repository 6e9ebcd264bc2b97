package service

import (
    "context"
    "sort"
    "strings"
    "sync"
    "time"

    "github.com/cinetick/booking-core/internal/model"
    "github.com/cinetick/booking-core/internal/repository"
)

// memDB is an in-memory stand-in for the MySQL repositories. The tx
// fake snapshots the whole state before the closure and restores it
// on error, mirroring a transaction rollback.
type memDB struct {
    mu         sync.Mutex
    seats      map[uint64]model.Seat
    screens    map[uint64]model.Screen
    movies     map[uint64]model.Movie
    showtimes  map[uint64]model.Showtime
    tickets    map[uint64]model.Ticket
    receipts   map[uint64]model.Receipt
    promotions map[uint64]model.Promotion
    nextID     uint64
}

func newMemDB() *memDB {
    return &memDB{
        seats:      map[uint64]model.Seat{},
        screens:    map[uint64]model.Screen{},
        movies:     map[uint64]model.Movie{},
        showtimes:  map[uint64]model.Showtime{},
        tickets:    map[uint64]model.Ticket{},
        receipts:   map[uint64]model.Receipt{},
        promotions: map[uint64]model.Promotion{},
    }
}

func (db *memDB) id() uint64 {
    db.nextID++
    return db.nextID
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
    out := make(map[K]V, len(m))
    for k, v := range m {
        out[k] = v
    }
    return out
}

func (db *memDB) snapshot() *memDB {
    return &memDB{
        seats:      copyMap(db.seats),
        screens:    copyMap(db.screens),
        movies:     copyMap(db.movies),
        showtimes:  copyMap(db.showtimes),
        tickets:    copyMap(db.tickets),
        receipts:   copyMap(db.receipts),
        promotions: copyMap(db.promotions),
        nextID:     db.nextID,
    }
}

func (db *memDB) restore(snap *memDB) {
    db.seats = snap.seats
    db.screens = snap.screens
    db.movies = snap.movies
    db.showtimes = snap.showtimes
    db.tickets = snap.tickets
    db.receipts = snap.receipts
    db.promotions = snap.promotions
    db.nextID = snap.nextID
}

// inTx marks a context as running inside a fake transaction, the same
// way the real runner carries its *sql.Tx.
type inTx struct{}

type fakeTx struct{ db *memDB }

// WithTx holds the memDB mutex for the whole transaction, so
// concurrent callers serialize the way conflicting row-locked
// transactions do, and restores a snapshot on error to mirror a
// rollback. Nested calls join the outer transaction.
func (f *fakeTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
    if ctx.Value(inTx{}) != nil {
        return fn(ctx)
    }
    f.db.mu.Lock()
    defer f.db.mu.Unlock()
    snap := f.db.snapshot()
    err := fn(context.WithValue(ctx, inTx{}, true))
    if err != nil {
        f.db.restore(snap)
    }
    return err
}

type fakeSeats struct{ db *memDB }

func (f *fakeSeats) CreateBulk(_ context.Context, seats []model.Seat) error {
    for i := range seats {
        seats[i].ID = f.db.id()
        f.db.seats[seats[i].ID] = seats[i]
    }
    return nil
}

func (f *fakeSeats) DeleteByScreen(_ context.Context, screenID uint64) error {
    for id, s := range f.db.seats {
        if s.ScreenID == screenID {
            delete(f.db.seats, id)
        }
    }
    return nil
}

func (f *fakeSeats) GetByScreen(_ context.Context, screenID uint64) ([]model.Seat, error) {
    var out []model.Seat
    for _, s := range f.db.seats {
        if s.ScreenID == screenID {
            out = append(out, s)
        }
    }
    sort.Slice(out, func(i, j int) bool {
        if out[i].RowLabel != out[j].RowLabel {
            return out[i].RowLabel < out[j].RowLabel
        }
        return out[i].SeatNumber < out[j].SeatNumber
    })
    return out, nil
}

func (f *fakeSeats) GetByIDs(_ context.Context, ids []uint64) ([]model.Seat, error) {
    var out []model.Seat
    for _, id := range ids {
        if s, ok := f.db.seats[id]; ok {
            out = append(out, s)
        }
    }
    return out, nil
}

// Claim is an atomic test-and-set like the conditional UPDATE it
// stands in for; standalone calls take the lock themselves, calls
// inside a transaction already hold it.
func (f *fakeSeats) Claim(ctx context.Context, seatID uint64) (bool, error) {
    if ctx.Value(inTx{}) == nil {
        f.db.mu.Lock()
        defer f.db.mu.Unlock()
    }
    s, ok := f.db.seats[seatID]
    if !ok || !s.IsAvailable {
        return false, nil
    }
    s.IsAvailable = false
    f.db.seats[seatID] = s
    return true, nil
}

func (f *fakeSeats) Release(_ context.Context, seatIDs []uint64) error {
    for _, id := range seatIDs {
        if s, ok := f.db.seats[id]; ok {
            s.IsAvailable = true
            f.db.seats[id] = s
        }
    }
    return nil
}

type fakeScreens struct{ db *memDB }

func (f *fakeScreens) GetByID(_ context.Context, id uint64) (*model.Screen, error) {
    s, ok := f.db.screens[id]
    if !ok {
        return nil, repository.ErrScreenNotFound
    }
    return &s, nil
}

func (f *fakeScreens) UpdateGrid(_ context.Context, id uint64, seatRows, seatCols uint32) error {
    s, ok := f.db.screens[id]
    if !ok {
        return repository.ErrScreenNotFound
    }
    s.SeatRows, s.SeatCols = seatRows, seatCols
    f.db.screens[id] = s
    return nil
}

type fakeMovies struct{ db *memDB }

func (f *fakeMovies) GetByID(_ context.Context, id uint64) (*model.Movie, error) {
    m, ok := f.db.movies[id]
    if !ok {
        return nil, repository.ErrMovieNotFound
    }
    return &m, nil
}

type fakeShowtimes struct{ db *memDB }

func (f *fakeShowtimes) Create(_ context.Context, s *model.Showtime) error {
    s.ID = f.db.id()
    f.db.showtimes[s.ID] = *s
    return nil
}

func (f *fakeShowtimes) GetByID(_ context.Context, id uint64) (*model.Showtime, error) {
    s, ok := f.db.showtimes[id]
    if !ok {
        return nil, repository.ErrShowtimeNotFound
    }
    return &s, nil
}

func (f *fakeShowtimes) Update(_ context.Context, s *model.Showtime) error {
    if _, ok := f.db.showtimes[s.ID]; !ok {
        return repository.ErrShowtimeNotFound
    }
    f.db.showtimes[s.ID] = *s
    return nil
}

func (f *fakeShowtimes) Delete(_ context.Context, id uint64) error {
    if _, ok := f.db.showtimes[id]; !ok {
        return repository.ErrShowtimeNotFound
    }
    delete(f.db.showtimes, id)
    return nil
}

func (f *fakeShowtimes) overlapping(screenID, excludeID uint64, start, end time.Time) []model.Showtime {
    var out []model.Showtime
    for _, s := range f.db.showtimes {
        if s.ScreenID != screenID || s.ID == excludeID {
            continue
        }
        runtime := uint32(0)
        if m, ok := f.db.movies[s.MovieID]; ok {
            runtime = m.RuntimeMin
        }
        if s.StartsAt.Before(end) && s.EndsAt(runtime).After(start) {
            out = append(out, s)
        }
    }
    return out
}

func (f *fakeShowtimes) FindOverlapping(_ context.Context, screenID uint64, start, end time.Time) ([]model.Showtime, error) {
    return f.overlapping(screenID, 0, start, end), nil
}

func (f *fakeShowtimes) FindOverlappingExcluding(_ context.Context, screenID, excludeID uint64, start, end time.Time) ([]model.Showtime, error) {
    return f.overlapping(screenID, excludeID, start, end), nil
}

func (f *fakeShowtimes) CountActiveTickets(_ context.Context, showtimeID uint64) (int, error) {
    n := 0
    for _, t := range f.db.tickets {
        if t.ShowtimeID == showtimeID && t.Status != model.TicketDeleted {
            n++
        }
    }
    return n, nil
}

type fakeTickets struct{ db *memDB }

func (f *fakeTickets) Create(_ context.Context, t *model.Ticket) error {
    t.ID = f.db.id()
    t.PurchasedAt = time.Now().UTC()
    f.db.tickets[t.ID] = *t
    return nil
}

func (f *fakeTickets) GetByID(_ context.Context, id uint64) (*model.Ticket, error) {
    t, ok := f.db.tickets[id]
    if !ok {
        return nil, repository.ErrTicketNotFound
    }
    return &t, nil
}

func (f *fakeTickets) GetByIDsForUpdate(_ context.Context, ids []uint64) ([]model.Ticket, error) {
    var out []model.Ticket
    for _, id := range ids {
        if t, ok := f.db.tickets[id]; ok {
            out = append(out, t)
        }
    }
    sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
    return out, nil
}

func (f *fakeTickets) ListByUser(_ context.Context, userID uint64) ([]model.Ticket, error) {
    var out []model.Ticket
    for _, t := range f.db.tickets {
        if t.UserID == userID {
            out = append(out, t)
        }
    }
    sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
    return out, nil
}

func (f *fakeTickets) ListByReceipt(_ context.Context, receiptID uint64) ([]model.Ticket, error) {
    var out []model.Ticket
    for _, t := range f.db.tickets {
        if t.ReceiptID != nil && *t.ReceiptID == receiptID {
            out = append(out, t)
        }
    }
    sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
    return out, nil
}

func (f *fakeTickets) UpdateStatus(_ context.Context, id uint64, status string, reason *string) error {
    t, ok := f.db.tickets[id]
    if !ok {
        return repository.ErrTicketNotFound
    }
    t.Status = status
    t.DeleteReason = reason
    f.db.tickets[id] = t
    return nil
}

func (f *fakeTickets) Restore(_ context.Context, id uint64, holdExpiresAt *time.Time) error {
    t, ok := f.db.tickets[id]
    if !ok {
        return repository.ErrTicketNotFound
    }
    t.Status = model.TicketReserved
    t.DeleteReason = nil
    t.HoldExpiresAt = holdExpiresAt
    f.db.tickets[id] = t
    return nil
}

func (f *fakeTickets) AttachReceipt(_ context.Context, ticketIDs []uint64, receiptID uint64) error {
    for _, id := range ticketIDs {
        t, ok := f.db.tickets[id]
        if !ok || t.ReceiptID != nil {
            continue
        }
        rid := receiptID
        t.ReceiptID = &rid
        f.db.tickets[id] = t
    }
    return nil
}

func (f *fakeTickets) DeleteByIDs(_ context.Context, ids []uint64) error {
    for _, id := range ids {
        delete(f.db.tickets, id)
    }
    return nil
}

func (f *fakeTickets) ActiveBySeat(_ context.Context, showtimeID, seatID uint64) (*model.Ticket, error) {
    for _, t := range f.db.tickets {
        if t.ShowtimeID == showtimeID && t.SeatID == seatID && t.Status != model.TicketDeleted {
            out := t
            return &out, nil
        }
    }
    return nil, nil
}

func (f *fakeTickets) ExpiredHolds(_ context.Context, showtimeID uint64, now time.Time) ([]model.Ticket, error) {
    var out []model.Ticket
    for _, t := range f.db.tickets {
        if showtimeID != 0 && t.ShowtimeID != showtimeID {
            continue
        }
        if t.Status != model.TicketReserved || t.ReceiptID != nil || t.HoldExpiresAt == nil {
            continue
        }
        if !t.HoldExpiresAt.After(now) {
            out = append(out, t)
        }
    }
    return out, nil
}

func (f *fakeTickets) CountActiveByScreen(_ context.Context, screenID uint64) (int, error) {
    n := 0
    for _, t := range f.db.tickets {
        seat, ok := f.db.seats[t.SeatID]
        if ok && seat.ScreenID == screenID && t.Status != model.TicketDeleted {
            n++
        }
    }
    return n, nil
}

type fakeReceipts struct{ db *memDB }

func (f *fakeReceipts) Create(_ context.Context, rec *model.Receipt) error {
    rec.ID = f.db.id()
    rec.IssuedAt = time.Now().UTC()
    f.db.receipts[rec.ID] = *rec
    return nil
}

func (f *fakeReceipts) GetByID(_ context.Context, id uint64) (*model.Receipt, error) {
    r, ok := f.db.receipts[id]
    if !ok {
        return nil, repository.ErrReceiptNotFound
    }
    return &r, nil
}

type fakePromos struct{ db *memDB }

func (f *fakePromos) GetByCode(_ context.Context, code string) (*model.Promotion, error) {
    for _, p := range f.db.promotions {
        if strings.EqualFold(p.Code, code) {
            out := p
            return &out, nil
        }
    }
    return nil, repository.ErrPromotionNotFound
}

func (f *fakePromos) GetByID(_ context.Context, id uint64) (*model.Promotion, error) {
    p, ok := f.db.promotions[id]
    if !ok {
        return nil, repository.ErrPromotionNotFound
    }
    return &p, nil
}

func (f *fakePromos) List(_ context.Context) ([]model.Promotion, error) {
    var out []model.Promotion
    for _, p := range f.db.promotions {
        out = append(out, p)
    }
    sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
    return out, nil
}

func (f *fakePromos) Create(_ context.Context, p *model.Promotion) error {
    p.ID = f.db.id()
    f.db.promotions[p.ID] = *p
    return nil
}

func (f *fakePromos) Update(_ context.Context, p *model.Promotion) error {
    if _, ok := f.db.promotions[p.ID]; !ok {
        return repository.ErrPromotionNotFound
    }
    f.db.promotions[p.ID] = *p
    return nil
}

func (f *fakePromos) Delete(_ context.Context, id uint64) error {
    if _, ok := f.db.promotions[id]; !ok {
        return repository.ErrPromotionNotFound
    }
    delete(f.db.promotions, id)
    return nil
}

// fixture seeds a movie, a screen with a 2x2 layout and one showtime,
// returning everything the booking tests need.
type fixture struct {
    db        *memDB
    tx        *fakeTx
    seats     *fakeSeats
    screens   *fakeScreens
    movies    *fakeMovies
    showtimes *fakeShowtimes
    tickets   *fakeTickets
    receipts  *fakeReceipts
    promos    *fakePromos

    movie    model.Movie
    screen   model.Screen
    showtime model.Showtime
    seatIDs  []uint64 // A1, A2, B1, B2 in order
}

func newFixture(now time.Time) *fixture {
    db := newMemDB()
    f := &fixture{
        db:        db,
        tx:        &fakeTx{db},
        seats:     &fakeSeats{db},
        screens:   &fakeScreens{db},
        movies:    &fakeMovies{db},
        showtimes: &fakeShowtimes{db},
        tickets:   &fakeTickets{db},
        receipts:  &fakeReceipts{db},
        promos:    &fakePromos{db},
    }

    f.movie = model.Movie{ID: db.id(), Title: "Arrival", RuntimeMin: 116, Status: model.MovieNowShowing}
    db.movies[f.movie.ID] = f.movie

    f.screen = model.Screen{ID: db.id(), Name: "Screen 1", SeatRows: 2, SeatCols: 2, Formats: "2D,3D"}
    db.screens[f.screen.ID] = f.screen

    layout, err := BuildLayout(f.screen.ID, 2, 2)
    if err != nil {
        panic(err)
    }
    _ = f.seats.CreateBulk(context.Background(), layout)
    for _, s := range layout {
        f.seatIDs = append(f.seatIDs, s.ID)
    }

    f.showtime = model.Showtime{
        ID:         db.id(),
        MovieID:    f.movie.ID,
        ScreenID:   f.screen.ID,
        StartsAt:   now.Add(2 * time.Hour),
        Format:     "2D",
        PriceCents: 1500,
    }
    db.showtimes[f.showtime.ID] = f.showtime

    return f
}

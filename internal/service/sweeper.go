package service

import (
    "context"
    "log"
    "time"
)

// DefaultSweepInterval is how often the background sweeper reclaims
// expired holds when no interval is configured.
const DefaultSweepInterval = time.Minute

// RunHoldSweeper periodically removes expired unpaid holds and frees
// their seats. Reservations also sweep lazily per showtime, so the
// loop is a safety net for showtimes nobody is booking. It blocks
// until ctx is cancelled.
func RunHoldSweeper(ctx context.Context, reservations *ReservationService, interval time.Duration) {
    if interval <= 0 {
        interval = DefaultSweepInterval
    }
    ticker := time.NewTicker(interval)
    defer ticker.Stop()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            n, err := reservations.SweepExpiredHolds(ctx)
            if err != nil {
                log.Printf("sweeper: reclaim expired holds: %v", err)
                continue
            }
            if n > 0 {
                log.Printf("sweeper: reclaimed %d expired holds", n)
            }
        }
    }
}

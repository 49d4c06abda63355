package service

import (
    "context"
    "time"

    "github.com/sirupsen/logrus"

    "github.com/courtsite/venue-slot-booking/internal/repository"
)

// Sweeper is the background task that terminates stale unpaid
// bookings. Each run issues one bulk conditional UPDATE flipping every
// PENDING_PAYMENT booking past its deadline to EXPIRED; bookings that
// confirm concurrently no longer match the predicate and are left
// alone. A failed run is logged and retried on the next tick; the
// sweeper never crashes the process.
type Sweeper struct {
    bookings *repository.BookingRepo
    interval time.Duration
}

// NewSweeper returns a Sweeper running on the given interval. A
// non-positive interval defaults to one minute.
func NewSweeper(bookings *repository.BookingRepo, interval time.Duration) *Sweeper {
    if interval <= 0 {
        interval = time.Minute
    }
    return &Sweeper{bookings: bookings, interval: interval}
}

// Run sweeps once immediately, then on every tick until ctx is
// cancelled. It is intended to run in its own goroutine.
func (s *Sweeper) Run(ctx context.Context) {
    s.sweep(ctx)
    ticker := time.NewTicker(s.interval)
    defer ticker.Stop()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            s.sweep(ctx)
        }
    }
}

func (s *Sweeper) sweep(ctx context.Context) {
    n, err := s.bookings.ExpireDue(ctx)
    if err != nil {
        logrus.WithError(err).Error("booking expiry sweep failed")
        return
    }
    if n > 0 {
        logrus.WithField("expired", n).Info("expired stale unpaid bookings")
    }
}

package relayclient

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// TotalsFetcher reads the authoritative totals. *Client satisfies it.
type TotalsFetcher interface {
	FetchTotals(ctx context.Context) (Totals, error)
}

// Reconciler periodically re-fetches aggregate totals so displayed state
// self-heals from missed realtime events within one polling interval. A
// failed fetch keeps the previous totals; the next scheduled tick is the
// retry.
type Reconciler struct {
	fetcher  TotalsFetcher
	interval time.Duration
	logger   zerolog.Logger

	mu     sync.Mutex
	totals Totals
	seeded bool
}

func NewReconciler(fetcher TotalsFetcher, interval time.Duration, logger zerolog.Logger) *Reconciler {
	return &Reconciler{fetcher: fetcher, interval: interval, logger: logger}
}

// Run fetches immediately, then on every interval tick until ctx is
// cancelled. Cancelling releases the ticker.
func (r *Reconciler) Run(ctx context.Context) {
	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

// Totals returns the last fetched totals; ok is false until the first
// successful fetch.
func (r *Reconciler) Totals() (Totals, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.totals, r.seeded
}

func (r *Reconciler) refresh(ctx context.Context) {
	totals, err := r.fetcher.FetchTotals(ctx)
	if err != nil {
		// Stale-but-present beats blank: keep whatever we had.
		r.logger.Warn().Err(err).Msg("totals refresh failed")
		return
	}
	r.mu.Lock()
	r.totals = totals
	r.seeded = true
	r.mu.Unlock()
}

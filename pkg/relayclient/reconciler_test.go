package relayclient

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// scriptedFetcher returns each response in order, repeating the last one.
type scriptedFetcher struct {
	mu        sync.Mutex
	responses []fetchResult
	calls     int
}

type fetchResult struct {
	totals Totals
	err    error
}

func (f *scriptedFetcher) FetchTotals(context.Context) (Totals, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.calls
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	f.calls++
	res := f.responses[idx]
	return res.totals, res.err
}

func (f *scriptedFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestReconcilerFetchesImmediatelyAndOnInterval(t *testing.T) {
	fetcher := &scriptedFetcher{responses: []fetchResult{
		{totals: Totals{TotalDonations: 10, DonorCount: 2}},
		{totals: Totals{TotalDonations: 40, DonorCount: 3}},
	}}
	r := NewReconciler(fetcher, 20*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	require.Eventually(t, func() bool {
		totals, ok := r.Totals()
		return ok && totals.TotalDonations == 10
	}, time.Second, time.Millisecond, "immediate fetch should seed totals")

	require.Eventually(t, func() bool {
		totals, _ := r.Totals()
		return totals.TotalDonations == 40 && totals.DonorCount == 3
	}, time.Second, time.Millisecond, "tick should refresh totals")
}

func TestReconcilerKeepsStaleTotalsOnFailure(t *testing.T) {
	fetcher := &scriptedFetcher{responses: []fetchResult{
		{totals: Totals{TotalDonations: 25, DonorCount: 5}},
		{err: errors.New("api unreachable")},
	}}
	r := NewReconciler(fetcher, 15*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	require.Eventually(t, func() bool {
		_, ok := r.Totals()
		return ok
	}, time.Second, time.Millisecond)

	// Let several failing ticks pass; the seeded totals must survive and
	// the schedule must keep retrying.
	require.Eventually(t, func() bool { return fetcher.callCount() >= 4 }, time.Second, time.Millisecond)
	totals, ok := r.Totals()
	require.True(t, ok)
	require.Equal(t, 25.0, totals.TotalDonations)
	require.Equal(t, int64(5), totals.DonorCount)
}

func TestReconcilerStopsOnCancel(t *testing.T) {
	fetcher := &scriptedFetcher{responses: []fetchResult{{totals: Totals{}}}}
	r := NewReconciler(fetcher, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Run(ctx)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	calls := fetcher.callCount()
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, calls, fetcher.callCount(), "no fetches after teardown")
}

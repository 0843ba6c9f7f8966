package events

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/auctionhouse/internal/logging"
)

// Async hands every event to the wrapped Publisher on its own goroutine
// and returns immediately. Each delivery is bounded by timeout and
// detached from the caller's cancellation. Failures are logged.
type Async struct {
	next    Publisher
	timeout time.Duration
	log     logging.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewAsync(next Publisher, timeout time.Duration, log logging.Logger) *Async {
	return &Async{next: next, timeout: timeout, log: log}
}

func (a *Async) PublishBidPlaced(ctx context.Context, e BidPlaced) error {
	a.dispatch(ctx, TypeBidPlaced, e.AuctionID, func(ctx context.Context) error {
		return a.next.PublishBidPlaced(ctx, e)
	})
	return nil
}

func (a *Async) PublishAuctionEnded(ctx context.Context, e AuctionEnded) error {
	a.dispatch(ctx, TypeAuctionEnded, e.AuctionID, func(ctx context.Context) error {
		return a.next.PublishAuctionEnded(ctx, e)
	})
	return nil
}

func (a *Async) dispatch(ctx context.Context, kind, auctionID string, send func(context.Context) error) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		a.log.Warn(ctx, "notification dropped after shutdown", "type", kind, "auction_id", auctionID)
		return
	}
	a.wg.Add(1)
	a.mu.Unlock()

	base := context.WithoutCancel(ctx)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(base, a.timeout)
		defer cancel()

		defer func() {
			if r := recover(); r != nil {
				a.log.Error(ctx, "notification panicked", "type", kind, "auction_id", auctionID, "panic", r)
			}
		}()

		if err := send(ctx); err != nil {
			a.log.Warn(ctx, "notification failed", "type", kind, "auction_id", auctionID, "error", err)
		}
	}()
}

// Close stops accepting events and waits for in-flight deliveries until
// ctx is done.
func (a *Async) Close(ctx context.Context) error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

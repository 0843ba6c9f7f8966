// Package sweeper drives the time-based auction transitions: it promotes
// pending auctions whose start has come and resolves active auctions whose
// deadline has passed.
package sweeper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/auctionhouse/internal/dbx"
	"github.com/dmitrijs2005/auctionhouse/internal/logging"
)

// batchSize bounds how many auctions of each kind one cycle picks up.
const batchSize = 500

// Transitioner is the part of the auction service the sweeper drives.
type Transitioner interface {
	StartableIDs(ctx context.Context, limit int) ([]string, error)
	ExpiredIDs(ctx context.Context, limit int) ([]string, error)
	Activate(ctx context.Context, id string, mode dbx.LockMode) (bool, error)
	Resolve(ctx context.Context, id string, mode dbx.LockMode) (bool, error)
}

// Stats counts what one cycle did.
type Stats struct {
	Activated int
	Resolved  int
	Skipped   int
	Failed    int
}

type Sweeper struct {
	auctions Transitioner
	interval time.Duration
	log      logging.Logger
}

// New returns a sweeper that runs every interval, which must be positive.
func New(auctions Transitioner, interval time.Duration, log logging.Logger) (*Sweeper, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("sweep interval must be positive, got %s", interval)
	}
	return &Sweeper{auctions: auctions, interval: interval, log: log}, nil
}

// Run sweeps once immediately and then every interval until ctx is done.
// A failing or panicking cycle is logged and the next one runs as usual.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.cycle(ctx)

		select {
		case <-ctx.Done():
			s.log.Info(ctx, "sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}

func (s *Sweeper) cycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error(ctx, "sweep cycle panicked", "panic", r)
		}
	}()

	st, err := s.Sweep(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.log.Error(ctx, "sweep cycle failed", "error", err)
		}
		return
	}
	if st.Activated+st.Resolved+st.Failed > 0 {
		s.log.Info(ctx, "sweep cycle done",
			"activated", st.Activated,
			"resolved", st.Resolved,
			"skipped", st.Skipped,
			"failed", st.Failed,
		)
	}
}

// Sweep runs one cycle. Each auction is handled in its own transaction
// with a skip-if-locked lock; a locked or failing auction does not stop
// the others. The returned error covers only failures to list candidates.
func (s *Sweeper) Sweep(ctx context.Context) (Stats, error) {
	var st Stats

	ids, err := s.auctions.StartableIDs(ctx, batchSize)
	if err != nil {
		return st, fmt.Errorf("list startable auctions: %w", err)
	}
	for _, id := range ids {
		if ctx.Err() != nil {
			return st, ctx.Err()
		}
		ok, err := s.auctions.Activate(ctx, id, dbx.LockSkip)
		s.tally(ctx, &st.Activated, &st, "activate", id, ok, err)
	}

	ids, err = s.auctions.ExpiredIDs(ctx, batchSize)
	if err != nil {
		return st, fmt.Errorf("list expired auctions: %w", err)
	}
	for _, id := range ids {
		if ctx.Err() != nil {
			return st, ctx.Err()
		}
		ok, err := s.auctions.Resolve(ctx, id, dbx.LockSkip)
		s.tally(ctx, &st.Resolved, &st, "resolve", id, ok, err)
	}

	return st, nil
}

func (s *Sweeper) tally(ctx context.Context, done *int, st *Stats, op, id string, ok bool, err error) {
	switch {
	case errors.Is(err, dbx.ErrLocked):
		st.Skipped++
		s.log.Debug(ctx, "auction locked, deferring", "op", op, "auction_id", id)
	case err != nil:
		st.Failed++
		s.log.Error(ctx, "auction transition failed", "op", op, "auction_id", id, "error", err)
	case ok:
		*done++
	}
}

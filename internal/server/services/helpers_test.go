package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/auctionhouse/internal/clock"
	"github.com/dmitrijs2005/auctionhouse/internal/logging"
	"github.com/dmitrijs2005/auctionhouse/internal/server/events"
	"github.com/dmitrijs2005/auctionhouse/internal/server/lifecycle"
	"github.com/dmitrijs2005/auctionhouse/internal/server/models"
	"github.com/dmitrijs2005/auctionhouse/internal/server/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

var softClose = lifecycle.SoftClose{Window: 5 * time.Minute, Extension: 5 * time.Minute}

// recordingPublisher keeps every event it is handed. A non-nil err is
// returned after recording; onBid and onEnded run before recording.
type recordingPublisher struct {
	mu      sync.Mutex
	bids    []events.BidPlaced
	ended   []events.AuctionEnded
	err     error
	onBid   func(events.BidPlaced)
	onEnded func(events.AuctionEnded)
}

func (p *recordingPublisher) PublishBidPlaced(ctx context.Context, e events.BidPlaced) error {
	if p.onBid != nil {
		p.onBid(e)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bids = append(p.bids, e)
	return p.err
}

func (p *recordingPublisher) PublishAuctionEnded(ctx context.Context, e events.AuctionEnded) error {
	if p.onEnded != nil {
		p.onEnded(e)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ended = append(p.ended, e)
	return p.err
}

func (p *recordingPublisher) endedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.ended)
}

type fixture struct {
	store    *memory.Store
	clock    *clock.Fake
	pub      *recordingPublisher
	auctions *AuctionService
	bids     *BidService
	items    *ItemService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithClock(t, clock.NewFake(t0))
}

func newFixtureWithClock(t *testing.T, clk clock.Clock) *fixture {
	t.Helper()
	f := &fixture{
		store: memory.NewStore(),
		pub:   &recordingPublisher{},
	}
	if fc, ok := clk.(*clock.Fake); ok {
		f.clock = fc
	}
	f.auctions = NewAuctionService(f.store, clk, f.pub, logging.Nop())
	f.bids = NewBidService(f.store, clk, softClose, f.pub, logging.Nop())
	f.items = NewItemService(f.store)
	return f
}

// newAuction lists a fresh item for seller and auctions it.
func (f *fixture) newAuction(t *testing.T, seller string, price string, start, end time.Time) *models.Auction {
	t.Helper()
	ctx := context.Background()
	item, err := f.items.Create(ctx, seller, "Lamp", "")
	require.NoError(t, err)
	a, err := f.auctions.Create(ctx, seller, CreateAuctionParams{
		ItemID:     item.ID,
		StartPrice: decimal.RequireFromString(price),
		StartTime:  start,
		EndTime:    end,
	})
	require.NoError(t, err)
	return a
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

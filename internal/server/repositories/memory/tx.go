package memory

import (
	"time"

	"github.com/dmitrijs2005/auctionhouse/internal/server/models"
	"github.com/dmitrijs2005/auctionhouse/internal/server/repositories/auctions"
	"github.com/dmitrijs2005/auctionhouse/internal/server/repositories/bids"
	"github.com/dmitrijs2005/auctionhouse/internal/server/repositories/items"
	"github.com/dmitrijs2005/auctionhouse/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/auctionhouse/internal/server/repositories/users"
)

var _ repomanager.Repositories = (*Tx)(nil)

// Tx stages writes until commit and tracks the auction locks it holds.
type Tx struct {
	s    *Store
	held map[string]struct{}

	auctions map[string]*models.Auction
	bids     []*models.Bid
	items    map[string]*models.Item
	users    map[string]*models.User
}

func newTx(s *Store) *Tx {
	return &Tx{
		s:        s,
		held:     make(map[string]struct{}),
		auctions: make(map[string]*models.Auction),
		items:    make(map[string]*models.Item),
		users:    make(map[string]*models.User),
	}
}

func (t *Tx) Auctions() auctions.Repository { return &auctionRepo{s: t.s, tx: t} }
func (t *Tx) Bids() bids.Repository         { return &bidRepo{s: t.s, tx: t} }
func (t *Tx) Items() items.Repository       { return &itemRepo{s: t.s, tx: t} }
func (t *Tx) Users() users.Repository       { return &userRepo{s: t.s, tx: t} }

// commit applies the staged writes atomically, re-checking the unique
// constraints against whatever committed in the meantime.
func (t *Tx) commit() error {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range t.auctions {
		if err := s.checkOpenItem(a, t.auctions); err != nil {
			return err
		}
	}
	for _, u := range t.users {
		if err := s.checkUser(u, t.users); err != nil {
			return err
		}
	}

	for id, a := range t.auctions {
		if _, ok := s.auctions[id]; !ok {
			s.seq++
			s.order[id] = s.seq
		}
		s.auctions[id] = a
	}
	for _, b := range t.bids {
		s.bids[b.AuctionID] = append(s.bids[b.AuctionID], b)
	}
	for id, it := range t.items {
		s.items[id] = it
	}
	for id, u := range t.users {
		s.users[id] = u
	}
	return nil
}

func (t *Tx) release() {
	for id := range t.held {
		t.s.unlock(id)
	}
	t.held = nil
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

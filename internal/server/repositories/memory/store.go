// Package memory is an in-process Store for development and tests. It
// keeps the transactional contract of the SQL store: writes made inside
// WithTx are staged and committed together, and auction row locks are
// held until the transaction ends.
package memory

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/auctionhouse/internal/common"
	"github.com/dmitrijs2005/auctionhouse/internal/dbx"
	"github.com/dmitrijs2005/auctionhouse/internal/server/models"
	"github.com/dmitrijs2005/auctionhouse/internal/server/repositories/auctions"
	"github.com/dmitrijs2005/auctionhouse/internal/server/repositories/bids"
	"github.com/dmitrijs2005/auctionhouse/internal/server/repositories/items"
	"github.com/dmitrijs2005/auctionhouse/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/auctionhouse/internal/server/repositories/users"
)

// Store is the committed state.
type Store struct {
	mu       sync.Mutex
	users    map[string]*models.User
	items    map[string]*models.Item
	auctions map[string]*models.Auction
	bids     map[string][]*models.Bid
	// seq orders auctions that share a created_at.
	seq   int64
	order map[string]int64

	lockMu sync.Mutex
	locks  map[string]chan struct{}
}

var _ repomanager.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		users:    make(map[string]*models.User),
		items:    make(map[string]*models.Item),
		auctions: make(map[string]*models.Auction),
		bids:     make(map[string][]*models.Bid),
		order:    make(map[string]int64),
		locks:    make(map[string]chan struct{}),
	}
}

func (s *Store) Auctions() auctions.Repository { return &auctionRepo{s: s} }
func (s *Store) Bids() bids.Repository         { return &bidRepo{s: s} }
func (s *Store) Items() items.Repository       { return &itemRepo{s: s} }
func (s *Store) Users() users.Repository       { return &userRepo{s: s} }

// WithTx implements repomanager.Store. A panic in fn discards the staged
// writes and releases the locks before propagating.
func (s *Store) WithTx(ctx context.Context, fn repomanager.UnitOfWork) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := newTx(s)
	defer tx.release()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.commit()
}

// lock acquires the row lock of an auction. A nil error means the caller
// now owns the lock and must unlock it.
func (s *Store) lock(ctx context.Context, id string, mode dbx.LockMode) error {
	s.lockMu.Lock()
	ch, ok := s.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[id] = ch
	}
	s.lockMu.Unlock()

	if mode == dbx.LockSkip {
		select {
		case ch <- struct{}{}:
			return nil
		default:
			return dbx.ErrLocked
		}
	}
	select {
	case ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) unlock(id string) {
	s.lockMu.Lock()
	ch := s.locks[id]
	s.lockMu.Unlock()
	<-ch
}

// checkOpenItem reports common.ErrorConflict when another open auction
// already holds itemID. The caller holds s.mu.
func (s *Store) checkOpenItem(a *models.Auction, staged map[string]*models.Auction) error {
	if !a.Status.Open() {
		return nil
	}
	for id, other := range s.auctions {
		if st, ok := staged[id]; ok {
			other = st
		}
		if id != a.ID && other.ItemID == a.ItemID && other.Status.Open() {
			return common.ErrorConflict
		}
	}
	for id, other := range staged {
		if _, ok := s.auctions[id]; ok {
			continue
		}
		if id != a.ID && other.ItemID == a.ItemID && other.Status.Open() {
			return common.ErrorConflict
		}
	}
	return nil
}

// checkUser reports common.ErrorConflict for a taken username or email.
// The caller holds s.mu.
func (s *Store) checkUser(u *models.User, staged map[string]*models.User) error {
	check := func(other *models.User) error {
		if other.ID != u.ID && (other.UserName == u.UserName || other.Email == u.Email) {
			return common.ErrorConflict
		}
		return nil
	}
	for _, other := range s.users {
		if err := check(other); err != nil {
			return err
		}
	}
	for _, other := range staged {
		if err := check(other); err != nil {
			return err
		}
	}
	return nil
}

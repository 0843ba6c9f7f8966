package memory

import (
	"context"
	"sort"
	"time"

	"github.com/dmitrijs2005/auctionhouse/internal/common"
	"github.com/dmitrijs2005/auctionhouse/internal/dbx"
	"github.com/dmitrijs2005/auctionhouse/internal/server/models"
	"github.com/dmitrijs2005/auctionhouse/internal/server/repositories/auctions"
)

// Each repo reads the committed state overlaid by tx's staged writes.
// A nil tx means autocommit.

type auctionRepo struct {
	s  *Store
	tx *Tx
}

// get is the caller-holds-s.mu lookup.
func (r *auctionRepo) get(id string) (*models.Auction, bool) {
	if r.tx != nil {
		if a, ok := r.tx.auctions[id]; ok {
			return a, true
		}
	}
	a, ok := r.s.auctions[id]
	return a, ok
}

func (r *auctionRepo) all() []*models.Auction {
	var out []*models.Auction
	for id, a := range r.s.auctions {
		if r.tx != nil {
			if st, ok := r.tx.auctions[id]; ok {
				a = st
			}
		}
		out = append(out, a.Clone())
	}
	if r.tx != nil {
		for id, a := range r.tx.auctions {
			if _, ok := r.s.auctions[id]; !ok {
				out = append(out, a.Clone())
			}
		}
	}
	return out
}

func (r *auctionRepo) Create(ctx context.Context, auction *models.Auction) (*models.Auction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var staged map[string]*models.Auction
	if r.tx != nil {
		staged = r.tx.auctions
	}
	if _, exists := r.get(auction.ID); exists {
		return nil, common.ErrorConflict
	}
	if err := r.s.checkOpenItem(auction, staged); err != nil {
		return nil, err
	}

	auction.CreatedAt = nowUTC()
	if r.tx != nil {
		r.tx.auctions[auction.ID] = auction.Clone()
		return auction, nil
	}
	r.s.seq++
	r.s.order[auction.ID] = r.s.seq
	r.s.auctions[auction.ID] = auction.Clone()
	return auction, nil
}

func (r *auctionRepo) GetByID(ctx context.Context, id string) (*models.Auction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.get(id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	return a.Clone(), nil
}

func (r *auctionRepo) GetForUpdate(ctx context.Context, id string, mode dbx.LockMode) (*models.Auction, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}

	switch {
	case r.tx == nil:
		if err := r.s.lock(ctx, id, mode); err != nil {
			return nil, err
		}
		r.s.unlock(id)
	default:
		if _, held := r.tx.held[id]; !held {
			if err := r.s.lock(ctx, id, mode); err != nil {
				return nil, err
			}
			r.tx.held[id] = struct{}{}
		}
	}

	// Re-read: the previous holder may have committed a change.
	return r.GetByID(ctx, id)
}

func (r *auctionRepo) Update(ctx context.Context, auction *models.Auction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.get(auction.ID)
	if !ok {
		return common.ErrorNotFound
	}
	next := cur.Clone()
	next.CurrentHighestBid = auction.CurrentHighestBid
	next.EndTime = auction.EndTime
	next.Status = auction.Status
	if auction.WinnerID != nil {
		w := *auction.WinnerID
		next.WinnerID = &w
	} else {
		next.WinnerID = nil
	}

	if r.tx != nil {
		r.tx.auctions[auction.ID] = next
		return nil
	}
	r.s.auctions[auction.ID] = next
	return nil
}

func (r *auctionRepo) List(ctx context.Context, filter auctions.ListFilter) ([]*models.Auction, error) {
	r.s.mu.Lock()
	all := r.all()
	order := make(map[string]int64, len(r.s.order))
	for id, n := range r.s.order {
		order[id] = n
	}
	r.s.mu.Unlock()

	var out []*models.Auction
	for _, a := range all {
		if filter.Status == nil || a.Status == *filter.Status {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return order[out[i].ID] > order[out[j].ID]
	})
	return page(out, filter.Offset, filter.Limit), nil
}

func (r *auctionRepo) FindOpenByItem(ctx context.Context, itemID string) (*models.Auction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.all() {
		if a.ItemID == itemID && a.Status.Open() {
			return a, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *auctionRepo) SelectStartable(ctx context.Context, now time.Time, limit int) ([]string, error) {
	return r.selectIDs(limit,
		func(a *models.Auction) bool { return a.Status == models.AuctionPending && !a.StartTime.After(now) },
		func(a *models.Auction) time.Time { return a.StartTime })
}

func (r *auctionRepo) SelectExpired(ctx context.Context, now time.Time, limit int) ([]string, error) {
	return r.selectIDs(limit,
		func(a *models.Auction) bool { return a.Status == models.AuctionActive && !a.EndTime.After(now) },
		func(a *models.Auction) time.Time { return a.EndTime })
}

func (r *auctionRepo) selectIDs(limit int, match func(*models.Auction) bool, key func(*models.Auction) time.Time) ([]string, error) {
	r.s.mu.Lock()
	all := r.all()
	r.s.mu.Unlock()

	var due []*models.Auction
	for _, a := range all {
		if match(a) {
			due = append(due, a)
		}
	}
	sort.Slice(due, func(i, j int) bool { return key(due[i]).Before(key(due[j])) })
	due = page(due, 0, limit)

	ids := make([]string, 0, len(due))
	for _, a := range due {
		ids = append(ids, a.ID)
	}
	return ids, nil
}

type bidRepo struct {
	s  *Store
	tx *Tx
}

// forAuction returns copies of the committed and staged bids of an
// auction, highest first and earliest first among equals.
func (r *bidRepo) forAuction(auctionID string) []*models.Bid {
	r.s.mu.Lock()
	var out []*models.Bid
	for _, b := range r.s.bids[auctionID] {
		c := *b
		out = append(out, &c)
	}
	if r.tx != nil {
		for _, b := range r.tx.bids {
			if b.AuctionID == auctionID {
				c := *b
				out = append(out, &c)
			}
		}
	}
	r.s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *bidRepo) Create(ctx context.Context, bid *models.Bid) (*models.Bid, error) {
	c := *bid
	if r.tx != nil {
		r.tx.bids = append(r.tx.bids, &c)
		return bid, nil
	}
	r.s.mu.Lock()
	r.s.bids[bid.AuctionID] = append(r.s.bids[bid.AuctionID], &c)
	r.s.mu.Unlock()
	return bid, nil
}

func (r *bidRepo) Highest(ctx context.Context, auctionID string) (*models.Bid, error) {
	all := r.forAuction(auctionID)
	if len(all) == 0 {
		return nil, common.ErrorNotFound
	}
	return all[0], nil
}

func (r *bidRepo) Exists(ctx context.Context, auctionID string) (bool, error) {
	return len(r.forAuction(auctionID)) > 0, nil
}

func (r *bidRepo) ListByAuction(ctx context.Context, auctionID string, offset, limit int) ([]*models.Bid, error) {
	return page(r.forAuction(auctionID), offset, limit), nil
}

type itemRepo struct {
	s  *Store
	tx *Tx
}

func (r *itemRepo) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item.CreatedAt = nowUTC()
	c := *item
	if r.tx != nil {
		r.tx.items[item.ID] = &c
	} else {
		r.s.items[item.ID] = &c
	}
	return item, nil
}

func (r *itemRepo) GetByID(ctx context.Context, id string) (*models.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.tx != nil {
		if it, ok := r.tx.items[id]; ok {
			c := *it
			return &c, nil
		}
	}
	it, ok := r.s.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *it
	return &c, nil
}

type userRepo struct {
	s  *Store
	tx *Tx
}

func (r *userRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var staged map[string]*models.User
	if r.tx != nil {
		staged = r.tx.users
	}
	if err := r.s.checkUser(user, staged); err != nil {
		return nil, err
	}

	user.CreatedAt = nowUTC()
	c := *user
	if r.tx != nil {
		r.tx.users[user.ID] = &c
	} else {
		r.s.users[user.ID] = &c
	}
	return user, nil
}

func (r *userRepo) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.UserName == userName })
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r *userRepo) find(match func(*models.User) bool) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.tx != nil {
		for _, u := range r.tx.users {
			if match(u) {
				c := *u
				return &c, nil
			}
		}
	}
	for _, u := range r.s.users {
		if match(u) {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func page[T any](in []T, offset, limit int) []T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit >= 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}

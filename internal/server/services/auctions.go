package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/auctionhouse/internal/clock"
	"github.com/dmitrijs2005/auctionhouse/internal/common"
	"github.com/dmitrijs2005/auctionhouse/internal/dbx"
	"github.com/dmitrijs2005/auctionhouse/internal/logging"
	"github.com/dmitrijs2005/auctionhouse/internal/server/events"
	"github.com/dmitrijs2005/auctionhouse/internal/server/lifecycle"
	"github.com/dmitrijs2005/auctionhouse/internal/server/models"
	auctionsrepo "github.com/dmitrijs2005/auctionhouse/internal/server/repositories/auctions"
	"github.com/dmitrijs2005/auctionhouse/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateAuctionParams describes a new auction.
type CreateAuctionParams struct {
	ItemID     string
	StartPrice decimal.Decimal
	StartTime  time.Time
	EndTime    time.Time
}

// AuctionService drives auctions through their lifecycle. Every
// transition runs in its own transaction under the auction's row lock;
// "auction ended" is published only after that transaction committed.
type AuctionService struct {
	store     repomanager.Store
	clock     clock.Clock
	publisher events.Publisher
	log       logging.Logger
}

func NewAuctionService(store repomanager.Store, clk clock.Clock, publisher events.Publisher, log logging.Logger) *AuctionService {
	return &AuctionService{store: store, clock: clk, publisher: publisher, log: log}
}

func (s *AuctionService) Create(ctx context.Context, sellerID string, p CreateAuctionParams) (*models.Auction, error) {
	if err := validateMoney("start price", p.StartPrice); err != nil {
		return nil, err
	}
	if p.StartPrice.IsNegative() {
		return nil, fmt.Errorf("%w: start price must not be negative", common.ErrorInvalidInput)
	}
	if !p.EndTime.After(p.StartTime) {
		return nil, fmt.Errorf("%w: end time must be after start time", common.ErrorInvalidInput)
	}

	var created *models.Auction
	err := s.store.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		item, err := repos.Items().GetByID(ctx, p.ItemID)
		if err != nil {
			return err
		}
		if item.SellerID != sellerID {
			return fmt.Errorf("%w: item belongs to another seller", common.ErrorForbidden)
		}

		_, err = repos.Auctions().FindOpenByItem(ctx, p.ItemID)
		switch {
		case err == nil:
			return errItemBusy
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}

		start, end := p.StartTime.UTC(), p.EndTime.UTC()
		a := &models.Auction{
			ID:              uuid.NewString(),
			ItemID:          p.ItemID,
			SellerID:        sellerID,
			StartPrice:      p.StartPrice,
			StartTime:       start,
			EndTime:         end,
			OriginalEndTime: end,
			Status:          lifecycle.InitialStatus(start, s.clock.Now()),
		}
		created, err = repos.Auctions().Create(ctx, a)
		if errors.Is(err, common.ErrorConflict) {
			return errItemBusy
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "auction created", "auction_id", created.ID, "item_id", created.ItemID, "status", string(created.Status))
	return created, nil
}

var errItemBusy = fmt.Errorf("%w: item already has a pending or active auction", common.ErrorInvalidState)

// Get returns an auction after bringing a stale status up to date: a
// pending auction past its start becomes active and an active auction
// past its end is resolved.
func (s *AuctionService) Get(ctx context.Context, id string) (*models.Auction, error) {
	a, err := s.store.Auctions().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if !lifecycle.DueForActivation(a, now) && !lifecycle.DueForResolution(a, now) {
		return a, nil
	}
	return s.heal(ctx, id)
}

// heal applies every due transition to one auction under a blocking lock.
func (s *AuctionService) heal(ctx context.Context, id string) (*models.Auction, error) {
	var (
		healed *models.Auction
		ended  bool
	)
	err := s.store.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		a, err := repos.Auctions().GetForUpdate(ctx, id, dbx.LockWait)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		changed := lifecycle.Activate(a, now)
		if lifecycle.DueForResolution(a, now) {
			if ended, err = s.resolveLocked(ctx, repos, a); err != nil {
				return err
			}
			changed = changed || ended
		}
		if changed {
			if err := repos.Auctions().Update(ctx, a); err != nil {
				return err
			}
		}
		healed = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	if ended {
		s.notifyEnded(ctx, healed)
	}
	return healed, nil
}

// List returns auctions newest first, without healing their status.
func (s *AuctionService) List(ctx context.Context, status *models.AuctionStatus, page Page) ([]*models.Auction, error) {
	page, err := page.normalize()
	if err != nil {
		return nil, err
	}
	return s.store.Auctions().List(ctx, auctionsrepo.ListFilter{
		Status: status,
		Offset: page.Offset,
		Limit:  page.Limit,
	})
}

// Cancel withdraws an auction that nobody has bid on. Only its seller may
// cancel it. The auction is healed first, so one that already ran out
// resolves instead.
func (s *AuctionService) Cancel(ctx context.Context, sellerID, id string) (*models.Auction, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	var cancelled *models.Auction
	err := s.store.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		a, err := repos.Auctions().GetForUpdate(ctx, id, dbx.LockWait)
		if err != nil {
			return err
		}
		if a.SellerID != sellerID {
			return fmt.Errorf("%w: auction belongs to another seller", common.ErrorForbidden)
		}
		if lifecycle.DueForResolution(a, s.clock.Now()) {
			return fmt.Errorf("%w: auction has ended", common.ErrorInvalidState)
		}

		hasBids, err := repos.Bids().Exists(ctx, id)
		if err != nil {
			return err
		}
		if err := lifecycle.Cancel(a, hasBids); err != nil {
			return err
		}
		if err := repos.Auctions().Update(ctx, a); err != nil {
			return err
		}
		cancelled = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "auction cancelled", "auction_id", id)
	return cancelled, nil
}

// StartableIDs lists pending auctions whose start time has come.
func (s *AuctionService) StartableIDs(ctx context.Context, limit int) ([]string, error) {
	return s.store.Auctions().SelectStartable(ctx, s.clock.Now(), limit)
}

// ExpiredIDs lists active auctions whose end time has come.
func (s *AuctionService) ExpiredIDs(ctx context.Context, limit int) ([]string, error) {
	return s.store.Auctions().SelectExpired(ctx, s.clock.Now(), limit)
}

// Activate promotes one due pending auction. The status is re-checked
// under the lock, so a stale id is a no-op that reports false.
func (s *AuctionService) Activate(ctx context.Context, id string, mode dbx.LockMode) (bool, error) {
	var changed bool
	err := s.store.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		a, err := repos.Auctions().GetForUpdate(ctx, id, mode)
		if err != nil {
			return err
		}
		if changed = lifecycle.Activate(a, s.clock.Now()); !changed {
			return nil
		}
		return repos.Auctions().Update(ctx, a)
	})
	if err != nil {
		return false, err
	}
	if changed {
		s.log.Info(ctx, "auction activated", "auction_id", id)
	}
	return changed, nil
}

// Resolve ends one due active auction and publishes its outcome once the
// result is committed. Resolving an auction that is not due, or already
// ended, is a no-op that reports false.
func (s *AuctionService) Resolve(ctx context.Context, id string, mode dbx.LockMode) (bool, error) {
	var resolved *models.Auction
	err := s.store.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		a, err := repos.Auctions().GetForUpdate(ctx, id, mode)
		if err != nil {
			return err
		}
		if !lifecycle.DueForResolution(a, s.clock.Now()) {
			return nil
		}
		ended, err := s.resolveLocked(ctx, repos, a)
		if err != nil || !ended {
			return err
		}
		if err := repos.Auctions().Update(ctx, a); err != nil {
			return err
		}
		resolved = a
		return nil
	})
	if err != nil {
		return false, err
	}
	if resolved == nil {
		return false, nil
	}
	s.notifyEnded(ctx, resolved)
	return true, nil
}

// resolveLocked picks the winner of a and closes it in memory. The caller
// holds the row lock and persists a.
func (s *AuctionService) resolveLocked(ctx context.Context, repos repomanager.Repositories, a *models.Auction) (bool, error) {
	winning, err := repos.Bids().Highest(ctx, a.ID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return false, err
		}
		winning = nil
	}
	return lifecycle.Resolve(a, winning)
}

func (s *AuctionService) notifyEnded(ctx context.Context, a *models.Auction) {
	o := lifecycle.OutcomeOf(a)
	s.log.Info(ctx, "auction ended", "auction_id", a.ID, "has_winner", o.WinnerID != nil)

	if err := s.publisher.PublishAuctionEnded(ctx, events.AuctionEnded{
		AuctionID:  o.AuctionID,
		WinnerID:   o.WinnerID,
		FinalPrice: o.FinalPrice,
	}); err != nil {
		s.log.Warn(ctx, "auction ended notification failed", "auction_id", a.ID, "error", err)
	}
}

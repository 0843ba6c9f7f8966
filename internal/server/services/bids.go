package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/auctionhouse/internal/clock"
	"github.com/dmitrijs2005/auctionhouse/internal/common"
	"github.com/dmitrijs2005/auctionhouse/internal/dbx"
	"github.com/dmitrijs2005/auctionhouse/internal/logging"
	"github.com/dmitrijs2005/auctionhouse/internal/server/events"
	"github.com/dmitrijs2005/auctionhouse/internal/server/lifecycle"
	"github.com/dmitrijs2005/auctionhouse/internal/server/models"
	"github.com/dmitrijs2005/auctionhouse/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlaceBidResult is what an accepted bid reports back to the bidder.
type PlaceBidResult struct {
	Bid         *models.Bid
	WasExtended bool
	EndTime     time.Time
}

// BidService accepts bids. Every bid on an auction is validated and
// committed while holding that auction's row lock, so concurrent bidders
// are strictly serialized and each sees the previous bid's committed
// price floor.
type BidService struct {
	store     repomanager.Store
	clock     clock.Clock
	softClose lifecycle.SoftClose
	publisher events.Publisher
	log       logging.Logger
}

func NewBidService(store repomanager.Store, clk clock.Clock, softClose lifecycle.SoftClose,
	publisher events.Publisher, log logging.Logger) *BidService {
	return &BidService{
		store:     store,
		clock:     clk,
		softClose: softClose,
		publisher: publisher,
		log:       log,
	}
}

// PlaceBid validates and commits one bid. The checks run in a fixed order
// and the first failure wins: unknown auction, auction not active,
// deadline passed, seller bidding, amount not above the current floor.
//
// Pending auctions past their start time are rejected as not active; only
// reads and the sweeper promote them.
func (s *BidService) PlaceBid(ctx context.Context, auctionID, bidderID string, amount decimal.Decimal) (*PlaceBidResult, error) {
	var result *PlaceBidResult
	err := s.store.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		a, err := repos.Auctions().GetForUpdate(ctx, auctionID, dbx.LockWait)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		if a.Status != models.AuctionActive {
			return fmt.Errorf("%w: auction is not active", common.ErrorInvalidState)
		}
		if !now.Before(a.EndTime) {
			return fmt.Errorf("%w: auction has ended", common.ErrorInvalidState)
		}
		if a.SellerID == bidderID {
			return fmt.Errorf("%w: seller cannot bid on own auction", common.ErrorForbidden)
		}
		if err := validateMoney("amount", amount); err != nil {
			return err
		}
		if floor := a.MinimumBid(); !amount.GreaterThan(floor) {
			return fmt.Errorf("%w: bid must be greater than %s", common.ErrorInvalidInput, floor.StringFixed(moneyScale))
		}

		bid := &models.Bid{
			ID:        uuid.NewString(),
			AuctionID: a.ID,
			BidderID:  bidderID,
			Amount:    amount,
			CreatedAt: now,
		}
		if _, err := repos.Bids().Create(ctx, bid); err != nil {
			return err
		}

		endTime, extended := s.softClose.Apply(a.EndTime, now)
		a.CurrentHighestBid = decimal.NewNullDecimal(amount)
		a.EndTime = endTime
		if err := repos.Auctions().Update(ctx, a); err != nil {
			return err
		}

		result = &PlaceBidResult{Bid: bid, WasExtended: extended, EndTime: endTime}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "bid accepted",
		"auction_id", auctionID,
		"bid_id", result.Bid.ID,
		"amount", amount.String(),
		"extended", result.WasExtended,
	)

	if err := s.publisher.PublishBidPlaced(ctx, events.BidPlaced{
		AuctionID:   auctionID,
		BidID:       result.Bid.ID,
		BidderID:    bidderID,
		Amount:      amount,
		EndTime:     result.EndTime,
		WasExtended: result.WasExtended,
	}); err != nil {
		s.log.Warn(ctx, "bid notification failed", "auction_id", auctionID, "error", err)
	}

	return result, nil
}

// ListBids returns an auction's bids, highest first.
func (s *BidService) ListBids(ctx context.Context, auctionID string, page Page) ([]*models.Bid, error) {
	page, err := page.normalize()
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Auctions().GetByID(ctx, auctionID); err != nil {
		return nil, err
	}
	return s.store.Bids().ListByAuction(ctx, auctionID, page.Offset, page.Limit)
}

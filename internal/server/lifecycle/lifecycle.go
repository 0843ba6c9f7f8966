// Package lifecycle is the auction state machine:
//
//	pending ──▶ active ──▶ ended
//	   │           │
//	   └───────────┴──▶ cancelled
//
// Ended and cancelled are terminal. The functions here only inspect and
// mutate an in-memory *models.Auction; persisting the result and holding
// the row lock while doing so is the caller's job.
package lifecycle

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/auctionhouse/internal/common"
	"github.com/dmitrijs2005/auctionhouse/internal/server/models"
	"github.com/shopspring/decimal"
)

var transitions = map[models.AuctionStatus][]models.AuctionStatus{
	models.AuctionPending: {models.AuctionActive, models.AuctionCancelled},
	models.AuctionActive:  {models.AuctionEnded, models.AuctionCancelled},
}

// CanTransition reports whether from → to is a legal edge.
func CanTransition(from, to models.AuctionStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// InitialStatus decides the status of a freshly created auction.
func InitialStatus(startTime, now time.Time) models.AuctionStatus {
	if !startTime.After(now) {
		return models.AuctionActive
	}
	return models.AuctionPending
}

// DueForActivation reports whether a pending auction has reached its start.
func DueForActivation(a *models.Auction, now time.Time) bool {
	return a.Status == models.AuctionPending && !a.StartTime.After(now)
}

// DueForResolution reports whether an active auction has reached its end.
func DueForResolution(a *models.Auction, now time.Time) bool {
	return a.Status == models.AuctionActive && !a.EndTime.After(now)
}

// Activate flips a due pending auction to active. It returns false and
// leaves a untouched when the auction is not due.
func Activate(a *models.Auction, now time.Time) bool {
	if !DueForActivation(a, now) {
		return false
	}
	a.Status = models.AuctionActive
	return true
}

// Resolve closes an active auction. winning is the highest bid (nil when
// there are no bids): its bidder becomes the winner and its amount the
// final price. Resolving an ended auction is a no-op that returns false;
// resolving from any other state is an ErrorInvalidState.
func Resolve(a *models.Auction, winning *models.Bid) (bool, error) {
	switch a.Status {
	case models.AuctionEnded:
		return false, nil
	case models.AuctionActive:
	default:
		return false, fmt.Errorf("%w: cannot resolve %s auction", common.ErrorInvalidState, a.Status)
	}

	a.Status = models.AuctionEnded
	if winning != nil {
		winner := winning.BidderID
		a.WinnerID = &winner
		a.CurrentHighestBid = decimal.NewNullDecimal(winning.Amount)
	}
	return true, nil
}

// Cancel moves a pending or active auction without bids to cancelled.
func Cancel(a *models.Auction, hasBids bool) error {
	if !CanTransition(a.Status, models.AuctionCancelled) {
		return fmt.Errorf("%w: auction cannot be cancelled", common.ErrorInvalidState)
	}
	if hasBids {
		return fmt.Errorf("%w: cannot cancel auction with bids", common.ErrorInvalidState)
	}
	a.Status = models.AuctionCancelled
	return nil
}

// Outcome summarizes a resolved auction for notification.
type Outcome struct {
	AuctionID  string
	WinnerID   *string
	FinalPrice decimal.NullDecimal
}

// OutcomeOf returns the outcome of an ended auction.
func OutcomeOf(a *models.Auction) Outcome {
	o := Outcome{AuctionID: a.ID, FinalPrice: a.CurrentHighestBid}
	if a.WinnerID != nil {
		w := *a.WinnerID
		o.WinnerID = &w
	}
	return o
}

// Package models defines server-side data models persisted in the ledger.
package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AuctionStatus is the lifecycle state of an auction. The string codes
// are persisted and exposed on the wire as-is.
type AuctionStatus string

const (
	AuctionPending   AuctionStatus = "pending"
	AuctionActive    AuctionStatus = "active"
	AuctionEnded     AuctionStatus = "ended"
	AuctionCancelled AuctionStatus = "cancelled"
)

// ParseAuctionStatus validates a persisted or client-supplied status code.
func ParseAuctionStatus(s string) (AuctionStatus, error) {
	switch st := AuctionStatus(s); st {
	case AuctionPending, AuctionActive, AuctionEnded, AuctionCancelled:
		return st, nil
	default:
		return "", fmt.Errorf("unknown auction status %q", s)
	}
}

// Terminal reports whether no further transition is possible.
func (s AuctionStatus) Terminal() bool {
	return s == AuctionEnded || s == AuctionCancelled
}

// Open reports whether the auction still occupies its item.
func (s AuctionStatus) Open() bool {
	return s == AuctionPending || s == AuctionActive
}

// Auction is one timed sale of one item.
//
// EndTime only ever grows (soft close); OriginalEndTime never changes.
// CurrentHighestBid is either invalid (no bids) or the amount of the
// highest committed bid, which is always strictly above StartPrice.
type Auction struct {
	ID                string
	ItemID            string
	SellerID          string
	StartPrice        decimal.Decimal
	CurrentHighestBid decimal.NullDecimal
	StartTime         time.Time
	EndTime           time.Time
	OriginalEndTime   time.Time
	Status            AuctionStatus
	WinnerID          *string
	CreatedAt         time.Time
}

// MinimumBid is the floor a new bid must strictly exceed.
func (a *Auction) MinimumBid() decimal.Decimal {
	if a.CurrentHighestBid.Valid && a.CurrentHighestBid.Decimal.GreaterThan(a.StartPrice) {
		return a.CurrentHighestBid.Decimal
	}
	return a.StartPrice
}

// Clone returns a deep copy, so callers may mutate it freely.
func (a *Auction) Clone() *Auction {
	c := *a
	if a.WinnerID != nil {
		w := *a.WinnerID
		c.WinnerID = &w
	}
	return &c
}

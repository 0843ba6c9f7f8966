package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bid is an accepted offer on an auction. Bids are append-only.
type Bid struct {
	ID        string
	AuctionID string
	BidderID  string
	Amount    decimal.Decimal
	CreatedAt time.Time
}

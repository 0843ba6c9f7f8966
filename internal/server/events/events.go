// Package events is the notification sink the auction engine reports to
// after a state change has committed. Every Publisher here is best-effort:
// a failure is the sink's problem and never the caller's.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// BidPlaced describes an accepted bid.
type BidPlaced struct {
	AuctionID   string          `json:"auction_id"`
	BidID       string          `json:"bid_id"`
	BidderID    string          `json:"bidder_id"`
	Amount      decimal.Decimal `json:"amount"`
	EndTime     time.Time       `json:"end_time"`
	WasExtended bool            `json:"was_extended"`
}

// AuctionEnded describes a resolved auction. WinnerID and FinalPrice are
// empty when nobody bid.
type AuctionEnded struct {
	AuctionID  string              `json:"auction_id"`
	WinnerID   *string             `json:"winner_id"`
	FinalPrice decimal.NullDecimal `json:"final_price"`
}

type Publisher interface {
	PublishBidPlaced(ctx context.Context, e BidPlaced) error
	PublishAuctionEnded(ctx context.Context, e AuctionEnded) error
}

// Noop discards every event.
type Noop struct{}

func (Noop) PublishBidPlaced(context.Context, BidPlaced) error       { return nil }
func (Noop) PublishAuctionEnded(context.Context, AuctionEnded) error { return nil }

// Fanout delivers every event to each of its publishers in order and
// joins their errors.
type Fanout []Publisher

func (f Fanout) PublishBidPlaced(ctx context.Context, e BidPlaced) error {
	var errs []error
	for _, p := range f {
		if err := p.PublishBidPlaced(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f Fanout) PublishAuctionEnded(ctx context.Context, e AuctionEnded) error {
	var errs []error
	for _, p := range f {
		if err := p.PublishAuctionEnded(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// envelope is the wire form shared by the broker sinks.
type envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const (
	TypeBidPlaced    = "bid_placed"
	TypeAuctionEnded = "auction_ended"
)

func encode(kind string, data any) ([]byte, error) {
	return json.Marshal(envelope{Type: kind, Data: data})
}

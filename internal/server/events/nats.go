package events

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
)

// natsConn is the part of *nats.Conn the publisher uses.
type natsConn interface {
	Publish(subj string, data []byte) error
}

// NATSPublisher publishes JSON envelopes on bid_events.<auction> and
// auction_events.<auction>.
type NATSPublisher struct {
	conn natsConn
}

var _ natsConn = (*nats.Conn)(nil)

func NewNATSPublisher(conn natsConn) *NATSPublisher {
	return &NATSPublisher{conn: conn}
}

// DialNATS connects to url with the options the server uses.
func DialNATS(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("auctionhouse"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return conn, nil
}

func (p *NATSPublisher) PublishBidPlaced(ctx context.Context, e BidPlaced) error {
	return p.publish(fmt.Sprintf("bid_events.%s", e.AuctionID), TypeBidPlaced, e)
}

func (p *NATSPublisher) PublishAuctionEnded(ctx context.Context, e AuctionEnded) error {
	return p.publish(fmt.Sprintf("auction_events.%s", e.AuctionID), TypeAuctionEnded, e)
}

func (p *NATSPublisher) publish(subject, kind string, data any) error {
	payload, err := encode(kind, data)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("failed to publish to NATS: %w", err)
	}
	return nil
}

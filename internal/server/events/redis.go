package events

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisClient is the part of *redis.Client the publisher uses.
type redisClient interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisPublisher fans events out over Redis pub/sub for realtime
// subscribers, on bid_events:<auction> and auction_events:<auction>.
type RedisPublisher struct {
	client redisClient
}

func NewRedisPublisher(client redisClient) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// DialRedis creates a client and checks the connection.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

func (p *RedisPublisher) PublishBidPlaced(ctx context.Context, e BidPlaced) error {
	return p.publish(ctx, fmt.Sprintf("bid_events:%s", e.AuctionID), TypeBidPlaced, e)
}

func (p *RedisPublisher) PublishAuctionEnded(ctx context.Context, e AuctionEnded) error {
	return p.publish(ctx, fmt.Sprintf("auction_events:%s", e.AuctionID), TypeAuctionEnded, e)
}

func (p *RedisPublisher) publish(ctx context.Context, channel, kind string, data any) error {
	payload, err := encode(kind, data)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to Redis: %w", err)
	}
	return nil
}

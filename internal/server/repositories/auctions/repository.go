package auctions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/auctionhouse/internal/dbx"
	"github.com/dmitrijs2005/auctionhouse/internal/server/models"
)

// ListFilter narrows List. A nil Status lists every auction.
type ListFilter struct {
	Status *models.AuctionStatus
	Offset int
	Limit  int
}

type Repository interface {
	Create(ctx context.Context, auction *models.Auction) (*models.Auction, error)
	GetByID(ctx context.Context, id string) (*models.Auction, error)
	// GetForUpdate reads the auction and locks its row until the enclosing
	// transaction ends. With dbx.LockSkip a held row yields dbx.ErrLocked.
	GetForUpdate(ctx context.Context, id string, mode dbx.LockMode) (*models.Auction, error)
	Update(ctx context.Context, auction *models.Auction) error
	List(ctx context.Context, filter ListFilter) ([]*models.Auction, error)
	FindOpenByItem(ctx context.Context, itemID string) (*models.Auction, error)
	// SelectStartable returns ids of pending auctions with start_time <= now.
	SelectStartable(ctx context.Context, now time.Time, limit int) ([]string, error)
	// SelectExpired returns ids of active auctions with end_time <= now.
	SelectExpired(ctx context.Context, now time.Time, limit int) ([]string, error)
}

package bids

import (
	"context"

	"github.com/dmitrijs2005/auctionhouse/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, bid *models.Bid) (*models.Bid, error)
	// Highest returns the top bid by amount, earliest first on ties, or
	// common.ErrorNotFound when the auction has no bids.
	Highest(ctx context.Context, auctionID string) (*models.Bid, error)
	Exists(ctx context.Context, auctionID string) (bool, error)
	ListByAuction(ctx context.Context, auctionID string, offset, limit int) ([]*models.Bid, error)
}

package items

import (
	"context"

	"github.com/dmitrijs2005/auctionhouse/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	GetByID(ctx context.Context, id string) (*models.Item, error)
}

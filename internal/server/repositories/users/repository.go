package users

import (
	"context"

	"github.com/dmitrijs2005/auctionhouse/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, userName string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

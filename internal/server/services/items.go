package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/auctionhouse/internal/common"
	"github.com/dmitrijs2005/auctionhouse/internal/server/models"
	"github.com/dmitrijs2005/auctionhouse/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ItemService is the minimal catalog auctions are created against.
type ItemService struct {
	store repomanager.Store
}

func NewItemService(store repomanager.Store) *ItemService {
	return &ItemService{store: store}
}

func (s *ItemService) Create(ctx context.Context, sellerID, title, description string) (*models.Item, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrorInvalidInput)
	}
	return s.store.Items().Create(ctx, &models.Item{
		ID:          uuid.NewString(),
		SellerID:    sellerID,
		Title:       title,
		Description: description,
	})
}

func (s *ItemService) Get(ctx context.Context, id string) (*models.Item, error) {
	return s.store.Items().GetByID(ctx, id)
}

package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/auctionhouse/internal/common"
	"github.com/dmitrijs2005/auctionhouse/internal/dbx"
	"github.com/dmitrijs2005/auctionhouse/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	query :=
		`INSERT INTO items (id, seller_id, title, description)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		item.ID, item.SellerID, item.Title, item.Description).Scan(&item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return item, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	query :=
		`SELECT id, seller_id, title, description, created_at FROM items
		 WHERE id = $1
		 `

	item := &models.Item{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&item.ID, &item.SellerID, &item.Title, &item.Description, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return item, nil
}

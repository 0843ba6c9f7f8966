// Package bids provides the PostgreSQL-backed, append-only bid repository.
package bids

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

func (r *PostgresRepository) Create(ctx context.Context, bid *models.Bid) (*models.Bid, error) {
	query := `
		INSERT INTO bids (id, auction_id, bidder_id, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.ExecContext(ctx, query, bid.ID, bid.AuctionID, bid.BidderID, bid.Amount, bid.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return bid, nil
}

func (r *PostgresRepository) Highest(ctx context.Context, auctionID string) (*models.Bid, error) {
	query := `
		SELECT id, auction_id, bidder_id, amount, created_at FROM bids
		WHERE auction_id = $1
		ORDER BY amount DESC, created_at ASC
		LIMIT 1
	`
	var b models.Bid
	err := r.db.QueryRowContext(ctx, query, auctionID).Scan(&b.ID, &b.AuctionID, &b.BidderID, &b.Amount, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &b, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, auctionID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM bids WHERE auction_id = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, auctionID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// ListByAuction pages through an auction's bids, highest first.
func (r *PostgresRepository) ListByAuction(ctx context.Context, auctionID string, offset, limit int) ([]*models.Bid, error) {
	query := `
		SELECT id, auction_id, bidder_id, amount, created_at FROM bids
		WHERE auction_id = $1
		ORDER BY amount DESC, created_at ASC
		OFFSET $2 LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, auctionID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select bids: %w", err)
	}
	defer rows.Close()

	var result []*models.Bid
	for rows.Next() {
		var b models.Bid
		if err := rows.Scan(&b.ID, &b.AuctionID, &b.BidderID, &b.Amount, &b.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

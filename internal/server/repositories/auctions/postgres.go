// Package auctions provides the PostgreSQL-backed auction repository,
// including the row locks the bid protocol and the sweeper rely on.
package auctions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/auctionhouse/internal/common"
	"github.com/dmitrijs2005/auctionhouse/internal/dbx"
	"github.com/dmitrijs2005/auctionhouse/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const auctionColumns = `id, item_id, seller_id, start_price, current_highest_bid, start_time, end_time, original_end_time, status, winner_id, created_at`

const pgUniqueViolation = "23505"

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAuction(row rowScanner) (*models.Auction, error) {
	var (
		a      models.Auction
		status string
		winner sql.NullString
	)
	if err := row.Scan(
		&a.ID, &a.ItemID, &a.SellerID, &a.StartPrice, &a.CurrentHighestBid,
		&a.StartTime, &a.EndTime, &a.OriginalEndTime, &status, &winner, &a.CreatedAt,
	); err != nil {
		return nil, err
	}

	st, err := models.ParseAuctionStatus(status)
	if err != nil {
		return nil, err
	}
	a.Status = st
	if winner.Valid {
		a.WinnerID = &winner.String
	}
	return &a, nil
}

// Create inserts a new auction. A second open auction for the same item
// violates ux_auctions_open_item and yields common.ErrorConflict.
func (r *PostgresRepository) Create(ctx context.Context, auction *models.Auction) (*models.Auction, error) {
	query := `
		INSERT INTO auctions (id, item_id, seller_id, start_price, current_highest_bid,
			start_time, end_time, original_end_time, status, winner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		auction.ID, auction.ItemID, auction.SellerID, auction.StartPrice, auction.CurrentHighestBid,
		auction.StartTime, auction.EndTime, auction.OriginalEndTime, string(auction.Status), auction.WinnerID,
	).Scan(&auction.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return auction, nil
}

// GetByID reads an auction without locking it.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE id = $1`

	a, err := scanAuction(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

// GetForUpdate reads an auction and locks its row for the rest of the
// transaction. Must be called with a *sql.Tx.
func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string, mode dbx.LockMode) (*models.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE id = $1 ` + mode.Clause()

	a, err := scanAuction(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		if errors.Is(dbx.TranslateLockError(err), dbx.ErrLocked) {
			return nil, dbx.ErrLocked
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

// Update writes the mutable columns of an auction.
func (r *PostgresRepository) Update(ctx context.Context, auction *models.Auction) error {
	query := `
		UPDATE auctions
		SET current_highest_bid = $2, end_time = $3, status = $4, winner_id = $5
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		auction.ID, auction.CurrentHighestBid, auction.EndTime, string(auction.Status), auction.WinnerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

// List returns auctions newest first.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*models.Auction, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if filter.Status != nil {
		query := `SELECT ` + auctionColumns + ` FROM auctions WHERE status = $1
			ORDER BY created_at DESC, id OFFSET $2 LIMIT $3`
		rows, err = r.db.QueryContext(ctx, query, string(*filter.Status), filter.Offset, filter.Limit)
	} else {
		query := `SELECT ` + auctionColumns + ` FROM auctions
			ORDER BY created_at DESC, id OFFSET $1 LIMIT $2`
		rows, err = r.db.QueryContext(ctx, query, filter.Offset, filter.Limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select auctions: %w", err)
	}
	defer rows.Close()

	var result []*models.Auction
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// FindOpenByItem returns the pending or active auction of an item.
func (r *PostgresRepository) FindOpenByItem(ctx context.Context, itemID string) (*models.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions
		WHERE item_id = $1 AND status IN ('pending', 'active')`

	a, err := scanAuction(r.db.QueryRowContext(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) SelectStartable(ctx context.Context, now time.Time, limit int) ([]string, error) {
	query := `SELECT id FROM auctions WHERE status = 'pending' AND start_time <= $1
		ORDER BY start_time LIMIT $2`
	return r.selectIDs(ctx, query, now, limit)
}

func (r *PostgresRepository) SelectExpired(ctx context.Context, now time.Time, limit int) ([]string, error) {
	query := `SELECT id FROM auctions WHERE status = 'active' AND end_time <= $1
		ORDER BY end_time LIMIT $2`
	return r.selectIDs(ctx, query, now, limit)
}

func (r *PostgresRepository) selectIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select auctions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

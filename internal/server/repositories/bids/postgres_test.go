package bids

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/auctionhouse/internal/common"
	"github.com/dmitrijs2005/auctionhouse/internal/server/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO bids \(id, auction_id, bidder_id, amount, created_at\)`).
		WithArgs("b1", "a1", "u1", "15.5", t0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	b := &models.Bid{ID: "b1", AuctionID: "a1", BidderID: "u1", Amount: decimal.RequireFromString("15.50"), CreatedAt: t0}
	got, err := repo.Create(context.Background(), b)
	require.NoError(t, err)
	assert.Same(t, b, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO bids`).WillReturnError(errors.New("fk violation"))

	_, err := repo.Create(context.Background(), &models.Bid{ID: "b1"})
	require.Error(t, err)
	assert.Regexp(t, `db error: .*fk violation`, err.Error())
}

func TestHighest(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM bids\s+WHERE auction_id = \$1\s+ORDER BY amount DESC, created_at ASC\s+LIMIT 1`).
		WithArgs("a1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "auction_id", "bidder_id", "amount", "created_at"}).
			AddRow("b2", "a1", "u2", "25.00", t0))

	b, err := repo.Highest(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "u2", b.BidderID)
	assert.True(t, b.Amount.Equal(decimal.NewFromInt(25)))
}

func TestHighest_NoBids(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM bids`).WithArgs("a1").WillReturnError(sql.ErrNoRows)

	_, err := repo.Highest(context.Background(), "a1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestExists(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM bids WHERE auction_id = \$1\)`).
		WithArgs("a1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("a2").
		WillReturnError(errors.New("timeout"))

	ok, err := repo.Exists(context.Background(), "a1")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = repo.Exists(context.Background(), "a2")
	assert.Error(t, err)
}

func TestListByAuction(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "auction_id", "bidder_id", "amount", "created_at"}).
		AddRow("b2", "a1", "u2", "25.00", t0.Add(time.Minute)).
		AddRow("b1", "a1", "u1", "15.00", t0)
	mock.ExpectQuery(`ORDER BY amount DESC, created_at ASC\s+OFFSET \$2 LIMIT \$3`).
		WithArgs("a1", 0, 50).
		WillReturnRows(rows)

	got, err := repo.ListByAuction(context.Background(), "a1", 0, 50)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b2", got[0].ID)
	assert.Equal(t, "b1", got[1].ID)
}

func TestListByAuction_ScanError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "auction_id", "bidder_id", "amount", "created_at"}).
		AddRow("b1", "a1", "u1", "not-a-number", t0)
	mock.ExpectQuery(`FROM bids`).WillReturnRows(rows)

	_, err := repo.ListByAuction(context.Background(), "a1", 0, 50)
	assert.Error(t, err)
}

package repomanager

import (
	"context"

	"github.com/dmitrijs2005/auctionhouse/internal/dbx"
	"github.com/dmitrijs2005/auctionhouse/internal/server/repositories/auctions"
	"github.com/dmitrijs2005/auctionhouse/internal/server/repositories/bids"
	"github.com/dmitrijs2005/auctionhouse/internal/server/repositories/items"
	"github.com/dmitrijs2005/auctionhouse/internal/server/repositories/users"
)

// boundRepositories binds a RepositoryManager to one DBTX.
type boundRepositories struct {
	m  RepositoryManager
	db dbx.DBTX
}

func (b boundRepositories) Auctions() auctions.Repository { return b.m.Auctions(b.db) }
func (b boundRepositories) Bids() bids.Repository         { return b.m.Bids(b.db) }
func (b boundRepositories) Items() items.Repository       { return b.m.Items(b.db) }
func (b boundRepositories) Users() users.Repository       { return b.m.Users(b.db) }

// SQLStore is a Store over a dbx.Ledger.
type SQLStore struct {
	boundRepositories
	ledger dbx.Ledger
}

// NewSQLStore binds the manager's repositories to ledger.
func NewSQLStore(ledger dbx.Ledger, m RepositoryManager) *SQLStore {
	return &SQLStore{
		boundRepositories: boundRepositories{m: m, db: ledger},
		ledger:            ledger,
	}
}

// WithTx implements Store.
func (s *SQLStore) WithTx(ctx context.Context, fn UnitOfWork) error {
	return s.ledger.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, boundRepositories{m: s.m, db: tx})
	})
}

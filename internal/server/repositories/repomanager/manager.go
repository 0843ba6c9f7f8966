package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/auctionhouse/internal/dbx"
	"github.com/dmitrijs2005/auctionhouse/internal/server/repositories/auctions"
	"github.com/dmitrijs2005/auctionhouse/internal/server/repositories/bids"
	"github.com/dmitrijs2005/auctionhouse/internal/server/repositories/items"
	"github.com/dmitrijs2005/auctionhouse/internal/server/repositories/users"
)

// RepositoryManager vends SQL repositories bound to a DBTX.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Auctions(db dbx.DBTX) auctions.Repository
	Bids(db dbx.DBTX) bids.Repository
	Items(db dbx.DBTX) items.Repository
	Users(db dbx.DBTX) users.Repository
}

// Repositories is one consistent view of the ledger: either autocommit
// reads and writes, or everything inside a single transaction.
type Repositories interface {
	Auctions() auctions.Repository
	Bids() bids.Repository
	Items() items.Repository
	Users() users.Repository
}

// UnitOfWork runs with repositories bound to an open transaction.
type UnitOfWork func(ctx context.Context, repos Repositories) error

// Store is what the services depend on. WithTx commits everything fn
// wrote, or nothing if fn returns an error.
type Store interface {
	Repositories
	WithTx(ctx context.Context, fn UnitOfWork) error
}

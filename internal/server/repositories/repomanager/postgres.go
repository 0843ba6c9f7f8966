// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose),
// and the Store abstraction the services run their transactions through.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/auctionhouse/internal/dbx"
	"github.com/dmitrijs2005/auctionhouse/internal/server/migrations"
	"github.com/dmitrijs2005/auctionhouse/internal/server/repositories/auctions"
	"github.com/dmitrijs2005/auctionhouse/internal/server/repositories/bids"
	"github.com/dmitrijs2005/auctionhouse/internal/server/repositories/items"
	"github.com/dmitrijs2005/auctionhouse/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Auctions returns an auctions.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Auctions(db dbx.DBTX) auctions.Repository {
	return auctions.NewPostgresRepository(db)
}

// Bids returns a bids.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Bids(db dbx.DBTX) bids.Repository {
	return bids.NewPostgresRepository(db)
}

// Items returns an items.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Items(db dbx.DBTX) items.Repository {
	return items.NewPostgresRepository(db)
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

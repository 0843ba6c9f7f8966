// Package dbx provides tiny DB abstractions shared by repositories:
// a minimal interface (DBTX) implemented by both *sql.DB and *sql.Tx,
// a helper to run functions inside a transaction, and the row lock modes
// used by callers that serialize work on a single row.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by our repos.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxFunc is the unit of work executed inside a transaction.
type TxFunc func(ctx context.Context, tx DBTX) error

// Ledger is a store that can be read directly and can run a TxFunc
// atomically: everything fn writes through tx is committed together or
// not at all, and row locks taken through tx are held until the end of
// the transaction.
type Ledger interface {
	DBTX
	WithTx(ctx context.Context, fn TxFunc) error
}

// SQLLedger adapts *sql.DB to Ledger.
type SQLLedger struct {
	*sql.DB
	Opts *sql.TxOptions
}

// NewSQLLedger wraps db with default transaction options.
func NewSQLLedger(db *sql.DB) *SQLLedger {
	return &SQLLedger{DB: db}
}

// WithTx implements Ledger.
func (l *SQLLedger) WithTx(ctx context.Context, fn TxFunc) error {
	return WithTx(ctx, l.DB, l.Opts, fn)
}

// WithTx begins a transaction, runs fn with a transactional handle, and then
// commits on success or rolls back on error/panic. Panics are rethrown.
//
// Typical use:
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    // use tx instead of db
//	    _, err := tx.ExecContext(ctx, "UPDATE ...")
//	    return err
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn TxFunc) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}

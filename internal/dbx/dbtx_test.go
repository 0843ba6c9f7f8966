package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS t (id INTEGER PRIMARY KEY, v TEXT);`)
	require.NoError(t, err)
	return db
}

func countRows(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM t`).Scan(&n))
	return n
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO t(v) VALUES ('ok')`)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, 1, countRows(t, db), "must commit on success")
}

func TestWithTx_RollbackOnFnError(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO t(v) VALUES ('fail')`)
		require.NoError(t, e)
		return errors.New("boom")
	})
	require.Error(t, err)

	require.Equal(t, 0, countRows(t, db), "must rollback when fn returns error")
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := setupDB(t)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic to propagate")
		}
		require.Equal(t, 0, countRows(t, db), "must rollback on panic")
	}()

	_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO t(v) VALUES ('panic')`)
		require.NoError(t, e)
		panic("kaput")
	})
}

func TestWithTx_BeginError(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Close())

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return nil
	})
	require.Error(t, err, "begin should fail when DB is closed")
}

func TestSQLLedger_WithTx(t *testing.T) {
	db := setupDB(t)
	l := NewSQLLedger(db)

	var _ Ledger = l

	require.NoError(t, l.WithTx(context.Background(), func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO t(v) VALUES ('a'), ('b')`)
		return err
	}))
	require.Equal(t, 2, countRows(t, db))

	var n int
	require.NoError(t, l.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM t`).Scan(&n))
	assert.Equal(t, 2, n)
}

func TestLockMode_Clause(t *testing.T) {
	assert.Equal(t, "FOR UPDATE", LockWait.Clause())
	assert.Equal(t, "FOR UPDATE NOWAIT", LockSkip.Clause())
	assert.Equal(t, "wait", LockWait.String())
	assert.Equal(t, "skip", LockSkip.String())
	assert.Equal(t, "unknown", LockMode(42).String())
}

func TestTranslateLockError(t *testing.T) {
	locked := fmt.Errorf("db error: %w", &pgconn.PgError{Code: "55P03", Message: "could not obtain lock"})
	assert.ErrorIs(t, TranslateLockError(locked), ErrLocked)

	other := &pgconn.PgError{Code: "23505"}
	assert.Same(t, error(other), TranslateLockError(other))

	assert.NoError(t, TranslateLockError(nil))
}

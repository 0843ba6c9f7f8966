package dbx

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrLocked is returned by LockSkip reads when another transaction holds
// the row. It is contention, not a failure.
var ErrLocked = errors.New("row is locked by another transaction")

// LockMode selects how a row lock is acquired.
type LockMode int

const (
	// LockWait blocks until the row lock is granted.
	LockWait LockMode = iota
	// LockSkip gives up immediately with ErrLocked if the row is held.
	LockSkip
)

// String implements fmt.Stringer.
func (m LockMode) String() string {
	switch m {
	case LockWait:
		return "wait"
	case LockSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// Clause returns the PostgreSQL locking clause for the mode.
func (m LockMode) Clause() string {
	if m == LockSkip {
		return "FOR UPDATE NOWAIT"
	}
	return "FOR UPDATE"
}

// pgLockNotAvailable is SQLSTATE 55P03, raised by NOWAIT on a held row.
const pgLockNotAvailable = "55P03"

// TranslateLockError maps a driver-level lock_not_available error to
// ErrLocked and returns any other error unchanged.
func TranslateLockError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgLockNotAvailable {
		return ErrLocked
	}
	return err
}

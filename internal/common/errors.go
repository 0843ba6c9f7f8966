// Package common defines shared constants and sentinel errors used across
// the auction server layers. Callers should use errors.Is to match these
// values; domain errors are usually wrapped with a human readable detail,
// e.g. fmt.Errorf("%w: auction is not active", ErrorInvalidState).
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Domain errors. All of them are recoverable by the caller.
	ErrorInvalidState = errors.New("invalid state")
	ErrorForbidden    = errors.New("forbidden")
	ErrorInvalidInput = errors.New("invalid input")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorConflict     = errors.New("already exists")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// IsDomainError reports whether err belongs to the caller-facing taxonomy,
// as opposed to an infrastructure failure.
func IsDomainError(err error) bool {
	return errors.Is(err, ErrorNotFound) ||
		errors.Is(err, ErrorInvalidState) ||
		errors.Is(err, ErrorForbidden) ||
		errors.Is(err, ErrorInvalidInput) ||
		errors.Is(err, ErrorUnauthorized) ||
		errors.Is(err, ErrorConflict)
}

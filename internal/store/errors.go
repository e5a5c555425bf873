package store

import "errors"

// Typed failure kinds returned by store operations. Callers match them with
// errors.Is; anything else is a storage failure that already rolled back.
var (
	// ErrNotFound means an item or request id could not be resolved.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState means the operation is illegal for the record's
	// current status, e.g. approving a request that is not pending.
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidArgument means a quantity or argument constraint was
	// violated.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInsufficientStock means the authoritative stock check failed.
	ErrInsufficientStock = errors.New("insufficient stock")
)

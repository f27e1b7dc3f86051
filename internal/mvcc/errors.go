package mvcc

import "errors"

var (
	// ErrInactiveTransaction is returned when an operation other than
	// Commit/Abort targets a transaction that is no longer Active.
	ErrInactiveTransaction = errors.New("mvcc: transaction is not active")
)

// LookupResult reports whether Store.Lookup found a visible version.
type LookupResult int

const (
	Found LookupResult = iota
	NotFound
)

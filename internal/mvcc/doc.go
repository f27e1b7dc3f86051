// Package mvcc layers multi-version concurrency control on top of
// package index's structural skip list. It supports snapshot-style reads at
// Read-Committed isolation: a transaction always sees its own writes and
// sees every other transaction's writes only once that transaction commits.
//
// Architecture:
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                          Store                                   │
//	├─────────────────────────────────────────────────────────────────┤
//	│  index.Engine[K, *versionChain[V]]  — structural identity         │
//	│  versionChain — per-key, append-only, newest-first version list   │
//	│  Manager      — begin/commit/abort, active-transaction registry   │
//	└─────────────────────────────────────────────────────────────────┘
//
// A node's value in the underlying engine is a pointer to its version
// chain rather than a value directly; inserting a key that already exists
// structurally therefore never touches the skip list again — it just
// appends to the chain the node already points at, under the chain's own
// mutex. This is the same trick the structural engine exposes through
// GetOrCreate specifically so this package didn't need to reach into the
// index package's internals.
package mvcc

package mvcc

import (
	"cmp"

	"github.com/corvusdb/skipdb/internal/index"
)

// Entry is a single (key, value) pair as seen by a particular transaction —
// the MVCC-resolved counterpart of index.Entry.
type Entry[K cmp.Ordered, V any] struct {
	Key   K
	Value V
}

// Store wraps index.Engine's structural identity with per-key version
// chains and a transaction manager, implementing Read-Committed isolation.
// The underlying engine is instantiated with *versionChain[V] as its value
// type, so the skip list itself never changes shape after a key's first
// write — every later write just appends to the chain the node already
// points at.
type Store[K cmp.Ordered, V any] struct {
	engine *index.Engine[K, *versionChain[V]]
	txns   *Manager
}

// NewStore constructs an empty MVCC store over the given engine
// configuration.
func NewStore[K cmp.Ordered, V any](cfg index.Config[K]) *Store[K, V] {
	return &Store[K, V]{
		engine: index.NewEngine[K, *versionChain[V]](cfg),
		txns:   NewManager(),
	}
}

// Begin starts a new transaction.
func (s *Store[K, V]) Begin() *Transaction { return s.txns.Begin() }

// Commit commits txn, making every version it wrote visible to later
// readers. Returns false if txn was not Active.
func (s *Store[K, V]) Commit(txn *Transaction) bool { return s.txns.Commit(txn) }

// Abort retires txn without committing any of its writes.
func (s *Store[K, V]) Abort(txn *Transaction) { s.txns.Abort(txn) }

// Insert writes value for key on behalf of txn. If key is structurally
// absent, a node is created (via index.Engine.GetOrCreate) holding a fresh
// one-version chain; otherwise a new version is appended to the existing
// chain's head. The write is visible to txn immediately and to every other
// transaction only after txn commits.
func (s *Store[K, V]) Insert(txn *Transaction, key K, value V) error {
	if txn.State() != Active {
		return ErrInactiveTransaction
	}

	chain, created := s.engine.GetOrCreate(key, func() *versionChain[V] {
		return newChain(value, txn.id)
	})
	if !created {
		chain.prepend(value, txn.id)
	}
	txn.markDirty(chain)
	return nil
}

// Lookup resolves the version of key visible to txn, per the Read-Committed
// visibility predicate. Each call re-evaluates visibility; no snapshot is
// taken at Begin.
func (s *Store[K, V]) Lookup(txn *Transaction, key K) (V, LookupResult, error) {
	var zero V
	if txn.State() != Active {
		return zero, NotFound, ErrInactiveTransaction
	}

	chain, ok := s.engine.Lookup(key)
	if !ok {
		return zero, NotFound, nil
	}
	v, ok := chain.visible(txn.id)
	if !ok {
		return zero, NotFound, nil
	}
	return v, Found, nil
}

// Delete tombstones key's current head version on behalf of txn. Structural
// removal never occurs; a later Insert on the same key simply prepends a
// fresh visible version. Reports NotFound if key is structurally absent.
func (s *Store[K, V]) Delete(txn *Transaction, key K) (LookupResult, error) {
	if txn.State() != Active {
		return NotFound, ErrInactiveTransaction
	}

	chain, ok := s.engine.Lookup(key)
	if !ok {
		return NotFound, nil
	}
	chain.tombstone(txn.id)
	txn.markDirty(chain)
	return Found, nil
}

// Range returns every (key, value) in [low, high] visible to txn, in
// ascending key order. Structural traversal uses the same all-segments
// snapshot as index.Engine.Range; each candidate key is then individually
// resolved for visibility, so the result reflects a consistent structural
// view with Read-Committed per-key values layered on top.
func (s *Store[K, V]) Range(txn *Transaction, low, high K) ([]Entry[K, V], error) {
	if txn.State() != Active {
		return nil, ErrInactiveTransaction
	}

	raw := s.engine.Range(low, high)
	out := make([]Entry[K, V], 0, len(raw))
	for _, e := range raw {
		if v, ok := e.Value.visible(txn.id); ok {
			out = append(out, Entry[K, V]{Key: e.Key, Value: v})
		}
	}
	return out, nil
}

// Size returns the structural key count, including keys whose head version
// is tombstoned: GC drops versions but never removes a key's node.
func (s *Store[K, V]) Size() int64 { return s.engine.Size() }

// Stats reports the store's diagnostic counters.
type Stats struct {
	Size          int64
	Pool          index.PoolStats
	Txns          ManagerStats
	TotalVersions int64
}

// Stats computes the store's current diagnostic counters, including
// total_versions across every chain.
func (s *Store[K, V]) Stats() Stats {
	var totalVersions int64
	s.engine.ForEach(func(_ K, chain *versionChain[V]) {
		totalVersions += int64(chain.length())
	})
	return Stats{
		Size:          s.engine.Size(),
		Pool:          s.engine.PoolStats(),
		Txns:          s.txns.Stats(),
		TotalVersions: totalVersions,
	}
}

// DumpEntries returns, for every key, the value of its latest version
// visible to a synthetic reader transaction with id = next_txn_id — i.e.
// the latest committed value, with uncommitted or aborted writes omitted.
func (s *Store[K, V]) DumpEntries() []Entry[K, V] {
	watermark := s.txns.NextID()
	var out []Entry[K, V]
	s.engine.ForEach(func(k K, chain *versionChain[V]) {
		if v, ok := chain.visible(watermark); ok {
			out = append(out, Entry[K, V]{Key: k, Value: v})
		}
	})
	return out
}

// LoadEntries splices entries into a fresh store as a single transaction,
// so the loaded state becomes atomically visible rather than trickling in
// key by key (persistence design note: "loading into a fresh instance must
// use a single transaction").
func (s *Store[K, V]) LoadEntries(entries []Entry[K, V]) {
	txn := s.Begin()

	batch := make([]index.Entry[K, *versionChain[V]], len(entries))
	for i, e := range entries {
		batch[i] = index.Entry[K, *versionChain[V]]{Key: e.Key, Value: newChain(e.Value, txn.id)}
	}
	s.engine.LoadAll(batch)
	for _, e := range batch {
		txn.markDirty(e.Value)
	}

	s.Commit(txn)
}

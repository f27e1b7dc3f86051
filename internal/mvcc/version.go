package mvcc

import "sync"

// infinity is the largest representable transaction identifier, used as
// the default delete_ts for a version that has not (yet) been tombstoned.
const infinity = ^uint64(0)

// version is an immutable record in a key's version chain. Versions form a
// singly-linked list, newest first; createTS is non-increasing walking
// from head to tail.
//
// deleteTS stays infinity until the version is actually known to be
// shadowed by a commit — never at write time. shadows and deletedBy record
// a write's *intent* to supersede or delete this version; markCommitted
// resolves that intent into deleteTS only if and when the intending
// transaction actually commits, so an uncommitted writer can never hide a
// committed predecessor from a concurrent Read-Committed reader.
type version[V any] struct {
	value     V
	createTS  uint64
	deleteTS  uint64
	committed bool
	shadows   *version[V] // version this one supersedes via prepend, if any
	deletedBy uint64      // id of the transaction that tombstoned this version, 0 if none
	next      *version[V]
}

// versionChain is the head of a per-key, append-only version list. Every
// node in the underlying index.Engine holds a *versionChain[V] as its
// value, so structural operations (splice, lookup, remove) never need to
// know about versions at all — they just move a pointer.
type versionChain[V any] struct {
	mu   sync.Mutex
	head *version[V]
}

// newChain builds a chain with a single version created by txn createTS.
func newChain[V any](value V, createTS uint64) *versionChain[V] {
	return &versionChain[V]{
		head: &version[V]{value: value, createTS: createTS, deleteTS: infinity},
	}
}

// prepend adds value as the new chain head on behalf of transaction
// createTS, recording that it shadows the previous head. The previous
// head's delete_ts is left at infinity until createTS's transaction
// actually commits — see markCommitted — so the old value stays visible to
// Read-Committed readers for as long as createTS's write is uncommitted.
func (c *versionChain[V]) prepend(value V, createTS uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.head = &version[V]{value: value, createTS: createTS, deleteTS: infinity, shadows: c.head, next: c.head}
}

// tombstone records that transaction txnID intends to delete the current
// head version. Structural removal does not occur; a later insert on the
// same key simply prepends a fresh visible version. Like prepend, the
// head's delete_ts is only stamped once txnID commits (markCommitted), not
// here, so an in-flight delete cannot hide a committed value from another
// Read-Committed reader.
func (c *versionChain[V]) tombstone(txnID uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.head != nil {
		c.head.deletedBy = txnID
	}
}

// markCommitted marks every version created by txnID as committed and
// resolves any delete/supersede txnID had pending: the version it
// superseded via prepend (if any) and the version it tombstoned (if any)
// both get delete_ts stamped with txnID now, not before. Commit is
// monotonic: once set, a version's committed flag is never cleared.
// Implements the committer interface transaction.go's Manager depends on.
func (c *versionChain[V]) markCommitted(txnID uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for v := c.head; v != nil; v = v.next {
		if v.createTS == txnID {
			v.committed = true
			if v.shadows != nil {
				v.shadows.deleteTS = txnID
				v.shadows = nil // drop the reference so gc() can actually reclaim it
			}
		}
		if v.deletedBy == txnID {
			v.deleteTS = txnID
		}
	}
}

// visible walks the chain from head and returns the first version visible
// to transaction t, per the Read-Committed visibility predicate:
//
//	v.createTS == t && v.deleteTS > t, or
//	v.committed && v.createTS < t && v.deleteTS > t
func (c *versionChain[V]) visible(t uint64) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for v := c.head; v != nil; v = v.next {
		if v.createTS == t && v.deleteTS > t {
			return v.value, true
		}
		if v.committed && v.createTS < t && v.deleteTS > t {
			return v.value, true
		}
	}
	var zero V
	return zero, false
}

// gc retains the head version unconditionally and, from the second version
// onward, drops any version whose delete_ts < minActive — it is shadowed
// by a newer version and unobservable by any transaction that could still
// be alive.
func (c *versionChain[V]) gc(minActive uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.head == nil {
		return
	}
	prev := c.head
	for v := prev.next; v != nil; {
		next := v.next
		if v.deleteTS < minActive {
			prev.next = next
		} else {
			prev = v
		}
		v = next
	}
}

// length reports the number of versions currently in the chain, for the
// total_versions diagnostic counter.
func (c *versionChain[V]) length() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for v := c.head; v != nil; v = v.next {
		n++
	}
	return n
}

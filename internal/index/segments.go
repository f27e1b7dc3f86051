package index

import (
	"hash/fnv"
	"sync"
)

// LockMode distinguishes read from write acquisition of a segment.
type LockMode int

const (
	ReadLock LockMode = iota
	WriteLock
)

// Guard releases the lock(s) it was handed when Release is called. Scoped
// acquisition (defer guard.Release()) keeps call sites symmetric whether the
// guard covers one segment or every segment.
type Guard struct {
	release func()
}

// Release unlocks whatever this guard holds. Safe to call at most once.
func (g Guard) Release() {
	if g.release != nil {
		g.release()
	}
}

// segmentTable partitions the key space into S independently-lockable
// segments, indexed by a hash of the key: the same hash-then-modulo shape
// used to pick a partition by hashing a record key with hash/fnv and
// reducing modulo the partition count, just landing on a lock segment
// instead of a log partition.
type segmentTable[K comparable] struct {
	mus     []sync.RWMutex
	keyOf   func(K) []byte
}

// newSegmentTable constructs a table with count segments (rounded up to a
// power of two is recommended but not required) and the given key encoder,
// used to compute the hash segment_of depends on.
func newSegmentTable[K comparable](count int, keyOf func(K) []byte) *segmentTable[K] {
	if count < 1 {
		count = 1
	}
	return &segmentTable[K]{
		mus:   make([]sync.RWMutex, count),
		keyOf: keyOf,
	}
}

// segmentOf deterministically maps a key to a segment index. It depends
// only on the key, never on the call site, so two threads operating on the
// same key always contend for the same segment (invariant of C3).
func (t *segmentTable[K]) segmentOf(key K) int {
	h := fnv.New64a()
	h.Write(t.keyOf(key))
	return int(h.Sum64() % uint64(len(t.mus)))
}

// acquire locks a single segment in the requested mode.
func (t *segmentTable[K]) acquire(i int, mode LockMode) Guard {
	mu := &t.mus[i]
	if mode == WriteLock {
		mu.Lock()
		return Guard{release: mu.Unlock}
	}
	mu.RLock()
	return Guard{release: mu.RUnlock}
}

// acquireAllWrite locks every segment's write lock in ascending index order
// and releases them in reverse on Release. Used by operations that must see
// a globally consistent state: snapshot dump and bulk load.
func (t *segmentTable[K]) acquireAllWrite() Guard {
	for i := range t.mus {
		t.mus[i].Lock()
	}
	return Guard{release: func() {
		for i := len(t.mus) - 1; i >= 0; i-- {
			t.mus[i].Unlock()
		}
	}}
}

// count returns the number of segments.
func (t *segmentTable[K]) count() int { return len(t.mus) }

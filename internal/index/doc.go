// Package index implements a concurrent ordered key-value index backed by a
// probabilistic skip list.
//
// Architecture:
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                          Engine                                  │
//	├─────────────────────────────────────────────────────────────────┤
//	│  Write path:  caller → segment lock → level mutex → tower splice │
//	│  Read path:   caller → segment lock → level snapshot → walk      │
//	└─────────────────────────────────────────────────────────────────┘
//
// Key components:
//   - TowerGenerator: picks a random tower height per inserted node
//   - Pool: recycles node allocations across inserts/deletes
//   - segmentTable: partitions the key space by hash for lock granularity
//   - Engine: the ordered multi-level linked structure itself
//
// Engine is generic over any ordered, hashable key type and an opaque value
// type, so the same structural code backs both the plain index and, one
// layer up, the MVCC store in package mvcc (which instantiates Engine with
// a version-chain pointer as the value type).
package index

package index

import (
	"math/rand/v2"
	"sync"
)

// RandSource is the minimal randomness interface the tower generator needs.
// Accepting this instead of a concrete type lets tests substitute a
// deterministic fake to force specific tower heights.
type RandSource interface {
	Uint64() uint64
}

// defaultRandSource wraps math/rand/v2's package-level ChaCha8-backed
// generator so production code gets a real entropy source without the
// caller having to construct one.
type defaultRandSource struct{}

func (defaultRandSource) Uint64() uint64 { return rand.Uint64() }

// TowerGenerator produces tower heights for new skip-list nodes. Each call
// draws level = 1 + geometric(p=1/2), capped at maxLevel, independently of
// every other call. Access is serialized by an internal mutex so a single
// generator can be shared by every segment without the caller needing to
// reason about RandSource's own concurrency safety.
type TowerGenerator struct {
	mu       sync.Mutex
	src      RandSource
	maxLevel int
}

// NewTowerGenerator constructs a generator capped at maxLevel. A nil src
// falls back to a real entropy source; tests pass a deterministic fake.
func NewTowerGenerator(maxLevel int, src RandSource) *TowerGenerator {
	if maxLevel < 1 {
		maxLevel = 1
	}
	if src == nil {
		src = defaultRandSource{}
	}
	return &TowerGenerator{src: src, maxLevel: maxLevel}
}

// Level draws a new tower height in [1, maxLevel]. Each bit of entropy
// independently decides whether the tower grows one level taller,
// reproducing the p=1/2 geometric distribution without floating point.
func (g *TowerGenerator) Level() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	level := 1
	for level < g.maxLevel && g.src.Uint64()&1 == 1 {
		level++
	}
	return level
}

// MaxLevel returns the configured cap.
func (g *TowerGenerator) MaxLevel() int {
	return g.maxLevel
}

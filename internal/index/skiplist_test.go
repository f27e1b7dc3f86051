package index

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine[V any](src RandSource) *Engine[int, V] {
	return NewEngine[int, V](Config[int]{
		MaxLevel: 8,
		Segments: 4,
		KeyOf: func(k int) []byte {
			return []byte{byte(k), byte(k >> 8), byte(k >> 16), byte(k >> 24)}
		},
		Rand: src,
	})
}

func newStringEngine[V any]() *Engine[string, V] {
	return NewEngine[string, V](Config[string]{
		MaxLevel: 16,
		Segments: 8,
		KeyOf:    func(k string) []byte { return []byte(k) },
	})
}

// TestEngine_BasicOrder checks that inserted keys come back out in
// ascending order regardless of insertion order.
func TestEngine_BasicOrder(t *testing.T) {
	e := newStringEngine[string]()

	keys := []string{"3", "1", "5", "2", "4"}
	values := []string{"c", "a", "e", "b", "d"}
	for i, k := range keys {
		require.Equal(t, Inserted, e.Insert(k, values[i]))
	}

	want := map[string]string{"1": "a", "2": "b", "3": "c", "4": "d", "5": "e"}
	for k, v := range want {
		got, ok := e.Lookup(k)
		require.True(t, ok)
		assert.Equal(t, v, got)
	}

	entries := e.Range("1", "5")
	require.Len(t, entries, 5)
	for i, k := range []string{"1", "2", "3", "4", "5"} {
		assert.Equal(t, k, entries[i].Key)
		assert.Equal(t, want[k], entries[i].Value)
	}

	assert.EqualValues(t, 5, e.Size())
}

// TestEngine_DeleteLevelDecay implements scenario 2: deleting the last node
// resets currentLevel to 0.
func TestEngine_DeleteLevelDecay(t *testing.T) {
	src := &bitSource{bits: []uint64{1, 1, 1, 1, 0}} // forces tower height 5
	e := newTestEngine[string](src)

	require.Equal(t, Inserted, e.Insert(10, "x"))
	require.Equal(t, 4, e.currentLevel)

	require.Equal(t, Removed, e.Remove(10))
	assert.Equal(t, 0, e.currentLevel)
	assert.EqualValues(t, 0, e.Size())
}

func TestEngine_InsertExistingIsNoOp(t *testing.T) {
	e := newStringEngine[string]()

	require.Equal(t, Inserted, e.Insert("k", "v1"))
	require.Equal(t, Existed, e.Insert("k", "v2"))

	got, ok := e.Lookup("k")
	require.True(t, ok)
	assert.Equal(t, "v1", got, "plain Insert is insert-if-absent; existing key is left untouched")
}

func TestEngine_RemoveMissingIsAbsent(t *testing.T) {
	e := newStringEngine[string]()
	assert.Equal(t, Absent, e.Remove("nope"))
}

func TestEngine_InsertThenDeleteThenLookupAbsent(t *testing.T) {
	e := newStringEngine[string]()
	e.Insert("k", "v")
	e.Remove("k")

	_, ok := e.Lookup("k")
	assert.False(t, ok)
}

func TestEngine_RangeLowGreaterThanHighIsEmpty(t *testing.T) {
	e := newStringEngine[string]()
	e.Insert("a", "1")
	e.Insert("b", "2")

	got := e.Range("b", "a")
	assert.Empty(t, got)
}

func TestEngine_RangeLowEqualsHigh(t *testing.T) {
	e := newStringEngine[string]()
	e.Insert("a", "1")
	e.Insert("b", "2")

	assert.Len(t, e.Range("a", "a"), 1)
	assert.Len(t, e.Range("z", "z"), 0)
}

func TestEngine_GetOrCreate(t *testing.T) {
	e := newStringEngine[int]()

	v, created := e.GetOrCreate("k", func() int { return 1 })
	assert.True(t, created)
	assert.Equal(t, 1, v)

	v, created = e.GetOrCreate("k", func() int { return 2 })
	assert.False(t, created)
	assert.Equal(t, 1, v)
}

// TestEngine_ConcurrentInsertStress implements scenario 6: four workers each
// insert 1,000 disjoint keys; afterward size and per-key lookups must hold.
func TestEngine_ConcurrentInsertStress(t *testing.T) {
	e := newStringEngine[int]()

	const workers = 4
	const perWorker = 1000

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				k := base*perWorker + i
				e.Insert(keyFor(k), k)
			}
		}(w)
	}
	wg.Wait()

	assert.EqualValues(t, workers*perWorker, e.Size())

	for w := 0; w < workers; w++ {
		for i := 0; i < perWorker; i++ {
			k := w*perWorker + i
			v, ok := e.Lookup(keyFor(k))
			require.True(t, ok)
			assert.Equal(t, k, v)
		}
	}

	assertInvariants(t, e)
}

func keyFor(i int) string {
	b := make([]byte, 0, 8)
	b = append(b, byte(i>>24), byte(i>>16), byte(i>>8), byte(i))
	return string(b)
}

// assertInvariants checks the level-ordering and tower-contiguity invariants
// by walking the structure directly: every level's keys are strictly
// ascending, and a node present at level i is also present at every level
// below it.
func assertInvariants[V any](t *testing.T, e *Engine[string, V]) {
	t.Helper()

	e.levelMu.Lock()
	top := e.currentLevel
	e.levelMu.Unlock()

	maxHeight := 0
	n := 0
	for cur := e.header.forward[0]; cur != nil; cur = cur.forward[0] {
		n++
		if cur.level() > maxHeight {
			maxHeight = cur.level()
		}
	}
	assert.EqualValues(t, n, e.Size())
	if n > 0 {
		assert.Equal(t, maxHeight-1, top)
	} else {
		assert.Equal(t, 0, top)
	}

	for i := 0; i <= top; i++ {
		var prevKey string
		first := true
		for cur := e.header.forward[i]; cur != nil; cur = cur.forward[i] {
			if !first {
				assert.True(t, prevKey < cur.key, "level %d not strictly increasing", i)
			}
			first = false
			prevKey = cur.key
			assert.GreaterOrEqual(t, cur.level(), i+1, "tower contiguity violated at level %d", i)
		}
	}
}

func TestEngine_RangeIsSortedSubset(t *testing.T) {
	e := newStringEngine[int]()
	keys := []string{"m", "a", "z", "c", "q", "b"}
	for i, k := range keys {
		e.Insert(k, i)
	}

	sorted := append([]string{}, keys...)
	sort.Strings(sorted)

	got := e.Range("b", "q")
	var want []string
	for _, k := range sorted {
		if k >= "b" && k <= "q" {
			want = append(want, k)
		}
	}
	require.Len(t, got, len(want))
	for i, k := range want {
		assert.Equal(t, k, got[i].Key)
	}
}

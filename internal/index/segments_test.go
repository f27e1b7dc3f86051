package index

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stringKeyOf(s string) []byte { return []byte(s) }

func TestSegmentTable_SameKeySameSegment(t *testing.T) {
	st := newSegmentTable[string](16, stringKeyOf)

	a := st.segmentOf("widget-42")
	b := st.segmentOf("widget-42")
	assert.Equal(t, a, b)
}

func TestSegmentTable_InRange(t *testing.T) {
	st := newSegmentTable[string](8, stringKeyOf)
	for _, k := range []string{"a", "b", "c", "zzz", ""} {
		seg := st.segmentOf(k)
		assert.GreaterOrEqual(t, seg, 0)
		assert.Less(t, seg, 8)
	}
}

func TestSegmentTable_AcquireAllWriteOrdering(t *testing.T) {
	st := newSegmentTable[string](4, stringKeyOf)

	var order []int
	var mu sync.Mutex
	record := func(i int) {
		mu.Lock()
		order = append(order, i)
		mu.Unlock()
	}

	// Hold every segment's write lock from the main goroutine; a concurrent
	// acquireAllWrite call must block until it is released.
	g := st.acquireAllWrite()

	done := make(chan struct{})
	go func() {
		seg := st.acquireAllWrite() // must wait for g to release first
		record(99)
		seg.Release()
		close(done)
	}()

	record(1)
	g.Release()
	<-done

	assert.Equal(t, []int{1, 99}, order)
}

func TestSegmentTable_ReadersConcurrent(t *testing.T) {
	st := newSegmentTable[string](4, stringKeyOf)
	seg := st.segmentOf("k")

	g1 := st.acquire(seg, ReadLock)
	g2 := st.acquire(seg, ReadLock)
	g1.Release()
	g2.Release()
}

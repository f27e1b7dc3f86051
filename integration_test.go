package skipdb_test

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/corvusdb/skipdb/internal/httpapi"
	"github.com/corvusdb/skipdb/internal/index"
	"github.com/corvusdb/skipdb/internal/mvcc"
	"github.com/corvusdb/skipdb/internal/snapshot"
)

// Integration tests exercise multiple packages together end to end.

func TestE2E_EngineConcurrentWritersThenSnapshotRoundTrip(t *testing.T) {
	e := index.NewEngine[string, string](index.Config[string]{
		KeyOf: func(k string) []byte { return []byte(k) },
	})

	const workers = 8
	const perWorker = 200

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				key := keyFor(id, i)
				e.Insert(key, key)
			}
		}(w)
	}
	wg.Wait()

	if got := e.Size(); got != int64(workers*perWorker) {
		t.Fatalf("expected size %d, got %d", workers*perWorker, got)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "snap.txt")
	if err := snapshot.DumpEngine(path, e); err != nil {
		t.Fatalf("dump failed: %v", err)
	}

	restored := index.NewEngine[string, string](index.Config[string]{
		KeyOf: func(k string) []byte { return []byte(k) },
	})
	if err := snapshot.LoadEngine(path, restored); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got := restored.Size(); got != e.Size() {
		t.Fatalf("expected restored size %d, got %d", e.Size(), got)
	}
}

func TestE2E_MVCCReadCommittedAcrossSnapshotAndHTTP(t *testing.T) {
	store := mvcc.NewStore[string, string](index.Config[string]{
		KeyOf: func(k string) []byte { return []byte(k) },
	})

	t1 := store.Begin()
	if err := store.Insert(t1, "account-1", "100"); err != nil {
		t.Fatal(err)
	}
	if !store.Commit(t1) {
		t.Fatal("expected commit to succeed")
	}

	t2 := store.Begin()
	if err := store.Insert(t2, "account-1", "200"); err != nil {
		t.Fatal(err)
	}

	reader := store.Begin()
	v, res, err := store.Lookup(reader, "account-1")
	if err != nil {
		t.Fatal(err)
	}
	if res != mvcc.Found || v != "100" {
		t.Fatalf("expected to see pre-update value 100, got %q (%v)", v, res)
	}

	if !store.Commit(t2) {
		t.Fatal("expected commit to succeed")
	}

	store.GC()

	dir := t.TempDir()
	path := filepath.Join(dir, "snap.txt")
	if err := snapshot.DumpStore(path, store); err != nil {
		t.Fatalf("dump failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != "account-1:200\n" {
		t.Fatalf("expected dumped snapshot %q, got %q", "account-1:200\n", got)
	}

	srv, err := httpapi.NewServer(httpapi.DefaultConfig(), index.Config[string]{
		KeyOf: func(k string) []byte { return []byte(k) },
	})
	if err != nil {
		t.Fatal(err)
	}
	httptestSrv := httptest.NewServer(srv.Handler())
	defer httptestSrv.Close()

	if err := snapshot.LoadStore(path, srv.Store()); err != nil {
		t.Fatalf("load into server store failed: %v", err)
	}

	resp, err := httptestSrv.Client().Get(httptestSrv.URL + "/v1/keys/account-1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func keyFor(worker, i int) string {
	return "w" + strconv.Itoa(worker) + "-" + strconv.Itoa(i)
}

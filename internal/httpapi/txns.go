package httpapi

import (
	"sync"

	"github.com/corvusdb/skipdb/internal/mvcc"
)

// txnRegistry maps the numeric ids handed out over HTTP back to the live
// *mvcc.Transaction they represent, for the explicit POST /v1/txn surface.
// mvcc.Transaction already carries its own id; this is purely a lookup
// table so a commit/abort request naming that id can find the object.
type txnRegistry struct {
	mu   sync.Mutex
	live map[uint64]*mvcc.Transaction
}

func newTxnRegistry() *txnRegistry {
	return &txnRegistry{live: make(map[uint64]*mvcc.Transaction)}
}

func (r *txnRegistry) put(txn *mvcc.Transaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.live[txn.ID()] = txn
}

func (r *txnRegistry) get(id uint64) (*mvcc.Transaction, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	txn, ok := r.live[id]
	return txn, ok
}

func (r *txnRegistry) remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.live, id)
}

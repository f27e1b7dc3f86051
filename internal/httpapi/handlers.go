package httpapi

import (
	"io"
	"net/http"
	"strconv"

	"github.com/corvusdb/skipdb/internal/mvcc"
	"github.com/corvusdb/skipdb/internal/snapshot"
)

// resolveTxn returns the transaction a request should operate under. If
// the caller supplied ?txn=<id> it must name a transaction this server
// began and not yet retired; otherwise a fresh auto-commit transaction is
// started and the handler is responsible for committing it.
func (s *Server) resolveTxn(r *http.Request) (txn *mvcc.Transaction, autoCommit bool, err error) {
	q := r.URL.Query().Get("txn")
	if q == "" {
		return s.store.Begin(), true, nil
	}
	id, parseErr := strconv.ParseUint(q, 10, 64)
	if parseErr != nil {
		return nil, false, parseErr
	}
	txn, ok := s.txns.get(id)
	if !ok {
		return nil, false, errUnknownTxn
	}
	return txn, false, nil
}

var errUnknownTxn = &unknownTxnError{}

type unknownTxnError struct{}

func (*unknownTxnError) Error() string { return "unknown or retired transaction" }

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	key := param(r, "key")
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	txn, autoCommit, err := s.resolveTxn(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_txn", err.Error())
		return
	}

	if err := s.store.Insert(txn, key, string(body)); err != nil {
		writeError(w, http.StatusConflict, "insert_failed", err.Error())
		return
	}
	if autoCommit {
		s.store.Commit(txn)
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": "inserted"})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	key := param(r, "key")

	txn, autoCommit, err := s.resolveTxn(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_txn", err.Error())
		return
	}

	value, res, err := s.store.Lookup(txn, key)
	if autoCommit {
		s.store.Commit(txn)
	}
	if err != nil {
		writeError(w, http.StatusConflict, "lookup_failed", err.Error())
		return
	}
	if res == mvcc.NotFound {
		writeError(w, http.StatusNotFound, "not_found", "key not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": value})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	key := param(r, "key")

	txn, autoCommit, err := s.resolveTxn(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_txn", err.Error())
		return
	}

	res, err := s.store.Delete(txn, key)
	if autoCommit {
		s.store.Commit(txn)
	}
	if err != nil {
		writeError(w, http.StatusConflict, "delete_failed", err.Error())
		return
	}
	if res == mvcc.NotFound {
		writeError(w, http.StatusNotFound, "not_found", "key not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": "deleted"})
}

func (s *Server) handleRange(w http.ResponseWriter, r *http.Request) {
	low := r.URL.Query().Get("low")
	high := r.URL.Query().Get("high")

	txn, autoCommit, err := s.resolveTxn(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_txn", err.Error())
		return
	}

	entries, err := s.store.Range(txn, low, high)
	if autoCommit {
		s.store.Commit(txn)
	}
	if err != nil {
		writeError(w, http.StatusConflict, "range_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleBeginTxn(w http.ResponseWriter, r *http.Request) {
	txn := s.store.Begin()
	s.txns.put(txn)
	writeJSON(w, http.StatusOK, map[string]uint64{"id": txn.ID()})
}

func (s *Server) handleCommitTxn(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(param(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_txn", err.Error())
		return
	}
	txn, ok := s.txns.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown_txn", "unknown or retired transaction")
		return
	}
	ok = s.store.Commit(txn)
	s.txns.remove(id)
	writeJSON(w, http.StatusOK, map[string]bool{"committed": ok})
}

func (s *Server) handleAbortTxn(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(param(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_txn", err.Error())
		return
	}
	txn, ok := s.txns.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown_txn", "unknown or retired transaction")
		return
	}
	s.store.Abort(txn)
	s.txns.remove(id)
	writeJSON(w, http.StatusOK, map[string]string{"result": "aborted"})
}

func (s *Server) handleDumpSnapshot(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, "missing_path", "path query parameter is required")
		return
	}
	if err := snapshot.DumpStore(path, s.store); err != nil {
		writeError(w, http.StatusInternalServerError, "dump_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": "dumped", "path": path})
}

func (s *Server) handleLoadSnapshot(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, "missing_path", "path query parameter is required")
		return
	}
	if err := snapshot.LoadStore(path, s.store); err != nil {
		writeError(w, http.StatusInternalServerError, "load_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": "loaded", "path": path})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Stats())
}

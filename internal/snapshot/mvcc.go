package snapshot

import "github.com/corvusdb/skipdb/internal/mvcc"

// DumpStore renders s's committed state to path, using the watermark
// visibility resolution Store.DumpEntries already performs — uncommitted
// and aborted writes never reach the file.
func DumpStore(path string, s *mvcc.Store[string, string]) error {
	raw := s.DumpEntries()
	entries := make([]Entry, len(raw))
	for i, e := range raw {
		entries[i] = Entry{Key: e.Key, Value: e.Value}
	}
	return Write(path, entries)
}

// LoadStore reads path and loads every entry into s as a single
// transaction, so the restored state becomes atomically visible.
func LoadStore(path string, s *mvcc.Store[string, string]) error {
	entries, err := Read(path)
	if err != nil {
		return err
	}
	batch := make([]mvcc.Entry[string, string], len(entries))
	for i, e := range entries {
		batch[i] = mvcc.Entry[string, string]{Key: e.Key, Value: e.Value}
	}
	s.LoadEntries(batch)
	return nil
}

package snapshot

import "github.com/corvusdb/skipdb/internal/index"

// DumpEngine renders every entry of e to path. e's level-0 traversal is
// already ascending key order, so no sort is needed here.
func DumpEngine(path string, e *index.Engine[string, string]) error {
	var entries []Entry
	e.ForEach(func(key, value string) {
		entries = append(entries, Entry{Key: key, Value: value})
	})
	return Write(path, entries)
}

// LoadEngine reads path and splices every entry into e as a single batch.
func LoadEngine(path string, e *index.Engine[string, string]) error {
	entries, err := Read(path)
	if err != nil {
		return err
	}
	batch := make([]index.Entry[string, string], len(entries))
	for i, ent := range entries {
		batch[i] = index.Entry[string, string]{Key: ent.Key, Value: ent.Value}
	}
	e.LoadAll(batch)
	return nil
}

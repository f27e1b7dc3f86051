package snapshot

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Entry is a single line's worth of snapshot content: a key and the value
// it resolves to at dump time (for MVCC sources, already visibility-resolved
// by the caller).
type Entry struct {
	Key   string
	Value string
}

// Write renders entries to path as KEY:VALUE lines, in the order given. The
// caller is responsible for sorting entries and for resolving MVCC
// visibility before calling Write — this package only knows about text.
func Write(path string, entries []Entry) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: create %s: %w", path, err)
	}
	defer file.Close()

	w := bufio.NewWriterSize(file, 64*1024)
	for _, e := range entries {
		if strings.Contains(e.Key, ":") {
			return fmt.Errorf("snapshot: key %q contains the delimiter", e.Key)
		}
		if _, err := fmt.Fprintf(w, "%s:%s\n", e.Key, e.Value); err != nil {
			return fmt.Errorf("snapshot: write %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("snapshot: flush %s: %w", path, err)
	}
	return file.Sync()
}

// Read parses path's KEY:VALUE lines. Empty lines and lines without a ':'
// are silently skipped, per the snapshot format's malformed-line handling.
func Read(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open %s: %w", path, err)
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			continue
		}
		entries = append(entries, Entry{Key: line[:idx], Value: line[idx+1:]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("snapshot: read %s: %w", path, err)
	}
	return entries, nil
}

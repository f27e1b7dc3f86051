// Package snapshot renders an ordered key-value store to and from the
// line-oriented KEY:VALUE text format used for dump and load. It is kept
// separate from internal/index and internal/mvcc because the format is
// string-specific (KEY must not contain the delimiter), while the engine
// and store packages stay generic over any ordered key type.
package snapshot

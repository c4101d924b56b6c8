// Package store provides durable backends for the contact directory.
//
// Every backend satisfies contact.Store: Load returns the whole directory,
// Save overwrites it. Backends:
//
//   - SQLiteStore: a SQLite database with one row per contact
//   - FileStore: a single canonical JSON blob, replaced atomically
//   - MemoryStore: an in-process store for tests and scenarios
//
// # Snapshots
//
// Each Save stamps a new revision from a RevisionGenerator (UUIDv7 by
// default). The revision is stored alongside the records and returned by
// Load, so callers can tell which write produced the data they see.
//
// # Empty and damaged stores
//
// A missing store, or one that exists but holds nothing (a zero-byte file,
// a database with no committed snapshot), loads as an empty snapshot with a
// nil error. Content that cannot be decoded is reported as ErrCorrupt.
//
// # SQLite configuration
//
//   - WAL mode
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
//   - one connection; the directory is single-writer
package store

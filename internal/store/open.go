package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/roach88/contacts/internal/contact"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// ValidBackends lists the accepted backend names.
var ValidBackends = []string{BackendSQLite, BackendFile, BackendMemory}

// Open returns the named backend rooted at path. The memory backend
// ignores path.
func Open(backend, path string, opts ...Option) (Backend, error) {
	switch strings.ToLower(backend) {
	case BackendSQLite:
		if path == "" {
			return nil, fmt.Errorf("sqlite backend requires a path")
		}
		s, err := OpenSQLite(path, opts...)
		if errors.Is(err, ErrCorrupt) {
			return &damagedSQLite{path: path, opts: opts, cause: err}, nil
		}
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendFile:
		if path == "" {
			return nil, fmt.Errorf("file backend requires a path")
		}
		return NewFileStore(path, opts...), nil
	case BackendMemory:
		return NewMemoryStore(nil, opts...), nil
	default:
		return nil, fmt.Errorf("unknown backend %q: must be one of %v", backend, ValidBackends)
	}
}

// damagedSQLite stands in for a database file that SQLite refuses to read.
// Load reports the damage so the directory can degrade to empty; the first
// Save replaces the file with a fresh database and the store behaves
// normally from then on.
type damagedSQLite struct {
	path  string
	opts  []Option
	cause error
	db    *SQLiteStore
}

func (s *damagedSQLite) Load(ctx context.Context) (contact.Snapshot, error) {
	if s.db != nil {
		return s.db.Load(ctx)
	}
	if err := ctx.Err(); err != nil {
		return contact.Snapshot{}, err
	}
	return contact.Snapshot{}, s.cause
}

func (s *damagedSQLite) Save(ctx context.Context, records []contact.Record) (string, error) {
	if s.db == nil {
		if err := s.recreate(); err != nil {
			return "", err
		}
	}
	return s.db.Save(ctx, records)
}

// recreate removes the damaged file and its WAL sidecars, then opens a new
// database in their place.
func (s *damagedSQLite) recreate() error {
	for _, p := range []string{s.path, s.path + "-wal", s.path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove damaged database: %w", err)
		}
	}
	db, err := OpenSQLite(s.path, s.opts...)
	if err != nil {
		return fmt.Errorf("recreate database: %w", err)
	}
	s.db = db
	return nil
}

func (s *damagedSQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

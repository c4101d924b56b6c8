package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roach88/contacts/internal/codec"
	"github.com/roach88/contacts/internal/contact"
)

// FileStore keeps the directory as one canonical JSON blob on disk.
type FileStore struct {
	path string
	revs RevisionGenerator
}

// NewFileStore returns a store backed by the file at path. The file is not
// touched until the first Load or Save.
func NewFileStore(path string, opts ...Option) *FileStore {
	o := buildOptions(opts)
	return &FileStore{path: path, revs: o.revs}
}

// Load reads the blob. A missing or blank file is an empty snapshot.
func (s *FileStore) Load(ctx context.Context) (contact.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return contact.Snapshot{}, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return contact.Snapshot{Records: []contact.Record{}}, nil
	}
	if err != nil {
		return contact.Snapshot{}, fmt.Errorf("read %s: %w", s.path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return contact.Snapshot{Records: []contact.Record{}}, nil
	}

	snap, err := codec.UnmarshalSnapshot(data)
	if err != nil {
		return contact.Snapshot{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	return snap, nil
}

// Save writes the blob to a temp file and renames it over the old one.
func (s *FileStore) Save(ctx context.Context, records []contact.Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rev := s.revs.Generate()
	data, err := codec.MarshalSnapshot(contact.Snapshot{Revision: rev, Records: records})
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return "", fmt.Errorf("create store directory: %w", err)
		}
	}

	tempPath := s.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(tempPath)
		return "", fmt.Errorf("write temp file: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return "", fmt.Errorf("sync temp file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("rename temp file: %w", err)
	}

	return rev, nil
}

// Close is a no-op; FileStore holds no open handles.
func (s *FileStore) Close() error {
	return nil
}

package store

import (
	"context"
	"slices"

	"github.com/roach88/contacts/internal/contact"
)

// MemoryStore keeps the last saved snapshot in memory and counts writes.
type MemoryStore struct {
	snap  contact.Snapshot
	saves int
	revs  RevisionGenerator

	// FailSave, when set, is returned by Save instead of writing.
	FailSave error
	// FailLoad, when set, is returned by Load.
	FailLoad error
}

// NewMemoryStore returns an empty store, optionally seeded with records.
// Seeding does not count as a save.
func NewMemoryStore(seed []contact.Record, opts ...Option) *MemoryStore {
	o := buildOptions(opts)
	return &MemoryStore{
		snap: contact.Snapshot{Records: slices.Clone(seed)},
		revs: o.revs,
	}
}

// Load returns a copy of the stored snapshot.
func (s *MemoryStore) Load(ctx context.Context) (contact.Snapshot, error) {
	if s.FailLoad != nil {
		return contact.Snapshot{}, s.FailLoad
	}
	records := slices.Clone(s.snap.Records)
	if records == nil {
		records = []contact.Record{}
	}
	return contact.Snapshot{Revision: s.snap.Revision, Records: records}, nil
}

// Save replaces the stored snapshot.
func (s *MemoryStore) Save(ctx context.Context, records []contact.Record) (string, error) {
	if s.FailSave != nil {
		return "", s.FailSave
	}
	rev := s.revs.Generate()
	s.snap = contact.Snapshot{Revision: rev, Records: slices.Clone(records)}
	s.saves++
	return rev, nil
}

// Saves returns how many times Save succeeded.
func (s *MemoryStore) Saves() int {
	return s.saves
}

// Snapshot returns a copy of the stored snapshot.
func (s *MemoryStore) Snapshot() contact.Snapshot {
	return contact.Snapshot{Revision: s.snap.Revision, Records: slices.Clone(s.snap.Records)}
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

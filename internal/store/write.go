package store

import (
	"context"
	"fmt"

	"github.com/roach88/contacts/internal/contact"
)

// Save replaces every stored contact with records, in order, and records a
// new snapshot revision. The whole write is one transaction: a failure
// leaves the previous snapshot intact.
func (s *SQLiteStore) Save(ctx context.Context, records []contact.Record) (string, error) {
	rev := s.revs.Generate()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("save: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, `DELETE FROM contacts`); err != nil {
		return "", fmt.Errorf("save: clear contacts: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO contacts (position, name, name_key, phone, email)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("save: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, i, r.Name, r.Key(), r.Phone, r.Email); err != nil {
			return "", fmt.Errorf("save: insert %q: %w", r.Name, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshot (id, revision, record_count)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			revision = excluded.revision,
			record_count = excluded.record_count
	`, rev, len(records))
	if err != nil {
		return "", fmt.Errorf("save: write snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("save: commit: %w", err)
	}

	return rev, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/contacts/internal/contact"
)

// Load returns the committed snapshot. A database that was never saved to
// yields an empty snapshot. A contact count that disagrees with the
// snapshot row is reported as ErrCorrupt.
func (s *SQLiteStore) Load(ctx context.Context) (contact.Snapshot, error) {
	var (
		rev   string
		count int
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT revision, record_count FROM snapshot WHERE id = 1
	`).Scan(&rev, &count)
	if errors.Is(err, sql.ErrNoRows) {
		return contact.Snapshot{Records: []contact.Record{}}, nil
	}
	if err != nil {
		return contact.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}

	records, err := s.readContacts(ctx)
	if err != nil {
		return contact.Snapshot{}, err
	}

	if len(records) != count {
		return contact.Snapshot{}, fmt.Errorf("%w: snapshot %s expects %d contacts, found %d",
			ErrCorrupt, rev, count, len(records))
	}

	return contact.Snapshot{Revision: rev, Records: records}, nil
}

// readContacts returns every stored contact in directory order.
func (s *SQLiteStore) readContacts(ctx context.Context) ([]contact.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, phone, email
		FROM contacts
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	defer rows.Close()

	records := []contact.Record{}
	for rows.Next() {
		var r contact.Record
		if err := rows.Scan(&r.Name, &r.Phone, &r.Email); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}

	return records, nil
}

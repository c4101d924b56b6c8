package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/roach88/contacts/internal/contact"
)

// SnapshotFormat tags every envelope written by MarshalSnapshot.
const SnapshotFormat = "contacts"

// SnapshotVersion is the envelope layout version.
const SnapshotVersion = 1

// envelope fields are declared in key order; encoding/json emits struct
// fields in declaration order.
type envelope struct {
	Format   string        `json:"format"`
	Records  []recordEntry `json:"records"`
	Revision string        `json:"revision,omitempty"`
	Version  int           `json:"version"`
}

type recordEntry struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// MarshalSnapshot encodes a snapshot as canonical JSON. Field values are
// written byte for byte; a value that is not valid UTF-8 cannot be
// represented in JSON and is an error.
func MarshalSnapshot(snap contact.Snapshot) ([]byte, error) {
	env := envelope{
		Format:   SnapshotFormat,
		Records:  make([]recordEntry, len(snap.Records)),
		Revision: snap.Revision,
		Version:  SnapshotVersion,
	}
	for i, r := range snap.Records {
		for _, v := range [...]string{r.Name, r.Phone, r.Email} {
			if !utf8.ValidString(v) {
				return nil, fmt.Errorf("marshal snapshot: record %d (%q) is not valid UTF-8", i, r.Name)
			}
		}
		env.Records[i] = recordEntry{Email: r.Email, Name: r.Name, Phone: r.Phone}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(env); err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	// Encoder adds a trailing newline
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalSnapshot decodes an envelope written by MarshalSnapshot.
// Unknown fields, a foreign format tag or a newer version are errors.
func UnmarshalSnapshot(data []byte) (contact.Snapshot, error) {
	var env envelope
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&env); err != nil {
		return contact.Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if dec.More() {
		return contact.Snapshot{}, fmt.Errorf("unmarshal snapshot: trailing data after envelope")
	}
	if env.Format != SnapshotFormat {
		return contact.Snapshot{}, fmt.Errorf("unmarshal snapshot: unexpected format %q", env.Format)
	}
	if env.Version < 1 || env.Version > SnapshotVersion {
		return contact.Snapshot{}, fmt.Errorf("unmarshal snapshot: unsupported version %d", env.Version)
	}

	snap := contact.Snapshot{
		Revision: env.Revision,
		Records:  make([]contact.Record, len(env.Records)),
	}
	for i, r := range env.Records {
		snap.Records[i] = contact.Record{Name: r.Name, Phone: r.Phone, Email: r.Email}
	}
	return snap, nil
}

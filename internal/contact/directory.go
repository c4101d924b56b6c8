package contact

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"
)

// Snapshot is the full persisted state of a directory.
type Snapshot struct {
	// Revision identifies the save that produced this snapshot.
	// Empty when the store has never been written.
	Revision string

	// Records in stored order.
	Records []Record
}

// Store is the durable home of a directory. The directory treats it as an
// opaque blob store: Load returns everything, Save overwrites everything.
type Store interface {
	// Load returns the last saved snapshot. A store that was never written,
	// or was left empty, yields an empty snapshot and a nil error.
	Load(ctx context.Context) (Snapshot, error)

	// Save replaces the stored contents with records and returns the
	// revision assigned to the new snapshot.
	Save(ctx context.Context, records []Record) (string, error)
}

// DuplicatePolicy decides what Add does with a name that already exists.
type DuplicatePolicy int

const (
	// RejectDuplicates makes Add fail with a DuplicateError.
	RejectDuplicates DuplicatePolicy = iota
	// OverwriteDuplicates makes Add replace the existing record.
	OverwriteDuplicates
)

// ParseDuplicatePolicy maps "reject" and "overwrite" to a policy.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject":
		return RejectDuplicates, true
	case "overwrite":
		return OverwriteDuplicates, true
	}
	return RejectDuplicates, false
}

func (p DuplicatePolicy) String() string {
	if p == OverwriteDuplicates {
		return "overwrite"
	}
	return "reject"
}

// Option configures a Directory.
type Option func(*Directory)

// WithReporter sets the receiver of operation events.
func WithReporter(r Reporter) Option {
	return func(d *Directory) {
		if r != nil {
			d.reporter = r
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Directory) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithDuplicatePolicy sets how Add handles existing names.
func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(d *Directory) {
		d.policy = p
	}
}

// WithStrictLoad makes Open fail when the store cannot be read instead of
// starting with an empty directory.
func WithStrictLoad(strict bool) Option {
	return func(d *Directory) {
		d.strict = strict
	}
}

// Directory is the sorted contact collection.
//
// A Directory is not safe for concurrent use; it assumes exclusive
// ownership of its store for the life of the process.
type Directory struct {
	store    Store
	records  []Record
	revision string

	reporter    Reporter
	logger      *slog.Logger
	policy      DuplicatePolicy
	strict      bool
	loadWarning error
}

// Open builds a Directory and hydrates it from st.
//
// A store that fails to load degrades to an empty directory. The failure is
// logged and kept in LoadWarning; with WithStrictLoad(true) it is returned
// instead.
func Open(ctx context.Context, st Store, opts ...Option) (*Directory, error) {
	d := &Directory{
		store:    st,
		reporter: Discard,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}

	snap, err := st.Load(ctx)
	if err != nil {
		perr := &PersistenceError{Op: "load", Err: err}
		if d.strict {
			return nil, perr
		}
		d.logger.Warn("store unreadable, starting with empty directory", "error", err)
		d.loadWarning = perr
		return d, nil
	}

	d.revision = snap.Revision
	d.hydrate(snap.Records)
	d.logger.Debug("directory loaded", "records", len(d.records), "revision", d.revision)
	return d, nil
}

// hydrate re-establishes the ordering invariant over loaded records. A store
// written by this package is already sorted; anything else is repaired, and
// later duplicates are dropped.
func (d *Directory) hydrate(records []Record) {
	d.records = make([]Record, 0, len(records))
	for _, r := range records {
		key := r.Key()
		if key == "" {
			d.logger.Warn("dropping stored record with empty name")
			continue
		}
		pos := d.insertPosition(key)
		if pos < len(d.records) && d.records[pos].Key() == key {
			d.logger.Warn("dropping duplicate stored record", "name", r.Name)
			continue
		}
		d.records = slices.Insert(d.records, pos, r)
	}
}

// LoadWarning returns the load failure Open recovered from, if any.
func (d *Directory) LoadWarning() error {
	return d.loadWarning
}

// Revision returns the revision of the snapshot the directory last loaded
// or saved.
func (d *Directory) Revision() string {
	return d.revision
}

// Len returns the number of records.
func (d *Directory) Len() int {
	return len(d.records)
}

// Records returns a copy of all records in order.
func (d *Directory) Records() []Record {
	return slices.Clone(d.records)
}

// Add inserts a record in name order and persists the directory.
//
// Name is trimmed and must not be empty. Phone and email are stored as
// given. A name that already exists is handled by the duplicate policy.
func (d *Directory) Add(ctx context.Context, name, phone, email string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if err := checkText("name", name, "phone", phone, "email", email); err != nil {
		return err
	}
	rec := Record{Name: name, Phone: phone, Email: email}
	key := rec.Key()

	pos := d.insertPosition(key)
	if pos < len(d.records) && d.records[pos].Key() == key {
		existing := d.records[pos]
		if d.policy != OverwriteDuplicates {
			d.emit(duplicateEvent(name, existing))
			return &DuplicateError{Name: name, Existing: existing.Name}
		}

		prev := d.records[pos]
		d.records[pos] = rec
		if err := d.persist(ctx); err != nil {
			d.records[pos] = prev
			return err
		}
		d.emit(replacedEvent(rec))
		return nil
	}

	d.records = slices.Insert(d.records, pos, rec)
	if err := d.persist(ctx); err != nil {
		d.records = slices.Delete(d.records, pos, pos+1)
		return err
	}
	d.emit(addedEvent(rec))
	return nil
}

// Search returns the record whose name matches case-insensitively.
func (d *Directory) Search(name string) (Record, error) {
	i := d.indexOf(name)
	if i < 0 {
		d.emit(notFoundEvent(name))
		return Record{}, &NotFoundError{Name: name}
	}
	rec := d.records[i]
	d.emit(foundEvent(name, rec))
	return rec, nil
}

// Update overwrites the non-empty fields among phone and email on the
// matching record and persists. A missing name changes nothing and writes
// nothing.
func (d *Directory) Update(ctx context.Context, name, phone, email string) (Record, error) {
	i := d.indexOf(name)
	if i < 0 {
		d.emit(notFoundEvent(name))
		return Record{}, &NotFoundError{Name: name}
	}
	if err := checkText("phone", phone, "email", email); err != nil {
		return Record{}, err
	}

	prev := d.records[i]
	rec := prev
	if phone != "" {
		rec.Phone = phone
	}
	if email != "" {
		rec.Email = email
	}
	d.records[i] = rec

	if err := d.persist(ctx); err != nil {
		d.records[i] = prev
		return Record{}, err
	}
	d.emit(updatedEvent(name, rec))
	return rec, nil
}

// Delete removes the matching record and persists. A missing name changes
// nothing and writes nothing.
func (d *Directory) Delete(ctx context.Context, name string) error {
	i := d.indexOf(name)
	if i < 0 {
		d.emit(notFoundEvent(name))
		return &NotFoundError{Name: name}
	}

	removed := d.records[i]
	d.records = slices.Delete(d.records, i, i+1)
	if err := d.persist(ctx); err != nil {
		d.records = slices.Insert(d.records, i, removed)
		return err
	}
	d.emit(deletedEvent(name, removed))
	return nil
}

// List returns the records in stored order. The sequence is lazy and may be
// ranged over any number of times; each pass reflects the directory at the
// time the pass starts. An empty directory reports EventEmpty and yields
// nothing.
func (d *Directory) List() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		records := d.records
		if len(records) == 0 {
			d.emit(emptyEvent())
			return
		}
		for _, r := range records {
			if !yield(r) {
				return
			}
		}
	}
}

// insertPosition returns the index of the first record whose key is greater
// than or equal to key, or len(records).
func (d *Directory) insertPosition(key string) int {
	for i, r := range d.records {
		if r.Key() >= key {
			return i
		}
	}
	return len(d.records)
}

// indexOf returns the index of the record matching name, or -1.
func (d *Directory) indexOf(name string) int {
	key := Key(name)
	if key == "" {
		return -1
	}
	for i, r := range d.records {
		if r.Key() == key {
			return i
		}
	}
	return -1
}

func (d *Directory) persist(ctx context.Context) error {
	rev, err := d.store.Save(ctx, slices.Clone(d.records))
	if err != nil {
		d.logger.Error("save failed", "error", err)
		return &PersistenceError{Op: "save", Err: err}
	}
	d.revision = rev
	d.logger.Debug("directory saved", "records", len(d.records), "revision", rev)
	return nil
}

func (d *Directory) emit(e Event) {
	d.reporter.Report(e)
}

// checkText takes field/value pairs and rejects the first value that is
// not valid UTF-8; stores keep values byte for byte and cannot encode it.
func checkText(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if !utf8.ValidString(pairs[i+1]) {
			return &ValidationError{Field: pairs[i], Message: "must be valid UTF-8"}
		}
	}
	return nil
}

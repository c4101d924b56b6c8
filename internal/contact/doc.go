// Package contact implements the contact directory: an ordered collection of
// name/phone/email records keyed by case-insensitive name.
//
// # Ordering
//
// Records are always sorted ascending by Key, the Unicode case fold of the
// NFC-normalized name. No two records share a Key. The backing structure is
// a slice addressed by index; insertion scans from the lowest end for the
// first record whose key is greater than or equal to the new key.
//
// # Durability
//
// A Directory is hydrated once from a Store by Open and is write-through
// afterwards: every successful Add, Update or Delete saves the whole ordered
// collection before returning. If the save fails the in-memory change is
// rolled back, so memory always matches the last persisted snapshot.
//
// # Events
//
// The directory never prints. Human-readable confirmations ("Contact 'Bob'
// added.", "Contact not found.") are delivered to a Reporter, which the
// command layer wires to its output.
package contact

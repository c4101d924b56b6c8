// Package harness runs contact directory scenarios.
//
// A scenario seeds a directory, applies a list of operations, and checks
// the outcome. It doubles as executable documentation of directory
// behavior: sort order, case-insensitive matching, duplicate handling and
// write-through persistence.
//
// # Scenario Format
//
//	name: update_keeps_email
//	description: "Update with only a phone leaves the email alone"
//	duplicates: reject        # optional: reject | overwrite
//	seed:
//	  - { name: Alice, phone: "2", email: a@x }
//	steps:
//	  - op: update
//	    name: alice
//	    phone: "9"
//	    expect: ok            # ok | not_found | validation | duplicate
//	assertions:
//	  - type: record
//	    name: ALICE
//	    phone: "9"
//	    email: a@x
//	  - type: saves
//	    count: 1
//
// # Assertion Types
//
//   - order: final names, in order
//   - count: final number of records
//   - record: a record exists with the given fields
//   - absent: no record matches the name
//   - saves: number of store writes made by the steps (seeding excluded)
//   - trace_contains: a step reported an event of the given kind
//
// # Deterministic Testing
//
// Each run uses a fresh in-memory SQLite store and a revision sequence
// derived from the scenario name, so traces are byte-identical across runs
// and can be compared against golden files.
package harness

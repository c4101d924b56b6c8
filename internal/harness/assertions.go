package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/contacts/internal/contact"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string           // Assertion type for categorization
	Expected string           // Human-readable expected outcome
	Actual   string           // Human-readable actual outcome
	Final    []contact.Record // Final directory for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFinal directory:\n")
	if len(e.Final) == 0 {
		fmt.Fprintf(&buf, "  (empty)\n")
	}
	for i, r := range e.Final {
		fmt.Fprintf(&buf, "  [%d] %s\n", i+1, r)
	}

	return buf.String()
}

func finalNames(final []contact.Record) []string {
	out := make([]string, len(final))
	for i, r := range final {
		out[i] = r.Name
	}
	return out
}

// assertOrder checks the exact final sequence of names.
func assertOrder(result *Result, a Assertion) error {
	got := finalNames(result.Final)
	if slices.Equal(got, a.Names) {
		return nil
	}
	return &AssertionError{
		Type:     AssertOrder,
		Expected: fmt.Sprintf("%v", a.Names),
		Actual:   fmt.Sprintf("%v", got),
		Final:    result.Final,
	}
}

// assertCount checks the final number of records.
func assertCount(result *Result, a Assertion) error {
	if len(result.Final) == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertCount,
		Expected: fmt.Sprintf("%d records", a.Count),
		Actual:   fmt.Sprintf("%d records", len(result.Final)),
		Final:    result.Final,
	}
}

// assertRecord checks that a record matching the name exists and that its
// phone and email equal the asserted values. Name matching is
// case-insensitive, as in the directory.
func assertRecord(result *Result, a Assertion) error {
	key := contact.Key(a.Name)
	for _, r := range result.Final {
		if r.Key() != key {
			continue
		}
		if r.Phone == a.Phone && r.Email == a.Email {
			return nil
		}
		return &AssertionError{
			Type:     AssertRecord,
			Expected: fmt.Sprintf("%s | %s | %s", a.Name, a.Phone, a.Email),
			Actual:   r.String(),
			Final:    result.Final,
		}
	}
	return &AssertionError{
		Type:     AssertRecord,
		Expected: fmt.Sprintf("record %q", a.Name),
		Actual:   "not found",
		Final:    result.Final,
	}
}

// assertAbsent checks that no record matches the name.
func assertAbsent(result *Result, a Assertion) error {
	key := contact.Key(a.Name)
	for _, r := range result.Final {
		if r.Key() == key {
			return &AssertionError{
				Type:     AssertAbsent,
				Expected: fmt.Sprintf("no record %q", a.Name),
				Actual:   r.String(),
				Final:    result.Final,
			}
		}
	}
	return nil
}

// assertSaves checks how many store writes the steps made.
func assertSaves(result *Result, a Assertion) error {
	if result.Saves == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertSaves,
		Expected: fmt.Sprintf("%d saves", a.Count),
		Actual:   fmt.Sprintf("%d saves", result.Saves),
		Final:    result.Final,
	}
}

// assertTraceContains checks that some step reported the event kind, for
// the given name when one is asserted.
func assertTraceContains(result *Result, a Assertion) error {
	for _, ev := range result.Trace {
		if a.Name != "" && contact.Key(ev.Name) != contact.Key(a.Name) {
			continue
		}
		if slices.Contains(ev.Events, a.Event) {
			return nil
		}
	}
	subject := ""
	if a.Name != "" {
		subject = fmt.Sprintf(" for %q", a.Name)
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("event %s%s", a.Event, subject),
		Actual:   "not found in trace",
		Final:    result.Final,
	}
}

// EvaluateAssertions runs every assertion and returns the failure
// messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertOrder:
			err = assertOrder(result, a)
		case AssertCount:
			err = assertCount(result, a)
		case AssertRecord:
			err = assertRecord(result, a)
		case AssertAbsent:
			err = assertAbsent(result, a)
		case AssertSaves:
			err = assertSaves(result, a)
		case AssertTraceContains:
			err = assertTraceContains(result, a)
		default:
			err = fmt.Errorf("assertion %d: unknown type %q", i, a.Type)
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/contacts/internal/contact"
	"github.com/roach88/contacts/internal/store"
	"github.com/roach88/contacts/internal/testutil"
)

// countingStore counts successful saves made through it.
type countingStore struct {
	contact.Store
	saves int
}

func (c *countingStore) Save(ctx context.Context, records []contact.Record) (string, error) {
	rev, err := c.Store.Save(ctx, records)
	if err == nil {
		c.saves++
	}
	return rev, err
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory SQLite database for isolation.
// An error is returned only when the scenario cannot be set up; step and
// assertion failures are reported in the Result.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	st, err := store.OpenSQLite(":memory:",
		store.WithRevisionGenerator(testutil.NewRevisionSequence(scenario.Name)))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	if len(scenario.Seed) > 0 {
		if _, err := st.Save(ctx, scenario.Seed); err != nil {
			return nil, fmt.Errorf("failed to seed store: %w", err)
		}
	}

	policy, ok := contact.ParseDuplicatePolicy(scenario.Duplicates)
	if !ok {
		return nil, fmt.Errorf("invalid duplicates policy %q", scenario.Duplicates)
	}

	counter := &countingStore{Store: st}
	recorder := testutil.NewRecorder()
	dir, err := contact.Open(ctx, counter,
		contact.WithReporter(recorder),
		contact.WithDuplicatePolicy(policy),
		contact.WithStrictLoad(true),
		contact.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), // Suppress logs in scenarios
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory: %w", err)
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		recorder.Reset()
		event := executeStep(ctx, dir, step)
		event.Step = i + 1
		for _, e := range recorder.Events() {
			event.Events = append(event.Events, string(e.Kind))
			event.Messages = append(event.Messages, e.Message)
		}
		event.Revision = dir.Revision()
		result.Trace = append(result.Trace, event)

		want := step.Expect
		if want == "" {
			want = OutcomeOK
		}
		if event.Outcome != want {
			result.AddError(fmt.Sprintf("step %d (%s %q): expected %s, got %s",
				i+1, step.Op, step.Name, want, event.Outcome))
		}
	}

	result.Final = dir.Records()
	result.Saves = counter.saves

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// executeStep applies one step and classifies its outcome.
func executeStep(ctx context.Context, dir *contact.Directory, step Step) TraceEvent {
	event := TraceEvent{Op: step.Op, Name: step.Name}

	var err error
	switch step.Op {
	case OpAdd:
		err = dir.Add(ctx, step.Name, step.Phone, step.Email)
	case OpSearch:
		_, err = dir.Search(step.Name)
	case OpUpdate:
		_, err = dir.Update(ctx, step.Name, step.Phone, step.Email)
	case OpDelete:
		err = dir.Delete(ctx, step.Name)
	case OpList:
		for r := range dir.List() {
			event.Listed = append(event.Listed, r.Name)
		}
	default:
		err = fmt.Errorf("unknown op %q", step.Op)
	}

	event.Outcome = classify(err)
	return event
}

// classify maps a directory error to a step outcome.
func classify(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case contact.IsNotFound(err):
		return OutcomeNotFound
	case contact.IsValidation(err):
		return OutcomeValidation
	case contact.IsDuplicate(err):
		return OutcomeDuplicate
	default:
		return OutcomeError
	}
}

package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/contacts/internal/contact"
)

func TestRun_AllTestdataScenariosPass(t *testing.T) {
	files, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)

	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			s, err := LoadScenario(f)
			require.NoError(t, err)

			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Len(t, result.Trace, len(s.Steps))
		})
	}
}

func TestRun_TraceRecordsEvents(t *testing.T) {
	s := &Scenario{
		Name:        "trace",
		Description: "d",
		Steps: []Step{
			{Op: OpAdd, Name: "Bob", Phone: "1"},
			{Op: OpSearch, Name: "bob"},
			{Op: OpDelete, Name: "nobody", Expect: OutcomeNotFound},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)

	require.Len(t, result.Trace, 3)
	assert.Equal(t, []string{"added"}, result.Trace[0].Events)
	assert.Equal(t, "trace-0001", result.Trace[0].Revision)
	assert.Equal(t, []string{"Found: Bob | 1 | "}, result.Trace[1].Messages)
	assert.Equal(t, OutcomeNotFound, result.Trace[2].Outcome)
	assert.Equal(t, 1, result.Saves)
	assert.Equal(t, []contact.Record{{Name: "Bob", Phone: "1"}}, result.Final)
}

func TestRun_UnexpectedOutcomeFails(t *testing.T) {
	s := &Scenario{
		Name:        "unexpected",
		Description: "d",
		Steps: []Step{
			{Op: OpSearch, Name: "Alice"}, // expects ok, gets not_found
		},
	}

	result, err := Run(s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected ok, got not_found")
}

func TestRun_AssertionFailureReported(t *testing.T) {
	s := &Scenario{
		Name:        "bad_order",
		Description: "d",
		Steps: []Step{
			{Op: OpAdd, Name: "Bob"},
			{Op: OpAdd, Name: "Alice"},
		},
		Assertions: []Assertion{{Type: AssertOrder, Names: []string{"Bob", "Alice"}}},
	}

	result, err := Run(s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Assertion failed: order")
}

func TestRun_SeedWithDuplicateKeysFails(t *testing.T) {
	s := &Scenario{
		Name:        "bad_seed",
		Description: "d",
		Seed:        []contact.Record{{Name: "Alice"}, {Name: "alice"}},
		Steps:       []Step{{Op: OpList}},
	}

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to seed store")
}

func TestRun_Deterministic(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/duplicates.yaml")
	require.NoError(t, err)

	r1, err := Run(s)
	require.NoError(t, err)
	r2, err := Run(s)
	require.NoError(t, err)

	j1, err := TraceJSON(s.Name, r1)
	require.NoError(t, err)
	j2, err := TraceJSON(s.Name, r2)
	require.NoError(t, err)
	assert.Equal(t, string(j1), string(j2))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, OutcomeOK, classify(nil))
	assert.Equal(t, OutcomeNotFound, classify(&contact.NotFoundError{Name: "x"}))
	assert.Equal(t, OutcomeValidation, classify(&contact.ValidationError{Field: "name"}))
	assert.Equal(t, OutcomeDuplicate, classify(&contact.DuplicateError{Name: "x"}))
	assert.Equal(t, OutcomeError, classify(&contact.PersistenceError{Op: "save"}))
}

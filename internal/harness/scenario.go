package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/contacts/internal/contact"
)

// Scenario defines a directory scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Duplicates is the duplicate policy: "reject" (default) or "overwrite".
	Duplicates string `yaml:"duplicates,omitempty"`

	// Seed is written to the store before the directory is opened.
	Seed []contact.Record `yaml:"seed,omitempty"`

	// Steps are applied in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final directory and the trace.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one directory operation.
type Step struct {
	// Op is add, search, update, delete or list.
	Op string `yaml:"op"`

	Name  string `yaml:"name,omitempty"`
	Phone string `yaml:"phone,omitempty"`
	Email string `yaml:"email,omitempty"`

	// Expect is the expected outcome; empty means "ok".
	Expect string `yaml:"expect,omitempty"`
}

// Assertion validates the final state or trace.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Names is the expected final order (order).
	Names []string `yaml:"names,omitempty"`

	// Count is the expected record count (count) or write count (saves).
	Count int `yaml:"count,omitempty"`

	// Name, Phone and Email identify a record (record, absent) or an
	// event subject (trace_contains).
	Name  string `yaml:"name,omitempty"`
	Phone string `yaml:"phone,omitempty"`
	Email string `yaml:"email,omitempty"`

	// Event is the event kind (trace_contains).
	Event string `yaml:"event,omitempty"`
}

// Step operations.
const (
	OpAdd    = "add"
	OpSearch = "search"
	OpUpdate = "update"
	OpDelete = "delete"
	OpList   = "list"
)

// Step outcomes.
const (
	OutcomeOK         = "ok"
	OutcomeNotFound   = "not_found"
	OutcomeValidation = "validation"
	OutcomeDuplicate  = "duplicate"
	OutcomeError      = "error"
)

// Assertion type constants.
const (
	AssertOrder         = "order"
	AssertCount         = "count"
	AssertRecord        = "record"
	AssertAbsent        = "absent"
	AssertSaves         = "saves"
	AssertTraceContains = "trace_contains"
)

var validOps = map[string]bool{OpAdd: true, OpSearch: true, OpUpdate: true, OpDelete: true, OpList: true}

var validOutcomes = map[string]bool{
	"": true, OutcomeOK: true, OutcomeNotFound: true, OutcomeValidation: true, OutcomeDuplicate: true,
}

var validAssertions = map[string]bool{
	AssertOrder: true, AssertCount: true, AssertRecord: true,
	AssertAbsent: true, AssertSaves: true, AssertTraceContains: true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if _, ok := contact.ParseDuplicatePolicy(s.Duplicates); !ok {
		return fmt.Errorf("duplicates must be reject or overwrite, got %q", s.Duplicates)
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if !validOps[step.Op] {
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
		if !validOutcomes[step.Expect] {
			return fmt.Errorf("steps[%d]: unknown expect %q", i, step.Expect)
		}
	}

	for i, a := range s.Assertions {
		if !validAssertions[a.Type] {
			return fmt.Errorf("assertions[%d]: unknown type %q", i, a.Type)
		}
		if (a.Type == AssertRecord || a.Type == AssertAbsent) && a.Name == "" {
			return fmt.Errorf("assertions[%d]: %s requires name", i, a.Type)
		}
		if a.Type == AssertTraceContains && a.Event == "" {
			return fmt.Errorf("assertions[%d]: trace_contains requires event", i)
		}
	}

	return nil
}

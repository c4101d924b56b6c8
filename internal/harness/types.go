package harness

import (
	"github.com/roach88/contacts/internal/contact"
)

// TraceEvent is one step of a scenario run.
type TraceEvent struct {
	Step     int      `json:"step"`
	Op       string   `json:"op"`
	Name     string   `json:"name,omitempty"`
	Outcome  string   `json:"outcome"`
	Events   []string `json:"events,omitempty"`   // event kinds reported during the step
	Messages []string `json:"messages,omitempty"` // event messages, same order
	Listed   []string `json:"listed,omitempty"`   // names yielded by a list step
	Revision string   `json:"revision,omitempty"` // directory revision after the step
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every step matched its expectation and every
	// assertion held.
	Pass bool `json:"pass"`

	// Trace has one entry per step.
	Trace []TraceEvent `json:"trace"`

	// Errors holds expectation and assertion failures.
	Errors []string `json:"errors,omitempty"`

	// Final is the directory after the last step.
	Final []contact.Record `json:"final"`

	// Saves counts store writes made by the steps.
	Saves int `json:"saves"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
		Final:  []contact.Record{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

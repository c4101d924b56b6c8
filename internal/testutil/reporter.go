package testutil

import (
	"sync"

	"github.com/roach88/contacts/internal/contact"
)

// Recorder is a contact.Reporter that keeps every event it receives.
type Recorder struct {
	mu     sync.Mutex
	events []contact.Event
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Report implements contact.Reporter.
func (r *Recorder) Report(e contact.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []contact.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]contact.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Kinds returns the kind of each recorded event, in order.
func (r *Recorder) Kinds() []contact.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]contact.EventKind, len(r.events))
	for i, e := range r.events {
		kinds[i] = e.Kind
	}
	return kinds
}

// Messages returns the message of each recorded event, in order.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := make([]string, len(r.events))
	for i, e := range r.events {
		msgs[i] = e.Message
	}
	return msgs
}

// Last returns the most recent event and whether there was one.
func (r *Recorder) Last() (contact.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return contact.Event{}, false
	}
	return r.events[len(r.events)-1], true
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

package contact

import "fmt"

// EventKind identifies what a directory operation reported.
type EventKind string

const (
	EventAdded     EventKind = "added"
	EventReplaced  EventKind = "replaced"
	EventFound     EventKind = "found"
	EventNotFound  EventKind = "not_found"
	EventUpdated   EventKind = "updated"
	EventDeleted   EventKind = "deleted"
	EventEmpty     EventKind = "empty"
	EventDuplicate EventKind = "duplicate"
)

// Event is a human-readable outcome of a directory operation.
type Event struct {
	Kind    EventKind
	Name    string  // name as given by the caller
	Record  *Record // copy of the affected record, if any
	Message string
}

// Reporter receives directory events.
type Reporter interface {
	Report(Event)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Event)

// Report calls f(e).
func (f ReporterFunc) Report(e Event) {
	f(e)
}

// Discard is a Reporter that drops every event.
var Discard Reporter = ReporterFunc(func(Event) {})

func addedEvent(r Record) Event {
	return Event{Kind: EventAdded, Name: r.Name, Record: &r, Message: fmt.Sprintf("Contact '%s' added.", r.Name)}
}

func replacedEvent(r Record) Event {
	return Event{Kind: EventReplaced, Name: r.Name, Record: &r, Message: fmt.Sprintf("Contact '%s' replaced.", r.Name)}
}

func foundEvent(name string, r Record) Event {
	return Event{Kind: EventFound, Name: name, Record: &r, Message: "Found: " + r.String()}
}

func notFoundEvent(name string) Event {
	return Event{Kind: EventNotFound, Name: name, Message: "Contact not found."}
}

func updatedEvent(name string, r Record) Event {
	return Event{Kind: EventUpdated, Name: name, Record: &r, Message: fmt.Sprintf("Contact '%s' updated.", name)}
}

func deletedEvent(name string, r Record) Event {
	return Event{Kind: EventDeleted, Name: name, Record: &r, Message: fmt.Sprintf("Contact '%s' deleted.", name)}
}

func duplicateEvent(name string, existing Record) Event {
	return Event{Kind: EventDuplicate, Name: name, Record: &existing, Message: fmt.Sprintf("Contact '%s' already exists.", existing.Name)}
}

func emptyEvent() Event {
	return Event{Kind: EventEmpty, Message: "No contacts available."}
}

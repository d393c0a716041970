package reconcile

import (
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// EventKind identifies a progress event.
type EventKind string

const (
	EventLoadStarted    EventKind = "load_started"
	EventLoadProgress   EventKind = "load_progress"
	EventLoadCompleted  EventKind = "load_completed"
	EventDiffStarted    EventKind = "diff_started"
	EventDiffChecked    EventKind = "diff_checked"
	EventDiffFound      EventKind = "diff_found"
	EventDiffCompleted  EventKind = "diff_completed"
	EventWriteSkipped   EventKind = "write_skipped"
	EventWriteCompleted EventKind = "write_completed"
	EventRunCompleted   EventKind = "run_completed"
)

// Side names which collection of the run an event or error concerns.
type Side string

const (
	SideSource Side = "source"
	SideTarget Side = "target"
)

// Event is one progress notification.
//
// Count depends on Kind: documents read so far for load events, source
// records examined for EventDiffChecked, missing records found for
// EventDiffFound and EventDiffCompleted, records inserted for
// EventWriteCompleted. It is zero otherwise.
type Event struct {
	Seq        int64     `json:"seq"`
	Kind       EventKind `json:"kind"`
	Side       Side      `json:"side,omitempty"`
	Collection string    `json:"collection,omitempty"`
	Count      int       `json:"count"`
	RunID      string    `json:"run_id,omitempty"`
}

// printer groups digits ("12,000") in human-readable messages.
var printer = message.NewPrinter(language.English)

// String renders the event as a human-readable progress line.
func (e Event) String() string {
	switch e.Kind {
	case EventLoadStarted:
		return printer.Sprintf("Loading %s collection '%s' into memory...", e.Side, e.Collection)
	case EventLoadProgress:
		return printer.Sprintf("Loaded %d documents from %s collection into memory...", e.Count, e.Side)
	case EventLoadCompleted:
		return printer.Sprintf("%s collection '%s' loaded with %d documents.", capitalize(string(e.Side)), e.Collection, e.Count)
	case EventDiffStarted:
		return "Checking for new documents to insert..."
	case EventDiffChecked:
		return printer.Sprintf("Checked %d documents for duplicates...", e.Count)
	case EventDiffFound:
		return printer.Sprintf("Found %d new documents to insert...", e.Count)
	case EventDiffCompleted:
		return printer.Sprintf("Total new documents to insert: %d", e.Count)
	case EventWriteSkipped:
		return "No new documents to insert."
	case EventWriteCompleted:
		return printer.Sprintf("Inserted %d new documents into %s collection.", e.Count, SideTarget)
	case EventRunCompleted:
		return "Merge complete!"
	default:
		return string(e.Kind)
	}
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// Reporter receives progress events.
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

// sequencer serializes calls to the wrapped Reporter and stamps each event
// with the run id and the next clock value.
type sequencer struct {
	mu    sync.Mutex
	next  Reporter
	clock *Clock
	runID string
}

func newSequencer(next Reporter, runID string) *sequencer {
	if next == nil {
		next = Discard
	}
	return &sequencer{next: next, clock: NewClock(), runID: runID}
}

func (s *sequencer) Report(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.Seq = s.clock.Next()
	e.RunID = s.runID
	s.next.Report(e)
}

// emit reports e to r, treating a nil Reporter as Discard.
func emit(r Reporter, e Event) {
	if r != nil {
		r.Report(e)
	}
}

// Package testutil holds deterministic helpers shared by tests and the
// scenario harness.
package testutil

import (
	"sync"

	"github.com/roach88/docmerge/internal/reconcile"
)

// CapturingReporter records every event it receives.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type CapturingReporter struct {
	mu     sync.Mutex
	events []reconcile.Event
}

// NewCapturingReporter creates an empty reporter.
func NewCapturingReporter() *CapturingReporter {
	return &CapturingReporter{}
}

// Report implements reconcile.Reporter.
func (r *CapturingReporter) Report(e reconcile.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the events received so far.
func (r *CapturingReporter) Events() []reconcile.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]reconcile.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Kinds returns the kind of each event, in order.
func (r *CapturingReporter) Kinds() []reconcile.EventKind {
	events := r.Events()
	out := make([]reconcile.EventKind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

// OfKind returns the events of one kind, in order.
func (r *CapturingReporter) OfKind(kind reconcile.EventKind) []reconcile.Event {
	var out []reconcile.Event
	for _, e := range r.Events() {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Messages returns the human-readable line of each event.
func (r *CapturingReporter) Messages() []string {
	events := r.Events()
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.String()
	}
	return out
}

// Reset drops all captured events.
func (r *CapturingReporter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

package harness

import (
	"github.com/roach88/docmerge/internal/reconcile"
	"github.com/roach88/docmerge/internal/record"
)

// TraceEvent is one progress event of a scenario execution.
type TraceEvent struct {
	Seq        int64  `json:"seq"`
	Kind       string `json:"kind"`
	Side       string `json:"side,omitempty"`
	Collection string `json:"collection,omitempty"`
	Count      int    `json:"count"`
	RunID      string `json:"run_id"`
	Message    string `json:"message"`
}

// RunResult is the outcome of one reconciliation run.
type RunResult struct {
	Summary reconcile.Summary `json:"summary"`

	// Error is the reconcile error code when the run failed.
	Error string `json:"error,omitempty"`

	// Appended holds the documents the target gained during the run, in
	// store order.
	Appended []record.Record `json:"appended"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expectation held.
	Pass bool `json:"pass"`

	// Trace contains every progress event of every run, in order.
	Trace []TraceEvent `json:"trace"`

	Runs []RunResult `json:"runs"`

	// TargetCount is the number of documents in the target at the end.
	TargetCount int `json:"target_count"`

	// Errors contains expectation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Runs:   []RunResult{},
		Errors: []string{},
	}
}

// AddError adds an expectation failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a progress event to the trace.
func (r *Result) AddTrace(e reconcile.Event) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:        e.Seq,
		Kind:       string(e.Kind),
		Side:       string(e.Side),
		Collection: e.Collection,
		Count:      e.Count,
		RunID:      e.RunID,
		Message:    e.String(),
	})
}

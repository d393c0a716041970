package harness

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/docmerge/internal/reconcile"
	"github.com/roach88/docmerge/internal/record"
	"github.com/roach88/docmerge/internal/store"
	"github.com/roach88/docmerge/internal/testutil"
)

// Collection names used for every scenario.
const (
	SourceCollection = "source"
	TargetCollection = "target"
)

// Harness executes one scenario against its own store.
type Harness struct {
	store    *store.Store
	reporter *testutil.CapturingReporter
	runIDs   *testutil.RunIDSequence
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation, and run
// ids come from a deterministic sequence.
//
// Execution flow:
// 1. Create fresh in-memory database
// 2. Seed source and target, typed records first, then raw documents
// 3. Reconcile Runs times, stopping at the first failed run
// 4. Check expectations and return the result
//
// The returned error is reserved for harness failures; a reconciliation
// error is part of the result.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close(context.Background())

	h := &Harness{
		store:    st,
		reporter: testutil.NewCapturingReporter(),
		runIDs:   testutil.NewRunIDSequence("run"),
	}

	ctx := context.Background()

	if err := h.seed(ctx, scenario); err != nil {
		return nil, fmt.Errorf("failed to seed collections: %w", err)
	}

	result := NewResult()
	for i := 0; i < scenario.runs(); i++ {
		run, err := h.reconcile(ctx, scenario)
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i+1, err)
		}
		result.Runs = append(result.Runs, run)
		if run.Error != "" {
			break
		}
	}

	for _, e := range h.reporter.Events() {
		result.AddTrace(e)
	}

	result.TargetCount, err = st.Count(ctx, TargetCollection)
	if err != nil {
		return nil, fmt.Errorf("failed to count target: %w", err)
	}

	for _, msg := range EvaluateExpect(result, scenario.Expect) {
		result.AddError(msg)
	}

	return result, nil
}

func (h *Harness) seed(ctx context.Context, s *Scenario) error {
	if err := testutil.Seed(ctx, h.store.Collection(SourceCollection), s.Source...); err != nil {
		return err
	}
	if err := testutil.Seed(ctx, h.store.Collection(TargetCollection), s.Target...); err != nil {
		return err
	}
	if len(s.RawSource) > 0 {
		if err := h.store.InsertRaw(ctx, SourceCollection, s.RawSource...); err != nil {
			return err
		}
	}
	if len(s.RawTarget) > 0 {
		if err := h.store.InsertRaw(ctx, TargetCollection, s.RawTarget...); err != nil {
			return err
		}
	}
	return nil
}

// reconcile performs one run and records what the target gained.
func (h *Harness) reconcile(ctx context.Context, s *Scenario) (RunResult, error) {
	before, err := h.store.Count(ctx, TargetCollection)
	if err != nil {
		return RunResult{}, err
	}

	r := reconcile.New(
		h.store.Collection(SourceCollection),
		h.store.Collection(TargetCollection),
		reconcile.Options{
			LoadEvery:  s.Progress.LoadEvery,
			CheckEvery: s.Progress.CheckEvery,
			FoundEvery: s.Progress.FoundEvery,
			Reporter:   h.reporter,
			RunIDs:     h.runIDs,
		},
	)

	run := RunResult{}
	run.Summary, err = r.Run(ctx)
	if err != nil {
		var re *reconcile.Error
		if !errors.As(err, &re) {
			return RunResult{}, err
		}
		run.Error = string(re.Code)
	}

	run.Appended, err = h.appended(ctx, before)
	if err != nil {
		return RunResult{}, err
	}
	return run, nil
}

// appended decodes the target documents stored after the first skip.
func (h *Harness) appended(ctx context.Context, skip int) ([]record.Record, error) {
	cur, err := h.store.Collection(TargetCollection).Scan(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []record.Record{}
	for i := 0; cur.Next(ctx); i++ {
		if i < skip {
			continue
		}
		r, err := cur.Decode()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, cur.Err()
}

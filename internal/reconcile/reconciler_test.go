package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/docmerge/internal/record"
)

func TestReconciler_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		source   []record.Record
		target   []record.Record
		inserted int
		skipped  bool
	}{
		{"disjoint sets", []record.Record{recA, recB}, nil, 2, false},
		{"full overlap", []record.Record{recA, recB}, []record.Record{recA, recB}, 0, true},
		{"partial overlap", []record.Record{recA, recB, recC}, []record.Record{recB}, 2, false},
	}

	for _, tt := range tests {
		for _, concurrent := range []bool{false, true} {
			name := tt.name
			if concurrent {
				name += "/concurrent"
			}
			t.Run(name, func(t *testing.T) {
				s := newTestStore(t)
				seed(t, s.Collection("source"), tt.source...)
				seed(t, s.Collection("target"), tt.target...)

				opts := DefaultOptions()
				opts.ConcurrentLoad = concurrent
				opts.RunIDs = NewFixedRunIDs("run-1")
				sum, err := New(s.Collection("source"), s.Collection("target"), opts).Run(context.Background())
				require.NoError(t, err)

				assert.Equal(t, "run-1", sum.RunID)
				assert.Equal(t, tt.inserted, sum.Inserted)
				assert.Equal(t, tt.inserted, sum.Found)
				assert.Equal(t, tt.skipped, sum.WriteSkipped)
				assert.Equal(t, len(tt.source), sum.SourceScanned)
				assert.Equal(t, len(tt.target), sum.TargetScanned)

				// Completeness: every source record is now in the target.
				target := record.NewSet(readAll(t, s.Collection("target"))...)
				for _, r := range tt.source {
					assert.True(t, target.Contains(r))
				}
			})
		}
	}
}

func TestReconciler_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seed(t, s.Collection("source"), recA, recB, recC)
	seed(t, s.Collection("target"), recB)

	opts := Options{RunIDs: NewFixedRunIDs("run-1", "run-2")}
	r := New(s.Collection("source"), s.Collection("target"), opts)

	first, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Inserted)

	second, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-2", second.RunID)
	assert.Equal(t, 0, second.Found)
	assert.Equal(t, 0, second.Inserted)
	assert.True(t, second.WriteSkipped)

	count, err := s.Count(ctx, "target")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestReconciler_NoDestructiveEffect(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	extra := record.Record{Signature: "only-in-target"}
	seed(t, s.Collection("source"), recA)
	seed(t, s.Collection("target"), recB, extra, extra)

	before := readAll(t, s.Collection("target"))

	_, err := New(s.Collection("source"), s.Collection("target"), Options{}).Run(ctx)
	require.NoError(t, err)

	after := record.NewSet(readAll(t, s.Collection("target"))...)
	for _, r := range before {
		assert.True(t, after.Contains(r))
	}

	count, err := s.Count(ctx, "target")
	require.NoError(t, err)
	assert.Equal(t, 4, count, "duplicates already in the target are kept")
}

func TestReconciler_StatusTransitionAppends(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	pending := record.Record{Signature: "sig-x", ConfirmationStatus: record.String("confirmed")}
	final := record.Record{Signature: "sig-x", ConfirmationStatus: record.String("finalized")}
	seed(t, s.Collection("source"), final)
	seed(t, s.Collection("target"), pending)

	sum, err := New(s.Collection("source"), s.Collection("target"), Options{}).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Inserted)

	count, err := s.Count(ctx, "target")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "the old record is neither updated nor removed")
}

func TestReconciler_DecodeFailureWritesNothing(t *testing.T) {
	for _, concurrent := range []bool{false, true} {
		t.Run(map[bool]string{false: "sequential", true: "concurrent"}[concurrent], func(t *testing.T) {
			s := newTestStore(t)
			ctx := context.Background()
			seed(t, s.Collection("source"), recA, recB)
			seed(t, s.Collection("target"), recC)
			require.NoError(t, s.InsertRaw(ctx, "target", `{"signature":"bad","slot":"x"}`))

			target := &faultyCollection{Collection: s.Collection("target")}
			c := &capture{}
			opts := Options{ConcurrentLoad: concurrent, Reporter: c}
			sum, err := New(s.Collection("source"), target, opts).Run(ctx)
			require.Error(t, err)
			assert.True(t, IsDecodeError(err))
			assert.Equal(t, 0, target.inserts, "no write attempted")
			assert.Equal(t, 0, sum.Inserted)

			count, err := s.Count(ctx, "target")
			require.NoError(t, err)
			assert.Equal(t, 2, count, "target left untouched")

			assert.Empty(t, c.ofKind(EventDiffStarted))
			assert.Empty(t, c.ofKind(EventRunCompleted))
		})
	}
}

func TestReconciler_WriteFailure(t *testing.T) {
	s := newTestStore(t)
	seed(t, s.Collection("source"), recA)

	target := &faultyCollection{Collection: s.Collection("target"), insertErr: errInjected}
	sum, err := New(s.Collection("source"), target, Options{}).Run(context.Background())
	require.Error(t, err)
	assert.True(t, IsWriteError(err))
	assert.Equal(t, 1, sum.Found)
	assert.Equal(t, 0, sum.Inserted)
}

func TestReconciler_DryRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seed(t, s.Collection("source"), recA, recB)

	target := &faultyCollection{Collection: s.Collection("target")}
	c := &capture{}
	sum, err := New(s.Collection("source"), target, Options{DryRun: true, Reporter: c}).Run(ctx)
	require.NoError(t, err)

	assert.True(t, sum.DryRun)
	assert.Equal(t, 2, sum.Found)
	assert.Equal(t, 0, sum.Inserted)
	assert.False(t, sum.WriteSkipped)
	assert.Equal(t, 0, target.inserts)
	assert.Empty(t, c.ofKind(EventWriteSkipped))
	assert.Len(t, c.ofKind(EventRunCompleted), 1)
}

func TestReconciler_Plan(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seed(t, s.Collection("source"), recA, recB, recB)
	seed(t, s.Collection("target"), recB)

	opts := Options{RunIDs: NewFixedRunIDs("plan-1")}
	p, err := New(s.Collection("source"), s.Collection("target"), opts).Plan(ctx)
	require.NoError(t, err)

	require.Len(t, p.Delta, 1)
	assert.True(t, record.Equal(recA, p.Delta[0]))
	assert.Equal(t, Summary{
		RunID:          "plan-1",
		Source:         "source",
		Target:         "target",
		SourceScanned:  3,
		SourceDistinct: 2,
		TargetScanned:  1,
		TargetDistinct: 1,
		Checked:        2,
		Found:          1,
	}, p.Summary)

	count, err := s.Count(ctx, "target")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "plan never writes")
}

func TestReconciler_EventTrace(t *testing.T) {
	s := newTestStore(t)
	seed(t, s.Collection("source"), recA, recB)

	c := &capture{}
	opts := Options{Reporter: c, RunIDs: NewFixedRunIDs("run-1")}
	_, err := New(s.Collection("source"), s.Collection("target"), opts).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []EventKind{
		EventLoadStarted, EventLoadCompleted,
		EventLoadStarted, EventLoadCompleted,
		EventDiffStarted, EventDiffCompleted,
		EventWriteCompleted,
		EventRunCompleted,
	}, c.kinds())

	for i, e := range c.events {
		assert.Equal(t, int64(i+1), e.Seq)
		assert.Equal(t, "run-1", e.RunID)
	}
	assert.Equal(t, SideSource, c.events[0].Side)
	assert.Equal(t, SideTarget, c.events[2].Side)
}

func TestReconciler_ConcurrentLoadEventsSerialized(t *testing.T) {
	s := newTestStore(t)
	seed(t, s.Collection("source"), manyRecords("s", 40)...)
	seed(t, s.Collection("target"), manyRecords("t", 40)...)

	c := &capture{}
	opts := Options{LoadEvery: 5, ConcurrentLoad: true, Reporter: c}
	sum, err := New(s.Collection("source"), s.Collection("target"), opts).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 40, sum.Inserted)

	assert.Len(t, c.ofKind(EventLoadProgress), 16)
	for i, e := range c.events {
		assert.Equal(t, int64(i+1), e.Seq)
	}
}

func TestReconciler_CancelledContext(t *testing.T) {
	s := newTestStore(t)
	seed(t, s.Collection("source"), recA)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(s.Collection("source"), s.Collection("target"), Options{}).Run(ctx)
	assert.True(t, IsConnectivityError(err))
}

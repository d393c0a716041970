package reconcile

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/docmerge/internal/docstore"
	"github.com/roach88/docmerge/internal/record"
)

// Options configures a Reconciler. The zero value is usable.
type Options struct {
	// Progress intervals; values below 1 mean the package defaults.
	LoadEvery  int
	CheckEvery int
	FoundEvery int

	// ConcurrentLoad loads the source and target collections in parallel.
	ConcurrentLoad bool

	// DryRun computes the Delta without writing it.
	DryRun bool

	// Reporter receives progress events; nil means Discard.
	Reporter Reporter

	// RunIDs stamps each run; nil means UUIDv7Generator.
	RunIDs RunIDGenerator
}

// DefaultOptions returns options with the default progress intervals.
func DefaultOptions() Options {
	return Options{
		LoadEvery:  DefaultLoadEvery,
		CheckEvery: DefaultCheckEvery,
		FoundEvery: DefaultFoundEvery,
	}
}

// Summary describes a finished (or planned) run.
type Summary struct {
	RunID          string `json:"run_id"`
	Source         string `json:"source"`
	Target         string `json:"target"`
	SourceScanned  int    `json:"source_scanned"`
	SourceDistinct int    `json:"source_distinct"`
	TargetScanned  int    `json:"target_scanned"`
	TargetDistinct int    `json:"target_distinct"`
	Checked        int    `json:"checked"`
	Found          int    `json:"found"`
	Inserted       int    `json:"inserted"`
	WriteSkipped   bool   `json:"write_skipped"`
	DryRun         bool   `json:"dry_run"`
}

// Plan is the outcome of loading and diffing, before any write.
type Plan struct {
	Delta   Delta
	Summary Summary
}

// Reconciler composes Loader, Engine and Writer into a run over one
// source and one target collection.
type Reconciler struct {
	source docstore.Collection
	target docstore.Collection
	opts   Options
}

// New creates a Reconciler that copies from source into target.
func New(source, target docstore.Collection, opts Options) *Reconciler {
	if opts.RunIDs == nil {
		opts.RunIDs = UUIDv7Generator{}
	}
	return &Reconciler{source: source, target: target, opts: opts}
}

// Plan loads both collections and diffs them. It never writes.
func (r *Reconciler) Plan(ctx context.Context) (Plan, error) {
	seq := newSequencer(r.opts.Reporter, r.opts.RunIDs.Generate())
	return r.plan(ctx, seq)
}

// Run loads, diffs and writes the Delta, unless Options.DryRun is set.
//
// On error the returned Summary holds whatever was counted before the
// failure.
func (r *Reconciler) Run(ctx context.Context) (Summary, error) {
	seq := newSequencer(r.opts.Reporter, r.opts.RunIDs.Generate())

	p, err := r.plan(ctx, seq)
	if err != nil {
		return p.Summary, err
	}
	sum := p.Summary

	if !r.opts.DryRun {
		w := &Writer{Reporter: seq}
		n, err := w.Write(ctx, r.target, p.Delta)
		if err != nil {
			return sum, err
		}
		sum.Inserted = n
		sum.WriteSkipped = len(p.Delta) == 0
	}

	seq.Report(Event{Kind: EventRunCompleted})
	return sum, nil
}

func (r *Reconciler) plan(ctx context.Context, seq *sequencer) (Plan, error) {
	sum := Summary{
		RunID:  seq.runID,
		Source: r.source.Name(),
		Target: r.target.Name(),
		DryRun: r.opts.DryRun,
	}

	loader := &Loader{Every: r.opts.LoadEvery, Reporter: seq}

	var (
		sourceSet, targetSet     *record.Set
		sourceStats, targetStats LoadStats
	)

	if r.opts.ConcurrentLoad {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			sourceSet, sourceStats, err = loader.Load(gctx, SideSource, r.source)
			return err
		})
		g.Go(func() error {
			var err error
			targetSet, targetStats, err = loader.Load(gctx, SideTarget, r.target)
			return err
		})
		err := g.Wait()
		sum.SourceScanned, sum.SourceDistinct = sourceStats.Scanned, sourceStats.Distinct
		sum.TargetScanned, sum.TargetDistinct = targetStats.Scanned, targetStats.Distinct
		if err != nil {
			return Plan{Summary: sum}, err
		}
	} else {
		var err error
		sourceSet, sourceStats, err = loader.Load(ctx, SideSource, r.source)
		sum.SourceScanned, sum.SourceDistinct = sourceStats.Scanned, sourceStats.Distinct
		if err != nil {
			return Plan{Summary: sum}, err
		}
		targetSet, targetStats, err = loader.Load(ctx, SideTarget, r.target)
		sum.TargetScanned, sum.TargetDistinct = targetStats.Scanned, targetStats.Distinct
		if err != nil {
			return Plan{Summary: sum}, err
		}
	}

	engine := &Engine{
		CheckEvery: r.opts.CheckEvery,
		FoundEvery: r.opts.FoundEvery,
		Reporter:   seq,
	}
	delta := engine.Diff(sourceSet, targetSet)

	sum.Checked = sourceSet.Len()
	sum.Found = len(delta)

	return Plan{Delta: delta, Summary: sum}, nil
}

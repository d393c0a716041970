package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/docmerge/internal/record"
)

// Snapshot renders the deterministic part of a result as canonical JSON:
// the trace, each run's summary with the fingerprints of the records it
// appended, and the final target size.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	trace := make([]any, len(result.Trace))
	for i, e := range result.Trace {
		m := map[string]any{
			"seq":     e.Seq,
			"kind":    e.Kind,
			"count":   e.Count,
			"run_id":  e.RunID,
			"message": e.Message,
		}
		if e.Side != "" {
			m["side"] = e.Side
		}
		if e.Collection != "" {
			m["collection"] = e.Collection
		}
		trace[i] = m
	}

	runs := make([]any, len(result.Runs))
	for i, run := range result.Runs {
		appended := make([]any, len(run.Appended))
		for j, r := range run.Appended {
			appended[j] = r.MustFingerprint()
		}
		s := run.Summary
		m := map[string]any{
			"run_id":          s.RunID,
			"source_scanned":  s.SourceScanned,
			"source_distinct": s.SourceDistinct,
			"target_scanned":  s.TargetScanned,
			"target_distinct": s.TargetDistinct,
			"checked":         s.Checked,
			"found":           s.Found,
			"inserted":        s.Inserted,
			"write_skipped":   s.WriteSkipped,
			"appended":        appended,
		}
		if run.Error != "" {
			m["error"] = run.Error
		}
		runs[i] = m
	}

	return record.MarshalCanonical(map[string]any{
		"scenario_name": scenarioName,
		"runs":          runs,
		"target_count":  result.TargetCount,
		"trace":         trace,
	})
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}

package harness

import (
	"fmt"

	"github.com/roach88/docmerge/internal/record"
)

// EvaluateExpect checks a result against the scenario's expectations and
// returns one message per failed check.
//
// Two checks always run, whatever the scenario declares:
//   - each run's reported insert count equals what the target gained
//   - a run that failed left the target untouched
func EvaluateExpect(result *Result, expect Expect) []string {
	var errs []string

	for i, run := range result.Runs {
		if run.Error == "" && run.Summary.Inserted != len(run.Appended) {
			errs = append(errs, fmt.Sprintf("run %d: reported %d inserted, target gained %d",
				i+1, run.Summary.Inserted, len(run.Appended)))
		}
		if run.Error != "" && len(run.Appended) > 0 {
			errs = append(errs, fmt.Sprintf("run %d: failed with %s but target gained %d documents",
				i+1, run.Error, len(run.Appended)))
		}
	}

	errs = append(errs, checkError(result, expect)...)

	if expect.Delta != nil && len(result.Runs) > 0 {
		errs = append(errs, checkDelta(result.Runs[0].Appended, expect.Delta)...)
	}

	for i, want := range expect.Inserted {
		if i >= len(result.Runs) {
			errs = append(errs, fmt.Sprintf("inserted[%d]: run did not execute", i))
			continue
		}
		if got := result.Runs[i].Summary.Inserted; got != want {
			errs = append(errs, fmt.Sprintf("inserted[%d]: expected %d, got %d", i, want, got))
		}
	}

	if expect.TargetCount != nil && result.TargetCount != *expect.TargetCount {
		errs = append(errs, fmt.Sprintf("target_count: expected %d, got %d", *expect.TargetCount, result.TargetCount))
	}

	return errs
}

func checkError(result *Result, expect Expect) []string {
	if expect.Error == "" {
		for i, run := range result.Runs {
			if run.Error != "" {
				return []string{fmt.Sprintf("run %d: unexpected %s error", i+1, run.Error)}
			}
		}
		return nil
	}

	if len(result.Runs) == 0 || result.Runs[0].Error == "" {
		return []string{fmt.Sprintf("error: expected %s, first run succeeded", expect.Error)}
	}
	if got := result.Runs[0].Error; got != expect.Error {
		return []string{fmt.Sprintf("error: expected %s, got %s", expect.Error, got)}
	}
	return nil
}

// checkDelta compares two record lists as sets.
func checkDelta(got, want []record.Record) []string {
	var errs []string

	gotSet := record.NewSet(got...)
	wantSet := record.NewSet(want...)

	if len(got) != gotSet.Len() {
		errs = append(errs, fmt.Sprintf("delta: %d records appended but only %d distinct", len(got), gotSet.Len()))
	}

	for r := range wantSet.All() {
		if !gotSet.Contains(r) {
			errs = append(errs, fmt.Sprintf("delta: missing %s (%s)", r.Signature, r.MustFingerprint()[:12]))
		}
	}
	for r := range gotSet.All() {
		if !wantSet.Contains(r) {
			errs = append(errs, fmt.Sprintf("delta: unexpected %s (%s)", r.Signature, r.MustFingerprint()[:12]))
		}
	}
	return errs
}

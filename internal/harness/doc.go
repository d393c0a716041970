// Package harness runs reconciliation scenarios and checks their outcome.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: partial_overlap
//	description: "Only records missing from the target are appended"
//	source:
//	  - {signature: sig-a, slot: 100}
//	  - {signature: sig-b, slot: 101}
//	target:
//	  - {signature: sig-b, slot: 101}
//	raw_target:                 # stored verbatim, for malformed documents
//	  - '{"signature":"bad","slot":"twelve"}'
//	runs: 2                     # repeat the reconciliation (default 1)
//	progress: {load_every: 1, check_every: 1, found_every: 1}
//	expect:
//	  delta: [{signature: sig-a, slot: 100}]  # appended by the first run
//	  inserted: [1, 0]                        # per run
//	  error: DECODE                           # first run fails with this code
//	  target_count: 2                         # documents in the target at the end
//
// Every scenario also checks that each run's reported insert count matches
// what the store actually gained.
//
// # Deterministic Testing
//
// Each scenario runs against a fresh in-memory SQLite store with run ids
// "run-1", "run-2", ... so traces are byte-identical across executions and
// can be compared against golden files.
package harness

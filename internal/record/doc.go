// Package record defines the unit of reconciliation and its in-memory set.
//
// A Record is one signature document as stored in a collection. Records are
// compared by full value: every field takes part, and an absent optional
// field is its own value, distinct from zero or the empty string.
//
// This package imports nothing internal. The store backends, the reconcile
// engine and the harness all build on it.
//
// Key design constraints:
//   - Records are immutable once decoded; optional fields are never mutated
//   - Equality is defined by Key, never by Fingerprint
//   - NO floats: numeric fields are int64
//   - Set iteration follows first-insertion order
package record

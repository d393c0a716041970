// Package reconcile appends to a target collection every record of a source
// collection that the target does not already hold.
//
// A run has four steps, always in this order:
//
//  1. Loader reads the whole source collection into a record.Set
//  2. Loader reads the whole target collection into a record.Set
//  3. Engine.Diff keeps the source records the target set lacks (the Delta)
//  4. Writer appends the Delta to the target in one bulk insert
//
// Records are compared by full value (record.Key). A record whose status
// changed since it was copied is a different record and is appended again;
// nothing in the target is ever updated or deleted.
//
// MEMORY: both collections are resident at once. A run needs memory for
// |source| + |target| distinct records plus the Delta. There is no streaming
// or partitioned mode.
//
// Progress is reported through a Reporter as Events. Reconciler serializes
// and sequences events, so a Reporter never sees concurrent calls even when
// the two collections load in parallel.
//
// Re-running after success is a no-op: the Delta of a second run is empty
// and the Writer makes no store call. Re-running after a failed write is
// safe for the same reason. The store never sees a partial Delta from a
// failed load, because a load failure aborts before the diff.
package reconcile

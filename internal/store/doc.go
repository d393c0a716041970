// Package store provides a SQLite-backed document store.
//
// Every collection lives in one append-only table:
//   - documents(id, collection, body): body is the JSON-encoded record
//
// The store implements docstore.Store so the reconciliation core can run
// against a local file (or ":memory:") exactly as it runs against MongoDB.
//
// # Critical Patterns
//
// Deterministic scans
//   - Collection scans are ORDER BY id ASC, so a collection always streams
//     in insertion order
//
// Append-only
//   - The store exposes inserts only; no update or delete path exists
//
// Atomic bulk insert
//   - InsertMany runs in one transaction: either every record is appended
//     or none is
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - Single open connection: SQLite allows one writer, and ":memory:"
//     databases exist per connection
package store

// Package docstore defines the store access contract consumed by the
// reconciliation core: open a named collection, stream every record in it
// through a server-side cursor, and bulk-insert a list of records.
//
// Backends (internal/store for SQLite, internal/mongostore, internal/pgstore)
// implement these interfaces. Connection setup, timeouts and network retries
// belong to the backend, never to the core.
package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/docmerge/internal/record"
)

// Store is an open connection to a document store.
type Store interface {
	// Collection returns a handle to the named collection.
	// It does not touch the network; a missing collection scans as empty.
	Collection(name string) Collection

	// Close releases the connection.
	Close(ctx context.Context) error
}

// Collection is a handle to one named collection.
type Collection interface {
	Name() string

	// Scan opens a cursor over every record in the collection, unfiltered.
	Scan(ctx context.Context) (Cursor, error)

	// InsertMany appends recs in one bulk request and returns how many
	// were inserted. A failure means the bulk request as a whole failed.
	InsertMany(ctx context.Context, recs []record.Record) (int, error)
}

// Cursor streams the records of a collection.
//
// Usage mirrors database/sql rows:
//
//	for cur.Next(ctx) {
//	    r, err := cur.Decode()
//	    ...
//	}
//	if err := cur.Err(); err != nil { ... }
type Cursor interface {
	// Next advances to the next document. Returns false when exhausted or
	// on error; check Err afterwards.
	Next(ctx context.Context) bool

	// Decode decodes the current document. Malformed documents return an
	// error that satisfies IsDecodeError.
	Decode() (record.Record, error)

	// Err returns the error, if any, that stopped iteration.
	Err() error

	Close(ctx context.Context) error
}

// DecodeError reports a stored document that does not match the record shape.
type DecodeError struct {
	// Ref identifies the document within its collection when the backend
	// can name it (row id, ObjectID hex). May be empty.
	Ref string
	Err error
}

func (e *DecodeError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("malformed document %s: %v", e.Ref, e.Err)
	}
	return fmt.Sprintf("malformed document: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDecodeError reports whether err is or wraps a *DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

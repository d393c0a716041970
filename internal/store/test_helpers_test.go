package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/docmerge/internal/docstore"
	"github.com/roach88/docmerge/internal/record"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

// scanAll drains a collection, failing the test on any error.
func scanAll(t *testing.T, coll docstore.Collection) []record.Record {
	t.Helper()
	ctx := context.Background()

	cur, err := coll.Scan(ctx)
	if err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}
	defer cur.Close(ctx)

	var out []record.Record
	for cur.Next(ctx) {
		r, err := cur.Decode()
		if err != nil {
			t.Fatalf("Decode() failed: %v", err)
		}
		out = append(out, r)
	}
	if err := cur.Err(); err != nil {
		t.Fatalf("cursor error: %v", err)
	}
	return out
}

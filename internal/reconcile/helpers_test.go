package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/docmerge/internal/docstore"
	"github.com/roach88/docmerge/internal/record"
	"github.com/roach88/docmerge/internal/store"
)

var (
	recA = record.Record{Signature: "sig-a", Slot: record.Int(100), ConfirmationStatus: record.String("finalized")}
	recB = record.Record{Signature: "sig-b", Slot: record.Int(101), Err: record.String("InstructionError")}
	recC = record.Record{Signature: "sig-c", Memo: record.String("hello"), BlockTime: record.Int(1700000000)}
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

func seed(t *testing.T, coll docstore.Collection, recs ...record.Record) {
	t.Helper()
	if len(recs) == 0 {
		return
	}
	_, err := coll.InsertMany(context.Background(), recs)
	require.NoError(t, err)
}

// readAll loads a collection through a Loader and returns its records.
func readAll(t *testing.T, coll docstore.Collection) []record.Record {
	t.Helper()
	l := &Loader{}
	set, _, err := l.Load(context.Background(), SideTarget, coll)
	require.NoError(t, err)

	var out []record.Record
	for r := range set.All() {
		out = append(out, r)
	}
	return out
}

func manyRecords(prefix string, n int) []record.Record {
	out := make([]record.Record, n)
	for i := range out {
		out[i] = record.Record{Signature: prefix, Slot: record.Int(int64(i))}
	}
	return out
}

// capture records every reported event.
type capture struct {
	mu     sync.Mutex
	events []Event
}

func (c *capture) Report(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *capture) kinds() []EventKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]EventKind, len(c.events))
	for i, e := range c.events {
		out[i] = e.Kind
	}
	return out
}

func (c *capture) ofKind(kind EventKind) []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Event
	for _, e := range c.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

var errInjected = errors.New("injected failure")

// faultyCollection wraps a collection and fails on demand.
type faultyCollection struct {
	docstore.Collection
	scanErr   error
	insertErr error
	inserts   int
}

func (f *faultyCollection) Scan(ctx context.Context) (docstore.Cursor, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	return f.Collection.Scan(ctx)
}

func (f *faultyCollection) InsertMany(ctx context.Context, recs []record.Record) (int, error) {
	f.inserts++
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	return f.Collection.InsertMany(ctx, recs)
}

package reconcile

import (
	"context"

	"github.com/roach88/docmerge/internal/docstore"
	"github.com/roach88/docmerge/internal/record"
)

// DefaultLoadEvery is how many documents are read between progress events.
const DefaultLoadEvery = 10_000

// LoadStats counts what a load read.
type LoadStats struct {
	// Scanned is the number of documents read from the collection.
	Scanned int `json:"scanned"`
	// Distinct is the number of distinct records among them.
	Distinct int `json:"distinct"`
}

// Loader reads a whole collection into a record.Set.
type Loader struct {
	// Every is the progress interval; values below 1 mean DefaultLoadEvery.
	Every    int
	Reporter Reporter
}

// Load scans every document of coll, deduplicating by full value.
//
// A document that fails to decode aborts the load with ErrCodeDecode; any
// other cursor failure, including ctx cancellation, aborts it with
// ErrCodeConnectivity. The partial set is discarded in both cases.
func (l *Loader) Load(ctx context.Context, side Side, coll docstore.Collection) (*record.Set, LoadStats, error) {
	name := coll.Name()
	every := l.Every
	if every < 1 {
		every = DefaultLoadEvery
	}

	emit(l.Reporter, Event{Kind: EventLoadStarted, Side: side, Collection: name})

	fail := func(code ErrorCode, scanned int, err error) (*record.Set, LoadStats, error) {
		return nil, LoadStats{Scanned: scanned}, &Error{
			Code:       code,
			Phase:      PhaseLoad,
			Side:       side,
			Collection: name,
			Processed:  scanned,
			Err:        err,
		}
	}

	cur, err := coll.Scan(ctx)
	if err != nil {
		return fail(ErrCodeConnectivity, 0, err)
	}
	defer cur.Close(context.WithoutCancel(ctx))

	b := record.NewBuilder(0)
	scanned := 0
	for cur.Next(ctx) {
		r, err := cur.Decode()
		if err != nil {
			return fail(ErrCodeDecode, scanned, err)
		}
		b.Add(r)
		scanned++

		if scanned%every == 0 {
			emit(l.Reporter, Event{Kind: EventLoadProgress, Side: side, Collection: name, Count: scanned})
		}
	}
	if err := cur.Err(); err != nil {
		return fail(ErrCodeConnectivity, scanned, err)
	}
	// Next may stop on a cancelled context without the cursor reporting it.
	if err := ctx.Err(); err != nil {
		return fail(ErrCodeConnectivity, scanned, err)
	}

	set := b.Build()
	emit(l.Reporter, Event{Kind: EventLoadCompleted, Side: side, Collection: name, Count: scanned})

	return set, LoadStats{Scanned: scanned, Distinct: set.Len()}, nil
}

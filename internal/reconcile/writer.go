package reconcile

import (
	"context"

	"github.com/roach88/docmerge/internal/docstore"
)

// Writer appends a Delta to the target collection.
type Writer struct {
	Reporter Reporter
}

// Write inserts delta into coll with a single bulk request and returns the
// number of records inserted.
//
// An empty delta makes no store call and reports EventWriteSkipped. A
// failed request returns ErrCodeWrite; how much of the batch the store kept
// is up to the backend, and the next run's diff absorbs any partial write.
func (w *Writer) Write(ctx context.Context, coll docstore.Collection, delta Delta) (int, error) {
	name := coll.Name()

	if len(delta) == 0 {
		emit(w.Reporter, Event{Kind: EventWriteSkipped, Side: SideTarget, Collection: name})
		return 0, nil
	}

	n, err := coll.InsertMany(ctx, delta)
	if err != nil {
		return 0, &Error{
			Code:       ErrCodeWrite,
			Phase:      PhaseWrite,
			Side:       SideTarget,
			Collection: name,
			Processed:  len(delta),
			Err:        err,
		}
	}

	emit(w.Reporter, Event{Kind: EventWriteCompleted, Side: SideTarget, Collection: name, Count: n})
	return n, nil
}

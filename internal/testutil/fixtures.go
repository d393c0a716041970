package testutil

import (
	"context"
	"fmt"

	"github.com/roach88/docmerge/internal/docstore"
	"github.com/roach88/docmerge/internal/record"
)

// Signatures returns n distinct finalized records named "<prefix>-0000" on.
func Signatures(prefix string, n int) []record.Record {
	out := make([]record.Record, n)
	for i := range out {
		out[i] = record.Record{
			Signature:          fmt.Sprintf("%s-%04d", prefix, i),
			Slot:               record.Int(int64(250_000_000 + i)),
			BlockTime:          record.Int(int64(1_700_000_000 + i)),
			ConfirmationStatus: record.String("finalized"),
		}
	}
	return out
}

// Seed inserts recs into coll, doing nothing for an empty list.
func Seed(ctx context.Context, coll docstore.Collection, recs ...record.Record) error {
	if len(recs) == 0 {
		return nil
	}
	if _, err := coll.InsertMany(ctx, recs); err != nil {
		return fmt.Errorf("seed %s: %w", coll.Name(), err)
	}
	return nil
}

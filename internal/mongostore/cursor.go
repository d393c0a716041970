package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/roach88/docmerge/internal/docstore"
	"github.com/roach88/docmerge/internal/record"
)

// cursor adapts mongo.Cursor to docstore.Cursor.
type cursor struct {
	cur *mongo.Cursor
}

func newCursor(cur *mongo.Cursor) *cursor {
	return &cursor{cur: cur}
}

func (c *cursor) Next(ctx context.Context) bool {
	return c.cur.Next(ctx)
}

// Decode decodes the current document. Fields other than the record's,
// such as _id, are ignored.
func (c *cursor) Decode() (record.Record, error) {
	var doc record.Document
	if err := c.cur.Decode(&doc); err != nil {
		return record.Record{}, &docstore.DecodeError{Ref: c.ref(), Err: err}
	}
	r, err := doc.Record()
	if err != nil {
		return record.Record{}, &docstore.DecodeError{Ref: c.ref(), Err: err}
	}
	return r, nil
}

// ref names the current document by its _id when it has one.
func (c *cursor) ref() string {
	v, err := c.cur.Current.LookupErr("_id")
	if err != nil {
		return ""
	}
	if oid, ok := v.ObjectIDOK(); ok && oid != primitive.NilObjectID {
		return "_id=" + oid.Hex()
	}
	return "_id=" + v.String()
}

func (c *cursor) Err() error {
	if err := c.cur.Err(); err != nil {
		return fmt.Errorf("iterate documents: %w", err)
	}
	return nil
}

func (c *cursor) Close(ctx context.Context) error {
	return c.cur.Close(ctx)
}

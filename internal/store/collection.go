package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/roach88/docmerge/internal/docstore"
	"github.com/roach88/docmerge/internal/record"
)

// Collection is a named collection inside the documents table.
type Collection struct {
	db   *sql.DB
	name string
}

var _ docstore.Collection = (*Collection)(nil)

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Scan streams every document of the collection in insertion order.
// Callers must Close the returned cursor.
func (c *Collection) Scan(ctx context.Context) (docstore.Cursor, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, body
		FROM documents
		WHERE collection = ?
		ORDER BY id ASC
	`, c.name)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	return &cursor{rows: rows}, nil
}

// InsertMany appends recs in a single transaction.
// Either all records are stored or none is.
func (c *Collection) InsertMany(ctx context.Context, recs []record.Record) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("insert documents: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO documents (collection, body) VALUES (?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("insert documents: prepare: %w", err)
	}
	defer stmt.Close()

	for i, r := range recs {
		body, err := record.EncodeJSON(r)
		if err != nil {
			return 0, fmt.Errorf("insert documents: record %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, c.name, string(body)); err != nil {
			return 0, fmt.Errorf("insert documents: record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("insert documents: commit: %w", err)
	}

	return len(recs), nil
}

// cursor adapts sql.Rows to docstore.Cursor.
type cursor struct {
	rows *sql.Rows
	id   int64
	body string
	err  error
}

func (c *cursor) Next(ctx context.Context) bool {
	if c.err != nil {
		return false
	}
	if err := ctx.Err(); err != nil {
		c.err = err
		return false
	}
	if !c.rows.Next() {
		return false
	}
	if err := c.rows.Scan(&c.id, &c.body); err != nil {
		c.err = fmt.Errorf("scan document: %w", err)
		return false
	}
	return true
}

func (c *cursor) Decode() (record.Record, error) {
	r, err := record.DecodeJSON([]byte(c.body))
	if err != nil {
		return record.Record{}, &docstore.DecodeError{Ref: "id=" + strconv.FormatInt(c.id, 10), Err: err}
	}
	return r, nil
}

func (c *cursor) Err() error {
	if c.err != nil {
		return c.err
	}
	if err := c.rows.Err(); err != nil {
		return fmt.Errorf("iterate documents: %w", err)
	}
	return nil
}

func (c *cursor) Close(_ context.Context) error {
	return c.rows.Close()
}

// Package mongostore implements docstore on MongoDB, the store the
// signature collections originally live in.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/roach88/docmerge/internal/docstore"
	"github.com/roach88/docmerge/internal/record"
)

// Config configures the MongoDB connection.
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration

	// BatchSize is the cursor batch size; 0 leaves it to the server.
	BatchSize int32
}

func (c Config) Validate() error {
	if c.URI == "" {
		return errors.New("mongodb uri is required")
	}
	if c.Database == "" {
		return errors.New("mongodb database is required")
	}
	if c.ConnectTimeout <= 0 {
		return errors.New("mongodb connect timeout must be positive")
	}
	if c.BatchSize < 0 {
		return errors.New("mongodb batch size must be >= 0")
	}
	return nil
}

// Store is a connected MongoDB database.
type Store struct {
	client    *mongo.Client
	db        *mongo.Database
	batchSize int32
}

var _ docstore.Store = (*Store)(nil)

// Open connects to MongoDB and pings the primary, failing if it does not
// answer within the connect timeout.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &Store{
		client:    client,
		db:        client.Database(cfg.Database),
		batchSize: cfg.BatchSize,
	}, nil
}

// Collection returns a handle to the named collection.
func (s *Store) Collection(name string) docstore.Collection {
	return &Collection{coll: s.db.Collection(name), batchSize: s.batchSize}
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Collection is a MongoDB collection of signature documents.
type Collection struct {
	coll      *mongo.Collection
	batchSize int32
}

var _ docstore.Collection = (*Collection)(nil)

func (c *Collection) Name() string {
	return c.coll.Name()
}

// Scan finds every document with an empty filter.
func (c *Collection) Scan(ctx context.Context) (docstore.Cursor, error) {
	opts := options.Find()
	if c.batchSize > 0 {
		opts.SetBatchSize(c.batchSize)
	}

	cur, err := c.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	return newCursor(cur), nil
}

// InsertMany inserts recs with one ordered insertMany command. Absent
// optional fields are stored as null.
func (c *Collection) InsertMany(ctx context.Context, recs []record.Record) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, len(recs))
	for i, r := range recs {
		docs[i] = r
	}

	res, err := c.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err != nil {
		return 0, fmt.Errorf("insert many: %w", err)
	}
	return len(res.InsertedIDs), nil
}

package pgstore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/docmerge/internal/docstore"
	"github.com/roach88/docmerge/internal/record"
)

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig("postgres://localhost/docmerge").Validate(); err != nil {
		t.Fatalf("Validate() err=%v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing url", func(c *Config) { c.URL = "" }},
		{"zero ping timeout", func(c *Config) { c.PingTimeout = 0 }},
		{"zero pool", func(c *Config) { c.MaxOpenConns = 0 }},
		{"negative idle", func(c *Config) { c.MaxIdleConns = -1 }},
		{"idle above open", func(c *Config) { c.MaxIdleConns = c.MaxOpenConns + 1 }},
		{"negative lifetime", func(c *Config) { c.ConnMaxLifetime = -time.Second }},
		{"negative idle time", func(c *Config) { c.ConnMaxIdleTime = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig("postgres://localhost/docmerge")
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("Validate() err=nil, want error")
			}
		})
	}
}

func TestOpen_Unreachable(t *testing.T) {
	cfg := DefaultConfig("postgres://docmerge@127.0.0.1:1/docmerge?sslmode=disable&connect_timeout=1")
	cfg.PingTimeout = 500 * time.Millisecond

	_, err := Open(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping")
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{}
	assert.NoError(t, s.Close(context.Background()))
}

// TestIntegration exercises a live server when DOCMERGE_TEST_POSTGRES_URL is set.
func TestIntegration(t *testing.T) {
	url := os.Getenv("DOCMERGE_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("DOCMERGE_TEST_POSTGRES_URL not set")
	}
	ctx := context.Background()

	s, err := Open(ctx, DefaultConfig(url))
	require.NoError(t, err)
	defer s.Close(ctx)

	name := fmt.Sprintf("it_%d", time.Now().UnixNano())
	defer s.db.ExecContext(ctx, `DELETE FROM docmerge_documents WHERE collection = $1`, name)

	coll := s.Collection(name)
	recs := []record.Record{
		{Signature: "a", Slot: record.Int(1), BlockTime: record.Int(1700000000)},
		{Signature: "b", Err: record.String("InstructionError")},
	}
	n, err := coll.InsertMany(ctx, recs)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO docmerge_documents (collection, body) VALUES ($1, '{"signature":"c","slot":"x"}'::jsonb)`, name)
	require.NoError(t, err)

	cur, err := coll.Scan(ctx)
	require.NoError(t, err)
	defer cur.Close(ctx)

	var got []record.Record
	var decodeErr error
	for cur.Next(ctx) {
		r, err := cur.Decode()
		if err != nil {
			decodeErr = err
			break
		}
		got = append(got, r)
	}
	require.NoError(t, cur.Err())
	require.Len(t, got, 2)
	assert.True(t, record.Equal(recs[0], got[0]))
	assert.True(t, record.Equal(recs[1], got[1]))
	assert.True(t, docstore.IsDecodeError(decodeErr))
}

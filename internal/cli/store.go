package cli

import (
	"context"
	"fmt"

	"github.com/roach88/docmerge/internal/config"
	"github.com/roach88/docmerge/internal/docstore"
	"github.com/roach88/docmerge/internal/mongostore"
	"github.com/roach88/docmerge/internal/pgstore"
	"github.com/roach88/docmerge/internal/store"
)

// OpenStore connects to the backend named by cfg.URI.
func OpenStore(ctx context.Context, cfg config.StoreConfig) (docstore.Store, error) {
	backend, err := cfg.Backend()
	if err != nil {
		return nil, err
	}

	switch backend {
	case config.BackendMongo:
		st, err := mongostore.Open(ctx, mongostore.Config{
			URI:            cfg.URI,
			Database:       cfg.Database,
			ConnectTimeout: cfg.ConnectTimeout,
			BatchSize:      int32(cfg.BatchSize),
		})
		if err != nil {
			return nil, fmt.Errorf("mongodb: %w", err)
		}
		return st, nil

	case config.BackendPostgres:
		pc := pgstore.DefaultConfig(cfg.URI)
		pc.PingTimeout = cfg.ConnectTimeout
		pc.MaxOpenConns = cfg.MaxOpenConns
		pc.MaxIdleConns = min(pc.MaxIdleConns, cfg.MaxOpenConns)
		st, err := pgstore.Open(ctx, pc)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return st, nil

	case config.BackendSQLite:
		st, err := store.Open(cfg.SQLitePath())
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		return st, nil
	}

	return nil, fmt.Errorf("unsupported backend %q", backend)
}

// Package config resolves docmerge settings from defaults, a config file,
// the environment and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/roach88/docmerge/internal/logging"
	"github.com/roach88/docmerge/internal/reconcile"
)

const (
	DefaultStoreURI       = "mongodb://localhost:27017"
	DefaultDatabase       = "OBv2_Data"
	DefaultConnectTimeout = 10 * time.Second
	DefaultMaxOpenConns   = 4
)

// Config is the resolved configuration of one run.
type Config struct {
	Store          StoreConfig
	Source         string
	Target         string
	ConcurrentLoad bool
	DryRun         bool
	Progress       ProgressConfig
	Log            LogConfig
}

// StoreConfig selects and tunes the document store.
type StoreConfig struct {
	// URI selects the backend by scheme; see Backend.
	URI string

	// Database is the MongoDB database holding both collections.
	Database string

	ConnectTimeout time.Duration

	// BatchSize is the cursor batch size; 0 leaves it to the driver.
	BatchSize int

	// MaxOpenConns bounds the PostgreSQL connection pool.
	MaxOpenConns int
}

// ProgressConfig holds the progress event intervals.
type ProgressConfig struct {
	LoadEvery  int
	CheckEvery int
	FoundEvery int
}

// LogConfig configures the process logger.
type LogConfig struct {
	// File, when set, receives an appended copy of the log.
	File  string
	Level string
}

// Default returns the configuration used when nothing else is set.
// Source and Target have no default.
func Default() Config {
	return Config{
		Store: StoreConfig{
			URI:            DefaultStoreURI,
			Database:       DefaultDatabase,
			ConnectTimeout: DefaultConnectTimeout,
			MaxOpenConns:   DefaultMaxOpenConns,
		},
		Progress: ProgressConfig{
			LoadEvery:  reconcile.DefaultLoadEvery,
			CheckEvery: reconcile.DefaultCheckEvery,
			FoundEvery: reconcile.DefaultFoundEvery,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load resolves defaults, the optional config file at path and the
// environment. Flags are applied by the caller, followed by Validate.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config load failed (env): %w", err)
	}

	return cfg, nil
}

// Validate checks that cfg describes a runnable reconciliation.
func (c Config) Validate() error {
	if c.Store.URI == "" {
		return errors.New("store uri is required")
	}
	backend, err := c.Store.Backend()
	if err != nil {
		return err
	}
	if backend == BackendMongo && c.Store.Database == "" {
		return errors.New("database is required for mongodb stores")
	}
	if c.Source == "" {
		return errors.New("source collection is required (SOURCE_COLLECTION)")
	}
	if c.Target == "" {
		return errors.New("target collection is required (TARGET_COLLECTION)")
	}
	if c.Source == c.Target {
		return fmt.Errorf("source and target collections must differ (both %q)", c.Source)
	}
	if c.Store.ConnectTimeout <= 0 {
		return errors.New("connect timeout must be positive")
	}
	if c.Store.BatchSize < 0 {
		return errors.New("batch size must be >= 0")
	}
	if c.Store.MaxOpenConns < 1 {
		return errors.New("max open conns must be >= 1")
	}
	if c.Progress.LoadEvery < 1 || c.Progress.CheckEvery < 1 || c.Progress.FoundEvery < 1 {
		return errors.New("progress intervals must be >= 1")
	}
	if c.Log.Level != "" {
		if _, ok := logging.ParseLevel(c.Log.Level); !ok {
			return fmt.Errorf("unknown log level %q", c.Log.Level)
		}
	}
	return nil
}

// ReconcileOptions maps the run settings onto reconcile.Options.
func (c Config) ReconcileOptions() reconcile.Options {
	return reconcile.Options{
		LoadEvery:      c.Progress.LoadEvery,
		CheckEvery:     c.Progress.CheckEvery,
		FoundEvery:     c.Progress.FoundEvery,
		ConcurrentLoad: c.ConcurrentLoad,
		DryRun:         c.DryRun,
	}
}

// Backend identifies a document store implementation.
type Backend string

const (
	BackendMongo    Backend = "mongodb"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// Backend picks the store implementation from the URI:
//
//	mongodb://, mongodb+srv://      MongoDB
//	postgres://, postgresql://      PostgreSQL
//	sqlite://<path>, file:..., *.db SQLite
func (s StoreConfig) Backend() (Backend, error) {
	uri := s.URI
	switch {
	case strings.HasPrefix(uri, "mongodb://"), strings.HasPrefix(uri, "mongodb+srv://"):
		return BackendMongo, nil
	case strings.HasPrefix(uri, "postgres://"), strings.HasPrefix(uri, "postgresql://"):
		return BackendPostgres, nil
	case strings.HasPrefix(uri, "sqlite://"), strings.HasPrefix(uri, "file:"), uri == ":memory:":
		return BackendSQLite, nil
	case strings.HasSuffix(uri, ".db"), strings.HasSuffix(uri, ".sqlite"), strings.HasSuffix(uri, ".sqlite3"):
		return BackendSQLite, nil
	default:
		return "", fmt.Errorf("unsupported store uri %q", Redact(uri))
	}
}

// SQLitePath returns the path handed to the SQLite driver.
func (s StoreConfig) SQLitePath() string {
	return strings.TrimPrefix(s.URI, "sqlite://")
}

// Redact hides the password of a URI.
func Redact(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.User == nil {
		return uri
	}
	return u.Redacted()
}

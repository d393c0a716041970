package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variables read by Load.
const (
	EnvStoreURI       = "DOCMERGE_STORE_URI"
	EnvMongoURI       = "MONGODB_URI"
	EnvDatabase       = "DOCMERGE_DATABASE"
	EnvSource         = "SOURCE_COLLECTION"
	EnvTarget         = "TARGET_COLLECTION"
	EnvConcurrentLoad = "DOCMERGE_CONCURRENT_LOAD"
	EnvConnectTimeout = "DOCMERGE_CONNECT_TIMEOUT"
	EnvBatchSize      = "DOCMERGE_BATCH_SIZE"
	EnvLogFile        = "DOCMERGE_LOG_FILE"
	EnvLogLevel       = "DOCMERGE_LOG_LEVEL"
)

func applyEnv(cfg *Config) error {
	cfg.Store.URI = envString(EnvMongoURI, cfg.Store.URI)
	cfg.Store.URI = envString(EnvStoreURI, cfg.Store.URI)
	cfg.Store.Database = envString(EnvDatabase, cfg.Store.Database)
	cfg.Source = envString(EnvSource, cfg.Source)
	cfg.Target = envString(EnvTarget, cfg.Target)
	cfg.Log.File = envString(EnvLogFile, cfg.Log.File)
	cfg.Log.Level = envString(EnvLogLevel, cfg.Log.Level)

	var err error
	if cfg.ConcurrentLoad, err = envBool(EnvConcurrentLoad, cfg.ConcurrentLoad); err != nil {
		return err
	}
	if cfg.Store.ConnectTimeout, err = envDuration(EnvConnectTimeout, cfg.Store.ConnectTimeout); err != nil {
		return err
	}
	if cfg.Store.BatchSize, err = envInt(EnvBatchSize, cfg.Store.BatchSize); err != nil {
		return err
	}
	return nil
}

func envString(key string, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("parse %s: %w", key, err)
		}
		return d, nil
	}
	return def, nil
}

func envBool(key string, def bool) (bool, error) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("parse %s: %w", key, err)
		}
		return b, nil
	}
	return def, nil
}

func envInt(key string, def int) (int, error) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("parse %s: %w", key, err)
		}
		return i, nil
	}
	return def, nil
}

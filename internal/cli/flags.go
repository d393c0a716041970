package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/docmerge/internal/config"
	"github.com/roach88/docmerge/internal/logging"
)

// StoreFlags are the connection and collection flags shared by merge, diff
// and validate. A flag overrides the config file and the environment only
// when it is set on the command line.
type StoreFlags struct {
	ConfigPath     string
	StoreURI       string
	Database       string
	Source         string
	Target         string
	ConcurrentLoad bool
	LogFile        string
	BatchSize      int
}

func (f *StoreFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ConfigPath, "config", "", "config file (.cue, .toml, .yaml)")
	cmd.Flags().StringVar(&f.StoreURI, "store", "", "store URI (mongodb://, postgres://, sqlite://)")
	cmd.Flags().StringVar(&f.Database, "database", "", "MongoDB database name")
	cmd.Flags().StringVar(&f.Source, "source", "", "source collection")
	cmd.Flags().StringVar(&f.Target, "target", "", "target collection")
	cmd.Flags().BoolVar(&f.ConcurrentLoad, "concurrent-load", false, "load both collections in parallel")
	cmd.Flags().StringVar(&f.LogFile, "log-file", "", "append log output to this file")
	cmd.Flags().IntVar(&f.BatchSize, "batch-size", 0, "cursor batch size (0 = driver default)")
}

// resolve loads the configuration and applies the flags that were set.
// The result is not validated.
func (f *StoreFlags) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("store") {
		cfg.Store.URI = f.StoreURI
	}
	if flags.Changed("database") {
		cfg.Store.Database = f.Database
	}
	if flags.Changed("source") {
		cfg.Source = f.Source
	}
	if flags.Changed("target") {
		cfg.Target = f.Target
	}
	if flags.Changed("concurrent-load") {
		cfg.ConcurrentLoad = f.ConcurrentLoad
	}
	if flags.Changed("log-file") {
		cfg.Log.File = f.LogFile
	}
	if flags.Changed("batch-size") {
		cfg.Store.BatchSize = f.BatchSize
	}
	return cfg, nil
}

// newLogger builds the process logger for cfg. --verbose forces debug.
func newLogger(opts *RootOptions, cfg config.Config, w io.Writer) (*slog.Logger, func() error, error) {
	level, ok := logging.ParseLevel(cfg.Log.Level)
	if !ok {
		level = slog.LevelInfo
	}
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return logging.Setup(logging.Options{Level: level, File: cfg.Log.File, Stderr: w})
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
// Uses the command's context if available (for testing).
func signalContext(cmd *cobra.Command, logger *slog.Logger) (context.Context, context.CancelFunc) {
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

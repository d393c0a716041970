package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/docmerge/internal/config"
)

// ResolvedConfig is the configuration printed by validate.
type ResolvedConfig struct {
	Valid          bool   `json:"valid"`
	Error          string `json:"error,omitempty"`
	Backend        string `json:"backend,omitempty"`
	StoreURI       string `json:"store_uri"`
	Database       string `json:"database,omitempty"`
	Source         string `json:"source"`
	Target         string `json:"target"`
	ConcurrentLoad bool   `json:"concurrent_load"`
	ConnectTimeout string `json:"connect_timeout"`
	BatchSize      int    `json:"batch_size"`
	LoadEvery      int    `json:"load_every"`
	CheckEvery     int    `json:"check_every"`
	FoundEvery     int    `json:"found_every"`
	LogFile        string `json:"log_file,omitempty"`
	LogLevel       string `json:"log_level,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &StoreFlags{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Resolve and check the configuration without connecting",
		Long: `Resolve the configuration from defaults, --config, the environment and
flags, check it, and print the result. Passwords in the store URI are
redacted. The store is not contacted.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, flags, cmd)
		},
	}

	flags.register(cmd)

	return cmd
}

func runValidate(opts *RootOptions, flags *StoreFlags, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	cfg, err := flags.resolve(cmd)
	if err != nil {
		return failCommand(formatter, ErrCodeConfig, "invalid configuration", err)
	}

	resolved := resolve(cfg)
	validateErr := cfg.Validate()
	if validateErr != nil {
		resolved.Error = validateErr.Error()
	} else {
		resolved.Valid = true
	}

	if formatter.Format == "json" {
		if validateErr != nil {
			_ = formatter.Error(ErrCodeConfig, validateErr.Error(), resolved)
			return WrapExitError(ExitCommandError, "invalid configuration", validateErr)
		}
		return formatter.Success(resolved)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "store:           %s\n", resolved.StoreURI)
	if resolved.Backend != "" {
		fmt.Fprintf(w, "backend:         %s\n", resolved.Backend)
	}
	if resolved.Database != "" {
		fmt.Fprintf(w, "database:        %s\n", resolved.Database)
	}
	fmt.Fprintf(w, "source:          %s\n", resolved.Source)
	fmt.Fprintf(w, "target:          %s\n", resolved.Target)
	fmt.Fprintf(w, "concurrent load: %t\n", resolved.ConcurrentLoad)
	fmt.Fprintf(w, "connect timeout: %s\n", resolved.ConnectTimeout)
	fmt.Fprintf(w, "batch size:      %d\n", resolved.BatchSize)
	fmt.Fprintf(w, "progress:        load %d, check %d, found %d\n", resolved.LoadEvery, resolved.CheckEvery, resolved.FoundEvery)
	if resolved.LogFile != "" {
		fmt.Fprintf(w, "log file:        %s\n", resolved.LogFile)
	}

	if validateErr != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", validateErr)
	}
	fmt.Fprintln(w, "Configuration is valid.")
	return nil
}

func resolve(cfg config.Config) ResolvedConfig {
	r := ResolvedConfig{
		StoreURI:       config.Redact(cfg.Store.URI),
		Database:       cfg.Store.Database,
		Source:         cfg.Source,
		Target:         cfg.Target,
		ConcurrentLoad: cfg.ConcurrentLoad,
		ConnectTimeout: cfg.Store.ConnectTimeout.String(),
		BatchSize:      cfg.Store.BatchSize,
		LoadEvery:      cfg.Progress.LoadEvery,
		CheckEvery:     cfg.Progress.CheckEvery,
		FoundEvery:     cfg.Progress.FoundEvery,
		LogFile:        cfg.Log.File,
		LogLevel:       cfg.Log.Level,
	}
	if backend, err := cfg.Store.Backend(); err == nil {
		r.Backend = string(backend)
		if backend != config.BackendMongo {
			r.Database = ""
		}
	}
	return r
}

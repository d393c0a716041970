package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/docmerge/internal/config"
	"github.com/roach88/docmerge/internal/docstore"
	"github.com/roach88/docmerge/internal/logging"
	"github.com/roach88/docmerge/internal/reconcile"
)

// MergeOptions holds flags for the merge command.
type MergeOptions struct {
	*RootOptions
	StoreFlags
	DryRun bool

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs reconcile.RunIDGenerator
}

// MergeResult is the data payload of a merge in JSON output.
type MergeResult struct {
	Summary reconcile.Summary `json:"summary"`
}

// NewMergeCommand creates the merge command.
func NewMergeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MergeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Insert the documents the target is missing",
		Long: `Load the source and target collections, find every source document the
target does not hold, and insert them into the target in one bulk request.

Documents are compared by their full value: two documents with the same
signature but a different status are both kept. Running merge again
inserts nothing.

Settings come from defaults, then --config, then the environment
(SOURCE_COLLECTION, TARGET_COLLECTION, DOCMERGE_STORE_URI, ...), then flags.

Exit codes:
  0 - Success (including nothing to insert)
  2 - Invalid configuration
  3 - Store unreachable
  4 - Malformed document in a collection
  5 - Insert failed

Examples:
  docmerge merge --source sigs_new --target sigs
  docmerge merge --store sqlite://./sigs.db --source a --target b --dry-run
  docmerge merge --config docmerge.toml --log-file process_logs.txt`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(opts, cmd)
		},
	}

	opts.StoreFlags.register(cmd)
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "compute the delta without inserting it")

	return cmd
}

func runMerge(opts *MergeOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cfg, err := opts.StoreFlags.resolve(cmd)
	if err != nil {
		return failCommand(formatter, ErrCodeConfig, "invalid configuration", err)
	}
	if cmd.Flags().Changed("dry-run") {
		cfg.DryRun = opts.DryRun
	}
	if err := cfg.Validate(); err != nil {
		return failCommand(formatter, ErrCodeConfig, "invalid configuration", err)
	}

	logger, closeLog, err := newLogger(opts.RootOptions, cfg, cmd.ErrOrStderr())
	if err != nil {
		return failCommand(formatter, ErrCodeConfig, "failed to open log file", err)
	}
	defer closeLog()

	ctx, cancel := signalContext(cmd, logger)
	defer cancel()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return failRun(formatter, "failed to connect to store", err)
	}
	defer closeStore(st, logger)

	ropts := cfg.ReconcileOptions()
	ropts.Reporter = logging.Reporter(logger)
	ropts.RunIDs = opts.RunIDs

	r := reconcile.New(st.Collection(cfg.Source), st.Collection(cfg.Target), ropts)
	summary, err := r.Run(ctx)
	if err != nil {
		logger.Error("merge failed", "error", err, "run_id", summary.RunID)
		return failRun(formatter, "merge failed", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(MergeResult{Summary: summary})
	}

	w := cmd.OutOrStdout()
	switch {
	case summary.DryRun:
		fmt.Fprintf(w, "Dry run: %d new documents would be inserted into %q.\n", summary.Found, summary.Target)
	case summary.WriteSkipped:
		fmt.Fprintf(w, "Target %q is up to date.\n", summary.Target)
	default:
		fmt.Fprintf(w, "Inserted %d new documents into %q.\n", summary.Inserted, summary.Target)
	}
	formatter.VerboseLog("run %s: source %d/%d, target %d/%d (scanned/distinct)",
		summary.RunID, summary.SourceScanned, summary.SourceDistinct, summary.TargetScanned, summary.TargetDistinct)
	return nil
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (docstore.Store, error) {
	logger.Info("opening store", "uri", config.Redact(cfg.Store.URI), "database", cfg.Store.Database)
	st, err := OpenStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	logger.Debug("store ready")
	return st, nil
}

func closeStore(st docstore.Store, logger *slog.Logger) {
	if err := st.Close(context.Background()); err != nil {
		logger.Error("error closing store", "error", err)
	}
}

// failCommand reports a command error (exit code 2).
func failCommand(f *OutputFormatter, code, message string, err error) error {
	if f.Format == "json" {
		_ = f.Error(code, fmt.Sprintf("%s: %v", message, err), nil)
	}
	return WrapExitError(ExitCommandError, message, err)
}

// failRun reports a failed run with the exit code of its error class.
// Errors that carry no class are connectivity failures: they come from
// opening the store.
func failRun(f *OutputFormatter, message string, err error) error {
	exit := ExitCodeFor(err)
	code := ErrorCode(err)
	var details any

	var re *reconcile.Error
	if errors.As(err, &re) {
		details = map[string]any{
			"phase":      re.Phase,
			"side":       re.Side,
			"collection": re.Collection,
			"processed":  re.Processed,
		}
	} else {
		exit = ExitConnectivity
		code = ErrCodeConnectivity
	}

	if f.Format == "json" {
		_ = f.Error(code, fmt.Sprintf("%s: %v", message, err), details)
	}
	return WrapExitError(exit, message, err)
}

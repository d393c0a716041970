package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/docmerge/internal/logging"
	"github.com/roach88/docmerge/internal/reconcile"
	"github.com/roach88/docmerge/internal/record"
)

// DiffOptions holds flags for the diff command.
type DiffOptions struct {
	*RootOptions
	StoreFlags

	// RunIDs allows overriding the run id generator (for testing).
	RunIDs reconcile.RunIDGenerator
}

// DeltaEntry is one record of the delta as listed by diff.
type DeltaEntry struct {
	Signature   string        `json:"signature"`
	Fingerprint string        `json:"fingerprint"`
	Record      record.Record `json:"record"`
}

// DiffResult is the data payload of diff in JSON output.
type DiffResult struct {
	Summary reconcile.Summary `json:"summary"`
	Delta   []DeltaEntry      `json:"delta"`
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DiffOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "List the documents merge would insert",
		Long: `Load both collections and list every source document missing from the
target, one per line as signature and fingerprint. Nothing is written.

Example:
  docmerge diff --source sigs_new --target sigs
  docmerge diff --store sqlite://./sigs.db --source a --target b --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(opts, cmd)
		},
	}

	opts.StoreFlags.register(cmd)

	return cmd
}

func runDiff(opts *DiffOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cfg, err := opts.StoreFlags.resolve(cmd)
	if err != nil {
		return failCommand(formatter, ErrCodeConfig, "invalid configuration", err)
	}
	cfg.DryRun = true
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

	plan, err := reconcile.New(st.Collection(cfg.Source), st.Collection(cfg.Target), ropts).Plan(ctx)
	if err != nil {
		return failRun(formatter, "diff failed", err)
	}

	entries := make([]DeltaEntry, 0, len(plan.Delta))
	for _, r := range plan.Delta {
		fp, err := r.Fingerprint()
		if err != nil {
			return WrapExitError(ExitFailure, "failed to fingerprint record", err)
		}
		entries = append(entries, DeltaEntry{Signature: r.Signature, Fingerprint: fp, Record: r})
	}

	if formatter.Format == "json" {
		return formatter.Success(DiffResult{Summary: plan.Summary, Delta: entries})
	}

	w := cmd.OutOrStdout()
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\n", e.Signature, e.Fingerprint)
	}
	fmt.Fprintf(w, "%d new documents (source %q, target %q)\n", len(entries), plan.Summary.Source, plan.Summary.Target)
	return nil
}

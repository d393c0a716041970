package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/docmerge/internal/config"
	"github.com/roach88/docmerge/internal/record"
	"github.com/roach88/docmerge/internal/store"
	"github.com/roach88/docmerge/internal/testutil"
)

var (
	recA = record.Record{Signature: "sig-a", Slot: record.Int(100), ConfirmationStatus: record.String("finalized")}
	recB = record.Record{Signature: "sig-b", Slot: record.Int(101), Err: record.String("InstructionError")}
	recC = record.Record{Signature: "sig-c", Memo: record.String("hello")}
)

// clearEnv blanks every variable config.Load reads so the host
// environment cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		config.EnvStoreURI, config.EnvMongoURI, config.EnvDatabase,
		config.EnvSource, config.EnvTarget, config.EnvConcurrentLoad,
		config.EnvConnectTimeout, config.EnvBatchSize,
		config.EnvLogFile, config.EnvLogLevel,
	} {
		t.Setenv(name, "")
	}
}

// seedDB creates a SQLite database holding source and target.
func seedDB(t *testing.T, source, target []record.Record) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docs.db")

	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close(context.Background())

	ctx := context.Background()
	require.NoError(t, testutil.Seed(ctx, st.Collection("incoming"), source...))
	require.NoError(t, testutil.Seed(ctx, st.Collection("sigs"), target...))
	return path
}

// countDocs returns how many documents a collection of the database holds.
func countDocs(t *testing.T, path, collection string) int {
	t.Helper()
	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close(context.Background())

	n, err := st.Count(context.Background(), collection)
	require.NoError(t, err)
	return n
}

// execute runs cmd with args and returns stdout, stderr and the error.
func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

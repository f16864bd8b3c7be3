package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/abacus/internal/testutil"
)

var abacusEnv = []string{
	"ABACUS_PLUGIN_DIR",
	"ABACUS_PLUGIN_WATCH",
	"ABACUS_PLUGIN_MODE",
	"ABACUS_HISTORY_FILE",
	"ABACUS_HISTORY_AUTOSAVE",
	"ABACUS_LOG_LEVEL",
}

// newTestOptions isolates a command from the environment and pins its clock
// and session id.
func newTestOptions(t *testing.T, format, historyFile string) *RootOptions {
	t.Helper()
	for _, env := range abacusEnv {
		t.Setenv(env, "")
		require.NoError(t, os.Unsetenv(env))
	}
	return &RootOptions{
		Format:      format,
		HistoryFile: historyFile,
		Clock:       testutil.NewFakeClock(),
		SessionIDs:  testutil.NewFixedIDGenerator("cli-test"),
	}
}

// run executes cmd with args and returns its stdout.
func run(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// copyFixture copies testdata/name into a temp dir so commands may rewrite it.
func copyFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

var fixturePath = filepath.Join("testdata", "history_fixture.csv")

var cuePluginDir = filepath.Join("..", "..", "plugins", "cue")

package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/primetrain/primetrain/internal/adapters/inbound/cli"
	"github.com/stretchr/testify/require"
)

const fixtures = "../../../../testdata/configs"

// fixture copies a config from testdata into a temp dir so runs never
// write history next to the shared fixtures.
func fixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(fixtures, name))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

// run executes the root command with an empty settings dir and returns
// stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := cli.NewRootCmdForTest()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--settings-dir", t.TempDir()}, args...))
	err := root.Execute()
	return out.String(), err
}

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datatrail-labs/sqlcol/internal/cli/config"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "sqlcol", cmd.Use)

	subs := map[string]bool{}
	for _, c := range cmd.Commands() {
		subs[c.Name()] = true
	}
	for _, name := range []string{"extract", "watch", "dialects", "version", "completion"} {
		assert.True(t, subs[name], "missing subcommand %q", name)
	}

	for _, flag := range []string{
		"config", "dialect", "multi-dialect", "resolve-unqualified",
		"unqualified-fallback", "output", "out-file", "workers", "verbose",
	} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRootCmdExtract(t *testing.T) {
	t.Cleanup(config.ResetConfig)
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "q.sql"),
		[]byte("SELECT a FROM t"), 0o644))

	cmd := NewRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"extract", "-o", "csv", dir})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "q,Default,t.a")
}

func TestRootCmdRejectsUnknownDialect(t *testing.T) {
	t.Cleanup(config.ResetConfig)
	chdir(t, t.TempDir())

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"extract", "-d", "db2"})

	assert.Error(t, cmd.Execute())
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })
}

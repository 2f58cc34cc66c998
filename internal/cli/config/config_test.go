package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datatrail-labs/sqlcol/pkg/extract"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Cleanup(ResetConfig)
	chdir(t, t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Empty(t, cfg.Dialect)
	assert.True(t, cfg.MultiDialect)
	assert.True(t, cfg.ResolveUnqualified)
	assert.Equal(t, DefaultFallback, cfg.UnqualifiedFallback)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, DefaultOutFile, cfg.OutFile)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, GetConfigFileUsed())
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Cleanup(ResetConfig)
	dir := t.TempDir()
	chdir(t, dir)

	yaml := "dialect: tsql\nworkers: 2\nunqualified_fallback: first-table\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sqlcol.yaml"), []byte(yaml), 0o644))

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "tsql", cfg.Dialect)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "first-table", cfg.UnqualifiedFallback)
	assert.Equal(t, "sqlcol.yaml", GetConfigFileUsed())
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	t.Cleanup(ResetConfig)
	dir := t.TempDir()
	chdir(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "sqlcol.yaml"),
		[]byte("dialect: tsql\n"), 0o644))
	t.Setenv("SQLCOL_DIALECT", "postgres")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Dialect)
}

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	t.Cleanup(ResetConfig)
	chdir(t, t.TempDir())
	t.Setenv("SQLCOL_DIALECT", "postgres")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("dialect", "", "")
	flags.Int("workers", DefaultWorkers, "")
	require.NoError(t, flags.Parse([]string{"--dialect", "mysql"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Dialect)
	// Unchanged flags must not clobber lower layers.
	assert.Equal(t, DefaultWorkers, cfg.Workers)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown dialect", "dialect: db2\n"},
		{"unknown fallback", "unqualified_fallback: guess\n"},
		{"unknown output", "output: xml\n"},
		{"negative workers", "workers: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(ResetConfig)
			dir := t.TempDir()
			chdir(t, dir)
			require.NoError(t, os.WriteFile(filepath.Join(dir, "sqlcol.yaml"),
				[]byte(tt.yaml), 0o644))

			_, err := LoadConfig("", nil)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigAcceptsDialectAlias(t *testing.T) {
	t.Cleanup(ResetConfig)
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sqlcol.yaml"),
		[]byte("dialect: mssql\n"), 0o644))

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "mssql", cfg.Dialect)
}

func TestExtractOptions(t *testing.T) {
	cfg := &Config{
		Dialect:             "tsql",
		MultiDialect:        false,
		ResolveUnqualified:  true,
		UnqualifiedFallback: "first-table",
	}

	opts := cfg.ExtractOptions()
	assert.Equal(t, "tsql", opts.Dialect)
	assert.False(t, opts.MultiDialect)
	assert.True(t, opts.ResolveUnqualified)
	assert.Equal(t, extract.FallbackFirstTable, opts.UnqualifiedFallback)
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

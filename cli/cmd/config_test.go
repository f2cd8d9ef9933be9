package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlags(t *testing.T, args ...string) *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addGlobalFlags(flags)
	require.NoError(t, flags.Parse(args))
	return flags
}

func writeConfig(t *testing.T, dir, content string) {
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(content), 0o644))
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig(testFlags(t))
		require.NoError(t, err)
		assert.Equal(t, ".", cfg.Directory)
		assert.Equal(t, "warning", cfg.LogLevel)
		assert.Equal(t, "yaml", cfg.Format)
		assert.Empty(t, cfg.Dialect)
		assert.Empty(t, cfg.Tags)
	})

	t.Run("config file in directory", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "dialect: mariadb-10.5\nsql_mode: ANSI\ntags: [prod, eu]\n")

		cfg, err := LoadConfig(testFlags(t, "-d", dir))
		require.NoError(t, err)
		assert.Equal(t, dir, cfg.Directory)
		assert.Equal(t, "mariadb-10.5", cfg.Dialect)
		assert.Equal(t, "ANSI", cfg.SQLMode)
		assert.Equal(t, []string{"prod", "eu"}, cfg.Tags)
		assert.Equal(t, filepath.Join(dir, configFileName), cfg.configFile)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "dialect: mariadb-10.5\ndelimiter: $$\n")
		t.Setenv("SQLSYNTAX_DIALECT", "mysql-5.7")
		t.Setenv("SQLSYNTAX_TAGS", "a,b")

		cfg, err := LoadConfig(testFlags(t, "-d", dir))
		require.NoError(t, err)
		assert.Equal(t, "mysql-5.7", cfg.Dialect)
		assert.Equal(t, "$$", cfg.Delimiter)
		assert.Equal(t, []string{"a", "b"}, cfg.Tags)
	})

	t.Run("flags override environment", func(t *testing.T) {
		t.Setenv("SQLSYNTAX_DIALECT", "mysql-5.7")
		t.Setenv("SQLSYNTAX_LOG_LEVEL", "debug")

		cfg, err := LoadConfig(testFlags(t, "--dialect", "mariadb", "--sql-mode", "ANSI_QUOTES", "-t", "x", "-t", "y"))
		require.NoError(t, err)
		assert.Equal(t, "mariadb", cfg.Dialect)
		assert.Equal(t, "ANSI_QUOTES", cfg.SQLMode)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, []string{"x", "y"}, cfg.Tags)
	})

	t.Run("explicit config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "other.yaml")
		require.NoError(t, os.WriteFile(path, []byte("format: repr\n"), 0o644))

		cfg, err := LoadConfig(testFlags(t, "--config", path))
		require.NoError(t, err)
		assert.Equal(t, "repr", cfg.Format)

		_, err = LoadConfig(testFlags(t, "--config", filepath.Join(dir, "missing.yaml")))
		assert.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "dialect: [unclosed\n")
		_, err := LoadConfig(testFlags(t, "-d", dir))
		assert.Error(t, err)
	})
}

func TestConfigOptions(t *testing.T) {
	cfg := Config{Dialect: "mariadb", SQLMode: "ANSI", Delimiter: "//", Tags: []string{"prod"}}
	opts := cfg.Options(true)
	assert.Equal(t, "mariadb", opts.Dialect)
	assert.Equal(t, "ANSI", opts.SQLMode)
	assert.Equal(t, "//", opts.Delimiter)
	assert.Equal(t, []string{"prod"}, opts.IncludeTags)
	assert.True(t, opts.PartialParseResults)
}

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags undoes what earlier runs of rootCmd left in the flag sets.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeTree(t *testing.T, files map[string]string) string {
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestLexCommand(t *testing.T) {
	out, err := run(t, "SELECT 1;", "lex")
	require.NoError(t, err)
	assert.Contains(t, out, "1:1\tKeywordToken\t\"SELECT\"\n")
	assert.Contains(t, out, "1:8\tNumberToken\t\"1\"\n")
	assert.NotContains(t, out, "WhitespaceToken")

	out, err = run(t, "SELECT 1", "lex", "--all", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "1:7\tWhitespaceToken\t\" \"\n")

	out, err = run(t, "SELECT 'abc", "lex")
	require.NoError(t, err)
	assert.Contains(t, out, "[UnterminatedQuote]")
}

func TestParseCommand(t *testing.T) {
	out, err := run(t, "USE app", "parse")
	require.NoError(t, err)
	assert.Contains(t, out, "keyword: USE")
	assert.Contains(t, out, "database: app")

	out, err = run(t, "USE app", "parse", "--format", "repr")
	require.NoError(t, err)
	assert.Contains(t, out, "UseStatement{")

	_, err = run(t, "USE app", "parse", "--format", "json")
	assert.Error(t, err)

	dir := writeTree(t, map[string]string{"q.sql": "DELETE FROM t RETURNING id"})
	out, err = run(t, "", "parse", "--dialect", "mariadb-10.5", filepath.Join(dir, "q.sql"))
	require.NoError(t, err)
	assert.NotContains(t, out, "diagnostics:")
}

func TestCheckCommand(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"ok.sql":         "SELECT 1;\n",
		"sub/broken.sql": "SELECT 2;\nSELEKT 1;\n",
		".hidden/x.sql":  "nonsense",
	})

	out, err := run(t, "", "check", "-d", dir)
	require.Error(t, err)
	assert.Equal(t, "sub/broken.sql:2:1: Unrecognized statement type. [UnrecognizedStatement]", firstLine(out))

	out, err = run(t, "", "check", filepath.Join(dir, "ok.sql"))
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = run(t, "", "check", filepath.Join(dir, "ok.sql"), filepath.Join(dir, "sub", "broken.sql"))
	require.Error(t, err)
	assert.Equal(t, "broken.sql:2:1: Unrecognized statement type. [UnrecognizedStatement]", firstLine(out))

	_, err = run(t, "", "check", filepath.Join(dir, "missing.sql"))
	assert.Error(t, err)

	_, err = run(t, "", "check", "--dialect", "oracle", filepath.Join(dir, "ok.sql"))
	assert.Error(t, err)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func TestDepCommand(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.sql": "USE app;\nSELECT 1;\n",
	})
	out, err := run(t, "", "dep", "-d", dir)
	require.NoError(t, err)
	assert.Equal(t, "a.sql:\n  1:1 Use\n  2:1 Select\n\n", out)

	out, err = run(t, "", "dep", "-d", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "No SQL files found in given paths\n", out)
}

func TestHashCommand(t *testing.T) {
	a := writeTree(t, map[string]string{"a.sql": "SELECT a FROM t;"})
	b := writeTree(t, map[string]string{"a.sql": "-- listing\nSELECT   a\nFROM t;"})

	outA, err := run(t, "", "hash", "-d", a)
	require.NoError(t, err)
	outB, err := run(t, "", "hash", "-d", b)
	require.NoError(t, err)
	assert.Equal(t, outA, outB)
	assert.Len(t, strings.TrimSpace(outA), 12)
}

func TestDialectsCommand(t *testing.T) {
	out, err := run(t, "", "dialects")
	require.NoError(t, err)
	assert.Contains(t, out, "mysql-8.0.0 (latest)")
	assert.Contains(t, out, "mariadb-10.6.0 (latest)")
	assert.Contains(t, out, "MySql50700")
	assert.NotContains(t, out, "START TRANSACTION")

	out, err = run(t, "", "dialects", "--commands")
	require.NoError(t, err)
	assert.Contains(t, out, "\nSTART TRANSACTION\n")

	out, err = run(t, "", "dialects", "--keywords", "--dialect", "mariadb-10.5")
	require.NoError(t, err)
	assert.Contains(t, out, "\nRETURNING\n")
}

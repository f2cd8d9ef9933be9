package sqlsyntax

import (
	"testing"
	"testing/fstest"

	"github.com/gofrs/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vippsas/sqlsyntax/sqlparser/dialect"
	"github.com/vippsas/sqlsyntax/sqlparser/mysql"
	"github.com/vippsas/sqlsyntax/sqlparser/sqldocument"
)

func TestNewSession(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		s, err := NewSession(Options{})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, s.ID)
		assert.Equal(t, dialect.Latest(dialect.MySQL), s.Context().Spec())
		assert.Equal(t, ";", s.Context().Delimiter())
	})

	t.Run("configured", func(t *testing.T) {
		s, err := NewSession(Options{Dialect: "mariadb-10.3", SQLMode: "ANSI,STRICT_TRANS_TABLES", Delimiter: "$$"})
		require.NoError(t, err)
		assert.Equal(t, dialect.Spec{Engine: dialect.MariaDB, Version: 100300}, s.Context().Spec())
		assert.True(t, s.Context().HasMode(dialect.ModeAnsiQuotes))
		assert.Equal(t, "$$", s.Context().Delimiter())
	})

	t.Run("sessions do not share contexts", func(t *testing.T) {
		a := MustNewSession(Options{SQLMode: "ANSI_QUOTES"})
		b := MustNewSession(Options{})
		assert.NotEqual(t, a.ID, b.ID)
		assert.False(t, b.Context().HasMode(dialect.ModeAnsiQuotes))
	})

	testcases := []struct {
		name string
		opts Options
	}{
		{"unknown dialect", Options{Dialect: "oracle"}},
		{"bad mode", Options{SQLMode: "ANSI QUOTES"}},
		{"bad delimiter", Options{Delimiter: "a b"}},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSession(tc.opts)
			assert.Error(t, err)
		})
	}
}

func TestLexAndParse(t *testing.T) {
	s := MustNewSession(Options{})
	stream, lexDiags := s.Lex("USE app; SELECT 1")
	assert.Empty(t, lexDiags)
	statements, diags := s.Parse(stream)
	assert.Empty(t, diags)
	require.Len(t, statements, 2)
	assert.Equal(t, "Use", mysql.StatementType(statements[0]))
}

func TestAnalyze(t *testing.T) {
	t.Run("clean", func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		logger.SetLevel(logrus.DebugLevel)
		s := MustNewSession(Options{Logger: logger})

		result, err := s.Analyze("a.sql", "SELECT 1;")
		require.NoError(t, err)
		assert.Equal(t, s.ID, result.Session)
		assert.Equal(t, []string{"a.sql"}, result.Files)
		assert.Len(t, result.Document.Statements, 1)
		assert.Len(t, result.Fingerprint, 12)

		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, "analyzed", hook.LastEntry().Message)
		assert.Equal(t, s.ID.String(), hook.LastEntry().Data["session"])
		assert.Equal(t, 1, hook.LastEntry().Data["statements"])
	})

	t.Run("diagnostics are an error", func(t *testing.T) {
		s := MustNewSession(Options{})
		result, err := s.Analyze("a.sql", "PURGE LOGS TO 'x'")
		require.Error(t, err)
		var perr ParseErrors
		require.ErrorAs(t, err, &perr)
		require.Len(t, perr.Diagnostics, 1)
		assert.False(t, perr.HasFatal())
		assert.Equal(t, "sqlsyntax syntax error:\n\na.sql:1:7: Missing BINARY | MASTER clause.\n", err.Error())
		require.NotNil(t, result)
		assert.Len(t, result.Document.Statements, 1)
	})

	t.Run("partial results", func(t *testing.T) {
		s := MustNewSession(Options{PartialParseResults: true})
		result, err := s.Analyze("a.sql", "SELECT 'unterminated")
		require.NoError(t, err)
		assert.True(t, result.Document.HasFatal())
	})
}

func TestFingerprint(t *testing.T) {
	s := MustNewSession(Options{})
	a, err := s.Analyze("a.sql", "SELECT a FROM t;")
	require.NoError(t, err)
	b, err := s.Analyze("b.sql", "-- comment\nSELECT  a\nFROM t;")
	require.NoError(t, err)
	c, err := s.Analyze("c.sql", "SELECT b FROM t;")
	require.NoError(t, err)

	assert.Equal(t, a.Fingerprint, b.Fingerprint)
	assert.NotEqual(t, a.Fingerprint, c.Fingerprint)
}

func TestAnalyzeFS(t *testing.T) {
	fsys := fstest.MapFS{
		"schema/maintenance.sql": &fstest.MapFile{Data: []byte("OPTIMIZE TABLE orders;\nANALYZE TABLE orders;\n")},
		"schema/cleanup.sql":     &fstest.MapFile{Data: []byte("-- sqlsyntax:include-if prod\nPURGE BINARY LOGS BEFORE NOW();\n")},
	}

	result, err := AnalyzeFS(Options{}, fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"fs[0]:schema/maintenance.sql"}, result.Files)
	assert.Len(t, result.Document.Statements, 2)

	result, err = AnalyzeFS(Options{IncludeTags: []string{"prod"}}, fsys)
	require.NoError(t, err)
	assert.Len(t, result.Files, 2)
	assert.Len(t, result.Document.Statements, 3)

	_, err = AnalyzeFS(Options{}, fstest.MapFS{
		"broken.sql": &fstest.MapFile{Data: []byte("SELEKT 1;")},
	})
	var perr ParseErrors
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, sqldocument.UnrecognizedStatement, perr.Diagnostics[0].Kind)

	assert.Panics(t, func() {
		MustAnalyzeFS(Options{Dialect: "oracle"}, fsys)
	})
}

package mysql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vippsas/sqlsyntax/sqlparser/dialect"
	"github.com/vippsas/sqlsyntax/sqlparser/sqldocument"
)

type tok struct {
	Type sqldocument.TokenType
	Raw  string
}

// lex tokenizes input with the latest MySQL and returns type and raw text
// of every token.
func lex(t *testing.T, ctx *dialect.Context, input string) ([]tok, []sqldocument.Diagnostic) {
	t.Helper()
	if ctx == nil {
		ctx = dialect.Default()
	}
	stream, diags := Tokenize(input, ctx)
	var result []tok
	for _, tk := range stream.Tokens() {
		result = append(result, tok{tk.Type, tk.Raw})
	}
	return result, diags
}

func significantTokens(stream *sqldocument.TokenStream) []sqldocument.Token {
	var result []sqldocument.Token
	for _, tk := range stream.Tokens() {
		if !tk.IsIgnorable() {
			result = append(result, tk)
		}
	}
	return result
}

func mustLoad(t *testing.T, spec string) *dialect.Context {
	t.Helper()
	ctx, err := dialect.LoadString(spec)
	require.NoError(t, err)
	return ctx
}

func TestScanner_SimpleTokens(t *testing.T) {
	tokens, diags := lex(t, nil, "SELECT `a`, 'b' FROM t;")
	assert.Empty(t, diags)
	assert.Equal(t, []tok{
		{sqldocument.KeywordToken, "SELECT"},
		{sqldocument.WhitespaceToken, " "},
		{sqldocument.QuotedIdentifierToken, "`a`"},
		{sqldocument.PunctuationToken, ","},
		{sqldocument.WhitespaceToken, " "},
		{sqldocument.StringToken, "'b'"},
		{sqldocument.WhitespaceToken, " "},
		{sqldocument.KeywordToken, "FROM"},
		{sqldocument.WhitespaceToken, " "},
		{sqldocument.IdentifierToken, "t"},
		{sqldocument.DelimiterToken, ";"},
	}, tokens)
}

func TestScanner_RoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"   \t\n  ",
		"SELECT * FROM `order` WHERE id = 1;",
		"select a.b, c->'$.d' from t1 join t2 on t1.x = t2.y; # trailing",
		"INSERT INTO t VALUES (N'x', X'1F', B'01', _utf8mb4'ü', 0x1F, .5e-3);",
		"/*!50100 SELECT 1 */; /* plain */ -- line\n",
		"DELIMITER $$\nCREATE PROCEDURE p() BEGIN SELECT 1; END$$\nDELIMITER ;\n",
		"SELECT 'unterminated",
		"SELECT /* unterminated",
		"SELECT § \xff 1.2.3 0x 1e+ X'GG';",
		"SET @a := 1, @@global.sql_mode = 'x', @'quoted var' = ?;",
		"SELECT \"double\" FROM t WHERE x = :param",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			stream, _ := Tokenize(input, dialect.Default())
			assert.Equal(t, input, stream.String())
		})
	}
}

func TestScanner_Idempotent(t *testing.T) {
	input := "SELECT a, 'b''c' FROM t WHERE x -> '$.y' /* c */;\nSHOW TABLES"
	ctx := dialect.Default()
	s1, d1 := Tokenize(input, ctx)
	s2, d2 := Tokenize(input, ctx)
	assert.Equal(t, s1.Tokens(), s2.Tokens())
	assert.Equal(t, d1, d2)
}

func TestScanner_QuotingMode(t *testing.T) {
	ctx := dialect.Default()
	stream, diags := Tokenize(`"a""b"`, ctx)
	require.Empty(t, diags)
	tokens := stream.Tokens()
	require.Len(t, tokens, 1)
	assert.Equal(t, sqldocument.StringToken, tokens[0].Type)
	assert.Equal(t, `a"b`, tokens[0].Value)
	assert.True(t, tokens[0].Flags.Has(sqldocument.FlagDoubleQuotes))

	ctx.SetMode(dialect.ModeAnsiQuotes)
	stream, diags = Tokenize(`"a""b"`, ctx)
	require.Empty(t, diags)
	tokens = stream.Tokens()
	require.Len(t, tokens, 1)
	assert.Equal(t, sqldocument.QuotedIdentifierToken, tokens[0].Type)
	assert.Equal(t, `a"b`, tokens[0].Value)
	assert.True(t, tokens[0].Flags.Has(sqldocument.FlagAnsiQuoted))

	// switching the mode back restores the original classification
	ctx.SetMode(0)
	stream, _ = Tokenize(`"a""b"`, ctx)
	assert.Equal(t, sqldocument.StringToken, stream.Tokens()[0].Type)
}

func TestScanner_Escapes(t *testing.T) {
	ctx := dialect.Default()
	stream, _ := Tokenize(`'a\nb\'c\%'`, ctx)
	assert.Equal(t, "a\nb'c\\%", stream.Tokens()[0].Value)

	ctx.SetMode(dialect.ModeNoBackslashEscapes)
	stream, _ = Tokenize(`'a\nb'`, ctx)
	assert.Equal(t, `a\nb`, stream.Tokens()[0].Value)
}

func TestScanner_Numbers(t *testing.T) {
	tests := []struct {
		input     string
		tokenType sqldocument.TokenType
		flags     sqldocument.Flags
		malformed bool
	}{
		{"1", sqldocument.NumberToken, 0, false},
		{"1.5", sqldocument.NumberToken, sqldocument.FlagFloat, false},
		{".5", sqldocument.NumberToken, sqldocument.FlagFloat, false},
		{"1e10", sqldocument.NumberToken, sqldocument.FlagApproximate, false},
		{"1.5e+3", sqldocument.NumberToken, sqldocument.FlagFloat | sqldocument.FlagApproximate, false},
		{"0x1F", sqldocument.NumberToken, sqldocument.FlagHex, false},
		{"0b101", sqldocument.NumberToken, sqldocument.FlagBinary, false},
		{"1abc", sqldocument.IdentifierToken, 0, false},
		{"1.2.3", sqldocument.NumberToken, 0, true},
		{"0x", sqldocument.NumberToken, 0, true},
		{"1e+", sqldocument.NumberToken, 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			stream, diags := Tokenize(tc.input, dialect.Default())
			tokens := stream.Tokens()
			require.Len(t, tokens, 1)
			assert.Equal(t, tc.tokenType, tokens[0].Type)
			assert.Equal(t, tc.flags, tokens[0].Flags)
			if tc.malformed {
				require.Len(t, diags, 1)
				assert.Equal(t, sqldocument.MalformedNumber, diags[0].Kind)
				assert.Equal(t, tc.input, diags[0].Char)
			} else {
				assert.Empty(t, diags)
			}
		})
	}
}

func TestScanner_NumberFollowedByWord(t *testing.T) {
	tokens, diags := lex(t, nil, "1.5abc")
	assert.Empty(t, diags)
	assert.Equal(t, []tok{
		{sqldocument.NumberToken, "1.5"},
		{sqldocument.IdentifierToken, "abc"},
	}, tokens)
}

func TestScanner_Comments(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []tok
		flags    sqldocument.Flags
	}{
		{
			name:  "dash dash",
			input: "-- x\n",
			expected: []tok{
				{sqldocument.CommentToken, "-- x"},
				{sqldocument.WhitespaceToken, "\n"},
			},
			flags: sqldocument.FlagLineComment,
		},
		{
			name:     "dash dash at end of input",
			input:    "--",
			expected: []tok{{sqldocument.CommentToken, "--"}},
			flags:    sqldocument.FlagLineComment,
		},
		{
			name:     "hash",
			input:    "#x",
			expected: []tok{{sqldocument.CommentToken, "#x"}},
			flags:    sqldocument.FlagHashComment,
		},
		{
			name:     "block",
			input:    "/* a\nb */",
			expected: []tok{{sqldocument.CommentToken, "/* a\nb */"}},
			flags:    sqldocument.FlagBlockComment,
		},
		{
			name:  "dash dash without space is two minus",
			input: "--x",
			expected: []tok{
				{sqldocument.OperatorToken, "-"},
				{sqldocument.OperatorToken, "-"},
				{sqldocument.IdentifierToken, "x"},
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stream, diags := Tokenize(tc.input, dialect.Default())
			assert.Empty(t, diags)
			var tokens []tok
			for _, tk := range stream.Tokens() {
				tokens = append(tokens, tok{tk.Type, tk.Raw})
			}
			assert.Equal(t, tc.expected, tokens)
			if tc.flags != 0 {
				assert.Equal(t, tc.flags, stream.Tokens()[0].Flags)
			}
		})
	}
}

func TestScanner_ExecutableComment(t *testing.T) {
	tokens, diags := lex(t, nil, "/*!50100 SELECT 1 */")
	assert.Empty(t, diags)
	assert.Equal(t, []tok{
		{sqldocument.CommentToken, "/*!50100"},
		{sqldocument.WhitespaceToken, " "},
		{sqldocument.KeywordToken, "SELECT"},
		{sqldocument.WhitespaceToken, " "},
		{sqldocument.NumberToken, "1"},
		{sqldocument.WhitespaceToken, " "},
		{sqldocument.CommentToken, "*/"},
	}, tokens)

	stream, _ := Tokenize("/*M!100100 KILL 1 */", dialect.Default())
	first := stream.Tokens()[0]
	assert.Equal(t, "/*M!100100", first.Raw)
	assert.True(t, first.Flags.Has(sqldocument.FlagExecutableComment))

	_, diags = lex(t, nil, "/*!50100 SELECT 1")
	require.Len(t, diags, 1)
	assert.Equal(t, sqldocument.UnterminatedComment, diags[0].Kind)
	assert.Equal(t, 0, diags[0].Pos.Offset)
}

func TestScanner_UnterminatedIsFatal(t *testing.T) {
	tests := []struct {
		input   string
		kind    sqldocument.DiagnosticKind
		message string
		last    string
	}{
		{"SELECT 'abc", sqldocument.UnterminatedQuote, "Ending quote ' was expected.", "'abc"},
		{"SELECT `abc", sqldocument.UnterminatedQuote, "Ending quote ` was expected.", "`abc"},
		{"SELECT /* abc", sqldocument.UnterminatedComment, "Unterminated comment.", "/* abc"},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			stream, diags := Tokenize(tc.input, dialect.Default())
			require.Len(t, diags, 1)
			assert.Equal(t, tc.kind, diags[0].Kind)
			assert.Equal(t, tc.message, diags[0].Message)
			assert.True(t, diags[0].IsFatal())
			assert.Equal(t, 7, diags[0].Pos.Offset)

			tokens := stream.Tokens()
			last := tokens[len(tokens)-1]
			assert.Equal(t, tc.last, last.Raw)
			assert.True(t, last.Flags.Has(sqldocument.FlagUnterminated))
			assert.Equal(t, tc.input, stream.String())
		})
	}
}

func TestScanner_InvalidCharacters(t *testing.T) {
	stream, diags := Tokenize("SELECT § \xff;", dialect.Default())
	require.Len(t, diags, 2)
	assert.Equal(t, sqldocument.InvalidCharacter, diags[0].Kind)
	assert.Equal(t, "§", diags[0].Char)
	assert.Equal(t, 7, diags[0].Pos.Offset)
	assert.False(t, diags[0].IsFatal())
	assert.Equal(t, "\xff", diags[1].Char)

	var none []string
	for _, tk := range stream.Tokens() {
		if tk.Type == sqldocument.NoneToken {
			none = append(none, tk.Raw)
		}
	}
	assert.Equal(t, []string{"§", "\xff"}, none)
	// lexing continued after both
	assert.Equal(t, sqldocument.DelimiterToken, stream.Tokens()[stream.Len()-1].Type)
}

func TestScanner_VariablesAndParameters(t *testing.T) {
	stream, diags := Tokenize("@a @'b c' @@global.x ? :name", dialect.Default())
	require.Empty(t, diags)
	tokens := significantTokens(stream)
	require.Len(t, tokens, 5)

	assert.Equal(t, sqldocument.SymbolToken, tokens[0].Type)
	assert.Equal(t, "a", tokens[0].Value)
	assert.True(t, tokens[0].Flags.Has(sqldocument.FlagUserVariable))
	assert.Equal(t, "b c", tokens[1].Value)
	assert.Equal(t, "global.x", tokens[2].Value)
	assert.True(t, tokens[2].Flags.Has(sqldocument.FlagSystemVariable))
	assert.Equal(t, sqldocument.ParameterToken, tokens[3].Type)
	assert.Equal(t, "?", tokens[3].Value)
	assert.Equal(t, sqldocument.ParameterToken, tokens[4].Type)
	assert.Equal(t, "name", tokens[4].Value)
}

func TestScanner_Introducers(t *testing.T) {
	stream, diags := Tokenize("N'x' X'1F' B'01' _utf8mb4'y'", dialect.Default())
	require.Empty(t, diags)
	tokens := significantTokens(stream)
	require.Len(t, tokens, 4)
	for _, tk := range tokens {
		assert.Equal(t, sqldocument.StringToken, tk.Type, tk.Raw)
		assert.True(t, tk.Flags.Has(sqldocument.FlagIntroducer), tk.Raw)
	}
	assert.Equal(t, "x", tokens[0].Value)
	assert.True(t, tokens[1].Flags.Has(sqldocument.FlagHex))
	assert.True(t, tokens[2].Flags.Has(sqldocument.FlagBinary))
	assert.Equal(t, "y", tokens[3].Value)

	_, diags = Tokenize("X'1G'", dialect.Default())
	require.Len(t, diags, 1)
	assert.Equal(t, sqldocument.MalformedNumber, diags[0].Kind)
}

func TestScanner_KeywordPhrases(t *testing.T) {
	stream, _ := Tokenize("select a from t order \n by a", dialect.Default())
	tokens := significantTokens(stream)
	last := tokens[len(tokens)-2]
	assert.Equal(t, sqldocument.KeywordToken, last.Type)
	assert.Equal(t, "ORDER BY", last.Keyword)
	assert.Equal(t, "order \n by", last.Raw)
	assert.True(t, last.Flags.Has(sqldocument.FlagComposed|sqldocument.FlagReserved))

	assert.Equal(t, "SELECT", tokens[0].Keyword)
	assert.Equal(t, "select", tokens[0].Raw)
}

func TestScanner_QualifiedNamesAreIdentifiers(t *testing.T) {
	stream, _ := Tokenize("t.select", dialect.Default())
	tokens := stream.Tokens()
	require.Len(t, tokens, 3)
	assert.Equal(t, sqldocument.IdentifierToken, tokens[0].Type)
	assert.Equal(t, sqldocument.PunctuationToken, tokens[1].Type)
	assert.Equal(t, sqldocument.IdentifierToken, tokens[2].Type)
	assert.Equal(t, "select", tokens[2].Value)
}

func TestScanner_VersionGatedOperators(t *testing.T) {
	tokens, _ := lex(t, mustLoad(t, "mysql-5.6"), "a->b")
	assert.Equal(t, []tok{
		{sqldocument.IdentifierToken, "a"},
		{sqldocument.OperatorToken, "-"},
		{sqldocument.OperatorToken, ">"},
		{sqldocument.IdentifierToken, "b"},
	}, tokens)

	tokens, _ = lex(t, mustLoad(t, "mysql-8.0"), "a->>b")
	assert.Equal(t, []tok{
		{sqldocument.IdentifierToken, "a"},
		{sqldocument.OperatorToken, "->>"},
		{sqldocument.IdentifierToken, "b"},
	}, tokens)
}

func TestScanner_Positions(t *testing.T) {
	stream, _ := TokenizeFile("q.sql", "SELECT\n  å, b", dialect.Default())
	tokens := significantTokens(stream)
	require.Len(t, tokens, 4)
	assert.Equal(t, sqldocument.Pos{File: "q.sql", Offset: 9, Line: 2, Col: 3}, tokens[1].Pos)
	assert.Equal(t, sqldocument.Pos{File: "q.sql", Offset: 11, Line: 2, Col: 4}, tokens[2].Pos)
	assert.Equal(t, sqldocument.Pos{File: "q.sql", Offset: 13, Line: 2, Col: 6}, tokens[3].Pos)
}

func TestScanner_DelimiterDirective(t *testing.T) {
	input := "DELIMITER $$\nSELECT 1$$\nDELIMITER ;\nSELECT 2;"
	stream, diags := Tokenize(input, dialect.Default())
	require.Empty(t, diags)
	assert.Equal(t, input, stream.String())
	assert.Equal(t, ";", stream.Delimiter())

	var delimiters []string
	var definitions []string
	for _, tk := range stream.Tokens() {
		if tk.Type != sqldocument.DelimiterToken {
			continue
		}
		if tk.Flags.Has(sqldocument.FlagDelimiterDefinition) {
			definitions = append(definitions, tk.Value)
		} else {
			delimiters = append(delimiters, tk.Value)
		}
	}
	assert.Equal(t, []string{"$$", ";"}, definitions)
	assert.Equal(t, []string{"$$", ";"}, delimiters)
}

func TestScanner_DelimiterInsideWord(t *testing.T) {
	tokens, _ := lex(t, nil, "DELIMITER //\nEND//")
	assert.Equal(t, []tok{
		{sqldocument.KeywordToken, "DELIMITER"},
		{sqldocument.WhitespaceToken, " "},
		{sqldocument.DelimiterToken, "//"},
		{sqldocument.WhitespaceToken, "\n"},
		{sqldocument.KeywordToken, "END"},
		{sqldocument.DelimiterToken, "//"},
	}, tokens)
}

func TestScanner_DelimiterDirectiveErrors(t *testing.T) {
	_, diags := Tokenize("DELIMITER\nSELECT 1;", dialect.Default())
	require.Len(t, diags, 1)
	assert.Equal(t, sqldocument.MissingDelimiter, diags[0].Kind)
	assert.Equal(t, "Expected delimiter.", diags[0].Message)

	stream, diags := Tokenize("DELIMITER//", dialect.Default())
	require.Len(t, diags, 1)
	assert.Equal(t, sqldocument.DelimiterWhitespace, diags[0].Kind)
	assert.Equal(t, "//", stream.Delimiter())

	input := "DELIMITER 0123456789abcdefXYZ\nSELECT 1;"
	stream, diags = Tokenize(input, dialect.Default())
	require.Len(t, diags, 1)
	assert.Equal(t, sqldocument.MissingDelimiter, diags[0].Kind)
	assert.Equal(t, "0123456789abcdefXYZ", diags[0].Char)
	assert.Equal(t, 10, diags[0].Pos.Offset)
	assert.Equal(t, ";", stream.Delimiter())
	assert.Equal(t, input, stream.String())

	statements, parseDiags := Parse(stream, dialect.Default())
	assert.Empty(t, parseDiags)
	require.Len(t, statements, 1)
	assert.Equal(t, "Select", StatementType(statements[0]))
}

func TestScanner_DelimiterDirectiveUnusualWhitespace(t *testing.T) {
	testcases := []struct {
		name   string
		input  string
		offset int
	}{
		{"form feed", "DELIMITER \f\nSELECT 1;", 10},
		{"vertical tab", "DELIMITER\vx", 9},
		{"no-break space", "DELIMITER \u00a0$$", 10},
		{"trailing spaces", "DELIMITER   ", 12},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			done := make(chan struct{})
			var (
				stream *sqldocument.TokenStream
				diags  []sqldocument.Diagnostic
			)
			go func() {
				defer close(done)
				stream, diags = Tokenize(tc.input, dialect.Default())
			}()
			select {
			case <-done:
			case <-time.After(3 * time.Second):
				t.Fatal("Tokenize did not return")
			}

			require.NotEmpty(t, diags)
			assert.Equal(t, sqldocument.MissingDelimiter, diags[0].Kind)
			assert.Equal(t, tc.offset, diags[0].Pos.Offset)
			assert.Equal(t, ";", stream.Delimiter())
			assert.Equal(t, tc.input, stream.String())
			for _, tk := range stream.Tokens() {
				assert.NotEmpty(t, tk.Raw)
			}
		})
	}
}

func TestScanner_DelimiterOnlyAtStatementStart(t *testing.T) {
	stream, diags := Tokenize("SELECT delimiter FROM t;", dialect.Default())
	require.Empty(t, diags)
	for _, tk := range stream.Tokens() {
		assert.False(t, tk.Flags.Has(sqldocument.FlagDelimiterDefinition))
	}
	assert.Equal(t, ";", stream.Delimiter())
}

func TestScanner_InitialDelimiterFromContext(t *testing.T) {
	ctx := dialect.Default()
	require.NoError(t, ctx.SetDelimiter("//"))
	tokens, _ := lex(t, ctx, "SELECT 1; SELECT 2//")
	assert.Equal(t, tok{sqldocument.DelimiterToken, "//"}, tokens[len(tokens)-1])
	for _, tk := range tokens[:len(tokens)-1] {
		assert.NotEqual(t, sqldocument.DelimiterToken, tk.Type)
	}
}

package sqldocument

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnosticKind(t *testing.T) {
	for _, k := range DiagnosticKinds() {
		t.Run(k.String(), func(t *testing.T) {
			assert.NotContains(t, k.String(), "DiagnosticKind(")
			assert.NotEmpty(t, k.Message())
			if k.IsLexical() {
				assert.Less(t, int(k), 200)
			} else {
				assert.GreaterOrEqual(t, int(k), 200)
			}
		})
	}

	assert.Equal(t, "DiagnosticKind(7)", DiagnosticKind(7).String())
	assert.Equal(t, Fatal, UnterminatedQuote.Severity())
	assert.Equal(t, Fatal, UnterminatedComment.Severity())
	assert.Equal(t, Soft, UnexpectedToken.Severity())
}

func TestDiagnosticKind_Message(t *testing.T) {
	tests := []struct {
		kind     DiagnosticKind
		args     []any
		expected string
	}{
		{InvalidCharacter, nil, "Unexpected character."},
		{UnterminatedQuote, []any{"'"}, "Ending quote ' was expected."},
		{MissingClause, []any{"LOGS"}, "Missing LOGS clause."},
		{InvalidClauseValue, []any{"Expression"}, "Expression was expected."},
		{DuplicateClause, nil, "This type of clause was previously parsed."},
	}
	for _, tc := range tests {
		t.Run(tc.kind.String(), func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.kind.Message(tc.args...))
		})
	}
}

func TestDiagnostic(t *testing.T) {
	pos := Pos{File: "a.sql", Offset: 4, Line: 2, Col: 3}

	d := NewLexDiagnostic(UnterminatedQuote, "'", pos, "'")
	assert.True(t, d.IsFatal())
	assert.Equal(t, "a.sql:2:3 Ending quote ' was expected.", d.Error())
	assert.Equal(t, "'", d.Char)

	tok := Token{Type: KeywordToken, Raw: "FROM", Value: "FROM", Keyword: "FROM", Pos: pos}
	d = NewParseDiagnostic(UnexpectedToken, tok)
	assert.False(t, d.IsFatal())
	assert.Equal(t, pos, d.Pos)
	assert.Equal(t, &tok, d.Token)
	assert.Equal(t, Diagnostic{Kind: UnexpectedToken, Severity: Soft, Message: "Unexpected token."}, d.WithoutPos())
}

func TestSortDiagnostics(t *testing.T) {
	diags := []Diagnostic{
		{Kind: MissingClause, Pos: Pos{Offset: 10}},
		{Kind: UnexpectedToken, Pos: Pos{Offset: 2}},
		{Kind: DuplicateClause, Pos: Pos{Offset: 10}},
	}
	SortDiagnostics(diags)
	assert.Equal(t, []DiagnosticKind{UnexpectedToken, MissingClause, DuplicateClause},
		[]DiagnosticKind{diags[0].Kind, diags[1].Kind, diags[2].Kind})

	assert.False(t, HasFatal(diags))
	assert.True(t, HasFatal(append(diags, Diagnostic{Severity: Fatal})))
}

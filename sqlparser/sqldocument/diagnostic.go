package sqldocument

import (
	"fmt"
	"slices"
	"strings"
)

type Severity int

const (
	// Soft diagnostics never stop the current phase.
	Soft Severity = iota
	// Fatal diagnostics stop the current phase.
	Fatal
)

func (s Severity) String() string {
	if s == Fatal {
		return "fatal"
	}
	return "soft"
}

func (s Severity) MarshalYAML() (any, error) {
	return s.String(), nil
}

// DiagnosticKind identifies a class of problem. The numeric codes and
// messages are stable; 1xx are lexical, 2xx are syntactic.
type DiagnosticKind int

const (
	InvalidCharacter    DiagnosticKind = 101
	UnterminatedQuote   DiagnosticKind = 102
	UnterminatedComment DiagnosticKind = 103
	MalformedNumber     DiagnosticKind = 104
	MissingDelimiter    DiagnosticKind = 105
	DelimiterWhitespace DiagnosticKind = 106

	UnrecognizedStatement DiagnosticKind = 201
	UnexpectedToken       DiagnosticKind = 202
	MissingClause         DiagnosticKind = 203
	DuplicateClause       DiagnosticKind = 204
	InvalidClauseValue    DiagnosticKind = 205
	ClauseOrder           DiagnosticKind = 206
)

type kindInfo struct {
	name     string
	message  string
	severity Severity
}

var diagnosticKinds = map[DiagnosticKind]kindInfo{
	InvalidCharacter:      {"InvalidCharacter", "Unexpected character.", Soft},
	UnterminatedQuote:     {"UnterminatedQuote", "Ending quote %s was expected.", Fatal},
	UnterminatedComment:   {"UnterminatedComment", "Unterminated comment.", Fatal},
	MalformedNumber:       {"MalformedNumber", "Malformed numeric literal.", Soft},
	MissingDelimiter:      {"MissingDelimiter", "Expected delimiter.", Soft},
	DelimiterWhitespace:   {"DelimiterWhitespace", "Expected whitespace(s) before delimiter.", Soft},
	UnrecognizedStatement: {"UnrecognizedStatement", "Unrecognized statement type.", Soft},
	UnexpectedToken:       {"UnexpectedToken", "Unexpected token.", Soft},
	MissingClause:         {"MissingClause", "Missing %s clause.", Soft},
	DuplicateClause:       {"DuplicateClause", "This type of clause was previously parsed.", Soft},
	InvalidClauseValue:    {"InvalidClauseValue", "%s was expected.", Soft},
	ClauseOrder:           {"ClauseOrder", "Unexpected ordering of clauses.", Soft},
}

// DiagnosticKinds lists all kinds in code order.
func DiagnosticKinds() []DiagnosticKind {
	kinds := make([]DiagnosticKind, 0, len(diagnosticKinds))
	for k := range diagnosticKinds {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

func (k DiagnosticKind) String() string {
	if info, ok := diagnosticKinds[k]; ok {
		return info.name
	}
	return fmt.Sprintf("DiagnosticKind(%d)", int(k))
}

func (k DiagnosticKind) MarshalYAML() (any, error) {
	return k.String(), nil
}

func (k DiagnosticKind) Severity() Severity {
	return diagnosticKinds[k].severity
}

// IsLexical reports whether the kind is produced by a lexer.
func (k DiagnosticKind) IsLexical() bool {
	return k >= 100 && k < 200
}

// Message renders the stable message for the kind. Kinds whose message has
// a placeholder take one argument.
func (k DiagnosticKind) Message(args ...any) string {
	msg := diagnosticKinds[k].message
	if strings.Contains(msg, "%") {
		if len(args) == 0 {
			args = []any{"?"}
		}
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// Diagnostic is a recoverable problem found while lexing or parsing.
// Lexical diagnostics carry the offending character, syntactic ones the
// offending token.
type Diagnostic struct {
	Kind     DiagnosticKind `yaml:"kind"`
	Severity Severity       `yaml:"severity"`
	Message  string         `yaml:"message"`
	Char     string         `yaml:"char,omitempty"`
	Token    *Token         `yaml:"token,omitempty"`
	Pos      Pos            `yaml:"pos"`
}

// NewLexDiagnostic creates a diagnostic about the character ch at pos.
func NewLexDiagnostic(kind DiagnosticKind, ch string, pos Pos, args ...any) Diagnostic {
	return Diagnostic{
		Kind:     kind,
		Severity: kind.Severity(),
		Message:  kind.Message(args...),
		Char:     ch,
		Pos:      pos,
	}
}

// NewParseDiagnostic creates a diagnostic about tok.
func NewParseDiagnostic(kind DiagnosticKind, tok Token, args ...any) Diagnostic {
	return Diagnostic{
		Kind:     kind,
		Severity: kind.Severity(),
		Message:  kind.Message(args...),
		Token:    &tok,
		Pos:      tok.Pos,
	}
}

func (d Diagnostic) IsFatal() bool {
	return d.Severity == Fatal
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s:%d:%d %s", d.Pos.File, d.Pos.Line, d.Pos.Col, d.Message)
}

// WithoutPos strips position information; handy when comparing in tests.
func (d Diagnostic) WithoutPos() Diagnostic {
	d.Pos = Pos{}
	d.Token = nil
	return d
}

// SortDiagnostics orders diagnostics by source offset, keeping the emission
// order of diagnostics at the same offset.
func SortDiagnostics(diags []Diagnostic) {
	slices.SortStableFunc(diags, func(a, b Diagnostic) int {
		return a.Pos.Offset - b.Pos.Offset
	})
}

// HasFatal reports whether any diagnostic is fatal.
func HasFatal(diags []Diagnostic) bool {
	return slices.ContainsFunc(diags, Diagnostic.IsFatal)
}

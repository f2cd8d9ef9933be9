package sqldocument

import (
	"strings"
)

// TokenType represents the type of a lexical token.
//
// The numeric values are part of the output contract (consumers compare
// token streams against golden files), so new types are only ever appended.
type TokenType int

const (
	// NoneToken holds a character no scanner could classify. It is always
	// accompanied by an InvalidCharacter diagnostic.
	NoneToken TokenType = iota
	KeywordToken
	OperatorToken
	WhitespaceToken
	CommentToken
	NumberToken
	StringToken
	// SymbolToken is a user (@name) or system (@@name) variable.
	SymbolToken
	DelimiterToken
	IdentifierToken
	QuotedIdentifierToken
	PunctuationToken
	// ParameterToken is a bound parameter: `?` or `:name`.
	ParameterToken

	// EOFToken is never stored in a TokenStream; the stream returns it when
	// a read goes past the last token.
	EOFToken
)

var tokenToDescription = map[TokenType]string{
	NoneToken:             "NoneToken",
	KeywordToken:          "KeywordToken",
	OperatorToken:         "OperatorToken",
	WhitespaceToken:       "WhitespaceToken",
	CommentToken:          "CommentToken",
	NumberToken:           "NumberToken",
	StringToken:           "StringToken",
	SymbolToken:           "SymbolToken",
	DelimiterToken:        "DelimiterToken",
	IdentifierToken:       "IdentifierToken",
	QuotedIdentifierToken: "QuotedIdentifierToken",
	PunctuationToken:      "PunctuationToken",
	ParameterToken:        "ParameterToken",
	EOFToken:              "EOFToken",
}

func (tt TokenType) GoString() string {
	return tokenToDescription[tt]
}

func (tt TokenType) String() string {
	return tokenToDescription[tt]
}

// MarshalYAML prints the type name rather than the number.
func (tt TokenType) MarshalYAML() (any, error) {
	return tt.String(), nil
}

func init() {
	// make sure we panic if a description isn't declared
	for tt := NoneToken; tt <= EOFToken; tt++ {
		if tokenToDescription[tt] == "" {
			panic("you have not updated tokenToDescription")
		}
	}
}

// IsIgnorable reports whether the parser skips tokens of this type
// when looking for the next significant token.
func (tt TokenType) IsIgnorable() bool {
	return tt == WhitespaceToken || tt == CommentToken
}

// Flags further classify a token. Which flags are meaningful depends on the
// token type; keyword flags are also used by the dialect keyword tables.
type Flags uint32

const (
	// Keywords
	FlagReserved Flags = 1 << iota
	FlagComposed       // multi-word phrase, e.g. ORDER BY
	FlagDataType
	FlagKey
	FlagFunction

	// Numbers
	FlagHex
	FlagBinary
	FlagFloat
	FlagApproximate // has an exponent

	// Strings and identifiers
	FlagSingleQuotes
	FlagDoubleQuotes
	FlagBacktick
	FlagAnsiQuoted
	FlagIntroducer // N'..', X'..', _utf8'..'

	// Symbols
	FlagUserVariable
	FlagSystemVariable

	// Comments
	FlagLineComment
	FlagHashComment
	FlagBlockComment
	FlagExecutableComment

	// Delimiters
	FlagDelimiterDefinition

	// Operators
	FlagArithmetic
	FlagLogical
	FlagBitwise
	FlagAssignment
	FlagComparison
	FlagJSON

	// Any quoted region or comment that reached end of input
	FlagUnterminated
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagReserved, "reserved"},
	{FlagComposed, "composed"},
	{FlagDataType, "datatype"},
	{FlagKey, "key"},
	{FlagFunction, "function"},
	{FlagHex, "hex"},
	{FlagBinary, "binary"},
	{FlagFloat, "float"},
	{FlagApproximate, "approximate"},
	{FlagSingleQuotes, "single-quotes"},
	{FlagDoubleQuotes, "double-quotes"},
	{FlagBacktick, "backtick"},
	{FlagAnsiQuoted, "ansi-quoted"},
	{FlagIntroducer, "introducer"},
	{FlagUserVariable, "user-variable"},
	{FlagSystemVariable, "system-variable"},
	{FlagLineComment, "line-comment"},
	{FlagHashComment, "hash-comment"},
	{FlagBlockComment, "block-comment"},
	{FlagExecutableComment, "executable-comment"},
	{FlagDelimiterDefinition, "delimiter-definition"},
	{FlagArithmetic, "arithmetic"},
	{FlagLogical, "logical"},
	{FlagBitwise, "bitwise"},
	{FlagAssignment, "assignment"},
	{FlagComparison, "comparison"},
	{FlagJSON, "json"},
	{FlagUnterminated, "unterminated"},
}

// Has reports whether all bits of f2 are set in f.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

func (f Flags) String() string {
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, "|")
}

// MarshalYAML prints the flag names rather than the bit set.
func (f Flags) MarshalYAML() (any, error) {
	return f.String(), nil
}

// ParseFlag maps a flag name (as printed by Flags.String) back to its flag.
func ParseFlag(name string) (Flags, bool) {
	for _, fn := range flagNames {
		if fn.name == name {
			return fn.flag, true
		}
	}
	return 0, false
}

package sqldocument

import (
	"strings"
)

// Token is one lexical unit. Raw is the verbatim source text, so
// concatenating Raw over a token stream reproduces the input exactly.
type Token struct {
	Type TokenType `yaml:"type"`
	Raw  string    `yaml:"raw"`
	// Value is the normalized form: unescaped string content, unquoted
	// identifier, upper-case keyword phrase, or a single space for whitespace.
	Value string `yaml:"value"`
	// Keyword is the upper-case, single-spaced phrase of a KeywordToken.
	Keyword string `yaml:"keyword,omitempty"`
	Flags   Flags  `yaml:"flags,omitempty"`
	Pos     Pos    `yaml:"pos"`
}

// IsKeyword reports whether t is a keyword token matching one of the
// given phrases. Phrases are compared case-insensitively.
func (t Token) IsKeyword(phrases ...string) bool {
	if t.Type != KeywordToken {
		return false
	}
	if len(phrases) == 0 {
		return true
	}
	for _, p := range phrases {
		if strings.EqualFold(t.Keyword, p) {
			return true
		}
	}
	return false
}

// IsOperator reports whether t is one of the given operators.
func (t Token) IsOperator(ops ...string) bool {
	if t.Type != OperatorToken {
		return false
	}
	for _, op := range ops {
		if t.Value == op {
			return true
		}
	}
	return len(ops) == 0
}

// IsPunctuation reports whether t is the given punctuation character.
func (t Token) IsPunctuation(p string) bool {
	return t.Type == PunctuationToken && t.Raw == p
}

// IsIgnorable reports whether t is whitespace or a comment.
func (t Token) IsIgnorable() bool {
	return t.Type.IsIgnorable()
}

// End returns the byte offset just past the token.
func (t Token) End() int {
	return t.Pos.Offset + len(t.Raw)
}

// EndPos returns the position just past the token.
func (t Token) EndPos() Pos {
	return t.Pos.Advance(t.Raw)
}

func (t Token) String() string {
	return t.Type.String() + "(" + t.Raw + ")"
}

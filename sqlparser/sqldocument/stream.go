package sqldocument

import (
	"slices"
	"strings"
)

// TokenStream is an immutable token sequence with a movable cursor.
//
// The parser never looks at raw text; it navigates the stream with Peek,
// Advance and the significant-token helpers, and saves/restores positions
// with Index and Seek when it needs to back off a speculative match.
type TokenStream struct {
	tokens    []Token
	idx       int
	last      int // index of the last significant token consumed, or -1
	delimiter string
}

// NewTokenStream wraps tokens. delimiter is the statement delimiter that
// was active when lexing finished.
func NewTokenStream(tokens []Token, delimiter string) *TokenStream {
	return &TokenStream{tokens: tokens, last: -1, delimiter: delimiter}
}

// Slice returns a new stream over tokens [from, to) sharing storage with ts.
func (ts *TokenStream) Slice(from, to int) *TokenStream {
	from = max(0, min(from, len(ts.tokens)))
	to = max(from, min(to, len(ts.tokens)))
	return &TokenStream{tokens: ts.tokens[from:to:to], last: -1, delimiter: ts.delimiter}
}

// Tokens returns a copy of all tokens.
func (ts *TokenStream) Tokens() []Token {
	return slices.Clone(ts.tokens)
}

func (ts *TokenStream) Len() int {
	return len(ts.tokens)
}

// Delimiter returns the statement delimiter active at the end of lexing.
func (ts *TokenStream) Delimiter() string {
	return ts.delimiter
}

// Index returns the cursor position, for use with Seek.
func (ts *TokenStream) Index() int {
	return ts.idx
}

// Seek moves the cursor to index i (clamped to [0, Len()]).
func (ts *TokenStream) Seek(i int) {
	ts.idx = max(0, min(i, len(ts.tokens)))
	ts.last = -1
	for j := ts.idx - 1; j >= 0; j-- {
		if !ts.tokens[j].IsIgnorable() {
			ts.last = j
			break
		}
	}
}

// EOF reports whether the cursor is past the last token.
func (ts *TokenStream) EOF() bool {
	return ts.idx >= len(ts.tokens)
}

// Current returns the token under the cursor, or an EOFToken.
func (ts *TokenStream) Current() Token {
	return ts.Peek(0)
}

// Peek returns the token offset positions from the cursor, or an EOFToken
// if that is outside the stream.
func (ts *TokenStream) Peek(offset int) Token {
	i := ts.idx + offset
	if i < 0 || i >= len(ts.tokens) {
		return ts.eof()
	}
	return ts.tokens[i]
}

// Advance returns the current token and moves the cursor past it.
func (ts *TokenStream) Advance() Token {
	if ts.EOF() {
		return ts.eof()
	}
	tok := ts.tokens[ts.idx]
	if !tok.IsIgnorable() {
		ts.last = ts.idx
	}
	ts.idx++
	return tok
}

// SkipIgnorable moves the cursor past whitespace and comments.
func (ts *TokenStream) SkipIgnorable() {
	for ts.idx < len(ts.tokens) && ts.tokens[ts.idx].IsIgnorable() {
		ts.idx++
	}
}

// NextSignificant skips ignorable tokens, then consumes and returns the
// next token.
func (ts *TokenStream) NextSignificant() Token {
	ts.SkipIgnorable()
	return ts.Advance()
}

// PeekSignificant returns the n-th (0-based) significant token at or after
// the cursor without moving it.
func (ts *TokenStream) PeekSignificant(n int) Token {
	for i := ts.idx; i < len(ts.tokens); i++ {
		if ts.tokens[i].IsIgnorable() {
			continue
		}
		if n == 0 {
			return ts.tokens[i]
		}
		n--
	}
	return ts.eof()
}

// PositionOf returns the source position of the token at index. Indexes
// past the end map to the end of input.
func (ts *TokenStream) PositionOf(index int) Pos {
	if index < 0 {
		index = 0
	}
	if index >= len(ts.tokens) {
		return ts.eof().Pos
	}
	return ts.tokens[index].Pos
}

// Previous returns the last significant token consumed by Advance.
func (ts *TokenStream) Previous() (Token, bool) {
	if ts.last < 0 {
		return Token{}, false
	}
	return ts.tokens[ts.last], true
}

// LastSignificant returns the last non-ignorable token of the stream.
func (ts *TokenStream) LastSignificant() (Token, bool) {
	for i := len(ts.tokens) - 1; i >= 0; i-- {
		if !ts.tokens[i].IsIgnorable() {
			return ts.tokens[i], true
		}
	}
	return Token{}, false
}

// String returns the source text the stream was lexed from.
func (ts *TokenStream) String() string {
	var sb strings.Builder
	for _, t := range ts.tokens {
		sb.WriteString(t.Raw)
	}
	return sb.String()
}

func (ts *TokenStream) eof() Token {
	if len(ts.tokens) == 0 {
		return Token{Type: EOFToken, Pos: Pos{Line: 1, Col: 1}}
	}
	last := ts.tokens[len(ts.tokens)-1]
	return Token{Type: EOFToken, Pos: last.EndPos()}
}

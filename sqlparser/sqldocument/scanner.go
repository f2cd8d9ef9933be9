package sqldocument

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenScanner is the input cursor shared by the dialect lexers.
//
// A lexer moves curIndex forward over the characters of a token and then
// calls Emit, which cuts the token out of the input, stamps it with its
// start position and moves the start of the next token up to curIndex.
// Position bookkeeping happens only in Emit, so lexers never need to count
// lines themselves.
type TokenScanner struct {
	input string
	file  FileRef

	startIndex int // Byte index where current token starts
	curIndex   int // Current byte position in input
	start      Pos // Position of startIndex
}

func NewTokenScanner(file FileRef, input string) *TokenScanner {
	return &TokenScanner{
		input: input,
		file:  file,
		start: Pos{File: file, Line: 1, Col: 1},
	}
}

func (s *TokenScanner) Input() string {
	return s.input
}

func (s *TokenScanner) File() FileRef {
	return s.file
}

// AtEOF reports whether the cursor has consumed all input.
func (s *TokenScanner) AtEOF() bool {
	return s.curIndex >= len(s.input)
}

// Token returns the text scanned since the last Emit.
func (s *TokenScanner) Token() string {
	return s.input[s.startIndex:s.curIndex]
}

// TokenRune decodes the rune peek bytes after the cursor. At end of input
// it returns (utf8.RuneError, 0); on invalid UTF-8 it returns
// (utf8.RuneError, 1).
func (s *TokenScanner) TokenRune(peek int) (rune, int) {
	i := s.curIndex + peek
	if i >= len(s.input) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(s.input[i:])
}

// TokenChar returns the unscanned rest of the input.
func (s *TokenScanner) TokenChar() string {
	return s.input[s.curIndex:]
}

func (s *TokenScanner) HasPrefix(prefix string) bool {
	return strings.HasPrefix(s.input[s.curIndex:], prefix)
}

func (s *TokenScanner) CurIndex() int {
	return s.curIndex
}

func (s *TokenScanner) IncCurIndex(i int) {
	s.curIndex += i
	if s.curIndex > len(s.input) {
		s.curIndex = len(s.input)
	}
}

// SetCurIndex moves the cursor to the absolute byte index i. It may move
// backwards, but never before the start of the current token.
func (s *TokenScanner) SetCurIndex(i int) {
	if i < s.startIndex {
		i = s.startIndex
	}
	if i > len(s.input) {
		i = len(s.input)
	}
	s.curIndex = i
}

// SkipToEnd moves the cursor to end of input.
func (s *TokenScanner) SkipToEnd() {
	s.curIndex = len(s.input)
}

// Start returns the position where the current token begins.
func (s *TokenScanner) Start() Pos {
	return s.start
}

// Stop returns the position of the cursor.
func (s *TokenScanner) Stop() Pos {
	return s.start.Advance(s.Token())
}

// Emit returns the token scanned since the last Emit and starts a new one.
func (s *TokenScanner) Emit(tt TokenType, value string, flags Flags) Token {
	raw := s.Token()
	tok := Token{
		Type:  tt,
		Raw:   raw,
		Value: value,
		Flags: flags,
		Pos:   s.start,
	}
	s.start = s.start.Advance(raw)
	s.startIndex = s.curIndex
	return tok
}

// ScanWhitespace advances past a run of whitespace.
func (s *TokenScanner) ScanWhitespace() {
	for i, r := range s.input[s.curIndex:] {
		if !unicode.IsSpace(r) {
			s.curIndex += i
			return
		}
	}
	// eof
	s.curIndex = len(s.input)
}

// ScanPast advances past the first occurrence of marker and reports whether
// it was found. If not, the cursor is left at end of input.
func (s *TokenScanner) ScanPast(marker string) bool {
	end := strings.Index(s.input[s.curIndex:], marker)
	if end == -1 {
		s.curIndex = len(s.input)
		return false
	}
	s.curIndex += end + len(marker)
	return true
}

// ScanToEndOfLine advances up to, but not including, the next newline.
// The newline becomes part of the following whitespace token.
func (s *TokenScanner) ScanToEndOfLine() {
	end := strings.IndexByte(s.input[s.curIndex:], '\n')
	if end == -1 {
		// end of file is also end of line
		s.curIndex = len(s.input)
	} else {
		s.curIndex += end
	}
}

// ScanWhile advances while accept returns true.
func (s *TokenScanner) ScanWhile(accept func(rune) bool) {
	for i, r := range s.input[s.curIndex:] {
		if !accept(r) {
			s.curIndex += i
			return
		}
	}
	s.curIndex = len(s.input)
}

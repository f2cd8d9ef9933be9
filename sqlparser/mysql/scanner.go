package mysql

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/smasher164/xid"
	"github.com/vippsas/sqlsyntax/sqlparser/dialect"
	"github.com/vippsas/sqlsyntax/sqlparser/sqldocument"
)

// Scanner is the lexical scanner for the MySQL family.
//
// It makes a single left-to-right pass over the input, using the dialect
// Context for keyword phrases, operators, quoting mode and the initial
// delimiter. The scanner handles these constructs:
//   - Strings ('...', "..."), with introducers (N'..', X'..', B'..', _utf8'..')
//   - Quoted identifiers (`...`, and "..." under ANSI_QUOTES)
//   - Comments (-- , #, /* */) and executable comments (/*! ... */)
//   - User and system variables (@name, @@global.name), parameters (?, :name)
//   - The client DELIMITER directive
//
// Every character of the input ends up in exactly one token, so the raw
// text of all tokens concatenates back to the input.
type Scanner struct {
	*sqldocument.TokenScanner
	ctx *dialect.Context

	// delimiter is the active statement delimiter; the DELIMITER directive
	// changes it for the rest of this pass only.
	delimiter string

	// statementStart is true while no significant token has been seen
	// since the last delimiter. DELIMITER is only a directive there.
	statementStart bool

	// executable is the opening of the executable comment being scanned.
	executable *sqldocument.Token

	last    sqldocument.Token   // Last token emitted
	pending []sqldocument.Token // Tokens scanned ahead, returned before scanning more
	diags   []sqldocument.Diagnostic
	stopped bool
}

// NewScanner creates a new Scanner for the given source file and input string.
func NewScanner(file sqldocument.FileRef, input string, ctx *dialect.Context) *Scanner {
	return &Scanner{
		TokenScanner:   sqldocument.NewTokenScanner(file, input),
		ctx:            ctx,
		delimiter:      ctx.Delimiter(),
		statementStart: true,
	}
}

// Delimiter returns the active statement delimiter.
func (s *Scanner) Delimiter() string {
	return s.delimiter
}

// Diagnostics returns the lexical diagnostics reported so far.
func (s *Scanner) Diagnostics() []sqldocument.Diagnostic {
	return s.diags
}

// Tokenize lexes text against ctx.
func Tokenize(text string, ctx *dialect.Context) (*sqldocument.TokenStream, []sqldocument.Diagnostic) {
	return TokenizeFile("", text, ctx)
}

// TokenizeFile is Tokenize with a file reference attached to every position.
func TokenizeFile(file sqldocument.FileRef, text string, ctx *dialect.Context) (*sqldocument.TokenStream, []sqldocument.Diagnostic) {
	s := NewScanner(file, text, ctx)
	var tokens []sqldocument.Token
	for {
		tok := s.NextToken()
		if tok.Type == sqldocument.EOFToken {
			break
		}
		tokens = append(tokens, tok)
	}
	diags := s.Diagnostics()
	sqldocument.SortDiagnostics(diags)
	return sqldocument.NewTokenStream(tokens, s.Delimiter()), diags
}

// NextToken scans and returns the next token. At end of input, and after
// a fatal diagnostic, it returns an EOFToken.
func (s *Scanner) NextToken() sqldocument.Token {
	var tok sqldocument.Token
	switch {
	case len(s.pending) > 0:
		tok = s.pending[0]
		s.pending = s.pending[1:]
	case s.stopped || s.AtEOF():
		if s.executable != nil {
			s.diags = append(s.diags, sqldocument.NewLexDiagnostic(
				sqldocument.UnterminatedComment, "/*", s.executable.Pos))
			s.executable = nil
		}
		s.stopped = true
		return sqldocument.Token{Type: sqldocument.EOFToken, Pos: s.Start()}
	default:
		tok = s.nextToken()
	}

	s.last = tok
	if !tok.IsIgnorable() {
		s.statementStart = tok.Type == sqldocument.DelimiterToken
	}
	return tok
}

func (s *Scanner) nextToken() sqldocument.Token {
	if s.executable != nil && s.HasPrefix("*/") {
		s.IncCurIndex(2)
		s.executable = nil
		return s.Emit(sqldocument.CommentToken, "*/", sqldocument.FlagBlockComment|sqldocument.FlagExecutableComment)
	}
	if s.delimiter != "" && s.HasPrefix(s.delimiter) {
		s.IncCurIndex(len(s.delimiter))
		return s.Emit(sqldocument.DelimiterToken, s.delimiter, 0)
	}

	r, w := s.TokenRune(0)

	// First, decisions that can be made after one character:
	switch {
	case r == utf8.RuneError && w == 1:
		// not UTF-8; one byte becomes one NoneToken
		return s.invalid(w)
	case unicode.IsSpace(r):
		s.ScanWhitespace()
		return s.Emit(sqldocument.WhitespaceToken, " ", 0)
	case r == '#':
		s.ScanToEndOfLine()
		return s.Emit(sqldocument.CommentToken, s.Token(), sqldocument.FlagHashComment)
	case r == '\'':
		return s.scanString(0)
	case r == '"':
		if s.ctx.HasMode(dialect.ModeAnsiQuotes) {
			return s.scanQuotedIdentifier(sqldocument.FlagAnsiQuoted)
		}
		return s.scanString(0)
	case r == '`':
		return s.scanQuotedIdentifier(sqldocument.FlagBacktick)
	case r >= '0' && r <= '9':
		return s.scanNumber()
	case r == '@':
		return s.scanVariable()
	case r == '?':
		s.IncCurIndex(w)
		return s.Emit(sqldocument.ParameterToken, "?", 0)
	case strings.ContainsRune("(),;{}[]", r):
		s.IncCurIndex(w)
		return s.Emit(sqldocument.PunctuationToken, string(r), 0)
	}

	// OK, we need to peek 1 character to make a decision
	r2, _ := s.TokenRune(w)

	switch {
	case r == '-' && r2 == '-':
		// "--" only starts a comment when followed by whitespace or end of input
		r3, w3 := s.TokenRune(2)
		if w3 == 0 || unicode.IsSpace(r3) {
			s.ScanToEndOfLine()
			return s.Emit(sqldocument.CommentToken, s.Token(), sqldocument.FlagLineComment)
		}
	case r == '/' && r2 == '*':
		return s.scanBlockComment()
	case r == '.':
		if r2 >= '0' && r2 <= '9' && !s.afterName() {
			return s.scanNumber()
		}
		s.IncCurIndex(w)
		return s.Emit(sqldocument.PunctuationToken, ".", 0)
	case r == ':' && isIdentifierStart(r2):
		s.IncCurIndex(w)
		s.scanWhile(isIdentifierPart)
		return s.Emit(sqldocument.ParameterToken, s.Token()[1:], 0)
	case (r == 'n' || r == 'N') && r2 == '\'':
		s.IncCurIndex(w)
		return s.scanString(sqldocument.FlagIntroducer)
	case (r == 'x' || r == 'X') && r2 == '\'':
		s.IncCurIndex(w)
		return s.scanBitString(sqldocument.FlagHex, isHexDigit)
	case (r == 'b' || r == 'B') && r2 == '\'':
		s.IncCurIndex(w)
		return s.scanBitString(sqldocument.FlagBinary, isBinaryDigit)
	case isIdentifierStart(r):
		return s.scanWord()
	}

	if op, flags, ok := s.ctx.MatchOperator(s.TokenChar()); ok {
		s.IncCurIndex(len(op))
		return s.Emit(sqldocument.OperatorToken, op, flags)
	}
	return s.invalid(w)
}

// invalid emits the next w bytes as a NoneToken.
func (s *Scanner) invalid(w int) sqldocument.Token {
	s.IncCurIndex(w)
	raw := s.Token()
	tok := s.Emit(sqldocument.NoneToken, raw, 0)
	s.diags = append(s.diags, sqldocument.NewLexDiagnostic(sqldocument.InvalidCharacter, raw, tok.Pos))
	return tok
}

// unterminated emits a token that ran into end of input and stops lexing.
func (s *Scanner) unterminated(tt sqldocument.TokenType, value string, flags sqldocument.Flags, quote string) sqldocument.Token {
	tok := s.Emit(tt, value, flags|sqldocument.FlagUnterminated)
	s.diags = append(s.diags, sqldocument.NewLexDiagnostic(sqldocument.UnterminatedQuote, quote, tok.Pos, quote))
	s.stopped = true
	return tok
}

// afterName reports whether the previous token was a name that a '.' can
// qualify, as in t.5 or `t`.col.
func (s *Scanner) afterName() bool {
	return s.last.Type == sqldocument.IdentifierToken || s.last.Type == sqldocument.QuotedIdentifierToken
}

func (s *Scanner) scanBlockComment() sqldocument.Token {
	// executable comments: /*!50100 ... */ and MariaDB's /*M!100100 ... */
	if s.executable == nil && (s.HasPrefix("/*!") || s.HasPrefix("/*M!")) {
		if s.HasPrefix("/*M!") {
			s.IncCurIndex(4)
		} else {
			s.IncCurIndex(3)
		}
		s.scanWhile(isDigit)
		tok := s.Emit(sqldocument.CommentToken, s.Token(), sqldocument.FlagBlockComment|sqldocument.FlagExecutableComment)
		s.executable = &tok
		return tok
	}

	s.IncCurIndex(2)
	if !s.ScanPast("*/") {
		tok := s.Emit(sqldocument.CommentToken, s.Token(), sqldocument.FlagBlockComment|sqldocument.FlagUnterminated)
		s.diags = append(s.diags, sqldocument.NewLexDiagnostic(sqldocument.UnterminatedComment, "/*", tok.Pos))
		s.stopped = true
		return tok
	}
	return s.Emit(sqldocument.CommentToken, s.Token(), sqldocument.FlagBlockComment)
}

var escapeSequences = map[byte]string{
	'0':  "\x00",
	'\'': "'",
	'"':  "\"",
	'b':  "\b",
	'n':  "\n",
	'r':  "\r",
	't':  "\t",
	'Z':  "\x1a",
	'\\': "\\",
	// \% and \_ keep their backslash; they are LIKE pattern escapes
	'%': "\\%",
	'_': "\\_",
}

// scanQuoted assumes the cursor is at the opening quote, and scans to the
// matching closing quote. A doubled quote stands for one quote character;
// backslash escapes are decoded when escapes is set. Returns the unescaped
// content and whether the closing quote was found.
func (s *Scanner) scanQuoted(escapes bool) (string, bool) {
	in := s.Input()
	quote := in[s.CurIndex()]
	var sb strings.Builder
	i := s.CurIndex() + 1
	for i < len(in) {
		c := in[i]
		switch {
		case c == '\\' && escapes && i+1 < len(in):
			if e, ok := escapeSequences[in[i+1]]; ok {
				sb.WriteString(e)
			} else {
				sb.WriteByte(in[i+1])
			}
			i += 2
		case c == quote:
			if i+1 < len(in) && in[i+1] == quote {
				// we have a double quote; this is used as escape
				sb.WriteByte(quote)
				i += 2
				continue
			}
			s.SetCurIndex(i + 1)
			return sb.String(), true
		default:
			sb.WriteByte(c)
			i++
		}
	}
	s.SkipToEnd()
	return sb.String(), false
}

func (s *Scanner) escapes() bool {
	return !s.ctx.HasMode(dialect.ModeNoBackslashEscapes)
}

// scanString assumes the cursor is at the opening ' or ", with any
// introducer already scanned.
func (s *Scanner) scanString(flags sqldocument.Flags) sqldocument.Token {
	quote := s.Input()[s.CurIndex() : s.CurIndex()+1]
	if quote == "'" {
		flags |= sqldocument.FlagSingleQuotes
	} else {
		flags |= sqldocument.FlagDoubleQuotes
	}
	value, ok := s.scanQuoted(s.escapes())
	if !ok {
		return s.unterminated(sqldocument.StringToken, value, flags, quote)
	}
	return s.Emit(sqldocument.StringToken, value, flags)
}

// scanBitString scans X'..' and B'..' literals; the prefix is already scanned.
func (s *Scanner) scanBitString(flags sqldocument.Flags, valid func(rune) bool) sqldocument.Token {
	flags |= sqldocument.FlagIntroducer | sqldocument.FlagSingleQuotes
	value, ok := s.scanQuoted(false)
	if !ok {
		return s.unterminated(sqldocument.StringToken, value, flags, "'")
	}
	tok := s.Emit(sqldocument.StringToken, value, flags)
	if strings.IndexFunc(value, func(r rune) bool { return !valid(r) }) >= 0 {
		s.diags = append(s.diags, sqldocument.NewLexDiagnostic(sqldocument.MalformedNumber, tok.Raw, tok.Pos))
	}
	return tok
}

func (s *Scanner) scanQuotedIdentifier(flags sqldocument.Flags) sqldocument.Token {
	quote := s.Input()[s.CurIndex() : s.CurIndex()+1]
	value, ok := s.scanQuoted(false)
	if !ok {
		return s.unterminated(sqldocument.QuotedIdentifierToken, value, flags, quote)
	}
	return s.Emit(sqldocument.QuotedIdentifierToken, value, flags)
}

// scanVariable assumes the cursor is at '@'.
func (s *Scanner) scanVariable() sqldocument.Token {
	if s.HasPrefix("@@") {
		s.IncCurIndex(2)
		s.scanWhile(isVariablePart)
		return s.Emit(sqldocument.SymbolToken, s.Token()[2:], sqldocument.FlagSystemVariable)
	}

	s.IncCurIndex(1)
	r, _ := s.TokenRune(0)
	switch r {
	case '\'', '"', '`':
		value, ok := s.scanQuoted(r != '`' && s.escapes())
		if !ok {
			return s.unterminated(sqldocument.SymbolToken, value, sqldocument.FlagUserVariable, string(r))
		}
		return s.Emit(sqldocument.SymbolToken, value, sqldocument.FlagUserVariable)
	}
	s.scanWhile(isVariablePart)
	return s.Emit(sqldocument.SymbolToken, s.Token()[1:], sqldocument.FlagUserVariable)
}

var (
	hexNumber      = regexp.MustCompile(`^0x[0-9a-fA-F]+$`)
	binaryNumber   = regexp.MustCompile(`^0b[01]+$`)
	decimalNumber  = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	openExponent   = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)[eE][+-]?$`)
	digitsAndDots  = regexp.MustCompile(`^[\d.]+$`)
	numberPrefixes = []string{"0x", "0b"}
)

// scanNumber assumes the cursor is at a digit, or at a '.' followed by a
// digit. The scanner takes the longest run of number characters and then
// classifies it; a run that starts with digits but contains letters is an
// identifier, as in 1abc.
func (s *Scanner) scanNumber() sqldocument.Token {
	begin := s.CurIndex()
	s.scanWhile(func(r rune) bool { return isDigit(r) || r == '.' })
	prefixEnd := s.CurIndex()
	s.scanWhile(isIdentifierPart)
	word := s.Token()

	if openExponent.MatchString(word) {
		if r, _ := s.TokenRune(0); r == '+' || r == '-' {
			s.IncCurIndex(1)
			s.scanWhile(isDigit)
			word = s.Token()
		}
	}

	switch {
	case hexNumber.MatchString(word):
		return s.Emit(sqldocument.NumberToken, word, sqldocument.FlagHex)
	case binaryNumber.MatchString(word):
		return s.Emit(sqldocument.NumberToken, word, sqldocument.FlagBinary)
	case decimalNumber.MatchString(word):
		return s.Emit(sqldocument.NumberToken, word, numberFlags(word))
	case openExponent.MatchString(word), digitsAndDots.MatchString(word), isBarePrefix(word):
		return s.malformedNumber()
	case !strings.Contains(s.Input()[begin:prefixEnd], "."):
		return s.Emit(sqldocument.IdentifierToken, word, 0)
	}

	// a number directly followed by a word, as in 1.5abc; the word is
	// scanned as a token of its own
	s.SetCurIndex(prefixEnd)
	if decimalNumber.MatchString(s.Token()) {
		return s.Emit(sqldocument.NumberToken, s.Token(), numberFlags(s.Token()))
	}
	return s.malformedNumber()
}

func (s *Scanner) malformedNumber() sqldocument.Token {
	tok := s.Emit(sqldocument.NumberToken, s.Token(), 0)
	s.diags = append(s.diags, sqldocument.NewLexDiagnostic(sqldocument.MalformedNumber, tok.Raw, tok.Pos))
	return tok
}

func numberFlags(word string) sqldocument.Flags {
	var flags sqldocument.Flags
	if strings.Contains(word, ".") {
		flags |= sqldocument.FlagFloat
	}
	if strings.ContainsAny(word, "eE") {
		flags |= sqldocument.FlagApproximate
	}
	return flags
}

func isBarePrefix(word string) bool {
	for _, p := range numberPrefixes {
		if word == p {
			return true
		}
	}
	return false
}

// scanWord assumes first character of an identifier has been identified,
// and scans to the end. The word becomes a keyword token if it starts a
// keyword phrase of the dialect, otherwise an identifier.
func (s *Scanner) scanWord() sqldocument.Token {
	s.scanWhile(isIdentifierPart)
	word := s.Token()

	// charset introducer, as in _utf8mb4'text'
	if strings.HasPrefix(word, "_") && len(word) > 1 && s.HasPrefix("'") {
		return s.scanString(sqldocument.FlagIntroducer)
	}

	// a name qualified by, or qualifying, another name is never a keyword
	if s.last.IsPunctuation(".") || s.qualifies() {
		return s.Emit(sqldocument.IdentifierToken, word, 0)
	}

	if s.statementStart && strings.EqualFold(word, "DELIMITER") {
		return s.scanDelimiterDirective()
	}

	if tok, ok := s.scanPhrase(word); ok {
		return tok
	}

	upper := strings.ToUpper(word)
	if flags, ok := s.ctx.Keyword(upper); ok {
		tok := s.Emit(sqldocument.KeywordToken, upper, flags)
		tok.Keyword = upper
		return tok
	}
	return s.Emit(sqldocument.IdentifierToken, word, 0)
}

// qualifies reports whether the cursor is at a '.' followed by a name.
func (s *Scanner) qualifies() bool {
	if !s.HasPrefix(".") {
		return false
	}
	r, _ := s.TokenRune(1)
	return isIdentifierStart(r) || r == '`' || r == '*' || (r == '"' && s.ctx.HasMode(dialect.ModeAnsiQuotes))
}

// scanPhrase tries to extend word into the longest multi-word keyword
// phrase of the dialect, with only whitespace between the words.
func (s *Scanner) scanPhrase(word string) (sqldocument.Token, bool) {
	maxWords := s.ctx.MaxPhraseWords()
	if maxWords < 2 {
		return sqldocument.Token{}, false
	}
	save := s.CurIndex()
	words := []string{word}
	ends := []int{save}
	for len(words) < maxWords {
		s.ScanWhile(unicode.IsSpace)
		if s.CurIndex() == ends[len(ends)-1] {
			break
		}
		r, _ := s.TokenRune(0)
		if !isIdentifierStart(r) {
			break
		}
		start := s.CurIndex()
		s.scanWhile(isIdentifierPart)
		words = append(words, s.Input()[start:s.CurIndex()])
		ends = append(ends, s.CurIndex())
	}

	for n := len(words); n >= 2; n-- {
		phrase := strings.ToUpper(strings.Join(words[:n], " "))
		if flags, ok := s.ctx.Keyword(phrase); ok && flags.Has(sqldocument.FlagComposed) {
			s.SetCurIndex(ends[n-1])
			tok := s.Emit(sqldocument.KeywordToken, phrase, flags)
			tok.Keyword = phrase
			return tok, true
		}
	}
	s.SetCurIndex(save)
	return sqldocument.Token{}, false
}

// scanDelimiterDirective handles `DELIMITER <text>`. The word DELIMITER has
// been scanned. The whitespace and the new delimiter are queued as
// separate tokens.
func (s *Scanner) scanDelimiterDirective() sqldocument.Token {
	kw := s.Emit(sqldocument.KeywordToken, "DELIMITER", 0)
	kw.Keyword = "DELIMITER"

	s.ScanWhile(func(r rune) bool { return r == ' ' || r == '\t' })
	spaced := s.Token() != ""
	if spaced {
		s.pending = append(s.pending, s.Emit(sqldocument.WhitespaceToken, " ", 0))
	}

	r, w := s.TokenRune(0)
	if w == 0 || unicode.IsSpace(r) {
		s.diags = append(s.diags, sqldocument.NewLexDiagnostic(sqldocument.MissingDelimiter, "", s.Start()))
		return kw
	}
	if !spaced {
		s.diags = append(s.diags, sqldocument.NewLexDiagnostic(sqldocument.DelimiterWhitespace, string(r), s.Start()))
	}

	s.ScanWhile(func(r rune) bool { return !unicode.IsSpace(r) })
	d := s.Token()
	if len(d) > dialect.MaxDelimiterLength {
		// ends the directive but leaves the active delimiter alone
		s.diags = append(s.diags, sqldocument.NewLexDiagnostic(sqldocument.MissingDelimiter, d, s.Start()))
		s.pending = append(s.pending, s.Emit(sqldocument.DelimiterToken, d, sqldocument.FlagDelimiterDefinition))
		return kw
	}
	s.delimiter = d
	s.pending = append(s.pending, s.Emit(sqldocument.DelimiterToken, d, sqldocument.FlagDelimiterDefinition))
	return kw
}

// scanWhile advances while accept returns true, but never into the active
// delimiter: with DELIMITER $$ the text END$$ is the word END and a delimiter.
func (s *Scanner) scanWhile(accept func(rune) bool) {
	for !s.AtEOF() && (s.delimiter == "" || !s.HasPrefix(s.delimiter)) {
		r, w := s.TokenRune(0)
		if !accept(r) {
			return
		}
		s.IncCurIndex(w)
	}
}

func isIdentifierStart(r rune) bool {
	return xid.Start(r) || r == '_' || r == '$'
}

func isIdentifierPart(r rune) bool {
	return xid.Continue(r) || r == '$'
}

func isVariablePart(r rune) bool {
	return isIdentifierPart(r) || r == '.'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isBinaryDigit(r rune) bool {
	return r == '0' || r == '1'
}

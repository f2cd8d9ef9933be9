package mysql

import (
	"strings"

	"github.com/vippsas/sqlsyntax/sqlparser/dialect"
	"github.com/vippsas/sqlsyntax/sqlparser/internal/utils"
	"github.com/vippsas/sqlsyntax/sqlparser/sqldocument"
)

// Parser turns a token stream into statements. Each batch (the tokens
// between two delimiters) is parsed on its own, so a malformed statement
// never affects the next one.
type Parser struct {
	ctx *dialect.Context

	ts         *sqldocument.TokenStream // Tokens of the current batch
	terminator *sqldocument.Token       // Delimiter ending the current batch, if any

	// stops holds the clause triggers of the statements being parsed,
	// innermost last. Expressions end at any of them.
	stops [][]string

	diags []sqldocument.Diagnostic
}

func NewParser(ctx *dialect.Context) *Parser {
	return &Parser{ctx: ctx}
}

// Parse parses all statements of stream. Statements are returned in
// source order; diagnostics are sorted by position.
func Parse(stream *sqldocument.TokenStream, ctx *dialect.Context) ([]sqldocument.Statement, []sqldocument.Diagnostic) {
	return NewParser(ctx).Parse(stream)
}

func (p *Parser) Parse(stream *sqldocument.TokenStream) ([]sqldocument.Statement, []sqldocument.Diagnostic) {
	var statements []sqldocument.Statement
	p.diags = nil
	for _, batch := range sqldocument.SplitBatches(stream) {
		if batch.Empty(stream) || batch.IsDelimiterDefinition(stream) {
			continue
		}
		p.ts = batch.Stream(stream)
		p.terminator = nil
		if t, ok := batch.Terminator(stream); ok {
			p.terminator = &t
		}
		if stmt := p.parseStatement(); stmt != nil {
			statements = append(statements, stmt)
		}
		p.ts.SkipIgnorable()
		if !p.ts.EOF() {
			// whatever the statement grammar left over
			p.unexpected(p.ts.Current())
			p.ts.Seek(p.ts.Len())
		}
	}
	sqldocument.SortDiagnostics(p.diags)
	return statements, p.diags
}

// ParseDocument lexes and parses text.
func ParseDocument(file sqldocument.FileRef, text string, ctx *dialect.Context) *sqldocument.Document {
	stream, lexDiags := TokenizeFile(file, text, ctx)
	statements, parseDiags := Parse(stream, ctx)
	diags := append(lexDiags, parseDiags...)
	sqldocument.SortDiagnostics(diags)
	return &sqldocument.Document{
		File:        file,
		Tokens:      stream,
		Statements:  statements,
		Diagnostics: diags,
	}
}

// parseStatement dispatches on the command keywords at the cursor. It
// returns nil for DELIMITER directives and unrecognized commands.
func (p *Parser) parseStatement() sqldocument.Statement {
	p.ts.SkipIgnorable()
	first := p.ts.Current()
	if first.IsKeyword("DELIMITER") {
		// a directive without a valid delimiter; the lexer reported it
		p.ts.Seek(p.ts.Len())
		return nil
	}

	phrase, words := p.lookupCommand()
	if phrase == "" {
		p.addError(sqldocument.UnrecognizedStatement, first)
		utils.DPrint("unrecognized statement at %s: %q\n", first.Pos, first.Raw)
		p.ts.Seek(p.ts.Len())
		return nil
	}
	for i := 0; i < words; i++ {
		p.ts.NextSignificant()
	}
	base := sqldocument.StatementBase{Keyword: phrase, Pos: first.Pos}
	return commands[phrase](p, base)
}

// lookupCommand returns the longest command phrase formed by the keyword
// tokens at the cursor, and the number of tokens it spans.
func (p *Parser) lookupCommand() (string, int) {
	var words []string
	for i := 0; i < maxCommandTokens; i++ {
		tok := p.ts.PeekSignificant(i)
		if tok.Type != sqldocument.KeywordToken {
			break
		}
		words = append(words, tok.Keyword)
	}
	for n := len(words); n > 0; n-- {
		phrase := strings.Join(words[:n], " ")
		if _, ok := commands[phrase]; ok {
			return phrase, n
		}
	}
	return "", 0
}

func (p *Parser) addError(kind sqldocument.DiagnosticKind, tok sqldocument.Token, args ...any) {
	p.diags = append(p.diags, sqldocument.NewParseDiagnostic(kind, tok, args...))
}

// unexpected reports tok and skips to the next token that starts a clause
// of a statement being parsed, or to the end of the batch.
func (p *Parser) unexpected(tok sqldocument.Token) {
	p.addError(sqldocument.UnexpectedToken, tok)
	utils.DPrint("unexpected %s at %s, resyncing\n", tok, tok.Pos)
	if p.ts.Current() == tok {
		p.ts.Advance()
	}
	p.recover()
}

// recover skips to the next clause trigger or to the end of the batch.
func (p *Parser) recover() {
	sqldocument.RecoverTo(p.ts, p.isTrigger)
}

func (p *Parser) isTrigger(tok sqldocument.Token) bool {
	for _, stops := range p.stops {
		for _, s := range stops {
			if triggerMatches(tok, s) {
				return true
			}
		}
	}
	return false
}

// outerStop reports whether tok starts a clause of an enclosing statement.
func (p *Parser) outerStop(tok sqldocument.Token) bool {
	for _, stops := range p.stops[:max(0, len(p.stops)-1)] {
		for _, s := range stops {
			if triggerMatches(tok, s) {
				return true
			}
		}
	}
	return false
}

// expected returns an expectError about the token at the cursor.
func (p *Parser) expected(what string) error {
	p.ts.SkipIgnorable()
	tok := p.ts.Current()
	if tok.Type == sqldocument.EOFToken {
		tok = p.endToken()
	}
	return &expectError{what: what, tok: tok}
}

// endToken is the token diagnostics about missing trailing parts are
// reported at: the delimiter ending the batch, or else its last
// significant token.
func (p *Parser) endToken() sqldocument.Token {
	if p.terminator != nil {
		return *p.terminator
	}
	if tok, ok := p.ts.LastSignificant(); ok {
		return tok
	}
	return p.ts.Current()
}

// accept consumes the next significant token if it is one of the keyword
// phrases, and returns it.
func (p *Parser) accept(phrases ...string) (sqldocument.Token, bool) {
	tok := p.ts.PeekSignificant(0)
	if tok.IsKeyword(phrases...) && len(phrases) > 0 {
		p.ts.NextSignificant()
		return tok, true
	}
	return sqldocument.Token{}, false
}

// acceptPunctuation consumes the next significant token if it is punct.
func (p *Parser) acceptPunctuation(punct string) bool {
	if p.ts.PeekSignificant(0).IsPunctuation(punct) {
		p.ts.NextSignificant()
		return true
	}
	return false
}

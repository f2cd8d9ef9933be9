package mysql

import (
	"strings"

	"github.com/vippsas/sqlsyntax/sqlparser/sqldocument"
)

// Expression is a column reference, table reference or free-form
// expression. Expr holds the source text with whitespace collapsed and
// comments dropped; the name fields are only filled when the expression is
// a (qualified) name or a function call.
type Expression struct {
	Database string          `yaml:"database,omitempty"`
	Table    string          `yaml:"table,omitempty"`
	Column   string          `yaml:"column,omitempty"`
	Function string          `yaml:"function,omitempty"`
	Alias    string          `yaml:"alias,omitempty"`
	Expr     string          `yaml:"expr"`
	Pos      sqldocument.Pos `yaml:"pos"`
}

func (e Expression) String() string {
	if e.Alias != "" {
		return e.Expr + " AS " + e.Alias
	}
	return e.Expr
}

// Assignment is `column = value`, in SET lists and ON DUPLICATE KEY UPDATE.
type Assignment struct {
	Column   string `yaml:"column"`
	Operator string `yaml:"operator"`
	Value    string `yaml:"value"`
}

type OrderItem struct {
	Expr      Expression `yaml:"expr"`
	Direction string     `yaml:"direction,omitempty"`
}

// Limit holds the LIMIT operands as written; Offset is empty when absent.
type Limit struct {
	Offset   string `yaml:"offset,omitempty"`
	RowCount string `yaml:"rowCount"`
}

type Join struct {
	Type  string     `yaml:"type"`
	Table Expression `yaml:"table"`
	On    string     `yaml:"on,omitempty"`
	Using []string   `yaml:"using,omitempty"`
}

// LockItem is one table of LOCK TABLES.
type LockItem struct {
	Table Expression `yaml:"table"`
	Type  string     `yaml:"type"`
}

// RenameItem is one `old TO new` pair of RENAME.
type RenameItem struct {
	Old Expression `yaml:"old"`
	New Expression `yaml:"new"`
}

// ValueRow is one parenthesized row of VALUES.
type ValueRow []string

type exprMode int

const (
	columnExpr exprMode = iota
	tableExpr
)

type exprOptions struct {
	mode exprMode
	// list stops the expression at a top-level comma
	list bool
	// alias allows a trailing `AS name` or bare name
	alias bool
	// stops are extra keywords or operators ending the expression
	stops []string
}

// parseExpression consumes one expression. It stops at the end of the
// batch, at a top-level ')' it did not open, at a clause trigger of any
// statement being parsed and at the given stops. Returns false if no token
// was consumed.
func (p *Parser) parseExpression(opts exprOptions) (Expression, bool) {
	p.ts.SkipIgnorable()
	expr := Expression{Pos: p.ts.Current().Pos}
	var parts []sqldocument.Token
	var prev sqldocument.Token
	depth := 0

loop:
	for !p.ts.EOF() {
		tok := p.ts.Current()
		if tok.IsIgnorable() {
			parts = append(parts, tok)
			p.ts.Advance()
			continue
		}
		if depth == 0 {
			switch {
			case tok.Type == sqldocument.DelimiterToken,
				tok.IsPunctuation(")"),
				opts.list && tok.IsPunctuation(","),
				p.isStop(tok, prev, opts.stops):
				break loop
			case opts.alias && len(parts) > 0 && tok.IsKeyword("AS"):
				p.ts.Advance()
				if a := p.ts.PeekSignificant(0); isAlias(a, true) {
					expr.Alias = a.Value
					p.ts.NextSignificant()
				}
				break loop
			case opts.alias && len(parts) > 0 && isOperandEnd(prev) && isAlias(tok, false):
				expr.Alias = tok.Value
				p.ts.Advance()
				break loop
			case opts.mode == tableExpr && tok.IsPunctuation("(") && isName(prev):
				// INSERT INTO t (a, b): the column list is not part of the name
				break loop
			case opts.mode == tableExpr && isName(prev) && (isName(tok) || tok.Type == sqldocument.StringToken):
				// DESCRIBE t col
				break loop
			}
		}
		switch {
		case tok.IsPunctuation("("):
			depth++
		case tok.IsPunctuation(")"):
			depth--
		}
		parts = append(parts, tok)
		prev = tok
		p.ts.Advance()
	}

	sig := significant(parts)
	if len(sig) == 0 {
		return expr, false
	}
	expr.Expr = render(parts)
	fillNames(&expr, sig, opts.mode)
	return expr, true
}

// parseExpressionList consumes a comma separated list of expressions.
func (p *Parser) parseExpressionList(opts exprOptions) ([]Expression, error) {
	opts.list = true
	var list []Expression
	for {
		e, ok := p.parseExpression(opts)
		if !ok {
			return list, p.expected("An expression")
		}
		list = append(list, e)
		if !p.acceptPunctuation(",") {
			return list, nil
		}
	}
}

func (p *Parser) parseTableList() ([]Expression, error) {
	list, err := p.parseExpressionList(exprOptions{mode: tableExpr, alias: true})
	if err != nil && len(list) == 0 {
		return nil, p.expected("A table name")
	}
	return list, err
}

// isStop reports whether tok ends an expression: a clause trigger of any
// statement being parsed, or one of extra. A function keyword called as an
// operand, as in `a = VALUES(a)`, is not a stop.
func (p *Parser) isStop(tok, prev sqldocument.Token, extra []string) bool {
	for _, s := range extra {
		if triggerMatches(tok, s) {
			return true
		}
	}
	if !p.isTrigger(tok) {
		return false
	}
	if tok.Flags.Has(sqldocument.FlagFunction) && !isOperandEnd(prev) && p.ts.PeekSignificant(1).IsPunctuation("(") {
		return false
	}
	return true
}

func (p *Parser) parseOrderList() ([]OrderItem, error) {
	var items []OrderItem
	for {
		e, ok := p.parseExpression(exprOptions{list: true, stops: []string{"ASC", "DESC"}})
		if !ok {
			return items, p.expected("An expression")
		}
		item := OrderItem{Expr: e}
		if dir, ok := p.accept("ASC", "DESC"); ok {
			item.Direction = dir.Keyword
		}
		items = append(items, item)
		if !p.acceptPunctuation(",") {
			return items, nil
		}
	}
}

// parseLimit handles `n`, `offset, n` and `n OFFSET offset`.
func (p *Parser) parseLimit() (*Limit, error) {
	first, ok := p.limitValue()
	if !ok {
		return nil, p.expected("A number")
	}
	switch {
	case p.acceptPunctuation(","):
		count, ok := p.limitValue()
		if !ok {
			return nil, p.expected("A number")
		}
		return &Limit{Offset: first, RowCount: count}, nil
	case p.ts.PeekSignificant(0).IsKeyword("OFFSET"):
		p.ts.NextSignificant()
		offset, ok := p.limitValue()
		if !ok {
			return nil, p.expected("A number")
		}
		return &Limit{Offset: offset, RowCount: first}, nil
	}
	return &Limit{RowCount: first}, nil
}

func (p *Parser) limitValue() (string, bool) {
	tok := p.ts.PeekSignificant(0)
	switch tok.Type {
	case sqldocument.NumberToken, sqldocument.ParameterToken, sqldocument.SymbolToken, sqldocument.IdentifierToken:
		p.ts.NextSignificant()
		return tok.Raw, true
	}
	return "", false
}

// parseJoin parses the table and join condition following a join keyword.
func (p *Parser) parseJoin(trigger sqldocument.Token) (Join, error) {
	j := Join{Type: trigger.Keyword}
	table, ok := p.parseExpression(exprOptions{mode: tableExpr, alias: true, stops: []string{"ON", "USING"}})
	if !ok {
		return j, p.expected("A table name")
	}
	j.Table = table
	switch {
	case p.ts.PeekSignificant(0).IsKeyword("ON"):
		p.ts.NextSignificant()
		on, ok := p.parseExpression(exprOptions{})
		if !ok {
			return j, p.expected("An expression")
		}
		j.On = on.Expr
	case p.ts.PeekSignificant(0).IsKeyword("USING"):
		p.ts.NextSignificant()
		cols, err := p.parseNameList()
		if err != nil {
			return j, err
		}
		j.Using = cols
	}
	return j, nil
}

// parseNameList parses `(name, ...)`.
func (p *Parser) parseNameList() ([]string, error) {
	if !p.acceptPunctuation("(") {
		return nil, p.expected(`"("`)
	}
	var names []string
	for {
		tok := p.ts.PeekSignificant(0)
		if !isName(tok) {
			return names, p.expected("A column name")
		}
		p.ts.NextSignificant()
		names = append(names, tok.Value)
		if !p.acceptPunctuation(",") {
			break
		}
	}
	if !p.acceptPunctuation(")") {
		return names, p.expected(`")"`)
	}
	return names, nil
}

// parseValueRow parses `(expr, ...)`; the empty row `()` is allowed.
func (p *Parser) parseValueRow() (ValueRow, error) {
	if !p.acceptPunctuation("(") {
		return nil, p.expected(`"("`)
	}
	row := ValueRow{}
	if p.acceptPunctuation(")") {
		return row, nil
	}
	exprs, err := p.parseExpressionList(exprOptions{})
	for _, e := range exprs {
		row = append(row, e.Expr)
	}
	if err != nil {
		return row, err
	}
	if !p.acceptPunctuation(")") {
		return row, p.expected(`")"`)
	}
	return row, nil
}

func (p *Parser) parseAssignment() (Assignment, error) {
	col, ok := p.parseExpression(exprOptions{list: true, stops: []string{"=", ":="}})
	if !ok {
		return Assignment{}, p.expected("A column name")
	}
	op := p.ts.PeekSignificant(0)
	if !op.IsOperator("=", ":=") {
		return Assignment{Column: col.Expr}, p.expected("An assignment operator")
	}
	p.ts.NextSignificant()
	value, ok := p.parseExpression(exprOptions{list: true})
	if !ok {
		return Assignment{Column: col.Expr, Operator: op.Value}, p.expected("An expression")
	}
	return Assignment{Column: col.Expr, Operator: op.Value, Value: value.Expr}, nil
}

func (p *Parser) parseAssignments() ([]Assignment, error) {
	var list []Assignment
	for {
		a, err := p.parseAssignment()
		if err != nil {
			return list, err
		}
		list = append(list, a)
		if !p.acceptPunctuation(",") {
			return list, nil
		}
	}
}

func significant(parts []sqldocument.Token) []sqldocument.Token {
	var sig []sqldocument.Token
	for _, t := range parts {
		if !t.IsIgnorable() {
			sig = append(sig, t)
		}
	}
	return sig
}

// render joins the raw text of parts, with each run of whitespace and
// comments replaced by one space.
func render(parts []sqldocument.Token) string {
	var sb strings.Builder
	space := false
	for _, t := range parts {
		if t.IsIgnorable() {
			space = true
			continue
		}
		if space && sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		space = false
		sb.WriteString(t.Raw)
	}
	return sb.String()
}

// fillNames sets the name fields of expr from its significant tokens.
func fillNames(expr *Expression, sig []sqldocument.Token, mode exprMode) {
	if len(sig) > 2 && sig[0].Flags.Has(sqldocument.FlagFunction) && sig[1].IsPunctuation("(") {
		// built-in function keywords, some of them reserved: LEFT(s, 2)
		expr.Function = sig[0].Keyword
		return
	}
	names, n := dottedName(sig)
	if len(names) == 0 {
		return
	}
	if n < len(sig) && sig[n].IsPunctuation("(") {
		if sig[len(sig)-1].IsPunctuation(")") && len(names) <= 2 {
			expr.Function = names[len(names)-1]
			if len(names) == 2 {
				expr.Database = names[0]
			}
		}
		return
	}
	if mode == tableExpr {
		// trailing index hints and the like do not change the table;
		// t.* names table t in multi-table DELETE
		if names[len(names)-1] == "*" {
			names = names[:len(names)-1]
		}
		switch len(names) {
		case 1:
			expr.Table = names[0]
		case 2:
			expr.Database, expr.Table = names[0], names[1]
		}
		return
	}
	if n != len(sig) {
		return
	}
	switch len(names) {
	case 1:
		expr.Column = names[0]
	case 2:
		expr.Table, expr.Column = names[0], names[1]
	case 3:
		expr.Database, expr.Table, expr.Column = names[0], names[1], names[2]
	}
}

// dottedName reads a name of the form a.b.c from the start of sig and
// returns its parts and the number of tokens it spans.
func dottedName(sig []sqldocument.Token) ([]string, int) {
	var names []string
	n := 0
	for n < len(sig) {
		t := sig[n]
		switch {
		case isName(t):
			names = append(names, t.Value)
		case t.IsOperator("*"):
			names = append(names, "*")
			return names, n + 1
		default:
			return nil, 0
		}
		n++
		if n+1 < len(sig) && sig[n].IsPunctuation(".") {
			n++
			continue
		}
		break
	}
	return names, n
}

// isName reports whether t can name a schema object: an identifier, a
// quoted identifier or a non-reserved keyword.
func isName(t sqldocument.Token) bool {
	switch t.Type {
	case sqldocument.IdentifierToken, sqldocument.QuotedIdentifierToken:
		return true
	case sqldocument.KeywordToken:
		return !t.Flags.Has(sqldocument.FlagReserved) && !t.Flags.Has(sqldocument.FlagComposed)
	}
	return false
}

// isAlias reports whether t can be an alias. After AS, strings and
// non-reserved keywords are accepted too.
func isAlias(t sqldocument.Token, afterAS bool) bool {
	switch t.Type {
	case sqldocument.IdentifierToken, sqldocument.QuotedIdentifierToken:
		return true
	case sqldocument.StringToken:
		return afterAS
	case sqldocument.KeywordToken:
		return afterAS && isName(t)
	}
	return false
}

// isOperandEnd reports whether t can end an operand, so that a name
// following it is an alias.
func isOperandEnd(t sqldocument.Token) bool {
	switch t.Type {
	case sqldocument.IdentifierToken, sqldocument.QuotedIdentifierToken, sqldocument.NumberToken,
		sqldocument.StringToken, sqldocument.SymbolToken, sqldocument.ParameterToken:
		return true
	case sqldocument.PunctuationToken:
		return t.Raw == ")"
	case sqldocument.KeywordToken:
		return isName(t) || t.IsKeyword("NULL", "TRUE", "FALSE")
	}
	return false
}

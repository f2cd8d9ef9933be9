package mysql

import (
	"github.com/vippsas/sqlsyntax/sqlparser/sqldocument"
)

// ExplainStatement is EXPLAIN, DESCRIBE or DESC, either of a statement or
// of a table. For a table, Column optionally names a column or a column
// pattern.
type ExplainStatement struct {
	sqldocument.StatementBase `yaml:",inline"`

	Command   string                `yaml:"command"`
	Options   []string              `yaml:"options,omitempty"`
	Table     *Expression           `yaml:"table,omitempty"`
	Column    string                `yaml:"column,omitempty"`
	Statement sqldocument.Statement `yaml:"statement,omitempty"`
}

var explainClauses []Clause[ExplainStatement]

func init() {
	explainClauses = []Clause[ExplainStatement]{
		{
			Name:     "options",
			Triggers: []string{"EXTENDED", "PARTITIONS", "ANALYZE", "FORMAT"},
			Mult:     ZeroOrMore,
			Rank:     1,
			Shape:    explainOption,
		},
		{
			Name:        "statement | table",
			Triggers:    []string{"SELECT", "INSERT", "REPLACE", "UPDATE", "DELETE"},
			Positional:  true,
			KeepTrigger: true,
			Mult:        ExactlyOne,
			Rank:        2,
			Shape:       explainSubject,
		},
		{
			Name:       "column",
			Positional: true,
			Rank:       3,
			Shape: func(p *Parser, s *ExplainStatement, trigger sqldocument.Token) error {
				tok := p.ts.PeekSignificant(0)
				if !isName(tok) && tok.Type != sqldocument.StringToken {
					return p.expected("A column name")
				}
				p.ts.NextSignificant()
				s.Column = tok.Value
				return nil
			},
		},
	}
}

// explainOption records EXTENDED, PARTITIONS, ANALYZE and FORMAT = name.
func explainOption(p *Parser, s *ExplainStatement, trigger sqldocument.Token) error {
	if trigger.Keyword != "FORMAT" {
		s.Options = append(s.Options, trigger.Keyword)
		return nil
	}
	if !p.ts.PeekSignificant(0).IsOperator("=") {
		return p.expected(`"="`)
	}
	p.ts.NextSignificant()
	format := p.ts.PeekSignificant(0)
	if !isName(format) && format.Type != sqldocument.StringToken {
		return p.expected("A format name")
	}
	p.ts.NextSignificant()
	s.Options = append(s.Options, "FORMAT="+format.Value)
	return nil
}

// explainSubject parses the explained statement (its command keyword is at
// the cursor) or the described table.
func explainSubject(p *Parser, s *ExplainStatement, trigger sqldocument.Token) error {
	if trigger.Type == sqldocument.KeywordToken {
		s.Statement = p.parseStatement()
		return nil
	}
	e, ok := p.parseExpression(exprOptions{mode: tableExpr})
	if !ok || e.Table == "" {
		return p.expected("A table name")
	}
	s.Table = &e
	return nil
}

func parseExplain(p *Parser, base sqldocument.StatementBase) sqldocument.Statement {
	s := &ExplainStatement{StatementBase: base, Command: base.Keyword}
	parseClauses(p, s, &s.StatementBase, explainClauses)
	return s
}

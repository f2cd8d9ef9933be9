package mysql

import (
	"github.com/vippsas/sqlsyntax/sqlparser/sqldocument"
)

// PurgeStatement is `PURGE {BINARY | MASTER} LOGS {TO 'file' | BEFORE expr}`.
type PurgeStatement struct {
	sqldocument.StatementBase `yaml:",inline"`

	LogType   string `yaml:"logType"`
	EndOption string `yaml:"endOption"`
	// EndExpr is the log file name for TO, and the expression text for
	// BEFORE.
	EndExpr string `yaml:"endExpr"`
}

var purgeClauses []Clause[PurgeStatement]

func init() {
	purgeClauses = []Clause[PurgeStatement]{
		{
			Name:     "BINARY | MASTER",
			Triggers: []string{"BINARY", "MASTER"},
			Mult:     ExactlyOne,
			Rank:     1,
			Shape: func(p *Parser, s *PurgeStatement, trigger sqldocument.Token) error {
				s.LogType = trigger.Keyword
				return nil
			},
		},
		{
			Name:     "LOGS",
			Triggers: []string{"LOGS"},
			Mult:     ExactlyOne,
			Rank:     2,
			Shape: func(p *Parser, s *PurgeStatement, trigger sqldocument.Token) error {
				return nil
			},
		},
		{
			Name:     "TO | BEFORE",
			Triggers: []string{"TO", "BEFORE"},
			Mult:     ExactlyOne,
			Rank:     3,
			Shape:    purgeEnd,
		},
	}
}

func purgeEnd(p *Parser, s *PurgeStatement, trigger sqldocument.Token) error {
	s.EndOption = trigger.Keyword
	if trigger.Keyword == "TO" {
		tok := p.ts.PeekSignificant(0)
		if tok.Type != sqldocument.StringToken {
			return p.expected("String")
		}
		p.ts.NextSignificant()
		s.EndExpr = tok.Value
		return nil
	}
	e, ok := p.parseExpression(exprOptions{})
	if !ok {
		return p.expected("An expression")
	}
	s.EndExpr = e.Expr
	return nil
}

func parsePurge(p *Parser, base sqldocument.StatementBase) sqldocument.Statement {
	s := &PurgeStatement{StatementBase: base}
	parseClauses(p, s, &s.StatementBase, purgeClauses)
	return s
}

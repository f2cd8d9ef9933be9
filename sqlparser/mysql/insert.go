package mysql

import (
	"github.com/vippsas/sqlsyntax/sqlparser/sqldocument"
)

// InsertStatement is INSERT or REPLACE; Command tells which.
type InsertStatement struct {
	sqldocument.StatementBase `yaml:",inline"`

	Command        string           `yaml:"command"`
	Options        []string         `yaml:"options,omitempty"`
	Into           Expression       `yaml:"into"`
	Columns        []string         `yaml:"columns,omitempty"`
	Values         []ValueRow       `yaml:"values,omitempty"`
	Set            []Assignment     `yaml:"set,omitempty"`
	Select         *SelectStatement `yaml:"select,omitempty"`
	OnDuplicateSet []Assignment     `yaml:"onDuplicateSet,omitempty"`
	Returning      []Expression     `yaml:"returning,omitempty"`
}

var insertClauses []Clause[InsertStatement]

func init() {
	insertClauses = []Clause[InsertStatement]{
		{
			Name:     "options",
			Triggers: []string{"LOW_PRIORITY", "DELAYED", "HIGH_PRIORITY", "IGNORE"},
			Mult:     ZeroOrMore,
			Rank:     1,
			Shape: func(p *Parser, s *InsertStatement, trigger sqldocument.Token) error {
				s.Options = append(s.Options, trigger.Keyword)
				return nil
			},
		},
		{
			// INTO is optional before the table name
			Name:       "INTO",
			Triggers:   []string{"INTO"},
			Positional: true,
			Mult:       ExactlyOne,
			Rank:       2,
			Shape:      insertInto,
		},
		{
			Name:        "VALUES | SET | SELECT",
			Triggers:    []string{"VALUES", "VALUE", "SET", "SELECT"},
			KeepTrigger: true,
			Mult:        ExactlyOne,
			Rank:        3,
			Shape:       insertSource,
		},
		{
			Name:     "ON DUPLICATE KEY UPDATE",
			Triggers: []string{"ON DUPLICATE KEY UPDATE"},
			Rank:     4,
			Shape: func(p *Parser, s *InsertStatement, trigger sqldocument.Token) (err error) {
				s.OnDuplicateSet, err = p.parseAssignments()
				return err
			},
		},
		{
			Name:     "RETURNING",
			Triggers: []string{"RETURNING"},
			Rank:     5,
			Shape: func(p *Parser, s *InsertStatement, trigger sqldocument.Token) (err error) {
				s.Returning, err = p.parseExpressionList(exprOptions{alias: true})
				return err
			},
		},
	}
}

func insertInto(p *Parser, s *InsertStatement, trigger sqldocument.Token) error {
	table, ok := p.parseExpression(exprOptions{mode: tableExpr})
	if !ok {
		return p.expected("A table name")
	}
	s.Into = table
	if p.ts.PeekSignificant(0).IsPunctuation("(") {
		cols, err := p.parseNameList()
		s.Columns = cols
		return err
	}
	return nil
}

// insertSource parses the rows to insert. The trigger is still at the
// cursor.
func insertSource(p *Parser, s *InsertStatement, trigger sqldocument.Token) error {
	p.ts.NextSignificant()
	switch trigger.Keyword {
	case "SET":
		set, err := p.parseAssignments()
		s.Set = append(s.Set, set...)
		return err
	case "SELECT":
		s.Select = parseSelectStatement(p, sqldocument.StatementBase{Keyword: "SELECT", Pos: trigger.Pos})
		return nil
	}
	for {
		row, err := p.parseValueRow()
		if row != nil {
			s.Values = append(s.Values, row)
		}
		if err != nil {
			return err
		}
		if !p.acceptPunctuation(",") {
			return nil
		}
	}
}

func parseInsert(p *Parser, base sqldocument.StatementBase) sqldocument.Statement {
	s := &InsertStatement{StatementBase: base, Command: base.Keyword}
	parseClauses(p, s, &s.StatementBase, insertClauses)
	return s
}

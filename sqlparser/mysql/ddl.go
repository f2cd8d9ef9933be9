package mysql

import (
	"github.com/vippsas/sqlsyntax/sqlparser/sqldocument"
)

type TruncateStatement struct {
	sqldocument.StatementBase `yaml:",inline"`

	Table Expression `yaml:"table"`
}

type DropStatement struct {
	sqldocument.StatementBase `yaml:",inline"`

	Temporary  bool         `yaml:"temporary,omitempty"`
	ObjectType string       `yaml:"objectType"`
	IfExists   bool         `yaml:"ifExists,omitempty"`
	Names      []Expression `yaml:"names"`
	// On is the table of DROP INDEX ... ON t.
	On      *Expression `yaml:"on,omitempty"`
	Options []string    `yaml:"options,omitempty"`
}

type RenameStatement struct {
	sqldocument.StatementBase `yaml:",inline"`

	ObjectType string       `yaml:"objectType"`
	Renames    []RenameItem `yaml:"renames"`
}

var (
	truncateClauses []Clause[TruncateStatement]
	dropClauses     []Clause[DropStatement]
	renameClauses   []Clause[RenameStatement]
)

var dropObjectTypes = []string{
	"TABLE", "TABLES", "DATABASE", "SCHEMA", "VIEW", "INDEX", "PROCEDURE",
	"FUNCTION", "TRIGGER", "EVENT", "USER",
}

func init() {
	truncateClauses = []Clause[TruncateStatement]{
		{
			Name:     "TABLE",
			Triggers: []string{"TABLE"},
			Rank:     1,
			Shape: func(p *Parser, s *TruncateStatement, trigger sqldocument.Token) error {
				return nil
			},
		},
		{
			Name:       "table",
			Positional: true,
			Mult:       ExactlyOne,
			Rank:       2,
			Shape: func(p *Parser, s *TruncateStatement, trigger sqldocument.Token) error {
				e, ok := p.parseExpression(exprOptions{mode: tableExpr})
				if !ok {
					return p.expected("A table name")
				}
				s.Table = e
				return nil
			},
		},
	}

	dropClauses = []Clause[DropStatement]{
		{
			Name:     "TEMPORARY",
			Triggers: []string{"TEMPORARY"},
			Rank:     1,
			Shape: func(p *Parser, s *DropStatement, trigger sqldocument.Token) error {
				s.Temporary = true
				return nil
			},
		},
		{
			Name:     "object type",
			Triggers: dropObjectTypes,
			Mult:     ExactlyOne,
			Rank:     2,
			Shape: func(p *Parser, s *DropStatement, trigger sqldocument.Token) error {
				s.ObjectType = trigger.Keyword
				return nil
			},
		},
		{
			Name:     "IF EXISTS",
			Triggers: []string{"IF EXISTS"},
			Rank:     3,
			Shape: func(p *Parser, s *DropStatement, trigger sqldocument.Token) error {
				s.IfExists = true
				return nil
			},
		},
		{
			Name:       "names",
			Positional: true,
			Mult:       ExactlyOne,
			Rank:       4,
			Shape: func(p *Parser, s *DropStatement, trigger sqldocument.Token) (err error) {
				s.Names, err = p.parseExpressionList(exprOptions{mode: tableExpr})
				return err
			},
		},
		{
			Name:     "ON",
			Triggers: []string{"ON"},
			Rank:     5,
			Shape: func(p *Parser, s *DropStatement, trigger sqldocument.Token) error {
				e, ok := p.parseExpression(exprOptions{mode: tableExpr})
				if !ok {
					return p.expected("A table name")
				}
				s.On = &e
				return nil
			},
		},
		{
			Name:     "options",
			Triggers: []string{"RESTRICT", "CASCADE"},
			Mult:     ZeroOrMore,
			Rank:     6,
			Shape: func(p *Parser, s *DropStatement, trigger sqldocument.Token) error {
				s.Options = append(s.Options, trigger.Keyword)
				return nil
			},
		},
	}

	renameClauses = []Clause[RenameStatement]{
		{
			Name:     "object type",
			Triggers: []string{"TABLE", "TABLES", "USER"},
			Mult:     ExactlyOne,
			Rank:     1,
			Shape: func(p *Parser, s *RenameStatement, trigger sqldocument.Token) error {
				s.ObjectType = trigger.Keyword
				return nil
			},
		},
		{
			Name:       "renames",
			Positional: true,
			Mult:       ExactlyOne,
			Rank:       2,
			Shape:      renameItems,
		},
	}
}

// renameItems parses `old TO new [, old TO new ...]`.
func renameItems(p *Parser, s *RenameStatement, trigger sqldocument.Token) error {
	opts := exprOptions{mode: tableExpr, list: true, stops: []string{"TO"}}
	for {
		old, ok := p.parseExpression(opts)
		if !ok {
			return p.expected("A name")
		}
		if _, ok := p.accept("TO"); !ok {
			return p.expected(`"TO"`)
		}
		renamed, ok := p.parseExpression(opts)
		if !ok {
			return p.expected("A name")
		}
		s.Renames = append(s.Renames, RenameItem{Old: old, New: renamed})
		if !p.acceptPunctuation(",") {
			return nil
		}
	}
}

func parseTruncate(p *Parser, base sqldocument.StatementBase) sqldocument.Statement {
	s := &TruncateStatement{StatementBase: base}
	parseClauses(p, s, &s.StatementBase, truncateClauses)
	return s
}

func parseDrop(p *Parser, base sqldocument.StatementBase) sqldocument.Statement {
	s := &DropStatement{StatementBase: base}
	parseClauses(p, s, &s.StatementBase, dropClauses)
	return s
}

func parseRename(p *Parser, base sqldocument.StatementBase) sqldocument.Statement {
	s := &RenameStatement{StatementBase: base}
	parseClauses(p, s, &s.StatementBase, renameClauses)
	return s
}

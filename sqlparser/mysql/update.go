package mysql

import (
	"github.com/vippsas/sqlsyntax/sqlparser/sqldocument"
)

type UpdateStatement struct {
	sqldocument.StatementBase `yaml:",inline"`

	Options []string     `yaml:"options,omitempty"`
	Tables  []Expression `yaml:"tables"`
	Joins   []Join       `yaml:"joins,omitempty"`
	Set     []Assignment `yaml:"set"`
	Where   string       `yaml:"where,omitempty"`
	OrderBy []OrderItem  `yaml:"orderBy,omitempty"`
	Limit   *Limit       `yaml:"limit,omitempty"`
}

var updateClauses []Clause[UpdateStatement]

func init() {
	updateClauses = []Clause[UpdateStatement]{
		{
			Name:     "options",
			Triggers: []string{"LOW_PRIORITY", "IGNORE"},
			Mult:     ZeroOrMore,
			Rank:     1,
			Shape: func(p *Parser, s *UpdateStatement, trigger sqldocument.Token) error {
				s.Options = append(s.Options, trigger.Keyword)
				return nil
			},
		},
		{
			Name:       "tables",
			Positional: true,
			Mult:       ExactlyOne,
			Rank:       2,
			Shape: func(p *Parser, s *UpdateStatement, trigger sqldocument.Token) (err error) {
				s.Tables, err = p.parseTableList()
				return err
			},
		},
		{
			Name:     "JOIN",
			Triggers: joinTypes,
			Mult:     ZeroOrMore,
			Rank:     3,
			Shape: func(p *Parser, s *UpdateStatement, trigger sqldocument.Token) error {
				j, err := p.parseJoin(trigger)
				s.Joins = append(s.Joins, j)
				return err
			},
		},
		{
			Name:     "SET",
			Triggers: []string{"SET"},
			Mult:     ExactlyOne,
			Rank:     4,
			Shape: func(p *Parser, s *UpdateStatement, trigger sqldocument.Token) (err error) {
				s.Set, err = p.parseAssignments()
				return err
			},
		},
		{
			Name:     "WHERE",
			Triggers: []string{"WHERE"},
			Rank:     5,
			Shape: func(p *Parser, s *UpdateStatement, trigger sqldocument.Token) (err error) {
				s.Where, err = p.parseCondition()
				return err
			},
		},
		{
			Name:     "ORDER BY",
			Triggers: []string{"ORDER BY"},
			Rank:     6,
			Shape: func(p *Parser, s *UpdateStatement, trigger sqldocument.Token) (err error) {
				s.OrderBy, err = p.parseOrderList()
				return err
			},
		},
		{
			Name:     "LIMIT",
			Triggers: []string{"LIMIT"},
			Rank:     7,
			Shape: func(p *Parser, s *UpdateStatement, trigger sqldocument.Token) (err error) {
				s.Limit, err = p.parseLimit()
				return err
			},
		},
	}
}

func parseUpdate(p *Parser, base sqldocument.StatementBase) sqldocument.Statement {
	s := &UpdateStatement{StatementBase: base}
	parseClauses(p, s, &s.StatementBase, updateClauses)
	return s
}

package mysql

import (
	"github.com/vippsas/sqlsyntax/sqlparser/sqldocument"
)

// DeleteStatement covers the single-table form and both multi-table forms:
// `DELETE t1, t2 FROM ...` (Targets) and `DELETE FROM t1, t2 USING ...`.
type DeleteStatement struct {
	sqldocument.StatementBase `yaml:",inline"`

	Options   []string     `yaml:"options,omitempty"`
	Targets   []Expression `yaml:"targets,omitempty"`
	From      []Expression `yaml:"from"`
	Joins     []Join       `yaml:"joins,omitempty"`
	Using     []Expression `yaml:"using,omitempty"`
	Where     string       `yaml:"where,omitempty"`
	OrderBy   []OrderItem  `yaml:"orderBy,omitempty"`
	Limit     *Limit       `yaml:"limit,omitempty"`
	Returning []Expression `yaml:"returning,omitempty"`
}

var deleteClauses []Clause[DeleteStatement]

func init() {
	deleteClauses = []Clause[DeleteStatement]{
		{
			Name:     "options",
			Triggers: []string{"LOW_PRIORITY", "QUICK", "IGNORE"},
			Mult:     ZeroOrMore,
			Rank:     1,
			Shape: func(p *Parser, s *DeleteStatement, trigger sqldocument.Token) error {
				s.Options = append(s.Options, trigger.Keyword)
				return nil
			},
		},
		{
			Name:       "targets",
			Positional: true,
			Rank:       2,
			Shape: func(p *Parser, s *DeleteStatement, trigger sqldocument.Token) (err error) {
				s.Targets, err = p.parseExpressionList(exprOptions{mode: tableExpr})
				return err
			},
		},
		{
			Name:     "FROM",
			Triggers: []string{"FROM"},
			Mult:     ExactlyOne,
			Rank:     3,
			Shape: func(p *Parser, s *DeleteStatement, trigger sqldocument.Token) (err error) {
				s.From, err = p.parseTableList()
				return err
			},
		},
		{
			Name:     "JOIN",
			Triggers: joinTypes,
			Mult:     ZeroOrMore,
			Rank:     5,
			Shape: func(p *Parser, s *DeleteStatement, trigger sqldocument.Token) error {
				j, err := p.parseJoin(trigger)
				s.Joins = append(s.Joins, j)
				return err
			},
		},
		{
			Name:     "USING",
			Triggers: []string{"USING"},
			Rank:     4,
			Shape: func(p *Parser, s *DeleteStatement, trigger sqldocument.Token) (err error) {
				s.Using, err = p.parseTableList()
				return err
			},
		},
		{
			Name:     "WHERE",
			Triggers: []string{"WHERE"},
			Rank:     6,
			Shape: func(p *Parser, s *DeleteStatement, trigger sqldocument.Token) (err error) {
				s.Where, err = p.parseCondition()
				return err
			},
		},
		{
			Name:     "ORDER BY",
			Triggers: []string{"ORDER BY"},
			Rank:     7,
			Shape: func(p *Parser, s *DeleteStatement, trigger sqldocument.Token) (err error) {
				s.OrderBy, err = p.parseOrderList()
				return err
			},
		},
		{
			Name:     "LIMIT",
			Triggers: []string{"LIMIT"},
			Rank:     8,
			Shape: func(p *Parser, s *DeleteStatement, trigger sqldocument.Token) (err error) {
				s.Limit, err = p.parseLimit()
				return err
			},
		},
		{
			Name:     "RETURNING",
			Triggers: []string{"RETURNING"},
			Rank:     9,
			Shape: func(p *Parser, s *DeleteStatement, trigger sqldocument.Token) (err error) {
				s.Returning, err = p.parseExpressionList(exprOptions{alias: true})
				return err
			},
		},
	}
}

func parseDelete(p *Parser, base sqldocument.StatementBase) sqldocument.Statement {
	s := &DeleteStatement{StatementBase: base}
	parseClauses(p, s, &s.StatementBase, deleteClauses)
	return s
}

package mysql

import (
	"slices"

	"github.com/vippsas/sqlsyntax/sqlparser/sqldocument"
)

type SelectStatement struct {
	sqldocument.StatementBase `yaml:",inline"`

	Options []string     `yaml:"options,omitempty"`
	Exprs   []Expression `yaml:"exprs"`
	From    []Expression `yaml:"from,omitempty"`
	Joins   []Join       `yaml:"joins,omitempty"`
	Where   string       `yaml:"where,omitempty"`
	GroupBy []Expression `yaml:"groupBy,omitempty"`
	Rollup  bool         `yaml:"rollup,omitempty"`
	Having  string       `yaml:"having,omitempty"`
	OrderBy []OrderItem  `yaml:"orderBy,omitempty"`
	Limit   *Limit       `yaml:"limit,omitempty"`
	// Locking is FOR UPDATE, FOR SHARE or LOCK IN SHARE MODE.
	Locking string  `yaml:"locking,omitempty"`
	Unions  []Union `yaml:"unions,omitempty"`
}

// Union is one further query of a compound SELECT.
type Union struct {
	// Type is UNION, UNION ALL, UNION DISTINCT, EXCEPT or INTERSECT.
	Type   string           `yaml:"type"`
	Select *SelectStatement `yaml:"select"`
}

var selectOptions = []string{
	"ALL", "DISTINCT", "DISTINCTROW", "HIGH_PRIORITY", "STRAIGHT_JOIN",
	"SQL_SMALL_RESULT", "SQL_BIG_RESULT", "SQL_BUFFER_RESULT",
	"SQL_CACHE", "SQL_NO_CACHE", "SQL_CALC_FOUND_ROWS",
}

var joinTypes = []string{
	"JOIN", "INNER JOIN", "CROSS JOIN",
	"LEFT JOIN", "LEFT OUTER JOIN", "RIGHT JOIN", "RIGHT OUTER JOIN",
	"NATURAL JOIN", "NATURAL LEFT JOIN", "NATURAL RIGHT JOIN",
	"NATURAL LEFT OUTER JOIN", "NATURAL RIGHT OUTER JOIN",
}

var (
	selectClauses []Clause[SelectStatement]
	// unionMemberClauses parse the queries following UNION; further
	// UNIONs are left to the first query so that they stay flat.
	unionMemberClauses []Clause[SelectStatement]
)

func init() {
	selectClauses = []Clause[SelectStatement]{
		{
			Name:     "options",
			Triggers: selectOptions,
			Mult:     ZeroOrMore,
			Rank:     1,
			Shape: func(p *Parser, s *SelectStatement, trigger sqldocument.Token) error {
				s.Options = append(s.Options, trigger.Keyword)
				return nil
			},
		},
		{
			Name:       "expressions",
			Positional: true,
			Mult:       ExactlyOne,
			Rank:       2,
			Shape: func(p *Parser, s *SelectStatement, trigger sqldocument.Token) (err error) {
				s.Exprs, err = p.parseExpressionList(exprOptions{alias: true})
				return err
			},
		},
		{
			Name:     "FROM",
			Triggers: []string{"FROM"},
			Rank:     3,
			Shape: func(p *Parser, s *SelectStatement, trigger sqldocument.Token) (err error) {
				s.From, err = p.parseTableList()
				return err
			},
		},
		{
			Name:     "JOIN",
			Triggers: joinTypes,
			Mult:     ZeroOrMore,
			Rank:     4,
			Shape: func(p *Parser, s *SelectStatement, trigger sqldocument.Token) error {
				j, err := p.parseJoin(trigger)
				s.Joins = append(s.Joins, j)
				return err
			},
		},
		{
			Name:     "WHERE",
			Triggers: []string{"WHERE"},
			Rank:     5,
			Shape: func(p *Parser, s *SelectStatement, trigger sqldocument.Token) (err error) {
				s.Where, err = p.parseCondition()
				return err
			},
		},
		{
			Name:     "GROUP BY",
			Triggers: []string{"GROUP BY"},
			Rank:     6,
			Shape: func(p *Parser, s *SelectStatement, trigger sqldocument.Token) (err error) {
				s.GroupBy, err = p.parseExpressionList(exprOptions{})
				return err
			},
		},
		{
			Name:     "WITH ROLLUP",
			Triggers: []string{"WITH ROLLUP"},
			Rank:     7,
			Shape: func(p *Parser, s *SelectStatement, trigger sqldocument.Token) error {
				s.Rollup = true
				return nil
			},
		},
		{
			Name:     "HAVING",
			Triggers: []string{"HAVING"},
			Rank:     8,
			Shape: func(p *Parser, s *SelectStatement, trigger sqldocument.Token) (err error) {
				s.Having, err = p.parseCondition()
				return err
			},
		},
		{
			Name:     "ORDER BY",
			Triggers: []string{"ORDER BY"},
			Rank:     9,
			Shape: func(p *Parser, s *SelectStatement, trigger sqldocument.Token) (err error) {
				s.OrderBy, err = p.parseOrderList()
				return err
			},
		},
		{
			Name:     "LIMIT",
			Triggers: []string{"LIMIT"},
			Rank:     10,
			Shape: func(p *Parser, s *SelectStatement, trigger sqldocument.Token) (err error) {
				s.Limit, err = p.parseLimit()
				return err
			},
		},
		{
			Name:     "locking",
			Triggers: []string{"FOR UPDATE", "FOR SHARE", "LOCK IN SHARE MODE"},
			Rank:     11,
			Shape: func(p *Parser, s *SelectStatement, trigger sqldocument.Token) error {
				s.Locking = trigger.Keyword
				return nil
			},
		},
		{
			Name:     "UNION",
			Triggers: []string{"UNION", "UNION ALL", "UNION DISTINCT", "EXCEPT", "INTERSECT"},
			Mult:     ZeroOrMore,
			Rank:     12,
			Shape:    parseUnion,
		},
	}
	unionMemberClauses = slices.DeleteFunc(slices.Clone(selectClauses), func(c Clause[SelectStatement]) bool {
		return c.Name == "UNION"
	})
}

func parseUnion(p *Parser, s *SelectStatement, trigger sqldocument.Token) error {
	first, ok := p.accept("SELECT")
	if !ok {
		return p.expected(`"SELECT"`)
	}
	member := &SelectStatement{StatementBase: sqldocument.StatementBase{Keyword: "SELECT", Pos: first.Pos}}
	parseClauses(p, member, &member.StatementBase, unionMemberClauses)
	s.Unions = append(s.Unions, Union{Type: trigger.Keyword, Select: member})
	return nil
}

// parseCondition parses the expression of WHERE, HAVING and ON.
func (p *Parser) parseCondition() (string, error) {
	e, ok := p.parseExpression(exprOptions{})
	if !ok {
		return "", p.expected("An expression")
	}
	return e.Expr, nil
}

func parseSelect(p *Parser, base sqldocument.StatementBase) sqldocument.Statement {
	return parseSelectStatement(p, base)
}

func parseSelectStatement(p *Parser, base sqldocument.StatementBase) *SelectStatement {
	s := &SelectStatement{StatementBase: base}
	parseClauses(p, s, &s.StatementBase, selectClauses)
	return s
}

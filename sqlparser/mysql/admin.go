package mysql

import (
	"strings"

	"github.com/vippsas/sqlsyntax/sqlparser/sqldocument"
)

// SetStatement is a SET of variables, SET NAMES, SET CHARACTER SET or
// SET TRANSACTION. The last three are recorded as assignments to the
// pseudo columns NAMES, CHARACTER SET and TRANSACTION. A scope given for
// a single assignment prefixes its column: `SESSION sql_mode`.
type SetStatement struct {
	sqldocument.StatementBase `yaml:",inline"`

	Scope       string       `yaml:"scope,omitempty"`
	Assignments []Assignment `yaml:"assignments"`
}

type KillStatement struct {
	sqldocument.StatementBase `yaml:",inline"`

	Options []string `yaml:"options,omitempty"`
	Target  string   `yaml:"target"`
}

type UseStatement struct {
	sqldocument.StatementBase `yaml:",inline"`

	Database string `yaml:"database"`
}

type CallStatement struct {
	sqldocument.StatementBase `yaml:",inline"`

	Procedure Expression `yaml:"procedure"`
}

type ShowStatement struct {
	sqldocument.StatementBase `yaml:",inline"`

	// Subject is what is shown, as written: TABLES, FULL COLUMNS, CREATE TABLE t.
	Subject string `yaml:"subject"`
	From    string `yaml:"from,omitempty"`
	Like    string `yaml:"like,omitempty"`
	Where   string `yaml:"where,omitempty"`
}

// TransactionStatement is START TRANSACTION, BEGIN, COMMIT, ROLLBACK,
// SAVEPOINT or RELEASE SAVEPOINT; Type holds the command.
type TransactionStatement struct {
	sqldocument.StatementBase `yaml:",inline"`

	Type      string   `yaml:"type"`
	Options   []string `yaml:"options,omitempty"`
	Savepoint string   `yaml:"savepoint,omitempty"`
}

// LockStatement is LOCK TABLES or, with Unlock set, UNLOCK TABLES.
type LockStatement struct {
	sqldocument.StatementBase `yaml:",inline"`

	Unlock bool       `yaml:"unlock,omitempty"`
	Locked []LockItem `yaml:"locked,omitempty"`
}

// MaintenanceStatement is one of the table maintenance commands
// ANALYZE, CHECK, CHECKSUM, OPTIMIZE and REPAIR.
type MaintenanceStatement struct {
	sqldocument.StatementBase `yaml:",inline"`

	Command      string       `yaml:"command"`
	Options      []string     `yaml:"options,omitempty"`
	Tables       []Expression `yaml:"tables"`
	TableOptions []string     `yaml:"tableOptions,omitempty"`
}

var setScopes = []string{"GLOBAL", "SESSION", "LOCAL", "PERSIST", "PERSIST_ONLY"}

var (
	setClauses         []Clause[SetStatement]
	killClauses        []Clause[KillStatement]
	useClauses         []Clause[UseStatement]
	callClauses        []Clause[CallStatement]
	showClauses        []Clause[ShowStatement]
	transactionClauses []Clause[TransactionStatement]
	savepointClauses   []Clause[TransactionStatement]
	lockClauses        []Clause[LockStatement]
	maintenanceClauses []Clause[MaintenanceStatement]
)

func init() {
	setClauses = []Clause[SetStatement]{
		{
			Name:     "scope",
			Triggers: setScopes,
			Rank:     1,
			Shape: func(p *Parser, s *SetStatement, trigger sqldocument.Token) error {
				s.Scope = trigger.Keyword
				return nil
			},
		},
		{
			Name:        "assignments",
			Triggers:    []string{"NAMES", "CHARACTER SET", "TRANSACTION"},
			Positional:  true,
			KeepTrigger: true,
			Mult:        ExactlyOne,
			Rank:        2,
			Shape:       setAssignments,
		},
	}

	killClauses = []Clause[KillStatement]{
		{
			Name:     "options",
			Triggers: []string{"CONNECTION", "QUERY", "QUERY ID", "HARD", "SOFT", "USER"},
			Mult:     ZeroOrMore,
			Rank:     1,
			Shape: func(p *Parser, s *KillStatement, trigger sqldocument.Token) error {
				s.Options = append(s.Options, trigger.Keyword)
				return nil
			},
		},
		{
			Name:       "target",
			Positional: true,
			Mult:       ExactlyOne,
			Rank:       2,
			Shape: func(p *Parser, s *KillStatement, trigger sqldocument.Token) error {
				e, ok := p.parseExpression(exprOptions{})
				if !ok {
					return p.expected("An expression")
				}
				s.Target = e.Expr
				return nil
			},
		},
	}

	useClauses = []Clause[UseStatement]{
		{
			Name:       "database",
			Positional: true,
			Mult:       ExactlyOne,
			Rank:       1,
			Shape: func(p *Parser, s *UseStatement, trigger sqldocument.Token) error {
				tok := p.ts.PeekSignificant(0)
				if !isName(tok) {
					return p.expected("A database name")
				}
				p.ts.NextSignificant()
				s.Database = tok.Value
				return nil
			},
		},
	}

	callClauses = []Clause[CallStatement]{
		{
			Name:       "procedure",
			Positional: true,
			Mult:       ExactlyOne,
			Rank:       1,
			Shape: func(p *Parser, s *CallStatement, trigger sqldocument.Token) error {
				e, ok := p.parseExpression(exprOptions{})
				if !ok || (e.Function == "" && e.Column == "") {
					return p.expected("A procedure name")
				}
				s.Procedure = e
				return nil
			},
		},
	}

	showClauses = []Clause[ShowStatement]{
		{
			Name:       "subject",
			Positional: true,
			Mult:       ExactlyOne,
			Rank:       1,
			Shape: func(p *Parser, s *ShowStatement, trigger sqldocument.Token) error {
				e, ok := p.parseExpression(exprOptions{})
				if !ok {
					return p.expected("A subject")
				}
				s.Subject = e.Expr
				return nil
			},
		},
		{
			Name:     "FROM",
			Triggers: []string{"FROM", "IN"},
			Rank:     2,
			Shape: func(p *Parser, s *ShowStatement, trigger sqldocument.Token) error {
				e, ok := p.parseExpression(exprOptions{mode: tableExpr})
				if !ok {
					return p.expected("A name")
				}
				s.From = e.Expr
				return nil
			},
		},
		{
			Name:     "LIKE",
			Triggers: []string{"LIKE"},
			Rank:     3,
			Shape: func(p *Parser, s *ShowStatement, trigger sqldocument.Token) error {
				tok := p.ts.PeekSignificant(0)
				if tok.Type != sqldocument.StringToken {
					return p.expected("String")
				}
				p.ts.NextSignificant()
				s.Like = tok.Value
				return nil
			},
		},
		{
			Name:     "WHERE",
			Triggers: []string{"WHERE"},
			Rank:     3,
			Shape: func(p *Parser, s *ShowStatement, trigger sqldocument.Token) (err error) {
				s.Where, err = p.parseCondition()
				return err
			},
		},
	}

	transactionClauses = []Clause[TransactionStatement]{
		{
			Name: "options",
			Triggers: []string{
				"WORK", "WITH CONSISTENT SNAPSHOT", "READ ONLY", "READ WRITE",
				"AND CHAIN", "AND NO CHAIN", "RELEASE", "NO RELEASE",
			},
			Mult: ZeroOrMore,
			Rank: 1,
			Shape: func(p *Parser, s *TransactionStatement, trigger sqldocument.Token) error {
				s.Options = append(s.Options, trigger.Keyword)
				// START TRANSACTION characteristics are comma separated
				p.acceptPunctuation(",")
				return nil
			},
		},
		{
			Name:     "TO",
			Triggers: []string{"TO"},
			Rank:     2,
			Shape: func(p *Parser, s *TransactionStatement, trigger sqldocument.Token) error {
				p.accept("SAVEPOINT")
				return savepointName(p, s)
			},
		},
	}

	savepointClauses = []Clause[TransactionStatement]{
		{
			Name:       "savepoint",
			Positional: true,
			Mult:       ExactlyOne,
			Rank:       1,
			Shape: func(p *Parser, s *TransactionStatement, trigger sqldocument.Token) error {
				return savepointName(p, s)
			},
		},
	}

	lockClauses = []Clause[LockStatement]{
		{
			Name:       "tables",
			Positional: true,
			Mult:       ExactlyOne,
			Rank:       1,
			Shape:      lockItems,
		},
	}

	maintenanceClauses = []Clause[MaintenanceStatement]{
		{
			Name:     "options",
			Triggers: []string{"NO_WRITE_TO_BINLOG", "LOCAL"},
			Mult:     ZeroOrMore,
			Rank:     1,
			Shape: func(p *Parser, s *MaintenanceStatement, trigger sqldocument.Token) error {
				s.Options = append(s.Options, trigger.Keyword)
				return nil
			},
		},
		{
			Name:     "TABLE",
			Triggers: []string{"TABLE", "TABLES"},
			Mult:     ExactlyOne,
			Rank:     2,
			Shape: func(p *Parser, s *MaintenanceStatement, trigger sqldocument.Token) (err error) {
				s.Tables, err = p.parseExpressionList(exprOptions{mode: tableExpr})
				return err
			},
		},
		{
			Name:     "table options",
			Triggers: []string{"FOR", "QUICK", "FAST", "MEDIUM", "EXTENDED", "CHANGED", "USE_FRM"},
			Mult:     ZeroOrMore,
			Rank:     3,
			Shape: func(p *Parser, s *MaintenanceStatement, trigger sqldocument.Token) error {
				if trigger.Keyword != "FOR" {
					s.TableOptions = append(s.TableOptions, trigger.Keyword)
					return nil
				}
				// FOR UPGRADE
				tok := p.ts.PeekSignificant(0)
				if !isName(tok) {
					return p.expected(`"UPGRADE"`)
				}
				p.ts.NextSignificant()
				s.TableOptions = append(s.TableOptions, "FOR "+strings.ToUpper(tok.Value))
				return nil
			},
		},
	}
}

// setAssignments parses the comma separated assignments of SET. The
// trigger, if any, is still at the cursor.
func setAssignments(p *Parser, s *SetStatement, trigger sqldocument.Token) error {
	for {
		a, err := setAssignment(p)
		if a != nil {
			s.Assignments = append(s.Assignments, *a)
		}
		if err != nil {
			return err
		}
		if !p.acceptPunctuation(",") {
			return nil
		}
	}
}

func setAssignment(p *Parser) (*Assignment, error) {
	tok := p.ts.PeekSignificant(0)
	switch {
	case tok.IsKeyword("NAMES", "CHARACTER SET", "TRANSACTION"):
		p.ts.NextSignificant()
		// TRANSACTION characteristics keep their commas
		value, ok := p.parseExpression(exprOptions{list: tok.Keyword != "TRANSACTION"})
		if !ok {
			return nil, p.expected("An expression")
		}
		return &Assignment{Column: tok.Keyword, Value: value.Expr}, nil
	case tok.IsKeyword(setScopes...):
		p.ts.NextSignificant()
		a, err := setAssignment(p)
		if a != nil {
			a.Column = tok.Keyword + " " + a.Column
		}
		return a, err
	}
	a, err := p.parseAssignment()
	if err != nil && a.Column == "" {
		return nil, err
	}
	return &a, err
}

func savepointName(p *Parser, s *TransactionStatement) error {
	tok := p.ts.PeekSignificant(0)
	if !isName(tok) {
		return p.expected("A savepoint name")
	}
	p.ts.NextSignificant()
	s.Savepoint = tok.Value
	return nil
}

var lockTypes = []string{"READ", "READ LOCAL", "WRITE", "LOW_PRIORITY WRITE"}

// lockItems parses `t [AS alias] lock_type [, ...]`.
func lockItems(p *Parser, s *LockStatement, trigger sqldocument.Token) error {
	for {
		table, ok := p.parseExpression(exprOptions{mode: tableExpr, alias: true, list: true, stops: lockTypes})
		if !ok {
			return p.expected("A table name")
		}
		lockType, ok := p.accept(lockTypes...)
		if !ok {
			s.Locked = append(s.Locked, LockItem{Table: table})
			return p.expected("A lock type")
		}
		s.Locked = append(s.Locked, LockItem{Table: table, Type: lockType.Keyword})
		if !p.acceptPunctuation(",") {
			return nil
		}
	}
}

func parseSet(p *Parser, base sqldocument.StatementBase) sqldocument.Statement {
	s := &SetStatement{StatementBase: base}
	parseClauses(p, s, &s.StatementBase, setClauses)
	return s
}

func parseKill(p *Parser, base sqldocument.StatementBase) sqldocument.Statement {
	s := &KillStatement{StatementBase: base}
	parseClauses(p, s, &s.StatementBase, killClauses)
	return s
}

func parseUse(p *Parser, base sqldocument.StatementBase) sqldocument.Statement {
	s := &UseStatement{StatementBase: base}
	parseClauses(p, s, &s.StatementBase, useClauses)
	return s
}

func parseCall(p *Parser, base sqldocument.StatementBase) sqldocument.Statement {
	s := &CallStatement{StatementBase: base}
	parseClauses(p, s, &s.StatementBase, callClauses)
	return s
}

func parseShow(p *Parser, base sqldocument.StatementBase) sqldocument.Statement {
	s := &ShowStatement{StatementBase: base}
	parseClauses(p, s, &s.StatementBase, showClauses)
	return s
}

func parseTransaction(p *Parser, base sqldocument.StatementBase) sqldocument.Statement {
	s := &TransactionStatement{StatementBase: base, Type: base.Keyword}
	switch base.Keyword {
	case "SAVEPOINT", "RELEASE SAVEPOINT":
		parseClauses(p, s, &s.StatementBase, savepointClauses)
	default:
		parseClauses(p, s, &s.StatementBase, transactionClauses)
	}
	return s
}

func parseLock(p *Parser, base sqldocument.StatementBase) sqldocument.Statement {
	s := &LockStatement{StatementBase: base}
	if strings.HasPrefix(base.Keyword, "UNLOCK") {
		s.Unlock = true
		// nothing may follow UNLOCK TABLES
		parseClauses(p, s, &s.StatementBase, nil)
		return s
	}
	parseClauses(p, s, &s.StatementBase, lockClauses)
	return s
}

func parseMaintenance(p *Parser, base sqldocument.StatementBase) sqldocument.Statement {
	s := &MaintenanceStatement{StatementBase: base, Command: base.Keyword}
	parseClauses(p, s, &s.StatementBase, maintenanceClauses)
	return s
}

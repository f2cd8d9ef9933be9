package mysql

import (
	"github.com/vippsas/sqlsyntax/sqlparser/internal/utils"
	"github.com/vippsas/sqlsyntax/sqlparser/sqldocument"
)

type Multiplicity int

const (
	ZeroOrOne Multiplicity = iota
	ExactlyOne
	ZeroOrMore
)

// Clause is one entry of a statement grammar. A grammar is a []Clause[S]
// evaluated by parseClauses against the tokens following the command
// keyword, writing into the statement record S.
type Clause[S any] struct {
	// Name identifies the clause in ClauseFragments and in "Missing %s
	// clause." diagnostics.
	Name string
	// Triggers are the keyword phrases (or punctuation) that start the
	// clause.
	Triggers []string
	// Positional clauses are also matched, without a trigger, by the first
	// token no trigger matches, as long as no later ranked clause was seen.
	Positional bool
	// KeepTrigger leaves the trigger token for Shape to consume; used for
	// clauses that hold a nested statement.
	KeepTrigger bool
	Mult        Multiplicity
	// Rank orders the clauses; a clause following one of higher rank is
	// reported as out of order.
	Rank int
	// Shape parses the clause body. trigger is the zero Token when the
	// clause was matched by position.
	Shape func(p *Parser, s *S, trigger sqldocument.Token) error
}

func (c *Clause[S]) matches(tok sqldocument.Token) bool {
	for _, t := range c.Triggers {
		if triggerMatches(tok, t) {
			return true
		}
	}
	return false
}

func triggerMatches(tok sqldocument.Token, trigger string) bool {
	switch tok.Type {
	case sqldocument.KeywordToken:
		return tok.Keyword == trigger
	case sqldocument.PunctuationToken, sqldocument.OperatorToken:
		return tok.Raw == trigger
	}
	return false
}

// expectError is returned by clause shapes that did not find what the
// grammar requires.
type expectError struct {
	what string
	tok  sqldocument.Token
}

func (e *expectError) Error() string {
	return sqldocument.InvalidClauseValue.Message(e.what)
}

type matchedClause struct {
	rank int
	tok  sqldocument.Token
}

// parseClauses evaluates grammar against the rest of the current batch.
//
// Tokens no clause matches are reported once per run and skipped up to the
// next clause trigger. After the loop, every ExactlyOne clause that was not
// seen is reported as missing, positioned where it was expected.
func parseClauses[S any](p *Parser, s *S, base *sqldocument.StatementBase, grammar []Clause[S]) {
	var triggers []string
	for _, c := range grammar {
		triggers = append(triggers, c.Triggers...)
	}
	p.stops = append(p.stops, triggers)
	defer func() { p.stops = p.stops[:len(p.stops)-1] }()

	seen := make([]int, len(grammar))
	var matched []matchedClause
	highest := -1

	for {
		p.ts.SkipIgnorable()
		if p.ts.EOF() {
			break
		}
		tok := p.ts.Current()
		start := p.ts.Index()

		idx := -1
		for i := range grammar {
			if grammar[i].matches(tok) {
				idx = i
				break
			}
		}
		if idx < 0 && p.outerStop(tok) {
			// the enclosing statement continues here
			break
		}
		if idx < 0 {
			idx = nextPositional(grammar, seen, highest)
		}
		if idx < 0 {
			p.unexpected(tok)
			continue
		}

		c := &grammar[idx]
		if seen[idx] > 0 && c.Mult != ZeroOrMore {
			p.addError(sqldocument.DuplicateClause, tok)
		}
		if c.Rank < highest {
			p.addError(sqldocument.ClauseOrder, tok)
		}
		highest = max(highest, c.Rank)
		seen[idx]++
		matched = append(matched, matchedClause{rank: c.Rank, tok: tok})

		var trigger sqldocument.Token
		fragment := sqldocument.ClauseFragment{Name: c.Name, Pos: tok.Pos}
		if c.matches(tok) {
			trigger = tok
			fragment.Keyword = triggerText(tok)
			if !c.KeepTrigger {
				p.ts.Advance()
			}
		}
		base.Clauses = append(base.Clauses, fragment)

		if err := c.Shape(p, s, trigger); err != nil {
			if ee, ok := err.(*expectError); ok {
				p.diags = append(p.diags, sqldocument.NewParseDiagnostic(sqldocument.InvalidClauseValue, ee.tok, ee.what))
			}
			utils.DPrint("clause %s: %v\n", c.Name, err)
			p.recover()
		}
		if p.ts.Index() == start {
			// no progress; the token cannot be handled here
			p.unexpected(tok)
		}
	}

	for i := range grammar {
		c := &grammar[i]
		if c.Mult == ExactlyOne && seen[i] == 0 {
			p.diags = append(p.diags, sqldocument.NewParseDiagnostic(
				sqldocument.MissingClause, p.missingAt(c.Rank, matched), c.Name))
		}
	}
}

// nextPositional returns the positional clause with the lowest rank that
// is still allowed at this point, or -1.
func nextPositional[S any](grammar []Clause[S], seen []int, highest int) int {
	idx := -1
	for i := range grammar {
		c := &grammar[i]
		if !c.Positional || seen[i] > 0 || c.Rank < highest {
			continue
		}
		if idx < 0 || c.Rank < grammar[idx].Rank {
			idx = i
		}
	}
	return idx
}

// missingAt picks the token a missing clause of the given rank is reported
// at: the first later ranked clause found, else the delimiter ending the
// statement, else the last significant token.
func (p *Parser) missingAt(rank int, matched []matchedClause) sqldocument.Token {
	for _, m := range matched {
		if m.rank > rank {
			return m.tok
		}
	}
	return p.endToken()
}

func triggerText(tok sqldocument.Token) string {
	if tok.Type == sqldocument.KeywordToken {
		return tok.Keyword
	}
	return tok.Raw
}

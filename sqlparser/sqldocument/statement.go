package sqldocument

// Statement is one parsed statement. The set of implementations is closed:
// only types embedding StatementBase satisfy it.
type Statement interface {
	Base() *StatementBase
	isStatement()
}

// StatementBase is the envelope shared by all statement variants.
type StatementBase struct {
	// Keyword is the command phrase that selected the variant, e.g.
	// "SELECT" or "START TRANSACTION".
	Keyword string `yaml:"keyword"`
	Pos     Pos    `yaml:"pos"`
	// Clauses records the clauses matched, in source order.
	Clauses []ClauseFragment `yaml:"clauses,omitempty"`
}

func (b *StatementBase) Base() *StatementBase {
	return b
}

func (*StatementBase) isStatement() {}

// HasClause reports whether a clause with the given name was matched.
func (b *StatementBase) HasClause(name string) bool {
	for _, c := range b.Clauses {
		if c.Name == name {
			return true
		}
	}
	return false
}

// ClauseFragment records where a clause of a statement was found.
type ClauseFragment struct {
	Name    string `yaml:"name"`
	Keyword string `yaml:"keyword,omitempty"`
	Pos     Pos    `yaml:"pos"`
}

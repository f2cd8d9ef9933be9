package sqldocument

// Document is the result of analysing one source text with a dialect.
type Document struct {
	File        FileRef      `yaml:"file,omitempty"`
	Tokens      *TokenStream `yaml:"-"`
	Statements  []Statement  `yaml:"statements"`
	Diagnostics []Diagnostic `yaml:"diagnostics,omitempty"`
}

// Empty returns true if the document contains no statements.
func (d *Document) Empty() bool {
	return len(d.Statements) == 0
}

// HasErrors returns true if any diagnostic was reported.
func (d *Document) HasErrors() bool {
	return len(d.Diagnostics) > 0
}

// HasFatal returns true if lexing or parsing stopped early.
func (d *Document) HasFatal() bool {
	return HasFatal(d.Diagnostics)
}

// Include appends the tokens, statements and diagnostics of other.
func (d *Document) Include(other *Document) {
	switch {
	case d.Tokens == nil:
		d.Tokens = other.Tokens
	case other.Tokens != nil:
		tokens := append(d.Tokens.Tokens(), other.Tokens.Tokens()...)
		d.Tokens = NewTokenStream(tokens, other.Tokens.Delimiter())
	}
	d.Statements = append(d.Statements, other.Statements...)
	d.Diagnostics = append(d.Diagnostics, other.Diagnostics...)
}

// RecoverTo skips tokens until stop returns true for the current
// significant token, or until end of stream. Upon return the cursor is at
// that token, so the caller can resume parsing there.
func RecoverTo(ts *TokenStream, stop func(Token) bool) {
	// We hit an unexpected token ... as an heuristic for continuing parsing,
	// skip until we hit a token the caller knows how to handle
	for {
		ts.SkipIgnorable()
		if ts.EOF() || stop(ts.Current()) {
			return
		}
		ts.Advance()
	}
}

package sqldocument

// Batch is the token range of one statement: everything between two
// delimiter tokens.
//
// A DELIMITER directive produces a batch of its own, terminated by the
// delimiter token flagged FlagDelimiterDefinition; parsers recognize it
// with IsDelimiterDefinition and produce no statement for it.
type Batch struct {
	// Start and End bound the tokens of the batch, excluding the delimiter.
	Start, End int
	// Delimiter is the index of the terminating delimiter token, or -1 if
	// the batch runs to end of input.
	Delimiter int
}

// SplitBatches cuts ts into batches at every DelimiterToken. A trailing
// batch after the last delimiter is included even if it only holds
// whitespace; use Empty to skip those.
func SplitBatches(ts *TokenStream) []Batch {
	var batches []Batch
	start := 0
	for i, t := range ts.tokens {
		if t.Type == DelimiterToken {
			batches = append(batches, Batch{Start: start, End: i, Delimiter: i})
			start = i + 1
		}
	}
	if start < len(ts.tokens) {
		batches = append(batches, Batch{Start: start, End: len(ts.tokens), Delimiter: -1})
	}
	return batches
}

// Stream returns a stream over the batch's tokens.
func (b Batch) Stream(ts *TokenStream) *TokenStream {
	return ts.Slice(b.Start, b.End)
}

// Empty reports whether the batch has no significant tokens.
func (b Batch) Empty(ts *TokenStream) bool {
	for _, t := range ts.tokens[b.Start:b.End] {
		if !t.IsIgnorable() {
			return false
		}
	}
	return true
}

// Terminator returns the delimiter token ending the batch, if any.
func (b Batch) Terminator(ts *TokenStream) (Token, bool) {
	if b.Delimiter < 0 {
		return Token{}, false
	}
	return ts.tokens[b.Delimiter], true
}

// IsDelimiterDefinition reports whether the batch is a DELIMITER directive.
func (b Batch) IsDelimiterDefinition(ts *TokenStream) bool {
	t, ok := b.Terminator(ts)
	return ok && t.Flags.Has(FlagDelimiterDefinition)
}

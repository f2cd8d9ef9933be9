package sqldocument

import (
	"fmt"
)

// FileRef is a dedicated type for file references, allowing future refactoring
// of how files are identified without changing the API.
type FileRef string

// Pos represents a position in a source file.
// Offset is the 0-based byte offset; Line and Col are 1-indexed for
// human-readable error messages, and Col counts runes.
type Pos struct {
	File   FileRef `yaml:"file,omitempty"`
	Offset int     `yaml:"offset"`
	Line   int     `yaml:"line"`
	Col    int     `yaml:"col"`
}

func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}

// IsZero reports whether p was never set.
func (p Pos) IsZero() bool {
	return p.Line == 0
}

// Advance returns the position after text, which must start at p.
func (p Pos) Advance(text string) Pos {
	p.Offset += len(text)
	for _, r := range text {
		if r == '\n' {
			p.Line++
			p.Col = 1
		} else {
			p.Col++
		}
	}
	return p
}

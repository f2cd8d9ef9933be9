package sqlparser

import (
	"fmt"
	"strings"

	"github.com/vippsas/sqlsyntax/sqlparser/sqldocument"
)

const pragmaPrefix = "-- sqlsyntax:"

// Pragma holds the `-- sqlsyntax:` header comments of a file. Only the
// comments before the first statement count.
type Pragma struct {
	pragmas []string
}

func (d Pragma) PragmaIncludeIf() []string {
	return d.pragmas
}

func (d *Pragma) parseSinglePragma(tok sqldocument.Token) error {
	pragma := strings.TrimSpace(strings.TrimPrefix(tok.Raw, pragmaPrefix))
	if pragma == "" {
		return nil
	}
	parts := strings.Fields(pragma)

	if len(parts) != 2 || parts[0] != "include-if" {
		return fmt.Errorf("illegal pragma at %s: %s", tok.Pos, strings.TrimSpace(tok.Raw))
	}

	d.pragmas = append(d.pragmas, strings.Split(parts[1], ",")...)
	return nil
}

// ParsePragmas reads the pragmas heading ts.
func (d *Pragma) ParsePragmas(ts *sqldocument.TokenStream) error {
	for _, tok := range ts.Tokens() {
		switch {
		case tok.Type == sqldocument.WhitespaceToken:
			continue
		case tok.Type == sqldocument.CommentToken && strings.HasPrefix(tok.Raw, pragmaPrefix):
			if err := d.parseSinglePragma(tok); err != nil {
				return err
			}
		case tok.Type == sqldocument.CommentToken:
			continue
		default:
			return nil
		}
	}
	return nil
}

func matchesIncludeTags(required []string, got []string) bool {
	for _, r := range required {
		found := false
		for _, g := range got {
			if g == r {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

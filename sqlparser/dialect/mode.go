package dialect

import (
	"strings"

	"github.com/pkg/errors"
)

// Mode holds the server SQL mode bits that change how text is tokenized.
type Mode uint

const (
	// ModeAnsiQuotes makes " quote identifiers instead of strings.
	ModeAnsiQuotes Mode = 1 << iota
	// ModeNoBackslashEscapes makes backslash an ordinary character inside
	// quoted text.
	ModeNoBackslashEscapes
)

var modeNames = []struct {
	mode Mode
	name string
}{
	{ModeAnsiQuotes, "ANSI_QUOTES"},
	{ModeNoBackslashEscapes, "NO_BACKSLASH_ESCAPES"},
}

func (m Mode) Has(m2 Mode) bool {
	return m&m2 == m2
}

func (m Mode) String() string {
	var names []string
	for _, mn := range modeNames {
		if m.Has(mn.mode) {
			names = append(names, mn.name)
		}
	}
	return strings.Join(names, ",")
}

// ParseMode parses a comma separated sql_mode value. Modes that do not
// affect tokenization are accepted and ignored; the combination mode ANSI
// implies ANSI_QUOTES.
func ParseMode(s string) (Mode, error) {
	var m Mode
	for _, part := range strings.Split(s, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		switch part {
		case "":
		case "ANSI", "ANSI_QUOTES":
			m |= ModeAnsiQuotes
		case "NO_BACKSLASH_ESCAPES":
			m |= ModeNoBackslashEscapes
		default:
			for _, c := range part {
				if !(c == '_' || c >= 'A' && c <= 'Z') {
					return 0, errors.Errorf("invalid sql mode %q", part)
				}
			}
		}
	}
	return m, nil
}

package sqlsyntax

import (
	"fmt"
	"strings"

	"github.com/vippsas/sqlsyntax/sqlparser/sqldocument"
)

// ParseErrors is returned by Analyze and AnalyzeFS when the sources have
// diagnostics and Options.PartialParseResults is not set.
type ParseErrors struct {
	Diagnostics []sqldocument.Diagnostic
}

func (e ParseErrors) Error() string {
	var msg strings.Builder
	msg.WriteString("sqlsyntax syntax error:\n\n")
	for _, d := range e.Diagnostics {
		msg.WriteString(fmt.Sprintf("%s:%d:%d: %s\n", d.Pos.File, d.Pos.Line, d.Pos.Col, d.Message))
	}
	return msg.String()
}

// HasFatal reports whether lexing or parsing of some file stopped early.
func (e ParseErrors) HasFatal() bool {
	return sqldocument.HasFatal(e.Diagnostics)
}

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/vippsas/sqlsyntax"
	"github.com/vippsas/sqlsyntax/sqlparser/sqldocument"
)

const stdinName = "<stdin>"

// readInput returns the file named by the single argument, or standard
// input when there is no argument or it is "-".
func readInput(cmd *cobra.Command, args []string) (sqldocument.FileRef, string, error) {
	if len(args) == 0 || args[0] == "-" {
		buf, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", errors.Wrap(err, "reading stdin")
		}
		return stdinName, string(buf), nil
	}
	buf, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", errors.WithStack(err)
	}
	return sqldocument.FileRef(args[0]), string(buf), nil
}

func session() (*sqlsyntax.Session, error) {
	return sqlsyntax.NewSession(config.Options(true))
}

func printDiagnostics(out io.Writer, diags []sqldocument.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(out, "%s:%d:%d: %s [%s]\n", d.Pos.File, d.Pos.Line, d.Pos.Col, d.Message, d.Kind)
	}
}

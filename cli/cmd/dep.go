package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/vippsas/sqlsyntax"
	"github.com/vippsas/sqlsyntax/sqlparser/mysql"
)

func analyzeDirectory(partialParseResults bool) (*sqlsyntax.Result, error) {
	return sqlsyntax.AnalyzeFS(config.Options(partialParseResults), os.DirFS(config.Directory))
}

var (
	depCmd = &cobra.Command{
		Use:   "dep",
		Short: "Scan the directory trees and report which files were discovered and the statements found in each",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				_ = cmd.Help()
				return errors.New("Too many arguments")
			}
			out := cmd.OutOrStdout()
			result, err := analyzeDirectory(true)
			if err != nil {
				return err
			}
			if len(result.Files) == 0 {
				fmt.Fprintln(out, "No SQL files found in given paths")
				return nil
			}
			if len(result.Document.Diagnostics) > 0 {
				fmt.Fprintln(out, "Errors:")
				fmt.Fprintln(out)
				printDiagnostics(out, result.Document.Diagnostics)
				fmt.Fprintln(out, "Treat results below with caution.")
				fmt.Fprintln(out)
			}

			var files []string
			byFile := make(map[string][]string)
			for _, s := range result.Document.Statements {
				b := s.Base()
				file := string(b.Pos.File)
				if _, ok := byFile[file]; !ok {
					files = append(files, file)
				}
				byFile[file] = append(byFile[file], fmt.Sprintf("%d:%d %s", b.Pos.Line, b.Pos.Col, mysql.StatementType(s)))
			}
			for _, f := range files {
				fmt.Fprintln(out, f+":")
				for _, line := range byFile[f] {
					fmt.Fprintln(out, "  "+line)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(depCmd)
}

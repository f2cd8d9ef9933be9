package cmd

import (
	"io/fs"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/vippsas/sqlsyntax"
	"github.com/vippsas/sqlsyntax/internal/mapfs"
)

var checkCmd = &cobra.Command{
	Use:   "check [file...]",
	Short: "Report diagnostics for the given files, or for all *.sql files in the directory tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		var fsys fs.FS = os.DirFS(config.Directory)
		if len(args) > 0 {
			files := mapfs.MapFS{}
			for _, arg := range args {
				if err := files.Add(arg); err != nil {
					return err
				}
			}
			fsys = files
		}
		result, err := sqlsyntax.AnalyzeFS(config.Options(true), fsys)
		if err != nil {
			return err
		}

		diags := result.Document.Diagnostics
		printDiagnostics(cmd.OutOrStdout(), diags)
		if len(diags) > 0 {
			return errors.Errorf("%d problem(s) found", len(diags))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vippsas/sqlsyntax/sqlparser/dialect"
	"github.com/vippsas/sqlsyntax/sqlparser/mysql"
)

var dialectsCmd = &cobra.Command{
	Use:   "dialects",
	Short: "List supported engine versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, spec := range dialect.Supported() {
			marker := ""
			if spec == dialect.Latest(spec.Engine) {
				marker = " (latest)"
			}
			fmt.Fprintf(out, "%-16s %s-%s%s\n", spec, spec.Engine, spec.VersionString(), marker)
		}

		if commands, _ := cmd.Flags().GetBool("commands"); commands {
			fmt.Fprintln(out)
			for _, c := range mysql.Commands() {
				fmt.Fprintln(out, c)
			}
		}
		if keywords, _ := cmd.Flags().GetBool("keywords"); keywords {
			s, err := session()
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			for _, k := range s.Context().Keywords() {
				fmt.Fprintln(out, k)
			}
		}
		return nil
	},
}

func init() {
	dialectsCmd.Flags().Bool("commands", false, "also list the statement commands the parser recognizes")
	dialectsCmd.Flags().Bool("keywords", false, "also list the keywords of the configured dialect")
	rootCmd.AddCommand(dialectsCmd)
}

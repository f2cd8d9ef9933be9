package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/vippsas/sqlsyntax/sqlparser/mysql"
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Print the tokens of a file, or of standard input",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, text, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		s, err := session()
		if err != nil {
			return err
		}
		stream, diags := mysql.TokenizeFile(file, text, s.Context())

		out := cmd.OutOrStdout()
		showAll, _ := cmd.Flags().GetBool("all")
		for _, tok := range stream.Tokens() {
			if tok.IsIgnorable() && !showAll {
				continue
			}
			fmt.Fprintf(out, "%d:%d\t%s\t%s\n", tok.Pos.Line, tok.Pos.Col, tok.Type, strconv.Quote(tok.Raw))
		}
		printDiagnostics(out, diags)
		return nil
	},
}

func init() {
	lexCmd.Flags().Bool("all", false, "include whitespace and comment tokens")
	rootCmd.AddCommand(lexCmd)
}

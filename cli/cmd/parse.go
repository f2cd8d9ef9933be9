package cmd

import (
	"fmt"

	"github.com/alecthomas/repr"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Print the statements of a file, or of standard input",
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
		result, err := s.Analyze(file, text)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch config.Format {
		case "repr":
			fmt.Fprintln(out, repr.String(result.Document.Statements, repr.Indent("  "), repr.OmitEmpty(true)))
			printDiagnostics(out, result.Document.Diagnostics)
		case "yaml":
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(result.Document); err != nil {
				return errors.Wrap(err, "encoding yaml")
			}
			return enc.Close()
		default:
			return errors.Errorf("unknown format %q", config.Format)
		}
		return nil
	},
}

func init() {
	parseCmd.Flags().StringP("format", "f", "yaml", "output format: yaml or repr")
	rootCmd.AddCommand(parseCmd)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	hashCmd = &cobra.Command{
		Use:   "hash",
		Short: "Compute a fingerprint of the code base that ignores whitespace and comments",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := analyzeDirectory(false)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.Fingerprint)
			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(hashCmd)
}

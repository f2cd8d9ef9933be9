package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	rootCmd = &cobra.Command{
		Use:          "sqlsyntax",
		Short:        "sqlsyntax",
		SilenceUsage: true,
		Long: `CLI tool for lexing, parsing and checking MySQL and MariaDB source files.

Settings are read from sqlsyntax.yaml in the target directory, then from
SQLSYNTAX_* environment variables, then from flags.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			config, err = LoadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			level, err := logrus.ParseLevel(config.LogLevel)
			if err != nil {
				return err
			}
			logrus.SetLevel(level)
			return nil
		},
	}

	// config is loaded before any subcommand runs.
	config Config
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	addGlobalFlags(rootCmd.PersistentFlags())
}

func addGlobalFlags(flags *pflag.FlagSet) {
	flags.StringP("directory", "d", ".", "path to directory and subtree which will be scanned for *.sql-files")
	flags.StringSliceP("tags", "t", nil, "include tags; affects files that are included through the include-if pragma")
	flags.String("config", "", "config file (default is sqlsyntax.yaml in the directory)")
	flags.String("dialect", "", "engine and version, e.g. mysql-5.7 or mariadb-10.6 (default latest mysql)")
	flags.String("sql-mode", "", "sql_mode affecting lexing, e.g. ANSI_QUOTES,NO_BACKSLASH_ESCAPES")
	flags.String("delimiter", "", "initial statement delimiter (default \";\")")
	flags.String("log-level", "warning", "logrus log level")
}

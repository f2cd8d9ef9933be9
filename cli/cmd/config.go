package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/vippsas/sqlsyntax"
)

const (
	configFileName = "sqlsyntax.yaml"
	envPrefix      = "SQLSYNTAX_"
)

type Config struct {
	Directory string   `koanf:"directory"`
	Tags      []string `koanf:"tags"`
	Dialect   string   `koanf:"dialect"`
	SQLMode   string   `koanf:"sql_mode"`
	Delimiter string   `koanf:"delimiter"`
	LogLevel  string   `koanf:"log_level"`
	// Format is the output format of the parse command, yaml or repr.
	Format string `koanf:"format"`

	// configFile is the file the settings were read from, if any.
	configFile string
}

// LoadConfig layers, from lowest to highest precedence: defaults,
// sqlsyntax.yaml, SQLSYNTAX_* environment variables and flags that were
// set explicitly.
func LoadConfig(flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"directory": ".",
		"log_level": "warning",
		"format":    "yaml",
	}, "."), nil); err != nil {
		return Config{}, errors.Wrap(err, "loading defaults")
	}

	configFile, err := findConfigFile(flags)
	if err != nil {
		return Config{}, err
	}
	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return Config{}, errors.Wrapf(err, "reading %s", configFile)
		}
	}

	// SQLSYNTAX_SQL_MODE -> sql_mode
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return Config{}, errors.Wrap(err, "loading environment")
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return Config{}, errors.Wrap(err, "loading flags")
		}
	}

	var result Config
	if err := k.Unmarshal("", &result); err != nil {
		return Config{}, errors.Wrap(err, "decoding config")
	}
	result.configFile = configFile

	// tags from the environment arrive as one comma separated string
	var tags []string
	for _, t := range result.Tags {
		for _, part := range strings.Split(t, ",") {
			if part = strings.TrimSpace(part); part != "" {
				tags = append(tags, part)
			}
		}
	}
	result.Tags = tags
	return result, nil
}

// findConfigFile returns the --config file, or sqlsyntax.yaml in the
// target directory if it exists, or "".
func findConfigFile(flags *pflag.FlagSet) (string, error) {
	dir := "."
	if d := os.Getenv(envPrefix + "DIRECTORY"); d != "" {
		dir = d
	}
	if flags != nil {
		if explicit, _ := flags.GetString("config"); explicit != "" {
			if _, err := os.Stat(explicit); err != nil {
				return "", errors.Wrap(err, "config file")
			}
			return explicit, nil
		}
		if d, _ := flags.GetString("directory"); d != "" && flags.Changed("directory") {
			dir = d
		}
	}
	candidate := filepath.Join(dir, configFileName)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", nil
}

// Options translates the configuration for the sqlsyntax package.
func (c Config) Options(partialParseResults bool) sqlsyntax.Options {
	return sqlsyntax.Options{
		Dialect:             c.Dialect,
		SQLMode:             c.SQLMode,
		Delimiter:           c.Delimiter,
		IncludeTags:         c.Tags,
		PartialParseResults: partialParseResults,
	}
}

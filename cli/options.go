package cli

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type options struct {
	ConfigFile string
	EnvFile    string

	// Overrides for config keys. Only flags set on the command line take
	// precedence over the environment and the config file.
	DataFile  string
	Backend   string
	Format    string
	LogLevel  string
	LogFile   string
	LogFormat string
}

// flagKeys maps flag names to the config keys they override.
var flagKeys = map[string]string{
	"data-file":  "data_file",
	"backend":    "backend",
	"format":     "format",
	"log-level":  "log.level",
	"log-file":   "log.file",
	"log-format": "log.format",
}

func (o *options) register(flags *pflag.FlagSet) {
	flags.StringVar(&o.ConfigFile, "config", "",
		"Path to a config file (yaml, json or toml).")
	flags.StringVar(&o.EnvFile, "env-file", "",
		"Path to a .env file. Defaults to ./.env when present.")
	flags.StringVar(&o.DataFile, "data-file", "",
		"Address book location. Overrides data_file.")
	flags.StringVar(&o.Backend, "backend", "",
		"Storage backend: file or sqlite. Overrides backend.")
	flags.StringVar(&o.Format, "format", "",
		"File encoding for the file backend: json or cbor. Inferred from the extension if empty.")
	flags.StringVar(&o.LogLevel, "log-level", "",
		"Log level: debug, info, warn or error.")
	flags.StringVar(&o.LogFile, "log-file", "",
		"Log destination. Defaults to stderr.")
	flags.StringVar(&o.LogFormat, "log-format", "",
		"Log format: json or console.")
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return err //nolint:wrapcheck
		}
	}
	return nil
}

// Package config loads assistant settings from defaults, an optional config
// file, an optional .env file and ASSISTANT_* environment variables, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Defaults applied when neither a file nor the environment sets a key.
const (
	// DefaultEnvPrefix prefixes every environment variable, e.g. ASSISTANT_DATA_FILE.
	DefaultEnvPrefix = "ASSISTANT"

	DefaultDataFile    = "addressbook.json"
	DefaultBackend     = BackendFile
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "console"
	DefaultSMTPPort    = 465
	DefaultSMTPTLS     = "tls"
	DefaultSMTPTimeout = 30 * time.Second
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// DefaultConfig is the configuration Load returns with no overrides.
var DefaultConfig = Config{
	DataFile: DefaultDataFile,
	Backend:  DefaultBackend,
	Log: LogConfig{
		Level:  DefaultLogLevel,
		Format: DefaultLogFormat,
	},
	SMTP: SMTPConfig{
		Port:    DefaultSMTPPort,
		TLS:     DefaultSMTPTLS,
		Timeout: DefaultSMTPTimeout,
	},
}

// Config is the resolved assistant configuration.
type Config struct {
	DataFile string     `json:"data_file,omitempty" mapstructure:"data_file"`
	Backend  string     `json:"backend,omitempty"   mapstructure:"backend"`
	Format   string     `json:"format,omitempty"    mapstructure:"format"`
	Log      LogConfig  `json:"log"                 mapstructure:"log"`
	SMTP     SMTPConfig `json:"smtp"                mapstructure:"smtp"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `json:"level,omitempty"  mapstructure:"level"`
	Format string `json:"format,omitempty" mapstructure:"format"`
	File   string `json:"file,omitempty"   mapstructure:"file"`
}

// SMTPConfig configures the relay used by the remind command.
type SMTPConfig struct {
	Host     string        `json:"host,omitempty"     mapstructure:"host"`
	Port     int           `json:"port,omitempty"     mapstructure:"port"`
	Username string        `json:"username,omitempty" mapstructure:"username"`
	Password string        `json:"-"                  mapstructure:"password"`
	From     string        `json:"from,omitempty"     mapstructure:"from"`
	To       []string      `json:"to,omitempty"       mapstructure:"to"`
	TLS      string        `json:"tls,omitempty"      mapstructure:"tls"`
	Timeout  time.Duration `json:"timeout,omitempty"  mapstructure:"timeout"`
}

// Options points Load at optional files. Missing ConfigFile or EnvFile is an
// error when named explicitly.
type Options struct {
	ConfigFile string
	EnvFile    string
}

var defaults = map[string]any{
	"data_file":     DefaultConfig.DataFile,
	"backend":       DefaultConfig.Backend,
	"format":        "",
	"log.level":     DefaultConfig.Log.Level,
	"log.format":    DefaultConfig.Log.Format,
	"log.file":      "",
	"smtp.host":     "",
	"smtp.port":     DefaultConfig.SMTP.Port,
	"smtp.username": "",
	"smtp.password": "",
	"smtp.from":     "",
	"smtp.to":       "",
	"smtp.tls":      DefaultConfig.SMTP.TLS,
	"smtp.timeout":  DefaultConfig.SMTP.Timeout,
}

// New returns a viper instance with defaults and environment bindings in
// place. Callers may bind flags to it before passing it to [Decode].
func New() *viper.Viper {
	v := viper.NewWithOptions(
		viper.KeyDelimiter("."),
		viper.EnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_")),
	)

	v.SetEnvPrefix(DefaultEnvPrefix)
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	for key, value := range defaults {
		_ = v.BindEnv(key)
		v.SetDefault(key, value)
	}
	return v
}

// Load reads configuration using opts and validates the result.
func Load(opts Options) (*Config, error) {
	v := New()
	if err := Read(v, opts); err != nil {
		return nil, err
	}
	return Decode(v)
}

// Read loads the optional .env and config files named in opts into v.
func Read(v *viper.Viper, opts Options) error {
	if opts.EnvFile != "" {
		// Existing environment variables win over the file.
		if err := godotenv.Load(opts.EnvFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", opts.EnvFile, err)
		}
	}
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", opts.ConfigFile, err)
		}
	}
	return nil
}

// Decode unmarshals v into a Config and validates it.
func Decode(v *viper.Viper) (*Config, error) {
	decodeHooks := mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)

	config := &Config{}
	if err := v.Unmarshal(config, viper.DecodeHook(decodeHooks)); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	config.SMTP.To = trimAll(config.SMTP.To)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects unknown enumerated values and an empty data file.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DataFile) == "" {
		errs = append(errs, errors.New("data_file is required"))
	}
	if !oneOf(c.Backend, BackendFile, BackendSQLite) {
		errs = append(errs, fmt.Errorf("unknown backend %q (want file or sqlite)", c.Backend))
	}
	if !oneOf(c.Format, "", "json", "cbor") {
		errs = append(errs, fmt.Errorf("unknown format %q (want json or cbor)", c.Format))
	}
	if !oneOf(strings.ToLower(c.Log.Level), "debug", "info", "warn", "error") {
		errs = append(errs, fmt.Errorf("unknown log.level %q", c.Log.Level))
	}
	if !oneOf(c.Log.Format, "json", "console") {
		errs = append(errs, fmt.Errorf("unknown log.format %q (want json or console)", c.Log.Format))
	}
	if !oneOf(c.SMTP.TLS, "tls", "starttls", "none") {
		errs = append(errs, fmt.Errorf("unknown smtp.tls %q (want tls, starttls or none)", c.SMTP.TLS))
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid smtp.port %d", c.SMTP.Port))
	}
	if c.SMTP.Timeout < 0 {
		errs = append(errs, fmt.Errorf("invalid smtp.timeout %s", c.SMTP.Timeout))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// EnvFileExists reports whether path names a regular file. The CLI uses it to
// pick up ./.env without failing when there is none.
func EnvFileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func oneOf(value string, allowed ...string) bool {
	return slices.Contains(allowed, value)
}

func trimAll(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

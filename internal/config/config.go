package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/Krishna8167/keyorder"
)

// EnvPrefix is the prefix of environment variable overrides, e.g.
// KEYORDER_MAX_STRUCT_KEYS.
const EnvPrefix = "KEYORDER"

// Config is the effective configuration of the keyorder tool.
type Config struct {
	MaxStructKeys int     `mapstructure:"max_struct_keys" yaml:"max_struct_keys"`
	Cutoff        float64 `mapstructure:"cutoff" yaml:"cutoff"`
	LogLevel      string  `mapstructure:"log_level" yaml:"log_level"`
	LogFormat     string  `mapstructure:"log_format" yaml:"log_format"`
}

func DefaultConfig() *Config {
	return &Config{
		MaxStructKeys: keyorder.DefaultMaxStructKeys,
		Cutoff:        0.9,
		LogLevel:      "warn",
		LogFormat:     "text",
	}
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("max_struct_keys", d.MaxStructKeys)
	v.SetDefault("cutoff", d.Cutoff)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
}

// Load reads configuration from v. Flags must already be bound. If path is
// empty, keyorder.{yaml,toml,json} is looked up in the working directory and
// a missing file is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("keyorder")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.MaxStructKeys <= 0 {
		return &ConfigError{Field: "max_struct_keys", Message: "must be positive"}
	}
	if !(c.Cutoff > 0 && c.Cutoff <= 1) {
		return &ConfigError{Field: "cutoff", Message: fmt.Sprintf("%v is outside (0, 1]", c.Cutoff)}
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return &ConfigError{Field: "log_format", Message: "must be text or json"}
	}
	return nil
}

// PoolOptions returns the keyorder options described by c.
func (c *Config) PoolOptions(logger *slog.Logger) []keyorder.Option {
	return []keyorder.Option{
		keyorder.WithMaxStructKeys(c.MaxStructKeys),
		keyorder.WithLogger(logger.With("system", "keyorder")),
	}
}

// NewLogger builds the structured logger described by c.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: LevelFromString(c.LogLevel)}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// LevelFromString converts debug, info, warn or error (case-insensitive)
// to a slog.Level. Unknown strings map to info.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

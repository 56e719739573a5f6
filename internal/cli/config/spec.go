package config

import (
	"fmt"
	"time"

	"github.com/yndnr/smsauth/internal/core/domain"
	"github.com/yndnr/smsauth/internal/storage"
	"github.com/yndnr/smsauth/internal/telemetry/logger"
)

// DefaultServer is the backend base URL used when none is configured.
const DefaultServer = "http://localhost:5000/api"

// CLIConfig is the configuration for smsauth-cli.
type CLIConfig struct {
	Server  string        `koanf:"server" yaml:"server"`
	Timeout string        `koanf:"timeout" yaml:"timeout"`
	Output  string        `koanf:"output" yaml:"output"` // table, json, yaml
	Log     LogConfig     `koanf:"log" yaml:"log"`
	Token   TokenConfig   `koanf:"token" yaml:"token"`
	TLS     TLSConfig     `koanf:"tls" yaml:"tls"`
	DevMode bool          `koanf:"dev_mode" yaml:"dev_mode"`
	Metrics MetricsConfig `koanf:"metrics" yaml:"metrics"`
}

// LogConfig controls diagnostic logging to stderr.
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"` // text, json
}

// TokenConfig selects where the bearer token is persisted.
type TokenConfig struct {
	Store      string `koanf:"store" yaml:"store"`
	Path       string `koanf:"path" yaml:"path,omitempty"`
	Passphrase string `koanf:"passphrase" yaml:"passphrase,omitempty"`
}

// TLSConfig configures trust for HTTPS backends.
type TLSConfig struct {
	CAFile string `koanf:"ca_file" yaml:"ca_file,omitempty"`
}

// MetricsConfig configures the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `koanf:"textfile" yaml:"textfile,omitempty"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server:  DefaultServer,
		Timeout: "30s",
		Output:  "table",
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Token: TokenConfig{
			Store: storage.EngineFile,
		},
	}
}

// Validate checks enumerated fields and the timeout.
func (c *CLIConfig) Validate() error {
	switch c.Output {
	case "table", "json", "yaml":
	default:
		return invalid("output must be table, json or yaml, got %q", c.Output)
	}
	switch c.Token.Store {
	case storage.EngineFile, storage.EngineBadger, storage.EngineMemory:
	default:
		return invalid("token.store must be file, badger or memory, got %q", c.Token.Store)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return invalid("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return invalid("timeout: %v", err)
	}
	if c.Server == "" {
		return invalid("server must not be empty")
	}
	return nil
}

// TimeoutDuration parses Timeout.
func (c *CLIConfig) TimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", c.Timeout)
	}
	return d, nil
}

// StorageConfig returns the token store settings.
func (c *CLIConfig) StorageConfig() storage.Config {
	return storage.Config{
		Engine:     c.Token.Store,
		Path:       c.Token.Path,
		Passphrase: c.Token.Passphrase,
	}
}

// LoggerConfig returns the logger settings. Output is left to the caller.
func (c *CLIConfig) LoggerConfig() logger.Config {
	return logger.Config{
		Level:  c.Log.Level,
		Format: c.Log.Format,
	}
}

// Redacted returns a copy safe to print.
func (c *CLIConfig) Redacted() *CLIConfig {
	cp := *c
	if cp.Token.Passphrase != "" {
		cp.Token.Passphrase = "***"
	}
	return &cp
}

func invalid(format string, args ...any) error {
	return domain.ErrInvalidConfig.WithDetails(fmt.Sprintf(format, args...))
}

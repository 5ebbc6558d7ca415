package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-numerals/pkg/history"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "NUMERALS_"

// Config is the application configuration shared by the binaries.
type Config struct {
	// Strict swaps the Repeatable Subtractives rule for the canonical form check.
	Strict  bool          `yaml:"strict" env:"STRICT"`
	History HistoryConfig `yaml:"history" envPrefix:"HISTORY_"`
	Log     LogConfig     `yaml:"log" envPrefix:"LOG_"`
	Server  ServerConfig  `yaml:"server" envPrefix:"SERVER_"`
}

// HistoryConfig locates the history log and counter files.
type HistoryConfig struct {
	Enabled     bool   `yaml:"enabled" env:"ENABLED"`
	LogPath     string `yaml:"log_path" env:"LOG_PATH"`
	CounterPath string `yaml:"counter_path" env:"COUNTER_PATH"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
	// File redirects logs to a file; empty means stderr.
	File string `yaml:"file" env:"FILE"`
}

// ServerConfig configures the HTTP front end.
type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"ADDR"`
	Theme           string        `yaml:"theme" env:"THEME"`
	RateLimit       float64       `yaml:"rate_limit" env:"RATE_LIMIT"`
	RateBurst       int           `yaml:"rate_burst" env:"RATE_BURST"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		History: HistoryConfig{
			Enabled:     true,
			LogPath:     history.DefaultLogPath,
			CounterPath: history.DefaultCounterPath,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr:            ":8000",
			Theme:           "light",
			RateLimit:       10,
			RateBurst:       20,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at path,
// and finally NUMERALS_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if c.History.Enabled {
		if strings.TrimSpace(c.History.LogPath) == "" {
			errs = append(errs, errors.New("config: history.log_path is required"))
		}
		if strings.TrimSpace(c.History.CounterPath) == "" {
			errs = append(errs, errors.New("config: history.counter_path is required"))
		}
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("config: unknown log.level %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("config: unknown log.format %q", c.Log.Format))
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		errs = append(errs, errors.New("config: server rate limits must not be negative"))
	}
	return errors.Join(errs...)
}

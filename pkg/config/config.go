// Package config loads the tasksolver configuration from a yaml or toml file
// and overlays environment variables and command-line flags on top of it.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/germanamz/tasksolver/pkg/assembler"
	"github.com/germanamz/tasksolver/pkg/credential"
	"github.com/germanamz/tasksolver/pkg/providers/openrouter"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultListen   = ":8787"
	DefaultRelayURL = "http://localhost:8787"
	DefaultTimeout  = "5m"
	AppName         = "tasksolver"
)

// Config is the top-level configuration shared by every command.
type Config struct {
	Listen    string          `yaml:"listen" toml:"listen"`
	BasePath  string          `yaml:"base_path" toml:"base_path"`
	RelayURL  string          `yaml:"relay_url" toml:"relay_url"`
	Directive string          `yaml:"directive" toml:"directive"` // Appended to every new task.
	Upstream  UpstreamConfig  `yaml:"upstream" toml:"upstream"`
	Store     StoreConfig     `yaml:"store" toml:"store"`
	RateLimit RateLimitConfig `yaml:"rate_limit" toml:"rate_limit"`
	Log       LogConfig       `yaml:"log" toml:"log"`
}

// UpstreamConfig describes the chat-completion API the relay talks to.
type UpstreamConfig struct {
	BaseURL string `yaml:"base_url" toml:"base_url"`
	Model   string `yaml:"model" toml:"model"`
	APIKey  string `yaml:"api_key" toml:"api_key"` //nolint:gosec // configuration field, not a hardcoded secret
	Referer string `yaml:"referer" toml:"referer"`
	Title   string `yaml:"title" toml:"title"`
	Timeout string `yaml:"timeout" toml:"timeout"` // Duration string, e.g. "90s".
}

// StoreConfig selects the credential backend.
type StoreConfig struct {
	Backend string `yaml:"backend" toml:"backend"` // memory, bolt or sqlite.
	Path    string `yaml:"path" toml:"path"`       // Empty means the user config dir.
}

// RateLimitConfig limits solve requests per user.
type RateLimitConfig struct {
	PerMinute int `yaml:"per_minute" toml:"per_minute"` // 0 = no limit.
	Burst     int `yaml:"burst" toml:"burst"`
}

// LogConfig controls the global logger.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // text or json.
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Listen:    DefaultListen,
		RelayURL:  DefaultRelayURL,
		Directive: assembler.DefaultLanguageDirective,
		Upstream: UpstreamConfig{
			BaseURL: openrouter.DefaultBaseURL,
			Model:   openrouter.DefaultModel,
			Referer: openrouter.DefaultReferer,
			Title:   openrouter.DefaultTitle,
			Timeout: DefaultTimeout,
		},
		Store: StoreConfig{Backend: credential.BackendMemory},
		Log:   LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads a yaml (.yaml, .yml) or toml (.toml) file on top of Default.
// Environment variables referenced as ${VAR} or $VAR are expanded before
// parsing, so secrets can stay in the environment or a .env file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Config{}, fmt.Errorf("config: load: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(expanded, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("config: unsupported file type %q", ext)
	}

	return cfg, nil
}

// LoadOptional behaves like Load but returns Default when path does not exist.
func LoadOptional(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// LoadDotEnv loads environment variables from path. Missing files are ignored.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	if c.Listen == "" {
		return errors.New("config: listen address is required")
	}
	if err := checkURL("relay_url", c.RelayURL); err != nil {
		return err
	}
	if err := checkURL("upstream.base_url", c.Upstream.BaseURL); err != nil {
		return err
	}
	if c.Upstream.Model == "" {
		return errors.New("config: upstream.model is required")
	}
	if _, err := c.UpstreamTimeout(); err != nil {
		return err
	}

	switch c.Store.Backend {
	case credential.BackendMemory, credential.BackendBolt, credential.BackendSQLite:
	default:
		return fmt.Errorf("config: store.backend: unknown backend %q", c.Store.Backend)
	}

	if c.RateLimit.PerMinute < 0 || c.RateLimit.Burst < 0 {
		return errors.New("config: rate_limit values must not be negative")
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format: want text or json, got %q", c.Log.Format)
	}

	return nil
}

func checkURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("config: %s: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("config: %s: want an absolute http(s) URL, got %q", field, raw)
	}
	return nil
}

// UpstreamTimeout parses Upstream.Timeout. Empty means DefaultTimeout.
func (c Config) UpstreamTimeout() (time.Duration, error) {
	raw := c.Upstream.Timeout
	if raw == "" {
		raw = DefaultTimeout
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: upstream.timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: upstream.timeout must be positive, got %s", d)
	}
	return d, nil
}

// StorePath returns Store.Path, or a file named after the backend inside the
// user config dir.
func (c Config) StorePath() (string, error) {
	if c.Store.Path != "" {
		return c.Store.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "credentials."+c.Store.Backend), nil
}

// Dir returns the per-user tasksolver directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: user config dir: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sdotee/desktop/internal/logger"
	"github.com/sdotee/desktop/internal/validation"
)

// AppName names the per-application config and data directories
const AppName = "see"

const (
	DefaultBaseURL = "https://s.ee/api/v1"
	DefaultTimeout = 30 * time.Second

	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

var (
	// ErrNoAPIKey is returned when an operation needs a credential and none is configured
	ErrNoAPIKey = errors.New("no API key configured")

	// ErrInvalid wraps every other configuration problem
	ErrInvalid = errors.New("invalid configuration")
)

// Config holds the application configuration
type Config struct {
	API      APIConfig      `yaml:"api"`
	Defaults DefaultsConfig `yaml:"defaults"`
	History  HistoryConfig  `yaml:"history"`
	Logging  LoggingConfig  `yaml:"logging"`

	path string
}

// APIConfig holds remote service configuration
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key,omitempty"`
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultsConfig holds the domains used when an operation does not name one
type DefaultsConfig struct {
	LinkDomain string `yaml:"link_domain,omitempty"`
	TextDomain string `yaml:"text_domain,omitempty"`
	FileDomain string `yaml:"file_domain,omitempty"`
}

// HistoryConfig holds local history configuration
type HistoryConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path,omitempty"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level   string `yaml:"level"`
	Pretty  bool   `yaml:"pretty"`
	Verbose bool   `yaml:"verbose"`
}

// Connection is the resolved snapshot an operation runs with. It is a plain
// value so copies taken at submission time are independent of the Config.
type Connection struct {
	BaseURL string        `validate:"required,http_url"`
	APIKey  string        `validate:"-"`
	Timeout time.Duration `validate:"gt=0"`
	Verbose bool          `validate:"-"`
}

// Validate checks the snapshot before any network I/O
func (c Connection) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrNoAPIKey
	}
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
		},
		History: HistoryConfig{
			Backend: BackendFile,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// DefaultPath returns <config home>/see/config.yaml
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// DefaultHistoryPath returns the history location for the given backend
func DefaultHistoryPath(backend string) string {
	name := "history.json"
	if backend == BackendSQLite {
		name = "history.db"
	}
	return filepath.Join(xdg.DataHome, AppName, name)
}

// Load resolves the configuration from, in increasing priority: built-in
// defaults, the YAML file at path (DefaultPath when empty), a .env file next
// to it, and the process environment. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalid, path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// godotenv never overrides variables already present in the environment
	envFile := filepath.Join(filepath.Dir(path), ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("SEE_API_KEY"); ok {
		c.API.APIKey = v
	}
	if v := os.Getenv("SEE_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("SEE_TIMEOUT"); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("%w: SEE_TIMEOUT: %v", ErrInvalid, err)
		}
		c.API.Timeout = d
	}
	if v := os.Getenv("SEE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SEE_HISTORY_BACKEND"); v != "" {
		c.History.Backend = v
	}
	if v := os.Getenv("SEE_HISTORY_PATH"); v != "" {
		c.History.Path = v
	}
	return nil
}

// parseTimeout accepts either whole seconds ("30") or a Go duration ("1m30s")
func parseTimeout(v string) (time.Duration, error) {
	if secs, err := strconv.ParseUint(v, 10, 32); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

// validate validates the configuration values
func (c *Config) validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got: %v", c.API.Timeout)
	}

	if c.History.Backend != BackendFile && c.History.Backend != BackendSQLite {
		return fmt.Errorf("unknown history backend %q", c.History.Backend)
	}

	if !logger.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}

	return nil
}

// Connection takes a snapshot for one remote operation
func (c *Config) Connection() Connection {
	return Connection{
		BaseURL: strings.TrimRight(c.API.BaseURL, "/"),
		APIKey:  c.API.APIKey,
		Timeout: c.API.Timeout,
		Verbose: c.Logging.Verbose,
	}
}

// DefaultDomains returns the configured default domains
func (c *Config) DefaultDomains() DefaultsConfig {
	return c.Defaults
}

// HistoryPath resolves where local history lives
func (c *Config) HistoryPath() string {
	if c.History.Path != "" {
		return c.History.Path
	}
	return DefaultHistoryPath(c.History.Backend)
}

// Path returns the file the configuration was loaded from and is saved to
func (c *Config) Path() string {
	if c.path == "" {
		return DefaultPath()
	}
	return c.path
}

// Set changes one setting by its user-facing key
func (c *Config) Set(key, value string) error {
	switch key {
	case "api-key":
		c.API.APIKey = value
	case "base-url":
		c.API.BaseURL = value
	case "timeout":
		d, err := parseTimeout(value)
		if err != nil {
			return fmt.Errorf("%w: timeout: %v", ErrInvalid, err)
		}
		c.API.Timeout = d
	case "default-link-domain":
		c.Defaults.LinkDomain = value
	case "default-text-domain":
		c.Defaults.TextDomain = value
	case "default-file-domain":
		c.Defaults.FileDomain = value
	case "history-backend":
		c.History.Backend = value
	case "history-path":
		c.History.Path = value
	case "log-level":
		c.Logging.Level = value
	default:
		return fmt.Errorf("%w: unknown setting %q", ErrInvalid, key)
	}

	if err := c.validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Keys lists the settings accepted by Set
func Keys() []string {
	return []string{
		"api-key", "base-url", "timeout",
		"default-link-domain", "default-text-domain", "default-file-domain",
		"history-backend", "history-path", "log-level",
	}
}

// Save writes the configuration as YAML, readable only by the owner
func (c *Config) Save() error {
	path := c.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Redacted returns a copy safe to print
func (c *Config) Redacted() Config {
	cp := *c
	if cp.API.APIKey != "" {
		cp.API.APIKey = "***REDACTED***"
	}
	return cp
}

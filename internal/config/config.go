package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	CurrentVersion = 1
	DefaultPath    = "~/.catalens/catalens.yaml"
)

// Config is the top-level configuration.
type Config struct {
	Version int           `yaml:"version"`
	Catalog CatalogConfig `yaml:"catalog"`
	Logging LogConfig     `yaml:"logging,omitempty"`
}

// CatalogConfig selects and configures the catalog backend. When URL is set
// the REST backend is used; otherwise Postgres must be filled in for the
// direct backend.
type CatalogConfig struct {
	URL            string          `yaml:"url,omitempty"`
	TimeoutSeconds int             `yaml:"timeout_seconds,omitempty"`
	Postgres       *PostgresConfig `yaml:"postgres,omitempty"`
}

// PostgresConfig defines the direct PostgreSQL catalog connection. All
// access is read-only.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Schema   string `yaml:"schema,omitempty"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	SSL      bool   `yaml:"ssl,omitempty"`
}

// LogConfig defines logging settings.
type LogConfig struct {
	Level     string `yaml:"level,omitempty"`     // debug, info, warn, error
	Directory string `yaml:"directory,omitempty"` // default ~/.catalens/logs/
}

// Load reads and parses the config file from the given path.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ExpandHome(DefaultPath)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentVersion)
	}

	if err := cfg.resolveSecrets(); err != nil {
		return nil, fmt.Errorf("resolving secrets: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a usable config when no file exists: the REST backend
// pointed at a local catalog service.
func Default() *Config {
	cfg := &Config{
		Version: CurrentVersion,
		Catalog: CatalogConfig{URL: "http://localhost:8000"},
	}
	cfg.applyDefaults()
	return cfg
}

// LoadOrDefault loads the config file, falling back to defaults when the
// file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to the given path.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ExpandHome(DefaultPath)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(path, data, 0o600)
}

// Validate checks that exactly the needed backend settings are present.
func (c *Config) Validate() error {
	if c.Catalog.URL == "" && c.Catalog.Postgres == nil {
		return fmt.Errorf("config: either catalog.url or catalog.postgres must be set")
	}
	if pg := c.Catalog.Postgres; pg != nil {
		if pg.Host == "" || pg.Database == "" {
			return fmt.Errorf("config: catalog.postgres requires host and database")
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Catalog.TimeoutSeconds == 0 {
		c.Catalog.TimeoutSeconds = 30
	}
	if pg := c.Catalog.Postgres; pg != nil {
		if pg.Port == 0 {
			pg.Port = 5432
		}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Directory == "" {
		c.Logging.Directory = ExpandHome("~/.catalens/logs/")
	}
}

var secretPattern = regexp.MustCompile(`\$\{ENV:([^}]+)\}`)

func (c *Config) resolveSecrets() error {
	if c.Catalog.Postgres == nil {
		return nil
	}
	v, err := ResolveValue(c.Catalog.Postgres.Password)
	if err != nil {
		return fmt.Errorf("postgres password: %w", err)
	}
	c.Catalog.Postgres.Password = v
	return nil
}

// ResolveValue resolves ${ENV:NAME} references in a string value.
func ResolveValue(val string) (string, error) {
	matches := secretPattern.FindStringSubmatch(val)
	if matches == nil {
		return val, nil
	}
	v := os.Getenv(matches[1])
	if v == "" {
		return "", fmt.Errorf("environment variable %s not set", matches[1])
	}
	return v, nil
}

// ExpandHome expands ~ to the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Package config loads and saves the application configuration from a TOML
// file under the user's home directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// Local database configuration
	Database DatabaseConfig `toml:"database"`

	// NetrunnerDB API configuration
	NRDB NRDBConfig `toml:"nrdb"`

	// Local card data dump configuration
	Data DataConfig `toml:"data"`

	// HTTP API configuration
	API APIConfig `toml:"api"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// DatabaseConfig contains local SQLite settings.
type DatabaseConfig struct {
	Path string `toml:"path"` // Path to the SQLite file; empty picks the default location
}

// NRDBConfig contains upstream card data API settings.
type NRDBConfig struct {
	BaseURL string `toml:"base_url"` // API base URL; empty uses the public NetrunnerDB API
	Timeout string `toml:"timeout"`  // Request timeout (e.g., "30s")
}

// DataConfig contains local JSON dump settings.
type DataConfig struct {
	Dir   string `toml:"dir"`   // Directory holding cards.json, packs.json, cycles.json, mwl.json
	Watch bool   `toml:"watch"` // Reload the snapshot when the dump files change
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port           int      `toml:"port"`            // Listen port
	AllowedOrigins []string `toml:"allowed_origins"` // CORS origins; empty allows any
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "",
		},
		NRDB: NRDBConfig{
			BaseURL: "",
			Timeout: "30s",
		},
		Data: DataConfig{
			Dir:   "",
			Watch: true,
		},
		API: APIConfig{
			Port:           8089,
			AllowedOrigins: nil,
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

// Dir returns the application data directory, creating it when missing.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".anr-companion")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return configDir, nil
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads the configuration from disk. Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &config, nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.NRDB.Timeout != "" {
		if _, err := time.ParseDuration(c.NRDB.Timeout); err != nil {
			return fmt.Errorf("invalid nrdb timeout %q: %w", c.NRDB.Timeout, err)
		}
	}

	if c.API.Port < 0 || c.API.Port > 65535 {
		return fmt.Errorf("invalid api port: %d", c.API.Port)
	}

	return nil
}

// DatabasePath returns the configured SQLite path, defaulting to
// anr-companion.db in the application data directory.
func (c *Config) DatabasePath() (string, error) {
	if c.Database.Path != "" {
		return c.Database.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "anr-companion.db"), nil
}

// NRDBTimeout returns the upstream request timeout as a duration.
func (c *Config) NRDBTimeout() (time.Duration, error) {
	if c.NRDB.Timeout == "" {
		return 30 * time.Second, nil
	}
	return time.ParseDuration(c.NRDB.Timeout)
}

// Package config handles configuration loading and validation for mosaic.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	Storage       StorageConfig       `yaml:"storage"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Inventory     InventoryConfig     `yaml:"inventory"`
	Server        ServerConfig        `yaml:"server"`
	TUI           TUIConfig           `yaml:"tui"`
	Database      DatabaseConfig      `yaml:"database"`
	DataDir       string              `yaml:"-"` // set by caller, not from config file
}

// StorageConfig selects where notification state and settings live.
type StorageConfig struct {
	Backend      string        `yaml:"backend"`       // json or sqlite
	MaxBytes     int64         `yaml:"max_bytes"`     // quota for stored values, 0 disables
	PollInterval time.Duration `yaml:"poll_interval"` // sqlite reload polling
}

type NotificationsConfig struct {
	AutoRead       bool          `yaml:"auto_read"`
	AutoReadDelay  time.Duration `yaml:"auto_read_delay"`
	PersistTimeout time.Duration `yaml:"persist_timeout"`
}

type InventoryConfig struct {
	AlertOnStart bool `yaml:"alert_on_start"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type TUIConfig struct {
	Theme           string        `yaml:"theme"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// DatabaseConfig tunes the sqlite pool.
type DatabaseConfig struct {
	MaxOpenConns int           `yaml:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns"`
	BusyTimeout  time.Duration `yaml:"busy_timeout"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Backend:      BackendJSON,
			MaxBytes:     5 << 20,
			PollInterval: 2 * time.Second,
		},
		Notifications: NotificationsConfig{
			AutoRead:       true,
			AutoReadDelay:  5 * time.Second,
			PersistTimeout: 2 * time.Second,
		},
		Inventory: InventoryConfig{
			AlertOnStart: true,
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:7420",
			AllowedOrigins: []string{"*"},
		},
		TUI: TUIConfig{
			Theme:           "tokyo-night",
			RefreshInterval: 30 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 4,
			MaxIdleConns: 2,
			BusyTimeout:  5 * time.Second,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Storage.Backend == "" {
		c.Storage.Backend = defaults.Storage.Backend
	}
	if c.Storage.PollInterval == 0 {
		c.Storage.PollInterval = defaults.Storage.PollInterval
	}
	if c.Notifications.PersistTimeout == 0 {
		c.Notifications.PersistTimeout = defaults.Notifications.PersistTimeout
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = defaults.TUI.RefreshInterval
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
}

// AutoReadDelay is the effective delay, zero when auto-read is off.
func (c *Config) AutoReadDelay() time.Duration {
	if !c.Notifications.AutoRead {
		return 0
	}
	return c.Notifications.AutoReadDelay
}

// StorageFile returns the path of the JSON key-value file.
func (c *Config) StorageFile() string {
	return filepath.Join(c.DataDir, "storage.json")
}

// LogFile returns the default log file path.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "mosaic.log")
}

package commands

import (
	"os"
	"path/filepath"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/config"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/erp"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string
	Backend    string
	NoScan     bool

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// App is opened in the Before hook once the config is known
	App *erp.App
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "mosaic", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "mosaic")
}

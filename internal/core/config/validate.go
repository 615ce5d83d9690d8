package config

import (
	"fmt"
	"net"
	"os"
	"slices"
	"strings"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/styles"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/validate"
	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if c.DataDir == "" {
		errs = errs.Append("data_dir", fmt.Errorf("cannot be empty"))
	}

	if err := validate.OneOf(BackendJSON, BackendSQLite)(c.Storage.Backend); err != nil {
		errs = errs.Append("storage.backend", err)
	}
	if c.Storage.MaxBytes < 0 {
		errs = errs.Append("storage.max_bytes", fmt.Errorf("must not be negative"))
	}
	if c.Storage.PollInterval < 0 {
		errs = errs.Append("storage.poll_interval", fmt.Errorf("must not be negative"))
	}

	if c.Notifications.AutoReadDelay < 0 {
		errs = errs.Append("notifications.auto_read_delay", fmt.Errorf("must not be negative"))
	}
	if c.Notifications.PersistTimeout < 0 {
		errs = errs.Append("notifications.persist_timeout", fmt.Errorf("must not be negative"))
	}

	if err := validate.OneOf(styles.ThemeNames()...)(c.TUI.Theme); err != nil {
		errs = errs.Append("tui.theme", err)
	}
	if c.TUI.RefreshInterval < 0 {
		errs = errs.Append("tui.refresh_interval", fmt.Errorf("must not be negative"))
	}

	if c.Database.MaxOpenConns < 1 {
		errs = errs.Append("database.max_open_conns", fmt.Errorf("must be at least 1"))
	}
	if c.Database.MaxIdleConns < 0 {
		errs = errs.Append("database.max_idle_conns", fmt.Errorf("must not be negative"))
	}

	return errs.ToError()
}

// ValidateDeep performs Validate plus checks that touch the filesystem and
// parse addresses. An empty configPath skips the config file check.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		criterio.Run("server.addr", c.Server.Addr, isHostPort),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Notifications.AutoRead && c.Notifications.AutoReadDelay == 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Notifications",
			Item:     "auto_read_delay",
			Message:  "auto_read is enabled with a zero delay, so notifications are never auto-read",
		})
	}

	if slices.Contains(c.Server.AllowedOrigins, "*") && !isLoopback(c.Server.Addr) {
		warnings = append(warnings, ValidationWarning{
			Category: "Server",
			Item:     "allowed_origins",
			Message:  "wildcard origin on a non-loopback address exposes the API to any site",
		})
	}

	if c.Storage.Backend == BackendSQLite && c.Storage.MaxBytes == 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Storage",
			Item:     "max_bytes",
			Message:  "no storage quota set",
		})
	}

	return warnings
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

func isHostPort(addr string) error {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("invalid address: %w", err)
	}
	return nil
}

func isLoopback(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

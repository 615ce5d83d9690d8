package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	return &cfg
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, validConfig(t).Validate())
}

func TestValidate_CollectsAllFieldErrors(t *testing.T) {
	cfg := validConfig(t)
	cfg.DataDir = ""
	cfg.Storage.Backend = "redis"
	cfg.Storage.MaxBytes = -1
	cfg.Database.MaxOpenConns = 0

	err := cfg.Validate()

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 4)

	fields := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		fields[i] = fe.Field
	}
	assert.ElementsMatch(t, []string{"data_dir", "storage.backend", "storage.max_bytes", "database.max_open_conns"}, fields)
}

func TestValidate_UnknownTheme(t *testing.T) {
	cfg := validConfig(t)
	cfg.TUI.Theme = "neon"

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, cfg.Validate(), &fieldErrs)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "tui.theme", fieldErrs[0].Field)
	assert.Contains(t, fieldErrs[0].Err.Error(), "tokyo-night")
}

func TestValidateDeep_DataDirIsFile(t *testing.T) {
	cfg := validConfig(t)
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	cfg.DataDir = file

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, cfg.ValidateDeep(""), &fieldErrs)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "data_dir", fieldErrs[0].Field)
}

func TestValidateDeep_ConfigPathIsDirectory(t *testing.T) {
	cfg := validConfig(t)

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, cfg.ValidateDeep(t.TempDir()), &fieldErrs)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "config_file", fieldErrs[0].Field)
}

func TestValidateDeep_BadAddr(t *testing.T) {
	cfg := validConfig(t)
	cfg.Server.Addr = "no-port"

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, cfg.ValidateDeep(""), &fieldErrs)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "server.addr", fieldErrs[0].Field)
}

func TestWarnings(t *testing.T) {
	cfg := validConfig(t)
	assert.Empty(t, cfg.Warnings())

	cfg.Server.Addr = "0.0.0.0:7420"
	cfg.Notifications.AutoReadDelay = 0
	cfg.Storage.Backend = BackendSQLite
	cfg.Storage.MaxBytes = 0

	warnings := cfg.Warnings()
	require.Len(t, warnings, 3)
	assert.Equal(t, "Notifications", warnings[0].Category)
	assert.Equal(t, "Server", warnings[1].Category)
	assert.Equal(t, "Storage", warnings[2].Category)
}

func TestIsLoopback(t *testing.T) {
	assert.True(t, isLoopback("127.0.0.1:7420"))
	assert.True(t, isLoopback("localhost:80"))
	assert.True(t, isLoopback("[::1]:80"))
	assert.False(t, isLoopback("0.0.0.0:80"))
	assert.False(t, isLoopback("garbage"))
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a Config with all required fields set for testing.
func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Server.LogDir = t.TempDir()
	return &cfg
}

func TestValidateDeep_ValidConfig(t *testing.T) {
	cfg := validConfig(t)
	cfg.Client.ServerURL = "https://board.example.com"
	cfg.Server.RedisAddr = "localhost:6379"

	assert.NoError(t, cfg.ValidateDeep(""))
}

func TestValidateDeep_BadEndpoints(t *testing.T) {
	cfg := validConfig(t)
	cfg.Storage.RedisAddr = "localhost"
	cfg.Server.RedisAddr = "redis:"

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 2)
	assert.Equal(t, "storage.redis_addr", fieldErrs[0].Field)
	assert.Equal(t, "server.redis_addr", fieldErrs[1].Field)
}

func TestValidateDeep_ServerURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{name: "websocket scheme", url: "ws://localhost:3000"},
		{name: "no host", url: "http://"},
		{name: "garbage", url: "://nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			cfg.Client.ServerURL = tt.url

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, cfg.ValidateDeep(""), &fieldErrs)
			assert.Equal(t, "client.server_url", fieldErrs[0].Field)
		})
	}
}

func TestValidateDeep_DataDirIsFile(t *testing.T) {
	cfg := validConfig(t)
	file := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	cfg.DataDir = file

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, cfg.ValidateDeep(""), &fieldErrs)
	assert.Equal(t, "data_dir", fieldErrs[0].Field)
}

func TestValidateDeep_ConfigPathIsDir(t *testing.T) {
	cfg := validConfig(t)

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, cfg.ValidateDeep(t.TempDir()), &fieldErrs)
	assert.Equal(t, "config_file", fieldErrs[0].Field)
}

func TestWarnings(t *testing.T) {
	cfg := validConfig(t)
	assert.Empty(t, cfg.Warnings())

	cfg.Client.Beacon = true
	cfg.Storage.Driver = DriverMemory
	cfg.Server.Production = true
	cfg.Server.ServeDir = filepath.Join(t.TempDir(), "missing")

	warnings := cfg.Warnings()
	require.Len(t, warnings, 3)
	assert.Equal(t, "Client", warnings[0].Category)
	assert.Equal(t, "Server", warnings[1].Category)
	assert.Equal(t, "Storage", warnings[2].Category)
}

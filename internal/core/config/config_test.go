package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load("", dataDir)
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "dist", cfg.Server.ServeDir)
	assert.True(t, cfg.Server.WebSocketEnabled())
	assert.Equal(t, time.Second, cfg.Client.FlushInterval)
	assert.Equal(t, 3*time.Second, cfg.Client.ReconnectDelay)
	assert.Equal(t, "task-board", cfg.Board.ID)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server, cfg.Server)
}

func TestLoad_FileOverrides(t *testing.T) {
	path := writeConfig(t, `
board:
  id: launch
storage:
  driver: memory
server:
  port: 8080
  websocket: false
  production: true
client:
  server_url: http://localhost:8080
  flush_interval: 250ms
tui:
  theme: gruvbox
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "launch", cfg.Board.ID)
	assert.Equal(t, "/", cfg.Board.BasePath, "unset fields keep defaults")
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.False(t, cfg.Server.WebSocketEnabled())
	assert.True(t, cfg.Server.Production)
	assert.Equal(t, 250*time.Millisecond, cfg.Client.FlushInterval)
	assert.Equal(t, 3*time.Second, cfg.Client.ReconnectDelay)
	assert.Equal(t, "gruvbox", cfg.TUI.Theme)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "bad yaml", body: "board: [", want: "parse config file"},
		{name: "unknown driver", body: "storage:\n  driver: etcd\n", want: "storage.driver"},
		{name: "redis without addr", body: "storage:\n  driver: redis\n", want: "redis_addr"},
		{name: "port range", body: "server:\n  port: 70000\n", want: "server.port"},
		{name: "unknown theme", body: "tui:\n  theme: neon\n", want: "tui.theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), t.TempDir())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_EmptyDataDir(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.Validate())
}

func TestEventsLogFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.LogDir = "/var/log/taskboard"
	assert.Equal(t, "/var/log/taskboard/events.jsonl", cfg.EventsLogFile())
}

// Package config handles configuration loading and validation for taskboard.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/taskboard/internal/core/styles"
)

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Config holds the application configuration.
type Config struct {
	Board    BoardConfig    `yaml:"board"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Client   ClientConfig   `yaml:"client"`
	TUI      TUIConfig      `yaml:"tui"`
	DataDir  string         `yaml:"-"` // set by caller, not from config file
}

// BoardConfig identifies the embedded board instance.
type BoardConfig struct {
	ID       string `yaml:"id"`
	BasePath string `yaml:"base_path"`
}

// StorageConfig selects the KV backend the board persists to.
type StorageConfig struct {
	Driver      string `yaml:"driver"` // sqlite, memory, redis
	RedisAddr   string `yaml:"redis_addr"`
	RedisDB     int    `yaml:"redis_db"`
	RedisPrefix string `yaml:"redis_prefix"`
}

// DatabaseConfig tunes the SQLite connection pool.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// ServerConfig configures `taskboard serve`. PORT, SERVE_DIR and
// IS_PRODUCTION override the file values.
type ServerConfig struct {
	Port         int    `yaml:"port"`
	ServeDir     string `yaml:"serve_dir"`
	Production   bool   `yaml:"production"`
	WebSocket    *bool  `yaml:"websocket"` // nil = enabled
	LogDir       string `yaml:"log_dir"`
	RedisAddr    string `yaml:"redis_addr"` // empty disables the backplane
	RedisChannel string `yaml:"redis_channel"`
}

// WebSocketEnabled reports whether /ws and /message are served.
func (s ServerConfig) WebSocketEnabled() bool {
	return s.WebSocket == nil || *s.WebSocket
}

// ClientConfig configures how board front ends talk to a server.
type ClientConfig struct {
	ServerURL      string        `yaml:"server_url"` // empty runs fully offline
	Beacon         bool          `yaml:"beacon"`
	SimID          string        `yaml:"sim_id"`
	FlushInterval  time.Duration `yaml:"flush_interval"`
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`
}

// TUIConfig configures the terminal board.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Board: BoardConfig{
			ID:       "task-board",
			BasePath: "/",
		},
		Storage: StorageConfig{
			Driver:      DriverSQLite,
			RedisPrefix: "taskboard:",
		},
		Database: DatabaseConfig{
			MaxOpenConns: 4,
			MaxIdleConns: 2,
			BusyTimeout:  5000,
		},
		Server: ServerConfig{
			Port:         3000,
			ServeDir:     "dist",
			LogDir:       "logs",
			RedisChannel: "taskboard:broadcast",
		},
		Client: ClientConfig{
			SimID:          "taskboard",
			FlushInterval:  time.Second,
			ReconnectDelay: 3 * time.Second,
		},
		TUI: TUIConfig{
			Theme: styles.DefaultTheme,
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

	if c.Board.ID == "" {
		c.Board.ID = defaults.Board.ID
	}
	if c.Board.BasePath == "" {
		c.Board.BasePath = defaults.Board.BasePath
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = defaults.Storage.Driver
	}
	if c.Storage.RedisPrefix == "" {
		c.Storage.RedisPrefix = defaults.Storage.RedisPrefix
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
	if c.Server.Port == 0 {
		c.Server.Port = defaults.Server.Port
	}
	if c.Server.ServeDir == "" {
		c.Server.ServeDir = defaults.Server.ServeDir
	}
	if c.Server.LogDir == "" {
		c.Server.LogDir = defaults.Server.LogDir
	}
	if c.Server.RedisChannel == "" {
		c.Server.RedisChannel = defaults.Server.RedisChannel
	}
	if c.Client.SimID == "" {
		c.Client.SimID = defaults.Client.SimID
	}
	if c.Client.FlushInterval == 0 {
		c.Client.FlushInterval = defaults.Client.FlushInterval
	}
	if c.Client.ReconnectDelay == 0 {
		c.Client.ReconnectDelay = defaults.Client.ReconnectDelay
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	switch c.Storage.Driver {
	case DriverSQLite, DriverMemory:
	case DriverRedis:
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("storage.redis_addr is required for the redis driver")
		}
	default:
		return fmt.Errorf("storage.driver %q must be one of sqlite, memory, redis", c.Storage.Driver)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be at least 1")
	}

	if _, ok := styles.GetPalette(c.TUI.Theme); !ok {
		return fmt.Errorf("tui.theme %q is not a known theme", c.TUI.Theme)
	}

	return nil
}

// EventsLogFile returns the path of the server's event log.
func (c *Config) EventsLogFile() string {
	return filepath.Join(c.Server.LogDir, "events.jsonl")
}

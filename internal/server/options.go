package server

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/colonyops/taskboard/internal/core/config"
)

// Environment variables that override the config file.
const (
	EnvPort       = "PORT"
	EnvServeDir   = "SERVE_DIR"
	EnvProduction = "IS_PRODUCTION"
)

// Options configures a Server.
type Options struct {
	Port       int
	ServeDir   string
	Production bool
	WebSocket  bool
	LogDir     string

	RedisAddr    string
	RedisChannel string
}

// OptionsFromConfig copies the server section of cfg.
func OptionsFromConfig(cfg config.ServerConfig) Options {
	return Options{
		Port:         cfg.Port,
		ServeDir:     cfg.ServeDir,
		Production:   cfg.Production,
		WebSocket:    cfg.WebSocketEnabled(),
		LogDir:       cfg.LogDir,
		RedisAddr:    cfg.RedisAddr,
		RedisChannel: cfg.RedisChannel,
	}
}

// ApplyEnv overrides opts from the environment. IS_PRODUCTION is true only
// for the literal "true".
func (o *Options) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("invalid %s %q", EnvPort, v)
		}
		o.Port = port
	}
	if v, ok := lookup(EnvServeDir); ok && v != "" {
		o.ServeDir = v
	}
	if v, ok := lookup(EnvProduction); ok {
		o.Production = v == "true"
	}
	return nil
}

// LoadDotEnv loads variables from path into the process environment without
// overriding existing ones. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

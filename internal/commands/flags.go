package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskboard/internal/core/config"
	"github.com/colonyops/taskboard/internal/core/logging"
	"github.com/colonyops/taskboard/internal/core/styles"
	"github.com/colonyops/taskboard/pkg/logutils"
)

// Flags holds the global options shared by every subcommand.
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Config is set by Setup before any command action runs.
	Config *config.Config
}

// xdgDir resolves $env, falling back to ~/fallback, and joins "taskboard".
func xdgDir(env string, fallback ...string) string {
	base := os.Getenv(env)
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(append([]string{home}, fallback...)...)
	}
	return filepath.Join(base, "taskboard")
}

func DefaultConfigPath() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), "config.yaml")
}

func DefaultDataDir() string {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// GlobalFlags binds the root command options to f.
func (f *Flags) GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Sources:     cli.EnvVars("TASKBOARD_LOG_LEVEL"),
			Value:       "info",
			Destination: &f.LogLevel,
		},
		&cli.StringFlag{
			Name:        "log-file",
			Usage:       "log file path (default <data-dir>/taskboard.log)",
			Sources:     cli.EnvVars("TASKBOARD_LOG_FILE"),
			Destination: &f.LogFile,
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "config file path",
			Sources:     cli.EnvVars("TASKBOARD_CONFIG"),
			Value:       DefaultConfigPath(),
			Destination: &f.ConfigPath,
		},
		&cli.StringFlag{
			Name:        "data-dir",
			Usage:       "directory for the board database and logs",
			Sources:     cli.EnvVars("TASKBOARD_DATA_DIR"),
			Value:       DefaultDataDir(),
			Destination: &f.DataDir,
		},
	}
}

// Setup prepares the data dir, replaces the global logger with a file
// logger, loads config and applies its theme. The returned func closes the
// log file.
func (f *Flags) Setup() (func(), error) {
	if err := os.MkdirAll(f.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	logFile := f.LogFile
	if logFile == "" {
		logFile = filepath.Join(f.DataDir, "taskboard.log")
	}
	logger, closeLog, err := logutils.New(f.LogLevel, logFile, logging.ContextHook{})
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}
	log.Logger = logger

	cfg, err := config.Load(f.ConfigPath, f.DataDir)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("load config: %w", err)
	}
	f.Config = cfg

	// Validate has already rejected unknown theme names.
	palette, _ := styles.GetPalette(cfg.TUI.Theme)
	styles.SetTheme(palette)
	return closeLog, nil
}

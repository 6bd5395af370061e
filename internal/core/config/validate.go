package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// URLs, addresses and file accessibility. The configPath argument specifies the
// config file location to validate (empty string skips config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateEndpoints(),
		c.validateClient(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Client.Beacon && c.Client.ServerURL == "" {
		warnings = append(warnings, ValidationWarning{
			Category: "Client",
			Item:     "beacon",
			Message:  "beacon is enabled but client.server_url is empty; events will not be sent",
		})
	}

	if c.Server.Production {
		if _, err := os.Stat(c.Server.ServeDir); err != nil {
			warnings = append(warnings, ValidationWarning{
				Category: "Server",
				Item:     "serve_dir",
				Message:  fmt.Sprintf("production mode needs %s to exist", c.Server.ServeDir),
			})
		}
	}

	if c.Storage.Driver == DriverMemory {
		warnings = append(warnings, ValidationWarning{
			Category: "Storage",
			Item:     "driver",
			Message:  "memory storage loses the board on exit",
		})
	}

	return warnings
}

// validateFileAccess checks config file and data directory.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		criterio.Run("server.log_dir", c.Server.LogDir, isDirectoryOrNotExist),
	)
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

// validateEndpoints checks host:port style addresses.
func (c *Config) validateEndpoints() error {
	var errs criterio.FieldErrorsBuilder

	if err := hostPort(c.Storage.RedisAddr); err != nil {
		errs = errs.Append("storage.redis_addr", err)
	}
	if err := hostPort(c.Server.RedisAddr); err != nil {
		errs = errs.Append("server.redis_addr", err)
	}
	if c.Server.RedisAddr != "" && strings.TrimSpace(c.Server.RedisChannel) == "" {
		errs = errs.Append("server.redis_channel", fmt.Errorf("required when server.redis_addr is set"))
	}

	return errs.ToError()
}

// validateClient checks the server URL and timing options.
func (c *Config) validateClient() error {
	var errs criterio.FieldErrorsBuilder

	if c.Client.ServerURL != "" {
		u, err := url.Parse(c.Client.ServerURL)
		switch {
		case err != nil:
			errs = errs.Append("client.server_url", fmt.Errorf("invalid URL: %w", err))
		case u.Scheme != "http" && u.Scheme != "https":
			errs = errs.Append("client.server_url", fmt.Errorf("scheme must be http or https, got %q", u.Scheme))
		case u.Host == "":
			errs = errs.Append("client.server_url", fmt.Errorf("missing host"))
		}
	}

	if c.Client.FlushInterval < 0 {
		errs = errs.Append("client.flush_interval", fmt.Errorf("must not be negative"))
	}
	if c.Client.ReconnectDelay < 0 {
		errs = errs.Append("client.reconnect_delay", fmt.Errorf("must not be negative"))
	}

	return errs.ToError()
}

func hostPort(addr string) error {
	if addr == "" {
		return nil
	}
	i := strings.LastIndex(addr, ":")
	if i <= 0 || i == len(addr)-1 {
		return fmt.Errorf("expected host:port, got %q", addr)
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

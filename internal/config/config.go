// Package config loads shadcn-mcp settings from a TOML file, environment
// variables and defaults, in increasing order of precedence: defaults, file,
// environment. Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

type ServerConfig struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// CLIConfig selects how the shadcn-ui CLI is launched.
type CLIConfig struct {
	Binary  string `toml:"binary"`
	Package string `toml:"package"`
}

type RunnerConfig struct {
	// TimeoutSeconds bounds each CLI run; 0 disables the limit.
	TimeoutSeconds int `toml:"timeoutSeconds"`
}

type TransportConfig struct {
	Mode  string `toml:"mode"`
	Addr  string `toml:"addr"`
	Token string `toml:"token"`
}

type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"maxSizeMB"`
	MaxBackups int    `toml:"maxBackups"`
	MaxAgeDays int    `toml:"maxAgeDays"`
}

type Config struct {
	Server    ServerConfig    `toml:"server"`
	CLI       CLIConfig       `toml:"cli"`
	Runner    RunnerConfig    `toml:"runner"`
	Transport TransportConfig `toml:"transport"`
	Log       LogConfig       `toml:"log"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Name:    "shadcn-mcp",
			Version: "0.1.0",
		},
		CLI: CLIConfig{
			Binary:  "npx",
			Package: "shadcn-ui@latest",
		},
		Transport: TransportConfig{
			Mode: TransportStdio,
			Addr: ":8080",
		},
		Log: LogConfig{
			Level:      "warn",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load builds a Config from defaults, the TOML file at path (skipped when
// path is empty) and SHADCN_MCP_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// RunnerTimeout converts Runner.TimeoutSeconds to a duration.
func (c *Config) RunnerTimeout() time.Duration {
	if c.Runner.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Runner.TimeoutSeconds) * time.Second
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.CLI.Binary) == "" {
		errs = append(errs, errors.New("cli.binary must not be empty"))
	}
	if strings.TrimSpace(c.CLI.Package) == "" {
		errs = append(errs, errors.New("cli.package must not be empty"))
	}
	switch c.Transport.Mode {
	case TransportStdio:
	case TransportHTTP:
		if c.Transport.Addr == "" {
			errs = append(errs, errors.New("transport.addr is required for http transport"))
		}
	default:
		errs = append(errs, fmt.Errorf("transport.mode %q must be %q or %q", c.Transport.Mode, TransportStdio, TransportHTTP))
	}
	if c.Runner.TimeoutSeconds < 0 {
		errs = append(errs, errors.New("runner.timeoutSeconds must not be negative"))
	}
	return errors.Join(errs...)
}

// ConfigPathFromEnv returns SHADCN_MCP_CONFIG, if set.
func ConfigPathFromEnv() string {
	return os.Getenv(EnvConfig)
}

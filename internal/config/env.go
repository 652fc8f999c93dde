package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	EnvConfig        = "SHADCN_MCP_CONFIG"
	EnvCLIBinary     = "SHADCN_MCP_CLI_BINARY"
	EnvCLIPackage    = "SHADCN_MCP_CLI_PACKAGE"
	EnvRunnerTimeout = "SHADCN_MCP_RUNNER_TIMEOUT"
	EnvTransport     = "SHADCN_MCP_TRANSPORT"
	EnvAddr          = "SHADCN_MCP_ADDR"
	EnvToken         = "SHADCN_MCP_TOKEN"
	EnvLogLevel      = "SHADCN_MCP_LOG_LEVEL"
	EnvLogFile       = "SHADCN_MCP_LOG_FILE"
)

func (c *Config) applyEnvOverrides() {
	c.CLI.Binary = getEnv(EnvCLIBinary, c.CLI.Binary)
	c.CLI.Package = getEnv(EnvCLIPackage, c.CLI.Package)
	c.Runner.TimeoutSeconds = getEnvInt(EnvRunnerTimeout, c.Runner.TimeoutSeconds)
	c.Transport.Mode = strings.ToLower(strings.TrimSpace(getEnv(EnvTransport, c.Transport.Mode)))
	c.Transport.Addr = getEnv(EnvAddr, c.Transport.Addr)
	c.Transport.Token = getEnv(EnvToken, c.Transport.Token)
	c.Log.Level = getEnv(EnvLogLevel, c.Log.Level)
	c.Log.File = getEnv(EnvLogFile, c.Log.File)
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

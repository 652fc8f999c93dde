// Package logging builds the process zap logger. Output goes to stderr,
// never stdout, which carries protocol traffic in stdio mode.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"shadcn-mcp/internal/config"
)

// ParseLevel maps a level name to a zap level. enabled is false for "off".
func ParseLevel(raw string) (level zapcore.Level, enabled bool, err error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug", "trace":
		return zapcore.DebugLevel, true, nil
	case "", "info":
		return zapcore.InfoLevel, true, nil
	case "warn", "warning":
		return zapcore.WarnLevel, true, nil
	case "error":
		return zapcore.ErrorLevel, true, nil
	case "off", "disabled", "none":
		return zapcore.InvalidLevel, false, nil
	default:
		return zapcore.InvalidLevel, false, fmt.Errorf("unknown log level %q", raw)
	}
}

// New returns a logger writing console lines to stderr and, when cfg.File is
// set, JSON lines to a rotated file. The returned func flushes and closes.
func New(cfg config.LogConfig, stderr io.Writer) (*zap.Logger, func() error, error) {
	level, enabled, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	if !enabled {
		return zap.NewNop(), func() error { return nil }, nil
	}
	atom := zap.NewAtomicLevelAt(level)

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.AddSync(stderr), atom),
	}

	var rotator *lumberjack.Logger
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		rotator = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotator),
			atom,
		))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	closeFn := func() error {
		_ = logger.Sync()
		if rotator != nil {
			return rotator.Close()
		}
		return nil
	}
	return logger, closeFn, nil
}

// Package runner executes external commands in a working directory and
// captures their output.
package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Command is a single external process invocation.
type Command struct {
	Name string
	Args []string
	// Dir is used as-is; a missing directory surfaces as a spawn failure.
	Dir string
}

// String renders the command line for display. It is never handed to a shell.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result holds the captured output of a successful run.
type Result struct {
	Stdout string
	Stderr string
}

// Runner runs one command and waits for it to exit.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecError reports a command that could not be spawned or exited non-zero.
type ExecError struct {
	Command Command
	Stdout  string
	Stderr  string
	Err     error
}

// Message is the diagnostic text surfaced to callers: captured stderr when
// present, otherwise the underlying error.
func (e *ExecError) Message() string {
	if s := strings.TrimSpace(e.Stderr); s != "" {
		return e.Stderr
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *ExecError) Error() string { return e.Message() }

func (e *ExecError) Unwrap() error { return e.Err }

// ExitCode returns the process exit status, or -1 if it never ran to completion.
func (e *ExecError) ExitCode() int {
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// Config controls ExecRunner behavior.
type Config struct {
	// Timeout bounds a single run. Zero means no limit.
	Timeout time.Duration
	Logger  *zap.Logger
}

// ExecRunner runs commands as local subprocesses using an argument vector.
type ExecRunner struct {
	timeout time.Duration
	logger  *zap.Logger
}

// NewExecRunner returns an ExecRunner. A nil logger disables logging.
func NewExecRunner(cfg Config) *ExecRunner {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecRunner{timeout: cfg.Timeout, logger: logger}
}

// Run executes cmd in cmd.Dir and returns its stdout and stderr.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()
	fields := []zap.Field{
		zap.String("command", cmd.String()),
		zap.String("dir", cmd.Dir),
		zap.Duration("elapsed", time.Since(start)),
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && stderr.Len() == 0 {
			err = ctxErr
		}
		execErr := &ExecError{
			Command: cmd,
			Stdout:  stdout.String(),
			Stderr:  stderr.String(),
			Err:     err,
		}
		r.logger.Warn("command failed", append(fields, zap.Int("exit_code", execErr.ExitCode()), zap.Error(err))...)
		return Result{}, execErr
	}

	r.logger.Debug("command finished", fields...)
	return Result{Stdout: stdout.String(), Stderr: stderr.String()}, nil
}

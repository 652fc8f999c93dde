// Package shadcn maps MCP tool invocations onto the shadcn-ui CLI.
package shadcn

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"shadcn-mcp/internal/runner"
)

// Invocation is one tools/call request.
type Invocation struct {
	ToolName  string
	Arguments map[string]any
}

// Dispatcher validates invocations and runs the matching CLI command.
// It holds no per-call state and is safe for concurrent use.
type Dispatcher struct {
	runner runner.Runner
	cli    CLI
	logger *zap.Logger
}

// NewDispatcher returns a Dispatcher. A nil logger disables logging.
func NewDispatcher(r runner.Runner, cli CLI, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{runner: r, cli: cli, logger: logger}
}

// Dispatch handles inv and returns the text payload of the response. Errors
// are always *ProtocolError.
func (d *Dispatcher) Dispatch(ctx context.Context, inv Invocation) (string, error) {
	args, err := ParseArgs(inv.ToolName, inv.Arguments)
	if err != nil {
		d.logger.Warn("rejected tool call", zap.String("tool", inv.ToolName), zap.Error(err))
		return "", err
	}

	d.logger.Info("tool call", zap.String("tool", args.Tool()), zap.String("directory", args.Dir()))

	switch a := args.(type) {
	case InitArgs:
		res, err := d.run(ctx, a.Tool(), d.cli.Init(a.Directory))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("shadcn-ui initialized in %s\n%s\n%s", a.Directory, res.Stdout, res.Stderr), nil

	case AddArgs:
		res, err := d.run(ctx, a.Tool(), d.cli.Add(a.Directory, a.Components))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Added components to %s\n%s\n%s", a.Directory, res.Stdout, res.Stderr), nil

	case ListArgs:
		res, err := d.run(ctx, a.Tool(), d.cli.List(a.Directory))
		if err != nil {
			return "", err
		}
		// No directory echo here, unlike the other tools.
		if res.Stdout != "" {
			return res.Stdout, nil
		}
		return res.Stderr, nil
	}

	return "", MethodNotFound(inv.ToolName)
}

func (d *Dispatcher) run(ctx context.Context, tool string, cmd runner.Command) (runner.Result, error) {
	res, err := d.runner.Run(ctx, cmd)
	if err == nil {
		return res, nil
	}

	msg := err.Error()
	var execErr *runner.ExecError
	if errors.As(err, &execErr) {
		msg = execErr.Message()
	}
	if msg == "" {
		msg = "unknown error"
	}
	d.logger.Error("tool command failed",
		zap.String("tool", tool),
		zap.String("command", cmd.String()),
		zap.String("dir", cmd.Dir),
		zap.Error(err),
	)
	return runner.Result{}, InternalError(msg)
}

package shadcn

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shadcn-mcp/internal/runner"
)

type spyRunner struct {
	mu     sync.Mutex
	calls  []runner.Command
	result runner.Result
	err    error
}

func (s *spyRunner) Run(_ context.Context, cmd runner.Command) (runner.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, cmd)
	return s.result, s.err
}

func (s *spyRunner) Calls() []runner.Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]runner.Command(nil), s.calls...)
}

func newTestDispatcher(r runner.Runner) *Dispatcher {
	return NewDispatcher(r, DefaultCLI(), nil)
}

func requireKind(t *testing.T, err error, kind ErrorKind) *ProtocolError {
	t.Helper()
	require.Error(t, err)
	var perr *ProtocolError
	require.True(t, errors.As(err, &perr), "expected *ProtocolError, got %T", err)
	assert.Equal(t, kind, perr.Kind)
	return perr
}

func TestDispatch_UnknownTool(t *testing.T) {
	argSets := []map[string]any{
		nil,
		{},
		{"directory": "/p"},
		{"directory": "/p", "components": []any{"button"}},
	}
	for _, args := range argSets {
		spy := &spyRunner{}
		d := newTestDispatcher(spy)

		text, err := d.Dispatch(context.Background(), Invocation{ToolName: "remove_component", Arguments: args})
		perr := requireKind(t, err, KindMethodNotFound)
		assert.Equal(t, "Unknown tool: remove_component", perr.Message)
		assert.Empty(t, text)
		assert.Empty(t, spy.Calls())
	}
}

func TestDispatch_MissingDirectory(t *testing.T) {
	for _, name := range ToolNames() {
		t.Run(name, func(t *testing.T) {
			spy := &spyRunner{}
			d := newTestDispatcher(spy)

			_, err := d.Dispatch(context.Background(), Invocation{
				ToolName:  name,
				Arguments: map[string]any{"components": []any{"button"}},
			})
			requireKind(t, err, KindInvalidParams)
			assert.Empty(t, spy.Calls())
		})
	}
}

func TestDispatch_AddComponent_BadComponents(t *testing.T) {
	cases := map[string]map[string]any{
		"absent":     {"directory": "/p"},
		"nil":        {"directory": "/p", "components": nil},
		"not array":  {"directory": "/p", "components": "button"},
		"empty":      {"directory": "/p", "components": []any{}},
		"non-string": {"directory": "/p", "components": []any{"button", 3.0}},
		"blank":      {"directory": "/p", "components": []any{"  "}},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			spy := &spyRunner{}
			d := newTestDispatcher(spy)

			_, err := d.Dispatch(context.Background(), Invocation{ToolName: ToolAdd, Arguments: args})
			requireKind(t, err, KindInvalidParams)
			assert.Empty(t, spy.Calls(), "no subprocess may be spawned")
		})
	}
}

func TestDispatch_InitShadcn(t *testing.T) {
	spy := &spyRunner{result: runner.Result{Stdout: "OK", Stderr: ""}}
	d := newTestDispatcher(spy)

	text, err := d.Dispatch(context.Background(), Invocation{
		ToolName:  ToolInit,
		Arguments: map[string]any{"directory": "/p"},
	})
	require.NoError(t, err)
	assert.Equal(t, "shadcn-ui initialized in /p\nOK\n", text)

	dirAt := strings.Index(text, "/p")
	okAt := strings.Index(text, "OK")
	require.GreaterOrEqual(t, dirAt, 0)
	assert.Less(t, dirAt, okAt)

	calls := spy.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "npx shadcn-ui@latest init -y", calls[0].String())
	assert.Equal(t, "/p", calls[0].Dir)
}

func TestDispatch_AddComponent(t *testing.T) {
	spy := &spyRunner{result: runner.Result{Stdout: "added", Stderr: "warn"}}
	d := newTestDispatcher(spy)

	text, err := d.Dispatch(context.Background(), Invocation{
		ToolName:  ToolAdd,
		Arguments: map[string]any{"directory": "/p", "components": []any{"button", "card"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Added components to /p\nadded\nwarn", text)

	calls := spy.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].String(), "button card")
	assert.Equal(t, []string{"shadcn-ui@latest", "add", "button", "card"}, calls[0].Args)
	assert.Equal(t, "/p", calls[0].Dir)
}

func TestDispatch_AddComponent_ShellMetacharactersStayArguments(t *testing.T) {
	spy := &spyRunner{}
	d := newTestDispatcher(spy)

	_, err := d.Dispatch(context.Background(), Invocation{
		ToolName:  ToolAdd,
		Arguments: map[string]any{"directory": "/p", "components": []string{"button; rm -rf /"}},
	})
	require.NoError(t, err)

	calls := spy.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "npx", calls[0].Name)
	assert.Equal(t, "button; rm -rf /", calls[0].Args[2])
}

func TestDispatch_ListComponents(t *testing.T) {
	t.Run("stdout wins", func(t *testing.T) {
		spy := &spyRunner{result: runner.Result{Stdout: "button\ncard\n", Stderr: "noise"}}
		text, err := newTestDispatcher(spy).Dispatch(context.Background(), Invocation{
			ToolName:  ToolList,
			Arguments: map[string]any{"directory": "/p"},
		})
		require.NoError(t, err)
		assert.Equal(t, "button\ncard\n", text)
		require.Len(t, spy.Calls(), 1)
		assert.Equal(t, "npx shadcn-ui@latest list", spy.Calls()[0].String())
	})

	t.Run("falls back to stderr", func(t *testing.T) {
		spy := &spyRunner{result: runner.Result{Stderr: "deprecated"}}
		text, err := newTestDispatcher(spy).Dispatch(context.Background(), Invocation{
			ToolName:  ToolList,
			Arguments: map[string]any{"directory": "/p"},
		})
		require.NoError(t, err)
		assert.Equal(t, "deprecated", text)
	})

	t.Run("empty output", func(t *testing.T) {
		spy := &spyRunner{}
		text, err := newTestDispatcher(spy).Dispatch(context.Background(), Invocation{
			ToolName:  ToolList,
			Arguments: map[string]any{"directory": "/p"},
		})
		require.NoError(t, err)
		assert.Equal(t, "", text)
	})
}

func TestDispatch_RunnerFailure(t *testing.T) {
	invocations := []Invocation{
		{ToolName: ToolInit, Arguments: map[string]any{"directory": "/p"}},
		{ToolName: ToolAdd, Arguments: map[string]any{"directory": "/p", "components": []any{"button"}}},
		{ToolName: ToolList, Arguments: map[string]any{"directory": "/p"}},
	}
	for _, inv := range invocations {
		t.Run(inv.ToolName, func(t *testing.T) {
			spy := &spyRunner{err: errors.New("boom")}
			text, err := newTestDispatcher(spy).Dispatch(context.Background(), inv)
			perr := requireKind(t, err, KindInternalError)
			assert.Equal(t, "boom", perr.Message)
			assert.Empty(t, text)
		})
	}
}

func TestDispatch_RunnerExecErrorUsesStderr(t *testing.T) {
	spy := &spyRunner{err: &runner.ExecError{Stderr: "npm ERR! not found", Err: errors.New("exit status 1")}}
	_, err := newTestDispatcher(spy).Dispatch(context.Background(), Invocation{
		ToolName:  ToolInit,
		Arguments: map[string]any{"directory": "/p"},
	})
	perr := requireKind(t, err, KindInternalError)
	assert.Equal(t, "npm ERR! not found", perr.Message)
	assert.Equal(t, -32603, perr.Code())
}

func TestDispatch_CustomCLI(t *testing.T) {
	spy := &spyRunner{}
	d := NewDispatcher(spy, CLI{Binary: "bunx", Package: "shadcn@latest"}, nil)

	_, err := d.Dispatch(context.Background(), Invocation{
		ToolName:  ToolList,
		Arguments: map[string]any{"directory": "/p"},
	})
	require.NoError(t, err)
	require.Len(t, spy.Calls(), 1)
	assert.Equal(t, "bunx shadcn@latest list", spy.Calls()[0].String())
}

// Package server binds the shadcn tools to an MCP server and serves it over
// stdio or HTTP.
package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"shadcn-mcp/internal/config"
	"shadcn-mcp/internal/shadcn"
)

const (
	shutdownTimeout = 5 * time.Second
	maxRequestBytes = 4 << 20
)

// Dispatcher executes one tool invocation.
type Dispatcher interface {
	Dispatch(ctx context.Context, inv shadcn.Invocation) (string, error)
}

// Server owns the MCP server and the HTTP router in front of it.
type Server struct {
	cfg        *config.Config
	dispatcher Dispatcher
	mcp        *mcpserver.MCPServer
	router     *chi.Mux
	logger     *zap.Logger
}

// New constructs a Server with every shadcn tool registered.
func New(cfg *config.Config, d Dispatcher, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:        cfg,
		dispatcher: d,
		mcp: mcpserver.NewMCPServer(
			cfg.Server.Name,
			cfg.Server.Version,
			mcpserver.WithToolCapabilities(false),
			mcpserver.WithRecovery(),
		),
		router: chi.NewRouter(),
		logger: logger,
	}
	s.registerTools()

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", s.handleHealth)
	s.router.Group(func(r chi.Router) {
		r.Use(s.auth)
		r.Post("/mcp", s.handleMCP)
	})

	return s
}

// registerTools advertises the tools on tools/list. HandleMessage answers
// tools/call itself and hands decoded requests to handleTool.
func (s *Server) registerTools() {
	for _, tool := range shadcn.Tools() {
		s.mcp.AddTool(tool, s.handleTool)
		s.logger.Debug("registered tool", zap.String("name", tool.Name))
	}
}

func (s *Server) handleTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]any)
	text, err := s.dispatcher.Dispatch(ctx, shadcn.Invocation{
		ToolName:  request.Params.Name,
		Arguments: args,
	})
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(text), nil
}

// Router exposes the root HTTP handler for the server.
func (s *Server) Router() http.Handler { return s.router }

// Run serves the configured transport until ctx is cancelled or the
// transport fails. The readiness line is written to diag once the transport
// is bound.
func (s *Server) Run(ctx context.Context, stdin io.Reader, stdout, diag io.Writer) error {
	switch s.cfg.Transport.Mode {
	case config.TransportHTTP:
		ln, err := net.Listen("tcp", s.cfg.Transport.Addr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", s.cfg.Transport.Addr, err)
		}
		fmt.Fprintf(diag, "shadcn MCP server running on http %s\n", ln.Addr())
		return s.ServeHTTPListener(ctx, ln)
	default:
		fmt.Fprintln(diag, "shadcn MCP server running on stdio")
		return s.ServeStdio(ctx, stdin, stdout)
	}
}

type stdioLine struct {
	data []byte
	err  error
}

// ServeStdio reads newline-delimited JSON-RPC messages from stdin and writes
// one response line per request to stdout. Requests are handled
// concurrently. It returns nil on EOF or cancellation, after in-flight
// requests have been answered.
func (s *Server) ServeStdio(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	lines := make(chan stdioLine)
	go func() {
		r := bufio.NewReader(stdin)
		for {
			data, err := r.ReadBytes('\n')
			select {
			case lines <- stdioLine{data: data, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	var (
		wg       sync.WaitGroup
		writeMu  sync.Mutex
		writeErr error
	)
	enc := json.NewEncoder(stdout)
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line := <-lines:
			if msg := bytes.TrimSpace(line.data); len(msg) > 0 {
				wg.Add(1)
				go func(msg []byte) {
					defer wg.Done()
					resp := s.HandleMessage(ctx, msg)
					if resp == nil {
						return
					}
					writeMu.Lock()
					defer writeMu.Unlock()
					if err := enc.Encode(resp); err != nil && writeErr == nil {
						writeErr = err
						s.logger.Error("write response", zap.Error(err))
					}
				}(msg)
			}
			if line.err != nil {
				if errors.Is(line.err, io.EOF) {
					return nil
				}
				return fmt.Errorf("read request: %w", line.err)
			}
		}
	}
}

// ServeHTTPListener serves the router on ln and shuts down gracefully when
// ctx ends.
func (s *Server) ServeHTTPListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleMCP answers one JSON-RPC message per POST with a JSON body.
// Notifications get 202 and no body.
func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	resp := s.HandleMessage(r.Context(), body)
	if resp == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Transport.Token == "" {
			next.ServeHTTP(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+s.cfg.Transport.Token {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

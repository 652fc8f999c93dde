package server

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"shadcn-mcp/internal/shadcn"
)

type rpcEnvelope struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

type callToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// HandleMessage answers one JSON-RPC message. tools/call goes straight to the
// dispatcher so each ProtocolError keeps its own code on the wire; every
// other method is handled by the MCP server. A nil return means no response
// is due (notifications).
func (s *Server) HandleMessage(ctx context.Context, raw json.RawMessage) any {
	var env rpcEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Method != string(mcp.MethodToolsCall) {
		return s.mcp.HandleMessage(ctx, raw)
	}
	if len(env.ID) == 0 {
		return nil
	}

	resp := rpcResponse{JSONRPC: mcp.JSONRPC_VERSION, ID: env.ID}
	result, err := s.callTool(ctx, env.Params)
	if err != nil {
		var perr *shadcn.ProtocolError
		if !errors.As(err, &perr) {
			perr = shadcn.InternalError(err.Error())
		}
		resp.Error = &rpcError{Code: perr.Code(), Message: perr.Message}
		s.logger.Debug("tools/call failed",
			zap.String("kind", perr.Kind.String()),
			zap.Int("code", perr.Code()),
			zap.String("message", perr.Message),
		)
		return resp
	}
	resp.Result = result
	return resp
}

func (s *Server) callTool(ctx context.Context, params json.RawMessage) (*mcp.CallToolResult, error) {
	var p callToolParams
	if len(params) == 0 || json.Unmarshal(params, &p) != nil {
		return nil, shadcn.InvalidParams("tools/call params must be an object with a `name`")
	}
	// Unknown names fail the same way whatever arguments came with them.
	if !shadcn.HasTool(p.Name) {
		return nil, shadcn.MethodNotFound(p.Name)
	}

	var args map[string]any
	if len(p.Arguments) > 0 && string(p.Arguments) != "null" {
		if err := json.Unmarshal(p.Arguments, &args); err != nil {
			return nil, shadcn.InvalidParams("`arguments` must be an object")
		}
	}

	return s.handleTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: p.Name, Arguments: args},
	})
}

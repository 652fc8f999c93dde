package shadcn

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// ErrorKind classifies a failed tool invocation.
type ErrorKind int

const (
	KindInvalidParams ErrorKind = iota + 1
	KindMethodNotFound
	KindInternalError
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidParams:
		return "InvalidParams"
	case KindMethodNotFound:
		return "MethodNotFound"
	case KindInternalError:
		return "InternalError"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Code returns the JSON-RPC error code for the kind.
func (k ErrorKind) Code() int {
	switch k {
	case KindInvalidParams:
		return mcp.INVALID_PARAMS
	case KindMethodNotFound:
		return mcp.METHOD_NOT_FOUND
	default:
		return mcp.INTERNAL_ERROR
	}
}

// ProtocolError terminates a single invocation.
type ProtocolError struct {
	Kind    ErrorKind
	Message string
}

func (e *ProtocolError) Error() string { return e.Message }

// Code returns the JSON-RPC error code.
func (e *ProtocolError) Code() int { return e.Kind.Code() }

func InvalidParams(format string, args ...any) *ProtocolError {
	return &ProtocolError{Kind: KindInvalidParams, Message: fmt.Sprintf(format, args...)}
}

func MethodNotFound(tool string) *ProtocolError {
	return &ProtocolError{Kind: KindMethodNotFound, Message: fmt.Sprintf("Unknown tool: %s", tool)}
}

func InternalError(msg string) *ProtocolError {
	return &ProtocolError{Kind: KindInternalError, Message: msg}
}

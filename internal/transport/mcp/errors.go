// Package mcp implements the MCP tool surface of spec.md §6 as a thin
// adapter over internal/container. Errors map the same Category taxonomy
// the REST transport uses onto JSON-RPC error codes.
package mcp

import (
	"errors"
	"fmt"

	svcerrors "github.com/doylet/docsearch/internal/errors"
)

// Standard JSON-RPC error codes, plus a small set of domain-specific codes
// above -32000 for conditions the taxonomy in spec.md §7 distinguishes.
const (
	ErrCodeNotFound        = -32001
	ErrCodeExternalService = -32002
	ErrCodePermission      = -32003

	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternalError  = -32603
)

// ToolError represents an MCP protocol error with code and message,
// matching the JSON-RPC error object shape.
type ToolError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("mcp error %d: %s", e.Code, e.Message)
}

// MapError converts a service error into its MCP equivalent, using the
// same Category taxonomy the REST transport's respond.go maps to HTTP
// status codes (spec.md §7).
func MapError(err error) *ToolError {
	if err == nil {
		return nil
	}

	var svcErr *svcerrors.ServiceError
	if errors.As(err, &svcErr) {
		switch svcErr.Category {
		case svcerrors.CategoryValidation, svcerrors.CategoryConfiguration:
			return &ToolError{Code: ErrCodeInvalidParams, Message: svcErr.Error()}
		case svcerrors.CategoryNotFound:
			return &ToolError{Code: ErrCodeNotFound, Message: svcErr.Error()}
		case svcerrors.CategoryPermissionDenied:
			return &ToolError{Code: ErrCodePermission, Message: svcErr.Error()}
		case svcerrors.CategoryExternalService, svcerrors.CategoryNetwork:
			return &ToolError{Code: ErrCodeExternalService, Message: svcErr.Error()}
		default:
			return &ToolError{Code: ErrCodeInternalError, Message: svcErr.Error()}
		}
	}

	return &ToolError{Code: ErrCodeInternalError, Message: err.Error()}
}

// NewInvalidParamsError builds a tool error for a malformed tool call.
func NewInvalidParamsError(msg string) *ToolError {
	return &ToolError{Code: ErrCodeInvalidParams, Message: msg}
}

// NewMethodNotFoundError builds a tool error for an unregistered tool name.
func NewMethodNotFoundError(name string) *ToolError {
	return &ToolError{Code: ErrCodeMethodNotFound, Message: fmt.Sprintf("tool %q not found", name)}
}

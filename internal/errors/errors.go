// Package errors provides domain-specific error types and sentinel errors
// for improved error handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrInvalidInput indicates the caller provided invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrToolInvocation indicates a call to the subsidy tool server failed.
	// All tool-side failures (unreachable server, non-2xx status, malformed
	// envelope, tool-reported error) collapse into this classification.
	ErrToolInvocation = errors.New("tool invocation failed")

	// ErrCompletion indicates a call to the completion API failed.
	ErrCompletion = errors.New("completion failed")
)

// ToolError represents a tool server invocation failure with context.
// It always matches ErrToolInvocation via errors.Is.
type ToolError struct {
	Tool       string
	StatusCode int
	Err        error
}

func (e *ToolError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("tool %s failed with status %d: %v", e.Tool, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("tool %s failed: %v", e.Tool, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ToolError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error's classification.
func (e *ToolError) Is(target error) bool {
	return target == ErrToolInvocation
}

// NewToolError creates a ToolError for the given tool.
func NewToolError(tool string, statusCode int, err error) *ToolError {
	return &ToolError{Tool: tool, StatusCode: statusCode, Err: err}
}

// CompletionError represents a completion API failure with the operation
// that triggered it ("classify" or "rewrite").
// It always matches ErrCompletion via errors.Is.
type CompletionError struct {
	Operation string
	Err       error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("completion %s failed: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *CompletionError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error's classification.
func (e *CompletionError) Is(target error) bool {
	return target == ErrCompletion
}

// NewCompletionError creates a CompletionError for the given operation.
func NewCompletionError(operation string, err error) *CompletionError {
	return &CompletionError{Operation: operation, Err: err}
}

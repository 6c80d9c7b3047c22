// SPDX-License-Identifier: Apache-2.0
// Package errors provides typed error handling with rich context for role agents.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies agent errors for monitoring and for the HTTP boundary.
type ErrorCode string

const (
	// CodeInternal indicates an internal system error.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeInvalidInput indicates the task request was invalid.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeConfig indicates missing or invalid configuration. Fatal at startup.
	CodeConfig ErrorCode = "CONFIG_ERROR"

	// CodeNotFound indicates a resource (usually a role) was not found.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeLLMError indicates the generation backend failed.
	CodeLLMError ErrorCode = "LLM_ERROR"
)

// AgentError is a typed error with rich context for observability.
// It implements the error interface and can be unwrapped with errors.As().
type AgentError struct {
	Code        ErrorCode
	Message     string
	Err         error
	Context     map[string]interface{}
	Attributes  map[string]string
	Recoverable bool
	StatusCode  int
}

// Error implements the error interface.
func (e *AgentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements errors.Unwrap for error chain traversal.
func (e *AgentError) Unwrap() error {
	return e.Err
}

// Detail returns the human readable failure description sent to callers.
// It prefers the underlying cause, since that is what the backend reported.
func (e *AgentError) Detail() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// MarshalJSON implements json.Marshaler for structured logging.
func (e *AgentError) MarshalJSON() ([]byte, error) {
	var cause string
	if e.Err != nil {
		cause = e.Err.Error()
	}
	return json.Marshal(&struct {
		Message     string                 `json:"message"`
		Code        string                 `json:"code"`
		Err         string                 `json:"error,omitempty"`
		Recoverable bool                   `json:"recoverable"`
		Context     map[string]interface{} `json:"context,omitempty"`
		Attributes  map[string]string      `json:"attributes,omitempty"`
		StatusCode  int                    `json:"status_code"`
	}{
		Message:     e.Error(),
		Code:        string(e.Code),
		Err:         cause,
		Recoverable: e.Recoverable,
		Context:     e.Context,
		Attributes:  e.Attributes,
		StatusCode:  e.StatusCode,
	})
}

// New creates a new AgentError with the given code, message, and cause.
func New(code ErrorCode, msg string, cause error) *AgentError {
	return &AgentError{
		Code:       code,
		Message:    msg,
		Err:        cause,
		Context:    make(map[string]interface{}),
		Attributes: make(map[string]string),
		StatusCode: codeToStatusCode(code),
	}
}

// WithContext adds a key-value pair to the error context.
// Returns the error for method chaining.
func (e *AgentError) WithContext(key string, value interface{}) *AgentError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithAttribute adds a string attribute for OTEL traces.
// Returns the error for method chaining.
func (e *AgentError) WithAttribute(key, value string) *AgentError {
	if e.Attributes == nil {
		e.Attributes = make(map[string]string)
	}
	e.Attributes[key] = value
	return e
}

// WithRecoverable sets whether the error can be recovered from.
// Returns the error for method chaining.
func (e *AgentError) WithRecoverable(recoverable bool) *AgentError {
	e.Recoverable = recoverable
	return e
}

// AsAgentError attempts to convert an error to an AgentError.
// Wrapped chains are searched; anything else becomes CodeInternal.
func AsAgentError(err error) *AgentError {
	if err == nil {
		return nil
	}
	var ae *AgentError
	if stderrors.As(err, &ae) {
		return ae
	}
	return New(CodeInternal, "wrapped error", err)
}

// IsCode reports whether err is an AgentError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var ae *AgentError
	if stderrors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// RecoverableString returns "true" or "false" as a string for observability.
func (e *AgentError) RecoverableString() string {
	if e.Recoverable {
		return "true"
	}
	return "false"
}

// codeToStatusCode maps error codes to HTTP status codes.
func codeToStatusCode(code ErrorCode) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidInput:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

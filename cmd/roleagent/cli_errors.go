// Copyright 2026 © The Orquestrador Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/orquestrador/roleagents/pkg/errors"
)

// CLIError wraps an AgentError with a hint for the operator.
type CLIError struct {
	*errors.AgentError
	Hint string
}

// NewCLIError creates a new CLI error.
func NewCLIError(ae *errors.AgentError, hint string) *CLIError {
	return &CLIError{AgentError: ae, Hint: hint}
}

// Error returns the formatted error message with hints.
func (e *CLIError) Error() string {
	if e.AgentError == nil {
		return "unknown error"
	}
	msg := e.AgentError.Error()
	if e.Hint != "" {
		msg += "\n  Hint: " + e.Hint
	}
	return msg
}

// PrintError writes the error to w, as JSON when asJSON is set.
func (e *CLIError) PrintError(w io.Writer, asJSON bool) {
	if asJSON {
		payload := map[string]map[string]string{"error": {
			"code":    string(e.Code),
			"message": e.Detail(),
			"hint":    e.Hint,
		}}
		_ = json.NewEncoder(w).Encode(payload)
		return
	}

	fmt.Fprintf(w, "Error [%s]: %s\n", e.Code, e.Message)
	if e.Err != nil {
		fmt.Fprintf(w, "  Cause: %v\n", e.Err)
	}
	if e.Hint != "" {
		fmt.Fprintf(w, "  Hint: %s\n", e.Hint)
	}
}

// toCLIError classifies err and attaches a hint where one helps.
func toCLIError(err error) *CLIError {
	var ae *errors.AgentError
	if !stderrors.As(err, &ae) {
		// Flag and usage errors from cobra.
		return NewCLIError(errors.New(errors.CodeInvalidInput, err.Error(), nil), "run with --help for usage")
	}
	switch ae.Code {
	case errors.CodeConfig:
		hint := "check the config file, ROLEAGENT_* variables and --set overrides"
		switch {
		case strings.Contains(ae.Message, "API key"):
			hint = "export the credential variable, or run with --set llm.provider=mock to try the service offline"
		case strings.Contains(ae.Message, "agent.role"):
			hint = "pick a role with --role; `roleagent roles` lists them"
		}
		return NewCLIError(ae, hint)
	case errors.CodeNotFound:
		return NewCLIError(ae, "`roleagent roles` lists the available roles")
	case errors.CodeInvalidInput:
		return NewCLIError(ae, "task requests need task_id, title, description, project_name, project_description and priority")
	default:
		return NewCLIError(ae, "")
	}
}

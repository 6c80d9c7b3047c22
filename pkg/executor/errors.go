// Copyright 2026 © The Orquestrador Authors
// SPDX-License-Identifier: Apache-2.0

package executor

import (
	"github.com/orquestrador/roleagents/pkg/errors"
)

// ExecutionFailedMessage is the message of every execution failure. The
// backend's own description travels as the error cause.
const ExecutionFailedMessage = "task execution failed"

// WrapExecutionError wraps a backend or compilation failure with role and
// task context.
func WrapExecutionError(err error, role, taskID, model string) *errors.AgentError {
	if err == nil {
		return nil
	}
	ae := errors.New(errors.CodeLLMError, ExecutionFailedMessage, err).
		WithContext("role", role).
		WithAttribute("roleagent.role", role).
		WithRecoverable(true)
	if taskID != "" {
		ae = ae.WithContext("task_id", taskID)
	}
	if model != "" {
		ae = ae.WithContext("model", model).WithAttribute("llm.model", model)
	}
	return ae
}

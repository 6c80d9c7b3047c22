// Copyright 2026 © The Orquestrador Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"github.com/orquestrador/roleagents/pkg/errors"
)

// NewConfigError creates a configuration error. These are fatal at startup.
func NewConfigError(msg, role string) *errors.AgentError {
	ae := errors.New(errors.CodeConfig, msg, nil).
		WithRecoverable(false)
	if role != "" {
		ae = ae.WithContext("role", role).WithAttribute("roleagent.role", role)
	}
	return ae
}

// NewInvalidInputError creates a new invalid input error.
func NewInvalidInputError(msg string) *errors.AgentError {
	return errors.New(errors.CodeInvalidInput, msg, nil).
		WithRecoverable(false)
}

// Copyright 2026 © The Orquestrador Authors
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"strings"

	"github.com/google/uuid"

	"github.com/orquestrador/roleagents/pkg/errors"
)

// Priority is the closed set of task priorities accepted by every role.
type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

var priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// ParsePriority matches value against the known priorities ignoring case
// and returns the canonical spelling.
func ParsePriority(value string) (Priority, bool) {
	value = strings.TrimSpace(value)
	for _, p := range priorities {
		if strings.EqualFold(value, string(p)) {
			return p, true
		}
	}
	return "", false
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	_, ok := ParsePriority(string(p))
	return ok
}

// TaskRequest describes one unit of work submitted to a role.
// Context and ExpectedOutput are optional; an empty string means absent.
type TaskRequest struct {
	TaskID             string   `json:"task_id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Context            string   `json:"context,omitempty"`
	ExpectedOutput     string   `json:"expected_output,omitempty"`
	ProjectName        string   `json:"project_name"`
	ProjectDescription string   `json:"project_description"`
	Priority           Priority `json:"priority"`
}

// Validate checks the required fields and normalizes the priority.
// All problems are reported together in a single CodeInvalidInput error.
func (r *TaskRequest) Validate() error {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"title", r.Title},
		{"description", r.Description},
		{"project_name", r.ProjectName},
		{"project_description", r.ProjectDescription},
		{"priority", string(r.Priority)},
	}
	for _, f := range required {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}

	var problems []string
	if len(missing) > 0 {
		problems = append(problems, "missing required fields: "+strings.Join(missing, ", "))
	}
	if r.Priority != "" {
		if p, ok := ParsePriority(string(r.Priority)); ok {
			r.Priority = p
		} else {
			problems = append(problems, "priority must be one of Low, Medium, High, Critical")
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return errors.New(errors.CodeInvalidInput, strings.Join(problems, "; "), nil).
		WithContext("task_id", r.TaskID)
}

// RunID returns the task id, or a generated one when the caller left it empty.
// It is only used to correlate logs and spans.
func (r TaskRequest) RunID() string {
	if r.TaskID != "" {
		return r.TaskID
	}
	return uuid.NewString()
}

// TaskResponse is the envelope returned after executing one task.
// Error is serialized as null when absent.
type TaskResponse struct {
	Output     string  `json:"output"`
	TokensUsed int     `json:"tokens_used"`
	Success    bool    `json:"success"`
	Error      *string `json:"error"`
}

// NewTaskResponse builds a successful response envelope.
func NewTaskResponse(output string, tokensUsed int) *TaskResponse {
	if tokensUsed < 0 {
		tokensUsed = 0
	}
	return &TaskResponse{
		Output:     output,
		TokensUsed: tokensUsed,
		Success:    true,
	}
}

// Copyright 2026 © The Orquestrador Authors
// SPDX-License-Identifier: Apache-2.0

// Package prompt turns a task request into the role-conditioned prompt sent
// to the generation backend.
//
// Compilation is pure string construction: the same request, role name and
// directive always produce byte-identical output.
package prompt

import (
	"fmt"
	"strings"

	"github.com/orquestrador/roleagents/pkg/core"
)

// LanguageDirective is appended to every prompt regardless of the language
// used in the request.
const LanguageDirective = "IMPORTANT: Your response must be in Portuguese (pt-BR)."

// Section markers. Tests and callers rely on these to detect optional lines.
const (
	ContextMarker        = "Additional Context:"
	ExpectedOutputMarker = "Expected Output:"
)

// Compile renders the prompt for req as seen by roleName.
// Blocks are separated by exactly one blank line; the optional
// context/expected-output block is dropped when both fields are empty.
func Compile(req core.TaskRequest, roleName string, directive core.RoleDirective) string {
	blocks := make([]string, 0, 7)

	blocks = append(blocks,
		"Project: "+req.ProjectName+"\n"+
			"Project Description: "+req.ProjectDescription,
		"Task: "+req.Title+"\n"+
			"Description: "+req.Description,
	)

	var optional []string
	if req.Context != "" {
		optional = append(optional, ContextMarker+" "+req.Context)
	}
	if req.ExpectedOutput != "" {
		optional = append(optional, ExpectedOutputMarker+" "+req.ExpectedOutput)
	}
	if len(optional) > 0 {
		blocks = append(blocks, strings.Join(optional, "\n"))
	}

	blocks = append(blocks, "Priority: "+string(req.Priority))

	if text := directive.Text(); text != "" {
		blocks = append(blocks, text)
	}

	blocks = append(blocks,
		closingInstruction(roleName),
		LanguageDirective,
	)

	return strings.Join(blocks, "\n\n") + "\n"
}

func closingInstruction(roleName string) string {
	return fmt.Sprintf("Please provide a detailed response as a %s would, considering the project context and task requirements.", roleName)
}

// Compiler binds a role name and directive so callers only supply requests.
type Compiler struct {
	roleName  string
	directive core.RoleDirective
}

// NewCompiler returns a Compiler for the given role.
func NewCompiler(roleName string, directive core.RoleDirective) *Compiler {
	return &Compiler{roleName: roleName, directive: directive}
}

// Compile renders the prompt for req.
func (c *Compiler) Compile(req core.TaskRequest) string {
	return Compile(req, c.roleName, c.directive)
}

// WordCount counts whitespace-delimited words. It backs the approximate
// token usage reported in responses and is not a tokenizer.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

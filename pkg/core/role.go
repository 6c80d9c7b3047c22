// Copyright 2026 © The Orquestrador Authors
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"
	"strings"
)

// RoleProfile is the static identity of a role: the display name used in
// prompts and responses, and the system instruction handed to the backend.
type RoleProfile struct {
	Name              string `yaml:"name" json:"name"`
	SystemInstruction string `yaml:"system_instruction" json:"system_instruction"`
}

// RoleDirective holds the artifact-shape instructions appended to every
// prompt for a role.
type RoleDirective string

// Text returns the directive with surrounding whitespace removed.
func (d RoleDirective) Text() string {
	return strings.TrimSpace(string(d))
}

// RoleManifest captures everything needed to stand up one role service.
type RoleManifest struct {
	Slug      string        `yaml:"slug" json:"slug"`
	Profile   RoleProfile   `yaml:"profile" json:"profile"`
	Directive RoleDirective `yaml:"directive" json:"directive"`
	Port      int           `yaml:"port" json:"port"`
}

// DefaultAddr is the listen address used when none is configured.
func (m RoleManifest) DefaultAddr() string {
	if m.Port <= 0 {
		return ":8080"
	}
	return fmt.Sprintf(":%d", m.Port)
}

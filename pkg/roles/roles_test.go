// Copyright 2026 © The Orquestrador Authors
// SPDX-License-Identifier: Apache-2.0

package roles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/orquestrador/roleagents/pkg/errors"
)

func TestBuiltinCatalog(t *testing.T) {
	want := []struct {
		slug string
		name string
		port int
	}{
		{"product_owner", "Product Owner", 8001},
		{"project_manager", "Project Manager", 8002},
		{"designer", "Designer", 8003},
		{"tech_lead", "Tech Lead", 8004},
		{"developer", "Developer", 8005},
		{"qa", "QA Engineer", 8006},
		{"devops", "DevOps Engineer", 8007},
	}

	all := All()
	if len(all) != len(want) {
		t.Fatalf("expected %d roles, got %d", len(want), len(all))
	}
	for i, w := range want {
		m := all[i]
		if m.Slug != w.slug || m.Profile.Name != w.name || m.Port != w.port {
			t.Errorf("role %d: got %s/%s/%d, want %s/%s/%d", i, m.Slug, m.Profile.Name, m.Port, w.slug, w.name, w.port)
		}
		if !strings.HasPrefix(m.Profile.SystemInstruction, "You are an experienced ") {
			t.Errorf("%s: unexpected system instruction %q", m.Slug, m.Profile.SystemInstruction)
		}
		if strings.HasSuffix(m.Profile.SystemInstruction, "\n") {
			t.Errorf("%s: system instruction has trailing newline", m.Slug)
		}
		if !strings.HasPrefix(m.Directive.Text(), "As a "+w.name) {
			t.Errorf("%s: directive does not address the role: %q", m.Slug, m.Directive.Text())
		}
	}
}

func TestBuiltinDirectivesDemandArtifacts(t *testing.T) {
	tests := map[string]string{
		"designer":  "```svg",
		"developer": "WRITE THE CODE",
		"qa":        "cypress/e2e/",
		"devops":    "docker-compose.yml",
	}
	for slug, marker := range tests {
		m, err := Lookup(slug)
		if err != nil {
			t.Fatalf("lookup %s: %v", slug, err)
		}
		if !strings.Contains(m.Directive.Text(), marker) {
			t.Errorf("%s directive missing %q", slug, marker)
		}
	}
}

func TestLookupNormalizesSlug(t *testing.T) {
	for _, in := range []string{"tech_lead", "Tech-Lead", " tech lead "} {
		m, err := Lookup(in)
		if err != nil {
			t.Fatalf("Lookup(%q) failed: %v", in, err)
		}
		if m.Slug != "tech_lead" {
			t.Errorf("Lookup(%q) returned %s", in, m.Slug)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("ceo")
	if !errors.IsCode(err, errors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestDefaultAddr(t *testing.T) {
	m, _ := Lookup("developer")
	if got := m.DefaultAddr(); got != ":8005" {
		t.Fatalf("expected :8005, got %s", got)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "roles: [\n"},
		{"missing slug", "roles:\n  - profile: {name: X, system_instruction: Y}\n"},
		{"missing name", "roles:\n  - slug: x\n    profile: {system_instruction: Y}\n"},
		{"missing instruction", "roles:\n  - slug: x\n    profile: {name: X}\n"},
		{"bad port", "roles:\n  - slug: x\n    port: 70000\n    profile: {name: X, system_instruction: Y}\n"},
		{"duplicate", "roles:\n  - slug: x\n    profile: {name: X, system_instruction: Y}\n  - slug: X\n    profile: {name: X, system_instruction: Y}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if !errors.IsCode(err, errors.CodeConfig) {
				t.Fatalf("expected CONFIG_ERROR, got %v", err)
			}
		})
	}
}

func TestLoadFileAndMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roles.yaml")
	content := `roles:
  - slug: developer
    port: 9005
    profile:
      name: Go Developer
      system_instruction: You write Go.
    directive: |
      As a Go Developer, write idiomatic Go.
  - slug: security
    port: 8008
    profile:
      name: Security Engineer
      system_instruction: You review threats.
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	overlay, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	merged := Merge(Default(), overlay)

	if merged.Len() != 8 {
		t.Fatalf("expected 8 roles, got %d", merged.Len())
	}
	dev, err := merged.Lookup("developer")
	if err != nil {
		t.Fatalf("lookup developer: %v", err)
	}
	if dev.Profile.Name != "Go Developer" || dev.Port != 9005 {
		t.Errorf("overlay not applied: %+v", dev)
	}
	slugs := merged.Slugs()
	if slugs[4] != "developer" || slugs[7] != "security" {
		t.Errorf("unexpected order: %v", slugs)
	}

	// The built-in catalog is untouched.
	if orig, _ := Lookup("developer"); orig.Profile.Name != "Developer" {
		t.Errorf("built-in catalog mutated: %+v", orig)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.IsCode(err, errors.CodeConfig) {
		t.Fatalf("expected CONFIG_ERROR, got %v", err)
	}
}

func TestSortedSlugs(t *testing.T) {
	got := Default().SortedSlugs()
	if got[0] != "designer" || got[len(got)-1] != "tech_lead" {
		t.Fatalf("unexpected sorted slugs: %v", got)
	}
}

// Copyright 2026 © The Orquestrador Authors
// SPDX-License-Identifier: Apache-2.0

// Package roles holds the catalog of role manifests an agent can be started as.
//
// The seven built-in roles are embedded from catalog.yaml. Operators can
// layer their own YAML file on top with LoadFile and Merge to override a
// role's texts or add new roles without rebuilding the binary.
package roles

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/orquestrador/roleagents/pkg/core"
	"github.com/orquestrador/roleagents/pkg/errors"
)

//go:embed catalog.yaml
var builtinCatalog []byte

// Catalog is an ordered, slug-keyed set of role manifests.
type Catalog struct {
	order     []string
	manifests map[string]core.RoleManifest
}

type catalogFile struct {
	Roles []core.RoleManifest `yaml:"roles"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(builtinCatalog)
		if err != nil {
			panic(fmt.Sprintf("roles: invalid built-in catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Lookup finds a built-in role by slug.
func Lookup(slug string) (core.RoleManifest, error) {
	return Default().Lookup(slug)
}

// Slugs lists the built-in role slugs in catalog order.
func Slugs() []string {
	return Default().Slugs()
}

// All returns the built-in manifests in catalog order.
func All() []core.RoleManifest {
	return Default().All()
}

// NormalizeSlug lowercases a slug and accepts dashes or spaces as separators.
func NormalizeSlug(slug string) string {
	s := strings.ToLower(strings.TrimSpace(slug))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}

// Parse decodes a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.New(errors.CodeConfig, "parse role catalog", err)
	}
	c := &Catalog{manifests: make(map[string]core.RoleManifest, len(file.Roles))}
	for i, m := range file.Roles {
		m.Slug = NormalizeSlug(m.Slug)
		if err := validateManifest(m); err != nil {
			return nil, err.WithContext("index", i)
		}
		if _, dup := c.manifests[m.Slug]; dup {
			return nil, errors.New(errors.CodeConfig, fmt.Sprintf("duplicate role %q", m.Slug), nil)
		}
		c.add(m)
	}
	return c, nil
}

// LoadFile reads a YAML catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeConfig, "read role catalog", err).
			WithContext("path", path)
	}
	return Parse(raw)
}

// Merge layers overlay on top of base. Roles present in both take the
// overlay's manifest in the base position; new roles are appended.
func Merge(base, overlay *Catalog) *Catalog {
	out := &Catalog{manifests: map[string]core.RoleManifest{}}
	if base != nil {
		for _, slug := range base.order {
			out.add(base.manifests[slug])
		}
	}
	if overlay != nil {
		for _, slug := range overlay.order {
			m := overlay.manifests[slug]
			if _, ok := out.manifests[slug]; ok {
				out.manifests[slug] = m
				continue
			}
			out.add(m)
		}
	}
	return out
}

// Lookup finds a role by slug.
func (c *Catalog) Lookup(slug string) (core.RoleManifest, error) {
	key := NormalizeSlug(slug)
	if c != nil {
		if m, ok := c.manifests[key]; ok {
			return m, nil
		}
	}
	return core.RoleManifest{}, errors.New(errors.CodeNotFound, fmt.Sprintf("unknown role %q", slug), nil).
		WithContext("known_roles", strings.Join(c.Slugs(), ","))
}

// Slugs lists role slugs in catalog order.
func (c *Catalog) Slugs() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.order...)
}

// SortedSlugs lists role slugs alphabetically.
func (c *Catalog) SortedSlugs() []string {
	slugs := c.Slugs()
	sort.Strings(slugs)
	return slugs
}

// All returns the manifests in catalog order.
func (c *Catalog) All() []core.RoleManifest {
	if c == nil {
		return nil
	}
	out := make([]core.RoleManifest, 0, len(c.order))
	for _, slug := range c.order {
		out = append(out, c.manifests[slug])
	}
	return out
}

// Len reports the number of roles.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

func (c *Catalog) add(m core.RoleManifest) {
	c.order = append(c.order, m.Slug)
	c.manifests[m.Slug] = m
}

func validateManifest(m core.RoleManifest) *errors.AgentError {
	switch {
	case m.Slug == "":
		return errors.New(errors.CodeConfig, "role slug is required", nil)
	case strings.TrimSpace(m.Profile.Name) == "":
		return errors.New(errors.CodeConfig, "role name is required", nil).WithContext("role", m.Slug)
	case strings.TrimSpace(m.Profile.SystemInstruction) == "":
		return errors.New(errors.CodeConfig, "role system instruction is required", nil).WithContext("role", m.Slug)
	case m.Port < 0 || m.Port > 65535:
		return errors.New(errors.CodeConfig, fmt.Sprintf("invalid port %d", m.Port), nil).WithContext("role", m.Slug)
	}
	return nil
}

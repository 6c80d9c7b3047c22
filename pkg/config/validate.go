// Copyright 2026 © The Orquestrador Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/orquestrador/roleagents/pkg/errors"
)

// Supported generation backends.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderMock      = "mock"
)

// credentialEnv lists the conventional variables consulted when llm.api_key
// is not set, in order of preference.
var credentialEnv = map[string][]string{
	ProviderGemini:    {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	ProviderOpenAI:    {"OPENAI_API_KEY"},
	ProviderAnthropic: {"ANTHROPIC_API_KEY"},
}

// NormalizedProvider returns the provider name lowercased and trimmed.
func (c LLMConfig) NormalizedProvider() string {
	return strings.ToLower(strings.TrimSpace(c.Provider))
}

// RequiresAPIKey reports whether the provider cannot start without a credential.
func (c LLMConfig) RequiresAPIKey() bool {
	_, ok := credentialEnv[c.NormalizedProvider()]
	return ok
}

// ResolveAPIKey returns llm.api_key, falling back to the provider's
// conventional environment variables.
func (c LLMConfig) ResolveAPIKey() string {
	if key := strings.TrimSpace(c.APIKey); key != "" {
		return key
	}
	for _, name := range credentialEnv[c.NormalizedProvider()] {
		if key := strings.TrimSpace(os.Getenv(name)); key != "" {
			return key
		}
	}
	return ""
}

// CredentialHint names where the credential for the provider is read from.
func (c LLMConfig) CredentialHint() string {
	names := append([]string{EnvPrefix + "LLM_API_KEY"}, credentialEnv[c.NormalizedProvider()]...)
	return strings.Join(names, " or ")
}

// Validate reports every configuration problem in a single CONFIG_ERROR.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Agent.Role) == "" {
		problems = append(problems, "agent.role is required")
	}

	switch c.LLM.NormalizedProvider() {
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic:
		if c.LLM.ResolveAPIKey() == "" {
			problems = append(problems, fmt.Sprintf("missing API key for %s: set %s", c.LLM.NormalizedProvider(), c.LLM.CredentialHint()))
		}
	case ProviderOllama, ProviderMock:
	default:
		problems = append(problems, fmt.Sprintf("unknown llm.provider %q", c.LLM.Provider))
	}

	switch strings.ToLower(c.Log.Output) {
	case "", "stdout", "stderr":
	case "file":
		if strings.TrimSpace(c.Log.File.Path) == "" {
			problems = append(problems, "log.file.path is required when log.output is file")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown log.output %q", c.Log.Output))
	}

	if c.Telemetry.Enabled {
		switch strings.ToLower(c.Telemetry.Exporter) {
		case "", "stdout":
		case "otlp":
			if strings.TrimSpace(c.Telemetry.Endpoint) == "" {
				problems = append(problems, "telemetry.endpoint is required for the otlp exporter")
			}
		default:
			problems = append(problems, fmt.Sprintf("unknown telemetry.exporter %q", c.Telemetry.Exporter))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New(errors.CodeConfig, strings.Join(problems, "; "), nil).
		WithRecoverable(false)
}

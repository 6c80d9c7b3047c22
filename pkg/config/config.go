// Copyright 2026 © The Orquestrador Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads role agent settings.
//
// Sources are layered, later ones winning: built-in defaults, the YAML
// config file, an optional profile file next to it (config.<profile>.yaml),
// ROLEAGENT_* environment variables and finally --set style overrides.
// A .env file, when present, is read into the environment first.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/orquestrador/roleagents/pkg/errors"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "ROLEAGENT_"

type Config struct {
	Log       LogConfig       `koanf:"log"`
	Server    ServerConfig    `koanf:"server"`
	Agent     AgentConfig     `koanf:"agent"`
	LLM       LLMConfig       `koanf:"llm"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

type LogConfig struct {
	Level  string        `koanf:"level"`
	Format string        `koanf:"format"` // json, text
	Output string        `koanf:"output"` // stdout, stderr, file
	File   LogFileConfig `koanf:"file"`
}

type LogFileConfig struct {
	Path       string `koanf:"path"`
	MaxSize    int    `koanf:"max_size"` // megabytes
	MaxBackups int    `koanf:"max_backups"`
	MaxAge     int    `koanf:"max_age"` // days
	Compress   bool   `koanf:"compress"`
}

type ServerConfig struct {
	// Addr overrides the role's default listen address.
	Addr                   string `koanf:"addr"`
	ShutdownTimeoutSeconds int    `koanf:"shutdown_timeout_seconds"`
}

type AgentConfig struct {
	Role      string `koanf:"role"`
	RolesFile string `koanf:"roles_file"`
}

type LLMConfig struct {
	Provider string `koanf:"provider"` // gemini, openai, anthropic, ollama, mock
	Model    string `koanf:"model"`
	BaseURL  string `koanf:"base_url"`
	APIKey   string `koanf:"api_key"`
}

type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"` // stdout, otlp
	Endpoint    string `koanf:"endpoint"`
	Insecure    bool   `koanf:"insecure"`
	ServiceName string `koanf:"service_name"`
}

// Options controls Load.
type Options struct {
	Path      string
	Profile   string
	Overrides map[string]any
	// EnvFiles are dotenv files read before the environment is parsed.
	// Missing files are skipped. Nil means ".env".
	EnvFiles []string
}

var defaults = map[string]any{
	"log.level":                       "info",
	"log.format":                      "text",
	"log.output":                      "stdout",
	"log.file.path":                   "logs/roleagent.log",
	"log.file.max_size":               100,
	"log.file.max_backups":            3,
	"log.file.max_age":                28,
	"log.file.compress":               false,
	"server.addr":                     "",
	"server.shutdown_timeout_seconds": 10,
	"agent.role":                      "",
	"agent.roles_file":                "",
	"llm.provider":                    "gemini",
	"llm.model":                       "",
	"llm.base_url":                    "",
	"llm.api_key":                     "",
	"telemetry.enabled":               false,
	"telemetry.exporter":              "stdout",
	"telemetry.endpoint":              "",
	"telemetry.insecure":              false,
	"telemetry.service_name":          "roleagent",
}

// Load reads defaults, the file at path (if any) and the environment.
func Load(path string) (*Config, error) {
	return LoadWithOptions(Options{Path: path})
}

// LoadWithOptions loads configuration from every source in opts.
func LoadWithOptions(opts Options) (*Config, error) {
	if err := LoadDotEnv(opts.EnvFiles...); err != nil {
		return nil, errors.New(errors.CodeConfig, "load env file", err)
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, errors.New(errors.CodeConfig, "load defaults", err)
	}

	if opts.Path != "" {
		if err := k.Load(file.Provider(opts.Path), yaml.Parser()); err != nil {
			return nil, errors.New(errors.CodeConfig, "load config file", err).
				WithContext("path", opts.Path)
		}
	}

	if profilePath := profileConfigPath(opts.Path, resolveProfile(opts)); profilePath != "" {
		if err := k.Load(file.Provider(profilePath), yaml.Parser()); err != nil {
			return nil, errors.New(errors.CodeConfig, "load profile config", err).
				WithContext("path", profilePath)
		}
	}

	// ROLEAGENT_LLM_API_KEY -> llm.api_key
	known := knownKeys()
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return envToKey(known, s)
	}), nil); err != nil {
		return nil, errors.New(errors.CodeConfig, "load environment", err)
	}

	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.New(errors.CodeConfig, "apply overrides", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.New(errors.CodeConfig, "decode config", err)
	}
	return &cfg, nil
}

// LoadDotEnv loads dotenv files into the process environment without
// overriding variables that are already set.
func LoadDotEnv(files ...string) error {
	if files == nil {
		files = []string{".env"}
	}
	present := make([]string, 0, len(files))
	for _, f := range files {
		if info, err := os.Stat(f); err == nil && !info.IsDir() {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	return godotenv.Load(present...)
}

// ParseOverrides turns "key=value" pairs into an override map.
func ParseOverrides(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.New(errors.CodeConfig, fmt.Sprintf("invalid override %q, want key=value", pair), nil)
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}

func resolveProfile(opts Options) string {
	if opts.Profile != "" {
		return opts.Profile
	}
	return os.Getenv(EnvPrefix + "PROFILE")
}

func profileConfigPath(base, profile string) string {
	if base == "" || profile == "" {
		return ""
	}
	ext := filepath.Ext(base)
	candidate := strings.TrimSuffix(base, ext) + "." + profile + ext
	if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
		return candidate
	}
	return ""
}

func knownKeys() map[string]string {
	out := make(map[string]string, len(defaults))
	for key := range defaults {
		out[strings.ReplaceAll(key, ".", "_")] = key
	}
	return out
}

// envToKey maps an environment variable to its config key. Known keys are
// matched exactly so underscores inside key names survive; anything else
// falls back to treating every underscore as a separator.
func envToKey(known map[string]string, name string) string {
	s := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	if key, ok := known[s]; ok {
		return key
	}
	return strings.ReplaceAll(s, "_", ".")
}

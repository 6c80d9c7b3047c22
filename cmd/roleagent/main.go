// Copyright 2026 © The Orquestrador Authors
// SPDX-License-Identifier: Apache-2.0

// Command roleagent runs one role of the multi-role agent team as an
// HTTP service.
//
//	roleagent serve --role developer
//	roleagent roles
//	roleagent compile --role qa --file task.json
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type globalFlags struct {
	ConfigPath string
	Profile    string
	EnvFiles   []string
	JSON       bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	global := &globalFlags{}
	root := newRootCmd(global)
	if err := root.ExecuteContext(ctx); err != nil {
		toCLIError(err).PrintError(os.Stderr, global.JSON)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(global *globalFlags) *cobra.Command {
	root := &cobra.Command{
		Use:           "roleagent",
		Short:         "Role agent service",
		Long:          "roleagent serves one team role (product owner, developer, QA...) over HTTP,\nturning task requests into role-specific artifacts with a generation backend.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&global.ConfigPath, "config", "c", "", "config file path (YAML)")
	root.PersistentFlags().StringVar(&global.Profile, "profile", "", "config profile, loads config.<profile>.yaml next to --config")
	root.PersistentFlags().StringSliceVar(&global.EnvFiles, "env-file", nil, "dotenv files to load (default .env)")
	root.PersistentFlags().BoolVar(&global.JSON, "json", false, "machine readable output")

	root.AddCommand(newServeCmd(global))
	root.AddCommand(newRolesCmd(global))
	root.AddCommand(newCompileCmd(global))
	return root
}

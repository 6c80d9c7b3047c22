// Copyright 2026 © The Orquestrador Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"

	"github.com/orquestrador/roleagents/internal/app"
	"github.com/orquestrador/roleagents/pkg/config"
)

type serveFlags struct {
	Role  string
	Addr  string
	Set   []string
	Watch bool
}

func newServeCmd(global *globalFlags) *cobra.Command {
	flags := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve one role over HTTP",
		Example: `  roleagent serve --role developer
  roleagent serve -c config.yaml --profile dev --set llm.provider=ollama
  GEMINI_API_KEY=... roleagent serve --role qa --addr :9006`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := loadOptions(global, flags)
			if err != nil {
				return err
			}

			var (
				cfg     *config.Config
				watcher *config.Watcher
			)
			if flags.Watch && opts.Path != "" {
				watcher, err = config.NewWatcher(opts)
				if err != nil {
					return err
				}
				cfg = watcher.Config()
			} else {
				cfg, err = config.LoadWithOptions(opts)
				if err != nil {
					return err
				}
			}

			a, err := app.New(cfg, app.WithWatcher(watcher), app.WithVersion(version))
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&flags.Role, "role", "r", "", "role slug to serve (overrides agent.role)")
	cmd.Flags().StringVar(&flags.Addr, "addr", "", "listen address (default: the role's port)")
	cmd.Flags().StringArrayVar(&flags.Set, "set", nil, "config override key=value, repeatable")
	cmd.Flags().BoolVar(&flags.Watch, "watch", true, "reload the log level when the config file changes")
	return cmd
}

// loadOptions folds command line flags into config load options.
// Flags win over every other source.
func loadOptions(global *globalFlags, flags *serveFlags) (config.Options, error) {
	overrides, err := config.ParseOverrides(flags.Set)
	if err != nil {
		return config.Options{}, err
	}
	if flags.Role != "" {
		overrides["agent.role"] = flags.Role
	}
	if flags.Addr != "" {
		overrides["server.addr"] = flags.Addr
	}
	return config.Options{
		Path:      global.ConfigPath,
		Profile:   global.Profile,
		Overrides: overrides,
		EnvFiles:  global.EnvFiles,
	}, nil
}

// rolesFileFor returns flagValue, or the agent.roles_file the config
// sources (file, profile, environment) would hand to serve.
func rolesFileFor(global *globalFlags, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	cfg, err := config.LoadWithOptions(config.Options{
		Path:     global.ConfigPath,
		Profile:  global.Profile,
		EnvFiles: global.EnvFiles,
	})
	if err != nil {
		return "", err
	}
	return cfg.Agent.RolesFile, nil
}

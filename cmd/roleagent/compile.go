// Copyright 2026 © The Orquestrador Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/orquestrador/roleagents/internal/app"
	"github.com/orquestrador/roleagents/pkg/agent"
	"github.com/orquestrador/roleagents/pkg/core"
	"github.com/orquestrador/roleagents/pkg/prompt"
)

func newCompileCmd(global *globalFlags) *cobra.Command {
	var (
		role      string
		file      string
		rolesFile string
	)
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Print the prompt a role would send for a task",
		Long:  "compile reads a task request (JSON) and prints the prompt the role would\nsend to the backend, without calling it.",
		Example: `  roleagent compile --role developer --file task.json
  cat task.json | roleagent compile --role qa`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := rolesFileFor(global, rolesFile)
			if err != nil {
				return err
			}
			catalog, err := app.LoadCatalog(path)
			if err != nil {
				return err
			}
			m, err := catalog.Lookup(role)
			if err != nil {
				return err
			}

			var in io.Reader = cmd.InOrStdin()
			if file != "" && file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return agent.NewInvalidInputError(fmt.Sprintf("open task file: %v", err))
				}
				defer f.Close()
				in = f
			}
			var req core.TaskRequest
			if err := json.NewDecoder(in).Decode(&req); err != nil {
				return agent.NewInvalidInputError("invalid task request: " + err.Error())
			}
			if err := req.Validate(); err != nil {
				return err
			}

			text := prompt.Compile(req, m.Profile.Name, m.Directive)
			if global.JSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"role":               m.Profile.Name,
					"system_instruction": m.Profile.SystemInstruction,
					"prompt":             text,
					"words":              prompt.WordCount(text),
				})
			}
			_, err = io.WriteString(cmd.OutOrStdout(), text)
			return err
		},
	}
	cmd.Flags().StringVarP(&role, "role", "r", "", "role slug")
	cmd.Flags().StringVarP(&file, "file", "f", "-", "task request JSON file, - for stdin")
	cmd.Flags().StringVar(&rolesFile, "roles-file", "", "extra role catalog (YAML) layered over the built-in roles (default: agent.roles_file)")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

// Copyright 2026 © The Orquestrador Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/orquestrador/roleagents/internal/app"
)

type roleResult struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	Addr string `json:"addr"`
}

func newRolesCmd(global *globalFlags) *cobra.Command {
	var rolesFile string
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "List the available roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := rolesFileFor(global, rolesFile)
			if err != nil {
				return err
			}
			catalog, err := app.LoadCatalog(path)
			if err != nil {
				return err
			}
			results := make([]roleResult, 0, catalog.Len())
			for _, m := range catalog.All() {
				results = append(results, roleResult{Slug: m.Slug, Name: m.Profile.Name, Addr: m.DefaultAddr()})
			}

			out := cmd.OutOrStdout()
			if global.JSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SLUG\tNAME\tADDR")
			for _, r := range results {
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.Slug, r.Name, r.Addr)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&rolesFile, "roles-file", "", "extra role catalog (YAML) layered over the built-in roles (default: agent.roles_file)")
	return cmd
}

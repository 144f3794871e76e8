// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"vawter.tech/keyrate/internal/layout"
	"vawter.tech/keyrate/internal/store"
)

func (a *app) positionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "positions",
		Short: "List the finger positions in measurement order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, p := range layout.All() {
				fmt.Fprintf(w, "%s\t%s\n", p.Name, p.Description)
			}
			return w.Flush()
		},
	}
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print recorded single-key rates, fastest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var res store.Results
			if err := store.Read(a.cfg.Output.Directory, singleName, &res); err != nil {
				return err
			}

			names := slices.SortedFunc(maps.Keys(res.PerMinute), func(x, y string) int {
				return cmp.Or(
					cmp.Compare(res.PerMinute[y], res.PerMinute[x]),
					cmp.Compare(x, y),
				)
			})

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "run %s, started %s, %s per position\n",
				res.RunID, res.Started.Format("2006-01-02 15:04"), res.Interval)
			for _, name := range names {
				fmt.Fprintf(w, "%s\t%.1f/min\n", name, res.PerMinute[name])
			}
			return w.Flush()
		},
	}
}

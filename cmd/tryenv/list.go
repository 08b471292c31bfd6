package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/tryenv/internal/scenarios"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available programs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, s := range scenarios.All() {
				want := fmt.Sprintf("%d", s.Want)
				if s.Fatal {
					want = "fatal"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, want, s.Description)
			}
			return w.Flush()
		},
	}
}

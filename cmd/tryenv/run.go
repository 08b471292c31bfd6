package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/tryenv"
	"github.com/deepnoodle-ai/tryenv/internal/scenarios"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [program...]",
		Short: "Run programs and check their result codes",
		Long: `Run the named programs, or every non-fatal program when none are named.
Traces dumped by handlers are written to stderr. Programs marked fatal end
the process with exit code 2.`,
		ValidArgsFunction: completePrograms,
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, err := selectScenarios(args)
			if err != nil {
				return err
			}
			opts, err := contextOptions(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			var failed int
			for _, s := range selected {
				c := tryenv.New(opts...)
				rc, err := s.Run(c, cmd.ErrOrStderr())
				c.Release()
				if err != nil {
					return fmt.Errorf("%s: %w", s.Name, err)
				}
				if rc != s.Want {
					failed++
					fmt.Fprintf(out, "%s %s: got %d, want %d\n", red("FAIL"), bold(s.Name), rc, s.Want)
					continue
				}
				fmt.Fprintf(out, "%s %s\n", green("ok"), bold(s.Name))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d programs failed", failed, len(selected))
			}
			return nil
		},
	}
}

func selectScenarios(names []string) ([]scenarios.Scenario, error) {
	if len(names) == 0 {
		var out []scenarios.Scenario
		for _, s := range scenarios.All() {
			if !s.Fatal {
				out = append(out, s)
			}
		}
		return out, nil
	}
	out := make([]scenarios.Scenario, 0, len(names))
	for _, name := range names {
		s, ok := scenarios.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown program: %s", name)
		}
		out = append(out, s)
	}
	return out, nil
}

func completePrograms(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var names []string
	for _, s := range scenarios.All() {
		names = append(names, s.Name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

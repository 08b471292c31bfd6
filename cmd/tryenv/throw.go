package main

import (
	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/tryenv"
)

func newThrowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "throw",
		Short: "Throw an exception that no scope handles",
		Long: `Throw an exception from inside --scopes nested try scopes, none of which
handle it. The default fatal handler prints the trace to stderr and exits
with code 2.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			code, _ := cmd.Flags().GetInt("code")
			message, _ := cmd.Flags().GetString("message")
			scopes, _ := cmd.Flags().GetInt("scopes")

			opts, err := contextOptions(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			c := tryenv.New(opts...)
			return nest(c, scopes, func() error {
				return c.Throwf(code, "%s", message)
			})
		},
	}
	cmd.Flags().Int("code", 1, "exception code")
	cmd.Flags().String("message", "uncaught", "exception message")
	cmd.Flags().Int("scopes", 0, "number of try scopes the exception falls through")
	return cmd
}

func nest(c *tryenv.Context, n int, body func() error) error {
	if n <= 0 {
		return body()
	}
	return c.Try(func() error {
		return nest(c, n-1, body)
	}).Except()
}

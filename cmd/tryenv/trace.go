package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/tryenv"
	"github.com/deepnoodle-ai/tryenv/exception"
	"github.com/deepnoodle-ai/tryenv/internal/scenarios"
)

type traceEvent struct {
	Event    string `json:"event"`
	Code     int    `json:"code"`
	Location string `json:"location,omitempty"`
	Message  string `json:"message,omitempty"`
	Handler  *int   `json:"handler,omitempty"`
	Depth    int    `json:"depth"`
}

type traceReport struct {
	Program  string             `json:"program"`
	ID       string             `json:"id"`
	Result   int                `json:"result"`
	Want     int                `json:"want"`
	Uncaught bool               `json:"uncaught"`
	Events   []traceEvent       `json:"events"`
	Records  []exception.Record `json:"records,omitempty"`
}

// recorder collects every event raised while a program runs.
type recorder struct {
	tryenv.NoOpObserver
	events []traceEvent
}

func (r *recorder) OnThrow(e tryenv.ThrowEvent) {
	r.events = append(r.events, traceEvent{
		Event:    "throw",
		Code:     e.Record.Code,
		Location: e.Record.Location.String(),
		Message:  e.Record.Message,
		Depth:    e.Depth,
	})
}

func (r *recorder) OnCatch(e tryenv.CatchEvent) {
	handler := e.Handler
	r.events = append(r.events, traceEvent{
		Event:    "catch",
		Code:     e.Code,
		Location: e.Location.String(),
		Handler:  &handler,
		Depth:    e.Depth,
	})
}

func (r *recorder) OnPropagate(e tryenv.PropagateEvent) {
	r.events = append(r.events, traceEvent{
		Event:    "propagate",
		Code:     e.Code,
		Location: e.Location.String(),
		Depth:    e.Depth,
	})
}

func (r *recorder) OnUncaught(e tryenv.UncaughtEvent) {
	ev := traceEvent{Event: "uncaught"}
	if len(e.Records) > 0 {
		ev.Code = e.Records[0].Code
	}
	r.events = append(r.events, ev)
}

func newTraceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "trace <program>",
		Short:             "Run a program and report every exception event",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completePrograms,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := checkOutputFormat(cmd.Flag("output").Value.String())
			if err != nil {
				return err
			}
			s, ok := scenarios.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown program: %s", args[0])
			}
			report, err := traceProgram(s, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if format == "json" {
				data, err := getOutputJSON(report)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}
			writeTraceText(out, report)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "text", "output format: text or json")
	cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// traceProgram runs s with an event recorder. Uncaught exceptions are
// reported rather than terminating the process.
func traceProgram(s scenarios.Scenario, w io.Writer) (*traceReport, error) {
	opts, err := contextOptions(w)
	if err != nil {
		return nil, err
	}
	rec := &recorder{}
	opts = append(opts,
		tryenv.WithObserver(rec),
		tryenv.WithFatalHandler(tryenv.ReturnUncaught),
	)
	c := tryenv.New(opts...)
	defer c.Release()

	report := &traceReport{Program: s.Name, ID: c.ID().String(), Want: s.Want}
	rc, err := s.Run(c, w)
	var uncaught *tryenv.UncaughtError
	switch {
	case errors.As(err, &uncaught):
		report.Uncaught = true
		report.Records = uncaught.Records
	case err != nil:
		return nil, err
	}
	report.Result = rc
	report.Events = rec.events
	return report, nil
}

func writeTraceText(w io.Writer, r *traceReport) {
	for _, e := range r.lines() {
		fmt.Fprintln(w, e)
	}
	if r.Uncaught {
		fmt.Fprintf(w, "%s\n", red("uncaught exception"))
		for _, rec := range r.Records {
			fmt.Fprintf(w, "  %s\n", rec.String())
		}
		return
	}
	fmt.Fprintf(w, "result %d (want %d)\n", r.Result, r.Want)
}

func (r *traceReport) lines() []string {
	lines := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		line := fmt.Sprintf("%-9s code=%d depth=%d", e.Event, e.Code, e.Depth)
		if e.Handler != nil {
			line += fmt.Sprintf(" handler=%d", *e.Handler)
		}
		if e.Location != "" {
			line += " at " + e.Location
		}
		if e.Message != "" {
			line += ": " + e.Message
		}
		lines = append(lines, line)
	}
	return lines
}

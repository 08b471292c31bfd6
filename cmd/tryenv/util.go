package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/deepnoodle-ai/tryenv"
	"github.com/deepnoodle-ai/tryenv/exception"
)

var red = color.New(color.FgRed).SprintFunc()

func fatal(msg interface{}) {
	var s string
	switch msg := msg.(type) {
	case string:
		s = msg
	case error:
		s = msg.Error()
	default:
		s = fmt.Sprintf("%v", msg)
	}
	fmt.Fprintf(os.Stderr, "%s\n", red(s))
	os.Exit(1)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Reads global flags from Viper and adjusts the environment accordingly.
func processGlobalFlags() {
	if viper.GetBool("no-color") {
		color.NoColor = true
	}
}

func useColor() bool {
	return !viper.GetBool("no-color") && isTerminal(os.Stderr)
}

// contextOptions builds the options for a Context from global flags. Trace
// dumps go to stderr.
func contextOptions(stderr io.Writer) ([]tryenv.Option, error) {
	order, ok := exception.ParseOrder(viper.GetString("order"))
	if !ok {
		return nil, fmt.Errorf("unknown trace order: %s", viper.GetString("order"))
	}
	opts := []tryenv.Option{
		tryenv.WithOrder(order),
		tryenv.WithStderr(stderr),
		tryenv.WithColor(useColor()),
	}
	if viper.GetBool("debug") {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: !useColor()}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Logger()
		opts = append(opts, tryenv.WithLogger(logger))
	}
	return opts, nil
}

var outputFormatsCompletion = []string{"json", "text"}

func getOutputJSON(v any) ([]byte, error) {
	if viper.GetBool("no-color") {
		return json.MarshalIndent(v, "", "  ")
	}
	return prettyjson.Marshal(v)
}

func checkOutputFormat(format string) (string, error) {
	switch f := strings.ToLower(format); f {
	case "", "text":
		return "text", nil
	case "json":
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format: %s", format)
	}
}

package tryenv

import (
	"io"
	"os"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/tryenv/exception"
)

// FatalExitCode is the exit status used by the default fatal handler.
const FatalExitCode = 2

// Option configures a Context.
type Option func(*config)

type config struct {
	id       uuid.UUID
	logger   zerolog.Logger
	fatal    FatalHandler
	stderr   io.Writer
	exit     func(int)
	order    exception.Order
	color    bool
	observer Observer
}

func collectOptions(opts ...Option) *config {
	cfg := &config{
		logger:   zerolog.Nop(),
		fatal:    DefaultFatalHandler,
		stderr:   os.Stderr,
		exit:     os.Exit,
		order:    exception.NewestFirst,
		observer: NoOpObserver{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithLogger sets the logger that receives stack events. Push, pop, and
// dispatch events are logged at debug level. The default discards all events.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithFatalHandler replaces the handler that runs when a throw finds no
// enclosing Try. If the handler returns, the throw returns an
// *UncaughtError instead of a *Signal.
func WithFatalHandler(handler FatalHandler) Option {
	return func(cfg *config) {
		if handler != nil {
			cfg.fatal = handler
		}
	}
}

// WithStderr sets the writer the default fatal handler reports to.
func WithStderr(w io.Writer) Option {
	return func(cfg *config) {
		cfg.stderr = w
	}
}

// WithExit sets the function the default fatal handler calls to terminate
// the process. The default is os.Exit.
func WithExit(exit func(int)) Option {
	return func(cfg *config) {
		cfg.exit = exit
	}
}

// WithOrder sets the order of records in rendered traces.
func WithOrder(order exception.Order) Option {
	return func(cfg *config) {
		cfg.order = order
	}
}

// WithColor enables ANSI colors in rendered traces.
func WithColor(enabled bool) Option {
	return func(cfg *config) {
		cfg.color = enabled
	}
}

// WithObserver sets an observer for throw, catch, and propagation events.
// Observer methods are called synchronously.
func WithObserver(observer Observer) Option {
	return func(cfg *config) {
		if observer != nil {
			cfg.observer = observer
		}
	}
}

// WithID sets the context identifier instead of generating a random one.
func WithID(id uuid.UUID) Option {
	return func(cfg *config) {
		cfg.id = id
	}
}

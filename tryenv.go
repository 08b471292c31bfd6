// Package tryenv provides structured exception handling built from two
// stacks: an exception stack of thrown records and an environment stack of
// active try scopes.
//
// A Context owns one pair of stacks and represents one thread of control.
// Contexts are not safe for concurrent use; give each goroutine its own, or
// carry one per request with WithContext.
//
//	err := c.Try(func() error {
//		return load(c)
//	}).Except(
//		tryenv.On(int(syscall.ENOENT), func() error {
//			return useDefaults()
//		}),
//		tryenv.Finally(func() error {
//			return c.Dump(os.Stderr)
//		}),
//	)
//
// Control transfer is an error value: Throw returns a *Signal that callers
// return unchanged until the Try scope it targets receives it. A throw with
// no enclosing Try runs the fatal handler, which by default prints the trace
// and exits the process.
package tryenv

import (
	"errors"
	"io"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/tryenv/env"
	"github.com/deepnoodle-ai/tryenv/exception"
)

// ErrReleased is the panic value raised when a released Context is used.
var ErrReleased = errors.New("tryenv: context released")

// Context holds the exception stack and the environment stack of one thread
// of control.
type Context struct {
	id       uuid.UUID
	exc      exception.Stack
	envs     *env.Stack
	cfg      *config
	log      zerolog.Logger
	released bool
}

// New creates a Context with empty stacks.
func New(opts ...Option) *Context {
	cfg := collectOptions(opts...)
	c := &Context{
		id:  cfg.id,
		cfg: cfg,
	}
	if c.id == uuid.Nil {
		c.id = uuid.Must(uuid.NewV4())
	}
	c.log = cfg.logger.With().Str("ctx_id", c.id.String()).Logger()
	c.envs = env.NewStack(c.fatal)
	return c
}

// ID returns the identifier used to correlate this context's log events.
func (c *Context) ID() uuid.UUID {
	return c.id
}

// Errno returns the code of the most recent thrown exception, or 0 if the
// exception stack is empty.
func (c *Context) Errno() int {
	c.mustLive()
	return c.exc.Errno()
}

// Empty reports whether the exception stack is empty.
func (c *Context) Empty() bool {
	c.mustLive()
	return c.exc.Empty()
}

// Clear discards every pending exception. Handlers clear the stack on their
// own; Clear is for callers that deliberately ignore an exception.
func (c *Context) Clear() {
	c.mustLive()
	c.exc.Clear()
}

// Len returns the number of records on the exception stack.
func (c *Context) Len() int {
	c.mustLive()
	return c.exc.Len()
}

// Depth returns the number of active try scopes.
func (c *Context) Depth() int {
	c.mustLive()
	return c.envs.Len()
}

// Records returns a copy of the exception stack, most recent first.
func (c *Context) Records() []exception.Record {
	c.mustLive()
	return c.exc.Records()
}

// Render returns the exception trace using the configured order and color
// settings. An empty stack renders as the empty string.
func (c *Context) Render() string {
	c.mustLive()
	return c.formatter().Format(c.exc.Records())
}

// Dump writes the exception trace to w.
func (c *Context) Dump(w io.Writer) error {
	if c.Empty() {
		return nil
	}
	_, err := io.WriteString(w, c.Render())
	return err
}

// Release discards both stacks and their storage. A released Context must
// not be used again; records obtained from it before release stay valid.
func (c *Context) Release() {
	if c.released {
		return
	}
	c.exc.Release()
	c.envs.Release()
	c.released = true
	c.log.Debug().Msg("context released")
}

func (c *Context) formatter() *exception.Formatter {
	return exception.NewFormatter(c.cfg.color, c.cfg.order)
}

func (c *Context) mustLive() {
	if c.released {
		panic(ErrReleased)
	}
}

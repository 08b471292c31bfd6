package tryenv

import (
	"errors"
	"fmt"
	"io"

	"github.com/deepnoodle-ai/tryenv/env"
	"github.com/deepnoodle-ai/tryenv/exception"
)

const (
	fatalMarker        = "FATAL: uncaught exception\n"
	fatalInternalError = "internal error: fatal handler called with empty exception stack\n"
)

// Signal is the error returned by a throw while an exception is in flight.
// Every caller between the throw and the enclosing Try must return it
// unchanged; wrapping with %w is tolerated.
type Signal struct {
	owner  *Context
	target env.Env
	record exception.Record
}

// Error implements the error interface.
func (s *Signal) Error() string {
	return "exception in flight: " + s.record.Error()
}

// Unwrap returns the thrown record.
func (s *Signal) Unwrap() error {
	return s.record
}

// Record returns the thrown record that started the transfer.
func (s *Signal) Record() exception.Record {
	return s.record
}

// Target returns the environment the transfer resumes at.
func (s *Signal) Target() env.Env {
	return s.target
}

// UncaughtError is returned by a throw with no enclosing Try when the fatal
// handler returns instead of terminating the process. The exception stack
// is cleared and its contents moved into the error.
type UncaughtError struct {
	Records []exception.Record // most recent first
	Trace   string

	owner *Context
}

// Error implements the error interface.
func (e *UncaughtError) Error() string {
	for _, rec := range e.Records {
		if rec.Kind != exception.Frame {
			return "uncaught exception: " + rec.Error()
		}
	}
	return "uncaught exception"
}

// Unwrap returns the most recent thrown record.
func (e *UncaughtError) Unwrap() error {
	for _, rec := range e.Records {
		if rec.Kind != exception.Frame {
			return rec
		}
	}
	return nil
}

// FatalHandler runs when a throw finds no enclosing Try. The exception stack
// is intact while it runs.
type FatalHandler func(c *Context)

// DefaultFatalHandler writes a fixed marker line and the exception trace to
// the configured stderr, then terminates the process with FatalExitCode.
// An uncaught exception is a programming defect, so there is no recovery.
func DefaultFatalHandler(c *Context) {
	w := c.cfg.stderr
	io.WriteString(w, fatalMarker)
	if c.exc.Empty() {
		io.WriteString(w, fatalInternalError)
	} else {
		io.WriteString(w, c.formatter().Format(c.exc.Records()))
	}
	c.cfg.exit(FatalExitCode)
}

// ReturnUncaught is a FatalHandler that lets the throw return an
// *UncaughtError. It suits embeddings that run many independent threads of
// control, such as Group, where one defect must not end the process.
func ReturnUncaught(*Context) {}

// Throw pushes an exception with the given code and no message, then
// transfers control to the innermost Try. The result must be returned:
//
//	return c.Throw(int(syscall.EINVAL))
func (c *Context) Throw(code int) error {
	c.mustLive()
	return c.throw(exception.Record{
		Location: exception.Caller(0),
		Code:     code,
		Kind:     exception.Thrown,
	})
}

// Throwf is like Throw with a formatted message. A message that formats to
// the empty string counts as no message, so the record renders like one from
// Throw.
func (c *Context) Throwf(code int, format string, args ...any) error {
	c.mustLive()
	return c.throw(exception.Record{
		Location: exception.Caller(0),
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Kind:     exception.Thrown,
	})
}

// Raise throws a Go error. The code is derived with exception.CodeOf and the
// message is err.Error(). A nil error is returned as is, and so are errors
// already in flight on c. A signal from another Context is raised like any
// other error.
func (c *Context) Raise(err error) error {
	if err == nil || c.isControl(err) {
		return err
	}
	c.mustLive()
	return c.throw(exception.FromError(exception.Caller(0), err))
}

// Pass re-throws from inside a handler. It pushes a message-less record
// carrying the code being handled, leaving the original exception beneath
// it, and transfers control to the next enclosing Try.
func (c *Context) Pass() error {
	c.mustLive()
	return c.throw(exception.Record{
		Location: exception.Caller(0),
		Code:     c.exc.Errno(),
		Kind:     exception.Thrown,
	})
}

func (c *Context) throw(rec exception.Record) error {
	depth := c.envs.Len()
	c.exc.PushRecord(rec)
	c.log.Debug().
		Str("file", rec.File).
		Int("line", rec.Line).
		Str("func", rec.Function).
		Int("code", rec.Code).
		Str("msg", rec.Message).
		Msg("exception pushed")
	c.cfg.observer.OnThrow(ThrowEvent{Record: rec, Depth: depth})
	return c.jump()
}

// jump transfers control to the innermost saved environment.
func (c *Context) jump() error {
	target, err := c.envs.Jump()
	if err != nil {
		return c.uncaught()
	}
	rec, _ := c.exc.Current()
	c.log.Debug().
		Uint64("env", target.ID).
		Int("depth", c.envs.Len()).
		Int("code", rec.Code).
		Msg("jump")
	return &Signal{owner: c, target: target, record: rec}
}

// fatal runs when a jump finds the environment stack empty.
func (c *Context) fatal() {
	records := c.exc.Records()
	c.log.Error().
		Int("code", c.exc.Errno()).
		Int("records", len(records)).
		Msg("uncaught exception")
	c.cfg.observer.OnUncaught(UncaughtEvent{Records: records})
	c.cfg.fatal(c)
}

func (c *Context) uncaught() error {
	err := &UncaughtError{
		Records: c.exc.Records(),
		Trace:   c.formatter().Format(c.exc.Records()),
		owner:   c,
	}
	c.exc.Clear()
	return err
}

// isControl reports whether err is an exception already being propagated
// by c. Signals and uncaught errors of other contexts are plain errors here.
func (c *Context) isControl(err error) bool {
	return c.signalOf(err) != nil || c.uncaughtOf(err) != nil
}

func (c *Context) signalOf(err error) *Signal {
	var sig *Signal
	if errors.As(err, &sig) && sig.owner == c {
		return sig
	}
	return nil
}

func (c *Context) uncaughtOf(err error) *UncaughtError {
	var uncaught *UncaughtError
	if errors.As(err, &uncaught) && uncaught.owner == c {
		return uncaught
	}
	return nil
}

package tryenv

import (
	"github.com/deepnoodle-ai/tryenv/env"
	"github.com/deepnoodle-ai/tryenv/exception"
)

// Scope is the outcome of a Try body. It must be completed with Except.
type Scope struct {
	c           *Context
	env         env.Env
	thrown      bool
	passthrough error
}

// Try saves a new environment, runs body, and returns the scope to pass to
// Except. A body that returns nil completes the scope and discards the
// environment. A body that returns a *Signal for this scope, or any other
// error, leaves an exception for Except to dispatch; a plain Go error is
// raised at the Try site as if by Raise.
func (c *Context) Try(body func() error) *Scope {
	c.mustLive()
	loc := exception.Caller(0)
	e := c.envs.Save(loc.File, loc.Line)
	c.envs.Push(e, true)
	c.log.Debug().
		Uint64("env", e.ID).
		Int("depth", c.envs.Len()).
		Str("file", loc.File).
		Int("line", loc.Line).
		Msg("env pushed")

	var err error
	if body != nil {
		err = body()
	}
	return c.settle(e, loc, err)
}

// settle classifies the result of a Try body.
func (c *Context) settle(e env.Env, loc exception.Location, err error) *Scope {
	s := &Scope{c: c, env: e}
	live := c.envs.IsTop(e)

	sig := c.signalOf(err)
	if sig != nil && sig.target.ID != e.ID || c.uncaughtOf(err) != nil {
		// The transfer targets an outer scope, or nothing at all; this
		// scope's environment is stale.
		if live {
			c.envs.Pop()
		}
		s.passthrough = err
		return s
	}

	switch {
	case err == nil && live:
		c.envs.Pop()
		c.log.Debug().Uint64("env", e.ID).Int("depth", c.envs.Len()).Msg("env popped")
		return s
	case err == nil:
		// A throw consumed this environment but its signal never made it
		// back here.
		if c.exc.Empty() {
			return s
		}
		c.log.Warn().
			Uint64("env", e.ID).
			Str("file", loc.File).
			Int("line", loc.Line).
			Msg("exception signal was dropped before reaching its try scope")
	case sig == nil:
		// A plain error, or a signal belonging to another Context.
		if rec, ok := c.pending(loc, err); ok {
			c.exc.PushRecord(rec)
			c.log.Debug().
				Str("file", rec.File).
				Int("line", rec.Line).
				Int("code", rec.Code).
				Str("msg", rec.Message).
				Msg("error raised at try site")
			c.cfg.observer.OnThrow(ThrowEvent{Record: rec, Depth: c.envs.Len()})
		}
		if live {
			c.envs.Pop()
		}
	}
	s.thrown = true
	return s
}

// pending converts err into the record to push at loc. It reports false
// when err wraps a record that is already on the exception stack, which is
// re-thrown as is rather than recorded twice.
func (c *Context) pending(loc exception.Location, err error) (exception.Record, bool) {
	rec := exception.FromError(loc, err)
	if c.exc.Contains(rec) {
		return rec, false
	}
	return rec, true
}

// Thrown reports whether the scope ended with an exception.
func (s *Scope) Thrown() bool {
	return s.thrown
}

// Except dispatches the scope's exception to the first handler whose guard
// matches the current code. The matching handler's body runs with the
// exception stack intact; when it returns nil the whole stack is cleared.
// A body that re-throws returns its signal without clearing.
//
// When no handler matches, a frame record is added at the Except site and
// the exception propagates to the next enclosing Try; the returned signal
// must be returned by the caller. With no enclosing Try, the fatal handler
// runs.
//
// Except returns nil when the scope completed normally or the exception
// was handled.
func (s *Scope) Except(handlers ...Handler) error {
	if s.passthrough != nil {
		return s.passthrough
	}
	if !s.thrown {
		return nil
	}
	c := s.c
	c.mustLive()
	loc := exception.Caller(0)
	code := c.exc.Errno()

	for i, h := range handlers {
		if h.match == nil || !h.match(code) {
			continue
		}
		c.log.Debug().
			Int("code", code).
			Int("handler", i).
			Str("file", loc.File).
			Int("line", loc.Line).
			Msg("exception handled")
		c.cfg.observer.OnCatch(CatchEvent{
			Code:     code,
			Handler:  i,
			Location: loc,
			Depth:    c.envs.Len(),
		})
		var err error
		if h.body != nil {
			err = h.body()
		}
		if err != nil {
			if c.isControl(err) {
				return err
			}
			if rec, ok := c.pending(loc, err); ok {
				return c.throw(rec)
			}
			// The handler returned a record that is still on the stack.
			return c.jump()
		}
		c.exc.Clear()
		return nil
	}

	c.exc.PushRecord(exception.Record{Location: loc, Kind: exception.Frame})
	c.log.Debug().
		Int("code", code).
		Str("file", loc.File).
		Int("line", loc.Line).
		Msg("exception propagated")
	c.cfg.observer.OnPropagate(PropagateEvent{
		Code:     code,
		Location: loc,
		Depth:    c.envs.Len(),
	})
	return c.jump()
}

// Handler pairs a guard on the exception code with a body to run when the
// guard matches.
type Handler struct {
	match func(code int) bool
	body  func() error
}

// When returns a handler that claims the exception when match returns true.
func When(match func(code int) bool, body func() error) Handler {
	return Handler{match: match, body: body}
}

// On returns a handler that claims exceptions with the given code. Code 0
// is not a catch-all; use Finally.
func On(code int, body func() error) Handler {
	return When(func(c int) bool { return c == code }, body)
}

// Finally returns a handler that claims any exception not claimed by an
// earlier handler. A nil body absorbs the exception.
func Finally(body func() error) Handler {
	return When(func(int) bool { return true }, body)
}

// Inspect returns a handler that calls fn and never claims the exception.
// Place it first to observe an exception, for example to dump the trace,
// before the guards run.
func Inspect(fn func()) Handler {
	return When(func(int) bool {
		if fn != nil {
			fn()
		}
		return false
	}, nil)
}

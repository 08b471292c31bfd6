package tryenv

import (
	"context"
	"sync"
)

type contextKey string

const contextValueKey = contextKey("tryenv:context")

// WithContext returns a copy of ctx that carries c. Use it to bind a Context
// to one request or one goroutine's work.
func WithContext(ctx context.Context, c *Context) context.Context {
	return context.WithValue(ctx, contextValueKey, c)
}

// FromContext returns the Context carried by ctx, if any.
func FromContext(ctx context.Context) (*Context, bool) {
	if c, ok := ctx.Value(contextValueKey).(*Context); ok {
		if c != nil {
			return c, ok
		}
	}
	return nil, false
}

// MustFromContext is like FromContext but panics if ctx carries no Context.
func MustFromContext(ctx context.Context) *Context {
	c, ok := FromContext(ctx)
	if !ok {
		panic("tryenv: no context bound to context.Context")
	}
	return c
}

var (
	defaultOnce    sync.Once
	defaultContext *Context
)

// Default returns a process-wide Context. It exists for single-threaded
// programs only: the stacks have no synchronization, and two goroutines
// using Default at the same time corrupt each other's exceptions. Anything
// concurrent must create a Context per goroutine.
func Default() *Context {
	defaultOnce.Do(func() {
		defaultContext = New()
	})
	return defaultContext
}

package tryenv

import (
	"context"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Group runs functions on separate goroutines, each with its own Context,
// and collects the errors they return.
type Group struct {
	opts []Option
	wg   sync.WaitGroup
	mu   sync.Mutex
	errs *multierror.Error
}

// NewGroup creates a Group whose contexts are built with opts. Pass
// WithFatalHandler(ReturnUncaught) to collect uncaught exceptions as
// *UncaughtError values instead of terminating the process.
func NewGroup(opts ...Option) *Group {
	return &Group{opts: opts}
}

// Go runs fn on a new goroutine with a fresh Context, which is bound to ctx
// and released when fn returns.
func (g *Group) Go(ctx context.Context, fn func(ctx context.Context, c *Context) error) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		c := New(g.opts...)
		defer c.Release()
		if err := fn(WithContext(ctx, c), c); err != nil {
			g.mu.Lock()
			g.errs = multierror.Append(g.errs, err)
			g.mu.Unlock()
		}
	}()
}

// Wait blocks until every function has returned and reports their errors
// combined, or nil if all succeeded.
func (g *Group) Wait() error {
	g.wg.Wait()
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.errs.ErrorOrNil()
}

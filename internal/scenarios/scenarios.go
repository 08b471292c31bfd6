// Package scenarios holds small programs that exercise the exception
// protocol end to end. Each returns a result code; a run is correct when the
// result equals Want.
package scenarios

import (
	"io"
	"sort"

	"github.com/deepnoodle-ai/tryenv"
)

// Scenario is a runnable exception-handling program.
type Scenario struct {
	Name        string
	Description string
	Want        int
	// Fatal marks programs that end in an uncaught exception.
	Fatal bool
	Run   func(c *tryenv.Context, w io.Writer) (int, error)
}

var registry = map[string]Scenario{}

func register(s Scenario) {
	registry[s.Name] = s
}

// All returns every scenario sorted by name.
func All() []Scenario {
	out := make([]Scenario, 0, len(registry))
	for _, s := range registry {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns the scenario with the given name.
func Lookup(name string) (Scenario, bool) {
	s, ok := registry[name]
	return s, ok
}

func init() {
	register(Scenario{
		Name:        "relay",
		Description: "a scope without handlers passes the exception to its caller's scope",
		Want:        0,
		Run:         runRelay,
	})
	register(Scenario{
		Name:        "direct",
		Description: "an exception thrown two calls deep is caught by on(1)",
		Want:        0,
		Run:         runDirect,
	})
	register(Scenario{
		Name:        "no-throw",
		Description: "a try body that completes never reaches its handlers",
		Want:        0,
		Run:         runNoThrow,
	})
	register(Scenario{
		Name:        "nested",
		Description: "three nested scopes each catch their own code",
		Want:        -2,
		Run:         runNested,
	})
	register(Scenario{
		Name:        "double-relay",
		Description: "an exception falls through two scopes before it is handled",
		Want:        0,
		Run:         runDoubleRelay,
	})
	register(Scenario{
		Name:        "rethrow",
		Description: "a handler passes the exception to the enclosing scope",
		Want:        0,
		Run:         runRethrow,
	})
	register(Scenario{
		Name:        "uncaught",
		Description: "a throw outside any try scope terminates the program",
		Want:        0,
		Fatal:       true,
		Run:         runUncaught,
	})
}

func fail(c *tryenv.Context) error {
	return c.Throwf(1, "test error")
}

func guarded(c *tryenv.Context) error {
	return c.Try(func() error {
		return fail(c)
	}).Except()
}

func calls(c *tryenv.Context) error {
	return fail(c)
}

func dump(c *tryenv.Context, w io.Writer) func() error {
	return func() error {
		return c.Dump(w)
	}
}

func runRelay(c *tryenv.Context, w io.Writer) (int, error) {
	rc := 1
	err := c.Try(func() error {
		return guarded(c)
	}).Except(
		tryenv.On(1, func() error {
			rc = 0
			return c.Dump(w)
		}),
		tryenv.Finally(dump(c, w)),
	)
	return rc, err
}

func runDirect(c *tryenv.Context, w io.Writer) (int, error) {
	rc := 0
	err := c.Try(func() error {
		if err := calls(c); err != nil {
			return err
		}
		rc = 1
		return nil
	}).Except(
		tryenv.On(1, dump(c, w)),
		tryenv.Finally(func() error {
			rc = 1
			return c.Dump(w)
		}),
	)
	return rc, err
}

func runNoThrow(c *tryenv.Context, w io.Writer) (int, error) {
	rc := 1
	err := c.Try(func() error {
		rc = 0
		return nil
	}).Except(tryenv.Finally(dump(c, w)))
	return rc, err
}

func runNested(c *tryenv.Context, w io.Writer) (int, error) {
	rc := 1
	decrement := func() error {
		rc--
		return nil
	}
	inspect := tryenv.Inspect(func() { c.Dump(w) })

	err := c.Try(func() error {
		err := c.Try(func() error {
			err := c.Try(func() error {
				return fail(c)
			}).Except(inspect, tryenv.On(1, decrement), tryenv.Finally(nil))
			if err != nil {
				return err
			}
			return c.Throwf(2, "test error")
		}).Except(inspect, tryenv.On(2, decrement), tryenv.Finally(nil))
		if err != nil {
			return err
		}
		return c.Throwf(3, "test error")
	}).Except(inspect, tryenv.On(3, decrement), tryenv.Finally(nil))
	return rc, err
}

func runDoubleRelay(c *tryenv.Context, w io.Writer) (int, error) {
	rc := 1
	err := c.Try(func() error {
		return c.Try(func() error {
			return guarded(c)
		}).Except()
	}).Except(
		tryenv.Inspect(func() { c.Dump(w) }),
		tryenv.On(1, func() error {
			rc = 0
			return nil
		}),
		tryenv.Finally(nil),
	)
	return rc, err
}

func runRethrow(c *tryenv.Context, w io.Writer) (int, error) {
	rc := 2
	err := c.Try(func() error {
		return c.Try(func() error {
			return fail(c)
		}).Except(tryenv.On(1, func() error {
			rc--
			return c.Pass()
		}))
	}).Except(
		tryenv.On(1, func() error {
			rc--
			return c.Dump(w)
		}),
		tryenv.Finally(dump(c, w)),
	)
	return rc, err
}

func runUncaught(c *tryenv.Context, w io.Writer) (int, error) {
	return 1, c.Throwf(1, "test error")
}

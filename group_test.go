package tryenv

import (
	"context"
	"fmt"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"
)

func TestContextValues(t *testing.T) {
	c, ok := FromContext(context.Background())
	require.False(t, ok)
	require.Nil(t, c)

	want := New()
	ctx := WithContext(context.Background(), want)
	c, ok = FromContext(ctx)
	require.True(t, ok)
	require.Same(t, want, c)
	require.Same(t, want, MustFromContext(ctx))

	require.Panics(t, func() { MustFromContext(context.Background()) })

	_, ok = FromContext(WithContext(context.Background(), nil))
	require.False(t, ok)
}

func TestDefaultIsShared(t *testing.T) {
	require.Same(t, Default(), Default())
}

func TestWithID(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	require.Equal(t, id, New(WithID(id)).ID())
	require.NotEqual(t, New().ID(), New().ID())
}

func TestGroupIsolatesThreadsOfControl(t *testing.T) {
	g := NewGroup(WithFatalHandler(ReturnUncaught))
	for worker := 1; worker <= 4; worker++ {
		base := worker * 1000
		g.Go(context.Background(), func(ctx context.Context, c *Context) error {
			if bound, ok := FromContext(ctx); !ok || bound != c {
				return fmt.Errorf("worker %d context not bound", base)
			}
			for i := 0; i < 500; i++ {
				code := base + i%50 + 1
				err := c.Try(func() error {
					return c.Try(func() error {
						return c.Throwf(code, "worker %d", base)
					}).Except()
				}).Except(On(code, func() error {
					if c.Errno() != code || c.Len() != 2 {
						return fmt.Errorf("worker %d saw code %d with %d records", base, c.Errno(), c.Len())
					}
					for _, rec := range c.Records() {
						if rec.HasMessage() && rec.Message != fmt.Sprintf("worker %d", base) {
							return fmt.Errorf("worker %d saw foreign record %q", base, rec.Message)
						}
					}
					return nil
				}))
				if err != nil {
					return err
				}
				if !c.Empty() || c.Depth() != 0 {
					return fmt.Errorf("worker %d leaked state", base)
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestGroupCollectsErrors(t *testing.T) {
	g := NewGroup(WithFatalHandler(ReturnUncaught))
	g.Go(context.Background(), func(_ context.Context, c *Context) error {
		return c.Throwf(7, "escaped")
	})
	g.Go(context.Background(), func(_ context.Context, c *Context) error {
		return nil
	})
	g.Go(context.Background(), func(_ context.Context, c *Context) error {
		return fmt.Errorf("plain failure")
	})

	err := g.Wait()
	require.Error(t, err)
	var uncaught *UncaughtError
	require.ErrorAs(t, err, &uncaught)
	require.Equal(t, 7, uncaught.Records[0].Code)
	require.Contains(t, err.Error(), "plain failure")
}

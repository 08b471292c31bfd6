package env

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveIssuesDistinctTokens(t *testing.T) {
	s := NewStack(nil)
	a := s.Save("a.go", 1)
	b := s.Save("a.go", 2)
	require.False(t, a.IsZero())
	require.NotEqual(t, a.ID, b.ID)
	require.True(t, s.Empty(), "saving does not push")
	require.Equal(t, "env#1 (a.go:1)", a.String())
	require.Equal(t, "env#3", Env{ID: 3}.String())
}

func TestPushOnlyFresh(t *testing.T) {
	s := NewStack(nil)
	e := s.Save("a.go", 1)

	require.False(t, s.Push(e, false))
	require.True(t, s.Empty())

	require.False(t, s.Push(Env{}, true))
	require.True(t, s.Empty())

	require.True(t, s.Push(e, true))
	require.Equal(t, 1, s.Len())
	require.True(t, s.IsTop(e))
}

func TestPopLIFO(t *testing.T) {
	s := NewStack(nil)
	var pushed []Env
	for i := 1; i <= 3; i++ {
		e := s.Save("a.go", i)
		s.Push(e, true)
		pushed = append(pushed, e)
	}
	for i := len(pushed) - 1; i >= 0; i-- {
		e, ok := s.Pop()
		require.True(t, ok)
		require.Equal(t, pushed[i], e)
	}
	_, ok := s.Pop()
	require.False(t, ok)
}

func TestJumpTargetsMostRecent(t *testing.T) {
	s := NewStack(func() { t.Fatal("empty handler must not run") })
	outer := s.Save("a.go", 1)
	inner := s.Save("a.go", 2)
	s.Push(outer, true)
	s.Push(inner, true)

	got, err := s.Jump()
	require.NoError(t, err)
	require.Equal(t, inner, got)
	require.True(t, s.IsTop(outer))

	got, err = s.Jump()
	require.NoError(t, err)
	require.Equal(t, outer, got)
	require.True(t, s.Empty())
}

func TestJumpEmptyRunsHandler(t *testing.T) {
	calls := 0
	s := NewStack(func() { calls++ })
	_, err := s.Jump()
	require.ErrorIs(t, err, ErrEmpty)
	require.Equal(t, 1, calls)

	_, err = NewStack(nil).Jump()
	require.ErrorIs(t, err, ErrEmpty)
}

func TestClearAndRelease(t *testing.T) {
	s := NewStack(nil)
	s.Push(s.Save("a.go", 1), true)
	s.Push(s.Save("a.go", 2), true)
	s.Clear()
	require.True(t, s.Empty())
	_, ok := s.Top()
	require.False(t, ok)

	s.Push(s.Save("a.go", 3), true)
	s.Release()
	require.Equal(t, 0, s.Len())
}

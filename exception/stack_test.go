package exception

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"syscall"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func loc(line int) Location {
	return Location{File: "stack.go", Line: line, Function: "work"}
}

func TestStackEmpty(t *testing.T) {
	var s Stack
	require.True(t, s.Empty())
	require.Equal(t, 0, s.Len())
	require.Equal(t, 0, s.Errno())

	_, ok := s.Top()
	require.False(t, ok)
	_, ok = s.Pop()
	require.False(t, ok)

	require.Equal(t, "", s.Render(NewestFirst))
	require.Nil(t, s.Records())

	var buf bytes.Buffer
	require.NoError(t, s.Dump(&buf, NewestFirst))
	require.Zero(t, buf.Len())
}

func TestStackLIFO(t *testing.T) {
	var s Stack
	for code := 1; code <= 5; code++ {
		s.Push(loc(code), code, fmt.Sprintf("error %d", code))
		require.Equal(t, code, s.Errno())
	}
	require.Equal(t, 5, s.Len())

	for want := 5; want >= 1; want-- {
		rec, ok := s.Pop()
		require.True(t, ok)
		require.Equal(t, want, rec.Code)
		require.Equal(t, fmt.Sprintf("error %d", want), rec.Message)
	}
	require.True(t, s.Empty())
}

func TestStackErrnoSkipsFrames(t *testing.T) {
	var s Stack
	s.Push(loc(10), 7, "disk full")
	s.PushRecord(Record{Location: loc(20), Kind: Frame})
	s.PushRecord(Record{Location: loc(30), Kind: Frame})

	top, ok := s.Top()
	require.True(t, ok)
	require.Equal(t, Frame, top.Kind)
	require.Equal(t, 0, top.Code)
	require.Equal(t, 7, s.Errno())
}

func TestStackClear(t *testing.T) {
	var s Stack
	s.Push(loc(1), 1, "a")
	s.Push(loc(2), 2, "")
	s.Clear()
	require.True(t, s.Empty())
	require.Equal(t, 0, s.Errno())

	s.Push(loc(3), 3, "b")
	require.Equal(t, 3, s.Errno())

	s.Release()
	require.True(t, s.Empty())
}

func TestStackContains(t *testing.T) {
	var s Stack
	s.Push(loc(1), 1, "a")
	s.PushRecord(Record{Location: loc(2), Kind: Frame})

	top, _ := s.Current()
	top.Cause = errors.New("ignored")
	require.True(t, s.Contains(top))
	require.False(t, s.Contains(Record{Location: loc(1), Code: 2, Message: "a"}))
	require.False(t, s.Contains(Record{Location: loc(2)}))
	require.True(t, s.Contains(Record{Location: loc(2), Kind: Frame}))
}

func TestStackRecordsNewestFirst(t *testing.T) {
	var s Stack
	s.Push(loc(1), 1, "first")
	s.Push(loc(2), 2, "second")

	recs := s.Records()
	require.Len(t, recs, 2)
	require.Equal(t, 2, recs[0].Code)
	require.Equal(t, 1, recs[1].Code)

	// The copy does not alias the stack.
	recs[0].Code = 99
	require.Equal(t, 2, s.Errno())
}

func TestStackRender(t *testing.T) {
	var s Stack
	s.Push(Location{File: "a.go", Line: 7, Function: "fail"}, 1, "test error")
	s.PushRecord(Record{Location: Location{File: "b.go", Line: 12, Function: "relay"}, Kind: Frame})

	newest := "at b.go:12 in relay()\n" +
		"at a.go:7 in fail(): test error (1)\n"
	if diff := cmp.Diff(newest, s.Render(NewestFirst)); diff != "" {
		t.Errorf("newest-first trace mismatch (-want +got):\n%s", diff)
	}

	oldest := "at a.go:7 in fail(): test error (1)\n" +
		"at b.go:12 in relay()\n"
	if diff := cmp.Diff(oldest, s.Render(OldestFirst)); diff != "" {
		t.Errorf("oldest-first trace mismatch (-want +got):\n%s", diff)
	}
}

func TestStackRenderIdempotent(t *testing.T) {
	var s Stack
	s.Push(loc(1), 1, "one")
	s.Push(loc(2), 2, "")
	s.Push(loc(3), 3, "three")

	first := s.Render(NewestFirst)
	second := s.Render(NewestFirst)
	require.Equal(t, first, second)
	require.Equal(t, 3, s.Len())
}

func TestStackDump(t *testing.T) {
	var s Stack
	s.Push(loc(4), 4, "boom")

	var buf bytes.Buffer
	require.NoError(t, s.Dump(&buf, NewestFirst))
	require.Equal(t, "at stack.go:4 in work(): boom (4)\n", buf.String())
	require.Equal(t, 1, s.Len())
}

type codedError struct{ code int }

func (e codedError) Error() string { return "coded" }
func (e codedError) Code() int     { return e.code }

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"errno", syscall.ENOENT, int(syscall.ENOENT)},
		{"wrapped errno", fmt.Errorf("open: %w", syscall.EACCES), int(syscall.EACCES)},
		{"coder", codedError{code: 42}, 42},
		{"record", Record{Code: 9, Message: "x"}, 9},
		{"plain", errors.New("plain"), Unclassified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestFromError(t *testing.T) {
	cause := fmt.Errorf("read config: %w", syscall.ENOENT)
	rec := FromError(loc(5), cause)
	require.Equal(t, int(syscall.ENOENT), rec.Code)
	require.Equal(t, cause.Error(), rec.Message)
	require.Equal(t, Thrown, rec.Kind)
	require.ErrorIs(t, rec, syscall.ENOENT)

	orig := Record{Location: loc(99), Code: 3, Message: "kept"}
	again := FromError(loc(5), fmt.Errorf("wrapped: %w", orig))
	require.Equal(t, orig.Location, again.Location)
	require.Equal(t, 3, again.Code)
}

func TestRecordError(t *testing.T) {
	rec := Record{Location: loc(8), Code: 2, Message: "bad input"}
	require.Equal(t, "at stack.go:8 in work(): bad input (2)", rec.Error())

	bare := Record{Location: loc(8), Code: 2}
	require.True(t, strings.HasPrefix(bare.Error(), "exception 2 "))
}

func TestRecordJSON(t *testing.T) {
	rec := Record{Location: loc(8), Code: 2, Message: "bad", Cause: errors.New("root")}
	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, "stack.go", got["file"])
	require.Equal(t, float64(8), got["line"])
	require.Equal(t, "thrown", got["kind"])
	require.Equal(t, "root", got["cause"])
}

func TestCaller(t *testing.T) {
	here := Caller(-1)
	require.Equal(t, "TestCaller", here.Function)
	require.True(t, strings.HasSuffix(here.File, "stack_test.go"))
	require.NotZero(t, here.Line)
	require.False(t, here.IsZero())
}

func TestShortFuncName(t *testing.T) {
	tests := map[string]string{
		"github.com/x/y/pkg.fail":        "fail",
		"github.com/x/y/pkg.(*T).Method": "(*T).Method",
		"main.main.func1":                "main.func1",
		"":                               "???",
	}
	for in, want := range tests {
		require.Equal(t, want, shortFuncName(in), in)
	}
}

// Package env implements the environment stack: the saved resumption points
// of the try scopes that are currently active in one thread of control.
package env

import (
	"errors"
	"fmt"
)

// ErrEmpty is returned by Jump when no environment is saved and the
// empty-stack handler returned instead of terminating.
var ErrEmpty = errors.New("env: no saved environment")

// Env is a continuation token for one try scope. A throw that reaches the
// top of the stack resumes at the scope holding the matching token.
type Env struct {
	ID   uint64
	File string
	Line int
}

// IsZero returns true if the token was never issued by a Stack.
func (e Env) IsZero() bool {
	return e.ID == 0
}

// String returns a short description of the token.
func (e Env) String() string {
	if e.File == "" {
		return fmt.Sprintf("env#%d", e.ID)
	}
	return fmt.Sprintf("env#%d (%s:%d)", e.ID, e.File, e.Line)
}

// Stack is a last-in-first-out stack of saved environments. A Stack is not
// safe for concurrent use; each thread of control owns its own.
type Stack struct {
	envs    []Env
	nextID  uint64
	onEmpty func()
}

// NewStack creates an environment stack. onEmpty runs when Jump finds no
// saved environment; it is expected not to return.
func NewStack(onEmpty func()) *Stack {
	return &Stack{onEmpty: onEmpty}
}

// Save issues a fresh token for a try scope entered at file:line. The token
// is not on the stack until it is pushed.
func (s *Stack) Save(file string, line int) Env {
	s.nextID++
	return Env{ID: s.nextID, File: file, Line: line}
}

// Push stores e at the top of the stack. Only freshly saved tokens are
// stored; a token handed back by a resumed jump is ignored, so re-entering a
// try site through unwinding never saves its environment twice. Push reports
// whether the token was stored.
//
// Try always passes fresh tokens: a transfer returns through the Try call as
// a *Signal instead of re-entering the try site, so the resumed case never
// arises there. The flag covers callers that drive Save and Push from their
// own resumption loop.
func (s *Stack) Push(e Env, fresh bool) bool {
	if !fresh || e.IsZero() {
		return false
	}
	s.envs = append(s.envs, e)
	return true
}

// Pop discards the most recent environment without resuming it. It is used
// when a try scope completes normally.
func (s *Stack) Pop() (Env, bool) {
	n := len(s.envs)
	if n == 0 {
		return Env{}, false
	}
	e := s.envs[n-1]
	s.envs = s.envs[:n-1]
	return e, true
}

// Top returns the most recent environment without removing it.
func (s *Stack) Top() (Env, bool) {
	if len(s.envs) == 0 {
		return Env{}, false
	}
	return s.envs[len(s.envs)-1], true
}

// IsTop reports whether e is the most recent environment.
func (s *Stack) IsTop(e Env) bool {
	top, ok := s.Top()
	return ok && top.ID == e.ID
}

// Jump removes the most recent environment and returns it as the target of
// the control transfer. With no environment saved, the empty-stack handler
// runs; if it returns, Jump reports ErrEmpty.
func (s *Stack) Jump() (Env, error) {
	if e, ok := s.Pop(); ok {
		return e, nil
	}
	if s.onEmpty != nil {
		s.onEmpty()
	}
	return Env{}, ErrEmpty
}

// Len returns the number of saved environments.
func (s *Stack) Len() int {
	return len(s.envs)
}

// Empty reports whether no environment is saved.
func (s *Stack) Empty() bool {
	return len(s.envs) == 0
}

// Clear discards every saved environment.
func (s *Stack) Clear() {
	s.envs = s.envs[:0]
}

// Release discards every saved environment and the backing storage.
func (s *Stack) Release() {
	s.envs = nil
}

package tryenv

import "github.com/deepnoodle-ai/tryenv/exception"

// ThrowEvent describes a record pushed by a throw.
type ThrowEvent struct {
	Record exception.Record
	Depth  int // active try scopes before the jump
}

// CatchEvent describes a handler claiming an exception.
type CatchEvent struct {
	Code     int
	Handler  int // index of the handler passed to Except
	Location exception.Location
	Depth    int
}

// PropagateEvent describes an exception leaving a scope that did not
// handle it.
type PropagateEvent struct {
	Code     int
	Location exception.Location
	Depth    int
}

// UncaughtEvent describes a throw that found no enclosing Try.
type UncaughtEvent struct {
	Records []exception.Record
}

// Observer is an interface for observing exception events. Implementations
// can embed NoOpObserver and override only the methods they need.
//
// Observer methods are called synchronously from the thread of control that
// raised the event.
type Observer interface {
	// OnThrow is called after a record is pushed and before control transfers.
	OnThrow(event ThrowEvent)

	// OnCatch is called before a matching handler body runs.
	OnCatch(event CatchEvent)

	// OnPropagate is called when no handler of a scope matched.
	OnPropagate(event PropagateEvent)

	// OnUncaught is called before the fatal handler runs.
	OnUncaught(event UncaughtEvent)
}

// NoOpObserver implements Observer with methods that do nothing.
type NoOpObserver struct{}

func (NoOpObserver) OnThrow(ThrowEvent)         {}
func (NoOpObserver) OnCatch(CatchEvent)         {}
func (NoOpObserver) OnPropagate(PropagateEvent) {}
func (NoOpObserver) OnUncaught(UncaughtEvent)   {}

package exception

import (
	"io"
)

// Stack is a last-in-first-out stack of exception records. The zero value is
// an empty stack ready for use. A Stack is not safe for concurrent use; each
// thread of control owns its own.
//
// Records are held by value in a slice that keeps its capacity across Clear,
// so a stack reused for many throws stops allocating once it has grown to its
// working depth.
type Stack struct {
	records []Record // oldest first
}

// Push records a new thrown exception at the top of the stack.
func (s *Stack) Push(loc Location, code int, message string) {
	s.PushRecord(Record{
		Location: loc,
		Code:     code,
		Message:  message,
		Kind:     Thrown,
	})
}

// PushRecord places rec at the top of the stack.
func (s *Stack) PushRecord(rec Record) {
	s.records = append(s.records, rec)
}

// Empty reports whether the stack holds no records.
func (s *Stack) Empty() bool {
	return len(s.records) == 0
}

// Len returns the number of records on the stack.
func (s *Stack) Len() int {
	return len(s.records)
}

// Top returns the most recent record without removing it.
func (s *Stack) Top() (Record, bool) {
	if len(s.records) == 0 {
		return Record{}, false
	}
	return s.records[len(s.records)-1], true
}

// Errno returns the code of the most recent thrown record, or 0 if there is
// none. Frame records are skipped so an exception keeps its code while it
// falls through scopes that do not handle it.
func (s *Stack) Errno() int {
	rec, _ := s.Current()
	return rec.Code
}

// Current returns the most recent thrown record, skipping frame records.
func (s *Stack) Current() (Record, bool) {
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].Kind != Frame {
			return s.records[i], true
		}
	}
	return Record{}, false
}

// Contains reports whether a record with the same location, code, message,
// and kind as rec is on the stack.
func (s *Stack) Contains(rec Record) bool {
	for i := len(s.records) - 1; i >= 0; i-- {
		r := s.records[i]
		if r.Location == rec.Location && r.Code == rec.Code &&
			r.Message == rec.Message && r.Kind == rec.Kind {
			return true
		}
	}
	return false
}

// Pop removes and returns the most recent record.
func (s *Stack) Pop() (Record, bool) {
	n := len(s.records)
	if n == 0 {
		return Record{}, false
	}
	rec := s.records[n-1]
	s.records[n-1] = Record{}
	s.records = s.records[:n-1]
	return rec, true
}

// Clear discards every record.
func (s *Stack) Clear() {
	clear(s.records)
	s.records = s.records[:0]
}

// Release discards every record and the backing storage.
func (s *Stack) Release() {
	s.records = nil
}

// Records returns a copy of the records, most recent first.
func (s *Stack) Records() []Record {
	if len(s.records) == 0 {
		return nil
	}
	out := make([]Record, len(s.records))
	for i, rec := range s.records {
		out[len(out)-1-i] = rec
	}
	return out
}

// Render returns the trace of every record in the given order, one line per
// record. An empty stack renders as the empty string.
func (s *Stack) Render(order Order) string {
	return (&Formatter{Order: order}).format(s.records)
}

// Dump writes the rendered trace to w.
func (s *Stack) Dump(w io.Writer, order Order) error {
	if len(s.records) == 0 {
		return nil
	}
	_, err := io.WriteString(w, s.Render(order))
	return err
}

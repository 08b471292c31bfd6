package exception

import (
	"encoding/json"
	"errors"
	"fmt"
	"syscall"
)

// Unclassified is the code given to Go errors that carry no errno-like
// classification of their own.
const Unclassified = -1

// Kind distinguishes records created by a throw from records added while an
// exception falls through a handler scope that did not claim it.
type Kind uint8

const (
	// Thrown marks a record pushed by a throw or a re-throw.
	Thrown Kind = iota
	// Frame marks a code-0 record added at a handler site that let the
	// exception propagate outward.
	Frame
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case Thrown:
		return "thrown"
	case Frame:
		return "frame"
	default:
		return "unknown"
	}
}

// Record describes one thrown error. An empty Message means the throw
// supplied no message.
type Record struct {
	Location
	Code    int
	Message string
	Kind    Kind
	Cause   error
}

// HasMessage reports whether the record was thrown with a message.
func (r Record) HasMessage() bool {
	return r.Message != ""
}

// String renders the record as a single trace line, without a newline.
func (r Record) String() string {
	if !r.HasMessage() {
		return fmt.Sprintf("at %s:%d in %s()", r.File, r.Line, r.Function)
	}
	return fmt.Sprintf("at %s:%d in %s(): %s (%d)", r.File, r.Line, r.Function, r.Message, r.Code)
}

// Error implements the error interface.
func (r Record) Error() string {
	if !r.HasMessage() {
		return fmt.Sprintf("exception %d %s", r.Code, r.String())
	}
	return r.String()
}

// Unwrap returns the Go error the record was raised from, if any.
func (r Record) Unwrap() error {
	return r.Cause
}

type recordJSON struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Function string `json:"function"`
	Code     int    `json:"code"`
	Message  string `json:"message,omitempty"`
	Kind     string `json:"kind"`
	Cause    string `json:"cause,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	out := recordJSON{
		File:     r.File,
		Line:     r.Line,
		Function: r.Function,
		Code:     r.Code,
		Message:  r.Message,
		Kind:     r.Kind.String(),
	}
	if r.Cause != nil {
		out.Cause = r.Cause.Error()
	}
	return json.Marshal(out)
}

// Coder is implemented by errors that carry their own exception code.
type Coder interface {
	Code() int
}

// CodeOf classifies a Go error. A syscall.Errno anywhere in the chain yields
// its numeric value, an error implementing Coder yields its code, and
// anything else is Unclassified. A nil error has code 0.
func CodeOf(err error) int {
	if err == nil {
		return 0
	}
	var rec Record
	if errors.As(err, &rec) {
		return rec.Code
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return int(errno)
	}
	var coder Coder
	if errors.As(err, &coder) {
		return coder.Code()
	}
	return Unclassified
}

// FromError builds a thrown record for err at loc. If err already wraps a
// Record, that record is returned unchanged so its original location is kept.
func FromError(loc Location, err error) Record {
	var rec Record
	if errors.As(err, &rec) {
		return rec
	}
	return Record{
		Location: loc,
		Code:     CodeOf(err),
		Message:  err.Error(),
		Kind:     Thrown,
		Cause:    err,
	}
}

// Package exception implements the exception stack: a most-recent-first record
// of thrown errors, each carrying the file, line, and function that raised it.
package exception

import (
	"fmt"
	"runtime"
	"strings"
)

// Location represents the source position that recorded an exception.
type Location struct {
	File     string
	Line     int
	Function string
}

// String returns the location in the "file:line in function()" form used by
// rendered traces.
func (l Location) String() string {
	return fmt.Sprintf("%s:%d in %s()", l.File, l.Line, l.Function)
}

// IsZero returns true if the location has not been set.
func (l Location) IsZero() bool {
	return l.File == "" && l.Line == 0 && l.Function == ""
}

// Caller returns the location of the caller of the function that calls Caller,
// skipping an additional skip frames. Caller(0) inside Throw reports the line
// that called Throw.
func Caller(skip int) Location {
	var pcs [1]uintptr
	// runtime.Callers, Caller, and the function asking for its caller.
	if runtime.Callers(skip+3, pcs[:]) == 0 {
		return Location{File: "???", Function: "???"}
	}
	frame, _ := runtime.CallersFrames(pcs[:]).Next()
	return Location{
		File:     frame.File,
		Line:     frame.Line,
		Function: shortFuncName(frame.Function),
	}
}

// shortFuncName strips the import path and package name from a fully
// qualified function name: "example.com/a/b.(*T).m" becomes "(*T).m".
func shortFuncName(name string) string {
	if name == "" {
		return "???"
	}
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

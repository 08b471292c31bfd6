package exception

import (
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// Order selects the order in which a trace lists its records.
type Order uint8

const (
	// NewestFirst lists the most recent record first.
	NewestFirst Order = iota
	// OldestFirst lists the original cause first.
	OldestFirst
)

// String returns the string representation of the order.
func (o Order) String() string {
	switch o {
	case NewestFirst:
		return "newest"
	case OldestFirst:
		return "oldest"
	default:
		return "unknown"
	}
}

// ParseOrder converts "newest" or "oldest" to an Order.
func ParseOrder(s string) (Order, bool) {
	switch strings.ToLower(s) {
	case "", "newest", "newest-first":
		return NewestFirst, true
	case "oldest", "oldest-first", "cause-first":
		return OldestFirst, true
	default:
		return NewestFirst, false
	}
}

// Colors used for trace formatting
var (
	colorLocation = color.New(color.FgCyan)
	colorFunction = color.New(color.FgHiWhite)
	colorMessage  = color.New(color.FgRed)
	colorCode     = color.New(color.FgHiBlack)
)

func init() {
	// Whether to emit escapes is decided per Formatter, not by the global
	// terminal detection in the color package.
	for _, c := range []*color.Color{colorLocation, colorFunction, colorMessage, colorCode} {
		c.EnableColor()
	}
}

// Formatter renders exception traces in the standard
// "at <file>:<line> in <function>(): <message> (<code>)" format.
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool
	// Order selects newest-first or oldest-first listing.
	Order Order
}

// NewFormatter creates a new trace formatter.
func NewFormatter(useColor bool, order Order) *Formatter {
	return &Formatter{UseColor: useColor, Order: order}
}

// Format renders records given most recent first, as returned by
// Stack.Records.
func (f *Formatter) Format(records []Record) string {
	oldest := make([]Record, len(records))
	for i, rec := range records {
		oldest[len(oldest)-1-i] = rec
	}
	return f.format(oldest)
}

// format renders records stored oldest first.
func (f *Formatter) format(records []Record) string {
	if len(records) == 0 {
		return ""
	}
	var b strings.Builder
	if f.Order == OldestFirst {
		for _, rec := range records {
			f.writeRecord(&b, rec)
		}
	} else {
		for i := len(records) - 1; i >= 0; i-- {
			f.writeRecord(&b, records[i])
		}
	}
	return b.String()
}

func (f *Formatter) writeRecord(b *strings.Builder, rec Record) {
	b.WriteString("at ")
	f.write(b, colorLocation, rec.File+":"+strconv.Itoa(rec.Line))
	b.WriteString(" in ")
	f.write(b, colorFunction, rec.Function+"()")
	if rec.HasMessage() {
		b.WriteString(": ")
		f.write(b, colorMessage, rec.Message)
		b.WriteString(" ")
		f.write(b, colorCode, "("+strconv.Itoa(rec.Code)+")")
	}
	b.WriteString("\n")
}

func (f *Formatter) write(b *strings.Builder, c *color.Color, s string) {
	if f.UseColor {
		b.WriteString(c.Sprint(s))
	} else {
		b.WriteString(s)
	}
}

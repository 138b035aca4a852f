// Package bufwriter accumulates rendered SQL text for the dialect renderers.
package bufwriter

import (
	"fmt"
	"strings"
)

// Writer is a line oriented string buffer. The zero value is ready to use.
type Writer struct {
	sb strings.Builder
}

// Write appends s as is.
func (w *Writer) Write(s string) {
	w.sb.WriteString(s)
}

// Writef appends a formatted string.
func (w *Writer) Writef(format string, args ...any) {
	fmt.Fprintf(&w.sb, format, args...)
}

// WriteLine appends s followed by a newline.
func (w *Writer) WriteLine(s string) {
	w.sb.WriteString(s)
	w.sb.WriteByte('\n')
}

// WriteLinef appends a formatted line followed by a newline.
func (w *Writer) WriteLinef(format string, args ...any) {
	fmt.Fprintf(&w.sb, format, args...)
	w.sb.WriteByte('\n')
}

// String returns everything written since the last Reset.
func (w *Writer) String() string {
	return w.sb.String()
}

// Reset discards the buffered output.
func (w *Writer) Reset() {
	w.sb.Reset()
}

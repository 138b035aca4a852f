// Package ui prints the progress of CLI commands.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Console writes user facing messages. Info, progress and success messages
// go to out and are suppressed when quiet; warnings and errors go to errOut.
type Console struct {
	out    io.Writer
	errOut io.Writer
	quiet  bool
	depth  int

	info    *color.Color
	success *color.Color
	warn    *color.Color
	err     *color.Color
	faint   *color.Color
}

// New creates a console. Colors are disabled when noColor is set.
func New(out, errOut io.Writer, noColor, quiet bool) *Console {
	c := &Console{
		out:     out,
		errOut:  errOut,
		quiet:   quiet,
		info:    color.New(color.FgCyan),
		success: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		err:     color.New(color.FgRed, color.Bold),
		faint:   color.New(color.FgHiBlack),
	}
	for _, col := range []*color.Color{c.info, c.success, c.warn, c.err, c.faint} {
		if noColor {
			col.DisableColor()
		} else {
			col.EnableColor()
		}
	}
	return c
}

// Indent nests the following messages one level deeper
func (c *Console) Indent() {
	c.depth++
}

// Outdent undoes one Indent
func (c *Console) Outdent() {
	if c.depth > 0 {
		c.depth--
	}
}

// Info announces a step
func (c *Console) Info(format string, args ...any) {
	c.print(c.out, c.info, "ℹ", format, args...)
}

// Log reports progress within a step
func (c *Console) Log(format string, args ...any) {
	c.print(c.out, c.faint, "·", format, args...)
}

// Success reports a completed step
func (c *Console) Success(format string, args ...any) {
	c.print(c.out, c.success, "✓", format, args...)
}

// Warn reports a problem that did not stop the command
func (c *Console) Warn(format string, args ...any) {
	c.write(c.errOut, c.warn, "!", fmt.Sprintf(format, args...))
}

// Error reports the error a command failed with
func (c *Console) Error(err error) {
	c.write(c.errOut, c.err, "✗", err.Error())
}

// Println writes a plain line to out, regardless of quiet
func (c *Console) Println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) print(w io.Writer, col *color.Color, icon, format string, args ...any) {
	if c.quiet {
		return
	}
	c.write(w, col, icon, fmt.Sprintf(format, args...))
}

func (c *Console) write(w io.Writer, col *color.Color, icon, msg string) {
	indent := strings.Repeat("  ", c.depth)
	lines := strings.Split(msg, "\n")
	fmt.Fprintf(w, "%s%s %s\n", indent, col.Sprint(icon), lines[0])
	for _, line := range lines[1:] {
		fmt.Fprintf(w, "%s  %s\n", indent, line)
	}
}

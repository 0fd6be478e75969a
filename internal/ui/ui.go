// Package ui provides stderr-based status output for the sysarch CLI.
package ui

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/papapumpkin/sysarch/internal/ansi"
	"github.com/papapumpkin/sysarch/internal/model"
)

// Printer writes short status lines for humans. Command results go to
// stdout through the render package; everything a Printer writes is
// commentary about them.
type Printer struct {
	w     io.Writer
	color bool
}

// New returns a Printer writing to w. Colour is used only when color is set.
func New(w io.Writer, color bool) *Printer {
	return &Printer{w: w, color: color}
}

// NewStderr returns a Printer on os.Stderr, coloured when wantColor is set
// and stderr is a terminal.
func NewStderr(wantColor bool) *Printer {
	return New(os.Stderr, wantColor && IsTerminal(os.Stderr))
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Color reports whether the printer emits ANSI codes.
func (p *Printer) Color() bool { return p.color }

func (p *Printer) paint(codes, s string) string {
	if !p.color {
		return s
	}
	return ansi.Wrap(codes, s)
}

// Created reports a new entity.
func (p *Printer) Created(kind string, id int64, name string) {
	if name == "" {
		fmt.Fprintf(p.w, "%s %s %s\n", p.paint(ansi.Green+ansi.Bold, "✓ created"), kind, p.paint(ansi.Bold, fmt.Sprintf("#%d", id)))
		return
	}
	fmt.Fprintf(p.w, "%s %s %s %s\n", p.paint(ansi.Green+ansi.Bold, "✓ created"), kind,
		p.paint(ansi.Bold, fmt.Sprintf("#%d", id)), p.paint(ansi.Dim, fmt.Sprintf("(%s)", name)))
}

// Deleted reports a removed entity.
func (p *Printer) Deleted(kind string, id int64) {
	fmt.Fprintf(p.w, "%s %s %s\n", p.paint(ansi.Yellow+ansi.Bold, "✓ deleted"), kind, p.paint(ansi.Bold, fmt.Sprintf("#%d", id)))
}

// Success prints a green check line.
func (p *Printer) Success(msg string) {
	fmt.Fprintf(p.w, "%s %s\n", p.paint(ansi.Green+ansi.Bold, "✓"), msg)
}

// Info prints a dimmed informational line.
func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.w, p.paint(ansi.Dim, msg))
}

// Warn prints a yellow warning line.
func (p *Printer) Warn(msg string) {
	fmt.Fprintf(p.w, "%s %s\n", p.paint(ansi.Yellow+ansi.Bold, "⚠"), msg)
}

// Error prints a red error line.
func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.w, "%s%s\n", p.paint(ansi.Red+ansi.Bold, "error: "), msg)
}

// Err prints err. Validation failures are shown with their category.
func (p *Printer) Err(err error) {
	var v *model.Violation
	if errors.As(err, &v) {
		p.Error(fmt.Sprintf("%s %s", v.Reason, p.paint(ansi.Dim, "["+string(v.Category)+"]")))
		return
	}
	p.Error(err.Error())
}

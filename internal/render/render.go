// Package render writes traversal, lookup and audit results in one of three
// formats: indented text for people, JSON and YAML for tools.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Format selects the output encoding.
type Format string

// Supported formats.
const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case Text, JSON, YAML:
		return f, nil
	}
	return "", fmt.Errorf("render: unsupported format %q (want text, json or yaml)", s)
}

// rule separates a text heading from its rows.
const rule = "--------------------------------------------------------------------------------"

// styles are the text-mode styles. All are empty when colour is off.
type styles struct {
	heading  lipgloss.Style
	assembly lipgloss.Style
	part     lipgloss.Style
	instance lipgloss.Style
	muted    lipgloss.Style
	danger   lipgloss.Style
	ok       lipgloss.Style
	branch   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer, color bool) styles {
	if !color {
		plain := r.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain, plain, plain}
	}
	return styles{
		heading:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#00BFFF")),
		assembly: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF")),
		part:     r.NewStyle().Foreground(lipgloss.Color("#EEEEEE")),
		instance: r.NewStyle().Foreground(lipgloss.Color("#FFD700")),
		muted:    r.NewStyle().Foreground(lipgloss.Color("#8C8C8C")),
		danger:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5252")),
		ok:       r.NewStyle().Foreground(lipgloss.Color("#00E676")),
		branch:   r.NewStyle().Foreground(lipgloss.Color("#636363")),
	}
}

// Renderer writes results to w in a fixed format.
type Renderer struct {
	w      io.Writer
	format Format
	st     styles
}

// New returns a Renderer. color only affects the text format.
func New(w io.Writer, format Format, color bool) *Renderer {
	lr := lipgloss.NewRenderer(w)
	if color {
		// w may be a buffer bound for the terminal.
		lr = lipgloss.DefaultRenderer()
	}
	return &Renderer{
		w:      w,
		format: format,
		st:     newStyles(lr, color),
	}
}

// Format returns the renderer's output format.
func (r *Renderer) Format() Format { return r.format }

// encode writes v in the structured formats. It reports false for text so
// the caller falls through to its own layout.
func (r *Renderer) encode(v any) (bool, error) {
	switch r.format {
	case JSON:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return true, fmt.Errorf("render: encode json: %w", err)
		}
		return true, nil
	case YAML:
		enc := yaml.NewEncoder(r.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, fmt.Errorf("render: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return true, fmt.Errorf("render: encode yaml: %w", err)
		}
		return true, nil
	}
	return false, nil
}

// nonNil returns s, or an empty slice when s is nil, so empty results encode
// as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (r *Renderer) printf(format string, args ...any) {
	fmt.Fprintf(r.w, format, args...)
}

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// CompactWidth is the terminal width below which the footer drops
// descriptions and the status bar drops its counts.
const CompactWidth = 60

// KeyMap holds the browser's key bindings.
type KeyMap struct {
	Up, Down    key.Binding
	Top, Bottom key.Binding
	Enter, Back key.Binding
	Refresh     key.Binding
	Quit        key.Binding
}

func bind(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// DefaultKeyMap returns vi-style bindings with arrow-key alternatives.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:      bind("↑/k", "up", "up", "k"),
		Down:    bind("↓/j", "down", "down", "j"),
		Top:     bind("g", "first", "home", "g"),
		Bottom:  bind("G", "last", "end", "G"),
		Enter:   bind("enter", "tree", "enter"),
		Back:    bind("esc", "back", "esc", "backspace"),
		Refresh: bind("r", "refresh", "r"),
		Quit:    bind("q", "quit", "q", "ctrl+c"),
	}
}

// Hints returns the bindings the footer advertises on screen s.
func (km KeyMap) Hints(s Screen) []key.Binding {
	if s == ScreenTree {
		return []key.Binding{km.Up, km.Down, km.Back, km.Refresh, km.Quit}
	}
	return []key.Binding{km.Up, km.Down, km.Top, km.Bottom, km.Enter, km.Refresh, km.Quit}
}

// Footer is the one-line key hint bar at the bottom of the screen.
type Footer struct {
	Width    int
	Bindings []key.Binding
}

// View renders enabled bindings as "key:desc" pairs, or bare keys when the
// terminal is narrower than CompactWidth.
func (f Footer) View() string {
	compact := f.Width < CompactWidth
	gap := "  "
	if compact {
		gap = " "
	}

	hints := make([]string, 0, len(f.Bindings))
	for _, b := range f.Bindings {
		if !b.Enabled() {
			continue
		}
		h := styleHintKey.Render(b.Help().Key)
		if !compact {
			h += styleHintSep.Render(":") + styleHintDesc.Render(b.Help().Desc)
		}
		hints = append(hints, h)
	}
	return styleHintBar.Width(f.Width).Render(strings.Join(hints, styleHintSep.Render(gap)))
}

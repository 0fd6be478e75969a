package tui

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/papapumpkin/sysarch/internal/store"
)

// StatusBar renders the top bar: database name, row counts and file size.
type StatusBar struct {
	Path  string
	Stats store.Stats
	Size  int64
	Width int
	Err   error
}

// statusCounts lists the tables summarised in the bar, in display order.
var statusCounts = []struct{ table, label string }{
	{"assemblies", "assemblies"},
	{"parts", "parts"},
	{"assembly_items", "items"},
	{"connectors", "connectors"},
}

// View renders the status bar as a single line.
func (s StatusBar) View() string {
	left := styleBarLabel.Render("sysarch") + " " + filepath.Base(s.Path)

	var segs []string
	if s.Width >= CompactWidth && s.Stats != nil {
		for _, c := range statusCounts {
			segs = append(segs, styleBarCount.Render(humanize.Comma(s.Stats[c.table]))+" "+c.label)
		}
	}
	segs = append(segs, humanize.Bytes(uint64(max(s.Size, 0))))
	right := strings.Join(segs, " · ")
	if s.Err != nil {
		right = styleError.Render("error: "+s.Err.Error()) + "  " + right
	}

	const barPadding = 2
	gap := s.Width - barPadding - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return styleBar.Width(s.Width).Render(left + strings.Repeat(" ", gap) + right)
}

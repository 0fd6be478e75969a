package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// TreePanel wraps a viewport for the scrollable hierarchy of one assembly.
type TreePanel struct {
	viewport   viewport.Model
	title      string
	totalLines int
}

// NewTreePanel creates a panel with the given dimensions.
func NewTreePanel(width, height int) TreePanel {
	vp := viewport.New(width, height)
	vp.SetContent("")
	return TreePanel{viewport: vp}
}

// SetSize updates the viewport dimensions.
func (p *TreePanel) SetSize(width, height int) {
	p.viewport.Width = width
	p.viewport.Height = height
}

// SetContent replaces the displayed tree. keepOffset preserves the scroll
// position, for refreshes of the same assembly.
func (p *TreePanel) SetContent(title, content string, keepOffset bool) {
	p.title = title
	p.totalLines = strings.Count(content, "\n") + 1
	p.viewport.SetContent(content)
	if !keepOffset {
		p.viewport.GotoTop()
	}
}

// Update handles scroll keys. Home/g and End/G jump to the ends.
func (p *TreePanel) Update(msg tea.Msg) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "home", "g":
			p.viewport.GotoTop()
			return
		case "end", "G":
			p.viewport.GotoBottom()
			return
		}
	}
	p.viewport, _ = p.viewport.Update(msg)
}

// View renders the panel with a rounded border and scroll indicators.
func (p TreePanel) View() string {
	var b strings.Builder
	if p.title != "" {
		b.WriteString(styleTreeTitle.Render(p.title))
		b.WriteString("\n")
	}
	if up := p.viewport.YOffset; up > 0 {
		b.WriteString(styleScrollPos.Render(fmt.Sprintf("↑ %d more", up)))
		b.WriteString("\n")
	}
	b.WriteString(p.viewport.View())
	if down := p.totalLines - p.viewport.YOffset - p.viewport.Height; down > 0 {
		b.WriteString("\n")
		b.WriteString(styleScrollPos.Render(fmt.Sprintf("↓ %d more", down)))
	}
	return styleTreeFrame.Render(b.String())
}

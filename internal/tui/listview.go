package tui

import (
	"fmt"
	"strings"

	"github.com/papapumpkin/sysarch/internal/model"
)

// AssemblyList renders the selectable list of assemblies.
type AssemblyList struct {
	Items  []model.Assembly
	Cursor int
	Width  int
	Height int
	offset int
}

// SetItems replaces the list contents, keeping the cursor in range.
func (l *AssemblyList) SetItems(items []model.Assembly) {
	l.Items = items
	l.clamp()
}

// MoveUp moves the cursor up one row.
func (l *AssemblyList) MoveUp() {
	l.Cursor--
	l.clamp()
}

// MoveDown moves the cursor down one row.
func (l *AssemblyList) MoveDown() {
	l.Cursor++
	l.clamp()
}

// MoveTo puts the cursor on row i, clamped to the list.
func (l *AssemblyList) MoveTo(i int) {
	l.Cursor = i
	l.clamp()
}

// Selected returns the assembly under the cursor.
func (l AssemblyList) Selected() (model.Assembly, bool) {
	if len(l.Items) == 0 {
		return model.Assembly{}, false
	}
	return l.Items[l.Cursor], true
}

func (l *AssemblyList) clamp() {
	l.Cursor = max(0, min(l.Cursor, len(l.Items)-1))
	if l.Height <= 0 {
		l.offset = 0
		return
	}
	if l.Cursor < l.offset {
		l.offset = l.Cursor
	}
	if l.Cursor >= l.offset+l.Height {
		l.offset = l.Cursor - l.Height + 1
	}
}

// View renders the visible rows.
func (l AssemblyList) View() string {
	if len(l.Items) == 0 {
		return styleDim.Render("No assemblies in catalog. Create one with sysarch add-assembly.")
	}
	end := len(l.Items)
	if l.Height > 0 {
		end = min(end, l.offset+l.Height)
	}

	var b strings.Builder
	for i := l.offset; i < end; i++ {
		a := l.Items[i]
		detail := styleRowMeta.Render(fmt.Sprintf("  #%d %s", a.ID, a.FileLocation))
		if i == l.Cursor {
			b.WriteString(styleCursorMark.Render(cursorMark))
			b.WriteString(styleCursorRow.Render(a.Name))
		} else {
			b.WriteString(" ")
			b.WriteString(styleRow.Render(a.Name))
		}
		b.WriteString(detail)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

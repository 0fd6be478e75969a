// Package tui is a terminal browser for the assembly catalog: a list of
// assemblies and a scrollable containment tree for the selected one. It
// reloads whenever the database changes on disk.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the browser on the alternate screen until the user quits or
// ctx is cancelled. Extra program options (input, output) are appended
// after the defaults.
func Run(ctx context.Context, src Source, opts Options, extra ...tea.ProgramOption) error {
	progOpts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, extra...)
	p := tea.NewProgram(NewModel(ctx, src, opts), progOpts...)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

package tui

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/sysarch/internal/hierarchy"
	"github.com/papapumpkin/sysarch/internal/model"
	"github.com/papapumpkin/sysarch/internal/render"
	"github.com/papapumpkin/sysarch/internal/store"
	"github.com/papapumpkin/sysarch/internal/watch"
)

// Source is the read surface the browser needs.
type Source interface {
	hierarchy.Source
	ListAssemblies(ctx context.Context) ([]model.Assembly, error)
	Stats(ctx context.Context) (store.Stats, error)
}

// Options configures a browser Model.
type Options struct {
	// Path is the database file, used for the title and the size readout.
	Path string
	// Changes, when set, triggers a reload on every catalog change.
	Changes <-chan watch.Change
	// Color enables styled tree rendering.
	Color bool
}

// Screen identifies which view the browser shows.
type Screen int

const (
	ScreenList Screen = iota // assembly list
	ScreenTree               // tree of the selected assembly
)

// Messages produced by the browser's commands.
type (
	msgCatalog struct {
		assemblies []model.Assembly
		stats      store.Stats
		size       int64
		err        error
	}
	msgTree struct {
		id      int64
		title   string
		content string
		err     error
	}
	msgChanged struct{}
)

// Model is the browser's bubbletea model: an assembly list and a tree view
// of the selected assembly.
type Model struct {
	Keys      KeyMap
	List      AssemblyList
	Tree      TreePanel
	StatusBar StatusBar
	Footer    Footer
	Screen    Screen

	ctx    context.Context
	src    Source
	opts   Options
	treeID int64
	width  int
	height int
}

// NewModel returns a browser over src.
func NewModel(ctx context.Context, src Source, opts Options) Model {
	km := DefaultKeyMap()
	return Model{
		Keys:      km,
		Tree:      NewTreePanel(80, 20),
		StatusBar: StatusBar{Path: opts.Path, Width: 80},
		Footer:    Footer{Width: 80, Bindings: km.Hints(ScreenList)},
		ctx:       ctx,
		src:       src,
		opts:      opts,
		width:     80,
		height:    24,
	}
}

// Init loads the catalog and starts listening for changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCatalog(), m.waitForChange())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case msgCatalog:
		if msg.err != nil {
			m.StatusBar.Err = msg.err
			return m, nil
		}
		m.StatusBar.Err = nil
		m.StatusBar.Stats = msg.stats
		m.StatusBar.Size = msg.size
		m.List.SetItems(msg.assemblies)
		if m.Screen == ScreenTree {
			return m, m.loadTree(m.treeID)
		}
		return m, nil

	case msgTree:
		if msg.err != nil {
			m.StatusBar.Err = msg.err
			m.Screen = ScreenList
			m.Footer.Bindings = m.Keys.Hints(ScreenList)
			return m, nil
		}
		refresh := m.Screen == ScreenTree && m.treeID == msg.id
		m.treeID = msg.id
		m.Tree.SetContent(msg.title, msg.content, refresh)
		m.Screen = ScreenTree
		m.Footer.Bindings = m.Keys.Hints(ScreenTree)
		return m, nil

	case msgChanged:
		return m, tea.Batch(m.loadCatalog(), m.waitForChange())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Refresh):
		return m, m.loadCatalog()
	}

	if m.Screen == ScreenTree {
		if key.Matches(msg, m.Keys.Back) {
			m.Screen = ScreenList
			m.Footer.Bindings = m.Keys.Hints(ScreenList)
			return m, nil
		}
		m.Tree.Update(msg)
		return m, nil
	}

	switch {
	case key.Matches(msg, m.Keys.Up):
		m.List.MoveUp()
	case key.Matches(msg, m.Keys.Down):
		m.List.MoveDown()
	case key.Matches(msg, m.Keys.Top):
		m.List.MoveTo(0)
	case key.Matches(msg, m.Keys.Bottom):
		m.List.MoveTo(len(m.List.Items) - 1)
	case key.Matches(msg, m.Keys.Enter):
		if a, ok := m.List.Selected(); ok {
			return m, m.loadTree(a.ID)
		}
	}
	return m, nil
}

// resize lays out the views: status bar, body, footer with its border.
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.StatusBar.Width = width
	m.Footer.Width = width
	body := max(height-3, 1)
	m.List.Width = width
	m.List.Height = body
	m.List.clamp()
	// Border (2) and title (1) around the tree viewport.
	m.Tree.SetSize(max(width-4, 1), max(body-3, 1))
}

// View renders the full screen.
func (m Model) View() string {
	body := m.List.View()
	if m.Screen == ScreenTree {
		body = m.Tree.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.StatusBar.View(), body, m.Footer.View())
}

func (m Model) loadCatalog() tea.Cmd {
	ctx, src, path := m.ctx, m.src, m.opts.Path
	return func() tea.Msg {
		as, err := src.ListAssemblies(ctx)
		if err != nil {
			return msgCatalog{err: err}
		}
		stats, err := src.Stats(ctx)
		if err != nil {
			return msgCatalog{err: err}
		}
		return msgCatalog{assemblies: as, stats: stats, size: dbSize(path)}
	}
}

func (m Model) loadTree(id int64) tea.Cmd {
	ctx, src, color := m.ctx, m.src, m.opts.Color
	return func() tea.Msg {
		root, err := hierarchy.BuildTree(ctx, src, id)
		if err != nil {
			return msgTree{id: id, err: err}
		}
		if root == nil {
			return msgTree{id: id, err: fmt.Errorf("assembly %d: %w", id, model.ErrNotFound)}
		}
		var buf bytes.Buffer
		if err := render.New(&buf, render.Text, color).Tree(root); err != nil {
			return msgTree{id: id, err: err}
		}
		return msgTree{
			id:      id,
			title:   fmt.Sprintf("%s (assembly %d)", root.Name, root.ID),
			content: buf.String(),
		}
	}
}

func (m Model) waitForChange() tea.Cmd {
	ch := m.opts.Changes
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return msgChanged{}
	}
}

// dbSize sums the database file and its WAL. Missing files count as zero.
func dbSize(path string) int64 {
	if path == "" {
		return 0
	}
	var total int64
	for _, p := range []string{path, path + "-wal"} {
		if fi, err := os.Stat(p); err == nil {
			total += fi.Size()
		}
	}
	return total
}

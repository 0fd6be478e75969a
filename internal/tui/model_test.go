package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/sysarch/internal/model"
	"github.com/papapumpkin/sysarch/internal/store"
	"github.com/papapumpkin/sysarch/internal/watch"
)

// testCatalog opens a store holding a table (leg instance) inside a room.
func testCatalog(t *testing.T) (*store.Store, int64, int64) {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.db")
	st, err := store.Open(ctx, path, nil)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	must := func(id int64, err error) int64 {
		t.Helper()
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		return id
	}
	leg := must(st.CreatePart(ctx, model.Part{Name: "leg", FileLocation: "leg.step"}))
	table := must(st.CreateAssembly(ctx, model.Assembly{Name: "table", FileLocation: "table.asm"}))
	room := must(st.CreateAssembly(ctx, model.Assembly{Name: "room", FileLocation: "room.asm"}))
	must(st.CreateAssemblyItem(ctx, model.AssemblyItem{AssemblyID: table, PartID: model.ID(leg), InstanceName: "leg1"}))
	must(st.CreateAssemblyItem(ctx, model.AssemblyItem{AssemblyID: room, SubAssemblyID: model.ID(table), InstanceName: "table1"}))
	return st, table, room
}

// run executes cmd and feeds its message back into m.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	next, _ := m.Update(cmd())
	return next.(Model)
}

func press(m Model, keys string) (Model, tea.Cmd) {
	var msg tea.KeyMsg
	switch keys {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestModel_LoadsCatalog(t *testing.T) {
	t.Parallel()
	st, _, _ := testCatalog(t)

	m := NewModel(context.Background(), st, Options{Path: st.Path()})
	m = run(t, m, m.loadCatalog())

	if len(m.List.Items) != 2 {
		t.Fatalf("list has %d assemblies, want 2", len(m.List.Items))
	}
	if m.StatusBar.Stats["parts"] != 1 || m.StatusBar.Size <= 0 {
		t.Errorf("status bar = %+v", m.StatusBar)
	}
	out := m.View()
	for _, want := range []string{"sysarch", "catalog.db", "table", "room", "enter"} {
		if !strings.Contains(out, want) {
			t.Errorf("view lacks %q:\n%s", want, out)
		}
	}
}

func TestModel_OpenTreeAndBack(t *testing.T) {
	t.Parallel()
	st, _, room := testCatalog(t)

	m := NewModel(context.Background(), st, Options{Path: st.Path()})
	m = run(t, m, m.loadCatalog())

	m, _ = press(m, "j")
	if a, _ := m.List.Selected(); a.ID != room {
		t.Fatalf("selected %+v, want room", a)
	}
	m, cmd := press(m, "enter")
	m = run(t, m, cmd)

	if m.Screen != ScreenTree {
		t.Fatalf("Screen = %d, want ScreenTree", m.Screen)
	}
	out := m.View()
	for _, want := range []string{"room (assembly", "table1: table", "leg1: leg"} {
		if !strings.Contains(out, want) {
			t.Errorf("tree view lacks %q:\n%s", want, out)
		}
	}

	m, _ = press(m, "esc")
	if m.Screen != ScreenList {
		t.Errorf("Screen = %d after esc, want ScreenList", m.Screen)
	}
}

func TestModel_TreeOfDeletedAssembly(t *testing.T) {
	t.Parallel()
	st, table, _ := testCatalog(t)

	m := NewModel(context.Background(), st, Options{})
	m = run(t, m, m.loadTree(table+100))

	if m.Screen != ScreenList {
		t.Errorf("Screen = %d, want ScreenList", m.Screen)
	}
	if !errors.Is(m.StatusBar.Err, model.ErrNotFound) {
		t.Errorf("StatusBar.Err = %v, want ErrNotFound", m.StatusBar.Err)
	}
}

func TestModel_ReloadsOnChange(t *testing.T) {
	t.Parallel()
	st, _, _ := testCatalog(t)

	changes := make(chan watch.Change, 1)
	m := NewModel(context.Background(), st, Options{Path: st.Path(), Changes: changes})
	m = run(t, m, m.loadCatalog())

	if _, err := st.CreateAssembly(context.Background(), model.Assembly{Name: "garage"}); err != nil {
		t.Fatalf("CreateAssembly: %v", err)
	}
	changes <- watch.Change{Kind: watch.ChangeModified, File: st.Path()}

	next, cmd := m.Update(m.waitForChange()())
	m = next.(Model)
	if cmd == nil {
		t.Fatal("change produced no reload command")
	}
	// The batch holds the reload and the next wait; run the reload only.
	batch, ok := cmd().(tea.BatchMsg)
	if !ok || len(batch) == 0 {
		t.Fatalf("cmd() = %T, want tea.BatchMsg", cmd())
	}
	next, _ = m.Update(batch[0]())
	m = next.(Model)
	if len(m.List.Items) != 3 {
		t.Errorf("list has %d assemblies after change, want 3", len(m.List.Items))
	}
}

func TestModel_Quit(t *testing.T) {
	t.Parallel()
	st, _, _ := testCatalog(t)

	m := NewModel(context.Background(), st, Options{})
	_, cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("q produced no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestModel_Resize(t *testing.T) {
	t.Parallel()
	st, _, _ := testCatalog(t)

	next, _ := NewModel(context.Background(), st, Options{}).Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m := next.(Model)
	if m.StatusBar.Width != 120 || m.Footer.Width != 120 || m.List.Height != 37 {
		t.Errorf("after resize: status %d, footer %d, list height %d", m.StatusBar.Width, m.Footer.Width, m.List.Height)
	}
}

package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/papapumpkin/sysarch/internal/model"
)

// testStore opens a catalog in a temporary directory and registers cleanup.
func testStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.catalog.db")
	s, err := Open(context.Background(), dbPath, nil)
	if err != nil {
		t.Fatalf("Open(%q): %v", dbPath, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// fixture is the catalog from the leg scenario: part P1 with feature F1,
// A1 holding I1 ("leg1", P1), A2 holding I2 ("sub1", A1).
type fixture struct {
	p1, f1, a1, a2, i1, i2 int64
}

func seed(t *testing.T, s *Store) fixture {
	t.Helper()
	ctx := context.Background()
	var fx fixture
	var err error
	must := func(what string) {
		t.Helper()
		if err != nil {
			t.Fatalf("%s: %v", what, err)
		}
	}
	fx.p1, err = s.CreatePart(ctx, model.Part{Name: "P1", FileLocation: "p1.step"})
	must("CreatePart")
	fx.f1, err = s.CreateFeature(ctx, model.Feature{Name: "F1", PartID: fx.p1})
	must("CreateFeature")
	fx.a1, err = s.CreateAssembly(ctx, model.Assembly{Name: "A1", FileLocation: "a1.asm"})
	must("CreateAssembly A1")
	fx.a2, err = s.CreateAssembly(ctx, model.Assembly{Name: "A2", FileLocation: "a2.asm"})
	must("CreateAssembly A2")
	fx.i1, err = s.CreateAssemblyItem(ctx, model.AssemblyItem{AssemblyID: fx.a1, PartID: model.ID(fx.p1), InstanceName: "leg1"})
	must("CreateAssemblyItem I1")
	fx.i2, err = s.CreateAssemblyItem(ctx, model.AssemblyItem{AssemblyID: fx.a2, SubAssemblyID: model.ID(fx.a1), InstanceName: "sub1"})
	must("CreateAssemblyItem I2")
	return fx
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates tables and pragmas", func(t *testing.T) {
		t.Parallel()
		s := testStore(t)

		var mode string
		if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
			t.Fatalf("query journal_mode: %v", err)
		}
		if mode != "wal" {
			t.Errorf("journal_mode = %q, want %q", mode, "wal")
		}

		var fk int
		if err := s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
			t.Fatalf("query foreign_keys: %v", err)
		}
		if fk != 1 {
			t.Errorf("foreign_keys = %d, want 1", fk)
		}

		found := make(map[string]bool)
		rows, err := s.db.Query("SELECT name FROM sqlite_master WHERE type='table'")
		if err != nil {
			t.Fatalf("query sqlite_master: %v", err)
		}
		defer rows.Close()
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				t.Fatalf("scan table name: %v", err)
			}
			found[name] = true
		}
		for _, name := range Tables() {
			if !found[name] {
				t.Errorf("table %q not created", name)
			}
		}
	})

	t.Run("reopen keeps data", func(t *testing.T) {
		t.Parallel()
		dbPath := filepath.Join(t.TempDir(), "reopen.db")
		ctx := context.Background()

		s1, err := Open(ctx, dbPath, nil)
		if err != nil {
			t.Fatalf("first open: %v", err)
		}
		id, err := s1.CreatePart(ctx, model.Part{Name: "bolt", FileLocation: "bolt.step"})
		if err != nil {
			t.Fatalf("CreatePart: %v", err)
		}
		s1.Close()

		s2, err := Open(ctx, dbPath, nil)
		if err != nil {
			t.Fatalf("second open: %v", err)
		}
		defer s2.Close()
		p, err := s2.GetPart(ctx, id)
		if err != nil || p == nil || p.Name != "bolt" {
			t.Errorf("GetPart after reopen = %+v, %v", p, err)
		}
		if s2.Path() != dbPath {
			t.Errorf("Path() = %q, want %q", s2.Path(), dbPath)
		}
	})
}

func TestCRUDRoundTrip(t *testing.T) {
	t.Parallel()
	s := testStore(t)
	ctx := context.Background()
	fx := seed(t, s)

	sysID, err := s.CreateSystem(ctx, model.System{Name: "rover", OverallAssemblyID: model.ID(fx.a2)})
	if err != nil {
		t.Fatalf("CreateSystem: %v", err)
	}
	sys, err := s.GetSystem(ctx, sysID)
	if err != nil {
		t.Fatalf("GetSystem: %v", err)
	}
	if sys.Name != "rover" || sys.OverallAssemblyID == nil || *sys.OverallAssemblyID != fx.a2 {
		t.Errorf("system = %+v", sys)
	}

	a, err := s.GetAssembly(ctx, fx.a1)
	if err != nil {
		t.Fatalf("GetAssembly: %v", err)
	}
	if a.Image != "" || a.SystemID != nil || a.ParentAssemblyID != nil {
		t.Errorf("optional fields should be empty: %+v", a)
	}
	a.Image = "a1.png"
	a.SystemID = model.ID(sysID)
	if err := s.UpdateAssembly(ctx, *a); err != nil {
		t.Fatalf("UpdateAssembly: %v", err)
	}
	a, _ = s.GetAssembly(ctx, fx.a1)
	if a.Image != "a1.png" || a.SystemID == nil || *a.SystemID != sysID {
		t.Errorf("updated assembly = %+v", a)
	}

	it, err := s.GetAssemblyItem(ctx, fx.i2)
	if err != nil {
		t.Fatalf("GetAssemblyItem: %v", err)
	}
	if it.PartID != nil || it.SubAssemblyID == nil || *it.SubAssemblyID != fx.a1 || it.InstanceName != "sub1" {
		t.Errorf("item = %+v", it)
	}

	feats, err := s.FeaturesForPart(ctx, fx.p1)
	if err != nil {
		t.Fatalf("FeaturesForPart: %v", err)
	}
	if len(feats) != 1 || feats[0].ID != fx.f1 {
		t.Errorf("features = %+v", feats)
	}

	items, err := s.AssemblyItemsForAssembly(ctx, fx.a1)
	if err != nil {
		t.Fatalf("AssemblyItemsForAssembly: %v", err)
	}
	if len(items) != 1 || items[0].ID != fx.i1 {
		t.Errorf("items = %+v", items)
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	t.Parallel()
	s := testStore(t)
	ctx := context.Background()

	checks := []struct {
		name string
		get  func() (bool, error)
	}{
		{"system", func() (bool, error) { v, err := s.GetSystem(ctx, 404); return v == nil, err }},
		{"assembly", func() (bool, error) { v, err := s.GetAssembly(ctx, 404); return v == nil, err }},
		{"part", func() (bool, error) { v, err := s.GetPart(ctx, 404); return v == nil, err }},
		{"feature", func() (bool, error) { v, err := s.GetFeature(ctx, 404); return v == nil, err }},
		{"assembly item", func() (bool, error) { v, err := s.GetAssemblyItem(ctx, 404); return v == nil, err }},
		{"connector", func() (bool, error) { v, err := s.GetConnector(ctx, 404); return v == nil, err }},
	}
	for _, c := range checks {
		isNil, err := c.get()
		if err != nil {
			t.Errorf("get %s: unexpected error %v", c.name, err)
		}
		if !isNil {
			t.Errorf("get %s: want nil for missing id", c.name)
		}
	}
}

func TestUpdateAndDeleteErrors(t *testing.T) {
	t.Parallel()
	s := testStore(t)
	ctx := context.Background()

	if err := s.UpdatePart(ctx, model.Part{Name: "x", FileLocation: "x"}); !errors.Is(err, model.ErrInvalidArgument) {
		t.Errorf("update without id: got %v, want ErrInvalidArgument", err)
	}
	if err := s.UpdatePart(ctx, model.Part{ID: 99, Name: "x", FileLocation: "x"}); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("update missing: got %v, want ErrNotFound", err)
	}
	if err := s.DeleteConnector(ctx, 99); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("delete missing: got %v, want ErrNotFound", err)
	}
}

func TestAssemblyItemTargetRule(t *testing.T) {
	t.Parallel()
	s := testStore(t)
	ctx := context.Background()
	fx := seed(t, s)

	tests := []struct {
		name string
		item model.AssemblyItem
	}{
		{"neither target", model.AssemblyItem{AssemblyID: fx.a1, InstanceName: "x"}},
		{"both targets", model.AssemblyItem{AssemblyID: fx.a2, PartID: model.ID(fx.p1), SubAssemblyID: model.ID(fx.a1), InstanceName: "x"}},
	}
	for _, tt := range tests {
		if _, err := s.CreateAssemblyItem(ctx, tt.item); !errors.Is(err, model.ErrInvalidArgument) {
			t.Errorf("%s: got %v, want ErrInvalidArgument", tt.name, err)
		}
	}
}

func TestCycleGuard(t *testing.T) {
	t.Parallel()
	s := testStore(t)
	ctx := context.Background()
	fx := seed(t, s)

	t.Run("back edge rejected", func(t *testing.T) {
		_, err := s.CreateAssemblyItem(ctx, model.AssemblyItem{AssemblyID: fx.a1, SubAssemblyID: model.ID(fx.a2), InstanceName: "loop"})
		if !errors.Is(err, model.ErrConstraintViolation) {
			t.Fatalf("got %v, want ErrConstraintViolation", err)
		}
		items, _ := s.AssemblyItemsForAssembly(ctx, fx.a1)
		if len(items) != 1 {
			t.Errorf("rejected item was written: %+v", items)
		}
	})

	t.Run("self containment rejected", func(t *testing.T) {
		_, err := s.CreateAssemblyItem(ctx, model.AssemblyItem{AssemblyID: fx.a1, SubAssemblyID: model.ID(fx.a1), InstanceName: "me"})
		if !errors.Is(err, model.ErrConstraintViolation) {
			t.Errorf("got %v, want ErrConstraintViolation", err)
		}
	})

	t.Run("update into cycle rejected", func(t *testing.T) {
		it := model.AssemblyItem{ID: fx.i1, AssemblyID: fx.a1, SubAssemblyID: model.ID(fx.a2), InstanceName: "leg1"}
		if err := s.UpdateAssemblyItem(ctx, it); !errors.Is(err, model.ErrConstraintViolation) {
			t.Errorf("got %v, want ErrConstraintViolation", err)
		}
	})

	// I2 makes A2 contain A1. Reversing it leaves A1 containing A2 and
	// nothing else, which is acyclic.
	t.Run("reversing an edge allowed", func(t *testing.T) {
		it := model.AssemblyItem{ID: fx.i2, AssemblyID: fx.a1, SubAssemblyID: model.ID(fx.a2), InstanceName: "sub1"}
		if err := s.UpdateAssemblyItem(ctx, it); err != nil {
			t.Fatalf("UpdateAssemblyItem: %v", err)
		}
		got, err := s.GetAssemblyItem(ctx, fx.i2)
		if err != nil || got == nil || got.AssemblyID != fx.a1 || got.SubAssemblyID == nil || *got.SubAssemblyID != fx.a2 {
			t.Fatalf("GetAssemblyItem = %+v, %v", got, err)
		}
		if items, _ := s.AssemblyItemsForAssembly(ctx, fx.a2); len(items) != 0 {
			t.Errorf("A2 still holds %+v", items)
		}
	})
}

func TestConnectorType(t *testing.T) {
	t.Parallel()
	s := testStore(t)
	ctx := context.Background()
	fx := seed(t, s)

	c := model.Connector{Type: "welded", Feature1ID: fx.f1, Feature2ID: fx.f1, AssemblyItem1ID: fx.i1, AssemblyItem2ID: fx.i2}
	if _, err := s.CreateConnector(ctx, c); !errors.Is(err, model.ErrInvalidArgument) {
		t.Errorf("got %v, want ErrInvalidArgument", err)
	}

	c.Type = model.Fixed
	id, err := s.CreateConnector(ctx, c)
	if err != nil {
		t.Fatalf("CreateConnector: %v", err)
	}
	got, err := s.GetConnector(ctx, id)
	if err != nil || got == nil || got.Type != model.Fixed {
		t.Errorf("GetConnector = %+v, %v", got, err)
	}
}

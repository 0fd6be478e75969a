package manifest

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/papapumpkin/sysarch/internal/catalog"
	"github.com/papapumpkin/sysarch/internal/connections"
	"github.com/papapumpkin/sysarch/internal/hierarchy"
	"github.com/papapumpkin/sysarch/internal/model"
	"github.com/papapumpkin/sysarch/internal/store"
)

const tableManifest = `
[[system]]
key = "home"
name = "Home"
overall = "room"

[[part]]
key = "leg"
name = "Leg"
file = "leg.step"

  [[part.feature]]
  name = "foot"

  [[part.feature]]
  name = "top"

[[part]]
key = "board"
name = "Board"
file = "board.step"

  [[part.feature]]
  key = "board.hole"
  name = "hole"

[[assembly]]
key = "table"
name = "Table"
file = "table.asm"
system = "home"
parent = "room"

  [[assembly.item]]
  instance = "leg1"
  part = "leg"

  [[assembly.item]]
  instance = "top"
  part = "board"

[[assembly]]
key = "room"
name = "Room"
file = "room.asm"
system = "home"

  [[assembly.item]]
  key = "t1"
  instance = "table1"
  sub = "table"

[[connector]]
type = "concentric"
feature1 = "leg.top"
item1 = "table/leg1"
feature2 = "board.hole"
item2 = "table/top"
`

func testService(t *testing.T) *catalog.Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.db")
	st, err := store.Open(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("store.Open(%q): %v", path, err)
	}
	t.Cleanup(func() { st.Close() })
	return catalog.New(st, nil, nil)
}

func TestParse(t *testing.T) {
	t.Parallel()

	m, err := Parse([]byte(tableManifest))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(m.Systems) != 1 || len(m.Parts) != 2 || len(m.Assemblies) != 2 || len(m.Connectors) != 1 {
		t.Fatalf("manifest = %+v", m)
	}
	if got := m.Parts[0].Features[1].FeatureKey(m.Parts[0].Key); got != "leg.top" {
		t.Errorf("default feature key = %q, want leg.top", got)
	}
	if got := m.Assemblies[1].Items[0].ItemKey("room"); got != "t1" {
		t.Errorf("explicit item key = %q, want t1", got)
	}
	if err := m.Check(); err != nil {
		t.Errorf("Check: %v", err)
	}
}

func TestParse_UnknownField(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("[[part]]\nkey = \"p\"\nname = \"P\"\ncolour = \"red\"\n"))
	if !errors.Is(err, model.ErrInvalidArgument) {
		t.Fatalf("Parse: got %v, want ErrInvalidArgument", err)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "table.toml")
	if err := os.WriteFile(path, []byte(tableManifest), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Source != path {
		t.Errorf("Source = %q, want %q", m.Source, path)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		m    Manifest
		want string
	}{
		{
			name: "duplicate key",
			m: Manifest{
				Parts:      []Part{{Key: "x", Name: "X"}},
				Assemblies: []Assembly{{Key: "x", Name: "X"}},
			},
			want: `duplicate key "x"`,
		},
		{
			name: "missing name",
			m:    Manifest{Parts: []Part{{Key: "p"}}},
			want: `part "p" has no name`,
		},
		{
			name: "neither target",
			m:    Manifest{Assemblies: []Assembly{{Key: "a", Name: "A", Items: []Item{{Instance: "i"}}}}},
			want: "either part or sub must be set",
		},
		{
			name: "both targets",
			m: Manifest{
				Parts:      []Part{{Key: "p", Name: "P"}},
				Assemblies: []Assembly{{Key: "a", Name: "A", Items: []Item{{Instance: "i", Part: "p", Sub: "a"}}}},
			},
			want: "mutually exclusive",
		},
		{
			name: "wrong kind of reference",
			m: Manifest{
				Parts:      []Part{{Key: "p", Name: "P"}},
				Assemblies: []Assembly{{Key: "a", Name: "A", Items: []Item{{Instance: "i", Sub: "p"}}}},
			},
			want: `sub "p" is not a declared assembly`,
		},
		{
			name: "connector without item",
			m:    Manifest{Connectors: []Connector{{Type: "fixed"}}},
			want: "connector 1: item1 is required",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.m.Check()
			if !errors.Is(err, model.ErrInvalidArgument) {
				t.Fatalf("Check() = %v, want ErrInvalidArgument", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Check() = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestApply(t *testing.T) {
	t.Parallel()
	svc := testService(t)
	ctx := context.Background()

	m, err := Parse([]byte(tableManifest))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ids, err := Apply(ctx, svc, m)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := map[string]int{"systems": 1, "parts": 2, "features": 3, "assemblies": 2, "items": 3, "connectors": 1}
	for k, n := range ids.Counts() {
		if want[k] != n {
			t.Errorf("created %d %s, want %d", n, k, want[k])
		}
	}

	st := svc.Store()
	table, err := st.GetAssembly(ctx, ids.Assemblies["table"])
	if err != nil || table == nil {
		t.Fatalf("GetAssembly(table): %v, %v", table, err)
	}
	if table.ParentAssemblyID == nil || *table.ParentAssemblyID != ids.Assemblies["room"] {
		t.Errorf("table parent = %v, want room (%d)", table.ParentAssemblyID, ids.Assemblies["room"])
	}
	sys, err := st.GetSystem(ctx, ids.Systems["home"])
	if err != nil || sys == nil {
		t.Fatalf("GetSystem: %v, %v", sys, err)
	}
	if sys.OverallAssemblyID == nil || *sys.OverallAssemblyID != ids.Assemblies["room"] {
		t.Errorf("overall assembly = %v, want room", sys.OverallAssemblyID)
	}

	occ, err := hierarchy.Flatten(ctx, st, ids.Assemblies["room"], true)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if len(occ) != 2 || occ[0].InstanceName != "leg1" || occ[0].Level != 1 {
		t.Errorf("Flatten(room) = %+v", occ)
	}
}

func TestApply_RejectsInvalidConnector(t *testing.T) {
	t.Parallel()
	svc := testService(t)

	// foot belongs to leg, but item "top" instances board.
	m, err := Parse([]byte(strings.Replace(tableManifest, `feature2 = "board.hole"`, `feature2 = "leg.foot"`, 1)))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = Apply(context.Background(), svc, m)
	var v *model.Violation
	if !errors.As(err, &v) || v.Category != model.CatForeignFeature {
		t.Fatalf("Apply: got %v, want %s violation", err, model.CatForeignFeature)
	}
}

func TestApply_RejectsParentLoop(t *testing.T) {
	t.Parallel()
	svc := testService(t)

	m := &Manifest{Assemblies: []Assembly{
		{Key: "a", Name: "A", Parent: "b"},
		{Key: "b", Name: "B", Parent: "a"},
	}}
	if _, err := Apply(context.Background(), svc, m); !errors.Is(err, model.ErrInvalidArgument) {
		t.Fatalf("Apply: got %v, want ErrInvalidArgument", err)
	}
}

func TestApply_RejectsContainmentCycle(t *testing.T) {
	t.Parallel()
	svc := testService(t)

	m := &Manifest{Assemblies: []Assembly{
		{Key: "a", Name: "A", Items: []Item{{Instance: "b1", Sub: "b"}}},
		{Key: "b", Name: "B", Items: []Item{{Instance: "a1", Sub: "a"}}},
	}}
	_, err := Apply(context.Background(), svc, m)
	var v *model.Violation
	if !errors.As(err, &v) || v.Category != model.CatCycle {
		t.Fatalf("Apply: got %v, want %s violation", err, model.CatCycle)
	}
}

func TestExportRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	src := testService(t)
	m, err := Parse([]byte(tableManifest))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ids, err := Apply(ctx, src, m)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	room := ids.Assemblies["room"]

	exported, err := Export(ctx, src.Store(), room)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(exported.Assemblies) != 2 || exported.Assemblies[0].Key != assemblyKey(room) {
		t.Fatalf("exported assemblies = %+v", exported.Assemblies)
	}
	if len(exported.Systems) != 1 || exported.Systems[0].Overall != assemblyKey(room) {
		t.Errorf("exported systems = %+v", exported.Systems)
	}

	var buf bytes.Buffer
	if err := Write(&buf, exported); err != nil {
		t.Fatalf("Write: %v", err)
	}
	decoded, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse(exported): %v\n%s", err, buf.String())
	}

	dst := testService(t)
	dstIDs, err := Apply(ctx, dst, decoded)
	if err != nil {
		t.Fatalf("Apply(exported): %v\n%s", err, buf.String())
	}

	want, err := hierarchy.Flatten(ctx, src.Store(), room, true)
	if err != nil {
		t.Fatalf("Flatten(src): %v", err)
	}
	got, err := hierarchy.Flatten(ctx, dst.Store(), dstIDs.Assemblies[assemblyKey(room)], true)
	if err != nil {
		t.Fatalf("Flatten(dst): %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("round trip has %d occurrences, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].PartName != want[i].PartName || got[i].InstanceName != want[i].InstanceName || got[i].Level != want[i].Level {
			t.Errorf("occurrence %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	top := dstIDs.Items[exported.Connectors[0].Item2]
	recs, err := connections.ByAssemblyItem(ctx, dst.Store(), top)
	if err != nil {
		t.Fatalf("ByAssemblyItem: %v", err)
	}
	if len(recs) != 1 || recs[0].Type != model.Concentric {
		t.Errorf("round-trip connectors = %+v", recs)
	}
}

func TestExport_MissingAssembly(t *testing.T) {
	t.Parallel()
	svc := testService(t)

	if _, err := Export(context.Background(), svc.Store(), 7); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Export: got %v, want ErrNotFound", err)
	}
}

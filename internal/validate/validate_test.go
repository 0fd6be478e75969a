package validate

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/papapumpkin/sysarch/internal/model"
	"github.com/papapumpkin/sysarch/internal/store"
)

// catalog seeds: part P1 (feature F1), part P2 (feature F2), part P3
// (feature F3); A1 holds I1 (P1) and I3 (P3); A2 holds I2 (sub-assembly A1).
type catalog struct {
	s          *store.Store
	p1, p2, p3 int64
	f1, f2, f3 int64
	a1, a2, a3 int64
	i1, i2, i3 int64
}

func testCatalog(t *testing.T) *catalog {
	t.Helper()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "validate.db")
	s, err := store.Open(ctx, dbPath, nil)
	if err != nil {
		t.Fatalf("store.Open(%q): %v", dbPath, err)
	}
	t.Cleanup(func() { s.Close() })

	c := &catalog{s: s}
	steps := []struct {
		what string
		dst  *int64
		fn   func() (int64, error)
	}{
		{"part P1", &c.p1, func() (int64, error) { return s.CreatePart(ctx, model.Part{Name: "P1", FileLocation: "p1.step"}) }},
		{"part P2", &c.p2, func() (int64, error) { return s.CreatePart(ctx, model.Part{Name: "P2", FileLocation: "p2.step"}) }},
		{"part P3", &c.p3, func() (int64, error) { return s.CreatePart(ctx, model.Part{Name: "P3", FileLocation: "p3.step"}) }},
		{"feature F1", &c.f1, func() (int64, error) { return s.CreateFeature(ctx, model.Feature{Name: "F1", PartID: c.p1}) }},
		{"feature F2", &c.f2, func() (int64, error) { return s.CreateFeature(ctx, model.Feature{Name: "F2", PartID: c.p2}) }},
		{"feature F3", &c.f3, func() (int64, error) { return s.CreateFeature(ctx, model.Feature{Name: "F3", PartID: c.p3}) }},
		{"assembly A1", &c.a1, func() (int64, error) { return s.CreateAssembly(ctx, model.Assembly{Name: "A1", FileLocation: "a1.asm"}) }},
		{"assembly A2", &c.a2, func() (int64, error) { return s.CreateAssembly(ctx, model.Assembly{Name: "A2", FileLocation: "a2.asm"}) }},
		{"assembly A3", &c.a3, func() (int64, error) { return s.CreateAssembly(ctx, model.Assembly{Name: "A3", FileLocation: "a3.asm"}) }},
		{"item I1", &c.i1, func() (int64, error) {
			return s.CreateAssemblyItem(ctx, model.AssemblyItem{AssemblyID: c.a1, PartID: model.ID(c.p1), InstanceName: "leg1"})
		}},
		{"item I2", &c.i2, func() (int64, error) {
			return s.CreateAssemblyItem(ctx, model.AssemblyItem{AssemblyID: c.a2, SubAssemblyID: model.ID(c.a1), InstanceName: "sub1"})
		}},
		{"item I3", &c.i3, func() (int64, error) {
			return s.CreateAssemblyItem(ctx, model.AssemblyItem{AssemblyID: c.a1, PartID: model.ID(c.p3), InstanceName: "leg2"})
		}},
	}
	for _, st := range steps {
		id, err := st.fn()
		if err != nil {
			t.Fatalf("create %s: %v", st.what, err)
		}
		*st.dst = id
	}
	return c
}

func TestConnector(t *testing.T) {
	t.Parallel()
	c := testCatalog(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		conn       model.Connector
		wantValid  bool
		wantCat    model.ViolationCategory
		wantReason string
	}{
		{
			name:      "valid part to part",
			conn:      model.Connector{Type: model.Fixed, Feature1ID: c.f1, Feature2ID: c.f3, AssemblyItem1ID: c.i1, AssemblyItem2ID: c.i3},
			wantValid: true,
		},
		{
			name:       "missing feature1",
			conn:       model.Connector{Type: model.Fixed, Feature1ID: 999, Feature2ID: c.f3, AssemblyItem1ID: c.i1, AssemblyItem2ID: c.i3},
			wantCat:    model.CatMissingFeature,
			wantReason: "feature1 (id 999)",
		},
		{
			name:       "missing feature2",
			conn:       model.Connector{Type: model.Fixed, Feature1ID: c.f1, Feature2ID: 998, AssemblyItem1ID: c.i1, AssemblyItem2ID: c.i3},
			wantCat:    model.CatMissingFeature,
			wantReason: "feature2 (id 998)",
		},
		{
			name:       "missing item1",
			conn:       model.Connector{Type: model.Fixed, Feature1ID: c.f1, Feature2ID: c.f3, AssemblyItem1ID: 997, AssemblyItem2ID: c.i3},
			wantCat:    model.CatMissingItem,
			wantReason: "item1 (id 997)",
		},
		{
			name:       "missing item2",
			conn:       model.Connector{Type: model.Fixed, Feature1ID: c.f1, Feature2ID: c.f3, AssemblyItem1ID: c.i1, AssemblyItem2ID: 996},
			wantCat:    model.CatMissingItem,
			wantReason: "item2 (id 996)",
		},
		{
			name:       "feature1 on wrong part",
			conn:       model.Connector{Type: model.Fixed, Feature1ID: c.f2, Feature2ID: c.f3, AssemblyItem1ID: c.i1, AssemblyItem2ID: c.i3},
			wantCat:    model.CatForeignFeature,
			wantReason: "feature1",
		},
		{
			name:       "feature2 on wrong part",
			conn:       model.Connector{Type: model.Fixed, Feature1ID: c.f1, Feature2ID: c.f2, AssemblyItem1ID: c.i1, AssemblyItem2ID: c.i3},
			wantCat:    model.CatForeignFeature,
			wantReason: "feature2",
		},
		{
			name:      "sub-assembly side is not checked",
			conn:      model.Connector{Type: model.Concentric, Feature1ID: c.f1, Feature2ID: c.f2, AssemblyItem1ID: c.i1, AssemblyItem2ID: c.i2},
			wantValid: true,
		},
		{
			name:       "unknown type",
			conn:       model.Connector{Type: "glued", Feature1ID: c.f1, Feature2ID: c.f3, AssemblyItem1ID: c.i1, AssemblyItem2ID: c.i3},
			wantCat:    model.CatInvalidType,
			wantReason: "glued",
		},
		{
			name:       "first failing check wins",
			conn:       model.Connector{Type: "glued", Feature1ID: 999, Feature2ID: 998, AssemblyItem1ID: 997, AssemblyItem2ID: 996},
			wantCat:    model.CatMissingFeature,
			wantReason: "feature1 (id 999)",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res, err := Connector(ctx, c.s, tt.conn)
			if err != nil {
				t.Fatalf("Connector: %v", err)
			}
			if res.Valid != tt.wantValid {
				t.Fatalf("Valid = %v, want %v (reason %q)", res.Valid, tt.wantValid, res.Reason)
			}
			if tt.wantValid {
				if res.Err() != nil {
					t.Errorf("Err() = %v, want nil", res.Err())
				}
				return
			}
			if res.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", res.Category, tt.wantCat)
			}
			if !strings.Contains(res.Reason, tt.wantReason) {
				t.Errorf("Reason = %q, want it to mention %q", res.Reason, tt.wantReason)
			}
		})
	}
}

func TestAssemblyItem(t *testing.T) {
	t.Parallel()
	c := testCatalog(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		item    model.AssemblyItem
		wantCat model.ViolationCategory
		wantErr error
	}{
		{"part instance", model.AssemblyItem{AssemblyID: c.a3, PartID: model.ID(c.p1), InstanceName: "x"}, "", nil},
		{"sub-assembly instance", model.AssemblyItem{AssemblyID: c.a3, SubAssemblyID: model.ID(c.a2), InstanceName: "x"}, "", nil},
		{"neither target", model.AssemblyItem{AssemblyID: c.a3, InstanceName: "x"}, model.CatMissingTarget, model.ErrInvalidArgument},
		{"both targets", model.AssemblyItem{AssemblyID: c.a3, PartID: model.ID(c.p1), SubAssemblyID: model.ID(c.a1), InstanceName: "x"}, model.CatAmbiguousTarget, model.ErrInvalidArgument},
		{"missing container", model.AssemblyItem{AssemblyID: 404, PartID: model.ID(c.p1), InstanceName: "x"}, model.CatMissingAssembly, model.ErrConstraintViolation},
		{"missing part", model.AssemblyItem{AssemblyID: c.a3, PartID: model.ID(404), InstanceName: "x"}, model.CatMissingPart, model.ErrConstraintViolation},
		{"missing sub-assembly", model.AssemblyItem{AssemblyID: c.a3, SubAssemblyID: model.ID(404), InstanceName: "x"}, model.CatMissingAssembly, model.ErrConstraintViolation},
		{"container already inside candidate", model.AssemblyItem{AssemblyID: c.a1, SubAssemblyID: model.ID(c.a2), InstanceName: "x"}, model.CatCycle, model.ErrConstraintViolation},
		{"self containment", model.AssemblyItem{AssemblyID: c.a3, SubAssemblyID: model.ID(c.a3), InstanceName: "x"}, model.CatCycle, model.ErrConstraintViolation},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res, err := AssemblyItem(ctx, c.s, tt.item)
			if err != nil {
				t.Fatalf("AssemblyItem: %v", err)
			}
			if tt.wantErr == nil {
				if !res.Valid {
					t.Errorf("want valid, got %q", res.Reason)
				}
				return
			}
			if res.Valid {
				t.Fatal("want invalid, got valid")
			}
			if res.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", res.Category, tt.wantCat)
			}
			if err := res.Err(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Err() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

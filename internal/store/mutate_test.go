package store

import (
	"context"
	"errors"
	"testing"

	"github.com/papapumpkin/sysarch/internal/model"
)

func TestForeignKeyViolation(t *testing.T) {
	t.Parallel()
	s := testStore(t)
	ctx := context.Background()

	_, err := s.CreateFeature(ctx, model.Feature{Name: "orphan", PartID: 12345})
	if !errors.Is(err, model.ErrConstraintViolation) {
		t.Errorf("got %v, want ErrConstraintViolation", err)
	}
}

func TestCascadeDeletes(t *testing.T) {
	t.Parallel()

	t.Run("part removes features, items and connectors", func(t *testing.T) {
		t.Parallel()
		s := testStore(t)
		ctx := context.Background()
		fx := seed(t, s)
		cid, err := s.CreateConnector(ctx, model.Connector{
			Type: model.Coincident, Feature1ID: fx.f1, Feature2ID: fx.f1, AssemblyItem1ID: fx.i1, AssemblyItem2ID: fx.i2,
		})
		if err != nil {
			t.Fatalf("CreateConnector: %v", err)
		}

		if err := s.DeletePart(ctx, fx.p1); err != nil {
			t.Fatalf("DeletePart: %v", err)
		}
		if f, _ := s.GetFeature(ctx, fx.f1); f != nil {
			t.Errorf("feature survived: %+v", f)
		}
		if it, _ := s.GetAssemblyItem(ctx, fx.i1); it != nil {
			t.Errorf("item survived: %+v", it)
		}
		if c, _ := s.GetConnector(ctx, cid); c != nil {
			t.Errorf("connector survived: %+v", c)
		}
		if it, _ := s.GetAssemblyItem(ctx, fx.i2); it == nil {
			t.Error("unrelated item was removed")
		}
	})

	t.Run("assembly removes containing and contained items", func(t *testing.T) {
		t.Parallel()
		s := testStore(t)
		ctx := context.Background()
		fx := seed(t, s)

		if err := s.DeleteAssembly(ctx, fx.a1); err != nil {
			t.Fatalf("DeleteAssembly: %v", err)
		}
		for _, id := range []int64{fx.i1, fx.i2} {
			if it, _ := s.GetAssemblyItem(ctx, id); it != nil {
				t.Errorf("item %d survived: %+v", id, it)
			}
		}
		if p, _ := s.GetPart(ctx, fx.p1); p == nil {
			t.Error("part should not be removed with an assembly")
		}
	})

	t.Run("system reference blocks assembly delete", func(t *testing.T) {
		t.Parallel()
		s := testStore(t)
		ctx := context.Background()
		fx := seed(t, s)
		if _, err := s.CreateSystem(ctx, model.System{Name: "rover", OverallAssemblyID: model.ID(fx.a2)}); err != nil {
			t.Fatalf("CreateSystem: %v", err)
		}
		if err := s.DeleteAssembly(ctx, fx.a2); !errors.Is(err, model.ErrConstraintViolation) {
			t.Errorf("got %v, want ErrConstraintViolation", err)
		}
		if a, _ := s.GetAssembly(ctx, fx.a2); a == nil {
			t.Error("assembly deleted despite rollback")
		}
	})
}

func TestConnectorLookups(t *testing.T) {
	t.Parallel()
	s := testStore(t)
	ctx := context.Background()
	fx := seed(t, s)

	f2, err := s.CreateFeature(ctx, model.Feature{Name: "F2", PartID: fx.p1})
	if err != nil {
		t.Fatalf("CreateFeature: %v", err)
	}
	c1, _ := s.CreateConnector(ctx, model.Connector{Type: model.Fixed, Feature1ID: fx.f1, Feature2ID: f2, AssemblyItem1ID: fx.i1, AssemblyItem2ID: fx.i2})
	c2, _ := s.CreateConnector(ctx, model.Connector{Type: model.Tangent, Feature1ID: f2, Feature2ID: f2, AssemblyItem1ID: fx.i2, AssemblyItem2ID: fx.i2})

	byF1, err := s.ConnectorsForFeature(ctx, fx.f1)
	if err != nil {
		t.Fatalf("ConnectorsForFeature: %v", err)
	}
	if len(byF1) != 1 || byF1[0].ID != c1 {
		t.Errorf("connectors for F1 = %+v", byF1)
	}

	byI2, err := s.ConnectorsForAssemblyItem(ctx, fx.i2)
	if err != nil {
		t.Fatalf("ConnectorsForAssemblyItem: %v", err)
	}
	if len(byI2) != 2 || byI2[0].ID != c1 || byI2[1].ID != c2 {
		t.Errorf("connectors for I2 = %+v", byI2)
	}
}

func TestStatsAndReadTx(t *testing.T) {
	t.Parallel()
	s := testStore(t)
	ctx := context.Background()
	fx := seed(t, s)

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := map[string]int64{"systems": 0, "assemblies": 2, "parts": 1, "features": 1, "assembly_items": 2, "connectors": 0}
	for table, n := range want {
		if stats[table] != n {
			t.Errorf("stats[%s] = %d, want %d", table, stats[table], n)
		}
	}

	err = s.ReadTx(ctx, func(tx Tx) error {
		a, err := tx.GetAssembly(ctx, fx.a2)
		if err != nil {
			return err
		}
		if a == nil || a.Name != "A2" {
			t.Errorf("GetAssembly in tx = %+v", a)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ReadTx: %v", err)
	}
}

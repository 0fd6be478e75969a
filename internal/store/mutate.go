package store

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/papapumpkin/sysarch/internal/hierarchy"
	"github.com/papapumpkin/sysarch/internal/model"
)

// CreateSystem inserts a system and returns its id.
func (s *Store) CreateSystem(ctx context.Context, sys model.System) (int64, error) {
	var id int64
	err := s.withTx(ctx, "create system", func(tx *sql.Tx) error {
		var err error
		id, err = insert(ctx, tx, "create system",
			"INSERT INTO systems (name, overall_assembly_id) VALUES (?, ?)",
			sys.Name, nullID(sys.OverallAssemblyID))
		return err
	})
	if err != nil {
		return 0, err
	}
	s.log.Debug("created system", "id", id, "name", sys.Name)
	return id, nil
}

// UpdateSystem overwrites every column of an existing system.
func (s *Store) UpdateSystem(ctx context.Context, sys model.System) error {
	const op = "update system"
	if err := requireID(op, sys.ID); err != nil {
		return err
	}
	return s.withTx(ctx, op, func(tx *sql.Tx) error {
		return mustAffect(ctx, tx, op, sys.ID,
			"UPDATE systems SET name = ?, overall_assembly_id = ? WHERE id = ?",
			sys.Name, nullID(sys.OverallAssemblyID), sys.ID)
	})
}

// DeleteSystem removes a system. Assemblies still referencing it block the
// delete with a constraint violation.
func (s *Store) DeleteSystem(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, "systems", "system", id)
}

// CreateAssembly inserts an assembly and returns its id.
func (s *Store) CreateAssembly(ctx context.Context, a model.Assembly) (int64, error) {
	var id int64
	err := s.withTx(ctx, "create assembly", func(tx *sql.Tx) error {
		var err error
		id, err = insert(ctx, tx, "create assembly",
			`INSERT INTO assemblies (name, file_location, image, system_id, parent_assembly_id)
			 VALUES (?, ?, ?, ?, ?)`,
			a.Name, a.FileLocation, nullString(a.Image), nullID(a.SystemID), nullID(a.ParentAssemblyID))
		return err
	})
	if err != nil {
		return 0, err
	}
	s.log.Debug("created assembly", "id", id, "name", a.Name)
	return id, nil
}

// UpdateAssembly overwrites every column of an existing assembly.
func (s *Store) UpdateAssembly(ctx context.Context, a model.Assembly) error {
	const op = "update assembly"
	if err := requireID(op, a.ID); err != nil {
		return err
	}
	return s.withTx(ctx, op, func(tx *sql.Tx) error {
		return mustAffect(ctx, tx, op, a.ID,
			`UPDATE assemblies SET name = ?, file_location = ?, image = ?,
			 system_id = ?, parent_assembly_id = ? WHERE id = ?`,
			a.Name, a.FileLocation, nullString(a.Image), nullID(a.SystemID), nullID(a.ParentAssemblyID), a.ID)
	})
}

// DeleteAssembly removes an assembly. Items that contain it or that it
// contains are cascade-deleted, along with their connectors.
func (s *Store) DeleteAssembly(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, "assemblies", "assembly", id)
}

// CreatePart inserts a part and returns its id.
func (s *Store) CreatePart(ctx context.Context, p model.Part) (int64, error) {
	var id int64
	err := s.withTx(ctx, "create part", func(tx *sql.Tx) error {
		var err error
		id, err = insert(ctx, tx, "create part",
			"INSERT INTO parts (name, file_location) VALUES (?, ?)", p.Name, p.FileLocation)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.log.Debug("created part", "id", id, "name", p.Name)
	return id, nil
}

// UpdatePart overwrites every column of an existing part.
func (s *Store) UpdatePart(ctx context.Context, p model.Part) error {
	const op = "update part"
	if err := requireID(op, p.ID); err != nil {
		return err
	}
	return s.withTx(ctx, op, func(tx *sql.Tx) error {
		return mustAffect(ctx, tx, op, p.ID,
			"UPDATE parts SET name = ?, file_location = ? WHERE id = ?", p.Name, p.FileLocation, p.ID)
	})
}

// DeletePart removes a part together with its features, every item
// instancing it, and the connectors attached to those.
func (s *Store) DeletePart(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, "parts", "part", id)
}

// CreateFeature inserts a feature and returns its id.
func (s *Store) CreateFeature(ctx context.Context, f model.Feature) (int64, error) {
	var id int64
	err := s.withTx(ctx, "create feature", func(tx *sql.Tx) error {
		var err error
		id, err = insert(ctx, tx, "create feature",
			"INSERT INTO features (name, part_id) VALUES (?, ?)", f.Name, f.PartID)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.log.Debug("created feature", "id", id, "part_id", f.PartID)
	return id, nil
}

// UpdateFeature overwrites every column of an existing feature.
func (s *Store) UpdateFeature(ctx context.Context, f model.Feature) error {
	const op = "update feature"
	if err := requireID(op, f.ID); err != nil {
		return err
	}
	return s.withTx(ctx, op, func(tx *sql.Tx) error {
		return mustAffect(ctx, tx, op, f.ID,
			"UPDATE features SET name = ?, part_id = ? WHERE id = ?", f.Name, f.PartID, f.ID)
	})
}

// DeleteFeature removes a feature and the connectors attached to it.
func (s *Store) DeleteFeature(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, "features", "feature", id)
}

// CreateAssemblyItem inserts an instance into its container. The target rule
// is checked first; sub-assembly instances are then checked for cycles in
// the same transaction that performs the insert.
func (s *Store) CreateAssemblyItem(ctx context.Context, it model.AssemblyItem) (int64, error) {
	const op = "create assembly item"
	if err := it.CheckTarget(); err != nil {
		return 0, fmt.Errorf("store: %s: %w", op, err)
	}
	var id int64
	err := s.withTx(ctx, op, func(tx *sql.Tx) error {
		if err := guardContainment(ctx, tx, op, it); err != nil {
			return err
		}
		var err error
		id, err = insert(ctx, tx, op,
			`INSERT INTO assembly_items (assembly_id, part_id, sub_assembly_id, instance_name)
			 VALUES (?, ?, ?, ?)`,
			it.AssemblyID, nullID(it.PartID), nullID(it.SubAssemblyID), it.InstanceName)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.log.Debug("created assembly item", "id", id, "assembly_id", it.AssemblyID, "instance", it.InstanceName)
	return id, nil
}

// UpdateAssemblyItem overwrites every column of an existing item, applying
// the same checks as CreateAssemblyItem.
func (s *Store) UpdateAssemblyItem(ctx context.Context, it model.AssemblyItem) error {
	const op = "update assembly item"
	if err := requireID(op, it.ID); err != nil {
		return err
	}
	if err := it.CheckTarget(); err != nil {
		return fmt.Errorf("store: %s: %w", op, err)
	}
	return s.withTx(ctx, op, func(tx *sql.Tx) error {
		if err := guardContainment(ctx, tx, op, it); err != nil {
			return err
		}
		return mustAffect(ctx, tx, op, it.ID,
			`UPDATE assembly_items SET assembly_id = ?, part_id = ?,
			 sub_assembly_id = ?, instance_name = ? WHERE id = ?`,
			it.AssemblyID, nullID(it.PartID), nullID(it.SubAssemblyID), it.InstanceName, it.ID)
	})
}

// withoutItem hides one item from containment lookups, so an update is
// checked against the graph as it will be once the item's old edge is gone.
type withoutItem struct {
	reader
	skip int64
}

func (w withoutItem) AssemblyItemsForAssembly(ctx context.Context, assemblyID int64) ([]model.AssemblyItem, error) {
	items, err := w.reader.AssemblyItemsForAssembly(ctx, assemblyID)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(items, func(it model.AssemblyItem) bool { return it.ID == w.skip }), nil
}

// guardContainment rejects a sub-assembly instance that would close a cycle
// in the containment graph. A stored item (non-zero ID) is left out of the
// search.
func guardContainment(ctx context.Context, tx *sql.Tx, op string, it model.AssemblyItem) error {
	if it.SubAssemblyID == nil {
		return nil
	}
	src := withoutItem{reader: reader{q: tx}, skip: it.ID}
	cyclic, err := hierarchy.WouldCreateCycle(ctx, src, it.AssemblyID, *it.SubAssemblyID)
	if err != nil {
		return err
	}
	if cyclic {
		return fmt.Errorf("store: %s: %w: adding sub-assembly %d to assembly %d would create a circular reference",
			op, model.ErrConstraintViolation, *it.SubAssemblyID, it.AssemblyID)
	}
	return nil
}

// DeleteAssemblyItem removes an item and the connectors attached to it.
func (s *Store) DeleteAssemblyItem(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, "assembly_items", "assembly item", id)
}

// CreateConnector inserts a connector and returns its id.
func (s *Store) CreateConnector(ctx context.Context, c model.Connector) (int64, error) {
	const op = "create connector"
	if !c.Type.Valid() {
		return 0, fmt.Errorf("store: %s: %w: connector type %q must be one of: %s",
			op, model.ErrInvalidArgument, c.Type, model.ConnectorTypeList())
	}
	var id int64
	err := s.withTx(ctx, op, func(tx *sql.Tx) error {
		var err error
		id, err = insert(ctx, tx, op,
			`INSERT INTO connectors (type, feature1_id, feature2_id, assembly_item1_id, assembly_item2_id)
			 VALUES (?, ?, ?, ?, ?)`,
			string(c.Type), c.Feature1ID, c.Feature2ID, c.AssemblyItem1ID, c.AssemblyItem2ID)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.log.Debug("created connector", "id", id, "type", c.Type)
	return id, nil
}

// UpdateConnector overwrites every column of an existing connector.
func (s *Store) UpdateConnector(ctx context.Context, c model.Connector) error {
	const op = "update connector"
	if err := requireID(op, c.ID); err != nil {
		return err
	}
	if !c.Type.Valid() {
		return fmt.Errorf("store: %s: %w: connector type %q must be one of: %s",
			op, model.ErrInvalidArgument, c.Type, model.ConnectorTypeList())
	}
	return s.withTx(ctx, op, func(tx *sql.Tx) error {
		return mustAffect(ctx, tx, op, c.ID,
			`UPDATE connectors SET type = ?, feature1_id = ?, feature2_id = ?,
			 assembly_item1_id = ?, assembly_item2_id = ? WHERE id = ?`,
			string(c.Type), c.Feature1ID, c.Feature2ID, c.AssemblyItem1ID, c.AssemblyItem2ID, c.ID)
	})
}

// DeleteConnector removes a connector.
func (s *Store) DeleteConnector(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, "connectors", "connector", id)
}

// deleteRow deletes one row by id from table, letting the schema cascade.
func (s *Store) deleteRow(ctx context.Context, table, what string, id int64) error {
	op := "delete " + what
	err := s.withTx(ctx, op, func(tx *sql.Tx) error {
		return mustAffect(ctx, tx, op, id, "DELETE FROM "+table+" WHERE id = ?", id)
	})
	if err != nil {
		return err
	}
	s.log.Debug("deleted "+what, "id", id)
	return nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/papapumpkin/sysarch/internal/model"
)

// reader implements the read accessors against either the connection pool
// or an open transaction. Single-entity getters return nil and no error when
// the id does not exist.
type reader struct {
	q querier
}

const (
	systemCols    = "id, name, overall_assembly_id"
	assemblyCols  = "id, name, file_location, image, system_id, parent_assembly_id"
	partCols      = "id, name, file_location"
	featureCols   = "id, name, part_id"
	itemCols      = "id, assembly_id, part_id, sub_assembly_id, instance_name"
	connectorCols = "id, type, feature1_id, feature2_id, assembly_item1_id, assembly_item2_id"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSystem(sc scanner) (model.System, error) {
	var s model.System
	var overall sql.NullInt64
	if err := sc.Scan(&s.ID, &s.Name, &overall); err != nil {
		return s, err
	}
	s.OverallAssemblyID = idPtr(overall)
	return s, nil
}

func scanAssembly(sc scanner) (model.Assembly, error) {
	var a model.Assembly
	var image sql.NullString
	var system, parent sql.NullInt64
	if err := sc.Scan(&a.ID, &a.Name, &a.FileLocation, &image, &system, &parent); err != nil {
		return a, err
	}
	a.Image = image.String
	a.SystemID = idPtr(system)
	a.ParentAssemblyID = idPtr(parent)
	return a, nil
}

func scanPart(sc scanner) (model.Part, error) {
	var p model.Part
	err := sc.Scan(&p.ID, &p.Name, &p.FileLocation)
	return p, err
}

func scanFeature(sc scanner) (model.Feature, error) {
	var f model.Feature
	err := sc.Scan(&f.ID, &f.Name, &f.PartID)
	return f, err
}

func scanItem(sc scanner) (model.AssemblyItem, error) {
	var it model.AssemblyItem
	var part, sub sql.NullInt64
	if err := sc.Scan(&it.ID, &it.AssemblyID, &part, &sub, &it.InstanceName); err != nil {
		return it, err
	}
	it.PartID = idPtr(part)
	it.SubAssemblyID = idPtr(sub)
	return it, nil
}

func scanConnector(sc scanner) (model.Connector, error) {
	var c model.Connector
	var typ string
	if err := sc.Scan(&c.ID, &typ, &c.Feature1ID, &c.Feature2ID, &c.AssemblyItem1ID, &c.AssemblyItem2ID); err != nil {
		return c, err
	}
	c.Type = model.ConnectorType(typ)
	return c, nil
}

// getOne runs a single-row query and scans it with scan. A missing row
// yields nil and no error.
func getOne[T any](ctx context.Context, q querier, what string, id int64, query string, scan func(scanner) (T, error)) (*T, error) {
	v, err := scan(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(fmt.Sprintf("get %s %d", what, id), err)
	}
	return &v, nil
}

// list runs a multi-row query and scans every row with scan.
func list[T any](ctx context.Context, q querier, what, query string, scan func(scanner) (T, error), args ...any) ([]T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify("list "+what, err)
	}
	defer rows.Close()

	var result []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, classify("scan "+what, err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate "+what, err)
	}
	return result, nil
}

// GetSystem returns the system with the given id, or nil if none exists.
func (r reader) GetSystem(ctx context.Context, id int64) (*model.System, error) {
	return getOne(ctx, r.q, "system", id, "SELECT "+systemCols+" FROM systems WHERE id = ?", scanSystem)
}

// GetAssembly returns the assembly with the given id, or nil if none exists.
func (r reader) GetAssembly(ctx context.Context, id int64) (*model.Assembly, error) {
	return getOne(ctx, r.q, "assembly", id, "SELECT "+assemblyCols+" FROM assemblies WHERE id = ?", scanAssembly)
}

// GetPart returns the part with the given id, or nil if none exists.
func (r reader) GetPart(ctx context.Context, id int64) (*model.Part, error) {
	return getOne(ctx, r.q, "part", id, "SELECT "+partCols+" FROM parts WHERE id = ?", scanPart)
}

// GetFeature returns the feature with the given id, or nil if none exists.
func (r reader) GetFeature(ctx context.Context, id int64) (*model.Feature, error) {
	return getOne(ctx, r.q, "feature", id, "SELECT "+featureCols+" FROM features WHERE id = ?", scanFeature)
}

// GetAssemblyItem returns the assembly item with the given id, or nil if
// none exists.
func (r reader) GetAssemblyItem(ctx context.Context, id int64) (*model.AssemblyItem, error) {
	return getOne(ctx, r.q, "assembly item", id, "SELECT "+itemCols+" FROM assembly_items WHERE id = ?", scanItem)
}

// GetConnector returns the connector with the given id, or nil if none exists.
func (r reader) GetConnector(ctx context.Context, id int64) (*model.Connector, error) {
	return getOne(ctx, r.q, "connector", id, "SELECT "+connectorCols+" FROM connectors WHERE id = ?", scanConnector)
}

// FeaturesForPart returns every feature owned by the part, in id order.
func (r reader) FeaturesForPart(ctx context.Context, partID int64) ([]model.Feature, error) {
	return list(ctx, r.q, "features",
		"SELECT "+featureCols+" FROM features WHERE part_id = ? ORDER BY id", scanFeature, partID)
}

// AssemblyItemsForAssembly returns the items contained by the assembly, in
// id order.
func (r reader) AssemblyItemsForAssembly(ctx context.Context, assemblyID int64) ([]model.AssemblyItem, error) {
	return list(ctx, r.q, "assembly items",
		"SELECT "+itemCols+" FROM assembly_items WHERE assembly_id = ? ORDER BY id", scanItem, assemblyID)
}

// ConnectorsForFeature returns connectors whose feature1 or feature2 is the
// given feature.
func (r reader) ConnectorsForFeature(ctx context.Context, featureID int64) ([]model.Connector, error) {
	return list(ctx, r.q, "connectors",
		"SELECT "+connectorCols+" FROM connectors WHERE feature1_id = ? OR feature2_id = ? ORDER BY id",
		scanConnector, featureID, featureID)
}

// ConnectorsForAssemblyItem returns connectors whose assembly_item1 or
// assembly_item2 is the given item.
func (r reader) ConnectorsForAssemblyItem(ctx context.Context, itemID int64) ([]model.Connector, error) {
	return list(ctx, r.q, "connectors",
		"SELECT "+connectorCols+" FROM connectors WHERE assembly_item1_id = ? OR assembly_item2_id = ? ORDER BY id",
		scanConnector, itemID, itemID)
}

// ListSystems returns every system in id order.
func (r reader) ListSystems(ctx context.Context) ([]model.System, error) {
	return list(ctx, r.q, "systems", "SELECT "+systemCols+" FROM systems ORDER BY id", scanSystem)
}

// ListAssemblies returns every assembly in id order.
func (r reader) ListAssemblies(ctx context.Context) ([]model.Assembly, error) {
	return list(ctx, r.q, "assemblies", "SELECT "+assemblyCols+" FROM assemblies ORDER BY id", scanAssembly)
}

// ListParts returns every part in id order.
func (r reader) ListParts(ctx context.Context) ([]model.Part, error) {
	return list(ctx, r.q, "parts", "SELECT "+partCols+" FROM parts ORDER BY id", scanPart)
}

// ListAssemblyItems returns every assembly item in id order.
func (r reader) ListAssemblyItems(ctx context.Context) ([]model.AssemblyItem, error) {
	return list(ctx, r.q, "assembly items", "SELECT "+itemCols+" FROM assembly_items ORDER BY id", scanItem)
}

// ListConnectors returns every connector in id order.
func (r reader) ListConnectors(ctx context.Context) ([]model.Connector, error) {
	return list(ctx, r.q, "connectors", "SELECT "+connectorCols+" FROM connectors ORDER BY id", scanConnector)
}

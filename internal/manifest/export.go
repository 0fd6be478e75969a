package manifest

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/papapumpkin/sysarch/internal/model"
)

// Source is the read surface Export needs.
type Source interface {
	GetSystem(ctx context.Context, id int64) (*model.System, error)
	GetAssembly(ctx context.Context, id int64) (*model.Assembly, error)
	GetPart(ctx context.Context, id int64) (*model.Part, error)
	AssemblyItemsForAssembly(ctx context.Context, assemblyID int64) ([]model.AssemblyItem, error)
	FeaturesForPart(ctx context.Context, partID int64) ([]model.Feature, error)
	ConnectorsForAssemblyItem(ctx context.Context, itemID int64) ([]model.Connector, error)
}

func assemblyKey(id int64) string { return fmt.Sprintf("a%d", id) }
func partKey(id int64) string     { return fmt.Sprintf("p%d", id) }
func featureKey(id int64) string  { return fmt.Sprintf("f%d", id) }
func itemKey(id int64) string     { return fmt.Sprintf("i%d", id) }
func systemKey(id int64) string   { return fmt.Sprintf("s%d", id) }

// Export builds a manifest for everything reachable from an assembly: the
// assembly itself, every sub-assembly it contains at any depth, the parts
// they instance with all their features, the systems they belong to, and
// the connectors whose both items are exported. Keys are derived from ids.
// A stored cycle is exported as is; each assembly appears once.
func Export(ctx context.Context, src Source, assemblyID int64) (*Manifest, error) {
	root, err := src.GetAssembly(ctx, assemblyID)
	if err != nil {
		return nil, fmt.Errorf("manifest: export: %w", err)
	}
	if root == nil {
		return nil, fmt.Errorf("manifest: export: assembly %d: %w", assemblyID, model.ErrNotFound)
	}

	var (
		assemblies []model.Assembly
		itemsOf    = make(map[int64][]model.AssemblyItem)
		seenAsm    = map[int64]bool{root.ID: true}
		partOrder  []int64
		seenPart   = make(map[int64]bool)
		queue      = []model.Assembly{*root}
	)
	for len(queue) > 0 {
		a := queue[0]
		queue = queue[1:]
		assemblies = append(assemblies, a)

		items, err := src.AssemblyItemsForAssembly(ctx, a.ID)
		if err != nil {
			return nil, fmt.Errorf("manifest: export assembly %d: %w", a.ID, err)
		}
		itemsOf[a.ID] = items
		for _, it := range items {
			switch {
			case it.PartID != nil && !seenPart[*it.PartID]:
				seenPart[*it.PartID] = true
				partOrder = append(partOrder, *it.PartID)
			case it.SubAssemblyID != nil && !seenAsm[*it.SubAssemblyID]:
				sub, err := src.GetAssembly(ctx, *it.SubAssemblyID)
				if err != nil {
					return nil, fmt.Errorf("manifest: export assembly %d: %w", *it.SubAssemblyID, err)
				}
				if sub == nil {
					continue
				}
				seenAsm[sub.ID] = true
				queue = append(queue, *sub)
			}
		}
	}

	m := &Manifest{}
	exportedFeature := make(map[int64]bool)
	for _, pid := range partOrder {
		p, err := src.GetPart(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("manifest: export part %d: %w", pid, err)
		}
		if p == nil {
			continue
		}
		fs, err := src.FeaturesForPart(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("manifest: export features of part %d: %w", pid, err)
		}
		mp := Part{Key: partKey(p.ID), Name: p.Name, File: p.FileLocation}
		for _, f := range fs {
			mp.Features = append(mp.Features, Feature{Key: featureKey(f.ID), Name: f.Name})
			exportedFeature[f.ID] = true
		}
		m.Parts = append(m.Parts, mp)
	}

	var sysIDs []int64
	for _, a := range assemblies {
		if a.SystemID != nil && !slices.Contains(sysIDs, *a.SystemID) {
			sysIDs = append(sysIDs, *a.SystemID)
		}
	}
	slices.Sort(sysIDs)
	exportedSys := make(map[int64]bool)
	for _, id := range sysIDs {
		s, err := src.GetSystem(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("manifest: export system %d: %w", id, err)
		}
		if s == nil {
			continue
		}
		ms := System{Key: systemKey(s.ID), Name: s.Name}
		if s.OverallAssemblyID != nil && seenAsm[*s.OverallAssemblyID] {
			ms.Overall = assemblyKey(*s.OverallAssemblyID)
		}
		exportedSys[s.ID] = true
		m.Systems = append(m.Systems, ms)
	}

	exportedItem := make(map[int64]bool)
	for _, a := range assemblies {
		ma := Assembly{Key: assemblyKey(a.ID), Name: a.Name, File: a.FileLocation, Image: a.Image}
		if a.SystemID != nil && exportedSys[*a.SystemID] {
			ma.System = systemKey(*a.SystemID)
		}
		if a.ParentAssemblyID != nil && seenAsm[*a.ParentAssemblyID] {
			ma.Parent = assemblyKey(*a.ParentAssemblyID)
		}
		for _, it := range itemsOf[a.ID] {
			mi := Item{Key: itemKey(it.ID), Instance: it.InstanceName}
			switch {
			case it.PartID != nil && seenPart[*it.PartID]:
				mi.Part = partKey(*it.PartID)
			case it.SubAssemblyID != nil && seenAsm[*it.SubAssemblyID]:
				mi.Sub = assemblyKey(*it.SubAssemblyID)
			default:
				continue
			}
			exportedItem[it.ID] = true
			ma.Items = append(ma.Items, mi)
		}
		m.Assemblies = append(m.Assemblies, ma)
	}

	var conns []model.Connector
	seenConn := make(map[int64]bool)
	for _, a := range assemblies {
		for _, it := range itemsOf[a.ID] {
			if !exportedItem[it.ID] {
				continue
			}
			cs, err := src.ConnectorsForAssemblyItem(ctx, it.ID)
			if err != nil {
				return nil, fmt.Errorf("manifest: export connectors of item %d: %w", it.ID, err)
			}
			for _, c := range cs {
				if seenConn[c.ID] {
					continue
				}
				seenConn[c.ID] = true
				if exportedItem[c.AssemblyItem1ID] && exportedItem[c.AssemblyItem2ID] &&
					exportedFeature[c.Feature1ID] && exportedFeature[c.Feature2ID] {
					conns = append(conns, c)
				}
			}
		}
	}
	slices.SortFunc(conns, func(a, b model.Connector) int { return cmp.Compare(a.ID, b.ID) })
	for _, c := range conns {
		m.Connectors = append(m.Connectors, Connector{
			Type:     string(c.Type),
			Feature1: featureKey(c.Feature1ID),
			Item1:    itemKey(c.AssemblyItem1ID),
			Feature2: featureKey(c.Feature2ID),
			Item2:    itemKey(c.AssemblyItem2ID),
		})
	}
	return m, nil
}

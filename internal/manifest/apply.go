package manifest

import (
	"context"
	"fmt"

	"github.com/papapumpkin/sysarch/internal/catalog"
	"github.com/papapumpkin/sysarch/internal/model"
)

// IDs maps manifest keys to the database ids created for them.
type IDs struct {
	Systems    map[string]int64 `json:"systems" yaml:"systems"`
	Parts      map[string]int64 `json:"parts" yaml:"parts"`
	Features   map[string]int64 `json:"features" yaml:"features"`
	Assemblies map[string]int64 `json:"assemblies" yaml:"assemblies"`
	Items      map[string]int64 `json:"items" yaml:"items"`
	Connectors []int64          `json:"connectors" yaml:"connectors"`
}

func newIDs() *IDs {
	return &IDs{
		Systems:    make(map[string]int64),
		Parts:      make(map[string]int64),
		Features:   make(map[string]int64),
		Assemblies: make(map[string]int64),
		Items:      make(map[string]int64),
	}
}

// Counts returns how many entities of each kind were created.
func (ids *IDs) Counts() map[string]int {
	return map[string]int{
		"systems":    len(ids.Systems),
		"parts":      len(ids.Parts),
		"features":   len(ids.Features),
		"assemblies": len(ids.Assemblies),
		"items":      len(ids.Items),
		"connectors": len(ids.Connectors),
	}
}

// Apply creates every entity of m through svc, in dependency order: systems,
// parts and features, assemblies (parents before children), items,
// connectors, and finally each system's overall assembly. Items and
// connectors pass through the catalog validators. Apply stops at the first
// failure; entities created before it remain in the catalog.
func Apply(ctx context.Context, svc *catalog.Service, m *Manifest) (*IDs, error) {
	if err := m.Check(); err != nil {
		return nil, fmt.Errorf("manifest: check: %w", err)
	}
	ids := newIDs()

	for _, s := range m.Systems {
		id, err := svc.AddSystem(ctx, model.System{Name: s.Name})
		if err != nil {
			return ids, fmt.Errorf("manifest: system %q: %w", s.Key, err)
		}
		ids.Systems[s.Key] = id
	}

	for _, p := range m.Parts {
		id, err := svc.AddPart(ctx, model.Part{Name: p.Name, FileLocation: p.File})
		if err != nil {
			return ids, fmt.Errorf("manifest: part %q: %w", p.Key, err)
		}
		ids.Parts[p.Key] = id
		for _, f := range p.Features {
			fid, err := svc.AddFeature(ctx, model.Feature{Name: f.Name, PartID: id})
			if err != nil {
				return ids, fmt.Errorf("manifest: feature %q: %w", f.FeatureKey(p.Key), err)
			}
			ids.Features[f.FeatureKey(p.Key)] = fid
		}
	}

	if err := applyAssemblies(ctx, svc, m.Assemblies, ids); err != nil {
		return ids, err
	}

	for _, a := range m.Assemblies {
		for _, it := range a.Items {
			key := it.ItemKey(a.Key)
			item := model.AssemblyItem{AssemblyID: ids.Assemblies[a.Key], InstanceName: it.Instance}
			if it.Part != "" {
				item.PartID = model.ID(ids.Parts[it.Part])
			} else {
				item.SubAssemblyID = model.ID(ids.Assemblies[it.Sub])
			}
			id, err := svc.AddAssemblyItem(ctx, item)
			if err != nil {
				return ids, fmt.Errorf("manifest: item %q: %w", key, err)
			}
			ids.Items[key] = id
		}
	}

	for i, c := range m.Connectors {
		id, err := svc.AddConnector(ctx, model.Connector{
			Type:            model.ConnectorType(c.Type),
			Feature1ID:      ids.Features[c.Feature1],
			Feature2ID:      ids.Features[c.Feature2],
			AssemblyItem1ID: ids.Items[c.Item1],
			AssemblyItem2ID: ids.Items[c.Item2],
		})
		if err != nil {
			return ids, fmt.Errorf("manifest: connector %d: %w", i+1, err)
		}
		ids.Connectors = append(ids.Connectors, id)
	}

	for _, s := range m.Systems {
		if s.Overall == "" {
			continue
		}
		sys := model.System{ID: ids.Systems[s.Key], Name: s.Name, OverallAssemblyID: model.ID(ids.Assemblies[s.Overall])}
		if err := svc.UpdateSystem(ctx, sys); err != nil {
			return ids, fmt.Errorf("manifest: system %q: %w", s.Key, err)
		}
	}

	svc.Imported(m.Source, ids.Counts())
	return ids, nil
}

// applyAssemblies creates assemblies so that a declared parent always
// exists before its children. A parent chain that loops is rejected.
func applyAssemblies(ctx context.Context, svc *catalog.Service, as []Assembly, ids *IDs) error {
	pending := as
	for len(pending) > 0 {
		var next []Assembly
		for _, a := range pending {
			if a.Parent != "" {
				if _, ok := ids.Assemblies[a.Parent]; !ok {
					next = append(next, a)
					continue
				}
			}
			rec := model.Assembly{Name: a.Name, FileLocation: a.File, Image: a.Image}
			if a.System != "" {
				rec.SystemID = model.ID(ids.Systems[a.System])
			}
			if a.Parent != "" {
				rec.ParentAssemblyID = model.ID(ids.Assemblies[a.Parent])
			}
			id, err := svc.AddAssembly(ctx, rec)
			if err != nil {
				return fmt.Errorf("manifest: assembly %q: %w", a.Key, err)
			}
			ids.Assemblies[a.Key] = id
		}
		if len(next) == len(pending) {
			return fmt.Errorf("manifest: %w: parent chain of assembly %q loops", model.ErrInvalidArgument, next[0].Key)
		}
		pending = next
	}
	return nil
}

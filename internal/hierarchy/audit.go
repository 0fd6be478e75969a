package hierarchy

import (
	"context"
	"errors"
	"fmt"

	"github.com/papapumpkin/sysarch/internal/dag"
	"github.com/papapumpkin/sysarch/internal/model"
)

// CatalogSource lists every assembly and item in the catalog.
type CatalogSource interface {
	ListAssemblies(ctx context.Context) ([]model.Assembly, error)
	ListAssemblyItems(ctx context.Context) ([]model.AssemblyItem, error)
}

// Report summarises the health of the whole containment graph.
type Report struct {
	Assemblies int `json:"assemblies" yaml:"assemblies"`
	Items      int `json:"items" yaml:"items"`
	// CyclicItems are sub-assembly instances that close a cycle. A healthy
	// catalog has none.
	CyclicItems []model.AssemblyItem `json:"cyclic_items" yaml:"cyclic_items"`
	// Roots are assemblies no other assembly contains.
	Roots []int64 `json:"roots" yaml:"roots"`
	// Depth maps each assembly to its longest containment chain from a root.
	Depth    map[int64]int `json:"depth" yaml:"depth"`
	MaxDepth int           `json:"max_depth" yaml:"max_depth"`
	Families []dag.Family  `json:"families" yaml:"families"`
}

// Healthy reports whether the audit found no cycles.
func (r *Report) Healthy() bool {
	return len(r.CyclicItems) == 0
}

// LoadGraph builds the containment DAG from the catalog. Items whose edge
// would close a cycle are left out of the graph and returned separately.
func LoadGraph(ctx context.Context, src CatalogSource) (*dag.Graph, []model.AssemblyItem, int, error) {
	assemblies, err := src.ListAssemblies(ctx)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("hierarchy: load assemblies: %w", err)
	}
	items, err := src.ListAssemblyItems(ctx)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("hierarchy: load items: %w", err)
	}

	g := dag.New()
	for _, a := range assemblies {
		if err := g.AddNode(a.ID, a.Name); err != nil {
			return nil, nil, 0, fmt.Errorf("hierarchy: load graph: %w", err)
		}
	}

	var cyclic []model.AssemblyItem
	for _, it := range items {
		if it.SubAssemblyID == nil {
			continue
		}
		err := g.AddEdge(it.AssemblyID, *it.SubAssemblyID)
		switch {
		case err == nil:
		case errors.Is(err, dag.ErrCycle), errors.Is(err, dag.ErrSelfEdge):
			cyclic = append(cyclic, it)
		default:
			return nil, nil, 0, fmt.Errorf("hierarchy: item %d: %w", it.ID, err)
		}
	}
	return g, cyclic, len(items), nil
}

// Audit loads the whole containment graph and reports cycles, roots,
// per-assembly depth and independent families.
func Audit(ctx context.Context, src CatalogSource) (*Report, error) {
	g, cyclic, itemCount, err := LoadGraph(ctx, src)
	if err != nil {
		return nil, err
	}

	maxDepth, err := g.ComputeDepths()
	if err != nil {
		return nil, fmt.Errorf("hierarchy: audit depths: %w", err)
	}
	families, err := g.ComputeFamilies()
	if err != nil {
		return nil, fmt.Errorf("hierarchy: audit families: %w", err)
	}

	depth := make(map[int64]int, g.Len())
	for _, id := range g.Nodes() {
		depth[id] = g.Node(id).Depth
	}
	return &Report{
		Assemblies:  g.Len(),
		Items:       itemCount,
		CyclicItems: cyclic,
		Roots:       g.Roots(),
		Depth:       depth,
		MaxDepth:    maxDepth,
		Families:    families,
	}, nil
}

// WhereUsed returns every assembly that directly or transitively contains
// assemblyID, in id order.
func WhereUsed(ctx context.Context, src CatalogSource, assemblyID int64) ([]model.Assembly, error) {
	g, _, _, err := LoadGraph(ctx, src)
	if err != nil {
		return nil, err
	}
	if g.Node(assemblyID) == nil {
		return nil, fmt.Errorf("hierarchy: where used: %w: assembly %d", model.ErrNotFound, assemblyID)
	}
	ids := g.Containers(assemblyID)
	out := make([]model.Assembly, 0, len(ids))
	assemblies, err := src.ListAssemblies(ctx)
	if err != nil {
		return nil, fmt.Errorf("hierarchy: where used: %w", err)
	}
	byID := make(map[int64]model.Assembly, len(assemblies))
	for _, a := range assemblies {
		byID[a.ID] = a
	}
	for _, id := range ids {
		out = append(out, byID[id])
	}
	return out, nil
}

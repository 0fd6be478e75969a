package dag

import (
	"slices"
	"sort"
)

// Family is a set of assemblies connected through containment, ignoring
// edge direction. Assemblies in different families share no sub-assemblies.
type Family struct {
	// ID is the integer identifier assigned to this family, starting at 0.
	ID int `json:"id" yaml:"id"`

	// AssemblyIDs lists the members in topological order (containers before
	// contents).
	AssemblyIDs []int64 `json:"assembly_ids" yaml:"assembly_ids"`

	// Roots lists the members no other assembly contains, in id order.
	Roots []int64 `json:"roots" yaml:"roots"`
}

// ComputeFamilies partitions the graph into families using Union-Find and
// assigns Node.FamilyID on every node. Families are ordered by size
// (largest first), then by their first member id.
func (g *Graph) ComputeFamilies() ([]Family, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	order, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}
	pos := make(map[int64]int, len(order))
	for i, id := range order {
		pos[id] = i
	}

	uf := NewUnionFind[int64]()
	for id := range g.nodes {
		uf.Add(id)
	}
	for container, subs := range g.adjacency {
		for sub := range subs {
			uf.Union(container, sub)
		}
	}

	components := uf.Components()
	families := make([]Family, 0, len(components))
	for _, members := range components {
		sort.Slice(members, func(i, j int) bool {
			return pos[members[i]] < pos[members[j]]
		})
		var roots []int64
		for _, id := range members {
			if len(g.reverse[id]) == 0 {
				roots = append(roots, id)
			}
		}
		slices.Sort(roots)
		families = append(families, Family{AssemblyIDs: members, Roots: roots})
	}

	sort.Slice(families, func(i, j int) bool {
		if len(families[i].AssemblyIDs) != len(families[j].AssemblyIDs) {
			return len(families[i].AssemblyIDs) > len(families[j].AssemblyIDs)
		}
		return families[i].AssemblyIDs[0] < families[j].AssemblyIDs[0]
	})

	for i := range families {
		families[i].ID = i
		for _, id := range families[i].AssemblyIDs {
			g.nodes[id].FamilyID = i
		}
	}
	return families, nil
}

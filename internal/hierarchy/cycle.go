// Package hierarchy walks the assembly containment graph: the directed graph
// whose nodes are assemblies and whose edges are assembly items that
// instance a sub-assembly. It answers whether a new edge would close a cycle,
// flattens an assembly into its part occurrences, and builds a nested tree
// view. Every walk terminates even if the stored graph already contains a
// cycle.
package hierarchy

import (
	"context"
	"fmt"

	"github.com/papapumpkin/sysarch/internal/model"
)

// ItemSource lists the items contained by an assembly.
type ItemSource interface {
	AssemblyItemsForAssembly(ctx context.Context, assemblyID int64) ([]model.AssemblyItem, error)
}

// Source is the read surface the traversals need.
type Source interface {
	ItemSource
	GetAssembly(ctx context.Context, id int64) (*model.Assembly, error)
	GetPart(ctx context.Context, id int64) (*model.Part, error)
}

// WouldCreateCycle reports whether placing candidate inside assemblyID would
// make the containment graph cyclic, i.e. whether assemblyID is candidate
// itself or is reachable from candidate through contains edges.
func WouldCreateCycle(ctx context.Context, src ItemSource, assemblyID, candidate int64) (bool, error) {
	if assemblyID == candidate {
		return true, nil
	}

	visited := make(map[int64]bool)
	stack := []int64{candidate}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == assemblyID {
			return true, nil
		}
		if visited[cur] {
			continue
		}
		visited[cur] = true

		items, err := src.AssemblyItemsForAssembly(ctx, cur)
		if err != nil {
			return false, fmt.Errorf("hierarchy: items of assembly %d: %w", cur, err)
		}
		for _, it := range items {
			if it.SubAssemblyID != nil && !visited[*it.SubAssemblyID] {
				stack = append(stack, *it.SubAssemblyID)
			}
		}
	}
	return false, nil
}

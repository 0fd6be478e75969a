// Package dag provides an in-memory directed acyclic graph of assemblies.
// Edges point from a container assembly to a sub-assembly it instances, so
// a path from A to B means B is (transitively) part of A. The graph refuses
// edges that would close a cycle and supports topological ordering, depth
// computation and transitive where-used queries.
package dag

import (
	"errors"
	"fmt"
	"slices"
)

// ErrCycle is returned when an edge would make the graph cyclic.
var ErrCycle = errors.New("cycle detected")

// ErrNodeNotFound is returned when an operation references a non-existent node.
var ErrNodeNotFound = errors.New("node not found")

// ErrDuplicateNode is returned when adding a node that already exists.
var ErrDuplicateNode = errors.New("duplicate node")

// ErrSelfEdge is returned when an edge would create a self-loop.
var ErrSelfEdge = errors.New("self-referencing edge")

// Node is an assembly in the graph.
type Node struct {
	ID   int64
	Name string

	// Depth is the length of the longest containment chain from a root
	// down to this node. Populated by ComputeDepths.
	Depth int
	// FamilyID is the partition identifier assigned by ComputeFamilies.
	FamilyID int
}

// Graph is a containment DAG keyed by assembly id.
type Graph struct {
	nodes map[int64]*Node
	// adjacency maps container → set of contained sub-assemblies.
	adjacency map[int64]map[int64]bool
	// reverse maps sub-assembly → set of containers.
	reverse map[int64]map[int64]bool
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:     make(map[int64]*Node),
		adjacency: make(map[int64]map[int64]bool),
		reverse:   make(map[int64]map[int64]bool),
	}
}

// AddNode adds an assembly. Returns ErrDuplicateNode if the id is taken.
func (g *Graph) AddNode(id int64, name string) error {
	if _, exists := g.nodes[id]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateNode, id)
	}
	g.nodes[id] = &Node{ID: id, Name: name}
	g.adjacency[id] = make(map[int64]bool)
	g.reverse[id] = make(map[int64]bool)
	return nil
}

// AddEdge records that container instances sub. Both nodes must exist.
// Returns an error if either node is missing, the edge is a self-loop, or
// sub already (transitively) contains container.
func (g *Graph) AddEdge(container, sub int64) error {
	if container == sub {
		return fmt.Errorf("%w: %d", ErrSelfEdge, container)
	}
	if _, ok := g.nodes[container]; !ok {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, container)
	}
	if _, ok := g.nodes[sub]; !ok {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, sub)
	}
	// A second instance of the same sub-assembly adds no new edge.
	if g.adjacency[container][sub] {
		return nil
	}
	if g.hasPath(sub, container) {
		return fmt.Errorf("%w: edge %d → %d would create a cycle", ErrCycle, container, sub)
	}
	g.adjacency[container][sub] = true
	g.reverse[sub][container] = true
	return nil
}

// Node returns the node with the given id, or nil if not found.
func (g *Graph) Node(id int64) *Node {
	return g.nodes[id]
}

// Nodes returns all node ids in ascending order.
func (g *Graph) Nodes() []int64 {
	ids := make([]int64, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Roots returns the assemblies no other assembly contains, in id order.
func (g *Graph) Roots() []int64 {
	var roots []int64
	for id := range g.nodes {
		if len(g.reverse[id]) == 0 {
			roots = append(roots, id)
		}
	}
	slices.Sort(roots)
	return roots
}

// TopologicalSort returns node ids with every container before the
// assemblies it contains. Ties are broken by ascending id. Returns ErrCycle
// if the graph is cyclic, which AddEdge prevents.
func (g *Graph) TopologicalSort() ([]int64, error) {
	inDegree := make(map[int64]int, len(g.nodes))
	for id := range g.nodes {
		inDegree[id] = len(g.reverse[id])
	}

	queue := g.Roots()
	sorted := make([]int64, 0, len(g.nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		sorted = append(sorted, id)

		var freed []int64
		for sub := range g.adjacency[id] {
			inDegree[sub]--
			if inDegree[sub] == 0 {
				freed = append(freed, sub)
			}
		}
		slices.Sort(freed)
		queue = append(queue, freed...)
	}

	if len(sorted) != len(g.nodes) {
		return nil, fmt.Errorf("%w: not all nodes could be ordered (%d of %d)",
			ErrCycle, len(sorted), len(g.nodes))
	}
	return sorted, nil
}

// ComputeDepths sets Node.Depth to the longest containment chain from any
// root and returns the maximum depth.
func (g *Graph) ComputeDepths() (int, error) {
	order, err := g.TopologicalSort()
	if err != nil {
		return 0, err
	}
	maxDepth := 0
	for _, id := range order {
		g.nodes[id].Depth = 0
	}
	for _, id := range order {
		d := g.nodes[id].Depth
		for sub := range g.adjacency[id] {
			if g.nodes[sub].Depth < d+1 {
				g.nodes[sub].Depth = d + 1
			}
		}
		maxDepth = max(maxDepth, d)
	}
	return maxDepth, nil
}

// Contents returns every assembly transitively contained by id, in id
// order. Returns nil if the node does not exist.
func (g *Graph) Contents(id int64) []int64 {
	if _, ok := g.nodes[id]; !ok {
		return nil
	}
	return collect(id, g.adjacency)
}

// Containers returns every assembly that transitively contains id (its
// where-used set), in id order. Returns nil if the node does not exist.
func (g *Graph) Containers(id int64) []int64 {
	if _, ok := g.nodes[id]; !ok {
		return nil
	}
	return collect(id, g.reverse)
}

// hasPath reports whether there is a directed path from src to dst.
func (g *Graph) hasPath(src, dst int64) bool {
	if src == dst {
		return false
	}
	visited := make(map[int64]bool)
	queue := []int64{src}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for next := range g.adjacency[cur] {
			if next == dst {
				return true
			}
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

// collect performs a BFS over edges from id and returns every reachable
// node except id itself.
func collect(id int64, edges map[int64]map[int64]bool) []int64 {
	visited := map[int64]bool{id: true}
	queue := []int64{id}
	var result []int64
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for next := range edges[cur] {
			if !visited[next] {
				visited[next] = true
				result = append(result, next)
				queue = append(queue, next)
			}
		}
	}
	slices.Sort(result)
	return result
}

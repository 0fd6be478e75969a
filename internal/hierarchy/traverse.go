package hierarchy

import (
	"context"
	"fmt"

	"github.com/papapumpkin/sysarch/internal/model"
)

// PartOccurrence is one part instance found while flattening an assembly.
// Level 0 means the part is a direct child of the queried assembly.
type PartOccurrence struct {
	PartID           int64  `json:"part_id" yaml:"part_id"`
	PartName         string `json:"part_name" yaml:"part_name"`
	PartFileLocation string `json:"part_file_location" yaml:"part_file_location"`
	InstanceName     string `json:"instance_name" yaml:"instance_name"`
	AssemblyID       int64  `json:"assembly_id" yaml:"assembly_id"`
	Level            int    `json:"level" yaml:"level"`
}

// Flatten lists the part occurrences of an assembly in item order. When
// recursive is set, sub-assemblies are descended depth-first and their
// parts reported one level deeper. Each assembly id is expanded at most once
// per call; an assembly reached a second time is skipped without error.
func Flatten(ctx context.Context, src Source, assemblyID int64, recursive bool) ([]PartOccurrence, error) {
	var out []PartOccurrence
	processed := make(map[int64]bool)

	var collect func(id int64, level int) error
	collect = func(id int64, level int) error {
		if processed[id] {
			return nil
		}
		processed[id] = true

		items, err := src.AssemblyItemsForAssembly(ctx, id)
		if err != nil {
			return fmt.Errorf("hierarchy: flatten assembly %d: %w", id, err)
		}
		for _, it := range items {
			switch {
			case it.PartID != nil:
				part, err := src.GetPart(ctx, *it.PartID)
				if err != nil {
					return fmt.Errorf("hierarchy: flatten part %d: %w", *it.PartID, err)
				}
				if part == nil {
					continue
				}
				out = append(out, PartOccurrence{
					PartID:           part.ID,
					PartName:         part.Name,
					PartFileLocation: part.FileLocation,
					InstanceName:     it.InstanceName,
					AssemblyID:       id,
					Level:            level,
				})
			case it.SubAssemblyID != nil && recursive:
				if err := collect(*it.SubAssemblyID, level+1); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if err := collect(assemblyID, 0); err != nil {
		return nil, err
	}
	return out, nil
}

// Node types in a hierarchy tree.
const (
	NodeAssembly     = "assembly"
	NodePartInstance = "part_instance"
)

// CircularName is the name given to a placeholder node that stands in for an
// assembly already present on the path from the root.
const CircularName = "... (circular reference prevented)"

// TreeNode is one node of a hierarchy tree. Assembly nodes carry their own
// attributes and children; part-instance nodes carry the item id as ID, the
// instance name as Name and the instanced part's attributes.
type TreeNode struct {
	ID               int64       `json:"id" yaml:"id"`
	Name             string      `json:"name" yaml:"name"`
	Type             string      `json:"type" yaml:"type"`
	FileLocation     string      `json:"file_location,omitempty" yaml:"file_location,omitempty"`
	Image            string      `json:"image,omitempty" yaml:"image,omitempty"`
	InstanceName     string      `json:"instance_name,omitempty" yaml:"instance_name,omitempty"`
	PartID           int64       `json:"part_id,omitempty" yaml:"part_id,omitempty"`
	PartName         string      `json:"part_name,omitempty" yaml:"part_name,omitempty"`
	PartFileLocation string      `json:"part_file_location,omitempty" yaml:"part_file_location,omitempty"`
	Circular         bool        `json:"circular,omitempty" yaml:"circular,omitempty"`
	Children         []*TreeNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// IsAssembly reports whether the node is an assembly (or a placeholder for one).
func (n *TreeNode) IsAssembly() bool { return n.Type == NodeAssembly }

// BuildTree returns the full nested view of an assembly, or nil if the
// assembly does not exist. Only assemblies on the path from the root count
// as revisits, so two sibling instances of the same sub-assembly are both
// expanded; a true ancestor is replaced by a circular placeholder.
func BuildTree(ctx context.Context, src Source, assemblyID int64) (*TreeNode, error) {
	root, err := src.GetAssembly(ctx, assemblyID)
	if err != nil {
		return nil, fmt.Errorf("hierarchy: tree root %d: %w", assemblyID, err)
	}
	if root == nil {
		return nil, nil
	}
	return buildTree(ctx, src, root, map[int64]bool{})
}

func buildTree(ctx context.Context, src Source, a *model.Assembly, ancestors map[int64]bool) (*TreeNode, error) {
	path := make(map[int64]bool, len(ancestors)+1)
	for id := range ancestors {
		path[id] = true
	}
	path[a.ID] = true

	node := &TreeNode{
		ID:           a.ID,
		Name:         a.Name,
		Type:         NodeAssembly,
		FileLocation: a.FileLocation,
		Image:        a.Image,
		Children:     []*TreeNode{},
	}

	items, err := src.AssemblyItemsForAssembly(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("hierarchy: tree assembly %d: %w", a.ID, err)
	}
	for _, it := range items {
		switch {
		case it.PartID != nil:
			part, err := src.GetPart(ctx, *it.PartID)
			if err != nil {
				return nil, fmt.Errorf("hierarchy: tree part %d: %w", *it.PartID, err)
			}
			if part == nil {
				continue
			}
			node.Children = append(node.Children, &TreeNode{
				ID:               it.ID,
				Name:             it.InstanceName,
				Type:             NodePartInstance,
				InstanceName:     it.InstanceName,
				PartID:           part.ID,
				PartName:         part.Name,
				PartFileLocation: part.FileLocation,
			})
		case it.SubAssemblyID != nil:
			subID := *it.SubAssemblyID
			if path[subID] {
				node.Children = append(node.Children, &TreeNode{
					ID:           subID,
					Name:         CircularName,
					Type:         NodeAssembly,
					InstanceName: it.InstanceName,
					Circular:     true,
				})
				continue
			}
			sub, err := src.GetAssembly(ctx, subID)
			if err != nil {
				return nil, fmt.Errorf("hierarchy: tree sub-assembly %d: %w", subID, err)
			}
			if sub == nil {
				continue
			}
			child, err := buildTree(ctx, src, sub, path)
			if err != nil {
				return nil, err
			}
			child.InstanceName = it.InstanceName
			node.Children = append(node.Children, child)
		}
	}
	return node, nil
}

// Walk visits n and its descendants depth-first, passing the depth of each
// node relative to n.
func (n *TreeNode) Walk(fn func(node *TreeNode, depth int)) {
	var visit func(node *TreeNode, depth int)
	visit = func(node *TreeNode, depth int) {
		fn(node, depth)
		for _, c := range node.Children {
			visit(c, depth+1)
		}
	}
	visit(n, 0)
}

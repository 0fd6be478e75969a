package hierarchy

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// treeFields has TreeNode's fields and tags without its marshal methods.
type treeFields TreeNode

// bareLeaf reports whether n is an expanded assembly with no children. Such
// a node is encoded with an explicit empty children list; part instances
// and circular placeholders carry none.
func (n TreeNode) bareLeaf() bool {
	return n.Type == NodeAssembly && !n.Circular && len(n.Children) == 0
}

// MarshalJSON encodes the node, writing "children": [] for a leaf assembly.
func (n TreeNode) MarshalJSON() ([]byte, error) {
	if !n.bareLeaf() {
		return json.Marshal(treeFields(n))
	}
	return json.Marshal(struct {
		treeFields
		Children []*TreeNode `json:"children"`
	}{treeFields(n), []*TreeNode{}})
}

// MarshalYAML encodes the node, writing "children: []" for a leaf assembly.
func (n TreeNode) MarshalYAML() (any, error) {
	var doc yaml.Node
	if err := doc.Encode(treeFields(n)); err != nil {
		return nil, err
	}
	if n.bareLeaf() {
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "children"},
			&yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle},
		)
	}
	return &doc, nil
}

// Package model defines the entities of the assembly catalog: systems,
// assemblies, parts, features, assembly items (instances) and connectors.
//
// Assemblies never reference their contents directly. Containment is
// expressed by AssemblyItem rows, each of which points at exactly one Part
// or one sub-Assembly. Connectors bind a feature on one instance to a
// feature on another instance.
package model

import (
	"fmt"
	"strings"
)

// ConnectorType is the relation a connector expresses between two features.
type ConnectorType string

// Supported connector types.
const (
	Coincident ConnectorType = "coincident"
	Concentric ConnectorType = "concentric"
	Tangent    ConnectorType = "tangent"
	Fixed      ConnectorType = "fixed"
)

// ConnectorTypes returns the supported connector types in canonical order.
func ConnectorTypes() []ConnectorType {
	return []ConnectorType{Coincident, Concentric, Tangent, Fixed}
}

// Valid reports whether t is one of the supported connector types.
func (t ConnectorType) Valid() bool {
	switch t {
	case Coincident, Concentric, Tangent, Fixed:
		return true
	}
	return false
}

// ConnectorTypeList returns the supported types as a comma separated string,
// for use in error messages and flag help.
func ConnectorTypeList() string {
	types := ConnectorTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// System is the top-level container for one overall assembly.
type System struct {
	ID                int64  `json:"id" yaml:"id"`
	Name              string `json:"name" yaml:"name"`
	OverallAssemblyID *int64 `json:"overall_assembly_id,omitempty" yaml:"overall_assembly_id,omitempty"`
}

// Assembly is a named container of part and sub-assembly instances.
// ParentAssemblyID is informational only; containment is derived from
// AssemblyItem rows.
type Assembly struct {
	ID               int64  `json:"id" yaml:"id"`
	Name             string `json:"name" yaml:"name"`
	FileLocation     string `json:"file_location" yaml:"file_location"`
	Image            string `json:"image,omitempty" yaml:"image,omitempty"`
	SystemID         *int64 `json:"system_id,omitempty" yaml:"system_id,omitempty"`
	ParentAssemblyID *int64 `json:"parent_assembly_id,omitempty" yaml:"parent_assembly_id,omitempty"`
}

// Part is an individual component. Its features are shared by every
// instance of the part.
type Part struct {
	ID           int64  `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	FileLocation string `json:"file_location" yaml:"file_location"`
}

// Feature is a named attachment point owned by a single part.
type Feature struct {
	ID     int64  `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	PartID int64  `json:"part_id" yaml:"part_id"`
}

// AssemblyItem places one part or one sub-assembly inside a container
// assembly under a local instance name. Exactly one of PartID and
// SubAssemblyID is set.
type AssemblyItem struct {
	ID            int64  `json:"id" yaml:"id"`
	AssemblyID    int64  `json:"assembly_id" yaml:"assembly_id"`
	PartID        *int64 `json:"part_id,omitempty" yaml:"part_id,omitempty"`
	SubAssemblyID *int64 `json:"sub_assembly_id,omitempty" yaml:"sub_assembly_id,omitempty"`
	InstanceName  string `json:"instance_name" yaml:"instance_name"`
}

// IsPart reports whether the item is a direct part instance.
func (it AssemblyItem) IsPart() bool { return it.PartID != nil }

// IsSubAssembly reports whether the item is a sub-assembly instance.
func (it AssemblyItem) IsSubAssembly() bool { return it.SubAssemblyID != nil }

// CheckTarget enforces the part XOR sub-assembly rule. The returned error
// wraps ErrInvalidArgument.
func (it AssemblyItem) CheckTarget() error {
	switch {
	case it.PartID == nil && it.SubAssemblyID == nil:
		return fmt.Errorf("%w: either part_id or sub_assembly_id must be set", ErrInvalidArgument)
	case it.PartID != nil && it.SubAssemblyID != nil:
		return fmt.Errorf("%w: part_id and sub_assembly_id are mutually exclusive", ErrInvalidArgument)
	}
	return nil
}

// Connector links feature 1 on instance 1 to feature 2 on instance 2.
type Connector struct {
	ID              int64         `json:"id" yaml:"id"`
	Type            ConnectorType `json:"type" yaml:"type"`
	Feature1ID      int64         `json:"feature1_id" yaml:"feature1_id"`
	Feature2ID      int64         `json:"feature2_id" yaml:"feature2_id"`
	AssemblyItem1ID int64         `json:"assembly_item1_id" yaml:"assembly_item1_id"`
	AssemblyItem2ID int64         `json:"assembly_item2_id" yaml:"assembly_item2_id"`
}

// ID returns a pointer to id, for populating optional references.
func ID(id int64) *int64 { return &id }

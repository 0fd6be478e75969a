// Package connections answers which connectors touch a feature, a part or
// an assembly item.
package connections

import (
	"context"
	"fmt"

	"github.com/papapumpkin/sysarch/internal/model"
)

// Source is the read surface the lookups need.
type Source interface {
	FeaturesForPart(ctx context.Context, partID int64) ([]model.Feature, error)
	ConnectorsForFeature(ctx context.Context, featureID int64) ([]model.Connector, error)
	ConnectorsForAssemblyItem(ctx context.Context, itemID int64) ([]model.Connector, error)
}

// Record is one connector as reported by a lookup.
type Record struct {
	ConnectorID     int64               `json:"connector_id" yaml:"connector_id"`
	Type            model.ConnectorType `json:"type" yaml:"type"`
	Feature1ID      int64               `json:"feature1_id" yaml:"feature1_id"`
	Feature2ID      int64               `json:"feature2_id" yaml:"feature2_id"`
	AssemblyItem1ID int64               `json:"assembly_item1_id" yaml:"assembly_item1_id"`
	AssemblyItem2ID int64               `json:"assembly_item2_id" yaml:"assembly_item2_id"`
}

func toRecord(c model.Connector) Record {
	return Record{
		ConnectorID:     c.ID,
		Type:            c.Type,
		Feature1ID:      c.Feature1ID,
		Feature2ID:      c.Feature2ID,
		AssemblyItem1ID: c.AssemblyItem1ID,
		AssemblyItem2ID: c.AssemblyItem2ID,
	}
}

func toRecords(cs []model.Connector) []Record {
	out := make([]Record, 0, len(cs))
	for _, c := range cs {
		out = append(out, toRecord(c))
	}
	return out
}

// ByFeature returns the connectors that reference the feature on either side.
func ByFeature(ctx context.Context, src Source, featureID int64) ([]Record, error) {
	cs, err := src.ConnectorsForFeature(ctx, featureID)
	if err != nil {
		return nil, fmt.Errorf("connections: feature %d: %w", featureID, err)
	}
	return toRecords(cs), nil
}

// ByPart returns the connectors that reference any feature of the part,
// across every instance of it. A connector linking two features of the same
// part is reported once, at its first sighting in feature order.
func ByPart(ctx context.Context, src Source, partID int64) ([]Record, error) {
	features, err := src.FeaturesForPart(ctx, partID)
	if err != nil {
		return nil, fmt.Errorf("connections: features of part %d: %w", partID, err)
	}

	seen := make(map[int64]bool)
	out := []Record{}
	for _, f := range features {
		cs, err := src.ConnectorsForFeature(ctx, f.ID)
		if err != nil {
			return nil, fmt.Errorf("connections: feature %d: %w", f.ID, err)
		}
		for _, c := range cs {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			out = append(out, toRecord(c))
		}
	}
	return out, nil
}

// ByAssemblyItem returns the connectors that reference the item on either
// side.
func ByAssemblyItem(ctx context.Context, src Source, itemID int64) ([]Record, error) {
	cs, err := src.ConnectorsForAssemblyItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("connections: assembly item %d: %w", itemID, err)
	}
	return toRecords(cs), nil
}

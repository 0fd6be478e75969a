// Package validate checks candidate assembly items and connectors against
// the current catalog before they are written.
//
// Domain violations are reported as a Result, never as an error: the
// returned error is reserved for failures of the underlying store.
package validate

import (
	"context"
	"fmt"

	"github.com/papapumpkin/sysarch/internal/hierarchy"
	"github.com/papapumpkin/sysarch/internal/model"
)

// Source is the read surface the validators need.
type Source interface {
	hierarchy.ItemSource
	GetAssembly(ctx context.Context, id int64) (*model.Assembly, error)
	GetPart(ctx context.Context, id int64) (*model.Part, error)
	GetFeature(ctx context.Context, id int64) (*model.Feature, error)
	GetAssemblyItem(ctx context.Context, id int64) (*model.AssemblyItem, error)
}

// Result is the outcome of a validation. Reason and Category are empty when
// Valid is true.
type Result struct {
	Valid    bool                    `json:"valid"`
	Reason   string                  `json:"reason,omitempty"`
	Category model.ViolationCategory `json:"category,omitempty"`
}

// OK is the successful result.
func OK() Result {
	return Result{Valid: true}
}

func fail(cat model.ViolationCategory, format string, args ...any) Result {
	return Result{Category: cat, Reason: fmt.Sprintf(format, args...)}
}

// Err converts a failed result into a *model.Violation. It returns nil for
// a valid result.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &model.Violation{Category: r.Category, Reason: r.Reason}
}

// Connector validates a candidate connector. Checks run in order and stop at
// the first failure:
//
//  1. feature 1 exists
//  2. feature 2 exists
//  3. assembly item 1 exists
//  4. assembly item 2 exists
//  5. feature 1 belongs to item 1's part, when item 1 instances a part
//  6. feature 2 belongs to item 2's part, when item 2 instances a part
//  7. the connector type is supported
//
// A side whose item instances a sub-assembly skips the ownership check.
func Connector(ctx context.Context, src Source, c model.Connector) (Result, error) {
	f1, err := src.GetFeature(ctx, c.Feature1ID)
	if err != nil {
		return Result{}, err
	}
	if f1 == nil {
		return fail(model.CatMissingFeature, "feature1 (id %d) does not exist", c.Feature1ID), nil
	}
	f2, err := src.GetFeature(ctx, c.Feature2ID)
	if err != nil {
		return Result{}, err
	}
	if f2 == nil {
		return fail(model.CatMissingFeature, "feature2 (id %d) does not exist", c.Feature2ID), nil
	}

	it1, err := src.GetAssemblyItem(ctx, c.AssemblyItem1ID)
	if err != nil {
		return Result{}, err
	}
	if it1 == nil {
		return fail(model.CatMissingItem, "assembly item1 (id %d) does not exist", c.AssemblyItem1ID), nil
	}
	it2, err := src.GetAssemblyItem(ctx, c.AssemblyItem2ID)
	if err != nil {
		return Result{}, err
	}
	if it2 == nil {
		return fail(model.CatMissingItem, "assembly item2 (id %d) does not exist", c.AssemblyItem2ID), nil
	}

	// TODO: resolve features against the parts nested in a sub-assembly
	// instance; today that side is accepted unchecked.
	if it1.PartID != nil && f1.PartID != *it1.PartID {
		return fail(model.CatForeignFeature,
			"feature1 (id %d) belongs to part %d, not part %d of assembly item1 (id %d)",
			f1.ID, f1.PartID, *it1.PartID, it1.ID), nil
	}
	if it2.PartID != nil && f2.PartID != *it2.PartID {
		return fail(model.CatForeignFeature,
			"feature2 (id %d) belongs to part %d, not part %d of assembly item2 (id %d)",
			f2.ID, f2.PartID, *it2.PartID, it2.ID), nil
	}

	if !c.Type.Valid() {
		return fail(model.CatInvalidType, "invalid connector type %q: must be one of: %s",
			c.Type, model.ConnectorTypeList()), nil
	}
	return OK(), nil
}

// AssemblyItem validates a candidate item: exactly one target is set, the
// container exists, the target exists, and a sub-assembly target does not
// close a containment cycle.
func AssemblyItem(ctx context.Context, src Source, it model.AssemblyItem) (Result, error) {
	switch {
	case it.PartID == nil && it.SubAssemblyID == nil:
		return fail(model.CatMissingTarget, "either part_id or sub_assembly_id must be set"), nil
	case it.PartID != nil && it.SubAssemblyID != nil:
		return fail(model.CatAmbiguousTarget, "cannot set both part_id and sub_assembly_id"), nil
	}

	container, err := src.GetAssembly(ctx, it.AssemblyID)
	if err != nil {
		return Result{}, err
	}
	if container == nil {
		return fail(model.CatMissingAssembly, "assembly (id %d) does not exist", it.AssemblyID), nil
	}

	if it.PartID != nil {
		part, err := src.GetPart(ctx, *it.PartID)
		if err != nil {
			return Result{}, err
		}
		if part == nil {
			return fail(model.CatMissingPart, "part (id %d) does not exist", *it.PartID), nil
		}
		return OK(), nil
	}

	subID := *it.SubAssemblyID
	sub, err := src.GetAssembly(ctx, subID)
	if err != nil {
		return Result{}, err
	}
	if sub == nil {
		return fail(model.CatMissingAssembly, "sub-assembly (id %d) does not exist", subID), nil
	}
	cyclic, err := hierarchy.WouldCreateCycle(ctx, src, it.AssemblyID, subID)
	if err != nil {
		return Result{}, err
	}
	if cyclic {
		return fail(model.CatCycle,
			"adding sub-assembly %d to assembly %d would create a circular reference", subID, it.AssemblyID), nil
	}
	return OK(), nil
}

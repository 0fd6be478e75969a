package model

import "errors"

// Sentinel errors shared by the store, validators and catalog service.
var (
	// ErrNotFound indicates a referenced entity id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument indicates a malformed request, such as an update
	// without an id or an item with both or neither target set.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConstraintViolation indicates a domain or referential rule would be
	// broken by the operation.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrStorage indicates the persistence layer failed. The enclosing
	// transaction has been rolled back.
	ErrStorage = errors.New("storage failure")
)

// ViolationCategory classifies a validation failure for programmatic handling.
type ViolationCategory string

// Violation categories.
const (
	CatMissingTarget   ViolationCategory = "missing_target"
	CatAmbiguousTarget ViolationCategory = "ambiguous_target"
	CatMissingAssembly ViolationCategory = "missing_assembly"
	CatMissingPart     ViolationCategory = "missing_part"
	CatMissingFeature  ViolationCategory = "missing_feature"
	CatMissingItem     ViolationCategory = "missing_item"
	CatMissingSystem   ViolationCategory = "missing_system"
	CatForeignFeature  ViolationCategory = "foreign_feature"
	CatInvalidType     ViolationCategory = "invalid_type"
	CatCycle           ViolationCategory = "cycle"
)

// Violation is a rejected validation result surfaced as an error.
type Violation struct {
	Category ViolationCategory
	Reason   string
}

// Error returns the human-readable reason.
func (v *Violation) Error() string {
	return v.Reason
}

// Unwrap maps the category onto the error taxonomy: malformed input is an
// invalid argument, everything else is a constraint violation.
func (v *Violation) Unwrap() error {
	switch v.Category {
	case CatMissingTarget, CatAmbiguousTarget, CatInvalidType:
		return ErrInvalidArgument
	}
	return ErrConstraintViolation
}

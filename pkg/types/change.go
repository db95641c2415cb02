package types

import "slices"

// ChangeType classifies a history ledger entry.
// The set is closed so illegal change labels are unrepresentable.
type ChangeType string

const (
	// ChangeExtraction records an ingestion attempt: the initial extraction that
	// created a fact, or a candidate that arrived but was not applied.
	ChangeExtraction ChangeType = "extraction"

	// ChangeUserEdit records a manual edit by a user.
	ChangeUserEdit ChangeType = "user_edit"

	// ChangeSystemUpdate records a system-decided replacement or confidence refresh.
	ChangeSystemUpdate ChangeType = "system_update"

	// ChangeMerge records a value folded in from another fact.
	ChangeMerge ChangeType = "merge"

	// ChangeDeprecate records the retirement of a fact.
	ChangeDeprecate ChangeType = "deprecate"
)

// ChangeTypes returns all defined change types.
func ChangeTypes() []ChangeType {
	return []ChangeType{
		ChangeExtraction,
		ChangeUserEdit,
		ChangeSystemUpdate,
		ChangeMerge,
		ChangeDeprecate,
	}
}

// String returns the string representation of a change type.
func (c ChangeType) String() string {
	return string(c)
}

// IsValid returns true if the change type is one of the defined constants.
func (c ChangeType) IsValid() bool {
	return slices.Contains(ChangeTypes(), c)
}

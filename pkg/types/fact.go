package types

import "slices"

// FactKey identifies a canonical company attribute (e.g. "company_name", "ein").
// Exactly one active fact exists per key at any time.
type FactKey string

// String returns the string representation of a fact key.
func (k FactKey) String() string {
	return string(k)
}

// FactStatus describes the lifecycle state of a canonical fact.
// Facts are never deleted; superseded facts are marked deprecated or merged.
type FactStatus string

const (
	// StatusActive marks the fact as the current authoritative value for its key.
	StatusActive FactStatus = "active"

	// StatusDeprecated marks a fact that was retired without a replacement value.
	StatusDeprecated FactStatus = "deprecated"

	// StatusMerged marks a fact whose value was folded into another fact.
	StatusMerged FactStatus = "merged"
)

// FactStatuses returns all defined fact statuses.
func FactStatuses() []FactStatus {
	return []FactStatus{StatusActive, StatusDeprecated, StatusMerged}
}

// String returns the string representation of a fact status.
func (s FactStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is one of the defined constants.
func (s FactStatus) IsValid() bool {
	return slices.Contains(FactStatuses(), s)
}

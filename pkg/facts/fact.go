package facts

import (
	"time"

	"github.com/msureshc21/Doculyzer/pkg/types"
)

// Fact is the canonical record for one attribute key. Exactly zero or one
// fact with active status exists per key at any time. Facts are mutated only
// by the conflict resolver (system path) or the user-edit path, and are
// never deleted, only marked deprecated or merged.
type Fact struct {
	ID                 string           `json:"id" yaml:"id"`
	Key                types.FactKey    `json:"fact_key" yaml:"fact_key"`
	Value              string           `json:"value" yaml:"value"`
	Confidence         float64          `json:"confidence" yaml:"confidence"`
	Category           types.Category   `json:"category" yaml:"category"`
	SourceDocumentID   string           `json:"source_document_id,omitempty" yaml:"source_document_id,omitempty"`
	SourceCandidateRef string           `json:"source_candidate_ref,omitempty" yaml:"source_candidate_ref,omitempty"`
	CreatedAt          time.Time        `json:"created_at" yaml:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at" yaml:"updated_at"`
	LastEditedBy       string           `json:"last_edited_by,omitempty" yaml:"last_edited_by,omitempty"`
	EditCount          int              `json:"edit_count" yaml:"edit_count"`
	Status             types.FactStatus `json:"status" yaml:"status"`

	// Version counts committed writes to this fact. Writers pass the version
	// they read and the store rejects the write if it no longer matches.
	Version int64 `json:"-" yaml:"-"`
}

// Protected reports whether the fact has been user-edited. A protected fact
// is immune to system-sourced changes to its value or confidence.
func (f *Fact) Protected() bool {
	return f.EditCount > 0
}

// Active reports whether the fact is the current authoritative value for its key.
func (f *Fact) Active() bool {
	return f.Status == types.StatusActive
}

// Clone returns a deep copy of the fact.
func (f *Fact) Clone() *Fact {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}

package facts

import (
	"time"

	"github.com/msureshc21/Doculyzer/pkg/types"
)

// HistoryEntry is one immutable record in the audit ledger. An entry is
// appended whenever a fact is created, updated, user-edited, deprecated, or
// when an ingestion attempt was suppressed. Entries are never edited or
// removed once appended.
type HistoryEntry struct {
	ID     string `json:"id" yaml:"id"`
	FactID string `json:"fact_id" yaml:"fact_id"`

	// Seq is assigned by the ledger on append and strictly increases,
	// giving a stable secondary ordering for entries that share a timestamp.
	Seq int64 `json:"seq" yaml:"seq"`

	ChangeType       types.ChangeType `json:"change_type" yaml:"change_type"`
	OldValue         *string          `json:"old_value,omitempty" yaml:"old_value,omitempty"`
	NewValue         string           `json:"new_value" yaml:"new_value"`
	OldConfidence    *float64         `json:"old_confidence,omitempty" yaml:"old_confidence,omitempty"`
	NewConfidence    float64          `json:"new_confidence" yaml:"new_confidence"`
	ChangedBy        string           `json:"changed_by" yaml:"changed_by"`
	ChangedAt        time.Time        `json:"changed_at" yaml:"changed_at"`
	Reason           string           `json:"reason,omitempty" yaml:"reason,omitempty"`
	SourceDocumentID string           `json:"source_document_id,omitempty" yaml:"source_document_id,omitempty"`
}

// SystemActor is the ChangedBy value for changes made by the system itself.
const SystemActor = "system"

// Clone returns a deep copy of the history entry.
func (h *HistoryEntry) Clone() *HistoryEntry {
	if h == nil {
		return nil
	}
	c := *h
	if h.OldValue != nil {
		v := *h.OldValue
		c.OldValue = &v
	}
	if h.OldConfidence != nil {
		v := *h.OldConfidence
		c.OldConfidence = &v
	}
	return &c
}

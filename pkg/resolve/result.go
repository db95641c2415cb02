package resolve

import (
	"github.com/msureshc21/Doculyzer/pkg/facts"
	"github.com/msureshc21/Doculyzer/pkg/types"
)

// Action describes what the resolver did for one attribute key.
type Action string

const (
	// ActionCreated means a new fact was created from the candidate.
	ActionCreated Action = "created"

	// ActionUpdated means the candidate replaced the fact's value.
	ActionUpdated Action = "updated"

	// ActionRefreshed means the value matched and only the confidence was raised.
	ActionRefreshed Action = "refreshed"

	// ActionUnchanged means the value matched and nothing needed to change.
	ActionUnchanged Action = "unchanged"

	// ActionSuppressed means the fact is user-protected and the candidate was
	// not applied; the attempt was still recorded in the ledger.
	ActionSuppressed Action = "suppressed"

	// ActionRejected means the candidate lost the conflict resolution and the
	// existing value was kept; the attempt was recorded in the ledger.
	ActionRejected Action = "rejected"

	// ActionFailed means the candidate could not be resolved at all
	// (validation failure or retries exhausted).
	ActionFailed Action = "failed"
)

// String returns the string representation of an action.
func (a Action) String() string {
	return string(a)
}

// Outcome is the per-key result of a resolution.
type Outcome struct {
	Key       types.FactKey       `json:"fact_key" yaml:"fact_key"`
	Action    Action              `json:"action" yaml:"action"`
	Reason    string              `json:"reason,omitempty" yaml:"reason,omitempty"`
	Fact      *facts.Fact         `json:"fact,omitempty" yaml:"fact,omitempty"`
	Entry     *facts.HistoryEntry `json:"history_entry,omitempty" yaml:"history_entry,omitempty"`
	Candidate *facts.Candidate    `json:"-" yaml:"-"`
	Err       error               `json:"-" yaml:"-"`
}

// Result collects the outcomes of one ingestion batch. Keys fail
// independently: a failed outcome never blocks the others.
type Result struct {
	SourceDocumentID string    `json:"source_document_id" yaml:"source_document_id"`
	Outcomes         []Outcome `json:"outcomes" yaml:"outcomes"`
}

// Count returns the number of outcomes with the given action.
func (r *Result) Count(action Action) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Action == action {
			n++
		}
	}
	return n
}

// Touched returns the outcomes that created or changed a fact.
func (r *Result) Touched() []Outcome {
	touched := make([]Outcome, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		switch o.Action {
		case ActionCreated, ActionUpdated, ActionRefreshed:
			touched = append(touched, o)
		}
	}
	return touched
}

// Failed returns the outcomes that could not be resolved.
func (r *Result) Failed() []Outcome {
	failed := make([]Outcome, 0)
	for _, o := range r.Outcomes {
		if o.Action == ActionFailed {
			failed = append(failed, o)
		}
	}
	return failed
}

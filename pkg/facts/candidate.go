package facts

import (
	"fmt"
	"strings"
	"time"

	"github.com/msureshc21/Doculyzer/pkg/errors"
	"github.com/msureshc21/Doculyzer/pkg/types"
)

// Candidate is one value proposed for an attribute by an upstream extractor
// (document reader, language model, OCR). Candidates are ephemeral input;
// the engine does not own them beyond the resolution call.
type Candidate struct {
	SourceDocumentID string        `json:"source_document_id" yaml:"source_document_id"`
	FieldName        string        `json:"field_name" yaml:"field_name"`
	Value            string        `json:"value" yaml:"value"`
	Confidence       float64       `json:"confidence" yaml:"confidence"`
	Method           types.Method  `json:"method,omitempty" yaml:"method,omitempty"`
	ObservedAt       time.Time     `json:"observed_at" yaml:"observed_at"`

	// Optional extraction context carried through for auditing.
	Ref        string `json:"ref,omitempty" yaml:"ref,omitempty"`
	PageNumber int    `json:"page_number,omitempty" yaml:"page_number,omitempty"`
	Context    string `json:"context,omitempty" yaml:"context,omitempty"`
}

// Validate checks the candidate before any write is attempted. A failing
// candidate is rejected without aborting its siblings in the batch.
func (c *Candidate) Validate() error {
	if strings.TrimSpace(c.FieldName) == "" {
		return errors.NewValidationError("field_name", c.FieldName, "cannot be empty")
	}
	if strings.TrimSpace(c.Value) == "" {
		return errors.NewValidationError("value", c.Value, "cannot be empty")
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return errors.NewValidationError("confidence", c.Confidence,
			fmt.Sprintf("must be within [0,1], got %v", c.Confidence))
	}
	if c.Method != "" && !c.Method.IsValid() {
		return errors.NewValidationError("method", c.Method,
			fmt.Sprintf("unknown extraction method %q", c.Method))
	}
	return nil
}

// Key returns the fact key the candidate targets.
func (c *Candidate) Key() types.FactKey {
	return types.FactKey(c.FieldName)
}

// Package explain turns matched fields and their resolved facts into
// human-facing rationale strings for fill and review surfaces.
package explain

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/msureshc21/Doculyzer/pkg/errors"
	"github.com/msureshc21/Doculyzer/pkg/facts"
	"github.com/msureshc21/Doculyzer/pkg/logging"
	"github.com/msureshc21/Doculyzer/pkg/match"
	"github.com/msureshc21/Doculyzer/pkg/types"
)

// Confidence bucket boundaries for the rationale text.
const (
	veryHighConfidence = 0.95
	highConfidence     = 0.85
	moderateConfidence = 0.70
)

// FieldResult is the explanation for one external field label.
type FieldResult struct {
	Label              string        `json:"label" yaml:"label"`
	FactKey            types.FactKey `json:"fact_key,omitempty" yaml:"fact_key,omitempty"`
	MatchTier          string        `json:"match_tier,omitempty" yaml:"match_tier,omitempty"`
	Value              string        `json:"value,omitempty" yaml:"value,omitempty"`
	Confidence         float64       `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	SourceDocumentID   string        `json:"source_document_id,omitempty" yaml:"source_document_id,omitempty"`
	SourceDocumentName string        `json:"source_document_name,omitempty" yaml:"source_document_name,omitempty"`
	Reason             string        `json:"reason" yaml:"reason"`
	Matched            bool          `json:"matched" yaml:"matched"`
}

// Builder resolves external field labels to stored facts and explains each
// outcome. It is read-only and safe for concurrent use.
type Builder struct {
	matcher *match.Matcher
	store   facts.Store
	logger  *zerolog.Logger
}

// Option configures a Builder.
type Option func(*Builder) error

// WithLogger sets the builder's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		b.logger = logger
		return nil
	}
}

// NewBuilder creates a Builder over the given matcher and store.
func NewBuilder(matcher *match.Matcher, store facts.Store, opts ...Option) (*Builder, error) {
	if matcher == nil {
		return nil, fmt.Errorf("matcher cannot be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}

	b := &Builder{
		matcher: matcher,
		store:   store,
		logger:  logging.Default(),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Explain resolves each label to a fact and builds its rationale. Results
// preserve input order, one per label. docNames optionally maps source
// document IDs to display names used in the rationale text.
func (b *Builder) Explain(ctx context.Context, labels []string, docNames map[string]string) ([]FieldResult, error) {
	results := make([]FieldResult, 0, len(labels))
	for _, label := range labels {
		result, err := b.explainOne(ctx, label, docNames)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	b.logger.Debug().
		Int("labels", len(labels)).
		Int("matched", countMatched(results)).
		Msg("Built field explanations")
	return results, nil
}

func (b *Builder) explainOne(ctx context.Context, label string, docNames map[string]string) (FieldResult, error) {
	key, tier, ok := b.matcher.Match(label)
	if !ok {
		return FieldResult{
			Label:   label,
			Matched: false,
			Reason:  fmt.Sprintf("could not match label '%s' to any known attribute", label),
		}, nil
	}

	fact, err := b.store.Get(ctx, key)
	if err != nil {
		if errors.IsNotFound(err) {
			return FieldResult{
				Label:     label,
				FactKey:   key,
				MatchTier: tier.String(),
				Matched:   true,
				Reason:    fmt.Sprintf("matched to '%s' but no value is recorded yet", key),
			}, nil
		}
		return FieldResult{}, err
	}

	return FieldResult{
		Label:              label,
		FactKey:            key,
		MatchTier:          tier.String(),
		Value:              fact.Value,
		Confidence:         fact.Confidence,
		SourceDocumentID:   fact.SourceDocumentID,
		SourceDocumentName: docNames[fact.SourceDocumentID],
		Matched:            true,
		Reason:             reasonFor(fact, docNames[fact.SourceDocumentID]),
	}, nil
}

// reasonFor combines edit provenance, the confidence bucket, and the source
// document identity into one sentence.
func reasonFor(fact *facts.Fact, docName string) string {
	var provenance string
	switch {
	case fact.EditCount == 1:
		provenance = "User-verified value (manually edited)"
	case fact.EditCount > 1:
		provenance = fmt.Sprintf("User-verified value (edited %d times)", fact.EditCount)
	case docName != "":
		provenance = fmt.Sprintf("Automatically extracted from '%s'", docName)
	default:
		provenance = "Automatically extracted from document"
	}

	return fmt.Sprintf("%s; confidence %s (%.0f%%)",
		provenance, ConfidenceBucket(fact.Confidence), fact.Confidence*100)
}

// ConfidenceBucket names the bucket a confidence score falls into.
func ConfidenceBucket(confidence float64) string {
	switch {
	case confidence >= veryHighConfidence:
		return "very high"
	case confidence >= highConfidence:
		return "high"
	case confidence >= moderateConfidence:
		return "moderate"
	default:
		return "low"
	}
}

func countMatched(results []FieldResult) int {
	n := 0
	for _, r := range results {
		if r.Matched {
			n++
		}
	}
	return n
}

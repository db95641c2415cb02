package explain_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msureshc21/Doculyzer/pkg/explain"
	"github.com/msureshc21/Doculyzer/pkg/facts"
	"github.com/msureshc21/Doculyzer/pkg/facts/memory"
	"github.com/msureshc21/Doculyzer/pkg/match"
	"github.com/msureshc21/Doculyzer/pkg/types"
)

func newTestBuilder(t *testing.T) (*explain.Builder, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	b, err := explain.NewBuilder(match.NewMatcher(nil), store)
	require.NoError(t, err)
	return b, store
}

func seedFact(t *testing.T, store *memory.Store, fact *facts.Fact) {
	t.Helper()
	now := time.Now().UTC()
	fact.CreatedAt = now
	fact.UpdatedAt = now
	fact.Status = types.StatusActive
	require.NoError(t, store.Create(context.Background(), fact))
}

func TestExplainUnmatchedLabel(t *testing.T) {
	b, _ := newTestBuilder(t)

	results, err := b.Explain(context.Background(), []string{"custom_field_xyz"}, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.False(t, r.Matched)
	assert.Empty(t, r.FactKey)
	assert.Empty(t, r.Value)
	assert.Equal(t, "could not match label 'custom_field_xyz' to any known attribute", r.Reason)
}

func TestExplainMatchedWithoutFact(t *testing.T) {
	b, _ := newTestBuilder(t)

	results, err := b.Explain(context.Background(), []string{"Company Name"}, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.True(t, r.Matched)
	assert.Equal(t, types.FactKey("company_name"), r.FactKey)
	assert.Empty(t, r.Value)
	assert.Equal(t, "matched to 'company_name' but no value is recorded yet", r.Reason)
}

func TestExplainExtractedFact(t *testing.T) {
	b, store := newTestBuilder(t)
	seedFact(t, store, &facts.Fact{
		ID:               "f-1",
		Key:              "company_name",
		Value:            "Acme Corp",
		Confidence:       0.88,
		Category:         types.CategoryCompanyInfo,
		SourceDocumentID: "doc-1",
	})

	t.Run("with document name", func(t *testing.T) {
		results, err := b.Explain(context.Background(), []string{"Business Name"},
			map[string]string{"doc-1": "articles.pdf"})
		require.NoError(t, err)

		r := results[0]
		assert.True(t, r.Matched)
		assert.Equal(t, "Acme Corp", r.Value)
		assert.Equal(t, 0.88, r.Confidence)
		assert.Equal(t, "doc-1", r.SourceDocumentID)
		assert.Equal(t, "articles.pdf", r.SourceDocumentName)
		assert.Equal(t, "Automatically extracted from 'articles.pdf'; confidence high (88%)", r.Reason)
	})

	t.Run("without document name", func(t *testing.T) {
		results, err := b.Explain(context.Background(), []string{"Business Name"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "Automatically extracted from document; confidence high (88%)", results[0].Reason)
	})
}

func TestExplainUserEditedFact(t *testing.T) {
	b, store := newTestBuilder(t)
	seedFact(t, store, &facts.Fact{
		ID:           "f-2",
		Key:          "ein",
		Value:        "12-3456789",
		Confidence:   1.0,
		Category:     types.CategoryLegal,
		EditCount:    1,
		LastEditedBy: "jane@example.com",
	})

	results, err := b.Explain(context.Background(), []string{"EIN"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "User-verified value (manually edited); confidence very high (100%)", results[0].Reason)
}

func TestExplainMultipleEditsPluralized(t *testing.T) {
	b, store := newTestBuilder(t)
	seedFact(t, store, &facts.Fact{
		ID:         "f-3",
		Key:        "phone",
		Value:      "555-0100",
		Confidence: 1.0,
		Category:   types.CategoryContact,
		EditCount:  3,
	})

	results, err := b.Explain(context.Background(), []string{"Phone Number"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "User-verified value (edited 3 times); confidence very high (100%)", results[0].Reason)
}

// Results come back one per label, in input order, mixing matched and
// unmatched fields.
func TestExplainPreservesInputOrder(t *testing.T) {
	b, store := newTestBuilder(t)
	seedFact(t, store, &facts.Fact{
		ID:         "f-4",
		Key:        "city",
		Value:      "Springfield",
		Confidence: 0.72,
		Category:   types.CategoryLocation,
	})

	labels := []string{"City", "mystery_field", "Company Name"}
	results, err := b.Explain(context.Background(), labels, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "City", results[0].Label)
	assert.True(t, results[0].Matched)
	assert.Equal(t, "Springfield", results[0].Value)

	assert.Equal(t, "mystery_field", results[1].Label)
	assert.False(t, results[1].Matched)

	assert.Equal(t, "Company Name", results[2].Label)
	assert.True(t, results[2].Matched)
	assert.Empty(t, results[2].Value)
}

func TestConfidenceBucket(t *testing.T) {
	tests := []struct {
		confidence float64
		bucket     string
	}{
		{1.0, "very high"},
		{0.95, "very high"},
		{0.94, "high"},
		{0.85, "high"},
		{0.84, "moderate"},
		{0.70, "moderate"},
		{0.69, "low"},
		{0.0, "low"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.bucket, explain.ConfidenceBucket(tt.confidence), "confidence %v", tt.confidence)
	}
}

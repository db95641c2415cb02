package doculyzer_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	doculyzer "github.com/msureshc21/Doculyzer"
	"github.com/msureshc21/Doculyzer/pkg/errors"
	"github.com/msureshc21/Doculyzer/pkg/facts"
	"github.com/msureshc21/Doculyzer/pkg/match"
	"github.com/msureshc21/Doculyzer/pkg/resolve"
	"github.com/msureshc21/Doculyzer/pkg/types"
)

func extractionBatch(docID string) []facts.Candidate {
	now := time.Now().UTC()
	return []facts.Candidate{
		{SourceDocumentID: docID, FieldName: "company_name", Value: "Acme Corp", Confidence: 0.9, Method: types.MethodAIModel, ObservedAt: now},
		{SourceDocumentID: docID, FieldName: "ein", Value: "12-3456789", Confidence: 0.95, Method: types.MethodOCR, ObservedAt: now},
		{SourceDocumentID: docID, FieldName: "city", Value: "Springfield", Confidence: 0.8, Method: types.MethodForm, ObservedAt: now},
	}
}

func TestEngineLifecycle(t *testing.T) {
	engine, err := doculyzer.New()
	require.NoError(t, err)
	defer engine.Close()
	ctx := context.Background()

	result, err := engine.Ingest(ctx, extractionBatch("doc-1"))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Count(resolve.ActionCreated))
	assert.Empty(t, result.Failed())

	fact, err := engine.Fact(ctx, "company_name")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", fact.Value)

	listed, err := engine.Facts(ctx, facts.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, listed, 3)

	// Manual correction protects the fact.
	edited, err := engine.EditFact(ctx, "company_name", "Acme Corporation Ltd", "jane@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, 1.0, edited.Confidence)

	result, err = engine.Ingest(ctx, []facts.Candidate{{
		SourceDocumentID: "doc-2",
		FieldName:        "company_name",
		Value:            "ACME Inc",
		Confidence:       1.0,
		ObservedAt:       time.Now().UTC(),
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count(resolve.ActionSuppressed))

	history, err := engine.History(ctx, "company_name")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, types.ChangeExtraction, history[0].ChangeType)
	assert.Equal(t, types.ChangeUserEdit, history[1].ChangeType)

	// Deprecated facts keep their history.
	_, err = engine.DeprecateFact(ctx, "city", "jane@example.com", "moved")
	require.NoError(t, err)

	_, err = engine.Fact(ctx, "city")
	assert.True(t, errors.IsNotFound(err))

	history, err = engine.History(ctx, "city")
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestEngineFill(t *testing.T) {
	engine, err := doculyzer.New()
	require.NoError(t, err)
	defer engine.Close()
	ctx := context.Background()

	_, err = engine.Ingest(ctx, extractionBatch("doc-1"))
	require.NoError(t, err)

	key, tier, ok := engine.MatchField("employer identification number")
	require.True(t, ok)
	assert.Equal(t, types.FactKey("ein"), key)
	assert.Equal(t, match.TierWordOverlap, tier)

	results, err := engine.Fill(ctx,
		[]string{"Company Name", "EIN", "custom_field_xyz"},
		map[string]string{"doc-1": "articles.pdf"})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].Matched)
	assert.Equal(t, "Acme Corp", results[0].Value)
	assert.Equal(t, "articles.pdf", results[0].SourceDocumentName)

	assert.True(t, results[1].Matched)
	assert.Equal(t, "12-3456789", results[1].Value)

	assert.False(t, results[2].Matched)
	assert.Equal(t, "could not match label 'custom_field_xyz' to any known attribute", results[2].Reason)
}

func TestEngineWithDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facts.db")
	ctx := context.Background()

	engine, err := doculyzer.New(doculyzer.WithDatabase(path))
	require.NoError(t, err)

	_, err = engine.Ingest(ctx, extractionBatch("doc-1"))
	require.NoError(t, err)
	require.NoError(t, engine.Close())

	// Facts and history survive a restart.
	engine, err = doculyzer.New(doculyzer.WithDatabase(path))
	require.NoError(t, err)
	defer engine.Close()

	fact, err := engine.Fact(ctx, "ein")
	require.NoError(t, err)
	assert.Equal(t, "12-3456789", fact.Value)

	history, err := engine.History(ctx, "ein")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestEngineHooks(t *testing.T) {
	engine, err := doculyzer.New()
	require.NoError(t, err)
	defer engine.Close()
	ctx := context.Background()

	var created, updated, deprecated []string
	engine.OnFactCreated(func(f facts.Fact) { created = append(created, f.Key.String()) })
	engine.OnFactUpdated(func(f facts.Fact) { updated = append(updated, f.Value) })
	engine.OnFactDeprecated(func(f facts.Fact) { deprecated = append(deprecated, f.Key.String()) })

	_, err = engine.Ingest(ctx, extractionBatch("doc-1"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"company_name", "ein", "city"}, created)
	assert.Empty(t, updated)

	// A stronger extraction fires the update hook.
	_, err = engine.Ingest(ctx, []facts.Candidate{{
		SourceDocumentID: "doc-2",
		FieldName:        "city",
		Value:            "Shelbyville",
		Confidence:       0.99,
		ObservedAt:       time.Now().UTC(),
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Shelbyville"}, updated)

	// A rejected extraction changes nothing and stays silent.
	_, err = engine.Ingest(ctx, []facts.Candidate{{
		SourceDocumentID: "doc-3",
		FieldName:        "city",
		Value:            "Ogdenville",
		Confidence:       0.2,
		ObservedAt:       time.Now().UTC(),
	}})
	require.NoError(t, err)
	assert.Len(t, updated, 1)

	_, err = engine.EditFact(ctx, "city", "Capital City", "jane@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Shelbyville", "Capital City"}, updated)

	_, err = engine.DeprecateFact(ctx, "city", "jane@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"city"}, deprecated)
}

func TestEngineWithCustomAliasTable(t *testing.T) {
	table, err := match.NewTable([]match.Entry{
		{Key: "company_name", Aliases: []string{"nom de societe"}},
	})
	require.NoError(t, err)

	engine, err := doculyzer.New(doculyzer.WithAliasTable(table))
	require.NoError(t, err)
	defer engine.Close()

	key, tier, ok := engine.MatchField("Nom de Societe")
	require.True(t, ok)
	assert.Equal(t, types.FactKey("company_name"), key)
	assert.Equal(t, match.TierExact, tier)

	_, _, ok = engine.MatchField("EIN")
	assert.False(t, ok)
}

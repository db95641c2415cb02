package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msureshc21/Doculyzer/pkg/errors"
	"github.com/msureshc21/Doculyzer/pkg/facts"
	"github.com/msureshc21/Doculyzer/pkg/types"
)

// setupTestDB creates a temporary SQLite database for testing.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "facts.db"))
	require.NoError(t, err)
	require.NotNil(t, db)

	t.Cleanup(func() {
		assert.NoError(t, db.Close())
	})
	return db
}

func testFact(id string, key types.FactKey, value string) *facts.Fact {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &facts.Fact{
		ID:               id,
		Key:              key,
		Value:            value,
		Confidence:       0.8,
		Category:         types.CategoryCompanyInfo,
		SourceDocumentID: "doc-1",
		CreatedAt:        now,
		UpdatedAt:        now,
		Status:           types.StatusActive,
	}
}

func TestOpen(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		_, err := Open("")
		assert.Error(t, err)
	})

	t.Run("creates parent directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "facts.db")
		db, err := Open(path)
		require.NoError(t, err)
		assert.Equal(t, path, db.Path())
		assert.NoError(t, db.Close())
	})

	t.Run("reopening is idempotent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "facts.db")

		db, err := Open(path)
		require.NoError(t, err)
		require.NoError(t, db.Facts().Create(context.Background(),
			testFact("f-1", "company_name", "Acme Corp")))
		require.NoError(t, db.Close())

		db, err = Open(path)
		require.NoError(t, err)
		defer db.Close()

		fact, err := db.Facts().Get(context.Background(), "company_name")
		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", fact.Value)
	})
}

func TestFactStoreCreateGet(t *testing.T) {
	db := setupTestDB(t)
	store := db.Facts()
	ctx := context.Background()

	fact := testFact("f-1", "company_name", "Acme Corp")
	require.NoError(t, store.Create(ctx, fact))
	assert.Equal(t, int64(1), fact.Version)

	got, err := store.Get(ctx, "company_name")
	require.NoError(t, err)
	assert.Equal(t, "f-1", got.ID)
	assert.Equal(t, "Acme Corp", got.Value)
	assert.Equal(t, 0.8, got.Confidence)
	assert.Equal(t, types.CategoryCompanyInfo, got.Category)
	assert.Equal(t, types.StatusActive, got.Status)
	assert.Equal(t, int64(1), got.Version)

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "ein")
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("second active fact for key is rejected", func(t *testing.T) {
		err := store.Create(ctx, testFact("f-2", "company_name", "Other Corp"))
		assert.True(t, errors.IsAlreadyExists(err))
	})

	t.Run("empty ID is rejected", func(t *testing.T) {
		fact := testFact("", "city", "Springfield")
		assert.Error(t, store.Create(ctx, fact))
	})
}

func TestFactStoreUpdate(t *testing.T) {
	db := setupTestDB(t)
	store := db.Facts()
	ctx := context.Background()

	fact := testFact("f-1", "company_name", "Acme Corp")
	require.NoError(t, store.Create(ctx, fact))

	t.Run("successful update bumps version", func(t *testing.T) {
		updated := fact.Clone()
		updated.Value = "Acme Corporation"
		updated.Confidence = 0.95

		require.NoError(t, store.Update(ctx, updated, 1))
		assert.Equal(t, int64(2), updated.Version)

		got, err := store.Get(ctx, "company_name")
		require.NoError(t, err)
		assert.Equal(t, "Acme Corporation", got.Value)
		assert.Equal(t, int64(2), got.Version)
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		stale := fact.Clone()
		stale.Value = "Stale Corp"
		err := store.Update(ctx, stale, 1)
		assert.True(t, errors.IsConflict(err))
	})

	t.Run("unknown fact", func(t *testing.T) {
		missing := testFact("f-404", "ein", "12-3456789")
		err := store.Update(ctx, missing, 1)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("key is immutable", func(t *testing.T) {
		moved := fact.Clone()
		moved.Key = "dba_name"
		err := store.Update(ctx, moved, 2)
		assert.True(t, errors.IsIntegrityViolation(err))
	})

	t.Run("deprecation frees the key", func(t *testing.T) {
		current, err := store.Get(ctx, "company_name")
		require.NoError(t, err)

		retired := current.Clone()
		retired.Status = types.StatusDeprecated
		require.NoError(t, store.Update(ctx, retired, current.Version))

		_, err = store.Get(ctx, "company_name")
		assert.True(t, errors.IsNotFound(err))

		require.NoError(t, store.Create(ctx, testFact("f-2", "company_name", "New Corp")))
	})
}

func TestFactStoreList(t *testing.T) {
	db := setupTestDB(t)
	store := db.Facts()
	ctx := context.Background()

	name := testFact("f-1", "company_name", "Acme Corp")
	require.NoError(t, store.Create(ctx, name))

	ein := testFact("f-2", "ein", "12-3456789")
	ein.Category = types.CategoryLegal
	require.NoError(t, store.Create(ctx, ein))

	retired := testFact("f-3", "phone", "555-0100")
	retired.Category = types.CategoryContact
	retired.Status = types.StatusDeprecated
	require.NoError(t, store.Create(ctx, retired))

	t.Run("active only by default", func(t *testing.T) {
		listed, err := store.List(ctx, facts.ListOptions{})
		require.NoError(t, err)
		require.Len(t, listed, 2)
		assert.Equal(t, types.FactKey("company_name"), listed[0].Key)
		assert.Equal(t, types.FactKey("ein"), listed[1].Key)
	})

	t.Run("include inactive", func(t *testing.T) {
		listed, err := store.List(ctx, facts.ListOptions{IncludeInactive: true})
		require.NoError(t, err)
		assert.Len(t, listed, 3)
	})

	t.Run("filter by category", func(t *testing.T) {
		listed, err := store.List(ctx, facts.ListOptions{Category: types.CategoryLegal})
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, types.FactKey("ein"), listed[0].Key)
	})
}

func TestHistoryLedger(t *testing.T) {
	db := setupTestDB(t)
	ledger := db.History()
	ctx := context.Background()

	require.NoError(t, db.Facts().Create(ctx, testFact("f-1", "company_name", "Acme Corp")))

	t.Run("append assigns identity", func(t *testing.T) {
		entry := &facts.HistoryEntry{
			FactID:        "f-1",
			ChangeType:    types.ChangeExtraction,
			NewValue:      "Acme Corp",
			NewConfidence: 0.8,
			ChangedBy:     facts.SystemActor,
			Reason:        "initial extraction from document",
		}
		require.NoError(t, ledger.Append(ctx, entry))
		assert.NotEmpty(t, entry.ID)
		assert.Positive(t, entry.Seq)
		assert.False(t, entry.ChangedAt.IsZero())
	})

	t.Run("append validates", func(t *testing.T) {
		err := ledger.Append(ctx, &facts.HistoryEntry{ChangeType: types.ChangeExtraction})
		assert.True(t, errors.IsValidationError(err))

		err = ledger.Append(ctx, &facts.HistoryEntry{FactID: "f-1", ChangeType: "bogus"})
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("duplicate entry ID is an integrity violation", func(t *testing.T) {
		entry := &facts.HistoryEntry{
			ID:            "h-dup",
			FactID:        "f-1",
			ChangeType:    types.ChangeExtraction,
			NewValue:      "x",
			NewConfidence: 0.5,
			ChangedBy:     facts.SystemActor,
		}
		require.NoError(t, ledger.Append(ctx, entry))

		again := &facts.HistoryEntry{
			ID:            "h-dup",
			FactID:        "f-1",
			ChangeType:    types.ChangeExtraction,
			NewValue:      "y",
			NewConfidence: 0.6,
			ChangedBy:     facts.SystemActor,
		}
		err := ledger.Append(ctx, again)
		assert.True(t, errors.IsIntegrityViolation(err))
	})

	t.Run("by fact newest first with nullable fields", func(t *testing.T) {
		oldValue := "Acme Corp"
		oldConfidence := 0.8
		entry := &facts.HistoryEntry{
			FactID:        "f-1",
			ChangeType:    types.ChangeSystemUpdate,
			OldValue:      &oldValue,
			NewValue:      "Acme Corporation",
			OldConfidence: &oldConfidence,
			NewConfidence: 0.95,
			ChangedBy:     facts.SystemActor,
			ChangedAt:     time.Now().UTC().Add(time.Minute),
			Reason:        "new value has significantly higher confidence",
		}
		require.NoError(t, ledger.Append(ctx, entry))

		entries, err := ledger.ByFact(ctx, "f-1")
		require.NoError(t, err)
		require.NotEmpty(t, entries)

		newest := entries[0]
		assert.Equal(t, types.ChangeSystemUpdate, newest.ChangeType)
		require.NotNil(t, newest.OldValue)
		assert.Equal(t, "Acme Corp", *newest.OldValue)
		require.NotNil(t, newest.OldConfidence)
		assert.Equal(t, 0.8, *newest.OldConfidence)

		oldest := entries[len(entries)-1]
		assert.Nil(t, oldest.OldValue)
		assert.Nil(t, oldest.OldConfidence)
	})

	t.Run("len counts all entries", func(t *testing.T) {
		n, err := ledger.Len(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})
}

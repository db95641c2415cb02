package facts_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	pkgerrors "github.com/msureshc21/Doculyzer/pkg/errors"
	"github.com/msureshc21/Doculyzer/pkg/facts"
	"github.com/msureshc21/Doculyzer/pkg/types"
)

func TestCandidateValidate(t *testing.T) {
	valid := facts.Candidate{
		SourceDocumentID: "doc-1",
		FieldName:        "company_name",
		Value:            "Acme Corp",
		Confidence:       0.88,
		Method:           types.MethodOCR,
		ObservedAt:       time.Now(),
	}

	t.Run("valid candidate", func(t *testing.T) {
		c := valid
		assert.NoError(t, c.Validate())
	})

	t.Run("empty field name", func(t *testing.T) {
		c := valid
		c.FieldName = "  "
		assert.True(t, pkgerrors.IsValidationError(c.Validate()))
	})

	t.Run("empty value", func(t *testing.T) {
		c := valid
		c.Value = ""
		assert.True(t, pkgerrors.IsValidationError(c.Validate()))
	})

	t.Run("confidence above one", func(t *testing.T) {
		c := valid
		c.Confidence = 1.01
		assert.True(t, pkgerrors.IsValidationError(c.Validate()))
	})

	t.Run("negative confidence", func(t *testing.T) {
		c := valid
		c.Confidence = -0.1
		assert.True(t, pkgerrors.IsValidationError(c.Validate()))
	})

	t.Run("unknown method", func(t *testing.T) {
		c := valid
		c.Method = "telepathy"
		assert.True(t, pkgerrors.IsValidationError(c.Validate()))
	})

	t.Run("method optional", func(t *testing.T) {
		c := valid
		c.Method = ""
		assert.NoError(t, c.Validate())
	})
}

func TestFactProtected(t *testing.T) {
	f := &facts.Fact{Status: types.StatusActive}
	assert.False(t, f.Protected())
	assert.True(t, f.Active())

	f.EditCount = 1
	assert.True(t, f.Protected())
}

func TestHistoryEntryClone(t *testing.T) {
	old := "Acme Corp"
	oldConf := 0.88
	entry := &facts.HistoryEntry{
		ID:            "h-1",
		FactID:        "f-1",
		ChangeType:    types.ChangeSystemUpdate,
		OldValue:      &old,
		NewValue:      "Acme Corporation",
		OldConfidence: &oldConf,
		NewConfidence: 0.95,
		ChangedBy:     facts.SystemActor,
	}

	clone := entry.Clone()
	*clone.OldValue = "mutated"
	*clone.OldConfidence = 0.1

	assert.Equal(t, "Acme Corp", *entry.OldValue)
	assert.Equal(t, 0.88, *entry.OldConfidence)
}

func TestCategoryFor(t *testing.T) {
	tests := []struct {
		key  types.FactKey
		want types.Category
	}{
		{"company_name", types.CategoryCompanyInfo},
		{"dba_name", types.CategoryCompanyInfo},
		{"ein", types.CategoryLegal},
		{"tax_id", types.CategoryLegal},
		{"address_line_1", types.CategoryLocation},
		{"city", types.CategoryLocation},
		{"state", types.CategoryLocation},
		{"zip_code", types.CategoryLocation},
		{"phone", types.CategoryContact},
		{"email", types.CategoryContact},
		{"website", types.CategoryContact},
		{"incorporation_date", types.CategoryLegal},
		{"state_of_incorporation", types.CategoryLegal},
		{"something_else", types.CategoryCompanyInfo},
	}

	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, facts.CategoryFor(tt.key))
		})
	}
}

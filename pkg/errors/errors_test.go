package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	pkgerrors "github.com/msureshc21/Doculyzer/pkg/errors"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "fact",
			ID:       "company_name",
		}
		assert.Equal(t, "fact with key company_name not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewNotFoundError("fact", "ein")
		assert.Equal(t, "fact with key ein not found", err.Error())
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("fact", "city")
		wrapped := fmt.Errorf("user edit: %w", base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "confidence",
			Message: "must be between 0 and 1",
		}
		assert.Equal(t, "validation failed for field confidence: must be between 0 and 1", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Message: "empty candidate",
		}
		assert.Equal(t, "validation failed: empty candidate", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewValidationError("confidence", 1.3, "exceeds maximum")
		assert.Contains(t, err.Error(), "confidence")
		assert.Contains(t, err.Error(), "exceeds maximum")
	})
}

func TestConflictError(t *testing.T) {
	err := pkgerrors.NewConflictError("company_name", 3, 4)
	assert.Contains(t, err.Error(), "company_name")
	assert.Contains(t, err.Error(), "expected version 3")
	assert.True(t, pkgerrors.IsConflict(err))
	assert.False(t, pkgerrors.IsNotFound(err))
}

func TestIntegrityError(t *testing.T) {
	t.Run("with id", func(t *testing.T) {
		err := pkgerrors.NewIntegrityError("fact", "ein", "duplicate active fact")
		assert.Equal(t, "integrity violation on fact ein: duplicate active fact", err.Error())
		assert.True(t, pkgerrors.IsIntegrityViolation(err))
	})

	t.Run("without id", func(t *testing.T) {
		err := pkgerrors.NewIntegrityError("history", "", "entry mutated")
		assert.Equal(t, "integrity violation on history: entry mutated", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrIntegrity))
	})
}

func TestWrapHelpers(t *testing.T) {
	t.Run("nil passthrough", func(t *testing.T) {
		assert.Nil(t, pkgerrors.WrapValidation("value", nil))
		assert.Nil(t, pkgerrors.WrapIO("read", "facts.db", nil))
		assert.Nil(t, pkgerrors.WrapParse("yaml", "aliases.yaml", nil))
	})

	t.Run("wrap parse", func(t *testing.T) {
		base := errors.New("unexpected node")
		err := pkgerrors.WrapParse("yaml", "aliases.yaml", base)
		assert.Contains(t, err.Error(), "aliases.yaml")
		assert.True(t, errors.Is(err, base))
	})

	t.Run("wrap io", func(t *testing.T) {
		base := errors.New("permission denied")
		err := pkgerrors.WrapIO("open", "facts.db", base)
		assert.Contains(t, err.Error(), "facts.db")
		assert.True(t, errors.Is(err, base))
	})
}

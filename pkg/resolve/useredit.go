package resolve

import (
	"context"

	"github.com/msureshc21/Doculyzer/pkg/errors"
	"github.com/msureshc21/Doculyzer/pkg/facts"
	"github.com/msureshc21/Doculyzer/pkg/normalize"
	"github.com/msureshc21/Doculyzer/pkg/types"
)

// defaultEditReason is recorded when a user edit arrives without one.
const defaultEditReason = "User edit"

// ApplyUserEdit overwrites a fact with a manually verified value. The edit
// is authoritative: confidence becomes 1.0 and the fact is protected from
// automated updates from then on. Editing to a normalized-equal value is a
// no-op and leaves no trace in the ledger.
func (r *Resolver) ApplyUserEdit(ctx context.Context, key types.FactKey, value, editedBy, reason string) (*facts.Fact, error) {
	if editedBy == "" {
		return nil, errors.NewValidationError("edited_by", editedBy, "editor identity is required")
	}
	if reason == "" {
		reason = defaultEditReason
	}

	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		existing, err := r.store.Get(ctx, key)
		if err != nil {
			return nil, err
		}

		if normalize.Equal(existing.Value, value) {
			r.logger.Debug().
				Str("fact_key", key.String()).
				Str("edited_by", editedBy).
				Msg("User edit matches current value, nothing to do")
			return existing, nil
		}

		updated := existing.Clone()
		updated.Value = value
		updated.Confidence = 1.0
		updated.EditCount++
		updated.LastEditedBy = editedBy
		updated.UpdatedAt = r.now()

		if err := r.store.Update(ctx, updated, existing.Version); err != nil {
			if errors.IsConflict(err) {
				lastErr = err
				continue
			}
			return nil, err
		}

		oldValue := existing.Value
		oldConfidence := existing.Confidence
		entry := &facts.HistoryEntry{
			FactID:        existing.ID,
			ChangeType:    types.ChangeUserEdit,
			OldValue:      &oldValue,
			NewValue:      value,
			OldConfidence: &oldConfidence,
			NewConfidence: 1.0,
			ChangedBy:     editedBy,
			ChangedAt:     updated.UpdatedAt,
			Reason:        reason,
		}
		if err := r.ledger.Append(ctx, entry); err != nil {
			return nil, err
		}

		r.logger.Info().
			Str("fact_key", key.String()).
			Str("edited_by", editedBy).
			Int("edit_count", updated.EditCount).
			Msg("User edit applied")
		return updated, nil
	}

	return nil, lastErr
}

// Deprecate retires a fact without deleting it. The fact keeps its value
// and history but no longer resolves as the canonical answer for its key.
func (r *Resolver) Deprecate(ctx context.Context, key types.FactKey, changedBy, reason string) (*facts.Fact, error) {
	if changedBy == "" {
		changedBy = facts.SystemActor
	}
	if reason == "" {
		reason = "fact deprecated"
	}

	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		existing, err := r.store.Get(ctx, key)
		if err != nil {
			return nil, err
		}

		updated := existing.Clone()
		updated.Status = types.StatusDeprecated
		updated.UpdatedAt = r.now()

		if err := r.store.Update(ctx, updated, existing.Version); err != nil {
			if errors.IsConflict(err) {
				lastErr = err
				continue
			}
			return nil, err
		}

		oldValue := existing.Value
		oldConfidence := existing.Confidence
		entry := &facts.HistoryEntry{
			FactID:        existing.ID,
			ChangeType:    types.ChangeDeprecate,
			OldValue:      &oldValue,
			NewValue:      existing.Value,
			OldConfidence: &oldConfidence,
			NewConfidence: existing.Confidence,
			ChangedBy:     changedBy,
			ChangedAt:     updated.UpdatedAt,
			Reason:        reason,
		}
		if err := r.ledger.Append(ctx, entry); err != nil {
			return nil, err
		}

		r.logger.Info().
			Str("fact_key", key.String()).
			Str("changed_by", changedBy).
			Msg("Fact deprecated")
		return updated, nil
	}

	return nil, lastErr
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/msureshc21/Doculyzer/pkg/errors"
	"github.com/msureshc21/Doculyzer/pkg/facts"
	"github.com/msureshc21/Doculyzer/pkg/types"
)

// historyLedger implements facts.Ledger. The fact_history table is
// append-only: nothing in this package issues UPDATE or DELETE against it.
type historyLedger struct {
	db *DB
}

var _ facts.Ledger = (*historyLedger)(nil)

// Append records an entry, assigning its ID, sequence number, and timestamp
// when unset. Reusing an entry ID is an integrity violation.
func (l *historyLedger) Append(ctx context.Context, entry *facts.HistoryEntry) error {
	if entry == nil {
		return errors.NewValidationError("entry", nil, "cannot be nil")
	}
	if entry.FactID == "" {
		return errors.NewValidationError("fact_id", "", "cannot be empty")
	}
	if !entry.ChangeType.IsValid() {
		return errors.NewValidationError("change_type", entry.ChangeType, "unknown change type")
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.ChangedAt.IsZero() {
		entry.ChangedAt = time.Now().UTC()
	}

	res, err := l.db.db.ExecContext(ctx, `
		INSERT INTO fact_history
			(id, fact_id, change_type, old_value, new_value, old_confidence,
			 new_confidence, changed_by, changed_at, reason, source_document_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.FactID, entry.ChangeType.String(),
		nullString(entry.OldValue), entry.NewValue,
		nullFloat(entry.OldConfidence), entry.NewConfidence,
		entry.ChangedBy, entry.ChangedAt, entry.Reason, entry.SourceDocumentID)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.NewIntegrityError("history", entry.ID, "entry ID already appended")
		}
		return fmt.Errorf("appending history entry: %w", err)
	}

	// The sequence is the table's rowid, monotonic across all facts.
	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading entry sequence: %w", err)
	}
	entry.Seq = seq
	return nil
}

// ByFact returns the entries for a fact, newest first. Equal timestamps are
// ordered by descending sequence number.
func (l *historyLedger) ByFact(ctx context.Context, factID string) ([]*facts.HistoryEntry, error) {
	rows, err := l.db.db.QueryContext(ctx, `
		SELECT seq, id, fact_id, change_type, old_value, new_value, old_confidence,
			new_confidence, changed_by, changed_at, reason, source_document_id
		FROM fact_history
		WHERE fact_id = ?
		ORDER BY changed_at DESC, seq DESC
	`, factID)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []*facts.HistoryEntry
	for rows.Next() {
		var e facts.HistoryEntry
		var changeType string
		var oldValue sql.NullString
		var oldConfidence sql.NullFloat64
		if err := rows.Scan(&e.Seq, &e.ID, &e.FactID, &changeType, &oldValue,
			&e.NewValue, &oldConfidence, &e.NewConfidence, &e.ChangedBy,
			&e.ChangedAt, &e.Reason, &e.SourceDocumentID); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}

		e.ChangeType = types.ChangeType(changeType)
		if oldValue.Valid {
			e.OldValue = &oldValue.String
		}
		if oldConfidence.Valid {
			e.OldConfidence = &oldConfidence.Float64
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history: %w", err)
	}
	return entries, nil
}

// Len returns the total number of ledger entries.
func (l *historyLedger) Len(ctx context.Context) (int, error) {
	var count int
	if err := l.db.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM fact_history").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting history entries: %w", err)
	}
	return count, nil
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

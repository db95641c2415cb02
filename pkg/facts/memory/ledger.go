package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/msureshc21/Doculyzer/pkg/errors"
	"github.com/msureshc21/Doculyzer/pkg/facts"
)

// Ledger is a concurrent safe in-memory append-only history ledger.
// Entries are copied on the way in and on the way out; nothing handed to a
// caller can alias ledger state.
type Ledger struct {
	mu      sync.RWMutex
	entries []*facts.HistoryEntry
	byFact  map[string][]int
	ids     map[string]struct{}
	seq     int64
}

// NewLedger creates an empty in-memory ledger.
func NewLedger() *Ledger {
	return &Ledger{
		byFact: make(map[string][]int),
		ids:    make(map[string]struct{}),
	}
}

// Append records an entry, assigning its ID, sequence number, and timestamp
// when unset. Reusing an entry ID is an integrity violation.
func (l *Ledger) Append(_ context.Context, entry *facts.HistoryEntry) error {
	if entry == nil {
		return errors.NewValidationError("entry", nil, "cannot be nil")
	}
	if entry.FactID == "" {
		return errors.NewValidationError("fact_id", "", "cannot be empty")
	}
	if !entry.ChangeType.IsValid() {
		return errors.NewValidationError("change_type", entry.ChangeType, "unknown change type")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if _, exists := l.ids[entry.ID]; exists {
		return errors.NewIntegrityError("history", entry.ID, "entry ID already appended")
	}
	if entry.ChangedAt.IsZero() {
		entry.ChangedAt = time.Now().UTC()
	}

	l.seq++
	entry.Seq = l.seq

	l.ids[entry.ID] = struct{}{}
	l.byFact[entry.FactID] = append(l.byFact[entry.FactID], len(l.entries))
	l.entries = append(l.entries, entry.Clone())
	return nil
}

// ByFact returns the entries for a fact, newest first. Equal timestamps are
// ordered by descending sequence number.
func (l *Ledger) ByFact(_ context.Context, factID string) ([]*facts.HistoryEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	indexes := l.byFact[factID]
	result := make([]*facts.HistoryEntry, 0, len(indexes))
	for _, i := range indexes {
		result = append(result, l.entries[i].Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].ChangedAt.Equal(result[j].ChangedAt) {
			return result[i].ChangedAt.After(result[j].ChangedAt)
		}
		return result[i].Seq > result[j].Seq
	})
	return result, nil
}

// Len returns the total number of entries in the ledger.
func (l *Ledger) Len(_ context.Context) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries), nil
}

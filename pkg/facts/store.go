package facts

import (
	"context"

	"github.com/msureshc21/Doculyzer/pkg/types"
)

// ListOptions filters a fact listing. The zero value lists all active facts.
type ListOptions struct {
	// Category restricts the listing to one derived category when set.
	Category types.Category

	// IncludeInactive also returns deprecated and merged facts.
	IncludeInactive bool
}

// Store holds canonical facts keyed uniquely by fact key.
//
// Writes use optimistic concurrency: Update carries the version the writer
// read, and the store rejects the write with ErrConflict when another writer
// committed in between. Creating a second active fact for an existing key is
// an integrity violation, not a recoverable condition.
type Store interface {
	// Get returns the active fact for key, or ErrNotFound.
	Get(ctx context.Context, key types.FactKey) (*Fact, error)

	// List returns facts ordered by key.
	List(ctx context.Context, opts ListOptions) ([]*Fact, error)

	// Create inserts a new fact. The key must not already have an active fact.
	Create(ctx context.Context, fact *Fact) error

	// Update replaces the stored fact if its version still equals
	// expectedVersion, and bumps the version on success.
	Update(ctx context.Context, fact *Fact, expectedVersion int64) error

	// Close releases any resources held by the store.
	Close() error
}

// Ledger is the append-only audit history of all fact changes. Append is the
// only mutator; entries are never edited or removed. Corruption of that
// guarantee is a fatal integrity error.
type Ledger interface {
	// Append records an entry, assigning its sequence number.
	Append(ctx context.Context, entry *HistoryEntry) error

	// ByFact returns the entries for a fact, newest first.
	ByFact(ctx context.Context, factID string) ([]*HistoryEntry, error)

	// Len returns the total number of entries in the ledger.
	Len(ctx context.Context) (int, error)
}

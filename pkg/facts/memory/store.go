// Package memory provides in-memory implementations of the fact store and
// history ledger, used for tests, ephemeral runs, and as the reference
// semantics for the persistent backends.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/msureshc21/Doculyzer/pkg/errors"
	"github.com/msureshc21/Doculyzer/pkg/facts"
	"github.com/msureshc21/Doculyzer/pkg/types"
)

// Store is a concurrent safe in-memory fact store.
type Store struct {
	mu          sync.RWMutex
	factsByID   map[string]*facts.Fact
	activeByKey map[types.FactKey]string
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		factsByID:   make(map[string]*facts.Fact),
		activeByKey: make(map[types.FactKey]string),
	}
}

// Get returns the active fact for key, or ErrNotFound.
func (s *Store) Get(_ context.Context, key types.FactKey) (*facts.Fact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.activeByKey[key]
	if !ok {
		return nil, errors.NewNotFoundError("fact", key.String())
	}
	return s.factsByID[id].Clone(), nil
}

// List returns facts ordered by key.
func (s *Store) List(_ context.Context, opts facts.ListOptions) ([]*facts.Fact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*facts.Fact, 0, len(s.factsByID))
	for _, f := range s.factsByID {
		if !opts.IncludeInactive && !f.Active() {
			continue
		}
		if opts.Category != "" && f.Category != opts.Category {
			continue
		}
		result = append(result, f.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Key != result[j].Key {
			return result[i].Key < result[j].Key
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// Create inserts a new fact. If the key already has an active fact the write
// is rejected with ErrAlreadyExists so the caller can retry from a fresh read.
func (s *Store) Create(_ context.Context, fact *facts.Fact) error {
	if fact == nil {
		return errors.NewValidationError("fact", nil, "cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if fact.Status == types.StatusActive {
		if _, exists := s.activeByKey[fact.Key]; exists {
			return errors.ErrAlreadyExists
		}
	}
	if fact.ID == "" {
		fact.ID = uuid.NewString()
	}
	if _, exists := s.factsByID[fact.ID]; exists {
		return errors.NewIntegrityError("fact", fact.ID, "duplicate fact ID")
	}

	fact.Version = 1
	s.factsByID[fact.ID] = fact.Clone()
	if fact.Status == types.StatusActive {
		s.activeByKey[fact.Key] = fact.ID
	}
	return nil
}

// Update replaces a stored fact if its version still equals expectedVersion.
// On success the fact's version is bumped, on both the stored copy and the
// caller's copy.
func (s *Store) Update(_ context.Context, fact *facts.Fact, expectedVersion int64) error {
	if fact == nil {
		return errors.NewValidationError("fact", nil, "cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.factsByID[fact.ID]
	if !ok {
		return errors.NewNotFoundError("fact", fact.Key.String())
	}
	if current.Version != expectedVersion {
		return errors.NewConflictError(fact.Key.String(), expectedVersion, current.Version)
	}
	if current.Key != fact.Key {
		return errors.NewIntegrityError("fact", fact.ID, "fact key is immutable")
	}

	fact.Version = expectedVersion + 1
	s.factsByID[fact.ID] = fact.Clone()

	// Keep the active index in step with status transitions.
	if fact.Status == types.StatusActive {
		s.activeByKey[fact.Key] = fact.ID
	} else if s.activeByKey[fact.Key] == fact.ID {
		delete(s.activeByKey, fact.Key)
	}
	return nil
}

// Len returns the number of stored facts, active or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.factsByID)
}

// Close is a no-op for memory stores.
func (s *Store) Close() error {
	return nil
}

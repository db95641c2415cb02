package resolve

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/msureshc21/Doculyzer/pkg/errors"
	"github.com/msureshc21/Doculyzer/pkg/facts"
	"github.com/msureshc21/Doculyzer/pkg/logging"
	"github.com/msureshc21/Doculyzer/pkg/types"
)

// DefaultMaxRetries bounds how often a losing writer retries resolution
// after a concurrent modification before dropping the candidate.
const DefaultMaxRetries = 3

// Resolver converges candidate values into canonical facts, one attribute
// key at a time. Each key's read-decide-write cycle is serialized through
// optimistic concurrency on the fact's version; different keys resolve
// independently and may run in parallel.
type Resolver struct {
	store      facts.Store
	ledger     facts.Ledger
	logger     *zerolog.Logger
	maxRetries int
	now        func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver) error

// WithLogger sets the resolver's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(r *Resolver) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		r.logger = logger
		return nil
	}
}

// WithMaxRetries bounds the retry attempts after a lost write race.
func WithMaxRetries(n int) Option {
	return func(r *Resolver) error {
		if n < 0 {
			return fmt.Errorf("max retries cannot be negative")
		}
		r.maxRetries = n
		return nil
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) error {
		if now == nil {
			return fmt.Errorf("clock cannot be nil")
		}
		r.now = now
		return nil
	}
}

// New creates a Resolver over the given store and ledger.
func New(store facts.Store, ledger facts.Ledger, opts ...Option) (*Resolver, error) {
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if ledger == nil {
		return nil, fmt.Errorf("ledger cannot be nil")
	}

	r := &Resolver{
		store:      store,
		ledger:     ledger,
		logger:     logging.Default(),
		maxRetries: DefaultMaxRetries,
		now:        func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Resolve processes one ingestion batch: all candidates extracted from a
// single source document. Candidates are grouped by field name, the best
// candidate of each group is resolved against the canonical fact for that
// key, and every attempt is recorded in the history ledger. A failing key
// never blocks the rest of the batch.
func (r *Resolver) Resolve(ctx context.Context, candidates []facts.Candidate) (*Result, error) {
	result := &Result{}

	// Group by field name, preserving first-appearance order so batch
	// results are deterministic.
	order := make([]string, 0, len(candidates))
	groups := make(map[string][]facts.Candidate)

	for i := range candidates {
		c := candidates[i]
		if result.SourceDocumentID == "" {
			result.SourceDocumentID = c.SourceDocumentID
		}

		if err := c.Validate(); err != nil {
			r.logger.Warn().
				Err(err).
				Str("field_name", c.FieldName).
				Str("source_document_id", c.SourceDocumentID).
				Msg("Rejecting malformed candidate")
			result.Outcomes = append(result.Outcomes, Outcome{
				Key:       c.Key(),
				Action:    ActionFailed,
				Reason:    err.Error(),
				Candidate: &c,
				Err:       err,
			})
			continue
		}

		if _, seen := groups[c.FieldName]; !seen {
			order = append(order, c.FieldName)
		}
		groups[c.FieldName] = append(groups[c.FieldName], c)
	}

	for _, field := range order {
		best := selectBest(groups[field])
		outcome := r.resolveKey(ctx, best)
		result.Outcomes = append(result.Outcomes, outcome)
	}

	r.logger.Info().
		Str("source_document_id", result.SourceDocumentID).
		Int("candidates", len(candidates)).
		Int("created", result.Count(ActionCreated)).
		Int("updated", result.Count(ActionUpdated)).
		Int("failed", len(result.Failed())).
		Msg("Resolved ingestion batch")

	return result, nil
}

// resolveKey runs the read-decide-write cycle for one candidate, retrying
// from a fresh read when a concurrent writer got there first. On retry
// exhaustion the candidate is dropped with a logged failure.
func (r *Resolver) resolveKey(ctx context.Context, c facts.Candidate) Outcome {
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		outcome, err := r.attempt(ctx, &c)
		if err == nil {
			return outcome
		}
		if !errors.IsConflict(err) && !errors.IsAlreadyExists(err) {
			r.logger.Error().
				Err(err).
				Str("fact_key", c.FieldName).
				Msg("Resolution failed")
			return Outcome{Key: c.Key(), Action: ActionFailed, Reason: err.Error(), Candidate: &c, Err: err}
		}
		lastErr = err
		r.logger.Debug().
			Str("fact_key", c.FieldName).
			Int("attempt", attempt+1).
			Msg("Lost write race, retrying resolution")
	}

	r.logger.Error().
		Err(lastErr).
		Str("fact_key", c.FieldName).
		Int("max_retries", r.maxRetries).
		Msg("Retries exhausted, dropping candidate")
	return Outcome{Key: c.Key(), Action: ActionFailed, Reason: "retries exhausted", Candidate: &c, Err: lastErr}
}

// attempt performs a single read-decide-write cycle. Conflict errors are
// returned for the caller to retry; anything else is terminal.
func (r *Resolver) attempt(ctx context.Context, c *facts.Candidate) (Outcome, error) {
	key := c.Key()

	existing, err := r.store.Get(ctx, key)
	if err != nil {
		if !errors.IsNotFound(err) {
			return Outcome{}, err
		}
		return r.create(ctx, c)
	}

	if existing.Protected() {
		return r.suppress(ctx, existing, c)
	}

	d := decide(existing, c)
	switch d.action {
	case ActionUnchanged:
		// Identical value, no confidence gain: nothing to write, nothing
		// worth a ledger entry.
		return Outcome{Key: key, Action: ActionUnchanged, Reason: d.reason, Fact: existing, Candidate: c}, nil
	case ActionRefreshed:
		return r.refresh(ctx, existing, c, d)
	case ActionUpdated:
		return r.replace(ctx, existing, c, d)
	default:
		return r.reject(ctx, existing, c, d)
	}
}

// create inserts a brand-new fact from the candidate.
func (r *Resolver) create(ctx context.Context, c *facts.Candidate) (Outcome, error) {
	now := r.now()
	fact := &facts.Fact{
		ID:                 uuid.NewString(),
		Key:                c.Key(),
		Value:              c.Value,
		Confidence:         c.Confidence,
		Category:           facts.CategoryFor(c.Key()),
		SourceDocumentID:   c.SourceDocumentID,
		SourceCandidateRef: c.Ref,
		CreatedAt:          now,
		UpdatedAt:          now,
		Status:             types.StatusActive,
	}

	if err := r.store.Create(ctx, fact); err != nil {
		return Outcome{}, err
	}

	entry := &facts.HistoryEntry{
		FactID:           fact.ID,
		ChangeType:       types.ChangeExtraction,
		NewValue:         c.Value,
		NewConfidence:    c.Confidence,
		ChangedBy:        facts.SystemActor,
		ChangedAt:        now,
		Reason:           "initial extraction from document",
		SourceDocumentID: c.SourceDocumentID,
	}
	if err := r.ledger.Append(ctx, entry); err != nil {
		return Outcome{}, err
	}

	r.logger.Info().
		Str("fact_key", fact.Key.String()).
		Float64("confidence", fact.Confidence).
		Msg("Fact created")
	return Outcome{Key: fact.Key, Action: ActionCreated, Reason: entry.Reason, Fact: fact, Entry: entry, Candidate: c}, nil
}

// suppress records an ingestion attempt against a user-protected fact
// without touching the fact. Every attempt stays auditable even when it has
// no visible effect.
func (r *Resolver) suppress(ctx context.Context, existing *facts.Fact, c *facts.Candidate) (Outcome, error) {
	entry := r.newEntry(existing, c, types.ChangeExtraction, "update suppressed: fact is user-protected")
	if err := r.ledger.Append(ctx, entry); err != nil {
		return Outcome{}, err
	}

	r.logger.Debug().
		Str("fact_key", existing.Key.String()).
		Int("edit_count", existing.EditCount).
		Msg("Candidate suppressed, fact is user-protected")
	return Outcome{Key: existing.Key, Action: ActionSuppressed, Reason: entry.Reason, Fact: existing, Entry: entry, Candidate: c}, nil
}

// refresh raises the fact's confidence without changing its value.
func (r *Resolver) refresh(ctx context.Context, existing *facts.Fact, c *facts.Candidate, d decision) (Outcome, error) {
	updated := existing.Clone()
	updated.Confidence = c.Confidence
	updated.UpdatedAt = r.now()

	if err := r.store.Update(ctx, updated, existing.Version); err != nil {
		return Outcome{}, err
	}

	entry := r.newEntry(existing, c, types.ChangeSystemUpdate, d.reason)
	entry.NewValue = existing.Value // value unchanged, old_value == new_value
	if err := r.ledger.Append(ctx, entry); err != nil {
		return Outcome{}, err
	}

	return Outcome{Key: existing.Key, Action: ActionRefreshed, Reason: d.reason, Fact: updated, Entry: entry, Candidate: c}, nil
}

// replace commits the candidate's value and confidence onto the fact.
func (r *Resolver) replace(ctx context.Context, existing *facts.Fact, c *facts.Candidate, d decision) (Outcome, error) {
	updated := existing.Clone()
	updated.Value = c.Value
	updated.Confidence = c.Confidence
	updated.SourceDocumentID = c.SourceDocumentID
	updated.SourceCandidateRef = c.Ref
	updated.UpdatedAt = r.now()

	if err := r.store.Update(ctx, updated, existing.Version); err != nil {
		return Outcome{}, err
	}

	entry := r.newEntry(existing, c, types.ChangeSystemUpdate, d.reason)
	if err := r.ledger.Append(ctx, entry); err != nil {
		return Outcome{}, err
	}

	r.logger.Info().
		Str("fact_key", existing.Key.String()).
		Str("reason", d.reason).
		Msg("Fact updated")
	return Outcome{Key: existing.Key, Action: ActionUpdated, Reason: d.reason, Fact: updated, Entry: entry, Candidate: c}, nil
}

// reject keeps the existing fact and records the losing attempt.
func (r *Resolver) reject(ctx context.Context, existing *facts.Fact, c *facts.Candidate, d decision) (Outcome, error) {
	entry := r.newEntry(existing, c, types.ChangeExtraction, "extraction attempted but not applied: "+d.reason)
	if err := r.ledger.Append(ctx, entry); err != nil {
		return Outcome{}, err
	}

	r.logger.Debug().
		Str("fact_key", existing.Key.String()).
		Str("reason", d.reason).
		Msg("Candidate rejected")
	return Outcome{Key: existing.Key, Action: ActionRejected, Reason: d.reason, Fact: existing, Entry: entry, Candidate: c}, nil
}

// newEntry builds a ledger entry for a candidate against an existing fact.
func (r *Resolver) newEntry(existing *facts.Fact, c *facts.Candidate, changeType types.ChangeType, reason string) *facts.HistoryEntry {
	oldValue := existing.Value
	oldConfidence := existing.Confidence
	return &facts.HistoryEntry{
		FactID:           existing.ID,
		ChangeType:       changeType,
		OldValue:         &oldValue,
		NewValue:         c.Value,
		OldConfidence:    &oldConfidence,
		NewConfidence:    c.Confidence,
		ChangedBy:        facts.SystemActor,
		ChangedAt:        r.now(),
		Reason:           reason,
		SourceDocumentID: c.SourceDocumentID,
	}
}

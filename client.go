package doculyzer

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/msureshc21/Doculyzer/internal/storage/sqlite"
	"github.com/msureshc21/Doculyzer/pkg/errors"
	"github.com/msureshc21/Doculyzer/pkg/explain"
	"github.com/msureshc21/Doculyzer/pkg/facts"
	"github.com/msureshc21/Doculyzer/pkg/match"
	"github.com/msureshc21/Doculyzer/pkg/resolve"
	"github.com/msureshc21/Doculyzer/pkg/types"
)

// Doculyzer is the reconciliation engine's public surface.
type Doculyzer interface {
	// Ingest resolves one batch of extracted candidates against the
	// canonical facts, recording every attempt in the history ledger.
	Ingest(ctx context.Context, candidates []facts.Candidate) (*resolve.Result, error)

	// EditFact overwrites a fact with a manually verified value, protecting
	// it from automated updates from then on.
	EditFact(ctx context.Context, key types.FactKey, value, editedBy, reason string) (*facts.Fact, error)

	// DeprecateFact retires a fact without deleting it or its history.
	DeprecateFact(ctx context.Context, key types.FactKey, changedBy, reason string) (*facts.Fact, error)

	// Fact returns the active fact for a key.
	Fact(ctx context.Context, key types.FactKey) (*facts.Fact, error)

	// Facts lists stored facts.
	Facts(ctx context.Context, opts facts.ListOptions) ([]*facts.Fact, error)

	// History returns the ledger entries for a key's fact, newest first.
	// Deprecated facts keep their history.
	History(ctx context.Context, key types.FactKey) ([]*facts.HistoryEntry, error)

	// MatchField maps an external field label to an attribute key.
	MatchField(label string) (types.FactKey, match.Tier, bool)

	// Fill resolves external field labels to facts and explains each
	// outcome, preserving input order.
	Fill(ctx context.Context, labels []string, docNames map[string]string) ([]explain.FieldResult, error)

	// OnFactCreated registers a callback fired when a new fact is created.
	OnFactCreated(fn FactCreatedHook)

	// OnFactUpdated registers a callback fired when a fact's value or
	// confidence changes, including user edits.
	OnFactUpdated(fn FactUpdatedHook)

	// OnFactDeprecated registers a callback fired when a fact is retired.
	OnFactDeprecated(fn FactDeprecatedHook)

	// Close releases the engine's resources.
	Close() error
}

// client is the internal implementation of the Doculyzer interface.
type client struct {
	store    facts.Store
	ledger   facts.Ledger
	matcher  *match.Matcher
	resolver *resolve.Resolver
	builder  *explain.Builder
	logger   *zerolog.Logger
	hooks    *hooks

	// db is set only when this client owns a SQLite database.
	db *sqlite.DB
}

// Ingest resolves one batch of extracted candidates.
func (c *client) Ingest(ctx context.Context, candidates []facts.Candidate) (*resolve.Result, error) {
	result, err := c.resolver.Resolve(ctx, candidates)
	if err != nil {
		return nil, err
	}
	c.hooks.triggerResult(result)
	return result, nil
}

// EditFact applies a manual correction to the fact for key.
func (c *client) EditFact(ctx context.Context, key types.FactKey, value, editedBy, reason string) (*facts.Fact, error) {
	fact, err := c.resolver.ApplyUserEdit(ctx, key, value, editedBy, reason)
	if err != nil {
		return nil, err
	}
	c.hooks.triggerUpdated(fact)
	return fact, nil
}

// DeprecateFact retires the active fact for key.
func (c *client) DeprecateFact(ctx context.Context, key types.FactKey, changedBy, reason string) (*facts.Fact, error) {
	fact, err := c.resolver.Deprecate(ctx, key, changedBy, reason)
	if err != nil {
		return nil, err
	}
	c.hooks.triggerDeprecated(fact)
	return fact, nil
}

// Fact returns the active fact for key.
func (c *client) Fact(ctx context.Context, key types.FactKey) (*facts.Fact, error) {
	return c.store.Get(ctx, key)
}

// Facts lists stored facts.
func (c *client) Facts(ctx context.Context, opts facts.ListOptions) ([]*facts.Fact, error) {
	return c.store.List(ctx, opts)
}

// History returns ledger entries for the fact currently or last holding
// key, newest first.
func (c *client) History(ctx context.Context, key types.FactKey) ([]*facts.HistoryEntry, error) {
	fact, err := c.factForHistory(ctx, key)
	if err != nil {
		return nil, err
	}
	return c.ledger.ByFact(ctx, fact.ID)
}

// factForHistory resolves key to a fact, falling back to inactive facts so
// a deprecated fact's history stays reachable.
func (c *client) factForHistory(ctx context.Context, key types.FactKey) (*facts.Fact, error) {
	fact, err := c.store.Get(ctx, key)
	if err == nil {
		return fact, nil
	}
	if !errors.IsNotFound(err) {
		return nil, err
	}

	all, err := c.store.List(ctx, facts.ListOptions{IncludeInactive: true})
	if err != nil {
		return nil, err
	}

	var latest *facts.Fact
	for _, f := range all {
		if f.Key != key {
			continue
		}
		if latest == nil || f.UpdatedAt.After(latest.UpdatedAt) {
			latest = f
		}
	}
	if latest == nil {
		return nil, errors.NewNotFoundError("fact", key.String())
	}
	return latest, nil
}

// MatchField maps an external field label to an attribute key.
func (c *client) MatchField(label string) (types.FactKey, match.Tier, bool) {
	return c.matcher.Match(label)
}

// Fill resolves external field labels to facts and explains each outcome.
func (c *client) Fill(ctx context.Context, labels []string, docNames map[string]string) ([]explain.FieldResult, error) {
	return c.builder.Explain(ctx, labels, docNames)
}

// OnFactCreated registers a callback for new facts.
func (c *client) OnFactCreated(fn FactCreatedHook) { c.hooks.OnFactCreated(fn) }

// OnFactUpdated registers a callback for fact changes.
func (c *client) OnFactUpdated(fn FactUpdatedHook) { c.hooks.OnFactUpdated(fn) }

// OnFactDeprecated registers a callback for retired facts.
func (c *client) OnFactDeprecated(fn FactDeprecatedHook) { c.hooks.OnFactDeprecated(fn) }

// Close releases the engine's resources.
func (c *client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return c.store.Close()
}

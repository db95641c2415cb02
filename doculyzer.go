// Package doculyzer reconciles candidate company attributes extracted from
// documents into canonical facts with a complete audit history.
//
// Upstream producers (document readers, OCR, language models) are
// non-deterministic: the same attribute can arrive many times with
// different values and confidence scores. The engine converges each
// attribute key to a single active fact, records every attempt in an
// append-only ledger, and maps arbitrary external field labels onto
// attribute keys for form-fill and explanation surfaces.
package doculyzer

import (
	"fmt"

	"github.com/msureshc21/Doculyzer/internal/storage/sqlite"
	"github.com/msureshc21/Doculyzer/pkg/explain"
	"github.com/msureshc21/Doculyzer/pkg/facts"
	"github.com/msureshc21/Doculyzer/pkg/facts/memory"
	"github.com/msureshc21/Doculyzer/pkg/match"
	"github.com/msureshc21/Doculyzer/pkg/resolve"
)

// New creates a Doculyzer instance with the given options. Without options
// the engine runs fully in memory; WithDatabase selects SQLite persistence.
func New(opts ...Option) (Doculyzer, error) {
	c := newConfig()
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}

	cl := &client{
		store:  c.store,
		ledger: c.ledger,
		logger: c.logger,
		hooks:  newHooks(),
	}

	// Explicit store/ledger win; a database path selects SQLite; the
	// default is an ephemeral in-memory engine.
	if cl.store == nil || cl.ledger == nil {
		if c.databasePath != "" {
			db, err := sqlite.Open(c.databasePath)
			if err != nil {
				return nil, fmt.Errorf("opening database: %w", err)
			}
			cl.db = db
			if cl.store == nil {
				cl.store = db.Facts()
			}
			if cl.ledger == nil {
				cl.ledger = db.History()
			}
		} else {
			if cl.store == nil {
				cl.store = memory.NewStore()
			}
			if cl.ledger == nil {
				cl.ledger = memory.NewLedger()
			}
		}
	}

	table := c.aliasTable
	if table == nil && c.aliasTablePath != "" {
		loaded, err := match.LoadTable(c.aliasTablePath)
		if err != nil {
			return nil, fmt.Errorf("loading alias table: %w", err)
		}
		table = loaded
	}
	cl.matcher = match.NewMatcher(table)

	resolver, err := resolve.New(cl.store, cl.ledger,
		resolve.WithLogger(cl.logger),
		resolve.WithMaxRetries(c.maxRetries))
	if err != nil {
		return nil, fmt.Errorf("creating resolver: %w", err)
	}
	cl.resolver = resolver

	builder, err := explain.NewBuilder(cl.matcher, cl.store, explain.WithLogger(cl.logger))
	if err != nil {
		return nil, fmt.Errorf("creating explanation builder: %w", err)
	}
	cl.builder = builder

	return cl, nil
}

// ensure the concrete client satisfies the public interface.
var _ Doculyzer = (*client)(nil)

// ensure the in-memory and SQLite backends stay interchangeable.
var (
	_ facts.Store  = (*memory.Store)(nil)
	_ facts.Ledger = (*memory.Ledger)(nil)
)

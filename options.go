package doculyzer

import (
	"github.com/rs/zerolog"

	"github.com/msureshc21/Doculyzer/pkg/facts"
	"github.com/msureshc21/Doculyzer/pkg/logging"
	"github.com/msureshc21/Doculyzer/pkg/match"
	"github.com/msureshc21/Doculyzer/pkg/resolve"
)

// Option is a function that configures a Doculyzer instance.
type Option func(*config) error

// config collects construction-time settings.
type config struct {
	databasePath   string
	store          facts.Store
	ledger         facts.Ledger
	aliasTable     *match.Table
	aliasTablePath string
	logger         *zerolog.Logger
	maxRetries     int
}

func newConfig() *config {
	return &config{
		logger:     logging.Default(),
		maxRetries: resolve.DefaultMaxRetries,
	}
}

// WithDatabase persists facts and history in a SQLite database at path.
func WithDatabase(path string) Option {
	return func(c *config) error {
		c.databasePath = path
		return nil
	}
}

// WithStore uses a custom fact store instead of the built-in backends.
func WithStore(store facts.Store) Option {
	return func(c *config) error {
		c.store = store
		return nil
	}
}

// WithLedger uses a custom history ledger instead of the built-in backends.
func WithLedger(ledger facts.Ledger) Option {
	return func(c *config) error {
		c.ledger = ledger
		return nil
	}
}

// WithAliasTable uses a custom field alias table for label matching.
func WithAliasTable(table *match.Table) Option {
	return func(c *config) error {
		c.aliasTable = table
		return nil
	}
}

// WithAliasTableFile loads the field alias table from a YAML file.
func WithAliasTableFile(path string) Option {
	return func(c *config) error {
		c.aliasTablePath = path
		return nil
	}
}

// WithLogger sets the logger used by the engine.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		if logger == nil {
			return nil
		}
		c.logger = logger
		return nil
	}
}

// WithMaxRetries bounds how often a lost write race is retried during
// resolution.
func WithMaxRetries(n int) Option {
	return func(c *config) error {
		c.maxRetries = n
		return nil
	}
}

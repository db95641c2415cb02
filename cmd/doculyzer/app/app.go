// Package app provides the application context and dependency management
// for the doculyzer CLI. It centralizes configuration, logging, and the
// lazily created engine instance.
package app

import (
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	doculyzer "github.com/msureshc21/Doculyzer"
)

// App represents the doculyzer CLI application with its dependencies.
type App struct {
	version string
	commit  string
	date    string

	config *Config
	logger *zerolog.Logger

	// Engine instance (lazy-initialized, singleton)
	mu     sync.Mutex
	engine doculyzer.Doculyzer
}

// New creates a new App instance with the given version information.
func New(version, commit, date string) (*App, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := NewLogger(config)
	return &App{
		version: version,
		commit:  commit,
		date:    date,
		config:  config,
		logger:  &logger,
	}, nil
}

// Version returns the version string.
func (a *App) Version() string { return a.version }

// Commit returns the git commit hash.
func (a *App) Commit() string { return a.commit }

// Date returns the build date.
func (a *App) Date() string { return a.date }

// Config returns the application configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// ReconfigureLogger rebuilds the logger after cobra has parsed flags, so
// flag values take precedence over config file and env settings.
func (a *App) ReconfigureLogger() {
	logger := NewLogger(a.config)
	a.logger = &logger
}

// Engine returns the reconciliation engine, creating it on first use.
func (a *App) Engine() (doculyzer.Doculyzer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.engine != nil {
		return a.engine, nil
	}

	opts := []doculyzer.Option{
		doculyzer.WithLogger(a.logger),
	}
	if a.config.DatabasePath != "" {
		opts = append(opts, doculyzer.WithDatabase(a.config.DatabasePath))
	}
	if a.config.AliasTableFile != "" {
		opts = append(opts, doculyzer.WithAliasTableFile(a.config.AliasTableFile))
	}

	engine, err := doculyzer.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	a.engine = engine
	return engine, nil
}

// Shutdown releases the engine's resources if one was created.
func (a *App) Shutdown() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.engine != nil {
		if err := a.engine.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Closing engine")
		}
		a.engine = nil
	}
}

// ExitOnError prints an error to stderr and exits with status 1.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/msureshc21/Doculyzer/internal/storage/sqlite/migrations"
	"github.com/msureshc21/Doculyzer/pkg/errors"
	"github.com/msureshc21/Doculyzer/pkg/facts"
	"github.com/msureshc21/Doculyzer/pkg/types"
)

// DB is a SQLite-backed database holding facts and their history ledger.
type DB struct {
	db   *sql.DB
	path string
}

// Open creates or opens the database at path, ensuring the parent
// directory exists and the schema is current.
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, errors.NewValidationError("path", path, "cannot be empty")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, errors.WrapIO("mkdir", dir, err)
		}
	}

	// WAL mode for concurrent readers, busy timeout so competing writers
	// queue instead of failing immediately.
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	d := &DB{db: db, path: path}
	if err := d.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// Facts returns a facts.Store backed by this database.
func (d *DB) Facts() facts.Store {
	return &factStore{db: d}
}

// History returns a facts.Ledger backed by this database.
func (d *DB) History() facts.Ledger {
	return &historyLedger{db: d}
}

// migrate runs all pending up migrations in version order.
func (d *DB) migrate(fsys embed.FS) error {
	_, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := d.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := d.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := d.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

// ==================== Fact Store ====================

const factColumns = `id, fact_key, value, confidence, category, source_document_id,
	source_candidate_ref, created_at, updated_at, last_edited_by, edit_count, status, version`

type factStore struct {
	db *DB
}

var _ facts.Store = (*factStore)(nil)

// Get returns the active fact for key.
func (s *factStore) Get(ctx context.Context, key types.FactKey) (*facts.Fact, error) {
	row := s.db.db.QueryRowContext(ctx, `
		SELECT `+factColumns+`
		FROM facts WHERE fact_key = ? AND status = ?
	`, key.String(), types.StatusActive.String())

	fact, err := scanFact(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("fact", key.String())
		}
		return nil, err
	}
	return fact, nil
}

// List returns facts ordered by key, filtered per opts.
func (s *factStore) List(ctx context.Context, opts facts.ListOptions) ([]*facts.Fact, error) {
	query := `SELECT ` + factColumns + ` FROM facts`
	var conds []string
	var args []any

	if !opts.IncludeInactive {
		conds = append(conds, "status = ?")
		args = append(args, types.StatusActive.String())
	}
	if opts.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, opts.Category.String())
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY fact_key, created_at"

	rows, err := s.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying facts: %w", err)
	}
	defer rows.Close()

	var result []*facts.Fact
	for rows.Next() {
		fact, err := scanFact(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, fact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating facts: %w", err)
	}
	return result, nil
}

// Create inserts a new fact at version 1. A second active fact for the same
// key trips the partial unique index and is reported as ErrAlreadyExists so
// the caller can retry from a fresh read.
func (s *factStore) Create(ctx context.Context, fact *facts.Fact) error {
	if fact == nil {
		return errors.NewValidationError("fact", nil, "cannot be nil")
	}
	if fact.ID == "" {
		return errors.NewValidationError("id", fact.ID, "cannot be empty")
	}

	fact.Version = 1
	_, err := s.db.db.ExecContext(ctx, `
		INSERT INTO facts (`+factColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, fact.ID, fact.Key.String(), fact.Value, fact.Confidence, fact.Category.String(),
		fact.SourceDocumentID, fact.SourceCandidateRef, fact.CreatedAt, fact.UpdatedAt,
		fact.LastEditedBy, fact.EditCount, fact.Status.String(), fact.Version)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.ErrAlreadyExists
		}
		return fmt.Errorf("saving fact: %w", err)
	}
	return nil
}

// Update replaces a stored fact if its version still equals expectedVersion,
// bumping the version on success.
func (s *factStore) Update(ctx context.Context, fact *facts.Fact, expectedVersion int64) error {
	if fact == nil {
		return errors.NewValidationError("fact", nil, "cannot be nil")
	}

	res, err := s.db.db.ExecContext(ctx, `
		UPDATE facts SET
			value = ?,
			confidence = ?,
			category = ?,
			source_document_id = ?,
			source_candidate_ref = ?,
			updated_at = ?,
			last_edited_by = ?,
			edit_count = ?,
			status = ?,
			version = version + 1
		WHERE id = ? AND fact_key = ? AND version = ?
	`, fact.Value, fact.Confidence, fact.Category.String(),
		fact.SourceDocumentID, fact.SourceCandidateRef, fact.UpdatedAt,
		fact.LastEditedBy, fact.EditCount, fact.Status.String(),
		fact.ID, fact.Key.String(), expectedVersion)
	if err != nil {
		return fmt.Errorf("updating fact: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		var currentVersion int64
		var currentKey string
		row := s.db.db.QueryRowContext(ctx,
			"SELECT fact_key, version FROM facts WHERE id = ?", fact.ID)
		if err := row.Scan(&currentKey, &currentVersion); err != nil {
			if err == sql.ErrNoRows {
				return errors.NewNotFoundError("fact", fact.Key.String())
			}
			return fmt.Errorf("checking fact state: %w", err)
		}
		if currentKey != fact.Key.String() {
			return errors.NewIntegrityError("fact", fact.ID, "fact key is immutable")
		}
		return errors.NewConflictError(fact.Key.String(), expectedVersion, currentVersion)
	}

	fact.Version = expectedVersion + 1
	return nil
}

// Close is a no-op; the owning DB manages the connection.
func (s *factStore) Close() error {
	return nil
}

// scanFact reads one fact from a row scanner.
func scanFact(row interface{ Scan(...any) error }) (*facts.Fact, error) {
	var f facts.Fact
	var key, category, status string
	if err := row.Scan(&f.ID, &key, &f.Value, &f.Confidence, &category,
		&f.SourceDocumentID, &f.SourceCandidateRef, &f.CreatedAt, &f.UpdatedAt,
		&f.LastEditedBy, &f.EditCount, &status, &f.Version); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning fact: %w", err)
	}
	f.Key = types.FactKey(key)
	f.Category = types.Category(category)
	f.Status = types.FactStatus(status)
	return &f, nil
}

// isUniqueViolation reports whether err is a SQLite unique constraint error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

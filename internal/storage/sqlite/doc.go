// Package sqlite persists facts and their history ledger in SQLite.
//
// The package uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. The schema is managed
// through versioned migrations embedded in the migrations/ directory and is
// applied on open.
//
// Two guarantees are enforced at the schema level: a partial unique index
// keeps at most one active fact per key, and the history table is
// append-only with a monotonic sequence number.
//
// All operations are thread-safe. The store relies on database-level
// locking provided by SQLite in WAL mode.
package sqlite

// Package facts defines the canonical fact data model: the Fact record that
// holds the authoritative value for one attribute key, the append-only
// HistoryEntry audit record, the ephemeral Candidate produced by upstream
// extractors, and the Store and Ledger interfaces the storage backends
// implement.
package facts

// Package resolve implements the conflict-resolution policy that converges
// extracted candidate values into canonical facts.
//
// An ingestion batch carries every candidate produced for one source
// document. The resolver groups candidates by field name, picks the best
// candidate per group, and decides per attribute key whether to create,
// replace, or leave the canonical fact untouched. Every decision, including
// suppressed and rejected attempts, is recorded in the append-only history
// ledger so the full lineage of each fact can be reconstructed.
//
// Rules, in priority order:
//  1. User edits always win: a fact with a user edit is protected and is
//     never changed by the system again.
//  2. Identical normalized values never replace each other; at most the
//     confidence is refreshed upward.
//  3. A candidate wins when its confidence exceeds the fact's by more than
//     the threshold, and loses when it trails by more than the threshold.
//  4. Within the threshold, the newer observation wins.
package resolve

package match

import (
	"strings"

	"github.com/msureshc21/Doculyzer/pkg/normalize"
	"github.com/msureshc21/Doculyzer/pkg/types"
)

// minWordOverlap is the number of significant tokens a label and an alias
// must share for the word-overlap tier to fire.
const minWordOverlap = 2

// Tier identifies which matching strategy resolved a label.
type Tier int

const (
	// TierNone means no tier matched.
	TierNone Tier = iota
	// TierExact matched the normalized label verbatim against an alias.
	TierExact
	// TierPartial matched the normalized label and an alias by substring
	// containment in either direction.
	TierPartial
	// TierWordOverlap matched on shared significant tokens.
	TierWordOverlap
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierPartial:
		return "partial"
	case TierWordOverlap:
		return "word-overlap"
	default:
		return "none"
	}
}

// Matcher resolves external field labels against an alias table. It is
// read-only after construction and safe for concurrent use.
type Matcher struct {
	table *Table
}

// NewMatcher creates a matcher over the given table. A nil table selects
// the built-in default.
func NewMatcher(table *Table) *Matcher {
	if table == nil {
		table = DefaultTable()
	}
	return &Matcher{table: table}
}

// Table returns the matcher's alias table.
func (m *Matcher) Table() *Table {
	return m.table
}

// Match resolves an external field label to an attribute key. The tiers run
// in priority order, each scanning the full table before the next is tried:
// exact equality first, then substring containment, then word overlap. The
// word-overlap tier prefers the highest shared-token count and breaks ties
// by table order.
func (m *Matcher) Match(label string) (types.FactKey, Tier, bool) {
	normalized := normalize.Label(label)
	if normalized == "" {
		return "", TierNone, false
	}

	for _, e := range m.table.entries {
		for _, alias := range e.Aliases {
			if normalized == alias {
				return e.Key, TierExact, true
			}
		}
	}

	for _, e := range m.table.entries {
		for _, alias := range e.Aliases {
			if strings.Contains(normalized, alias) || strings.Contains(alias, normalized) {
				return e.Key, TierPartial, true
			}
		}
	}

	labelTokens := normalize.TokenSet(label)
	if len(labelTokens) == 0 {
		return "", TierNone, false
	}

	var (
		bestKey     types.FactKey
		bestOverlap int
	)
	for i, e := range m.table.entries {
		for _, aliasTokens := range m.table.tokens[i] {
			if n := normalize.Overlap(labelTokens, aliasTokens); n > bestOverlap {
				bestKey, bestOverlap = e.Key, n
			}
		}
	}
	if bestOverlap >= minWordOverlap {
		return bestKey, TierWordOverlap, true
	}

	return "", TierNone, false
}

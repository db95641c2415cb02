package resolve

import (
	"fmt"

	"github.com/msureshc21/Doculyzer/pkg/facts"
	"github.com/msureshc21/Doculyzer/pkg/normalize"
)

// ConfidenceThreshold is the minimum confidence difference required for one
// value to displace another on confidence alone. Differences within the
// threshold fall through to the recency tie-break.
const ConfidenceThreshold = 0.1

// decision is the outcome of comparing a candidate against an existing fact.
type decision struct {
	action Action
	reason string
}

// decide applies the conflict-resolution rules for a candidate against an
// existing, unprotected fact. Protection is checked by the caller first.
func decide(existing *facts.Fact, c *facts.Candidate) decision {
	if normalize.Equal(existing.Value, c.Value) {
		if c.Confidence > existing.Confidence {
			return decision{
				action: ActionRefreshed,
				reason: fmt.Sprintf("value unchanged, confidence refreshed (%.2f -> %.2f)",
					existing.Confidence, c.Confidence),
			}
		}
		return decision{
			action: ActionUnchanged,
			reason: "values are identical (normalized)",
		}
	}

	delta := c.Confidence - existing.Confidence

	if delta > ConfidenceThreshold {
		return decision{
			action: ActionUpdated,
			reason: fmt.Sprintf("new value has significantly higher confidence (%.2f vs %.2f)",
				c.Confidence, existing.Confidence),
		}
	}

	if delta < -ConfidenceThreshold {
		return decision{
			action: ActionRejected,
			reason: fmt.Sprintf("existing value has significantly higher confidence (%.2f vs %.2f)",
				existing.Confidence, c.Confidence),
		}
	}

	// Confidence within the threshold and values differ: the newer
	// observation wins.
	if c.ObservedAt.After(existing.UpdatedAt) {
		return decision{
			action: ActionUpdated,
			reason: fmt.Sprintf("confidence similar, newer observation wins (%.2f vs %.2f)",
				c.Confidence, existing.Confidence),
		}
	}
	return decision{
		action: ActionRejected,
		reason: fmt.Sprintf("confidence similar, existing value is newer (%.2f vs %.2f)",
			existing.Confidence, c.Confidence),
	}
}

// selectBest picks the winning candidate of a field group: highest
// confidence, ties broken by the latest observation, then by arrival order.
func selectBest(group []facts.Candidate) facts.Candidate {
	best := group[0]
	for _, c := range group[1:] {
		if c.Confidence > best.Confidence {
			best = c
			continue
		}
		if c.Confidence == best.Confidence && c.ObservedAt.After(best.ObservedAt) {
			best = c
		}
	}
	return best
}

// Package normalize provides canonical forms for fact values and field labels.
//
// Values are folded so equality checks are not fooled by case or spacing.
// Labels are reduced to a separator-free joined form plus a set of significant
// tokens used by the word-overlap matching tier. All functions are pure.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// minTokenLength is the shortest token considered significant for
// word-level matching. Shorter tokens still participate in the joined
// form used for substring matching.
const minTokenLength = 2

// stopwords are connective tokens excluded from word-level matching.
var stopwords = map[string]struct{}{
	"a":   {},
	"an":  {},
	"and": {},
	"by":  {},
	"for": {},
	"in":  {},
	"of":  {},
	"on":  {},
	"or":  {},
	"the": {},
	"to":  {},
}

var folder = cases.Fold()

// Value canonicalizes a fact value for equality comparison:
// case folded, trimmed, with internal whitespace collapsed.
func Value(s string) string {
	folded := folder.String(s)
	return strings.Join(strings.Fields(folded), " ")
}

// Equal reports whether two values are equal after normalization.
func Equal(a, b string) bool {
	return Value(a) == Value(b)
}

// Label canonicalizes an external field label into its joined form:
// case folded, with every non-alphanumeric run collapsed to a single space.
// "Company_Name " and "company-name" both become "company name".
func Label(s string) string {
	folded := folder.String(s)

	var b strings.Builder
	b.Grow(len(folded))
	lastSpace := true
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSpace = false
		} else if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// Tokens returns the significant tokens of a label: the words of its joined
// form, minus stopwords and tokens shorter than the minimum length.
func Tokens(s string) []string {
	words := strings.Fields(Label(s))
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) < minTokenLength {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// TokenSet returns the significant tokens of a label as a set.
func TokenSet(s string) map[string]struct{} {
	tokens := Tokens(s)
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

// Overlap counts the tokens two labels share.
func Overlap(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			n++
		}
	}
	return n
}

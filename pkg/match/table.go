// Package match maps arbitrary external field labels onto canonical
// attribute keys. Matching is driven by an alias table, plain data that can
// be replaced or extended without touching the matching algorithm, and runs
// in three tiers of decreasing strictness: exact, substring, word overlap.
package match

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/msureshc21/Doculyzer/pkg/errors"
	"github.com/msureshc21/Doculyzer/pkg/normalize"
	"github.com/msureshc21/Doculyzer/pkg/types"
)

// Entry maps one attribute key to its known label variants. Alias strings
// are compared verbatim against the normalized label in the exact and
// substring tiers, so an alias written with underscores only ever matches
// at the word-overlap tier.
type Entry struct {
	Key     types.FactKey `json:"key" yaml:"key"`
	Aliases []string      `json:"aliases" yaml:"aliases"`
}

// Table is an ordered alias table. Order matters: earlier entries win
// tie-breaks, and each matching tier scans the whole table before the next
// tier runs.
type Table struct {
	entries []Entry
	// tokens mirrors entries, holding the significant-token set of every
	// alias for the word-overlap tier.
	tokens [][]map[string]struct{}
}

// NewTable builds a table from entries, lowercasing and trimming aliases.
// Keys must be unique and every entry needs at least one alias.
func NewTable(entries []Entry) (*Table, error) {
	if len(entries) == 0 {
		return nil, errors.NewValidationError("entries", entries, "alias table cannot be empty")
	}

	seen := make(map[types.FactKey]struct{}, len(entries))
	t := &Table{
		entries: make([]Entry, 0, len(entries)),
		tokens:  make([][]map[string]struct{}, 0, len(entries)),
	}

	for _, e := range entries {
		if strings.TrimSpace(string(e.Key)) == "" {
			return nil, errors.NewValidationError("key", e.Key, "cannot be empty")
		}
		if _, dup := seen[e.Key]; dup {
			return nil, errors.NewValidationError("key", e.Key, "duplicate table entry")
		}
		seen[e.Key] = struct{}{}

		aliases := make([]string, 0, len(e.Aliases))
		tokens := make([]map[string]struct{}, 0, len(e.Aliases))
		for _, a := range e.Aliases {
			a = strings.ToLower(strings.TrimSpace(a))
			if a == "" {
				continue
			}
			aliases = append(aliases, a)
			tokens = append(tokens, normalize.TokenSet(a))
		}
		if len(aliases) == 0 {
			return nil, errors.NewValidationError("aliases", e.Aliases,
				fmt.Sprintf("entry %q has no usable aliases", e.Key))
		}

		t.entries = append(t.entries, Entry{Key: e.Key, Aliases: aliases})
		t.tokens = append(t.tokens, tokens)
	}
	return t, nil
}

// ParseTable builds a table from YAML data.
func ParseTable(data []byte) (*Table, error) {
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, errors.NewParseError("yaml", "", "parsing alias table", err)
	}
	return NewTable(entries)
}

// LoadTable builds a table from a YAML file.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	t, err := ParseTable(data)
	if err != nil {
		if parseErr, ok := err.(*errors.ParseError); ok {
			parseErr.File = path
		}
		return nil, err
	}
	return t, nil
}

// Entries returns a copy of the table's entries in order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	for i, e := range t.entries {
		out[i] = Entry{Key: e.Key, Aliases: append([]string(nil), e.Aliases...)}
	}
	return out
}

// Keys returns the attribute keys in table order.
func (t *Table) Keys() []types.FactKey {
	keys := make([]types.FactKey, len(t.entries))
	for i, e := range t.entries {
		keys[i] = e.Key
	}
	return keys
}

// Aliases returns the alias list for a key, or nil when the key is absent.
func (t *Table) Aliases(key types.FactKey) []string {
	for _, e := range t.entries {
		if e.Key == key {
			return append([]string(nil), e.Aliases...)
		}
	}
	return nil
}

// DefaultTable returns the built-in alias table covering organization
// identity, legal identifiers, location components, and contact channels.
func DefaultTable() *Table {
	t, err := NewTable(defaultEntries)
	if err != nil {
		// The built-in table is validated by tests; reaching this is a bug.
		panic(fmt.Sprintf("match: invalid built-in alias table: %v", err))
	}
	return t
}

var defaultEntries = []Entry{
	{
		Key: "company_name",
		Aliases: []string{
			"company name", "business name", "legal name", "legal business name",
			"company", "organization", "organization name", "corporate name",
			"entity name", "name of business", "registered name", "firm name",
		},
	},
	{
		Key: "dba_name",
		Aliases: []string{
			"dba", "dba name", "doing business as", "trade name",
			"fictitious name", "assumed name", "brand name",
		},
	},
	{
		Key: "ein",
		Aliases: []string{
			"ein", "fein", "taxid", "employer_id", "tax_id", "federal_id",
			"federal_tax_id", "federal_ein", "irs_number",
			"employer_identification_number", "tax_identification_number",
		},
	},
	{
		Key: "address_line_1",
		Aliases: []string{
			"address", "address line 1", "address 1", "street address",
			"business address", "mailing address", "physical address",
			"registered address", "principal address", "street",
		},
	},
	{
		Key: "city",
		Aliases: []string{
			"city", "city name", "town", "municipality", "locality",
		},
	},
	{
		Key: "state",
		Aliases: []string{
			"state", "state name", "province", "state province", "region",
		},
	},
	{
		Key: "zip_code",
		Aliases: []string{
			"zip", "zip code", "zipcode", "postal code", "postcode",
			"zip postal code",
		},
	},
	{
		Key: "phone",
		Aliases: []string{
			"phone", "phone number", "telephone", "telephone number",
			"business phone", "contact number", "phone no", "tel", "mobile",
		},
	},
	{
		Key: "email",
		Aliases: []string{
			"email", "e mail", "email address", "e mail address",
			"contact email", "business email", "electronic mail",
		},
	},
	{
		Key: "website",
		Aliases: []string{
			"website", "web site", "web address", "url", "homepage",
			"company website", "domain",
		},
	},
	{
		Key: "incorporation_date",
		Aliases: []string{
			"incorporation date", "date of incorporation", "formation date",
			"date of formation", "founding date", "date established",
			"incorporated on",
		},
	},
	{
		Key: "state_of_incorporation",
		Aliases: []string{
			"state of incorporation", "incorporation state", "formation state",
			"state of formation", "jurisdiction", "jurisdiction of incorporation",
		},
	},
}

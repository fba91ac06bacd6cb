// Package alias maps source-specific place spellings to canonical gazetteer
// names.
package alias

import (
	"errors"
	"fmt"

	"github.com/elizabethzhu1/newsmapper/internal/data"
)

var (
	// ErrConflictingAlias is returned when one alias maps to two canonicals.
	ErrConflictingAlias = errors.New("alias maps to more than one canonical name")
	// ErrNotIdempotent is returned when a canonical name is itself an alias
	// for a different canonical name.
	ErrNotIdempotent = errors.New("alias rules are not idempotent")
)

// Normalizer performs exact, case-sensitive alias lookup. It is immutable
// and safe for concurrent use.
type Normalizer struct {
	rules  []data.AliasRule
	lookup map[string]string
}

// New builds a Normalizer from an ordered rule list. Duplicate aliases with
// the same canonical are collapsed to the first occurrence.
func New(rules []data.AliasRule) (*Normalizer, error) {
	n := &Normalizer{
		rules:  make([]data.AliasRule, 0, len(rules)),
		lookup: make(map[string]string, len(rules)),
	}

	for _, r := range rules {
		if existing, ok := n.lookup[r.Alias]; ok {
			if existing != r.Canonical {
				return nil, fmt.Errorf("%w: %q -> %q and %q", ErrConflictingAlias, r.Alias, existing, r.Canonical)
			}
			continue
		}
		n.lookup[r.Alias] = r.Canonical
		n.rules = append(n.rules, r)
	}

	for _, r := range n.rules {
		if target, ok := n.lookup[r.Canonical]; ok && target != r.Canonical {
			return nil, fmt.Errorf("%w: canonical %q is an alias for %q", ErrNotIdempotent, r.Canonical, target)
		}
	}

	return n, nil
}

// MustNew is New that panics on an invalid rule set. Use it for static tables.
func MustNew(rules []data.AliasRule) *Normalizer {
	n, err := New(rules)
	if err != nil {
		panic(err)
	}
	return n
}

// NYTimes returns the New York Times geo-facet normalizer.
func NYTimes() *Normalizer {
	return MustNew(data.NYTimesAliases)
}

// Guardian returns the Guardian tag and title normalizer.
func Guardian() *Normalizer {
	return MustNew(data.GuardianAliases)
}

// Default merges every source table: Guardian order first, then the NYT
// entries the Guardian table lacks.
func Default() *Normalizer {
	merged := make([]data.AliasRule, 0, len(data.GuardianAliases)+len(data.NYTimesAliases))
	merged = append(merged, data.GuardianAliases...)
	merged = append(merged, data.NYTimesAliases...)
	return MustNew(merged)
}

// Normalize returns the canonical name for raw, or raw unchanged.
func (n *Normalizer) Normalize(raw string) string {
	if canonical, ok := n.lookup[raw]; ok {
		return canonical
	}
	return raw
}

// Rules returns the rules in table order.
func (n *Normalizer) Rules() []data.AliasRule {
	out := make([]data.AliasRule, len(n.rules))
	copy(out, n.rules)
	return out
}

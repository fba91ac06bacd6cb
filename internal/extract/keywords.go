package extract

import (
	"sync"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// keywordMatcher finds the lowest-indexed keyword occurring in a text in a
// single pass. The automaton mutates internal counters while matching, so
// calls are serialized.
type keywordMatcher struct {
	mu      sync.Mutex
	matcher *ahocorasick.Matcher
	size    int
}

func newKeywordMatcher(keywords []string) *keywordMatcher {
	km := &keywordMatcher{size: len(keywords)}
	if len(keywords) > 0 {
		km.matcher = ahocorasick.NewStringMatcher(keywords)
	}
	return km
}

// First returns the smallest keyword index found in text as a literal,
// case-sensitive substring.
func (k *keywordMatcher) First(text string) (int, bool) {
	if k.matcher == nil || text == "" {
		return 0, false
	}

	k.mu.Lock()
	hits := k.matcher.Match([]byte(text))
	k.mu.Unlock()

	best := -1
	for _, idx := range hits {
		if idx >= k.size {
			continue
		}
		if best == -1 || idx < best {
			best = idx
		}
	}
	return best, best >= 0
}

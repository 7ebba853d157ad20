package suggest

import (
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Ranker answers prefix queries against the current lexicon. The lexicon
// pointer is swapped whole on corpus reload, so readers never observe a
// half-built index.
type Ranker struct {
	mu        sync.RWMutex
	lexicon   *Lexicon
	overfetch int
}

var _ IRanker = (*Ranker)(nil)

// NewRanker returns a ranker over an empty lexicon. overfetch is the
// candidate pool multiplier; values below 1 fall back to the default.
// overfetch == 1 reproduces the documented approximation of fetching
// exactly limit candidates before weight sorting.
func NewRanker(overfetch int) *Ranker {
	if overfetch < 1 {
		overfetch = DefaultOverfetch
	}
	return &Ranker{lexicon: NewLexicon(), overfetch: overfetch}
}

// Swap replaces the live lexicon with a freshly built one.
func (r *Ranker) Swap(lex *Lexicon) {
	if lex == nil {
		return
	}
	r.mu.Lock()
	r.lexicon = lex
	r.mu.Unlock()
}

// Rank returns at most limit suggestions whose terms begin with the query,
// sorted by weight descending; equal weights keep the trie's enumeration
// order. Blank queries, non-positive limits and an empty index all yield an
// empty result rather than an error.
func (r *Ranker) Rank(rawQuery string, limit int) []Suggestion {
	query := strings.TrimSpace(rawQuery)
	if query == "" || limit <= 0 {
		return nil
	}

	r.mu.RLock()
	lex := r.lexicon
	r.mu.RUnlock()

	pool := limit * r.overfetch
	if pool < limit {
		pool = limit
	}
	matches := lex.PrefixMatches(query, pool)
	if len(matches) == 0 {
		return nil
	}

	suggestions := make([]Suggestion, 0, len(matches))
	for _, term := range matches {
		entry, ok := lex.Lookup(term)
		if !ok {
			// Cannot happen while Add is the only write path.
			log.Errorf("term %q has no index entry", term)
			continue
		}
		suggestions = append(suggestions, Suggestion{Term: entry.Display, Weight: entry.Weight})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Weight > suggestions[j].Weight
	})
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

// Stats returns statistics about the live index.
func (r *Ranker) Stats() map[string]int {
	r.mu.RLock()
	lex := r.lexicon
	r.mu.RUnlock()
	return map[string]int{
		"terms":     lex.TermCount(),
		"maxWeight": lex.MaxWeight(),
	}
}

package suggest

import "strings"

// Lexicon couples the term trie with the term index. Add is the only write
// path for either, so a terminal trie node and an index entry always exist
// together under the same normalized key. A lexicon is built once per corpus
// load and never mutated afterwards; a reload builds a fresh one.
type Lexicon struct {
	trie      *Trie
	index     *Index
	maxWeight int
}

// NewLexicon returns an empty lexicon.
func NewLexicon() *Lexicon {
	return &Lexicon{trie: NewTrie(), index: NewIndex()}
}

// Add inserts one term observation. The display form is trimmed; blank
// terms are dropped before either structure is touched.
func (l *Lexicon) Add(display string, weight int) {
	display = strings.TrimSpace(display)
	if display == "" {
		return
	}
	l.trie.Insert(display)
	l.index.Record(display, weight)
	if weight > l.maxWeight {
		l.maxWeight = weight
	}
}

// PrefixMatches returns up to limit normalized terms beginning with prefix,
// in the trie's deterministic enumeration order.
func (l *Lexicon) PrefixMatches(prefix string, limit int) []string {
	return l.trie.PrefixMatches(prefix, limit)
}

// Lookup resolves a normalized term to its display casing and weight.
func (l *Lexicon) Lookup(normalized string) (Entry, bool) {
	return l.index.Lookup(normalized)
}

// TermCount reports distinct terms held. Trie and index agree on this by
// construction.
func (l *Lexicon) TermCount() int {
	return l.trie.Len()
}

// MaxWeight reports the largest weight observed across all terms.
func (l *Lexicon) MaxWeight() int {
	return l.maxWeight
}

package suggest

import (
	"strings"

	"github.com/tchap/go-patricia/v2/patricia"
)

// Entry is the indexed record for one normalized term.
type Entry struct {
	Display string
	Weight  int
}

// Index maps each normalized term to its preferred display casing and its
// aggregated weight. The backing store is a patricia trie holding *Entry
// items, which keeps a large academic term set compact; only exact lookups
// happen here, ordered enumeration is the Trie's job.
type Index struct {
	entries *patricia.Trie
	size    int
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{entries: patricia.NewTrie()}
}

// Record stores display/weight under the lower-cased term. The first writer
// keeps its display casing; the weight only ever grows (updated via max, so
// recording is idempotent and order-independent).
func (ix *Index) Record(display string, weight int) {
	normalized := strings.ToLower(display)
	if strings.TrimSpace(normalized) == "" {
		return
	}
	if weight < 0 {
		weight = 0
	}
	key := patricia.Prefix(normalized)
	if item := ix.entries.Get(key); item != nil {
		entry := item.(*Entry)
		if weight > entry.Weight {
			entry.Weight = weight
		}
		return
	}
	ix.entries.Insert(key, &Entry{Display: display, Weight: weight})
	ix.size++
}

// Lookup returns the entry stored under a normalized term. Absent is a
// valid outcome meaning the term was never recorded, not an error.
func (ix *Index) Lookup(normalized string) (Entry, bool) {
	item := ix.entries.Get(patricia.Prefix(normalized))
	if item == nil {
		return Entry{}, false
	}
	return *(item.(*Entry)), true
}

// Len reports the number of distinct normalized terms recorded.
func (ix *Index) Len() int {
	return ix.size
}

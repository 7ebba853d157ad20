// Package suggest is the core of the engine: the ordered term trie, the
// weighted term index and the ranked retrieval over both.
package suggest

// Suggestion is one ranked completion: the display form of a term and the
// weight that ordered it (max citation count across contributing documents).
type Suggestion struct {
	Term   string `json:"term"`
	Weight int    `json:"weight"`
}

// IRanker is the read surface consumed by servers and UIs.
type IRanker interface {
	// Rank returns at most limit suggestions for the query prefix,
	// heaviest first.
	Rank(query string, limit int) []Suggestion

	// Stats returns statistics about the live index.
	Stats() map[string]int
}

const (
	// DefaultLimit is used when a caller passes no limit of its own.
	DefaultLimit = 10

	// DefaultOverfetch is the candidate pool multiplier applied before
	// weight sorting, so a heavy term late in lexicographic order is not
	// cut off by the retrieval window.
	DefaultOverfetch = 2
)

package utils

import (
	"strings"
)

// TermFilter de-duplicates terms case-insensitively, keeping first-seen
// casing. The loader uses it so a document listing the same keyword
// twice contributes once; the UI uses it to keep the typed word out of
// its own suggestion panel.
type TermFilter struct {
	seen map[string]bool
}

// NewTermFilter creates a filter with the given terms pre-marked as seen
func NewTermFilter(exclude ...string) *TermFilter {
	seen := make(map[string]bool, len(exclude))
	for _, term := range exclude {
		seen[strings.ToLower(term)] = true
	}
	return &TermFilter{seen: seen}
}

// ShouldInclude checks if a term was not seen before, marking it seen
// Returns true if the term should be included, false if it's a duplicate
func (f *TermFilter) ShouldInclude(term string) bool {
	key := strings.ToLower(term)
	if f.seen[key] {
		return false
	}
	f.seen[key] = true
	return true
}

package suggest

import (
	"sort"
	"strings"
)

// trieNode is one node of the term trie. Children stay sorted by rune so a
// subtree walk always visits characters in ascending code-point order,
// independent of insertion order.
type trieNode struct {
	children []trieChild
	terminal bool
}

type trieChild struct {
	r    rune
	node *trieNode
}

// child returns the subtree under r, or nil.
func (n *trieNode) child(r rune) *trieNode {
	i := sort.Search(len(n.children), func(i int) bool { return n.children[i].r >= r })
	if i < len(n.children) && n.children[i].r == r {
		return n.children[i].node
	}
	return nil
}

// ensureChild returns the subtree under r, creating it at its sorted
// position when missing.
func (n *trieNode) ensureChild(r rune) *trieNode {
	i := sort.Search(len(n.children), func(i int) bool { return n.children[i].r >= r })
	if i < len(n.children) && n.children[i].r == r {
		return n.children[i].node
	}
	n.children = append(n.children, trieChild{})
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = trieChild{r: r, node: &trieNode{}}
	return n.children[i].node
}

// collect appends terminal terms in pre-order DFS and reports true once
// limit entries are gathered, which stops the walk early.
func (n *trieNode) collect(spelled string, limit int, out *[]string) bool {
	if n.terminal {
		*out = append(*out, spelled)
		if len(*out) >= limit {
			return true
		}
	}
	for _, c := range n.children {
		if c.node.collect(spelled+string(c.r), limit, out) {
			return true
		}
	}
	return false
}

// Trie is an ordered prefix tree over lower-cased terms. Multi-byte
// characters are treated as opaque runes; no normalization is applied beyond
// case folding. The zero value is not usable, construct with NewTrie.
type Trie struct {
	root *trieNode
	size int
}

// NewTrie returns an empty trie.
func NewTrie() *Trie {
	return &Trie{root: &trieNode{}}
}

// Insert adds a term, lower-casing it first. Blank input is a no-op and
// inserting the same term again leaves the trie unchanged.
func (t *Trie) Insert(term string) {
	if strings.TrimSpace(term) == "" {
		return
	}
	node := t.root
	for _, r := range strings.ToLower(term) {
		node = node.ensureChild(r)
	}
	if !node.terminal {
		node.terminal = true
		t.size++
	}
}

// Has reports whether the exact term (case-insensitive) was inserted.
func (t *Trie) Has(term string) bool {
	node := t.root
	for _, r := range strings.ToLower(term) {
		if node = node.child(r); node == nil {
			return false
		}
	}
	return node.terminal
}

// PrefixMatches returns up to limit stored terms that begin with prefix,
// case-insensitively, in ascending code-point order. A prefix with no path
// in the trie yields an empty result, not an error; so does limit <= 0.
func (t *Trie) PrefixMatches(prefix string, limit int) []string {
	if limit <= 0 {
		return nil
	}
	lower := strings.ToLower(prefix)
	node := t.root
	for _, r := range lower {
		if node = node.child(r); node == nil {
			return nil
		}
	}
	terms := make([]string, 0, min(limit, 32))
	node.collect(lower, limit, &terms)
	return terms
}

// Len reports the number of distinct terms inserted.
func (t *Trie) Len() int {
	return t.size
}

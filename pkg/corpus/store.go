package corpus

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/scholarsearch/scholarserve/internal/utils"
	"github.com/scholarsearch/scholarserve/pkg/graph"
	"github.com/scholarsearch/scholarserve/pkg/suggest"
)

// Snapshot is one immutable build of the corpus: normalized documents,
// the term lexicon, and the citation graph. A reload produces a fresh
// Snapshot; nothing mutates one in place.
type Snapshot struct {
	docs     []Document
	byID     map[string]int
	lexicon  *suggest.Lexicon
	graph    *graph.Graph
	source   string
	loadedAt time.Time
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		byID:    make(map[string]int),
		lexicon: suggest.NewLexicon(),
		graph:   graph.Build(nil),
		source:  "none",
	}
}

// Documents returns the snapshot's documents. Callers must treat the
// slice as read-only.
func (s *Snapshot) Documents() []Document {
	return s.docs
}

// Document returns the document with the given id.
func (s *Snapshot) Document(id string) (Document, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Document{}, false
	}
	return s.docs[i], true
}

// Lexicon returns the term lexicon built from this snapshot.
func (s *Snapshot) Lexicon() *suggest.Lexicon {
	return s.lexicon
}

// Graph returns the citation graph built from this snapshot.
func (s *Snapshot) Graph() *graph.Graph {
	return s.graph
}

// Len returns the number of documents loaded.
func (s *Snapshot) Len() int {
	return len(s.docs)
}

// Source names the origin this snapshot was loaded from.
func (s *Snapshot) Source() string {
	return s.source
}

// LoadedAt returns the build time, zero for the empty snapshot.
func (s *Snapshot) LoadedAt() time.Time {
	return s.loadedAt
}

// Search filters documents whose title or keywords contain any query
// token, ordered by citation count descending, then title. It is the
// local stand-in when the active source has no search backend of its
// own; abstract bodies are not matched.
func (s *Snapshot) Search(query string) []Document {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return nil
	}
	var out []Document
	for _, doc := range s.docs {
		if matchesAny(doc, tokens) {
			out = append(out, doc)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Citations != out[j].Citations {
			return out[i].Citations > out[j].Citations
		}
		return out[i].Title < out[j].Title
	})
	return out
}

func matchesAny(doc Document, tokens []string) bool {
	title := strings.ToLower(doc.Title)
	for _, tok := range tokens {
		if strings.Contains(title, tok) {
			return true
		}
		for _, kw := range doc.Keywords {
			if utils.StringContainsIgnoreCase(kw, tok) {
				return true
			}
		}
	}
	return false
}

// Store publishes the current Snapshot to concurrent readers.
type Store struct {
	mu   sync.RWMutex
	snap *Snapshot
}

// NewStore starts with an empty snapshot so readers never see nil.
func NewStore() *Store {
	return &Store{snap: emptySnapshot()}
}

// Swap publishes a new snapshot. A nil snapshot is ignored.
func (s *Store) Swap(snap *Snapshot) {
	if snap == nil {
		return
	}
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

// Current returns the live snapshot.
func (s *Store) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

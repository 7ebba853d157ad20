package corpus

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/singleflight"

	"github.com/scholarsearch/scholarserve/internal/utils"
	"github.com/scholarsearch/scholarserve/pkg/graph"
	"github.com/scholarsearch/scholarserve/pkg/suggest"
)

// ErrNoSources reports that every configured document source failed.
var ErrNoSources = errors.New("corpus: no document source available")

// Options tunes how the loader turns documents into lexicon terms.
type Options struct {
	// TitleTerms also feeds whitespace-split title tokens into the
	// lexicon, alongside the keyword list.
	TitleTerms bool
}

// Loader fetches the collection from the first healthy source and
// builds a Snapshot from it. Concurrent Load calls share one flight, so
// a reload trigger cannot race a build already in progress.
type Loader struct {
	sources  []Source
	opts     Options
	sanitize *bluemonday.Policy
	group    singleflight.Group
}

// NewLoader creates a loader over the given sources, tried in order.
func NewLoader(opts Options, sources ...Source) *Loader {
	return &Loader{
		sources:  sources,
		opts:     opts,
		sanitize: bluemonday.StrictPolicy(),
	}
}

// Load fetches, normalizes, and indexes the collection. The returned
// Snapshot is never nil: when every source fails it is empty and the
// error says why, so callers decide whether to publish it or keep the
// snapshot they already had.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	v, err, _ := l.group.Do("load", func() (interface{}, error) {
		return l.load(ctx)
	})
	snap, ok := v.(*Snapshot)
	if !ok || snap == nil {
		snap = emptySnapshot()
	}
	return snap, err
}

func (l *Loader) load(ctx context.Context) (*Snapshot, error) {
	started := time.Now()
	for _, src := range l.sources {
		docs, err := src.FetchAll(ctx)
		if err != nil {
			log.Warnf("document source %s unavailable: %v", src.Name(), err)
			continue
		}
		snap := l.build(docs, src.Name())
		log.Infof("loaded %d documents (%d terms) from %s in %s",
			snap.Len(), snap.Lexicon().TermCount(), src.Name(),
			time.Since(started).Round(time.Millisecond))
		return snap, nil
	}
	log.Errorf("all %d document sources failed, suggestion index stays empty", len(l.sources))
	return emptySnapshot(), ErrNoSources
}

// build assembles a Snapshot from freshly decoded documents: normalize,
// build the citation graph, backfill effective citation counts, then
// populate the lexicon with one Add per (document, term) pair.
func (l *Loader) build(raw []Document, sourceName string) *Snapshot {
	docs := make([]Document, 0, len(raw))
	for _, doc := range raw {
		doc.Normalize(l.sanitize)
		if doc.ID == "" {
			log.Warnf("dropping document with no id (title %q)", doc.Title)
			continue
		}
		docs = append(docs, doc)
	}

	refs := make(map[string][]string, len(docs))
	for _, doc := range docs {
		refs[doc.ID] = doc.References
	}
	g := graph.Build(refs)

	lex := suggest.NewLexicon()
	byID := make(map[string]int, len(docs))
	for i := range docs {
		doc := &docs[i]
		// The snapshot's own in-degree supersedes a smaller or absent
		// source-provided count.
		if cited := g.Citations(doc.ID); cited > doc.Citations {
			doc.Citations = cited
		}
		for _, term := range l.extractTerms(doc) {
			lex.Add(term, doc.Citations)
		}
		byID[doc.ID] = i
	}

	return &Snapshot{
		docs:     docs,
		byID:     byID,
		lexicon:  lex,
		graph:    g,
		source:   sourceName,
		loadedAt: time.Now(),
	}
}

// extractTerms returns the document's terms in first-seen casing,
// de-duplicated case-insensitively within the document.
func (l *Loader) extractTerms(doc *Document) []string {
	filter := utils.NewTermFilter()
	var terms []string
	for _, kw := range doc.Keywords {
		term := strings.TrimSpace(kw)
		if term == "" || !filter.ShouldInclude(term) {
			continue
		}
		terms = append(terms, term)
	}
	if l.opts.TitleTerms {
		for _, tok := range strings.Fields(doc.Title) {
			if filter.ShouldInclude(tok) {
				terms = append(terms, tok)
			}
		}
	}
	return terms
}

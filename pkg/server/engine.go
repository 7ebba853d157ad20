package server

import (
	"context"

	"github.com/scholarsearch/scholarserve/pkg/corpus"
	"github.com/scholarsearch/scholarserve/pkg/suggest"
)

// Engine bundles the live pieces every front end serves from: the ranker
// answering prefix queries, the loader that rebuilds the corpus, and the
// store publishing the current snapshot.
type Engine struct {
	ranker *suggest.Ranker
	loader *corpus.Loader
	store  *corpus.Store
}

// NewEngine wires a ranker, loader and store together.
func NewEngine(ranker *suggest.Ranker, loader *corpus.Loader, store *corpus.Store) *Engine {
	return &Engine{ranker: ranker, loader: loader, store: store}
}

// Suggest returns ranked suggestions for the query prefix.
func (e *Engine) Suggest(query string, limit int) []suggest.Suggestion {
	return e.ranker.Rank(query, limit)
}

// Ranker exposes the read surface of the live ranker for front ends
// that drive it directly, like the typeahead controller.
func (e *Engine) Ranker() suggest.IRanker {
	return e.ranker
}

// Snapshot returns the currently published corpus snapshot.
func (e *Engine) Snapshot() *corpus.Snapshot {
	return e.store.Current()
}

// Stats returns statistics about the live suggestion index.
func (e *Engine) Stats() map[string]int {
	return e.ranker.Stats()
}

// Reload rebuilds the corpus and publishes the fresh snapshot to the
// store and the ranker. When every source fails the previous snapshot
// stays live and the error reports why.
func (e *Engine) Reload(ctx context.Context) (*corpus.Snapshot, error) {
	snap, err := e.loader.Load(ctx)
	if err != nil {
		return e.store.Current(), err
	}
	e.store.Swap(snap)
	e.ranker.Swap(snap.Lexicon())
	return snap, nil
}

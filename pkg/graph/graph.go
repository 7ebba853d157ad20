// Package graph builds the citation graph of a corpus and derives
// per-paper influence metrics from it: citation counts (in-degree) and
// damped PageRank scores normalized to [0, 1].
package graph

// Power-iteration rounds and damping factor for PageRank.
const (
	defaultIterations = 30
	defaultDamping    = 0.85
)

// Graph is a directed citation graph. Edges run from a paper to each
// work it references; the reverse adjacency backs citation counts and
// PageRank. A Graph is immutable once built.
type Graph struct {
	out    map[string]map[string]struct{}
	in     map[string]map[string]struct{}
	scores map[string]float64
}

// Build constructs the graph for a corpus and computes influence
// scores. Keys of refs are the corpus paper ids; values list the ids
// each paper cites. References to ids outside the corpus are dropped,
// so the graph stays closed over the corpus.
func Build(refs map[string][]string) *Graph {
	g := &Graph{
		out:    make(map[string]map[string]struct{}, len(refs)),
		in:     make(map[string]map[string]struct{}, len(refs)),
		scores: make(map[string]float64, len(refs)),
	}
	for id := range refs {
		g.out[id] = make(map[string]struct{})
		g.in[id] = make(map[string]struct{})
	}
	for id, cited := range refs {
		for _, ref := range cited {
			if _, ok := g.out[ref]; !ok {
				continue
			}
			g.out[id][ref] = struct{}{}
			g.in[ref][id] = struct{}{}
		}
	}
	g.rank(defaultIterations, defaultDamping)
	return g
}

// rank runs damped power iteration:
//
//	score(p) = (1-d) + d * sum(score(q)/outdegree(q)) over citers q
//
// and stores the result normalized by the maximum, so the most
// influential paper scores 1.0.
func (g *Graph) rank(iterations int, damping float64) {
	if len(g.out) == 0 {
		return
	}
	current := make(map[string]float64, len(g.out))
	for id := range g.out {
		current[id] = 1.0
	}
	for i := 0; i < iterations; i++ {
		next := make(map[string]float64, len(current))
		for id := range g.out {
			sum := 0.0
			for citing := range g.in[id] {
				if deg := len(g.out[citing]); deg > 0 {
					sum += current[citing] / float64(deg)
				}
			}
			next[id] = (1 - damping) + damping*sum
		}
		current = next
	}
	max := 0.0
	for _, score := range current {
		if score > max {
			max = score
		}
	}
	if max == 0 {
		max = 1.0
	}
	for id, score := range current {
		g.scores[id] = score / max
	}
}

// Citations returns the number of corpus papers citing id. Unknown ids
// count zero.
func (g *Graph) Citations(id string) int {
	return len(g.in[id])
}

// Score returns the normalized influence score for id, zero when the id
// is not part of the corpus.
func (g *Graph) Score(id string) float64 {
	return g.scores[id]
}

// Size returns the number of papers in the graph.
func (g *Graph) Size() int {
	return len(g.out)
}

// Edges returns the total number of resolved citation edges.
func (g *Graph) Edges() int {
	n := 0
	for _, cited := range g.out {
		n += len(cited)
	}
	return n
}

package graph

import (
	"iter"
	"sort"

	"github.com/fuzzgram/fuzzgram/ids"
)

// CompressedGraph is a map-of-slices adjacency representation, the same
// shape graph libraries in the retrieval pack use for sparse relations
// before any succinct packing. It exists to prove the search kernels only
// ever depend on the Graph interface, never on PackedGraph concretely, and
// is a reasonable choice for small or frequently-mutated corpora where
// PackedGraph's upfront CSR construction cost isn't worth paying.
type CompressedGraph struct {
	numKeys   int
	numNgrams int
	numEdges  int
	forward   map[ids.KeyID][]WeightedEdge
	reverse   map[ids.NgramID][]WeightedEdge
}

// NewCompressedGraph builds a CompressedGraph from an edge list.
func NewCompressedGraph(numKeys, numNgrams int, edges []Edge) *CompressedGraph {
	g := &CompressedGraph{
		numKeys:   numKeys,
		numNgrams: numNgrams,
		numEdges:  len(edges),
		forward:   make(map[ids.KeyID][]WeightedEdge, numKeys),
		reverse:   make(map[ids.NgramID][]WeightedEdge, numNgrams),
	}
	for _, e := range edges {
		g.forward[e.Key] = append(g.forward[e.Key], WeightedEdge{Gram: e.Gram, Key: e.Key, Weight: e.Weight})
		g.reverse[e.Gram] = append(g.reverse[e.Gram], WeightedEdge{Gram: e.Gram, Key: e.Key, Weight: e.Weight})
	}
	for k := range g.forward {
		sort.Slice(g.forward[k], func(i, j int) bool { return g.forward[k][i].Gram < g.forward[k][j].Gram })
	}
	for n := range g.reverse {
		sort.Slice(g.reverse[n], func(i, j int) bool { return g.reverse[n][i].Key < g.reverse[n][j].Key })
	}
	return g
}

// NumKeys returns the number of key-side nodes.
func (g *CompressedGraph) NumKeys() int { return g.numKeys }

// NumNgrams returns the number of gram-side nodes.
func (g *CompressedGraph) NumNgrams() int { return g.numNgrams }

// NumEdges returns the total number of (key, gram) edges.
func (g *CompressedGraph) NumEdges() int { return g.numEdges }

// DegreeKey returns the number of distinct grams attached to key.
func (g *CompressedGraph) DegreeKey(key ids.KeyID) int { return len(g.forward[key]) }

// DegreeGram returns the number of distinct keys attached to gram.
func (g *CompressedGraph) DegreeGram(gram ids.NgramID) int { return len(g.reverse[gram]) }

// GramsOf ranges over every (gram, weight) edge of key, in gram-id order.
func (g *CompressedGraph) GramsOf(key ids.KeyID) iter.Seq[WeightedEdge] {
	return func(yield func(WeightedEdge) bool) {
		for _, e := range g.forward[key] {
			if !yield(e) {
				return
			}
		}
	}
}

// KeysOf ranges over every (key, weight) edge of gram, in key-id order.
func (g *CompressedGraph) KeysOf(gram ids.NgramID) iter.Seq[WeightedEdge] {
	return func(yield func(WeightedEdge) bool) {
		for _, e := range g.reverse[gram] {
			if !yield(e) {
				return
			}
		}
	}
}

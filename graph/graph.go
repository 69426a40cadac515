// Package graph stores the weighted bipartite relation between keys and
// their grams: an edge (key, gram) carries the number of times that gram
// occurs in that key's normalized form. Two representations are provided
// behind a shared interface — PackedGraph (CSR-style offsets plus a
// varint weight stream) and CompressedGraph (an adjacency-map alternative)
// — to keep the search kernels decoupled from any one storage choice.
package graph

import (
	"iter"

	"github.com/fuzzgram/fuzzgram/ids"
)

// WeightedEdge is one (ngram-or-key, weight) pair as seen from the other
// side of the bipartite relation.
type WeightedEdge struct {
	Gram   ids.NgramID
	Key    ids.KeyID
	Weight int
}

// Graph is the weighted bipartite relation between keys and grams,
// queryable from either side.
type Graph interface {
	// NumKeys returns the number of key-side nodes.
	NumKeys() int
	// NumNgrams returns the number of gram-side nodes.
	NumNgrams() int
	// NumEdges returns the total number of (key, gram) edges.
	NumEdges() int
	// DegreeKey returns the number of distinct grams attached to key.
	DegreeKey(key ids.KeyID) int
	// DegreeGram returns the number of distinct keys attached to gram
	// (the gram's posting-list length / document frequency).
	DegreeGram(gram ids.NgramID) int
	// GramsOf ranges over every (gram, weight) edge of key.
	GramsOf(key ids.KeyID) iter.Seq[WeightedEdge]
	// KeysOf ranges over every (key, weight) edge of gram — the gram's
	// posting list.
	KeysOf(gram ids.NgramID) iter.Seq[WeightedEdge]
}

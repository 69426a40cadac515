package graph

import (
	"encoding/binary"
	"iter"

	"github.com/fuzzgram/fuzzgram/ids"
	"github.com/fuzzgram/fuzzgram/succinct"
)

// PackedGraph is a CSR-style (compressed sparse row) representation of the
// bipartite relation, stored once per direction (key->gram and
// gram->key) so both GramsOf and KeysOf are O(degree) without a reverse
// scan. Offsets are monotone non-decreasing by construction (they are
// prefix sums over a degree histogram), which is exactly the sequence
// shape succinct.EliasFano wants; destinations are bit-packed to
// ceil(log2(M)) / ceil(log2(K)) bits instead of a full uint32 each. Edge
// weights are varint-encoded in a single byte stream per direction, since
// most weights are small (1 or 2) and a fixed-width field would waste
// space there too.
type PackedGraph struct {
	numKeys   int
	numNgrams int
	numEdges  int

	forwardOffsets      *succinct.EliasFano // len numKeys+1
	forwardDestinations *succinct.BitPackedVector
	forwardWeights      []byte
	forwardWeightOffset *succinct.EliasFano // len numKeys+1, byte offset into forwardWeights

	reverseOffsets      *succinct.EliasFano // len numNgrams+1
	reverseDestinations *succinct.BitPackedVector
	reverseWeights      []byte
	reverseWeightOffset *succinct.EliasFano // len numNgrams+1
}

// NumKeys returns the number of key-side nodes.
func (g *PackedGraph) NumKeys() int { return g.numKeys }

// NumNgrams returns the number of gram-side nodes.
func (g *PackedGraph) NumNgrams() int { return g.numNgrams }

// NumEdges returns the total number of (key, gram) edges.
func (g *PackedGraph) NumEdges() int { return g.numEdges }

// DegreeKey returns the number of distinct grams attached to key.
func (g *PackedGraph) DegreeKey(key ids.KeyID) int {
	return int(g.forwardOffsets.Get(int(key)+1) - g.forwardOffsets.Get(int(key)))
}

// DegreeGram returns the number of distinct keys attached to gram.
func (g *PackedGraph) DegreeGram(gram ids.NgramID) int {
	return int(g.reverseOffsets.Get(int(gram)+1) - g.reverseOffsets.Get(int(gram)))
}

// GramsOf ranges over every (gram, weight) edge of key, in gram-id order.
func (g *PackedGraph) GramsOf(key ids.KeyID) iter.Seq[WeightedEdge] {
	return func(yield func(WeightedEdge) bool) {
		start, end := g.forwardOffsets.Get(int(key)), g.forwardOffsets.Get(int(key)+1)
		wpos := g.forwardWeightOffset.Get(int(key))
		for i := start; i < end; i++ {
			w, n := binary.Uvarint(g.forwardWeights[wpos:])
			wpos += uint64(n)
			gram := ids.NgramID(g.forwardDestinations.Get(int(i)))
			e := WeightedEdge{Gram: gram, Key: key, Weight: int(w)}
			if !yield(e) {
				return
			}
		}
	}
}

// KeysOf ranges over every (key, weight) edge of gram, in key-id order —
// the gram's posting list.
func (g *PackedGraph) KeysOf(gram ids.NgramID) iter.Seq[WeightedEdge] {
	return func(yield func(WeightedEdge) bool) {
		start, end := g.reverseOffsets.Get(int(gram)), g.reverseOffsets.Get(int(gram)+1)
		wpos := g.reverseWeightOffset.Get(int(gram))
		for i := start; i < end; i++ {
			w, n := binary.Uvarint(g.reverseWeights[wpos:])
			wpos += uint64(n)
			key := ids.KeyID(g.reverseDestinations.Get(int(i)))
			e := WeightedEdge{Key: key, Gram: gram, Weight: int(w)}
			if !yield(e) {
				return
			}
		}
	}
}

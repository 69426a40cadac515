package graph

import (
	"encoding/binary"
	"sync"

	"github.com/fuzzgram/fuzzgram/ids"
	"github.com/fuzzgram/fuzzgram/succinct"
)

// Edge is an input (key, gram, weight) triple fed to a PackedGraphBuilder.
type Edge struct {
	Key    ids.KeyID
	Gram   ids.NgramID
	Weight int
}

// PackedGraphBuilder assembles a PackedGraph from an edge list using the
// standard CSR construction recipe: a per-node degree histogram, an
// exclusive prefix sum over it to get offsets, then a scatter pass that
// writes each edge into its node's reserved slot. The histogram, prefix sum
// and scatter run on the calling goroutine; only the weight-encoding pass is
// split across goroutines, each encoding the rows of its own disjoint node
// range, so BuildParallel needs no locking beyond the join barrier.
type PackedGraphBuilder struct {
	numKeys   int
	numNgrams int
	edges     []Edge
}

// NewPackedGraphBuilder prepares a builder for a bipartite graph with the
// given number of key-side and gram-side nodes.
func NewPackedGraphBuilder(numKeys, numNgrams int) *PackedGraphBuilder {
	return &PackedGraphBuilder{numKeys: numKeys, numNgrams: numNgrams}
}

// Add records one (key, gram, weight) edge. Weight must be >= 1.
func (b *PackedGraphBuilder) Add(key ids.KeyID, gram ids.NgramID, weight int) {
	b.edges = append(b.edges, Edge{Key: key, Gram: gram, Weight: weight})
}

// AddEdges records a batch of edges at once, without a per-edge method
// call.
func (b *PackedGraphBuilder) AddEdges(edges []Edge) {
	b.edges = append(b.edges, edges...)
}

// Build assembles the PackedGraph sequentially: one pass to histogram
// degrees, a prefix sum, and one scatter pass per direction.
func (b *PackedGraphBuilder) Build() *PackedGraph {
	return b.build(1)
}

// BuildParallel assembles the PackedGraph using up to workers goroutines
// for the weight-encoding pass; the histogram, prefix-sum and scatter
// passes stay sequential. The result is bit-identical to
// Build on the same edge list: both directions are sorted by destination
// id within each source node before the weight stream is encoded, so
// iteration order never depends on goroutine scheduling.
func (b *PackedGraphBuilder) BuildParallel(workers int) *PackedGraph {
	if workers < 1 {
		workers = 1
	}
	return b.build(workers)
}

func (b *PackedGraphBuilder) build(workers int) *PackedGraph {
	g := &PackedGraph{numKeys: b.numKeys, numNgrams: b.numNgrams, numEdges: len(b.edges)}

	forwardDeg := make([]uint32, b.numKeys+1)
	reverseDeg := make([]uint32, b.numNgrams+1)
	for _, e := range b.edges {
		forwardDeg[e.Key+1]++
		reverseDeg[e.Gram+1]++
	}
	for i := 1; i <= b.numKeys; i++ {
		forwardDeg[i] += forwardDeg[i-1]
	}
	for i := 1; i <= b.numNgrams; i++ {
		reverseDeg[i] += reverseDeg[i-1]
	}
	g.forwardOffsets = eliasFanoOffsets(forwardDeg)
	g.reverseOffsets = eliasFanoOffsets(reverseDeg)

	forwardDest := make([]ids.NgramID, len(b.edges))
	forwardW := make([]int, len(b.edges))
	reverseDest := make([]ids.KeyID, len(b.edges))
	reverseW := make([]int, len(b.edges))

	fwdCursor := append([]uint32(nil), forwardDeg[:b.numKeys]...)
	revCursor := append([]uint32(nil), reverseDeg[:b.numNgrams]...)

	for _, e := range b.edges {
		fp := fwdCursor[e.Key]
		forwardDest[fp] = e.Gram
		forwardW[fp] = e.Weight
		fwdCursor[e.Key]++

		rp := revCursor[e.Gram]
		reverseDest[rp] = e.Key
		reverseW[rp] = e.Weight
		revCursor[e.Gram]++
	}

	sortRowsByDest(forwardDeg, forwardDest, forwardW, func(a, b ids.NgramID) bool { return a < b })
	sortRowsByDest(reverseDeg, reverseDest, reverseW, func(a, b ids.KeyID) bool { return a < b })

	g.forwardDestinations = packDestinations(forwardDest, b.numNgrams)
	g.reverseDestinations = packDestinations(reverseDest, b.numKeys)

	var fwdWeightOffsets, revWeightOffsets []uint32
	_, g.forwardWeights, fwdWeightOffsets = encodeWeights(forwardDeg, forwardDest, forwardW, workers)
	_, g.reverseWeights, revWeightOffsets = encodeWeights(reverseDeg, reverseDest, reverseW, workers)
	g.forwardWeightOffset = eliasFanoOffsets(fwdWeightOffsets)
	g.reverseWeightOffset = eliasFanoOffsets(revWeightOffsets)

	return g
}

// eliasFanoOffsets wraps a monotone non-decreasing prefix-sum array (a CSR
// offset table or a byte-offset table into a weight stream) into an
// Elias-Fano sequence, giving random access (Get goes through Select1 on
// the high bits: a checkpoint binary search plus an in-block scan) at close
// to the information-theoretic minimum space for a sequence this skewed.
func eliasFanoOffsets(prefixSums []uint32) *succinct.EliasFano {
	var universe uint64
	if len(prefixSums) > 0 {
		universe = uint64(prefixSums[len(prefixSums)-1])
	}
	b := succinct.NewEliasFanoBuilder(len(prefixSums), universe)
	for _, v := range prefixSums {
		b.Add(uint64(v))
	}
	return b.Build()
}

// packDestinations bit-packs a row of destination ids to the minimum
// width that fits any id in [0, universe), ceil(log2(universe)) bits.
func packDestinations[D ~uint32](values []D, universe int) *succinct.BitPackedVector {
	width := 1
	if universe > 1 {
		width = succinct.BitsForRange(uint64(universe - 1))
	}
	v := succinct.NewBitPackedVector(len(values), width)
	for i, val := range values {
		v.Set(i, uint64(val))
	}
	return v
}

// sortRowsByDest insertion-sorts each node's [start,end) row by destination
// id, keeping the parallel weight slice in lockstep. Rows are short (the
// number of distinct grams in one key, or the document frequency of one
// gram), so insertion sort beats the constant overhead of a general
// sort.Slice call per row.
func sortRowsByDest[D ~uint32](offsets []uint32, dest []D, weight []int, less func(a, b D) bool) {
	for node := 0; node+1 < len(offsets); node++ {
		start, end := offsets[node], offsets[node+1]
		for i := start + 1; i < end; i++ {
			dv, wv := dest[i], weight[i]
			j := i
			for j > start && less(dv, dest[j-1]) {
				dest[j] = dest[j-1]
				weight[j] = weight[j-1]
				j--
			}
			dest[j] = dv
			weight[j] = wv
		}
	}
}

// encodeWeights varint-encodes each node's weight row into a shared byte
// stream, computing a per-node byte offset so random-access GramsOf/KeysOf
// can seek directly to a row without decoding earlier rows. Encoding is
// split across up to workers goroutines on disjoint node ranges, then the
// per-node byte lengths are prefix-summed and the per-worker buffers are
// copied into their final, non-overlapping positions — the same
// histogram/prefix-sum/scatter shape as the offset construction above.
func encodeWeights[D any](offsets []uint32, dest []D, weight []int, workers int) ([]D, []byte, []uint32) {
	nodes := len(offsets) - 1
	lengths := make([]int, nodes)
	encoded := make([][]byte, nodes)

	chunk := (nodes + workers - 1) / workers
	if chunk < 1 {
		chunk = 1
	}
	var wg sync.WaitGroup
	for start := 0; start < nodes; start += chunk {
		end := start + chunk
		if end > nodes {
			end = nodes
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			buf := make([]byte, binary.MaxVarintLen64)
			for node := start; node < end; node++ {
				rowStart, rowEnd := offsets[node], offsets[node+1]
				row := make([]byte, 0, (rowEnd-rowStart)*2)
				for i := rowStart; i < rowEnd; i++ {
					n := binary.PutUvarint(buf, uint64(weight[i]))
					row = append(row, buf[:n]...)
				}
				encoded[node] = row
				lengths[node] = len(row)
			}
		}(start, end)
	}
	wg.Wait()

	byteOffsets := make([]uint32, nodes+1)
	for i := 0; i < nodes; i++ {
		byteOffsets[i+1] = byteOffsets[i] + uint32(lengths[i])
	}
	stream := make([]byte, byteOffsets[nodes])
	for i := 0; i < nodes; i++ {
		copy(stream[byteOffsets[i]:], encoded[i])
	}
	return dest, stream, byteOffsets
}

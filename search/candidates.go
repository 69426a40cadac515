package search

import (
	"github.com/fuzzgram/fuzzgram/graph"
	"github.com/fuzzgram/fuzzgram/ids"
	"github.com/fuzzgram/fuzzgram/ngram"
)

// candidate accumulates the weighted intersection I = sum_g min(w(k,g),
// q_g) between a key's grams and the query's grams, one matched gram at a
// time.
type candidate struct {
	intersection int
}

// resolveQueryGrams resolves a query's weighted grams against the corpus
// dictionary, dropping any gram the corpus has never seen (it can
// contribute no candidates) and skipping grams whose posting list exceeds
// the configured degree cutoff.
type resolvedGram struct {
	id     ids.NgramID
	weight int
}

func resolveQueryGrams[G ngram.Element](
	weighted []ngram.WeightedGram[G],
	lookup func(ngram.Gram[G]) (ids.NgramID, bool),
	g graph.Graph,
	maxDegree int,
) []resolvedGram {
	out := make([]resolvedGram, 0, len(weighted))
	for _, wg := range weighted {
		id, ok := lookup(wg.Gram)
		if !ok {
			continue
		}
		if maxDegree >= 0 && g.DegreeGram(id) > maxDegree {
			continue
		}
		out = append(out, resolvedGram{id: id, weight: wg.Count})
	}
	return out
}

// enumerateCandidates walks the posting list of every resolved query gram
// and accumulates, per matched key, the weighted multiset intersection
// I = sum_g min(w(k,g), q_g). Posting lists are walked one after another
// and matches are summed in a map keyed by key id; there is no heap-based
// k-way merge, and the map's iteration order is arbitrary. Instead of
// comparing the query against every key, it only ever visits (key, gram)
// pairs that are actually edges in the bipartite graph.
func enumerateCandidates(g graph.Graph, grams []resolvedGram) map[ids.KeyID]*candidate {
	candidates := make(map[ids.KeyID]*candidate)
	for _, rg := range grams {
		for edge := range g.KeysOf(rg.id) {
			c, ok := candidates[edge.Key]
			if !ok {
				c = &candidate{}
				candidates[edge.Key] = c
			}
			c.intersection += min(edge.Weight, rg.weight)
		}
	}
	return candidates
}

// keyTotalWeight returns |k|_g = sum_g w(k,g), the key's total gram
// occurrence count, as opposed to DegreeKey's count of distinct grams.
func keyTotalWeight(g graph.Graph, key ids.KeyID) int {
	total := 0
	for edge := range g.GramsOf(key) {
		total += edge.Weight
	}
	return total
}

// queryTotalWeight returns |q|_g = sum_g q_g over every gram the query
// produced, including grams the corpus has never seen — unlike the
// resolved gram list, which drops those, the query's own length doesn't
// depend on what the corpus happens to contain.
func queryTotalWeight[G ngram.Element](weighted []ngram.WeightedGram[G]) int {
	total := 0
	for _, wg := range weighted {
		total += wg.Count
	}
	return total
}

// totalGraphWeight sums |k|_g over every key in the graph, the numerator
// of the BM25 average key length.
func totalGraphWeight(g graph.Graph) int {
	total := 0
	for key := ids.KeyID(0); key < ids.KeyID(g.NumKeys()); key++ {
		total += keyTotalWeight(g, key)
	}
	return total
}

// resolvedWeightSum sums q_g over a query's resolved grams, used when the
// query itself stands in as the "document" being scored (BM25 self-score).
func resolvedWeightSum(resolved []resolvedGram) int {
	total := 0
	for _, rg := range resolved {
		total += rg.weight
	}
	return total
}

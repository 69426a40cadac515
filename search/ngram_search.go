package search

import (
	"runtime"
	"sync"

	"github.com/fuzzgram/fuzzgram/corpus"
	"github.com/fuzzgram/fuzzgram/ids"
	"github.com/fuzzgram/fuzzgram/ngram"
)

// NgramSearch ranks every key of c by warped Jaccard-style similarity to
// query and returns up to cfg.MaximumResults() matches scoring at least
// cfg.MinimumSimilarity(), highest score first. An empty query or an empty
// corpus is not an error: both simply produce zero results.
func NgramSearch[G ngram.Element](c *corpus.Corpus[G], extractor ngram.Extractor[G], query string, cfg NgramSearchConfig) []Result {
	weighted := extractor.Grams(query)
	if len(weighted) == 0 || c.NumKeys() == 0 {
		return nil
	}
	return ngramSearchCore(c, weighted, cfg)
}

func ngramSearchCore[G ngram.Element](c *corpus.Corpus[G], weighted []ngram.WeightedGram[G], cfg NgramSearchConfig) []Result {
	g := c.Graph()
	maxDegree := cfg.MaxNgramDegree().resolve(c.NumKeys())
	resolved := resolveQueryGrams(weighted, c.Dictionary().Lookup, g, maxDegree)
	if len(resolved) == 0 {
		return nil
	}

	queryNgrams := queryTotalWeight(weighted)
	candidates := enumerateCandidates(g, resolved)

	h := newTopKHeap(cfg.MaximumResults())
	for key, c := range candidates {
		keyNgrams := keyTotalWeight(g, key)
		sim := warpedSimilarity(c.intersection, unionOf(queryNgrams, keyNgrams, c.intersection), cfg.Warp())
		if sim >= cfg.MinimumSimilarity() {
			h.offer(Result{Key: key, Score: sim})
		}
	}
	return h.sorted()
}

// unionOf computes the multiset union cardinality |q|_g + |k|_g - I: for
// every gram, max(q_g, w(k,g)) equals q_g + w(k,g) - min(q_g, w(k,g)), so
// summing over grams gives the union from the two multiset lengths and
// their intersection without walking the grams a second time.
func unionOf(queryNgrams, keyNgrams, shared int) int {
	union := queryNgrams + keyNgrams - shared
	if union < 1 {
		union = 1
	}
	return union
}

// NgramSearchParallel behaves exactly like NgramSearch, but shards the
// candidate posting-list walk across workers goroutines (by gram, not by
// key) and merges partial candidate maps before scoring. Results are
// identical to NgramSearch's for the same inputs; only the computation is
// parallelized.
func NgramSearchParallel[G ngram.Element](c *corpus.Corpus[G], extractor ngram.Extractor[G], query string, cfg NgramSearchConfig, workers int) []Result {
	weighted := extractor.Grams(query)
	if len(weighted) == 0 || c.NumKeys() == 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g := c.Graph()
	maxDegree := cfg.MaxNgramDegree().resolve(c.NumKeys())
	resolved := resolveQueryGrams(weighted, c.Dictionary().Lookup, g, maxDegree)
	if len(resolved) == 0 {
		return nil
	}
	if workers > len(resolved) {
		workers = len(resolved)
	}
	if workers < 1 {
		workers = 1
	}

	partials := make([]map[ids.KeyID]*candidate, workers)
	chunk := (len(resolved) + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > len(resolved) {
			end = len(resolved)
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			partials[w] = enumerateCandidates(g, resolved[start:end])
		}(w, start, end)
	}
	wg.Wait()

	merged := make(map[ids.KeyID]*candidate)
	for _, p := range partials {
		for key, c := range p {
			m, ok := merged[key]
			if !ok {
				m = &candidate{}
				merged[key] = m
			}
			m.intersection += c.intersection
		}
	}

	queryNgrams := queryTotalWeight(weighted)
	h := newTopKHeap(cfg.MaximumResults())
	for key, c := range merged {
		keyNgrams := keyTotalWeight(g, key)
		sim := warpedSimilarity(c.intersection, unionOf(queryNgrams, keyNgrams, c.intersection), cfg.Warp())
		if sim >= cfg.MinimumSimilarity() {
			h.offer(Result{Key: key, Score: sim})
		}
	}
	return h.sorted()
}

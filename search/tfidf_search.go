package search

import (
	"math"
	"runtime"
	"sync"

	"github.com/fuzzgram/fuzzgram/corpus"
	"github.com/fuzzgram/fuzzgram/graph"
	"github.com/fuzzgram/fuzzgram/ids"
	"github.com/fuzzgram/fuzzgram/ngram"
)

// termFrequency is the Okapi BM25 saturating term frequency: raw term
// frequency normalized by document length relative to the average,
// controlled by k1 (saturation speed) and b (length-normalization
// strength).
func termFrequency(rawFreq, docLength, avgDocLength, k1, b float64) float64 {
	norm := (1 - b) + b*(docLength/avgDocLength)
	return (rawFreq * (k1 + 1)) / (rawFreq + k1*norm)
}

// inverseDocumentFrequency is the BM25 IDF term: ln((N-df+0.5)/(df+0.5)+1),
// which stays positive (unlike the classic ln(N/df) form) even when a
// term appears in more than half the corpus.
func inverseDocumentFrequency(numKeys, documentFrequency int) float64 {
	n := float64(numKeys)
	df := float64(documentFrequency)
	return math.Log((n-df+0.5)/(df+0.5) + 1)
}

// keyGramWeights returns the gram -> raw occurrence count map for one key,
// so tfidfScore can look up each query gram's weight in O(1) instead of
// re-walking the key's row once per query gram, along with |k|_g, the sum
// of every edge weight in that row (the key's BM25 document length).
func keyGramWeights(g graph.Graph, key ids.KeyID) (map[ids.NgramID]int, int) {
	weights := make(map[ids.NgramID]int, g.DegreeKey(key))
	total := 0
	for edge := range g.GramsOf(key) {
		weights[edge.Gram] = edge.Weight
		total += edge.Weight
	}
	return weights, total
}

// tfidfScore combines term frequency and inverse document frequency over
// every gram the query and key share, weighting each gram's contribution
// by the query's multiplicity for it: score(k,q) = sum_g q_g * bm25(k,g).
func tfidfScore(
	numKeys int,
	g graph.Graph,
	resolved []resolvedGram,
	key ids.KeyID,
	avgDocLength float64,
	cfg TFIDFSearchConfig,
) float64 {
	weights, docLength := keyGramWeights(g, key)
	dl := float64(docLength)
	var score float64
	for _, rg := range resolved {
		raw, ok := weights[rg.id]
		if !ok {
			continue
		}
		df := g.DegreeGram(rg.id)
		tf := termFrequency(float64(raw), dl, avgDocLength, cfg.K1(), cfg.B())
		idf := inverseDocumentFrequency(numKeys, df)
		score += float64(rg.weight) * tf * idf
	}
	return score
}

// querySelfBM25 scores the query's own resolved grams as if the query
// were itself a key, using the query's weights q_g as both the "document"
// term frequencies and the score's q_g multiplier. Dividing a candidate's
// tfidfScore by this self-score maps BM25's otherwise-unbounded scale into
// [0, 1], matching warpedSimilarity's range so MinimumSimilarity() means
// the same thing across every search kernel.
func querySelfBM25(numKeys int, g graph.Graph, resolved []resolvedGram, avgDocLength float64, cfg TFIDFSearchConfig) float64 {
	dl := float64(resolvedWeightSum(resolved))
	var score float64
	for _, rg := range resolved {
		df := g.DegreeGram(rg.id)
		tf := termFrequency(float64(rg.weight), dl, avgDocLength, cfg.K1(), cfg.B())
		idf := inverseDocumentFrequency(numKeys, df)
		score += float64(rg.weight) * tf * idf
	}
	return score
}

// averageKeyLength is the BM25 avgdl term: the mean of |k|_g (sum of edge
// weights) across every key in the graph, not the mean of DegreeKey.
func averageKeyLength(g graph.Graph) float64 {
	if g.NumKeys() == 0 {
		return 1
	}
	return float64(totalGraphWeight(g)) / float64(g.NumKeys())
}

// TfidfSearch ranks every key of c by Okapi BM25 score against query's
// grams, normalized into [0, 1] by dividing each candidate's score by the
// query's own BM25 self-score, and returns up to cfg.MaximumResults()
// matches scoring at least cfg.MinimumSimilarity(), highest score first.
func TfidfSearch[G ngram.Element](c *corpus.Corpus[G], extractor ngram.Extractor[G], query string, cfg TFIDFSearchConfig) []Result {
	weighted := extractor.Grams(query)
	if len(weighted) == 0 || c.NumKeys() == 0 {
		return nil
	}
	g := c.Graph()
	maxDegree := cfg.MaxNgramDegree().resolve(c.NumKeys())
	resolved := resolveQueryGrams(weighted, c.Dictionary().Lookup, g, maxDegree)
	if len(resolved) == 0 {
		return nil
	}
	avg := averageKeyLength(g)
	self := querySelfBM25(c.NumKeys(), g, resolved, avg, cfg)
	if self <= 0 {
		return nil
	}
	candidates := enumerateCandidates(g, resolved)

	h := newTopKHeap(cfg.MaximumResults())
	for key := range candidates {
		normalized := tfidfScore(c.NumKeys(), g, resolved, key, avg, cfg) / self
		if normalized >= cfg.MinimumSimilarity() {
			h.offer(Result{Key: key, Score: normalized})
		}
	}
	return h.sorted()
}

// WarpedTfidfSearch computes the same normalized BM25 scores as
// TfidfSearch, then multiplies each one by the warped Jaccard similarity of
// the query's and the key's grams (intersection over union, as in
// NgramSearch) — combining TF-IDF's term weighting with the warp's boost
// for keys whose grams largely overlap the query's.
func WarpedTfidfSearch[G ngram.Element](c *corpus.Corpus[G], extractor ngram.Extractor[G], query string, cfg TFIDFSearchConfig) []Result {
	weighted := extractor.Grams(query)
	if len(weighted) == 0 || c.NumKeys() == 0 {
		return nil
	}
	g := c.Graph()
	maxDegree := cfg.MaxNgramDegree().resolve(c.NumKeys())
	resolved := resolveQueryGrams(weighted, c.Dictionary().Lookup, g, maxDegree)
	if len(resolved) == 0 {
		return nil
	}
	avg := averageKeyLength(g)
	self := querySelfBM25(c.NumKeys(), g, resolved, avg, cfg)
	if self <= 0 {
		return nil
	}
	candidates := enumerateCandidates(g, resolved)
	queryNgrams := queryTotalWeight(weighted)

	h := newTopKHeap(cfg.MaximumResults())
	for key, cand := range candidates {
		bm25 := tfidfScore(c.NumKeys(), g, resolved, key, avg, cfg) / self
		keyNgrams := keyTotalWeight(g, key)
		warp := warpedSimilarity(cand.intersection, unionOf(queryNgrams, keyNgrams, cand.intersection), cfg.Warp())
		score := bm25 * warp
		if score >= cfg.MinimumSimilarity() {
			h.offer(Result{Key: key, Score: score})
		}
	}
	return h.sorted()
}

// TfidfSearchParallel behaves exactly like TfidfSearch, but scores
// candidates across workers goroutines once the (sequential) candidate
// enumeration step completes — scoring, unlike posting-list walking, is
// read-only per key and trivially parallel.
func TfidfSearchParallel[G ngram.Element](c *corpus.Corpus[G], extractor ngram.Extractor[G], query string, cfg TFIDFSearchConfig, workers int) []Result {
	weighted := extractor.Grams(query)
	if len(weighted) == 0 || c.NumKeys() == 0 {
		return nil
	}
	g := c.Graph()
	maxDegree := cfg.MaxNgramDegree().resolve(c.NumKeys())
	resolved := resolveQueryGrams(weighted, c.Dictionary().Lookup, g, maxDegree)
	if len(resolved) == 0 {
		return nil
	}
	avg := averageKeyLength(g)
	self := querySelfBM25(c.NumKeys(), g, resolved, avg, cfg)
	if self <= 0 {
		return nil
	}
	candidates := enumerateCandidates(g, resolved)

	keys := make([]ids.KeyID, 0, len(candidates))
	for key := range candidates {
		keys = append(keys, key)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(keys) {
		workers = len(keys)
	}
	if workers < 1 {
		workers = 1
	}

	scores := make([]float64, len(keys))
	chunk := (len(keys) + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > len(keys) {
			end = len(keys)
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				scores[i] = tfidfScore(c.NumKeys(), g, resolved, keys[i], avg, cfg) / self
			}
		}(start, end)
	}
	wg.Wait()

	h := newTopKHeap(cfg.MaximumResults())
	for i, key := range keys {
		if scores[i] >= cfg.MinimumSimilarity() {
			h.offer(Result{Key: key, Score: scores[i]})
		}
	}
	return h.sorted()
}

// WarpedTfidfSearchParallel is the parallel counterpart of
// WarpedTfidfSearch, scoring candidates concurrently the same way
// TfidfSearchParallel does.
func WarpedTfidfSearchParallel[G ngram.Element](c *corpus.Corpus[G], extractor ngram.Extractor[G], query string, cfg TFIDFSearchConfig, workers int) []Result {
	weighted := extractor.Grams(query)
	if len(weighted) == 0 || c.NumKeys() == 0 {
		return nil
	}
	g := c.Graph()
	maxDegree := cfg.MaxNgramDegree().resolve(c.NumKeys())
	resolved := resolveQueryGrams(weighted, c.Dictionary().Lookup, g, maxDegree)
	if len(resolved) == 0 {
		return nil
	}
	avg := averageKeyLength(g)
	self := querySelfBM25(c.NumKeys(), g, resolved, avg, cfg)
	if self <= 0 {
		return nil
	}
	candidates := enumerateCandidates(g, resolved)
	queryNgrams := queryTotalWeight(weighted)

	keys := make([]ids.KeyID, 0, len(candidates))
	for key := range candidates {
		keys = append(keys, key)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(keys) {
		workers = len(keys)
	}
	if workers < 1 {
		workers = 1
	}

	scores := make([]float64, len(keys))
	chunk := (len(keys) + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > len(keys) {
			end = len(keys)
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				key := keys[i]
				cand := candidates[key]
				bm25 := tfidfScore(c.NumKeys(), g, resolved, key, avg, cfg) / self
				keyNgrams := keyTotalWeight(g, key)
				warp := warpedSimilarity(cand.intersection, unionOf(queryNgrams, keyNgrams, cand.intersection), cfg.Warp())
				scores[i] = bm25 * warp
			}
		}(start, end)
	}
	wg.Wait()

	h := newTopKHeap(cfg.MaximumResults())
	for i, key := range keys {
		if scores[i] >= cfg.MinimumSimilarity() {
			h.offer(Result{Key: key, Score: scores[i]})
		}
	}
	return h.sorted()
}

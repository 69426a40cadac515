// Package corpus builds and holds the immutable index of a key set: the
// keys themselves, their distinct grams, and the weighted bipartite graph
// between them. A Corpus is the unit the search package queries against.
package corpus

import (
	"github.com/fuzzgram/fuzzgram/dictionary"
	"github.com/fuzzgram/fuzzgram/graph"
	"github.com/fuzzgram/fuzzgram/ids"
	"github.com/fuzzgram/fuzzgram/keys"
	"github.com/fuzzgram/fuzzgram/ngram"
)

// Corpus is the immutable result of indexing a key set under one
// Extractor. Once built, a Corpus never changes: every search kernel only
// reads from it, which is what lets concurrent queries run against one
// Corpus without synchronization.
type Corpus[G ngram.Element] struct {
	keys       keys.Keys
	dictionary dictionary.Dictionary[G]
	graph      graph.Graph
	arity      int
}

// Keys returns the corpus's key store.
func (c *Corpus[G]) Keys() keys.Keys { return c.keys }

// Dictionary returns the corpus's gram dictionary.
func (c *Corpus[G]) Dictionary() dictionary.Dictionary[G] { return c.dictionary }

// Graph returns the corpus's key/gram bipartite graph.
func (c *Corpus[G]) Graph() graph.Graph { return c.graph }

// Arity returns the gram length used to build this corpus.
func (c *Corpus[G]) Arity() int { return c.arity }

// NumKeys returns the number of indexed keys.
func (c *Corpus[G]) NumKeys() int { return c.keys.Len() }

// BuildConfig configures how a set of keys is turned into a Corpus.
type BuildConfig[G ngram.Element] struct {
	// Extractor produces the weighted grams for each key.
	Extractor ngram.Extractor[G]
	// BitWidth is the per-element packed width used when choosing between
	// PackedDictionary and SortedDictionary. Zero means "ask the element
	// type", via ngram.BitWidth[G]().
	BitWidth int
	// Unpack reconstructs a Gram[G] from a packed uint64 code, required
	// only when the packed dictionary path is reachable (arity*BitWidth
	// <= 64). Leave nil to force SortedDictionary.
	Unpack func(code uint64, arity, bitWidth int) ngram.Gram[G]
	// UseTrieKeys selects the patricia-trie-backed keys.Keys backend
	// instead of the default plainkeys backend, trading flat-array
	// simplicity for prefix lookups over the raw key set.
	UseTrieKeys bool
	// Workers bounds the number of goroutines BuildParallel uses. Zero
	// means runtime.GOMAXPROCS(0).
	Workers int
}

func (cfg BuildConfig[G]) validate() error {
	if cfg.Extractor.Arity < 1 {
		return ErrInvalidConfig
	}
	if cfg.Workers < 0 {
		return ErrInvalidConfig
	}
	return nil
}

func (cfg BuildConfig[G]) bitWidth() int {
	if cfg.BitWidth > 0 {
		return cfg.BitWidth
	}
	return ngram.BitWidth[G]()
}

// CorpusReport summarizes a built corpus's shape, grounded on the
// teacher's map-based Stats() convention but returning a typed struct
// instead of map[string]int so callers don't need key-name string
// literals.
type CorpusReport struct {
	NumKeys          int
	NumNgrams        int
	NumEdges         int
	AverageKeyLength float64
	MaxDegreeKey     ids.KeyID
	MaxDegreeNgram   ids.NgramID
}

// Report computes summary statistics over the built corpus.
func (c *Corpus[G]) Report() CorpusReport {
	r := CorpusReport{
		NumKeys:   c.graph.NumKeys(),
		NumNgrams: c.graph.NumNgrams(),
		NumEdges:  c.graph.NumEdges(),
	}
	var totalLen int
	maxDeg := -1
	for id, key := range c.keys.Iter() {
		totalLen += len([]rune(key))
		if d := c.graph.DegreeKey(id); d > maxDeg {
			maxDeg = d
			r.MaxDegreeKey = id
		}
	}
	if c.keys.Len() > 0 {
		r.AverageKeyLength = float64(totalLen) / float64(c.keys.Len())
	}
	maxGDeg := -1
	for n := 0; n < c.dictionary.Len(); n++ {
		if d := c.graph.DegreeGram(ids.NgramID(n)); d > maxGDeg {
			maxGDeg = d
			r.MaxDegreeNgram = ids.NgramID(n)
		}
	}
	return r
}

// Package dictionary stores the distinct grams of a corpus, each addressed
// by a dense ids.NgramID assigned in sorted gram order, and supports
// looking a gram back up to its id.
package dictionary

import (
	"sort"

	"github.com/fuzzgram/fuzzgram/ids"
	"github.com/fuzzgram/fuzzgram/ngram"
)

// Dictionary maps between grams and their dense, sort-order ids.
type Dictionary[G ngram.Element] interface {
	// Len returns the number of distinct grams.
	Len() int
	// Lookup returns the id assigned to gram, if present.
	Lookup(gram ngram.Gram[G]) (ids.NgramID, bool)
	// Gram returns the gram stored at id. Panics if id is out of range.
	Gram(id ids.NgramID) ngram.Gram[G]
}

// SortedDictionary is the fallback Dictionary implementation for grams
// that don't fit the Elias-Fano packed path (arity*bitWidth > 64, or an
// element type with no natural fixed-width Code range): a plain sorted
// slice with binary-search Lookup.
type SortedDictionary[G ngram.Element] struct {
	grams []ngram.Gram[G]
}

// NewSortedDictionary builds a SortedDictionary from a set of distinct
// grams (deduplication is the caller's responsibility; the corpus builder
// guarantees it). The input is sorted in place.
func NewSortedDictionary[G ngram.Element](grams []ngram.Gram[G]) *SortedDictionary[G] {
	sort.Slice(grams, func(i, j int) bool { return grams[i].Compare(grams[j]) < 0 })
	return &SortedDictionary[G]{grams: grams}
}

// Len returns the number of distinct grams.
func (d *SortedDictionary[G]) Len() int { return len(d.grams) }

// Lookup binary-searches for gram among the sorted grams.
func (d *SortedDictionary[G]) Lookup(gram ngram.Gram[G]) (ids.NgramID, bool) {
	lo, hi := 0, len(d.grams)
	for lo < hi {
		mid := (lo + hi) / 2
		if d.grams[mid].Compare(gram) < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(d.grams) && d.grams[lo].Equal(gram) {
		return ids.NgramID(lo), true
	}
	return 0, false
}

// Gram returns the gram stored at id.
func (d *SortedDictionary[G]) Gram(id ids.NgramID) ngram.Gram[G] {
	return d.grams[id]
}

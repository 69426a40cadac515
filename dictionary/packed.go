package dictionary

import (
	"sort"

	"github.com/fuzzgram/fuzzgram/ids"
	"github.com/fuzzgram/fuzzgram/ngram"
	"github.com/fuzzgram/fuzzgram/succinct"
)

// PackedDictionary stores grams as an Elias-Fano monotone sequence of
// packed integer codes, used whenever the gram's arity and element width
// fit in a single uint64 (Gram.Pack returns ok). It trades Lookup's O(log
// n) binary search (shared with SortedDictionary) for a much smaller
// memory footprint, since no pointer or slice header is kept per gram.
type PackedDictionary[G ngram.Element] struct {
	codes    *succinct.EliasFano
	arity    int
	bitWidth int
	unpack   func(code uint64, arity, bitWidth int) ngram.Gram[G]
}

// NewPackedDictionary builds a PackedDictionary from distinct grams that
// all share the same arity and pack cleanly at bitWidth bits per element.
// unpack reconstructs a Gram[G] from a packed code; the caller supplies it
// because Element has no general inverse of Code().
func NewPackedDictionary[G ngram.Element](
	grams []ngram.Gram[G],
	bitWidth int,
	unpack func(code uint64, arity, bitWidth int) ngram.Gram[G],
) *PackedDictionary[G] {
	arity := 0
	if len(grams) > 0 {
		arity = len(grams[0])
	}
	codes := make([]uint64, len(grams))
	var maxCode uint64
	for i, g := range grams {
		c, ok := g.Pack(bitWidth)
		if !ok {
			panic("dictionary: gram does not fit packed width")
		}
		codes[i] = c
		if c > maxCode {
			maxCode = c
		}
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	builder := succinct.NewEliasFanoBuilder(len(codes), maxCode)
	for _, c := range codes {
		builder.Add(c)
	}

	return &PackedDictionary[G]{
		codes:    builder.Build(),
		arity:    arity,
		bitWidth: bitWidth,
		unpack:   unpack,
	}
}

// Len returns the number of distinct grams.
func (d *PackedDictionary[G]) Len() int { return d.codes.Len() }

// Lookup returns the id assigned to gram, if present.
func (d *PackedDictionary[G]) Lookup(gram ngram.Gram[G]) (ids.NgramID, bool) {
	code, ok := gram.Pack(d.bitWidth)
	if !ok {
		return 0, false
	}
	idx := d.codes.Rank(code)
	if idx >= d.codes.Len() || d.codes.Get(idx) != code {
		return 0, false
	}
	return ids.NgramID(idx), true
}

// Gram returns the gram stored at id.
func (d *PackedDictionary[G]) Gram(id ids.NgramID) ngram.Gram[G] {
	code := d.codes.Get(int(id))
	return d.unpack(code, d.arity, d.bitWidth)
}

package dictionary

import (
	"github.com/fuzzgram/fuzzgram/ngram"
)

// UnpackChar reconstructs a Gram[ngram.Char] from a packed code.
func UnpackChar(code uint64, arity, bitWidth int) ngram.Gram[ngram.Char] {
	return unpackGeneric(code, arity, bitWidth, func(v uint64) ngram.Char { return ngram.Char(v) })
}

// UnpackByte reconstructs a Gram[ngram.Byte] from a packed code.
func UnpackByte(code uint64, arity, bitWidth int) ngram.Gram[ngram.Byte] {
	return unpackGeneric(code, arity, bitWidth, func(v uint64) ngram.Byte { return ngram.Byte(v) })
}

// UnpackASCIIByte reconstructs a Gram[ngram.ASCIIByte] from a packed code.
func UnpackASCIIByte(code uint64, arity, bitWidth int) ngram.Gram[ngram.ASCIIByte] {
	return unpackGeneric(code, arity, bitWidth, func(v uint64) ngram.ASCIIByte { return ngram.ASCIIByte(v) })
}

func unpackGeneric[G ngram.Element](code uint64, arity, bitWidth int, from func(uint64) G) ngram.Gram[G] {
	g := make(ngram.Gram[G], arity)
	mask := uint64(1)<<uint(bitWidth) - 1
	for i := arity - 1; i >= 0; i-- {
		g[i] = from(code & mask)
		code >>= uint(bitWidth)
	}
	return g
}

// NewDictionary builds the most compact Dictionary that fits the supplied
// grams: PackedDictionary when arity*bitWidth <= 64, SortedDictionary
// otherwise. unpack is only used (and may be nil) in the packed case.
func NewDictionary[G ngram.Element](
	grams []ngram.Gram[G],
	bitWidth int,
	unpack func(code uint64, arity, bitWidth int) ngram.Gram[G],
) Dictionary[G] {
	arity := 0
	if len(grams) > 0 {
		arity = len(grams[0])
	}
	if arity*bitWidth <= 64 && unpack != nil {
		return NewPackedDictionary(grams, bitWidth, unpack)
	}
	return NewSortedDictionary(grams)
}

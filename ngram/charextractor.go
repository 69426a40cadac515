package ngram

// NewCharExtractor builds an Extractor over Unicode scalar values, the
// default element type for text corpora. pad is typically a sentinel such
// as '\x00' or ' ' that never occurs in normalized keys.
func NewCharExtractor(arity int, normalizer Normalizer, pad rune) Extractor[Char] {
	return Extractor[Char]{
		Arity:      arity,
		Normalizer: normalizer,
		ToElement: func(r rune) (Char, bool) {
			return Char(r), true
		},
		Pad: Char(pad),
	}
}

// NewASCIIExtractor builds an Extractor restricted to 7-bit ASCII elements,
// packing each element in 7 bits instead of NewCharExtractor's 21 and
// dropping any rune outside the ASCII range.
func NewASCIIExtractor(arity int, normalizer Normalizer, pad byte) Extractor[ASCIIByte] {
	return Extractor[ASCIIByte]{
		Arity:      arity,
		Normalizer: normalizer,
		ToElement: func(r rune) (ASCIIByte, bool) {
			if r > 0x7F {
				return 0, false
			}
			return ASCIIByte(r), true
		},
		Pad: ASCIIByte(pad),
	}
}

// NewByteExtractor builds an Extractor over raw bytes, for corpora that are
// already byte-oriented (e.g. binary keys decoded one byte at a time) and
// don't need full Unicode scalars.
func NewByteExtractor(arity int, normalizer Normalizer, pad byte) Extractor[Byte] {
	return Extractor[Byte]{
		Arity:      arity,
		Normalizer: normalizer,
		ToElement: func(r rune) (Byte, bool) {
			if r > 0xFF {
				return 0, false
			}
			return Byte(r), true
		},
		Pad: Byte(pad),
	}
}

// Package ids defines the dense integer identifiers shared across the
// fuzzgram packages: every key and every dictionary gram is addressed by one
// of these, never by pointer.
package ids

// KeyID is the dense 0-based identifier of a key within a corpus.
type KeyID uint32

// NgramID is the dense 0-based identifier of a gram within a corpus
// dictionary. The dictionary is sorted by gram order, so NgramID is
// monotone non-decreasing in gram order.
type NgramID uint32

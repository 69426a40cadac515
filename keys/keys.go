// Package keys defines the storage abstraction for the set of original,
// unnormalized strings a corpus indexes, and provides two interchangeable
// implementations: a plain slice-backed store and a patricia-trie-backed
// store inherited from the teacher's completion engine.
package keys

import (
	"iter"

	"github.com/fuzzgram/fuzzgram/ids"
)

// Keys is dense, 0-based, append-only key storage. Every implementation
// must assign ids in the order keys were added (insertion order), and
// GetRef/GetOwned/Iter must agree on that numbering for the lifetime of the
// store.
type Keys interface {
	// Len returns the number of stored keys.
	Len() int
	// GetRef returns the key at id without necessarily copying it; the
	// returned string must not be retained past the next mutation of the
	// store (plainkeys guarantees no such mutation ever happens once
	// built, so in practice it is always safe to retain).
	GetRef(id ids.KeyID) (string, bool)
	// GetOwned returns an independently owned copy of the key at id.
	GetOwned(id ids.KeyID) string
	// Iter ranges over every (id, key) pair in id order.
	Iter() iter.Seq2[ids.KeyID, string]
}

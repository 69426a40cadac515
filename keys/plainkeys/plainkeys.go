// Package plainkeys implements keys.Keys over a plain, append-only string
// slice — the simplest possible backend, preferred when the corpus doesn't
// need prefix queries over the key set itself.
package plainkeys

import (
	"iter"

	"github.com/fuzzgram/fuzzgram/ids"
)

// Keys is a slice-backed keys.Keys implementation.
type Keys struct {
	values []string
}

// NewBuilder returns an empty, growable Keys store.
func NewBuilder() *Keys {
	return &Keys{}
}

// NewFromSlice wraps an existing slice of keys, assigning ids by position.
// The caller must not mutate values afterward.
func NewFromSlice(values []string) *Keys {
	return &Keys{values: values}
}

// Add appends key and returns the id assigned to it.
func (k *Keys) Add(key string) ids.KeyID {
	id := ids.KeyID(len(k.values))
	k.values = append(k.values, key)
	return id
}

// Len returns the number of stored keys.
func (k *Keys) Len() int { return len(k.values) }

// GetRef returns the key at id.
func (k *Keys) GetRef(id ids.KeyID) (string, bool) {
	if int(id) < 0 || int(id) >= len(k.values) {
		return "", false
	}
	return k.values[id], true
}

// GetOwned returns a copy of the key at id (strings are already immutable
// in Go, so this returns the same value as GetRef with the existence check
// dropped).
func (k *Keys) GetOwned(id ids.KeyID) string {
	if int(id) < 0 || int(id) >= len(k.values) {
		return ""
	}
	return k.values[id]
}

// Iter ranges over every (id, key) pair in id order.
func (k *Keys) Iter() iter.Seq2[ids.KeyID, string] {
	return func(yield func(ids.KeyID, string) bool) {
		for i, v := range k.values {
			if !yield(ids.KeyID(i), v) {
				return
			}
		}
	}
}

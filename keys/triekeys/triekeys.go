// Package triekeys implements keys.Keys over a patricia trie, trading
// plainkeys' flat array for exact-key id lookups through the trie (IDOf) at the cost
// of owned-only string views. It reuses the teacher's trie library
// (github.com/tchap/go-patricia/v2/patricia) but repurposes it from
// word-completion scoring to dense key-id assignment.
package triekeys

import (
	"iter"
	"sort"

	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/fuzzgram/fuzzgram/ids"
)

// idBox is the mutable cell stored as each trie item. The trie itself has
// no "update item in place" primitive that this package relies on, so each
// inserted word gets its own box up front; Freeze then walks the trie in
// sorted order and writes the dense id into each box exactly once.
type idBox struct {
	id ids.KeyID
}

// Keys is a patricia-trie-backed keys.Keys implementation.
type Keys struct {
	trie   *patricia.Trie
	byID   []string
	frozen bool
}

// NewBuilder returns an empty Keys store ready to accept Add calls.
func NewBuilder() *Keys {
	return &Keys{trie: patricia.NewTrie()}
}

// Add inserts key into the trie. Ids are not assigned until Freeze; calling
// Add after Freeze panics.
func (k *Keys) Add(key string) {
	if k.frozen {
		panic("triekeys: Add called after Freeze")
	}
	k.trie.Insert(patricia.Prefix(key), &idBox{})
}

// Freeze walks the trie in sorted prefix order and assigns each key a
// dense 0-based id in that order, then builds the reverse byID index. The
// store is read-only afterward.
func (k *Keys) Freeze() {
	if k.frozen {
		return
	}
	type entry struct {
		word string
		box  *idBox
	}
	var entries []entry
	_ = k.trie.Visit(func(p patricia.Prefix, item patricia.Item) error {
		entries = append(entries, entry{word: string(p), box: item.(*idBox)})
		return nil
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].word < entries[j].word })

	k.byID = make([]string, len(entries))
	for i, e := range entries {
		e.box.id = ids.KeyID(i)
		k.byID[i] = e.word
	}
	k.frozen = true
}

// Len returns the number of stored keys.
func (k *Keys) Len() int { return len(k.byID) }

// GetRef returns the key at id. Since the underlying trie owns no
// contiguous string storage, this returns the same owned copy as GetOwned.
func (k *Keys) GetRef(id ids.KeyID) (string, bool) {
	if int(id) < 0 || int(id) >= len(k.byID) {
		return "", false
	}
	return k.byID[id], true
}

// GetOwned returns a copy of the key at id.
func (k *Keys) GetOwned(id ids.KeyID) string {
	s, _ := k.GetRef(id)
	return s
}

// Iter ranges over every (id, key) pair in id order.
func (k *Keys) Iter() iter.Seq2[ids.KeyID, string] {
	return func(yield func(ids.KeyID, string) bool) {
		for i, v := range k.byID {
			if !yield(ids.KeyID(i), v) {
				return
			}
		}
	}
}

// IDOf returns the dense id assigned to word, if it was ever added.
func (k *Keys) IDOf(word string) (ids.KeyID, bool) {
	item := k.trie.Get(patricia.Prefix(word))
	if item == nil {
		return 0, false
	}
	box, ok := item.(*idBox)
	if !ok {
		return 0, false
	}
	return box.id, true
}

package corpus

import (
	"github.com/fuzzgram/fuzzgram/dictionary"
	"github.com/fuzzgram/fuzzgram/graph"
	"github.com/fuzzgram/fuzzgram/ids"
	"github.com/fuzzgram/fuzzgram/keys/plainkeys"
	"github.com/fuzzgram/fuzzgram/keys/triekeys"
	"github.com/fuzzgram/fuzzgram/ngram"
)

// BuildSequential indexes words into a Corpus using a single goroutine. It
// is the reference implementation that BuildParallel's output is checked
// against: same words, same order, same Extractor must always produce a
// bit-identical Corpus.
func BuildSequential[G ngram.Element](words []string, cfg BuildConfig[G]) (*Corpus[G], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	kb := newKeyBuilder[G](cfg)
	for _, w := range words {
		kb.add(w)
	}
	return kb.finish(cfg)
}

// keyBuilder accumulates keys and their grams before the dictionary and
// graph are assembled; it is shared by the sequential and parallel paths
// (the parallel path fills it after its workers have joined) so both feed
// the same finishing logic.
type keyBuilder[G ngram.Element] struct {
	plain     *plainkeys.Keys
	trie      *triekeys.Keys
	useTrie   bool
	perKey    [][]ngram.WeightedGram[G]
	extractor ngram.Extractor[G]
}

func newKeyBuilder[G ngram.Element](cfg BuildConfig[G]) *keyBuilder[G] {
	kb := &keyBuilder[G]{useTrie: cfg.UseTrieKeys, extractor: cfg.Extractor}
	if cfg.UseTrieKeys {
		kb.trie = triekeys.NewBuilder()
	} else {
		kb.plain = plainkeys.NewBuilder()
	}
	return kb
}

func (kb *keyBuilder[G]) add(word string) {
	if kb.useTrie {
		kb.trie.Add(word)
	} else {
		kb.plain.Add(word)
	}
	kb.perKey = append(kb.perKey, kb.extractor.Grams(word))
}

// gramKeyOf serializes a gram into a byte string usable as a Go map key,
// since Gram[G] (a slice) isn't comparable itself.
func gramKeyOf[G ngram.Element](g ngram.Gram[G]) string {
	b := make([]byte, 0, len(g)*8)
	for _, el := range g {
		c := el.Code()
		for shift := 56; shift >= 0; shift -= 8 {
			b = append(b, byte(c>>uint(shift)))
		}
	}
	return string(b)
}

func (kb *keyBuilder[G]) numKeys() int {
	if kb.useTrie {
		return kb.trie.Len()
	}
	return kb.plain.Len()
}

func (kb *keyBuilder[G]) finish(cfg BuildConfig[G]) (*Corpus[G], error) {
	if kb.useTrie {
		kb.trie.Freeze()
	}

	distinct := map[string]bool{}
	var order []ngram.Gram[G]
	for _, grams := range kb.perKey {
		for _, wg := range grams {
			k := gramKeyOf(wg.Gram)
			if !distinct[k] {
				distinct[k] = true
				order = append(order, wg.Gram)
			}
		}
	}

	bitWidth := cfg.bitWidth()
	dict := dictionary.NewDictionary(order, bitWidth, cfg.Unpack)

	builder := graph.NewPackedGraphBuilder(kb.numKeys(), dict.Len())
	for keyIdx, grams := range kb.perKey {
		for _, wg := range grams {
			gid, ok := dict.Lookup(wg.Gram)
			if !ok {
				continue
			}
			builder.Add(ids.KeyID(keyIdx), gid, wg.Count)
		}
	}
	g := builder.Build()

	c := &Corpus[G]{
		dictionary: dict,
		graph:      g,
		arity:      cfg.Extractor.Arity,
	}
	if kb.useTrie {
		c.keys = kb.trie
	} else {
		c.keys = kb.plain
	}
	return c, nil
}

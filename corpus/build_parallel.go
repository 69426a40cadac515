package corpus

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/fuzzgram/fuzzgram/ngram"
)

// shardResult describes one shard's extracted grams, indexed by the word's
// position within the full input (not the shard). BuildParallel does not
// use it: its workers write straight into a shared per-key slice.
type shardResult[G ngram.Element] struct {
	start int
	grams [][]ngram.WeightedGram[G]
}

// BuildParallel indexes words the same way BuildSequential does, but
// splits gram extraction — the only per-key work that's embarrassingly
// parallel — across up to cfg.Workers goroutines. Each worker owns a
// disjoint, contiguous range of word indices and writes only into that
// range of the shared results slice, so no locking is needed beyond the
// WaitGroup join barrier, mirroring the teacher's bounded background
// loader pattern generalized from chunk loading to gram extraction.
//
// Key insertion (into plainkeys/triekeys) and graph construction still run
// on the calling goroutine after the join, since both require the words to
// be visited in a fixed order to assign ids deterministically; only the
// CPU-bound extraction step benefits from parallelism here. The resulting
// Corpus is bit-identical to BuildSequential's on the same input.
func BuildParallel[G ngram.Element](words []string, cfg BuildConfig[G]) (*Corpus[G], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(words) {
		workers = len(words)
	}
	if workers < 1 {
		workers = 1
	}

	perKey := make([][]ngram.WeightedGram[G], len(words))
	chunk := (len(words) + workers - 1) / workers
	if chunk < 1 {
		chunk = 1
	}

	var wg sync.WaitGroup
	errCh := make(chan *BuildFailure, workers)

	shard := 0
	for start := 0; start < len(words); start += chunk {
		end := start + chunk
		if end > len(words) {
			end = len(words)
		}
		wg.Add(1)
		go func(shard, start, end int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errCh <- &BuildFailure{Shard: shard, Err: fmt.Errorf("panic: %v", r)}
				}
			}()
			for i := start; i < end; i++ {
				perKey[i] = cfg.Extractor.Grams(words[i])
			}
		}(shard, start, end)
		shard++
	}
	wg.Wait()
	close(errCh)

	var failures []*BuildFailure
	for f := range errCh {
		failures = append(failures, f)
	}
	if len(failures) > 0 {
		sort.Slice(failures, func(i, j int) bool { return failures[i].Shard < failures[j].Shard })
		return nil, failures[0]
	}

	kb := newKeyBuilder[G](cfg)
	for i, w := range words {
		if kb.useTrie {
			kb.trie.Add(w)
		} else {
			kb.plain.Add(w)
		}
		kb.perKey = append(kb.perKey, perKey[i])
	}
	return kb.finish(cfg)
}

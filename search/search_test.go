package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fuzzgram/fuzzgram/corpus"
	"github.com/fuzzgram/fuzzgram/dictionary"
	"github.com/fuzzgram/fuzzgram/ngram"
)

func searchExtractor() ngram.Extractor[ngram.Char] {
	return ngram.NewCharExtractor(3, ngram.LowercaseNormalizer{}, '\x00')
}

func buildSearchCorpus(t *testing.T, words []string) (*corpus.Corpus[ngram.Char], ngram.Extractor[ngram.Char]) {
	t.Helper()
	ext := searchExtractor()
	c, err := corpus.BuildSequential(words, corpus.BuildConfig[ngram.Char]{
		Extractor: ext,
		Unpack:    dictionary.UnpackChar,
	})
	require.NoError(t, err)
	return c, ext
}

var fruitWords = []string{
	"apple", "apples", "applesauce", "banana", "bandana",
	"cherry", "cherries", "orange", "orangeade", "grape",
}

func TestWarpedSimilarityPlainJaccardAtWarpOne(t *testing.T) {
	got := warpedSimilarity(3, 5, 1)
	require.InDelta(t, 3.0/5.0, got, 1e-9)
}

func TestWarpedSimilarityFullOverlap(t *testing.T) {
	require.InDelta(t, 1.0, warpedSimilarity(5, 5, 2), 1e-9)
}

func TestWarpedSimilarityNoOverlap(t *testing.T) {
	require.InDelta(t, 0.0, warpedSimilarity(0, 5, 2), 1e-9)
}

func TestWarpedSimilarityEmptyUnion(t *testing.T) {
	require.Equal(t, 0.0, warpedSimilarity(0, 0, 2))
}

func TestWarpedSimilarityMonotoneInWarp(t *testing.T) {
	low := warpedSimilarity(3, 5, 1.0)
	high := warpedSimilarity(3, 5, 3.0)
	require.GreaterOrEqual(t, high, low)
}

func TestNgramSearchExactMatchScoresHighest(t *testing.T) {
	c, ext := buildSearchCorpus(t, fruitWords)
	cfg, err := DefaultNgramSearchConfig().WithMinimumSimilarity(0)
	require.NoError(t, err)

	results := NgramSearch(c, ext, "apple", cfg)
	require.NotEmpty(t, results)

	top, ok := c.Keys().GetRef(results[0].Key)
	require.True(t, ok)
	require.Equal(t, "apple", top)
	require.GreaterOrEqual(t, results[0].Score, 0.99)
}

func TestNgramSearchEmptyQueryReturnsNil(t *testing.T) {
	c, ext := buildSearchCorpus(t, fruitWords)
	require.Nil(t, NgramSearch(c, ext, "", DefaultNgramSearchConfig()))
}

func TestNgramSearchEmptyCorpusReturnsNil(t *testing.T) {
	c, ext := buildSearchCorpus(t, nil)
	require.Nil(t, NgramSearch(c, ext, "apple", DefaultNgramSearchConfig()))
}

func TestNgramSearchRespectsMaximumResults(t *testing.T) {
	c, ext := buildSearchCorpus(t, fruitWords)
	cfg, err := DefaultNgramSearchConfig().WithMinimumSimilarity(0)
	require.NoError(t, err)
	cfg, err = cfg.WithMaximumResults(2)
	require.NoError(t, err)

	results := NgramSearch(c, ext, "apple", cfg)
	require.LessOrEqual(t, len(results), 2)
}

func TestNgramSearchResultsSortedDescending(t *testing.T) {
	c, ext := buildSearchCorpus(t, fruitWords)
	cfg, err := DefaultNgramSearchConfig().WithMinimumSimilarity(0)
	require.NoError(t, err)

	results := NgramSearch(c, ext, "apple", cfg)
	for i := 1; i < len(results); i++ {
		require.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func requireSameResults(t *testing.T, seq, par []Result) {
	t.Helper()
	require.Equal(t, len(seq), len(par))
	for i := range seq {
		require.Equal(t, seq[i].Key, par[i].Key)
		require.InDelta(t, seq[i].Score, par[i].Score, 1e-9)
	}
}

func TestNgramSearchParallelMatchesSequential(t *testing.T) {
	c, ext := buildSearchCorpus(t, fruitWords)
	cfg, err := DefaultNgramSearchConfig().WithMinimumSimilarity(0)
	require.NoError(t, err)

	seq := NgramSearch(c, ext, "orange", cfg)
	par := NgramSearchParallel(c, ext, "orange", cfg, 4)
	requireSameResults(t, seq, par)
}

func TestTfidfSearchExactMatchRanksFirst(t *testing.T) {
	c, ext := buildSearchCorpus(t, fruitWords)
	results := TfidfSearch(c, ext, "cherry", DefaultTFIDFSearchConfig())
	require.NotEmpty(t, results)

	top, ok := c.Keys().GetRef(results[0].Key)
	require.True(t, ok)
	require.Equal(t, "cherry", top)
}

func TestTfidfSearchParallelMatchesSequential(t *testing.T) {
	c, ext := buildSearchCorpus(t, fruitWords)
	cfg := DefaultTFIDFSearchConfig()

	seq := TfidfSearch(c, ext, "grape", cfg)
	par := TfidfSearchParallel(c, ext, "grape", cfg, 4)
	requireSameResults(t, seq, par)
}

func TestWarpedTfidfSearchParallelMatchesSequential(t *testing.T) {
	c, ext := buildSearchCorpus(t, fruitWords)
	cfg := DefaultTFIDFSearchConfig()
	ngramCfg, err := cfg.NgramSearchConfig.WithMinimumSimilarity(0)
	require.NoError(t, err)
	cfg.NgramSearchConfig = ngramCfg

	seq := WarpedTfidfSearch(c, ext, "banana", cfg)
	par := WarpedTfidfSearchParallel(c, ext, "banana", cfg, 4)
	requireSameResults(t, seq, par)
}

func TestNgramSearchConfigValidation(t *testing.T) {
	cfg := DefaultNgramSearchConfig()
	_, err := cfg.WithWarp(0.5)
	require.ErrorIs(t, err, ErrInvalidConfig)
	_, err = cfg.WithWarp(10.5)
	require.ErrorIs(t, err, ErrInvalidConfig)
	_, err = cfg.WithMinimumSimilarity(-0.1)
	require.ErrorIs(t, err, ErrInvalidConfig)
	_, err = cfg.WithMaximumResults(-1)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestTFIDFSearchConfigValidation(t *testing.T) {
	cfg := DefaultTFIDFSearchConfig()
	_, err := cfg.WithK1(-0.5)
	require.ErrorIs(t, err, ErrInvalidConfig)
	_, err = cfg.WithK1(0.5)
	require.NoError(t, err)
	_, err = cfg.WithB(1.5)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestMaxNgramDegreeCappedSkipsHighDegreeGrams(t *testing.T) {
	c, ext := buildSearchCorpus(t, fruitWords)
	cfg := DefaultNgramSearchConfig().WithMaxNgramDegree(CappedMaxNgramDegree(0))
	cfg, err := cfg.WithMinimumSimilarity(0)
	require.NoError(t, err)

	results := NgramSearch(c, ext, "apple", cfg)
	require.Empty(t, results)
}

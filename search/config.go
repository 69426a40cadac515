// Package search implements the query-time kernels over a built corpus:
// plain n-gram Jaccard-style similarity (with an optional warp exponent)
// and Okapi BM25 TF-IDF ranking, each in sequential and parallel variants
// sharing one candidate-enumeration and top-k selection core.
package search

import "errors"

// ErrInvalidConfig is returned by the With*/New* constructors when a
// configuration value is out of its valid range. Unlike a corpus build
// failure, this never depends on the data being searched.
var ErrInvalidConfig = errors.New("search: invalid configuration")

// MaxNgramDegree bounds how common a gram is allowed to be before it is
// skipped during candidate enumeration, trading recall for speed on
// corpora with a few extremely high-degree grams (e.g. a padding gram
// that appears in every key). A skipped gram adds nothing to any key's
// intersection but still counts toward the query's gram total, so a cap
// can lower scores and can drop keys whose only shared grams were skipped.
type MaxNgramDegree struct {
	kind  maxNgramDegreeKind
	value int
}

type maxNgramDegreeKind int

const (
	maxNgramDegreeUnbounded maxNgramDegreeKind = iota
	maxNgramDegreeDefault
	maxNgramDegreeCapped
)

// Unbounded considers every gram regardless of degree.
func Unbounded() MaxNgramDegree { return MaxNgramDegree{kind: maxNgramDegreeUnbounded} }

// DefaultMaxNgramDegree scales the cutoff to the size of the corpus
// (sqrt(numKeys), floored at 64), matching the heuristic the reference
// implementation uses when no explicit cap is given.
func DefaultMaxNgramDegree() MaxNgramDegree { return MaxNgramDegree{kind: maxNgramDegreeDefault} }

// CappedMaxNgramDegree skips any gram with more than n posting-list
// entries.
func CappedMaxNgramDegree(n int) MaxNgramDegree {
	return MaxNgramDegree{kind: maxNgramDegreeCapped, value: n}
}

func (m MaxNgramDegree) resolve(numKeys int) int {
	switch m.kind {
	case maxNgramDegreeUnbounded:
		return -1
	case maxNgramDegreeCapped:
		return m.value
	default:
		cutoff := 64
		for cutoff*cutoff < numKeys {
			cutoff *= 2
		}
		return cutoff
	}
}

// NgramSearchConfig configures NgramSearch and NgramSearchParallel. Values
// are immutable; the With* methods return a modified copy.
type NgramSearchConfig struct {
	warp              float64
	minimumSimilarity float64
	maximumResults    int
	maxNgramDegree    MaxNgramDegree
}

// DefaultNgramSearchConfig returns the baseline configuration: warp 2,
// minimum similarity 0.3, up to 10 results, default degree cutoff.
func DefaultNgramSearchConfig() NgramSearchConfig {
	return NgramSearchConfig{
		warp:              2.0,
		minimumSimilarity: 0.3,
		maximumResults:    10,
		maxNgramDegree:    DefaultMaxNgramDegree(),
	}
}

// Warp returns the configured warp exponent.
func (c NgramSearchConfig) Warp() float64 { return c.warp }

// MinimumSimilarity returns the configured similarity cutoff.
func (c NgramSearchConfig) MinimumSimilarity() float64 { return c.minimumSimilarity }

// MaximumResults returns the configured result cap.
func (c NgramSearchConfig) MaximumResults() int { return c.maximumResults }

// MaxNgramDegree returns the configured degree cutoff policy.
func (c NgramSearchConfig) MaxNgramDegree() MaxNgramDegree { return c.maxNgramDegree }

// WithWarp sets the warp exponent p in sim = 1 - ((U-I)/U)^p. p must lie
// in [1, 10].
func (c NgramSearchConfig) WithWarp(p float64) (NgramSearchConfig, error) {
	if p < 1 || p > 10 {
		return c, ErrInvalidConfig
	}
	c.warp = p
	return c, nil
}

// WithMinimumSimilarity sets the minimum similarity score a key must reach
// to appear in results. Must lie in [0, 1].
func (c NgramSearchConfig) WithMinimumSimilarity(s float64) (NgramSearchConfig, error) {
	if s < 0 || s > 1 {
		return c, ErrInvalidConfig
	}
	c.minimumSimilarity = s
	return c, nil
}

// WithMaximumResults sets the maximum number of results returned.
func (c NgramSearchConfig) WithMaximumResults(n int) (NgramSearchConfig, error) {
	if n < 0 {
		return c, ErrInvalidConfig
	}
	c.maximumResults = n
	return c, nil
}

// WithMaxNgramDegree sets the degree cutoff policy.
func (c NgramSearchConfig) WithMaxNgramDegree(m MaxNgramDegree) NgramSearchConfig {
	c.maxNgramDegree = m
	return c
}

// TFIDFSearchConfig configures TfidfSearch/WarpedTfidfSearch and their
// parallel variants: an embedded NgramSearchConfig plus the Okapi BM25
// k1/b constants.
type TFIDFSearchConfig struct {
	NgramSearchConfig
	k1 float64
	b  float64
}

// DefaultTFIDFSearchConfig returns the baseline configuration: the default
// ngram config, k1=1.2, b=0.75.
func DefaultTFIDFSearchConfig() TFIDFSearchConfig {
	return TFIDFSearchConfig{
		NgramSearchConfig: DefaultNgramSearchConfig(),
		k1:                1.2,
		b:                 0.75,
	}
}

// K1 returns the configured BM25 k1 constant.
func (c TFIDFSearchConfig) K1() float64 { return c.k1 }

// B returns the configured BM25 b constant.
func (c TFIDFSearchConfig) B() float64 { return c.b }

// WithK1 sets the BM25 k1 constant. Must be >= 0; 1.2 is only the default.
func (c TFIDFSearchConfig) WithK1(k1 float64) (TFIDFSearchConfig, error) {
	if k1 < 0 {
		return c, ErrInvalidConfig
	}
	c.k1 = k1
	return c, nil
}

// WithB sets the BM25 b constant. Must lie in [0, 1].
func (c TFIDFSearchConfig) WithB(b float64) (TFIDFSearchConfig, error) {
	if b < 0 || b > 1 {
		return c, ErrInvalidConfig
	}
	c.b = b
	return c, nil
}

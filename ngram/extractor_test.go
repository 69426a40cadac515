package ngram

import (
	"testing"
)

func gramStrings(ws []WeightedGram[Char]) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		s := make([]rune, len(w.Gram))
		for j, e := range w.Gram {
			s[j] = rune(e)
		}
		out[i] = string(s)
	}
	return out
}

func TestExtractorGramsTrigram(t *testing.T) {
	ext := NewCharExtractor(3, LowercaseNormalizer{}, '\x00')
	got := ext.Grams("cat")
	// front pad = 2, back pad = 1: "\x00\x00cat\x00" -> windows of 3
	want := []string{"\x00\x00c", "\x00ca", "cat", "at\x00"}
	if len(got) != len(want) {
		t.Fatalf("Grams(cat) len = %d, want %d (%v)", len(got), len(want), gramStrings(got))
	}
	gs := gramStrings(got)
	for i := range want {
		if gs[i] != want[i] {
			t.Errorf("gram[%d] = %q, want %q", i, gs[i], want[i])
		}
		if got[i].Count != 1 {
			t.Errorf("gram[%d] count = %d, want 1", i, got[i].Count)
		}
	}
}

func TestExtractorGramsDedup(t *testing.T) {
	ext := NewCharExtractor(2, LowercaseNormalizer{}, '\x00')
	got := ext.Grams("aaaa")
	counts := map[string]int{}
	for _, w := range got {
		s := make([]rune, len(w.Gram))
		for j, e := range w.Gram {
			s[j] = rune(e)
		}
		counts[string(s)] = w.Count
	}
	if counts["aa"] != 3 {
		t.Errorf(`count["aa"] = %d, want 3`, counts["aa"])
	}
}

func TestExtractorGramsEmptyInput(t *testing.T) {
	ext := NewCharExtractor(3, LowercaseNormalizer{}, '\x00')
	if got := ext.Grams(""); got != nil {
		t.Errorf("Grams(\"\") = %v, want nil", got)
	}
}

func TestExtractorGramsShortKeyProducesPaddedWindows(t *testing.T) {
	ext := NewCharExtractor(5, LowercaseNormalizer{}, '\x00')
	got := ext.Grams("ab")
	// front pad = 3, back pad = 2: "\x00\x00\x00ab\x00\x00" -> 3 windows of 5
	if len(got) != 3 {
		t.Fatalf("Grams(ab) with arity 5 len = %d, want 3", len(got))
	}
	if len(got[0].Gram) != 5 {
		t.Errorf("gram length = %d, want 5", len(got[0].Gram))
	}
}

func TestASCIIExtractorDropsNonASCII(t *testing.T) {
	ext := NewASCIIExtractor(2, LowercaseNormalizer{}, ' ')
	got := ext.Grams("café")
	for _, w := range got {
		for _, e := range w.Gram {
			if e > 0x7F {
				t.Errorf("ASCII extractor kept non-ASCII element %v", e)
			}
		}
	}
}

func TestByteExtractorRoundTrip(t *testing.T) {
	ext := NewByteExtractor(2, IdentityNormalizer{}, 0)
	got := ext.Grams("hi")
	if len(got) == 0 {
		t.Fatal("expected at least one gram")
	}
}

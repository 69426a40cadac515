package corpus

import (
	"testing"

	"github.com/fuzzgram/fuzzgram/dictionary"
	"github.com/fuzzgram/fuzzgram/ids"
	"github.com/fuzzgram/fuzzgram/ngram"
)

func testExtractor() ngram.Extractor[ngram.Char] {
	return ngram.NewCharExtractor(3, ngram.LowercaseNormalizer{}, '\x00')
}

func testWords() []string {
	return []string{
		"apple", "banana", "cherry", "date", "elderberry",
		"fig", "grape", "honeydew", "kiwi", "lemon",
		"mango", "nectarine", "orange", "papaya", "quince",
		"raspberry", "strawberry", "tangerine", "ugli", "watermelon",
	}
}

func buildCfg() BuildConfig[ngram.Char] {
	return BuildConfig[ngram.Char]{
		Extractor: testExtractor(),
		Unpack:    dictionary.UnpackChar,
	}
}

func TestBuildSequentialBasicShape(t *testing.T) {
	c, err := BuildSequential(testWords(), buildCfg())
	if err != nil {
		t.Fatalf("BuildSequential error: %v", err)
	}
	if c.NumKeys() != len(testWords()) {
		t.Errorf("NumKeys() = %d, want %d", c.NumKeys(), len(testWords()))
	}
	if c.Dictionary().Len() == 0 {
		t.Error("dictionary is empty")
	}
	if c.Graph().NumEdges() == 0 {
		t.Error("graph has no edges")
	}
	if c.Arity() != 3 {
		t.Errorf("Arity() = %d, want 3", c.Arity())
	}
}

func TestBuildSequentialRejectsInvalidConfig(t *testing.T) {
	cfg := buildCfg()
	cfg.Extractor.Arity = 0
	if _, err := BuildSequential(testWords(), cfg); err != ErrInvalidConfig {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestBuildParallelRejectsInvalidConfig(t *testing.T) {
	cfg := buildCfg()
	cfg.Workers = -1
	if _, err := BuildParallel(testWords(), cfg); err != ErrInvalidConfig {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestBuildParallelMatchesSequentialDeterministically(t *testing.T) {
	words := testWords()

	seq, err := BuildSequential(words, buildCfg())
	if err != nil {
		t.Fatalf("BuildSequential error: %v", err)
	}
	par, err := BuildParallel(words, buildCfg())
	if err != nil {
		t.Fatalf("BuildParallel error: %v", err)
	}

	if seq.NumKeys() != par.NumKeys() {
		t.Fatalf("NumKeys differ: seq=%d par=%d", seq.NumKeys(), par.NumKeys())
	}
	if seq.Dictionary().Len() != par.Dictionary().Len() {
		t.Fatalf("dictionary length differs: seq=%d par=%d", seq.Dictionary().Len(), par.Dictionary().Len())
	}
	if seq.Graph().NumEdges() != par.Graph().NumEdges() {
		t.Fatalf("edge count differs: seq=%d par=%d", seq.Graph().NumEdges(), par.Graph().NumEdges())
	}

	for id := 0; id < seq.NumKeys(); id++ {
		seqWord, _ := seq.Keys().GetRef(ids.KeyID(id))
		parWord, _ := par.Keys().GetRef(ids.KeyID(id))
		if seqWord != parWord {
			t.Fatalf("key %d differs: seq=%q par=%q", id, seqWord, parWord)
		}
		if seq.Graph().DegreeKey(ids.KeyID(id)) != par.Graph().DegreeKey(ids.KeyID(id)) {
			t.Fatalf("DegreeKey(%d) differs", id)
		}
	}

	for n := 0; n < seq.Dictionary().Len(); n++ {
		seqGram := seq.Dictionary().Gram(ids.NgramID(n))
		parGram := par.Dictionary().Gram(ids.NgramID(n))
		if !seqGram.Equal(parGram) {
			t.Fatalf("dictionary gram %d differs: seq=%v par=%v", n, seqGram, parGram)
		}
	}
}

func TestReportComputesAverageKeyLength(t *testing.T) {
	c, err := BuildSequential([]string{"ab", "abcd"}, buildCfg())
	if err != nil {
		t.Fatalf("BuildSequential error: %v", err)
	}
	r := c.Report()
	if r.NumKeys != 2 {
		t.Errorf("NumKeys = %d, want 2", r.NumKeys)
	}
	if r.AverageKeyLength != 3 {
		t.Errorf("AverageKeyLength = %v, want 3", r.AverageKeyLength)
	}
}

func TestBuildSequentialWithTrieKeys(t *testing.T) {
	cfg := buildCfg()
	cfg.UseTrieKeys = true
	c, err := BuildSequential(testWords(), cfg)
	if err != nil {
		t.Fatalf("BuildSequential error: %v", err)
	}
	if c.NumKeys() != len(testWords()) {
		t.Errorf("NumKeys() = %d, want %d", c.NumKeys(), len(testWords()))
	}
}

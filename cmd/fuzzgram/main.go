/*
Package main implements a small demo CLI and msgpack search service around
the fuzzgram library.

fuzzgram indexes a newline-delimited word list into a corpus of n-gram
based indices and answers fuzzy-match queries against it, either once from
the command line or continuously as a MessagePack IPC server over
stdin/stdout.

# Usage

Build a corpus from a word list and search it once:

	fuzzgram -words words.txt -query "hello"

Run as a long-lived search service instead:

	fuzzgram -words words.txt -serve

# Configuration

Runtime defaults (warp, minimum similarity, BM25 constants, builder
arity/parallelism) are managed through a TOML file that is created with
built-in defaults if missing:

	[search]
	warp = 2.0
	minimum_similarity = 0.3
	maximum_results = 10

	[tfidf]
	k1 = 1.2
	b = 0.75

	[builder]
	arity = 3
	element = "char"
	workers = 0

# IPC Protocol

In -serve mode, requests and responses are exchanged as MessagePack values
over stdin/stdout, one value per message:

	{"id": "q1", "q": "helo", "mode": "ngram", "l": 5}
	{"id": "q1", "m": [{"k": "hello", "s": 0.83}], "c": 1, "t": 2}
*/
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/fuzzgram/fuzzgram/corpus"
	"github.com/fuzzgram/fuzzgram/ngram"
	"github.com/fuzzgram/fuzzgram/pkg/config"
	"github.com/fuzzgram/fuzzgram/search"
	"github.com/fuzzgram/fuzzgram/service"
)

const (
	Version = "0.1.0"
	AppName = "fuzzgram"
	gh      = "https://github.com/fuzzgram/fuzzgram"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main calls other packages to build a corpus and either run one query or
// start the IPC service. main() implements no search or indexing logic
// itself, only flow between the library packages.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	wordsPath := flag.String("words", "", "Path to a newline-delimited word list")
	query := flag.String("query", "", "Run a single query against the built corpus and exit")
	mode := flag.String("mode", "ngram", "Search mode: ngram, tfidf, warped_tfidf")
	serveMode := flag.Bool("serve", false, "Run the MessagePack search service over stdin/stdout")
	arity := flag.Int("arity", defaultConfig.Builder.Arity, "Gram arity")
	workers := flag.Int("workers", defaultConfig.Builder.Workers, "Parallel build/search workers (0 = GOMAXPROCS)")
	parallel := flag.Bool("parallel", false, "Use the parallel corpus builder")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	configPath := flag.String("config", "", "Path to a config.toml (default: platform config dir)")

	flag.Parse()

	if *showVersion {
		printVersionBanner()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, resolvedPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config from: %s", resolvedPath)

	setFlags := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
	if !setFlags["arity"] {
		*arity = appConfig.Builder.Arity
	}
	if !setFlags["workers"] {
		*workers = appConfig.Builder.Workers
	}

	if *wordsPath == "" {
		log.Fatal("No word list given, use -words")
	}
	words, err := readWords(*wordsPath)
	if err != nil {
		log.Fatalf("Failed to read word list: %v", err)
	}

	extractor := ngram.NewCharExtractor(*arity, ngram.LowercaseNormalizer{}, '\x00')
	buildCfg := corpus.BuildConfig[ngram.Char]{
		Extractor: extractor,
		Unpack:    dictionaryUnpackChar,
		Workers:   *workers,
	}

	log.Debugf("Building corpus: words=%d arity=%d parallel=%v", len(words), *arity, *parallel)
	var c *corpus.Corpus[ngram.Char]
	if *parallel {
		c, err = corpus.BuildParallel(words, buildCfg)
	} else {
		c, err = corpus.BuildSequential(words, buildCfg)
	}
	if err != nil {
		log.Fatalf("Failed to build corpus: %v", err)
	}

	ngramCfg := searchConfigFrom(appConfig)
	tfidfCfg := tfidfConfigFrom(appConfig, ngramCfg)

	if *serveMode {
		showStartupInfo(c.NumKeys())
		srv := service.NewServer(c, extractor, ngramCfg, tfidfCfg)
		if err := srv.Serve(); err != nil {
			log.Fatalf("Service error: %v", err)
		}
		return
	}

	if *query == "" {
		log.Fatal("No query given, use -query or -serve")
	}
	runOnce(c, extractor, *query, *mode, ngramCfg, tfidfCfg)
}

func dictionaryUnpackChar(code uint64, arity, bitWidth int) ngram.Gram[ngram.Char] {
	g := make(ngram.Gram[ngram.Char], arity)
	mask := uint64(1)<<uint(bitWidth) - 1
	for i := arity - 1; i >= 0; i-- {
		g[i] = ngram.Char(code & mask)
		code >>= uint(bitWidth)
	}
	return g
}

func searchConfigFrom(c *config.Config) search.NgramSearchConfig {
	cfg := search.DefaultNgramSearchConfig()
	if v, err := cfg.WithWarp(c.Search.Warp); err == nil {
		cfg = v
	}
	if v, err := cfg.WithMinimumSimilarity(c.Search.MinimumSimilarity); err == nil {
		cfg = v
	}
	if v, err := cfg.WithMaximumResults(c.Search.MaximumResults); err == nil {
		cfg = v
	}
	switch {
	case c.Search.MaxNgramDegree < 0:
		cfg = cfg.WithMaxNgramDegree(search.Unbounded())
	case c.Search.MaxNgramDegree > 0:
		cfg = cfg.WithMaxNgramDegree(search.CappedMaxNgramDegree(c.Search.MaxNgramDegree))
	default:
		cfg = cfg.WithMaxNgramDegree(search.DefaultMaxNgramDegree())
	}
	return cfg
}

func tfidfConfigFrom(c *config.Config, ngramCfg search.NgramSearchConfig) search.TFIDFSearchConfig {
	cfg := search.DefaultTFIDFSearchConfig()
	cfg.NgramSearchConfig = ngramCfg
	if v, err := cfg.WithK1(c.TFIDF.K1); err == nil {
		cfg = v
	}
	if v, err := cfg.WithB(c.TFIDF.B); err == nil {
		cfg = v
	}
	return cfg
}

func runOnce(c *corpus.Corpus[ngram.Char], extractor ngram.Extractor[ngram.Char], query, mode string, ngramCfg search.NgramSearchConfig, tfidfCfg search.TFIDFSearchConfig) {
	var results []search.Result
	switch mode {
	case "tfidf":
		results = search.TfidfSearch(c, extractor, query, tfidfCfg)
	case "warped_tfidf":
		results = search.WarpedTfidfSearch(c, extractor, query, tfidfCfg)
	default:
		results = search.NgramSearch(c, extractor, query, ngramCfg)
	}
	for _, r := range results {
		word, _ := c.Keys().GetRef(r.Key)
		fmt.Printf("%-30s %.4f\n", word, r.Score)
	}
}

func readWords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		words = append(words, line)
	}
	return words, scanner.Err()
}

func printVersionBanner() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ fuzzgram ] fuzzy n-gram search over a corpus of keys")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(numKeys int) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("===========")
	println(" fuzzgram  ")
	println("===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	log.Infof("corpus keys: %d", numKeys)
	log.Info("status: ready")
	println("===========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}

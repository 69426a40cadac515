// Package service implements a minimal msgpack IPC protocol for
// fuzzy-search queries over stdin/stdout, repurposing the teacher's
// completion-server wire format (originally built around word-completion
// prefix requests) for corpus search requests instead.
package service

// SearchRequest is a single search query sent over the wire. Mode selects
// which search kernel handles it; Limit and MinScore override the
// server's default search configuration for this request only.
type SearchRequest struct {
	ID       string  `msgpack:"id"`
	Query    string  `msgpack:"q"`
	Mode     string  `msgpack:"mode,omitempty"` // "ngram", "tfidf", "warped_tfidf"; default "ngram"
	Limit    int     `msgpack:"l,omitempty"`
	MinScore float64 `msgpack:"min,omitempty"`
}

// SearchMatch is one scored result within a SearchResponse.
type SearchMatch struct {
	Key   string  `msgpack:"k"`
	Score float64 `msgpack:"s"`
}

// SearchResponse answers a SearchRequest with ranked matches and timing.
type SearchResponse struct {
	ID        string        `msgpack:"id"`
	Matches   []SearchMatch `msgpack:"m"`
	Count     int           `msgpack:"c"`
	TimeTaken int64         `msgpack:"t"`
}

// SearchError reports a failed SearchRequest.
type SearchError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"code"`
}

// ReportRequest asks for the server's current corpus statistics.
type ReportRequest struct {
	ID string `msgpack:"id"`
}

// ReportResponse carries a corpus.CorpusReport's fields flattened onto
// the wire, so clients never need to depend on the corpus package.
type ReportResponse struct {
	ID               string  `msgpack:"id"`
	NumKeys          int     `msgpack:"keys"`
	NumNgrams        int     `msgpack:"ngrams"`
	NumEdges         int     `msgpack:"edges"`
	AverageKeyLength float64 `msgpack:"avg_len"`
}

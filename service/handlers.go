package service

import (
	"time"

	"github.com/fuzzgram/fuzzgram/search"
)

func (s *Server[G]) handleSearch(msg map[string]interface{}, id string) {
	var req SearchRequest
	if err := s.decodeInto(msg, &req); err != nil {
		s.send(SearchError{ID: id, Error: "malformed search request", Code: 400})
		s.log.Errorf("decoding search request: %v", err)
		return
	}
	if req.Query == "" {
		s.send(SearchError{ID: req.ID, Error: "missing query", Code: 400})
		return
	}

	start := time.Now()
	results := s.runSearch(req)
	elapsed := time.Since(start).Milliseconds()

	matches := make([]SearchMatch, 0, len(results))
	for _, r := range results {
		word, ok := s.c.Keys().GetRef(r.Key)
		if !ok {
			continue
		}
		matches = append(matches, SearchMatch{Key: word, Score: r.Score})
	}
	s.send(SearchResponse{
		ID:        req.ID,
		Matches:   matches,
		Count:     len(matches),
		TimeTaken: elapsed,
	})
}

func (s *Server[G]) runSearch(req SearchRequest) []search.Result {
	ngramCfg := s.ngramCfg
	tfidfCfg := s.tfidfCfg
	if req.Limit > 0 {
		if v, err := ngramCfg.WithMaximumResults(req.Limit); err == nil {
			ngramCfg = v
		}
		tfidfCfg.NgramSearchConfig = ngramCfg
	}
	if req.MinScore > 0 {
		if v, err := ngramCfg.WithMinimumSimilarity(req.MinScore); err == nil {
			ngramCfg = v
		}
		tfidfCfg.NgramSearchConfig = ngramCfg
	}

	switch req.Mode {
	case "tfidf":
		return search.TfidfSearch(s.c, s.extractor, req.Query, tfidfCfg)
	case "warped_tfidf":
		return search.WarpedTfidfSearch(s.c, s.extractor, req.Query, tfidfCfg)
	default:
		return search.NgramSearch(s.c, s.extractor, req.Query, ngramCfg)
	}
}

func (s *Server[G]) handleReport(id string) {
	r := s.c.Report()
	s.send(ReportResponse{
		ID:               id,
		NumKeys:          r.NumKeys,
		NumNgrams:        r.NumNgrams,
		NumEdges:         r.NumEdges,
		AverageKeyLength: r.AverageKeyLength,
	})
}

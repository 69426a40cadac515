package service

import (
	"bufio"
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/fuzzgram/fuzzgram/corpus"
	"github.com/fuzzgram/fuzzgram/internal/logger"
	"github.com/fuzzgram/fuzzgram/ngram"
	"github.com/fuzzgram/fuzzgram/search"
)

// Server answers SearchRequest/ReportRequest messages against one
// immutable Corpus over stdin/stdout, mirroring the teacher's completion
// Server but decoding/encoding msgpack values directly rather than
// line-delimited JSON — msgpack already self-delimits each value, so no
// newline framing is needed.
type Server[G ngram.Element] struct {
	c         *corpus.Corpus[G]
	extractor ngram.Extractor[G]
	ngramCfg  search.NgramSearchConfig
	tfidfCfg  search.TFIDFSearchConfig

	decoder *msgpack.Decoder
	encoder *msgpack.Encoder
	log     *log.Logger
}

// NewServer builds a Server for corpus c, using extractor to turn incoming
// query strings into grams and defaultNgram/defaultTFIDF as the base
// configuration for requests that don't override Limit/MinScore.
func NewServer[G ngram.Element](
	c *corpus.Corpus[G],
	extractor ngram.Extractor[G],
	defaultNgram search.NgramSearchConfig,
	defaultTFIDF search.TFIDFSearchConfig,
) *Server[G] {
	return &Server[G]{
		c:         c,
		extractor: extractor,
		ngramCfg:  defaultNgram,
		tfidfCfg:  defaultTFIDF,
		decoder:   msgpack.NewDecoder(bufio.NewReader(os.Stdin)),
		encoder:   msgpack.NewEncoder(os.Stdout),
		log:       logger.New("service"),
	}
}

// Serve reads requests until EOF or a decode error, dispatching each one
// synchronously. It returns nil on a clean EOF shutdown.
func (s *Server[G]) Serve() error {
	s.log.Debug("search service starting")
	for {
		var msg map[string]interface{}
		if err := s.decoder.Decode(&msg); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			s.log.Errorf("decoding request: %v", err)
			return err
		}
		s.handle(msg)
	}
}

// handle dispatches one decoded message by probing for the fields that
// distinguish a SearchRequest from a ReportRequest, since the wire format
// doesn't carry an explicit message-type tag. The message is re-encoded
// into msgpack bytes and then decoded into the concrete request struct so
// the rest of the handler never deals with the untyped map directly.
func (s *Server[G]) handle(msg map[string]interface{}) {
	id, _ := msg["id"].(string)
	if _, hasQuery := msg["q"]; hasQuery {
		s.handleSearch(msg, id)
		return
	}
	s.handleReport(id)
}

func (s *Server[G]) decodeInto(msg map[string]interface{}, v any) error {
	raw, err := msgpack.Marshal(msg)
	if err != nil {
		return err
	}
	return msgpack.Unmarshal(raw, v)
}

func (s *Server[G]) send(v any) {
	if err := s.encoder.Encode(v); err != nil {
		s.log.Errorf("encoding response: %v", err)
	}
}

package http1

import (
	"encoding/json"
	"io"
)

// Sink is the contract decoded body bytes are delivered through. A sink
// must consume every byte it is handed unless it returns an error; the
// more flag reports whether additional body bytes are still expected
// after this call.
type Sink interface {
	Write(p []byte, more bool) (consumed int, err error)
}

// DynamicBufferSink accumulates the body into an in-memory buffer up to
// a caller-supplied limit. This is the default sink installed when no
// sink is set explicitly and the caller instead drains pull_body().
type DynamicBufferSink struct {
	buf   []byte
	limit uint64
}

// NewDynamicBufferSink returns a sink that grows up to limit bytes.
func NewDynamicBufferSink(limit uint64) *DynamicBufferSink {
	return &DynamicBufferSink{limit: limit}
}

func (s *DynamicBufferSink) Write(p []byte, more bool) (int, error) {
	if uint64(len(s.buf)+len(p)) > s.limit {
		return 0, ErrBodyTooLarge
	}
	s.buf = append(s.buf, p...)
	return len(p), nil
}

// Bytes returns the accumulated body. Valid after the message completes.
func (s *DynamicBufferSink) Bytes() []byte { return s.buf }

func (s *DynamicBufferSink) reset() { s.buf = s.buf[:0] }

// FileSink streams the decoded body directly to an io.Writer backed by
// a file, never holding the whole body in memory. The spec describes
// this variant as a file sink; this toolkit leaves file-open semantics
// (path handling, permissions) to the caller and only wraps the
// io.Writer, which is the minimal capability the core actually needs.
type FileSink struct {
	w io.Writer
}

// NewFileSink wraps an already-open writer (typically an *os.File).
func NewFileSink(w io.Writer) *FileSink { return &FileSink{w: w} }

func (s *FileSink) Write(p []byte, more bool) (int, error) {
	return s.w.Write(p)
}

// JSONSink decodes the body incrementally as newline- or
// concatenation-delimited JSON via encoding/json.Decoder, instead of
// buffering the whole body and unmarshalling once. It mirrors the
// streaming JSON sink the upstream C++ library provides (json_sink.hpp)
// for large, structured request bodies.
type JSONSink struct {
	pr      *io.PipeReader
	pw      *io.PipeWriter
	dec     *json.Decoder
	values  chan any
	errc    chan error
	started bool
}

// NewJSONSink returns a sink that decodes each top-level JSON value it
// sees in the body stream and delivers it on Values().
func NewJSONSink() *JSONSink {
	pr, pw := io.Pipe()
	s := &JSONSink{
		pr:     pr,
		pw:     pw,
		dec:    json.NewDecoder(pr),
		values: make(chan any, 1),
		errc:   make(chan error, 1),
	}
	return s
}

func (s *JSONSink) start() {
	if s.started {
		return
	}
	s.started = true
	go func() {
		defer close(s.values)
		for {
			var v any
			if err := s.dec.Decode(&v); err != nil {
				if err != io.EOF {
					s.errc <- err
				}
				return
			}
			s.values <- v
		}
	}()
}

func (s *JSONSink) Write(p []byte, more bool) (int, error) {
	s.start()
	n, err := s.pw.Write(p)
	if !more {
		s.pw.Close()
	}
	return n, err
}

// Values returns the channel of decoded top-level JSON values.
func (s *JSONSink) Values() <-chan any { return s.values }

// Err returns the channel carrying a decode error, if any.
func (s *JSONSink) Err() <-chan error { return s.errc }

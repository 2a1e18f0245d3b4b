package shockwave

import (
	"bytes"
	"io"
	"net/http"

	"github.com/boltframework/bolt/http1"
)

// Request is the inbound half of a parsed HTTP/1 message, handed to a
// Handler once Server's accept loop has driven an http1.Parser to a
// complete header. It plays the role the teacher's adapter gave to an
// external shockwave http11.Request, backed instead by this module's
// own wire-format parser (see the http1 package).
type Request struct {
	Header *http1.Header
	Body   io.Reader
}

// MethodBytes returns the raw request method bytes straight off the
// parsed header, the same zero-copy access the routing hot path relied
// on with the teacher's external wire implementation.
func (r *Request) MethodBytes() []byte { return r.Header.MethodBytes() }

// PathBytes returns the request-target with any query string stripped.
func (r *Request) PathBytes() []byte {
	target := r.Header.Target()
	if i := bytes.IndexByte(target, '?'); i >= 0 {
		return target[:i]
	}
	return target
}

// QueryBytes returns the raw query string (without the leading '?'),
// or nil if the request-target carried none.
func (r *Request) QueryBytes() []byte {
	target := r.Header.Target()
	if i := bytes.IndexByte(target, '?'); i >= 0 {
		return target[i+1:]
	}
	return nil
}

// responseHeader adapts ResponseWriter.Header() to the []byte-keyed
// Set the Context code calls, while the fields actually accumulate on
// the OutgoingHeader built lazily at the first Write.
type responseHeader struct {
	rw *ResponseWriter
}

func (h *responseHeader) Set(key, value []byte) error {
	h.rw.names = append(h.rw.names, string(key))
	h.rw.values = append(h.rw.values, string(value))
	return nil
}

// ResponseWriter is the outbound half: header fields accumulate as
// plain strings until the first Write, at which point they are
// rendered through an http1.Serializer alongside the body in one shot
// (the Serializer computes Content-Length itself, so framing never has
// to be decided field-by-field).
type ResponseWriter struct {
	w      io.Writer
	ser    *http1.Serializer
	names  []string
	values []string
	status int
	wrote  bool
}

// NewResponseWriter wraps w (a net.Conn in production, io.Discard or a
// bytes.Buffer in benchmarks/tests) for a single response.
func NewResponseWriter(w io.Writer) *ResponseWriter {
	return &ResponseWriter{
		w:      w,
		ser:    http1.NewSerializer(http1.NewContainer()),
		status: http.StatusOK,
	}
}

func (rw *ResponseWriter) Header() *responseHeader { return &responseHeader{rw: rw} }

// WriteHeader records the status code for the header rendered on the
// first Write; calling it again after a Write has already flushed the
// header is a no-op, matching net/http's ResponseWriter contract.
func (rw *ResponseWriter) WriteHeader(status int) {
	if rw.wrote {
		return
	}
	rw.status = status
}

// Write renders the accumulated header plus data on its first call,
// then behaves as a plain passthrough writer for any further chunks a
// handler writes. The Content-Length rendered on the first call covers
// only that call's data; later chunks are written with no framing.
func (rw *ResponseWriter) Write(data []byte) (int, error) {
	if !rw.wrote {
		rw.wrote = true
		oh := http1.NewResponseHeader(rw.status, http.StatusText(rw.status))
		for i := range rw.names {
			oh.Set(rw.names[i], rw.values[i])
		}
		rendered := rw.ser.Serialize(oh, data)
		if _, err := rw.w.Write(rendered); err != nil {
			return 0, err
		}
		return len(data), nil
	}
	return rw.w.Write(data)
}

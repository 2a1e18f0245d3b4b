package http1

import (
	"strconv"

	"github.com/valyala/bytebufferpool"
)

// OutgoingHeader is the mutable, write-side counterpart to Header: a
// caller builds one up field by field, then hands it to a Serializer to
// render onto the wire alongside a body.
type OutgoingHeader struct {
	kind Kind

	method []byte
	target []byte

	statusCode int
	reason     []byte

	version []byte

	names  [][]byte
	values [][]byte
}

// NewRequestHeader returns an OutgoingHeader for a request line.
func NewRequestHeader(method, target string) *OutgoingHeader {
	return &OutgoingHeader{
		kind:    KindRequest,
		method:  []byte(method),
		target:  []byte(target),
		version: []byte("HTTP/1.1"),
	}
}

// NewResponseHeader returns an OutgoingHeader for a status line.
func NewResponseHeader(statusCode int, reason string) *OutgoingHeader {
	return &OutgoingHeader{
		kind:       KindResponse,
		statusCode: statusCode,
		reason:     []byte(reason),
		version:    []byte("HTTP/1.1"),
	}
}

// Set appends one header field. Repeated calls with the same name append
// another field rather than replacing the prior one, matching RFC 7230's
// treatment of list fields; callers that want replace semantics should
// filter their own field set before calling Set.
func (h *OutgoingHeader) Set(name, value string) *OutgoingHeader {
	h.names = append(h.names, []byte(name))
	h.values = append(h.values, []byte(value))
	return h
}

// Serializer renders an OutgoingHeader plus a body into a new byte
// slice. It applies no content-coding: body bytes are written as given,
// and the container it holds is not consulted. Like Parser, it never
// performs I/O: the rendered bytes are handed back for the caller's
// transport to write out.
type Serializer struct {
	container *Container
	pool      *bytebufferpool.Pool
}

// NewSerializer returns a Serializer sharing container with any Parsers
// on the same connection, so both directions see the same installed
// codec services.
func NewSerializer(container *Container) *Serializer {
	return &Serializer{container: container, pool: &bytebufferpool.Pool{}}
}

// Serialize renders h and body into a single contiguous byte slice ready
// to write to the wire. Rendering goes through a pooled buffer and the
// result is copied into a fresh slice, which the caller owns.
func (s *Serializer) Serialize(h *OutgoingHeader, body []byte) []byte {
	buf := s.pool.Get()
	defer s.pool.Put(buf)

	if h.kind == KindRequest {
		buf.Write(h.method)
		buf.WriteByte(' ')
		buf.Write(h.target)
		buf.WriteByte(' ')
		buf.Write(h.version)
		buf.WriteString("\r\n")
	} else {
		buf.Write(h.version)
		buf.WriteByte(' ')
		buf.WriteString(strconv.Itoa(h.statusCode))
		buf.WriteByte(' ')
		buf.Write(h.reason)
		buf.WriteString("\r\n")
	}

	wroteContentLength := false
	for i, name := range h.names {
		if bytesEqualFold(name, []byte("Content-Length")) {
			wroteContentLength = true
		}
		buf.Write(name)
		buf.WriteString(": ")
		buf.Write(h.values[i])
		buf.WriteString("\r\n")
	}
	if !wroteContentLength && !forbidsBodyByStatus(h) {
		buf.WriteString("Content-Length: ")
		buf.WriteString(strconv.Itoa(len(body)))
		buf.WriteString("\r\n")
	}
	buf.WriteString("\r\n")
	buf.Write(body)

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out
}

// SerializeChunked renders the start line and header block with a
// Transfer-Encoding: chunked field appended and no body, and is not
// itself a complete message: callers append frames (via ChunkFrame) and a final
// zero-size terminator (via ChunkTerminator) as more body becomes
// available, matching the streaming path a response coroutine drives
// through RouteParams.Suspender.
func (s *Serializer) SerializeChunked(h *OutgoingHeader) []byte {
	buf := s.pool.Get()
	defer s.pool.Put(buf)

	if h.kind == KindRequest {
		buf.Write(h.method)
		buf.WriteByte(' ')
		buf.Write(h.target)
		buf.WriteByte(' ')
		buf.Write(h.version)
		buf.WriteString("\r\n")
	} else {
		buf.Write(h.version)
		buf.WriteByte(' ')
		buf.WriteString(strconv.Itoa(h.statusCode))
		buf.WriteByte(' ')
		buf.Write(h.reason)
		buf.WriteString("\r\n")
	}
	for i, name := range h.names {
		buf.Write(name)
		buf.WriteString(": ")
		buf.Write(h.values[i])
		buf.WriteString("\r\n")
	}
	buf.WriteString("Transfer-Encoding: chunked\r\n\r\n")

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out
}

// ChunkFrame renders one chunked-encoding data frame.
func ChunkFrame(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	size := strconv.FormatInt(int64(len(data)), 16)
	out := make([]byte, 0, len(size)+2+len(data)+2)
	out = append(out, size...)
	out = append(out, '\r', '\n')
	out = append(out, data...)
	out = append(out, '\r', '\n')
	return out
}

// ChunkTerminator renders the terminating zero-size chunk with no
// trailers.
func ChunkTerminator() []byte {
	return []byte("0\r\n\r\n")
}

func forbidsBodyByStatus(h *OutgoingHeader) bool {
	if h.kind != KindResponse {
		return false
	}
	return (h.statusCode >= 100 && h.statusCode < 200) || h.statusCode == 204 || h.statusCode == 304
}

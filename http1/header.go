package http1

// fieldOffsetSize is the size in bytes occupied by one FieldOffset entry
// in the workspace's field table; used by ParserConfig.build to size
// that region of the arena.
const fieldOffsetSize = 32 // 4 x int (name/value start/len), padded

// FieldOffset locates one header field's name and value as byte ranges
// into the Header's raw header block, avoiding a per-field allocation.
type FieldOffset struct {
	NameStart  int
	NameLen    int
	ValueStart int
	ValueLen   int
}

// Kind distinguishes a request Header from a response Header.
type Kind uint8

const (
	KindRequest Kind = iota
	KindResponse
)

// EncodingFlags records which supported content-codings, if any, the
// message's Content-Encoding field names, in any position; the order in
// which the codings were applied is not recorded.
type EncodingFlags uint8

const (
	EncodingNone    EncodingFlags = 0
	EncodingGzip    EncodingFlags = 1 << 0
	EncodingDeflate EncodingFlags = 1 << 1
	EncodingBrotli  EncodingFlags = 1 << 2
)

func (f EncodingFlags) Has(bit EncodingFlags) bool { return f&bit != 0 }

// Header is the parsed, immutable view produced once a message's header
// block has been fully read. It stays valid until the owning Parser's
// next start/reset call or destruction; callers that need the data
// longer must copy it out.
type Header struct {
	kind Kind
	raw  []byte // flat header buffer: start-line tokens, then field names and values

	// Request start-line.
	method      Method
	methodBytes []byte
	target      []byte
	reqVersion  []byte

	// Response start-line.
	statusCode  int
	reason      []byte
	respVersion []byte

	fields []FieldOffset

	hasContentLength bool
	contentLength    uint64
	hasChunked       bool
	hasConnClose     bool
	hasUpgrade       bool
	hostSeen         bool
	hasHostDuplicate bool
	encodings        EncodingFlags
	isHeadResponse   bool
	forbidsBody      bool
}

// Kind reports whether this is a request or response header view.
func (h *Header) Kind() Kind { return h.kind }

// Method returns the parsed method ID for a request header.
func (h *Header) Method() Method { return h.method }

// MethodBytes returns the raw method token, including for methods not
// in the recognized set (Method will be MethodUnknown in that case).
func (h *Header) MethodBytes() []byte { return h.methodBytes }

// Target returns the raw request-target (path[?query]) for a request.
func (h *Header) Target() []byte { return h.target }

// StatusCode returns the parsed status code for a response header.
func (h *Header) StatusCode() int { return h.statusCode }

// Reason returns the raw reason phrase for a response header.
func (h *Header) Reason() []byte { return h.reason }

// Version returns the raw HTTP version token ("HTTP/1.0" or "HTTP/1.1").
func (h *Header) Version() []byte {
	if h.kind == KindRequest {
		return h.reqVersion
	}
	return h.respVersion
}

// FieldCount returns the number of parsed header fields, trailers
// included if any were appended (see ParseTrailers in parser.go).
func (h *Header) FieldCount() int { return len(h.fields) }

// FieldAt returns the name and value of the field at index i.
func (h *Header) FieldAt(i int) (name, value []byte) {
	f := h.fields[i]
	return h.raw[f.NameStart : f.NameStart+f.NameLen], h.raw[f.ValueStart : f.ValueStart+f.ValueLen]
}

// Get returns the value of the first field matching name
// case-insensitively, or nil if absent.
func (h *Header) Get(name string) []byte {
	nb := []byte(name)
	for _, f := range h.fields {
		fn := h.raw[f.NameStart : f.NameStart+f.NameLen]
		if bytesEqualFold(fn, nb) {
			return h.raw[f.ValueStart : f.ValueStart+f.ValueLen]
		}
	}
	return nil
}

// VisitAll calls visit for every field in insertion order (duplicates
// included); iteration stops early if visit returns false. Semantic
// merging of duplicate fields (comma-joining list fields, excluding
// Set-Cookie from merge, etc.) is left to the consumer, per spec.
func (h *Header) VisitAll(visit func(name, value []byte) bool) {
	for _, f := range h.fields {
		n := h.raw[f.NameStart : f.NameStart+f.NameLen]
		v := h.raw[f.ValueStart : f.ValueStart+f.ValueLen]
		if !visit(n, v) {
			return
		}
	}
}

// HasContentLength reports whether a valid, singular (or
// duplicated-but-identical) Content-Length field was present.
func (h *Header) HasContentLength() bool { return h.hasContentLength }

// ContentLength returns the parsed Content-Length, valid only when
// HasContentLength reports true.
func (h *Header) ContentLength() uint64 { return h.contentLength }

// IsChunked reports whether Transfer-Encoding's final coding is chunked.
func (h *Header) IsChunked() bool { return h.hasChunked }

// ConnectionClose reports whether the Connection field named "close".
func (h *Header) ConnectionClose() bool { return h.hasConnClose }

// HasUpgrade reports whether an Upgrade field was present.
func (h *Header) HasUpgrade() bool { return h.hasUpgrade }

// HasDuplicateHost reports whether more than one Host field was seen.
// Per spec (§9, open question a) the parser does not reject this; it
// only surfaces the fact for the consumer to police if desired.
func (h *Header) HasDuplicateHost() bool { return h.hasHostDuplicate }

// ContentEncodings reports which supported codings, if any, were named
// by the message's Content-Encoding field.
func (h *Header) ContentEncodings() EncodingFlags { return h.encodings }

// IsHeadResponse reports whether this response header was parsed (or
// marked, via Parser.StartHeadResponse) as carrying no body regardless
// of framing headers.
func (h *Header) IsHeadResponse() bool { return h.isHeadResponse }

// ForbidsBody reports whether framing rules forbid a body outright:
// 1xx/204/304 responses, or a HEAD response.
func (h *Header) ForbidsBody() bool { return h.forbidsBody }

func (h *Header) reset() {
	h.raw = h.raw[:0]
	h.fields = h.fields[:0]
	h.methodBytes = nil
	h.target = nil
	h.reqVersion = nil
	h.reason = nil
	h.respVersion = nil
	h.method = MethodUnknown
	h.statusCode = 0
	h.hasContentLength = false
	h.contentLength = 0
	h.hasChunked = false
	h.hasConnClose = false
	h.hasUpgrade = false
	h.hostSeen = false
	h.hasHostDuplicate = false
	h.encodings = EncodingNone
	h.isHeadResponse = false
	h.forbidsBody = false
}

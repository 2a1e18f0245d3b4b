package http1

import "bytes"

type parserState uint8

const (
	stateNeedStart parserState = iota
	stateStartLine
	stateHeaders
	stateHeadersDone
	stateBodyContentLength
	stateBodyChunked
	stateBodyNone
	stateComplete
)

// Parser is an incremental, non-blocking HTTP/1 message reader. It never
// performs I/O itself: the caller owns the transport and drives the
// parser through prepare/commit/Parse the way a reactor loop would feed
// bytes to any push-style codec. No call ever blocks waiting on more
// network data; when committed bytes run out mid-message, Parse returns
// ErrNeedMoreInput and the caller resumes once it has committed more.
type Parser struct {
	cfg       *ParserConfig
	container *Container
	ws        *workspace

	kind  Kind
	state parserState

	buf []byte // committed-but-unconsumed input
	pos int     // consumed cursor into buf
	eof bool

	header     Header
	gotHeader  bool
	complete   bool
	headHeader bool // response correlates to a HEAD request: no body regardless of framing

	bodyRemaining uint64 // for Content-Length framing
	bodyUntilEOF  bool   // response with no Content-Length/chunked: read until transport close
	chunk         *chunkDecoder

	decoder    Decoder
	pendingOut []byte // decoded bytes ready for PullBody
	outConsumed int

	sink    Sink
	ownSink *DynamicBufferSink
}

// NewParser returns a Parser sharing cfg and container with any number
// of sibling parsers; cfg must already be built (see ParserConfig.Build).
// container supplies the CodecService for every content-encoding cfg
// enables. NewParser does not look them up: a missing one is reported
// as ErrCodecNotInstalled by Parse, when a message whose Content-Encoding
// names that enabled coding reaches its body.
func NewParser(cfg *ParserConfig, container *Container) *Parser {
	cfg.Build()
	p := &Parser{
		cfg:       cfg,
		container: container,
		ws:        newWorkspace(cfg),
		chunk:     newChunkDecoder(),
	}
	return p
}

// Reset rewinds the parser to its initial state so it can be reused for
// the next message on the same connection (HTTP/1.1 keep-alive). Bytes
// already committed past the end of the previous message are preserved
// as the start of the next one, mirroring pipelined-request handling.
func (p *Parser) Reset() {
	leftover := p.buf[p.pos:]
	if len(leftover) > 0 {
		buf := make([]byte, len(leftover))
		copy(buf, leftover)
		p.buf = buf
	} else {
		p.buf = nil
	}
	p.pos = 0
	p.eof = false
	p.state = stateNeedStart
	p.gotHeader = false
	p.complete = false
	p.headHeader = false
	p.bodyRemaining = 0
	p.bodyUntilEOF = false
	p.chunk.reset()
	p.decoder = nil
	p.pendingOut = nil
	p.outConsumed = 0
	p.sink = nil
	p.ownSink = nil
	p.header.reset()
	p.ws.resetHeader()
}

// StartRequest begins reading a request message (method + target + version).
func (p *Parser) StartRequest() {
	p.Reset()
	p.kind = KindRequest
	p.header.kind = KindRequest
	p.state = stateStartLine
}

// StartResponse begins reading a response message (version + status + reason).
func (p *Parser) StartResponse() {
	p.Reset()
	p.kind = KindResponse
	p.header.kind = KindResponse
	p.state = stateStartLine
}

// StartHeadResponse is like StartResponse but additionally marks the
// message as correlating to a HEAD request: the framing headers are
// still parsed and validated, but no body is ever read, matching
// RFC 7230 §3.3.3 rule 1.
func (p *Parser) StartHeadResponse() {
	p.StartResponse()
	p.headHeader = true
}

// Prepare returns a writable region of at least n bytes (and at most
// MaxPrepare) that the caller fills with freshly read transport bytes
// before calling Commit. It never blocks and never performs I/O.
func (p *Parser) Prepare(n int) ([]byte, error) {
	if n < p.cfg.MinBuffer {
		n = p.cfg.MinBuffer
	}
	if n > p.cfg.MaxPrepare {
		n = p.cfg.MaxPrepare
	}
	cur := len(p.buf)
	needCap := cur + n
	if cap(p.buf) < needCap {
		grown := make([]byte, cur, needCap)
		copy(grown, p.buf)
		p.buf = grown
	}
	return p.buf[cur:cur:needCap][:n], nil
}

// Commit tells the parser that n bytes written into the region returned
// by the most recent Prepare are now valid input. It is the caller's
// job to have actually written them; this only advances buf's visible
// length, never copies.
func (p *Parser) Commit(n int) {
	p.buf = p.buf[:len(p.buf)+n]
}

// CommitEOF tells the parser the transport has reached end-of-stream; no
// further bytes will ever be committed. This allows Content-Length-free,
// non-chunked bodies (terminated by connection close) to complete.
func (p *Parser) CommitEOF() {
	p.eof = true
}

// GotHeader reports whether the start line and header block have been
// fully parsed and validated.
func (p *Parser) GotHeader() bool { return p.gotHeader }

// IsComplete reports whether the entire message, body included, has
// been parsed.
func (p *Parser) IsComplete() bool { return p.complete }

// Get returns the parsed header view. Valid once GotHeader reports true.
func (p *Parser) Get() *Header { return &p.header }

// SetBody installs the sink decoded body bytes are delivered to as the
// parser consumes them. It must be called after GotHeader and before
// the first PullBody/Parse call that would otherwise buffer the body
// internally; calling it before GotHeader or calling it twice panics.
// A sink installed after body bytes have already gone to the implicit
// internal sink is not detected: those earlier bytes stay in the
// internal buffer and only later bytes reach sink.
func (p *Parser) SetBody(sink Sink) {
	if !p.gotHeader {
		panicPrecondition("SetBody called before GotHeader")
	}
	if p.sink != nil {
		panicPrecondition("SetBody called twice")
	}
	p.sink = sink
}

// PullBody returns the decoded body bytes not yet released with
// ConsumeBody, along with whether more body data is still expected. It
// is only meaningful when no explicit sink was installed via SetBody;
// the parser falls back to an internal DynamicBufferSink in that case.
func (p *Parser) PullBody() (data []byte, more bool) {
	out := p.pendingOut[p.outConsumed:]
	return out, !p.complete
}

// ConsumeBody discards the first n bytes of the data last returned by
// PullBody, for callers that copy it out incrementally rather than
// holding the slice.
func (p *Parser) ConsumeBody(n int) {
	p.outConsumed += n
}

// Parse advances the state machine as far as it can over the bytes
// already committed. It returns ErrNeedMoreInput (non-terminal) when it
// has consumed everything available and needs the caller to Prepare/
// Commit more; any other non-nil error is a terminal parse failure.
func (p *Parser) Parse() error {
	for {
		switch p.state {
		case stateNeedStart:
			panicPrecondition("Parse called before StartRequest/StartResponse")

		case stateStartLine:
			line, ok, err := p.takeLine()
			if err != nil {
				return err
			}
			if !ok {
				if p.eof {
					return ErrInvalidStartLine
				}
				return ErrNeedMoreInput
			}
			if len(line) > p.cfg.Headers.MaxStartLine {
				return ErrHeadersTooLarge
			}
			if p.kind == KindRequest {
				err = p.parseRequestLine(line)
			} else {
				err = p.parseStatusLine(line)
			}
			if err != nil {
				return err
			}
			p.state = stateHeaders

		case stateHeaders:
			done, err := p.parseHeaderLines()
			if err != nil {
				return err
			}
			if !done {
				return ErrNeedMoreInput
			}
			p.finalizeHeaders()
			p.gotHeader = true
			p.state = stateHeadersDone
			// Return control here, before picking a body state: a
			// caller driving the set_body/got_header contract needs a
			// chance to install its own Sink between "header parsed"
			// and "body bytes start being delivered somewhere."
			return nil

		case stateHeadersDone:
			p.state = p.chooseBodyState()
			if p.sink == nil {
				p.ownSink = NewDynamicBufferSink(p.cfg.BodyLimit)
			}
			if err := p.installDecoder(); err != nil {
				return err
			}

		case stateBodyNone:
			p.complete = true
			p.state = stateComplete
			return nil

		case stateBodyContentLength:
			if err := p.stepContentLengthBody(); err != nil {
				return err
			}
			if !p.complete {
				return ErrNeedMoreInput
			}

		case stateBodyChunked:
			if err := p.stepChunkedBody(); err != nil {
				return err
			}
			if !p.complete {
				return ErrNeedMoreInput
			}

		case stateComplete:
			return nil
		}
	}
}

// takeLine returns the next CRLF-terminated line (CRLF excluded) from
// the unconsumed portion of buf, advancing pos past it. Bare LF (no
// preceding CR) is rejected outright per spec §4 hardening.
func (p *Parser) takeLine() (line []byte, ok bool, err error) {
	rest := p.buf[p.pos:]
	idx := bytes.IndexByte(rest, '\n')
	if idx < 0 {
		return nil, false, nil
	}
	if idx == 0 || rest[idx-1] != '\r' {
		return nil, false, ErrBareLF
	}
	line = rest[:idx-1]
	p.pos += idx + 1
	return line, true, nil
}

func (p *Parser) parseRequestLine(line []byte) error {
	parts := bytes.SplitN(line, []byte(" "), 3)
	if len(parts) != 3 {
		return ErrInvalidStartLine
	}
	methodBytes, target, version := parts[0], parts[1], parts[2]
	for _, c := range methodBytes {
		if !isTokenChar(c) {
			return ErrInvalidMethod
		}
	}
	if len(methodBytes) == 0 {
		return ErrInvalidMethod
	}
	if len(target) == 0 {
		return ErrInvalidTarget
	}
	if !bytes.HasPrefix(version, []byte("HTTP/1.")) || len(version) != 8 {
		return ErrInvalidVersion
	}
	if !p.ws.appendHeader(methodBytes) {
		return ErrHeadersTooLarge
	}
	p.header.methodBytes = p.ws.headerBytes()[len(p.ws.headerBytes())-len(methodBytes):]
	p.header.method = parseMethod(methodBytes)

	if !p.ws.appendHeader(target) {
		return ErrHeadersTooLarge
	}
	p.header.target = p.ws.headerBytes()[len(p.ws.headerBytes())-len(target):]

	if !p.ws.appendHeader(version) {
		return ErrHeadersTooLarge
	}
	p.header.reqVersion = p.ws.headerBytes()[len(p.ws.headerBytes())-len(version):]
	return nil
}

func (p *Parser) parseStatusLine(line []byte) error {
	parts := bytes.SplitN(line, []byte(" "), 3)
	if len(parts) < 2 {
		return ErrInvalidStartLine
	}
	version, code := parts[0], parts[1]
	var reason []byte
	if len(parts) == 3 {
		reason = parts[2]
	}
	if !bytes.HasPrefix(version, []byte("HTTP/1.")) || len(version) != 8 {
		return ErrInvalidVersion
	}
	if len(code) != 3 {
		return ErrInvalidStatusCode
	}
	status := 0
	for _, c := range code {
		if c < '0' || c > '9' {
			return ErrInvalidStatusCode
		}
		status = status*10 + int(c-'0')
	}
	if status < 100 || status > 599 {
		return ErrInvalidStatusCode
	}

	if !p.ws.appendHeader(version) {
		return ErrHeadersTooLarge
	}
	p.header.respVersion = p.ws.headerBytes()[len(p.ws.headerBytes())-len(version):]
	p.header.statusCode = status

	if !p.ws.appendHeader(reason) {
		return ErrHeadersTooLarge
	}
	p.header.reason = p.ws.headerBytes()[len(p.ws.headerBytes())-len(reason):]

	switch {
	case status >= 100 && status < 200, status == 204, status == 304:
		p.header.forbidsBody = true
	}
	if p.headHeader {
		p.header.forbidsBody = true
		p.header.isHeadResponse = true
	}
	return nil
}

// parseHeaderLines consumes as many complete header field lines as are
// currently committed, stopping at (and consuming) the blank line that
// terminates the block. It returns done=false, not an error, when the
// terminator has not yet arrived.
func (p *Parser) parseHeaderLines() (done bool, err error) {
	for {
		line, ok, lineErr := p.takeLine()
		if lineErr != nil {
			return false, lineErr
		}
		if !ok {
			if p.eof {
				return false, ErrInvalidHeader
			}
			return false, nil
		}
		if len(line) == 0 {
			return true, nil
		}
		if line[0] == ' ' || line[0] == '\t' {
			return false, ErrObsFold
		}
		if err := p.addHeaderField(line); err != nil {
			return false, err
		}
		if len(p.header.fields) > p.cfg.Headers.MaxFieldCount {
			return false, ErrTooManyFields
		}
	}
}

func (p *Parser) addHeaderField(line []byte) error {
	colon := bytes.IndexByte(line, ':')
	if colon <= 0 {
		return ErrInvalidHeader
	}
	name := line[:colon]
	for _, c := range name {
		if !isTokenChar(c) {
			return ErrInvalidHeader
		}
	}
	value := bytes.TrimSpace(line[colon+1:])

	if len(name) > p.cfg.Headers.MaxFieldName || len(value) > p.cfg.Headers.MaxFieldValue {
		return ErrHeadersTooLarge
	}

	if !p.ws.appendHeader(name) {
		return ErrHeadersTooLarge
	}
	nameBytes := p.ws.headerBytes()[len(p.ws.headerBytes())-len(name):]
	nameStart := len(p.ws.headerBytes()) - len(name)

	if !p.ws.appendHeader(value) {
		return ErrHeadersTooLarge
	}
	valueStart := len(p.ws.headerBytes()) - len(value)

	p.header.raw = p.ws.headerBytes()
	p.header.fields = append(p.header.fields, FieldOffset{
		NameStart:  nameStart,
		NameLen:    len(name),
		ValueStart: valueStart,
		ValueLen:   len(value),
	})

	return p.classifyHeaderField(nameBytes, value)
}

// classifyHeaderField updates framing flags as each field is seen so
// finalizeHeaders never has to re-scan the field table.
func (p *Parser) classifyHeaderField(name, value []byte) error {
	switch {
	case bytesEqualFold(name, []byte("Content-Length")):
		n, ok := parseUint(value)
		if !ok {
			return ErrInvalidContentLength
		}
		if p.header.hasContentLength && p.header.contentLength != n {
			return ErrDuplicateContentLength
		}
		p.header.hasContentLength = true
		p.header.contentLength = n

	case bytesEqualFold(name, []byte("Transfer-Encoding")):
		codings := bytes.Split(value, []byte(","))
		p.header.hasChunked = bytesEqualFold(bytes.TrimSpace(codings[len(codings)-1]), []byte("chunked"))

	case bytesEqualFold(name, []byte("Connection")):
		if containsTokenFold(value, "close") {
			p.header.hasConnClose = true
		}

	case bytesEqualFold(name, []byte("Upgrade")):
		p.header.hasUpgrade = true

	case bytesEqualFold(name, []byte("Host")):
		if p.header.hostSeen {
			p.header.hasHostDuplicate = true
		}
		p.header.hostSeen = true

	case bytesEqualFold(name, []byte("Content-Encoding")):
		if containsTokenFold(value, "gzip") {
			p.header.encodings |= EncodingGzip
		}
		if containsTokenFold(value, "deflate") {
			p.header.encodings |= EncodingDeflate
		}
		if containsTokenFold(value, "br") {
			p.header.encodings |= EncodingBrotli
		}
	}
	return nil
}

// finalizeHeaders applies the body-framing precedence rule: when both
// Transfer-Encoding: chunked and Content-Length are present, chunked
// governs and Content-Length is ignored outright (never treated as a
// competing truth) to close the classic request-smuggling seam.
func (p *Parser) finalizeHeaders() {
	if p.header.hasChunked {
		p.header.hasContentLength = false
	}
}

func (p *Parser) chooseBodyState() parserState {
	if p.header.forbidsBody {
		return stateBodyNone
	}
	if p.header.hasChunked {
		return stateBodyChunked
	}
	if p.header.hasContentLength {
		if p.header.contentLength == 0 {
			return stateBodyNone
		}
		p.bodyRemaining = p.header.contentLength
		return stateBodyContentLength
	}
	if p.kind == KindRequest {
		return stateBodyNone // no framing on a request implies no body
	}
	p.bodyUntilEOF = true // response with no framing: read until transport close
	return stateBodyContentLength
}

func (p *Parser) installDecoder() error {
	switch {
	case p.header.encodings.Has(EncodingGzip) && p.cfg.EnableGzip:
		svc, ok := Find[*GzipService](p.container)
		if !ok {
			return ErrCodecNotInstalled
		}
		d, err := svc.NewDecoder(p.cfg.ZlibWindowBits)
		if err != nil {
			return err
		}
		p.decoder = d
	case p.header.encodings.Has(EncodingDeflate) && p.cfg.EnableDeflate:
		svc, ok := Find[*DeflateService](p.container)
		if !ok {
			return ErrCodecNotInstalled
		}
		d, err := svc.NewDecoder(p.cfg.ZlibWindowBits)
		if err != nil {
			return err
		}
		p.decoder = d
	case p.header.encodings.Has(EncodingBrotli) && p.cfg.EnableBrotli:
		svc, ok := Find[*BrotliService](p.container)
		if !ok {
			return ErrCodecNotInstalled
		}
		d, err := svc.NewDecoder(0)
		if err != nil {
			return err
		}
		p.decoder = d
	default:
		p.decoder = identityDecoder{}
	}
	return nil
}

func (p *Parser) deliverBody(chunk []byte, more bool) error {
	out, _, _, err := p.decoder.Push(chunk)
	if err != nil {
		return err
	}
	target := p.sink
	if target == nil {
		target = p.ownSink
	}
	if _, err := target.Write(out, more); err != nil {
		return err
	}
	if p.sink == nil {
		p.pendingOut = p.ownSink.Bytes()
	}
	return nil
}

func (p *Parser) stepContentLengthBody() error {
	avail := p.buf[p.pos:]

	if p.bodyUntilEOF {
		if len(avail) > 0 {
			p.pos += len(avail)
			if err := p.deliverBody(avail, true); err != nil {
				return err
			}
		}
		if !p.eof {
			return nil // need more input; not terminal
		}
		if err := p.deliverBody(nil, false); err != nil {
			return err
		}
		p.complete = true
		p.state = stateComplete
		return nil
	}

	if uint64(len(avail)) == 0 {
		if p.eof {
			return ErrInvalidContentLength // connection closed before the declared length arrived
		}
		return nil
	}
	n := p.bodyRemaining
	if uint64(len(avail)) < n {
		n = uint64(len(avail))
	}
	p.pos += int(n)
	p.bodyRemaining -= n
	more := p.bodyRemaining > 0
	if err := p.deliverBody(avail[:n], more); err != nil {
		return err
	}
	if !more {
		p.complete = true
		p.state = stateComplete
	}
	return nil
}

func (p *Parser) stepChunkedBody() error {
	avail := p.buf[p.pos:]
	var data []byte
	consumed, done, err := p.chunk.step(avail, &data, &p.header, p.cfg.Headers)
	p.pos += consumed
	if err != nil {
		return err
	}
	if len(data) > 0 || done {
		if err := p.deliverBody(data, !done); err != nil {
			return err
		}
	}
	if done {
		p.complete = true
		p.state = stateComplete
	}
	return nil
}

func parseUint(b []byte) (uint64, bool) {
	if len(b) == 0 {
		return 0, false
	}
	var v uint64
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		v = v*10 + uint64(c-'0')
	}
	return v, true
}

func containsTokenFold(value []byte, token string) bool {
	for _, part := range bytes.Split(value, []byte(",")) {
		if bytesEqualFold(bytes.TrimSpace(part), []byte(token)) {
			return true
		}
	}
	return false
}

package http1

import "bytes"

// chunkPhase is the sub-state of chunked transfer-encoding decoding,
// nested inside the Parser's reading_chunk_* states from the FSM in
// spec §4.1.
type chunkPhase uint8

const (
	chunkPhaseSize chunkPhase = iota
	chunkPhaseData
	chunkPhaseDataCRLF
	chunkPhaseTrailers
	chunkPhaseDone
)

// chunkDecoder incrementally strips chunked transfer-encoding framing
// (RFC 7230 §4.1) from committed input bytes. Unlike the pull-style
// io.Reader chunk readers common in blocking HTTP stacks, step() never
// blocks: it consumes as much of buf as forms complete framing, and
// reports how much it could not yet act on so the caller can leave it
// committed for the next call once more bytes arrive.
type chunkDecoder struct {
	phase     chunkPhase
	size      uint64
	remaining uint64
	maxChunk  uint64
}

func newChunkDecoder() *chunkDecoder {
	return &chunkDecoder{maxChunk: 1 << 24} // 16MiB per chunk, DoS guard
}

func (c *chunkDecoder) reset() {
	c.phase = chunkPhaseSize
	c.size = 0
	c.remaining = 0
}

// step advances over buf, appending decoded chunk-data bytes (framing
// stripped) to data, and returns the number of bytes of buf it consumed.
// done is true once the terminating zero-size chunk, any trailer
// fields, and the final CRLF have all been consumed. trailers receives
// any trailer fields parsed after the last chunk, subject to the same
// size limits as the main header block (§9 open question b: trailers
// that do not fit within the configured header limits are discarded
// silently rather than raising an error).
func (c *chunkDecoder) step(buf []byte, data *[]byte, trailers *Header, limits HeaderLimits) (consumed int, done bool, err error) {
	pos := 0
	for pos < len(buf) {
		switch c.phase {
		case chunkPhaseSize:
			idx := bytes.Index(buf[pos:], crlf)
			if idx < 0 {
				if len(buf[pos:]) > limits.MaxFieldValue {
					return pos, false, ErrInvalidChunk
				}
				return pos, false, nil // need more input
			}
			line := buf[pos : pos+idx]
			if semi := bytes.IndexByte(line, ';'); semi >= 0 {
				line = line[:semi] // chunk extensions ignored (smuggling hardening)
			}
			line = bytes.TrimRight(line, " \t")
			if len(line) == 0 {
				return pos, false, ErrInvalidChunk
			}
			var size uint64
			for _, b := range line {
				v, ok := hexVal(b)
				if !ok {
					return pos, false, ErrInvalidChunk
				}
				size = size<<4 | uint64(v)
				if size > c.maxChunk {
					return pos, false, ErrInvalidChunk
				}
			}
			pos += idx + 2
			c.size = size
			c.remaining = size
			if size == 0 {
				c.phase = chunkPhaseTrailers
			} else {
				c.phase = chunkPhaseData
			}

		case chunkPhaseData:
			n := int(c.remaining)
			if n > len(buf)-pos {
				n = len(buf) - pos
			}
			*data = append(*data, buf[pos:pos+n]...)
			pos += n
			c.remaining -= uint64(n)
			if c.remaining == 0 {
				c.phase = chunkPhaseDataCRLF
			} else {
				return pos, false, nil // need more input
			}

		case chunkPhaseDataCRLF:
			if len(buf)-pos < 2 {
				return pos, false, nil
			}
			if buf[pos] != '\r' || buf[pos+1] != '\n' {
				return pos, false, ErrInvalidChunk
			}
			pos += 2
			c.phase = chunkPhaseSize

		case chunkPhaseTrailers:
			idx := bytes.Index(buf[pos:], crlf)
			if idx < 0 {
				if len(buf[pos:]) > limits.MaxFieldValue {
					return pos, false, ErrInvalidChunk
				}
				return pos, false, nil
			}
			if idx == 0 {
				// Empty line: end of trailer section.
				pos += 2
				c.phase = chunkPhaseDone
				return pos, true, nil
			}
			line := buf[pos : pos+idx]
			if trailers != nil && trailers.raw != nil {
				appendTrailerField(trailers, line, limits)
			}
			pos += idx + 2

		case chunkPhaseDone:
			return pos, true, nil
		}
	}
	return pos, c.phase == chunkPhaseDone, nil
}

func appendTrailerField(h *Header, line []byte, limits HeaderLimits) {
	colon := bytes.IndexByte(line, ':')
	if colon <= 0 {
		return
	}
	name := bytes.TrimSpace(line[:colon])
	value := bytes.TrimSpace(line[colon+1:])
	if len(name) > limits.MaxFieldName || len(value) > limits.MaxFieldValue {
		return // discarded silently, per spec §9 open question b
	}
	if len(h.fields) >= limits.MaxFieldCount {
		return
	}
	if len(h.raw)+len(name)+len(value) > limits.MaxHeaderBytes {
		return
	}
	nameStart := len(h.raw)
	h.raw = append(h.raw, name...)
	valueStart := len(h.raw)
	h.raw = append(h.raw, value...)
	h.fields = append(h.fields, FieldOffset{
		NameStart:  nameStart,
		NameLen:    len(name),
		ValueStart: valueStart,
		ValueLen:   len(value),
	})
}

func hexVal(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

var crlf = []byte("\r\n")

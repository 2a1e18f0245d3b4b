package http1

import (
	"io"
	"reflect"
	"sync"
)

// codecStateReserve is the workspace headroom set aside for a codec's
// in-flight decompressor state (window buffers, Huffman tables, etc.).
// The codec implementations here allocate their own state on the Go
// heap rather than in the arena (the klauspost and andybalholm/brotli
// readers own their buffers); this constant documents the budget a C++
// implementation would carve out of the arena for the same purpose.
const codecStateReserve = 64 * 1024

// Container is a process-local, type-keyed, append-only polymorphic
// store, matching the service container described in spec §4.2. Codec
// services are installed here once and looked up by a parser when a
// message's body phase begins; a parser configured to decode a coding
// whose service was never installed reports ErrCodecNotInstalled for
// the first message that uses that coding, not at construction.
// Serializers hold the container but do not look anything up in it.
type Container struct {
	mu     sync.RWMutex
	values map[reflect.Type]any
	order  []io.Closer
}

// NewContainer returns an empty service container.
func NewContainer() *Container {
	return &Container{values: make(map[reflect.Type]any)}
}

// Install stores v, keyed by its static type T. If T implements
// io.Closer, it is closed (in reverse insertion order) by Clear.
func Install[T any](c *Container, v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := reflect.TypeOf((*T)(nil)).Elem()
	c.values[t] = v
	if closer, ok := any(v).(io.Closer); ok {
		c.order = append(c.order, closer)
	}
}

// Find returns the service installed under type T, if any.
func Find[T any](c *Container) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t := reflect.TypeOf((*T)(nil)).Elem()
	v, ok := c.values[t]
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// Clear tears down every installed service, closing Closers in reverse
// insertion order, then discards all entries. Removal is all-or-nothing.
func (c *Container) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var firstErr error
	for i := len(c.order) - 1; i >= 0; i-- {
		if err := c.order[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.order = nil
	c.values = make(map[reflect.Type]any)
	return firstErr
}

// Decoder is a push-style decompression state machine. Push hands the
// decoder more compressed input bytes and returns however many decoded
// bytes it produced along with how many input bytes it consumed. Not
// every input byte need be consumed in one call; the caller resubmits
// the remainder (or appends more input) on the next Push.
type Decoder interface {
	// Push decodes as much of in as possible into a buffer it owns,
	// returning that buffer, the number of input bytes consumed, and
	// whether it reached the end of the compressed stream.
	Push(in []byte) (out []byte, consumed int, eos bool, err error)

	// Close releases the decoder's internal state.
	Close() error
}

// CodecService constructs Decoders for one content-coding. Implementations
// are installed into a Container under their own concrete type so a
// Parser can look them up by the well-known service type for the coding
// it was configured to decode.
type CodecService interface {
	// NewDecoder returns a fresh Decoder. windowBits carries
	// ParserConfig.ZlibWindowBits (0 for brotli); the gzip, deflate and
	// brotli services in this package ignore it.
	NewDecoder(windowBits int) (Decoder, error)
}

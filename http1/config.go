package http1

// HeaderLimits bounds the size of the start line and header block a
// Parser will accept. Every field is an inclusive upper bound; exceeding
// any of them is a terminal ErrHeadersTooLarge (or a more specific
// sentinel where one exists).
type HeaderLimits struct {
	// MaxStartLine bounds the request or status line, CRLF excluded.
	MaxStartLine int

	// MaxFieldName bounds a single header field name.
	MaxFieldName int

	// MaxFieldValue bounds a single header field value.
	MaxFieldValue int

	// MaxFieldCount bounds the number of header fields, trailers
	// included.
	MaxFieldCount int

	// MaxHeaderBytes bounds the total size of the header block
	// (start line + all fields), which is what actually limits the
	// flat header buffer carved out of the workspace.
	MaxHeaderBytes int
}

// DefaultHeaderLimits returns conservative limits suitable for most
// servers, modeled on the 8KB request-line/header budget widely used in
// the reference implementations this toolkit is descended from.
func DefaultHeaderLimits() HeaderLimits {
	return HeaderLimits{
		MaxStartLine:   8192,
		MaxFieldName:   128,
		MaxFieldValue:  8192,
		MaxFieldCount:  128,
		MaxHeaderBytes: 16384,
	}
}

// ParserConfig is immutable once built and may be shared by arbitrarily
// many Parser instances; it precomputes the workspace size every parser
// built from it will need, so that construction never has to grow a
// buffer at run time.
type ParserConfig struct {
	Headers HeaderLimits

	// BodyLimit bounds the decoded body size, measured after any
	// content-encoding has been undone.
	BodyLimit uint64

	// EnableGzip, EnableDeflate, EnableBrotli enable the matching
	// content-encoding decoder. Each requires a matching CodecService
	// to be installed in the Container passed to NewParser; a missing
	// one is reported by Parse as ErrCodecNotInstalled for the first
	// message that uses that coding, not when the parser is built.
	EnableGzip    bool
	EnableDeflate bool
	EnableBrotli  bool

	// ZlibWindowBits is passed to the gzip and deflate services'
	// NewDecoder; the decoders in this package ignore it, so it does not
	// bound the decompression window.
	ZlibWindowBits int

	// MinBuffer is the smallest size prepare() will ever report, and the
	// increment the input buffer grows by when more room is needed.
	// Must be > 0.
	MinBuffer int

	// MaxPrepare bounds the largest single writable region prepare()
	// will ever report. Must be > 0.
	MaxPrepare int

	// MaxTypeErase reserves workspace space for the type-erased sink
	// slot (the concrete Sink value installed by set_body, or the
	// parser's own dynamic-buffer sink when none is installed).
	MaxTypeErase int

	// derived, computed by Build.
	workspaceSize int
}

// NewParserConfig returns the default configuration: all codecs
// disabled, an 8KB start-line and field-value limit, a 16KB header
// block, a 64KB body limit matching common reverse-proxy defaults.
func NewParserConfig() *ParserConfig {
	c := &ParserConfig{
		Headers:        DefaultHeaderLimits(),
		BodyLimit:      64 * 1024,
		ZlibWindowBits: 15,
		MinBuffer:      4096,
		MaxPrepare:     1 << 20,
		MaxTypeErase:   1024,
	}
	c.build()
	return c
}

// Build finalizes the configuration, precomputing the total workspace
// size a Parser constructed from it will allocate. It panics (a
// programmer error, not an input error) if MaxPrepare or MinBuffer is
// zero, matching the "0 is rejected" rule in spec §6.
func (c *ParserConfig) Build() *ParserConfig {
	c.build()
	return c
}

func (c *ParserConfig) build() {
	if c.MinBuffer == 0 {
		panicPrecondition("ParserConfig.MinBuffer must not be zero")
	}
	if c.MaxPrepare == 0 {
		panicPrecondition("ParserConfig.MaxPrepare must not be zero")
	}
	// Workspace layout: flat header buffer, two circular body buffers
	// (pre-codec input staging and post-codec decoded output), codec
	// state headroom, type-erased sink storage, and the field offset
	// table. See workspace.go for the concrete arena this sizes.
	fieldTable := c.Headers.MaxFieldCount * fieldOffsetSize
	c.workspaceSize = c.Headers.MaxHeaderBytes +
		c.MinBuffer + c.MinBuffer +
		codecStateReserve +
		c.MaxTypeErase +
		fieldTable
}

// WorkspaceSize returns the precomputed total size, in bytes, of the
// arena a Parser built from this config will own.
func (c *ParserConfig) WorkspaceSize() int {
	if c.workspaceSize == 0 {
		c.build()
	}
	return c.workspaceSize
}

package http1

import "errors"

// Parser and serializer errors. Each is a distinct sentinel so callers
// can use errors.Is without string matching, the same convention the
// wire layer has always used for its error taxonomy.
var (
	// ErrInvalidStartLine indicates a malformed request or status line.
	ErrInvalidStartLine = errors.New("http1: invalid start line")

	// ErrInvalidMethod indicates the request method token is empty or
	// contains characters outside the RFC 7230 token grammar.
	ErrInvalidMethod = errors.New("http1: invalid method")

	// ErrInvalidTarget indicates a malformed request-target.
	ErrInvalidTarget = errors.New("http1: invalid request target")

	// ErrInvalidVersion indicates an unsupported or malformed HTTP version.
	ErrInvalidVersion = errors.New("http1: invalid HTTP version")

	// ErrInvalidStatusCode indicates a malformed or out-of-range status code.
	ErrInvalidStatusCode = errors.New("http1: invalid status code")

	// ErrBareLF indicates a line terminated by LF without a preceding CR.
	// The parser accepts CRLF strictly; bare LF is rejected.
	ErrBareLF = errors.New("http1: bare LF is not allowed")

	// ErrObsFold indicates an obs-folded header continuation line, which
	// RFC 7230 permits implementations to reject.
	ErrObsFold = errors.New("http1: obsolete line folding rejected")

	// ErrInvalidHeader indicates a malformed header field line.
	ErrInvalidHeader = errors.New("http1: invalid header field")

	// ErrHeadersTooLarge indicates the header block exceeded the
	// configured size limit.
	ErrHeadersTooLarge = errors.New("http1: headers too large")

	// ErrTooManyFields indicates the header field count exceeded the
	// configured limit.
	ErrTooManyFields = errors.New("http1: too many header fields")

	// ErrBodyTooLarge indicates the decoded body exceeded the configured
	// body limit.
	ErrBodyTooLarge = errors.New("http1: body too large")

	// ErrInvalidContentLength indicates a malformed Content-Length value.
	ErrInvalidContentLength = errors.New("http1: invalid Content-Length")

	// ErrDuplicateContentLength indicates two Content-Length header
	// fields with differing values (RFC 7230 §3.3.3).
	ErrDuplicateContentLength = errors.New("http1: duplicate Content-Length with differing values")

	// ErrInvalidChunk indicates malformed chunked transfer-encoding
	// framing.
	ErrInvalidChunk = errors.New("http1: invalid chunk framing")

	// ErrCodecNotInstalled indicates a content-encoding was enabled in
	// the parser config but no matching codec service was found in the
	// service container when a message using that coding reached its
	// body phase.
	ErrCodecNotInstalled = errors.New("http1: codec service not installed")

	// ErrBufferTooSmall indicates prepare() was asked for more space
	// than the workspace has remaining.
	ErrBufferTooSmall = errors.New("http1: buffer too small")

	// ErrBodyAlreadySet names the set-body-twice condition. Parser.SetBody
	// does not return it: a second call panics with a precondition error.
	ErrBodyAlreadySet = errors.New("http1: body sink already set")

	// ErrNeedMoreInput is not a terminal error. It signals that parse()
	// consumed everything committed and is waiting on more transport
	// bytes. Callers inspect it the same way as any other code returned
	// through the parse(&ec) channel, per the error-handling policy.
	ErrNeedMoreInput = errors.New("http1: need more input")
)

// logicError reports a precondition violation: calling code misused the
// API (e.g. set_body before got_header). These are not part of the input
// error taxonomy and are never returned from parse(); they panic, the
// same way a C++ implementation would throw a logic_error.
type logicError struct{ msg string }

func (e *logicError) Error() string { return "http1: " + e.msg }

func panicPrecondition(msg string) {
	panic(&logicError{msg: msg})
}

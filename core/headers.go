package core

// Pre-compiled header constants to avoid string allocations on every request.
//
// Using byte slices instead of strings eliminates allocations when setting headers.
// These constants are shared across all requests and never modified.
//
// Performance impact:
//   - Before: SetHeader("Content-Type", "application/json") = 2 allocs
//   - After:  setContentTypeJSON() = 0 allocs
//
// Savings: 2-3 allocations per request for common headers.

// Header names (byte slice constants)
var (
	headerContentType = []byte("Content-Type")
	headerServer       = []byte("Server")
	headerCacheControl = []byte("Cache-Control")
)

// Content-Type values (byte slice constants)
var (
	contentTypeJSON = []byte("application/json")
	contentTypeText = []byte("text/plain; charset=utf-8")
	contentTypeHTML = []byte("text/html; charset=utf-8")
)

// Pre-allocated header value slices (bypass net/textproto allocation).
// These are shared, read-only slices that can be assigned directly to
// http.Header maps without going through Header().Set(), which triggers
// canonicalization on every call.
var (
	contentTypeJSONSlice = []string{"application/json"}
	contentTypeTextSlice = []string{"text/plain; charset=utf-8"}
	contentTypeHTMLSlice = []string{"text/html; charset=utf-8"}
)

// Other common header values
var (
	serverBolt   = []byte("Bolt")
	cacheNoCache = []byte("no-cache, no-store, must-revalidate")
)

// setContentTypeJSON sets Content-Type to application/json (zero-allocation).
//
//go:inline
func (c *Context) setContentTypeJSON() {
	if c.httpRes != nil {
		c.httpRes.Header()["Content-Type"] = contentTypeJSONSlice
		return
	}

	if c.shockwaveRes != nil {
		_ = c.shockwaveRes.Header().Set(headerContentType, contentTypeJSON)
		return
	}

	if c.testResHeaders == nil {
		c.testResHeaders = make(map[string]string, 4)
	}
	c.testResHeaders["Content-Type"] = "application/json"
}

// setContentTypeText sets Content-Type to text/plain; charset=utf-8 (zero-allocation).
//
//go:inline
func (c *Context) setContentTypeText() {
	if c.httpRes != nil {
		c.httpRes.Header()["Content-Type"] = contentTypeTextSlice
		return
	}
	if c.shockwaveRes != nil {
		_ = c.shockwaveRes.Header().Set(headerContentType, contentTypeText)
		return
	}
	if c.testResHeaders == nil {
		c.testResHeaders = make(map[string]string, 4)
	}
	c.testResHeaders["Content-Type"] = "text/plain; charset=utf-8"
}

// setContentTypeHTML sets Content-Type to text/html; charset=utf-8 (zero-allocation).
//
//go:inline
func (c *Context) setContentTypeHTML() {
	if c.httpRes != nil {
		c.httpRes.Header()["Content-Type"] = contentTypeHTMLSlice
		return
	}
	if c.shockwaveRes != nil {
		_ = c.shockwaveRes.Header().Set(headerContentType, contentTypeHTML)
		return
	}
	if c.testResHeaders == nil {
		c.testResHeaders = make(map[string]string, 4)
	}
	c.testResHeaders["Content-Type"] = "text/html; charset=utf-8"
}

// SetServerHeader sets the Server header to "Bolt" (zero-allocation).
func (c *Context) SetServerHeader() {
	c.SetHeaderBytes(headerServer, serverBolt)
}

// SetNoCacheHeaders sets cache-control headers to prevent caching (zero-allocation).
func (c *Context) SetNoCacheHeaders() {
	c.SetHeaderBytes(headerCacheControl, cacheNoCache)
}

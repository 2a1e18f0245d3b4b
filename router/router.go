package router

import (
	"context"
	"sync"
)

// Entry describes one fully registered route: its method, source
// pattern, and the Handler with that route's own middleware chain
// already composed around it. Router.Entries and Build both work in
// terms of Entry so the compiled FlatRouter never has to re-walk
// middleware composition at dispatch time.
type Entry struct {
	Method  string
	Pattern string
	Handler Handler
}

// Router is the route-tree builder: a hybrid of an exact-match static
// table and a per-method radix tree, generalized from the teacher's
// core.Router to also support mounting nested Layers and to carry a
// Token-returning Handler/Middleware chain instead of a plain error
// return. Router is mutable and safe for concurrent registration up
// until the point a FlatRouter is built from it; mutating it afterward
// does not retroactively change an already-built FlatRouter.
type Router struct {
	mu sync.RWMutex

	middleware []Middleware

	static map[string]map[string]Handler // method -> literal path -> terminal handler
	trees  map[string]*node              // method -> radix tree root

	routes []Entry // registration-order record, used by Entries/Build

	depth int // this router's own nesting depth, set when Mounted
}

// NewRouter returns an empty Router at nesting depth 1 (unmounted).
func NewRouter() *Router {
	return &Router{
		static: make(map[string]map[string]Handler),
		trees:  make(map[string]*node),
		depth:  1,
	}
}

// Use appends middleware to this Router's chain. Handle composes the
// chain as it stands when a route is registered, so the new middleware
// wraps routes registered after the call; routes registered before it
// are not wrapped.
func (r *Router) Use(mw ...Middleware) *Router {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middleware = append(r.middleware, mw...)
	return r
}

// Handle registers handler for method and pattern, wrapped in this
// Router's current middleware chain. Pattern syntax matches the
// teacher's: "/users/:id" for a single parameter, "/files/*path" for a
// trailing catch-all, anything else literal.
func (r *Router) Handle(method, pattern string, handler Handler) *Router {
	r.mu.Lock()
	defer r.mu.Unlock()

	wrapped := chain(r.middleware, handler)
	r.routes = append(r.routes, Entry{Method: method, Pattern: pattern, Handler: wrapped})
	segs := splitPattern(pattern)

	if isLiteralOnly(segs) {
		m, ok := r.static[method]
		if !ok {
			m = make(map[string]Handler)
			r.static[method] = m
		}
		m[pattern] = wrapped
		return r
	}

	root := r.trees[method]
	if root == nil {
		root = &node{}
		r.trees[method] = root
	}
	cur := root
	for i, seg := range segs {
		cur = cur.findOrCreateChild(seg)
		if i == len(segs)-1 {
			cur.handler = wrapped
		}
	}
	if len(segs) == 0 {
		root.handler = wrapped
	}
	return r
}

// Get, Post, Put, Delete, Patch are Handle shorthands for the common
// methods, matching the ergonomics of the teacher's App.Get/.Post/etc.
func (r *Router) Get(pattern string, h Handler) *Router    { return r.Handle("GET", pattern, h) }
func (r *Router) Post(pattern string, h Handler) *Router   { return r.Handle("POST", pattern, h) }
func (r *Router) Put(pattern string, h Handler) *Router    { return r.Handle("PUT", pattern, h) }
func (r *Router) Delete(pattern string, h Handler) *Router { return r.Handle("DELETE", pattern, h) }
func (r *Router) Patch(pattern string, h Handler) *Router  { return r.Handle("PATCH", pattern, h) }

// Mount attaches layer under prefix: any request whose path starts with
// prefix is forwarded into layer's Router with the prefix segments
// stripped. Depth is cumulative across nested Mounts; exceeding
// maxLayerDepth is a construction-time panic (a programmer error, not an
// input one) since it can only happen from how the routes were wired up,
// never from request content.
func (r *Router) Mount(prefix string, layer *Layer) *Router {
	r.mu.Lock()
	defer r.mu.Unlock()

	newDepth := layer.router.depth + 1
	if newDepth > maxLayerDepth {
		panicPrecondition("Mount nesting exceeds maxLayerDepth")
	}
	layer.depth = newDepth
	if newDepth > r.depth {
		r.depth = newDepth
	}

	segs := splitPattern(prefix)
	for _, method := range allMethods {
		root := r.trees[method]
		if root == nil {
			root = &node{}
			r.trees[method] = root
		}
		cur := root
		for _, seg := range segs {
			cur = cur.findOrCreateChild(seg)
		}
		cur.mount = layer
		cur.mountSegs = len(segs)
	}
	trimmedPrefix := "/" + joinRemaining(splitPath(prefix), 0)
	for _, e := range layer.router.Entries() {
		r.routes = append(r.routes, Entry{
			Method:  e.Method,
			Pattern: trimmedPrefix + e.Pattern,
			Handler: e.Handler,
		})
	}
	return r
}

// Entries returns every route registered on r, in registration order,
// including those pulled in transitively through Mount. Each Handler is
// already fully composed with its owning Router's (and, transitively,
// Layer's) middleware chain.
func (r *Router) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, len(r.routes))
	copy(out, r.routes)
	return out
}

var allMethods = []string{"GET", "HEAD", "POST", "PUT", "DELETE", "CONNECT", "OPTIONS", "TRACE", "PATCH"}

func isLiteralOnly(segs []segment) bool {
	for _, s := range segs {
		if s.kind != segLiteral {
			return false
		}
	}
	return true
}

// Dispatch matches method/path against the registered routes, calls the
// winning route's composed Handler once and returns the Token it yields.
// Dispatch does not act on that Token: on NextRoute no other route is
// tried. This is the unflattened, tree-walking path; FlatRouter.Dispatch
// is the compiled equivalent meant for the request hot path.
func (r *Router) Dispatch(ctx context.Context, method, path string) (Token, *RouteParams, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if m, ok := r.static[method]; ok {
		if h, ok := m[path]; ok {
			rp := newRouteParams(method, path)
			tok, err := h(ctx, rp)
			return tok, rp, err
		}
	}

	root := r.trees[method]
	if root == nil {
		return 0, nil, ErrNotFound
	}
	segs := splitPath(path)
	rp := newRouteParams(method, path)
	found := root.search(segs, 0, rp)
	if found == nil {
		return 0, nil, ErrNotFound
	}
	if found.mount != nil {
		sub := found.mount.router
		subPath := "/" + joinRemaining(segs, found.mountSegs)
		return sub.Dispatch(ctx, method, subPath)
	}
	if found.handler == nil {
		return 0, nil, ErrNotFound
	}
	tok, err := found.handler(ctx, rp)
	return tok, rp, err
}

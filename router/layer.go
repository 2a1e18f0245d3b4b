package router

const maxLayerDepth = 16

// Layer is a mountable, independently configured Router: it carries its
// own middleware chain, and when mounted under a parent Router via
// Mount, every request whose path falls under the mount prefix is
// forwarded into it with that prefix stripped. Nesting is capped at
// maxLayerDepth to bound both stack depth during matching and the worst
// case Build has to walk.
type Layer struct {
	router *Router
	depth  int
}

// NewLayer wraps r so it can be mounted into a parent Router.
func NewLayer(r *Router) *Layer {
	return &Layer{router: r, depth: 1}
}

// Router returns the underlying Router for further registration.
func (l *Layer) Router() *Router { return l.router }

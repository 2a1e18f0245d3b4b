package router

import "context"

// FlatRouter is the compiled, request-hot-path form of a Router tree.
// Building one walks every Entry (including those pulled in through
// nested Mounts) via Router.Entries, each already carrying its fully
// composed middleware chain, and re-inserts them into a single flat set
// of per-method tries. Dispatching against a FlatRouter therefore never
// recurses through Layer boundaries at request time the way
// Router.Dispatch does; the nesting was paid for once at Build.
type FlatRouter struct {
	static map[string]map[string]Handler
	trees  map[string]*node
}

// Build compiles r (and everything reachable through its Mounts) into a
// FlatRouter. r may keep being mutated afterward; those changes are not
// reflected until Build is called again.
func Build(r *Router) *FlatRouter {
	fr := &FlatRouter{
		static: make(map[string]map[string]Handler),
		trees:  make(map[string]*node),
	}
	for _, e := range r.Entries() {
		segs := splitPattern(e.Pattern)
		if isLiteralOnly(segs) {
			m, ok := fr.static[e.Method]
			if !ok {
				m = make(map[string]Handler)
				fr.static[e.Method] = m
			}
			m[e.Pattern] = e.Handler
			continue
		}
		root := fr.trees[e.Method]
		if root == nil {
			root = &node{}
			fr.trees[e.Method] = root
		}
		cur := root
		for i, seg := range segs {
			cur = cur.findOrCreateChild(seg)
			if i == len(segs)-1 {
				cur.handler = e.Handler
			}
		}
	}
	return fr
}

// Dispatch matches method/path against the compiled tries, calls the
// winning route's composed Handler once and returns the Token it yields
// without acting on it, the same contract as Router.Dispatch but without
// any Layer-boundary recursion.
func (fr *FlatRouter) Dispatch(ctx context.Context, method, path string) (Token, *RouteParams, error) {
	if m, ok := fr.static[method]; ok {
		if h, ok := m[path]; ok {
			rp := newRouteParams(method, path)
			tok, err := h(ctx, rp)
			return tok, rp, err
		}
	}

	root := fr.trees[method]
	if root == nil {
		return 0, nil, ErrNotFound
	}
	segs := splitPath(path)
	rp := newRouteParams(method, path)
	found := root.search(segs, 0, rp)
	if found == nil || found.handler == nil {
		return 0, nil, ErrNotFound
	}
	tok, err := found.handler(ctx, rp)
	return tok, rp, err
}

package router

import "context"

// Handler is the coroutine-shaped request handler: it receives the
// matched RouteParams and returns a Token telling the dispatcher what to
// do next, plus an error that terminates the chain outright regardless
// of the token (matching the three-way failure split used across this
// toolkit: programmer errors panic, input/control-flow is the Token,
// and anything below the handler that genuinely failed is this error).
type Handler func(ctx context.Context, rp *RouteParams) (Token, error)

// Middleware wraps a Handler to produce another Handler, the same
// decorator shape the teacher's core.Middleware uses, generalized to the
// Token-returning signature.
type Middleware func(Handler) Handler

// chain composes middleware around a terminal handler, outermost first,
// identical in spirit to the teacher's ChainLink.Use fluent composition
// but built as a plain slice fold since Layer/Router need to store and
// re-flatten chains rather than build them once and throw the builder
// away.
func chain(mws []Middleware, terminal Handler) Handler {
	h := terminal
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Resume drives a previously suspended RouteParams' stashed Resumer to
// completion. It clears Suspender first so a Resumer that itself
// suspends again (e.g. a multi-step upload handler) cannot be invoked
// twice by mistake.
func Resume(ctx context.Context, rp *RouteParams) (Token, error) {
	if rp.Suspender == nil {
		return 0, ErrNotSuspended
	}
	r := rp.Suspender
	rp.Suspender = nil
	return r(ctx, rp)
}
